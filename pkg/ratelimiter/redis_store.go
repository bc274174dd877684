package ratelimiter

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// tokenBucketScript mirrors MemoryStore.ConsumeTokens atomically in Redis.
// KEYS[1] bucket key; ARGV capacity, refill rate, interval ms, tokens, now ms.
// Returns {remaining, reset_at_ms}.
var tokenBucketScript = redis.NewScript(`
local key = KEYS[1]
local capacity = tonumber(ARGV[1])
local rate = tonumber(ARGV[2])
local interval = tonumber(ARGV[3])
local requested = tonumber(ARGV[4])
local now = tonumber(ARGV[5])

local state = redis.call('HMGET', key, 'tokens', 'last')
local tokens = tonumber(state[1])
local last = tonumber(state[2])
if tokens == nil or last == nil then
  tokens = capacity
  last = now
end

local intervals = math.floor((now - last) / interval)
if intervals > 0 then
  local cap = math.floor(capacity / rate) + 1
  if intervals > cap then intervals = cap end
  tokens = math.min(tokens + intervals * rate, capacity)
  last = now
end

tokens = tokens - requested
redis.call('HSET', key, 'tokens', tokens, 'last', last)
redis.call('PEXPIRE', key, interval * (math.floor(capacity / rate) + 1))
return {tokens, last + interval}
`)

// RedisStore keeps buckets in Redis hashes so every instance shares them.
type RedisStore struct {
	client redis.Scripter
	prefix string
	now    func() time.Time
}

var _ Store = (*RedisStore)(nil)

// RedisStoreOption configures a RedisStore.
type RedisStoreOption func(*RedisStore)

// WithKeyPrefix namespaces bucket keys.
func WithKeyPrefix(prefix string) RedisStoreOption {
	return func(s *RedisStore) {
		s.prefix = prefix
	}
}

// WithRedisClock replaces time.Now.
func WithRedisClock(now func() time.Time) RedisStoreOption {
	return func(s *RedisStore) {
		if now != nil {
			s.now = now
		}
	}
}

// NewRedisStore creates a RedisStore. Any go-redis client satisfies redis.Scripter.
func NewRedisStore(client redis.Scripter, opts ...RedisStoreOption) *RedisStore {
	s := &RedisStore{client: client, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *RedisStore) ConsumeTokens(ctx context.Context, key string, tokens int, config Config) (int, time.Time, error) {
	vals, err := tokenBucketScript.Run(ctx, s.client,
		[]string{s.prefix + key},
		config.Capacity,
		config.RefillRate,
		config.RefillInterval.Milliseconds(),
		tokens,
		s.now().UnixMilli(),
	).Int64Slice()
	if err != nil {
		return 0, time.Time{}, errors.Join(ErrStoreUnavailable, err)
	}
	if len(vals) != 2 {
		return 0, time.Time{}, fmt.Errorf("%w: unexpected script reply %v", ErrStoreUnavailable, vals)
	}
	return int(vals[0]), time.UnixMilli(vals[1]), nil
}

// Reset deletes the bucket. It needs a client that can run commands, not
// only scripts.
func (s *RedisStore) Reset(ctx context.Context, key string) error {
	c, ok := s.client.(redis.Cmdable)
	if !ok {
		return fmt.Errorf("%w: client does not support DEL", ErrStoreUnavailable)
	}
	if err := c.Del(ctx, s.prefix+key).Err(); err != nil {
		return errors.Join(ErrStoreUnavailable, err)
	}
	return nil
}
