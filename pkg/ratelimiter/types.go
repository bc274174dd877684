package ratelimiter

import "time"

// Result contains the result of a rate limit check.
type Result struct {
	Limit     int       // bucket capacity
	Remaining int       // negative once the bucket is overdrawn
	ResetAt   time.Time // next refill
}

// Allowed reports whether the request fits into the bucket.
func (r *Result) Allowed() bool {
	return r.Remaining >= 0
}

// RetryAfter returns how long to wait before the next request, zero if allowed.
func (r *Result) RetryAfter() time.Duration {
	if r.Allowed() {
		return 0
	}
	return max(time.Until(r.ResetAt), 0)
}

// Config defines the token bucket.
type Config struct {
	Capacity       int           `env:"RATE_LIMIT_CAPACITY" envDefault:"1500"`
	RefillRate     int           `env:"RATE_LIMIT_REFILL_RATE" envDefault:"1500"`
	RefillInterval time.Duration `env:"RATE_LIMIT_REFILL_INTERVAL" envDefault:"360s"`
	// Use the in-memory store instead of Redis. Single instance only.
	InMemory bool `env:"RATE_LIMIT_IN_MEMORY" envDefault:"false"`
}
