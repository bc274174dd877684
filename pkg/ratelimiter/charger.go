package ratelimiter

import (
	"context"
	"log/slog"

	"github.com/dmitrymomot/authcore/pkg/clientip"
	"github.com/dmitrymomot/authcore/pkg/logger"
)

// Charger records abuse signals against the caller's bucket. Charging never
// blocks or fails the current request; the next request pays for it.
type Charger interface {
	Charge(ctx context.Context, reason string, weight int)
}

type charger struct {
	limiter  RateLimiter
	logger   *slog.Logger
	onCharge func(reason string)
}

var _ Charger = (*charger)(nil)

// ChargerOption configures a Charger.
type ChargerOption func(*charger)

// WithChargerLogger sets the logger.
func WithChargerLogger(l *slog.Logger) ChargerOption {
	return func(c *charger) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithChargeHook is called for every applied charge, e.g. to count it.
func WithChargeHook(fn func(reason string)) ChargerOption {
	return func(c *charger) {
		c.onCharge = fn
	}
}

// NewCharger creates a Charger that keys charges by the client IP found in
// the context, the same key Middleware uses with ClientIPKey.
func NewCharger(limiter RateLimiter, opts ...ChargerOption) Charger {
	c := &charger{limiter: limiter, logger: logger.Discard()}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *charger) Charge(ctx context.Context, reason string, weight int) {
	if weight <= 0 {
		return
	}
	ip := clientip.GetIPFromContext(ctx)
	if ip == "" {
		c.logger.WarnContext(ctx, "rate limit charge skipped, no client ip", logger.Event(reason))
		return
	}

	if _, err := c.limiter.AllowN(ctx, KeyPrefix+ip, weight); err != nil {
		c.logger.ErrorContext(ctx, "rate limit charge failed",
			logger.Event(reason), logger.IP(ip), logger.Error(err))
		return
	}
	if c.onCharge != nil {
		c.onCharge(reason)
	}
}

// NopCharger ignores every charge.
type NopCharger struct{}

func (NopCharger) Charge(context.Context, string, int) {}
