package account

import (
	"context"
	"log/slog"

	"github.com/dmitrymomot/authcore/handler"
	"github.com/dmitrymomot/authcore/pkg/auth"
	"github.com/dmitrymomot/authcore/pkg/logger"
	"github.com/dmitrymomot/authcore/pkg/ratelimiter"
)

type options struct {
	logger       *slog.Logger
	errorHandler handler.ErrorHandler[handler.Context]
	charger      ratelimiter.Charger
	charges      auth.ChargeConfig
}

type Option func(*options)

func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithErrorHandler sets the handler for binding and internal errors.
// Defaults to handler.NewErrorHandler with the service logger.
func WithErrorHandler(h handler.ErrorHandler[handler.Context]) Option {
	return func(o *options) {
		if h != nil {
			o.errorHandler = h
		}
	}
}

// WithCharger sets the charger used for malformed requests on sensitive routes.
func WithCharger(c ratelimiter.Charger, charges auth.ChargeConfig) Option {
	return func(o *options) {
		if c != nil {
			o.charger = c
			o.charges = charges
		}
	}
}

func newOptions(opts []Option) options {
	o := options{
		logger:  logger.Discard(),
		charger: ratelimiter.NopCharger{},
		charges: auth.DefaultChargeConfig(),
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.errorHandler == nil {
		o.errorHandler = handler.NewErrorHandler(o.logger)
	}
	return o
}

func (o options) charge(ctx context.Context, reason string) {
	o.charger.Charge(ctx, reason, o.charges.Weight(reason))
}
