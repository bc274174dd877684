package auth

import (
	"context"
	"log/slog"
	"time"

	"github.com/dmitrymomot/authcore/pkg/async"
	"github.com/dmitrymomot/authcore/pkg/logger"
	"github.com/dmitrymomot/authcore/pkg/ratelimiter"
)

// Metrics receives auth outcomes. *metrics.Collector satisfies it.
type Metrics interface {
	SignIn(provider, outcome string)
	SignUp(provider, outcome string)
	Confirmation(action, outcome string)
	Alert(outcome string)
}

type nopMetrics struct{}

func (nopMetrics) SignIn(string, string)       {}
func (nopMetrics) SignUp(string, string)       {}
func (nopMetrics) Confirmation(string, string) {}
func (nopMetrics) Alert(string)                {}

// Metric outcomes.
const (
	outcomeSuccess  = "success"
	outcomeRejected = "rejected"
	outcomeError    = "error"
	outcomeSkipped  = "skipped"
	outcomeIssued   = "issued"
)

// deps are the collaborators shared by every controller.
type deps struct {
	logger   *slog.Logger
	charger  ratelimiter.Charger
	charges  ChargeConfig
	metrics  Metrics
	notifier Notifier
	hasher   Hasher
	tasks    *async.Group
	now      func() time.Time
}

// Option configures a controller.
type Option func(*deps)

func WithLogger(l *slog.Logger) Option {
	return func(d *deps) {
		if l != nil {
			d.logger = l
		}
	}
}

// WithCharger sets the rate-limit charger for abuse signals.
func WithCharger(c ratelimiter.Charger) Option {
	return func(d *deps) {
		if c != nil {
			d.charger = c
		}
	}
}

func WithChargeConfig(c ChargeConfig) Option {
	return func(d *deps) {
		d.charges = c
	}
}

func WithMetrics(m Metrics) Option {
	return func(d *deps) {
		if m != nil {
			d.metrics = m
		}
	}
}

// WithNotifier sets where alert and confirmation emails go.
func WithNotifier(n Notifier) Option {
	return func(d *deps) {
		if n != nil {
			d.notifier = n
		}
	}
}

func WithHasher(h Hasher) Option {
	return func(d *deps) {
		if h != nil {
			d.hasher = h
		}
	}
}

// WithTaskGroup sets the group that runs emails off the request path.
// Sharing one group lets the binary wait for pending emails on shutdown.
func WithTaskGroup(g *async.Group) Option {
	return func(d *deps) {
		if g != nil {
			d.tasks = g
		}
	}
}

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(d *deps) {
		if now != nil {
			d.now = now
		}
	}
}

func newDeps(opts []Option) deps {
	d := deps{
		logger:   logger.Discard(),
		charger:  ratelimiter.NopCharger{},
		charges:  DefaultChargeConfig(),
		metrics:  nopMetrics{},
		notifier: nopNotifier{},
		hasher:   NewArgon2Hasher(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(&d)
	}
	if d.tasks == nil {
		d.tasks = async.NewGroup(async.WithLogger(d.logger))
	}
	return d
}

func (d deps) charge(ctx context.Context, reason string) {
	d.charger.Charge(ctx, reason, d.charges.Weight(reason))
}
