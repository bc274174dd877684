// Package metrics exposes authentication outcome counters to Prometheus.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "authcore"

// Outcome label values.
const (
	OutcomeSuccess  = "success"
	OutcomeRejected = "rejected"
	OutcomeError    = "error"
	OutcomeSkipped  = "skipped"
)

// Collector records auth events. It satisfies auth.Metrics.
type Collector struct {
	signIn       *prometheus.CounterVec
	signUp       *prometheus.CounterVec
	confirmation *prometheus.CounterVec
	alerts       *prometheus.CounterVec
	charges      *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec
}

// NewCollector creates a Collector and registers it with reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		signIn: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "signin_total",
			Help:      "Sign-in attempts by provider and outcome.",
		}, []string{"provider", "outcome"}),
		signUp: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "signup_total",
			Help:      "Sign-up attempts by provider and outcome.",
		}, []string{"provider", "outcome"}),
		confirmation: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "confirmation_total",
			Help:      "Confirmation code operations by action and outcome.",
		}, []string{"action", "outcome"}),
		alerts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "alerts_total",
			Help:      "New sign-in alert emails by outcome.",
		}, []string{"outcome"}),
		charges: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ratelimit_charges_total",
			Help:      "Rate limit charges applied for abuse signals.",
		}, []string{"reason"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route pattern and status.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
	}

	reg.MustRegister(c.signIn, c.signUp, c.confirmation, c.alerts, c.charges, c.httpDuration)
	return c
}

func (c *Collector) SignIn(provider, outcome string) {
	c.signIn.WithLabelValues(provider, outcome).Inc()
}

func (c *Collector) SignUp(provider, outcome string) {
	c.signUp.WithLabelValues(provider, outcome).Inc()
}

func (c *Collector) Confirmation(action, outcome string) {
	c.confirmation.WithLabelValues(action, outcome).Inc()
}

func (c *Collector) Alert(outcome string) {
	c.alerts.WithLabelValues(outcome).Inc()
}

func (c *Collector) RateLimitCharge(reason string) {
	c.charges.WithLabelValues(reason).Inc()
}

// Middleware observes request latency labelled by the chi route pattern, so
// path parameters don't blow up cardinality. Mount it on a chi router.
func (c *Collector) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if p := rctx.RoutePattern(); p != "" {
				route = p
			}
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		c.httpDuration.WithLabelValues(r.Method, route, strconv.Itoa(status)).Observe(time.Since(start).Seconds())
	})
}

// Handler serves the Prometheus scrape endpoint.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
