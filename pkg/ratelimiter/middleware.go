package ratelimiter

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/dmitrymomot/authcore/pkg/clientip"
	"github.com/dmitrymomot/authcore/pkg/logger"
)

// KeyPrefix namespaces per-client buckets.
const KeyPrefix = "rateLimit:"

// KeyFunc extracts a rate limit key from the request. An empty key skips limiting.
type KeyFunc func(r *http.Request) string

// ClientIPKey keys buckets by client IP, preferring the one stored by clientip.Middleware.
func ClientIPKey(r *http.Request) string {
	ip := clientip.GetIPFromContext(r.Context())
	if ip == "" {
		ip = clientip.GetIP(r)
	}
	if ip == "" {
		return ""
	}
	return KeyPrefix + ip
}

// LimitHandler writes the response for a rejected request.
type LimitHandler func(w http.ResponseWriter, r *http.Request, res *Result)

type middlewareOptions struct {
	onLimit LimitHandler
	logger  *slog.Logger
}

// MiddlewareOption configures Middleware.
type MiddlewareOption func(*middlewareOptions)

// WithLimitHandler replaces the default plain text 429 response.
func WithLimitHandler(h LimitHandler) MiddlewareOption {
	return func(o *middlewareOptions) {
		if h != nil {
			o.onLimit = h
		}
	}
}

// WithMiddlewareLogger sets the logger used for store failures.
func WithMiddlewareLogger(l *slog.Logger) MiddlewareOption {
	return func(o *middlewareOptions) {
		if l != nil {
			o.logger = l
		}
	}
}

// Middleware consumes one token per request. Store failures let the request
// through so an unavailable limiter never takes the service down.
func Middleware(limiter RateLimiter, keyFunc KeyFunc, opts ...MiddlewareOption) func(http.Handler) http.Handler {
	o := middlewareOptions{
		onLimit: func(w http.ResponseWriter, _ *http.Request, _ *Result) {
			http.Error(w, http.StatusText(http.StatusTooManyRequests), http.StatusTooManyRequests)
		},
		logger: logger.Discard(),
	}
	for _, opt := range opts {
		opt(&o)
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := keyFunc(r)
			if key == "" {
				next.ServeHTTP(w, r)
				return
			}

			res, err := limiter.Allow(r.Context(), key)
			if err != nil {
				o.logger.ErrorContext(r.Context(), "rate limiter unavailable", logger.Component("ratelimiter"), logger.Error(err))
				next.ServeHTTP(w, r)
				return
			}

			h := w.Header()
			h.Set("X-Ratelimit-Limit", strconv.Itoa(res.Limit))
			h.Set("X-Ratelimit-Remaining", strconv.Itoa(max(0, res.Remaining)))
			h.Set("X-Ratelimit-Reset", strconv.FormatInt(res.ResetAt.Unix(), 10))

			if !res.Allowed() {
				if retry := int(res.RetryAfter().Seconds()); retry > 0 {
					h.Set("Retry-After", strconv.Itoa(retry))
				}
				o.onLimit(w, r, res)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
