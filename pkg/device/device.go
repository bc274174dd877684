// Package device collects the client details stored with a session:
// browser, operating system, IP address and approximate location.
package device

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/dmitrymomot/authcore/pkg/clientip"
	"github.com/dmitrymomot/authcore/pkg/geoip"
	"github.com/dmitrymomot/authcore/pkg/logger"
	"github.com/dmitrymomot/authcore/pkg/useragent"
)

// Details describes the device a request came from.
type Details struct {
	Browser   string
	OSName    string
	OSVersion string
	IP        string
	City      string
	Country   string
}

// OS returns "name version", or just the name when the version is unknown.
func (d Details) OS() string {
	return strings.TrimSpace(d.OSName + " " + d.OSVersion)
}

// Resolver builds Details from an incoming request.
type Resolver interface {
	Resolve(ctx context.Context, r *http.Request) Details
}

type resolver struct {
	locator geoip.Locator
	logger  *slog.Logger
}

// Option configures the resolver.
type Option func(*resolver)

// WithLocator enables location lookups.
func WithLocator(l geoip.Locator) Option {
	return func(r *resolver) {
		r.locator = l
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(r *resolver) {
		if l != nil {
			r.logger = l
		}
	}
}

// NewResolver creates a Resolver. Without a locator City and Country stay empty.
func NewResolver(opts ...Option) Resolver {
	r := &resolver{logger: logger.Discard()}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (res *resolver) Resolve(ctx context.Context, r *http.Request) Details {
	ip := clientip.GetIPFromContext(ctx)
	if ip == "" {
		ip = clientip.GetIP(r)
	}

	// Parse never returns an unusable value.
	ua, _ := useragent.Parse(r.UserAgent())

	d := Details{
		Browser:   ua.BrowserName(),
		OSName:    ua.OS(),
		OSVersion: ua.OSVersion(),
		IP:        ip,
	}

	if res.locator == nil {
		return d
	}
	loc, err := res.locator.Lookup(ctx, ip)
	switch {
	case errors.Is(err, geoip.ErrSkipped):
	case err != nil:
		res.logger.WarnContext(ctx, "geo lookup failed", logger.IP(ip), logger.Error(err))
	default:
		d.City = loc.City
		d.Country = loc.Country
	}
	return d
}
