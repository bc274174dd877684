// Package geoip resolves a coarse location (city and country) for a public
// IP address using the ipinfo.io lookup API.
//
// Lookups are optional: without an API key, for private addresses or once
// the local request budget is spent, Lookup returns an empty Location and
// ErrSkipped. Callers treat location as best effort.
package geoip

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/dmitrymomot/authcore/pkg/cache"
	"github.com/dmitrymomot/authcore/pkg/clientip"
	"github.com/dmitrymomot/authcore/pkg/logger"
)

var (
	ErrSkipped      = errors.New("geoip.lookup_skipped")
	ErrLookupFailed = errors.New("geoip.lookup_failed")
)

// Location is the result of a lookup. City is "city region" as ipinfo returns them.
type Location struct {
	City    string
	Country string
}

// Locator resolves an IP to a Location.
type Locator interface {
	Lookup(ctx context.Context, ip string) (Location, error)
}

// Config holds ipinfo settings.
type Config struct {
	Token   string        `env:"IPINFO_API_KEY"`
	BaseURL string        `env:"IPINFO_BASE_URL" envDefault:"https://ipinfo.io"`
	Timeout time.Duration `env:"IPINFO_TIMEOUT" envDefault:"3s"`
	// Requests allowed per Interval, matches the free tier by default.
	Requests int           `env:"IPINFO_REQUESTS" envDefault:"1000"`
	Interval time.Duration `env:"IPINFO_INTERVAL" envDefault:"24h"`
	// Resolved locations are kept per IP so repeat sign-ins don't spend budget.
	CacheSize int           `env:"IPINFO_CACHE_SIZE" envDefault:"4096"`
	CacheTTL  time.Duration `env:"IPINFO_CACHE_TTL" envDefault:"24h"`
}

type client struct {
	token   string
	baseURL string
	http    *http.Client
	limiter *rate.Limiter
	cache   *cache.LRU[string, Location]
	logger  *slog.Logger
}

// Option configures the client.
type Option func(*client)

// WithHTTPClient overrides the HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(cl *client) {
		if c != nil {
			cl.http = c
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(cl *client) {
		if l != nil {
			cl.logger = l
		}
	}
}

// New creates a Locator from config.
func New(cfg Config, opts ...Option) Locator {
	requests := max(cfg.Requests, 1)
	interval := cfg.Interval
	if interval <= 0 {
		interval = 24 * time.Hour
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 3 * time.Second
	}

	c := &client{
		token:   cfg.Token,
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		limiter: rate.NewLimiter(rate.Every(interval/time.Duration(requests)), requests),
		cache:   cache.NewLRU[string, Location](max(cfg.CacheSize, 1), cfg.CacheTTL),
		logger:  logger.Discard(),
	}
	if c.baseURL == "" {
		c.baseURL = "https://ipinfo.io"
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type ipinfoResponse struct {
	City    string `json:"city"`
	Region  string `json:"region"`
	Country string `json:"country"`
	Bogon   bool   `json:"bogon"`
}

func (c *client) Lookup(ctx context.Context, ip string) (Location, error) {
	if c.token == "" || !clientip.IsPublic(ip) {
		return Location{}, ErrSkipped
	}
	if loc, ok := c.cache.Get(ip); ok {
		return loc, nil
	}
	if !c.limiter.Allow() {
		c.logger.WarnContext(ctx, "geoip budget exhausted", logger.IP(ip))
		return Location{}, ErrSkipped
	}

	u := fmt.Sprintf("%s/%s?token=%s", c.baseURL, url.PathEscape(ip), url.QueryEscape(c.token))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return Location{}, errors.Join(ErrLookupFailed, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return Location{}, errors.Join(ErrLookupFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Location{}, errors.Join(ErrLookupFailed, fmt.Errorf("unexpected status %d", resp.StatusCode))
	}

	var body ipinfoResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return Location{}, errors.Join(ErrLookupFailed, err)
	}
	if body.Bogon {
		return Location{}, ErrSkipped
	}

	loc := Location{
		City:    strings.TrimSpace(body.City + " " + body.Region),
		Country: body.Country,
	}
	c.cache.Put(ip, loc)
	return loc, nil
}
