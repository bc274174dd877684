package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"slices"
	"time"

	"golang.org/x/oauth2"
)

// ProviderClient talks to one OAuth provider.
type ProviderClient interface {
	Name() string
	AuthCodeURL(state string) string
	ExchangeCode(ctx context.Context, code string) (*oauth2.Token, error)
	// FetchProfile returns the normalised profile of the token's owner.
	FetchProfile(ctx context.Context, tok *oauth2.Token) (Profile, error)
}

// ProviderRegistry selects a client by provider name.
type ProviderRegistry struct {
	clients map[string]ProviderClient
}

func NewProviderRegistry(clients ...ProviderClient) *ProviderRegistry {
	r := &ProviderRegistry{clients: make(map[string]ProviderClient, len(clients))}
	for _, c := range clients {
		r.clients[c.Name()] = c
	}
	return r
}

func (r *ProviderRegistry) Get(name string) (ProviderClient, bool) {
	c, ok := r.clients[name]
	return c, ok
}

// Names returns the registered provider names, sorted.
func (r *ProviderRegistry) Names() []string {
	names := make([]string, 0, len(r.clients))
	for name := range r.clients {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// ProviderOption configures a provider client.
type ProviderOption func(*providerOptions)

type providerOptions struct {
	endpoint   *oauth2.Endpoint
	apiBaseURL string
	httpClient *http.Client
}

// WithEndpoint overrides the OAuth authorize and token URLs.
func WithEndpoint(e oauth2.Endpoint) ProviderOption {
	return func(o *providerOptions) {
		o.endpoint = &e
	}
}

// WithAPIBaseURL overrides the provider's profile API host.
func WithAPIBaseURL(u string) ProviderOption {
	return func(o *providerOptions) {
		o.apiBaseURL = u
	}
}

// WithProviderHTTPClient sets the client used for token exchange and
// profile calls.
func WithProviderHTTPClient(c *http.Client) ProviderOption {
	return func(o *providerOptions) {
		if c != nil {
			o.httpClient = c
		}
	}
}

// oauthClient holds what every provider shares; providers embed it and add
// FetchProfile.
type oauthClient struct {
	name       string
	conf       *oauth2.Config
	apiBaseURL string
	httpClient *http.Client
}

func newOAuthClient(name string, cfg ProviderConfig, redirectBase string, scopes []string,
	endpoint oauth2.Endpoint, apiBaseURL string, opts []ProviderOption,
) oauthClient {
	o := providerOptions{
		apiBaseURL: apiBaseURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.endpoint != nil {
		endpoint = *o.endpoint
	}

	return oauthClient{
		name: name,
		conf: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  redirectBase + "/" + name,
			Scopes:       scopes,
			Endpoint:     endpoint,
		},
		apiBaseURL: o.apiBaseURL,
		httpClient: o.httpClient,
	}
}

func (c oauthClient) Name() string {
	return c.name
}

func (c oauthClient) AuthCodeURL(state string) string {
	return c.conf.AuthCodeURL(state)
}

func (c oauthClient) ExchangeCode(ctx context.Context, code string) (*oauth2.Token, error) {
	ctx = context.WithValue(ctx, oauth2.HTTPClient, c.httpClient)
	tok, err := c.conf.Exchange(ctx, code)
	if err != nil {
		return nil, errors.Join(ErrInvalidCode, err)
	}
	return tok, nil
}

// getJSON calls the provider API with the bearer token and decodes the body.
func (c oauthClient) getJSON(ctx context.Context, tok *oauth2.Token, path string, dst any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.apiBaseURL+path, nil)
	if err != nil {
		return errors.Join(ErrProfileFetch, err)
	}
	req.Header.Set("Accept", "application/json")
	tok.SetAuthHeader(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return errors.Join(ErrProfileFetch, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: %s %s returned %d", ErrProfileFetch, c.name, path, resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		return errors.Join(ErrProfileFetch, err)
	}
	return nil
}

// baseProfile fills the token fields shared by every provider.
func baseProfile(provider string, tok *oauth2.Token) Profile {
	p := Profile{
		Provider:     provider,
		AccessToken:  tok.AccessToken,
		RefreshToken: tok.RefreshToken,
		TokenType:    tok.TokenType,
	}
	if scope, ok := tok.Extra("scope").(string); ok {
		p.Scope = scope
	}
	return p
}
