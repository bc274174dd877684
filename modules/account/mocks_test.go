package account_test

import (
	"context"
	"errors"
	"net/http"
	"slices"
	"sync"
	"time"

	"golang.org/x/oauth2"

	"github.com/dmitrymomot/authcore/pkg/auth"
	"github.com/dmitrymomot/authcore/pkg/device"
)

// stubProvider accepts the code "good-code" and returns profile.
type stubProvider struct {
	name    string
	profile auth.Profile
}

func (p stubProvider) Name() string { return p.name }

func (p stubProvider) AuthCodeURL(state string) string {
	return "https://" + p.name + ".example/authorize?state=" + state
}

func (p stubProvider) ExchangeCode(_ context.Context, code string) (*oauth2.Token, error) {
	if code != "good-code" {
		return nil, errors.New("bad code")
	}
	return &oauth2.Token{AccessToken: "access", TokenType: "bearer"}, nil
}

func (p stubProvider) FetchProfile(context.Context, *oauth2.Token) (auth.Profile, error) {
	return p.profile, nil
}

type stubResolver struct {
	details device.Details
}

func (s stubResolver) Resolve(context.Context, *http.Request) device.Details {
	return s.details
}

type recordingCharger struct {
	mu      sync.Mutex
	reasons []string
}

func (c *recordingCharger) Charge(_ context.Context, reason string, _ int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.reasons = append(c.reasons, reason)
}

func (c *recordingCharger) Reasons() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Clone(c.reasons)
}

type recordingNotifier struct {
	mu            sync.Mutex
	confirmations []auth.Confirmation
}

func (n *recordingNotifier) SendSignInAlert(context.Context, auth.User, auth.Session) error {
	return nil
}

func (n *recordingNotifier) SendConfirmation(_ context.Context, _ auth.User, c auth.Confirmation, _ time.Duration) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.confirmations = append(n.confirmations, c)
	return nil
}

func (n *recordingNotifier) lastCode(action auth.ActionType) string {
	n.mu.Lock()
	defer n.mu.Unlock()
	for i := len(n.confirmations) - 1; i >= 0; i-- {
		if n.confirmations[i].ActionType == action {
			return n.confirmations[i].Code
		}
	}
	return ""
}
