package auth

import (
	"context"
	"strconv"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/github"
)

type githubClient struct {
	oauthClient
}

// NewGitHubClient returns the GitHub provider. GitHub may hide the email on
// /user, so the verified primary address is read from /user/emails.
func NewGitHubClient(cfg ProviderConfig, redirectBase string, opts ...ProviderOption) ProviderClient {
	return &githubClient{
		oauthClient: newOAuthClient(ProviderGithub, cfg, redirectBase,
			[]string{"read:user", "user:email"}, github.Endpoint, "https://api.github.com", opts),
	}
}

type githubUser struct {
	ID        int64  `json:"id"`
	Login     string `json:"login"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	AvatarURL string `json:"avatar_url"`
}

type githubEmail struct {
	Email    string `json:"email"`
	Primary  bool   `json:"primary"`
	Verified bool   `json:"verified"`
}

func (c *githubClient) FetchProfile(ctx context.Context, tok *oauth2.Token) (Profile, error) {
	var u githubUser
	if err := c.getJSON(ctx, tok, "/user", &u); err != nil {
		return Profile{}, err
	}

	var emails []githubEmail
	if err := c.getJSON(ctx, tok, "/user/emails", &emails); err != nil {
		return Profile{}, err
	}
	addr, ok := pickGitHubEmail(emails)
	if !ok {
		return Profile{}, ErrNoVerifiedEmail
	}

	p := baseProfile(ProviderGithub, tok)
	p.ProviderAccountID = strconv.FormatInt(u.ID, 10)
	p.Email = addr
	p.EmailVerified = true
	p.Name = u.Name
	if p.Name == "" {
		p.Name = u.Login
	}
	p.AvatarURL = u.AvatarURL
	return p, nil
}

// pickGitHubEmail prefers the verified primary address, then any verified one.
func pickGitHubEmail(emails []githubEmail) (string, bool) {
	for _, e := range emails {
		if e.Primary && e.Verified {
			return e.Email, true
		}
	}
	for _, e := range emails {
		if e.Verified {
			return e.Email, true
		}
	}
	return "", false
}
