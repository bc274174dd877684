package auth

import (
	"context"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

type googleClient struct {
	oauthClient
}

func NewGoogleClient(cfg ProviderConfig, redirectBase string, opts ...ProviderOption) ProviderClient {
	return &googleClient{
		oauthClient: newOAuthClient(ProviderGoogle, cfg, redirectBase,
			[]string{"openid", "profile", "email"}, google.Endpoint, "https://openidconnect.googleapis.com", opts),
	}
}

type googleUser struct {
	Sub           string `json:"sub"`
	Email         string `json:"email"`
	EmailVerified bool   `json:"email_verified"`
	Name          string `json:"name"`
	Picture       string `json:"picture"`
}

func (c *googleClient) FetchProfile(ctx context.Context, tok *oauth2.Token) (Profile, error) {
	var u googleUser
	if err := c.getJSON(ctx, tok, "/v1/userinfo", &u); err != nil {
		return Profile{}, err
	}

	p := baseProfile(ProviderGoogle, tok)
	p.ProviderAccountID = u.Sub
	p.Email = u.Email
	p.EmailVerified = u.EmailVerified
	p.Name = u.Name
	p.AvatarURL = u.Picture
	return p, nil
}
