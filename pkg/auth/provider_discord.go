package auth

import (
	"context"
	"strings"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/endpoints"
)

const discordCDN = "https://cdn.discordapp.com"

type discordClient struct {
	oauthClient
}

func NewDiscordClient(cfg ProviderConfig, redirectBase string, opts ...ProviderOption) ProviderClient {
	return &discordClient{
		oauthClient: newOAuthClient(ProviderDiscord, cfg, redirectBase,
			[]string{"identify", "email"}, endpoints.Discord, "https://discord.com/api", opts),
	}
}

type discordUser struct {
	ID         string `json:"id"`
	Username   string `json:"username"`
	GlobalName string `json:"global_name"`
	Email      string `json:"email"`
	Verified   bool   `json:"verified"`
	Avatar     string `json:"avatar"`
}

func (c *discordClient) FetchProfile(ctx context.Context, tok *oauth2.Token) (Profile, error) {
	var u discordUser
	if err := c.getJSON(ctx, tok, "/users/@me", &u); err != nil {
		return Profile{}, err
	}

	p := baseProfile(ProviderDiscord, tok)
	p.ProviderAccountID = u.ID
	p.Email = u.Email
	p.EmailVerified = u.Verified
	p.Name = u.GlobalName
	if p.Name == "" {
		p.Name = u.Username
	}
	if u.Avatar != "" {
		ext := ".png"
		if strings.HasPrefix(u.Avatar, "a_") {
			ext = ".gif"
		}
		p.AvatarURL = discordCDN + "/avatars/" + u.ID + "/" + u.Avatar + ext
	}
	return p, nil
}
