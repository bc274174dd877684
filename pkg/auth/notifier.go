package auth

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/dmitrymomot/authcore/pkg/email"
	"github.com/dmitrymomot/authcore/pkg/email/templates"
)

// Notifier delivers security emails. Callers run it off the request path.
type Notifier interface {
	SendSignInAlert(ctx context.Context, user User, session Session) error
	SendConfirmation(ctx context.Context, user User, c Confirmation, validFor time.Duration) error
}

type nopNotifier struct{}

func (nopNotifier) SendSignInAlert(context.Context, User, Session) error { return nil }

func (nopNotifier) SendConfirmation(context.Context, User, Confirmation, time.Duration) error {
	return nil
}

type confirmationCopy struct {
	title  string
	intro  string
	action string
}

var confirmationTexts = map[ActionType]confirmationCopy{
	ActionConfirmNewPassword: {
		title:  "Confirm adding a password to your account",
		intro:  "We received a request to add a password to your account. Confirm it to enable signing in with your email and password.",
		action: "Confirm new password",
	},
	ActionChangeAccountPassword: {
		title:  "Reset your account password",
		intro:  "We received a request to change the password of your account. Use the link below to choose a new one.",
		action: "Set a new password",
	},
	ActionDeleteUserAccount: {
		title:  "Confirm deleting your account",
		intro:  "We received a request to permanently delete your account together with all of its sessions and linked providers.",
		action: "Delete my account",
	},
}

type emailNotifier struct {
	sender      email.EmailSender
	frontendURL string
}

var _ Notifier = (*emailNotifier)(nil)

// NewEmailNotifier renders the alert and confirmation templates and sends
// them through sender. Links point at frontendURL.
func NewEmailNotifier(sender email.EmailSender, frontendURL string) Notifier {
	return &emailNotifier{
		sender:      sender,
		frontendURL: strings.TrimRight(frontendURL, "/"),
	}
}

func (n *emailNotifier) SendSignInAlert(ctx context.Context, user User, session Session) error {
	alert := templates.SignInAlert{
		FullName:    user.FullName,
		Provider:    session.ProviderName,
		Browser:     session.Browser,
		OS:          session.OS,
		IP:          session.IP,
		Location:    session.Location(),
		Time:        session.CreatedAt,
		SessionsURL: n.frontendURL + "/settings/sessions",
		RevokeURL:   n.frontendURL + "/auth/revoke-session?code=" + url.QueryEscape(session.RevokeCode),
		SiteURL:     n.frontendURL,
	}

	html, err := templates.Render(ctx, alert.HTML())
	if err != nil {
		return fmt.Errorf("render sign-in alert: %w", err)
	}

	return n.sender.SendEmail(ctx, email.SendEmailParams{
		SendTo:   user.Email,
		Subject:  alert.Subject(),
		BodyText: alert.Text(),
		BodyHTML: html,
		Tag:      "signin-alert",
	})
}

func (n *emailNotifier) SendConfirmation(ctx context.Context, user User, c Confirmation, validFor time.Duration) error {
	texts, ok := confirmationTexts[c.ActionType]
	if !ok {
		return fmt.Errorf("no email for action %q", c.ActionType)
	}

	tpl := templates.Confirmation{
		FullName:   user.FullName,
		Title:      texts.title,
		Intro:      texts.intro,
		Action:     texts.action,
		ConfirmURL: n.frontendURL + "/auth/confirm-action?code=" + url.QueryEscape(c.Code),
		ValidFor:   validFor,
		SiteURL:    n.frontendURL,
	}

	html, err := templates.Render(ctx, tpl.HTML())
	if err != nil {
		return fmt.Errorf("render confirmation: %w", err)
	}

	return n.sender.SendEmail(ctx, email.SendEmailParams{
		SendTo:   user.Email,
		Subject:  tpl.Subject(),
		BodyText: tpl.Text(),
		BodyHTML: html,
		Tag:      strings.ToLower(string(c.ActionType)),
	})
}
