package templates

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/a-h/templ"
)

// SignInAlert is the data for the new sign-in email.
type SignInAlert struct {
	FullName    string
	Provider    string
	Browser     string
	OS          string
	IP          string
	Location    string
	Time        time.Time
	SessionsURL string
	RevokeURL   string
	SiteURL     string
}

func (a SignInAlert) Subject() string {
	return "New sign-in to your account"
}

func (a SignInAlert) formattedTime() string {
	return a.Time.UTC().Format("January 2, 2006 at 15:04") + " (UTC Time)"
}

func (a SignInAlert) details() [][2]string {
	return [][2]string{
		{"Provider", a.Provider},
		{"Browser", a.Browser},
		{"Operating system", a.OS},
		{"IP address", a.IP},
		{"Location", a.Location},
		{"Time", a.formattedTime()},
	}
}

// HTML renders the alert body.
func (a SignInAlert) HTML() templ.Component {
	body := templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		if err := paragraph(w, "Hi "+a.FullName+","); err != nil {
			return err
		}
		if err := paragraph(w, "We noticed a new sign-in to your account from a device or network we haven't seen before."); err != nil {
			return err
		}
		if _, err := io.WriteString(w, `<table style="border-collapse:collapse">`); err != nil {
			return err
		}
		for _, row := range a.details() {
			if row[1] == "" {
				continue
			}
			if _, err := io.WriteString(w, `<tr><td style="padding:4px 12px 4px 0;color:#666">`+
				templ.EscapeString(row[0])+`</td><td style="padding:4px 0">`+templ.EscapeString(row[1])+`</td></tr>`); err != nil {
				return err
			}
		}
		if _, err := io.WriteString(w, `</table>`); err != nil {
			return err
		}
		if err := paragraph(w, "If this was you, you can ignore this email. If not, end that session right away:"); err != nil {
			return err
		}
		if err := button(w, "Log out this session", a.RevokeURL); err != nil {
			return err
		}
		if a.SessionsURL == "" {
			return nil
		}
		return paragraph(w, "Review all active sessions at "+a.SessionsURL)
	})
	return layout(a.Subject(), a.SiteURL, body)
}

// Text renders the plain text alternative.
func (a SignInAlert) Text() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Hi %s,\n\nWe noticed a new sign-in to your account from a device or network we haven't seen before.\n\n", a.FullName)
	for _, row := range a.details() {
		if row[1] != "" {
			fmt.Fprintf(&b, "%s: %s\n", row[0], row[1])
		}
	}
	fmt.Fprintf(&b, "\nIf this was you, you can ignore this email. If not, end that session right away:\n%s\n", a.RevokeURL)
	if a.SessionsURL != "" {
		fmt.Fprintf(&b, "\nReview all active sessions at %s\n", a.SessionsURL)
	}
	return b.String()
}
