package templates

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/a-h/templ"
)

// Confirmation is the data for a confirmation-code email.
type Confirmation struct {
	FullName   string
	Title      string
	Intro      string
	Action     string
	ConfirmURL string
	ValidFor   time.Duration
	SiteURL    string
}

func (c Confirmation) Subject() string {
	return c.Title
}

func (c Confirmation) expiry() string {
	return "This link expires in " + humanDuration(c.ValidFor) + ". If you didn't request this, you can ignore this email."
}

// HTML renders the confirmation body.
func (c Confirmation) HTML() templ.Component {
	body := templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		if err := paragraph(w, "Hi "+c.FullName+","); err != nil {
			return err
		}
		if err := paragraph(w, c.Intro); err != nil {
			return err
		}
		if err := button(w, c.Action, c.ConfirmURL); err != nil {
			return err
		}
		return paragraph(w, c.expiry())
	})
	return layout(c.Title, c.SiteURL, body)
}

// Text renders the plain text alternative.
func (c Confirmation) Text() string {
	return fmt.Sprintf("Hi %s,\n\n%s\n\n%s: %s\n\n%s\n", c.FullName, c.Intro, c.Action, c.ConfirmURL, c.expiry())
}

func humanDuration(d time.Duration) string {
	switch {
	case d >= time.Hour && d%time.Hour == 0:
		if h := int(d / time.Hour); h != 1 {
			return fmt.Sprintf("%d hours", h)
		}
		return "1 hour"
	case d >= time.Minute:
		return fmt.Sprintf("%d minutes", int(d/time.Minute))
	}
	return d.String()
}
