// Package email sends transactional email through Postmark, or writes it to
// disk during development.
//
//	sender, err := email.NewPostmarkClient(cfg)
//	if err != nil {
//	    return err
//	}
//	err = sender.SendEmail(ctx, email.SendEmailParams{
//	    SendTo:   "user@example.com",
//	    Subject:  "New sign-in to your account",
//	    BodyText: text,
//	    BodyHTML: html,
//	    Tag:      "signin-alert",
//	})
//
// Bodies are usually produced by the templ components in the templates
// subpackage.
package email
