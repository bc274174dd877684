// Package auth is the authentication and session core: OAuth and password
// sign-in, server-side sessions carried in an encrypted cookie, and emailed
// confirmation codes for sensitive account changes.
//
// Controllers share a Store and a set of Option values:
//
//	store := pgstore.New(pool)
//	sessions := auth.NewSessionManager(store, cfg.SessionValidity, opts...)
//	oauth := auth.NewOAuthController(store, sessions, registry, opts...)
//	creds := auth.NewCredentialController(store, sessions, opts...)
//	codes := auth.NewConfirmationEngine(store, auth.DefaultConfirmationConfig(), opts...)
//
// Operations return a Result whose Status maps to an HTTP status code and
// whose Message is safe to show to the client. Store failures never leak
// into messages.
//
// Sign-in alerts and confirmation emails are sent on an async.Group in the
// background. Call Wait on shutdown to let them finish.
package auth
