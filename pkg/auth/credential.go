package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrymomot/authcore/pkg/device"
	"github.com/dmitrymomot/authcore/pkg/logger"
	"github.com/dmitrymomot/authcore/pkg/sanitizer"
)

// CredentialController signs users in with email and password.
type CredentialController struct {
	deps
	store    Store
	sessions *SessionManager
}

func NewCredentialController(store Store, sessions *SessionManager, opts ...Option) *CredentialController {
	return &CredentialController{
		deps:     newDeps(opts),
		store:    store,
		sessions: sessions,
	}
}

// SignIn verifies the password and opens a "credential" session. Unknown
// emails, accounts without a password and wrong passwords all get the same
// answer; only a wrong password is charged to the rate limiter.
func (c *CredentialController) SignIn(ctx context.Context, email, password string, dev device.Details) AuthResult {
	email = sanitizer.NormalizeEmail(email)

	user, err := c.store.GetUserByEmail(ctx, email)
	switch {
	case errors.Is(err, ErrNotFound):
		c.metrics.SignIn(ProviderCredential, outcomeRejected)
		return AuthResult{Result: resultInvalid(MsgInvalidCredentials)}
	case err != nil:
		c.logger.ErrorContext(ctx, "credential lookup failed", logger.Provider(ProviderCredential), logger.Error(err))
		c.metrics.SignIn(ProviderCredential, outcomeError)
		return AuthResult{Result: resultStoreError()}
	}
	if !user.HasPassword() {
		c.metrics.SignIn(ProviderCredential, outcomeRejected)
		return AuthResult{Result: resultInvalid(MsgInvalidCredentials)}
	}

	match, err := c.hasher.Verify(password, user.PasswordHash)
	if err != nil {
		c.logger.ErrorContext(ctx, "stored password hash is unreadable", logger.UserID(user.ID), logger.Error(err))
		c.metrics.SignIn(ProviderCredential, outcomeError)
		return AuthResult{Result: resultStoreError()}
	}
	if !match {
		c.charge(ctx, ChargeWrongCredential)
		c.metrics.SignIn(ProviderCredential, outcomeRejected)
		return AuthResult{Result: resultInvalid(MsgInvalidCredentials)}
	}

	cookie, err := c.sessions.Create(ctx, CreateSessionParams{User: user, Provider: ProviderCredential, Device: dev})
	if err != nil {
		c.logger.ErrorContext(ctx, "cannot create session", logger.UserID(user.ID), logger.Error(err))
		c.metrics.SignIn(ProviderCredential, outcomeError)
		return AuthResult{Result: resultStoreError()}
	}

	c.metrics.SignIn(ProviderCredential, outcomeSuccess)
	return AuthResult{
		Result: resultOK(fmt.Sprintf(msgCredentialSignInOKFmt, user.FullName)),
		Cookie: cookie,
	}
}
