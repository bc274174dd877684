package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrymomot/authcore/pkg/async"
	"github.com/dmitrymomot/authcore/pkg/device"
	"github.com/dmitrymomot/authcore/pkg/logger"
	"github.com/dmitrymomot/authcore/pkg/sanitizer"
	"github.com/dmitrymomot/authcore/pkg/token"
)

const placeholderUserNameLength = 24

// OAuthController drives sign-in and sign-up through external providers.
type OAuthController struct {
	deps
	store     Store
	sessions  *SessionManager
	providers *ProviderRegistry
}

func NewOAuthController(store Store, sessions *SessionManager, providers *ProviderRegistry, opts ...Option) *OAuthController {
	return &OAuthController{
		deps:      newDeps(opts),
		store:     store,
		sessions:  sessions,
		providers: providers,
	}
}

// Supports reports whether provider is configured.
func (c *OAuthController) Supports(provider string) bool {
	_, ok := c.providers.Get(provider)
	return ok
}

// AuthorizationURL returns the provider's consent URL and the CSRF state
// embedded in it. The caller stores the state in a cookie readable by the
// frontend. Unknown providers yield an empty URL.
func (c *OAuthController) AuthorizationURL(provider string, intent Intent) (authURL, state string) {
	client, ok := c.providers.Get(provider)
	if !ok {
		return "", ""
	}
	state, err := token.CSRFState(string(intent))
	if err != nil {
		c.logger.Error("cannot generate oauth state", logger.Provider(provider), logger.Error(err))
		return "", ""
	}
	return client.AuthCodeURL(state), state
}

// ExchangeProfile trades a one-time code for the provider profile. Any
// failure yields false; the cause is logged.
func (c *OAuthController) ExchangeProfile(ctx context.Context, provider, code string) (Profile, bool) {
	client, ok := c.providers.Get(provider)
	if !ok || code == "" {
		return Profile{}, false
	}

	tok, err := client.ExchangeCode(ctx, code)
	if err != nil {
		c.logger.InfoContext(ctx, "oauth code exchange failed", logger.Provider(provider), logger.Error(err))
		return Profile{}, false
	}
	profile, err := client.FetchProfile(ctx, tok)
	if err != nil {
		c.logger.WarnContext(ctx, "oauth profile fetch failed", logger.Provider(provider), logger.Error(err))
		return Profile{}, false
	}

	profile.Email = sanitizer.NormalizeEmail(profile.Email)
	return profile, true
}

func (c *OAuthController) profile(ctx context.Context, provider, code string) (Profile, bool) {
	p, ok := c.ExchangeProfile(ctx, provider, code)
	if !ok || !p.complete() {
		return Profile{}, false
	}
	return p, true
}

// SignIn signs in the user whose provider account matches the profile
// behind code. The account and the user are looked up independently and
// must agree; anything else is rejected.
func (c *OAuthController) SignIn(ctx context.Context, provider, code string, dev device.Details) AuthResult {
	profile, ok := c.profile(ctx, provider, code)
	if !ok {
		c.metrics.SignIn(provider, outcomeRejected)
		return AuthResult{Result: resultInvalid(MsgInvalidProfile)}
	}

	accountF := async.Async(ctx, profile, c.findAccount)
	userF := async.Async(ctx, profile.Email, c.store.GetUserByEmail)
	account, accErr := accountF.Await()
	user, userErr := userF.Await()

	if err := errors.Join(ignoreNotFound(accErr), ignoreNotFound(userErr)); err != nil {
		c.logger.ErrorContext(ctx, "oauth sign-in lookup failed", logger.Provider(provider), logger.Error(err))
		c.metrics.SignIn(provider, outcomeError)
		return AuthResult{Result: resultStoreError()}
	}

	accountFound, userFound := accErr == nil, userErr == nil
	switch {
	case userFound && (!accountFound || account.UserID != user.ID):
		c.metrics.SignIn(provider, outcomeRejected)
		return AuthResult{Result: resultInvalid(fmt.Sprintf(msgSignInNotLinkedFmt, provider, profile.Email))}
	case !userFound || !accountFound:
		c.metrics.SignIn(provider, outcomeRejected)
		return AuthResult{Result: resultInvalid(fmt.Sprintf(msgSignInNoAccountFmt, provider, profile.Email))}
	}

	cookie, err := c.sessions.Create(ctx, CreateSessionParams{User: user, Provider: provider, Device: dev})
	if err != nil {
		c.logger.ErrorContext(ctx, "cannot create session", logger.UserID(user.ID), logger.Provider(provider), logger.Error(err))
		c.metrics.SignIn(provider, outcomeError)
		return AuthResult{Result: resultStoreError()}
	}

	c.metrics.SignIn(provider, outcomeSuccess)
	c.logger.InfoContext(ctx, "signed in", logger.UserID(user.ID), logger.Provider(provider), logger.SessionID(cookie.SessionID))
	return AuthResult{
		Result: resultOK(fmt.Sprintf(msgSignInSuccessFmt, provider, user.FullName)),
		Cookie: cookie,
	}
}

// SignUp creates a user, its provider account and its first session.
// Existing accounts or emails are never merged into.
func (c *OAuthController) SignUp(ctx context.Context, provider, code string, dev device.Details) AuthResult {
	profile, ok := c.profile(ctx, provider, code)
	if !ok {
		c.metrics.SignUp(provider, outcomeRejected)
		return AuthResult{Result: resultInvalid(MsgInvalidProfile)}
	}

	if _, err := c.findAccount(ctx, profile); !errors.Is(err, ErrNotFound) {
		return c.signUpConflict(ctx, provider, err, MsgAccountExists)
	}
	if _, err := c.store.GetUserByEmail(ctx, profile.Email); !errors.Is(err, ErrNotFound) {
		return c.signUpConflict(ctx, provider, err, MsgEmailExists)
	}

	userName, err := token.String(placeholderUserNameLength)
	if err != nil {
		c.metrics.SignUp(provider, outcomeError)
		return AuthResult{Result: resultStoreError()}
	}

	user := User{
		Email:          profile.Email,
		FullName:       cleanName(profile.Name),
		UserName:       userName,
		LowerUserName:  sanitizer.Lower(userName),
		AvatarURL:      profile.AvatarURL,
		AvatarProvider: provider,
		Role:           RoleUser,
		Settings:       Settings{SignInAlerts: true},
	}
	account := AuthAccount{
		ProviderName:         provider,
		ProviderAccountID:    profile.ProviderAccountID,
		ProviderAccountEmail: profile.Email,
		AvatarURL:            profile.AvatarURL,
		AccessToken:          profile.AccessToken,
		RefreshToken:         profile.RefreshToken,
		TokenType:            profile.TokenType,
		Scope:                profile.Scope,
	}
	sess, err := c.createUserWithSession(ctx, &user, &account, dev)
	if err != nil {
		if errors.Is(err, ErrDuplicate) && !errors.Is(err, ErrSessionCreation) {
			c.metrics.SignUp(provider, outcomeRejected)
			return AuthResult{Result: resultInvalid(MsgEmailExists)}
		}
		c.logger.ErrorContext(ctx, "cannot create user", logger.Provider(provider), logger.Error(err))
		c.metrics.SignUp(provider, outcomeError)
		return AuthResult{Result: resultStoreError()}
	}

	c.metrics.SignUp(provider, outcomeSuccess)
	c.logger.InfoContext(ctx, "signed up", logger.UserID(user.ID), logger.Provider(provider))
	return AuthResult{
		Result: resultOK(fmt.Sprintf(msgSignUpSuccessFmt, provider, user.FullName)),
		Cookie: sess.cookie(),
	}
}

func (c *OAuthController) signUpConflict(ctx context.Context, provider string, err error, msg string) AuthResult {
	if err != nil {
		c.logger.ErrorContext(ctx, "oauth sign-up lookup failed", logger.Provider(provider), logger.Error(err))
		c.metrics.SignUp(provider, outcomeError)
		return AuthResult{Result: resultStoreError()}
	}
	c.metrics.SignUp(provider, outcomeRejected)
	return AuthResult{Result: resultInvalid(msg)}
}

// createUserWithSession stores the user, its first provider account and its
// first session together. Stores without transactions get a compensating
// delete instead.
func (c *OAuthController) createUserWithSession(ctx context.Context, user *User, account *AuthAccount, dev device.Details) (Session, error) {
	var sess Session
	create := func(s Store) error {
		if err := s.CreateUser(ctx, user); err != nil {
			return err
		}
		account.UserID = user.ID
		if err := s.CreateAuthAccount(ctx, account); err != nil {
			return err
		}

		var err error
		sess, err = c.sessions.insert(ctx, s, CreateSessionParams{
			User:        *user,
			Provider:    account.ProviderName,
			FirstSignIn: true,
			Device:      dev,
		})
		return err
	}

	if tx, ok := c.store.(Transactor); ok {
		return sess, tx.InTx(ctx, create)
	}

	if err := create(c.store); err != nil {
		if user.ID != 0 {
			if delErr := c.store.DeleteUser(ctx, user.ID); delErr != nil {
				c.logger.ErrorContext(ctx, "cannot clean up user after failed sign-up", logger.UserID(user.ID), logger.Error(delErr))
			}
		}
		return Session{}, err
	}
	return sess, nil
}

func (c *OAuthController) findAccount(ctx context.Context, p Profile) (AuthAccount, error) {
	return c.store.FindAuthAccount(ctx, p.Provider, p.ProviderAccountID, p.Email)
}

func ignoreNotFound(err error) error {
	if errors.Is(err, ErrNotFound) {
		return nil
	}
	return err
}
