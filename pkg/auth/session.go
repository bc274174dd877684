package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrymomot/authcore/pkg/device"
	"github.com/dmitrymomot/authcore/pkg/logger"
	"github.com/dmitrymomot/authcore/pkg/token"
)

const sessionTokenLength = 30

// SessionManager creates, resolves and ends sessions.
type SessionManager struct {
	deps
	store    Store
	validity time.Duration
}

// NewSessionManager returns a manager issuing sessions valid for validity.
func NewSessionManager(store Store, validity time.Duration, opts ...Option) *SessionManager {
	return &SessionManager{
		deps:     newDeps(opts),
		store:    store,
		validity: validity,
	}
}

// DecodeCookie parses an auth cookie payload. Malformed or incomplete
// payloads yield false.
func (m *SessionManager) DecodeCookie(raw string) (SessionCookie, bool) {
	var c SessionCookie
	if err := json.Unmarshal([]byte(raw), &c); err != nil {
		return SessionCookie{}, false
	}
	if !c.complete() {
		return SessionCookie{}, false
	}
	return c, true
}

// Resolve returns the user behind c and marks the session as active now.
// Every failure, including store errors, resolves to no user.
func (m *SessionManager) Resolve(ctx context.Context, c SessionCookie) (*LoggedInUser, bool) {
	if c.SessionID <= 0 || c.SessionToken == "" {
		return nil, false
	}

	now := m.now()
	sess, err := m.store.TouchSession(ctx, c.SessionID, c.SessionToken, now)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			m.logger.WarnContext(ctx, "session lookup failed",
				logger.Component("session"),
				logger.SessionID(c.SessionID),
				logger.Error(err),
			)
		}
		return nil, false
	}
	if !sess.Valid(now) || (c.UserID != 0 && sess.UserID != c.UserID) {
		return nil, false
	}

	user, err := m.store.GetUserByID(ctx, sess.UserID)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			m.logger.WarnContext(ctx, "session user lookup failed",
				logger.Component("session"),
				logger.UserID(sess.UserID),
				logger.Error(err),
			)
		}
		return nil, false
	}

	return &LoggedInUser{User: user, SessionID: sess.ID, SessionToken: sess.Token}, true
}

// CreateSessionParams describes a successful sign-in.
type CreateSessionParams struct {
	User     User
	Provider string
	// FirstSignIn suppresses the new sign-in alert.
	FirstSignIn bool
	Device      device.Details
}

// Create persists a new session and returns its cookie payload. When the
// user has sign-in alerts enabled and the request IP was never seen on any
// of their sessions, an alert carrying the revoke code is sent in the
// background.
func (m *SessionManager) Create(ctx context.Context, p CreateSessionParams) (SessionCookie, error) {
	alert := !p.FirstSignIn && p.User.Settings.SignInAlerts && m.unseenIP(ctx, p.User.ID, p.Device.IP)

	sess, err := m.insert(ctx, m.store, p)
	if err != nil {
		return SessionCookie{}, err
	}

	if alert {
		m.sendAlert(ctx, p.User, sess)
	}

	return sess.cookie(), nil
}

// insert stores a fresh session for p.User through s, which may be bound to
// a transaction.
func (m *SessionManager) insert(ctx context.Context, s Store, p CreateSessionParams) (Session, error) {
	sessionToken, err := token.String(sessionTokenLength)
	if err != nil {
		return Session{}, errors.Join(ErrSessionCreation, err)
	}
	revokeCode, err := token.RevokeCode(p.User.ID)
	if err != nil {
		return Session{}, errors.Join(ErrSessionCreation, err)
	}

	now := m.now()
	sess := Session{
		UserID:       p.User.ID,
		Token:        sessionToken,
		ProviderName: p.Provider,
		Status:       SessionActive,
		CreatedAt:    now,
		ExpiresAt:    now.Add(m.validity),
		LastActiveAt: now,
		RevokeCode:   revokeCode,
		OS:           p.Device.OS(),
		Browser:      p.Device.Browser,
		IP:           p.Device.IP,
		City:         p.Device.City,
		Country:      p.Device.Country,
	}
	if err := s.CreateSession(ctx, &sess); err != nil {
		return Session{}, errors.Join(ErrSessionCreation, err)
	}
	return sess, nil
}

// unseenIP reports whether none of the user's existing sessions came from
// ip. A failed lookup counts as seen so that a store outage does not flood
// users with alerts.
func (m *SessionManager) unseenIP(ctx context.Context, userID int64, ip string) bool {
	sessions, err := m.store.ListSessions(ctx, userID)
	if err != nil {
		m.logger.WarnContext(ctx, "cannot list sessions for sign-in alert",
			logger.Component("session"),
			logger.UserID(userID),
			logger.Error(err),
		)
		return false
	}
	for _, s := range sessions {
		if s.IP == ip {
			return false
		}
	}
	return true
}

func (m *SessionManager) sendAlert(ctx context.Context, user User, sess Session) {
	m.tasks.Go(ctx, "signin_alert", func(ctx context.Context) error {
		if err := m.notifier.SendSignInAlert(ctx, user, sess); err != nil {
			m.metrics.Alert(outcomeError)
			return fmt.Errorf("send sign-in alert to user %d: %w", user.ID, err)
		}
		m.metrics.Alert(outcomeSuccess)
		m.logger.InfoContext(ctx, "sign-in alert sent",
			logger.Component("session"),
			logger.UserID(user.ID),
			logger.SessionID(sess.ID),
			logger.IP(sess.IP),
		)
		return nil
	})
}

// Logout deletes sessionID if it belongs to userID. Ownership is part of
// the delete predicate, so another user's session is reported exactly like
// a missing one.
func (m *SessionManager) Logout(ctx context.Context, userID, sessionID int64) Result {
	err := m.store.DeleteUserSession(ctx, userID, sessionID)
	switch {
	case errors.Is(err, ErrNotFound):
		return resultInvalid(MsgSessionLogoutFailed)
	case err != nil:
		m.logger.ErrorContext(ctx, "logout failed",
			logger.Component("session"),
			logger.UserID(userID),
			logger.SessionID(sessionID),
			logger.Error(err),
		)
		return resultStoreError()
	}

	m.logger.InfoContext(ctx, "session logged out",
		logger.Component("session"),
		logger.UserID(userID),
		logger.SessionID(sessionID),
	)
	return resultOK(MsgSessionLoggedOut)
}

// RevokeByCode deletes the session holding the one-time revoke code. An
// unknown code is charged as abuse.
func (m *SessionManager) RevokeByCode(ctx context.Context, code string) Result {
	if code == "" {
		m.charge(ctx, ChargeInvalidRevokeCode)
		return resultInvalid(MsgInvalidOrExpiredCode)
	}

	err := m.store.DeleteSessionByRevokeCode(ctx, code)
	switch {
	case errors.Is(err, ErrNotFound):
		m.charge(ctx, ChargeInvalidRevokeCode)
		return resultInvalid(MsgInvalidOrExpiredCode)
	case err != nil:
		m.logger.ErrorContext(ctx, "revoke by code failed",
			logger.Component("session"),
			logger.Error(err),
		)
		return resultStoreError()
	}
	return resultOK(MsgSessionRevoked)
}

// List returns the user's unexpired sessions without their secrets.
// currentSessionID marks the session making the request.
func (m *SessionManager) List(ctx context.Context, userID, currentSessionID int64) ([]SessionInfo, error) {
	sessions, err := m.store.ListSessions(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}

	now := m.now()
	out := make([]SessionInfo, 0, len(sessions))
	for _, s := range sessions {
		if !s.Valid(now) {
			continue
		}
		out = append(out, SessionInfo{
			ID:           s.ID,
			ProviderName: s.ProviderName,
			CreatedAt:    s.CreatedAt,
			LastActiveAt: s.LastActiveAt,
			ExpiresAt:    s.ExpiresAt,
			OS:           s.OS,
			Browser:      s.Browser,
			IP:           s.IP,
			City:         s.City,
			Country:      s.Country,
			Current:      s.ID == currentSessionID,
		})
	}
	return out, nil
}

// Wait blocks until background alerts have been sent.
func (m *SessionManager) Wait() {
	m.tasks.Wait()
}
