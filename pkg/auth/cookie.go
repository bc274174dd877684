package auth

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dmitrymomot/authcore/pkg/cookie"
	"github.com/dmitrymomot/authcore/pkg/logger"
	"github.com/dmitrymomot/authcore/pkg/token"
)

// CookieTransport carries sessions, OAuth state and guest markers in
// cookies and resolves them on every request.
type CookieTransport struct {
	deps
	cookies  *cookie.Manager
	sessions *SessionManager
	cfg      Config
}

func NewCookieTransport(cookies *cookie.Manager, sessions *SessionManager, cfg Config, opts ...Option) *CookieTransport {
	return &CookieTransport{
		deps:     newDeps(opts),
		cookies:  cookies,
		sessions: sessions,
		cfg:      cfg,
	}
}

// SetSession writes the encrypted auth cookie and expires the guest marker.
func (t *CookieTransport) SetSession(w http.ResponseWriter, c SessionCookie) error {
	if err := t.cookies.SetJSON(w, t.cfg.AuthCookieName, c, cookie.WithMaxAge(int(t.cfg.SessionValidity.Seconds()))); err != nil {
		return err
	}
	t.cookies.Delete(w, t.cfg.GuestCookieName)
	return nil
}

func (t *CookieTransport) ClearSession(w http.ResponseWriter) {
	t.cookies.Delete(w, t.cfg.AuthCookieName)
}

// SetState writes the OAuth state cookie. The frontend reads it, so it is
// signed rather than encrypted and not HttpOnly.
func (t *CookieTransport) SetState(w http.ResponseWriter, state string) {
	t.cookies.SetSigned(w, t.cfg.StateCookieName, state,
		cookie.WithHTTPOnly(false),
		cookie.WithMaxAge(int(t.cfg.StateCookieTTL.Seconds())),
	)
}

// VerifyState checks the state returned by the provider against the state
// cookie and the callback's intent. The cookie is cleared either way.
func (t *CookieTransport) VerifyState(w http.ResponseWriter, r *http.Request, state string, intent Intent) bool {
	stored, err := t.cookies.GetSigned(r, t.cfg.StateCookieName)
	if err == nil {
		t.cookies.Delete(w, t.cfg.StateCookieName, cookie.WithHTTPOnly(false))
	}
	if err != nil || state == "" || stored != state {
		return false
	}
	got, ok := token.StateIntent(state)
	return ok && got == string(intent)
}

// Authenticate resolves the auth cookie. A valid session puts the user in
// the request context and drops the guest cookie; otherwise the request is
// marked as a guest, and a guest cookie is issued if there is none.
func (t *CookieTransport) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		if user, ok := t.resolve(r); ok {
			if _, err := t.cookies.Get(r, t.cfg.GuestCookieName); err == nil {
				t.cookies.Delete(w, t.cfg.GuestCookieName)
			}
			next.ServeHTTP(w, r.WithContext(WithUser(ctx, user)))
			return
		}

		marker, err := t.cookies.Get(r, t.cfg.GuestCookieName)
		if err != nil || marker == "" {
			marker, err = token.String(t.cfg.GuestTokenLength)
			if err != nil {
				t.logger.ErrorContext(ctx, "cannot generate guest marker", logger.Component("session"), logger.Error(err))
				next.ServeHTTP(w, r)
				return
			}
			t.cookies.Set(w, t.cfg.GuestCookieName, marker)
		}
		next.ServeHTTP(w, r.WithContext(WithGuest(ctx, marker)))
	})
}

func (t *CookieTransport) resolve(r *http.Request) (*LoggedInUser, bool) {
	raw, err := t.cookies.GetEncrypted(r, t.cfg.AuthCookieName)
	if err != nil {
		if !errors.Is(err, cookie.ErrCookieNotFound) {
			t.logger.DebugContext(r.Context(), "unreadable auth cookie", logger.Component("session"), logger.Error(err))
		}
		return nil, false
	}
	c, ok := t.sessions.DecodeCookie(raw)
	if !ok {
		return nil, false
	}
	return t.sessions.Resolve(r.Context(), c)
}

// RequireLogin rejects requests without a resolved user. Each rejection is
// charged to the caller's rate-limit bucket. It must run after Authenticate.
func (t *CookieTransport) RequireLogin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := UserFromContext(r.Context()); !ok {
			t.charge(r.Context(), ChargeProtectedRouteAccess)
			writeUnauthorized(w)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func writeUnauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]any{"success": false, "message": MsgNotLoggedIn})
}
