package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/authcore/pkg/cookie"
)

const testCookieSecret = "0123456789abcdef0123456789abcdef"

func newTransportFixture(t *testing.T) (*testEnv, *SessionManager, *CookieTransport) {
	t.Helper()

	env := newTestEnv()
	cookies, err := cookie.New([]string{testCookieSecret})
	require.NoError(t, err)

	cfg := DefaultConfig()
	cfg.SessionValidity = testValidity
	sessions := env.sessions()
	return env, sessions, NewCookieTransport(cookies, sessions, cfg, env.opts()...)
}

func responseCookie(rec *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, c := range rec.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// whoami reports what Authenticate put into the request context.
func whoami(w http.ResponseWriter, r *http.Request) {
	if u, ok := UserFromContext(r.Context()); ok {
		_, _ = w.Write([]byte("user:" + u.Email))
		return
	}
	_, _ = w.Write([]byte("guest:" + GuestFromContext(r.Context())))
}

func TestCookieTransportAuthenticate(t *testing.T) {
	t.Parallel()

	env, sessions, tr := newTransportFixture(t)
	user := env.createUser(t, "ann@example.com")
	sc, err := sessions.Create(context.Background(), CreateSessionParams{User: user, Provider: ProviderGithub, FirstSignIn: true, Device: deviceFrom("192.0.2.1")})
	require.NoError(t, err)

	login := httptest.NewRecorder()
	require.NoError(t, tr.SetSession(login, sc))
	authCookie := responseCookie(login, "auth-token")
	require.NotNil(t, authCookie)
	assert.True(t, authCookie.HttpOnly)
	assert.Equal(t, int(testValidity.Seconds()), authCookie.MaxAge)
	assert.NotContains(t, authCookie.Value, sc.SessionToken)
	loginGuest := responseCookie(login, "guest-session")
	require.NotNil(t, loginGuest)
	assert.Negative(t, loginGuest.MaxAge)

	h := tr.Authenticate(http.HandlerFunc(whoami))

	t.Run("logged in drops guest cookie", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(authCookie)
		req.AddCookie(&http.Cookie{Name: "guest-session", Value: "old-guest"})
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		assert.Equal(t, "user:ann@example.com", rec.Body.String())
		guest := responseCookie(rec, "guest-session")
		require.NotNil(t, guest)
		assert.Negative(t, guest.MaxAge)
	})

	t.Run("anonymous gets a guest marker", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		guest := responseCookie(rec, "guest-session")
		require.NotNil(t, guest)
		assert.Len(t, guest.Value, 32)
		assert.Equal(t, "guest:"+guest.Value, rec.Body.String())
	})

	t.Run("existing guest marker is kept", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(&http.Cookie{Name: "guest-session", Value: "known-guest"})
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		assert.Equal(t, "guest:known-guest", rec.Body.String())
		assert.Nil(t, responseCookie(rec, "guest-session"))
	})

	t.Run("tampered cookie", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(&http.Cookie{Name: "auth-token", Value: authCookie.Value[:len(authCookie.Value)-2] + "AA"})
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		assert.True(t, strings.HasPrefix(rec.Body.String(), "guest:"))
	})

	t.Run("logged out session", func(t *testing.T) {
		require.True(t, sessions.Logout(context.Background(), user.ID, sc.SessionID).OK())

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(authCookie)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		assert.True(t, strings.HasPrefix(rec.Body.String(), "guest:"))
	})
}

func TestCookieTransportRequireLogin(t *testing.T) {
	t.Parallel()

	env, _, tr := newTransportFixture(t)
	h := tr.RequireLogin(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/user/get-all-sessions", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	var body struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.False(t, body.Success)
	assert.Equal(t, MsgNotLoggedIn, body.Message)
	assert.Equal(t, []string{ChargeProtectedRouteAccess}, env.charger.Reasons())

	req := httptest.NewRequest(http.MethodGet, "/user/get-all-sessions", nil)
	req = req.WithContext(WithUser(req.Context(), &LoggedInUser{User: User{ID: 1}}))
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestCookieTransportState(t *testing.T) {
	t.Parallel()

	_, _, tr := newTransportFixture(t)

	set := httptest.NewRecorder()
	tr.SetState(set, "signin-abcdefghijklmnopqrstuvwx")
	stateCookie := responseCookie(set, "csrfState")
	require.NotNil(t, stateCookie)
	assert.False(t, stateCookie.HttpOnly)
	assert.Equal(t, 600, stateCookie.MaxAge)

	tests := []struct {
		name   string
		cookie *http.Cookie
		state  string
		intent Intent
		want   bool
	}{
		{"match", stateCookie, "signin-abcdefghijklmnopqrstuvwx", IntentSignIn, true},
		{"wrong intent", stateCookie, "signin-abcdefghijklmnopqrstuvwx", IntentSignUp, false},
		{"different state", stateCookie, "signin-xxxxxxxxxxxxxxxxxxxxxxxx", IntentSignIn, false},
		{"missing state", stateCookie, "", IntentSignIn, false},
		{"missing cookie", nil, "signin-abcdefghijklmnopqrstuvwx", IntentSignIn, false},
		{"forged cookie", &http.Cookie{Name: "csrfState", Value: "signin-abcdefghijklmnopqrstuvwx.c2ln"}, "signin-abcdefghijklmnopqrstuvwx", IntentSignIn, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			req := httptest.NewRequest(http.MethodGet, "/auth/callback/signin/github", nil)
			if tt.cookie != nil {
				req.AddCookie(tt.cookie)
			}
			assert.Equal(t, tt.want, tr.VerifyState(httptest.NewRecorder(), req, tt.state, tt.intent))
		})
	}
}
