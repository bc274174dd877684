package cookie_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/authcore/pkg/cookie"
)

const (
	secretA = "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"
	secretB = "bbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb"
)

func newManager(t *testing.T, secrets ...string) *cookie.Manager {
	t.Helper()
	m, err := cookie.New(secrets)
	require.NoError(t, err)
	return m
}

// roundTrip copies Set-Cookie headers from a recorder into a fresh request.
func roundTrip(rec *httptest.ResponseRecorder) *http.Request {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range rec.Result().Cookies() {
		r.AddCookie(c)
	}
	return r
}

func TestNew(t *testing.T) {
	t.Parallel()

	_, err := cookie.New(nil)
	assert.ErrorIs(t, err, cookie.ErrNoSecret)

	_, err = cookie.New([]string{"", ""})
	assert.ErrorIs(t, err, cookie.ErrNoSecret)

	_, err = cookie.New([]string{"short"})
	assert.ErrorIs(t, err, cookie.ErrSecretTooShort)

	_, err = cookie.NewFromConfig(cookie.Config{Secrets: secretA + ", " + secretB})
	assert.NoError(t, err)
}

func TestPlain(t *testing.T) {
	t.Parallel()
	m := newManager(t, secretA)

	rec := httptest.NewRecorder()
	m.Set(rec, "csrfState", "signin-abc", cookie.WithHTTPOnly(false), cookie.WithMaxAge(3600))

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.False(t, cookies[0].HttpOnly)
	assert.Equal(t, 3600, cookies[0].MaxAge)
	assert.Equal(t, "/", cookies[0].Path)

	v, err := m.Get(roundTrip(rec), "csrfState")
	require.NoError(t, err)
	assert.Equal(t, "signin-abc", v)

	_, err = m.Get(httptest.NewRequest(http.MethodGet, "/", nil), "csrfState")
	assert.ErrorIs(t, err, cookie.ErrCookieNotFound)
}

func TestDelete(t *testing.T) {
	t.Parallel()
	m := newManager(t, secretA)

	rec := httptest.NewRecorder()
	m.Delete(rec, "auth-token")

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, -1, cookies[0].MaxAge)
	assert.Empty(t, cookies[0].Value)
}

func TestSigned(t *testing.T) {
	t.Parallel()
	m := newManager(t, secretA)

	rec := httptest.NewRecorder()
	m.SetSigned(rec, "guest-session", "guest-1")
	r := roundTrip(rec)

	v, err := m.GetSigned(r, "guest-session")
	require.NoError(t, err)
	assert.Equal(t, "guest-1", v)
	assert.True(t, strings.HasPrefix(rec.Result().Cookies()[0].Value, "guest-1."))

	t.Run("tampered", func(t *testing.T) {
		t.Parallel()
		c := rec.Result().Cookies()[0]
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.AddCookie(&http.Cookie{Name: c.Name, Value: "guest-2." + strings.SplitN(c.Value, ".", 2)[1]})
		_, err := m.GetSigned(r, "guest-session")
		assert.ErrorIs(t, err, cookie.ErrInvalidSignature)
	})

	t.Run("malformed", func(t *testing.T) {
		t.Parallel()
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.AddCookie(&http.Cookie{Name: "guest-session", Value: "nodot"})
		_, err := m.GetSigned(r, "guest-session")
		assert.ErrorIs(t, err, cookie.ErrInvalidFormat)
	})
}

func TestEncrypted(t *testing.T) {
	t.Parallel()

	type payload struct {
		UserID       int64  `json:"userId"`
		SessionID    int64  `json:"sessionId"`
		SessionToken string `json:"sessionToken"`
	}

	t.Run("json round trip", func(t *testing.T) {
		t.Parallel()
		m := newManager(t, secretA)
		rec := httptest.NewRecorder()
		in := payload{UserID: 1, SessionID: 2, SessionToken: "tok"}
		require.NoError(t, m.SetJSON(rec, "auth-token", in))

		assert.NotContains(t, rec.Result().Cookies()[0].Value, "tok")

		var out payload
		require.NoError(t, m.GetJSON(roundTrip(rec), "auth-token", &out))
		assert.Equal(t, in, out)
	})

	t.Run("rotated secret still decrypts", func(t *testing.T) {
		t.Parallel()
		old := newManager(t, secretA)
		rec := httptest.NewRecorder()
		require.NoError(t, old.SetEncrypted(rec, "auth-token", "value"))

		rotated := newManager(t, secretB, secretA)
		v, err := rotated.GetEncrypted(roundTrip(rec), "auth-token")
		require.NoError(t, err)
		assert.Equal(t, "value", v)
	})

	t.Run("unknown secret fails", func(t *testing.T) {
		t.Parallel()
		rec := httptest.NewRecorder()
		require.NoError(t, newManager(t, secretA).SetEncrypted(rec, "auth-token", "value"))

		_, err := newManager(t, secretB).GetEncrypted(roundTrip(rec), "auth-token")
		assert.ErrorIs(t, err, cookie.ErrDecryptionFailed)
	})

	t.Run("value bound to cookie name", func(t *testing.T) {
		t.Parallel()
		m := newManager(t, secretA)
		rec := httptest.NewRecorder()
		require.NoError(t, m.SetEncrypted(rec, "a", "value"))

		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.AddCookie(&http.Cookie{Name: "b", Value: rec.Result().Cookies()[0].Value})
		_, err := m.GetEncrypted(r, "b")
		assert.ErrorIs(t, err, cookie.ErrDecryptionFailed)
	})

	t.Run("garbage json", func(t *testing.T) {
		t.Parallel()
		m := newManager(t, secretA)
		rec := httptest.NewRecorder()
		require.NoError(t, m.SetEncrypted(rec, "auth-token", "{not json"))
		var out payload
		err := m.GetJSON(roundTrip(rec), "auth-token", &out)
		assert.ErrorIs(t, err, cookie.ErrInvalidFormat)
	})
}
