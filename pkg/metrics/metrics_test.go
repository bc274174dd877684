package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollectorCounters(t *testing.T) {
	t.Parallel()

	c := NewCollector(prometheus.NewRegistry())

	c.SignIn("github", OutcomeSuccess)
	c.SignIn("github", OutcomeSuccess)
	c.SignIn("google", OutcomeRejected)
	c.SignUp("gitlab", OutcomeSuccess)
	c.Confirmation("DELETE_USER_ACCOUNT", OutcomeRejected)
	c.Alert(OutcomeError)
	c.RateLimitCharge("wrong_credential")

	assert.Equal(t, 2.0, testutil.ToFloat64(c.signIn.WithLabelValues("github", OutcomeSuccess)))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.signIn.WithLabelValues("google", OutcomeRejected)))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.signUp.WithLabelValues("gitlab", OutcomeSuccess)))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.confirmation.WithLabelValues("DELETE_USER_ACCOUNT", OutcomeRejected)))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.alerts.WithLabelValues(OutcomeError)))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.charges.WithLabelValues("wrong_credential")))
}

func TestMiddlewareAndHandler(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	r := chi.NewRouter()
	r.Use(c.Middleware)
	r.Get("/auth/callback/{intent}/{provider}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	})
	r.Handle("/metrics", Handler(reg))

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/auth/callback/signin/github", nil))

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `authcore_http_request_duration_seconds_count{method="GET",route="/auth/callback/{intent}/{provider}",status="400"} 1`)
}
