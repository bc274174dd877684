package handler_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/authcore/handler"
)

func render(t *testing.T, resp handler.Response) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	w := httptest.NewRecorder()
	require.NoError(t, resp.Render(w, httptest.NewRequest(http.MethodGet, "/", nil)))

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return w, body
}

func TestJSON(t *testing.T) {
	t.Parallel()

	t.Run("success envelope", func(t *testing.T) {
		t.Parallel()
		w, body := render(t, handler.JSON("done", handler.WithFields(handler.Fields{"url": "https://example.com"})))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "application/json; charset=utf-8", w.Header().Get("Content-Type"))
		assert.Equal(t, true, body["success"])
		assert.Equal(t, "done", body["message"])
		assert.Equal(t, "https://example.com", body["url"])
	})

	t.Run("fields cannot override envelope", func(t *testing.T) {
		t.Parallel()
		_, body := render(t, handler.JSON("done", handler.WithFields(handler.Fields{"success": false, "message": "x"})))

		assert.Equal(t, true, body["success"])
		assert.Equal(t, "done", body["message"])
	})

	t.Run("error", func(t *testing.T) {
		t.Parallel()
		w, body := render(t, handler.JSONError(http.StatusBadRequest, "Invalid or expired code"))

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, false, body["success"])
		assert.Equal(t, "Invalid or expired code", body["message"])
	})

	t.Run("error status below 400 becomes 500", func(t *testing.T) {
		t.Parallel()
		w, _ := render(t, handler.JSONError(http.StatusOK, "oops"))
		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})
}

func TestJSONStatus(t *testing.T) {
	t.Parallel()

	tests := []struct {
		status      int
		wantSuccess bool
	}{
		{http.StatusOK, true},
		{http.StatusBadRequest, false},
		{http.StatusUnauthorized, false},
		{http.StatusInternalServerError, false},
	}
	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			t.Parallel()
			w, body := render(t, handler.JSONStatus(tt.status, "msg"))
			assert.Equal(t, tt.status, w.Code)
			assert.Equal(t, tt.wantSuccess, body["success"])
		})
	}
}
