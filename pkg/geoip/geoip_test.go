package geoip_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/authcore/pkg/geoip"
)

func newServer(t *testing.T, hits *atomic.Int32) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		if r.URL.Query().Get("token") != "secret" {
			w.WriteHeader(http.StatusForbidden)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"ip":"8.8.8.8","city":"Mountain View","region":"California","country":"US"}`))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestLookup(t *testing.T) {
	t.Parallel()

	t.Run("resolves public ip", func(t *testing.T) {
		t.Parallel()
		var hits atomic.Int32
		srv := newServer(t, &hits)
		loc := geoip.New(geoip.Config{Token: "secret", BaseURL: srv.URL, Requests: 10, Interval: time.Hour})

		got, err := loc.Lookup(context.Background(), "8.8.8.8")
		require.NoError(t, err)
		assert.Equal(t, "Mountain View California", got.City)
		assert.Equal(t, "US", got.Country)
	})

	t.Run("skips without token", func(t *testing.T) {
		t.Parallel()
		var hits atomic.Int32
		srv := newServer(t, &hits)
		loc := geoip.New(geoip.Config{BaseURL: srv.URL})

		_, err := loc.Lookup(context.Background(), "8.8.8.8")
		assert.ErrorIs(t, err, geoip.ErrSkipped)
		assert.Zero(t, hits.Load())
	})

	t.Run("skips private ip", func(t *testing.T) {
		t.Parallel()
		var hits atomic.Int32
		srv := newServer(t, &hits)
		loc := geoip.New(geoip.Config{Token: "secret", BaseURL: srv.URL})

		_, err := loc.Lookup(context.Background(), "192.168.1.10")
		assert.ErrorIs(t, err, geoip.ErrSkipped)
		assert.Zero(t, hits.Load())
	})

	t.Run("skips when budget exhausted", func(t *testing.T) {
		t.Parallel()
		var hits atomic.Int32
		srv := newServer(t, &hits)
		loc := geoip.New(geoip.Config{Token: "secret", BaseURL: srv.URL, Requests: 1, Interval: 24 * time.Hour})

		_, err := loc.Lookup(context.Background(), "8.8.8.8")
		require.NoError(t, err)
		_, err = loc.Lookup(context.Background(), "8.8.4.4")
		assert.ErrorIs(t, err, geoip.ErrSkipped)
		assert.Equal(t, int32(1), hits.Load())
	})

	t.Run("repeat lookups are cached", func(t *testing.T) {
		t.Parallel()
		var hits atomic.Int32
		srv := newServer(t, &hits)
		loc := geoip.New(geoip.Config{Token: "secret", BaseURL: srv.URL, Requests: 1, Interval: 24 * time.Hour, CacheSize: 8})

		first, err := loc.Lookup(context.Background(), "8.8.8.8")
		require.NoError(t, err)
		second, err := loc.Lookup(context.Background(), "8.8.8.8")
		require.NoError(t, err)
		assert.Equal(t, first, second)
		assert.Equal(t, int32(1), hits.Load())
	})

	t.Run("upstream error", func(t *testing.T) {
		t.Parallel()
		var hits atomic.Int32
		srv := newServer(t, &hits)
		loc := geoip.New(geoip.Config{Token: "wrong", BaseURL: srv.URL})

		_, err := loc.Lookup(context.Background(), "8.8.8.8")
		assert.ErrorIs(t, err, geoip.ErrLookupFailed)
	})
}
