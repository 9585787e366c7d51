package api

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"

	"github.com/tokenfarm-io/staking-rewards-ledger/internal/clients/chainclient"
	"github.com/tokenfarm-io/staking-rewards-ledger/internal/config"
)

func TestRateLimiter(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	rl := NewRateLimiter(rate.Every(time.Second), 2)
	rl.now = func() time.Time { return now }

	t.Run("burst then wait", func(t *testing.T) {
		allowed, _ := rl.AllowWithRetry("10.0.0.1")
		assert.True(t, allowed)
		allowed, _ = rl.AllowWithRetry("10.0.0.1")
		assert.True(t, allowed)

		allowed, retryAfter := rl.AllowWithRetry("10.0.0.1")
		assert.False(t, allowed)
		assert.Equal(t, time.Second, retryAfter)
	})

	t.Run("clients are limited separately", func(t *testing.T) {
		allowed, _ := rl.AllowWithRetry("10.0.0.2")
		assert.True(t, allowed)
	})

	t.Run("tokens refill", func(t *testing.T) {
		now = now.Add(time.Second)
		allowed, _ := rl.AllowWithRetry("10.0.0.1")
		assert.True(t, allowed)
	})

	t.Run("idle clients are evicted", func(t *testing.T) {
		now = now.Add(limiterIdleTimeout + time.Second)
		_, _ = rl.AllowWithRetry("10.0.0.3")
		assert.Len(t, rl.limiters, 1)
	})
}

func TestRateLimitMiddleware(t *testing.T) {
	f := setup(t, config.ServerConfig{RateLimit: 0.001, RateBurst: 1}, chainclient.NewSimulator(0))

	post := func() *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/v1/distribute", nil)
		req.RemoteAddr = "192.0.2.1:1234"
		rec := httptest.NewRecorder()
		f.router.ServeHTTP(rec, req)
		return rec
	}

	require.Equal(t, http.StatusOK, post().Code)

	rec := post()
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("Retry-After"))

	// reads are never limited
	for range 3 {
		req := httptest.NewRequest(http.MethodGet, "/v1/accounts/"+alice+"/checkpoint", nil)
		req.RemoteAddr = "192.0.2.1:1234"
		rec := httptest.NewRecorder()
		f.router.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
	}
}
