package ratelimit

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryLimiterBurst(t *testing.T) {
	now := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	m := NewMemoryLimiter(1, 3).WithClock(func() time.Time { return now })
	defer m.Close()

	ctx := context.Background()
	for i := 0; i < 3; i++ {
		allowed, err := m.Allow(ctx, "k")
		require.NoError(t, err)
		assert.True(t, allowed, "request %d should fit in the burst", i)
	}

	allowed, err := m.Allow(ctx, "k")
	require.NoError(t, err)
	assert.False(t, allowed)
}

func TestMemoryLimiterRefill(t *testing.T) {
	now := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	m := NewMemoryLimiter(1, 1).WithClock(func() time.Time { return now })
	defer m.Close()

	ctx := context.Background()
	allowed, _ := m.Allow(ctx, "k")
	require.True(t, allowed)

	allowed, _ = m.Allow(ctx, "k")
	require.False(t, allowed)

	now = now.Add(2 * time.Second)
	allowed, _ = m.Allow(ctx, "k")
	assert.True(t, allowed)
}

func TestMemoryLimiterIndependentKeys(t *testing.T) {
	m := NewMemoryLimiter(1, 1)
	defer m.Close()

	ctx := context.Background()
	allowed, _ := m.Allow(ctx, "a")
	require.True(t, allowed)

	allowed, _ = m.Allow(ctx, "b")
	assert.True(t, allowed, "key b has its own bucket")
}

func TestMiddlewareLimits(t *testing.T) {
	m := NewMemoryLimiter(0.001, 1)
	defer m.Close()

	handler := Middleware(m, IPKeyFunc)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.0.0.1:55000"

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.JSONEq(t, `{"error":"too many requests"}`, rec.Body.String())
}

func TestMiddlewareNilLimiterPassesThrough(t *testing.T) {
	handler := Middleware(nil, IPKeyFunc)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestIPKeyFunc(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.RemoteAddr = "192.168.1.7:61234"
	assert.Equal(t, "192.168.1.7", IPKeyFunc(r))
}

func TestNoopLimiter(t *testing.T) {
	allowed, err := NoopLimiter{}.Allow(context.Background(), "any")
	require.NoError(t, err)
	assert.True(t, allowed)
	assert.NoError(t, NoopLimiter{}.Close())
}
