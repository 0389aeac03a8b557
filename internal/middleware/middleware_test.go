package middleware_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bryanwahyu/code-debugger/internal/middleware"
)

func TestTokenBucket(t *testing.T) {
	t.Parallel()

	tb := middleware.NewTokenBucket(2, 1)
	now := time.Now()

	assert.True(t, tb.AllowAt(now))
	assert.True(t, tb.AllowAt(now))
	assert.False(t, tb.AllowAt(now))
	assert.True(t, tb.AllowAt(now.Add(1100*time.Millisecond)))
	assert.False(t, tb.AllowAt(now.Add(1200*time.Millisecond)))
}

func TestRateLimiterSweep(t *testing.T) {
	t.Parallel()

	rl := middleware.NewRateLimiter(1, 1)
	defer rl.Stop()

	rl.Allow("10.0.0.1")
	rl.Allow("10.0.0.2")
	assert.Equal(t, 2, rl.Len())

	rl.Sweep(time.Now())
	assert.Equal(t, 2, rl.Len())

	rl.Sweep(time.Now().Add(11 * time.Minute))
	assert.Equal(t, 0, rl.Len())
}

func TestRateLimitMiddleware(t *testing.T) {
	t.Parallel()

	rl := middleware.NewRateLimiter(1, 1)
	defer rl.Stop()
	h := middleware.RateLimitMiddleware(rl)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	do := func(path, addr string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, path, nil)
		req.RemoteAddr = addr
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec
	}

	assert.Equal(t, http.StatusOK, do("/api/debug", "192.0.2.1:1111").Code)

	// same host, different source port shares the bucket
	rec := do("/api/debug", "192.0.2.1:2222")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "60", rec.Header().Get("Retry-After"))
	assert.JSONEq(t, `{"message":"rate limit exceeded, please try again later"}`, rec.Body.String())

	assert.Equal(t, http.StatusOK, do("/api/debug", "192.0.2.9:1111").Code)
	assert.Equal(t, http.StatusOK, do("/health", "192.0.2.1:3333").Code)
}

func TestClientIP(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "[2001:db8::1]:443"
	assert.Equal(t, "2001:db8::1", middleware.ClientIP(req))

	req.RemoteAddr = "pipe"
	assert.Equal(t, "pipe", middleware.ClientIP(req))
}

func TestHealthHandler(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		checkers   map[string]middleware.HealthChecker
		wantStatus int
		wantState  string
	}{
		{
			name: "all healthy",
			checkers: map[string]middleware.HealthChecker{
				"database": middleware.CheckerFunc(func(context.Context) error { return nil }),
			},
			wantStatus: http.StatusOK,
			wantState:  "healthy",
		},
		{
			name: "one failing",
			checkers: map[string]middleware.HealthChecker{
				"database": middleware.CheckerFunc(func(context.Context) error { return nil }),
				"eslint":   middleware.CheckerFunc(func(context.Context) error { return errors.New("not installed") }),
			},
			wantStatus: http.StatusServiceUnavailable,
			wantState:  "unhealthy",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			rec := httptest.NewRecorder()
			middleware.HealthHandler(tt.checkers)(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

			assert.Equal(t, tt.wantStatus, rec.Code)
			var body middleware.HealthStatus
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.wantState, body.Status)
			assert.Len(t, body.Checks, len(tt.checkers))
		})
	}
}

func TestMetricsMiddleware(t *testing.T) {
	before := middleware.GetMetrics()

	h := middleware.MetricsMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/bad" {
			w.WriteHeader(http.StatusBadRequest)
		}
	}))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/ok", nil))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/bad", nil))
	middleware.ServiceStats{}.AnalysisDone()
	middleware.ServiceStats{}.PersistFailed()

	after := middleware.GetMetrics()
	assert.Equal(t, before["requests_total"].(uint64)+2, after["requests_total"].(uint64))
	assert.Equal(t, before["requests_success"].(uint64)+1, after["requests_success"].(uint64))
	assert.Equal(t, before["requests_failed"].(uint64)+1, after["requests_failed"].(uint64))
	assert.Equal(t, before["analyses_total"].(uint64)+1, after["analyses_total"].(uint64))
	assert.Equal(t, before["persist_failed"].(uint64)+1, after["persist_failed"].(uint64))

	rec := httptest.NewRecorder()
	middleware.MetricsHandler(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Body.String(), "analyses_total")
}
