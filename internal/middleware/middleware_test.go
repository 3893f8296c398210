package middleware_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"adoptme/internal/middleware"
	"adoptme/internal/platform/logger"
	"adoptme/internal/ports/ratelimit"
)

func newLogger(buf *bytes.Buffer) logger.Logger {
	return logger.New(logger.Options{Level: logger.Debug, Format: logger.FormatJSON, App: "test", Output: buf})
}

func TestRequestID(t *testing.T) {
	var seen string
	h := middleware.RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = middleware.GetRequestID(r.Context())
	}))

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
	require.NotEmpty(t, seen)
	assert.Equal(t, seen, rr.Header().Get(middleware.RequestIDHeader))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(middleware.RequestIDHeader, "abc-123")
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	assert.Equal(t, "abc-123", seen)
	assert.Equal(t, "abc-123", rr.Header().Get(middleware.RequestIDHeader))

	assert.Empty(t, middleware.GetRequestID(context.Background()))
}

func TestRecover(t *testing.T) {
	var buf bytes.Buffer
	h := middleware.RequestID(middleware.Recover(newLogger(&buf))(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("kaboom")
	})))

	rr := httptest.NewRecorder()
	require.NotPanics(t, func() {
		h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
	})

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, "error", body["status"])
	assert.Contains(t, buf.String(), "panic recovered")
	assert.Contains(t, buf.String(), "kaboom")
}

func TestRecover_AfterHeaderWritten(t *testing.T) {
	var buf bytes.Buffer
	h := middleware.Recover(newLogger(&buf))(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusAccepted)
		_, _ = w.Write([]byte("partial"))
		panic("late kaboom")
	}))

	rr := httptest.NewRecorder()
	require.NotPanics(t, func() {
		h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
	})

	assert.Equal(t, http.StatusAccepted, rr.Code)
	assert.Equal(t, "partial", rr.Body.String())
	assert.Contains(t, buf.String(), "late kaboom")
}

func TestRequestLogger(t *testing.T) {
	var buf bytes.Buffer
	h := middleware.RequestLogger(newLogger(&buf))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/pets/x", nil)
	req.Header.Set("Authorization", "Bearer secret-token")
	h.ServeHTTP(httptest.NewRecorder(), req)

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "http request", line["msg"])
	assert.Equal(t, "warn", line["level"])
	assert.Equal(t, float64(404), line["status"])
	assert.Equal(t, "/api/pets/x", line["path"])
	assert.NotContains(t, buf.String(), "secret-token")
}

type fakeLimiter struct {
	decision ratelimit.Decision
	err      error
	keys     []string
}

func (f *fakeLimiter) Allow(_ context.Context, key string, _ float64, _ int) (ratelimit.Decision, error) {
	f.keys = append(f.keys, key)
	return f.decision, f.err
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestRateLimit_Denied(t *testing.T) {
	var buf bytes.Buffer
	lim := &fakeLimiter{decision: ratelimit.Decision{Allowed: false, RetryAfter: 2 * time.Second}}
	h := middleware.RateLimit(lim, 1, 5, newLogger(&buf))(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/api/mocks/mockingusers", nil)
	req.RemoteAddr = "192.0.2.10:5555"
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusTooManyRequests, rr.Code)
	assert.Equal(t, "2", rr.Header().Get("Retry-After"))
	assert.Equal(t, []string{"192.0.2.10"}, lim.keys)
	assert.Contains(t, buf.String(), "rate limit exceeded")
}

func TestRateLimit_Allowed(t *testing.T) {
	lim := &fakeLimiter{decision: ratelimit.Decision{Allowed: true, Remaining: 4}}
	h := middleware.RateLimit(lim, 1, 5, logger.Nop())(okHandler())

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "4", rr.Header().Get("X-RateLimit-Remaining"))
}

func TestRateLimit_FailsOpen(t *testing.T) {
	lim := &fakeLimiter{err: errors.New("redis down")}
	h := middleware.RateLimit(lim, 1, 5, logger.Nop())(okHandler())

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestRateLimit_Disabled(t *testing.T) {
	h := middleware.RateLimit(nil, 1, 5, logger.Nop())(okHandler())

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, rr.Code)
}
