package middleware

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/briankemboi/dukapos-backend/pkg/logger"
)

type memoryRateLimitStore struct {
	mu     sync.Mutex
	counts map[string]int64
}

func newMemoryRateLimitStore() *memoryRateLimitStore {
	return &memoryRateLimitStore{counts: make(map[string]int64)}
}

func (s *memoryRateLimitStore) IncrWithTTL(ctx context.Context, key string, ttl time.Duration) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.counts[key]++
	return s.counts[key], nil
}

func newRateLimitedHandler(policy AuthRateLimitPolicy, store rateLimiterStore, calls *int) http.Handler {
	logg := logger.New(logger.Options{ServiceName: "test"})
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*calls++
		w.WriteHeader(http.StatusOK)
	})
	return AuthRateLimit(policy, store, logg)(next)
}

func postLogin(handler http.Handler, ip, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", strings.NewReader(body))
	req.RemoteAddr = ip + ":54321"
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestAuthRateLimitBlocksPerIP(t *testing.T) {
	calls := 0
	policy := NewAuthRateLimitPolicy("login", time.Minute, 3, 0)
	handler := newRateLimitedHandler(policy, newMemoryRateLimitStore(), &calls)

	for i := 0; i < 3; i++ {
		rec := postLogin(handler, "10.0.0.1", `{"email":"a@b.com"}`)
		require.Equal(t, http.StatusOK, rec.Code, "attempt %d", i+1)
	}

	blocked := postLogin(handler, "10.0.0.1", `{"email":"a@b.com"}`)
	assert.Equal(t, http.StatusTooManyRequests, blocked.Code)
	assert.Equal(t, "RATE_LIMIT_EXCEEDED", errorCode(t, blocked.Body.Bytes()))
	assert.Equal(t, 3, calls)

	// another ip is unaffected
	rec := postLogin(handler, "10.0.0.2", `{"email":"a@b.com"}`)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAuthRateLimitBlocksPerEmailAcrossIPs(t *testing.T) {
	calls := 0
	policy := NewAuthRateLimitPolicy("login", time.Minute, 0, 2)
	handler := newRateLimitedHandler(policy, newMemoryRateLimitStore(), &calls)

	require.Equal(t, http.StatusOK, postLogin(handler, "10.0.0.1", `{"email":"victim@duka.co.ke"}`).Code)
	require.Equal(t, http.StatusOK, postLogin(handler, "10.0.0.2", `{"email":"Victim@Duka.co.ke"}`).Code)

	blocked := postLogin(handler, "10.0.0.3", `{"email":" victim@duka.co.ke "}`)
	assert.Equal(t, http.StatusTooManyRequests, blocked.Code)
	assert.Equal(t, 2, calls, "email limit applies across source ips")

	// a different email from the same ip still goes through
	rec := postLogin(handler, "10.0.0.3", `{"email":"other@duka.co.ke"}`)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAuthRateLimitDisabledPolicyPassesThrough(t *testing.T) {
	calls := 0
	policy := NewAuthRateLimitPolicy("login", 0, 5, 5)
	handler := newRateLimitedHandler(policy, newMemoryRateLimitStore(), &calls)

	for i := 0; i < 20; i++ {
		require.Equal(t, http.StatusOK, postLogin(handler, "10.0.0.1", `{"email":"a@b.com"}`).Code)
	}
	assert.Equal(t, 20, calls)
}

func TestAuthRateLimitPrefersForwardedForHeader(t *testing.T) {
	calls := 0
	policy := NewAuthRateLimitPolicy("login", time.Minute, 1, 0)
	handler := newRateLimitedHandler(policy, newMemoryRateLimitStore(), &calls)

	send := func(forwarded string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", strings.NewReader(`{}`))
		req.RemoteAddr = "127.0.0.1:9999"
		req.Header.Set("X-Forwarded-For", forwarded)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec
	}

	require.Equal(t, http.StatusOK, send("203.0.113.7, 10.0.0.1").Code)
	assert.Equal(t, http.StatusTooManyRequests, send("203.0.113.7").Code)
	assert.Equal(t, http.StatusOK, send("203.0.113.8").Code)
}

func TestAuthRateLimitBodyRemainsReadable(t *testing.T) {
	var seenBody string
	policy := NewAuthRateLimitPolicy("login", time.Minute, 0, 5)
	logg := logger.New(logger.Options{ServiceName: "test"})
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		payload, _ := io.ReadAll(r.Body)
		seenBody = string(payload)
		w.WriteHeader(http.StatusOK)
	})
	handler := AuthRateLimit(policy, newMemoryRateLimitStore(), logg)(next)

	body := `{"email":"a@b.com","password":"secret"}`
	rec := postLogin(handler, "10.0.0.1", body)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, body, seenBody)
}
