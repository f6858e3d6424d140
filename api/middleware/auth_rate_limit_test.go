package middleware

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

type stubCounterStore struct {
	counts map[string]int64
	err    error
}

func (s *stubCounterStore) IncrWithTTL(_ context.Context, key string, _ time.Duration) (int64, error) {
	if s.err != nil {
		return 0, s.err
	}
	if s.counts == nil {
		s.counts = map[string]int64{}
	}
	s.counts[key]++
	return s.counts[key], nil
}

func TestAuthRateLimitBlocksByIP(t *testing.T) {
	store := &stubCounterStore{}
	policy := NewAuthRateLimitPolicy("refresh", time.Minute, 2, 0)
	handler := AuthRateLimit(policy, store, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	for i, want := range []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests} {
		req := httptest.NewRequest(http.MethodPost, "/auth/refresh", nil)
		req.Header.Set("X-Forwarded-For", "203.0.113.9")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		if rec.Code != want {
			t.Fatalf("request %d: expected %d got %d", i+1, want, rec.Code)
		}
	}

	if store.counts["rl:ip:refresh:203.0.113.9"] != 3 {
		t.Fatalf("unexpected counters %v", store.counts)
	}
}

func TestAuthRateLimitHashesEmailAndRestoresBody(t *testing.T) {
	store := &stubCounterStore{}
	policy := NewAuthRateLimitPolicy("login", time.Minute, 0, 1)

	var seenBody string
	handler := AuthRateLimit(policy, store, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, err := io.ReadAll(r.Body)
		if err != nil {
			t.Fatalf("read body downstream: %v", err)
		}
		seenBody = string(data)
		w.WriteHeader(http.StatusOK)
	}))

	body := `{"email":" User@Example.com ","password":"pw"}`
	req := httptest.NewRequest(http.MethodPost, "/auth/login", bytes.NewReader([]byte(body)))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}
	if seenBody != body {
		t.Fatalf("body not restored, downstream saw %q", seenBody)
	}
	for key := range store.counts {
		if strings.Contains(key, "@") {
			t.Fatalf("raw email leaked into key %q", key)
		}
	}

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/auth/login", bytes.NewReader([]byte(body))))
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429 got %d", rec.Code)
	}
	if len(store.counts) != 1 {
		t.Fatalf("case and whitespace variants should share one counter, got %v", store.counts)
	}
}

func TestAuthRateLimitDisabledPolicyPassesThrough(t *testing.T) {
	store := &stubCounterStore{}
	policy := NewAuthRateLimitPolicy("login", time.Minute, 0, 0)
	handler := AuthRateLimit(policy, store, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/auth/login", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}
	if len(store.counts) != 0 {
		t.Fatalf("expected no counters, got %v", store.counts)
	}
}

func TestAuthRateLimitStoreFailure(t *testing.T) {
	store := &stubCounterStore{err: context.DeadlineExceeded}
	policy := NewAuthRateLimitPolicy("refresh", time.Minute, 1, 0)
	handler := AuthRateLimit(policy, store, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("next handler should not run")
	}))

	req := httptest.NewRequest(http.MethodPost, "/auth/refresh", nil)
	req.Header.Set("X-Forwarded-For", "203.0.113.9")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 got %d", rec.Code)
	}
}
