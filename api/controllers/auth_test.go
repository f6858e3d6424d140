package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dealerhub/dealerhub-backend/internal/auth"
	"github.com/dealerhub/dealerhub-backend/pkg/types"
)

type stubAuthService struct {
	lastEmail    string
	lastPassword string
	lastIP       string
	lastAccess   string
	lastRefresh  string
	loginResp    *auth.LoginResult
	loginErr     error
	refreshResp  *auth.TokenPair
	refreshErr   error
	logoutErr    error
}

func (s *stubAuthService) Login(ctx context.Context, email, password, remoteIP string) (*auth.LoginResult, error) {
	s.lastEmail = email
	s.lastPassword = password
	s.lastIP = remoteIP
	return s.loginResp, s.loginErr
}

func (s *stubAuthService) Refresh(ctx context.Context, accessToken, refreshToken string) (*auth.TokenPair, error) {
	s.lastAccess = accessToken
	s.lastRefresh = refreshToken
	return s.refreshResp, s.refreshErr
}

func (s *stubAuthService) Logout(ctx context.Context, accessToken string) error {
	s.lastAccess = accessToken
	return s.logoutErr
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) types.Envelope {
	t.Helper()
	var envelope types.Envelope
	if err := json.NewDecoder(rec.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return envelope
}

func TestAuthLogin(t *testing.T) {
	svc := &stubAuthService{
		loginResp: &auth.LoginResult{
			Tokens: auth.TokenPair{AccessToken: "access", RefreshToken: "refresh", TokenType: "Bearer"},
		},
	}
	handler := AuthLogin(svc, nil)

	body, _ := json.Marshal(map[string]string{
		"email":    "sales@dealer.example",
		"password": "hunter22",
	})
	req := httptest.NewRequest(http.MethodPost, "/auth/login", bytes.NewReader(body))
	req.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.1")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}
	if svc.lastEmail != "sales@dealer.example" {
		t.Fatalf("expected email recorded, got %q", svc.lastEmail)
	}
	if svc.lastIP != "203.0.113.7" {
		t.Fatalf("expected forwarded ip, got %q", svc.lastIP)
	}

	envelope := decodeEnvelope(t, rec)
	if !envelope.Success {
		t.Fatalf("expected success envelope, got %+v", envelope)
	}
	if envelope.Message != "login successful" {
		t.Fatalf("unexpected message %q", envelope.Message)
	}
}

func TestAuthLoginRejectsBadPayload(t *testing.T) {
	svc := &stubAuthService{}
	handler := AuthLogin(svc, nil)

	body, _ := json.Marshal(map[string]string{"email": "not-an-email"})
	req := httptest.NewRequest(http.MethodPost, "/auth/login", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", rec.Code)
	}
	if svc.lastEmail != "" {
		t.Fatalf("expected service untouched, got email %q", svc.lastEmail)
	}
	envelope := decodeEnvelope(t, rec)
	if envelope.Success {
		t.Fatalf("expected failure envelope, got %+v", envelope)
	}
}

func TestAuthRefresh(t *testing.T) {
	svc := &stubAuthService{
		refreshResp: &auth.TokenPair{AccessToken: "next-access", RefreshToken: "next-refresh"},
	}
	handler := AuthRefresh(svc, nil)

	body, _ := json.Marshal(map[string]string{"refresh_token": "old-refresh"})
	req := httptest.NewRequest(http.MethodPost, "/auth/refresh", bytes.NewReader(body))
	req.Header.Set("Authorization", "Bearer stale-access")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}
	if svc.lastAccess != "stale-access" {
		t.Fatalf("expected access token forwarded, got %q", svc.lastAccess)
	}
	if svc.lastRefresh != "old-refresh" {
		t.Fatalf("expected refresh token forwarded, got %q", svc.lastRefresh)
	}
}

func TestAuthRefreshMissingBearer(t *testing.T) {
	svc := &stubAuthService{}
	handler := AuthRefresh(svc, nil)

	body, _ := json.Marshal(map[string]string{"refresh_token": "old-refresh"})
	req := httptest.NewRequest(http.MethodPost, "/auth/refresh", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", rec.Code)
	}
	if svc.lastRefresh != "" {
		t.Fatalf("expected service untouched, got refresh %q", svc.lastRefresh)
	}
}

func TestAuthLogout(t *testing.T) {
	svc := &stubAuthService{}
	handler := AuthLogout(svc, nil)

	req := httptest.NewRequest(http.MethodPost, "/auth/logout", nil)
	req.Header.Set("Authorization", "Bearer live-access")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}
	if svc.lastAccess != "live-access" {
		t.Fatalf("expected access token forwarded, got %q", svc.lastAccess)
	}

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/auth/logout", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without credentials, got %d", rec.Code)
	}
}
