package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/diwanhq/diwan/internal/core/domain"
	"github.com/diwanhq/diwan/internal/core/ports"
)

type stubAuthService struct {
	user     *domain.User
	password string
	sessions map[string]string // sid -> user id
}

func newStubAuthService(user *domain.User, password string) *stubAuthService {
	return &stubAuthService{user: user, password: password, sessions: make(map[string]string)}
}

func (s *stubAuthService) Login(_ context.Context, username, password string) (string, *domain.User, error) {
	if s.user == nil || username != s.user.Username || password != s.password {
		return "", nil, domain.ErrInvalidCredentials
	}
	s.sessions["sess-1"] = s.user.ID
	return "stub-token", s.user, nil
}

func (s *stubAuthService) Logout(_ context.Context, sessionID string) error {
	delete(s.sessions, sessionID)
	return nil
}

func (s *stubAuthService) Status(_ context.Context, sessionID, userID string) (*domain.User, error) {
	if s.sessions[sessionID] != userID {
		return nil, ports.ErrSessionNotFound
	}
	return s.user, nil
}

func testUser() *domain.User {
	return &domain.User{ID: "usr-1", Username: "karim", Role: domain.RoleUser}
}

func TestAuthHandler_Login(t *testing.T) {
	h := NewAuthHandler(newStubAuthService(testUser(), "pass-12345"))

	c, rec := newTestContext(http.MethodPost, "/auth/login", `{"username":"karim","password":"pass-12345"}`, "", "")
	if err := h.Login(c); err != nil {
		t.Fatalf("Login returned error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp authResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Token != "stub-token" {
		t.Fatalf("missing token in response: %+v", resp)
	}
	if resp.User == nil || resp.User.Username != "karim" {
		t.Fatalf("missing user in response: %+v", resp.User)
	}
}

func TestAuthHandler_Login_BadCredentials(t *testing.T) {
	h := NewAuthHandler(newStubAuthService(testUser(), "pass-12345"))

	c, _ := newTestContext(http.MethodPost, "/auth/login", `{"username":"karim","password":"nope"}`, "", "")
	if err := h.Login(c); err != domain.ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthHandler_Login_MissingFields(t *testing.T) {
	h := NewAuthHandler(newStubAuthService(testUser(), "pass-12345"))

	c, _ := newTestContext(http.MethodPost, "/auth/login", `{"username":"karim"}`, "", "")
	err := h.Login(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %v", err)
	}
}

func TestAuthHandler_LogoutThenStatus(t *testing.T) {
	svc := newStubAuthService(testUser(), "pass-12345")
	h := NewAuthHandler(svc)

	loginCtx, _ := newTestContext(http.MethodPost, "/auth/login", `{"username":"karim","password":"pass-12345"}`, "", "")
	if err := h.Login(loginCtx); err != nil {
		t.Fatalf("login failed: %v", err)
	}

	c, rec := newTestContext(http.MethodGet, "/auth/status", "", "usr-1", "user")
	if err := h.Status(c); err != nil {
		t.Fatalf("status before logout failed: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	c, rec = newTestContext(http.MethodPost, "/auth/logout", "", "usr-1", "user")
	if err := h.Logout(c); err != nil {
		t.Fatalf("Logout returned error: %v", err)
	}
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}

	c, _ = newTestContext(http.MethodGet, "/auth/status", "", "usr-1", "user")
	if err := h.Status(c); err != ports.ErrSessionNotFound {
		t.Fatalf("expected revoked session after logout, got %v", err)
	}
}
