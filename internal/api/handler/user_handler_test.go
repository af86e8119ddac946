package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/diwanhq/diwan/internal/core/domain"
	"github.com/diwanhq/diwan/internal/core/ports"
)

type stubUserService struct {
	users []*domain.User
}

func (s *stubUserService) List(_ context.Context) ([]*domain.User, error) {
	return s.users, nil
}

func (s *stubUserService) Create(_ context.Context, input ports.CreateUserInput) (*domain.User, error) {
	for _, u := range s.users {
		if u.Username == input.Username {
			return nil, domain.ErrUserExists
		}
	}
	role := domain.Role(input.Role)
	if input.Role == "" {
		role = domain.RoleUser
	}
	u := &domain.User{
		ID:        "usr-new",
		Username:  input.Username,
		Role:      role,
		CreatedAt: time.Now().UTC(),
	}
	s.users = append(s.users, u)
	return u, nil
}

func (s *stubUserService) Delete(_ context.Context, actorID, id string) error {
	if actorID == id {
		return domain.ErrSelfDeletion
	}
	for i, u := range s.users {
		if u.ID == id {
			s.users = append(s.users[:i], s.users[i+1:]...)
			return nil
		}
	}
	return domain.ErrUserNotFound
}

func (s *stubUserService) EnsureBootstrapAdmin(context.Context, string, string) error {
	return nil
}

func TestUserHandler_Create(t *testing.T) {
	svc := &stubUserService{}
	h := NewUserHandler(svc)

	body := `{"username":"karim","password":"pass-12345","role":"admin"}`
	c, rec := newTestContext(http.MethodPost, "/v1/users", body, "usr-admin", "admin")

	if err := h.Create(c); err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	var resp userResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Username != "karim" || resp.Role != "admin" {
		t.Fatalf("unexpected response: %+v", resp)
	}
	// The hash never leaves the server.
	var raw map[string]interface{}
	json.Unmarshal(rec.Body.Bytes(), &raw)
	for key := range raw {
		if key == "password" || key == "password_hash" {
			t.Fatalf("response leaks %s", key)
		}
	}
}

func TestUserHandler_Create_ShortPassword(t *testing.T) {
	h := NewUserHandler(&stubUserService{})

	c, _ := newTestContext(http.MethodPost, "/v1/users", `{"username":"karim","password":"short"}`, "usr-admin", "admin")
	err := h.Create(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %v", err)
	}
}

func TestUserHandler_Create_Duplicate(t *testing.T) {
	svc := &stubUserService{users: []*domain.User{{ID: "usr-1", Username: "karim", Role: domain.RoleUser}}}
	h := NewUserHandler(svc)

	c, _ := newTestContext(http.MethodPost, "/v1/users", `{"username":"karim","password":"pass-12345"}`, "usr-admin", "admin")
	if err := h.Create(c); err != domain.ErrUserExists {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}
}

func TestUserHandler_List(t *testing.T) {
	svc := &stubUserService{users: []*domain.User{
		{ID: "usr-1", Username: "admin", Role: domain.RoleAdmin},
		{ID: "usr-2", Username: "karim", Role: domain.RoleUser},
	}}
	h := NewUserHandler(svc)

	c, rec := newTestContext(http.MethodGet, "/v1/users", "", "usr-1", "admin")
	if err := h.List(c); err != nil {
		t.Fatalf("List returned error: %v", err)
	}

	var resp listUsersResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp.Data) != 2 {
		t.Fatalf("expected 2 users, got %d", len(resp.Data))
	}
}

func TestUserHandler_Delete(t *testing.T) {
	svc := &stubUserService{users: []*domain.User{
		{ID: "usr-1", Username: "admin", Role: domain.RoleAdmin},
		{ID: "usr-2", Username: "karim", Role: domain.RoleUser},
	}}
	h := NewUserHandler(svc)

	c, rec := newTestContext(http.MethodDelete, "/v1/users/usr-2", "", "usr-1", "admin")
	c.SetParamNames("id")
	c.SetParamValues("usr-2")

	if err := h.Delete(c); err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
	if len(svc.users) != 1 {
		t.Fatalf("user not removed")
	}
}

func TestUserHandler_Delete_Self(t *testing.T) {
	svc := &stubUserService{users: []*domain.User{{ID: "usr-1", Username: "admin", Role: domain.RoleAdmin}}}
	h := NewUserHandler(svc)

	c, _ := newTestContext(http.MethodDelete, "/v1/users/usr-1", "", "usr-1", "admin")
	c.SetParamNames("id")
	c.SetParamValues("usr-1")

	if err := h.Delete(c); err != domain.ErrSelfDeletion {
		t.Fatalf("expected ErrSelfDeletion, got %v", err)
	}
}
