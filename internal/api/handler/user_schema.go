package handler

import (
	"time"

	"github.com/diwanhq/diwan/internal/core/domain"
)

// errorResponse documents the error envelope in the generated API spec; the
// actual rendering happens in the central HTTP error handler.
type errorResponse struct {
	Error string `json:"error"`
}

type createUserRequest struct {
	Username string `json:"username" validate:"required,min=3,max=64"`
	Password string `json:"password" validate:"required,min=8"`
	Role     string `json:"role,omitempty" validate:"omitempty,oneof=admin user"`
}

type userResponse struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

type listUsersResponse struct {
	Data []userResponse `json:"data"`
}

func toUserResponse(u *domain.User) userResponse {
	return userResponse{
		ID:        u.ID,
		Username:  u.Username,
		Role:      string(u.Role),
		CreatedAt: u.CreatedAt,
	}
}
