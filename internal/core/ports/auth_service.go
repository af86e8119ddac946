package ports

import (
	"context"

	"github.com/diwanhq/diwan/internal/core/domain"
)

// AuthService implements the login/logout/status transitions.
type AuthService interface {
	// Login validates credentials and mints a bearer token backed by a
	// server-side session, so logout actually revokes it.
	Login(ctx context.Context, username, password string) (string, *domain.User, error)
	// Logout deletes the session named by the token's sid claim.
	Logout(ctx context.Context, sessionID string) error
	// Status re-resolves a live session against the user collection.
	Status(ctx context.Context, sessionID, userID string) (*domain.User, error)
}
