package ports

import (
	"context"

	"github.com/diwanhq/diwan/internal/core/domain"
)

// CreateUserInput carries the data for a new account.
type CreateUserInput struct {
	Username string
	Password string
	Role     string // defaults to "user" when empty
}

// UserService defines the admin-gated account operations.
type UserService interface {
	List(ctx context.Context) ([]*domain.User, error)
	Create(ctx context.Context, input CreateUserInput) (*domain.User, error)
	// Delete removes the user and cascades to the user's book collection.
	// actorID is the authenticated admin; deleting yourself is rejected.
	Delete(ctx context.Context, actorID, id string) error
	// EnsureBootstrapAdmin creates the initial admin account when the user
	// collection is empty. Called once at startup.
	EnsureBootstrapAdmin(ctx context.Context, username, password string) error
}
