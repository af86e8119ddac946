package ports

import (
	"context"

	"github.com/diwanhq/diwan/internal/core/domain"
)

// UserRepository defines persistence operations for accounts.
type UserRepository interface {
	// Create persists a new user. Returns domain.ErrUserExists when the
	// username is already taken.
	Create(ctx context.Context, u *domain.User) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	// List returns all users in creation order.
	List(ctx context.Context) ([]*domain.User, error)
	// Delete removes a user by id. Book cascade is the service's job.
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int64, error)
}
