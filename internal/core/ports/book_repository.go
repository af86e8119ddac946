package ports

import (
	"context"

	"github.com/diwanhq/diwan/internal/core/domain"
)

// BookRepository defines persistence operations for books. Both storage
// adapters (embedded key-value store and remote document store) implement it;
// one is selected at startup, never branched on ad hoc.
type BookRepository interface {
	Create(ctx context.Context, b *domain.Book) error

	// FindByID retrieves a book scoped to its owner. When ownerID is empty
	// the lookup is unscoped (admin access).
	FindByID(ctx context.Context, ownerID, id string) (*domain.Book, error)

	// Update replaces the stored book by id. Returns domain.ErrBookNotFound
	// when no book with that id exists for the owner.
	Update(ctx context.Context, b *domain.Book) error

	// Delete removes a book by id. Deleting an id that does not exist is a
	// no-op, not an error.
	Delete(ctx context.Context, ownerID, id string) error

	// ListByOwner returns the owner's full collection in creation order.
	ListByOwner(ctx context.Context, ownerID string) ([]*domain.Book, error)

	// DeleteByOwner removes the owner's entire collection. Used by the
	// user-deletion cascade.
	DeleteByOwner(ctx context.Context, ownerID string) error
}
