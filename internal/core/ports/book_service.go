package ports

import (
	"context"

	"github.com/diwanhq/diwan/internal/core/domain"
)

// FileInput carries an attachment handed in by the transport layer.
// Data is the base64-encoded content.
type FileInput struct {
	Name string
	Mime string
	Data string
}

// CreateBookInput carries all data needed to register a new book.
type CreateBookInput struct {
	OwnerID string
	Type    string
	Title   string
	Number  string
	Date    string
	Entity  string
	Subject string
	File    *FileInput // optional
}

// UpdateBookInput is a full replacement of an existing book's fields.
// The id is immutable; owner scoping is enforced by the service.
type UpdateBookInput struct {
	ID      string
	OwnerID string
	Type    string
	Title   string
	Number  string
	Date    string
	Entity  string
	Subject string
	File    *FileInput
}

// ListBooksInput carries all parameters for the list endpoint.
// Type narrows first (empty = all), then Search restricts to books where the
// term is a case-insensitive substring of title, number, entity, subject or
// date. Creation order is preserved.
type ListBooksInput struct {
	OwnerID string
	Type    string
	Search  string
	Page    int // 1-based
	Limit   int // capped by the service
}

// ListBooksResult is a page of the filtered collection.
type ListBooksResult struct {
	Items      []*domain.Book
	Total      int64
	Page       int
	Limit      int
	TotalPages int
}

// BookStats is the dashboard aggregate view of one owner's registry.
type BookStats struct {
	Total           int
	Incoming        int
	Outgoing        int
	RecentWithFiles []*domain.Book
}

// BookService defines use-case operations for the correspondence registry.
type BookService interface {
	Create(ctx context.Context, input CreateBookInput) (*domain.Book, error)
	Get(ctx context.Context, ownerID, id string) (*domain.Book, error)
	Update(ctx context.Context, input UpdateBookInput) (*domain.Book, error)
	Delete(ctx context.Context, ownerID, id string) error
	List(ctx context.Context, input ListBooksInput) (*ListBooksResult, error)
	Stats(ctx context.Context, ownerID string) (*BookStats, error)
}
