package service

import (
	"context"
	"encoding/base64"
	"strings"
	"time"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/rs/zerolog"

	"github.com/diwanhq/diwan/internal/api/metrics"
	"github.com/diwanhq/diwan/internal/core/domain"
	"github.com/diwanhq/diwan/internal/core/ports"
)

const (
	defaultPageLimit = 20
	maxPageLimit     = 100
	recentFilesCap   = 5
)

// BookService implements the registry use cases on top of a storage port.
type BookService struct {
	repo   ports.BookRepository
	logger zerolog.Logger
}

func NewBookService(repo ports.BookRepository, logger zerolog.Logger) *BookService {
	return &BookService{repo: repo, logger: logger}
}

// Create registers a new book. The id is server-assigned and immutable.
func (s *BookService) Create(ctx context.Context, input ports.CreateBookInput) (*domain.Book, error) {
	typ := domain.BookType(input.Type)
	if !typ.Valid() {
		return nil, domain.ErrInvalidBookType
	}

	file, err := validateFile(input.File)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	book := &domain.Book{
		ID:        newID("bk"),
		OwnerID:   input.OwnerID,
		Type:      typ,
		Title:     input.Title,
		Number:    input.Number,
		Date:      input.Date,
		Entity:    input.Entity,
		Subject:   input.Subject,
		File:      file,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.Create(ctx, book); err != nil {
		s.logger.Error().Err(err).Str("owner_id", input.OwnerID).Msg("failed to create book")
		return nil, err
	}

	metrics.BooksCreatedTotal.WithLabelValues(string(typ)).Inc()
	s.logger.Info().Str("book_id", book.ID).Str("owner_id", book.OwnerID).Str("type", string(typ)).Msg("book created")
	return book, nil
}

func (s *BookService) Get(ctx context.Context, ownerID, id string) (*domain.Book, error) {
	return s.repo.FindByID(ctx, ownerID, id)
}

// Update replaces the stored book's fields by id. Unknown ids surface
// domain.ErrBookNotFound in both storage modes.
func (s *BookService) Update(ctx context.Context, input ports.UpdateBookInput) (*domain.Book, error) {
	typ := domain.BookType(input.Type)
	if !typ.Valid() {
		return nil, domain.ErrInvalidBookType
	}

	file, err := validateFile(input.File)
	if err != nil {
		return nil, err
	}

	existing, err := s.repo.FindByID(ctx, input.OwnerID, input.ID)
	if err != nil {
		return nil, err
	}

	book := &domain.Book{
		ID:        existing.ID,
		OwnerID:   existing.OwnerID,
		Type:      typ,
		Title:     input.Title,
		Number:    input.Number,
		Date:      input.Date,
		Entity:    input.Entity,
		Subject:   input.Subject,
		File:      file,
		CreatedAt: existing.CreatedAt,
		UpdatedAt: time.Now().UTC(),
	}

	if err := s.repo.Update(ctx, book); err != nil {
		s.logger.Error().Err(err).Str("book_id", book.ID).Msg("failed to update book")
		return nil, err
	}

	s.logger.Info().Str("book_id", book.ID).Msg("book updated")
	return book, nil
}

// Delete removes a book. Deleting an id that does not exist leaves the
// collection unchanged and succeeds.
func (s *BookService) Delete(ctx context.Context, ownerID, id string) error {
	if err := s.repo.Delete(ctx, ownerID, id); err != nil {
		s.logger.Error().Err(err).Str("book_id", id).Msg("failed to delete book")
		return err
	}
	metrics.BooksDeletedTotal.Inc()
	return nil
}

// List returns a page of the owner's collection, narrowed by type and then by
// the search term, in creation order.
func (s *BookService) List(ctx context.Context, input ports.ListBooksInput) (*ports.ListBooksResult, error) {
	if input.Type != "" && !domain.BookType(input.Type).Valid() {
		return nil, domain.ErrInvalidBookType
	}

	books, err := s.repo.ListByOwner(ctx, input.OwnerID)
	if err != nil {
		return nil, err
	}

	filtered := filterBooks(books, domain.BookType(input.Type), input.Search)
	total := int64(len(filtered))

	page := input.Page
	if page < 1 {
		page = 1
	}
	limit := input.Limit
	if limit <= 0 {
		limit = defaultPageLimit
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}

	start := (page - 1) * limit
	if start > len(filtered) {
		start = len(filtered)
	}
	end := start + limit
	if end > len(filtered) {
		end = len(filtered)
	}

	totalPages := int((total + int64(limit) - 1) / int64(limit))

	return &ports.ListBooksResult{
		Items:      filtered[start:end],
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: totalPages,
	}, nil
}

// Stats computes the dashboard aggregates over the owner's full collection.
func (s *BookService) Stats(ctx context.Context, ownerID string) (*ports.BookStats, error) {
	books, err := s.repo.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	stats := &ports.BookStats{Total: len(books)}
	for _, b := range books {
		switch b.Type {
		case domain.TypeIncoming:
			stats.Incoming++
		case domain.TypeOutgoing:
			stats.Outgoing++
		}
	}

	// Newest first, capped.
	for i := len(books) - 1; i >= 0 && len(stats.RecentWithFiles) < recentFilesCap; i-- {
		if books[i].HasFile() {
			stats.RecentWithFiles = append(stats.RecentWithFiles, books[i])
		}
	}

	return stats, nil
}

// filterBooks narrows by type, then by a case-insensitive substring match
// across title, number, entity, subject and date. Order is preserved.
func filterBooks(books []*domain.Book, typ domain.BookType, term string) []*domain.Book {
	out := make([]*domain.Book, 0, len(books))
	needle := strings.ToLower(term)
	for _, b := range books {
		if typ != "" && b.Type != typ {
			continue
		}
		if needle != "" && !bookMatches(b, needle) {
			continue
		}
		out = append(out, b)
	}
	return out
}

func bookMatches(b *domain.Book, needle string) bool {
	return strings.Contains(strings.ToLower(b.Title), needle) ||
		strings.Contains(strings.ToLower(b.Number), needle) ||
		strings.Contains(strings.ToLower(b.Entity), needle) ||
		strings.Contains(strings.ToLower(b.Subject), needle) ||
		strings.Contains(b.Date, needle)
}

// validateFile checks the attachment against the uniform size ceiling and
// converts it to the domain representation. A nil input means no attachment.
func validateFile(in *ports.FileInput) (*domain.BookFile, error) {
	if in == nil || in.Data == "" {
		return nil, nil
	}
	decoded := base64.StdEncoding.DecodedLen(len(in.Data))
	if decoded > domain.MaxAttachmentBytes {
		return nil, domain.ErrAttachmentTooLarge
	}
	if _, err := base64.StdEncoding.DecodeString(in.Data); err != nil {
		return nil, err
	}
	return &domain.BookFile{Name: in.Name, Mime: in.Mime, Data: in.Data}, nil
}

// newID returns a prefixed nanoid, e.g. "bk-V1StGXR8_Z5jdHi6B-myT".
func newID(prefix string) string {
	id, err := gonanoid.New()
	if err != nil {
		// Entropy exhaustion is not survivable for id assignment.
		panic("generate id: " + err.Error())
	}
	return prefix + "-" + id
}
