package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/diwanhq/diwan/internal/api/metrics"
	"github.com/diwanhq/diwan/internal/core/domain"
	"github.com/diwanhq/diwan/internal/core/ports"
)

// UserService implements account management, including the book cascade on
// deletion and the bootstrap admin.
type UserService struct {
	users  ports.UserRepository
	books  ports.BookRepository
	logger zerolog.Logger
}

func NewUserService(users ports.UserRepository, books ports.BookRepository, logger zerolog.Logger) *UserService {
	return &UserService{users: users, books: books, logger: logger}
}

func (s *UserService) List(ctx context.Context) ([]*domain.User, error) {
	return s.users.List(ctx)
}

func (s *UserService) Create(ctx context.Context, input ports.CreateUserInput) (*domain.User, error) {
	if input.Username == "" || input.Password == "" {
		return nil, domain.ErrInvalidUserInput
	}

	role := domain.Role(input.Role)
	if input.Role == "" {
		role = domain.RoleUser
	}
	if !role.Valid() {
		return nil, domain.ErrInvalidUserInput
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	user := &domain.User{
		ID:           newID("usr"),
		Username:     input.Username,
		PasswordHash: string(hash),
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	created, err := s.users.Create(ctx, user)
	if err != nil {
		return nil, err
	}

	metrics.UsersCreatedTotal.Inc()
	s.logger.Info().Str("user_id", created.ID).Str("username", created.Username).Str("role", string(created.Role)).Msg("user created")
	return created, nil
}

// Delete removes the user and the user's entire book collection. No orphan
// books survive the cascade.
func (s *UserService) Delete(ctx context.Context, actorID, id string) error {
	if actorID == id {
		return domain.ErrSelfDeletion
	}

	if _, err := s.users.FindByID(ctx, id); err != nil {
		return err
	}

	if err := s.books.DeleteByOwner(ctx, id); err != nil {
		s.logger.Error().Err(err).Str("user_id", id).Msg("failed to cascade-delete books")
		return err
	}
	if err := s.users.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info().Str("user_id", id).Msg("user deleted with book collection")
	return nil
}

// EnsureBootstrapAdmin creates the initial admin account when no users exist
// yet. Subsequent startups are a no-op.
func (s *UserService) EnsureBootstrapAdmin(ctx context.Context, username, password string) error {
	n, err := s.users.Count(ctx)
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	_, err = s.Create(ctx, ports.CreateUserInput{
		Username: username,
		Password: password,
		Role:     string(domain.RoleAdmin),
	})
	if err != nil {
		return err
	}

	s.logger.Info().Str("username", username).Msg("bootstrap admin created")
	return nil
}
