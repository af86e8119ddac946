package service

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/diwanhq/diwan/internal/core/domain"
	"github.com/diwanhq/diwan/internal/core/ports"
)

type stubUserRepo struct {
	users []*domain.User
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{}
}

func (r *stubUserRepo) Create(_ context.Context, u *domain.User) (*domain.User, error) {
	for _, existing := range r.users {
		if existing.Username == u.Username {
			return nil, domain.ErrUserExists
		}
	}
	clone := *u
	r.users = append(r.users, &clone)
	return &clone, nil
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	for _, u := range r.users {
		if u.ID == id {
			clone := *u
			return &clone, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) FindByUsername(_ context.Context, username string) (*domain.User, error) {
	for _, u := range r.users {
		if u.Username == username {
			clone := *u
			return &clone, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) List(_ context.Context) ([]*domain.User, error) {
	out := make([]*domain.User, 0, len(r.users))
	for _, u := range r.users {
		clone := *u
		out = append(out, &clone)
	}
	return out, nil
}

func (r *stubUserRepo) Delete(_ context.Context, id string) error {
	out := r.users[:0]
	for _, u := range r.users {
		if u.ID != id {
			out = append(out, u)
		}
	}
	r.users = out
	return nil
}

func (r *stubUserRepo) Count(_ context.Context) (int64, error) {
	return int64(len(r.users)), nil
}

func newUserService(users ports.UserRepository, books ports.BookRepository) *UserService {
	return NewUserService(users, books, zerolog.Nop())
}

func TestUserService_Create_HashesPassword(t *testing.T) {
	repo := newStubUserRepo()
	svc := newUserService(repo, newStubBookRepo())

	user, err := svc.Create(context.Background(), ports.CreateUserInput{
		Username: "karim",
		Password: "pass-12345",
	})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if user.Role != domain.RoleUser {
		t.Fatalf("expected default role user, got %s", user.Role)
	}
	if user.PasswordHash == "pass-12345" {
		t.Fatalf("password stored in the clear")
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("pass-12345")) != nil {
		t.Fatalf("stored hash does not verify against the password")
	}
}

func TestUserService_Create_InvalidInput(t *testing.T) {
	svc := newUserService(newStubUserRepo(), newStubBookRepo())
	ctx := context.Background()

	cases := []ports.CreateUserInput{
		{Username: "", Password: "pass-12345"},
		{Username: "karim", Password: ""},
		{Username: "karim", Password: "pass-12345", Role: "root"},
	}
	for _, in := range cases {
		if _, err := svc.Create(ctx, in); err != domain.ErrInvalidUserInput {
			t.Fatalf("input %+v: expected ErrInvalidUserInput, got %v", in, err)
		}
	}
}

func TestUserService_Create_DuplicateUsername(t *testing.T) {
	repo := newStubUserRepo()
	svc := newUserService(repo, newStubBookRepo())
	ctx := context.Background()

	if _, err := svc.Create(ctx, ports.CreateUserInput{Username: "karim", Password: "pass-12345"}); err != nil {
		t.Fatalf("first create failed: %v", err)
	}
	if _, err := svc.Create(ctx, ports.CreateUserInput{Username: "karim", Password: "other-secret"}); err != domain.ErrUserExists {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}

	users, _ := svc.List(ctx)
	if len(users) != 1 {
		t.Fatalf("rejected create changed the collection: %d users", len(users))
	}
}

func TestUserService_Delete_CascadesBooks(t *testing.T) {
	userRepo := newStubUserRepo()
	bookRepo := newStubBookRepo()
	svc := newUserService(userRepo, bookRepo)
	books := newBookService(bookRepo)
	ctx := context.Background()

	victim, err := svc.Create(ctx, ports.CreateUserInput{Username: "victim", Password: "pass-12345"})
	if err != nil {
		t.Fatalf("create user failed: %v", err)
	}
	other, err := svc.Create(ctx, ports.CreateUserInput{Username: "other", Password: "pass-12345"})
	if err != nil {
		t.Fatalf("create user failed: %v", err)
	}

	for _, owner := range []string{victim.ID, victim.ID, other.ID} {
		in := createInput("incoming", "t")
		in.OwnerID = owner
		if _, err := books.Create(ctx, in); err != nil {
			t.Fatalf("create book failed: %v", err)
		}
	}

	if err := svc.Delete(ctx, "usr-admin", victim.ID); err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}

	if _, err := userRepo.FindByID(ctx, victim.ID); err != domain.ErrUserNotFound {
		t.Fatalf("user survived deletion: %v", err)
	}
	gone, _ := books.List(ctx, ports.ListBooksInput{OwnerID: victim.ID})
	if len(gone.Items) != 0 {
		t.Fatalf("orphan books survived the cascade: %d", len(gone.Items))
	}
	kept, _ := books.List(ctx, ports.ListBooksInput{OwnerID: other.ID})
	if len(kept.Items) != 1 {
		t.Fatalf("cascade deleted another owner's books")
	}
}

func TestUserService_Delete_Self(t *testing.T) {
	svc := newUserService(newStubUserRepo(), newStubBookRepo())

	if err := svc.Delete(context.Background(), "usr-1", "usr-1"); err != domain.ErrSelfDeletion {
		t.Fatalf("expected ErrSelfDeletion, got %v", err)
	}
}

func TestUserService_Delete_Unknown(t *testing.T) {
	svc := newUserService(newStubUserRepo(), newStubBookRepo())

	if err := svc.Delete(context.Background(), "usr-admin", "usr-ghost"); err != domain.ErrUserNotFound {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestUserService_EnsureBootstrapAdmin(t *testing.T) {
	repo := newStubUserRepo()
	svc := newUserService(repo, newStubBookRepo())
	ctx := context.Background()

	if err := svc.EnsureBootstrapAdmin(ctx, "admin", "change-me-now"); err != nil {
		t.Fatalf("bootstrap failed: %v", err)
	}

	users, _ := svc.List(ctx)
	if len(users) != 1 || users[0].Username != "admin" || users[0].Role != domain.RoleAdmin {
		t.Fatalf("unexpected bootstrap result: %+v", users)
	}

	// Second startup is a no-op, even with different credentials.
	if err := svc.EnsureBootstrapAdmin(ctx, "admin2", "whatever-123"); err != nil {
		t.Fatalf("second bootstrap failed: %v", err)
	}
	users, _ = svc.List(ctx)
	if len(users) != 1 {
		t.Fatalf("bootstrap ran twice: %d users", len(users))
	}
}
