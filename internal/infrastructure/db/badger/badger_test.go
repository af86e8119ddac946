package badger

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/diwanhq/diwan/internal/core/domain"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(t.TempDir(), zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func makeBook(id, ownerID string, created time.Time) *domain.Book {
	return &domain.Book{
		ID:        id,
		OwnerID:   ownerID,
		Type:      domain.TypeIncoming,
		Title:     "title " + id,
		Number:    "1",
		Date:      "2024-01-01",
		Entity:    "entity",
		Subject:   "subject",
		CreatedAt: created,
		UpdatedAt: created,
	}
}

func TestBookRepository_CreateAndFind(t *testing.T) {
	repo := NewBookRepository(openTestStore(t))
	ctx := context.Background()

	book := makeBook("bk-1", "usr-1", time.Now().UTC())
	book.File = &domain.BookFile{Name: "scan.pdf", Mime: "application/pdf", Data: "aGVsbG8="}
	require.NoError(t, repo.Create(ctx, book))

	got, err := repo.FindByID(ctx, "usr-1", "bk-1")
	require.NoError(t, err)
	assert.Equal(t, book.Title, got.Title)
	require.NotNil(t, got.File)
	assert.Equal(t, "scan.pdf", got.File.Name)

	// Unscoped lookup resolves the owner through the id index.
	got, err = repo.FindByID(ctx, "", "bk-1")
	require.NoError(t, err)
	assert.Equal(t, "usr-1", got.OwnerID)

	// Owner scoping holds.
	_, err = repo.FindByID(ctx, "usr-2", "bk-1")
	assert.ErrorIs(t, err, domain.ErrBookNotFound)
}

func TestBookRepository_Update(t *testing.T) {
	repo := NewBookRepository(openTestStore(t))
	ctx := context.Background()

	book := makeBook("bk-1", "usr-1", time.Now().UTC())
	require.NoError(t, repo.Create(ctx, book))

	book.Title = "revised"
	require.NoError(t, repo.Update(ctx, book))

	got, err := repo.FindByID(ctx, "usr-1", "bk-1")
	require.NoError(t, err)
	assert.Equal(t, "revised", got.Title)

	missing := makeBook("bk-ghost", "usr-1", time.Now().UTC())
	assert.ErrorIs(t, repo.Update(ctx, missing), domain.ErrBookNotFound)
}

func TestBookRepository_DeleteIdempotent(t *testing.T) {
	repo := NewBookRepository(openTestStore(t))
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, makeBook("bk-1", "usr-1", time.Now().UTC())))

	require.NoError(t, repo.Delete(ctx, "usr-1", "bk-1"))
	_, err := repo.FindByID(ctx, "usr-1", "bk-1")
	assert.ErrorIs(t, err, domain.ErrBookNotFound)

	// Second delete of the same id succeeds.
	require.NoError(t, repo.Delete(ctx, "usr-1", "bk-1"))
}

func TestBookRepository_Delete_WrongOwnerKeepsIndex(t *testing.T) {
	repo := NewBookRepository(openTestStore(t))
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, makeBook("bk-1", "usr-1", time.Now().UTC())))

	// A non-owner's delete is a no-op and must not touch the id index.
	require.NoError(t, repo.Delete(ctx, "usr-2", "bk-1"))

	got, err := repo.FindByID(ctx, "usr-1", "bk-1")
	require.NoError(t, err)
	assert.Equal(t, "bk-1", got.ID)

	// The unscoped lookup still resolves through the index.
	got, err = repo.FindByID(ctx, "", "bk-1")
	require.NoError(t, err)
	assert.Equal(t, "usr-1", got.OwnerID)
}

func TestBookRepository_ListByOwner_CreationOrder(t *testing.T) {
	repo := NewBookRepository(openTestStore(t))
	ctx := context.Background()

	base := time.Now().UTC()
	// Insert out of key order to prove the sort is on creation time.
	require.NoError(t, repo.Create(ctx, makeBook("bk-c", "usr-1", base.Add(2*time.Second))))
	require.NoError(t, repo.Create(ctx, makeBook("bk-a", "usr-1", base)))
	require.NoError(t, repo.Create(ctx, makeBook("bk-b", "usr-1", base.Add(time.Second))))
	require.NoError(t, repo.Create(ctx, makeBook("bk-x", "usr-2", base)))

	books, err := repo.ListByOwner(ctx, "usr-1")
	require.NoError(t, err)
	require.Len(t, books, 3)
	assert.Equal(t, "bk-a", books[0].ID)
	assert.Equal(t, "bk-b", books[1].ID)
	assert.Equal(t, "bk-c", books[2].ID)
}

func TestBookRepository_DeleteByOwner(t *testing.T) {
	repo := NewBookRepository(openTestStore(t))
	ctx := context.Background()

	now := time.Now().UTC()
	require.NoError(t, repo.Create(ctx, makeBook("bk-1", "usr-1", now)))
	require.NoError(t, repo.Create(ctx, makeBook("bk-2", "usr-1", now)))
	require.NoError(t, repo.Create(ctx, makeBook("bk-3", "usr-2", now)))

	require.NoError(t, repo.DeleteByOwner(ctx, "usr-1"))

	gone, err := repo.ListByOwner(ctx, "usr-1")
	require.NoError(t, err)
	assert.Empty(t, gone)

	// The id index entries went with the books.
	_, err = repo.FindByID(ctx, "", "bk-1")
	assert.ErrorIs(t, err, domain.ErrBookNotFound)

	kept, err := repo.ListByOwner(ctx, "usr-2")
	require.NoError(t, err)
	assert.Len(t, kept, 1)
}

func makeUser(id, username string, created time.Time) *domain.User {
	return &domain.User{
		ID:           id,
		Username:     username,
		PasswordHash: "$2a$10$fakefakefakefakefakefake",
		Role:         domain.RoleUser,
		CreatedAt:    created,
		UpdatedAt:    created,
	}
}

func TestUserRepository_CreateAndFind(t *testing.T) {
	repo := NewUserRepository(openTestStore(t))
	ctx := context.Background()

	user := makeUser("usr-1", "karim", time.Now().UTC())
	_, err := repo.Create(ctx, user)
	require.NoError(t, err)

	got, err := repo.FindByID(ctx, "usr-1")
	require.NoError(t, err)
	assert.Equal(t, "karim", got.Username)
	// The hash round-trips even though the domain type hides it from JSON.
	assert.Equal(t, user.PasswordHash, got.PasswordHash)

	byName, err := repo.FindByUsername(ctx, "karim")
	require.NoError(t, err)
	assert.Equal(t, "usr-1", byName.ID)

	_, err = repo.FindByUsername(ctx, "nobody")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestUserRepository_UsernameUniqueness(t *testing.T) {
	repo := NewUserRepository(openTestStore(t))
	ctx := context.Background()

	_, err := repo.Create(ctx, makeUser("usr-1", "karim", time.Now().UTC()))
	require.NoError(t, err)

	_, err = repo.Create(ctx, makeUser("usr-2", "karim", time.Now().UTC()))
	assert.ErrorIs(t, err, domain.ErrUserExists)

	n, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestUserRepository_DeleteReleasesUsername(t *testing.T) {
	repo := NewUserRepository(openTestStore(t))
	ctx := context.Background()

	_, err := repo.Create(ctx, makeUser("usr-1", "karim", time.Now().UTC()))
	require.NoError(t, err)

	require.NoError(t, repo.Delete(ctx, "usr-1"))
	_, err = repo.FindByID(ctx, "usr-1")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)

	// Deleting a missing id is a no-op.
	require.NoError(t, repo.Delete(ctx, "usr-1"))

	// The username can be taken again.
	_, err = repo.Create(ctx, makeUser("usr-2", "karim", time.Now().UTC()))
	require.NoError(t, err)
}

func TestUserRepository_ListAndCount(t *testing.T) {
	repo := NewUserRepository(openTestStore(t))
	ctx := context.Background()

	base := time.Now().UTC()
	_, err := repo.Create(ctx, makeUser("usr-b", "beta", base.Add(time.Second)))
	require.NoError(t, err)
	_, err = repo.Create(ctx, makeUser("usr-a", "alpha", base))
	require.NoError(t, err)

	users, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, "usr-a", users[0].ID)
	assert.Equal(t, "usr-b", users[1].ID)

	n, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
}

func TestStore_Ping(t *testing.T) {
	store := openTestStore(t)
	assert.NoError(t, store.Ping())
}
