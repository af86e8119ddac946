package badger

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/dgraph-io/badger/v4"

	"github.com/diwanhq/diwan/internal/core/domain"
)

const (
	userPrefix           = "user:"               // user:<id> -> storedUser JSON
	userByUsernamePrefix = "idx:users:username:" // for login lookups and uniqueness
)

// UserRepository stores accounts with a username index that doubles as the
// uniqueness guard: the index write and the uniqueness check share one
// transaction.
type UserRepository struct {
	store *Store
}

func NewUserRepository(store *Store) *UserRepository {
	return &UserRepository{store: store}
}

// storedUser carries the password hash, which the domain type never
// serializes.
type storedUser struct {
	domain.User
	PasswordHash string `json:"password_hash"`
}

func userKey(id string) []byte {
	return []byte(userPrefix + id)
}

func usernameKey(username string) []byte {
	return []byte(userByUsernamePrefix + username)
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	data, err := json.Marshal(storedUser{User: *user, PasswordHash: user.PasswordHash})
	if err != nil {
		return nil, fmt.Errorf("marshal user: %w", err)
	}

	err = r.store.db.Update(func(txn *badger.Txn) error {
		_, err := txn.Get(usernameKey(user.Username))
		if err == nil {
			return domain.ErrUserExists
		}
		if !errors.Is(err, badger.ErrKeyNotFound) {
			return fmt.Errorf("check username: %w", err)
		}

		if err := txn.Set(userKey(user.ID), data); err != nil {
			return err
		}
		return txn.Set(usernameKey(user.Username), []byte(user.ID))
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	var su storedUser
	if err := r.store.get(userKey(id), &su); err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return su.toDomain(), nil
}

func (r *UserRepository) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	var userID string
	err := r.store.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(usernameKey(username))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			userID = string(val)
			return nil
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, domain.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("resolve username: %w", err)
	}
	return r.FindByID(ctx, userID)
}

func (r *UserRepository) List(ctx context.Context) ([]*domain.User, error) {
	prefix := []byte(userPrefix)

	var users []*domain.User
	err := r.store.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			item := it.Item()
			err := item.Value(func(val []byte) error {
				var su storedUser
				if err := json.Unmarshal(val, &su); err != nil {
					r.store.logger.Warn().Err(err).Str("key", string(item.Key())).Msg("skipping corrupt user record")
					return nil
				}
				users = append(users, su.toDomain())
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(users, func(i, j int) bool {
		if !users[i].CreatedAt.Equal(users[j].CreatedAt) {
			return users[i].CreatedAt.Before(users[j].CreatedAt)
		}
		return users[i].ID < users[j].ID
	})
	return users, nil
}

func (r *UserRepository) Delete(ctx context.Context, id string) error {
	return r.store.db.Update(func(txn *badger.Txn) error {
		var su storedUser
		item, err := txn.Get(userKey(id))
		if err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return nil
			}
			return err
		}
		if err := item.Value(func(val []byte) error {
			return json.Unmarshal(val, &su)
		}); err != nil {
			return err
		}

		if err := txn.Delete(userKey(id)); err != nil {
			return err
		}
		return txn.Delete(usernameKey(su.Username))
	})
}

func (r *UserRepository) Count(ctx context.Context) (int64, error) {
	prefix := []byte(userPrefix)

	var n int64
	err := r.store.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			n++
		}
		return nil
	})
	return n, err
}

func (su storedUser) toDomain() *domain.User {
	u := su.User
	u.PasswordHash = su.PasswordHash
	return &u
}
