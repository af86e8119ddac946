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
	bookPrefix      = "book:"            // book:<owner_id>:<book_id> -> Book JSON
	bookOwnerPrefix = "idx:books:owner:" // idx:books:owner:<book_id> -> owner_id
)

// BookRepository stores books under per-owner key prefixes. An id index maps
// a book id back to its owner so unscoped (admin) lookups stay cheap.
type BookRepository struct {
	store *Store
}

func NewBookRepository(store *Store) *BookRepository {
	return &BookRepository{store: store}
}

func bookKey(ownerID, id string) []byte {
	return []byte(bookPrefix + ownerID + ":" + id)
}

func ownerIndexKey(id string) []byte {
	return []byte(bookOwnerPrefix + id)
}

func (r *BookRepository) Create(ctx context.Context, b *domain.Book) error {
	data, err := json.Marshal(b)
	if err != nil {
		return fmt.Errorf("marshal book: %w", err)
	}

	return r.store.db.Update(func(txn *badger.Txn) error {
		if err := txn.Set(bookKey(b.OwnerID, b.ID), data); err != nil {
			return err
		}
		return txn.Set(ownerIndexKey(b.ID), []byte(b.OwnerID))
	})
}

func (r *BookRepository) FindByID(ctx context.Context, ownerID, id string) (*domain.Book, error) {
	if ownerID == "" {
		// Unscoped lookup: resolve the owner through the id index first.
		resolved, err := r.resolveOwner(id)
		if err != nil {
			return nil, err
		}
		ownerID = resolved
	}

	var b domain.Book
	if err := r.store.get(bookKey(ownerID, id), &b); err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, domain.ErrBookNotFound
		}
		return nil, fmt.Errorf("get book: %w", err)
	}
	return &b, nil
}

func (r *BookRepository) Update(ctx context.Context, b *domain.Book) error {
	data, err := json.Marshal(b)
	if err != nil {
		return fmt.Errorf("marshal book: %w", err)
	}

	key := bookKey(b.OwnerID, b.ID)
	return r.store.db.Update(func(txn *badger.Txn) error {
		if _, err := txn.Get(key); err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return domain.ErrBookNotFound
			}
			return err
		}
		return txn.Set(key, data)
	})
}

// Delete removes a book. Unknown ids are a no-op; the id index entry only
// goes away together with a book the caller actually owns.
func (r *BookRepository) Delete(ctx context.Context, ownerID, id string) error {
	key := bookKey(ownerID, id)
	return r.store.db.Update(func(txn *badger.Txn) error {
		if _, err := txn.Get(key); err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return nil
			}
			return err
		}
		if err := txn.Delete(key); err != nil {
			return err
		}
		return txn.Delete(ownerIndexKey(id))
	})
}

// ListByOwner returns the owner's collection in creation order. A value that
// fails to decode is logged and skipped rather than failing the whole list.
func (r *BookRepository) ListByOwner(ctx context.Context, ownerID string) ([]*domain.Book, error) {
	prefix := []byte(bookPrefix + ownerID + ":")

	var books []*domain.Book
	err := r.store.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			item := it.Item()
			err := item.Value(func(val []byte) error {
				var b domain.Book
				if err := json.Unmarshal(val, &b); err != nil {
					r.store.logger.Warn().Err(err).Str("key", string(item.Key())).Msg("skipping corrupt book record")
					return nil
				}
				books = append(books, &b)
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

	// Keys are grouped per owner but not time-ordered; restore creation order.
	sort.Slice(books, func(i, j int) bool {
		if !books[i].CreatedAt.Equal(books[j].CreatedAt) {
			return books[i].CreatedAt.Before(books[j].CreatedAt)
		}
		return books[i].ID < books[j].ID
	})
	return books, nil
}

// DeleteByOwner removes the owner's entire collection in one transaction.
func (r *BookRepository) DeleteByOwner(ctx context.Context, ownerID string) error {
	prefix := []byte(bookPrefix + ownerID + ":")

	return r.store.db.Update(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)

		var keys [][]byte
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			keys = append(keys, it.Item().KeyCopy(nil))
		}
		it.Close()

		for _, key := range keys {
			id := string(key[len(prefix):])
			if err := txn.Delete(key); err != nil {
				return err
			}
			if err := txn.Delete(ownerIndexKey(id)); err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *BookRepository) resolveOwner(id string) (string, error) {
	var ownerID string
	err := r.store.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(ownerIndexKey(id))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			ownerID = string(val)
			return nil
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return "", domain.ErrBookNotFound
	}
	if err != nil {
		return "", err
	}
	return ownerID, nil
}
