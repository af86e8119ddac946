// Package badger is the embedded storage adapter. It keeps the whole registry
// in a local Badger key-value store with JSON values, for deployments that
// run without any external database process.
package badger

import (
	"encoding/json"
	"fmt"

	"github.com/dgraph-io/badger/v4"
	"github.com/rs/zerolog"
)

// Store wraps a Badger database instance shared by the book and user
// repositories.
type Store struct {
	db     *badger.DB
	logger zerolog.Logger
}

// Open opens (or creates) the database at path.
func Open(path string, logger zerolog.Logger) (*Store, error) {
	opts := badger.DefaultOptions(path)
	opts.Logger = nil      // Badger's own logging is too chatty for a service log
	opts.SyncWrites = true // survive crashes without losing acknowledged writes

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger db: %w", err)
	}

	logger.Info().Str("path", path).Msg("badger database opened")
	return &Store{db: db, logger: logger}, nil
}

// Close flushes and closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Ping verifies the database is still usable. Used by the readiness probe.
func (s *Store) Ping() error {
	return s.db.View(func(*badger.Txn) error { return nil })
}

// get reads the value at key into out. Returns badger.ErrKeyNotFound when absent.
func (s *Store) get(key []byte, out any) error {
	return s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(key)
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, out)
		})
	})
}

// exists reports whether key is present.
func (s *Store) exists(key []byte) (bool, error) {
	err := s.db.View(func(txn *badger.Txn) error {
		_, err := txn.Get(key)
		return err
	})
	if err == badger.ErrKeyNotFound {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
