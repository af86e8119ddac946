// Package session provides the in-process SessionStore used with the
// embedded storage driver. Sessions live for the lifetime of the process,
// mirroring browser session storage in the system this service replaces.
package session

import (
	"context"
	"sync"
	"time"

	"github.com/diwanhq/diwan/internal/core/ports"
)

type entry struct {
	userID    string
	expiresAt time.Time
}

// MemoryStore is a mutex-guarded map with lazy expiry: expired entries are
// dropped on read, so no background sweeper goroutine is needed.
type MemoryStore struct {
	mu       sync.Mutex
	sessions map[string]entry
	now      func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		sessions: make(map[string]entry),
		now:      time.Now,
	}
}

func (s *MemoryStore) Put(_ context.Context, sessionID, userID string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[sessionID] = entry{userID: userID, expiresAt: s.now().Add(ttl)}
	return nil
}

func (s *MemoryStore) Get(_ context.Context, sessionID string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.sessions[sessionID]
	if !ok {
		return "", ports.ErrSessionNotFound
	}
	if s.now().After(e.expiresAt) {
		delete(s.sessions, sessionID)
		return "", ports.ErrSessionNotFound
	}
	return e.userID, nil
}

func (s *MemoryStore) Delete(_ context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, sessionID)
	return nil
}
