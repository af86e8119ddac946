package ports

import (
	"context"
	"errors"
	"time"
)

// ErrSessionNotFound is returned when a session id is unknown or expired.
var ErrSessionNotFound = errors.New("session not found")

// SessionStore holds the server-side session records behind bearer tokens.
// Two adapters exist: redis (networked mode) and in-process memory (embedded
// mode, where session lifetime is deliberately process-bound).
type SessionStore interface {
	// Put records sessionID -> userID with the given TTL.
	Put(ctx context.Context, sessionID, userID string, ttl time.Duration) error
	// Get returns the user id bound to sessionID, or ErrSessionNotFound.
	Get(ctx context.Context, sessionID string) (string, error)
	// Delete removes the session. Unknown ids are a no-op.
	Delete(ctx context.Context, sessionID string) error
}
