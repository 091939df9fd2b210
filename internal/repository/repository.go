// Package repository defines storage contracts for the viewer's runtime state.
// Nothing is persisted; the memory subpackage holds everything in process.
package repository

import (
	"context"
	"errors"
	"time"
)

// ErrSessionNotFound is returned for unknown or expired session ids.
var ErrSessionNotFound = errors.New("session not found")

// SessionRepository stores live viewer sessions by id and tracks when each
// was last used.
type SessionRepository[T any] interface {
	Create(ctx context.Context, id string, session T) error
	Get(ctx context.Context, id string) (T, error)
	// Touch marks the session as used now.
	Touch(ctx context.Context, id string) error
	LastTouched(ctx context.Context, id string) (time.Time, error)
	// Delete removes and returns the session.
	Delete(ctx context.Context, id string) (T, error)
	// ExpireIdle removes and returns every session not touched within ttl.
	ExpireIdle(ctx context.Context, ttl time.Duration) []T
	Count() int
}
