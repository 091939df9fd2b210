package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"poiviewer/internal/repository"
)

type sessionEntry[T any] struct {
	session     T
	lastTouched time.Time
}

// SessionRepository keeps sessions in a map guarded by an RWMutex. It only
// works for a single-instance deployment; sessions do not survive a restart.
//
// Go Learning Note — Generic Types:
// The repository is generic over the stored session type so the storage
// package does not have to import the services package that defines it
// (which would create an import cycle, since services depends on storage
// contracts).
type SessionRepository[T any] struct {
	mu       sync.RWMutex
	sessions map[string]*sessionEntry[T]
	now      func() time.Time
}

var _ repository.SessionRepository[int] = (*SessionRepository[int])(nil)

func NewSessionRepository[T any]() *SessionRepository[T] {
	return &SessionRepository[T]{
		sessions: make(map[string]*sessionEntry[T]),
		now:      time.Now,
	}
}

func (r *SessionRepository[T]) Create(ctx context.Context, id string, session T) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.sessions[id]; exists {
		return fmt.Errorf("session %s already exists", id)
	}
	r.sessions[id] = &sessionEntry[T]{session: session, lastTouched: r.now()}
	return nil
}

func (r *SessionRepository[T]) Get(ctx context.Context, id string) (T, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entry, exists := r.sessions[id]
	if !exists {
		var zero T
		return zero, repository.ErrSessionNotFound
	}
	return entry.session, nil
}

func (r *SessionRepository[T]) Touch(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry, exists := r.sessions[id]
	if !exists {
		return repository.ErrSessionNotFound
	}
	entry.lastTouched = r.now()
	return nil
}

func (r *SessionRepository[T]) LastTouched(ctx context.Context, id string) (time.Time, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entry, exists := r.sessions[id]
	if !exists {
		return time.Time{}, repository.ErrSessionNotFound
	}
	return entry.lastTouched, nil
}

func (r *SessionRepository[T]) Delete(ctx context.Context, id string) (T, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry, exists := r.sessions[id]
	if !exists {
		var zero T
		return zero, repository.ErrSessionNotFound
	}
	delete(r.sessions, id)
	return entry.session, nil
}

// ExpireIdle removes sessions whose last touch is older than ttl.
//
// Go Learning Note — Safe Map Deletion During Iteration:
// Deleting keys from a map inside a for-range over that same map is
// explicitly allowed by the Go spec.
func (r *SessionRepository[T]) ExpireIdle(ctx context.Context, ttl time.Duration) []T {
	r.mu.Lock()
	defer r.mu.Unlock()

	cutoff := r.now().Add(-ttl)
	var expired []T
	for id, entry := range r.sessions {
		if entry.lastTouched.Before(cutoff) {
			expired = append(expired, entry.session)
			delete(r.sessions, id)
		}
	}
	return expired
}

func (r *SessionRepository[T]) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}
