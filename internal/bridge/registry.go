package bridge

import (
	"sync"

	"poiviewer/internal/services"
)

// Registry hands out one Browser per session and lets the HTTP layer find
// it again when the browser reports back.
type Registry struct {
	hub *Hub

	mu       sync.RWMutex
	browsers map[string]*Browser
}

var _ services.CollaboratorProvider = (*Registry)(nil)

func NewRegistry(hub *Hub) *Registry {
	return &Registry{
		hub:      hub,
		browsers: make(map[string]*Browser),
	}
}

// Acquire creates the session's Browser.
func (r *Registry) Acquire(session string) services.Collaborators {
	b := NewBrowser(session, r.hub)

	r.mu.Lock()
	r.browsers[session] = b
	r.mu.Unlock()

	return b.Collaborators()
}

// Release forgets the session's Browser and disconnects its clients.
func (r *Registry) Release(session string) {
	r.mu.Lock()
	delete(r.browsers, session)
	r.mu.Unlock()

	r.hub.DropSession(session)
}

// Browser returns the session's Browser.
func (r *Registry) Browser(session string) (*Browser, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	b, ok := r.browsers[session]
	return b, ok
}

// Hub returns the hub the registry sends through.
func (r *Registry) Hub() *Hub { return r.hub }
