package checkout

import (
	"sync"

	"github.com/Mongkol7/E-Bookstore/internal/upstream"
)

// Registry tracks the open wizard per session. Starting a new checkout
// replaces any previous wizard for that session, so stale attempts
// cannot submit.
type Registry struct {
	mu      sync.Mutex
	api     API
	wizards map[string]*Wizard
}

func NewRegistry(api API) *Registry {
	return &Registry{
		api:     api,
		wizards: map[string]*Wizard{},
	}
}

// Start opens a fresh wizard over the synced item snapshot, closing
// any wizard the session already had open.
func (r *Registry) Start(sessionID, token string, items []upstream.CartItem) *Wizard {
	r.mu.Lock()
	defer r.mu.Unlock()
	if prev, ok := r.wizards[sessionID]; ok {
		prev.Close()
	}
	w := NewWizard(r.api, token, items)
	r.wizards[sessionID] = w
	return w
}

// ForSession returns the session's open wizard, if any.
func (r *Registry) ForSession(sessionID string) (*Wizard, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	w, ok := r.wizards[sessionID]
	return w, ok
}

// Drop closes and discards the session's wizard, on completion or when
// the session is cleared.
func (r *Registry) Drop(sessionID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if w, ok := r.wizards[sessionID]; ok {
		w.Close()
		delete(r.wizards, sessionID)
	}
}
