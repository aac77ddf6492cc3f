package cart

import "sync"

// Registry holds the live cart controllers keyed by session id. Cart
// view state is ephemeral: it lives only as long as the session and is
// never written to the session store.
type Registry struct {
	mu          sync.Mutex
	api         API
	controllers map[string]*Controller
}

func NewRegistry(api API) *Registry {
	return &Registry{
		api:         api,
		controllers: map[string]*Controller{},
	}
}

// ForSession returns the session's controller, creating one bound to
// the session's bearer token on first use.
func (r *Registry) ForSession(sessionID, token string) *Controller {
	r.mu.Lock()
	defer r.mu.Unlock()
	if ctrl, ok := r.controllers[sessionID]; ok {
		return ctrl
	}
	ctrl := NewController(r.api, token)
	r.controllers[sessionID] = ctrl
	return ctrl
}

// Drop closes and discards the session's controller, typically when
// the session is cleared after a 401 or logout.
func (r *Registry) Drop(sessionID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if ctrl, ok := r.controllers[sessionID]; ok {
		ctrl.Close()
		delete(r.controllers, sessionID)
	}
}
