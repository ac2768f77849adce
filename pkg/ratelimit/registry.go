package ratelimit

import "sync"

// Registry holds the rate-limit state for every credential seen by the
// process. It is constructed explicitly and injected; there is no package
// level state and nothing is persisted across restarts.
type Registry struct {
	mu     sync.Mutex
	states map[string]*State
}

// NewRegistry creates an empty rate-limit registry.
func NewRegistry() *Registry {
	return &Registry{
		states: make(map[string]*State),
	}
}

// For returns the shared state for a credential, creating an idle state the
// first time the credential is seen. Every client instance built with the
// same credential receives the same *State.
func (r *Registry) For(credential string) *State {
	r.mu.Lock()
	defer r.mu.Unlock()

	state, ok := r.states[credential]
	if !ok {
		state = &State{}
		r.states[credential] = state
	}
	return state
}
