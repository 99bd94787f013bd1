package ws

import (
	"sync"
)

// UserRoom returns the fan-out room token for an identity. Every
// connection a user holds is joined to this one room.
func UserRoom(identity string) string {
	return "user:" + identity
}

// Registry tracks which identities currently have live connections.
// It is set-valued: one identity may hold many connections at once,
// and stays present until the last one leaves.
type Registry struct {
	mu      sync.RWMutex
	members map[string]map[string]struct{}
}

func NewRegistry() *Registry {
	return &Registry{
		members: make(map[string]map[string]struct{}),
	}
}

// Join binds a connection id to an identity.
func (r *Registry) Join(identity, connID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	set, ok := r.members[identity]
	if !ok {
		set = make(map[string]struct{})
		r.members[identity] = set
	}
	set[connID] = struct{}{}
}

// Leave removes a connection id from an identity. Removing an unknown
// pair is a no-op.
func (r *Registry) Leave(identity, connID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	set, ok := r.members[identity]
	if !ok {
		return
	}
	delete(set, connID)
	if len(set) == 0 {
		delete(r.members, identity)
	}
}

// IsPresent reports whether the identity has at least one live
// connection.
func (r *Registry) IsPresent(identity string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.members[identity]) > 0
}

// Connections returns how many live connections an identity holds.
func (r *Registry) Connections(identity string) int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.members[identity])
}
