package service

import (
	"sync"

	"github.com/Wyydra/teleguild/internal/core/domain"
)

// SessionRegistry records which rooms are engaged in a call and with whom.
// Entries are symmetric: a reservation inserts a->b and b->a together.
type SessionRegistry struct {
	mu    sync.Mutex
	peers map[domain.RoomID]domain.RoomID
}

func NewSessionRegistry() *SessionRegistry {
	return &SessionRegistry{peers: make(map[domain.RoomID]domain.RoomID)}
}

// TryReserve engages a and b only if neither is already engaged.
func (r *SessionRegistry) TryReserve(a, b domain.RoomID) bool {
	if a == b {
		return false
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, busy := r.peers[a]; busy {
		return false
	}
	if _, busy := r.peers[b]; busy {
		return false
	}
	r.peers[a] = b
	r.peers[b] = a
	return true
}

// Release frees the pair. It is a no-op unless a and b are reserved with
// each other, so a stale release cannot free another call's rooms.
func (r *SessionRegistry) Release(a, b domain.RoomID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if peer, ok := r.peers[a]; ok && peer == b {
		delete(r.peers, a)
	}
	if peer, ok := r.peers[b]; ok && peer == a {
		delete(r.peers, b)
	}
}

func (r *SessionRegistry) PeerOf(room domain.RoomID) (domain.RoomID, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	peer, ok := r.peers[room]
	return peer, ok
}

func (r *SessionRegistry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.peers)
}
