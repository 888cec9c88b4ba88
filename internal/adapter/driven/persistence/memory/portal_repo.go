package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/Wyydra/teleguild/internal/core/domain"
)

type PortalRepository struct {
	mu     sync.Mutex
	byCall map[int]domain.Portal
	byRoom map[domain.RoomID]int
	next   int
}

func NewPortalRepository() *PortalRepository {
	return &PortalRepository{
		byCall: make(map[int]domain.Portal),
		byRoom: make(map[domain.RoomID]int),
		next:   1,
	}
}

func (r *PortalRepository) Upsert(ctx context.Context, rooms []domain.Room) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, room := range rooms {
		if callID, ok := r.byRoom[room.ID]; ok {
			r.byCall[callID] = domain.Portal{CallID: callID, Room: room}
			continue
		}
		r.byCall[r.next] = domain.Portal{CallID: r.next, Room: room}
		r.byRoom[room.ID] = r.next
		r.next++
	}
	return nil
}

func (r *PortalRepository) Replace(ctx context.Context, portals []domain.Portal) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byCall = make(map[int]domain.Portal, len(portals))
	r.byRoom = make(map[domain.RoomID]int, len(portals))
	r.next = 1
	for _, p := range portals {
		r.byCall[p.CallID] = p
		r.byRoom[p.Room.ID] = p.CallID
		if p.CallID >= r.next {
			r.next = p.CallID + 1
		}
	}
	return nil
}

func (r *PortalRepository) ByCallID(ctx context.Context, callID int) (domain.Portal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.byCall[callID]
	if !ok {
		return domain.Portal{}, domain.ErrRoomNotFound
	}
	return p, nil
}

func (r *PortalRepository) ByRoomID(ctx context.Context, roomID domain.RoomID) (domain.Portal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	callID, ok := r.byRoom[roomID]
	if !ok {
		return domain.Portal{}, domain.ErrRoomNotFound
	}
	return r.byCall[callID], nil
}

func (r *PortalRepository) List(ctx context.Context) ([]domain.Portal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.Portal, 0, len(r.byCall))
	for _, p := range r.byCall {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CallID < out[j].CallID })
	return out, nil
}
