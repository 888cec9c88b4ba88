package port

import (
	"context"

	"github.com/Wyydra/teleguild/internal/core/domain"
)

type MessageRepository interface {
	Save(ctx context.Context, msg domain.Message) error
	ListByRoom(ctx context.Context, roomID domain.RoomID, limit int) ([]domain.Message, error)
}

// PortalRepository persists the room directory.
type PortalRepository interface {
	// Upsert keeps the call id of known rooms, refreshes their names and
	// appends unknown rooms with the next free call id.
	Upsert(ctx context.Context, rooms []domain.Room) error
	// Replace drops every entry and stores portals as given.
	Replace(ctx context.Context, portals []domain.Portal) error
	ByCallID(ctx context.Context, callID int) (domain.Portal, error)
	ByRoomID(ctx context.Context, roomID domain.RoomID) (domain.Portal, error)
	List(ctx context.Context) ([]domain.Portal, error)
}
