package port

import (
	"context"

	"github.com/Wyydra/teleguild/internal/core/domain"
)

type Directory interface {
	// Resolve maps a short call id or a room id to a room, or returns
	// domain.ErrRoomNotFound.
	Resolve(ctx context.Context, ref string) (domain.Room, error)
}
