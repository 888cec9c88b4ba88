package ws

import "github.com/Wyydra/teleguild/internal/core/domain"

// Client is one connected room member. The hub calls SendText only from
// its Run loop.
type Client interface {
	ID() string
	RoomID() domain.RoomID
	SendText(msg domain.Message) error
	Close() error
}
