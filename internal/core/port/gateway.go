package port

import (
	"context"

	"github.com/Wyydra/teleguild/internal/core/domain"
)

// Filter decides whether a subscription sees a message.
type Filter func(msg domain.Message) bool

type Handler func(ctx context.Context, msg domain.Message)

// Subscription is a live listener on one room. Unsubscribe is idempotent
// and never waits for an in-flight handler.
type Subscription interface {
	Unsubscribe()
}

// Gateway is the messaging network the bot lives on.
type Gateway interface {
	// SelfID is the sender id stamped on messages sent through Send.
	SelfID() domain.UserID
	Send(ctx context.Context, roomID domain.RoomID, out domain.Outgoing) (domain.MessageID, error)
	Publish(ctx context.Context, msg domain.Message) error
	Subscribe(roomID domain.RoomID, filter Filter, handler Handler) Subscription
	Room(ctx context.Context, roomID domain.RoomID) (domain.Room, error)
	Rooms(ctx context.Context) ([]domain.Room, error)
}

func ExcludeSender(id domain.UserID) Filter {
	return func(msg domain.Message) bool {
		return msg.SenderID != id
	}
}

// ContentIn matches messages whose whole content equals one of phrases.
func ContentIn(phrases ...string) Filter {
	return func(msg domain.Message) bool {
		for _, p := range phrases {
			if msg.Content == p {
				return true
			}
		}
		return false
	}
}

func All(filters ...Filter) Filter {
	return func(msg domain.Message) bool {
		for _, f := range filters {
			if f != nil && !f(msg) {
				return false
			}
		}
		return true
	}
}
