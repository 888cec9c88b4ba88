package domain

import (
	"github.com/google/uuid"
)

type UserID uuid.UUID
type RoomID uuid.UUID
type MessageID uuid.UUID
type CallID uuid.UUID

func NewUserID() UserID {
	return UserID(uuid.New())
}

func NewRoomID() RoomID {
	return RoomID(uuid.New())
}

// RoomIDFromName derives a room id that stays the same across restarts.
func RoomIDFromName(name string) RoomID {
	return RoomID(uuid.NewSHA1(uuid.NameSpaceURL, []byte("teleguild/rooms/"+name)))
}

func NewMessageID() MessageID {
	return MessageID(uuid.New())
}

func NewCallID() CallID {
	return CallID(uuid.New())
}

func ParseRoomID(s string) (RoomID, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return RoomID{}, err
	}
	return RoomID(id), nil
}

func ParseMessageID(s string) (MessageID, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return MessageID{}, err
	}
	return MessageID(id), nil
}

func (id UserID) String() string {
	return uuid.UUID(id).String()
}

func (id RoomID) String() string {
	return uuid.UUID(id).String()
}

func (id MessageID) String() string {
	return uuid.UUID(id).String()
}

// IsZero reports whether id is unset, i.e. "no message".
func (id MessageID) IsZero() bool {
	return uuid.UUID(id) == uuid.Nil
}

func (id CallID) String() string {
	return uuid.UUID(id).String()
}
