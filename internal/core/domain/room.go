package domain

// Room is a reference to a chat room owned by the gateway.
type Room struct {
	ID   RoomID
	Name string
}

// Portal is a directory entry. CallID is the short numeric id users dial.
type Portal struct {
	CallID int
	Room   Room
}
