package domain

import (
	"strings"
	"time"
)

type MediaKind string

const (
	MediaImage MediaKind = "image"
	MediaAudio MediaKind = "audio"
	MediaVideo MediaKind = "video"
)

// inline markup some gateways embed in content instead of attachments
var mediaMarkers = []string{"<img", "<audio", "<video"}

type Attachment struct {
	Kind MediaKind
	URL  string
}

type Message struct {
	ID          MessageID
	RoomID      RoomID
	SenderID    UserID
	SenderName  string
	Content     string
	QuoteID     MessageID
	Attachments []Attachment
	CreatedAt   time.Time
}

func NewMessage(senderID UserID, senderName string, roomID RoomID, content string) (*Message, error) {
	if strings.TrimSpace(content) == "" {
		return nil, ErrEmptyMessage
	}
	return &Message{
		ID:         NewMessageID(),
		RoomID:     roomID,
		SenderID:   senderID,
		SenderName: senderName,
		Content:    content,
		CreatedAt:  time.Now(),
	}, nil
}

// Validate reports whether msg carries anything to deliver.
func (m Message) Validate() error {
	if strings.TrimSpace(m.Content) == "" && len(m.Attachments) == 0 {
		return ErrEmptyMessage
	}
	return nil
}

func (m Message) HasMedia() bool {
	if len(m.Attachments) > 0 {
		return true
	}
	for _, marker := range mediaMarkers {
		if strings.Contains(m.Content, marker) {
			return true
		}
	}
	return false
}

// Outgoing is a message the bot asks a gateway to deliver.
type Outgoing struct {
	Content     string
	QuoteID     MessageID
	Attachments []Attachment
}

func Text(content string) Outgoing {
	return Outgoing{Content: content}
}

func Reply(quote MessageID, content string) Outgoing {
	return Outgoing{Content: content, QuoteID: quote}
}
