package http

import (
	"time"

	"github.com/Wyydra/teleguild/internal/core/domain"
	"github.com/Wyydra/teleguild/internal/core/service"
)

type attachmentDTO struct {
	Kind string `json:"kind"`
	URL  string `json:"url"`
}

type messageDTO struct {
	ID          string          `json:"id"`
	RoomID      string          `json:"room_id"`
	SenderID    string          `json:"sender_id"`
	SenderName  string          `json:"sender_name"`
	Content     string          `json:"content"`
	QuoteID     string          `json:"quote_id,omitempty"`
	Attachments []attachmentDTO `json:"attachments,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
}

func toMessageDTO(msg domain.Message) messageDTO {
	dto := messageDTO{
		ID:         msg.ID.String(),
		RoomID:     msg.RoomID.String(),
		SenderID:   msg.SenderID.String(),
		SenderName: msg.SenderName,
		Content:    msg.Content,
		CreatedAt:  msg.CreatedAt,
	}
	if !msg.QuoteID.IsZero() {
		dto.QuoteID = msg.QuoteID.String()
	}
	for _, a := range msg.Attachments {
		dto.Attachments = append(dto.Attachments, attachmentDTO{Kind: string(a.Kind), URL: a.URL})
	}
	return dto
}

func fromAttachmentDTOs(in []attachmentDTO) []domain.Attachment {
	var out []domain.Attachment
	for _, a := range in {
		out = append(out, domain.Attachment{Kind: domain.MediaKind(a.Kind), URL: a.URL})
	}
	return out
}

type roomDTO struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func toRoomDTO(room domain.Room) roomDTO {
	return roomDTO{ID: room.ID.String(), Name: room.Name}
}

type callDTO struct {
	ID         string     `json:"id"`
	Initiator  roomDTO    `json:"initiator"`
	Target     roomDTO    `json:"target"`
	State      string     `json:"state"`
	StartedAt  time.Time  `json:"started_at"`
	AnsweredAt *time.Time `json:"answered_at,omitempty"`
	Relayed    int        `json:"relayed"`
}

func toCallDTO(info service.SessionInfo) callDTO {
	dto := callDTO{
		ID:        info.ID.String(),
		Initiator: toRoomDTO(info.Initiator),
		Target:    toRoomDTO(info.Target),
		State:     info.State.String(),
		StartedAt: info.StartedAt,
		Relayed:   info.Relayed,
	}
	if !info.AnsweredAt.IsZero() {
		at := info.AnsweredAt
		dto.AnsweredAt = &at
	}
	return dto
}
