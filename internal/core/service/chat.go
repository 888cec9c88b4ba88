package service

import (
	"context"
	"time"

	"github.com/Wyydra/teleguild/internal/core/domain"
	"github.com/Wyydra/teleguild/internal/core/port"
)

const defaultHistoryLimit = 50

type ChatService struct {
	repo    port.MessageRepository
	gateway port.Gateway
}

func NewChatService(repo port.MessageRepository, gateway port.Gateway) *ChatService {
	return &ChatService{
		repo:    repo,
		gateway: gateway,
	}
}

// SendMessage publishes a message written by a room member.
func (s *ChatService) SendMessage(ctx context.Context, msg domain.Message) (domain.Message, error) {
	if err := msg.Validate(); err != nil {
		return domain.Message{}, err
	}
	if msg.ID.IsZero() {
		msg.ID = domain.NewMessageID()
	}
	if msg.CreatedAt.IsZero() {
		msg.CreatedAt = time.Now()
	}
	if err := s.gateway.Publish(ctx, msg); err != nil {
		return domain.Message{}, err
	}
	return msg, nil
}

func (s *ChatService) History(ctx context.Context, roomID domain.RoomID, limit int) ([]domain.Message, error) {
	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	return s.repo.ListByRoom(ctx, roomID, limit)
}
