package service

import (
	"context"
	"fmt"
	"time"

	"github.com/Wyydra/teleguild/internal/core/domain"
	"github.com/Wyydra/teleguild/internal/core/port"
)

// direction binds the handler for messages flowing from one room to its peer.
func (s *Session) direction(from, to domain.Room) port.Handler {
	return func(ctx context.Context, msg domain.Message) {
		s.onRoomMessage(ctx, from, to, msg)
	}
}

func (s *Session) onRoomMessage(ctx context.Context, from, to domain.Room, msg domain.Message) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != domain.CallActive {
		return
	}
	if msg.Content == s.policy.HangupPhrase {
		s.endLocked(ctx, domain.CauseHangup, from.ID, msg.ID)
		return
	}
	s.relayLocked(ctx, from, to, msg)
}

func (s *Session) relayLocked(ctx context.Context, from, to domain.Room, msg domain.Message) {
	if err := s.filter.Admit(msg); err != nil {
		s.send(ctx, from.ID, domain.Reply(msg.ID, UserMessage(err)))
		return
	}

	out := domain.Outgoing{
		Content:     formatRelayLine(msg.SenderName, s.scheduler.Now(), s.filter.Redact(msg.Content)),
		Attachments: msg.Attachments,
	}
	if original, ok := s.ledger.Lookup(msg.QuoteID); ok {
		out.QuoteID = original
	}

	// only delivered messages count toward the cap
	if s.limits.IsLastRelay() {
		// the cap is reached: tear down first so nothing else can relay,
		// then deliver this last message and the notices
		s.terminateLocked(domain.CauseMessageLimit)
		if _, err := s.send(ctx, to.ID, out); err == nil {
			s.limits.OnMessageRelayed()
		}
		s.announceEndLocked(ctx, domain.CauseMessageLimit, from.ID, msg.ID)
		return
	}

	relayed, err := s.send(ctx, to.ID, out)
	if err != nil {
		return
	}
	s.limits.OnMessageRelayed()
	s.ledger.Record(relayed, msg.ID)
	s.log.Debug().
		Str("from", from.ID.String()).
		Str("message_id", msg.ID.String()).
		Str("relayed_id", relayed.String()).
		Msg("Message relayed")
}

func formatRelayLine(sender string, at time.Time, content string) string {
	return fmt.Sprintf("[%s %s] %s", sender, at.Format("15:04:05"), content)
}
