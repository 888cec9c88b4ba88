package http

import (
	"context"
	"strings"

	"github.com/Wyydra/teleguild/internal/core/domain"
	"github.com/Wyydra/teleguild/internal/core/service"
	"github.com/rs/zerolog/log"
)

const (
	commandCall      = "/call"
	commandDirectory = "/directory"
)

// parseCommand splits "/call 3" into ("/call", "3"). ok is false for
// ordinary chat lines.
func parseCommand(content string) (name, arg string, ok bool) {
	fields := strings.Fields(content)
	if len(fields) == 0 {
		return "", "", false
	}
	switch fields[0] {
	case commandCall, commandDirectory:
		return fields[0], strings.Join(fields[1:], " "), true
	default:
		return "", "", false
	}
}

// runCommand answers a chat command in the room it came from, quoting it.
func (h *Handler) runCommand(ctx context.Context, msg domain.Message, name, arg string) {
	var reply string
	switch name {
	case commandDirectory:
		reply = h.renderDirectory(ctx)

	case commandCall:
		if arg == "" {
			reply = service.MissingTargetMessage() + "\n" + h.renderDirectory(ctx)
			break
		}
		_, err := h.CallService.Ring(ctx, service.RingRequest{
			Initiator: msg.RoomID,
			Target:    arg,
			RequestID: msg.ID,
		})
		if err == nil {
			return
		}
		log.Info().Err(err).Str("room_id", msg.RoomID.String()).Str("target", arg).Msg("Call request refused")
		reply = service.UserMessage(err)
	}

	if _, err := h.Hub.Send(ctx, msg.RoomID, domain.Reply(msg.ID, reply)); err != nil {
		log.Error().Err(err).Str("room_id", msg.RoomID.String()).Msg("Failed to answer command")
	}
}

func (h *Handler) renderDirectory(ctx context.Context) string {
	text, err := h.DirectoryService.Render(ctx)
	if err != nil {
		log.Error().Err(err).Msg("Failed to render directory")
		return "The directory is unavailable."
	}
	return text
}
