package service

import (
	"errors"
	"fmt"

	"github.com/Wyydra/teleguild/internal/core/domain"
)

const (
	noticeSetupError     = "Failed to send the call request, check the server logs."
	noticeNotFound       = `Room id not found or the directory is stale. Send "/directory" and try again.`
	noticeInitiatorBusy  = "This room is already in a call."
	noticeTargetBusy     = "The other room is in a call, try again later."
	noticeSelfCall       = "You cannot call your own room."
	noticeMissingTarget  = "No room id given."
	noticeMedia          = "Messages in a call cannot contain images, audio or video."
	noticeHungUp         = "Hung up."
	noticeRejectedByPeer = "The other room hung up."
	noticeRingTimeout    = "No answer to the call request, hung up automatically."
	noticeCallEnded      = "Call ended."
	noticePeerHungUp     = "The other room hung up."
	noticeTimeLimit      = "Time limit reached, call ended."
	noticeMessageLimit   = "Message limit reached, call ended."
)

// UserMessage renders err as the text shown to the room that caused it.
func UserMessage(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, domain.ErrRoomNotFound):
		return noticeNotFound
	case errors.Is(err, domain.ErrInitiatorBusy):
		return noticeInitiatorBusy
	case errors.Is(err, domain.ErrTargetBusy), errors.Is(err, domain.ErrAlreadyInCall):
		return noticeTargetBusy
	case errors.Is(err, domain.ErrSelfCall):
		return noticeSelfCall
	case errors.Is(err, domain.ErrMediaDisallowed):
		return noticeMedia
	default:
		return noticeSetupError
	}
}

func MissingTargetMessage() string {
	return noticeMissingTarget
}

func ringNotice(p domain.CallPolicy, from domain.Room) string {
	name := fmt.Sprintf("%q", from.Name)
	if p.ShowRoomID {
		name += fmt.Sprintf(" (%s)", from.ID)
	}
	return fmt.Sprintf("Room %s is calling this room. Send %q or %q within %d seconds.",
		name, p.AnswerPhrase, p.HangupPhrase, int(p.RingTimeout.Seconds()))
}

func ringAckNotice(to domain.Room) string {
	return fmt.Sprintf("Calling room %q...", to.Name)
}

func answeredNotice(p domain.CallPolicy) string {
	msg := fmt.Sprintf("Call connected, anyone can send %q to end the call", p.HangupPhrase)
	if desc := p.Limit.Describe(); desc != "" {
		msg += ", " + desc
	}
	return msg
}

func tipNotice(p domain.CallPolicy) string {
	return fmt.Sprintf("Anyone can send %q to end the current call.", p.HangupPhrase)
}
