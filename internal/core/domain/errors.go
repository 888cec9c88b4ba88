package domain

import (
	"errors"
	"fmt"
)

var (
	ErrRoomNotFound    = errors.New("room not found")
	ErrAlreadyInCall   = errors.New("room already in a call")
	ErrSelfCall        = errors.New("cannot call own room")
	ErrSetupSend       = errors.New("failed to send call request")
	ErrMediaDisallowed = errors.New("media not allowed")
	ErrEmptyMessage    = errors.New("message content cannot be empty")

	ErrInitiatorBusy = fmt.Errorf("initiator: %w", ErrAlreadyInCall)
	ErrTargetBusy    = fmt.Errorf("target: %w", ErrAlreadyInCall)
)
