package domain

import (
	"errors"
	"strings"
	"time"
)

const (
	DefaultRingTimeout  = 30 * time.Second
	DefaultTipInterval  = 120 * time.Second
	DefaultHangupPhrase = "hang up"
	DefaultAnswerPhrase = "answer"
	DefaultMaskRune     = '*'
)

// CallPolicy holds the operator options that shape every call.
type CallPolicy struct {
	ShowRoomID       bool
	ForbiddenPhrases []string
	MaskRune         rune
	AllowMedia       bool
	// TipInterval of zero disables the periodic hang-up reminder.
	TipInterval  time.Duration
	Limit        LimitConfig
	RingTimeout  time.Duration
	HangupPhrase string
	AnswerPhrase string
}

func DefaultCallPolicy() CallPolicy {
	return CallPolicy{
		MaskRune:     DefaultMaskRune,
		AllowMedia:   true,
		TipInterval:  DefaultTipInterval,
		Limit:        NoLimit(),
		RingTimeout:  DefaultRingTimeout,
		HangupPhrase: DefaultHangupPhrase,
		AnswerPhrase: DefaultAnswerPhrase,
	}
}

func (p CallPolicy) Validate() error {
	if p.RingTimeout <= 0 {
		return errors.New("ring timeout must be positive")
	}
	if p.TipInterval < 0 {
		return errors.New("tip interval cannot be negative")
	}
	if strings.TrimSpace(p.HangupPhrase) == "" || strings.TrimSpace(p.AnswerPhrase) == "" {
		return errors.New("hang-up and answer phrases are required")
	}
	if p.HangupPhrase == p.AnswerPhrase {
		return errors.New("hang-up and answer phrases must differ")
	}
	return nil
}
