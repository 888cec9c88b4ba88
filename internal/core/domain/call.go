package domain

import "fmt"

// CallState is the lifecycle state of one call.
type CallState int

const (
	CallRinging CallState = iota
	CallAnswered
	CallActive
	CallTerminated
)

func (s CallState) String() string {
	switch s {
	case CallRinging:
		return "Ringing"
	case CallAnswered:
		return "Answered"
	case CallActive:
		return "Active"
	case CallTerminated:
		return "Terminated"
	default:
		return fmt.Sprintf("Unknown(%d)", s)
	}
}

func (s CallState) IsTerminal() bool {
	return s == CallTerminated
}

// TerminationCause tells why a call ended.
type TerminationCause int

const (
	CauseNone TerminationCause = iota
	// CauseRejected is a hang-up sent while ringing.
	CauseRejected
	CauseRingTimeout
	// CauseHangup is a hang-up sent during an active call.
	CauseHangup
	CauseTimeLimit
	CauseMessageLimit
	CauseSetupFailure
)

func (c TerminationCause) String() string {
	switch c {
	case CauseNone:
		return "None"
	case CauseRejected:
		return "Rejected"
	case CauseRingTimeout:
		return "RingTimeout"
	case CauseHangup:
		return "Hangup"
	case CauseTimeLimit:
		return "TimeLimit"
	case CauseMessageLimit:
		return "MessageLimit"
	case CauseSetupFailure:
		return "SetupFailure"
	default:
		return fmt.Sprintf("Unknown(%d)", c)
	}
}
