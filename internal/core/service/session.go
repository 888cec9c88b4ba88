package service

import (
	"context"
	"sync"
	"time"

	"github.com/Wyydra/teleguild/internal/core/domain"
	"github.com/Wyydra/teleguild/internal/core/port"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Session is one call between two rooms. Every event it reacts to (ring
// replies, room messages, timers) runs under mu, and each handler first
// checks that the state it expects still holds. Terminal transitions
// dispose every trigger before doing any I/O, so a racing trigger that
// acquires mu afterwards finds the call already terminated.
type Session struct {
	id        domain.CallID
	initiator domain.Room
	target    domain.Room
	requestID domain.MessageID

	policy    domain.CallPolicy
	filter    *ContentFilter
	gateway   port.Gateway
	scheduler port.Scheduler
	registry  *SessionRegistry
	onEnd     func(*Session)
	log       zerolog.Logger

	mu         sync.Mutex
	state      domain.CallState
	cause      domain.TerminationCause
	startedAt  time.Time
	answeredAt time.Time
	limits     *LimitEnforcer
	ledger     *QuoteLedger
	ring       Disposer
	active     Disposer
	done       chan struct{}
}

// SessionInfo is a point-in-time view of a session.
type SessionInfo struct {
	ID         domain.CallID
	Initiator  domain.Room
	Target     domain.Room
	State      domain.CallState
	StartedAt  time.Time
	AnsweredAt time.Time
	Relayed    int
}

type endNotice struct {
	room domain.RoomID
	out  domain.Outgoing
}

func (s *Session) ID() domain.CallID { return s.id }

func (s *Session) Initiator() domain.Room { return s.initiator }

func (s *Session) Target() domain.Room { return s.target }

// Done is closed once the call terminates.
func (s *Session) Done() <-chan struct{} { return s.done }

func (s *Session) State() domain.CallState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Session) Cause() domain.TerminationCause {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cause
}

func (s *Session) StartedAt() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.startedAt
}

func (s *Session) RelayedCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.limits == nil {
		return 0
	}
	return s.limits.Count()
}

// OpenHandles is the number of timers and subscriptions still registered.
func (s *Session) OpenHandles() int {
	return s.ring.Len() + s.active.Len()
}

func (s *Session) Info() SessionInfo {
	s.mu.Lock()
	defer s.mu.Unlock()
	info := SessionInfo{
		ID:         s.id,
		Initiator:  s.initiator,
		Target:     s.target,
		State:      s.state,
		StartedAt:  s.startedAt,
		AnsweredAt: s.answeredAt,
	}
	if s.limits != nil {
		info.Relayed = s.limits.Count()
	}
	return info
}

// HangUp ends the call on behalf of room from. It reports false when the
// call had already ended.
func (s *Session) HangUp(ctx context.Context, from domain.RoomID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch s.state {
	case domain.CallRinging:
		return s.endLocked(ctx, domain.CauseRejected, from, domain.MessageID{})
	case domain.CallAnswered, domain.CallActive:
		return s.endLocked(ctx, domain.CauseHangup, from, domain.MessageID{})
	default:
		return false
	}
}

// shutdown ends the call in any live state with a neutral notice to both rooms.
func (s *Session) shutdown(ctx context.Context) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.endLocked(ctx, domain.CauseHangup, domain.RoomID{}, domain.MessageID{})
}

// start sends the ring notices and arms the ring triggers. On a send
// failure the session terminates without notices and the error wraps
// domain.ErrSetupSend.
func (s *Session) start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.gateway.Send(ctx, s.target.ID, domain.Text(ringNotice(s.policy, s.initiator))); err != nil {
		s.log.Warn().Err(err).Msg("Failed to send ring notice")
		s.terminateLocked(domain.CauseSetupFailure)
		return wrapSetup(err)
	}
	if _, err := s.gateway.Send(ctx, s.initiator.ID, domain.Reply(s.requestID, ringAckNotice(s.target))); err != nil {
		s.log.Warn().Err(err).Msg("Failed to send ring acknowledgment")
		s.terminateLocked(domain.CauseSetupFailure)
		return wrapSetup(err)
	}

	replies := port.All(
		port.ExcludeSender(s.gateway.SelfID()),
		port.ContentIn(s.policy.HangupPhrase, s.policy.AnswerPhrase),
	)
	s.ring.AddSubscription(s.gateway.Subscribe(s.target.ID, replies, s.onRingReply))
	s.ring.AddTimer(s.scheduler.After(s.policy.RingTimeout, s.onRingTimeout))

	s.log.Info().Dur("timeout", s.policy.RingTimeout).Msg("Call ringing")
	return nil
}

func (s *Session) onRingReply(ctx context.Context, msg domain.Message) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != domain.CallRinging {
		return
	}
	switch msg.Content {
	case s.policy.HangupPhrase:
		s.endLocked(ctx, domain.CauseRejected, s.target.ID, msg.ID)
	case s.policy.AnswerPhrase:
		s.answerLocked(ctx)
	}
}

func (s *Session) onRingTimeout() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != domain.CallRinging {
		return
	}
	s.endLocked(context.Background(), domain.CauseRingTimeout, domain.RoomID{}, domain.MessageID{})
}

func (s *Session) answerLocked(ctx context.Context) {
	s.state = domain.CallAnswered
	s.ring.Dispose()

	s.answeredAt = s.scheduler.Now()
	s.limits = NewLimitEnforcer(s.policy.Limit)
	s.ledger = NewQuoteLedger()

	notice := answeredNotice(s.policy)
	s.send(ctx, s.initiator.ID, domain.Reply(s.requestID, notice))
	s.send(ctx, s.target.ID, domain.Text(notice))

	notSelf := port.ExcludeSender(s.gateway.SelfID())
	s.active.AddSubscription(s.gateway.Subscribe(s.target.ID, notSelf, s.direction(s.target, s.initiator)))
	s.active.AddSubscription(s.gateway.Subscribe(s.initiator.ID, notSelf, s.direction(s.initiator, s.target)))

	if d, ok := s.limits.TimeCap(); ok {
		s.active.AddTimer(s.scheduler.After(d, s.onTimeCap))
	}
	if s.policy.TipInterval > 0 {
		s.active.AddTimer(s.scheduler.Every(s.policy.TipInterval, s.onTip))
	}

	s.state = domain.CallActive
	s.log.Info().Str("limit", s.policy.Limit.Mode().String()).Msg("Call answered")
}

func (s *Session) onTimeCap() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != domain.CallActive {
		return
	}
	s.endLocked(context.Background(), domain.CauseTimeLimit, domain.RoomID{}, domain.MessageID{})
}

func (s *Session) onTip() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != domain.CallActive {
		return
	}
	tip := domain.Text(tipNotice(s.policy))
	ctx := context.Background()
	s.send(ctx, s.initiator.ID, tip)
	s.send(ctx, s.target.ID, tip)
}

// endLocked terminates the call and announces why. trigger is the message
// that caused the end, if any, and is quoted back to the origin room.
func (s *Session) endLocked(ctx context.Context, cause domain.TerminationCause, origin domain.RoomID, trigger domain.MessageID) bool {
	if !s.terminateLocked(cause) {
		return false
	}
	s.announceEndLocked(ctx, cause, origin, trigger)
	return true
}

// terminateLocked is the I/O-free half of ending a call. Only the first
// call does anything.
func (s *Session) terminateLocked(cause domain.TerminationCause) bool {
	if s.state.IsTerminal() {
		return false
	}
	s.ring.Dispose()
	s.active.Dispose()

	s.state = domain.CallTerminated
	s.cause = cause
	s.registry.Release(s.initiator.ID, s.target.ID)
	s.ledger = nil
	close(s.done)

	if s.onEnd != nil {
		s.onEnd(s)
	}
	s.log.Info().Str("cause", cause.String()).Msg("Call terminated")
	return true
}

func (s *Session) announceEndLocked(ctx context.Context, cause domain.TerminationCause, origin domain.RoomID, trigger domain.MessageID) {
	for _, n := range s.endNotices(cause, origin, trigger) {
		s.send(ctx, n.room, n.out)
	}
}

func (s *Session) endNotices(cause domain.TerminationCause, origin domain.RoomID, trigger domain.MessageID) []endNotice {
	both := func(text string) []endNotice {
		return []endNotice{
			{s.target.ID, domain.Text(text)},
			{s.initiator.ID, domain.Text(text)},
		}
	}
	switch cause {
	case domain.CauseRejected:
		if origin != s.initiator.ID {
			origin = s.target.ID
		}
		peer := s.peerOf(origin)
		return []endNotice{
			{origin, domain.Reply(trigger, noticeHungUp)},
			{peer, domain.Reply(s.quoteFor(peer), noticeRejectedByPeer)},
		}
	case domain.CauseRingTimeout:
		return []endNotice{
			{s.target.ID, domain.Text(noticeRingTimeout)},
			{s.initiator.ID, domain.Reply(s.requestID, noticeRingTimeout)},
		}
	case domain.CauseHangup:
		if origin != s.initiator.ID && origin != s.target.ID {
			return both(noticeCallEnded)
		}
		return []endNotice{
			{origin, domain.Text(noticeCallEnded)},
			{s.peerOf(origin), domain.Text(noticePeerHungUp)},
		}
	case domain.CauseTimeLimit:
		return both(noticeTimeLimit)
	case domain.CauseMessageLimit:
		return both(noticeMessageLimit)
	default:
		return nil
	}
}

func (s *Session) peerOf(room domain.RoomID) domain.RoomID {
	if room == s.initiator.ID {
		return s.target.ID
	}
	return s.initiator.ID
}

// quoteFor is the message to quote when notifying room: the initiator's
// original request, if room is the initiator.
func (s *Session) quoteFor(room domain.RoomID) domain.MessageID {
	if room == s.initiator.ID {
		return s.requestID
	}
	return domain.MessageID{}
}

func (s *Session) send(ctx context.Context, room domain.RoomID, out domain.Outgoing) (domain.MessageID, error) {
	id, err := s.gateway.Send(ctx, room, out)
	if err != nil {
		s.log.Error().Err(err).Str("room_id", room.String()).Msg("Failed to send message")
	}
	return id, err
}

func newSession(svc *CallService, initiator, target domain.Room, requestID domain.MessageID) *Session {
	id := domain.NewCallID()
	policy, filter := svc.snapshot()
	return &Session{
		id:        id,
		initiator: initiator,
		target:    target,
		requestID: requestID,
		policy:    policy,
		filter:    filter,
		gateway:   svc.gateway,
		scheduler: svc.scheduler,
		registry:  svc.registry,
		onEnd:     svc.untrack,
		log: log.With().
			Str("call_id", id.String()).
			Str("initiator", initiator.ID.String()).
			Str("target", target.ID.String()).
			Logger(),
		state:     domain.CallRinging,
		startedAt: svc.scheduler.Now(),
		done:      make(chan struct{}),
	}
}
