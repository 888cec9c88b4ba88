package service

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/Wyydra/teleguild/internal/core/domain"
	"github.com/Wyydra/teleguild/internal/core/port"
	"github.com/rs/zerolog/log"
)

type RingRequest struct {
	Initiator domain.RoomID
	// Target is a directory call id or a room id.
	Target string
	// RequestID is the command message, quoted in replies to the initiator.
	RequestID domain.MessageID
}

// CallService starts calls and keeps track of the live ones.
type CallService struct {
	directory port.Directory
	gateway   port.Gateway
	scheduler port.Scheduler
	registry  *SessionRegistry

	mu       sync.Mutex
	policy   domain.CallPolicy
	filter   *ContentFilter
	sessions map[domain.CallID]*Session
}

func NewCallService(directory port.Directory, gateway port.Gateway, scheduler port.Scheduler, registry *SessionRegistry, policy domain.CallPolicy) *CallService {
	return &CallService{
		directory: directory,
		gateway:   gateway,
		scheduler: scheduler,
		registry:  registry,
		policy:    policy,
		filter:    NewContentFilterFromPolicy(policy),
		sessions:  make(map[domain.CallID]*Session),
	}
}

func (s *CallService) Policy() domain.CallPolicy {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.policy
}

// SetPolicy applies p to calls rung from now on. Live calls keep the policy
// they started with.
func (s *CallService) SetPolicy(p domain.CallPolicy) error {
	if err := p.Validate(); err != nil {
		return err
	}
	filter := NewContentFilterFromPolicy(p)
	s.mu.Lock()
	s.policy = p
	s.filter = filter
	s.mu.Unlock()
	return nil
}

func (s *CallService) snapshot() (domain.CallPolicy, *ContentFilter) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.policy, s.filter
}

// Ring asks the target room to accept a call from the initiator. Failed
// preconditions return domain errors and leave no state behind.
func (s *CallService) Ring(ctx context.Context, req RingRequest) (*Session, error) {
	target, err := s.directory.Resolve(ctx, req.Target)
	if err != nil {
		return nil, fmt.Errorf("resolve %q: %w", req.Target, err)
	}
	if target.ID == req.Initiator {
		return nil, domain.ErrSelfCall
	}
	initiator, err := s.gateway.Room(ctx, req.Initiator)
	if err != nil {
		return nil, fmt.Errorf("lookup initiator room: %w", err)
	}

	if !s.registry.TryReserve(initiator.ID, target.ID) {
		if _, busy := s.registry.PeerOf(initiator.ID); busy {
			return nil, domain.ErrInitiatorBusy
		}
		return nil, domain.ErrTargetBusy
	}

	session := newSession(s, initiator, target, req.RequestID)
	s.track(session)
	if err := session.start(ctx); err != nil {
		return nil, err
	}
	return session, nil
}

// Sessions lists live calls, oldest first.
func (s *CallService) Sessions() []SessionInfo {
	s.mu.Lock()
	live := make([]*Session, 0, len(s.sessions))
	for _, session := range s.sessions {
		live = append(live, session)
	}
	s.mu.Unlock()

	infos := make([]SessionInfo, 0, len(live))
	for _, session := range live {
		infos = append(infos, session.Info())
	}
	sort.Slice(infos, func(i, j int) bool {
		return infos[i].StartedAt.Before(infos[j].StartedAt)
	})
	return infos
}

// SessionFor returns the live call room takes part in.
func (s *CallService) SessionFor(room domain.RoomID) (*Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, session := range s.sessions {
		if session.initiator.ID == room || session.target.ID == room {
			return session, true
		}
	}
	return nil, false
}

// HangUp ends the call room takes part in, on its behalf.
func (s *CallService) HangUp(ctx context.Context, room domain.RoomID) bool {
	session, ok := s.SessionFor(room)
	if !ok {
		return false
	}
	return session.HangUp(ctx, room)
}

// Close ends every live call.
func (s *CallService) Close(ctx context.Context) {
	s.mu.Lock()
	live := make([]*Session, 0, len(s.sessions))
	for _, session := range s.sessions {
		live = append(live, session)
	}
	s.mu.Unlock()

	for _, session := range live {
		session.shutdown(ctx)
	}
	log.Info().Int("count", len(live)).Msg("Call service closed")
}

func (s *CallService) track(session *Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[session.id] = session
}

func (s *CallService) untrack(session *Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, session.id)
}

func wrapSetup(err error) error {
	return fmt.Errorf("%w: %v", domain.ErrSetupSend, err)
}
