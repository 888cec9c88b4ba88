package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/Wyydra/teleguild/internal/core/domain"
	"github.com/Wyydra/teleguild/internal/core/port"
)

var testEpoch = time.Date(2026, 3, 14, 9, 5, 7, 0, time.Local)

type sentMessage struct {
	ID   domain.MessageID
	Room domain.RoomID
	Out  domain.Outgoing
}

type fakeSubscription struct {
	gw      *fakeGateway
	room    domain.RoomID
	filter  port.Filter
	handler port.Handler
	live    bool
}

func (s *fakeSubscription) Unsubscribe() {
	s.gw.mu.Lock()
	defer s.gw.mu.Unlock()
	s.live = false
}

// fakeGateway delivers posted messages synchronously on the caller's goroutine.
type fakeGateway struct {
	self domain.UserID

	mu       sync.Mutex
	rooms    map[domain.RoomID]domain.Room
	sent     []sentMessage
	subs     []*fakeSubscription
	failSend map[domain.RoomID]error
}

func newFakeGateway(rooms ...domain.Room) *fakeGateway {
	g := &fakeGateway{
		self:     domain.NewUserID(),
		rooms:    make(map[domain.RoomID]domain.Room),
		failSend: make(map[domain.RoomID]error),
	}
	for _, r := range rooms {
		g.rooms[r.ID] = r
	}
	return g
}

func (g *fakeGateway) SelfID() domain.UserID { return g.self }

func (g *fakeGateway) Send(ctx context.Context, roomID domain.RoomID, out domain.Outgoing) (domain.MessageID, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if err := g.failSend[roomID]; err != nil {
		return domain.MessageID{}, err
	}
	id := domain.NewMessageID()
	g.sent = append(g.sent, sentMessage{ID: id, Room: roomID, Out: out})
	return id, nil
}

func (g *fakeGateway) Publish(ctx context.Context, msg domain.Message) error {
	g.deliver(msg)
	return nil
}

func (g *fakeGateway) Subscribe(roomID domain.RoomID, filter port.Filter, handler port.Handler) port.Subscription {
	g.mu.Lock()
	defer g.mu.Unlock()
	sub := &fakeSubscription{gw: g, room: roomID, filter: filter, handler: handler, live: true}
	g.subs = append(g.subs, sub)
	return sub
}

func (g *fakeGateway) Room(ctx context.Context, roomID domain.RoomID) (domain.Room, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	room, ok := g.rooms[roomID]
	if !ok {
		return domain.Room{}, domain.ErrRoomNotFound
	}
	return room, nil
}

func (g *fakeGateway) Rooms(ctx context.Context) ([]domain.Room, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	rooms := make([]domain.Room, 0, len(g.rooms))
	for _, r := range g.rooms {
		rooms = append(rooms, r)
	}
	sort.Slice(rooms, func(i, j int) bool { return rooms[i].Name < rooms[j].Name })
	return rooms, nil
}

func (g *fakeGateway) deliver(msg domain.Message) {
	g.mu.Lock()
	var targets []*fakeSubscription
	for _, s := range g.subs {
		if s.live && s.room == msg.RoomID {
			targets = append(targets, s)
		}
	}
	g.mu.Unlock()

	for _, s := range targets {
		g.mu.Lock()
		live := s.live
		g.mu.Unlock()
		if !live || (s.filter != nil && !s.filter(msg)) {
			continue
		}
		s.handler(context.Background(), msg)
	}
}

// post delivers a member message to room and returns it.
func (g *fakeGateway) post(room domain.RoomID, sender, content string) domain.Message {
	msg := domain.Message{
		ID:         domain.NewMessageID(),
		RoomID:     room,
		SenderID:   domain.NewUserID(),
		SenderName: sender,
		Content:    content,
		CreatedAt:  time.Now(),
	}
	g.deliver(msg)
	return msg
}

func (g *fakeGateway) sentTo(room domain.RoomID) []sentMessage {
	g.mu.Lock()
	defer g.mu.Unlock()
	var out []sentMessage
	for _, m := range g.sent {
		if m.Room == room {
			out = append(out, m)
		}
	}
	return out
}

func (g *fakeGateway) countSent(room domain.RoomID, content string) int {
	n := 0
	for _, m := range g.sentTo(room) {
		if m.Out.Content == content {
			n++
		}
	}
	return n
}

func (g *fakeGateway) totalSent() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.sent)
}

func (g *fakeGateway) liveSubscriptions() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	n := 0
	for _, s := range g.subs {
		if s.live {
			n++
		}
	}
	return n
}

type fakeTimer struct {
	s       *fakeScheduler
	at      time.Time
	every   time.Duration
	fn      func()
	stopped bool
}

func (t *fakeTimer) Stop() {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	t.stopped = true
}

// fakeScheduler fires timers on the goroutine calling Advance.
type fakeScheduler struct {
	mu     sync.Mutex
	now    time.Time
	timers []*fakeTimer
}

func newFakeScheduler(now time.Time) *fakeScheduler {
	return &fakeScheduler{now: now}
}

func (s *fakeScheduler) Now() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.now
}

func (s *fakeScheduler) After(d time.Duration, fn func()) port.Timer {
	return s.add(d, 0, fn)
}

func (s *fakeScheduler) Every(d time.Duration, fn func()) port.Timer {
	return s.add(d, d, fn)
}

func (s *fakeScheduler) add(d, every time.Duration, fn func()) *fakeTimer {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := &fakeTimer{s: s, at: s.now.Add(d), every: every, fn: fn}
	s.timers = append(s.timers, t)
	return t
}

func (s *fakeScheduler) Advance(d time.Duration) {
	s.mu.Lock()
	target := s.now.Add(d)
	s.mu.Unlock()

	for {
		s.mu.Lock()
		var next *fakeTimer
		for _, t := range s.timers {
			if t.stopped || t.at.After(target) {
				continue
			}
			if next == nil || t.at.Before(next.at) {
				next = t
			}
		}
		if next == nil {
			s.now = target
			s.mu.Unlock()
			return
		}
		s.now = next.at
		if next.every > 0 {
			next.at = next.at.Add(next.every)
		} else {
			next.stopped = true
		}
		fn := next.fn
		s.mu.Unlock()
		fn()
	}
}

func (s *fakeScheduler) live() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, t := range s.timers {
		if !t.stopped {
			n++
		}
	}
	return n
}

// staticDirectory resolves refs by room name or id string.
type staticDirectory map[string]domain.Room

func (d staticDirectory) Resolve(ctx context.Context, ref string) (domain.Room, error) {
	room, ok := d[ref]
	if !ok {
		return domain.Room{}, domain.ErrRoomNotFound
	}
	return room, nil
}
