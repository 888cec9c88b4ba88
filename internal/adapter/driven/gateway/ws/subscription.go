package ws

import (
	"context"
	"sync"

	"github.com/Wyydra/teleguild/internal/core/domain"
	"github.com/Wyydra/teleguild/internal/core/port"
)

const subscriptionQueueSize = 64

// subscription delivers one room's messages to a handler in arrival order
// on its own goroutine.
type subscription struct {
	hub     *Hub
	room    domain.RoomID
	filter  port.Filter
	handler port.Handler
	queue   chan domain.Message
	done    chan struct{}
	once    sync.Once
}

func (s *subscription) run() {
	for {
		select {
		case <-s.done:
			return
		case msg := <-s.queue:
			select {
			case <-s.done:
				return
			default:
			}
			s.handler(context.Background(), msg)
		}
	}
}

// offer queues msg without blocking. It reports false when the queue is full.
func (s *subscription) offer(msg domain.Message) bool {
	if s.filter != nil && !s.filter(msg) {
		return true
	}
	select {
	case s.queue <- msg:
		return true
	default:
		return false
	}
}

func (s *subscription) Unsubscribe() {
	s.once.Do(func() {
		close(s.done)
		s.hub.removeSubscription(s)
	})
}
