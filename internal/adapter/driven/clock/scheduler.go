package clock

import (
	"sync"
	"time"

	"github.com/Wyydra/teleguild/internal/core/port"
	"github.com/benbjohnson/clock"
)

// Scheduler implements port.Scheduler on top of a clock.Clock. Callbacks run
// on their own goroutines.
type Scheduler struct {
	clock clock.Clock
}

func NewScheduler(c clock.Clock) *Scheduler {
	if c == nil {
		c = clock.New()
	}
	return &Scheduler{clock: c}
}

func (s *Scheduler) Now() time.Time {
	return s.clock.Now()
}

func (s *Scheduler) After(d time.Duration, fn func()) port.Timer {
	return &oneShot{timer: s.clock.AfterFunc(d, fn)}
}

func (s *Scheduler) Every(d time.Duration, fn func()) port.Timer {
	t := &repeating{
		ticker: s.clock.Ticker(d),
		stop:   make(chan struct{}),
	}
	go t.run(fn)
	return t
}

type oneShot struct {
	timer *clock.Timer
}

func (t *oneShot) Stop() {
	t.timer.Stop()
}

type repeating struct {
	ticker *clock.Ticker
	stop   chan struct{}
	once   sync.Once
}

func (t *repeating) run(fn func()) {
	for {
		select {
		case <-t.stop:
			return
		case <-t.ticker.C:
			select {
			case <-t.stop:
				return
			default:
			}
			fn()
		}
	}
}

func (t *repeating) Stop() {
	t.once.Do(func() {
		t.ticker.Stop()
		close(t.stop)
	})
}
