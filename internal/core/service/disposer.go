package service

import (
	"sync"

	"github.com/Wyydra/teleguild/internal/core/port"
)

// Disposer collects the cancel functions of the timers and subscriptions a
// session creates. Dispose runs each one exactly once.
type Disposer struct {
	mu       sync.Mutex
	fns      []func()
	disposed bool
}

// Add registers fn. After Dispose, fn runs immediately instead.
func (d *Disposer) Add(fn func()) {
	d.mu.Lock()
	if d.disposed {
		d.mu.Unlock()
		fn()
		return
	}
	d.fns = append(d.fns, fn)
	d.mu.Unlock()
}

func (d *Disposer) AddTimer(t port.Timer) {
	d.Add(t.Stop)
}

func (d *Disposer) AddSubscription(s port.Subscription) {
	d.Add(s.Unsubscribe)
}

// Dispose cancels everything registered, newest first.
func (d *Disposer) Dispose() {
	d.mu.Lock()
	fns := d.fns
	d.fns = nil
	d.disposed = true
	d.mu.Unlock()

	for i := len(fns) - 1; i >= 0; i-- {
		fns[i]()
	}
}

func (d *Disposer) Len() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.fns)
}
