package service

import (
	"time"

	"github.com/Wyydra/teleguild/internal/core/domain"
)

// relayStrategy counts relays for one call.
type relayStrategy interface {
	// record counts one relayed message and reports whether it reached the cap.
	record() bool
	// last reports whether the next record reaches the cap.
	last() bool
	count() int
}

type uncountedRelay struct {
	n int
}

func (r *uncountedRelay) record() bool {
	r.n++
	return false
}

func (r *uncountedRelay) last() bool { return false }

func (r *uncountedRelay) count() int { return r.n }

type cappedRelay struct {
	n   int
	cap int
}

func (r *cappedRelay) record() bool {
	r.n++
	return r.n >= r.cap
}

func (r *cappedRelay) last() bool { return r.n+1 >= r.cap }

func (r *cappedRelay) count() int { return r.n }

// LimitEnforcer applies a LimitConfig to one active call. It does no I/O:
// the session arms the time cap and acts on a tripped count cap.
type LimitEnforcer struct {
	strategy relayStrategy
	limit    domain.LimitConfig
}

func NewLimitEnforcer(limit domain.LimitConfig) *LimitEnforcer {
	var strategy relayStrategy = &uncountedRelay{}
	if n, ok := limit.CountCap(); ok {
		strategy = &cappedRelay{cap: n}
	}
	return &LimitEnforcer{strategy: strategy, limit: limit}
}

func (e *LimitEnforcer) OnMessageRelayed() bool {
	return e.strategy.record()
}

// IsLastRelay reports whether the next relayed message reaches the count cap.
func (e *LimitEnforcer) IsLastRelay() bool {
	return e.strategy.last()
}

func (e *LimitEnforcer) TimeCap() (time.Duration, bool) {
	return e.limit.TimeCap()
}

func (e *LimitEnforcer) Count() int {
	return e.strategy.count()
}
