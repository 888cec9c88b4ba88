package port

import "time"

type Timer interface {
	Stop()
}

type Scheduler interface {
	Now() time.Time
	After(d time.Duration, fn func()) Timer
	Every(d time.Duration, fn func()) Timer
}
