package domain

import (
	"fmt"
	"strings"
	"time"
)

type LimitMode int

const (
	LimitNone LimitMode = iota
	LimitTime
	LimitCount
	LimitTimeOrCount
)

func (m LimitMode) String() string {
	switch m {
	case LimitNone:
		return "none"
	case LimitTime:
		return "time"
	case LimitCount:
		return "count"
	case LimitTimeOrCount:
		return "time_or_count"
	default:
		return fmt.Sprintf("unknown(%d)", m)
	}
}

func ParseLimitMode(s string) (LimitMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none":
		return LimitNone, nil
	case "time":
		return LimitTime, nil
	case "count":
		return LimitCount, nil
	case "time_or_count":
		return LimitTimeOrCount, nil
	default:
		return LimitNone, fmt.Errorf("unknown limit mode %q", s)
	}
}

// LimitConfig caps a call by elapsed time, relayed message count, or both.
// The zero value is LimitNone. Values are only built through the
// constructors, so a cap is present exactly when its mode needs it.
type LimitConfig struct {
	mode     LimitMode
	timeCap  time.Duration
	countCap int
}

func NoLimit() LimitConfig {
	return LimitConfig{mode: LimitNone}
}

func TimeCap(d time.Duration) LimitConfig {
	return LimitConfig{mode: LimitTime, timeCap: d}
}

func CountCap(n int) LimitConfig {
	return LimitConfig{mode: LimitCount, countCap: n}
}

func TimeOrCountCap(d time.Duration, n int) LimitConfig {
	return LimitConfig{mode: LimitTimeOrCount, timeCap: d, countCap: n}
}

// NewLimitConfig validates raw option values for mode. seconds and count
// must be positive when the mode uses them and are ignored otherwise.
func NewLimitConfig(mode LimitMode, seconds, count int) (LimitConfig, error) {
	needTime := mode == LimitTime || mode == LimitTimeOrCount
	needCount := mode == LimitCount || mode == LimitTimeOrCount
	if needTime && seconds <= 0 {
		return LimitConfig{}, fmt.Errorf("limit mode %s requires a positive time limit", mode)
	}
	if needCount && count <= 0 {
		return LimitConfig{}, fmt.Errorf("limit mode %s requires a positive count limit", mode)
	}
	d := time.Duration(seconds) * time.Second
	switch mode {
	case LimitNone:
		return NoLimit(), nil
	case LimitTime:
		return TimeCap(d), nil
	case LimitCount:
		return CountCap(count), nil
	case LimitTimeOrCount:
		return TimeOrCountCap(d, count), nil
	default:
		return LimitConfig{}, fmt.Errorf("unknown limit mode %d", mode)
	}
}

func (l LimitConfig) Mode() LimitMode {
	return l.mode
}

func (l LimitConfig) TimeCap() (time.Duration, bool) {
	if l.mode == LimitTime || l.mode == LimitTimeOrCount {
		return l.timeCap, true
	}
	return 0, false
}

func (l LimitConfig) CountCap() (int, bool) {
	if l.mode == LimitCount || l.mode == LimitTimeOrCount {
		return l.countCap, true
	}
	return 0, false
}

// Describe renders the limit as the suffix of the "call answered" notice.
func (l LimitConfig) Describe() string {
	var parts []string
	if n, ok := l.CountCap(); ok {
		parts = append(parts, fmt.Sprintf("message limit is %d messages", n))
	}
	if d, ok := l.TimeCap(); ok {
		parts = append(parts, fmt.Sprintf("time limit is %d seconds", int(d/time.Second)))
	}
	return strings.Join(parts, ", ")
}
