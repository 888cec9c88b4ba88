package config

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/BurntSushi/toml"
	"github.com/Wyydra/teleguild/internal/core/domain"
)

// policy.toml key mapping.
type policyFile struct {
	ShowRoomID         bool     `toml:"show_room_id"`
	ForbiddenPhrases   []string `toml:"forbidden_phrases"`
	Mask               string   `toml:"mask"`
	AllowMedia         bool     `toml:"allow_media"`
	TipIntervalSeconds int      `toml:"tip_interval_seconds"`
	RingTimeoutSeconds int      `toml:"ring_timeout_seconds"`
	HangupPhrase       string   `toml:"hangup_phrase"`
	AnswerPhrase       string   `toml:"answer_phrase"`
	LimitMode          string   `toml:"limit_mode"`
	TimeCapSeconds     int      `toml:"time_cap_seconds"`
	CountCap           int      `toml:"count_cap"`
	AutoDirectory      bool     `toml:"auto_directory"`
	Directory          []string `toml:"directory"`
}

// Policy is everything the policy file controls.
type Policy struct {
	Call domain.CallPolicy
	// AutoDirectory lists every known room. When false, Directory names the
	// rooms in call id order.
	AutoDirectory bool
	Directory     []string
}

func DefaultPolicy() Policy {
	return Policy{
		Call:          domain.DefaultCallPolicy(),
		AutoDirectory: true,
	}
}

// LoadPolicy overlays the keys set in path onto DefaultPolicy. An empty
// path returns the defaults.
func LoadPolicy(path string) (Policy, error) {
	p := DefaultPolicy()
	if strings.TrimSpace(path) == "" {
		return p, nil
	}

	var raw policyFile
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return Policy{}, fmt.Errorf("load policy: %w", err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return Policy{}, fmt.Errorf("load policy: unknown key %q", undecoded[0].String())
	}

	c := &p.Call
	if meta.IsDefined("show_room_id") {
		c.ShowRoomID = raw.ShowRoomID
	}
	if meta.IsDefined("forbidden_phrases") {
		c.ForbiddenPhrases = raw.ForbiddenPhrases
	}
	if meta.IsDefined("mask") {
		if utf8.RuneCountInString(raw.Mask) != 1 {
			return Policy{}, fmt.Errorf("mask must be a single character, got %q", raw.Mask)
		}
		c.MaskRune, _ = utf8.DecodeRuneInString(raw.Mask)
	}
	if meta.IsDefined("allow_media") {
		c.AllowMedia = raw.AllowMedia
	}
	if meta.IsDefined("tip_interval_seconds") {
		c.TipInterval = time.Duration(raw.TipIntervalSeconds) * time.Second
	}
	if meta.IsDefined("ring_timeout_seconds") {
		c.RingTimeout = time.Duration(raw.RingTimeoutSeconds) * time.Second
	}
	if meta.IsDefined("hangup_phrase") {
		c.HangupPhrase = strings.TrimSpace(raw.HangupPhrase)
	}
	if meta.IsDefined("answer_phrase") {
		c.AnswerPhrase = strings.TrimSpace(raw.AnswerPhrase)
	}
	if meta.IsDefined("limit_mode") || meta.IsDefined("time_cap_seconds") || meta.IsDefined("count_cap") {
		mode, err := domain.ParseLimitMode(raw.LimitMode)
		if err != nil {
			return Policy{}, err
		}
		usesTime := mode == domain.LimitTime || mode == domain.LimitTimeOrCount
		usesCount := mode == domain.LimitCount || mode == domain.LimitTimeOrCount
		if meta.IsDefined("time_cap_seconds") && !usesTime {
			return Policy{}, fmt.Errorf("time_cap_seconds is set but limit_mode %q has no time cap", raw.LimitMode)
		}
		if meta.IsDefined("count_cap") && !usesCount {
			return Policy{}, fmt.Errorf("count_cap is set but limit_mode %q has no count cap", raw.LimitMode)
		}
		limit, err := domain.NewLimitConfig(mode, raw.TimeCapSeconds, raw.CountCap)
		if err != nil {
			return Policy{}, err
		}
		c.Limit = limit
	}
	if meta.IsDefined("auto_directory") {
		p.AutoDirectory = raw.AutoDirectory
	}
	if meta.IsDefined("directory") {
		for _, name := range raw.Directory {
			if name = strings.TrimSpace(name); name != "" {
				p.Directory = append(p.Directory, name)
			}
		}
	}

	if err := c.Validate(); err != nil {
		return Policy{}, fmt.Errorf("invalid policy: %w", err)
	}
	if !p.AutoDirectory && len(p.Directory) == 0 {
		return Policy{}, fmt.Errorf("invalid policy: auto_directory is off but directory is empty")
	}
	return p, nil
}
