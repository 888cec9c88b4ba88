package config

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/Wyydra/teleguild/internal/core/domain"
	"github.com/rs/zerolog"
)

func writePolicy(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "policy.toml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write policy: %v", err)
	}
	return path
}

func TestLoadFromEnvDefaults(t *testing.T) {
	cfg, err := LoadFromEnv()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Addr != ":8080" || cfg.ShutdownTimeout != 5*time.Second || cfg.DBPath != "" {
		t.Fatalf("defaults = %+v", cfg)
	}
	if !reflect.DeepEqual(cfg.Rooms, []string{"lobby"}) {
		t.Fatalf("rooms = %q", cfg.Rooms)
	}
	if cfg.Level() != zerolog.InfoLevel {
		t.Fatalf("level = %s", cfg.Level())
	}
}

func TestLoadFromEnvOverrides(t *testing.T) {
	t.Setenv("TELEGUILD_ADDR", "127.0.0.1:9000")
	t.Setenv("TELEGUILD_LOG_LEVEL", "debug")
	t.Setenv("TELEGUILD_DB_PATH", "/var/lib/teleguild/directory.db")
	t.Setenv("TELEGUILD_SHUTDOWN_TIMEOUT", "10s")
	t.Setenv("TELEGUILD_ROOMS", "ops,support")

	cfg, err := LoadFromEnv()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Addr != "127.0.0.1:9000" || cfg.DBPath != "/var/lib/teleguild/directory.db" {
		t.Fatalf("cfg = %+v", cfg)
	}
	if cfg.ShutdownTimeout != 10*time.Second || cfg.Level() != zerolog.DebugLevel {
		t.Fatalf("cfg = %+v", cfg)
	}
	if !reflect.DeepEqual(cfg.Rooms, []string{"ops", "support"}) {
		t.Fatalf("rooms = %q", cfg.Rooms)
	}
}

func TestLoadFromEnvRejectsBadLevel(t *testing.T) {
	t.Setenv("TELEGUILD_LOG_LEVEL", "loud")
	if _, err := LoadFromEnv(); err == nil {
		t.Fatalf("expected error for bad log level")
	}
}

func TestLoadPolicyEmptyPath(t *testing.T) {
	p, err := LoadPolicy("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(p, DefaultPolicy()) {
		t.Fatalf("policy = %+v", p)
	}
}

func TestLoadPolicyOverlay(t *testing.T) {
	path := writePolicy(t, `
show_room_id = true
forbidden_phrases = ["spoiler", "password"]
mask = "#"
allow_media = false
tip_interval_seconds = 0
limit_mode = "time_or_count"
time_cap_seconds = 300
count_cap = 40
auto_directory = false
directory = ["ops", " support "]
`)
	p, err := LoadPolicy(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	c := p.Call
	if !c.ShowRoomID || c.AllowMedia || c.MaskRune != '#' || c.TipInterval != 0 {
		t.Fatalf("call policy = %+v", c)
	}
	if !reflect.DeepEqual(c.ForbiddenPhrases, []string{"spoiler", "password"}) {
		t.Fatalf("phrases = %q", c.ForbiddenPhrases)
	}
	if c.Limit.Mode() != domain.LimitTimeOrCount {
		t.Fatalf("limit mode = %s", c.Limit.Mode())
	}
	if n, _ := c.Limit.CountCap(); n != 40 {
		t.Fatalf("count cap = %d", n)
	}
	if c.RingTimeout != domain.DefaultRingTimeout || c.HangupPhrase != domain.DefaultHangupPhrase {
		t.Fatalf("unset keys must keep defaults: %+v", c)
	}
	if p.AutoDirectory || !reflect.DeepEqual(p.Directory, []string{"ops", "support"}) {
		t.Fatalf("directory = %v %q", p.AutoDirectory, p.Directory)
	}
}

func TestLoadPolicyErrors(t *testing.T) {
	cases := map[string]string{
		"limit without cap":      `limit_mode = "count"`,
		"unknown mode":           `limit_mode = "forever"`,
		"time cap without mode":  `time_cap_seconds = 60`,
		"count cap without mode": `count_cap = 10`,
		"count cap on time mode": "limit_mode = \"time\"\ntime_cap_seconds = 60\ncount_cap = 10",
		"time cap on none mode":  "limit_mode = \"none\"\ntime_cap_seconds = 60",
		"long mask":              `mask = "**"`,
		"unknown key":            `colour = "blue"`,
		"same phrases":           `answer_phrase = "hang up"`,
		"manual without list":    `auto_directory = false`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := LoadPolicy(writePolicy(t, body)); err == nil {
				t.Fatalf("expected error")
			}
		})
	}

	_, err := LoadPolicy(filepath.Join(t.TempDir(), "missing.toml"))
	if err == nil || !strings.Contains(err.Error(), "load policy") {
		t.Fatalf("missing file err = %v", err)
	}
}
