package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/rs/zerolog"
)

// Config is the process configuration read from the environment.
type Config struct {
	Addr            string        `env:"TELEGUILD_ADDR"             envDefault:":8080"`
	LogLevel        string        `env:"TELEGUILD_LOG_LEVEL"        envDefault:"info"`
	DBPath          string        `env:"TELEGUILD_DB_PATH"`
	PolicyPath      string        `env:"TELEGUILD_POLICY_PATH"`
	StaticDir       string        `env:"TELEGUILD_STATIC_DIR"       envDefault:"./static"`
	ShutdownTimeout time.Duration `env:"TELEGUILD_SHUTDOWN_TIMEOUT" envDefault:"5s"`
	Rooms           []string      `env:"TELEGUILD_ROOMS"            envDefault:"lobby" envSeparator:","`
}

func LoadFromEnv() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if cfg.ShutdownTimeout <= 0 {
		return Config{}, fmt.Errorf("TELEGUILD_SHUTDOWN_TIMEOUT must be positive, got %s", cfg.ShutdownTimeout)
	}
	if _, err := zerolog.ParseLevel(cfg.LogLevel); err != nil {
		return Config{}, fmt.Errorf("TELEGUILD_LOG_LEVEL: %w", err)
	}
	return cfg, nil
}

func (c Config) Level() zerolog.Level {
	level, err := zerolog.ParseLevel(c.LogLevel)
	if err != nil {
		return zerolog.InfoLevel
	}
	return level
}
