package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config is the server configuration, parsed from the environment.
type Config struct {
	// Addr is the HTTP listen address.
	Addr string `env:"MAILROOM_ADDR" envDefault:":8080"`
	// HistoryDir is where room ledgers live. Defaults to
	// ~/.mailroom/history when unset.
	HistoryDir string `env:"MAILROOM_HISTORY_DIR"`
	// SessionSecret signs websocket session tokens.
	SessionSecret string `env:"MAILROOM_SESSION_SECRET" envDefault:"dev-only-insecure-secret"`
	// SessionTTL bounds how long an issued session token stays valid.
	SessionTTL time.Duration `env:"MAILROOM_SESSION_TTL" envDefault:"72h"`
}

// Load parses the environment into a Config and fills the history
// directory default.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if cfg.HistoryDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return Config{}, fmt.Errorf("resolve home dir: %w", err)
		}
		cfg.HistoryDir = filepath.Join(home, ".mailroom", "history")
	}
	return cfg, nil
}
