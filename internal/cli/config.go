package cli

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/caarlos0/env/v11"
)

// Config is the environment-provided configuration. Command-line flags
// take precedence over every field.
type Config struct {
	// Database is the SQLite file snapshots are stored in. Empty runs
	// without storage.
	Database   string `env:"VAULTSIM_DB" envDefault:"vaultsim.db"`
	StorageKey string `env:"VAULTSIM_STORAGE_KEY" envDefault:"vaultsim:snapshot"`
	LogLevel   string `env:"VAULTSIM_LOG_LEVEL" envDefault:"info"`
	Format     string `env:"VAULTSIM_FORMAT" envDefault:"text"`
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// LoadConfig parses Config from the process environment.
func LoadConfig() (Config, error) {
	var cfg Config
	if err := ParseEnv(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// parseLogLevel accepts slog level names (debug, info, warn, error).
// Empty means info.
func parseLogLevel(s string) (slog.Level, error) {
	var level slog.Level
	if strings.TrimSpace(s) == "" {
		return slog.LevelInfo, nil
	}
	if err := level.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return slog.LevelInfo, fmt.Errorf("invalid log level %q: %w", s, err)
	}
	return level, nil
}

// newLogger builds the text logger commands write diagnostics to.
// Verbose forces debug regardless of the configured level.
func newLogger(w io.Writer, level slog.Level, verbose bool) *slog.Logger {
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}
