// Package config loads command settings from the environment and an
// optional .env file.
package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// DefaultEstimator is the estimator executable used when none is configured.
const DefaultEstimator = "../cli/beatr"

// Config holds settings shared by the commands.
type Config struct {
	Estimator string     // KEYEVAL_ESTIMATOR
	History   string     // KEYEVAL_HISTORY, empty disables recording
	LogLevel  slog.Level // KEYEVAL_LOG_LEVEL
}

// Load reads .env from the working directory, if present, and then the
// environment. Variables already set in the environment take precedence.
// A malformed .env is reported alongside the environment-only settings.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return FromEnv(), fmt.Errorf("loading .env: %w", err)
	}
	return FromEnv(), nil
}

// FromEnv reads settings from the environment only.
func FromEnv() Config {
	cfg := Config{
		Estimator: DefaultEstimator,
		History:   os.Getenv("KEYEVAL_HISTORY"),
		LogLevel:  ParseLevel(os.Getenv("KEYEVAL_LOG_LEVEL")),
	}
	if v := os.Getenv("KEYEVAL_ESTIMATOR"); v != "" {
		cfg.Estimator = v
	}
	return cfg
}

// ParseLevel maps a level name to a slog level. Unknown names map to info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// NewLogger returns a text logger writing to w at the configured level.
func (c Config) NewLogger(w io.Writer) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: c.LogLevel}))
}
