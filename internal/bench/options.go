package bench

import (
	"io"
	"log/slog"
	"os"
)

// Verbosity selects which per-file lines a Runner reports.
type Verbosity int

const (
	// Normal reports files that earned credit.
	Normal Verbosity = iota
	// Verbose also reports mismatches.
	Verbose
	// Quiet reports nothing but the summary.
	Quiet
)

// Option configures a Runner.
type Option func(*config)

type config struct {
	out       io.Writer
	verbosity Verbosity
	logger    *slog.Logger
}

func defaultConfig() config {
	return config{
		out:       os.Stdout,
		verbosity: Normal,
		logger:    slog.Default(),
	}
}

// WithOutput sets the report destination (default: os.Stdout).
func WithOutput(w io.Writer) Option {
	return func(c *config) {
		if w != nil {
			c.out = w
		}
	}
}

// WithVerbosity sets the per-file reporting level (default: Normal).
func WithVerbosity(v Verbosity) Option {
	return func(c *config) {
		c.verbosity = v
	}
}

// WithLogger sets the logger (default: slog.Default()).
func WithLogger(l *slog.Logger) Option {
	return func(c *config) {
		if l != nil {
			c.logger = l
		}
	}
}
