package estimator

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"

	keyeval "github.com/jamesainslie/go-keyeval"
)

// Command runs an estimator executable as "Path Args... file" and parses
// its standard output. No timeout is applied; cancel ctx to stop it.
type Command struct {
	Path   string
	Args   []string
	Logger *slog.Logger
}

// NewCommand returns a Command for the executable at path.
// args are passed before the file name on every invocation.
func NewCommand(path string, args ...string) *Command {
	return &Command{
		Path:   path,
		Args:   args,
		Logger: slog.Default(),
	}
}

// Estimate runs the executable on path.
func (c *Command) Estimate(ctx context.Context, path string) (keyeval.Key, error) {
	argv := make([]string, 0, len(c.Args)+1)
	argv = append(argv, c.Args...)
	argv = append(argv, path)

	if c.Logger != nil {
		c.Logger.DebugContext(ctx, "running estimator", slog.String("cmd", c.Path), slog.Any("args", argv))
	}

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, c.Path, argv...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return 0, fmt.Errorf("%w: %s %s: %w: %s", ErrEstimatorFailed, c.Path, path, err, msg)
		}
		return 0, fmt.Errorf("%w: %s %s: %w", ErrEstimatorFailed, c.Path, path, err)
	}

	return ParseOutput(stdout.Bytes())
}

// String returns the command line without the file argument.
func (c *Command) String() string {
	return strings.TrimSpace(c.Path + " " + strings.Join(c.Args, " "))
}
