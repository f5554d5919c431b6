package bench

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	keyeval "github.com/jamesainslie/go-keyeval"
	"github.com/jamesainslie/go-keyeval/estimator"
)

// Runner evaluates an estimator against a database, one file at a time.
type Runner struct {
	db        *Database
	est       estimator.Estimator
	out       io.Writer
	verbosity Verbosity
	logger    *slog.Logger
}

// NewRunner creates a Runner scoring est against db.
func NewRunner(db *Database, est estimator.Estimator, opts ...Option) *Runner {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	return &Runner{
		db:        db,
		est:       est,
		out:       cfg.out,
		verbosity: cfg.verbosity,
		logger:    cfg.logger,
	}
}

// Run evaluates every file under root. A directory is walked depth-first in
// lexical order and each file is identified by its path relative to root;
// a regular file is identified by its base name. Files missing from the
// database are logged and skipped.
//
// Run stops at the first estimator failure or when ctx is done. The
// returned Stats always hold the outcomes recorded so far, so callers can
// report partial results alongside the error.
func (r *Runner) Run(ctx context.Context, root string) (*Stats, error) {
	stats := &Stats{}

	info, err := os.Stat(root)
	if err != nil {
		return stats, fmt.Errorf("stat input: %w", err)
	}

	if !info.IsDir() {
		return stats, r.evaluateFile(ctx, stats, filepath.Base(root), root)
	}

	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return fmt.Errorf("relative path: %w", err)
		}
		return r.evaluateFile(ctx, stats, rel, path)
	})

	return stats, err
}

// RunDatabase evaluates the file named by every database record, in file
// order, against that record's key.
func (r *Runner) RunDatabase(ctx context.Context) (*Stats, error) {
	stats := &Stats{}

	for _, e := range r.db.Entries() {
		if err := ctx.Err(); err != nil {
			return stats, err
		}
		if err := r.evaluate(ctx, stats, e.Path, e.Path, e.Key); err != nil {
			return stats, err
		}
	}

	return stats, nil
}

func (r *Runner) evaluateFile(ctx context.Context, stats *Stats, name, path string) error {
	id := NormalizeID(name)
	expected, ok := r.db.Lookup(id)
	if !ok {
		r.logger.WarnContext(ctx, "not in database", slog.String("file", id))
		return nil
	}
	return r.evaluate(ctx, stats, id, path, expected)
}

func (r *Runner) evaluate(ctx context.Context, stats *Stats, id, path string, expected keyeval.Key) error {
	found, err := r.est.Estimate(ctx, path)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if errors.Is(err, estimator.ErrMalformedOutput) || errors.Is(err, keyeval.ErrUnknownKey) {
			stats.Invalid++
			r.logger.WarnContext(ctx, "unusable estimator output",
				slog.String("file", id), slog.Any("error", err))
			return nil
		}
		return err
	}

	o := stats.Record(id, expected, found)
	return r.report(o)
}

func (r *Runner) report(o Outcome) error {
	switch {
	case r.verbosity == Quiet:
		return nil
	case o.Relation == keyeval.Mismatch && r.verbosity != Verbose:
		return nil
	}

	_, err := fmt.Fprintln(r.out, FormatOutcome(o))
	return err
}
