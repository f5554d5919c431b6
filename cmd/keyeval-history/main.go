package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"text/tabwriter"
	"time"

	"github.com/mdobak/go-xerrors"
	flag "github.com/spf13/pflag"

	"github.com/jamesainslie/go-keyeval/internal/bench"
	"github.com/jamesainslie/go-keyeval/internal/config"
	"github.com/jamesainslie/go-keyeval/internal/history"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	cfg, _ := config.Load()
	logger := cfg.NewLogger(stderr)

	fs := flag.NewFlagSet("keyeval-history", flag.ContinueOnError)
	fs.SetOutput(stderr)
	dbPath := fs.String("db", cfg.History, "history SQLite `file`")
	limit := fs.IntP("limit", "n", 20, "number of runs to list (0 for all)")
	fs.Usage = func() {
		fmt.Fprintln(stderr, "usage: keyeval-history [--db file] [-n limit] [run-id]")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}
	if *dbPath == "" {
		fmt.Fprintln(stderr, "error: --db or KEYEVAL_HISTORY required")
		return 2
	}

	store, err := history.Open(*dbPath)
	if err != nil {
		logger.Error("opening history", slog.Any("error", xerrors.New(err)))
		return 1
	}
	defer func() { _ = store.Close() }()

	ctx := context.Background()
	if fs.NArg() > 0 {
		err = showRun(ctx, stdout, store, fs.Arg(0))
	} else {
		err = listRuns(ctx, stdout, store, *limit)
	}
	if err != nil {
		logger.Error("reading history", slog.Any("error", xerrors.New(err)))
		return 1
	}
	return 0
}

func listRuns(ctx context.Context, w io.Writer, store *history.Store, limit int) error {
	runs, err := store.List(ctx, limit)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tSTARTED\tFILES\tMATCH\tDOM\tREL\tPAR\tSCORE\tESTIMATOR")
	for _, r := range runs {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%d\t%d\t%d\t%.3f\t%s\n",
			r.ID, r.StartedAt.Local().Format(time.DateTime), r.Total,
			r.Match, r.Dominant, r.Relative, r.Parallel, r.Score,
			estimatorLine(r))
	}
	return tw.Flush()
}

func showRun(ctx context.Context, w io.Writer, store *history.Store, id string) error {
	r, err := store.Get(ctx, id)
	if err != nil {
		return err
	}

	mean, stddev := history.Spread(r)
	fmt.Fprintf(w, "run %s\nstarted: %s (%s)\nestimator: %s\n",
		r.ID, r.StartedAt.Local().Format(time.DateTime), r.Duration.Round(time.Millisecond), estimatorLine(*r))
	fmt.Fprintf(w, "%d/%d: %d match, %d dom, %d rel, %d par, %d invalid\n",
		r.Match+r.Dominant+r.Relative+r.Parallel, r.Total, r.Match, r.Dominant, r.Relative, r.Parallel, r.Invalid)
	fmt.Fprintf(w, "score: %s (stddev %s)\n\n", bench.FormatFloat(mean), bench.FormatFloat(stddev))

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "FILE\tEXPECTED\tFOUND\tRELATION\tSCORE")
	for _, o := range r.Outcomes {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%.1f\n", o.File, o.Expected, o.Found, o.Relation, o.Score)
	}
	return tw.Flush()
}

func estimatorLine(r history.Run) string {
	if r.Args == "" {
		return r.Estimator
	}
	return r.Estimator + " " + r.Args
}
