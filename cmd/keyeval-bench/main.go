package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mdobak/go-xerrors"
	flag "github.com/spf13/pflag"

	"github.com/jamesainslie/go-keyeval/estimator"
	"github.com/jamesainslie/go-keyeval/internal/bench"
	"github.com/jamesainslie/go-keyeval/internal/config"
	"github.com/jamesainslie/go-keyeval/internal/history"
)

// Exit codes.
const (
	exitOK           = 0
	exitError        = 1
	exitUsage        = 2
	exitNoInput      = 3
	exitEstimatorErr = 5
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

type options struct {
	dbPath      string
	input       string
	output      string
	verbose     bool
	quiet       bool
	fromDB      bool
	estimator   string
	historyPath string
	passthrough []string
}

func parseFlags(args []string, cfg config.Config, stderr io.Writer) (*options, int) {
	var opts options

	fs := flag.NewFlagSet("keyeval-bench", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.SetInterspersed(false)
	fs.Usage = func() {
		fmt.Fprintln(stderr, "usage:")
		fmt.Fprintln(stderr, "\tkeyeval-bench -d dbfile -i files [--] [estimator arguments...]")
		fmt.Fprintln(stderr, "\tkeyeval-bench -d dbfile --from-db [--] [estimator arguments...]")
		fmt.Fprintln(stderr, "\nOptions:")
		fs.PrintDefaults()
	}

	fs.StringVarP(&opts.dbPath, "db", "d", "", "read the database from `dbfile` (default stdin)")
	fs.StringVarP(&opts.input, "input", "i", "", "analyze the given file or directory")
	fs.StringVarP(&opts.output, "output", "o", "", "write results to `file` (default stdout)")
	fs.BoolVarP(&opts.verbose, "verbose", "v", false, "also report detection mismatches")
	fs.BoolVarP(&opts.quiet, "quiet", "q", false, "only write the final score")
	fs.BoolVar(&opts.fromDB, "from-db", false, "analyze the files named in the database instead of -i")
	fs.StringVar(&opts.estimator, "estimator", cfg.Estimator, "key estimator executable")
	fs.StringVar(&opts.historyPath, "history", cfg.History, "record the run in this SQLite `file`")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil, exitOK
		}
		return nil, exitUsage
	}

	if opts.input == "" && !opts.fromDB {
		fs.Usage()
		return nil, exitNoInput
	}

	opts.passthrough = fs.Args()
	return &opts, -1
}

func (o *options) verbosity() bench.Verbosity {
	switch {
	case o.quiet:
		return bench.Quiet
	case o.verbose:
		return bench.Verbose
	default:
		return bench.Normal
	}
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	cfg, err := config.Load()
	logger := cfg.NewLogger(stderr)
	if err != nil {
		logger.Warn("could not read .env", slog.Any("error", err))
	}

	opts, code := parseFlags(args, cfg, stderr)
	if opts == nil {
		return code
	}

	db, err := loadDatabase(opts.dbPath, stdin)
	if err != nil {
		fatal(logger, "loading database", err)
		return exitError
	}
	logger.Debug("database loaded", slog.Int("entries", db.Len()))

	out := stdout
	if opts.output != "" {
		f, err := os.Create(opts.output)
		if err != nil {
			fatal(logger, "creating output", err)
			return exitError
		}
		defer func() { _ = f.Close() }()
		out = f
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	est := estimator.NewCommand(opts.estimator, opts.passthrough...)
	est.Logger = logger
	logger.Debug("estimator configured", slog.String("cmd", est.String()))

	runner := bench.NewRunner(db, est,
		bench.WithOutput(out),
		bench.WithVerbosity(opts.verbosity()),
		bench.WithLogger(logger),
	)

	started := time.Now()
	var stats *bench.Stats
	if opts.fromDB {
		stats, err = runner.RunDatabase(ctx)
	} else {
		stats, err = runner.Run(ctx, opts.input)
	}

	code = exitOK
	switch {
	case err == nil:
	case errors.Is(err, context.Canceled):
		logger.Info("interrupted, reporting partial results", slog.Int("files", stats.Total))
	case errors.Is(err, estimator.ErrEstimatorFailed):
		logger.Error("estimator failed, reporting partial results", slog.Any("error", err))
		code = exitEstimatorErr
	default:
		fatal(logger, "evaluation failed", err)
		code = exitError
	}

	if err := stats.WriteSummary(out); err != nil {
		fatal(logger, "writing summary", err)
		return exitError
	}

	if opts.historyPath != "" {
		if err := record(opts, stats, started); err != nil {
			fatal(logger, "recording history", err)
			if code == exitOK {
				code = exitError
			}
		}
	}

	return code
}

func loadDatabase(path string, stdin io.Reader) (*bench.Database, error) {
	if path == "" || path == "-" {
		return bench.ParseDatabase(stdin)
	}
	return bench.LoadDatabase(path)
}

func record(opts *options, stats *bench.Stats, started time.Time) error {
	store, err := history.Open(opts.historyPath)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	run := history.FromStats(stats, opts.estimator, opts.passthrough, started)
	return store.Save(context.Background(), run)
}

func fatal(logger *slog.Logger, msg string, err error) {
	logger.Error(msg, slog.Any("error", xerrors.New(err)))
}
