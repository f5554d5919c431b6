package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/mdobak/go-xerrors"
	flag "github.com/spf13/pflag"

	"github.com/jamesainslie/go-keyeval/internal/bench"
	"github.com/jamesainslie/go-keyeval/internal/config"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	cfg, _ := config.Load()
	logger := cfg.NewLogger(stderr)

	fs := flag.NewFlagSet("keyeval-timing", flag.ContinueOnError)
	fs.SetOutput(stderr)
	summary := fs.BoolP("summary", "s", false, "append mean and standard deviation rows")
	fs.Usage = func() {
		fmt.Fprintln(stderr, "usage: keyeval-timing [-s] timings.txt")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(stderr, "error: need the timing file as first argument")
		fs.Usage()
		return 1
	}

	f, err := os.Open(fs.Arg(0))
	if err != nil {
		logger.Error("opening timings", slog.Any("error", xerrors.New(err)))
		return 1
	}
	defer func() { _ = f.Close() }()

	timings, err := bench.ParseTimings(f)
	if err != nil {
		logger.Error("parsing timings", slog.String("file", fs.Arg(0)), slog.Any("error", xerrors.New(err)))
		return 1
	}

	if err := bench.WriteTimingTable(stdout, timings); err != nil {
		logger.Error("writing table", slog.Any("error", err))
		return 1
	}
	if *summary {
		if err := bench.WriteTimingSummary(stdout, bench.SummarizeTimings(timings)); err != nil {
			logger.Error("writing summary", slog.Any("error", err))
			return 1
		}
	}

	return 0
}
