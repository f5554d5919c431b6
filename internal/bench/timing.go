package bench

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/stat"
)

// ErrMalformedTiming indicates a timing log that cannot be parsed.
var ErrMalformedTiming = errors.New("malformed timing record")

// Timing is one iteration of a timing log.
type Timing struct {
	Iteration int
	Real      float64
	User      float64
	Sys       float64
}

// TimingSummary holds the mean and standard deviation of each column.
type TimingSummary struct {
	Mean   Timing
	StdDev Timing
}

// ParseTimings reads repeated four-line records: an iteration index
// followed by "real", "user" and "sys" lines, each a label and a value.
// Blank lines between records are ignored.
func ParseTimings(r io.Reader) ([]Timing, error) {
	scanner := bufio.NewScanner(r)
	lineNo := 0

	next := func() (string, bool) {
		if !scanner.Scan() {
			return "", false
		}
		lineNo++
		return scanner.Text(), true
	}

	var timings []Timing
	for {
		line, ok := next()
		if !ok {
			break
		}
		if strings.TrimSpace(line) == "" {
			continue
		}

		i, err := strconv.Atoi(strings.TrimSpace(line))
		if err != nil {
			return nil, fmt.Errorf("line %d: %w: bad iteration %q", lineNo, ErrMalformedTiming, line)
		}
		t := Timing{Iteration: i}

		for _, dst := range []*float64{&t.Real, &t.User, &t.Sys} {
			line, ok := next()
			if !ok {
				if err := scanner.Err(); err != nil {
					return nil, fmt.Errorf("scan timings: %w", err)
				}
				return nil, fmt.Errorf("line %d: %w: truncated record", lineNo, ErrMalformedTiming)
			}
			v, err := parseTimingValue(line)
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", lineNo, err)
			}
			*dst = v
		}

		timings = append(timings, t)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan timings: %w", err)
	}
	return timings, nil
}

// parseTimingValue parses the value of a "<label> <value>" line.
func parseTimingValue(line string) (float64, error) {
	fields := strings.Fields(line)
	if len(fields) < 2 {
		return 0, fmt.Errorf("%w: missing value in %q", ErrMalformedTiming, line)
	}
	v, err := strconv.ParseFloat(fields[1], 64)
	if err != nil {
		return 0, fmt.Errorf("%w: bad value in %q", ErrMalformedTiming, line)
	}
	return v, nil
}

// WriteTimingTable writes timings as a tab-separated table with a header.
func WriteTimingTable(w io.Writer, timings []Timing) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintln(bw, "i\treal\tuser\tsys")
	for _, t := range timings {
		fmt.Fprintf(bw, "%d\t%s\t%s\t%s\n", t.Iteration, FormatFloat(t.Real), FormatFloat(t.User), FormatFloat(t.Sys))
	}
	return bw.Flush()
}

// SummarizeTimings returns per-column mean and sample standard deviation.
func SummarizeTimings(timings []Timing) TimingSummary {
	var s TimingSummary
	if len(timings) == 0 {
		return s
	}

	reals := make([]float64, len(timings))
	users := make([]float64, len(timings))
	systems := make([]float64, len(timings))
	for i, t := range timings {
		reals[i], users[i], systems[i] = t.Real, t.User, t.Sys
	}

	s.Mean.Real, s.StdDev.Real = meanStdDev(reals)
	s.Mean.User, s.StdDev.User = meanStdDev(users)
	s.Mean.Sys, s.StdDev.Sys = meanStdDev(systems)
	return s
}

func meanStdDev(x []float64) (mean, std float64) {
	if len(x) < 2 {
		return stat.Mean(x, nil), 0
	}
	return stat.MeanStdDev(x, nil)
}

// WriteTimingSummary appends "mean" and "stddev" rows matching the table.
func WriteTimingSummary(w io.Writer, s TimingSummary) error {
	_, err := fmt.Fprintf(w, "mean\t%s\t%s\t%s\nstddev\t%s\t%s\t%s\n",
		FormatFloat(s.Mean.Real), FormatFloat(s.Mean.User), FormatFloat(s.Mean.Sys),
		FormatFloat(s.StdDev.Real), FormatFloat(s.StdDev.User), FormatFloat(s.StdDev.Sys))
	return err
}
