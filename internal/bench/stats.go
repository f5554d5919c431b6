package bench

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	keyeval "github.com/jamesainslie/go-keyeval"
)

// Outcome is the result of evaluating one file.
type Outcome struct {
	ID       string
	Expected keyeval.Key
	Found    keyeval.Key
	Relation keyeval.Relation
	Score    float64
}

// Stats accumulates outcomes for one run.
type Stats struct {
	Total    int // files scored
	Match    int
	Dominant int
	Relative int
	Parallel int
	Mismatch int
	Invalid  int // files whose estimator output could not be scored
	Score    float64

	Outcomes []Outcome
}

// Record scores found against expected and adds the outcome.
func (s *Stats) Record(id string, expected, found keyeval.Key) Outcome {
	rel := keyeval.Compare(expected, found)
	o := Outcome{
		ID:       id,
		Expected: expected,
		Found:    found,
		Relation: rel,
		Score:    rel.Score(),
	}

	s.Total++
	s.Score += o.Score
	switch rel {
	case keyeval.Exact:
		s.Match++
	case keyeval.Dominant:
		s.Dominant++
	case keyeval.Relative:
		s.Relative++
	case keyeval.Parallel:
		s.Parallel++
	default:
		s.Mismatch++
	}
	s.Outcomes = append(s.Outcomes, o)

	return o
}

// Hits returns the number of outcomes that earned any credit.
func (s *Stats) Hits() int {
	return s.Match + s.Dominant + s.Relative + s.Parallel
}

// Mean returns the average score per file, or 0 for an empty run.
func (s *Stats) Mean() float64 {
	if s.Total == 0 {
		return 0
	}
	return s.Score / float64(s.Total)
}

// WriteSummary writes the two-line run summary.
func (s *Stats) WriteSummary(w io.Writer) error {
	_, err := fmt.Fprintf(w, "%d/%d: %d match, %d dom, %d rel, %d par\nscore: %s\n",
		s.Hits(), s.Total, s.Match, s.Dominant, s.Relative, s.Parallel, FormatFloat(s.Mean()))
	return err
}

// FormatOutcome returns the per-file report line for o.
func FormatOutcome(o Outcome) string {
	if o.Relation == keyeval.Exact {
		return fmt.Sprintf("%s %s -> %s", o.Relation.Tag(), o.ID, o.Expected)
	}
	if o.Relation == keyeval.Mismatch {
		return fmt.Sprintf("%s %s -> %s expected, found %s", o.Relation.Tag(), o.ID, o.Expected, o.Found)
	}
	return fmt.Sprintf("%s %s -> %s/%s", o.Relation.Tag(), o.ID, o.Expected, o.Found)
}

// FormatFloat formats f as the shortest decimal that parses back to f,
// keeping at least one fractional digit ("0.5", "1.0"). Very small or
// large magnitudes use exponent notation.
func FormatFloat(f float64) string {
	if math.IsInf(f, 0) || math.IsNaN(f) {
		return strconv.FormatFloat(f, 'g', -1, 64)
	}
	if abs := math.Abs(f); abs != 0 && (abs < 1e-4 || abs >= 1e16) {
		return strconv.FormatFloat(f, 'e', -1, 64)
	}
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}
