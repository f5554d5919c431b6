package bench

import (
	"bytes"
	"testing"

	keyeval "github.com/jamesainslie/go-keyeval"
)

func TestStatsRecord(t *testing.T) {
	pairs := [][2]string{
		{"Cmaj", "Cmaj"},
		{"Cmaj", "Gmaj"},
		{"Amin", "Cmaj"},
		{"Cmaj", "Cmin"},
		{"Cmaj", "F#maj"},
	}

	var s Stats
	for i, p := range pairs {
		s.Record(string(rune('a'+i)), keyeval.MustParseKey(p[0]), keyeval.MustParseKey(p[1]))
	}

	if s.Total != 5 {
		t.Errorf("Total = %d, want 5", s.Total)
	}
	if s.Match != 1 || s.Dominant != 1 || s.Relative != 1 || s.Parallel != 1 || s.Mismatch != 1 {
		t.Errorf("counts = %+v, want one of each", s)
	}
	if s.Hits() != 4 {
		t.Errorf("Hits() = %d, want 4", s.Hits())
	}

	wantScore := 1.0 + 0.5 + 0.3 + 0.2
	if diff := s.Score - wantScore; diff < -1e-9 || diff > 1e-9 {
		t.Errorf("Score = %v, want %v", s.Score, wantScore)
	}
	if len(s.Outcomes) != 5 || s.Outcomes[2].Relation != keyeval.Relative {
		t.Errorf("Outcomes = %+v", s.Outcomes)
	}
}

func TestStatsMean_Empty(t *testing.T) {
	var s Stats
	if got := s.Mean(); got != 0 {
		t.Errorf("Mean() = %v, want 0", got)
	}

	var buf bytes.Buffer
	if err := s.WriteSummary(&buf); err != nil {
		t.Fatal(err)
	}
	want := "0/0: 0 match, 0 dom, 0 rel, 0 par\nscore: 0.0\n"
	if buf.String() != want {
		t.Errorf("WriteSummary() = %q, want %q", buf.String(), want)
	}
}

func TestStatsWriteSummary(t *testing.T) {
	var s Stats
	s.Record("track1", keyeval.MustParseKey("Cmaj"), keyeval.MustParseKey("Gmaj"))

	var buf bytes.Buffer
	if err := s.WriteSummary(&buf); err != nil {
		t.Fatal(err)
	}
	want := "1/1: 0 match, 1 dom, 0 rel, 0 par\nscore: 0.5\n"
	if buf.String() != want {
		t.Errorf("WriteSummary() = %q, want %q", buf.String(), want)
	}
}

func TestFormatOutcome(t *testing.T) {
	tests := []struct {
		expected string
		found    string
		want     string
	}{
		{"Cmaj", "Cmaj", "fnd t -> Cmaj"},
		{"Cmaj", "Gmaj", "dom t -> Cmaj/Gmaj"},
		{"Amin", "Cmaj", "rel t -> Amin/Cmaj"},
		{"Cmaj", "Cmin", "par t -> Cmaj/Cmin"},
		{"Cmaj", "Dbmaj", "err t -> Cmaj expected, found C#maj"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			var s Stats
			o := s.Record("t", keyeval.MustParseKey(tt.expected), keyeval.MustParseKey(tt.found))
			if got := FormatOutcome(o); got != tt.want {
				t.Errorf("FormatOutcome() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFormatFloat(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "0.0"},
		{1, "1.0"},
		{0.5, "0.5"},
		{1.2, "1.2"},
		{0.1 + 0.2, "0.30000000000000004"},
		{12.25, "12.25"},
		{0.00001, "1e-05"},
	}

	for _, tt := range tests {
		if got := FormatFloat(tt.in); got != tt.want {
			t.Errorf("FormatFloat(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
