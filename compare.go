package keyeval

// Relation classifies an estimated key against the expected one.
type Relation int

const (
	Mismatch Relation = iota
	Exact
	Dominant // dominant or sub-dominant, same mode
	Relative // relative major/minor
	Parallel // same tonic, opposite mode
)

// MIREX partial-credit weights.
const (
	ExactScore    = 1.0
	DominantScore = 0.5
	RelativeScore = 0.3
	ParallelScore = 0.2
)

func (r Relation) String() string {
	switch r {
	case Exact:
		return "exact"
	case Dominant:
		return "dominant"
	case Relative:
		return "relative"
	case Parallel:
		return "parallel"
	default:
		return "mismatch"
	}
}

// Tag returns the three-letter tag used in per-file report lines.
func (r Relation) Tag() string {
	switch r {
	case Exact:
		return "fnd"
	case Dominant:
		return "dom"
	case Relative:
		return "rel"
	case Parallel:
		return "par"
	default:
		return "err"
	}
}

// Score returns the credit awarded for r.
func (r Relation) Score() float64 {
	switch r {
	case Exact:
		return ExactScore
	case Dominant:
		return DominantScore
	case Relative:
		return RelativeScore
	case Parallel:
		return ParallelScore
	default:
		return 0
	}
}

// Compare classifies found against expected.
//
// The checks run in a fixed order: exact, same-mode fifth (distance 5 or 7),
// parallel (distance 12), then relative (different modes, distance 3 or 9
// modulo 12). The distance is only reduced modulo 12 for the last check.
func Compare(expected, found Key) Relation {
	d := int(expected - found)
	if d < 0 {
		d = -d
	}
	sameMode := expected.Mode() == found.Mode()

	switch {
	case d == 0:
		return Exact
	case sameMode && (d == 5 || d == 7):
		return Dominant
	case d == 12:
		return Parallel
	}

	d %= 12
	if !sameMode && (d == 3 || d == 9) {
		return Relative
	}
	return Mismatch
}
