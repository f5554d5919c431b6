package keyeval

import "fmt"

// Mode is the mode of a musical key.
type Mode int

const (
	Major Mode = iota
	Minor
)

func (m Mode) String() string {
	if m == Minor {
		return "min"
	}
	return "maj"
}

// NumKeys is the number of distinct keys: 12 major followed by 12 minor.
const NumKeys = 24

// Key is a musical key encoded as an index in [0, 24).
// Major keys occupy 0-11 and minor keys 12-23; the low part is the
// semitone offset of the tonic from C.
type Key int

var tonicNames = [12]string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}

// flats holds the flat spelling of each tonic that has one.
var flats = map[int]string{1: "Db", 3: "Eb", 6: "Gb", 8: "Ab", 10: "Bb"}

// labels maps every accepted label to its key.
var labels = buildLabels()

func buildLabels() map[string]Key {
	m := make(map[string]Key, 96)
	add := func(tonic string, semitone int) {
		major := Key(semitone)
		minor := Key(semitone + 12)
		m[tonic] = major
		m[tonic+"maj"] = major
		m[tonic+"m"] = minor
		m[tonic+"min"] = minor
	}
	for i, name := range tonicNames {
		add(name, i)
	}
	for i, name := range flats {
		add(name, i)
	}
	return m
}

// ParseKey resolves a key label such as "Cmaj", "C", "Dbmin" or "C#m".
// Labels are case-sensitive; enharmonic spellings resolve to the same key.
func ParseKey(label string) (Key, error) {
	k, ok := labels[label]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownKey, label)
	}
	return k, nil
}

// MustParseKey is like ParseKey but panics on unknown labels.
func MustParseKey(label string) Key {
	k, err := ParseKey(label)
	if err != nil {
		panic(err)
	}
	return k
}

// Valid reports whether k is one of the 24 keys.
func (k Key) Valid() bool {
	return k >= 0 && k < NumKeys
}

// Mode returns the mode of k.
func (k Key) Mode() Mode {
	if k >= 12 {
		return Minor
	}
	return Major
}

// Tonic returns the semitone offset of the tonic from C.
func (k Key) Tonic() int {
	return int(k) % 12
}

// String returns the canonical label, e.g. "C#min".
func (k Key) String() string {
	if !k.Valid() {
		return fmt.Sprintf("Key(%d)", int(k))
	}
	return tonicNames[k.Tonic()] + k.Mode().String()
}
