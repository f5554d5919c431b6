// Package keyeval scores musical-key estimates against expected keys.
//
// # Quick Start
//
//	expected, err := keyeval.ParseKey("Cmaj")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	rel := keyeval.Compare(expected, keyeval.MustParseKey("Gmaj"))
//	fmt.Printf("%s (%.1f)\n", rel, rel.Score()) // dominant (0.5)
//
// # Keys
//
// A Key is an index in [0, 24): major keys 0-11 and minor keys 12-23, each
// offset by the tonic's semitone distance from C. ParseKey accepts the
// labels used by the key estimator and by ground-truth databases: "Cmaj",
// "C", "Cmin", "Cm", with sharp or flat spellings ("C#maj", "Dbmaj").
//
// # Scoring
//
// Compare applies the MIREX weighting: exact 1.0, dominant or sub-dominant
// 0.5, relative 0.3, parallel 0.2, anything else 0.
//
// The bench tooling lives under cmd/: keyeval-bench runs an external key
// estimator over a directory of audio files and reports the score,
// keyeval-timing reformats timing logs, and keyeval-history lists recorded
// runs.
package keyeval
