package bench

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	keyeval "github.com/jamesainslie/go-keyeval"
)

func TestNormalizeID(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"track1.wav", "track1"},
		{"Track1.WAV", "track1"},
		{"album/Song.flac", "album/song"},
		{"  spaced.mp3 ", "spaced"},
		{"noext", "noext"},
		{"dir.v2/file", "dir.v2/file"},
		{"multi.part.name.ogg", "multi.part.name"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := NormalizeID(tt.input); got != tt.want {
				t.Errorf("NormalizeID(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseRecord(t *testing.T) {
	tests := []struct {
		name    string
		line    string
		wantID  string
		wantKey string
		wantErr error
	}{
		{
			name:    "plain",
			line:    "track1\tCmaj",
			wantID:  "track1",
			wantKey: "Cmaj",
		},
		{
			name:    "extension and case",
			line:    "Pop/Track2.wav\tAmin\n",
			wantID:  "pop/track2",
			wantKey: "Amin",
		},
		{
			name:    "extra comma fields ignored",
			line:    "t3\tDbm,0.8,manual",
			wantID:  "t3",
			wantKey: "C#min",
		},
		{
			name:    "extra tab fields ignored",
			line:    "t4\tG\tnotes",
			wantID:  "t4",
			wantKey: "Gmaj",
		},
		{
			name:    "missing tab",
			line:    "track1 Cmaj",
			wantErr: ErrMalformedRecord,
		},
		{
			name:    "empty key",
			line:    "track1\t,0.5",
			wantErr: ErrMalformedRecord,
		},
		{
			name:    "unknown key",
			line:    "track1\tC major",
			wantErr: keyeval.ErrUnknownKey,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseRecord(tt.line)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("ParseRecord() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseRecord() error = %v", err)
			}
			if got.ID != tt.wantID {
				t.Errorf("ID = %q, want %q", got.ID, tt.wantID)
			}
			if want := keyeval.MustParseKey(tt.wantKey); got.Key != want {
				t.Errorf("Key = %v, want %v", got.Key, want)
			}
		})
	}
}

func TestParseDatabase(t *testing.T) {
	input := "a.wav\tCmaj\n\nb.wav\tAmin\nA.mp3\tGmaj\n"

	db, err := ParseDatabase(strings.NewReader(input))
	if err != nil {
		t.Fatalf("ParseDatabase() error = %v", err)
	}

	if db.Len() != 2 {
		t.Errorf("Len() = %d, want 2", db.Len())
	}
	if len(db.Entries()) != 3 {
		t.Errorf("got %d entries, want 3", len(db.Entries()))
	}

	// Last record wins for duplicate identifiers.
	k, ok := db.Lookup("a")
	if !ok || k != keyeval.MustParseKey("Gmaj") {
		t.Errorf("Lookup(a) = %v, %v; want Gmaj, true", k, ok)
	}
	if _, ok := db.Lookup("missing"); ok {
		t.Error("Lookup(missing) found an entry")
	}

	if got := db.Entries()[1].Line; got != 3 {
		t.Errorf("second entry line = %d, want 3", got)
	}
}

func TestParseDatabase_Errors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr error
		wantMsg string
	}{
		{"missing tab", "a\tCmaj\nbroken line\n", ErrMalformedRecord, "line 2"},
		{"unknown label", "a\tCmaj\nb\tXmaj\n", keyeval.ErrUnknownKey, "line 2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseDatabase(strings.NewReader(tt.input))
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("ParseDatabase() error = %v, want %v", err, tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("error %q does not mention %q", err, tt.wantMsg)
			}
		})
	}
}

func TestLoadDatabase(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "keys.tsv")
	if err := os.WriteFile(path, []byte("track1\tCmaj\ntrack2\tAmin\n"), 0644); err != nil {
		t.Fatal(err)
	}

	db, err := LoadDatabase(path)
	if err != nil {
		t.Fatalf("LoadDatabase() error = %v", err)
	}
	if db.Len() != 2 {
		t.Errorf("Len() = %d, want 2", db.Len())
	}

	if _, err := LoadDatabase(filepath.Join(dir, "missing.tsv")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("LoadDatabase(missing) error = %v, want os.ErrNotExist", err)
	}
}
