// Package bench evaluates key estimators against a ground-truth database.
package bench

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	keyeval "github.com/jamesainslie/go-keyeval"
)

// ErrMalformedRecord indicates a database line that cannot be parsed.
var ErrMalformedRecord = errors.New("malformed database record")

// Entry is one database record.
type Entry struct {
	Path string // path as written in the database
	ID   string // normalized identifier
	Key  keyeval.Key
	Line int
}

// Database maps normalized file identifiers to expected keys.
// When an identifier appears more than once, the last record wins.
type Database struct {
	keys    map[string]keyeval.Key
	entries []Entry
}

// NormalizeID converts a file path to a database identifier: forward
// slashes, final extension stripped, whitespace trimmed, lower-cased.
func NormalizeID(p string) string {
	p = filepath.ToSlash(p)
	p = strings.TrimSuffix(p, path.Ext(p))
	return strings.ToLower(strings.TrimSpace(p))
}

// ParseRecord parses a "path<TAB>key[,extra...]" line.
func ParseRecord(line string) (Entry, error) {
	fields := strings.Split(strings.TrimRight(line, " \t\r\n"), "\t")
	if len(fields) < 2 {
		return Entry{}, fmt.Errorf("%w: missing tab separator", ErrMalformedRecord)
	}

	label, _, _ := strings.Cut(fields[1], ",")
	label = strings.TrimSpace(label)
	if label == "" {
		return Entry{}, fmt.Errorf("%w: empty key field", ErrMalformedRecord)
	}

	k, err := keyeval.ParseKey(label)
	if err != nil {
		return Entry{}, err
	}

	return Entry{
		Path: fields[0],
		ID:   NormalizeID(fields[0]),
		Key:  k,
	}, nil
}

// ParseDatabase reads database records from r. Blank lines are skipped;
// any other malformed line fails the whole read.
func ParseDatabase(r io.Reader) (*Database, error) {
	db := &Database{keys: make(map[string]keyeval.Key)}
	scanner := bufio.NewScanner(r)
	lineNo := 0

	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}

		e, err := ParseRecord(line)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}
		e.Line = lineNo
		db.Add(e)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan database: %w", err)
	}

	return db, nil
}

// LoadDatabase reads a database file.
func LoadDatabase(path string) (*Database, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	defer func() { _ = f.Close() }()

	db, err := ParseDatabase(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return db, nil
}

// Add inserts e, replacing any earlier key for the same identifier.
func (db *Database) Add(e Entry) {
	if db.keys == nil {
		db.keys = make(map[string]keyeval.Key)
	}
	db.keys[e.ID] = e.Key
	db.entries = append(db.entries, e)
}

// Lookup returns the expected key for a normalized identifier.
func (db *Database) Lookup(id string) (keyeval.Key, bool) {
	k, ok := db.keys[id]
	return k, ok
}

// Len returns the number of distinct identifiers.
func (db *Database) Len() int {
	return len(db.keys)
}

// Entries returns every record in file order, duplicates included.
func (db *Database) Entries() []Entry {
	return db.entries
}
