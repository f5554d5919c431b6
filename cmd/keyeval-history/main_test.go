package main

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	keyeval "github.com/jamesainslie/go-keyeval"
	"github.com/jamesainslie/go-keyeval/internal/bench"
	"github.com/jamesainslie/go-keyeval/internal/history"
)

func setupHistory(t *testing.T) (string, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "runs.sqlite3")

	store, err := history.Open(path)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer func() { _ = store.Close() }()

	var stats bench.Stats
	stats.Record("track1", keyeval.MustParseKey("Cmaj"), keyeval.MustParseKey("Gmaj"))
	run := history.FromStats(&stats, "beatr", []string{"-w", "4096"}, time.Now())
	if err := store.Save(context.Background(), run); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	return path, run.ID
}

func TestRun_List(t *testing.T) {
	path, id := setupHistory(t)

	var stdout, stderr bytes.Buffer
	if code := run([]string{"--db", path}, &stdout, &stderr); code != 0 {
		t.Fatalf("run() = %d, stderr: %s", code, stderr.String())
	}
	if !strings.Contains(stdout.String(), id) || !strings.Contains(stdout.String(), "beatr -w 4096") {
		t.Errorf("listing missing run: %q", stdout.String())
	}
}

func TestRun_Show(t *testing.T) {
	path, id := setupHistory(t)

	var stdout, stderr bytes.Buffer
	if code := run([]string{"--db", path, id}, &stdout, &stderr); code != 0 {
		t.Fatalf("run() = %d, stderr: %s", code, stderr.String())
	}
	out := stdout.String()
	if !strings.Contains(out, "1/1: 0 match, 1 dom") || !strings.Contains(out, "track1") {
		t.Errorf("run details missing: %q", out)
	}
}

func TestRun_ShowMissing(t *testing.T) {
	path, _ := setupHistory(t)

	var stdout, stderr bytes.Buffer
	if code := run([]string{"--db", path, "nope"}, &stdout, &stderr); code != 1 {
		t.Errorf("run() = %d, want 1", code)
	}
}

func TestRun_NoDatabase(t *testing.T) {
	t.Setenv("KEYEVAL_HISTORY", "")

	var stdout, stderr bytes.Buffer
	if code := run(nil, &stdout, &stderr); code != 2 {
		t.Errorf("run() = %d, want 2", code)
	}
}
