// Package history records evaluation runs in an SQLite database so that
// estimator settings can be compared over time.
package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gonum.org/v1/gonum/stat"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/jamesainslie/go-keyeval/internal/bench"
)

// ErrRunNotFound indicates no run with the requested ID exists.
var ErrRunNotFound = errors.New("history: run not found")

// Run is one recorded evaluation.
type Run struct {
	ID        string `gorm:"primaryKey;type:varchar(36)"`
	StartedAt time.Time `gorm:"index"`
	Duration  time.Duration
	Estimator string
	Args      string
	Total     int
	Match     int
	Dominant  int
	Relative  int
	Parallel  int
	Invalid   int
	Score     float64 // mean score
	Outcomes  []Outcome `gorm:"foreignKey:RunID;constraint:OnDelete:CASCADE"`
}

// Outcome is one scored file within a run.
type Outcome struct {
	ID       uint   `gorm:"primaryKey;autoIncrement"`
	RunID    string `gorm:"type:varchar(36);index"`
	File     string
	Expected string
	Found    string
	Relation string
	Score    float64
}

// Store persists runs.
type Store struct {
	db    *gorm.DB
	sqlDB *sql.DB
}

// Open opens or creates the history database at path.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating history dir: %w", err)
		}
	}

	db, err := gorm.Open(sqlite.Open(path+"?_pragma=foreign_keys(1)"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("opening history db: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("getting sql.DB from gorm: %w", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(&Run{}, &Outcome{}); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("auto migrate: %w", err)
	}

	return &Store{db: db, sqlDB: sqlDB}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// FromStats builds a Run from the statistics of a finished evaluation.
func FromStats(stats *bench.Stats, estimator string, args []string, started time.Time) *Run {
	run := &Run{
		StartedAt: started,
		Duration:  time.Since(started),
		Estimator: estimator,
		Args:      strings.Join(args, " "),
		Total:     stats.Total,
		Match:     stats.Match,
		Dominant:  stats.Dominant,
		Relative:  stats.Relative,
		Parallel:  stats.Parallel,
		Invalid:   stats.Invalid,
		Score:     stats.Mean(),
		Outcomes:  make([]Outcome, 0, len(stats.Outcomes)),
	}
	for _, o := range stats.Outcomes {
		run.Outcomes = append(run.Outcomes, Outcome{
			File:     o.ID,
			Expected: o.Expected.String(),
			Found:    o.Found.String(),
			Relation: o.Relation.String(),
			Score:    o.Score,
		})
	}
	return run
}

// Save inserts run and its outcomes. A run without an ID gets a new UUID.
func (s *Store) Save(ctx context.Context, run *Run) error {
	if run.ID == "" {
		run.ID = uuid.NewString()
	}
	if err := s.db.WithContext(ctx).Create(run).Error; err != nil {
		return fmt.Errorf("saving run: %w", err)
	}
	return nil
}

// List returns up to limit runs, newest first, without outcomes.
// A limit of zero or less returns every run.
func (s *Store) List(ctx context.Context, limit int) ([]Run, error) {
	q := s.db.WithContext(ctx).Order("started_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}

	var runs []Run
	if err := q.Find(&runs).Error; err != nil {
		return nil, fmt.Errorf("listing runs: %w", err)
	}
	return runs, nil
}

// Get returns the run with the given ID, outcomes included.
func (s *Store) Get(ctx context.Context, id string) (*Run, error) {
	var run Run
	err := s.db.WithContext(ctx).
		Preload("Outcomes", func(db *gorm.DB) *gorm.DB { return db.Order("id") }).
		First(&run, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrRunNotFound, id)
		}
		return nil, fmt.Errorf("loading run: %w", err)
	}
	return &run, nil
}

// Spread returns the mean and sample standard deviation of the per-file
// scores of run. Runs with fewer than two outcomes have zero deviation.
func Spread(run *Run) (mean, stddev float64) {
	if len(run.Outcomes) == 0 {
		return 0, 0
	}
	scores := make([]float64, len(run.Outcomes))
	for i, o := range run.Outcomes {
		scores[i] = o.Score
	}
	if len(scores) < 2 {
		return stat.Mean(scores, nil), 0
	}
	return stat.MeanStdDev(scores, nil)
}
