// Package state persists validation run history in SQLite: one row per run
// plus the per-column error stats of its summary. The engine itself never
// touches this package; recording is a CLI concern layered on top.
package state

import "time"

// Run is one recorded validation run.
type Run struct {
	ID          string
	InputName   string
	Rows        int
	Columns     int
	TotalErrors int
	Duration    time.Duration
	CreatedAt   time.Time
}

// ColumnStat is one (column, kind) aggregate of a recorded run.
type ColumnStat struct {
	RunID   string
	Column  string
	Kind    string
	Count   int
	Example string
}

// Store records and lists validation runs.
type Store interface {
	// Open opens the backing database. Use ":memory:" for an in-memory store.
	Open(path string) error
	Close() error

	// InitSchema creates the schema if it does not exist.
	InitSchema() error

	// RecordRun persists a run and its column stats atomically, assigning
	// run.ID and run.CreatedAt.
	RecordRun(run *Run, stats []ColumnStat) error

	// ListRuns returns the most recent runs, newest first.
	ListRuns(limit int) ([]*Run, error)

	// RunStats returns the column stats of one run, ordered by column then kind.
	RunStats(runID string) ([]ColumnStat, error)
}
