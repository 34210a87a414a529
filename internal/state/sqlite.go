package state

import (
	"database/sql"
	_ "embed"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

//go:embed schema.sql
var schemaSQL string

// SQLiteStore implements Store on a local SQLite database.
type SQLiteStore struct {
	db   *sql.DB
	path string
}

// NewSQLiteStore creates an unopened store.
func NewSQLiteStore() *SQLiteStore {
	return &SQLiteStore{}
}

// Open opens the database, enabling foreign keys and, for file-backed
// stores, WAL journaling.
func (s *SQLiteStore) Open(path string) error {
	dsn := path + "?_pragma=foreign_keys(1)"
	if path != ":memory:" {
		dsn += "&_pragma=journal_mode(WAL)"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return fmt.Errorf("failed to open sqlite database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return fmt.Errorf("failed to ping sqlite database: %w", err)
	}

	s.db = db
	s.path = path
	return nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// InitSchema creates the tables if they do not exist.
func (s *SQLiteStore) InitSchema() error {
	if s.db == nil {
		return fmt.Errorf("database not opened")
	}
	if _, err := s.db.Exec(schemaSQL); err != nil {
		return fmt.Errorf("failed to initialize schema: %w", err)
	}
	return nil
}

// RecordRun inserts the run and its column stats in one transaction.
func (s *SQLiteStore) RecordRun(run *Run, stats []ColumnStat) error {
	if run.ID == "" {
		run.ID = uuid.New().String()
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now().UTC()
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(`
		INSERT INTO runs (id, input_name, row_count, column_count, total_errors, duration_ms, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.InputName, run.Rows, run.Columns, run.TotalErrors,
		run.Duration.Milliseconds(), run.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert run: %w", err)
	}

	for _, st := range stats {
		_, err = tx.Exec(`
			INSERT INTO run_stats (run_id, column_name, kind, count, example)
			VALUES (?, ?, ?, ?, ?)`,
			run.ID, st.Column, st.Kind, st.Count, st.Example)
		if err != nil {
			return fmt.Errorf("failed to insert run stat: %w", err)
		}
	}

	return tx.Commit()
}

// ListRuns returns the most recent runs, newest first.
func (s *SQLiteStore) ListRuns(limit int) ([]*Run, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.Query(`
		SELECT id, input_name, row_count, column_count, total_errors, duration_ms, created_at
		FROM runs ORDER BY created_at DESC, id LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var runs []*Run
	for rows.Next() {
		var r Run
		var durMS int64
		if err := rows.Scan(&r.ID, &r.InputName, &r.Rows, &r.Columns, &r.TotalErrors, &durMS, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		r.Duration = time.Duration(durMS) * time.Millisecond
		runs = append(runs, &r)
	}
	return runs, rows.Err()
}

// RunStats returns the column stats of one run.
func (s *SQLiteStore) RunStats(runID string) ([]ColumnStat, error) {
	rows, err := s.db.Query(`
		SELECT run_id, column_name, kind, count, example
		FROM run_stats WHERE run_id = ? ORDER BY column_name, kind`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query run stats: %w", err)
	}
	defer rows.Close()

	var stats []ColumnStat
	for rows.Next() {
		var st ColumnStat
		if err := rows.Scan(&st.RunID, &st.Column, &st.Kind, &st.Count, &st.Example); err != nil {
			return nil, fmt.Errorf("failed to scan run stat: %w", err)
		}
		stats = append(stats, st)
	}
	return stats, rows.Err()
}
