// Package engine exposes the validation engine to callers: one Session per
// loaded table, with summary, bulk-fix, export, and re-serialization entry
// points. A Session exclusively owns its table; its methods must not be
// called concurrently with each other.
package engine

import (
	"log/slog"

	"github.com/rowsift-labs/rowsift/pkg/rules"
	"github.com/rowsift-labs/rowsift/pkg/table"
	"github.com/rowsift-labs/rowsift/pkg/validate"
)

// Config holds session configuration.
type Config struct {
	// Logger receives structured progress events. Discarded when nil.
	Logger *slog.Logger
	// Workers bounds the parallel fanout of full validation passes.
	// Values below 2 select the serial sweep.
	Workers int
}

// Session owns one parsed table, its compiled rules, and the summary of the
// most recent full or incrementally patched pass.
type Session struct {
	tbl      *table.Table
	compiled *rules.Compiled
	summary  *validate.Summary
	logger   *slog.Logger
	workers  int
}

// New parses csvData and rulesJSON, compiles the rules against the parsed
// headers, and runs an initial full validation pass. It returns a
// *table.ParseError for malformed or empty input and a *rules.PatternError
// for an uncompilable regex; no partial session escapes either failure.
func New(csvData string, rulesJSON []byte, cfg Config) (*Session, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	spec, err := rules.ParseSpec(rulesJSON)
	if err != nil {
		return nil, err
	}

	tbl, err := table.Parse(csvData)
	if err != nil {
		return nil, err
	}

	compiled, err := rules.Compile(spec, tbl.Headers())
	if err != nil {
		return nil, err
	}

	s := &Session{
		tbl:      tbl,
		compiled: compiled,
		logger:   logger,
		workers:  cfg.Workers,
	}
	s.summary = validate.Run(tbl, compiled, s.workers)

	logger.Info("table loaded",
		"rows", tbl.Len(),
		"columns", tbl.Width(),
		"ragged_records", tbl.RaggedRecords(),
		"ruled_columns", len(compiled.Chains()),
		"total_errors", s.summary.TotalErrors)
	return s, nil
}

// Summary returns the current error summary. It reflects the last full pass,
// patched column-incrementally by any Fix calls since.
func (s *Session) Summary() *validate.Summary { return s.summary }

// Headers returns the table's header row.
func (s *Session) Headers() []string { return s.tbl.Headers() }

// Rows returns the number of data records.
func (s *Session) Rows() int { return s.tbl.Len() }

// Fix replaces every cell in column whose value exactly equals find with
// replace, then rescans only that column and patches the summary in place.
// Unknown columns and zero-match fixes are no-ops. Returns the merged
// summary and the number of cells changed.
func (s *Session) Fix(column, find, replace string) (*validate.Summary, int) {
	idx := s.tbl.ColumnIndex(column)
	if idx < 0 {
		s.logger.Debug("fix skipped, unknown column", "column", column)
		return s.summary, 0
	}

	changed := 0
	for row, value := range s.tbl.Column(idx) {
		if value == find {
			s.tbl.SetCell(row, idx, replace)
			changed++
		}
	}
	if changed == 0 {
		return s.summary, 0
	}

	if ch := s.compiled.ChainAt(idx); ch != nil {
		stats, examples := validate.RescanColumn(s.tbl, ch)
		s.summary.ReplaceColumn(ch.Column, stats, examples)
	}

	s.logger.Info("bulk fix applied",
		"column", column,
		"changed", changed,
		"total_errors", s.summary.TotalErrors)
	return s.summary, changed
}

// Export re-evaluates every record and splits the table into two serialized
// CSV documents: valid records, and invalid records annotated with their
// violation reasons.
func (s *Session) Export() (valid, invalid string) {
	return validate.Split(s.tbl, s.compiled)
}

// Serialize returns the canonical CSV text of the owned table, reflecting
// any fixes applied so far.
func (s *Session) Serialize() string { return s.tbl.Serialize() }
