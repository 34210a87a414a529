// Package table implements the in-memory table store: CSV tokenization
// respecting quoting, indexed cell access, in-place mutation, and canonical
// re-serialization.
//
// A Table is rectangular by construction. Parse normalizes ragged input
// against the header width: extra trailing fields are dropped and missing
// trailing fields are padded with empty strings. The normalization count is
// retained so callers can report it.
package table

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"iter"
	"strings"
)

// ParseError reports malformed or empty input. Load-time only; no partial
// table is ever returned alongside one.
type ParseError struct {
	Line int // 1-based line of the offending record, 0 if unknown
	Msg  string
	Err  error
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("parse error on line %d: %s", e.Line, e.Msg)
	}
	return fmt.Sprintf("parse error: %s", e.Msg)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Table holds an ordered header row and row-major records. Every record has
// exactly len(headers) fields.
type Table struct {
	headers []string
	records [][]string
	ragged  int
}

// Parse tokenizes raw CSV text into a Table. The first record becomes the
// headers. Fields may be quoted with '"'; quoted fields may contain the
// delimiter, record delimiters, and doubled quotes. Both \n and \r\n record
// delimiters are accepted.
func Parse(raw string) (*Table, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, &ParseError{Msg: "empty input"}
	}

	r := csv.NewReader(strings.NewReader(raw))
	r.FieldsPerRecord = -1 // ragged records are normalized below, not rejected

	headers, err := r.Read()
	if err != nil {
		return nil, wrapCSVErr(err, "invalid header record")
	}
	if len(headers) == 0 || (len(headers) == 1 && headers[0] == "") {
		return nil, &ParseError{Line: 1, Msg: "input has zero columns"}
	}

	t := &Table{headers: headers}
	for {
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, wrapCSVErr(err, "invalid record")
		}
		t.records = append(t.records, t.normalize(rec))
	}
	return t, nil
}

func wrapCSVErr(err error, msg string) *ParseError {
	var ce *csv.ParseError
	if errors.As(err, &ce) {
		return &ParseError{Line: ce.Line, Msg: fmt.Sprintf("%s: %v", msg, ce.Err), Err: err}
	}
	return &ParseError{Msg: fmt.Sprintf("%s: %v", msg, err), Err: err}
}

// normalize forces a record to the header width. Extra fields are dropped,
// missing trailing fields become empty strings.
func (t *Table) normalize(rec []string) []string {
	w := len(t.headers)
	if len(rec) == w {
		return rec
	}
	t.ragged++
	if len(rec) > w {
		return rec[:w:w]
	}
	for len(rec) < w {
		rec = append(rec, "")
	}
	return rec
}

// Headers returns the header row. Callers must not mutate it.
func (t *Table) Headers() []string { return t.headers }

// Width returns the number of columns.
func (t *Table) Width() int { return len(t.headers) }

// Len returns the number of data records, excluding the header row.
func (t *Table) Len() int { return len(t.records) }

// RaggedRecords returns how many records were width-normalized during Parse.
func (t *Table) RaggedRecords() int { return t.ragged }

// Record returns row i. Callers must not mutate it; use SetCell.
func (t *Table) Record(i int) []string { return t.records[i] }

// Cell returns the raw field at (row, col).
func (t *Table) Cell(row, col int) string { return t.records[row][col] }

// SetCell mutates a single field in place. No other row is touched or
// reallocated.
func (t *Table) SetCell(row, col int, value string) { t.records[row][col] = value }

// Column returns an iterator over (row index, field value) for one column.
// Values are yielded in row order without copying the column.
func (t *Table) Column(col int) iter.Seq2[int, string] {
	return func(yield func(int, string) bool) {
		for row, rec := range t.records {
			if !yield(row, rec[col]) {
				return
			}
		}
	}
}

// ColumnIndex returns the position of the first header equal to name, or -1.
func (t *Table) ColumnIndex(name string) int {
	for i, h := range t.headers {
		if h == name {
			return i
		}
	}
	return -1
}

// Serialize writes the table back to canonical CSV text: comma delimiter,
// \n record delimiter, and quoting of any field containing the delimiter,
// a quote, or a record delimiter. Parse(Serialize(t)) reproduces t
// field-for-field.
func (t *Table) Serialize() string {
	var sb strings.Builder
	w := csv.NewWriter(&sb)
	// WriteAll on a strings.Builder cannot fail.
	_ = w.Write(t.headers)
	for _, rec := range t.records {
		_ = w.Write(rec)
	}
	w.Flush()
	return sb.String()
}

// Equal reports field-for-field equality of headers and records.
func (t *Table) Equal(o *Table) bool {
	if o == nil || len(t.headers) != len(o.headers) || len(t.records) != len(o.records) {
		return false
	}
	for i, h := range t.headers {
		if o.headers[i] != h {
			return false
		}
	}
	for i, rec := range t.records {
		for j, f := range rec {
			if o.records[i][j] != f {
				return false
			}
		}
	}
	return true
}
