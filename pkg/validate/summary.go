// Package validate implements the validation pass over a table, the
// column-incremental rescan used after bulk fixes, and the valid/invalid
// export splitter.
package validate

import (
	"github.com/rowsift-labs/rowsift/pkg/rules"
)

// Summary is the aggregate validation result. Stats counts violations per
// column and kind; Examples keeps the first raw value observed per
// (column, kind) in row order, never overwritten within one pass.
type Summary struct {
	Stats       map[string]map[rules.Kind]int    `json:"stats" yaml:"stats"`
	Examples    map[string]map[rules.Kind]string `json:"examples" yaml:"examples"`
	TotalErrors int                              `json:"total_errors" yaml:"total_errors"`
}

// NewSummary returns an empty summary with initialized maps.
func NewSummary() *Summary {
	return &Summary{
		Stats:    make(map[string]map[rules.Kind]int),
		Examples: make(map[string]map[rules.Kind]string),
	}
}

func (s *Summary) record(column string, kind rules.Kind, value string) {
	cs := s.Stats[column]
	if cs == nil {
		cs = make(map[rules.Kind]int)
		s.Stats[column] = cs
	}
	cs[kind]++
	s.TotalErrors++

	ce := s.Examples[column]
	if ce == nil {
		ce = make(map[rules.Kind]string)
		s.Examples[column] = ce
	}
	if _, ok := ce[kind]; !ok {
		ce[kind] = value
	}
}

// ColumnTotal returns the sum of counts for one column.
func (s *Summary) ColumnTotal(column string) int {
	total := 0
	for _, n := range s.Stats[column] {
		total += n
	}
	return total
}

// ReplaceColumn swaps in freshly rescanned stats and examples for a single
// column, leaving every other column untouched. TotalErrors is adjusted by
// the signed delta between the old and new column subtotals. Empty results
// remove the column's entries so the summary is indistinguishable from one
// produced by a full pass.
func (s *Summary) ReplaceColumn(column string, stats map[rules.Kind]int, examples map[rules.Kind]string) {
	newTotal := 0
	for _, n := range stats {
		newTotal += n
	}
	s.TotalErrors += newTotal - s.ColumnTotal(column)

	if len(stats) == 0 {
		delete(s.Stats, column)
		delete(s.Examples, column)
		return
	}
	s.Stats[column] = stats
	s.Examples[column] = examples
}

// Equal reports whether two summaries agree on every count, example, and the
// total. Used by tests and safe for callers comparing incremental against
// full recomputation.
func (s *Summary) Equal(o *Summary) bool {
	if o == nil || s.TotalErrors != o.TotalErrors || len(s.Stats) != len(o.Stats) || len(s.Examples) != len(o.Examples) {
		return false
	}
	for col, cs := range s.Stats {
		os, ok := o.Stats[col]
		if !ok || len(cs) != len(os) {
			return false
		}
		for k, n := range cs {
			if os[k] != n {
				return false
			}
		}
	}
	for col, ce := range s.Examples {
		oe, ok := o.Examples[col]
		if !ok || len(ce) != len(oe) {
			return false
		}
		for k, v := range ce {
			if ov, ok := oe[k]; !ok || ov != v {
				return false
			}
		}
	}
	return true
}
