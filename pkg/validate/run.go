package validate

import (
	"golang.org/x/sync/errgroup"

	"github.com/rowsift-labs/rowsift/pkg/rules"
	"github.com/rowsift-labs/rowsift/pkg/table"
)

// minRowsPerWorker keeps small tables on the serial path where goroutine
// setup would dominate.
const minRowsPerWorker = 4096

// Run sweeps the table once and aggregates every rule violation into a fresh
// Summary. Cost is O(records x ruled columns x rules per column); passing
// cells allocate nothing.
//
// With workers > 1 the sweep is partitioned into contiguous row ranges
// evaluated concurrently. Partials are merged in range order, so example
// capture stays first-wins by row index regardless of which partition
// finishes first.
func Run(t *table.Table, c *rules.Compiled, workers int) *Summary {
	rows := t.Len()
	if workers > rows/minRowsPerWorker {
		workers = rows / minRowsPerWorker
	}
	if workers <= 1 {
		s := NewSummary()
		sweepInto(s, t, c, 0, rows)
		return s
	}

	partials := make([]*Summary, workers)
	var g errgroup.Group
	chunk := (rows + workers - 1) / workers
	for w := 0; w < workers; w++ {
		lo := w * chunk
		hi := min(lo+chunk, rows)
		p := NewSummary()
		partials[w] = p
		g.Go(func() error {
			sweepInto(p, t, c, lo, hi)
			return nil
		})
	}
	_ = g.Wait() // workers never fail

	s := NewSummary()
	for _, p := range partials {
		s.merge(p)
	}
	return s
}

// sweepInto evaluates rows [lo, hi) against every compiled chain,
// accumulating into s. The triggered-kind buffer is reused across cells.
func sweepInto(s *Summary, t *table.Table, c *rules.Compiled, lo, hi int) {
	chains := c.Chains()
	kinds := make([]rules.Kind, 0, 8)
	for row := lo; row < hi; row++ {
		rec := t.Record(row)
		for i := range chains {
			ch := &chains[i]
			value := rec[ch.Index]
			kinds = ch.EvaluateInto(value, kinds[:0])
			for _, k := range kinds {
				s.record(ch.Column, k, value)
			}
		}
	}
}

// merge folds a partial covering a later row range into s. Counts add;
// examples only fill gaps, preserving first-wins across the merge order.
func (s *Summary) merge(p *Summary) {
	for col, cs := range p.Stats {
		dst := s.Stats[col]
		if dst == nil {
			dst = make(map[rules.Kind]int, len(cs))
			s.Stats[col] = dst
		}
		for k, n := range cs {
			dst[k] += n
		}
	}
	for col, ce := range p.Examples {
		dst := s.Examples[col]
		if dst == nil {
			dst = make(map[rules.Kind]string, len(ce))
			s.Examples[col] = dst
		}
		for k, v := range ce {
			if _, ok := dst[k]; !ok {
				dst[k] = v
			}
		}
	}
	s.TotalErrors += p.TotalErrors
}

// RescanColumn recomputes the error contribution of a single column from
// scratch: fresh counts and fresh first-wins examples over just that
// column's cells. Used by the bulk-fix path to avoid re-sweeping the whole
// table; cost is O(records) regardless of table width.
func RescanColumn(t *table.Table, ch *rules.Chain) (map[rules.Kind]int, map[rules.Kind]string) {
	stats := make(map[rules.Kind]int)
	examples := make(map[rules.Kind]string)
	kinds := make([]rules.Kind, 0, 8)
	for _, value := range t.Column(ch.Index) {
		kinds = ch.EvaluateInto(value, kinds[:0])
		for _, k := range kinds {
			stats[k]++
			if _, ok := examples[k]; !ok {
				examples[k] = value
			}
		}
	}
	return stats, examples
}
