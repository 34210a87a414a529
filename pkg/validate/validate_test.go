package validate

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rowsift-labs/rowsift/pkg/rules"
	"github.com/rowsift-labs/rowsift/pkg/table"
)

func f64(v float64) *float64 { return &v }

func userSpec() []rules.ColumnRules {
	return []rules.ColumnRules{
		{Column: "name", Rules: []rules.Rule{{Type: rules.TypeNotEmpty}}},
		{Column: "age", Rules: []rules.Rule{{Type: rules.TypeNotEmpty}, {Type: rules.TypeNumber, Min: f64(18), Max: f64(100)}}},
		{Column: "email", Rules: []rules.Rule{{Type: rules.TypeEmail}}},
		{Column: "role", Rules: []rules.Rule{{Type: rules.TypeOneOf, Options: []string{"admin", "user", "guest"}}}},
	}
}

func mustLoad(t testing.TB, csv string, spec []rules.ColumnRules) (*table.Table, *rules.Compiled) {
	t.Helper()
	tbl, err := table.Parse(csv)
	require.NoError(t, err)
	c, err := rules.Compile(spec, tbl.Headers())
	require.NoError(t, err)
	return tbl, c
}

func TestRun_Aggregation(t *testing.T) {
	tbl, c := mustLoad(t, "name,age,email,role\n,abc,,x\nBob,24,bob@example.com,user\n", userSpec())
	s := Run(tbl, c, 1)

	assert.Equal(t, 1, s.Stats["name"][rules.KindRequired])
	// "abc" is non-empty, so the age column's NotEmpty rule passes and only
	// its number rule fires.
	assert.Zero(t, s.Stats["age"][rules.KindRequired])
	assert.Equal(t, 1, s.Stats["age"][rules.KindNotANumber])
	// Empty under an Email rule reports Invalid Email, not Required.
	assert.Equal(t, 1, s.Stats["email"][rules.KindInvalidEmail])
	assert.Equal(t, 1, s.Stats["role"][rules.KindInvalidOption])

	sum := 0
	for _, cs := range s.Stats {
		for _, n := range cs {
			sum += n
		}
	}
	assert.Equal(t, sum, s.TotalErrors)
	assert.Equal(t, 4, s.TotalErrors)

	// Examples carry the raw offending values.
	assert.Equal(t, "abc", s.Examples["age"][rules.KindNotANumber])
	assert.Equal(t, "x", s.Examples["role"][rules.KindInvalidOption])
}

func TestRun_FirstWinsExamples(t *testing.T) {
	tbl, c := mustLoad(t, "role\nfirst-bad\nsecond-bad\nadmin\nthird-bad\n", []rules.ColumnRules{
		{Column: "role", Rules: []rules.Rule{{Type: rules.TypeOneOf, Options: []string{"admin"}}}},
	})
	s := Run(tbl, c, 1)

	assert.Equal(t, 3, s.Stats["role"][rules.KindInvalidOption])
	assert.Equal(t, "first-bad", s.Examples["role"][rules.KindInvalidOption])
}

func TestRun_NoErrors(t *testing.T) {
	tbl, c := mustLoad(t, "name\nAlice\n", userSpec())
	s := Run(tbl, c, 1)

	assert.Zero(t, s.TotalErrors)
	assert.Empty(t, s.Stats)
	assert.Empty(t, s.Examples)
}

// bigTable builds a table large enough to exercise the partitioned sweep.
// Violating rows are placed at the given indices.
func bigTable(t testing.TB, rows int, badRows map[int]string) (*table.Table, *rules.Compiled) {
	t.Helper()
	var sb strings.Builder
	sb.WriteString("id,score\n")
	for i := 0; i < rows; i++ {
		if v, ok := badRows[i]; ok {
			fmt.Fprintf(&sb, "%d,%s\n", i, v)
		} else {
			fmt.Fprintf(&sb, "%d,50\n", i)
		}
	}
	return mustLoad(t, sb.String(), []rules.ColumnRules{
		{Column: "score", Rules: []rules.Rule{{Type: rules.TypeNumber, Min: f64(0), Max: f64(100)}}},
	})
}

func TestRun_ParallelEqualsSerial(t *testing.T) {
	tbl, c := bigTable(t, 10000, map[int]string{
		7:    "bad-early",
		4100: "bad-mid",
		9999: "999",
	})

	serial := Run(tbl, c, 1)
	for _, workers := range []int{2, 4, 16} {
		parallel := Run(tbl, c, workers)
		assert.True(t, serial.Equal(parallel), "workers=%d", workers)
	}
}

func TestRun_ParallelFirstWinsAcrossPartitions(t *testing.T) {
	// All violations land in later partitions; the example must still be the
	// lowest-index violating row, not whichever partition finishes first.
	tbl, c := bigTable(t, 10000, map[int]string{
		6000: "later",
		9000: "latest",
	})
	s := Run(tbl, c, 4)

	assert.Equal(t, 2, s.Stats["score"][rules.KindNotANumber])
	assert.Equal(t, "later", s.Examples["score"][rules.KindNotANumber])
}

func TestRescanColumn_MatchesFullPass(t *testing.T) {
	tbl, c := mustLoad(t, "name,age\n,abc\nBob,24\n,17\n", []rules.ColumnRules{
		{Column: "name", Rules: []rules.Rule{{Type: rules.TypeNotEmpty}}},
		{Column: "age", Rules: []rules.Rule{{Type: rules.TypeNumber, Min: f64(18)}}},
	})
	full := Run(tbl, c, 1)

	for _, ch := range c.Chains() {
		stats, examples := RescanColumn(tbl, &ch)
		assert.Equal(t, full.Stats[ch.Column], stats, "column %s", ch.Column)
		assert.Equal(t, full.Examples[ch.Column], examples, "column %s", ch.Column)
	}
}

func TestReplaceColumn(t *testing.T) {
	tbl, c := mustLoad(t, "name,age\n,abc\nBob,24\n", []rules.ColumnRules{
		{Column: "name", Rules: []rules.Rule{{Type: rules.TypeNotEmpty}}},
		{Column: "age", Rules: []rules.Rule{{Type: rules.TypeNumber}}},
	})
	s := Run(tbl, c, 1)
	require.Equal(t, 2, s.TotalErrors)

	t.Run("replacement adjusts total by delta", func(t *testing.T) {
		// Fix the bad age cell, rescan just that column.
		tbl.SetCell(0, 1, "30")
		stats, examples := RescanColumn(tbl, c.ChainAt(1))
		s.ReplaceColumn("age", stats, examples)

		assert.Equal(t, 1, s.TotalErrors)
		assert.NotContains(t, s.Stats, "age")
		assert.NotContains(t, s.Examples, "age")
		// Other columns untouched.
		assert.Equal(t, 1, s.Stats["name"][rules.KindRequired])
	})

	t.Run("incremental equals full recompute", func(t *testing.T) {
		fresh := Run(tbl, c, 1)
		assert.True(t, s.Equal(fresh))
	})
}

func TestSplit(t *testing.T) {
	csvIn := "name,age,email,role\n,abc,,x\nBob,24,bob@example.com,user\nAna,17,ana@example.com,admin\n"
	tbl, c := mustLoad(t, csvIn, userSpec())

	valid, invalid := Split(tbl, c)

	t.Run("valid contains only passing records", func(t *testing.T) {
		vt, err := table.Parse(valid)
		require.NoError(t, err)
		assert.Equal(t, []string{"name", "age", "email", "role"}, vt.Headers())
		require.Equal(t, 1, vt.Len())
		assert.Equal(t, "Bob", vt.Cell(0, 0))
	})

	t.Run("invalid is annotated with reasons", func(t *testing.T) {
		it, err := table.Parse(invalid)
		require.NoError(t, err)
		assert.Equal(t, []string{"name", "age", "email", "role", "Error_Reason"}, it.Headers())
		require.Equal(t, 2, it.Len())

		// Reasons in header order, then rule-declaration order within a column.
		assert.Equal(t,
			"name: Required; age: Not a Number; email: Invalid Email; role: Invalid Option",
			it.Cell(0, 4))
		assert.Equal(t, "age: Min Value", it.Cell(1, 4))
	})

	t.Run("partition is complete and disjoint", func(t *testing.T) {
		vt, err := table.Parse(valid)
		require.NoError(t, err)
		it, err := table.Parse(invalid)
		require.NoError(t, err)
		assert.Equal(t, tbl.Len(), vt.Len()+it.Len())
	})

	t.Run("exports preserve original order", func(t *testing.T) {
		it, err := table.Parse(invalid)
		require.NoError(t, err)
		assert.Equal(t, "", it.Cell(0, 0))
		assert.Equal(t, "Ana", it.Cell(1, 0))
	})
}

func TestSplit_RoundTripWithEmbeddedDelimiters(t *testing.T) {
	csvIn := "name,note\nAlice,\"has, comma\"\n,\"line\nbreak\"\n"
	tbl, c := mustLoad(t, csvIn, []rules.ColumnRules{
		{Column: "name", Rules: []rules.Rule{{Type: rules.TypeNotEmpty}}},
	})

	valid, invalid := Split(tbl, c)

	vt, err := table.Parse(valid)
	require.NoError(t, err)
	assert.Equal(t, "has, comma", vt.Cell(0, 1))

	it, err := table.Parse(invalid)
	require.NoError(t, err)
	assert.Equal(t, "line\nbreak", it.Cell(0, 1))
	assert.Equal(t, "name: Required", it.Cell(0, 2))
}

func TestSplit_AllValid(t *testing.T) {
	tbl, c := mustLoad(t, "name\nAlice\nBob\n", []rules.ColumnRules{
		{Column: "name", Rules: []rules.Rule{{Type: rules.TypeNotEmpty}}},
	})
	valid, invalid := Split(tbl, c)

	vt, err := table.Parse(valid)
	require.NoError(t, err)
	assert.Equal(t, 2, vt.Len())

	// Invalid export is headers only, still a parseable table.
	it, err := table.Parse(invalid)
	require.NoError(t, err)
	assert.Equal(t, 0, it.Len())
	assert.Equal(t, []string{"name", "Error_Reason"}, it.Headers())
}

func BenchmarkRun(b *testing.B) {
	tbl, c := bigTable(b, 100000, map[int]string{
		10:    "oops",
		50000: "200",
	})

	for _, workers := range []int{1, 4} {
		b.Run(fmt.Sprintf("workers=%d", workers), func(b *testing.B) {
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				Run(tbl, c, workers)
			}
		})
	}
}
