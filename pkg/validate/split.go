package validate

import (
	"encoding/csv"
	"strings"

	"github.com/rowsift-labs/rowsift/pkg/rules"
	"github.com/rowsift-labs/rowsift/pkg/table"
)

// reasonColumn is the extra header appended to the invalid export.
const reasonColumn = "Error_Reason"

// reasonSeparator joins the (column, kind) pairs of one invalid record.
const reasonSeparator = "; "

// Split partitions the table's records into two serialized CSV documents.
// A record is valid iff it triggers zero kinds across all ruled columns.
// The invalid document carries an extra Error_Reason column listing every
// triggered (column, kind) pair in header order, then rule-declaration
// order within a column. Both documents round-trip through table.Parse.
func Split(t *table.Table, c *rules.Compiled) (valid, invalid string) {
	var vb, ib strings.Builder
	vw := csv.NewWriter(&vb)
	iw := csv.NewWriter(&ib)

	headers := t.Headers()
	_ = vw.Write(headers)
	_ = iw.Write(append(append(make([]string, 0, len(headers)+1), headers...), reasonColumn))

	chains := c.Chains()
	kinds := make([]rules.Kind, 0, 8)
	var reasons []string
	dirty := make([]string, 0, len(headers)+1)

	for row := 0; row < t.Len(); row++ {
		rec := t.Record(row)
		reasons = reasons[:0]
		for i := range chains {
			ch := &chains[i]
			kinds = ch.EvaluateInto(rec[ch.Index], kinds[:0])
			for _, k := range kinds {
				reasons = append(reasons, ch.Column+": "+string(k))
			}
		}
		if len(reasons) == 0 {
			_ = vw.Write(rec)
			continue
		}
		dirty = append(dirty[:0], rec...)
		dirty = append(dirty, strings.Join(reasons, reasonSeparator))
		_ = iw.Write(dirty)
	}

	vw.Flush()
	iw.Flush()
	return vb.String(), ib.String()
}
