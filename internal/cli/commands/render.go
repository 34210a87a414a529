package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"

	"github.com/jedib0t/go-pretty/v6/table"
	"gopkg.in/yaml.v3"

	"github.com/rowsift-labs/rowsift/pkg/rules"
	"github.com/rowsift-labs/rowsift/pkg/validate"
)

// renderSummary writes the error summary in the requested format. The table
// format orders rows by header position, then kind name, so output is
// deterministic.
func renderSummary(w io.Writer, headers []string, s *validate.Summary, format string) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(s)
	case "yaml":
		enc := yaml.NewEncoder(w)
		defer enc.Close()
		return enc.Encode(s)
	default:
		renderSummaryTable(w, headers, s)
		return nil
	}
}

func renderSummaryTable(w io.Writer, headers []string, s *validate.Summary) {
	if s.TotalErrors == 0 {
		fmt.Fprintln(w, "No validation errors found.")
		return
	}

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Column", "Error", "Count", "Example"})

	for _, col := range headers {
		cs, ok := s.Stats[col]
		if !ok {
			continue
		}
		kinds := make([]rules.Kind, 0, len(cs))
		for k := range cs {
			kinds = append(kinds, k)
		}
		sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })
		for _, k := range kinds {
			t.AppendRow(table.Row{col, string(k), cs[k], s.Examples[col][k]})
		}
	}

	t.AppendFooter(table.Row{"", "Total", s.TotalErrors, ""})
	t.Render()
}
