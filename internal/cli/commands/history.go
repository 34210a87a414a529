package commands

import (
	"errors"
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/rowsift-labs/rowsift/internal/state"
)

// HistoryOptions holds options for the history command.
type HistoryOptions struct {
	Limit int
}

// NewHistoryCommand creates the history command.
func NewHistoryCommand() *cobra.Command {
	opts := &HistoryOptions{}
	cmd := &cobra.Command{
		Use:   "history [run-id]",
		Short: "Show recorded validation runs",
		Long: `List validation runs recorded with 'check --save', newest first.
With a run ID, show that run's per-column error stats instead.`,
		Example: `  rowsift history --state .rowsift/history.db

  rowsift history 4f6f3a9c-... --state .rowsift/history.db`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			runID := ""
			if len(args) > 0 {
				runID = args[0]
			}
			return runHistory(cmd, runID, opts)
		},
	}

	cmd.Flags().IntVar(&opts.Limit, "limit", 20, "Maximum number of runs to list")
	return cmd
}

func runHistory(cmd *cobra.Command, runID string, opts *HistoryOptions) error {
	cc, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	if cc.Cfg.StatePath == "" {
		return errors.New("no state path configured (use --state or set state_path in rowsift.yaml)")
	}

	store := state.NewSQLiteStore()
	if err := store.Open(cc.Cfg.StatePath); err != nil {
		return err
	}
	defer store.Close()
	if err := store.InitSchema(); err != nil {
		return err
	}

	if runID != "" {
		return renderRunStats(cmd, store, runID)
	}
	return renderRuns(cmd, store, opts.Limit)
}

func renderRuns(cmd *cobra.Command, store state.Store, limit int) error {
	runs, err := store.ListRuns(limit)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No recorded runs.")
		return nil
	}

	t := table.NewWriter()
	t.SetOutputMirror(cmd.OutOrStdout())
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"ID", "Input", "Rows", "Errors", "Duration", "When"})
	for _, r := range runs {
		t.AppendRow(table.Row{
			r.ID, r.InputName, r.Rows, r.TotalErrors,
			r.Duration.String(), r.CreatedAt.Format("2006-01-02 15:04:05"),
		})
	}
	t.Render()
	return nil
}

func renderRunStats(cmd *cobra.Command, store state.Store, runID string) error {
	stats, err := store.RunStats(runID)
	if err != nil {
		return err
	}
	if len(stats) == 0 {
		fmt.Fprintf(cmd.OutOrStdout(), "No stats recorded for run %s.\n", runID)
		return nil
	}

	t := table.NewWriter()
	t.SetOutputMirror(cmd.OutOrStdout())
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Column", "Error", "Count", "Example"})
	for _, st := range stats {
		t.AppendRow(table.Row{st.Column, st.Kind, st.Count, st.Example})
	}
	t.Render()
	return nil
}
