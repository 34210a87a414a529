package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/rowsift-labs/rowsift/internal/state"
	"github.com/rowsift-labs/rowsift/pkg/validate"
)

// CheckOptions holds options for the check command.
type CheckOptions struct {
	Save bool // Record the run to the history database
}

// NewCheckCommand creates the check command.
func NewCheckCommand() *cobra.Command {
	opts := &CheckOptions{}
	cmd := &cobra.Command{
		Use:   "check <data.csv>",
		Short: "Validate a CSV file against the rule specification",
		Long: `Validate a CSV file against the configured JSON rule specification and
print a per-column breakdown of violations with first-seen examples.`,
		Example: `  # Validate with rules from rowsift.yaml
  rowsift check data.csv

  # Validate with an explicit rule file, machine-readable output
  rowsift check data.csv --rules rules.json --format json

  # Record the run in the history database
  rowsift check data.csv --save --state .rowsift/history.db`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(cmd, args[0], opts)
		},
	}

	cmd.Flags().BoolVar(&opts.Save, "save", false, "Record this run in the history database")
	return cmd
}

func runCheck(cmd *cobra.Command, dataPath string, opts *CheckOptions) error {
	cc, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}

	start := time.Now()
	sess, err := loadSession(cc, dataPath)
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	summary := sess.Summary()
	if err := renderSummary(cmd.OutOrStdout(), sess.Headers(), summary, cc.Cfg.OutputFormat); err != nil {
		return err
	}

	if opts.Save {
		if cc.Cfg.StatePath == "" {
			return fmt.Errorf("--save requires a state path (use --state or set state_path in rowsift.yaml)")
		}
		if err := recordRun(cc, dataPath, sess.Rows(), len(sess.Headers()), summary, elapsed); err != nil {
			return fmt.Errorf("failed to record run: %w", err)
		}
	}
	return nil
}

// recordRun persists one validation run and its flattened column stats.
func recordRun(cc *CommandContext, inputName string, rows, cols int, s *validate.Summary, elapsed time.Duration) error {
	store := state.NewSQLiteStore()
	if err := store.Open(cc.Cfg.StatePath); err != nil {
		return err
	}
	defer store.Close()
	if err := store.InitSchema(); err != nil {
		return err
	}

	run := &state.Run{
		InputName:   inputName,
		Rows:        rows,
		Columns:     cols,
		TotalErrors: s.TotalErrors,
		Duration:    elapsed,
	}
	var stats []state.ColumnStat
	for col, cs := range s.Stats {
		for kind, count := range cs {
			stats = append(stats, state.ColumnStat{
				Column:  col,
				Kind:    string(kind),
				Count:   count,
				Example: s.Examples[col][kind],
			})
		}
	}
	if err := store.RecordRun(run, stats); err != nil {
		return err
	}
	cc.Logger.Debug("run recorded", "id", run.ID, "state", cc.Cfg.StatePath)
	return nil
}
