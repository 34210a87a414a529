package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// FixOptions holds options for the fix command.
type FixOptions struct {
	Column  string
	Find    string
	Replace string
	Write   string // Output path; empty overwrites the input
}

// NewFixCommand creates the fix command.
func NewFixCommand() *cobra.Command {
	opts := &FixOptions{}
	cmd := &cobra.Command{
		Use:   "fix <data.csv>",
		Short: "Apply an exact-match find/replace to one column",
		Long: `Replace every cell in one column whose value exactly equals --find with
--replace, then print the updated error summary. Matching is case-sensitive
and whole-cell; the summary is recomputed for the fixed column only.`,
		Example: `  # Normalize a role value and overwrite the input
  rowsift fix data.csv --column role --find Admin --replace admin

  # Write the corrected file elsewhere
  rowsift fix data.csv --column age --find unknown --replace "" --write fixed.csv`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFix(cmd, args[0], opts)
		},
	}

	cmd.Flags().StringVar(&opts.Column, "column", "", "Column to fix")
	cmd.Flags().StringVar(&opts.Find, "find", "", "Exact cell value to replace")
	cmd.Flags().StringVar(&opts.Replace, "replace", "", "Replacement value")
	cmd.Flags().StringVarP(&opts.Write, "write", "w", "", "Output path for the corrected CSV (default: overwrite input)")
	_ = cmd.MarkFlagRequired("column")
	_ = cmd.MarkFlagRequired("find")

	return cmd
}

func runFix(cmd *cobra.Command, dataPath string, opts *FixOptions) error {
	cc, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}

	sess, err := loadSession(cc, dataPath)
	if err != nil {
		return err
	}

	summary, changed := sess.Fix(opts.Column, opts.Find, opts.Replace)
	fmt.Fprintf(cmd.OutOrStdout(), "%d cell(s) changed in column %q\n", changed, opts.Column)

	if changed > 0 {
		out := opts.Write
		if out == "" {
			out = dataPath
		}
		if err := os.WriteFile(out, []byte(sess.Serialize()), 0o644); err != nil {
			return fmt.Errorf("failed to write corrected CSV: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", out)
	}

	return renderSummary(cmd.OutOrStdout(), sess.Headers(), summary, cc.Cfg.OutputFormat)
}
