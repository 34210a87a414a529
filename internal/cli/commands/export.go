package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// ExportOptions holds options for the export command.
type ExportOptions struct {
	ValidPath   string
	InvalidPath string
}

// NewExportCommand creates the export command.
func NewExportCommand() *cobra.Command {
	opts := &ExportOptions{}
	cmd := &cobra.Command{
		Use:   "export <data.csv>",
		Short: "Split a CSV file into valid and invalid exports",
		Long: `Re-evaluate every record and write two CSV files: one with the records
that pass all rules, and one with the failing records annotated with an
Error_Reason column listing each violated (column, error) pair.`,
		Example: `  rowsift export data.csv --rules rules.json

  rowsift export data.csv --valid clean.csv --invalid rejects.csv`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(cmd, args[0], opts)
		},
	}

	cmd.Flags().StringVar(&opts.ValidPath, "valid", "valid.csv", "Output path for valid records")
	cmd.Flags().StringVar(&opts.InvalidPath, "invalid", "invalid.csv", "Output path for invalid records")
	return cmd
}

func runExport(cmd *cobra.Command, dataPath string, opts *ExportOptions) error {
	cc, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}

	sess, err := loadSession(cc, dataPath)
	if err != nil {
		return err
	}

	valid, invalid := sess.Export()
	if err := os.WriteFile(opts.ValidPath, []byte(valid), 0o644); err != nil {
		return fmt.Errorf("failed to write valid export: %w", err)
	}
	if err := os.WriteFile(opts.InvalidPath, []byte(invalid), 0o644); err != nil {
		return fmt.Errorf("failed to write invalid export: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Exported %d record(s): %s, %s\n",
		sess.Rows(), opts.ValidPath, opts.InvalidPath)
	return nil
}
