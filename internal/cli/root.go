// Package cli provides the command-line interface for rowsift.
package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rowsift-labs/rowsift/internal/cli/commands"
	"github.com/rowsift-labs/rowsift/internal/cli/config"
)

var cfgFile string

// Version information (set at build time).
var (
	Version   = "0.1.0"
	BuildDate = "unknown"
	GitCommit = "unknown"
)

// NewRootCmd creates and returns the root command.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "rowsift",
		Short: "rowsift - CSV validation engine",
		Long: `rowsift validates delimited tabular data against a declarative rule set.

It reports a per-column breakdown of violations, applies bulk exact-match
corrections with incremental summary updates, and splits the data into
valid and invalid exports.`,
		Version: Version,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Name() == "help" || cmd.Name() == "completion" || cmd.Name() == "__complete" {
				return nil
			}

			cfg, err := config.Load(cfgFile, cmd.Root().PersistentFlags())
			if err != nil {
				return err
			}
			cmd.SetContext(config.NewContext(cmd.Context(), cfg))

			if cfg.Verbose {
				if configFile := config.GetConfigFileUsed(); configFile != "" {
					fmt.Fprintf(os.Stderr, "Using config file: %s\n", configFile)
				}
			}
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.SetVersionTemplate(`{{.Name}} {{.Version}}
`)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./rowsift.yaml)")
	rootCmd.PersistentFlags().StringP("rules", "r", "", "Path to the JSON rule specification")
	rootCmd.PersistentFlags().String("state", "", "Path to the run-history database")
	rootCmd.PersistentFlags().Int("workers", 0, "Worker count for validation passes (0 = all CPUs)")
	rootCmd.PersistentFlags().StringP("format", "f", "", "Output format: table, json, yaml")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Verbose output")

	rootCmd.AddCommand(
		commands.NewCheckCommand(),
		commands.NewFixCommand(),
		commands.NewExportCommand(),
		commands.NewHistoryCommand(),
	)

	return rootCmd
}

// Execute runs the root command.
func Execute() error {
	return NewRootCmd().ExecuteContext(context.Background())
}
