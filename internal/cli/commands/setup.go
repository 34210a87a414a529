// Package commands implements the rowsift subcommands.
package commands

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/rowsift-labs/rowsift/internal/cli/config"
	"github.com/rowsift-labs/rowsift/internal/engine"
)

// CommandContext bundles what every command needs after config loading.
type CommandContext struct {
	Cfg    *config.Config
	Logger *slog.Logger
}

// NewCommandContext extracts the loaded config from the command's context
// and builds the logger.
func NewCommandContext(cmd *cobra.Command) (*CommandContext, error) {
	cfg := config.FromContext(cmd.Context())
	if cfg == nil {
		return nil, errors.New("configuration not loaded")
	}

	logger := slog.New(slog.DiscardHandler)
	if cfg.Verbose {
		logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{
			Level: slog.LevelDebug,
		}))
	}
	return &CommandContext{Cfg: cfg, Logger: logger}, nil
}

// loadSession reads the data and rules files and builds an engine session.
// File I/O happens here, outside the engine boundary.
func loadSession(cc *CommandContext, dataPath string) (*engine.Session, error) {
	if cc.Cfg.Rules == "" {
		return nil, errors.New("no rule specification configured (use --rules or set rules in rowsift.yaml)")
	}

	rulesJSON, err := os.ReadFile(cc.Cfg.Rules)
	if err != nil {
		return nil, fmt.Errorf("failed to read rules file: %w", err)
	}
	csvData, err := os.ReadFile(dataPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read data file: %w", err)
	}

	return engine.New(string(csvData), rulesJSON, engine.Config{
		Logger:  cc.Logger,
		Workers: cc.Cfg.Workers,
	})
}
