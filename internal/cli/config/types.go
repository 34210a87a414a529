// Package config loads CLI configuration from defaults, rowsift.yaml,
// ROWSIFT_* environment variables, and command-line flags, in that
// priority order (later wins).
package config

import "context"

// Config holds all CLI configuration options.
type Config struct {
	// Rules is the path to the JSON rule specification.
	Rules string `koanf:"rules"`
	// StatePath is the path to the run-history SQLite database.
	// Empty disables history recording.
	StatePath string `koanf:"state_path"`
	// Workers bounds the parallel fanout of validation passes.
	Workers int `koanf:"workers"`
	// OutputFormat selects summary rendering: table, json, yaml.
	OutputFormat string `koanf:"output"`
	// Verbose enables debug logging to stderr.
	Verbose bool `koanf:"verbose"`
}

// Default configuration values.
const (
	DefaultOutput = "table"
)

// configKey stores the loaded config in a command context.
type configKey struct{}

// NewContext returns ctx carrying cfg.
func NewContext(ctx context.Context, cfg *Config) context.Context {
	return context.WithValue(ctx, configKey{}, cfg)
}

// FromContext returns the config carried by ctx, or nil.
func FromContext(ctx context.Context) *Config {
	cfg, _ := ctx.Value(configKey{}).(*Config)
	return cfg
}
