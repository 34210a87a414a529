package config

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("", nil)
	require.NoError(t, err)

	assert.Empty(t, cfg.Rules)
	assert.Empty(t, cfg.StatePath)
	assert.Equal(t, runtime.NumCPU(), cfg.Workers)
	assert.Equal(t, DefaultOutput, cfg.OutputFormat)
	assert.False(t, cfg.Verbose)
}

func TestLoad_ConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "rowsift.yaml")
	require.NoError(t, os.WriteFile(path, []byte(
		"rules: rules.json\nstate_path: history.db\nworkers: 2\noutput: json\n"), 0o644))

	cfg, err := Load(path, nil)
	require.NoError(t, err)
	assert.Equal(t, "rules.json", cfg.Rules)
	assert.Equal(t, "history.db", cfg.StatePath)
	assert.Equal(t, 2, cfg.Workers)
	assert.Equal(t, "json", cfg.OutputFormat)
	assert.Equal(t, path, GetConfigFileUsed())
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "rowsift.yaml")
	require.NoError(t, os.WriteFile(path, []byte("output: json\n"), 0o644))

	t.Setenv("ROWSIFT_OUTPUT", "yaml")
	t.Setenv("ROWSIFT_RULES", "env-rules.json")

	cfg, err := Load(path, nil)
	require.NoError(t, err)
	assert.Equal(t, "yaml", cfg.OutputFormat)
	assert.Equal(t, "env-rules.json", cfg.Rules)
}

func TestLoad_FlagsOverrideEverything(t *testing.T) {
	t.Setenv("ROWSIFT_OUTPUT", "yaml")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("rules", "", "")
	flags.String("state", "", "")
	flags.String("format", "", "")
	flags.Int("workers", 0, "")
	require.NoError(t, flags.Parse([]string{
		"--rules", "flag-rules.json",
		"--state", "flag.db",
		"--format", "json",
		"--workers", "3",
	}))

	cfg, err := Load("", flags)
	require.NoError(t, err)
	assert.Equal(t, "flag-rules.json", cfg.Rules)
	assert.Equal(t, "flag.db", cfg.StatePath, "--state maps to state_path")
	assert.Equal(t, "json", cfg.OutputFormat, "--format maps to output")
	assert.Equal(t, 3, cfg.Workers)
}

func TestLoad_UnsetFlagsDoNotOverride(t *testing.T) {
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("format", "", "")
	require.NoError(t, flags.Parse(nil))

	cfg, err := Load("", flags)
	require.NoError(t, err)
	assert.Equal(t, DefaultOutput, cfg.OutputFormat)
}
