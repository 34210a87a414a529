package commands

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewCheckCommand(t *testing.T) {
	cmd := NewCheckCommand()

	assert.Equal(t, "check <data.csv>", cmd.Use)
	assert.NotEmpty(t, cmd.Short)
	assert.NotEmpty(t, cmd.Example)
	assert.NotNil(t, cmd.Flags().Lookup("save"))
}

func TestNewFixCommand(t *testing.T) {
	cmd := NewFixCommand()

	assert.Equal(t, "fix <data.csv>", cmd.Use)
	for _, flag := range []string{"column", "find", "replace", "write"} {
		assert.NotNil(t, cmd.Flags().Lookup(flag), "flag %q should exist", flag)
	}
}

func TestNewExportCommand(t *testing.T) {
	cmd := NewExportCommand()

	assert.Equal(t, "export <data.csv>", cmd.Use)
	assert.NotNil(t, cmd.Flags().Lookup("valid"))
	assert.NotNil(t, cmd.Flags().Lookup("invalid"))
}

func TestNewHistoryCommand(t *testing.T) {
	cmd := NewHistoryCommand()

	assert.Equal(t, "history [run-id]", cmd.Use)
	assert.NotNil(t, cmd.Flags().Lookup("limit"))
}
