package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMCPCmd_RegisteredUnderRoot(t *testing.T) {
	found := false
	for _, cmd := range rootCmd.Commands() {
		if cmd.Name() == "mcp" {
			found = true
			assert.NotNil(t, cmd.RunE)
		}
	}
	assert.True(t, found, "expected mcp subcommand to be registered")
}

func TestPersistentFlags_BindOverrides(t *testing.T) {
	assert.NotNil(t, rootCmd.PersistentFlags().Lookup("vault-dir"))
	assert.NotNil(t, rootCmd.PersistentFlags().Lookup("db-path"))
	assert.NotNil(t, rootCmd.PersistentFlags().Lookup("data-dir"))
	assert.NotNil(t, rootCmd.PersistentFlags().Lookup("mode"))
}
