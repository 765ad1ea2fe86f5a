package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRootCmd_RegistersEverySubcommand(t *testing.T) {
	names := map[string]bool{}
	for _, cmd := range rootCmd.Commands() {
		names[cmd.Name()] = true
	}
	for _, want := range []string{"mcp", "reindex", "status", "prune", "init", "version"} {
		assert.True(t, names[want], "expected %s to be registered", want)
	}
}

func TestLoadConfig_AppliesDataDirOverride(t *testing.T) {
	dataDir := t.TempDir()
	prev := overrides
	defer func() { overrides = prev }()

	overrides.DataDir = dataDir

	cfg, err := loadConfig()
	assert.NoError(t, err)
	assert.Equal(t, dataDir, cfg.DataDir)
}
