package cli

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRunReindex_DryRunSkipsDatabase(t *testing.T) {
	withTestOverrides(t)
	require.NoError(t, runInit(initCmd, nil))

	reindexDryRun = true
	defer func() { reindexDryRun = false }()

	require.NoError(t, runReindex(reindexCmd, nil))
}

func TestRunReindex_RunsAgainstFreshVault(t *testing.T) {
	withTestOverrides(t)
	require.NoError(t, runInit(initCmd, nil))

	reindexQuiet = true
	defer func() { reindexQuiet = false }()

	require.NoError(t, runReindex(reindexCmd, nil))
}
