package cli

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRunStatus_RunsAgainstFreshVault(t *testing.T) {
	withTestOverrides(t)
	require.NoError(t, runInit(initCmd, nil))
	require.NoError(t, runStatus(statusCmd, nil))
}
