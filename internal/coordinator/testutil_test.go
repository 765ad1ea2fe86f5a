package coordinator

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mvp-joe/contextvault/internal/config"
	"github.com/mvp-joe/contextvault/internal/embed"
	"github.com/mvp-joe/contextvault/internal/index"
	"github.com/mvp-joe/contextvault/internal/retrieve"
)

// openTestCoordinator wires a fresh vault directory, database, and
// retrieve service into a Coordinator in local mode, mirroring
// retrieve's openTestService but one layer up.
func openTestCoordinator(t *testing.T) *Coordinator {
	t.Helper()
	vaultRoot := t.TempDir()

	db, err := index.Open(vaultRoot + "/test.db")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	provider := embed.NewMockProvider(index.EmbeddingDimensions)
	store := index.NewStore(db, provider)

	svc, err := retrieve.NewService(store, provider)
	require.NoError(t, err)

	return New(vaultRoot, config.ModeLocal, store, svc)
}
