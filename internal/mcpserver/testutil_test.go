package mcpserver

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mvp-joe/contextvault/internal/capture"
	"github.com/mvp-joe/contextvault/internal/config"
	"github.com/mvp-joe/contextvault/internal/coordinator"
	"github.com/mvp-joe/contextvault/internal/embed"
	"github.com/mvp-joe/contextvault/internal/index"
	"github.com/mvp-joe/contextvault/internal/retrieve"
	"github.com/mvp-joe/contextvault/internal/vaultstate"
)

// openTestCoordinator wires a fresh vault directory, database, and
// retrieve service into a Coordinator in local mode, the same shape the
// coordinator package's own tests use.
func openTestCoordinator(t *testing.T) *coordinator.Coordinator {
	t.Helper()
	vaultRoot := t.TempDir()

	db, err := index.Open(vaultRoot + "/test.db")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	provider := embed.NewMockProvider(index.EmbeddingDimensions)
	store := index.NewStore(db, provider)

	svc, err := retrieve.NewService(store, provider)
	require.NoError(t, err)

	return coordinator.New(vaultRoot, config.ModeLocal, store, svc)
}

type fakeFetcher struct {
	title, body string
	err         error
}

func (f fakeFetcher) Fetch(_ context.Context, _ string) (string, string, error) {
	return f.title, f.body, f.err
}

func captureInput(kind, body string) capture.WriteEntryInput {
	return capture.WriteEntryInput{Kind: kind, Body: body}
}

func defaultTestThresholds() vaultstate.Thresholds {
	return vaultstate.DefaultThresholds()
}
