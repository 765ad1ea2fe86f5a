package retrieve

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/mvp-joe/contextvault/internal/capture"
	"github.com/mvp-joe/contextvault/internal/embed"
	"github.com/mvp-joe/contextvault/internal/index"
)

// openTestService opens a fresh database, schema included, wraps it in
// an index.Store backed by a deterministic mock embedder, and returns a
// ready-to-use retrieve.Service alongside the store for direct setup.
func openTestService(t *testing.T) (*Service, *index.Store) {
	t.Helper()
	dir := t.TempDir()
	db, err := index.Open(dir + "/test.db")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	provider := embed.NewMockProvider(index.EmbeddingDimensions)
	store := index.NewStore(db, provider)
	svc, err := NewService(store, provider)
	require.NoError(t, err)
	return svc, store
}

func testEntry(id, kind, category, title, body string) *capture.Entry {
	now := time.Now().UTC()
	return &capture.Entry{
		ID:        id,
		Kind:      kind,
		Category:  category,
		Title:     title,
		Body:      body,
		Source:    "test",
		FilePath:  "/vault/" + category + "/" + kind + "/" + id + ".md",
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func mustIndex(t *testing.T, s *index.Store, e *capture.Entry) {
	t.Helper()
	require.NoError(t, s.IndexEntry(context.Background(), e))
}
