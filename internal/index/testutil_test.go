package index

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/mvp-joe/contextvault/internal/capture"
	"github.com/mvp-joe/contextvault/internal/embed"
)

// openTestDB opens a fresh on-disk database in a per-test temporary
// directory with the schema created,
// mirroring the teacher's openSchemaTestDB but routed through Open so
// migration and vector-extension registration are exercised too.
func openTestDB(t *testing.T) *Store {
	t.Helper()
	dir := t.TempDir()
	db, err := Open(dir + "/test.db")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewStore(db, embed.NewMockProvider(EmbeddingDimensions))
}

func testEntry(id, kind, title, body string) *capture.Entry {
	now := time.Now().UTC()
	return &capture.Entry{
		ID:        id,
		Kind:      kind,
		Category:  "knowledge",
		Title:     title,
		Body:      body,
		Source:    "test",
		FilePath:  "/vault/knowledge/" + kind + "/" + id + ".md",
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func mustIndex(t *testing.T, s *Store, e *capture.Entry) {
	t.Helper()
	require.NoError(t, s.IndexEntry(context.Background(), e))
}
