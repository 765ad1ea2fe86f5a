package retrieve

import (
	"fmt"

	"github.com/maypok86/otter"
	"github.com/mvp-joe/contextvault/internal/embed"
	"github.com/mvp-joe/contextvault/internal/index"
)

// rowCacheCapacity bounds the direct-lookup cache used by get_by_id and
// get_by_identity_key. One entry per cached row, so cost is the row
// count rather than a byte weight.
const rowCacheCapacity = 512

// Service is the entry point for every retrieve-side MCP tool: hybrid
// search, listing, and direct lookups. It owns the direct-lookup cache
// so repeated get_by_id/get_by_identity_key calls for hot entries (e.g.
// an agent re-reading the same note) skip the database.
type Service struct {
	store    *index.Store
	provider embed.Provider
	rowCache otter.Cache[string, *index.Row]
}

// NewService builds a Service around an already-migrated store and its
// embedding provider.
func NewService(store *index.Store, provider embed.Provider) (*Service, error) {
	cache, err := otter.MustBuilder[string, *index.Row](rowCacheCapacity).
		CollectStats().
		Build()
	if err != nil {
		return nil, fmt.Errorf("build retrieve row cache: %w", err)
	}

	return &Service{
		store:    store,
		provider: provider,
		rowCache: cache,
	}, nil
}
