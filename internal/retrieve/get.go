package retrieve

import (
	"context"
	"fmt"

	"github.com/mvp-joe/contextvault/internal/index"
)

// GetByID is the direct get_context(id=...) lookup (spec.md §4.4.3),
// cached so repeated lookups of the same hot entry skip the database.
// Expired and superseded entries are still returned here: the
// exclusion in Search is a ranking-stage concern, not a lookup one —
// asking for an entry by id means you already know which one you want.
func (s *Service) GetByID(ctx context.Context, id string) (*index.Row, error) {
	if row, ok := s.rowCache.Get(id); ok {
		return row, nil
	}

	row, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	s.rowCache.Set(id, row)
	s.bumpAccessBestEffort(ctx, row.ID)
	return row, nil
}

// GetByIdentityKey is the direct get_context(identity_key=...) lookup
// (spec.md §4.4.3).
func (s *Service) GetByIdentityKey(ctx context.Context, userID, kind, identityKey string) (*index.Row, error) {
	cacheKey := identityCacheKey(userID, kind, identityKey)
	if row, ok := s.rowCache.Get(cacheKey); ok {
		return row, nil
	}

	row, err := s.store.GetByIdentityKey(ctx, userID, kind, identityKey)
	if err != nil {
		return nil, err
	}

	s.rowCache.Set(cacheKey, row)
	s.bumpAccessBestEffort(ctx, row.ID)
	return row, nil
}

// InvalidateCachedRow drops a row from the direct-lookup cache. The
// coordinator calls this after any write (save/delete/supersede) so a
// stale row never outlives the file it was read from.
func (s *Service) InvalidateCachedRow(id string) {
	s.rowCache.Delete(id)
}

func (s *Service) bumpAccessBestEffort(ctx context.Context, id string) {
	_ = s.store.BumpAccess(ctx, []string{id})
}

func identityCacheKey(userID, kind, identityKey string) string {
	return fmt.Sprintf("identity:%s:%s:%s", userID, kind, identityKey)
}
