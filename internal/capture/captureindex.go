package capture

import (
	"context"
	"time"

	"github.com/mvp-joe/contextvault/internal/coreutil"
)

// Indexer is the write-through dependency capture needs from the index
// layer. Defined here (consumer side) rather than imported from
// internal/index, so capture never depends on index — only coordinator
// wires a concrete *index.Store into this interface.
type Indexer interface {
	IndexEntry(ctx context.Context, e *Entry) error
}

// IdentityMatch is the prior row an identity-key save upserts into.
type IdentityMatch struct {
	ID        string
	CreatedAt time.Time
	FilePath  string
}

// IdentityIndexer is the dependency needed for identity-key upsert: the
// plain write-through Indexer plus a lookup by (user_id, kind,
// identity_key).
type IdentityIndexer interface {
	Indexer
	FindByIdentityKey(ctx context.Context, userID, kind, identityKey string) (*IdentityMatch, error)
}

// CaptureAndIndex writes the entry file then indexes it; on index
// failure it rolls back by deleting the just-written file and returns
// INDEX_FAILED wrapping the underlying cause (spec.md §4.2).
func CaptureAndIndex(ctx context.Context, vaultRoot string, idx Indexer, in WriteEntryInput) (*Entry, error) {
	e, err := WriteEntry(ctx, vaultRoot, in)
	if err != nil {
		return nil, err
	}

	if err := idx.IndexEntry(ctx, e); err != nil {
		_ = RemoveEntryFile(e.FilePath)
		return nil, coreutil.WrapError(coreutil.CodeIndexFailed, "index entry after write", err)
	}
	return e, nil
}

// SaveWithIdentity is CaptureAndIndex's identity-key-aware counterpart
// (spec.md §4.3.5). When in.IdentityKey is set and a prior row matches
// (user_id, kind, identity_key), the prior row's id and created_at are
// reused so the update lands "in place" (same row, refreshed
// updated_at); its old file is removed only after the new file and
// index entry succeed. With no identity_key, or no prior match, this is
// exactly CaptureAndIndex.
func SaveWithIdentity(ctx context.Context, vaultRoot string, idx IdentityIndexer, in WriteEntryInput) (*Entry, error) {
	if in.IdentityKey == "" {
		return CaptureAndIndex(ctx, vaultRoot, idx, in)
	}

	prior, err := idx.FindByIdentityKey(ctx, in.UserID, in.Kind, in.IdentityKey)
	if err != nil {
		return nil, err
	}
	if prior == nil {
		return CaptureAndIndex(ctx, vaultRoot, idx, in)
	}

	e, err := writeEntryAs(ctx, vaultRoot, in, prior.ID, prior.CreatedAt)
	if err != nil {
		return nil, err
	}

	if err := idx.IndexEntry(ctx, e); err != nil {
		_ = RemoveEntryFile(e.FilePath)
		return nil, coreutil.WrapError(coreutil.CodeIndexFailed, "index entry after write", err)
	}

	if prior.FilePath != "" && prior.FilePath != e.FilePath {
		_ = RemoveEntryFile(prior.FilePath)
	}
	return e, nil
}
