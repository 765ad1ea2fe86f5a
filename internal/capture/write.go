package capture

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/mvp-joe/contextvault/internal/coreutil"
	"github.com/mvp-joe/contextvault/internal/vaultstate"
)

// WriteEntry validates in, computes the entry's canonical file path, and
// writes the markdown-with-frontmatter file atomically (spec.md §4.2).
// It does not touch the search index; callers needing the write-through
// behavior use CaptureAndIndex.
func WriteEntry(ctx context.Context, vaultRoot string, in WriteEntryInput) (*Entry, error) {
	now := time.Now().UTC()
	return writeEntryAs(ctx, vaultRoot, in, coreutil.NewIDAt(now), now)
}

// writeEntryAs is WriteEntry with an explicit id and created_at, so an
// identity-key upsert can reuse the original row's identity instead of
// minting a new one (spec.md §4.3.5: "update in place").
func writeEntryAs(ctx context.Context, vaultRoot string, in WriteEntryInput, id string, createdAt time.Time) (*Entry, error) {
	if err := Validate(&in); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	category := coreutil.CategoryForKind(in.Kind)

	source := in.Source
	if source == "" {
		source = DefaultSource
	}

	slugSeed := in.Title
	if slugSeed == "" {
		slugSeed = in.Body
	}
	slug := coreutil.Slug(slugSeed, coreutil.DefaultSlugMaxLen)
	if slug == "" {
		slug = "entry"
	}

	path, err := vaultstate.EntryPath(vaultRoot, in.Kind, in.Folder, slug, id)
	if err != nil {
		return nil, err
	}

	e := &Entry{
		ID:          id,
		Kind:        in.Kind,
		Category:    string(category),
		Title:       in.Title,
		Body:        in.Body,
		Tags:        DedupTags(in.Tags),
		Meta:        in.Meta,
		Source:      source,
		FilePath:    path,
		IdentityKey: in.IdentityKey,
		ExpiresAt:   in.ExpiresAt,
		CreatedAt:   createdAt,
		UpdatedAt:   now,
		UserID:      in.UserID,
		TeamID:      in.TeamID,
	}

	rendered := renderBody(category, e.Title, e.Body)
	fm, err := coreutil.EncodeFrontmatter(buildFrontmatter(e), rendered)
	if err != nil {
		return nil, coreutil.WrapError(coreutil.CodeIndexFailed, "encode frontmatter", err)
	}

	if err := atomicWriteFile(path, []byte(fm)); err != nil {
		return nil, coreutil.WrapError(coreutil.CodeUnknown, "write entry file", err)
	}
	return e, nil
}

// atomicWriteFile writes data to a temp file in path's directory then
// renames it into place, so a crash mid-write never leaves a partially
// written entry visible to reindex.
func atomicWriteFile(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create entry directory %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, ".entry-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("rename into place: %w", err)
	}
	return nil
}

// RemoveEntryFile deletes an entry's file from disk; used both by
// explicit delete and by write-through rollback on index failure.
func RemoveEntryFile(path string) error {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove entry file: %w", err)
	}
	return nil
}
