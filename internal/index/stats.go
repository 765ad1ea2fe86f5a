package index

import (
	"context"
	"fmt"
	"os"
	"time"
)

// Stats is the raw material for context_status (spec.md §6.2): counts
// per kind and category, staleness, expiry, and embedding coverage.
// Growth warnings are layered on top by the coordinator. The database
// file's size is not measured here or by the coordinator, so
// context_status does not report it.
type Stats struct {
	TotalEntries     int
	ByKind           map[string]int
	ByCategory       map[string]int
	StalePaths       int
	ExpiredCount     int
	EmbeddingIndexed int
	EmbeddingTotal   int
	EventsWithoutTTL int
	VaultSizeBytes   int64
}

// Stats gathers the vault's current counts in a handful of aggregate
// queries plus one stat(2) per row to detect files that vanished from
// disk without a reindex noticing yet.
func (s *Store) Stats(ctx context.Context) (*Stats, error) {
	stats := &Stats{ByKind: map[string]int{}, ByCategory: map[string]int{}}

	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM vault`).Scan(&stats.TotalEntries); err != nil {
		return nil, fmt.Errorf("count vault rows: %w", err)
	}
	stats.EmbeddingTotal = stats.TotalEntries

	kindRows, err := s.db.QueryContext(ctx, `SELECT kind, COUNT(*) FROM vault GROUP BY kind`)
	if err != nil {
		return nil, fmt.Errorf("count by kind: %w", err)
	}
	for kindRows.Next() {
		var kind string
		var n int
		if err := kindRows.Scan(&kind, &n); err != nil {
			kindRows.Close()
			return nil, fmt.Errorf("scan kind count: %w", err)
		}
		stats.ByKind[kind] = n
	}
	kindRows.Close()
	if err := kindRows.Err(); err != nil {
		return nil, err
	}

	catRows, err := s.db.QueryContext(ctx, `SELECT category, COUNT(*) FROM vault GROUP BY category`)
	if err != nil {
		return nil, fmt.Errorf("count by category: %w", err)
	}
	for catRows.Next() {
		var category string
		var n int
		if err := catRows.Scan(&category, &n); err != nil {
			catRows.Close()
			return nil, fmt.Errorf("scan category count: %w", err)
		}
		stats.ByCategory[category] = n
	}
	catRows.Close()
	if err := catRows.Err(); err != nil {
		return nil, err
	}

	now := time.Now().UTC().Format(time.RFC3339)
	if err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM vault WHERE expires_at IS NOT NULL AND expires_at <= ?`, now,
	).Scan(&stats.ExpiredCount); err != nil {
		return nil, fmt.Errorf("count expired rows: %w", err)
	}

	if err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM vault WHERE category = 'event' AND expires_at IS NULL`,
	).Scan(&stats.EventsWithoutTTL); err != nil {
		return nil, fmt.Errorf("count events without ttl: %w", err)
	}

	vecCount, err := VectorCount(s.db)
	if err != nil {
		return nil, fmt.Errorf("count vectors: %w", err)
	}
	stats.EmbeddingIndexed = vecCount

	pathRows, err := s.db.QueryContext(ctx, `SELECT file_path FROM vault`)
	if err != nil {
		return nil, fmt.Errorf("list file paths: %w", err)
	}
	defer pathRows.Close()
	for pathRows.Next() {
		var path string
		if err := pathRows.Scan(&path); err != nil {
			return nil, fmt.Errorf("scan file path: %w", err)
		}
		info, err := os.Stat(path)
		if err != nil {
			stats.StalePaths++
			continue
		}
		stats.VaultSizeBytes += info.Size()
	}
	return stats, pathRows.Err()
}
