package index

import (
	"context"
	"fmt"
	"time"
)

// PruneResult tallies what Prune removed.
type PruneResult struct {
	Removed   int
	FilePaths []string
}

// Prune deletes every row whose expires_at has passed, cascading to its
// FTS shadow (via trigger) and its vector, and returns the removed
// rows' file paths so the caller can delete them from disk too (spec.md
// §4.3.6, SPEC_FULL.md's `prune` CLI command).
func (s *Store) Prune(ctx context.Context) (*PruneResult, error) {
	now := time.Now().UTC().Format(time.RFC3339)

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("begin prune transaction: %w", err)
	}
	defer tx.Rollback()

	rows, err := tx.Query(`
		SELECT rowid, file_path FROM vault
		WHERE expires_at IS NOT NULL AND expires_at <= ?
	`, now)
	if err != nil {
		return nil, fmt.Errorf("scan expired rows: %w", err)
	}
	type expired struct {
		rowID int64
		path  string
	}
	var victims []expired
	for rows.Next() {
		var e expired
		if err := rows.Scan(&e.rowID, &e.path); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan expired row: %w", err)
		}
		victims = append(victims, e)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	result := &PruneResult{}
	for _, v := range victims {
		if err := DeleteVector(tx, v.rowID); err != nil {
			return nil, err
		}
		if _, err := tx.Exec(`DELETE FROM vault WHERE rowid = ?`, v.rowID); err != nil {
			return nil, fmt.Errorf("delete expired row %d: %w", v.rowID, err)
		}
		result.Removed++
		result.FilePaths = append(result.FilePaths, v.path)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit prune transaction: %w", err)
	}
	return result, nil
}
