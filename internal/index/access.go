package index

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// BumpAccess increments hit_count once per occurrence of each id in ids
// and sets last_accessed_at = now, all in a single UPDATE. Best-effort:
// retrieve's access-tracking step treats a failure here as swallowed,
// not fatal (spec.md §4.4.1 step 10).
func (s *Store) BumpAccess(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}

	counts := make(map[string]int, len(ids))
	var unique []string
	for _, id := range ids {
		if counts[id] == 0 {
			unique = append(unique, id)
		}
		counts[id]++
	}

	cases := make([]string, len(unique))
	placeholders := make([]string, len(unique))
	args := make([]interface{}, 0, 3*len(unique)+1)
	for i, id := range unique {
		cases[i] = "WHEN ? THEN ?"
		args = append(args, id, counts[id])
	}
	now := time.Now().UTC().Format(time.RFC3339)
	args = append(args, now)
	for i, id := range unique {
		placeholders[i] = "?"
		args = append(args, id)
	}

	query := fmt.Sprintf(`
		UPDATE vault SET hit_count = hit_count + CASE id %s END, last_accessed_at = ?
		WHERE id IN (%s)
	`, strings.Join(cases, " "), strings.Join(placeholders, ","))

	_, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("bump access for %d ids: %w", len(ids), err)
	}
	return nil
}
