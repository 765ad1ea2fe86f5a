package retrieve

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/mvp-joe/contextvault/internal/index"
)

// tagOverfetchFactor is spec.md §4.4.3's scaling note: since tags are
// stored as a JSON array rather than a normalized join table, a tag
// filter over-fetches this many times the requested page and filters
// in memory. Fine at vault scale; would need a tags table at larger
// scale.
const tagOverfetchFactor = 10

// ListOptions constrains and pages a list_context call: a plain
// reverse-chronological scan, no ranking.
type ListOptions struct {
	Kind     string
	Category string
	Tags     []string
	Since    *time.Time
	Until    *time.Time
	UserID   string
	TeamID   string
	Limit    int
	Offset   int
}

func (o ListOptions) withDefaults() ListOptions {
	if o.Limit <= 0 {
		o.Limit = DefaultLimit
	}
	return o
}

// List implements list_context (spec.md §4.4.3): filter by kind,
// category, tags, and a time range, newest first. Expired and
// superseded entries are excluded, matching Search's default.
func (s *Service) List(ctx context.Context, opts ListOptions) ([]*index.Row, error) {
	opts = opts.withDefaults()

	and := squirrel.And{
		squirrel.Eq{"superseded_by": nil},
		squirrel.Or{
			squirrel.Eq{"expires_at": nil},
			squirrel.Gt{"expires_at": time.Now().UTC().Format(time.RFC3339)},
		},
	}
	if opts.Kind != "" {
		and = append(and, squirrel.Eq{"kind": opts.Kind})
	}
	if opts.Category != "" {
		and = append(and, squirrel.Eq{"category": opts.Category})
	}
	if opts.UserID != "" {
		and = append(and, squirrel.Or{squirrel.Eq{"user_id": nil}, squirrel.Eq{"user_id": opts.UserID}})
	}
	if opts.TeamID != "" {
		and = append(and, squirrel.Or{squirrel.Eq{"team_id": nil}, squirrel.Eq{"team_id": opts.TeamID}})
	}
	if opts.Since != nil {
		and = append(and, squirrel.GtOrEq{"created_at": opts.Since.UTC().Format(time.RFC3339)})
	}
	if opts.Until != nil {
		and = append(and, squirrel.LtOrEq{"created_at": opts.Until.UTC().Format(time.RFC3339)})
	}

	fetchLimit := uint64(opts.Limit + opts.Offset)
	if len(opts.Tags) > 0 {
		fetchLimit *= tagOverfetchFactor
	}

	query, args, err := squirrel.Select(
		"rowid", "id", "kind", "category", "title", "body", "tags", "meta", "source", "file_path",
		"identity_key", "expires_at", "superseded_by", "created_at", "updated_at", "hit_count",
		"last_accessed_at", "user_id", "team_id",
	).
		From("vault").
		Where(and).
		OrderBy("created_at DESC").
		Limit(fetchLimit).
		PlaceholderFormat(squirrel.Question).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list_context query: %w", err)
	}

	rows, err := s.store.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list_context query: %w", err)
	}
	defer rows.Close()

	var all []*index.Row
	for rows.Next() {
		var r index.Row
		if err := rows.Scan(&r.RowID, &r.ID, &r.Kind, &r.Category, &r.Title, &r.Body, &r.Tags, &r.Meta,
			&r.Source, &r.FilePath, &r.IdentityKey, &r.ExpiresAt, &r.SupersededBy, &r.CreatedAt, &r.UpdatedAt,
			&r.HitCount, &r.LastAccessedAt, &r.UserID, &r.TeamID); err != nil {
			return nil, fmt.Errorf("scan list_context row: %w", err)
		}
		all = append(all, &r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if len(opts.Tags) > 0 {
		all = filterByTags(all, opts.Tags)
	}

	start := opts.Offset
	if start > len(all) {
		start = len(all)
	}
	end := start + opts.Limit
	if end > len(all) {
		end = len(all)
	}
	return all[start:end], nil
}

// filterByTags keeps rows whose tag set contains every requested tag.
func filterByTags(rows []*index.Row, want []string) []*index.Row {
	var out []*index.Row
	for _, r := range rows {
		if !r.Tags.Valid {
			continue
		}
		var tags []string
		if err := json.Unmarshal([]byte(r.Tags.String), &tags); err != nil {
			continue
		}
		set := make(map[string]struct{}, len(tags))
		for _, t := range tags {
			set[t] = struct{}{}
		}
		has := true
		for _, w := range want {
			if _, ok := set[w]; !ok {
				has = false
				break
			}
		}
		if has {
			out = append(out, r)
		}
	}
	return out
}
