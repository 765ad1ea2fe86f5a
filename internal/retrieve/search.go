package retrieve

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/mvp-joe/contextvault/internal/embed"
	"github.com/mvp-joe/contextvault/internal/index"
)

// SearchHit pairs a row with the fused score the pipeline computed for
// it, for callers (get_context) that surface score to the caller.
type SearchHit struct {
	Row   *index.Row
	Score float64
}

// Search runs the full hybrid_search pipeline and returns the matching
// rows in ranked order, discarding score. Most callers want SearchScored
// instead; this exists for callers (and tests) that only need the rows.
func (s *Service) Search(ctx context.Context, opts SearchOptions) ([]*index.Row, error) {
	hits, err := s.SearchScored(ctx, opts)
	if err != nil {
		return nil, err
	}
	rows := make([]*index.Row, len(hits))
	for i, h := range hits {
		rows[i] = h.Row
	}
	return rows, nil
}

// SearchScored runs the full hybrid_search pipeline from spec.md
// §4.4.1: FTS recall, vector recall, RRF fusion, recency and frequency
// boosts, MMR diversification, near-duplicate suppression, paging, and
// best-effort access tracking.
func (s *Service) SearchScored(ctx context.Context, opts SearchOptions) ([]SearchHit, error) {
	opts = opts.withDefaults()
	if opts.Since != nil && opts.Until != nil && opts.Since.After(*opts.Until) {
		return nil, nil // spec.md §4.4.2: since > until returns []
	}

	ftsHits, err := ftsStage(ctx, s.store, opts.Query, opts)
	if err != nil {
		return nil, fmt.Errorf("fts stage: %w", err)
	}

	vecHits, err := s.runVectorStage(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("vector stage: %w", err)
	}

	merged := mergeCandidates(ftsHits, vecHits)
	if len(merged) == 0 {
		return []SearchHit{}, nil
	}

	maxHit := 0
	for _, c := range merged {
		if c.Row.HitCount > maxHit {
			maxHit = c.Row.HitCount
		}
	}

	ranked := make([]*candidate, 0, len(merged))
	for _, c := range merged {
		c.Score *= recencyFactor(c.Row.Category, parseRowTime(c.Row.CreatedAt), opts.DecayDays)
		c.Score += frequencyBoost(c.Row.HitCount, maxHit)
		ranked = append(ranked, c)
	}
	sort.Slice(ranked, func(i, j int) bool { return ranked[i].Score > ranked[j].Score })

	byRowID := make(map[int64]*candidate, len(ranked))
	for _, c := range ranked {
		byRowID[c.Row.RowID] = c
	}

	mmrOrder := selectMMR(s.store.DB(), ranked, opts.Offset+opts.Limit)
	ordered := make([]*candidate, 0, len(mmrOrder))
	for _, rowID := range mmrOrder {
		ordered = append(ordered, byRowID[rowID])
	}

	deduped := suppressNearDuplicates(s.store.DB(), ordered, len(merged), opts.Limit)

	start := opts.Offset
	if start > len(deduped) {
		start = len(deduped)
	}
	end := start + opts.Limit
	if end > len(deduped) {
		end = len(deduped)
	}
	page := deduped[start:end]

	hits := make([]SearchHit, len(page))
	ids := make([]string, len(page))
	for i, c := range page {
		hits[i] = SearchHit{Row: c.Row, Score: c.Score}
		ids[i] = c.Row.ID
	}

	_ = s.store.BumpAccess(ctx, ids) // best-effort; failures are swallowed (spec.md §4.4.1 step 10)

	return hits, nil
}

// runVectorStage embeds the query and runs the vector stage. A blank
// query is embedded too, so a search with no FTS tokens reduces to a
// pure vector search (spec.md §4.4.2).
func (s *Service) runVectorStage(ctx context.Context, opts SearchOptions) (map[int64]*candidate, error) {
	vecs, err := s.provider.Embed(ctx, []string{opts.Query}, embed.ModeQuery)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}
	if len(vecs) == 0 {
		return nil, nil
	}
	return vectorStage(ctx, s.store, vecs[0], opts)
}

func parseRowTime(value string) time.Time {
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Now().UTC()
	}
	return t
}
