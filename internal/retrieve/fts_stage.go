package retrieve

import (
	"context"

	"github.com/mvp-joe/contextvault/internal/index"
)

const ftsStageLimit = 15

// ftsStage runs spec.md §4.4.1 step 1: tokenize, compose the tiered
// MATCH expression, execute it against vault_fts joined with vault, and
// hydrate the matching rows. An empty token list (e.g. a query made
// entirely of metacharacters) yields no candidates, letting the caller
// fall back to a pure-vector search per §4.4.2.
func ftsStage(ctx context.Context, store *index.Store, query string, opts SearchOptions) (map[int64]*candidate, error) {
	tokens := tokenize(query)
	if len(tokens) == 0 {
		return nil, nil
	}

	matchExpr := index.FTSQueryArgs(tokens)
	where, args := predicate(opts)

	hits, err := index.SearchFTS(store.DB(), matchExpr, where, args, ftsStageLimit)
	if err != nil {
		return nil, err
	}
	if len(hits) == 0 {
		return nil, nil
	}

	rowIDs := make([]int64, len(hits))
	rankByRowID := make(map[int64]int, len(hits))
	for i, h := range hits {
		rowIDs[i] = h.RowID
		rankByRowID[h.RowID] = h.Rank
	}

	rows, err := store.GetByRowIDs(ctx, rowIDs, "", nil)
	if err != nil {
		return nil, err
	}

	out := make(map[int64]*candidate, len(rows))
	for rowID, row := range rows {
		rank := rankByRowID[rowID]
		out[rowID] = &candidate{Row: row, FTSRank: &rank}
	}
	return out, nil
}
