package retrieve

import (
	"context"

	"github.com/mvp-joe/contextvault/internal/index"
)

// vectorBudget returns the over-fetch budget from spec.md §4.4.1 step
// 2: 15 base, 30 with a kind filter, doubled again if the predicate
// needs post-hoc user/team filtering vault_vec cannot express itself.
func vectorBudget(opts SearchOptions) int {
	budget := 15
	if opts.Kind != "" {
		budget = 30
	}
	if requiresPostHocFiltering(opts) {
		budget *= 2
	}
	return budget
}

// vectorStage runs spec.md §4.4.1 step 2: skip entirely on an empty
// vault_vec (fresh vault, §4.4.2), otherwise KNN-search the query
// embedding, batch-hydrate the hits, and apply the same predicate
// filters used by the FTS stage.
func vectorStage(ctx context.Context, store *index.Store, queryEmbedding []float32, opts SearchOptions) (map[int64]*candidate, error) {
	count, err := index.VectorCount(store.DB())
	if err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, nil
	}

	hits, err := index.QueryKNN(store.DB(), queryEmbedding, vectorBudget(opts))
	if err != nil {
		return nil, err
	}
	if len(hits) == 0 {
		return nil, nil
	}

	rowIDs := make([]int64, len(hits))
	simByRowID := make(map[int64]float64, len(hits))
	rankByRowID := make(map[int64]int, len(hits))
	for i, h := range hits {
		rowIDs[i] = h.RowID
		simByRowID[h.RowID] = index.SimilarityFromL2(h.Distance)
		rankByRowID[h.RowID] = i
	}

	where, args := predicate(opts)
	rows, err := store.GetByRowIDs(ctx, rowIDs, where, args)
	if err != nil {
		return nil, err
	}

	out := make(map[int64]*candidate, len(rows))
	for rowID, row := range rows {
		rank := rankByRowID[rowID]
		out[rowID] = &candidate{Row: row, VecRank: &rank, VecSim: simByRowID[rowID], HasVecSim: true}
	}
	return out, nil
}
