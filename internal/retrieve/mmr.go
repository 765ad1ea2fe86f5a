package retrieve

import (
	"database/sql"
	"math"
	"strings"

	"github.com/mvp-joe/contextvault/internal/index"
)

// mmrLambda is spec.md §4.4.1 step 7's relevance/diversity trade-off.
const mmrLambda = 0.7

// selectMMR orders candidates by Maximal Marginal Relevance and returns
// up to n row IDs: mmr(doc) = λ·rel(doc) - (1-λ)·max_{s∈selected} sim(doc,s).
// rel(doc) is the candidate's vector similarity when known, else its
// fused score. sim(a,b) prefers the engine-computed embedding
// similarity and falls back to word-set Jaccard when either document
// lacks a stored embedding.
func selectMMR(db *sql.DB, candidates []*candidate, n int) []int64 {
	remaining := append([]*candidate(nil), candidates...)
	var selected []*candidate

	for len(selected) < n && len(remaining) > 0 {
		bestIdx := -1
		bestScore := math.Inf(-1)

		for i, c := range remaining {
			maxSim := 0.0
			for _, s := range selected {
				if sim := similarity(db, c, s); sim > maxSim {
					maxSim = sim
				}
			}
			score := mmrLambda*c.relevance() - (1-mmrLambda)*maxSim
			if score > bestScore {
				bestScore = score
				bestIdx = i
			}
		}

		selected = append(selected, remaining[bestIdx])
		remaining = append(remaining[:bestIdx], remaining[bestIdx+1:]...)
	}

	ids := make([]int64, len(selected))
	for i, c := range selected {
		ids[i] = c.Row.RowID
	}
	return ids
}

func similarity(db *sql.DB, a, b *candidate) float64 {
	if a.HasVecSim && b.HasVecSim {
		if sim, ok, err := index.PairwiseSimilarity(db, a.Row.RowID, b.Row.RowID); err == nil && ok {
			return sim
		}
	}
	return jaccard(wordSet(a.Row), wordSet(b.Row))
}

func wordSet(row *index.Row) map[string]struct{} {
	text := row.Title.String + " " + row.Body
	set := make(map[string]struct{})
	for _, w := range strings.Fields(strings.ToLower(text)) {
		set[w] = struct{}{}
	}
	return set
}

func jaccard(a, b map[string]struct{}) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	inter := 0
	for w := range a {
		if _, ok := b[w]; ok {
			inter++
		}
	}
	union := len(a) + len(b) - inter
	if union == 0 {
		return 0
	}
	return float64(inter) / float64(union)
}
