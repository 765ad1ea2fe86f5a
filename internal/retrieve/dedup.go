package retrieve

import (
	"database/sql"

	"github.com/mvp-joe/contextvault/internal/index"
)

// nearDuplicateThreshold is spec.md §4.4.1 step 8's suppression cutoff.
const nearDuplicateThreshold = 0.92

// suppressNearDuplicates walks MMR's output in order, keeping a
// candidate only if its embedding similarity (index.PairwiseSimilarity,
// 1 - L2/2) to every already-kept item is at most nearDuplicateThreshold. Only applied when embeddings exist
// and the candidate pool exceeds limit, matching spec.md §4.4.1 step 8
// exactly ("only applied when embeddings exist and the candidate set
// exceeds limit").
func suppressNearDuplicates(db *sql.DB, ordered []*candidate, totalCandidates, limit int) []*candidate {
	anyEmbeddings := false
	for _, c := range ordered {
		if c.HasVecSim {
			anyEmbeddings = true
			break
		}
	}
	if !anyEmbeddings || totalCandidates <= limit {
		return ordered
	}

	var kept []*candidate
	for _, c := range ordered {
		duplicate := false
		for _, k := range kept {
			if !c.HasVecSim || !k.HasVecSim {
				continue
			}
			sim, ok, err := index.PairwiseSimilarity(db, c.Row.RowID, k.Row.RowID)
			if err == nil && ok && sim > nearDuplicateThreshold {
				duplicate = true
				break
			}
		}
		if !duplicate {
			kept = append(kept, c)
		}
	}
	return kept
}
