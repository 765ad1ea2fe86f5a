package retrieve

// rrfK is the Reciprocal Rank Fusion constant from spec.md §4.4.1 step 3.
const rrfK = 60

// mergeCandidates unions the FTS and vector candidate maps, summing
// their Reciprocal Rank Fusion contribution into each merged
// candidate's Score: rrf[id] = Σ 1 / (k + rank_in_list_i + 1).
func mergeCandidates(ftsHits, vecHits map[int64]*candidate) map[int64]*candidate {
	merged := make(map[int64]*candidate, len(ftsHits)+len(vecHits))

	for rowID, c := range ftsHits {
		merged[rowID] = &candidate{Row: c.Row, FTSRank: c.FTSRank}
	}
	for rowID, c := range vecHits {
		if existing, ok := merged[rowID]; ok {
			existing.VecRank = c.VecRank
			existing.VecSim = c.VecSim
			existing.HasVecSim = c.HasVecSim
		} else {
			merged[rowID] = &candidate{Row: c.Row, VecRank: c.VecRank, VecSim: c.VecSim, HasVecSim: c.HasVecSim}
		}
	}

	for _, c := range merged {
		if c.FTSRank != nil {
			c.Score += 1.0 / float64(rrfK+*c.FTSRank+1)
		}
		if c.VecRank != nil {
			c.Score += 1.0 / float64(rrfK+*c.VecRank+1)
		}
	}
	return merged
}
