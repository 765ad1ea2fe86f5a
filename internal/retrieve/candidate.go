package retrieve

import "github.com/mvp-joe/contextvault/internal/index"

// candidate accumulates every signal the pipeline computes for one
// vault row on its way from FTS/vector recall through final ranking.
type candidate struct {
	Row       *index.Row
	FTSRank   *int
	VecRank   *int
	VecSim    float64
	HasVecSim bool
	Score     float64
}

func (c *candidate) relevance() float64 {
	if c.HasVecSim {
		return c.VecSim
	}
	return c.Score
}
