package embed

import (
	"context"
	"fmt"
)

// BatchSize is the reference batch size for bulk reindex embedding
// (spec.md §4.3.4 step 6).
const BatchSize = 32

// Progress reports embedding progress across a batched call, for CLI
// progress bars (see internal/cli's use of schollz/progressbar).
type Progress struct {
	BatchIndex   int
	TotalBatches int
	Done         int
	Total        int
}

// EmbedBatched embeds texts in batches of batchSize, preserving input
// order in the result, and optionally reporting progress on progressCh.
// Grounded on the teacher's embed/batched.go EmbedWithProgress.
func EmbedBatched(
	ctx context.Context,
	provider Provider,
	texts []string,
	mode Mode,
	batchSize int,
	progressCh chan<- Progress,
) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}
	if batchSize <= 0 {
		batchSize = BatchSize
	}

	numBatches := (len(texts) + batchSize - 1) / batchSize
	results := make([][]float32, len(texts))

	done := 0
	for batch := 0; batch < numBatches; batch++ {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		start := batch * batchSize
		end := start + batchSize
		if end > len(texts) {
			end = len(texts)
		}

		vectors, err := provider.Embed(ctx, texts[start:end], mode)
		if err != nil {
			return nil, fmt.Errorf("embed batch %d/%d: %w", batch+1, numBatches, err)
		}
		for i, v := range vectors {
			results[start+i] = v
		}

		done += end - start
		if progressCh != nil {
			progressCh <- Progress{
				BatchIndex:   batch + 1,
				TotalBatches: numBatches,
				Done:         done,
				Total:        len(texts),
			}
		}
	}

	return results, nil
}
