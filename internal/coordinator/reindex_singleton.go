package coordinator

import (
	"context"
	"log"
	"sync"

	"github.com/mvp-joe/contextvault/internal/index"
)

// maxReindexAttempts bounds the startup reindex to an initial attempt
// plus up to 2 retries (spec.md §4.5) before permanently flagging it
// failed.
const maxReindexAttempts = 3

// reindexGuard runs a full reindex exactly once per process, in local
// mode only, on the first tool call that touches it (spec.md §8.4
// scenario 6: every concurrent caller succeeds even though only one of
// them actually does the work, and even if the work itself ultimately
// fails — a failed reindex is surfaced through context_status, never by
// failing the tool call that triggered it).
type reindexGuard struct {
	once sync.Once
	done chan struct{}

	mu     sync.Mutex
	result *index.ReindexResult
	err    error
}

func newReindexGuard() *reindexGuard {
	return &reindexGuard{done: make(chan struct{})}
}

// ensure triggers the singleton reindex on its first call and blocks
// every caller (first or not) until it finishes. It only returns an
// error if ctx itself is cancelled while waiting — a failed reindex is
// never surfaced here, only through failed().
func (g *reindexGuard) ensure(ctx context.Context, store *index.Store, vaultRoot string) error {
	g.once.Do(func() {
		defer close(g.done)
		var result *index.ReindexResult
		var err error
		for attempt := 1; attempt <= maxReindexAttempts; attempt++ {
			result, err = store.Reindex(context.Background(), vaultRoot, index.ReindexOptions{FullSync: true})
			if err == nil {
				break
			}
			log.Printf("coordinator: startup reindex attempt %d/%d failed: %v", attempt, maxReindexAttempts, err)
		}
		g.mu.Lock()
		g.result, g.err = result, err
		g.mu.Unlock()
		if err != nil {
			log.Printf("coordinator: startup reindex permanently failed after %d attempts: %v", maxReindexAttempts, err)
		}
	})

	select {
	case <-g.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// failed reports whether the singleton reindex ran and failed, for
// context_status to surface (spec.md §8.4 scenario 6: "retry then
// permanently flag failed").
func (g *reindexGuard) failed() (ran bool, err error) {
	select {
	case <-g.done:
	default:
		return false, nil
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	return true, g.err
}
