// Package coordinator sequences Capture and Index on writes, dispatches
// reads to Retrieve, and wraps every tool handler with the timeout,
// metrics, singleton-reindex, and auto-capture behavior described in
// spec.md §4.5. Grounded on the teacher's mcp.SearcherCoordinator
// (single mutex-guarded coordinated operation, eventual-consistency
// error handling) generalized from "reload two searchers" to "run any
// tool handler under a shared timeout and instrumentation envelope".
package coordinator

import (
	"context"
	"log"

	"github.com/mvp-joe/contextvault/internal/config"
	"github.com/mvp-joe/contextvault/internal/index"
	"github.com/mvp-joe/contextvault/internal/retrieve"
)

// Coordinator is the single entry point mcpserver and cli call into.
type Coordinator struct {
	vaultRoot string
	mode      config.Mode

	store    *index.Store
	retrieve *retrieve.Service

	metrics *Metrics
	reindex *reindexGuard
}

// New builds a Coordinator over an already-open store and retrieve
// service. mode gates the first-call reindex (spec.md §4.5: local mode
// only — a hosted deployment's vault is reconciled out of band).
func New(vaultRoot string, mode config.Mode, store *index.Store, svc *retrieve.Service) *Coordinator {
	return &Coordinator{
		vaultRoot: vaultRoot,
		mode:      mode,
		store:     store,
		retrieve:  svc,
		metrics:   newMetrics(),
		reindex:   newReindexGuard(),
	}
}

// Metrics returns a point-in-time snapshot of tool-call instrumentation
// for context_status.
func (c *Coordinator) Metrics() MetricsSnapshot {
	return c.metrics.Snapshot()
}

// maybeReindex triggers the first-call singleton reindex in local mode
// and blocks the caller until it finishes; a no-op, returning
// immediately, in hosted mode or on every call after the first.
func (c *Coordinator) maybeReindex(ctx context.Context) error {
	if c.mode != config.ModeLocal {
		return nil
	}
	return c.reindex.ensure(ctx, c.store, c.vaultRoot)
}

// ScheduleReindex runs an incremental reindex in the background in
// response to an out-of-band vault change the watcher detected. It is
// independent of the first-call reindex guard: the vault may already be
// past its first-call reindex by the time a user hand-edits a file.
func (c *Coordinator) ScheduleReindex() {
	go func() {
		if _, err := c.store.Reindex(context.Background(), c.vaultRoot, index.ReindexOptions{}); err != nil {
			log.Printf("coordinator: watcher-triggered reindex failed: %v", err)
		}
	}()
}
