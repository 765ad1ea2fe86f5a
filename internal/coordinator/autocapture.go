package coordinator

import (
	"context"

	"github.com/mvp-joe/contextvault/internal/capture"
)

// captureFeedback best-effort records an uncaught tool error as a
// feedback entry (spec.md §7: "internal errors... are logged and
// swallowed"), tagged so it turns up in a later list_context sweep for
// "bug", "auto-captured" entries. It never returns an error to its
// caller's caller — call sites only log what comes back.
func (c *Coordinator) captureFeedback(toolName string, cause error) error {
	ctx := context.Background()
	_, err := capture.CaptureAndIndex(ctx, c.vaultRoot, c.store, capture.WriteEntryInput{
		Kind:   "feedback",
		Title:  "auto-captured: " + toolName + " failed",
		Body:   cause.Error(),
		Tags:   []string{"bug", "auto-captured"},
		Source: capture.DefaultSource,
	})
	return err
}
