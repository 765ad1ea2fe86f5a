package coordinator

import (
	"context"
	"log"
	"time"

	"github.com/mvp-joe/contextvault/internal/coreutil"
)

// toolTimeout is spec.md §4.5/§7's 60-second wrapper.
const toolTimeout = 60 * time.Second

// call runs fn under the shared timeout, active-op, and success/error
// instrumentation every tool handler goes through, then best-effort
// auto-captures a feedback entry when fn surfaces an UNKNOWN error.
// Grounded on the teacher's searcher_coordinator.go single-mutating-
// operation wrapper, generalized from "one coordinated reload" to
// "every tool call, with a hard deadline".
//
// On timeout the result channel is abandoned rather than waited on —
// fn keeps running against its own context until it finishes, but the
// caller gets TIMEOUT back immediately ("detach the underlying
// goroutine", spec.md §4.6).
func call[T any](c *Coordinator, ctx context.Context, toolName string, fn func(ctx context.Context) (T, error)) (T, error) {
	return callWithTimeout(c, ctx, toolName, toolTimeout, fn)
}

// callWithTimeout is call with an explicit timeout, split out so tests
// can exercise the timeout path without a 60-second sleep.
func callWithTimeout[T any](c *Coordinator, ctx context.Context, toolName string, timeout time.Duration, fn func(ctx context.Context) (T, error)) (T, error) {
	done := c.metrics.begin()

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	type outcome struct {
		result T
		err    error
	}
	resultCh := make(chan outcome, 1)
	go func() {
		result, err := fn(ctx)
		resultCh <- outcome{result, err}
	}()

	select {
	case o := <-resultCh:
		done(o.err, false)
		if o.err != nil {
			c.autoCapture(toolName, o.err)
		}
		return o.result, o.err
	case <-ctx.Done():
		done(ctx.Err(), true)
		var zero T
		timeoutErr := coreutil.NewError(coreutil.CodeTimeout, toolName+" exceeded the 60s tool timeout")
		c.autoCapture(toolName, timeoutErr)
		return zero, timeoutErr
	}
}

func (c *Coordinator) autoCapture(toolName string, err error) {
	if coreutil.AsCode(err) != coreutil.CodeUnknown && coreutil.AsCode(err) != coreutil.CodeTimeout {
		return
	}
	if captureErr := c.captureFeedback(toolName, err); captureErr != nil {
		log.Printf("coordinator: auto-capture for %s failed: %v", toolName, captureErr)
	}
}
