package coordinator

import "sync"

// Metrics tracks tool-call statistics for context_status, grounded on
// the teacher's mcp.ReloadMetrics (thread-safe counters, immutable
// snapshot for safe concurrent reads) generalized from "reload
// operations" to "tool calls".
type Metrics struct {
	mu         sync.RWMutex
	activeOps  int
	totalCalls int64
	successes  int64
	errors     int64
	timeouts   int64
	lastError  string
}

// MetricsSnapshot is an immutable point-in-time view of Metrics.
type MetricsSnapshot struct {
	ActiveOps  int    `json:"active_ops"`
	TotalCalls int64  `json:"total_calls"`
	Successes  int64  `json:"successes"`
	Errors     int64  `json:"errors"`
	Timeouts   int64  `json:"timeouts"`
	LastError  string `json:"last_error,omitempty"`
}

func newMetrics() *Metrics { return &Metrics{} }

// begin records the start of an operation and returns a func to record
// its outcome; call it exactly once, with the error the operation
// ultimately produced (nil on success).
func (m *Metrics) begin() func(err error, timedOut bool) {
	m.mu.Lock()
	m.activeOps++
	m.totalCalls++
	m.mu.Unlock()

	return func(err error, timedOut bool) {
		m.mu.Lock()
		defer m.mu.Unlock()
		m.activeOps--
		switch {
		case timedOut:
			m.timeouts++
			m.errors++
			m.lastError = "timeout"
		case err != nil:
			m.errors++
			m.lastError = err.Error()
		default:
			m.successes++
		}
	}
}

// Snapshot returns the current metrics.
func (m *Metrics) Snapshot() MetricsSnapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return MetricsSnapshot{
		ActiveOps:  m.activeOps,
		TotalCalls: m.totalCalls,
		Successes:  m.successes,
		Errors:     m.errors,
		Timeouts:   m.timeouts,
		LastError:  m.lastError,
	}
}
