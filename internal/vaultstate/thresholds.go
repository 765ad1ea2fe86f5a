package vaultstate

// Severity is the health level assigned to a single threshold reading.
type Severity string

const (
	SeverityOK       Severity = "ok"
	SeverityWarn     Severity = "warn"
	SeverityCritical Severity = "critical"
)

// Threshold pairs a warn and critical boundary for one growth metric,
// matching spec.md §6.3's `thresholds.<key>.{warn,critical}` shape.
type Threshold struct {
	Warn     float64
	Critical float64
}

// Thresholds holds the four growth metrics named in spec.md §6.3.
type Thresholds struct {
	TotalEntries     Threshold
	EventEntries     Threshold
	VaultSizeBytes   Threshold
	EventsWithoutTTL Threshold
}

// DefaultThresholds mirrors sensible defaults for a personal vault,
// grounded on the teacher's config/validate.go bounds-checking approach
// of shipping conservative defaults that are always overridable.
func DefaultThresholds() Thresholds {
	return Thresholds{
		TotalEntries:     Threshold{Warn: 5000, Critical: 20000},
		EventEntries:     Threshold{Warn: 2000, Critical: 10000},
		VaultSizeBytes:   Threshold{Warn: 200 * 1024 * 1024, Critical: 1024 * 1024 * 1024},
		EventsWithoutTTL: Threshold{Warn: 500, Critical: 5000},
	}
}

// Reading is one evaluated threshold, ready to surface in context_status.
type Reading struct {
	Key       string   `json:"key"`
	Value     float64  `json:"value"`
	Severity  Severity `json:"severity"`
	Suggested string   `json:"suggested_action,omitempty"`
}

func evaluate(key string, value float64, t Threshold, suggestion string) Reading {
	r := Reading{Key: key, Value: value, Severity: SeverityOK}
	switch {
	case t.Critical > 0 && value >= t.Critical:
		r.Severity = SeverityCritical
		r.Suggested = suggestion
	case t.Warn > 0 && value >= t.Warn:
		r.Severity = SeverityWarn
		r.Suggested = suggestion
	}
	return r
}

// Metrics is the set of raw counters context_status gathers before
// evaluating them against Thresholds.
type Metrics struct {
	TotalEntries     int64
	EventEntries     int64
	VaultSizeBytes   int64
	EventsWithoutTTL int64
}

// Evaluate produces one Reading per metric, in a fixed order, for
// deterministic CLI/tool output.
func Evaluate(m Metrics, t Thresholds) []Reading {
	return []Reading{
		evaluate("total_entries", float64(m.TotalEntries), t.TotalEntries,
			"run `contextvault prune` or archive old knowledge entries"),
		evaluate("event_entries", float64(m.EventEntries), t.EventEntries,
			"set expires_at on new event-category saves to bound growth"),
		evaluate("vault_size_bytes", float64(m.VaultSizeBytes), t.VaultSizeBytes,
			"archive or delete large entries; consider splitting the vault"),
		evaluate("events_without_ttl", float64(m.EventsWithoutTTL), t.EventsWithoutTTL,
			"backfill expires_at on event-category entries lacking one"),
	}
}
