// Package retrieve implements the hybrid search pipeline described in
// spec.md §4.4: full-text and vector candidate generation, Reciprocal
// Rank Fusion, recency and frequency boosts, MMR diversification, and
// near-duplicate suppression, plus the simpler list/get read paths.
// Grounded on the teacher's internal/mcp search_sqlite.go and
// internal/graph/searcher.go (for the otter-backed cache).
package retrieve

import "time"

// DefaultLimit, DefaultDecayDays mirror spec.md §4.4's stated defaults.
const (
	DefaultLimit     = 20
	DefaultDecayDays = 30
)

// SearchOptions constrains and pages a hybrid_search call.
type SearchOptions struct {
	Query             string
	Kind              string
	Category          string
	Since             *time.Time
	Until             *time.Time
	UserID            string
	TeamID            string
	Limit             int
	Offset            int
	IncludeSuperseded bool
	DecayDays         int
}

func (o SearchOptions) withDefaults() SearchOptions {
	if o.Limit <= 0 {
		o.Limit = DefaultLimit
	}
	if o.DecayDays <= 0 {
		o.DecayDays = DefaultDecayDays
	}
	return o
}
