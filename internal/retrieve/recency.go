package retrieve

import (
	"time"

	"github.com/mvp-joe/contextvault/internal/coreutil"
)

// recencyFactor is spec.md §4.4.1 step 4's category-aware multiplier:
// knowledge and entity rows are never decayed; event rows decay as
// 1 / (1 + age_days/decay_days).
func recencyFactor(category string, createdAt time.Time, decayDays int) float64 {
	if category != string(coreutil.CategoryEvent) {
		return 1
	}
	ageDays := time.Since(createdAt).Hours() / 24
	if ageDays < 0 {
		ageDays = 0
	}
	return 1 / (1 + ageDays/float64(decayDays))
}
