package retrieve

import "math"

// frequencyBoost is spec.md §4.4.1 step 5's additive term:
// 0.13 * log(1+hit_count) / log(1+H), where H is the max hit_count
// across the current candidate set. Returns 0 when H is 0 (nothing in
// the set has ever been accessed).
func frequencyBoost(hitCount, maxHitCount int) float64 {
	if maxHitCount <= 0 {
		return 0
	}
	return 0.13 * math.Log(1+float64(hitCount)) / math.Log(1+float64(maxHitCount))
}
