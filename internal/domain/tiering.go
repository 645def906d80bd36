package domain

import "strings"

// Shop tiers, best to worst. Index 0 is the best tier; a lower index in
// TiersOrdered means a better tier. All tier logic consumes this table.
var TiersOrdered = []string{"XXL", "XL", "L", "M", "S", "XS"}

// tierFloors holds the inclusive lower score bound per tier, aligned with
// TiersOrdered. XXL additionally includes 100.0.
var tierFloors = []float64{85.0, 70.0, 55.0, 40.0, 25.0, 0.0}

// TierRank returns the position of a tier in TiersOrdered (0 = best).
// The lookup is case-insensitive. The second return is false for an
// unknown tier; callers decide how to surface that.
func TierRank(tier string) (int, bool) {
	normalized := strings.ToUpper(tier)
	for i, t := range TiersOrdered {
		if t == normalized {
			return i, true
		}
	}
	return 0, false
}

// IsValidTier reports whether the tier identifier is recognized.
func IsValidTier(tier string) bool {
	_, ok := TierRank(tier)
	return ok
}

// ScoreToTier converts a numeric score to its tier. The score is clamped
// to [0, 100] first.
func ScoreToTier(score float64) string {
	clamped := score
	if clamped < 0.0 {
		clamped = 0.0
	}
	if clamped > 100.0 {
		clamped = 100.0
	}
	for i, floor := range tierFloors {
		if clamped >= floor {
			return TiersOrdered[i]
		}
	}
	return TiersOrdered[len(TiersOrdered)-1]
}

// TierScoreRange returns the [min, max) score range for a tier (max is
// inclusive for the top tier). Second return is false for unknown tiers.
func TierScoreRange(tier string) (min, max float64, ok bool) {
	rank, ok := TierRank(tier)
	if !ok {
		return 0, 0, false
	}
	min = tierFloors[rank]
	if rank == 0 {
		return min, 100.0, true
	}
	return min, tierFloors[rank-1], true
}
