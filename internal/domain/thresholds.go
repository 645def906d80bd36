package domain

// Business thresholds and weights, single source of truth. Services take
// these as explicit configuration with the defaults below; nothing reads
// them through a hidden singleton.

// Alert detection thresholds.
const (
	// ScoreChangeThreshold is the points delta that triggers
	// SCORE_JUMP / SCORE_DROP alerts.
	ScoreChangeThreshold = 10.0

	// AdsBoostRatioThreshold is the relative ads-count increase that
	// triggers NEW_ADS_BOOST (1.0 = doubled).
	AdsBoostRatioThreshold = 1.0
)

// Match strength score cutoffs.
const (
	StrongMatchThreshold = 0.8
	MediumMatchThreshold = 0.5
	// WeakMatchThreshold is also the minimum total score for a valid match.
	WeakMatchThreshold = 0.3

	// TextSimilarityThreshold is the minimum similarity ratio for the
	// text heuristic to fire.
	TextSimilarityThreshold = 0.6
)

// Default heuristic weights. Higher weight means higher confidence in
// that signal.
const (
	DefaultURLMatchWeight       = 1.0
	DefaultHandleMatchWeight    = 0.7
	DefaultTextSimilarityWeight = 0.4
)

// DefaultMaxProducts caps how many products an insights build analyzes.
const DefaultMaxProducts = 500
