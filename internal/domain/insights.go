package domain

import (
	"sort"
	"time"
)

// MatchStrength classifies the confidence of a product-ad match. It is a
// discrete label distinct from the continuous match score: URL evidence
// yields STRONG, handle-in-text MEDIUM, text similarity WEAK.
type MatchStrength int

const (
	MatchStrengthNone MatchStrength = iota
	MatchStrengthWeak
	MatchStrengthMedium
	MatchStrengthStrong
)

func (s MatchStrength) String() string {
	switch s {
	case MatchStrengthStrong:
		return "strong"
	case MatchStrengthMedium:
		return "medium"
	case MatchStrengthWeak:
		return "weak"
	default:
		return "none"
	}
}

// MarshalJSON renders the strength as its string label.
func (s MatchStrength) MarshalJSON() ([]byte, error) {
	return []byte(`"` + s.String() + `"`), nil
}

// AdMatch is the immutable result of matching one product to one ad.
// Constructed only by the matcher; never mutated afterwards.
type AdMatch struct {
	Ad       Ad            `json:"ad"`
	Score    float64       `json:"score"`
	Strength MatchStrength `json:"strength"`
	Reasons  []string      `json:"reasons"`
}

// NewAdMatch validates the score invariant at construction.
func NewAdMatch(ad Ad, score float64, strength MatchStrength, reasons []string) (AdMatch, error) {
	if score < 0.0 || score > 1.0 {
		return AdMatch{}, ErrScoreOutOfRange
	}
	return AdMatch{Ad: ad, Score: score, Strength: strength, Reasons: reasons}, nil
}

// ProductInsights is the per-product read-model. All aggregate values are
// derived from MatchedAds on access, never stored: insights are recomputed
// on every request and always reflect the current match list.
type ProductInsights struct {
	Product          Product   `json:"product"`
	MatchedAds       []AdMatch `json:"matchedAds"`
	TotalAdsAnalyzed int       `json:"totalAdsAnalyzed"`
	ComputedAt       time.Time `json:"computedAt"`
}

// MatchScore is the best match score, or 0 with no matches.
func (pi ProductInsights) MatchScore() float64 {
	best := 0.0
	for _, m := range pi.MatchedAds {
		if m.Score > best {
			best = m.Score
		}
	}
	return best
}

// MatchReasons aggregates unique reasons across all matches, sorted.
func (pi ProductInsights) MatchReasons() []string {
	seen := make(map[string]bool)
	var reasons []string
	for _, m := range pi.MatchedAds {
		for _, r := range m.Reasons {
			if !seen[r] {
				seen[r] = true
				reasons = append(reasons, r)
			}
		}
	}
	sort.Strings(reasons)
	return reasons
}

// IsPromoted reports whether the product appears actively promoted: at
// least one medium-or-better match whose ad is currently active.
func (pi ProductInsights) IsPromoted() bool {
	for _, m := range pi.MatchedAds {
		if m.Strength >= MatchStrengthMedium && m.Ad.IsActive() {
			return true
		}
	}
	return false
}

// HasStrongMatch reports whether at least one match is STRONG.
func (pi ProductInsights) HasStrongMatch() bool {
	for _, m := range pi.MatchedAds {
		if m.Strength == MatchStrengthStrong {
			return true
		}
	}
	return false
}

// BestMatch returns the highest-scoring match, strength breaking ties.
func (pi ProductInsights) BestMatch() (AdMatch, bool) {
	if len(pi.MatchedAds) == 0 {
		return AdMatch{}, false
	}
	best := pi.MatchedAds[0]
	for _, m := range pi.MatchedAds[1:] {
		if m.Score > best.Score || (m.Score == best.Score && m.Strength > best.Strength) {
			best = m
		}
	}
	return best, true
}

// MatchCountByStrength counts matches with the given strength.
func (pi ProductInsights) MatchCountByStrength(s MatchStrength) int {
	n := 0
	for _, m := range pi.MatchedAds {
		if m.Strength == s {
			n++
		}
	}
	return n
}

// ActiveAdMatches returns only matches whose ad is currently active.
func (pi ProductInsights) ActiveAdMatches() []AdMatch {
	var active []AdMatch
	for _, m := range pi.MatchedAds {
		if m.Ad.IsActive() {
			active = append(active, m)
		}
	}
	return active
}

// HasMatchAboveThreshold reports whether any match meets the threshold.
func (pi ProductInsights) HasMatchAboveThreshold(threshold float64) bool {
	for _, m := range pi.MatchedAds {
		if m.Score >= threshold {
			return true
		}
	}
	return false
}

// PageProductInsights aggregates product insights for an entire page.
// Like ProductInsights it is never persisted.
type PageProductInsights struct {
	PageID          string            `json:"pageId"`
	ProductInsights []ProductInsights `json:"productInsights"`
	TotalProducts   int               `json:"totalProducts"`
	TotalAds        int               `json:"totalAds"`
	ComputedAt      time.Time         `json:"computedAt"`
}

// ProductsWithAds counts products with at least one matched ad.
func (p PageProductInsights) ProductsWithAds() int {
	n := 0
	for _, pi := range p.ProductInsights {
		if len(pi.MatchedAds) > 0 {
			n++
		}
	}
	return n
}

// PromotedProductsCount counts products that appear promoted.
func (p PageProductInsights) PromotedProductsCount() int {
	n := 0
	for _, pi := range p.ProductInsights {
		if pi.IsPromoted() {
			n++
		}
	}
	return n
}

// CoverageRatio is products-with-matches over total products.
func (p PageProductInsights) CoverageRatio() float64 {
	if p.TotalProducts == 0 {
		return 0.0
	}
	return float64(p.ProductsWithAds()) / float64(p.TotalProducts)
}

// PromotionRatio is promoted products over total products.
func (p PageProductInsights) PromotionRatio() float64 {
	if p.TotalProducts == 0 {
		return 0.0
	}
	return float64(p.PromotedProductsCount()) / float64(p.TotalProducts)
}

// PromotedProducts returns insights for promoted products.
func (p PageProductInsights) PromotedProducts() []ProductInsights {
	var promoted []ProductInsights
	for _, pi := range p.ProductInsights {
		if pi.IsPromoted() {
			promoted = append(promoted, pi)
		}
	}
	return promoted
}

// ProductsWithStrongMatches returns insights with at least one STRONG match.
func (p PageProductInsights) ProductsWithStrongMatches() []ProductInsights {
	var strong []ProductInsights
	for _, pi := range p.ProductInsights {
		if pi.HasStrongMatch() {
			strong = append(strong, pi)
		}
	}
	return strong
}

// TopProductsByScore returns up to limit insights sorted by match score
// descending. Ties keep input order.
func (p PageProductInsights) TopProductsByScore(limit int) []ProductInsights {
	sorted := make([]ProductInsights, len(p.ProductInsights))
	copy(sorted, p.ProductInsights)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].MatchScore() > sorted[j].MatchScore()
	})
	if limit > 0 && len(sorted) > limit {
		sorted = sorted[:limit]
	}
	return sorted
}
