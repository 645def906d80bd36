package usecase

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/shopradar/backend/internal/domain"
)

// MatchConfig holds weights and thresholds for the matching heuristics.
// Values do not mutate after construction; callers may override per
// invocation, defaults come from the domain constants.
type MatchConfig struct {
	URLMatchWeight          float64
	HandleMatchWeight       float64
	TextSimilarityWeight    float64
	TextSimilarityThreshold float64
	MinScoreThreshold       float64
}

// DefaultMatchConfig returns the production matching configuration.
func DefaultMatchConfig() MatchConfig {
	return MatchConfig{
		URLMatchWeight:          domain.DefaultURLMatchWeight,
		HandleMatchWeight:       domain.DefaultHandleMatchWeight,
		TextSimilarityWeight:    domain.DefaultTextSimilarityWeight,
		TextSimilarityThreshold: domain.TextSimilarityThreshold,
		MinScoreThreshold:       domain.WeakMatchThreshold,
	}
}

// withDefaults fills zero-valued fields from the defaults so a partially
// populated config stays usable.
func (c MatchConfig) withDefaults() MatchConfig {
	def := DefaultMatchConfig()
	if c.URLMatchWeight <= 0 {
		c.URLMatchWeight = def.URLMatchWeight
	}
	if c.HandleMatchWeight <= 0 {
		c.HandleMatchWeight = def.HandleMatchWeight
	}
	if c.TextSimilarityWeight <= 0 {
		c.TextSimilarityWeight = def.TextSimilarityWeight
	}
	if c.TextSimilarityThreshold <= 0 {
		c.TextSimilarityThreshold = def.TextSimilarityThreshold
	}
	if c.MinScoreThreshold <= 0 {
		c.MinScoreThreshold = def.MinScoreThreshold
	}
	return c
}

// checkURLMatch compares product and ad URLs (strong signal). Direct
// containment either way is a full match; the product handle inside the
// ad URL or equal extracted handles score slightly lower.
func checkURLMatch(product domain.Product, ad domain.Ad) (bool, float64, string) {
	if !ad.HasLink() {
		return false, 0.0, ""
	}

	adURL := strings.ToLower(ad.LinkURL)
	productURL := strings.ToLower(product.URL)
	productHandle := strings.ToLower(product.Handle)

	if productURL != "" && (strings.Contains(adURL, productURL) || strings.Contains(productURL, adURL)) {
		return true, 1.0, "URL direct match"
	}

	if productHandle != "" && strings.Contains(adURL, productHandle) {
		if strings.Contains(adURL, "/products/"+productHandle) {
			return true, 1.0, "Product handle in ad URL path"
		}
		return true, 0.9, "Product handle found in ad URL"
	}

	if adHandle := extractHandleFromURL(adURL); adHandle != "" && adHandle == productHandle {
		return true, 0.95, "URL handles match"
	}

	return false, 0.0, ""
}

// checkHandleMatch looks for the product handle inside the ad copy
// (medium signal). Hyphenated handles also match as ordered words or with
// hyphens replaced by spaces, at decreasing scores.
func checkHandleMatch(product domain.Product, ad domain.Ad) (bool, float64, string) {
	productHandle := strings.ToLower(product.Handle)
	if productHandle == "" {
		return false, 0.0, ""
	}

	var parts []string
	if ad.Title != "" {
		parts = append(parts, strings.ToLower(ad.Title))
	}
	if ad.Body != "" {
		parts = append(parts, strings.ToLower(ad.Body))
	}
	adText := strings.Join(parts, " ")
	if adText == "" {
		return false, 0.0, ""
	}

	if strings.Contains(adText, productHandle) {
		return true, 0.8, "Product handle in ad text"
	}

	handleWords := strings.Split(productHandle, "-")
	if len(handleWords) > 1 {
		quoted := make([]string, len(handleWords))
		for i, w := range handleWords {
			quoted[i] = regexp.QuoteMeta(w)
		}
		pattern := regexp.MustCompile(`\b` + strings.Join(quoted, `\s+`) + `\b`)
		if pattern.MatchString(adText) {
			return true, 0.75, "Product handle words in ad text"
		}
	}

	if strings.Contains(adText, strings.ReplaceAll(productHandle, "-", " ")) {
		return true, 0.7, "Product handle (no hyphens) in ad text"
	}

	return false, 0.0, ""
}

// checkTextSimilarity compares the product title against ad title and
// body independently (weak signal). The better of the two similarities
// must clear the threshold; the returned score is halved because text
// similarity is the weakest evidence.
func checkTextSimilarity(product domain.Product, ad domain.Ad, threshold float64) (bool, float64, string) {
	if product.Title == "" {
		return false, 0.0, ""
	}

	type field struct{ name, text string }
	var fields []field
	if ad.Title != "" {
		fields = append(fields, field{"title", ad.Title})
	}
	if ad.Body != "" {
		fields = append(fields, field{"body", ad.Body})
	}
	if len(fields) == 0 {
		return false, 0.0, ""
	}

	bestSimilarity := 0.0
	bestField := ""
	for _, f := range fields {
		if similarity := textSimilarity(product.Title, f.text); similarity > bestSimilarity {
			bestSimilarity = similarity
			bestField = f.name
		}
	}

	if bestSimilarity >= threshold {
		score := bestSimilarity * 0.5
		reason := fmt.Sprintf("Text similarity (%.0f%%) in ad %s", bestSimilarity*100, bestField)
		return true, score, reason
	}

	return false, 0.0, ""
}

// MatchProductToAd runs all heuristics against one (product, ad) pair and
// combines them into a single classification. Weighted scores combine via
// max rather than summation so coinciding weak signals cannot inflate the
// total; reasons still record every triggered heuristic in evaluation
// order. URL evidence always wins the strength label. The second return
// is false when no valid match was found.
func MatchProductToAd(product domain.Product, ad domain.Ad, config MatchConfig) (domain.AdMatch, bool) {
	cfg := config.withDefaults()

	var reasons []string
	totalScore := 0.0
	strength := domain.MatchStrengthNone

	if matched, score, reason := checkURLMatch(product, ad); matched {
		if weighted := score * cfg.URLMatchWeight; weighted > totalScore {
			totalScore = weighted
		}
		reasons = append(reasons, reason)
		strength = domain.MatchStrengthStrong
	}

	if matched, score, reason := checkHandleMatch(product, ad); matched {
		if weighted := score * cfg.HandleMatchWeight; weighted > totalScore {
			totalScore = weighted
		}
		if strength == domain.MatchStrengthNone {
			strength = domain.MatchStrengthMedium
		}
		reasons = append(reasons, reason)
	}

	if matched, score, reason := checkTextSimilarity(product, ad, cfg.TextSimilarityThreshold); matched {
		if weighted := score * cfg.TextSimilarityWeight; weighted > totalScore {
			totalScore = weighted
		}
		if strength == domain.MatchStrengthNone {
			strength = domain.MatchStrengthWeak
		}
		reasons = append(reasons, reason)
	}

	if strength == domain.MatchStrengthNone || totalScore < cfg.MinScoreThreshold {
		return domain.AdMatch{}, false
	}

	if totalScore > 1.0 {
		totalScore = 1.0
	}
	match, err := domain.NewAdMatch(ad, totalScore, strength, reasons)
	if err != nil {
		// Unreachable: the score is capped above.
		return domain.AdMatch{}, false
	}
	return match, true
}

// MatchProductToAds matches one product against a list of ads and
// returns the valid matches sorted by score descending. The sort is
// stable: equal scores keep input order.
func MatchProductToAds(product domain.Product, ads []domain.Ad, config MatchConfig) []domain.AdMatch {
	var matches []domain.AdMatch
	for _, ad := range ads {
		if match, ok := MatchProductToAd(product, ad, config); ok {
			matches = append(matches, match)
		}
	}
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})
	return matches
}
