package usecase

import (
	"regexp"
	"strings"
)

// Package-level compiled regex patterns for performance.
var (
	urlPattern      = regexp.MustCompile(`https?://\S+`)
	nonWordPattern  = regexp.MustCompile(`[^\w\s]`)
	productsPath    = regexp.MustCompile(`(?i)/products/([^/?#]+)`)
	lastPathSegment = regexp.MustCompile(`/([^/?#]+)/?(?:\?|#|$)`)
)

// normalizeText lowercases, strips URL substrings entirely, replaces any
// non-word character with a space and collapses whitespace.
func normalizeText(text string) string {
	if text == "" {
		return ""
	}
	text = strings.ToLower(text)
	text = urlPattern.ReplaceAllString(text, "")
	text = nonWordPattern.ReplaceAllString(text, " ")
	return strings.Join(strings.Fields(text), " ")
}

// extractHandleFromURL derives a catalog handle from a URL. Shopify URLs
// follow https://store.com/products/product-handle; anything after the
// /products/ segment up to /, ? or # is the handle. Without a /products/
// segment the last non-empty path segment is used. Returns "" when no
// handle can be extracted.
func extractHandleFromURL(url string) string {
	if url == "" {
		return ""
	}
	if m := productsPath.FindStringSubmatch(url); m != nil {
		return strings.ToLower(m[1])
	}
	if m := lastPathSegment.FindStringSubmatch(url); m != nil {
		return strings.ToLower(m[1])
	}
	return ""
}

// textSimilarity computes an edit similarity in [0, 1] between two
// strings after normalization. The ratio is 2*M/T where M is the total
// length of matching blocks and T the combined length, the same measure
// difflib's SequenceMatcher produces.
func textSimilarity(text1, text2 string) float64 {
	if text1 == "" || text2 == "" {
		return 0.0
	}
	norm1 := normalizeText(text1)
	norm2 := normalizeText(text2)
	if norm1 == "" || norm2 == "" {
		return 0.0
	}
	return sequenceRatio([]rune(norm1), []rune(norm2))
}

func sequenceRatio(a, b []rune) float64 {
	total := len(a) + len(b)
	if total == 0 {
		return 1.0
	}
	return 2.0 * float64(matchingRunes(a, b)) / float64(total)
}

// matchingRunes sums the lengths of the matching blocks found by
// recursively taking the longest common block and descending into the
// unmatched regions on either side.
func matchingRunes(a, b []rune) int {
	b2j := make(map[rune][]int, len(b))
	for j, r := range b {
		b2j[r] = append(b2j[r], j)
	}

	type region struct{ alo, ahi, blo, bhi int }
	queue := []region{{0, len(a), 0, len(b)}}
	matched := 0
	for len(queue) > 0 {
		reg := queue[len(queue)-1]
		queue = queue[:len(queue)-1]
		i, j, k := longestMatch(a, reg.alo, reg.ahi, reg.blo, reg.bhi, b2j)
		if k == 0 {
			continue
		}
		matched += k
		queue = append(queue,
			region{reg.alo, i, reg.blo, j},
			region{i + k, reg.ahi, j + k, reg.bhi},
		)
	}
	return matched
}

// longestMatch finds the longest block common to a[alo:ahi] and the b
// region [blo:bhi], preferring the earliest block on ties.
func longestMatch(a []rune, alo, ahi, blo, bhi int, b2j map[rune][]int) (besti, bestj, size int) {
	besti, bestj = alo, blo
	j2len := make(map[int]int)
	for i := alo; i < ahi; i++ {
		next := make(map[int]int)
		for _, j := range b2j[a[i]] {
			if j < blo {
				continue
			}
			if j >= bhi {
				break
			}
			k := j2len[j-1] + 1
			next[j] = k
			if k > size {
				besti, bestj, size = i-k+1, j-k+1, k
			}
		}
		j2len = next
	}
	return besti, bestj, size
}
