package domain

import "time"

// Page represents a tracked e-commerce store and its latest scoring
// snapshot. Scoring itself happens upstream; this record only carries
// the figures alert detection compares against.
type Page struct {
	ID             string     `json:"id"`
	Name           string     `json:"name"`
	URL            string     `json:"url"`
	MetaPageID     string     `json:"metaPageId,omitempty"`
	ActiveAdsCount int        `json:"activeAdsCount"`
	Score          *float64   `json:"score,omitempty"`
	Tier           string     `json:"tier,omitempty"`
	LastScoredAt   *time.Time `json:"lastScoredAt,omitempty"`
	CreatedAt      time.Time  `json:"createdAt"`
	UpdatedAt      time.Time  `json:"updatedAt"`
}

// HasBeenScored reports whether the page has a scoring baseline.
func (p Page) HasBeenScored() bool {
	return p.Score != nil
}
