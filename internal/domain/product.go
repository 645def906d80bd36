package domain

import "time"

// Product represents an item from a store's catalog that can be linked
// to advertising campaigns. Products are created from scraped source data
// and are read-only inside the matching pipeline.
type Product struct {
	ID          string         `json:"id"`
	PageID      string         `json:"pageId"`
	Handle      string         `json:"handle"` // URL slug, primary matching key
	Title       string         `json:"title"`
	URL         string         `json:"url"`
	PriceMin    *float64       `json:"priceMin,omitempty"`
	PriceMax    *float64       `json:"priceMax,omitempty"`
	Currency    string         `json:"currency,omitempty"`
	Available   bool           `json:"available"`
	Tags        []string       `json:"tags,omitempty"`
	Vendor      string         `json:"vendor,omitempty"`
	ImageURL    string         `json:"imageUrl,omitempty"`
	ProductType string         `json:"productType,omitempty"`
	CreatedAt   time.Time      `json:"createdAt"`
	UpdatedAt   time.Time      `json:"updatedAt"`
	RawData     map[string]any `json:"-"`
}

// IsInStock reports whether the product is currently available.
func (p Product) IsInStock() bool {
	return p.Available
}

// HasPrice reports whether pricing information is present.
func (p Product) HasPrice() bool {
	return p.PriceMin != nil
}

// Equal compares products by identity.
func (p Product) Equal(other Product) bool {
	return p.ID == other.ID
}
