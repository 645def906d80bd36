package domain

import "time"

// AdStatus is the delivery status of an ad as reported by the ad library.
type AdStatus string

const (
	AdStatusActive   AdStatus = "active"
	AdStatusInactive AdStatus = "inactive"
	AdStatusUnknown  AdStatus = "unknown"
)

// Ad represents a single advertisement from the Meta Ad Library,
// associated with a specific page/advertiser. Read-only inside the
// matching pipeline.
type Ad struct {
	ID          string     `json:"id"`
	PageID      string     `json:"pageId"`
	MetaAdID    string     `json:"metaAdId"`
	Title       string     `json:"title,omitempty"`
	Body        string     `json:"body,omitempty"`
	LinkURL     string     `json:"linkUrl,omitempty"`
	ImageURL    string     `json:"imageUrl,omitempty"`
	Status      AdStatus   `json:"status"`
	StartedAt   *time.Time `json:"startedAt,omitempty"`
	EndedAt     *time.Time `json:"endedAt,omitempty"`
	FirstSeenAt time.Time  `json:"firstSeenAt"`
	LastSeenAt  time.Time  `json:"lastSeenAt"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// IsActive reports whether the ad is currently running. Promotion
// classification in the insights read-model depends on this.
func (a Ad) IsActive() bool {
	return a.Status == AdStatusActive
}

// HasLink reports whether the ad has a destination URL.
func (a Ad) HasLink() bool {
	return a.LinkURL != ""
}

// RunningDays returns how many days the ad has been running, or false
// if the start date is unknown.
func (a Ad) RunningDays(now time.Time) (int, bool) {
	if a.StartedAt == nil {
		return 0, false
	}
	end := now
	if a.EndedAt != nil {
		end = *a.EndedAt
	}
	return int(end.Sub(*a.StartedAt).Hours() / 24), true
}
