package metaads

import (
	"strings"
	"time"

	"github.com/shopradar/backend/internal/domain"
)

// mapAd converts an ad library payload to a domain ad. The library only
// returns ads matching the requested delivery status, but a stop time in
// the payload still marks the ad inactive: archive entries can lag the
// actual delivery state.
func mapAd(payload adPayload) domain.Ad {
	now := time.Now().UTC()

	ad := domain.Ad{
		MetaAdID:    payload.ID,
		Title:       first(payload.AdCreativeLinkTitles),
		Body:        first(payload.AdCreativeBodies),
		LinkURL:     normalizeLink(first(payload.AdCreativeLinkCaptions)),
		ImageURL:    payload.AdSnapshotURL,
		Status:      domain.AdStatusActive,
		FirstSeenAt: now,
		LastSeenAt:  now,
	}

	if started, ok := parseDeliveryTime(payload.AdDeliveryStartTime); ok {
		ad.StartedAt = &started
	}
	if stopped, ok := parseDeliveryTime(payload.AdDeliveryStopTime); ok {
		ad.EndedAt = &stopped
		ad.Status = domain.AdStatusInactive
	}

	return ad
}

func first(values []string) string {
	if len(values) == 0 {
		return ""
	}
	return values[0]
}

// normalizeLink turns a link caption (usually a bare display domain like
// STORE.COM) into a usable URL.
func normalizeLink(caption string) string {
	caption = strings.TrimSpace(caption)
	if caption == "" {
		return ""
	}
	lowered := strings.ToLower(caption)
	if strings.HasPrefix(lowered, "http://") || strings.HasPrefix(lowered, "https://") {
		return caption
	}
	return "https://" + caption
}

// parseDeliveryTime accepts both date-only and RFC 3339 delivery
// timestamps, which the ad library mixes freely.
func parseDeliveryTime(value string) (time.Time, bool) {
	if value == "" {
		return time.Time{}, false
	}
	layouts := []string{
		time.RFC3339,
		"2006-01-02T15:04:05-0700", // Meta omits the colon in the offset
		"2006-01-02",
	}
	for _, layout := range layouts {
		if ts, err := time.Parse(layout, value); err == nil {
			return ts.UTC(), true
		}
	}
	return time.Time{}, false
}
