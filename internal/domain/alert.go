package domain

import (
	"fmt"
	"time"
)

// AlertType identifies what kind of change an alert reports.
type AlertType string

const (
	AlertTypeNewAdsBoost AlertType = "NEW_ADS_BOOST"
	AlertTypeScoreJump   AlertType = "SCORE_JUMP"
	AlertTypeScoreDrop   AlertType = "SCORE_DROP"
	AlertTypeTierUp      AlertType = "TIER_UP"
	AlertTypeTierDown    AlertType = "TIER_DOWN"
)

// AlertSeverity is the display severity of an alert.
type AlertSeverity string

const (
	SeverityInfo     AlertSeverity = "info"
	SeverityWarning  AlertSeverity = "warning"
	SeverityCritical AlertSeverity = "critical"
)

// Alert is a persisted notification about a significant change detected
// during a page rescore. Never mutated after creation.
type Alert struct {
	ID        string        `json:"id"`
	PageID    string        `json:"pageId"`
	Type      AlertType     `json:"type"`
	Message   string        `json:"message"`
	Severity  AlertSeverity `json:"severity"`
	OldScore  *float64      `json:"oldScore,omitempty"`
	NewScore  *float64      `json:"newScore,omitempty"`
	OldTier   string        `json:"oldTier,omitempty"`
	NewTier   string        `json:"newTier,omitempty"`
	CreatedAt time.Time     `json:"createdAt"`
}

// NewAdsBoostAlert reports an ads count increase past the boost ratio.
func NewAdsBoostAlert(id, pageID string, oldCount, newCount int) Alert {
	return Alert{
		ID:        id,
		PageID:    pageID,
		Type:      AlertTypeNewAdsBoost,
		Message:   fmt.Sprintf("Ads count increased from %d to %d (+%d)", oldCount, newCount, newCount-oldCount),
		Severity:  SeverityWarning,
		CreatedAt: time.Now().UTC(),
	}
}

// NewScoreJumpAlert reports a score increase past the change threshold.
func NewScoreJumpAlert(id, pageID string, oldScore, newScore float64) Alert {
	return Alert{
		ID:        id,
		PageID:    pageID,
		Type:      AlertTypeScoreJump,
		Message:   fmt.Sprintf("Score jumped from %.1f to %.1f (+%.1f)", oldScore, newScore, newScore-oldScore),
		Severity:  SeverityWarning,
		OldScore:  &oldScore,
		NewScore:  &newScore,
		CreatedAt: time.Now().UTC(),
	}
}

// NewScoreDropAlert reports a score decrease past the change threshold.
func NewScoreDropAlert(id, pageID string, oldScore, newScore float64) Alert {
	return Alert{
		ID:        id,
		PageID:    pageID,
		Type:      AlertTypeScoreDrop,
		Message:   fmt.Sprintf("Score dropped from %.1f to %.1f (%.1f)", oldScore, newScore, newScore-oldScore),
		Severity:  SeverityWarning,
		OldScore:  &oldScore,
		NewScore:  &newScore,
		CreatedAt: time.Now().UTC(),
	}
}

// NewTierUpAlert reports a tier improvement.
func NewTierUpAlert(id, pageID, oldTier, newTier string) Alert {
	return Alert{
		ID:        id,
		PageID:    pageID,
		Type:      AlertTypeTierUp,
		Message:   fmt.Sprintf("Tier upgraded from %s to %s", oldTier, newTier),
		Severity:  SeverityInfo,
		OldTier:   oldTier,
		NewTier:   newTier,
		CreatedAt: time.Now().UTC(),
	}
}

// NewTierDownAlert reports a tier degradation.
func NewTierDownAlert(id, pageID, oldTier, newTier string) Alert {
	return Alert{
		ID:        id,
		PageID:    pageID,
		Type:      AlertTypeTierDown,
		Message:   fmt.Sprintf("Tier downgraded from %s to %s", oldTier, newTier),
		Severity:  SeverityWarning,
		OldTier:   oldTier,
		NewTier:   newTier,
		CreatedAt: time.Now().UTC(),
	}
}

// Equal compares alerts by identity.
func (a Alert) Equal(other Alert) bool {
	return a.ID == other.ID
}
