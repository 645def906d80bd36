package usecase

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/shopradar/backend/internal/domain"
)

// DetectAlertsInput is a snapshot comparison request. The old fields are
// nil on the first-ever scoring of a page, in which case no comparison is
// possible and no alerts are raised.
type DetectAlertsInput struct {
	PageID      string
	NewScore    float64
	NewTier     string
	NewAdsCount int
	OldScore    *float64
	OldTier     *string
	OldAdsCount *int
}

// AlertThresholds configures alert detection.
type AlertThresholds struct {
	ScoreChange   float64
	AdsBoostRatio float64
}

// DefaultAlertThresholds returns the production thresholds.
func DefaultAlertThresholds() AlertThresholds {
	return AlertThresholds{
		ScoreChange:   domain.ScoreChangeThreshold,
		AdsBoostRatio: domain.AdsBoostRatioThreshold,
	}
}

// AlertDetectionService compares successive scoring snapshots and raises
// alerts on significant changes. Stateless; every call is a pure function
// of its input except for persisting the produced alerts.
type AlertDetectionService struct {
	alerts     domain.AlertRepository
	logger     *zap.Logger
	thresholds AlertThresholds
}

// NewAlertDetectionService creates the service. Zero-valued thresholds
// fall back to the defaults.
func NewAlertDetectionService(alerts domain.AlertRepository, logger *zap.Logger, thresholds AlertThresholds) *AlertDetectionService {
	def := DefaultAlertThresholds()
	if thresholds.ScoreChange <= 0 {
		thresholds.ScoreChange = def.ScoreChange
	}
	if thresholds.AdsBoostRatio <= 0 {
		thresholds.AdsBoostRatio = def.AdsBoostRatio
	}
	return &AlertDetectionService{
		alerts:     alerts,
		logger:     logger,
		thresholds: thresholds,
	}
}

// Execute runs the five alert checks and persists each produced alert
// individually. A save failure is logged and skipped; the remaining
// alerts are still attempted. Only successfully persisted alerts are
// returned, in deterministic check order (ads boost, score jump, score
// drop, tier up, tier down).
func (s *AlertDetectionService) Execute(ctx context.Context, input DetectAlertsInput) ([]domain.Alert, error) {
	s.logger.Debug("starting alert detection",
		zap.String("page_id", input.PageID),
		zap.Float64("new_score", input.NewScore),
		zap.String("new_tier", input.NewTier),
	)

	// No baseline, no comparison possible.
	if input.OldScore == nil {
		s.logger.Info("no historical data for page, skipping alert detection",
			zap.String("page_id", input.PageID),
		)
		return []domain.Alert{}, nil
	}

	var alerts []domain.Alert
	for _, check := range []func(DetectAlertsInput) *domain.Alert{
		s.checkAdsBoost,
		s.checkScoreJump,
		s.checkScoreDrop,
		s.checkTierUp,
		s.checkTierDown,
	} {
		if alert := check(input); alert != nil {
			alerts = append(alerts, *alert)
		}
	}

	saved := make([]domain.Alert, 0, len(alerts))
	for _, alert := range alerts {
		persisted, err := s.alerts.Save(ctx, alert)
		if err != nil {
			s.logger.Error("failed to save alert",
				zap.String("alert_type", string(alert.Type)),
				zap.String("page_id", alert.PageID),
				zap.Error(err),
			)
			continue
		}
		saved = append(saved, persisted)
		s.logger.Info("alert created",
			zap.String("alert_id", persisted.ID),
			zap.String("alert_type", string(persisted.Type)),
			zap.String("page_id", persisted.PageID),
			zap.String("severity", string(persisted.Severity)),
		)
	}

	s.logger.Info("alert detection completed",
		zap.String("page_id", input.PageID),
		zap.Int("alerts_created", len(saved)),
	)
	return saved, nil
}

func (s *AlertDetectionService) checkAdsBoost(input DetectAlertsInput) *domain.Alert {
	if input.OldAdsCount == nil {
		return nil
	}

	base := *input.OldAdsCount
	if base < 1 {
		base = 1 // avoid division by zero
	}
	if input.NewAdsCount <= base {
		return nil
	}

	ratio := float64(input.NewAdsCount-base) / float64(base)
	if ratio >= s.thresholds.AdsBoostRatio {
		alert := domain.NewAdsBoostAlert(uuid.NewString(), input.PageID, *input.OldAdsCount, input.NewAdsCount)
		return &alert
	}
	return nil
}

func (s *AlertDetectionService) checkScoreJump(input DetectAlertsInput) *domain.Alert {
	if input.NewScore-*input.OldScore >= s.thresholds.ScoreChange {
		alert := domain.NewScoreJumpAlert(uuid.NewString(), input.PageID, *input.OldScore, input.NewScore)
		return &alert
	}
	return nil
}

func (s *AlertDetectionService) checkScoreDrop(input DetectAlertsInput) *domain.Alert {
	if *input.OldScore-input.NewScore >= s.thresholds.ScoreChange {
		alert := domain.NewScoreDropAlert(uuid.NewString(), input.PageID, *input.OldScore, input.NewScore)
		return &alert
	}
	return nil
}

func (s *AlertDetectionService) checkTierUp(input DetectAlertsInput) *domain.Alert {
	oldTier, newTier, ok := s.tierPair(input)
	if !ok {
		return nil
	}
	oldRank, _ := domain.TierRank(oldTier)
	newRank, _ := domain.TierRank(newTier)
	// Lower rank = better tier.
	if newRank < oldRank {
		alert := domain.NewTierUpAlert(uuid.NewString(), input.PageID, oldTier, newTier)
		return &alert
	}
	return nil
}

func (s *AlertDetectionService) checkTierDown(input DetectAlertsInput) *domain.Alert {
	oldTier, newTier, ok := s.tierPair(input)
	if !ok {
		return nil
	}
	oldRank, _ := domain.TierRank(oldTier)
	newRank, _ := domain.TierRank(newTier)
	if newRank > oldRank {
		alert := domain.NewTierDownAlert(uuid.NewString(), input.PageID, oldTier, newTier)
		return &alert
	}
	return nil
}

// tierPair normalizes the tier pair for comparison. Unknown tiers skip
// the check without raising: upstream writes occasionally carry miscased
// or stale tiers, and a missed alert is preferred over a failed rescore.
// The skip is logged so data-quality issues stay visible.
func (s *AlertDetectionService) tierPair(input DetectAlertsInput) (oldTier, newTier string, ok bool) {
	if input.OldTier == nil {
		return "", "", false
	}
	oldTier = normalizeTier(*input.OldTier)
	newTier = normalizeTier(input.NewTier)
	if oldTier == newTier {
		return "", "", false
	}
	if _, valid := domain.TierRank(oldTier); !valid {
		s.logger.Warn("unrecognized tier, skipping tier checks",
			zap.String("page_id", input.PageID),
			zap.String("tier", oldTier),
		)
		return "", "", false
	}
	if _, valid := domain.TierRank(newTier); !valid {
		s.logger.Warn("unrecognized tier, skipping tier checks",
			zap.String("page_id", input.PageID),
			zap.String("tier", newTier),
		)
		return "", "", false
	}
	return oldTier, newTier, true
}

func normalizeTier(tier string) string {
	return strings.ToUpper(tier)
}
