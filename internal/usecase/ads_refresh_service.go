package usecase

import (
	"context"

	"go.uber.org/zap"

	"github.com/shopradar/backend/internal/domain"
)

// AdsRefreshResult reports the outcome of an ads refresh.
type AdsRefreshResult struct {
	PageID     string
	AdsFetched int
	AdsActive  int
	AdsStored  int
}

// AdsRefreshService pulls the current ads for a page from the ad library
// and upserts them through the ad repository, giving the matching
// pipeline a fresh corpus. It does not decide when to run; callers
// invoke it explicitly.
type AdsRefreshService struct {
	pages  domain.PageRepository
	ads    domain.AdRepository
	source domain.AdsSource
	logger *zap.Logger
}

// NewAdsRefreshService creates the service.
func NewAdsRefreshService(pages domain.PageRepository, ads domain.AdRepository, source domain.AdsSource, logger *zap.Logger) *AdsRefreshService {
	return &AdsRefreshService{pages: pages, ads: ads, source: source, logger: logger}
}

// Execute refreshes the ads of one page. A missing page or a page with
// no ad-library identifier is a NotFoundError. Individual upsert
// failures are logged and skipped so one bad row cannot abort the batch.
func (s *AdsRefreshService) Execute(ctx context.Context, pageID string) (*AdsRefreshResult, error) {
	page, err := s.pages.Get(ctx, pageID)
	if err != nil {
		return nil, err
	}
	if page == nil || page.MetaPageID == "" {
		return nil, domain.NewNotFoundError("page", pageID)
	}

	s.logger.Info("refreshing page ads",
		zap.String("page_id", pageID),
		zap.String("meta_page_id", page.MetaPageID),
	)

	fetched, err := s.source.FetchAdsByPage(ctx, page.MetaPageID)
	if err != nil {
		return nil, err
	}

	result := &AdsRefreshResult{PageID: pageID, AdsFetched: len(fetched)}
	for _, ad := range fetched {
		ad.PageID = pageID
		if err := s.ads.Upsert(ctx, ad); err != nil {
			s.logger.Error("failed to upsert ad",
				zap.String("page_id", pageID),
				zap.String("meta_ad_id", ad.MetaAdID),
				zap.Error(err),
			)
			continue
		}
		result.AdsStored++
		if ad.IsActive() {
			result.AdsActive++
		}
	}

	s.logger.Info("page ads refreshed",
		zap.String("page_id", pageID),
		zap.Int("ads_fetched", result.AdsFetched),
		zap.Int("ads_stored", result.AdsStored),
		zap.Int("ads_active", result.AdsActive),
	)
	return result, nil
}
