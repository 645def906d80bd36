package http

import (
	"time"

	"github.com/shopradar/backend/internal/domain"
	"github.com/shopradar/backend/internal/usecase"
)

// detectAlertsRequest carries the snapshot comparison for alert
// detection. The old fields are omitted on a page's first scoring.
type detectAlertsRequest struct {
	NewScore    float64  `json:"newScore"`
	NewTier     string   `json:"newTier"`
	NewAdsCount int      `json:"newAdsCount"`
	OldScore    *float64 `json:"oldScore"`
	OldTier     *string  `json:"oldTier"`
	OldAdsCount *int     `json:"oldAdsCount"`
}

// productInsightsDTO is the wire form of one product's insights,
// flattening the derived accessors clients would otherwise recompute.
type productInsightsDTO struct {
	Product          domain.Product   `json:"product"`
	MatchedAds       []domain.AdMatch `json:"matchedAds"`
	TotalAdsAnalyzed int              `json:"totalAdsAnalyzed"`
	MatchScore       float64          `json:"matchScore"`
	MatchReasons     []string         `json:"matchReasons"`
	IsPromoted       bool             `json:"isPromoted"`
	HasStrongMatch   bool             `json:"hasStrongMatch"`
	ComputedAt       time.Time        `json:"computedAt"`
}

func newProductInsightsDTO(pi domain.ProductInsights) productInsightsDTO {
	matched := pi.MatchedAds
	if matched == nil {
		matched = []domain.AdMatch{}
	}
	reasons := pi.MatchReasons()
	if reasons == nil {
		reasons = []string{}
	}
	return productInsightsDTO{
		Product:          pi.Product,
		MatchedAds:       matched,
		TotalAdsAnalyzed: pi.TotalAdsAnalyzed,
		MatchScore:       pi.MatchScore(),
		MatchReasons:     reasons,
		IsPromoted:       pi.IsPromoted(),
		HasStrongMatch:   pi.HasStrongMatch(),
		ComputedAt:       pi.ComputedAt,
	}
}

// insightsResponse is the wire form of a whole-page insights build.
type insightsResponse struct {
	PageID           string               `json:"pageId"`
	Products         []productInsightsDTO `json:"products"`
	TotalProducts    int                  `json:"totalProducts"`
	TotalAds         int                  `json:"totalAds"`
	ProductsWithAds  int                  `json:"productsWithAds"`
	PromotedProducts int                  `json:"promotedProducts"`
	CoverageRatio    float64              `json:"coverageRatio"`
	PromotionRatio   float64              `json:"promotionRatio"`
	MatchesFound     int                  `json:"matchesFound"`
	ErrorMessage     string               `json:"error,omitempty"`
	Cached           bool                 `json:"cached"`
	ComputedAt       time.Time            `json:"computedAt"`
}

func newInsightsResponse(result *usecase.InsightsResult, cached bool) insightsResponse {
	products := make([]productInsightsDTO, 0, len(result.Insights.ProductInsights))
	for _, pi := range result.Insights.ProductInsights {
		products = append(products, newProductInsightsDTO(pi))
	}
	return insightsResponse{
		PageID:           result.PageID,
		Products:         products,
		TotalProducts:    result.Insights.TotalProducts,
		TotalAds:         result.Insights.TotalAds,
		ProductsWithAds:  result.Insights.ProductsWithAds(),
		PromotedProducts: result.Insights.PromotedProductsCount(),
		CoverageRatio:    result.Insights.CoverageRatio(),
		PromotionRatio:   result.Insights.PromotionRatio(),
		MatchesFound:     result.MatchesFound,
		ErrorMessage:     result.ErrorMessage,
		Cached:           cached,
		ComputedAt:       result.Insights.ComputedAt,
	}
}
