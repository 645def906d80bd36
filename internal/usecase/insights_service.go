package usecase

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/shopradar/backend/internal/domain"
)

// InsightsResult is the outcome of building insights for a page.
// ErrorMessage is set for soft outcomes (no products, no ads) which are
// valid business states, not failures.
type InsightsResult struct {
	PageID           string
	Insights         domain.PageProductInsights
	ProductsAnalyzed int
	AdsAnalyzed      int
	MatchesFound     int
	ErrorMessage     string
}

// ProductInsightsService builds product-ad insight read-models for a
// page: fetch products, fetch ads, run the matcher over the cross
// product and aggregate. Nothing is persisted; insights are recomputed
// on every call.
type ProductInsightsService struct {
	pages    domain.PageRepository
	products domain.ProductRepository
	ads      domain.AdRepository
	logger   *zap.Logger
	config   MatchConfig
}

// NewProductInsightsService creates the service. A zero-valued config
// falls back to the default weights and thresholds.
func NewProductInsightsService(
	pages domain.PageRepository,
	products domain.ProductRepository,
	ads domain.AdRepository,
	logger *zap.Logger,
	config MatchConfig,
) *ProductInsightsService {
	return &ProductInsightsService{
		pages:    pages,
		products: products,
		ads:      ads,
		logger:   logger,
		config:   config.withDefaults(),
	}
}

// Execute builds insights for every product of a page, analyzing at most
// maxProducts products (<= 0 uses the default cap). A missing page is a
// NotFoundError; an empty catalog or ad list is a soft outcome carried in
// ErrorMessage.
func (s *ProductInsightsService) Execute(ctx context.Context, pageID string, maxProducts int) (*InsightsResult, error) {
	if maxProducts <= 0 {
		maxProducts = domain.DefaultMaxProducts
	}
	s.logger.Info("building product insights",
		zap.String("page_id", pageID),
		zap.Int("max_products", maxProducts),
	)

	page, err := s.pages.Get(ctx, pageID)
	if err != nil {
		return nil, err
	}
	if page == nil {
		return nil, domain.NewNotFoundError("page", pageID)
	}

	products, err := s.products.ListByPage(ctx, pageID, maxProducts, 0)
	if err != nil {
		return nil, err
	}
	if len(products) == 0 {
		s.logger.Info("no products found for page", zap.String("page_id", pageID))
		return &InsightsResult{
			PageID: pageID,
			Insights: domain.PageProductInsights{
				PageID:     pageID,
				ComputedAt: time.Now().UTC(),
			},
			ErrorMessage: "No products found for this page",
		}, nil
	}

	ads, err := s.ads.ListByPage(ctx, pageID)
	if err != nil {
		return nil, err
	}
	if len(ads) == 0 {
		s.logger.Info("no ads found for page",
			zap.String("page_id", pageID),
			zap.Int("products_count", len(products)),
		)
		// Products are still reported so callers can show "0 matches"
		// rather than nothing.
		insights := make([]domain.ProductInsights, 0, len(products))
		for _, product := range products {
			insights = append(insights, domain.ProductInsights{
				Product:    product,
				ComputedAt: time.Now().UTC(),
			})
		}
		return &InsightsResult{
			PageID: pageID,
			Insights: domain.PageProductInsights{
				PageID:          pageID,
				ProductInsights: insights,
				TotalProducts:   len(products),
				ComputedAt:      time.Now().UTC(),
			},
			ProductsAnalyzed: len(products),
			ErrorMessage:     "No ads found for this page",
		}, nil
	}

	s.logger.Info("matching products to ads",
		zap.String("page_id", pageID),
		zap.Int("products_count", len(products)),
		zap.Int("ads_count", len(ads)),
	)

	productInsights := make([]domain.ProductInsights, 0, len(products))
	totalMatches := 0
	for _, product := range products {
		matches := MatchProductToAds(product, ads, s.config)
		totalMatches += len(matches)
		productInsights = append(productInsights, domain.ProductInsights{
			Product:          product,
			MatchedAds:       matches,
			TotalAdsAnalyzed: len(ads),
			ComputedAt:       time.Now().UTC(),
		})
	}

	pageInsights := domain.PageProductInsights{
		PageID:          pageID,
		ProductInsights: productInsights,
		TotalProducts:   len(products),
		TotalAds:        len(ads),
		ComputedAt:      time.Now().UTC(),
	}

	s.logger.Info("product insights built",
		zap.String("page_id", pageID),
		zap.Int("products_analyzed", len(products)),
		zap.Int("ads_analyzed", len(ads)),
		zap.Int("matches_found", totalMatches),
		zap.Int("products_with_ads", pageInsights.ProductsWithAds()),
		zap.Int("promoted_count", pageInsights.PromotedProductsCount()),
	)

	return &InsightsResult{
		PageID:           pageID,
		Insights:         pageInsights,
		ProductsAnalyzed: len(products),
		AdsAnalyzed:      len(ads),
		MatchesFound:     totalMatches,
	}, nil
}

// ExecuteForProduct builds insights for a single product. The product
// must exist and belong to the page; a mismatch is treated the same as
// not found. Absence of ads yields an empty match list, no soft error.
func (s *ProductInsightsService) ExecuteForProduct(ctx context.Context, pageID, productID string) (*domain.ProductInsights, error) {
	s.logger.Info("building insights for single product",
		zap.String("page_id", pageID),
		zap.String("product_id", productID),
	)

	page, err := s.pages.Get(ctx, pageID)
	if err != nil {
		return nil, err
	}
	if page == nil {
		return nil, domain.NewNotFoundError("page", pageID)
	}

	product, err := s.products.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if product == nil || product.PageID != pageID {
		return nil, domain.NewNotFoundError("product", productID)
	}

	ads, err := s.ads.ListByPage(ctx, pageID)
	if err != nil {
		return nil, err
	}

	matches := MatchProductToAds(*product, ads, s.config)

	s.logger.Info("single product insights built",
		zap.String("page_id", pageID),
		zap.String("product_id", productID),
		zap.Int("matches_found", len(matches)),
	)

	return &domain.ProductInsights{
		Product:          *product,
		MatchedAds:       matches,
		TotalAdsAnalyzed: len(ads),
		ComputedAt:       time.Now().UTC(),
	}, nil
}
