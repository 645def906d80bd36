package http

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/shopradar/backend/internal/domain"
	"github.com/shopradar/backend/internal/usecase"
)

// insightsBuilder builds product-ad insight read-models.
type insightsBuilder interface {
	Execute(ctx context.Context, pageID string, maxProducts int) (*usecase.InsightsResult, error)
	ExecuteForProduct(ctx context.Context, pageID, productID string) (*domain.ProductInsights, error)
}

// alertDetector compares scoring snapshots and persists alerts.
type alertDetector interface {
	Execute(ctx context.Context, input usecase.DetectAlertsInput) ([]domain.Alert, error)
}

// adsRefresher pulls fresh ads from the ad library.
type adsRefresher interface {
	Execute(ctx context.Context, pageID string) (*usecase.AdsRefreshResult, error)
}

// alertLister reads back persisted alerts.
type alertLister interface {
	ListByPage(ctx context.Context, pageID string, limit int) ([]domain.Alert, error)
}

// resultCache memoizes freshly computed insight results.
type resultCache interface {
	Get(ctx context.Context, key string) (any, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
}

// Handler holds dependencies for HTTP handlers.
type Handler struct {
	insights        insightsBuilder
	alerts          alertDetector
	refresher       adsRefresher
	alertStore      alertLister
	cache           resultCache
	cacheTTL        time.Duration
	alertsListLimit int
	logger          *zap.Logger
}

// HandlerConfig tunes handler behavior.
type HandlerConfig struct {
	CacheTTL        time.Duration
	AlertsListLimit int
}

// NewHandler creates the HTTP handler.
func NewHandler(
	insights insightsBuilder,
	alerts alertDetector,
	refresher adsRefresher,
	alertStore alertLister,
	cache resultCache,
	cfg HandlerConfig,
	logger *zap.Logger,
) *Handler {
	ttl := cfg.CacheTTL
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	listLimit := cfg.AlertsListLimit
	if listLimit <= 0 {
		listLimit = 50
	}
	return &Handler{
		insights:        insights,
		alerts:          alerts,
		refresher:       refresher,
		alertStore:      alertStore,
		cache:           cache,
		cacheTTL:        ttl,
		alertsListLimit: listLimit,
		logger:          logger,
	}
}

// HealthCheck returns the health status of the API.
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "shopradar-backend",
		"version": "1.0.0",
	})
}

// GetPageProductInsights builds insights for every product of a page.
func (h *Handler) GetPageProductInsights(c *gin.Context) {
	pageID := c.Param("pageId")

	maxProducts := 0
	if raw := c.Query("max_products"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "max_products must be a positive integer"})
			return
		}
		maxProducts = parsed
	}

	cacheKey := "insights:" + pageID + ":" + strconv.Itoa(maxProducts)
	if h.cache != nil {
		if cached, err := h.cache.Get(c.Request.Context(), cacheKey); err == nil {
			if result, ok := cached.(*usecase.InsightsResult); ok {
				c.JSON(http.StatusOK, newInsightsResponse(result, true))
				return
			}
		}
	}

	result, err := h.insights.Execute(c.Request.Context(), pageID, maxProducts)
	if err != nil {
		h.respondError(c, err)
		return
	}

	if h.cache != nil {
		_ = h.cache.Set(c.Request.Context(), cacheKey, result, h.cacheTTL)
	}
	c.JSON(http.StatusOK, newInsightsResponse(result, false))
}

// GetProductInsights builds insights for a single product of a page.
func (h *Handler) GetProductInsights(c *gin.Context) {
	pageID := c.Param("pageId")
	productID := c.Param("productId")

	insights, err := h.insights.ExecuteForProduct(c.Request.Context(), pageID, productID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, newProductInsightsDTO(*insights))
}

// DetectAlerts runs alert detection for a page against a previous
// scoring snapshot supplied by the caller.
func (h *Handler) DetectAlerts(c *gin.Context) {
	pageID := c.Param("pageId")

	var req detectAlertsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}

	newTier := req.NewTier
	if newTier == "" {
		newTier = domain.ScoreToTier(req.NewScore)
	}

	alerts, err := h.alerts.Execute(c.Request.Context(), usecase.DetectAlertsInput{
		PageID:      pageID,
		NewScore:    req.NewScore,
		NewTier:     newTier,
		NewAdsCount: req.NewAdsCount,
		OldScore:    req.OldScore,
		OldTier:     req.OldTier,
		OldAdsCount: req.OldAdsCount,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"pageId":        pageID,
		"alertsCreated": len(alerts),
		"alerts":        alerts,
	})
}

// ListAlerts returns the page's persisted alerts, newest first.
func (h *Handler) ListAlerts(c *gin.Context) {
	pageID := c.Param("pageId")

	limit := h.alertsListLimit
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
			return
		}
		limit = parsed
	}

	alerts, err := h.alertStore.ListByPage(c.Request.Context(), pageID, limit)
	if err != nil {
		h.respondError(c, err)
		return
	}
	if alerts == nil {
		alerts = []domain.Alert{}
	}

	c.JSON(http.StatusOK, gin.H{
		"pageId": pageID,
		"alerts": alerts,
	})
}

// RefreshAds pulls the page's current ads from the ad library.
func (h *Handler) RefreshAds(c *gin.Context) {
	pageID := c.Param("pageId")

	result, err := h.refresher.Execute(c.Request.Context(), pageID)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"pageId":     result.PageID,
		"adsFetched": result.AdsFetched,
		"adsActive":  result.AdsActive,
		"adsStored":  result.AdsStored,
	})
}

func (h *Handler) respondError(c *gin.Context, err error) {
	if errors.Is(err, domain.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	if errors.Is(err, domain.ErrInvalidInput) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	h.logger.Error("request failed",
		zap.String("path", c.FullPath()),
		zap.Error(err),
	)
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
}
