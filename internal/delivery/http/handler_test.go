package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/shopradar/backend/internal/domain"
	"github.com/shopradar/backend/internal/usecase"
)

type stubInsights struct {
	result        *usecase.InsightsResult
	single        *domain.ProductInsights
	err           error
	executeCalled int
}

func (s *stubInsights) Execute(ctx context.Context, pageID string, maxProducts int) (*usecase.InsightsResult, error) {
	s.executeCalled++
	return s.result, s.err
}

func (s *stubInsights) ExecuteForProduct(ctx context.Context, pageID, productID string) (*domain.ProductInsights, error) {
	return s.single, s.err
}

type stubAlerts struct {
	alerts []domain.Alert
	err    error
	input  usecase.DetectAlertsInput
}

func (s *stubAlerts) Execute(ctx context.Context, input usecase.DetectAlertsInput) ([]domain.Alert, error) {
	s.input = input
	return s.alerts, s.err
}

type stubRefresher struct {
	result *usecase.AdsRefreshResult
	err    error
}

func (s *stubRefresher) Execute(ctx context.Context, pageID string) (*usecase.AdsRefreshResult, error) {
	return s.result, s.err
}

type stubAlertLister struct {
	alerts []domain.Alert
	err    error
}

func (s *stubAlertLister) ListByPage(ctx context.Context, pageID string, limit int) ([]domain.Alert, error) {
	return s.alerts, s.err
}

type mapCache struct {
	data map[string]any
}

func (c *mapCache) Get(ctx context.Context, key string) (any, error) {
	if v, ok := c.data[key]; ok {
		return v, nil
	}
	return nil, domain.ErrCacheMiss
}

func (c *mapCache) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	c.data[key] = value
	return nil
}

func newTestRouter(h *Handler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/health", h.HealthCheck)
	v1 := router.Group("/api/v1")
	pages := v1.Group("/pages/:pageId")
	pages.GET("/insights/products", h.GetPageProductInsights)
	pages.GET("/products/:productId/insights", h.GetProductInsights)
	pages.POST("/alerts/detect", h.DetectAlerts)
	pages.GET("/alerts", h.ListAlerts)
	pages.POST("/ads/refresh", h.RefreshAds)
	return router
}

func newHandler(insights *stubInsights, alerts *stubAlerts, refresher *stubRefresher, lister *stubAlertLister, cache resultCache) *Handler {
	return NewHandler(insights, alerts, refresher, lister, cache, HandlerConfig{}, zap.NewNop())
}

func sampleResult() *usecase.InsightsResult {
	match, _ := domain.NewAdMatch(domain.Ad{ID: "ad-1", Status: domain.AdStatusActive}, 0.95,
		domain.MatchStrengthStrong, []string{"URL direct match"})
	return &usecase.InsightsResult{
		PageID: "page-1",
		Insights: domain.PageProductInsights{
			PageID: "page-1",
			ProductInsights: []domain.ProductInsights{
				{
					Product:          domain.Product{ID: "p1", Handle: "awesome-t-shirt"},
					MatchedAds:       []domain.AdMatch{match},
					TotalAdsAnalyzed: 1,
					ComputedAt:       time.Now().UTC(),
				},
			},
			TotalProducts: 1,
			TotalAds:      1,
			ComputedAt:    time.Now().UTC(),
		},
		ProductsAnalyzed: 1,
		AdsAnalyzed:      1,
		MatchesFound:     1,
	}
}

func TestHealthCheck(t *testing.T) {
	h := newHandler(&stubInsights{}, &stubAlerts{}, &stubRefresher{}, &stubAlertLister{}, nil)
	router := newTestRouter(h)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "healthy")
}

func TestGetPageProductInsights(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		insights := &stubInsights{result: sampleResult()}
		h := newHandler(insights, &stubAlerts{}, &stubRefresher{}, &stubAlertLister{}, nil)
		router := newTestRouter(h)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/v1/pages/page-1/insights/products", nil)
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)

		var resp insightsResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "page-1", resp.PageID)
		assert.Equal(t, 1, resp.TotalProducts)
		assert.Equal(t, 1, resp.ProductsWithAds)
		assert.Equal(t, 1, resp.PromotedProducts)
		assert.Equal(t, 1.0, resp.CoverageRatio)
		assert.False(t, resp.Cached)
		require.Len(t, resp.Products, 1)
		assert.True(t, resp.Products[0].IsPromoted)
		assert.Equal(t, 0.95, resp.Products[0].MatchScore)
	})

	t.Run("memoizes via cache", func(t *testing.T) {
		insights := &stubInsights{result: sampleResult()}
		cache := &mapCache{data: map[string]any{}}
		h := newHandler(insights, &stubAlerts{}, &stubRefresher{}, &stubAlertLister{}, cache)
		router := newTestRouter(h)

		for i := 0; i < 2; i++ {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/api/v1/pages/page-1/insights/products", nil)
			router.ServeHTTP(w, req)
			require.Equal(t, http.StatusOK, w.Code)
		}

		assert.Equal(t, 1, insights.executeCalled)
	})

	t.Run("missing page", func(t *testing.T) {
		insights := &stubInsights{err: domain.NewNotFoundError("page", "nope")}
		h := newHandler(insights, &stubAlerts{}, &stubRefresher{}, &stubAlertLister{}, nil)
		router := newTestRouter(h)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/v1/pages/nope/insights/products", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Contains(t, w.Body.String(), "page not found")
	})

	t.Run("invalid max_products", func(t *testing.T) {
		h := newHandler(&stubInsights{}, &stubAlerts{}, &stubRefresher{}, &stubAlertLister{}, nil)
		router := newTestRouter(h)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/v1/pages/page-1/insights/products?max_products=abc", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("internal error", func(t *testing.T) {
		insights := &stubInsights{err: assert.AnError}
		h := newHandler(insights, &stubAlerts{}, &stubRefresher{}, &stubAlertLister{}, nil)
		router := newTestRouter(h)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/v1/pages/page-1/insights/products", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.NotContains(t, w.Body.String(), assert.AnError.Error())
	})
}

func TestGetProductInsights(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		insights := &stubInsights{single: &domain.ProductInsights{
			Product:          domain.Product{ID: "p1", PageID: "page-1"},
			TotalAdsAnalyzed: 3,
			ComputedAt:       time.Now().UTC(),
		}}
		h := newHandler(insights, &stubAlerts{}, &stubRefresher{}, &stubAlertLister{}, nil)
		router := newTestRouter(h)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/v1/pages/page-1/products/p1/insights", nil)
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)

		var dto productInsightsDTO
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &dto))
		assert.Equal(t, "p1", dto.Product.ID)
		assert.Equal(t, 3, dto.TotalAdsAnalyzed)
		assert.NotNil(t, dto.MatchedAds)
		assert.False(t, dto.IsPromoted)
	})

	t.Run("missing product", func(t *testing.T) {
		insights := &stubInsights{err: domain.NewNotFoundError("product", "p9")}
		h := newHandler(insights, &stubAlerts{}, &stubRefresher{}, &stubAlertLister{}, nil)
		router := newTestRouter(h)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/v1/pages/page-1/products/p9/insights", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestDetectAlerts(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		alerts := &stubAlerts{alerts: []domain.Alert{
			domain.NewScoreJumpAlert("a1", "page-1", 45.0, 72.0),
		}}
		h := newHandler(&stubInsights{}, alerts, &stubRefresher{}, &stubAlertLister{}, nil)
		router := newTestRouter(h)

		body := `{"newScore": 72.0, "newTier": "XL", "newAdsCount": 20, "oldScore": 45.0, "oldTier": "L", "oldAdsCount": 10}`
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/v1/pages/page-1/alerts/detect", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"alertsCreated":1`)
		assert.Equal(t, "page-1", alerts.input.PageID)
		require.NotNil(t, alerts.input.OldScore)
		assert.Equal(t, 45.0, *alerts.input.OldScore)
	})

	t.Run("first scoring omits old fields", func(t *testing.T) {
		alerts := &stubAlerts{}
		h := newHandler(&stubInsights{}, alerts, &stubRefresher{}, &stubAlertLister{}, nil)
		router := newTestRouter(h)

		body := `{"newScore": 50.0, "newTier": "M", "newAdsCount": 5}`
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/v1/pages/page-1/alerts/detect", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		assert.Nil(t, alerts.input.OldScore)
		assert.Contains(t, w.Body.String(), `"alertsCreated":0`)
	})

	t.Run("derives tier from score when omitted", func(t *testing.T) {
		alerts := &stubAlerts{}
		h := newHandler(&stubInsights{}, alerts, &stubRefresher{}, &stubAlertLister{}, nil)
		router := newTestRouter(h)

		body := `{"newScore": 72.0, "newAdsCount": 5}`
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/v1/pages/page-1/alerts/detect", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "XL", alerts.input.NewTier)
	})

	t.Run("malformed body", func(t *testing.T) {
		h := newHandler(&stubInsights{}, &stubAlerts{}, &stubRefresher{}, &stubAlertLister{}, nil)
		router := newTestRouter(h)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/v1/pages/page-1/alerts/detect", strings.NewReader("{not json"))
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestListAlerts(t *testing.T) {
	t.Run("empty list marshals as array", func(t *testing.T) {
		h := newHandler(&stubInsights{}, &stubAlerts{}, &stubRefresher{}, &stubAlertLister{}, nil)
		router := newTestRouter(h)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/v1/pages/page-1/alerts", nil)
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"alerts":[]`)
	})

	t.Run("invalid limit", func(t *testing.T) {
		h := newHandler(&stubInsights{}, &stubAlerts{}, &stubRefresher{}, &stubAlertLister{}, nil)
		router := newTestRouter(h)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/v1/pages/page-1/alerts?limit=-1", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestRefreshAds(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		refresher := &stubRefresher{result: &usecase.AdsRefreshResult{
			PageID:     "page-1",
			AdsFetched: 10,
			AdsActive:  8,
			AdsStored:  10,
		}}
		h := newHandler(&stubInsights{}, &stubAlerts{}, refresher, &stubAlertLister{}, nil)
		router := newTestRouter(h)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/v1/pages/page-1/ads/refresh", nil)
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"adsFetched":10`)
		assert.Contains(t, w.Body.String(), `"adsActive":8`)
	})

	t.Run("page without ad library id", func(t *testing.T) {
		refresher := &stubRefresher{err: domain.NewNotFoundError("page", "page-1")}
		h := newHandler(&stubInsights{}, &stubAlerts{}, refresher, &stubAlertLister{}, nil)
		router := newTestRouter(h)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/v1/pages/page-1/ads/refresh", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}
