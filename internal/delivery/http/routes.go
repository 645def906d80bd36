package http

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/shopradar/backend/config"
)

// SetupRouter creates and configures the Gin router.
func SetupRouter(cfg *config.Config, handler *Handler, logger *zap.Logger) *gin.Engine {
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	router.Use(RecoveryMiddleware())
	router.Use(RequestLogger(logger))
	router.Use(CORSMiddleware(cfg.Server.AllowedOrigins))
	router.Use(RateLimitMiddleware(cfg.RateLimit.PerIP))

	router.GET("/health", handler.HealthCheck)

	v1 := router.Group("/api/v1")
	{
		pages := v1.Group("/pages/:pageId")
		{
			pages.GET("/insights/products", handler.GetPageProductInsights)
			pages.GET("/products/:productId/insights", handler.GetProductInsights)
			pages.POST("/alerts/detect", handler.DetectAlerts)
			pages.GET("/alerts", handler.ListAlerts)
			pages.POST("/ads/refresh", handler.RefreshAds)
		}
	}

	return router
}
