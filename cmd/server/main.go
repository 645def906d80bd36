package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"go.uber.org/zap"

	"github.com/shopradar/backend/config"
	httpDelivery "github.com/shopradar/backend/internal/delivery/http"
	"github.com/shopradar/backend/internal/infrastructure/cache"
	"github.com/shopradar/backend/internal/infrastructure/metaads"
	"github.com/shopradar/backend/internal/infrastructure/postgres"
	"github.com/shopradar/backend/internal/usecase"
	"github.com/shopradar/backend/pkg/logging"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger, err := logging.New(cfg.Server.Environment)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer logger.Sync()

	logger.Info("starting shopradar backend",
		zap.String("environment", cfg.Server.Environment),
		zap.String("port", cfg.Server.Port),
	)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := postgres.Connect(ctx, cfg.Database.URL, &postgres.PoolConfig{
		MaxConns: cfg.Database.MaxConns,
		MinConns: cfg.Database.MinConns,
	})
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}
	defer pool.Close()

	if err := postgres.Migrate(ctx, pool); err != nil {
		logger.Fatal("failed to migrate database", zap.Error(err))
	}

	pageRepo := postgres.NewPageRepository(pool)
	productRepo := postgres.NewProductRepository(pool)
	adRepo := postgres.NewAdRepository(pool)
	alertRepo := postgres.NewAlertRepository(pool)

	adsClient := metaads.NewClient(metaads.Config{
		AccessToken:     cfg.AdsLibrary.AccessToken,
		BaseURL:         cfg.AdsLibrary.BaseURL,
		ReachedCountry:  cfg.AdsLibrary.ReachedCountry,
		MaxAds:          cfg.AdsLibrary.MaxAds,
		RequestsPerHour: cfg.AdsLibrary.RequestsPerHour,
	}, logger)
	if cfg.AdsLibrary.AccessToken == "" {
		logger.Warn("ad library access token not configured, ads refresh will fail")
	}

	matchConfig := usecase.MatchConfig{
		URLMatchWeight:          cfg.Matching.URLMatchWeight,
		HandleMatchWeight:       cfg.Matching.HandleMatchWeight,
		TextSimilarityWeight:    cfg.Matching.TextSimilarityWeight,
		TextSimilarityThreshold: cfg.Matching.TextSimilarityThreshold,
		MinScoreThreshold:       cfg.Matching.MinScoreThreshold,
	}

	insightsService := usecase.NewProductInsightsService(pageRepo, productRepo, adRepo, logger, matchConfig)
	alertService := usecase.NewAlertDetectionService(alertRepo, logger, usecase.AlertThresholds{
		ScoreChange:   cfg.Alerts.ScoreChangeThreshold,
		AdsBoostRatio: cfg.Alerts.AdsBoostRatio,
	})
	refreshService := usecase.NewAdsRefreshService(pageRepo, adRepo, adsClient, logger)

	handler := httpDelivery.NewHandler(
		insightsService,
		alertService,
		refreshService,
		alertRepo,
		cache.NewMemoryCache(),
		httpDelivery.HandlerConfig{
			CacheTTL:        cfg.Cache.TTL,
			AlertsListLimit: cfg.Alerts.ListLimit,
		},
		logger,
	)

	router := httpDelivery.SetupRouter(cfg, handler, logger)

	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	logger.Info("server listening", zap.String("addr", addr))

	if err := router.Run(addr); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}
