package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"campaignAdvisor/app/echo-server/router"
	"campaignAdvisor/business/bandit"
	"campaignAdvisor/business/recommendation"
	"campaignAdvisor/internal/middleware"
	psqlRepo "campaignAdvisor/internal/repository/postgres"
	redisRepo "campaignAdvisor/internal/repository/redis"
	"campaignAdvisor/internal/rest"
	"campaignAdvisor/pkg/config"
	"campaignAdvisor/pkg/database"
	redisdb "campaignAdvisor/pkg/database/redis"
	"campaignAdvisor/pkg/logger"
	"campaignAdvisor/pkg/metrics"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger.Init(cfg.App.Environment)
	defer logger.Sync()
	logger.Info("Starting Campaign Advisor", "version", cfg.App.Version)

	metrics.Init()

	// Telemetry sinks
	var (
		sinks       bandit.MultiSink
		db          *gorm.DB
		redisClient *redis.Client
	)

	if cfg.Telemetry.Has(config.SinkLog) {
		sinks = append(sinks, bandit.LogSink{})
	}

	if cfg.Telemetry.Has(config.SinkPostgres) {
		db, err = database.InitPostgres(cfg)
		if err != nil {
			logger.Fatal("Failed to connect to database", "error", err)
		}
		logger.Info("Database connected successfully")

		telemetryRepo := psqlRepo.NewTelemetryRepository(db)
		if err := telemetryRepo.Migrate(); err != nil {
			logger.Fatal("Failed to migrate telemetry table", "error", err)
		}
		sinks = append(sinks, telemetryRepo)
	}

	if cfg.Telemetry.Has(config.SinkRedis) {
		redisClient, err = redisdb.NewRedisClient(cfg)
		if err != nil {
			logger.Fatal("Failed to connect to Redis", "error", err)
		}
		logger.Info("Redis connected successfully")

		sinks = append(sinks, redisRepo.NewTelemetryPublisher(redisClient, cfg.Telemetry.RedisChannel))
	}

	// Init bandit
	strategy, err := bandit.ParseStrategy(cfg.Bandit.Strategy)
	if err != nil {
		logger.Fatal("Invalid bandit strategy", "error", err)
	}

	banditCfg := bandit.DefaultConfig()
	banditCfg.Strategy = strategy
	banditCfg.ExplorationFactor = cfg.Bandit.ExplorationFactor
	banditCfg.MinSampleSize = cfg.Bandit.MinSampleSize
	banditCfg.EpsilonDecay = cfg.Bandit.EpsilonDecay
	banditCfg.HybridSwitchPulls = cfg.Bandit.HybridSwitchPulls
	banditCfg.MaxOutcomes = cfg.Bandit.MaxOutcomes

	var opts []bandit.Option
	if len(sinks) > 0 {
		opts = append(opts, bandit.WithTelemetry(sinks))
	}

	selector, err := bandit.NewSelector(banditCfg, opts...)
	if err != nil {
		logger.Fatal("Failed to create bandit selector", "error", err)
	}
	banditService := bandit.NewGated(cfg.Bandit.Enabled, selector)

	logger.Info("Bandit initialized",
		"enabled", banditService.Enabled(),
		"strategy", banditCfg.Strategy,
		"telemetry_sinks", cfg.Telemetry.Sinks,
	)

	// Init scorer
	enhancedScorer := recommendation.NewScorer(recommendation.Options{
		Enhanced:          true,
		PriorityThreshold: cfg.Recommendation.PriorityThreshold,
	})
	fallbackScorer := recommendation.NewScorer(recommendation.Options{
		Enhanced:          false,
		PriorityThreshold: cfg.Recommendation.PriorityThreshold,
	})

	// Init handler
	banditHandler := rest.NewBanditHandler(banditService)
	banditAdminHandler := rest.NewBanditAdminHandler(banditService)
	recommendationHandler := rest.NewRecommendationHandler(enhancedScorer, fallbackScorer, cfg.Recommendation.Enhanced)

	// Init echo
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// HTTP error handler
	e.HTTPErrorHandler = middleware.ErrorHandler

	// Global middleware
	e.Use(echomiddleware.Recover())
	e.Use(middleware.TraceID())
	e.Use(middleware.RateLimit(cfg.Server.RateLimitRPS, cfg.Server.RateLimitBurst))
	e.Use(metrics.Middleware())
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins: []string{"http://localhost:3000", "http://localhost:8080"},
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderXRequestID},
	}))

	// Setup routes
	router.SetOpsRoutes(e)
	api := e.Group("/api/v1")
	router.SetBanditRoutes(api, banditHandler, banditAdminHandler)
	router.SetRecommendationRoutes(api, recommendationHandler)

	// Goroutine server
	go func() {
		addr := fmt.Sprintf(":%s", cfg.Server.Port)
		logger.Info("Server starting", "address", addr)
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", "error", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		logger.Error("Server shutdown error", "error", err)
	}

	if err := redisdb.CloseRedisClient(redisClient); err != nil {
		logger.Error("Redis close error", "error", err)
	}
	if err := database.ClosePostgres(db); err != nil {
		logger.Error("Database close error", "error", err)
	}

	logger.Info("Server stopped")
}
