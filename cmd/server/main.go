package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/anonto42/nano-social/backend/internal/monitoring"
	"github.com/anonto42/nano-social/backend/internal/router"
	"github.com/anonto42/nano-social/backend/internal/services"
	"github.com/anonto42/nano-social/backend/pkg/config"
	"github.com/anonto42/nano-social/backend/pkg/firebase"
	"github.com/anonto42/nano-social/backend/pkg/logger"
	"github.com/anonto42/nano-social/backend/validators"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if err := logger.Init(cfg.Env); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	// Initialize database connections
	db, err := config.InitDB(cfg)
	if err != nil {
		logger.Get().Fatal("Failed to initialize databases", zap.Error(err))
	}
	defer db.CloseDB()

	// Initialize Firebase
	ctx := context.Background()
	firebaseApp, err := firebase.InitFirebase(ctx, cfg.FirebaseCredentialsPath, cfg.FirebaseStorageBucket)
	if err != nil {
		logger.Get().Fatal("Failed to initialize Firebase", zap.Error(err))
	}

	// A nil *MediaStore must not become a non-nil interface
	var media services.MediaStore
	if firebaseApp.Media != nil {
		media = firebaseApp.Media
	}

	mongoDB := db.Mongo.Database(cfg.MongoDatabase)

	// Create Echo instance
	e := echo.New()
	e.HideBanner = true
	e.Validator = validators.NewValidator()

	// Setup global middleware
	config.SetupMiddleware(e)

	// Setup routes and dependencies
	err = router.SetupRoutes(e, router.Dependencies{
		Postgres:       db.Postgres,
		Mongo:          mongoDB,
		Redis:          db.Redis,
		Verifier:       firebaseApp.AuthClient,
		Media:          media,
		WebhookSecret:  cfg.WebhookSecret,
		TrendsCacheTTL: cfg.TrendsCacheTTL,
		TrendsLimit:    cfg.TrendsLimit,
	})
	if err != nil {
		logger.Get().Fatal("Failed to set up routes", zap.Error(err))
	}

	metrics := &http.Server{Addr: ":" + cfg.MetricsPort, Handler: monitoring.MetricsMux()}
	go func() {
		logger.Get().Info("Metrics server listening", zap.String("port", cfg.MetricsPort))
		if err := metrics.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Get().Error("Metrics server stopped", zap.Error(err))
		}
	}()

	go func() {
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Get().Fatal("Server stopped", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	shutdownCtx, stop := context.WithTimeout(context.Background(), 10*time.Second)
	defer stop()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Get().Error("Server shutdown failed", zap.Error(err))
	}
	if err := metrics.Shutdown(shutdownCtx); err != nil {
		logger.Get().Error("Metrics server shutdown failed", zap.Error(err))
	}
	logger.Get().Info("Server stopped")
}
