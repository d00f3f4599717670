package router

import (
	"context"
	"fmt"
	"time"

	"github.com/anonto42/nano-social/backend/internal/handlers"
	"github.com/anonto42/nano-social/backend/internal/middleware"
	"github.com/anonto42/nano-social/backend/internal/monitoring"
	"github.com/anonto42/nano-social/backend/internal/repositories"
	"github.com/anonto42/nano-social/backend/internal/services"
	"github.com/anonto42/nano-social/backend/pkg/cache"
	"github.com/anonto42/nano-social/backend/pkg/logger"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"gorm.io/gorm"
)

// Dependencies are the connections and collaborators the routes are built from
type Dependencies struct {
	Postgres       *gorm.DB
	Mongo          *mongo.Database
	Redis          *redis.Client // optional
	Verifier       middleware.IdentityVerifier
	Media          services.MediaStore // optional
	WebhookSecret  string
	TrendsCacheTTL time.Duration
	TrendsLimit    int
}

// SetupRoutes migrates the schema, wires repositories and services, and registers every route
func SetupRoutes(e *echo.Echo, deps Dependencies) error {
	if err := repositories.AutoMigrate(deps.Postgres); err != nil {
		return fmt.Errorf("failed to auto migrate models: %w", err)
	}
	logger.Get().Info("PostgreSQL auto-migrations completed")

	e.Use(monitoring.Middleware())

	// --- Initialize Repositories ---
	userRepo := repositories.NewPostgresUserRepository(deps.Postgres)
	followRepo := repositories.NewPostgresFollowRepository(deps.Postgres)
	notificationRepo := repositories.NewPostgresNotificationRepository(deps.Postgres)
	trendRepo := repositories.NewMongoTrendRepository(deps.Mongo)

	// --- Initialize Services ---
	userService := services.NewUserService(userRepo)
	bannerService := services.NewBannerService(userRepo, deps.Media)
	followService := services.NewFollowService(followRepo, userRepo, notificationRepo)
	suggestionService := services.NewSuggestionService(followRepo, userRepo)
	searchService := services.NewSearchService(userRepo)
	trendService := services.NewTrendService(trendRepo, cache.New(deps.Redis, "trends"), deps.TrendsCacheTTL, deps.TrendsLimit)

	session := middleware.FirebaseAuthMiddleware(deps.Verifier)
	optionalSession := middleware.OptionalFirebaseAuth(deps.Verifier)
	webhookAuth := middleware.JWTAuthMiddleware(deps.WebhookSecret)

	handlers.NewHealthHandler(healthChecks(deps)...).RegisterHealthRoutes(e)

	api := e.Group("/api/v1")

	handlers.NewSearchHandler(searchService).RegisterSearchRoutes(api)
	handlers.NewUserHandler(userService, bannerService).RegisterUserRoutes(api, webhookAuth, session)
	handlers.NewFollowHandler(followService, suggestionService).RegisterFollowRoutes(api, session, optionalSession)
	handlers.NewTrendHandler(trendService).RegisterTrendRoutes(api)
	handlers.NewNotificationHandler(notificationRepo).RegisterNotificationRoutes(api, session)
	handlers.NewWebhookHandler(userService).RegisterWebhookRoutes(api, webhookAuth)

	logger.Get().Info("All routes configured")
	return nil
}

func healthChecks(deps Dependencies) []handlers.HealthCheck {
	checks := []handlers.HealthCheck{
		{Name: "postgres", Check: func(ctx context.Context) error {
			sqlDB, err := deps.Postgres.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		}},
		{Name: "mongo", Check: func(ctx context.Context) error {
			return deps.Mongo.Client().Ping(ctx, nil)
		}},
	}
	if deps.Redis != nil {
		checks = append(checks, handlers.HealthCheck{Name: "redis", Optional: true, Check: func(ctx context.Context) error {
			return deps.Redis.Ping(ctx).Err()
		}})
	}
	return checks
}
