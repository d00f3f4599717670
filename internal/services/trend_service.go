package services

import (
	"context"
	"strconv"
	"time"

	"github.com/anonto42/nano-social/backend/internal/models"
	"github.com/anonto42/nano-social/backend/internal/repositories"
	"github.com/anonto42/nano-social/backend/pkg/cache"
	"github.com/anonto42/nano-social/backend/pkg/logger"
	"go.uber.org/zap"
)

// TrendService serves the popular tags feed, read through a cache
type TrendService struct {
	trends repositories.TrendRepository
	cache  *cache.Cache
	ttl    time.Duration
	limit  int
}

func NewTrendService(trends repositories.TrendRepository, c *cache.Cache, ttl time.Duration, limit int) *TrendService {
	return &TrendService{trends: trends, cache: c, ttl: ttl, limit: limit}
}

// PopularTrends returns the top tags. Cache errors fall through to the source.
func (s *TrendService) PopularTrends(ctx context.Context) ([]models.Trend, error) {
	key := "popular:" + strconv.Itoa(s.limit)

	var cached []models.Trend
	hit, err := s.cache.Get(ctx, key, &cached)
	if err != nil {
		logger.Get().Warn("trend cache read failed", zap.Error(err))
	}
	if hit {
		return cached, nil
	}

	trends, err := s.trends.PopularTrends(ctx, s.limit)
	if err != nil {
		return nil, err
	}

	if err := s.cache.Set(ctx, key, trends, s.ttl); err != nil {
		logger.Get().Warn("trend cache write failed", zap.Error(err))
	}
	return trends, nil
}
