package repositories

import (
	"context"

	"github.com/anonto42/nano-social/backend/internal/models"
	apperrors "github.com/anonto42/nano-social/backend/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// TrendRepository aggregates tags over posts
type TrendRepository interface {
	PopularTrends(ctx context.Context, limit int) ([]models.Trend, error)
}

// MongoTrendRepository implements TrendRepository over the posts collection
type MongoTrendRepository struct {
	collection *mongo.Collection
}

// NewMongoTrendRepository creates a new MongoTrendRepository
func NewMongoTrendRepository(db *mongo.Database) *MongoTrendRepository {
	return &MongoTrendRepository{collection: db.Collection("posts")}
}

// PopularTrends returns the limit most used tags, most used first and ties by name
func (r *MongoTrendRepository) PopularTrends(ctx context.Context, limit int) ([]models.Trend, error) {
	cursor, err := r.collection.Aggregate(ctx, trendsPipeline(limit))
	if err != nil {
		return nil, apperrors.NewStorageUnavailable("aggregate trends", err)
	}
	defer cursor.Close(ctx)

	trends := []models.Trend{}
	if err = cursor.All(ctx, &trends); err != nil {
		return nil, apperrors.NewStorageUnavailable("decode trends", err)
	}
	return trends, nil
}

func trendsPipeline(limit int) mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"tags.0": bson.M{"$exists": true}}}},
		{{Key: "$unwind", Value: "$tags"}},
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$tags"},
			{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "count", Value: -1}, {Key: "_id", Value: 1}}}},
		{{Key: "$limit", Value: int64(limit)}},
	}
}
