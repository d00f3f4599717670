package repositories

import (
	"context"

	"github.com/anonto42/nano-social/backend/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// FollowRepository defines the interface for follow edge operations
type FollowRepository interface {
	CreateFollow(ctx context.Context, followerID, followingID string) (bool, error)
	DeleteFollow(ctx context.Context, followerID, followingID string) (int64, error)
	IsFollowing(ctx context.Context, followerID, followingID string) (bool, error)
	GetFollowers(ctx context.Context, userID string) ([]models.FollowEdge, error)
	GetFollowing(ctx context.Context, userID string) ([]models.FollowEdge, error)
	GetFollowingIDs(ctx context.Context, userID string) ([]string, error)
}

// PostgresFollowRepository implements FollowRepository with GORM
type PostgresFollowRepository struct {
	db *gorm.DB
}

// NewPostgresFollowRepository creates a new PostgresFollowRepository
func NewPostgresFollowRepository(db *gorm.DB) *PostgresFollowRepository {
	return &PostgresFollowRepository{db: db}
}

// CreateFollow inserts the edge unless it already exists. It reports whether a
// new edge was written; an existing edge is a successful no-op.
func (r *PostgresFollowRepository) CreateFollow(ctx context.Context, followerID, followingID string) (bool, error) {
	var created bool
	var missing string

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var ids []string
		if err := tx.Model(&models.User{}).Where("id IN ?", []string{followerID, followingID}).Pluck("id", &ids).Error; err != nil {
			return err
		}
		if missing = firstMissing(ids, followerID, followingID); missing != "" {
			return gorm.ErrRecordNotFound
		}

		follow := models.Follow{FollowerID: followerID, FollowingID: followingID}
		res := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "follower_id"}, {Name: "following_id"}},
			DoNothing: true,
		}).Create(&follow)
		if res.Error != nil {
			return res.Error
		}
		created = res.RowsAffected == 1
		return nil
	})
	if err != nil {
		if missing == "" {
			// foreign key violation: a user was deleted between the check and the insert
			missing = followingID
		}
		return false, translate("create follow", "user", missing, err)
	}
	return created, nil
}

// DeleteFollow removes every edge for the pair and returns how many were removed
func (r *PostgresFollowRepository) DeleteFollow(ctx context.Context, followerID, followingID string) (int64, error) {
	res := r.db.WithContext(ctx).Where("follower_id = ? AND following_id = ?", followerID, followingID).Delete(&models.Follow{})
	if res.Error != nil {
		return 0, translate("delete follow", "follow", followerID+"->"+followingID, res.Error)
	}
	return res.RowsAffected, nil
}

func (r *PostgresFollowRepository) IsFollowing(ctx context.Context, followerID, followingID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Follow{}).
		Where("follower_id = ? AND following_id = ?", followerID, followingID).
		Count(&count).Error
	if err != nil {
		return false, translate("check follow", "follow", followerID+"->"+followingID, err)
	}
	return count > 0, nil
}

// GetFollowers returns the edges pointing at userID with each follower's profile, oldest first
func (r *PostgresFollowRepository) GetFollowers(ctx context.Context, userID string) ([]models.FollowEdge, error) {
	var follows []models.Follow
	err := r.db.WithContext(ctx).
		Preload("Follower", selectSummary).
		Where("following_id = ?", userID).
		Order("created_at ASC, id ASC").
		Find(&follows).Error
	if err != nil {
		return nil, translate("list followers", "user", userID, err)
	}

	edges := make([]models.FollowEdge, 0, len(follows))
	for _, f := range follows {
		edge := toEdge(f)
		if f.Follower != nil {
			summary := f.Follower.ToSummary()
			edge.Follower = &summary
		}
		edges = append(edges, edge)
	}
	return edges, nil
}

// GetFollowing returns the edges leaving userID with each followed profile, oldest first
func (r *PostgresFollowRepository) GetFollowing(ctx context.Context, userID string) ([]models.FollowEdge, error) {
	var follows []models.Follow
	err := r.db.WithContext(ctx).
		Preload("Following", selectSummary).
		Where("follower_id = ?", userID).
		Order("created_at ASC, id ASC").
		Find(&follows).Error
	if err != nil {
		return nil, translate("list following", "user", userID, err)
	}

	edges := make([]models.FollowEdge, 0, len(follows))
	for _, f := range follows {
		edge := toEdge(f)
		if f.Following != nil {
			summary := f.Following.ToSummary()
			edge.Following = &summary
		}
		edges = append(edges, edge)
	}
	return edges, nil
}

func (r *PostgresFollowRepository) GetFollowingIDs(ctx context.Context, userID string) ([]string, error) {
	ids := []string{}
	err := r.db.WithContext(ctx).Model(&models.Follow{}).Where("follower_id = ?", userID).Pluck("following_id", &ids).Error
	if err != nil {
		return nil, translate("list following ids", "user", userID, err)
	}
	return ids, nil
}

func selectSummary(db *gorm.DB) *gorm.DB {
	return db.Select(models.SummaryColumns)
}

func toEdge(f models.Follow) models.FollowEdge {
	return models.FollowEdge{
		ID:          f.ID,
		FollowerID:  f.FollowerID,
		FollowingID: f.FollowingID,
		CreatedAt:   f.CreatedAt,
	}
}

func firstMissing(found []string, want ...string) string {
	present := make(map[string]bool, len(found))
	for _, id := range found {
		present[id] = true
	}
	for _, id := range want {
		if !present[id] {
			return id
		}
	}
	return ""
}
