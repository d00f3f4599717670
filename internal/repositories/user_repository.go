package repositories

import (
	"context"
	"strings"

	"github.com/anonto42/nano-social/backend/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// identityColumns are the fields owned by the identity provider; a repeated
// create event overwrites only these
var identityColumns = []string{"first_name", "last_name", "email_address", "image_url", "username", "updated_at"}

// UserRepository defines the interface for user data operations
type UserRepository interface {
	UpsertUser(ctx context.Context, user *models.User) error
	UpdateUser(ctx context.Context, id string, changes map[string]interface{}) error
	GetUserByID(ctx context.Context, id string) (*models.UserProfile, error)
	DeleteUser(ctx context.Context, id string) error
	ListUsersExcluding(ctx context.Context, excludedIDs []string) ([]models.UserSummary, error)
	SearchUsers(ctx context.Context, query string, isInfluencer *bool, limit int) ([]models.UserSummary, error)
}

// PostgresUserRepository implements UserRepository with GORM
type PostgresUserRepository struct {
	db *gorm.DB
}

// NewPostgresUserRepository creates a new PostgresUserRepository
func NewPostgresUserRepository(db *gorm.DB) *PostgresUserRepository {
	return &PostgresUserRepository{db: db}
}

// UpsertUser inserts the user, or updates its identity fields when the id already exists
func (r *PostgresUserRepository) UpsertUser(ctx context.Context, user *models.User) error {
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns(identityColumns),
	}).Create(user).Error
	return translate("upsert user", "user", user.ID, err)
}

// UpdateUser applies changes to an existing user
func (r *PostgresUserRepository) UpdateUser(ctx context.Context, id string, changes map[string]interface{}) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var user models.User
		if err := tx.Select("id").Where("id = ?", id).First(&user).Error; err != nil {
			return err
		}
		if len(changes) == 0 {
			return nil
		}
		return tx.Model(&models.User{}).Where("id = ?", id).Updates(changes).Error
	})
	return translate("update user", "user", id, err)
}

// GetUserByID retrieves the profile projection of a user
func (r *PostgresUserRepository) GetUserByID(ctx context.Context, id string) (*models.UserProfile, error) {
	var user models.User
	err := r.db.WithContext(ctx).Select(models.ProfileColumns).Where("id = ?", id).First(&user).Error
	if err != nil {
		return nil, translate("get user", "user", id, err)
	}
	profile := user.ToProfile()
	return &profile, nil
}

// DeleteUser deletes a user together with every follow edge and notification referencing it.
// The foreign keys cascade as well; the explicit deletes keep engines without
// enforced foreign keys consistent.
func (r *PostgresUserRepository) DeleteUser(ctx context.Context, id string) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("follower_id = ? OR following_id = ?", id, id).Delete(&models.Follow{}).Error; err != nil {
			return err
		}
		if err := tx.Where("actor_id = ? OR recipient_id = ?", id, id).Delete(&models.Notification{}).Error; err != nil {
			return err
		}
		res := tx.Where("id = ?", id).Delete(&models.User{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
	return translate("delete user", "user", id, err)
}

// ListUsersExcluding returns every user whose id is not in excludedIDs, ordered by id
func (r *PostgresUserRepository) ListUsersExcluding(ctx context.Context, excludedIDs []string) ([]models.UserSummary, error) {
	var users []models.User
	q := r.db.WithContext(ctx).Select(models.SummaryColumns)
	if len(excludedIDs) > 0 {
		q = q.Where("id NOT IN ?", excludedIDs)
	}
	if err := q.Order("id").Find(&users).Error; err != nil {
		return nil, translate("list users", "user", "", err)
	}
	return toSummaries(users), nil
}

// SearchUsers matches query case-insensitively as a substring of the name, email,
// username and bio fields, or exactly against one of the tags. isInfluencer narrows
// the matches when set.
func (r *PostgresUserRepository) SearchUsers(ctx context.Context, query string, isInfluencer *bool, limit int) ([]models.UserSummary, error) {
	pattern := "%" + escapeLike(strings.ToLower(query)) + "%"

	db := r.db.WithContext(ctx)
	anyField := db.Where("LOWER(first_name) LIKE ? ESCAPE '\\'", pattern).
		Or("LOWER(last_name) LIKE ? ESCAPE '\\'", pattern).
		Or("LOWER(email_address) LIKE ? ESCAPE '\\'", pattern).
		Or("LOWER(username) LIKE ? ESCAPE '\\'", pattern).
		Or("LOWER(bio) LIKE ? ESCAPE '\\'", pattern).
		Or(r.hasTagExpr(), query)

	q := db.Model(&models.User{}).Select(models.SummaryColumns).Where(anyField)
	if isInfluencer != nil {
		q = q.Where("is_influencer = ?", *isInfluencer)
	}

	var users []models.User
	if err := q.Order("id").Limit(limit).Find(&users).Error; err != nil {
		return nil, translate("search users", "user", "", err)
	}
	return toSummaries(users), nil
}

// hasTagExpr tests whether the JSON tags array holds an element equal to ?.
// A missing or null array holds nothing.
func (r *PostgresUserRepository) hasTagExpr() string {
	if r.db.Dialector.Name() == "sqlite" {
		return "EXISTS (SELECT 1 FROM json_each(CASE WHEN json_valid(users.tags) THEN users.tags ELSE '[]' END) AS t WHERE t.type = 'text' AND t.value = ?)"
	}
	return "(CASE WHEN users.tags IS NULL OR users.tags = '' THEN '[]'::jsonb ELSE users.tags::jsonb END) @> jsonb_build_array(?::text)"
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

func toSummaries(users []models.User) []models.UserSummary {
	summaries := make([]models.UserSummary, len(users))
	for i := range users {
		summaries[i] = users[i].ToSummary()
	}
	return summaries
}
