package services

import (
	"context"

	"github.com/anonto42/nano-social/backend/internal/models"
	"github.com/anonto42/nano-social/backend/internal/repositories"
	apperrors "github.com/anonto42/nano-social/backend/pkg/errors"
	"github.com/anonto42/nano-social/backend/pkg/logger"
	"go.uber.org/zap"
)

// UserService owns profile records
type UserService struct {
	users repositories.UserRepository
}

func NewUserService(users repositories.UserRepository) *UserService {
	return &UserService{users: users}
}

// CreateUser stores a new profile. Identity events may be redelivered, so an
// existing id is updated instead of rejected.
func (s *UserService) CreateUser(ctx context.Context, req models.CreateUserRequest) Result {
	if req.ID == "" {
		return s.fail("create user", req.ID, apperrors.NewValidationFailed("id is required", nil))
	}
	if err := s.users.UpsertUser(ctx, req.ToUser()); err != nil {
		return s.fail("create user", req.ID, err)
	}
	logger.Get().Info("user saved", zap.String("user_id", req.ID))
	return succeeded()
}

func (s *UserService) UpdateUser(ctx context.Context, req models.UpdateUserRequest) Result {
	return s.update(ctx, "update user", req.ID, req.Changes())
}

// GetUser returns the profile projection, or nil when no such user exists
func (s *UserService) GetUser(ctx context.Context, id string) (*models.UserProfile, error) {
	profile, err := s.users.GetUserByID(ctx, id)
	if apperrors.IsKind(err, apperrors.KindNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return profile, nil
}

// DeleteUser removes the user and every follow edge touching it
func (s *UserService) DeleteUser(ctx context.Context, id string) Result {
	if err := s.users.DeleteUser(ctx, id); err != nil {
		return s.fail("delete user", id, err)
	}
	logger.Get().Info("user deleted", zap.String("user_id", id))
	return succeeded()
}

func (s *UserService) UpdateBio(ctx context.Context, id, bio string) Result {
	return s.update(ctx, "update bio", id, map[string]interface{}{"bio": bio})
}

func (s *UserService) UpdateInfluencerStatus(ctx context.Context, id string, isInfluencer bool) Result {
	return s.update(ctx, "update influencer status", id, map[string]interface{}{"is_influencer": isInfluencer})
}

func (s *UserService) update(ctx context.Context, operation, id string, changes map[string]interface{}) Result {
	if id == "" {
		return s.fail(operation, id, apperrors.NewValidationFailed("id is required", nil))
	}
	if err := s.users.UpdateUser(ctx, id, changes); err != nil {
		return s.fail(operation, id, err)
	}
	logger.Get().Debug("user updated", zap.String("operation", operation), zap.String("user_id", id))
	return succeeded()
}

func (s *UserService) fail(operation, id string, err error) Result {
	logger.Get().Error("user write failed",
		zap.String("operation", operation),
		zap.String("user_id", id),
		zap.Error(err),
	)
	return failed(err)
}
