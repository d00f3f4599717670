package services

import (
	"context"

	"github.com/anonto42/nano-social/backend/internal/models"
	"github.com/anonto42/nano-social/backend/internal/repositories"
)

// SuggestionService recommends users the actor does not follow yet
type SuggestionService struct {
	follows repositories.FollowRepository
	users   repositories.UserRepository
}

func NewSuggestionService(follows repositories.FollowRepository, users repositories.UserRepository) *SuggestionService {
	return &SuggestionService{follows: follows, users: users}
}

// Suggestions returns every user other than actorID that actorID does not
// follow, ordered by id. Without an actor every user is a candidate.
func (s *SuggestionService) Suggestions(ctx context.Context, actorID string) ([]models.UserSummary, error) {
	if actorID == "" {
		return s.users.ListUsersExcluding(ctx, nil)
	}

	followingIDs, err := s.follows.GetFollowingIDs(ctx, actorID)
	if err != nil {
		return nil, err
	}
	return s.users.ListUsersExcluding(ctx, append(followingIDs, actorID))
}
