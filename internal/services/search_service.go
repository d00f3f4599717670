package services

import (
	"context"
	"fmt"

	"github.com/anonto42/nano-social/backend/internal/models"
	"github.com/anonto42/nano-social/backend/internal/monitoring"
	"github.com/anonto42/nano-social/backend/internal/repositories"
	apperrors "github.com/anonto42/nano-social/backend/pkg/errors"
)

// SearchLimit caps every search; there is no pagination
const SearchLimit = 10

// Search type filters
const (
	SearchTypeAll        = "all"
	SearchTypeInfluencer = "influencer"
	SearchTypeCompany    = "company"
)

type SearchService struct {
	users repositories.UserRepository
}

func NewSearchService(users repositories.UserRepository) *SearchService {
	return &SearchService{users: users}
}

// Search returns at most SearchLimit users matching query. An empty searchType means all.
func (s *SearchService) Search(ctx context.Context, query, searchType string) ([]models.UserSummary, error) {
	var isInfluencer *bool
	switch searchType {
	case "", SearchTypeAll:
		searchType = SearchTypeAll
	case SearchTypeInfluencer:
		v := true
		isInfluencer = &v
	case SearchTypeCompany:
		v := false
		isInfluencer = &v
	default:
		return nil, apperrors.NewValidationFailed(fmt.Sprintf("unknown search type %q", searchType), nil)
	}

	monitoring.UserSearches.WithLabelValues(searchType).Inc()
	return s.users.SearchUsers(ctx, query, isInfluencer, SearchLimit)
}
