package services

import (
	"context"
	"fmt"

	"github.com/anonto42/nano-social/backend/internal/models"
	"github.com/anonto42/nano-social/backend/internal/monitoring"
	"github.com/anonto42/nano-social/backend/internal/repositories"
	apperrors "github.com/anonto42/nano-social/backend/pkg/errors"
	"github.com/anonto42/nano-social/backend/pkg/logger"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// FollowService maintains the follow graph. The actor id is always passed in
// explicitly; an empty actor means the caller is not authenticated.
type FollowService struct {
	follows       repositories.FollowRepository
	users         repositories.UserRepository
	notifications repositories.NotificationRepository // optional
}

func NewFollowService(follows repositories.FollowRepository, users repositories.UserRepository, notifications repositories.NotificationRepository) *FollowService {
	return &FollowService{follows: follows, users: users, notifications: notifications}
}

// UpdateFollow dispatches a follow or unfollow request from actorID on targetID
func (s *FollowService) UpdateFollow(ctx context.Context, actorID, targetID, followType string) error {
	switch followType {
	case models.FollowTypeFollow:
		return s.Follow(ctx, actorID, targetID)
	case models.FollowTypeUnfollow:
		return s.Unfollow(ctx, actorID, targetID)
	default:
		return apperrors.NewValidationFailed(fmt.Sprintf("unknown follow type %q", followType), nil)
	}
}

// Follow creates the edge actorID -> targetID. Following an already followed
// user succeeds without changes.
func (s *FollowService) Follow(ctx context.Context, actorID, targetID string) error {
	if actorID == "" {
		return apperrors.ErrUnauthenticated
	}
	if actorID == targetID {
		return apperrors.NewSelfReferenceRejected(actorID)
	}

	created, err := s.follows.CreateFollow(ctx, actorID, targetID)
	if err != nil {
		monitoring.FollowOperations.WithLabelValues(models.FollowTypeFollow, "failed").Inc()
		return err
	}

	if !created {
		monitoring.FollowOperations.WithLabelValues(models.FollowTypeFollow, "noop").Inc()
		return nil
	}

	monitoring.FollowOperations.WithLabelValues(models.FollowTypeFollow, "created").Inc()
	logger.Get().Info("user followed", zap.String("follower_id", actorID), zap.String("following_id", targetID))
	s.notifyFollow(ctx, actorID, targetID)
	return nil
}

// Unfollow removes every edge actorID -> targetID; no edge is not an error
func (s *FollowService) Unfollow(ctx context.Context, actorID, targetID string) error {
	if actorID == "" {
		return apperrors.ErrUnauthenticated
	}

	removed, err := s.follows.DeleteFollow(ctx, actorID, targetID)
	if err != nil {
		monitoring.FollowOperations.WithLabelValues(models.FollowTypeUnfollow, "failed").Inc()
		return err
	}

	outcome := "removed"
	if removed == 0 {
		outcome = "noop"
	}
	monitoring.FollowOperations.WithLabelValues(models.FollowTypeUnfollow, outcome).Inc()
	logger.Get().Info("user unfollowed",
		zap.String("follower_id", actorID),
		zap.String("following_id", targetID),
		zap.Int64("removed", removed),
	)
	return nil
}

func (s *FollowService) IsFollowing(ctx context.Context, actorID, targetID string) (bool, error) {
	if actorID == "" {
		return false, apperrors.ErrUnauthenticated
	}
	return s.follows.IsFollowing(ctx, actorID, targetID)
}

// FollowersAndFollowing returns both edge lists of userID with counterpart profiles attached
func (s *FollowService) FollowersAndFollowing(ctx context.Context, userID string) (*models.FollowLists, error) {
	if _, err := s.users.GetUserByID(ctx, userID); err != nil {
		return nil, err
	}

	lists := &models.FollowLists{}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		followers, err := s.follows.GetFollowers(gctx, userID)
		lists.Followers = followers
		return err
	})
	g.Go(func() error {
		following, err := s.follows.GetFollowing(gctx, userID)
		lists.Following = following
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return lists, nil
}

// notifyFollow tells targetID about a new follower. It never fails the follow.
func (s *FollowService) notifyFollow(ctx context.Context, actorID, targetID string) {
	if s.notifications == nil {
		return
	}

	name := actorID
	if actor, err := s.users.GetUserByID(ctx, actorID); err == nil && actor.Username != "" {
		name = actor.Username
	}

	err := s.notifications.CreateNotification(ctx, &models.Notification{
		Type:        models.NotificationTypeFollow,
		ActorID:     actorID,
		RecipientID: targetID,
		Message:     name + " started following you",
	})
	if err != nil {
		logger.Get().Warn("follow notification not delivered",
			zap.String("actor_id", actorID),
			zap.String("recipient_id", targetID),
			zap.Error(err),
		)
	}
}
