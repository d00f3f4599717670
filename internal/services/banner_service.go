package services

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/anonto42/nano-social/backend/internal/models"
	"github.com/anonto42/nano-social/backend/internal/repositories"
	apperrors "github.com/anonto42/nano-social/backend/pkg/errors"
	"github.com/anonto42/nano-social/backend/pkg/firebase"
	"github.com/anonto42/nano-social/backend/pkg/logger"
	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// MaxBannerBytes bounds a decoded banner image
const MaxBannerBytes = 5 << 20

// MediaStore is the media collaborator holding banner images
type MediaStore interface {
	UploadFile(ctx context.Context, blob []byte, path string) (*firebase.UploadResult, error)
	DeleteFile(ctx context.Context, publicID string) error
}

// BannerService replaces profile banners as a three step saga:
//
//  1. upload the new image; on failure nothing has changed
//  2. persist the new reference; on failure the new asset is orphaned
//  3. delete the previous asset; on failure the old asset is orphaned
//
// Orphans are logged with their public id for offline cleanup.
type BannerService struct {
	users repositories.UserRepository
	media MediaStore
}

func NewBannerService(users repositories.UserRepository, media MediaStore) *BannerService {
	return &BannerService{users: users, media: media}
}

func (s *BannerService) UpdateBanner(ctx context.Context, userID string, req models.UpdateBannerRequest) error {
	if s.media == nil {
		return apperrors.NewUpstreamCollaboratorFailed("media storage", fmt.Errorf("not configured"))
	}

	blob, err := decodeImage(req.Banner)
	if err != nil {
		return err
	}

	profile, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		return err
	}

	// The stored id is authoritative; a stale or foreign prevBannerId is never deleted
	var previous string
	if profile.BannerID != nil {
		previous = *profile.BannerID
	}
	if req.PrevBannerID != "" && req.PrevBannerID != previous {
		logger.Get().Warn("ignoring prevBannerId that does not match the stored banner",
			zap.String("user_id", userID),
			zap.String("prev_banner_id", req.PrevBannerID),
		)
	}

	path := fmt.Sprintf("users/%s/banner-%s", userID, uuid.NewString())
	uploaded, err := s.media.UploadFile(ctx, blob, path)
	if err != nil {
		return apperrors.NewUpstreamCollaboratorFailed("media upload", err)
	}

	err = s.users.UpdateUser(ctx, userID, map[string]interface{}{
		"banner_url": uploaded.SecureURL,
		"banner_id":  uploaded.PublicID,
	})
	if err != nil {
		logger.Get().Warn("banner reference not persisted, uploaded asset orphaned",
			zap.String("user_id", userID),
			zap.String("public_id", uploaded.PublicID),
			zap.Error(err),
		)
		return err
	}

	if previous != "" && previous != uploaded.PublicID {
		if err := s.media.DeleteFile(ctx, previous); err != nil {
			logger.Get().Warn("previous banner not deleted, asset orphaned",
				zap.String("user_id", userID),
				zap.String("public_id", previous),
				zap.Error(err),
			)
		}
	}

	logger.Get().Info("user banner updated", zap.String("user_id", userID), zap.String("public_id", uploaded.PublicID))
	return nil
}

// decodeImage accepts raw base64 or a data URL and requires an image payload
func decodeImage(encoded string) ([]byte, error) {
	if strings.HasPrefix(encoded, "data:") {
		_, payload, ok := strings.Cut(encoded, ",")
		if !ok {
			return nil, apperrors.NewValidationFailed("malformed data URL", nil)
		}
		encoded = payload
	}

	if base64.StdEncoding.DecodedLen(len(encoded)) > MaxBannerBytes+3 {
		return nil, apperrors.NewValidationFailed("banner exceeds 5MB", nil)
	}
	blob, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, apperrors.NewValidationFailed("banner is not valid base64", err)
	}
	if len(blob) == 0 {
		return nil, apperrors.NewValidationFailed("banner is empty", nil)
	}
	if len(blob) > MaxBannerBytes {
		return nil, apperrors.NewValidationFailed("banner exceeds 5MB", nil)
	}

	if mime := mimetype.Detect(blob); !strings.HasPrefix(mime.String(), "image/") {
		return nil, apperrors.NewValidationFailed(fmt.Sprintf("banner must be an image, got %s", mime.String()), nil)
	}
	return blob, nil
}
