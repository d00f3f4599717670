package repositories

import (
	"errors"

	"github.com/anonto42/nano-social/backend/internal/models"
	apperrors "github.com/anonto42/nano-social/backend/pkg/errors"
	"gorm.io/gorm"
)

// AutoMigrate creates or updates the relational schema
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Follow{},
		&models.Notification{},
	)
}

// translate maps a store error onto the error taxonomy. entity and id name
// the record for not-found errors.
func translate(operation, entity, id string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) || errors.Is(err, gorm.ErrForeignKeyViolated) {
		return apperrors.NewNotFound(entity, id)
	}
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		return err
	}
	return apperrors.NewStorageUnavailable(operation, err)
}
