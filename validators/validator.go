package validators

import (
	"github.com/go-playground/validator/v10"

	apperrors "github.com/anonto42/nano-social/backend/pkg/errors"
)

// CustomValidator adapts go-playground/validator to echo.Validator
type CustomValidator struct {
	validator *validator.Validate
}

func NewValidator() *CustomValidator {
	return &CustomValidator{validator: validator.New(validator.WithRequiredStructEnabled())}
}

// Validate checks struct tags and reports failures as validation_failed errors
func (cv *CustomValidator) Validate(i interface{}) error {
	if err := cv.validator.Struct(i); err != nil {
		return apperrors.NewValidationFailed(err.Error(), err)
	}
	return nil
}
