package handlers

import (
	"errors"
	"net/http"

	"github.com/anonto42/nano-social/backend/internal/middleware"
	"github.com/anonto42/nano-social/backend/internal/services"
	apperrors "github.com/anonto42/nano-social/backend/pkg/errors"
	"github.com/anonto42/nano-social/backend/pkg/logger"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// retryAfterSeconds is sent with storage_unavailable responses
const retryAfterSeconds = "5"

var kindStatus = map[apperrors.Kind]int{
	apperrors.KindNotFound:                   http.StatusNotFound,
	apperrors.KindSelfReferenceRejected:      http.StatusUnprocessableEntity,
	apperrors.KindValidationFailed:           http.StatusBadRequest,
	apperrors.KindUnauthenticated:            http.StatusUnauthorized,
	apperrors.KindUpstreamCollaboratorFailed: http.StatusBadGateway,
	apperrors.KindStorageUnavailable:         http.StatusServiceUnavailable,
}

func statusForKind(kind apperrors.Kind) int {
	if status, ok := kindStatus[kind]; ok {
		return status
	}
	return http.StatusInternalServerError
}

func failure(c echo.Context, kind apperrors.Kind, message string) error {
	return c.JSON(statusForKind(kind), echo.Map{
		"success": false,
		"error":   echo.Map{"kind": kind, "message": message},
	})
}

// respondError renders err with the status of its kind. Store internals are
// logged, never returned to the client.
func respondError(c echo.Context, err error) error {
	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		return httpErr
	}
	kind := apperrors.KindOf(err)

	if kind == apperrors.KindStorageUnavailable || kind == apperrors.KindUpstreamCollaboratorFailed {
		logger.Get().Error("request failed",
			zap.String("method", c.Request().Method),
			zap.String("route", c.Path()),
			zap.Error(err),
		)
	}
	if apperrors.IsRetryable(err) {
		c.Response().Header().Set("Retry-After", retryAfterSeconds)
	}
	return failure(c, kind, apperrors.Message(err))
}

// respondResult renders a write outcome
func respondResult(c echo.Context, successStatus int, res services.Result) error {
	if res.Success {
		return c.JSON(successStatus, echo.Map{"success": true})
	}
	if apperrors.IsRetryable(res.Err()) {
		c.Response().Header().Set("Retry-After", retryAfterSeconds)
	}
	return failure(c, res.Kind, res.Message)
}

func bindAndValidate(c echo.Context, req interface{}) error {
	if err := c.Bind(req); err != nil {
		return apperrors.NewValidationFailed("invalid request body", err)
	}
	if err := c.Validate(req); err != nil {
		return err
	}
	return nil
}

// requireOwner checks that the session actor is the :id path param
func requireOwner(c echo.Context) error {
	actorID := middleware.ActorID(c)
	if actorID == "" {
		return apperrors.ErrUnauthenticated
	}
	if actorID != c.Param("id") {
		return echo.NewHTTPError(http.StatusForbidden, "Cannot modify another user's profile")
	}
	return nil
}
