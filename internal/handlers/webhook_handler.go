package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/anonto42/nano-social/backend/internal/models"
	"github.com/anonto42/nano-social/backend/internal/services"
	apperrors "github.com/anonto42/nano-social/backend/pkg/errors"
	"github.com/anonto42/nano-social/backend/pkg/logger"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// Identity provider event types
const (
	EventUserCreated = "user.created"
	EventUserUpdated = "user.updated"
	EventUserDeleted = "user.deleted"
)

// IdentityEvent is the envelope the identity provider posts
type IdentityEvent struct {
	Type string          `json:"type" validate:"required"`
	Data json.RawMessage `json:"data" validate:"required"`
}

// WebhookHandler turns identity provider events into profile writes
type WebhookHandler struct {
	users *services.UserService
}

func NewWebhookHandler(users *services.UserService) *WebhookHandler {
	return &WebhookHandler{users: users}
}

func (h *WebhookHandler) RegisterWebhookRoutes(g *echo.Group, m ...echo.MiddlewareFunc) {
	g.POST("/webhooks/identity", h.HandleIdentityEvent, m...)
}

// HandleIdentityEvent acknowledges unknown event types so the provider stops redelivering them
func (h *WebhookHandler) HandleIdentityEvent(c echo.Context) error {
	var event IdentityEvent
	if err := bindAndValidate(c, &event); err != nil {
		return respondError(c, err)
	}

	ctx := c.Request().Context()
	var res services.Result
	switch event.Type {
	case EventUserCreated:
		var req models.CreateUserRequest
		if err := h.decode(c, event.Data, &req); err != nil {
			return respondError(c, err)
		}
		res = h.users.CreateUser(ctx, req)
	case EventUserUpdated:
		var req models.UpdateUserRequest
		if err := h.decode(c, event.Data, &req); err != nil {
			return respondError(c, err)
		}
		res = h.users.UpdateUser(ctx, req)
	case EventUserDeleted:
		var req struct {
			ID string `json:"id" validate:"required"`
		}
		if err := h.decode(c, event.Data, &req); err != nil {
			return respondError(c, err)
		}
		res = h.users.DeleteUser(ctx, req.ID)
	default:
		logger.Get().Info("ignoring identity event", zap.String("type", event.Type))
		return c.JSON(http.StatusOK, echo.Map{"success": true, "ignored": true})
	}

	return respondResult(c, http.StatusOK, res)
}

func (h *WebhookHandler) decode(c echo.Context, data json.RawMessage, req interface{}) error {
	if err := json.Unmarshal(data, req); err != nil {
		return apperrors.NewValidationFailed("invalid event data", err)
	}
	return c.Validate(req)
}
