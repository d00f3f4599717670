package handlers

import (
	"net/http"

	"github.com/anonto42/nano-social/backend/internal/models"
	"github.com/anonto42/nano-social/backend/internal/services"
	apperrors "github.com/anonto42/nano-social/backend/pkg/errors"
	"github.com/labstack/echo/v4"
)

// UserHandler handles HTTP requests related to users
type UserHandler struct {
	users   *services.UserService
	banners *services.BannerService
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(users *services.UserService, banners *services.BannerService) *UserHandler {
	return &UserHandler{users: users, banners: banners}
}

// RegisterUserRoutes registers user routes. Identity writes are guarded by
// webhookAuth, profile edits by session.
func (h *UserHandler) RegisterUserRoutes(g *echo.Group, webhookAuth, session echo.MiddlewareFunc) {
	g.POST("/users", h.CreateUser, webhookAuth)
	g.PUT("/users/:id", h.UpdateUser, webhookAuth)
	g.DELETE("/users/:id", h.DeleteUser, webhookAuth)

	g.GET("/users/:id", h.GetUser)

	g.PUT("/users/:id/banner", h.UpdateBanner, session)
	g.PUT("/users/:id/bio", h.UpdateBio, session)
	g.PUT("/users/:id/influencer", h.UpdateInfluencerStatus, session)
}

func (h *UserHandler) CreateUser(c echo.Context) error {
	var req models.CreateUserRequest
	if err := bindAndValidate(c, &req); err != nil {
		return respondError(c, err)
	}
	return respondResult(c, http.StatusCreated, h.users.CreateUser(c.Request().Context(), req))
}

func (h *UserHandler) UpdateUser(c echo.Context) error {
	req := models.UpdateUserRequest{ID: c.Param("id")}
	if err := c.Bind(&req); err != nil {
		return respondError(c, apperrors.NewValidationFailed("invalid request body", err))
	}
	req.ID = c.Param("id")
	if err := c.Validate(&req); err != nil {
		return respondError(c, err)
	}
	return respondResult(c, http.StatusOK, h.users.UpdateUser(c.Request().Context(), req))
}

func (h *UserHandler) DeleteUser(c echo.Context) error {
	return respondResult(c, http.StatusOK, h.users.DeleteUser(c.Request().Context(), c.Param("id")))
}

// GetUser returns the profile, or null data when the user does not exist
func (h *UserHandler) GetUser(c echo.Context) error {
	profile, err := h.users.GetUser(c.Request().Context(), c.Param("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": profile})
}

// UpdateBanner replaces the session user's banner image
func (h *UserHandler) UpdateBanner(c echo.Context) error {
	if err := requireOwner(c); err != nil {
		return respondError(c, err)
	}

	var req models.UpdateBannerRequest
	if err := bindAndValidate(c, &req); err != nil {
		return respondError(c, err)
	}

	if err := h.banners.UpdateBanner(c.Request().Context(), c.Param("id"), req); err != nil {
		return respondError(c, err)
	}

	profile, err := h.users.GetUser(c.Request().Context(), c.Param("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": profile})
}

func (h *UserHandler) UpdateBio(c echo.Context) error {
	if err := requireOwner(c); err != nil {
		return respondError(c, err)
	}

	var req models.UpdateBioRequest
	if err := bindAndValidate(c, &req); err != nil {
		return respondError(c, err)
	}
	return respondResult(c, http.StatusOK, h.users.UpdateBio(c.Request().Context(), c.Param("id"), req.Bio))
}

func (h *UserHandler) UpdateInfluencerStatus(c echo.Context) error {
	if err := requireOwner(c); err != nil {
		return respondError(c, err)
	}

	var req models.UpdateInfluencerRequest
	if err := bindAndValidate(c, &req); err != nil {
		return respondError(c, err)
	}
	return respondResult(c, http.StatusOK, h.users.UpdateInfluencerStatus(c.Request().Context(), c.Param("id"), *req.IsInfluencer))
}
