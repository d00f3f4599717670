package handlers

import (
	"net/http"

	"github.com/anonto42/nano-social/backend/internal/middleware"
	"github.com/anonto42/nano-social/backend/internal/models"
	"github.com/anonto42/nano-social/backend/internal/services"
	"github.com/labstack/echo/v4"
)

// FollowHandler handles follow/unfollow HTTP requests
type FollowHandler struct {
	follows     *services.FollowService
	suggestions *services.SuggestionService
}

// NewFollowHandler creates a new FollowHandler
func NewFollowHandler(follows *services.FollowService, suggestions *services.SuggestionService) *FollowHandler {
	return &FollowHandler{follows: follows, suggestions: suggestions}
}

// RegisterFollowRoutes registers follow-related routes
func (h *FollowHandler) RegisterFollowRoutes(g *echo.Group, session, optionalSession echo.MiddlewareFunc) {
	g.POST("/follows", h.UpdateFollow, session)
	g.GET("/users/:id/follow-status", h.GetFollowStatus, session)
	g.GET("/users/:id/follows", h.GetFollowersAndFollowing)
	g.GET("/suggestions", h.GetSuggestions, optionalSession)
}

// UpdateFollow follows or unfollows the user named in the body
func (h *FollowHandler) UpdateFollow(c echo.Context) error {
	var req models.UpdateFollowRequest
	if err := bindAndValidate(c, &req); err != nil {
		return respondError(c, err)
	}

	if err := h.follows.UpdateFollow(c.Request().Context(), middleware.ActorID(c), req.ID, req.Type); err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"data":    echo.Map{"following": req.Type == models.FollowTypeFollow},
	})
}

func (h *FollowHandler) GetFollowStatus(c echo.Context) error {
	following, err := h.follows.IsFollowing(c.Request().Context(), middleware.ActorID(c), c.Param("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"following": following}})
}

func (h *FollowHandler) GetFollowersAndFollowing(c echo.Context) error {
	lists, err := h.follows.FollowersAndFollowing(c.Request().Context(), c.Param("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": lists})
}

// GetSuggestions lists users the session user does not follow yet
func (h *FollowHandler) GetSuggestions(c echo.Context) error {
	users, err := h.suggestions.Suggestions(c.Request().Context(), middleware.ActorID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": users})
}
