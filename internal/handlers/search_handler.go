package handlers

import (
	"net/http"

	"github.com/anonto42/nano-social/backend/internal/services"
	"github.com/labstack/echo/v4"
)

type SearchHandler struct {
	search *services.SearchService
}

func NewSearchHandler(search *services.SearchService) *SearchHandler {
	return &SearchHandler{search: search}
}

func (h *SearchHandler) RegisterSearchRoutes(g *echo.Group) {
	g.GET("/users/search", h.SearchUsers)
}

// SearchUsers matches ?query= against names, username, bio and tags, filtered by ?type=all|influencer|company
func (h *SearchHandler) SearchUsers(c echo.Context) error {
	users, err := h.search.Search(c.Request().Context(), c.QueryParam("query"), c.QueryParam("type"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": users})
}
