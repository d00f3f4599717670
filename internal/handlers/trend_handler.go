package handlers

import (
	"net/http"

	"github.com/anonto42/nano-social/backend/internal/services"
	"github.com/labstack/echo/v4"
)

type TrendHandler struct {
	trends *services.TrendService
}

func NewTrendHandler(trends *services.TrendService) *TrendHandler {
	return &TrendHandler{trends: trends}
}

func (h *TrendHandler) RegisterTrendRoutes(g *echo.Group) {
	g.GET("/trends", h.GetPopularTrends)
}

func (h *TrendHandler) GetPopularTrends(c echo.Context) error {
	trends, err := h.trends.PopularTrends(c.Request().Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": trends})
}
