package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/DevHubFusionX/logi-backend/internal/core/ports"
)

// AnalyticsHandler serves the admin aggregate view.
type AnalyticsHandler struct {
	analytics ports.AnalyticsService
}

func NewAnalyticsHandler(analytics ports.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{analytics: analytics}
}

// Summary godoc
// @Summary      Operational summary
// @Description  Shipment, revenue, ticket and fleet aggregates. Served from a
// @Description  short-lived cache unless refresh=true.
// @Tags         analytics
// @Produce      json
// @Security     BearerAuth
// @Param        refresh query bool false "Bypass the cache"
// @Success      200 {object} domain.AnalyticsSummary
// @Router       /v1/analytics/summary [get]
func (h *AnalyticsHandler) Summary(c echo.Context) error {
	refresh := c.QueryParam("refresh") == "true"

	summary, err := h.analytics.Summary(c.Request().Context(), refresh)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, summary)
}
