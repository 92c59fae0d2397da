package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/shipwatch/tracking-engine/internal/core/ports"
)

// StatsHandler exposes read-side projections over the shipment set.
type StatsHandler struct {
	service ports.StatsService
}

func NewStatsHandler(service ports.StatsService) *StatsHandler {
	return &StatsHandler{service: service}
}

// StatusDistribution handles GET /v1/stats/status.
//
// @Summary      Shipment counts by canonical status
// @Tags         stats
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}  ports.StatusCount
// @Router       /v1/stats/status [get]
func (h *StatsHandler) StatusDistribution(c echo.Context) error {
	counts, err := h.service.StatusDistribution(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, counts)
}

// CarrierDistribution handles GET /v1/stats/carriers.
//
// @Summary      Shipment counts by carrier
// @Tags         stats
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}  ports.CarrierCount
// @Router       /v1/stats/carriers [get]
func (h *StatsHandler) CarrierDistribution(c echo.Context) error {
	counts, err := h.service.CarrierDistribution(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, counts)
}

// Volume handles GET /v1/stats/volume?days=N.
//
// @Summary      Shipment volume over a trailing window
// @Tags         stats
// @Produce      json
// @Security     BearerAuth
// @Param        days  query     int  false  "Window size in days (default 7)"
// @Success      200   {object}  ports.VolumeStats
// @Failure      400   {object}  errorResponse
// @Router       /v1/stats/volume [get]
func (h *StatsHandler) Volume(c echo.Context) error {
	days := 0
	if raw := c.QueryParam("days"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			return echo.NewHTTPError(http.StatusBadRequest, "days must be a non-negative integer")
		}
		days = parsed
	}

	stats, err := h.service.Volume(c.Request().Context(), days)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, stats)
}
