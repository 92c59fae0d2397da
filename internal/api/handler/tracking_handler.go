package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/shipwatch/tracking-engine/internal/core/ports"
)

// TrackingHandler serves live tracking lookups that bypass storage.
type TrackingHandler struct {
	service ports.TrackingService
}

func NewTrackingHandler(service ports.TrackingService) *TrackingHandler {
	return &TrackingHandler{service: service}
}

// Track handles GET /v1/tracking/:carrier/:tracking_number.
//
// @Summary      Live tracking lookup
// @Description  Fetches and normalizes carrier data for an arbitrary carrier/tracking-number pair. Nothing is persisted; no shipment needs to exist.
// @Tags         tracking
// @Produce      json
// @Security     BearerAuth
// @Param        carrier          path      string  true  "Carrier code (e.g. dhl, ups, fedex)"
// @Param        tracking_number  path      string  true  "Tracking number"
// @Success      200              {object}  trackingSnapshotResponse
// @Failure      404              {object}  errorResponse
// @Failure      502              {object}  errorResponse
// @Router       /v1/tracking/{carrier}/{tracking_number} [get]
func (h *TrackingHandler) Track(c echo.Context) error {
	snap, err := h.service.Track(c.Request().Context(), c.Param("carrier"), c.Param("tracking_number"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toSnapshotResponse(snap))
}
