package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/shipwatch/tracking-engine/internal/core/ports"
)

// ShipmentHandler handles HTTP requests for persisted shipments.
type ShipmentHandler struct {
	service ports.ShipmentService
}

func NewShipmentHandler(service ports.ShipmentService) *ShipmentHandler {
	return &ShipmentHandler{service: service}
}

// GetByOrder handles GET /v1/orders/:order_id/shipment.
//
// @Summary      Get the shipment for an order
// @Description  Returns the order's shipment, refreshing carrier data first when the cached snapshot is stale.
// @Tags         shipments
// @Produce      json
// @Security     BearerAuth
// @Param        order_id  path      string  true  "Order ID"
// @Success      200       {object}  shipmentResponse
// @Failure      404       {object}  errorResponse
// @Failure      502       {object}  errorResponse
// @Router       /v1/orders/{order_id}/shipment [get]
func (h *ShipmentHandler) GetByOrder(c echo.Context) error {
	detail, err := h.service.GetByOrderID(c.Request().Context(), c.Param("order_id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toShipmentResponse(detail))
}

// Create handles POST /v1/shipments.
//
// @Summary      Create a shipment for an order
// @Tags         shipments
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createShipmentRequest  true  "Shipment details"
// @Success      201   {object}  shipmentResponse
// @Failure      400   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /v1/shipments [post]
func (h *ShipmentHandler) Create(c echo.Context) error {
	var req createShipmentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	input := ports.CreateShipmentInput{
		OrderID:        req.OrderID,
		Carrier:        req.Carrier,
		TrackingNumber: req.TrackingNumber,
	}
	if req.ShippedDate != nil {
		input.ShippedDate = *req.ShippedDate
	}

	detail, err := h.service.CreateShipment(c.Request().Context(), input)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toShipmentResponse(detail))
}

// Update handles PATCH /v1/shipments/:id.
//
// @Summary      Edit a shipment
// @Description  Administrative edit: correct the carrier, tracking number, or status. Status edits are recorded in the status history.
// @Tags         shipments
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string                 true  "Shipment ID"
// @Param        body  body      updateShipmentRequest  true  "Fields to change"
// @Success      200   {object}  shipmentResponse
// @Failure      400   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /v1/shipments/{id} [patch]
func (h *ShipmentHandler) Update(c echo.Context) error {
	var req updateShipmentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	detail, err := h.service.UpdateShipment(c.Request().Context(), ports.UpdateShipmentInput{
		ShipmentID:     c.Param("id"),
		Status:         req.Status,
		Note:           req.Note,
		Carrier:        req.Carrier,
		TrackingNumber: req.TrackingNumber,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toShipmentResponse(detail))
}

// InsertEvent handles POST /v1/shipments/:id/events.
//
// @Summary      Record a manual tracking event
// @Description  Appends one manually observed event. When the event carries a status code the shipment status transitions with it.
// @Tags         shipments
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string              true  "Shipment ID"
// @Param        body  body      insertEventRequest  true  "Tracking event"
// @Success      201   {object}  shipmentResponse
// @Failure      400   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /v1/shipments/{id}/events [post]
func (h *ShipmentHandler) InsertEvent(c echo.Context) error {
	var req insertEventRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	var ts time.Time
	if req.Timestamp != nil {
		ts = *req.Timestamp
	}

	detail, err := h.service.InsertTrackingEvent(c.Request().Context(), ports.InsertEventInput{
		ShipmentID:  c.Param("id"),
		Timestamp:   ts,
		Description: req.Description,
		Location:    req.Location,
		StatusCode:  req.StatusCode,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toShipmentResponse(detail))
}

// Refresh handles POST /v1/shipments/:id/refresh.
//
// @Summary      Force a carrier refresh
// @Description  Re-fetches carrier data regardless of staleness and returns the updated shipment.
// @Tags         shipments
// @Produce      json
// @Security     BearerAuth
// @Param        id  path      string  true  "Shipment ID"
// @Success      200  {object}  shipmentResponse
// @Failure      404  {object}  errorResponse
// @Failure      502  {object}  errorResponse
// @Router       /v1/shipments/{id}/refresh [post]
func (h *ShipmentHandler) Refresh(c echo.Context) error {
	detail, err := h.service.RefreshShipment(c.Request().Context(), c.Param("id"), ports.TriggerManual)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toShipmentResponse(detail))
}
