package handler

import "time"

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

// --- Request types ---

type createShipmentRequest struct {
	OrderID        string     `json:"order_id"        validate:"required"`
	Carrier        string     `json:"carrier"         validate:"required"`
	TrackingNumber string     `json:"tracking_number" validate:"required"`
	ShippedDate    *time.Time `json:"shipped_date,omitempty"`
}

type updateShipmentRequest struct {
	Status         string `json:"status,omitempty" validate:"omitempty,oneof=pending in_transit out_for_delivery delivered exception returned unknown"`
	Note           string `json:"note,omitempty"`
	Carrier        string `json:"carrier,omitempty"`
	TrackingNumber string `json:"tracking_number,omitempty"`
}

type insertEventRequest struct {
	Timestamp   *time.Time `json:"timestamp,omitempty"`
	Description string     `json:"description" validate:"required"`
	Location    string     `json:"location,omitempty"`
	StatusCode  string     `json:"status_code,omitempty" validate:"omitempty,oneof=pending in_transit out_for_delivery delivered exception returned unknown"`
}

// Response-only types owned by the transport layer.
// These are intentionally separate from ports/domain types so the JSON
// contract is not coupled to internal service changes.

type trackingEventResponse struct {
	Timestamp   time.Time `json:"timestamp"`
	Description string    `json:"description"`
	Location    string    `json:"location,omitempty"`
	StatusCode  string    `json:"status_code"`
}

type statusHistoryItemResponse struct {
	FromStatus string    `json:"from_status"`
	ToStatus   string    `json:"to_status"`
	Timestamp  time.Time `json:"timestamp"`
	Note       string    `json:"note,omitempty"`
}

type shipmentLinks struct {
	Self    string `json:"self"`
	Refresh string `json:"refresh"`
}

type shipmentResponse struct {
	ID                    string                      `json:"id"`
	OrderID               string                      `json:"order_id"`
	Carrier               string                      `json:"carrier"`
	TrackingNumber        string                      `json:"tracking_number"`
	Status                string                      `json:"status"`
	TrackingHistory       []trackingEventResponse     `json:"tracking_history"`
	StatusHistory         []statusHistoryItemResponse `json:"status_history"`
	ShippedDate           time.Time                   `json:"shipped_date"`
	EstimatedDeliveryDate *time.Time                  `json:"estimated_delivery_date,omitempty"`
	DeliveredDate         *time.Time                  `json:"delivered_date,omitempty"`
	LastUpdated           time.Time                   `json:"last_updated"`
	CreatedAt             time.Time                   `json:"created_at"`
	Links                 shipmentLinks               `json:"_links"`
}

type trackingSnapshotResponse struct {
	Carrier           string                  `json:"carrier"`
	TrackingNumber    string                  `json:"tracking_number"`
	Status            string                  `json:"status"`
	Events            []trackingEventResponse `json:"events"`
	EstimatedDelivery *time.Time              `json:"estimated_delivery,omitempty"`
	Synthetic         bool                    `json:"synthetic"`
}
