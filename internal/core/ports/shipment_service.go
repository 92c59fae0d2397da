package ports

import (
	"context"
	"time"
)

// RefreshTrigger identifies which path caused a refresh. Background
// refreshes swallow carrier errors; read and manual refreshes surface them.
type RefreshTrigger string

const (
	TriggerRead       RefreshTrigger = "read"
	TriggerManual     RefreshTrigger = "manual"
	TriggerBackground RefreshTrigger = "background"
)

// CreateShipmentInput carries the administrative create request. ShippedDate
// defaults to the current time when zero.
type CreateShipmentInput struct {
	OrderID        string
	Carrier        string
	TrackingNumber string
	ShippedDate    time.Time
}

// UpdateShipmentInput carries an administrative edit. Zero-valued fields are
// left untouched. A non-empty Status performs a manual status edit through
// the same transition path as automated refresh.
type UpdateShipmentInput struct {
	ShipmentID     string
	Status         string
	Note           string
	Carrier        string
	TrackingNumber string
}

// InsertEventInput records a manually observed tracking event. When
// StatusCode is non-empty the shipment status transitions accordingly.
type InsertEventInput struct {
	ShipmentID  string
	Timestamp   time.Time
	Description string
	Location    string
	StatusCode  string
}

// TrackingEventView is the transport-facing view of one tracking event.
type TrackingEventView struct {
	Timestamp   time.Time
	Description string
	Location    string
	StatusCode  string
}

// StatusHistoryView is one recorded shipment-level status transition.
type StatusHistoryView struct {
	FromStatus string
	ToStatus   string
	Timestamp  time.Time
	Note       string
}

// ShipmentDetail is the full shipment view returned by the service.
type ShipmentDetail struct {
	ID                    string
	OrderID               string
	Carrier               string
	TrackingNumber        string
	Status                string
	TrackingHistory       []TrackingEventView
	StatusHistory         []StatusHistoryView
	ShippedDate           time.Time
	EstimatedDeliveryDate *time.Time
	DeliveredDate         *time.Time
	LastUpdated           time.Time
	CreatedAt             time.Time
}

// ShipmentService defines use-case operations over persisted shipments.
type ShipmentService interface {
	// CreateShipment creates the single shipment for an order, notifies the
	// order collaborator (best effort) and schedules an initial refresh.
	CreateShipment(ctx context.Context, input CreateShipmentInput) (*ShipmentDetail, error)

	// GetByOrderID returns the shipment for an order, refreshing first when
	// the cached tracking data is stale. A failed staleness refresh
	// surfaces the carrier error.
	GetByOrderID(ctx context.Context, orderID string) (*ShipmentDetail, error)

	// RefreshShipment re-fetches carrier data regardless of staleness.
	RefreshShipment(ctx context.Context, shipmentID string, trigger RefreshTrigger) (*ShipmentDetail, error)

	// UpdateShipment applies an administrative edit.
	UpdateShipment(ctx context.Context, input UpdateShipmentInput) (*ShipmentDetail, error)

	// InsertTrackingEvent records a manual tracking event, optionally
	// transitioning the shipment status.
	InsertTrackingEvent(ctx context.Context, input InsertEventInput) (*ShipmentDetail, error)
}
