package domain

import (
	"errors"
	"time"
)

var ErrShipmentNotFound = errors.New("shipment not found")
var ErrShipmentExists = errors.New("shipment already exists for order")
var ErrTrackingNotFound = errors.New("tracking number not found at carrier")
var ErrCarrierUnavailable = errors.New("carrier unavailable")
var ErrOrderNotFound = errors.New("order not found")
var ErrVersionConflict = errors.New("shipment modified concurrently")
var ErrForbidden = errors.New("access forbidden")

// StatusHistoryEntry records one transition of the shipment's own canonical
// status. Entries are append-only: never mutated or removed. Distinct from
// TrackingEvent, which is raw carrier data.
type StatusHistoryEntry struct {
	FromStatus CanonicalStatus `json:"from_status" bson:"from_status"`
	ToStatus   CanonicalStatus `json:"to_status" bson:"to_status"`
	Timestamp  time.Time       `json:"timestamp" bson:"timestamp"`
	Note       string          `json:"note,omitempty" bson:"note,omitempty"`
}

// Shipment is the aggregate root tracking one order's delivery lifecycle.
// There is exactly one Shipment per order.
type Shipment struct {
	ID             string          `json:"id" bson:"_id,omitempty"`
	OrderID        string          `json:"order_id" bson:"order_id"`
	Carrier        string          `json:"carrier" bson:"carrier"`
	TrackingNumber string          `json:"tracking_number" bson:"tracking_number"`
	Status         CanonicalStatus `json:"status" bson:"status"`

	TrackingHistory []TrackingEvent      `json:"tracking_history" bson:"tracking_history"`
	StatusHistory   []StatusHistoryEntry `json:"status_history" bson:"status_history"`

	ShippedDate           time.Time  `json:"shipped_date" bson:"shipped_date"`
	EstimatedDeliveryDate *time.Time `json:"estimated_delivery_date,omitempty" bson:"estimated_delivery_date,omitempty"`
	// DeliveredDate is set exactly once, on the first transition into
	// delivered, and is never cleared by automated refresh.
	DeliveredDate *time.Time `json:"delivered_date,omitempty" bson:"delivered_date,omitempty"`

	LastUpdated time.Time `json:"last_updated" bson:"last_updated"`
	// RawCarrierResponse is the opaque last-fetched payload, kept for
	// diagnostics. Downstream logic never parses it.
	RawCarrierResponse string `json:"-" bson:"raw_carrier_response,omitempty"`

	CreatedAt time.Time `json:"created_at" bson:"created_at"`
	// Version backs optimistic concurrency in the repository.
	Version int64 `json:"-" bson:"version"`
}

// IsStale reports whether the cached tracking data is older than threshold.
func (s *Shipment) IsStale(now time.Time, threshold time.Duration) bool {
	return now.Sub(s.LastUpdated) > threshold
}

// ApplyStatus transitions the shipment to the given status, appending one
// history entry. Reports false (and appends nothing) when the status is
// unchanged, so repeated refreshes reporting the same status are no-ops.
// Non-monotonic transitions are accepted: carriers do report in_transit
// after exception.
func (s *Shipment) ApplyStatus(to CanonicalStatus, at time.Time, note string) bool {
	if to == s.Status {
		return false
	}
	s.StatusHistory = append(s.StatusHistory, StatusHistoryEntry{
		FromStatus: s.Status,
		ToStatus:   to,
		Timestamp:  at,
		Note:       note,
	})
	s.Status = to
	return true
}

// ApplyTrackingResult merges a normalized carrier fetch into the shipment:
// the fetched event set replaces the stored one (a full re-fetch is
// authoritative), the delivery estimate is updated only when the carrier
// provided one, and LastUpdated is stamped. The status transition itself is
// the caller's responsibility via ApplyStatus, so all call sites share one
// transition path.
func (s *Shipment) ApplyTrackingResult(res *TrackingResult, now time.Time) {
	events := make([]TrackingEvent, len(res.Events))
	copy(events, res.Events)
	SortEventsDesc(events)
	s.TrackingHistory = events

	if res.EstimatedDelivery != nil {
		est := *res.EstimatedDelivery
		s.EstimatedDeliveryDate = &est
	}
	if len(res.Raw) > 0 {
		s.RawCarrierResponse = string(res.Raw)
	}
	s.LastUpdated = now
}

// InsertTrackingEvent appends one manually recorded event and keeps the
// history sorted descending.
func (s *Shipment) InsertTrackingEvent(ev TrackingEvent) {
	s.TrackingHistory = append(s.TrackingHistory, ev)
	SortEventsDesc(s.TrackingHistory)
}
