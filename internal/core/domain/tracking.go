package domain

import (
	"sort"
	"time"
)

// TrackingEvent is one carrier-reported occurrence in transit history.
// Events are immutable once recorded; Location may be empty when the
// carrier omits it.
type TrackingEvent struct {
	Timestamp   time.Time       `json:"timestamp" bson:"timestamp"`
	Description string          `json:"description" bson:"description"`
	Location    string          `json:"location,omitempty" bson:"location,omitempty"`
	StatusCode  CanonicalStatus `json:"status_code" bson:"status_code"`
}

// TrackingResult is a normalized carrier response: the derived overall
// status plus the full event history. Raw holds the opaque carrier payload
// for diagnostics only; downstream logic never parses it.
type TrackingResult struct {
	Status            CanonicalStatus
	Events            []TrackingEvent
	EstimatedDelivery *time.Time // nil when the carrier provides no estimate
	Raw               []byte
	Synthetic         bool // true for fallback-adapter results
}

// SortEventsDesc orders events by timestamp descending, in place.
// Raw carrier ordering is never trusted.
func SortEventsDesc(events []TrackingEvent) {
	sort.SliceStable(events, func(i, j int) bool {
		return events[i].Timestamp.After(events[j].Timestamp)
	})
}
