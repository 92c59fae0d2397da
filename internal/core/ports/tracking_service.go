package ports

import (
	"context"
	"time"
)

// TrackingSnapshot is a live, unpersisted normalization of carrier data.
type TrackingSnapshot struct {
	Carrier           string
	TrackingNumber    string
	Status            string
	Events            []TrackingEventView
	EstimatedDelivery *time.Time
	// Synthetic marks fallback-adapter data for unintegrated carriers.
	Synthetic bool
}

// TrackingService normalizes live tracking data without touching storage.
type TrackingService interface {
	Track(ctx context.Context, carrier, trackingNumber string) (*TrackingSnapshot, error)
}
