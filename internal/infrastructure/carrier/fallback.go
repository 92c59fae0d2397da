package carrier

import (
	"context"
	"time"

	"github.com/shipwatch/tracking-engine/internal/core/domain"
)

// FallbackAdapter serves carrier codes with no integration. It never calls
// a backend and never fails: it returns a minimal, deterministic
// pending-to-in-transit trajectory with the shipment-level status fixed at
// pending, marked synthetic so callers can tell the data is not real.
type FallbackAdapter struct {
	clock func() time.Time
}

func NewFallbackAdapter(clock func() time.Time) *FallbackAdapter {
	if clock == nil {
		clock = time.Now
	}
	return &FallbackAdapter{clock: clock}
}

func (a *FallbackAdapter) Fetch(_ context.Context, _ string) (*domain.TrackingResult, error) {
	now := a.clock().UTC()
	events := []domain.TrackingEvent{
		{
			Timestamp:   now.Add(-2 * time.Hour),
			Description: "Package accepted into carrier network",
			StatusCode:  domain.StatusInTransit,
		},
		{
			Timestamp:   now.Add(-4 * time.Hour),
			Description: "Shipment information received",
			StatusCode:  domain.StatusPending,
		},
	}
	return &domain.TrackingResult{
		Status:    domain.StatusPending,
		Events:    events,
		Synthetic: true,
	}, nil
}
