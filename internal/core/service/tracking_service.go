package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/shipwatch/tracking-engine/internal/api/metrics"
	"github.com/shipwatch/tracking-engine/internal/core/ports"
)

// TrackingService answers live tracking lookups. It normalizes whatever the
// carrier returns and hands it straight back; nothing is persisted and no
// shipment needs to exist for the pair.
type TrackingService struct {
	carriers ports.CarrierRegistry
	logger   zerolog.Logger
	now      func() time.Time
}

func NewTrackingService(carriers ports.CarrierRegistry, logger zerolog.Logger) *TrackingService {
	return &TrackingService{carriers: carriers, logger: logger, now: time.Now}
}

// Track fetches and normalizes live data for a carrier/tracking-number pair.
func (s *TrackingService) Track(ctx context.Context, carrier, trackingNumber string) (*ports.TrackingSnapshot, error) {
	adapter := s.carriers.Resolve(carrier)

	start := s.now()
	res, err := adapter.Fetch(ctx, trackingNumber)
	metrics.CarrierFetchDuration.
		WithLabelValues(carrier, fetchOutcome(err)).
		Observe(s.now().Sub(start).Seconds())
	if err != nil {
		return nil, err
	}
	if res.Synthetic {
		metrics.SyntheticResultsTotal.Inc()
	}

	events := make([]ports.TrackingEventView, len(res.Events))
	for i, ev := range res.Events {
		events[i] = ports.TrackingEventView{
			Timestamp:   ev.Timestamp,
			Description: ev.Description,
			Location:    ev.Location,
			StatusCode:  string(ev.StatusCode),
		}
	}

	return &ports.TrackingSnapshot{
		Carrier:           carrier,
		TrackingNumber:    trackingNumber,
		Status:            string(res.Status),
		Events:            events,
		EstimatedDelivery: res.EstimatedDelivery,
		Synthetic:         res.Synthetic,
	}, nil
}
