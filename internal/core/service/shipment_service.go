package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/shipwatch/tracking-engine/internal/api/metrics"
	"github.com/shipwatch/tracking-engine/internal/core/domain"
	"github.com/shipwatch/tracking-engine/internal/core/ports"
)

const maxUpdateRetries = 3

// RefreshScheduler queues best-effort background refreshes. The creation
// path uses it for the initial fetch so a slow carrier never blocks the
// administrative request.
type RefreshScheduler interface {
	Schedule(shipmentID, trackingNumber string)
}

// ShipmentService implements the persisted-shipment use cases: creation,
// staleness-driven reads, forced refresh, administrative edits, and the
// delivered side effect.
type ShipmentService struct {
	repo      ports.ShipmentRepository
	carriers  ports.CarrierRegistry
	orders    ports.OrderClient
	notifier  ports.DeliveryNotifier
	scheduler RefreshScheduler
	staleness time.Duration
	logger    zerolog.Logger
	now       func() time.Time
}

func NewShipmentService(
	repo ports.ShipmentRepository,
	carriers ports.CarrierRegistry,
	orders ports.OrderClient,
	notifier ports.DeliveryNotifier,
	staleness time.Duration,
	logger zerolog.Logger,
) *ShipmentService {
	if staleness <= 0 {
		staleness = 6 * time.Hour
	}
	return &ShipmentService{
		repo:      repo,
		carriers:  carriers,
		orders:    orders,
		notifier:  notifier,
		staleness: staleness,
		logger:    logger,
		now:       time.Now,
	}
}

// SetRefreshScheduler attaches the background refresh dispatcher. Optional:
// without one, creation skips the initial fetch.
func (s *ShipmentService) SetRefreshScheduler(rs RefreshScheduler) {
	s.scheduler = rs
}

// SetClock overrides the time source. Intended for tests.
func (s *ShipmentService) SetClock(now func() time.Time) {
	s.now = now
}

// CreateShipment creates the single shipment for an order. The order must
// exist; a second shipment for the same order is rejected with
// ErrShipmentExists and leaves the existing one untouched. Marking the
// order shipped and the initial carrier fetch are best effort.
func (s *ShipmentService) CreateShipment(ctx context.Context, input ports.CreateShipmentInput) (*ports.ShipmentDetail, error) {
	if _, err := s.orders.FindOrder(ctx, input.OrderID); err != nil {
		return nil, fmt.Errorf("create shipment: %w", err)
	}

	now := s.now().UTC()
	shipped := input.ShippedDate
	if shipped.IsZero() {
		shipped = now
	}

	shipment := &domain.Shipment{
		ID:             generateShipmentID(),
		OrderID:        input.OrderID,
		Carrier:        input.Carrier,
		TrackingNumber: input.TrackingNumber,
		Status:         domain.StatusPending,
		ShippedDate:    shipped,
		CreatedAt:      now,
	}

	if err := s.repo.Create(ctx, shipment); err != nil {
		s.logger.Error().Err(err).Str("order_id", input.OrderID).Msg("failed to create shipment")
		return nil, err
	}
	metrics.ShipmentsCreatedTotal.WithLabelValues(shipment.Carrier).Inc()

	// Failures past this point never undo the created shipment: the record
	// is the source of truth.
	if err := s.orders.MarkOrderShipped(ctx, input.OrderID, shipped); err != nil {
		s.logger.Warn().Err(err).Str("order_id", input.OrderID).Msg("failed to mark order shipped")
	}
	if s.scheduler != nil {
		s.scheduler.Schedule(shipment.ID, shipment.TrackingNumber)
	}

	s.logger.Info().
		Str("shipment_id", shipment.ID).
		Str("order_id", input.OrderID).
		Str("carrier", shipment.Carrier).
		Str("tracking_number", shipment.TrackingNumber).
		Msg("shipment created")

	return toDetail(shipment), nil
}

// GetByOrderID returns the shipment for an order, refreshing first when the
// cached tracking data has gone stale. A failed staleness refresh surfaces
// the carrier error rather than silently serving stale data.
func (s *ShipmentService) GetByOrderID(ctx context.Context, orderID string) (*ports.ShipmentDetail, error) {
	shipment, err := s.repo.FindByOrderID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if shipment.IsStale(s.now().UTC(), s.staleness) {
		refreshed, err := s.refresh(ctx, shipment, ports.TriggerRead)
		if err != nil {
			return nil, err
		}
		shipment = refreshed
	}
	return toDetail(shipment), nil
}

// RefreshShipment re-fetches carrier data regardless of staleness.
func (s *ShipmentService) RefreshShipment(ctx context.Context, shipmentID string, trigger ports.RefreshTrigger) (*ports.ShipmentDetail, error) {
	shipment, err := s.repo.FindByID(ctx, shipmentID)
	if err != nil {
		return nil, err
	}
	refreshed, err := s.refresh(ctx, shipment, trigger)
	if err != nil {
		return nil, err
	}
	return toDetail(refreshed), nil
}

// refresh runs one adapter fetch and merges the result. On fetch failure
// the shipment is left untouched and the error is returned; the caller
// decides whether to surface it or, on the background path, swallow it.
func (s *ShipmentService) refresh(ctx context.Context, shipment *domain.Shipment, trigger ports.RefreshTrigger) (*domain.Shipment, error) {
	adapter := s.carriers.Resolve(shipment.Carrier)

	start := s.now()
	res, err := adapter.Fetch(ctx, shipment.TrackingNumber)
	metrics.CarrierFetchDuration.
		WithLabelValues(shipment.Carrier, fetchOutcome(err)).
		Observe(s.now().Sub(start).Seconds())
	if err != nil {
		metrics.RefreshesTotal.WithLabelValues(string(trigger), "error").Inc()
		return nil, fmt.Errorf("refresh shipment %s: %w", shipment.ID, err)
	}
	if res.Synthetic {
		metrics.SyntheticResultsTotal.Inc()
	}

	now := s.now().UTC()
	changed := false
	updated, err := s.updateWithRetry(ctx, shipment.ID, func(sh *domain.Shipment) error {
		sh.ApplyTrackingResult(res, now)
		changed = sh.ApplyStatus(res.Status, now, "carrier refresh ("+string(trigger)+")")
		return nil
	})
	if err != nil {
		metrics.RefreshesTotal.WithLabelValues(string(trigger), "error").Inc()
		return nil, fmt.Errorf("refresh shipment %s: %w", shipment.ID, err)
	}

	if changed {
		metrics.RefreshesTotal.WithLabelValues(string(trigger), "updated").Inc()
		s.logger.Info().
			Str("shipment_id", updated.ID).
			Str("status", string(updated.Status)).
			Str("trigger", string(trigger)).
			Msg("shipment status changed")
	} else {
		metrics.RefreshesTotal.WithLabelValues(string(trigger), "unchanged").Inc()
	}

	s.propagateDeliveryIfNeeded(ctx, updated, now)
	return updated, nil
}

// UpdateShipment applies an administrative edit. A manual status change
// goes through the same transition and delivery-propagation path as an
// automated refresh.
func (s *ShipmentService) UpdateShipment(ctx context.Context, input ports.UpdateShipmentInput) (*ports.ShipmentDetail, error) {
	now := s.now().UTC()
	updated, err := s.updateWithRetry(ctx, input.ShipmentID, func(sh *domain.Shipment) error {
		if input.Carrier != "" {
			sh.Carrier = input.Carrier
		}
		if input.TrackingNumber != "" {
			sh.TrackingNumber = input.TrackingNumber
		}
		if input.Status != "" {
			note := input.Note
			if note == "" {
				note = "manual status edit"
			}
			sh.ApplyStatus(domain.ParseStatus(input.Status), now, note)
			sh.LastUpdated = now
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.propagateDeliveryIfNeeded(ctx, updated, now)
	return toDetail(updated), nil
}

// InsertTrackingEvent records a manually observed event. When the event
// carries a status code, the shipment transitions through the same path as
// refresh and manual edit.
func (s *ShipmentService) InsertTrackingEvent(ctx context.Context, input ports.InsertEventInput) (*ports.ShipmentDetail, error) {
	now := s.now().UTC()
	ts := input.Timestamp
	if ts.IsZero() {
		ts = now
	}

	code := domain.StatusUnknown
	if input.StatusCode != "" {
		code = domain.ParseStatus(input.StatusCode)
	}

	updated, err := s.updateWithRetry(ctx, input.ShipmentID, func(sh *domain.Shipment) error {
		sh.InsertTrackingEvent(domain.TrackingEvent{
			Timestamp:   ts,
			Description: input.Description,
			Location:    input.Location,
			StatusCode:  code,
		})
		if input.StatusCode != "" {
			sh.ApplyStatus(code, now, "manual tracking event")
		}
		sh.LastUpdated = now
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.propagateDeliveryIfNeeded(ctx, updated, now)
	return toDetail(updated), nil
}

// updateWithRetry loads, mutates and saves a shipment, retrying the whole
// read-modify-write on version conflicts so concurrent refreshes cannot
// interleave partial merges.
func (s *ShipmentService) updateWithRetry(ctx context.Context, id string, mutate func(*domain.Shipment) error) (*domain.Shipment, error) {
	for attempt := 0; ; attempt++ {
		shipment, err := s.repo.FindByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if err := mutate(shipment); err != nil {
			return nil, err
		}
		err = s.repo.Update(ctx, shipment)
		if err == nil {
			return shipment, nil
		}
		if !errors.Is(err, domain.ErrVersionConflict) || attempt >= maxUpdateRetries {
			return nil, err
		}
	}
}

func fetchOutcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, domain.ErrTrackingNotFound):
		return "not_found"
	default:
		return "unavailable"
	}
}

// generateShipmentID returns a unique shipment id in the format shp_XXXXXXXXXXXX.
func generateShipmentID() string {
	b := make([]byte, 6)
	if _, err := rand.Read(b); err != nil {
		// fallback: use current nanoseconds
		return fmt.Sprintf("shp_%012x", time.Now().UnixNano())
	}
	return fmt.Sprintf("shp_%012x", b)
}

func toDetail(s *domain.Shipment) *ports.ShipmentDetail {
	events := make([]ports.TrackingEventView, len(s.TrackingHistory))
	for i, ev := range s.TrackingHistory {
		events[i] = ports.TrackingEventView{
			Timestamp:   ev.Timestamp,
			Description: ev.Description,
			Location:    ev.Location,
			StatusCode:  string(ev.StatusCode),
		}
	}
	history := make([]ports.StatusHistoryView, len(s.StatusHistory))
	for i, entry := range s.StatusHistory {
		history[i] = ports.StatusHistoryView{
			FromStatus: string(entry.FromStatus),
			ToStatus:   string(entry.ToStatus),
			Timestamp:  entry.Timestamp,
			Note:       entry.Note,
		}
	}
	return &ports.ShipmentDetail{
		ID:                    s.ID,
		OrderID:               s.OrderID,
		Carrier:               s.Carrier,
		TrackingNumber:        s.TrackingNumber,
		Status:                string(s.Status),
		TrackingHistory:       events,
		StatusHistory:         history,
		ShippedDate:           s.ShippedDate,
		EstimatedDeliveryDate: s.EstimatedDeliveryDate,
		DeliveredDate:         s.DeliveredDate,
		LastUpdated:           s.LastUpdated,
		CreatedAt:             s.CreatedAt,
	}
}
