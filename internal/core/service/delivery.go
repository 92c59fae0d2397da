package service

import (
	"context"
	"time"

	"github.com/shipwatch/tracking-engine/internal/api/metrics"
	"github.com/shipwatch/tracking-engine/internal/core/domain"
	"github.com/shipwatch/tracking-engine/internal/core/ports"
)

// propagateDeliveryIfNeeded runs the delivered side effect at most once per
// shipment. The claim is decided by the storage engine (set deliveredDate
// iff still null), so two concurrent refreshes that both observe delivered
// race on the claim and exactly one wins; only the winner enqueues the
// order notification. A lost claim or a failed enqueue never rolls back the
// shipment update.
func (s *ShipmentService) propagateDeliveryIfNeeded(ctx context.Context, shipment *domain.Shipment, at time.Time) {
	if shipment.Status != domain.StatusDelivered || shipment.DeliveredDate != nil {
		return
	}

	claimed, err := s.repo.ClaimDelivery(ctx, shipment.ID, at)
	if err != nil {
		s.logger.Error().Err(err).Str("shipment_id", shipment.ID).Msg("delivery claim failed")
		return
	}
	if !claimed {
		return
	}
	shipment.DeliveredDate = &at
	metrics.DeliveriesTotal.Inc()

	s.logger.Info().
		Str("shipment_id", shipment.ID).
		Str("order_id", shipment.OrderID).
		Time("delivered_at", at).
		Msg("shipment delivered")

	err = s.notifier.EnqueueDelivered(ctx, ports.DeliveryNotification{
		OrderID:     shipment.OrderID,
		DeliveredAt: at,
	})
	if err != nil {
		// The queue worker cannot retry what was never enqueued; the order
		// stays reconcilable from the shipment record.
		s.logger.Error().Err(err).Str("order_id", shipment.OrderID).Msg("failed to enqueue delivery notification")
	}
}
