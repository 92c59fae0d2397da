package ports

import (
	"context"
	"time"

	"github.com/shipwatch/tracking-engine/internal/core/domain"
)

// ShipmentRepository defines persistence operations for shipments.
//
// Update uses optimistic concurrency on Shipment.Version and returns
// domain.ErrVersionConflict when the stored version moved; callers reload
// and retry. Create enforces the one-shipment-per-order constraint and
// returns domain.ErrShipmentExists on violation.
type ShipmentRepository interface {
	Create(ctx context.Context, s *domain.Shipment) error
	FindByID(ctx context.Context, id string) (*domain.Shipment, error)
	FindByOrderID(ctx context.Context, orderID string) (*domain.Shipment, error)
	Update(ctx context.Context, s *domain.Shipment) error

	// ClaimDelivery atomically sets DeliveredDate iff it is still unset,
	// reporting whether this call won the claim. The guard is evaluated by
	// the storage engine, not in memory, so concurrent refreshes cannot
	// both observe "not yet delivered".
	ClaimDelivery(ctx context.Context, id string, at time.Time) (bool, error)

	// Read-side projections.
	CountByStatus(ctx context.Context) (map[domain.CanonicalStatus]int64, error)
	CountByCarrier(ctx context.Context) (map[string]int64, error)
	CountCreatedSince(ctx context.Context, since time.Time) (int64, error)
}
