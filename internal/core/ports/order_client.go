package ports

import (
	"context"
	"time"
)

// Order is the minimal view of the order-management collaborator's
// aggregate needed by the tracking engine.
type Order struct {
	ID     string
	Status string
}

// OrderClient is the order-management collaborator. Calls carry
// at-least-once semantics; the delivery propagator's idempotence guard
// compensates for duplicate notifications.
type OrderClient interface {
	FindOrder(ctx context.Context, orderID string) (*Order, error)
	MarkOrderShipped(ctx context.Context, orderID string, at time.Time) error
	MarkOrderDelivered(ctx context.Context, orderID string, at time.Time) error
}
