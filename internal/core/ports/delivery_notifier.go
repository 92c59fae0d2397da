package ports

import (
	"context"
	"time"
)

// DeliveryNotification is one queued order-delivered side effect.
type DeliveryNotification struct {
	OrderID     string    `json:"order_id"`
	DeliveredAt time.Time `json:"delivered_at"`
	Attempts    int       `json:"attempts"`
}

// DeliveryNotifier queues order-delivered notifications for asynchronous,
// retried dispatch. Enqueue failures never roll back the shipment update;
// the shipment record stays the source of truth for what the carrier said.
type DeliveryNotifier interface {
	EnqueueDelivered(ctx context.Context, n DeliveryNotification) error
}
