package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/shipwatch/tracking-engine/internal/api/metrics"
	"github.com/shipwatch/tracking-engine/internal/core/ports"
)

const (
	notifyQueueKey    = "delivery:notifications"
	maxNotifyAttempts = 5
	popTimeout        = 5 * time.Second
	dispatchTimeout   = 10 * time.Second
)

// NotifyQueue is a Redis-list-backed queue for order-delivered
// notifications. The shipment update and the order side effect are decoupled
// on purpose: a delivered shipment stays delivered even when the order
// service is down, and the queued notification is retried until it lands.
type NotifyQueue struct {
	client *redis.Client
}

func NewNotifyQueue(client *redis.Client) *NotifyQueue {
	return &NotifyQueue{client: client}
}

// EnqueueDelivered pushes one notification onto the queue.
func (q *NotifyQueue) EnqueueDelivered(ctx context.Context, n ports.DeliveryNotification) error {
	payload, err := json.Marshal(n)
	if err != nil {
		return fmt.Errorf("marshal notification: %w", err)
	}
	if err := q.client.LPush(ctx, notifyQueueKey, payload).Err(); err != nil {
		return fmt.Errorf("enqueue notification: %w", err)
	}
	return nil
}

// pop blocks up to popTimeout for the oldest queued notification. Returns
// redis.Nil when the queue stayed empty.
func (q *NotifyQueue) pop(ctx context.Context) (*ports.DeliveryNotification, error) {
	vals, err := q.client.BRPop(ctx, popTimeout, notifyQueueKey).Result()
	if err != nil {
		return nil, err
	}
	// BRPOP returns [key, value].
	var n ports.DeliveryNotification
	if err := json.Unmarshal([]byte(vals[1]), &n); err != nil {
		return nil, fmt.Errorf("decode notification: %w", err)
	}
	return &n, nil
}

// NotifyWorker drains the queue and calls the order collaborator. Failed
// dispatches are re-enqueued with an incremented attempt counter and dropped
// once the attempt budget is spent.
type NotifyWorker struct {
	queue  *NotifyQueue
	orders ports.OrderClient
	logger zerolog.Logger
	stop   chan struct{}
	done   chan struct{}
}

func NewNotifyWorker(queue *NotifyQueue, orders ports.OrderClient, logger zerolog.Logger) *NotifyWorker {
	return &NotifyWorker{
		queue:  queue,
		orders: orders,
		logger: logger,
		stop:   make(chan struct{}),
		done:   make(chan struct{}),
	}
}

// Start launches the worker goroutine.
func (w *NotifyWorker) Start() {
	go w.run()
}

// Stop signals the worker and waits for the in-flight dispatch to finish.
func (w *NotifyWorker) Stop(ctx context.Context) error {
	close(w.stop)
	select {
	case <-w.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (w *NotifyWorker) run() {
	defer close(w.done)
	for {
		select {
		case <-w.stop:
			return
		default:
		}

		n, err := w.queue.pop(context.Background())
		if err != nil {
			if errors.Is(err, redis.Nil) {
				continue
			}
			w.logger.Error().Err(err).Msg("failed to pop delivery notification")
			metrics.DeliveryNotificationsTotal.WithLabelValues("dropped").Inc()
			continue
		}
		w.dispatch(*n)
	}
}

func (w *NotifyWorker) dispatch(n ports.DeliveryNotification) {
	ctx, cancel := context.WithTimeout(context.Background(), dispatchTimeout)
	defer cancel()

	err := w.orders.MarkOrderDelivered(ctx, n.OrderID, n.DeliveredAt)
	if err == nil {
		metrics.DeliveryNotificationsTotal.WithLabelValues("sent").Inc()
		w.logger.Info().Str("order_id", n.OrderID).Msg("order marked delivered")
		return
	}

	n.Attempts++
	if n.Attempts >= maxNotifyAttempts {
		metrics.DeliveryNotificationsTotal.WithLabelValues("dropped").Inc()
		w.logger.Error().Err(err).
			Str("order_id", n.OrderID).
			Int("attempts", n.Attempts).
			Msg("delivery notification dropped after retry budget")
		return
	}

	metrics.DeliveryNotificationsTotal.WithLabelValues("retried").Inc()
	w.logger.Warn().Err(err).
		Str("order_id", n.OrderID).
		Int("attempts", n.Attempts).
		Msg("delivery notification failed, re-queued")
	if err := w.queue.EnqueueDelivered(ctx, n); err != nil {
		metrics.DeliveryNotificationsTotal.WithLabelValues("dropped").Inc()
		w.logger.Error().Err(err).Str("order_id", n.OrderID).Msg("failed to re-queue delivery notification")
	}
}
