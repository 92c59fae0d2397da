package queue

import (
	"context"
	"hash/fnv"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/shipwatch/tracking-engine/internal/api/metrics"
	"github.com/shipwatch/tracking-engine/internal/core/ports"
)

const (
	defaultWorkers = 8
	channelBuffer  = 256
)

// refreshJob is one queued background refresh.
type refreshJob struct {
	ShipmentID     string
	TrackingNumber string
}

// Dispatcher routes background refreshes to a fixed set of workers using
// consistent hashing on the tracking number, so refreshes for one shipment
// never run concurrently with each other.
type Dispatcher struct {
	workers []chan refreshJob
	service ports.ShipmentService
	log     zerolog.Logger
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, service ports.ShipmentService, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers: make([]chan refreshJob, numWorkers),
		service: service,
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan refreshJob, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		go d.runWorker(ctx, i, ch)
	}
}

// Schedule queues a refresh on the worker responsible for the tracking
// number. Best effort: when the shard's buffer is full the refresh is
// dropped, since staleness detection on the next read will redo it anyway.
func (d *Dispatcher) Schedule(shipmentID, trackingNumber string) {
	job := refreshJob{ShipmentID: shipmentID, TrackingNumber: trackingNumber}
	idx := d.shardIndex(trackingNumber)
	select {
	case d.workers[idx] <- job:
		metrics.RefreshQueueDepth.WithLabelValues(strconv.Itoa(idx)).Set(float64(len(d.workers[idx])))
	default:
		d.log.Warn().
			Str("shipment_id", shipmentID).
			Int("worker_id", idx).
			Msg("refresh queue full, dropping background refresh")
	}
}

// shardIndex maps a tracking number deterministically to a worker index.
func (d *Dispatcher) shardIndex(trackingNumber string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(trackingNumber))
	return int(h.Sum32()) % len(d.workers)
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan refreshJob) {
	for {
		select {
		case <-ctx.Done():
			return
		case job, ok := <-ch:
			if !ok {
				return
			}
			metrics.RefreshQueueDepth.WithLabelValues(strconv.Itoa(id)).Set(float64(len(ch)))
			// Background refreshes swallow carrier errors; the shipment
			// keeps its last known state.
			if _, err := d.service.RefreshShipment(ctx, job.ShipmentID, ports.TriggerBackground); err != nil {
				d.log.Warn().Err(err).
					Str("shipment_id", job.ShipmentID).
					Str("tracking_number", job.TrackingNumber).
					Int("worker_id", id).
					Msg("background refresh failed")
			}
		}
	}
}
