// Package metrics defines and registers all custom Prometheus metrics for the
// tracking engine. It is the single source of truth for metric names, labels,
// and help strings.
//
// All metrics register with the default Prometheus registry at init time via
// promauto; the /metrics endpoint exposes them.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "tracking"

// ── Carrier metrics ───────────────────────────────────────────────────────────

// CarrierFetchDuration measures one adapter fetch end-to-end.
// Labels:
//   - carrier: the shipment's carrier code
//   - outcome: "ok", "not_found", or "unavailable"
var CarrierFetchDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "carrier_fetch_duration_seconds",
		Help:      "Duration of carrier adapter fetches, by carrier and outcome.",
		Buckets:   prometheus.DefBuckets, // .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10
	},
	[]string{"carrier", "outcome"},
)

// SyntheticResultsTotal counts fetches answered with synthetic data, either
// by the fallback adapter or the simulated backend.
var SyntheticResultsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "synthetic_results_total",
		Help:      "Total number of tracking fetches served with synthetic data.",
	},
)

// ── Refresh metrics ───────────────────────────────────────────────────────────

// RefreshesTotal counts refresh attempts against persisted shipments.
// Labels:
//   - trigger: "read", "manual", or "background"
//   - outcome: "updated" (status changed), "unchanged", or "error"
var RefreshesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "refreshes_total",
		Help:      "Total number of shipment refreshes, by trigger and outcome.",
	},
	[]string{"trigger", "outcome"},
)

// RefreshQueueDepth tracks the number of background refreshes waiting in
// each dispatcher worker channel.
// Label:
//   - worker_id: numeric worker index (e.g. "0", "1", …)
var RefreshQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "refresh_queue_depth",
		Help:      "Current number of refreshes pending in each dispatcher worker channel.",
	},
	[]string{"worker_id"},
)

// ── Delivery metrics ──────────────────────────────────────────────────────────

// DeliveriesTotal counts delivery claims won. At most one per shipment over
// its lifetime; duplicate delivered observations do not increment it.
var DeliveriesTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "deliveries_total",
		Help:      "Total number of shipments marked delivered for the first time.",
	},
)

// DeliveryNotificationsTotal counts dispatch results for queued
// order-delivered notifications.
// Label:
//   - result: "sent", "retried", or "dropped"
var DeliveryNotificationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "delivery_notifications_total",
		Help:      "Total number of delivery notification dispatch attempts, by result.",
	},
	[]string{"result"},
)

// ── Shipment metrics ──────────────────────────────────────────────────────────

// ShipmentsCreatedTotal counts newly created shipments.
// Label:
//   - carrier: the carrier code supplied at creation
var ShipmentsCreatedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "shipments_created_total",
		Help:      "Total number of shipments created, by carrier.",
	},
	[]string{"carrier"},
)
