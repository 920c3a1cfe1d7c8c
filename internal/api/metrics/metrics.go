// Package metrics defines and registers all custom Prometheus metrics for the
// logistics API. It is the single source of truth for metric names, labels,
// and help strings.
//
// Metrics register themselves with the default Prometheus registry via
// promauto at package load.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "logistics"

// ── Shipment metrics ──────────────────────────────────────────────────────────

// ShipmentsCreatedTotal counts newly created shipments.
// Label:
//   - service_type: "van", "light_truck", "heavy_truck", or "trailer"
var ShipmentsCreatedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "shipments_created_total",
		Help:      "Total number of shipments created, by service type.",
	},
	[]string{"service_type"},
)

// StatusTransitionsTotal counts applied shipment status transitions.
// Labels:
//   - from: the previous status
//   - to: the new status
var StatusTransitionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "status_transitions_total",
		Help:      "Total number of shipment status transitions applied.",
	},
	[]string{"from", "to"},
)

// ── Payment / webhook metrics ─────────────────────────────────────────────────

// PaymentsInitiatedTotal counts opened payment attempts.
// Label:
//   - provider: "stripe" or "paystack"
var PaymentsInitiatedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "payments_initiated_total",
		Help:      "Total number of payments initiated, by provider.",
	},
	[]string{"provider"},
)

// WebhookEventsTotal counts webhook event dispositions.
// Labels:
//   - provider: "stripe" or "paystack"
//   - result: "applied", "duplicate", "ignored", "invalid_signature", or "error"
var WebhookEventsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "webhook_events_total",
		Help:      "Total number of provider webhook events, by disposition.",
	},
	[]string{"provider", "result"},
)

// WebhookQueueDepth tracks events waiting in each webhook worker channel.
// Label:
//   - worker_id: numeric worker index (e.g. "0", "1", …)
var WebhookQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "webhook_queue_depth",
		Help:      "Current number of webhook events pending in each worker channel.",
	},
	[]string{"worker_id"},
)

// WebhookProcessingDuration measures end-to-end webhook event application.
// Label:
//   - provider: "stripe" or "paystack"
var WebhookProcessingDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "webhook_processing_duration_seconds",
		Help:      "Duration of webhook event processing from dequeue to persistence.",
		Buckets:   prometheus.DefBuckets, // .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10
	},
	[]string{"provider"},
)
