// Package metrics defines and registers all custom Prometheus metrics for the
// custody ledger. It is the single source of truth for metric names, labels,
// and help strings.
//
// Metrics register with the default Prometheus registry at package init; the
// router exposes them on /metrics.
package metrics

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/cargotrail/custody-ledger/internal/core/domain"
)

const namespace = "custody_ledger"

// ── Ledger operation metrics ─────────────────────────────────────────────────

// OpsTotal counts ledger operations that completed successfully.
// Label:
//   - op: operation name ("create", "set_status", "advance", "report_damage")
var OpsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "operations_total",
		Help:      "Total number of ledger mutations applied successfully.",
	},
	[]string{"op"},
)

// OpErrorsTotal counts rejected or failed ledger operations.
// Labels:
//   - op: operation name
//   - reason: rejection kind ("already_exists", "not_found", "unauthorized",
//     "invalid_state", "stations_exhausted", "unknown_status", "internal")
var OpErrorsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "operation_errors_total",
		Help:      "Total number of ledger mutations rejected or failed, by reason.",
	},
	[]string{"op", "reason"},
)

// OpDuration measures how long a single ledger mutation takes end-to-end,
// including its wait in the mutation scheduler.
var OpDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "operation_duration_seconds",
		Help:      "Duration of ledger mutations from submission to persistence.",
		Buckets:   prometheus.DefBuckets, // .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10
	},
	[]string{"op"},
)

// ── Notification feed metrics ────────────────────────────────────────────────

// NotificationsEmittedTotal counts feed entries appended after committed
// mutations.
// Label:
//   - kind: "created", "status_changed", "station_reached", "damage_reported"
var NotificationsEmittedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "notifications_emitted_total",
		Help:      "Total number of notification feed entries emitted, by kind.",
	},
	[]string{"kind"},
)

// FeedErrorsTotal counts failures appending or publishing feed entries.
// These are post-commit and never roll back the mutation.
// Label:
//   - sink: "store" (durable append) or "stream" (subscriber push)
var FeedErrorsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "feed_errors_total",
		Help:      "Total number of notification feed write failures, by sink.",
	},
	[]string{"sink"},
)

// ── Damage metrics ───────────────────────────────────────────────────────────

// DamagedUnitsTotal accumulates damaged quantity across all accepted claims.
var DamagedUnitsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "damaged_units_total",
		Help:      "Running sum of damaged units across all accepted damage claims.",
	},
)

// ── Scheduler metrics ────────────────────────────────────────────────────────

// MutationQueueDepth tracks the current number of mutations waiting in each
// scheduler worker channel.
// Label:
//   - worker_id: numeric worker index (e.g. "0", "1", …)
var MutationQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "mutation_queue_depth",
		Help:      "Current number of mutations pending in each scheduler worker channel.",
	},
	[]string{"worker_id"},
)

// Reason maps a ledger error to its OpErrorsTotal reason label.
func Reason(err error) string {
	switch {
	case errors.Is(err, domain.ErrShipmentExists):
		return "already_exists"
	case errors.Is(err, domain.ErrShipmentNotFound):
		return "not_found"
	case errors.Is(err, domain.ErrUnauthorized):
		return "unauthorized"
	case errors.Is(err, domain.ErrInvalidState):
		return "invalid_state"
	case errors.Is(err, domain.ErrStationsExhausted):
		return "stations_exhausted"
	case errors.Is(err, domain.ErrUnknownStatus):
		return "unknown_status"
	default:
		return "internal"
	}
}
