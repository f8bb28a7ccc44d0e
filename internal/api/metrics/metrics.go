// Package metrics defines and registers all custom Prometheus metrics for the
// LaboursHub marketplace API. It is the single source of truth for metric
// names, labels, and help strings.
//
// Metrics register with the default Prometheus registry at package init; the
// router exposes them on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "labourshub"

// ── Auth metrics ──────────────────────────────────────────────────────────────

// LoginsTotal counts login attempts.
// Label:
//   - result: "ok", "bad_credentials", "role_mismatch", "not_found"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, labelled by outcome.",
	},
	[]string{"result"},
)

// ── Job metrics ───────────────────────────────────────────────────────────────

// JobsCreatedTotal counts hire requests successfully created.
var JobsCreatedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "jobs_created_total",
		Help:      "Total number of hire requests created.",
	},
)

// JobTransitionsTotal counts job status transitions applied.
// Label:
//   - status: the terminal status applied ("accepted" or "rejected")
var JobTransitionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "job_transitions_total",
		Help:      "Total number of job status transitions, by resulting status.",
	},
	[]string{"status"},
)

// RatingsSubmittedTotal counts accepted rating submissions.
var RatingsSubmittedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "ratings_submitted_total",
		Help:      "Total number of ratings accepted.",
	},
)

// ── Presence metrics ──────────────────────────────────────────────────────────

// NotificationsTotal counts best-effort push attempts.
// Labels:
//   - event: the event name ("new-job", "job-status-updated")
//   - result: "pushed" when a live connection accepted the payload,
//     "dropped" when the recipient was offline or the send failed
var NotificationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "notifications_total",
		Help:      "Total number of live notification attempts, by event and result.",
	},
	[]string{"event", "result"},
)

// ConnectedUsers tracks the number of users with an active live connection.
var ConnectedUsers = promauto.NewGauge(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "connected_users",
		Help:      "Current number of users registered in the presence registry.",
	},
)
