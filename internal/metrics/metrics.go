// Package metrics defines every custom Prometheus metric of the WildGuard
// console: backend calls, polling, and session lifecycle. Metric names, labels
// and help strings live here and nowhere else.
//
// Metrics register with the default registry on package init via promauto.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "wildguard_console"

// ── Backend API metrics ───────────────────────────────────────────────────────

// BackendRequestsTotal counts calls made by the API client.
// Labels:
//   - endpoint: the request path template (e.g. "/admin/cameras/{id}/")
//   - status: HTTP status code, or "network_error"
var BackendRequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "backend_requests_total",
		Help:      "Total number of requests sent to the WildGuard backend.",
	},
	[]string{"endpoint", "status"},
)

// BackendRequestDuration measures backend round trips.
// Label:
//   - endpoint: the request path template
var BackendRequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "backend_request_duration_seconds",
		Help:      "Duration of requests sent to the WildGuard backend.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"endpoint"},
)

// CredentialsClearedTotal counts 401 responses that wiped stored credentials.
var CredentialsClearedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "credentials_cleared_total",
		Help:      "Total number of times a 401 from the backend cleared stored credentials.",
	},
)

// ── Polling metrics ───────────────────────────────────────────────────────────

// PollTicksTotal counts completed poll fetches.
// Labels:
//   - page: page name (e.g. "admin/dashboard")
//   - result: "applied", "error", or "stale" (a newer generation already landed)
var PollTicksTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "poll_ticks_total",
		Help:      "Total number of completed page poll fetches, by outcome.",
	},
	[]string{"page", "result"},
)

// ActiveStreams tracks open page streams (mounted pages).
// Label:
//   - page: page name
var ActiveStreams = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "active_page_streams",
		Help:      "Current number of open page streams.",
	},
	[]string{"page"},
)

// ── Session metrics ───────────────────────────────────────────────────────────

// SessionEventsTotal counts session lifecycle transitions.
// Label:
//   - event: "login", "login_failed", "logout", "expired", "register"
var SessionEventsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "session_events_total",
		Help:      "Total number of session lifecycle events.",
	},
	[]string{"event"},
)

// GuardDecisionsTotal counts route guard outcomes.
// Label:
//   - outcome: "render", "redirect_landing", "redirect_role_root"
var GuardDecisionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "guard_decisions_total",
		Help:      "Total number of route guard decisions, by outcome.",
	},
	[]string{"outcome"},
)

// AuditQueueDepth tracks pending audit events per dispatcher worker.
// Label:
//   - worker_id: numeric worker index
var AuditQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "audit_queue_depth",
		Help:      "Current number of audit events pending in each dispatcher worker channel.",
	},
	[]string{"worker_id"},
)
