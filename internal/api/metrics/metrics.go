// Package metrics defines and registers all custom Prometheus metrics for the
// telemedicine portal client. It is the single source of truth for metric
// names, labels, and help strings.
//
// Metrics are registered with the default Prometheus registry on package
// initialisation and exposed on /metrics by the router.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "telemed_portal"

// ── Navigation metrics ────────────────────────────────────────────────────────

// GuardDecisionsTotal counts route guard evaluations.
// Label:
//   - outcome: "render", "loading", "redirect_login" or "redirect_unauthorized"
var GuardDecisionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "guard_decisions_total",
		Help:      "Total number of route guard decisions, by outcome.",
	},
	[]string{"outcome"},
)

// SessionTransitionsTotal counts session lifecycle events.
// Label:
//   - event: "login" or "logout"
var SessionTransitionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "session_transitions_total",
		Help:      "Total number of session transitions, by event.",
	},
	[]string{"event"},
)

// ── Notification metrics ──────────────────────────────────────────────────────

// NotificationRefreshTotal counts background notification refreshes.
// Label:
//   - result: "ok" or "error"
var NotificationRefreshTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "notification_refresh_total",
		Help:      "Total number of notification list refreshes, by result.",
	},
	[]string{"result"},
)

// NotificationRefreshDuration measures a full fetch-and-replace cycle.
var NotificationRefreshDuration = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "notification_refresh_duration_seconds",
		Help:      "Duration of a notification refresh from trigger to applied list.",
		Buckets:   prometheus.DefBuckets,
	},
)

// NotificationsUnread is the exact unread count shown behind the badge.
var NotificationsUnread = promauto.NewGauge(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "notifications_unread",
		Help:      "Current number of unread notifications for the signed-in user.",
	},
)

// NotificationMarkReadTotal counts mark-as-read requests.
// Label:
//   - result: "ok", "not_found" or "error"
var NotificationMarkReadTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "notification_mark_read_total",
		Help:      "Total number of mark-as-read requests, by result.",
	},
	[]string{"result"},
)

// ── Realtime metrics ──────────────────────────────────────────────────────────

// RealtimeConnectsTotal counts realtime dial attempts.
// Label:
//   - result: "ok" or "error"
var RealtimeConnectsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "realtime_connects_total",
		Help:      "Total number of realtime channel dial attempts, by result.",
	},
	[]string{"result"},
)

// RealtimeEventsTotal counts realtime envelopes.
// Labels:
//   - direction: "in" or "out"
//   - event: envelope event name (e.g. "newNotification")
var RealtimeEventsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "realtime_events_total",
		Help:      "Total number of realtime events sent and received.",
	},
	[]string{"direction", "event"},
)
