// Package metrics defines and registers all custom Prometheus metrics for the
// Samara Works portal API. It is the single source of truth for metric names,
// labels, and help strings.
//
// Metrics register with the default Prometheus registry via promauto at
// package load; the router exposes them on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "portal"

// ── Authentication metrics ────────────────────────────────────────────────────

// SignInAttemptsTotal counts credential sign-in attempts.
// Label:
//   - outcome: "success" or "failure" (failure covers bad credentials and
//     backend errors alike; the split is deliberately not exposed)
var SignInAttemptsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "signin_attempts_total",
		Help:      "Total number of credential sign-in attempts, by outcome.",
	},
	[]string{"outcome"},
)

// PasswordlessLinksTotal counts one-time sign-in link activity.
// Label:
//   - action: "issued", "redeemed", or "rejected"
var PasswordlessLinksTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "passwordless_links_total",
		Help:      "Total number of one-time sign-in link operations, by action.",
	},
	[]string{"action"},
)

// ── Resolver metrics ──────────────────────────────────────────────────────────

// ProfileResolutionsTotal counts profile resolution outcomes.
// Label:
//   - result: "resolved" (row found), "created" (default row inserted),
//     "unresolved" (degraded state), or "stale" (discarded by generation check)
var ProfileResolutionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "profile_resolutions_total",
		Help:      "Total number of profile resolution attempts, by result.",
	},
	[]string{"result"},
)

// ActiveResolvers tracks the number of session resolvers cached in the arbiter.
var ActiveResolvers = promauto.NewGauge(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "active_resolvers",
		Help:      "Current number of per-session resolvers held in memory.",
	},
)

// ── Route guard metrics ───────────────────────────────────────────────────────

// GuardDecisionsTotal counts route guard verdicts.
// Label:
//   - verdict: "allowed", "login_redirect", or "unauthorized"
var GuardDecisionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "guard_decisions_total",
		Help:      "Total number of route guard decisions, by verdict.",
	},
	[]string{"verdict"},
)

// ── Intake metrics ────────────────────────────────────────────────────────────

// IntakeSubmissionsTotal counts persisted form submissions.
// Label:
//   - kind: "family_support", "emergency_assistance", "volunteer", or
//     "sponsor_inquiry"
var IntakeSubmissionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "intake_submissions_total",
		Help:      "Total number of intake form submissions recorded, by form kind.",
	},
	[]string{"kind"},
)

// IntakeQueueDepth tracks submissions pending in each intake dispatcher worker.
// Label:
//   - worker_id: numeric worker index (e.g. "0", "1", …)
var IntakeQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "intake_queue_depth",
		Help:      "Current number of submissions pending in each dispatcher worker channel.",
	},
	[]string{"worker_id"},
)
