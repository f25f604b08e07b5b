// Package metrics defines and registers all custom Prometheus metrics for the
// session gateway. It is the single source of truth for metric names, labels,
// and help strings.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "session_gateway"

// LoginsTotal counts login attempts handled by the session service.
// Label:
//   - result: "success", "rejected" (upstream non-2xx) or "unreachable"
//     (no response from the authentication endpoint)
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// GuardDecisionsTotal counts route guard evaluations.
// Label:
//   - outcome: "granted", "denied", "unauthenticated" or "expired"
var GuardDecisionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "guard_decisions_total",
		Help:      "Total number of route guard decisions, by outcome.",
	},
	[]string{"outcome"},
)

// SessionInvalidationsTotal counts session teardowns outside explicit logout.
// Label:
//   - reason: "unauthorized" (upstream 401) or "expired" (stale credential)
var SessionInvalidationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "session_invalidations_total",
		Help:      "Total number of forced session teardowns, by reason.",
	},
	[]string{"reason"},
)

// UpstreamRequestDuration measures calls to the authentication endpoint.
// Labels:
//   - operation: "login", "recover_password", "validate_reset_token", "reset_password"
//   - status: upstream HTTP status code, or "0" when no response was received
var UpstreamRequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "upstream_request_duration_seconds",
		Help:      "Duration of authentication endpoint calls.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"operation", "status"},
)
