// Package metrics defines and registers the custom Prometheus metrics of the
// user service. It is the single source of truth for metric names, labels and
// help strings.
//
// Collectors are registered with the default registry on package init via
// promauto; the /metrics endpoint exposes them alongside the echoprometheus
// request metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "identity"

// Result label values shared by the counters below.
const (
	ResultSuccess = "success"
	ResultError   = "error"
)

// ── User metrics ──────────────────────────────────────────────────────────────

// UsersRegisteredTotal counts accounts created through registration.
// Label:
//   - role: "Player" or "Publisher"
var UsersRegisteredTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "users_registered_total",
		Help:      "Total number of user accounts registered, by role.",
	},
	[]string{"role"},
)

// UserOperationsTotal counts identity service calls.
// Labels:
//   - operation: "get", "list", "update", "delete", "list_players", "list_publishers"
//   - result: "success" or "error"
var UserOperationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "user_operations_total",
		Help:      "Total number of user service operations, by operation and result.",
	},
	[]string{"operation", "result"},
)

// UserListDuration measures how long a full listing takes, cursor drain included.
// Label:
//   - operation: "list", "list_players" or "list_publishers"
var UserListDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "user_list_duration_seconds",
		Help:      "Duration of user listings from query to last decoded document.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"operation"},
)

// UserCacheLookupsTotal counts read-through cache lookups.
// Label:
//   - result: "hit", "miss" or "error"
var UserCacheLookupsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "user_cache_lookups_total",
		Help:      "Total number of user cache lookups, labelled by result (hit/miss/error).",
	},
	[]string{"result"},
)

// ── Auth metrics ──────────────────────────────────────────────────────────────

// LoginAttemptsTotal counts login attempts.
// Label:
//   - result: "success", "invalid_credentials" or "error"
var LoginAttemptsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "login_attempts_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// TokenRejectionsTotal counts bearer tokens refused by the auth middleware.
// The reason never reaches the client.
// Label:
//   - reason: "missing", "expired", "malformed" or "signature_invalid"
var TokenRejectionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "token_rejections_total",
		Help:      "Total number of rejected bearer tokens, by internal reason.",
	},
	[]string{"reason"},
)
