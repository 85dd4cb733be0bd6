// Package metrics defines and registers all custom Prometheus metrics for the
// worktrack API. It is the single source of truth for metric names, labels,
// and help strings. Metrics are registered with the default registry via
// promauto at package init.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "worktrack"

// ── Authentication metrics ────────────────────────────────────────────────────

// LoginsTotal counts login attempts.
// Label:
//   - outcome: "success" or "failure"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by outcome.",
	},
	[]string{"outcome"},
)

// TokenVerificationsTotal counts bearer-token verifications.
// Label:
//   - result: "ok", "expired", "invalid", or "unresolved" (valid token whose
//     subject is not an active account)
var TokenVerificationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "token_verifications_total",
		Help:      "Total number of bearer token verifications, by result.",
	},
	[]string{"result"},
)

// AuthorizationDenialsTotal counts policy rejections of protected operations.
// Label:
//   - operation: short operation name (e.g. "user.delete")
var AuthorizationDenialsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "authorization_denials_total",
		Help:      "Total number of operations rejected by the authorization policy.",
	},
	[]string{"operation"},
)

// ── Data-access metrics ───────────────────────────────────────────────────────

// RetryAttemptsTotal counts retries of transient data-access failures
// (attempt 2 onwards; first attempts are not counted).
// Label:
//   - operation: short operation name passed to the retry executor
var RetryAttemptsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "retry_attempts_total",
		Help:      "Total number of retried data-access attempts, by operation.",
	},
	[]string{"operation"},
)

// RetryExhaustedTotal counts operations that failed after all retry attempts.
// Label:
//   - operation: short operation name passed to the retry executor
var RetryExhaustedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "retry_exhausted_total",
		Help:      "Total number of data-access operations that exhausted their retries.",
	},
	[]string{"operation"},
)

// PrincipalCacheTotal counts principal cache lookups.
// Label:
//   - result: "hit", "miss", or "error"
var PrincipalCacheTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "principal_cache_total",
		Help:      "Total number of principal cache lookups, by result.",
	},
	[]string{"result"},
)
