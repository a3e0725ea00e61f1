// Package metrics defines and registers the custom Prometheus metrics of the
// user portal. It is the single source of truth for metric names, labels and
// help strings. Metrics are registered with the default registry on import;
// HTTP-level metrics come from echoprometheus.
package metrics

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/99minutos/user-portal/internal/core/domain"
)

const namespace = "user_portal"

// Outcome labels shared by the auth and API metrics.
const (
	OutcomeSuccess    = "success"
	OutcomeValidation = "validation"
	OutcomeRejected   = "rejected"
	OutcomeConnection = "connection"
	OutcomeError      = "error"
)

// ── Auth metrics ──────────────────────────────────────────────────────────────

// AuthAttemptsTotal counts login, registration and social login attempts.
// Labels:
//   - op: "login", "register", "social_login"
//   - outcome: see Outcome constants
var AuthAttemptsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_attempts_total",
		Help:      "Total number of authentication attempts, by operation and outcome.",
	},
	[]string{"op", "outcome"},
)

// LogoutsTotal counts explicit logouts.
var LogoutsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logouts_total",
		Help:      "Total number of logouts.",
	},
)

// ── Route guard metrics ───────────────────────────────────────────────────────

// GuardDecisionsTotal counts route guard outcomes.
// Labels:
//   - decision: "loading", "redirect_login", "redirect_unauthorized", "render"
//   - required_role: the role the route demands, or "any"
var GuardDecisionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "route_guard_decisions_total",
		Help:      "Total number of protected route evaluations, by decision.",
	},
	[]string{"decision", "required_role"},
)

// ── Identity API client metrics ───────────────────────────────────────────────

// APIRequestDuration measures identity API round trips as seen by the portal.
// Labels:
//   - op: client operation (e.g. "login", "list_users")
//   - outcome: "success", "rejected" or "connection"
var APIRequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "identity_api_request_duration_seconds",
		Help:      "Duration of identity API calls made by the portal.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"op", "outcome"},
)

// Outcome classifies err into one of the Outcome labels.
func Outcome(err error) string {
	var ve *domain.ValidationError
	switch {
	case err == nil:
		return OutcomeSuccess
	case errors.As(err, &ve):
		return OutcomeValidation
	case errors.Is(err, domain.ErrRejected):
		return OutcomeRejected
	case errors.Is(err, domain.ErrConnection):
		return OutcomeConnection
	default:
		return OutcomeError
	}
}

// RecordAuthAttempt increments AuthAttemptsTotal for op.
func RecordAuthAttempt(op string, err error) {
	AuthAttemptsTotal.WithLabelValues(op, Outcome(err)).Inc()
}

// RecordGuardDecision increments GuardDecisionsTotal.
func RecordGuardDecision(decision string, requiredRole domain.Role) {
	role := string(requiredRole)
	if role == "" {
		role = "any"
	}
	GuardDecisionsTotal.WithLabelValues(decision, role).Inc()
}

// ObserveAPICall records one identity API round trip.
func ObserveAPICall(op string, err error, d time.Duration) {
	APIRequestDuration.WithLabelValues(op, Outcome(err)).Observe(d.Seconds())
}
