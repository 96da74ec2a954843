// Package metrics exposes Prometheus counters for the ingestion pipeline.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// WebhookRequests counts webhook deliveries by response class.
	WebhookRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "coach_webhook_requests_total",
		Help: "Webhook deliveries by response status.",
	}, []string{"status"})

	// PollCycles counts poll sweeps by result.
	PollCycles = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "coach_poll_cycles_total",
		Help: "Poll scheduler cycles by result.",
	}, []string{"result"})

	// WorkoutsProcessed counts orchestrator runs by terminal outcome.
	WorkoutsProcessed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "coach_workouts_processed_total",
		Help: "Workouts driven through the pipeline by outcome.",
	}, []string{"outcome"})

	// RoutineUpdateAttempts counts upstream routine write attempts.
	RoutineUpdateAttempts = promauto.NewCounter(prometheus.CounterOpts{
		Name: "coach_routine_update_attempts_total",
		Help: "Routine update attempts against the Hevy API.",
	})
)

// Handler serves the default Prometheus registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
