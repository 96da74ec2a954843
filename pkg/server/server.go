// Package server exposes the webhook receiver plus health and metrics
// endpoints.
package server

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/ripixel/hevy-coach/pkg/hevy"
	"github.com/ripixel/hevy-coach/pkg/metrics"
)

// Processor drives a workout through the pipeline. Satisfied by
// *orchestrator.Orchestrator.
type Processor interface {
	Process(ctx context.Context, workout *hevy.Workout)
}

// Server validates webhook deliveries and hands them to the orchestrator
// asynchronously; the caller gets an ack before any upstream work starts.
type Server struct {
	token      string
	orch       Processor
	logger     *slog.Logger
	runTimeout time.Duration

	inflight sync.WaitGroup
}

func New(webhookToken string, orch Processor, runTimeout time.Duration, logger *slog.Logger) *Server {
	return &Server{
		token:      webhookToken,
		orch:       orch,
		logger:     logger.With("component", "server"),
		runTimeout: runTimeout,
	}
}

// Router builds the chi handler tree.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)

	r.Post("/webhook", s.handleWebhook)
	r.Get("/healthz", s.handleHealth)
	r.Method(http.MethodGet, "/metrics", metrics.Handler())
	return r
}

// Drain waits up to timeout for in-flight webhook-triggered pipeline runs
// to finish. Abandoning the rest is safe: routine writes are idempotent
// and the next poll sweep picks up anything unfinished.
func (s *Server) Drain(timeout time.Duration) bool {
	done := make(chan struct{})
	go func() {
		s.inflight.Wait()
		close(done)
	}()
	select {
	case <-done:
		return true
	case <-time.After(timeout):
		return false
	}
}

// webhookPayload is the workout-completed delivery from Hevy.
type webhookPayload struct {
	ID      string       `json:"id"`
	Payload hevy.Workout `json:"payload"`
}

func (s *Server) handleWebhook(w http.ResponseWriter, r *http.Request) {
	if !s.authorized(r) {
		metrics.WebhookRequests.WithLabelValues("unauthorized").Inc()
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
		return
	}

	var delivery webhookPayload
	if err := json.NewDecoder(r.Body).Decode(&delivery); err != nil {
		s.reject(w, "invalid JSON body")
		return
	}

	workout := delivery.Payload
	switch {
	case workout.ID == "":
		s.reject(w, "missing workout id")
		return
	case workout.RoutineID == "":
		s.reject(w, "missing routine id")
		return
	case len(workout.Exercises) == 0:
		s.reject(w, "empty exercise list")
		return
	}

	s.logger.Info("Webhook accepted",
		"delivery_id", delivery.ID,
		"workout_id", workout.ID,
		"routine_id", workout.RoutineID,
	)

	// Ack first, work later: the pipeline is detached from the request
	// context so a closed connection cannot cancel it mid-update.
	s.inflight.Add(1)
	go func() {
		defer s.inflight.Done()
		ctx, cancel := context.WithTimeout(context.Background(), s.runTimeout)
		defer cancel()
		s.orch.Process(ctx, &workout)
	}()

	metrics.WebhookRequests.WithLabelValues("accepted").Inc()
	writeJSON(w, http.StatusOK, map[string]string{
		"status":     "accepted",
		"workout_id": workout.ID,
	})
}

func (s *Server) reject(w http.ResponseWriter, reason string) {
	s.logger.Warn("Webhook rejected", "reason", reason)
	metrics.WebhookRequests.WithLabelValues("bad_request").Inc()
	writeJSON(w, http.StatusBadRequest, map[string]string{"error": reason})
}

func (s *Server) authorized(r *http.Request) bool {
	auth := r.Header.Get("Authorization")
	if !strings.HasPrefix(auth, "Bearer ") {
		return false
	}
	token := strings.TrimPrefix(auth, "Bearer ")
	return subtle.ConstantTimeCompare([]byte(token), []byte(s.token)) == 1
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Debug("Request handled",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration_ms", time.Since(start).Milliseconds(),
		)
	})
}
