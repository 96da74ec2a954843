// Package poller periodically re-scans recent Hevy workouts as a safety
// net against missed webhooks.
package poller

import (
	"context"
	"log/slog"
	"time"

	"github.com/ripixel/hevy-coach/pkg/hevy"
	"github.com/ripixel/hevy-coach/pkg/metrics"
	"github.com/ripixel/hevy-coach/pkg/tracker"
)

// pollPageSize matches the page the platform returns newest-first; one
// page per sweep is plenty at a 15 minute interval.
const pollPageSize = 10

// WorkoutAPI lists recent workouts. Satisfied by *hevy.Client.
type WorkoutAPI interface {
	ListWorkouts(ctx context.Context, page, pageSize int) (*hevy.WorkoutList, error)
}

// Processor drives a workout through the pipeline. Satisfied by
// *orchestrator.Orchestrator.
type Processor interface {
	Process(ctx context.Context, workout *hevy.Workout)
}

type Poller struct {
	api      WorkoutAPI
	tracker  *tracker.Tracker
	orch     Processor
	interval time.Duration
	lookback time.Duration
	logger   *slog.Logger
}

func New(api WorkoutAPI, t *tracker.Tracker, orch Processor, interval, lookback time.Duration, logger *slog.Logger) *Poller {
	return &Poller{
		api:      api,
		tracker:  t,
		orch:     orch,
		interval: interval,
		lookback: lookback,
		logger:   logger.With("component", "poller"),
	}
}

// Run blocks until ctx is cancelled, sweeping on a fixed interval. Sweeps
// run on this single goroutine, so a slow cycle can never overlap the
// next one; ticks that fire mid-cycle are dropped by the ticker.
func (p *Poller) Run(ctx context.Context) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	p.logger.Info("Poll scheduler started", "interval", p.interval, "lookback", p.lookback)

	for {
		select {
		case <-ctx.Done():
			p.logger.Info("Poll scheduler stopped")
			return
		case <-ticker.C:
			p.Sweep(ctx)
		}
	}
}

// Sweep lists recent workouts and feeds any the tracker does not already
// know about into the orchestrator. Upstream failure ends the cycle; the
// next tick retries.
func (p *Poller) Sweep(ctx context.Context) {
	p.logger.Debug("Poll sweep started")

	list, err := p.api.ListWorkouts(ctx, 1, pollPageSize)
	if err != nil {
		p.logger.Error("Failed to list recent workouts", "error", err)
		metrics.PollCycles.WithLabelValues("error").Inc()
		return
	}

	cutoff := time.Now().Add(-p.lookback)
	dispatched := 0
	for i := range list.Workouts {
		workout := &list.Workouts[i]

		created, err := time.Parse(time.RFC3339, workout.CreatedAt)
		if err != nil || created.Before(cutoff) {
			continue
		}

		if p.tracker.Known(workout.ID) {
			p.logger.Debug("Workout already tracked", "workout_id", workout.ID)
			continue
		}

		p.orch.Process(ctx, workout)
		dispatched++
	}

	metrics.PollCycles.WithLabelValues("ok").Inc()
	p.logger.Info("Poll sweep completed",
		"listed", len(list.Workouts),
		"dispatched", dispatched,
	)
}
