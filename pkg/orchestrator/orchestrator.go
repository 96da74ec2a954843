// Package orchestrator drives a single workout through claim, recommend
// and update. Both the webhook receiver and the poll scheduler feed the
// same entry point, so the race between them is resolved uniformly by the
// tracker's atomic claim rather than by trigger-specific logic.
package orchestrator

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"

	"github.com/ripixel/hevy-coach/pkg/coach"
	"github.com/ripixel/hevy-coach/pkg/hevy"
	"github.com/ripixel/hevy-coach/pkg/infrastructure/sentry"
	"github.com/ripixel/hevy-coach/pkg/metrics"
	"github.com/ripixel/hevy-coach/pkg/tracker"
)

// RoutineFetcher fetches the routine a workout was performed against.
// Satisfied by *hevy.Client.
type RoutineFetcher interface {
	GetRoutine(ctx context.Context, routineID string) (*hevy.Routine, error)
}

// Recommender produces suggestions for a workout. Satisfied by *coach.Engine.
type Recommender interface {
	Recommend(ctx context.Context, workout *hevy.Workout, routine *hevy.Routine) ([]coach.Suggestion, error)
}

// Applier writes suggestions into the routine. Satisfied by *updater.Updater.
type Applier interface {
	Apply(ctx context.Context, routineID string, suggestions []coach.Suggestion) error
}

type Orchestrator struct {
	tracker  *tracker.Tracker
	routines RoutineFetcher
	engine   Recommender
	updater  Applier
	logger   *slog.Logger
}

func New(t *tracker.Tracker, routines RoutineFetcher, engine Recommender, applier Applier, logger *slog.Logger) *Orchestrator {
	return &Orchestrator{
		tracker:  t,
		routines: routines,
		engine:   engine,
		updater:  applier,
		logger:   logger.With("component", "orchestrator"),
	}
}

// Process runs the pipeline for one completed workout. Pipeline errors are
// absorbed here: logged, captured, and recorded in the tracker so a later
// poll sweep retries after the failure record expires. Nothing propagates
// to the trigger path.
func (o *Orchestrator) Process(ctx context.Context, workout *hevy.Workout) {
	logger := o.logger.With(
		"execution_id", uuid.NewString(),
		"workout_id", workout.ID,
		"routine_id", workout.RoutineID,
	)

	if !o.tracker.TryClaim(workout.ID) {
		// The common case when both triggers observe the same workout.
		logger.Debug("Workout already claimed, skipping")
		metrics.WorkoutsProcessed.WithLabelValues("deduped").Inc()
		return
	}

	logger.Info("Processing workout", "title", workout.Title)

	routine, err := o.routines.GetRoutine(ctx, workout.RoutineID)
	if err != nil {
		o.fail(logger, workout, "fetch_routine", err)
		return
	}

	suggestions, err := o.engine.Recommend(ctx, workout, routine)
	if err != nil {
		stage := "recommend"
		var parseErr *coach.ParseError
		if errors.As(err, &parseErr) {
			stage = "parse"
			logger.Error("Model response unparseable", "error", err, "raw_response", parseErr.Raw)
		}
		o.fail(logger, workout, stage, err)
		return
	}

	if err := o.updater.Apply(ctx, workout.RoutineID, suggestions); err != nil {
		o.fail(logger, workout, "update_routine", err)
		return
	}

	o.tracker.MarkResult(workout.ID, tracker.StatusSucceeded)
	metrics.WorkoutsProcessed.WithLabelValues("succeeded").Inc()
	logger.Info("Workout processed", "suggestion_count", len(suggestions))
}

func (o *Orchestrator) fail(logger *slog.Logger, workout *hevy.Workout, stage string, err error) {
	o.tracker.MarkResult(workout.ID, tracker.StatusFailed)
	metrics.WorkoutsProcessed.WithLabelValues("failed").Inc()
	logger.Error("Pipeline failed", "stage", stage, "error", err)
	sentry.CaptureException(err, map[string]interface{}{
		"workout_id": workout.ID,
		"routine_id": workout.RoutineID,
		"stage":      stage,
	})
}
