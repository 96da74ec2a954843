// Package coach derives progressive-overload suggestions for the next
// session from a completed workout, using a text-generation backend.
package coach

import (
	"context"
	"log/slog"

	"github.com/ripixel/hevy-coach/pkg/generation"
	"github.com/ripixel/hevy-coach/pkg/hevy"
)

// Engine builds the coaching prompt, queries the generation backend and
// parses the response into per-exercise suggestions.
type Engine struct {
	backend generation.Backend
	deload  *DeloadPlanner
	logger  *slog.Logger
}

func NewEngine(backend generation.Backend, history WorkoutLister, logger *slog.Logger) *Engine {
	logger = logger.With("component", "coach")
	return &Engine{
		backend: backend,
		deload:  NewDeloadPlanner(history, logger),
		logger:  logger,
	}
}

// Recommend produces suggestions for the routine the workout was performed
// against. Errors are *GenerationError or *ParseError; both mean the
// workout should be marked failed and left for a later sweep to retry.
func (e *Engine) Recommend(ctx context.Context, workout *hevy.Workout, routine *hevy.Routine) ([]Suggestion, error) {
	deloadCtx := e.deload.Context(ctx, workout)
	prompt := BuildPrompt(workout, routine, deloadCtx)

	e.logger.Debug("Built coaching prompt",
		"workout_id", workout.ID,
		"backend", e.backend.Name(),
		"prompt_length", len(prompt),
	)

	raw, err := e.backend.GenerateText(ctx, prompt)
	if err != nil {
		return nil, &GenerationError{Backend: e.backend.Name(), Err: err}
	}

	plan, err := ParseResponse(raw)
	if err != nil {
		return nil, err
	}

	if plan.SkippedEntries > 0 {
		e.logger.Warn("Model response contained malformed exercise entries",
			"workout_id", workout.ID,
			"skipped", plan.SkippedEntries,
			"usable", len(plan.UpdatedExercises),
		)
	}

	suggestions := BuildSuggestions(plan)
	e.logger.Info("Generated suggestions",
		"workout_id", workout.ID,
		"exercise_count", len(suggestions),
		"target_week", plan.WeekNumber,
		"target_title", plan.RoutineTitle,
	)

	return suggestions, nil
}
