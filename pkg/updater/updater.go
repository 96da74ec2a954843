// Package updater applies coaching suggestions to a routine's exercise
// notes through the Hevy API, with bounded retry on upstream failure.
package updater

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/ripixel/hevy-coach/pkg/coach"
	"github.com/ripixel/hevy-coach/pkg/hevy"
	"github.com/ripixel/hevy-coach/pkg/httputil"
	"github.com/ripixel/hevy-coach/pkg/metrics"
)

// maxAttempts bounds write attempts per apply: one initial try plus two
// retries with exponential backoff.
const maxAttempts = 3

// RoutineAPI is the slice of the Hevy client the updater needs. Satisfied
// by *hevy.Client.
type RoutineAPI interface {
	GetRoutine(ctx context.Context, routineID string) (*hevy.Routine, error)
	UpdateRoutine(ctx context.Context, routineID string, req hevy.UpdateRoutineRequest) (*hevy.Routine, error)
}

// Updater merges suggestions into a routine and writes it back.
type Updater struct {
	api    RoutineAPI
	logger *slog.Logger

	// InitialBackoff overrides the first retry delay. Zero means the
	// backoff library default (500ms).
	InitialBackoff time.Duration
}

func New(api RoutineAPI, logger *slog.Logger) *Updater {
	return &Updater{api: api, logger: logger.With("component", "updater")}
}

// Apply re-fetches the routine, overwrites the notes of each exercise that
// has a suggestion, and PUTs the full routine back. Suggestions for
// exercises no longer in the routine are dropped: routines may have been
// edited since the workout. The write overwrites notes rather than
// appending, so re-applying the same suggestions is idempotent.
func (u *Updater) Apply(ctx context.Context, routineID string, suggestions []coach.Suggestion) error {
	routine, err := u.api.GetRoutine(ctx, routineID)
	if err != nil {
		return fmt.Errorf("fetch routine %s: %w", routineID, err)
	}

	notesByTemplate := make(map[string]string, len(suggestions))
	for _, s := range suggestions {
		notesByTemplate[s.ExerciseTemplateID] = s.Note
	}

	exercises := make([]hevy.ExerciseUpdate, 0, len(routine.Exercises))
	applied := 0
	for _, ex := range routine.Exercises {
		update := ex.ToUpdate()
		if note, ok := notesByTemplate[ex.ExerciseTemplateID]; ok {
			update.Notes = &note
			applied++
			delete(notesByTemplate, ex.ExerciseTemplateID)
		}
		exercises = append(exercises, update)
	}

	for templateID := range notesByTemplate {
		u.logger.Info("Dropping suggestion for exercise no longer in routine",
			"routine_id", routineID,
			"exercise_template_id", templateID,
		)
	}

	if applied == 0 {
		u.logger.Info("No suggestions matched the current routine, skipping write",
			"routine_id", routineID,
			"suggestion_count", len(suggestions),
		)
		return nil
	}

	req := hevy.UpdateRoutineRequest{Exercises: exercises}

	attempts := 0
	operation := func() error {
		attempts++
		metrics.RoutineUpdateAttempts.Inc()
		_, err := u.api.UpdateRoutine(ctx, routineID, req)
		if err == nil {
			return nil
		}
		if !httputil.IsRetryable(err) {
			return backoff.Permanent(err)
		}
		u.logger.Warn("Routine update attempt failed",
			"routine_id", routineID,
			"attempt", attempts,
			"error", err,
		)
		return err
	}

	expo := backoff.NewExponentialBackOff()
	if u.InitialBackoff > 0 {
		expo.InitialInterval = u.InitialBackoff
	}
	policy := backoff.WithContext(backoff.WithMaxRetries(expo, maxAttempts-1), ctx)

	if err := backoff.Retry(operation, policy); err != nil {
		return fmt.Errorf("update routine %s after %d attempts: %w", routineID, attempts, err)
	}

	u.logger.Info("Applied suggestions to routine",
		"routine_id", routineID,
		"updated_exercises", applied,
		"attempts", attempts,
	)
	return nil
}
