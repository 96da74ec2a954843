package coach

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ripixel/hevy-coach/pkg/hevy"
)

// WorkoutLister pages through the workout history, newest first. Satisfied
// by *hevy.Client.
type WorkoutLister interface {
	ListWorkouts(ctx context.Context, page, pageSize int) (*hevy.WorkoutList, error)
}

// DeloadContext carries the extra prompt material for the week 8 -> week 1
// cycle transition. Zero value means no transition is happening.
type DeloadContext struct {
	NextWeekIndex    int
	CycleInstruction string
	ReferenceData    string
}

// deloadIntensity is the fraction of working weight prescribed for the
// deload week opening a new block.
const deloadIntensity = 0.60

// History search bounds: 10 pages of 10 covers a 6-day split over 12 weeks.
const (
	referenceMaxPages = 10
	referencePageSize = 10
)

// DeloadPlanner finds reference workouts and produces cycle-transition
// prompt context.
type DeloadPlanner struct {
	history WorkoutLister
	logger  *slog.Logger
}

func NewDeloadPlanner(history WorkoutLister, logger *slog.Logger) *DeloadPlanner {
	return &DeloadPlanner{history: history, logger: logger.With("component", "deload")}
}

// Context builds the deload context for the given workout. Outside the
// final week of the block it returns a plain next-week context.
func (p *DeloadPlanner) Context(ctx context.Context, workout *hevy.Workout) DeloadContext {
	week, _ := ExtractWeekAndDay(workout.Title)
	next := NextWeek(week)

	if week < MesocycleWeeks {
		return DeloadContext{NextWeekIndex: next}
	}

	reference, err := p.findReference(ctx, workout)
	if err != nil {
		p.logger.Warn("Failed to find deload reference workout", "error", err)
	}
	if reference == nil {
		return DeloadContext{
			NextWeekIndex:    next,
			CycleInstruction: "\n\n" + deloadInstruction(false),
		}
	}

	label := "WEEK 1 REFERENCE WORKOUT"
	if w, ok := ExtractWeek(reference.Title); !ok || w != 1 {
		label = "WEEK 7 REFERENCE WORKOUT (max effort baseline)"
	}

	return DeloadContext{
		NextWeekIndex:    next,
		CycleInstruction: "\n\n" + deloadInstruction(true),
		ReferenceData: fmt.Sprintf("\n\n%s (for deload calculation):\n%s",
			label, FormatWorkout(reference)),
	}
}

func deloadInstruction(hasReference bool) string {
	pct := int(deloadIntensity * 100)
	if hasReference {
		return fmt.Sprintf(" CYCLE TRANSITION: You are transitioning from Week 8 (deload) to Week 1 of a NEW 8-week block. "+
			"This should be a DELOAD week with %d%% intensity and reduced volume based on the reference workout provided "+
			"(either Week 1 from previous cycle or Week 7 max effort as baseline). "+
			"Apply the deload percentage to the reference weights. Focus on form, recovery, and conservative loading.", pct)
	}
	return fmt.Sprintf(" CYCLE TRANSITION: You are transitioning from Week 8 (deload) to Week 1 of a NEW 8-week block. "+
		"This should be a DELOAD week with %d%% intensity reduction from current weights and reduced volume. "+
		"Focus on form, recovery, and conservative loading to prepare for the new training cycle.", pct)
}

// findReference looks for a Week 1 workout on the same day number, then
// falls back to any Week 7 workout from the same routine (the max effort
// baseline). Returns nil when nothing matches.
func (p *DeloadPlanner) findReference(ctx context.Context, current *hevy.Workout) (*hevy.Workout, error) {
	day, hasDay := ExtractDay(current.Title)

	if hasDay {
		found, err := p.searchHistory(ctx, func(w *hevy.Workout) bool {
			week, hasWeek := ExtractWeek(w.Title)
			wd, hasWD := ExtractDay(w.Title)
			return hasWeek && week == 1 && hasWD && wd == day
		})
		if err != nil {
			return nil, err
		}
		if found != nil {
			p.logger.Info("Found Week 1 reference workout", "title", found.Title, "workout_id", found.ID)
			return found, nil
		}
	} else {
		p.logger.Info("Workout title has no day marker, skipping exact reference search", "title", current.Title)
	}

	found, err := p.searchHistory(ctx, func(w *hevy.Workout) bool {
		week, ok := ExtractWeek(w.Title)
		return ok && week == MesocycleWeeks-1 && w.RoutineID == current.RoutineID
	})
	if err != nil {
		return nil, err
	}
	if found != nil {
		p.logger.Info("Found Week 7 fallback reference workout", "title", found.Title, "workout_id", found.ID)
	}
	return found, nil
}

func (p *DeloadPlanner) searchHistory(ctx context.Context, match func(*hevy.Workout) bool) (*hevy.Workout, error) {
	for page := 1; page <= referenceMaxPages; page++ {
		list, err := p.history.ListWorkouts(ctx, page, referencePageSize)
		if err != nil {
			p.logger.Warn("Failed to fetch workout history page", "page", page, "error", err)
			continue
		}

		for i := range list.Workouts {
			if match(&list.Workouts[i]) {
				return &list.Workouts[i], nil
			}
		}

		if page*referencePageSize >= list.TotalCount {
			break
		}
	}
	return nil, nil
}
