package coach

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ripixel/hevy-coach/pkg/hevy"
)

type mockLister struct {
	ListWorkoutsFunc func(ctx context.Context, page, pageSize int) (*hevy.WorkoutList, error)
}

func (m *mockLister) ListWorkouts(ctx context.Context, page, pageSize int) (*hevy.WorkoutList, error) {
	return m.ListWorkoutsFunc(ctx, page, pageSize)
}

func testLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func historyOf(workouts ...hevy.Workout) *mockLister {
	return &mockLister{
		ListWorkoutsFunc: func(ctx context.Context, page, pageSize int) (*hevy.WorkoutList, error) {
			if page > 1 {
				return &hevy.WorkoutList{Page: page, PageSize: pageSize, TotalCount: len(workouts)}, nil
			}
			return &hevy.WorkoutList{Workouts: workouts, Page: page, PageSize: pageSize, TotalCount: len(workouts)}, nil
		},
	}
}

func TestDeloadContext_MidCycleIsPlain(t *testing.T) {
	lister := &mockLister{
		ListWorkoutsFunc: func(ctx context.Context, page, pageSize int) (*hevy.WorkoutList, error) {
			t.Fatal("history must not be searched outside the final week")
			return nil, nil
		},
	}
	planner := NewDeloadPlanner(lister, testLogger())

	dc := planner.Context(context.Background(), &hevy.Workout{Title: "Day 1 - Week 3"})

	assert.Equal(t, 4, dc.NextWeekIndex)
	assert.Empty(t, dc.CycleInstruction)
	assert.Empty(t, dc.ReferenceData)
}

func TestDeloadContext_Week8UsesWeek1Reference(t *testing.T) {
	planner := NewDeloadPlanner(historyOf(
		hevy.Workout{ID: "w-recent", Title: "Day 1 - Week 8", RoutineID: "r1"},
		hevy.Workout{ID: "w-ref", Title: "Day 1 - Week 1", RoutineID: "r1"},
		hevy.Workout{ID: "w-other", Title: "Day 2 - Week 1", RoutineID: "r1"},
	), testLogger())

	dc := planner.Context(context.Background(), &hevy.Workout{Title: "Day 1 - Week 8", RoutineID: "r1"})

	assert.Equal(t, 1, dc.NextWeekIndex, "week 8 wraps to week 1")
	assert.Contains(t, dc.CycleInstruction, "CYCLE TRANSITION")
	assert.Contains(t, dc.CycleInstruction, "60%")
	assert.Contains(t, dc.ReferenceData, "WEEK 1 REFERENCE WORKOUT")
	assert.Contains(t, dc.ReferenceData, "Day 1 - Week 1")
}

func TestDeloadContext_FallsBackToWeek7Reference(t *testing.T) {
	planner := NewDeloadPlanner(historyOf(
		hevy.Workout{ID: "w-max", Title: "Day 1 - Week 7", RoutineID: "r1"},
		hevy.Workout{ID: "w-wrong-routine", Title: "Day 1 - Week 1", RoutineID: "r2"},
	), testLogger())

	// No Week 1 workout for day 2 exists, so the same-routine Week 7
	// max effort workout is the baseline.
	dc := planner.Context(context.Background(), &hevy.Workout{Title: "Day 2 - Week 8", RoutineID: "r1"})

	require.Contains(t, dc.ReferenceData, "WEEK 7 REFERENCE WORKOUT")
	assert.Contains(t, dc.ReferenceData, "max effort baseline")
}

func TestDeloadContext_NoReferenceStillInstructsDeload(t *testing.T) {
	planner := NewDeloadPlanner(historyOf(), testLogger())

	dc := planner.Context(context.Background(), &hevy.Workout{Title: "Day 1 - Week 8", RoutineID: "r1"})

	assert.Equal(t, 1, dc.NextWeekIndex)
	assert.Contains(t, dc.CycleInstruction, "intensity reduction from current weights")
	assert.Empty(t, dc.ReferenceData)
}

func TestDeloadContext_HistoryErrorsAreTolerated(t *testing.T) {
	calls := 0
	lister := &mockLister{
		ListWorkoutsFunc: func(ctx context.Context, page, pageSize int) (*hevy.WorkoutList, error) {
			calls++
			return nil, errors.New("hevy unavailable")
		},
	}
	planner := NewDeloadPlanner(lister, testLogger())

	dc := planner.Context(context.Background(), &hevy.Workout{Title: "Day 1 - Week 8", RoutineID: "r1"})

	assert.Contains(t, dc.CycleInstruction, "CYCLE TRANSITION")
	assert.Empty(t, dc.ReferenceData)
	assert.Positive(t, calls)
}

func TestSearchHistory_StopsAtTotalCount(t *testing.T) {
	pagesFetched := 0
	lister := &mockLister{
		ListWorkoutsFunc: func(ctx context.Context, page, pageSize int) (*hevy.WorkoutList, error) {
			pagesFetched++
			return &hevy.WorkoutList{
				Workouts:   []hevy.Workout{{Title: "untitled"}},
				TotalCount: 15,
			}, nil
		},
	}
	planner := NewDeloadPlanner(lister, testLogger())

	found, err := planner.searchHistory(context.Background(), func(*hevy.Workout) bool { return false })
	require.NoError(t, err)
	assert.Nil(t, found)
	assert.Equal(t, 2, pagesFetched, "15 workouts fit in two pages of 10")
}
