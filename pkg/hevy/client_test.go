package hevy

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ripixel/hevy-coach/pkg/httputil"
)

const testAPIKey = "test-api-key"

func newTestClient(handler http.HandlerFunc) (*Client, *httptest.Server) {
	srv := httptest.NewServer(handler)
	return NewClient(srv.URL, testAPIKey, 5*time.Second), srv
}

func TestGetWorkout(t *testing.T) {
	client, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/v1/workouts/w1", r.URL.Path)
		assert.Equal(t, testAPIKey, r.Header.Get("api-key"))

		_ = json.NewEncoder(w).Encode(Workout{ID: "w1", Title: "Day 1 - Week 2", RoutineID: "r1"})
	})
	defer srv.Close()

	workout, err := client.GetWorkout(context.Background(), "w1")
	require.NoError(t, err)
	assert.Equal(t, "w1", workout.ID)
	assert.Equal(t, "r1", workout.RoutineID)
}

func TestListWorkouts(t *testing.T) {
	client, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/workouts", r.URL.Path)
		assert.Equal(t, "2", r.URL.Query().Get("page"))
		assert.Equal(t, "10", r.URL.Query().Get("pageSize"))

		_ = json.NewEncoder(w).Encode(WorkoutList{
			Workouts:   []Workout{{ID: "w1"}, {ID: "w2"}},
			Page:       2,
			PageSize:   10,
			TotalCount: 12,
		})
	})
	defer srv.Close()

	list, err := client.ListWorkouts(context.Background(), 2, 10)
	require.NoError(t, err)
	assert.Len(t, list.Workouts, 2)
	assert.Equal(t, 12, list.TotalCount)
}

func TestGetRoutine_UnwrapsEnvelope(t *testing.T) {
	client, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/routines/r1", r.URL.Path)

		_ = json.NewEncoder(w).Encode(map[string]any{
			"routine": Routine{ID: "r1", Title: "Upper A"},
		})
	})
	defer srv.Close()

	routine, err := client.GetRoutine(context.Background(), "r1")
	require.NoError(t, err)
	assert.Equal(t, "r1", routine.ID)
	assert.Equal(t, "Upper A", routine.Title)
}

func TestUpdateRoutine(t *testing.T) {
	notes := "2 sets\n80x5"
	client, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/v1/routines/r1", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var req UpdateRoutineRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Len(t, req.Exercises, 1)
		require.NotNil(t, req.Exercises[0].Notes)
		assert.Equal(t, notes, *req.Exercises[0].Notes)

		// The update endpoint wraps the routine in an array.
		_ = json.NewEncoder(w).Encode(map[string]any{
			"routine": []Routine{{ID: "r1", Title: "Upper A"}},
		})
	})
	defer srv.Close()

	updated, err := client.UpdateRoutine(context.Background(), "r1", UpdateRoutineRequest{
		Exercises: []ExerciseUpdate{{ExerciseTemplateID: "BP01", Notes: &notes}},
	})
	require.NoError(t, err)
	assert.Equal(t, "r1", updated.ID)
}

func TestUpdateRoutine_SetPayloadOmitsReadOnlyFields(t *testing.T) {
	client, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		var raw map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&raw))

		exercises := raw["exercises"].([]any)
		sets := exercises[0].(map[string]any)["sets"].([]any)
		set := sets[0].(map[string]any)
		assert.NotContains(t, set, "index", "set index is not accepted by the update schema")
		assert.NotContains(t, set, "rpe", "rpe is not accepted by the update schema")

		_ = json.NewEncoder(w).Encode(map[string]any{"routine": []Routine{{ID: "r1"}}})
	})
	defer srv.Close()

	weight := 80.0
	reps := 5
	_, err := client.UpdateRoutine(context.Background(), "r1", UpdateRoutineRequest{
		Exercises: []ExerciseUpdate{{
			ExerciseTemplateID: "BP01",
			Sets:               []SetUpdate{{Type: "normal", WeightKg: &weight, Reps: &reps}},
		}},
	})
	require.NoError(t, err)
}

func TestUpdateRoutine_EmptyEnvelopeIsAnError(t *testing.T) {
	client, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"routine": []Routine{}})
	})
	defer srv.Close()

	_, err := client.UpdateRoutine(context.Background(), "r1", UpdateRoutineRequest{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no routine")
}

func TestClient_UpstreamErrorsCarryStatusAndBody(t *testing.T) {
	client, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"routine not found"}`, http.StatusNotFound)
	})
	defer srv.Close()

	_, err := client.GetRoutine(context.Background(), "missing")
	require.Error(t, err)

	var httpErr *httputil.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusNotFound, httpErr.StatusCode)
	assert.Contains(t, httpErr.Body, "routine not found")
}

func TestClient_ContextCancellation(t *testing.T) {
	client, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	})
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := client.GetWorkout(ctx, "w1")
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
