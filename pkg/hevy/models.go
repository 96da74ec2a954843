package hevy

// Set is a single performed or prescribed set within an exercise.
// Pointer fields marshal to null when absent, which is what the Hevy API
// expects for fields without a meaningful value.
type Set struct {
	Index           int      `json:"index"`
	Type            string   `json:"type"` // "warmup", "normal", "failure", "dropset"
	WeightKg        *float64 `json:"weight_kg"`
	Reps            *int     `json:"reps"`
	DistanceMeters  *int     `json:"distance_meters"`
	DurationSeconds *int     `json:"duration_seconds"`
	RPE             *float64 `json:"rpe"`
	CustomMetric    *float64 `json:"custom_metric"`
}

// Exercise is an exercise entry shared by workouts and routines.
type Exercise struct {
	Index              int     `json:"index"`
	Title              string  `json:"title"`
	Notes              *string `json:"notes"`
	ExerciseTemplateID string  `json:"exercise_template_id"`
	SupersetID         *int    `json:"superset_id"`
	RestSeconds        *int    `json:"rest_seconds"`
	Sets               []Set   `json:"sets"`
}

// Workout is a completed workout as returned by GET /v1/workouts/{id}.
type Workout struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	RoutineID   string     `json:"routine_id"`
	Description string     `json:"description"`
	StartTime   string     `json:"start_time"`
	EndTime     string     `json:"end_time"`
	UpdatedAt   string     `json:"updated_at"`
	CreatedAt   string     `json:"created_at"`
	Exercises   []Exercise `json:"exercises"`
}

// Routine is a reusable workout template.
type Routine struct {
	ID        string     `json:"id"`
	Title     string     `json:"title"`
	FolderID  *string    `json:"folder_id"`
	UpdatedAt string     `json:"updated_at"`
	CreatedAt string     `json:"created_at"`
	Exercises []Exercise `json:"exercises"`
}

// WorkoutList is the paged response of GET /v1/workouts.
type WorkoutList struct {
	Workouts   []Workout `json:"workouts"`
	Page       int       `json:"page"`
	PageSize   int       `json:"page_size"`
	TotalCount int       `json:"total_count"`
}

// RepRange is an optional target rep window on a prescribed set.
type RepRange struct {
	Start *int `json:"start"`
	End   *int `json:"end"`
}

// SetUpdate is the set shape accepted by PUT /v1/routines/{id}.
// The update schema differs from the read schema: no index, and rpe is
// not allowed in updates.
type SetUpdate struct {
	Type            string    `json:"type"`
	WeightKg        *float64  `json:"weight_kg"`
	Reps            *int      `json:"reps"`
	DistanceMeters  *int      `json:"distance_meters"`
	DurationSeconds *int      `json:"duration_seconds"`
	CustomMetric    *float64  `json:"custom_metric"`
	RepRange        *RepRange `json:"rep_range,omitempty"`
}

// ExerciseUpdate is the exercise shape accepted by PUT /v1/routines/{id}.
type ExerciseUpdate struct {
	ExerciseTemplateID string      `json:"exercise_template_id"`
	SupersetID         *int        `json:"superset_id"`
	RestSeconds        *int        `json:"rest_seconds"`
	Notes              *string     `json:"notes"`
	Sets               []SetUpdate `json:"sets"`
}

// UpdateRoutineRequest is the body of PUT /v1/routines/{id}.
type UpdateRoutineRequest struct {
	Title     *string          `json:"title,omitempty"`
	FolderID  *string          `json:"folder_id,omitempty"`
	Exercises []ExerciseUpdate `json:"exercises,omitempty"`
}

// ToUpdate converts a read-model exercise into the update wire shape.
func (e Exercise) ToUpdate() ExerciseUpdate {
	sets := make([]SetUpdate, 0, len(e.Sets))
	for _, s := range e.Sets {
		sets = append(sets, SetUpdate{
			Type:            s.Type,
			WeightKg:        s.WeightKg,
			Reps:            s.Reps,
			DistanceMeters:  s.DistanceMeters,
			DurationSeconds: s.DurationSeconds,
			CustomMetric:    s.CustomMetric,
		})
	}
	return ExerciseUpdate{
		ExerciseTemplateID: e.ExerciseTemplateID,
		SupersetID:         e.SupersetID,
		RestSeconds:        e.RestSeconds,
		Notes:              e.Notes,
		Sets:               sets,
	}
}

// routineEnvelope wraps the single routine returned by GET /v1/routines/{id}.
type routineEnvelope struct {
	Routine Routine `json:"routine"`
}

// routineUpdateEnvelope wraps the routine array returned by PUT /v1/routines/{id}.
type routineUpdateEnvelope struct {
	Routine []Routine `json:"routine"`
}
