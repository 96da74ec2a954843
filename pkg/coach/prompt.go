package coach

import (
	"fmt"
	"math"
	"strings"

	"github.com/ripixel/hevy-coach/pkg/hevy"
)

// FormatWorkout renders a workout into the plain-text block embedded in
// the prompt.
func FormatWorkout(w *hevy.Workout) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Workout Title: %s\n", w.Title)
	fmt.Fprintf(&b, "Start Time: %s\n", w.StartTime)
	fmt.Fprintf(&b, "End Time: %s\n", w.EndTime)
	b.WriteString("\nExercises:\n")
	b.WriteString(formatExerciseList(w.Exercises))
	return b.String()
}

// FormatRoutine renders a routine template for the prompt.
func FormatRoutine(r *hevy.Routine) string {
	var b strings.Builder
	fmt.Fprintf(&b, "ROUTINE TEMPLATE:\nRoutine: %s\n\nExercises:\n", r.Title)
	b.WriteString(formatExerciseList(r.Exercises))
	return b.String()
}

func formatExerciseList(exercises []hevy.Exercise) string {
	var b strings.Builder
	for _, ex := range exercises {
		fmt.Fprintf(&b, "- %s (%s)\n", ex.Title, ex.ExerciseTemplateID)
		for _, set := range ex.Sets {
			fmt.Fprintf(&b, "  * Set %d: %s x %s (%s)\n",
				set.Index+1, formatWeight(set.WeightKg), formatReps(set.Reps), set.Type)
		}
		b.WriteString("\n")
	}
	return b.String()
}

func formatWeight(weight *float64) string {
	if weight == nil {
		return "BW"
	}
	if math.Abs(*weight-math.Trunc(*weight)) > 1e-9 {
		return fmt.Sprintf("%.1fkg", *weight)
	}
	return fmt.Sprintf("%.0fkg", *weight)
}

func formatReps(reps *int) string {
	if reps == nil {
		return "N/A"
	}
	return fmt.Sprintf("%d", *reps)
}

// promptTemplate is the block-periodization coaching prompt. The %s/%d
// slots are: workout block, routine block, deload reference block, current
// week, deload cycle instruction, next week, routine title, current week,
// next week.
const promptTemplate = `You are a professional strength and conditioning coach specializing in block periodization for an 8-week strength-focused training cycle.

CURRENT WORKOUT DATA:
%s

%s%s

TRAINING CONTEXT:
- Client is a hybrid athlete (strength + cardio)
- Focuses on main compound movements: Bench Press, Squat, Overhead Press, Romanian Deadlift, Pendlay Row
- Prefers low-moderate volume (2-4 sets per exercise)
- Uses 3-day split: Day 1 (Upper), Day 2 (Lower), Day 3 (Full Body)
- Prioritizes strength gains over hypertrophy
- Currently in week %d of 8-week block
- If there is a set with 1 rep with weight of 1, then it was a to failure set on an arbitrary weight. Keep the weight at 1 when.
- The smallest weight plate for barbell exercises available is 2.5kg (5kg if both sides)
- Don't add a warmup, if there was a warmup from the workout leave it as is%s

PERIODIZATION STRATEGY:
Week 1-2: Foundation (7 reps @ 75%%, 2-3 sets)
Week 3-4: Intensity increase (6 reps @ 80%%, 3-4 sets)
Week 5-6: Heavy work (5 reps @ 85%%, 3-4 sets)
Week 7: Testing (3-5RM attempts @ 90%%+)
Week 8: Deload (5 reps @ 60%%, 2-3 sets)

PROGRESSION RULES:
1. Start conservatively with 2 sets, build to 3-4 sets max
2. Prioritize intensity over volume
3. Use same exercises throughout block
4. Progress: reps -> weight -> sets -> testing
5. Accessories stay minimal (2 sets, RPE 6-7)
6. You MUST use the SAME exercises from the current workout
7. Keep exercise notes CONCISE - only include RPE targets, no explanatory text
8. For any field that has no meaningful value, ALWAYS use null, never "N/A" or empty strings

OUTPUT FORMAT:
Return ONLY a JSON object with this exact structure:
{
    "updated_exercises": [
        {
            "index": 0,
            "title": "Exercise Name",
            "notes": "RPE 8",
            "exercise_template_id": "original_id",
            "superset_id": null,
            "sets": [
                {
                    "index": 0,
                    "type": "normal",
                    "weight_kg": 85.0,
                    "reps": 7,
                    "distance_meters": null,
                    "duration_seconds": null,
                    "rpe": 7,
                    "custom_metric": null
                }
            ]
        }
    ],
    "week_number": %d,
    "routine_title": "%s"
}

CURRENT WEEK: %d
NEXT WEEK TARGET: %d`

// BuildPrompt assembles the full prompt for a completed workout.
func BuildPrompt(workout *hevy.Workout, routine *hevy.Routine, deload DeloadContext) string {
	week, _ := ExtractWeekAndDay(workout.Title)
	routineTitle := NextRoutineTitle(workout.Title)

	return fmt.Sprintf(promptTemplate,
		FormatWorkout(workout),
		FormatRoutine(routine),
		deload.ReferenceData,
		week,
		deload.CycleInstruction,
		deload.NextWeekIndex,
		routineTitle,
		week,
		deload.NextWeekIndex,
	)
}
