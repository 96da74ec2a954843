package coach

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/ripixel/hevy-coach/pkg/hevy"
)

// Plan is the parsed model output: the prescribed exercises for the next
// session plus bookkeeping fields used for logging.
type Plan struct {
	UpdatedExercises []hevy.Exercise
	WeekNumber       int
	RoutineTitle     string
	// SkippedEntries counts exercise entries dropped as malformed.
	SkippedEntries int
}

// ParseResponse maps raw model output to a Plan. Model output is untrusted:
// it may wrap the JSON in a markdown fence, add commentary, or emit broken
// entries. Individually malformed exercises are skipped; a response from
// which no exercise can be recovered is a *ParseError.
func ParseResponse(raw string) (*Plan, error) {
	content := extractJSON(raw)

	var envelope struct {
		UpdatedExercises []json.RawMessage `json:"updated_exercises"`
		WeekNumber       *int              `json:"week_number"`
		RoutineTitle     string            `json:"routine_title"`
	}
	if err := json.Unmarshal([]byte(content), &envelope); err != nil {
		return nil, &ParseError{Raw: truncateRaw(raw), Err: fmt.Errorf("invalid JSON: %w", err)}
	}
	if envelope.UpdatedExercises == nil {
		return nil, &ParseError{Raw: truncateRaw(raw), Err: fmt.Errorf("missing 'updated_exercises' field")}
	}

	plan := &Plan{
		WeekNumber:   1,
		RoutineTitle: "Updated Routine",
	}
	if envelope.WeekNumber != nil {
		plan.WeekNumber = *envelope.WeekNumber
	}
	if envelope.RoutineTitle != "" {
		plan.RoutineTitle = envelope.RoutineTitle
	}

	for _, entry := range envelope.UpdatedExercises {
		var ex hevy.Exercise
		if err := json.Unmarshal(entry, &ex); err != nil {
			plan.SkippedEntries++
			continue
		}
		if ex.ExerciseTemplateID == "" {
			plan.SkippedEntries++
			continue
		}
		plan.UpdatedExercises = append(plan.UpdatedExercises, ex)
	}

	if len(plan.UpdatedExercises) == 0 {
		return nil, &ParseError{Raw: truncateRaw(raw), Err: fmt.Errorf("no usable exercise entries in response")}
	}

	return plan, nil
}

// extractJSON strips an optional ```json markdown fence around the payload.
func extractJSON(response string) string {
	start := strings.Index(response, "```json")
	if start < 0 {
		return strings.TrimSpace(response)
	}

	content := response[start+len("```json"):]
	if end := strings.Index(content, "```"); end >= 0 {
		content = content[:end]
	}
	return strings.TrimSpace(content)
}
