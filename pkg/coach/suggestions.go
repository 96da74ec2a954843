package coach

import (
	"fmt"
	"math"
	"strings"
)

// Suggestion is a per-exercise note ready to be written into the routine.
type Suggestion struct {
	ExerciseTemplateID string
	Note               string
}

// BuildSuggestions condenses a plan into note text per exercise: set count,
// RPE target when present, then one "weight x reps" line per working set.
// Warmup sets are excluded. Exercises producing no lines yield no suggestion.
func BuildSuggestions(plan *Plan) []Suggestion {
	var suggestions []Suggestion

	for _, ex := range plan.UpdatedExercises {
		var working []int
		for i, set := range ex.Sets {
			if !strings.EqualFold(set.Type, "warmup") {
				working = append(working, i)
			}
		}
		if len(working) == 0 {
			continue
		}

		lines := []string{fmt.Sprintf("%d sets", len(working))}

		if ex.Notes != nil {
			if rpe, ok := extractRPE(*ex.Notes); ok {
				lines = append(lines, "RPE "+rpe)
			}
		}

		for _, i := range working {
			set := ex.Sets[i]

			reps := "?"
			if set.Reps != nil {
				reps = fmt.Sprintf("%d", *set.Reps)
			}

			if set.WeightKg == nil {
				lines = append(lines, fmt.Sprintf("%s reps", reps))
				continue
			}

			weight := fmt.Sprintf("%.1f", *set.WeightKg)
			if math.Abs(*set.WeightKg-math.Trunc(*set.WeightKg)) < 1e-9 {
				weight = fmt.Sprintf("%.0f", *set.WeightKg)
			}
			lines = append(lines, fmt.Sprintf("%sx%s", weight, reps))
		}

		suggestions = append(suggestions, Suggestion{
			ExerciseTemplateID: ex.ExerciseTemplateID,
			Note:               strings.Join(lines, "\n"),
		})
	}

	return suggestions
}

// extractRPE pulls an RPE value (digits, optionally a range like "7-8")
// out of free-form exercise notes.
func extractRPE(notes string) (string, bool) {
	idx := strings.Index(strings.ToLower(notes), "rpe")
	if idx < 0 {
		return "", false
	}

	after := notes[idx+3:]
	words := strings.Fields(after)
	for i, word := range words {
		if i >= 2 {
			break
		}
		hasDigit := strings.ContainsAny(word, "0123456789")
		clean := strings.TrimFunc(word, func(r rune) bool {
			return r != '-' && (r < '0' || r > '9')
		})
		if hasDigit && clean != "" && allDigitsOrDash(clean) {
			return clean, true
		}
	}
	return "", false
}

func allDigitsOrDash(s string) bool {
	for _, r := range s {
		if r != '-' && (r < '0' || r > '9') {
			return false
		}
	}
	return true
}
