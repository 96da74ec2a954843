package generation

import "context"

// mockResponse mirrors the shape a well-behaved model returns, so the full
// parse and update path is exercised offline.
const mockResponse = `{
    "updated_exercises": [{
        "index": 0,
        "title": "Bench Press (Barbell)",
        "notes": "RPE 8",
        "exercise_template_id": "79D0BB3A",
        "superset_id": null,
        "sets": [{
            "index": 0,
            "type": "normal",
            "weight_kg": 75.0,
            "reps": 5,
            "distance_meters": null,
            "duration_seconds": null,
            "rpe": 8,
            "custom_metric": null
        }]
    }],
    "week_number": 2,
    "routine_title": "Week 2 - Day 1"
}`

// MockBackend returns a fixed progressive-overload response. Used for
// local development and tests where no Gemini key is available.
type MockBackend struct {
	// Response overrides the default canned output when non-empty.
	Response string
	// Err, when set, is returned instead of a response.
	Err error
}

func (m *MockBackend) Name() string { return "mock" }

func (m *MockBackend) GenerateText(ctx context.Context, prompt string) (string, error) {
	if m.Err != nil {
		return "", m.Err
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if m.Response != "" {
		return m.Response, nil
	}
	return mockResponse, nil
}
