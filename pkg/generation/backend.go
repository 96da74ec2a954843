// Package generation abstracts the text-generation backend behind a small
// capability interface so the live Gemini model and the offline mock are
// interchangeable at startup.
package generation

import "context"

// Backend produces raw model output for a prompt. Implementations must
// respect ctx cancellation and deadlines.
type Backend interface {
	// GenerateText returns the raw text response for the prompt.
	GenerateText(ctx context.Context, prompt string) (string, error)
	// Name identifies the backend in logs.
	Name() string
}
