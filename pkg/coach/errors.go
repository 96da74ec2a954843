package coach

import "fmt"

// GenerationError indicates the generation backend call itself failed or
// timed out. Retried on the next trigger, never in-line.
type GenerationError struct {
	Backend string
	Err     error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("generation backend %s failed: %v", e.Backend, e.Err)
}

func (e *GenerationError) Unwrap() error {
	return e.Err
}

// ParseError indicates the backend response could not be mapped to any
// usable suggestion. Raw carries the (truncated) model output for diagnosis.
type ParseError struct {
	Raw string
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("unparseable model response: %v", e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

const maxRawInError = 2000

func truncateRaw(raw string) string {
	if len(raw) <= maxRawInError {
		return raw
	}
	return raw[:maxRawInError] + "..."
}
