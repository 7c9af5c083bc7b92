package scenario

import "fmt"

// ValidationError describes the first structural rule a candidate
// scenario violated. Field names the offending field so callers (and
// regeneration prompts) can point at the exact contract.
type ValidationError struct {
	Field   string // e.g. "vignette", "choices", "cues[1].text"
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("scenario validation failed: %s: %s", e.Field, e.Message)
}

// GenerationValidationError wraps a ValidationError raised against
// freshly generated content. The raw output is never cached or shown.
type GenerationValidationError struct {
	Topic string
	Err   *ValidationError
}

func (e *GenerationValidationError) Error() string {
	return fmt.Sprintf("generated scenario for topic %q rejected: %s: %s", e.Topic, e.Err.Field, e.Err.Message)
}

func (e *GenerationValidationError) Unwrap() error { return e.Err }
