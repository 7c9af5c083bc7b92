package llm

import "context"

type contextKey string

const purposeKey contextKey = "llm_purpose"

// Purpose labels recorded on logged LLM events. The label rides on the
// context so call sites don't have to thread it through middleware.
const (
	PurposeScenarioGen = "scenario-gen"
	PurposeUnknown     = "unknown"
)

// WithPurpose tags the context with a purpose label for event logging.
func WithPurpose(ctx context.Context, purpose string) context.Context {
	return context.WithValue(ctx, purposeKey, purpose)
}

// PurposeFrom reads the purpose label off the context, PurposeUnknown
// when no label was set.
func PurposeFrom(ctx context.Context) string {
	if v, ok := ctx.Value(purposeKey).(string); ok {
		return v
	}
	return PurposeUnknown
}
