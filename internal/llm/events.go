package llm

import "context"

// RequestEvent is the record of one generation call, successful or not,
// handed to the event sink.
type RequestEvent struct {
	Provider     string
	Model        string
	Purpose      string
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
	RequestBody  string
	ResponseBody string
}

// EventAppender receives request events. The sink decides how events
// are persisted; this package only emits them.
type EventAppender interface {
	AppendLLMRequest(ctx context.Context, e RequestEvent) error
}
