package llm

import (
	"context"
	"encoding/json"
)

// Provider generates structured JSON from a prompt. Concrete providers
// wrap the vendor SDKs; decorators add retry and request logging.
type Provider interface {
	// Generate sends the request and returns the model's output. When the
	// request carries a Schema, Content is JSON already validated against
	// it.
	Generate(ctx context.Context, req Request) (*Response, error)

	// ModelID returns the configured model identifier.
	ModelID() string
}

// Request describes one generation call.
type Request struct {
	// System sets the model's role and constraints.
	System string

	// Messages is the conversation. Scenario generation is single-turn,
	// so this is usually one user message.
	Messages []Message

	// Schema, when set, makes the provider use its native structured
	// output mechanism and the response is validated against it. When
	// nil, Content is the raw text wrapped as json.RawMessage.
	Schema *Schema

	// MaxTokens caps the response length.
	MaxTokens int

	// Temperature in [0, 1]. Zero value means deterministic.
	Temperature float64
}

// Message is one turn of conversation.
type Message struct {
	Role    Role
	Content string
}

// Role identifies the message sender.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Schema is the JSON structure the model must produce.
type Schema struct {
	// Name identifies the schema. Anthropic sees it as a tool name,
	// OpenAI as a schema name. Kebab-case, e.g. "emt-scenario".
	Name string

	// Description tells the model what the schema represents.
	Description string

	// Definition is the JSON Schema as a map.
	Definition map[string]any
}

// Response is the model's output.
type Response struct {
	// Content is the generated output, schema-validated when the request
	// had a Schema.
	Content json.RawMessage

	// Usage reports token consumption.
	Usage Usage

	// Model is the model that actually served the request.
	Model string

	// StopReason is normalized to "end", "max_tokens", or "error".
	StopReason string
}

// Usage counts tokens for a single request.
type Usage struct {
	InputTokens  int
	OutputTokens int
	TotalTokens  int
}
