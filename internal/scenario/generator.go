package scenario

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"

	"github.com/pathologix/emtrainer/internal/llm"
)

// Generator produces practice scenarios for a topic.
type Generator interface {
	// Generate produces a single validated scenario for the topic.
	// Validation failures surface as *GenerationValidationError;
	// provider errors pass through unchanged.
	Generate(ctx context.Context, topic string) (*Scenario, error)
}

// LLMGenerator implements Generator using the LLM provider.
type LLMGenerator struct {
	provider llm.Provider
	config   Config
}

// NewGenerator creates an LLMGenerator with the given provider and config.
func NewGenerator(provider llm.Provider, cfg Config) *LLMGenerator {
	return &LLMGenerator{provider: provider, config: cfg}
}

// itemOutput is the raw LLM response before validation.
type itemOutput struct {
	Vignette       string          `json:"vignette"`
	Cues           []Cue           `json:"cues"`
	Question       string          `json:"question"`
	Choices        []Choice        `json:"choices"`
	ReasoningSteps []ReasoningStep `json:"reasoning_steps"`
	Tags           []string        `json:"tags"`
}

// Generate produces one scenario for the topic, gated by Validate.
func (g *LLMGenerator) Generate(ctx context.Context, topic string) (*Scenario, error) {
	ctx = llm.WithPurpose(ctx, llm.PurposeScenarioGen)

	req := llm.Request{
		System: systemPrompt,
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: buildUserMessage(topic)},
		},
		Schema:      ItemSchema,
		MaxTokens:   g.config.MaxTokens,
		Temperature: g.config.Temperature,
	}

	resp, err := g.provider.Generate(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("LLM generation failed: %w", err)
	}

	raw, err := decodeItemJSON(resp.Content)
	if err != nil {
		return nil, err
	}

	domain := DomainForTopic(topic)
	s := &Scenario{
		ID:             "gen-" + uuid.NewString(),
		Domain:         domain,
		Topic:          topic,
		Vignette:       raw.Vignette,
		Cues:           raw.Cues,
		Question:       raw.Question,
		Choices:        raw.Choices,
		ReasoningSteps: raw.ReasoningSteps,
		Tags:           normalizeTags(raw.Tags, domain, topic),
	}

	if verr := Validate(s); verr != nil {
		return nil, &GenerationValidationError{Topic: topic, Err: verr}
	}

	return s, nil
}

var jsonObjectPattern = regexp.MustCompile(`(?s)\{.*\}`)

// decodeItemJSON parses the generator output. Some models wrap JSON in
// code fences even when asked not to, so a bare parse failure falls
// back to extracting the outermost object.
func decodeItemJSON(content json.RawMessage) (*itemOutput, error) {
	var raw itemOutput
	if err := json.Unmarshal(content, &raw); err == nil {
		return &raw, nil
	}

	match := jsonObjectPattern.FindString(string(content))
	if match == "" {
		return nil, fmt.Errorf("generator did not return valid JSON")
	}
	if err := json.Unmarshal([]byte(match), &raw); err != nil {
		return nil, fmt.Errorf("failed to parse generator response: %w", err)
	}
	return &raw, nil
}

// normalizeTags caps tags at 4 entries and falls back to domain/topic
// defaults when the generator returned none.
func normalizeTags(tags []string, domain, topic string) []string {
	cleaned := tags[:0:0]
	for _, t := range tags {
		if strings.TrimSpace(t) != "" {
			cleaned = append(cleaned, t)
		}
	}
	if len(cleaned) == 0 {
		return []string{domain, topic, "NREMT"}
	}
	if len(cleaned) > 4 {
		cleaned = cleaned[:4]
	}
	return cleaned
}
