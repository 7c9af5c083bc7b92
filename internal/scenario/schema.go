package scenario

import "github.com/pathologix/emtrainer/internal/llm"

// ItemSchema defines the JSON schema for LLM scenario generation
// responses. Structural limits the schema cannot express (exactly one
// correct choice, verbatim cue anchoring) are enforced by Validate.
var ItemSchema = &llm.Schema{
	Name:        "emt-scenario",
	Description: "A single NREMT-style EMT practice scenario with cues, choices, and reasoning",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"vignette": map[string]any{
				"type":        "string",
				"description": "One concise patient-presentation paragraph, 75-140 words",
			},
			"cues": map[string]any{
				"type":     "array",
				"minItems": 3,
				"maxItems": 5,
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"text": map[string]any{
							"type":        "string",
							"description": "Exact phrase copied verbatim from the vignette",
						},
						"rationale": map[string]any{
							"type":        "string",
							"description": "Why this finding matters clinically",
						},
					},
					"required":             []any{"text", "rationale"},
					"additionalProperties": false,
				},
			},
			"question": map[string]any{
				"type":        "string",
				"description": "One NREMT-phrased question about the vignette",
			},
			"choices": map[string]any{
				"type":     "array",
				"minItems": 4,
				"maxItems": 4,
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"id": map[string]any{
							"type": "string",
							"enum": []any{"A", "B", "C", "D"},
						},
						"text":    map[string]any{"type": "string"},
						"correct": map[string]any{"type": "boolean"},
						"why_right": map[string]any{
							"type":        "string",
							"description": "Present on the correct choice",
						},
						"why_wrong": map[string]any{
							"type":        "string",
							"description": "Present on each incorrect choice",
						},
					},
					"required":             []any{"id", "text", "correct"},
					"additionalProperties": false,
				},
			},
			"reasoning_steps": map[string]any{
				"type":     "array",
				"minItems": 3,
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"label":  map[string]any{"type": "string"},
						"detail": map[string]any{"type": "string"},
					},
					"required":             []any{"label", "detail"},
					"additionalProperties": false,
				},
			},
			"tags": map[string]any{
				"type":  "array",
				"items": map[string]any{"type": "string"},
			},
		},
		"required":             []any{"vignette", "cues", "question", "choices", "reasoning_steps", "tags"},
		"additionalProperties": false,
	},
}
