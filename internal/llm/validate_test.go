package llm

import (
	"encoding/json"
	"errors"
	"testing"
)

func triageSchema() *Schema {
	return &Schema{
		Name:        "triage-note",
		Description: "A triage note",
		Definition: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"chief_complaint":  map[string]any{"type": "string"},
				"respiratory_rate": map[string]any{"type": "integer", "minimum": 0},
				"priority":         map[string]any{"type": "string", "enum": []any{"red", "yellow", "green"}},
			},
			"required": []any{"chief_complaint", "respiratory_rate"},
		},
	}
}

func TestValidateResponse_ValidJSON(t *testing.T) {
	raw := json.RawMessage(`{"chief_complaint":"chest pain","respiratory_rate":22,"priority":"red"}`)
	err := validateResponse(triageSchema(), raw)
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
}

func TestValidateResponse_ValidWithoutOptional(t *testing.T) {
	raw := json.RawMessage(`{"chief_complaint":"ankle sprain","respiratory_rate":16}`)
	err := validateResponse(triageSchema(), raw)
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
}

func TestValidateResponse_MissingRequired(t *testing.T) {
	raw := json.RawMessage(`{"chief_complaint":"syncope"}`)
	err := validateResponse(triageSchema(), raw)
	if err == nil {
		t.Fatal("expected error for missing required field")
	}
	var invErr *ErrInvalidResponse
	if !errors.As(err, &invErr) {
		t.Fatalf("expected ErrInvalidResponse, got: %T", err)
	}
}

func TestValidateResponse_WrongType(t *testing.T) {
	raw := json.RawMessage(`{"chief_complaint":"dyspnea","respiratory_rate":"rapid"}`)
	err := validateResponse(triageSchema(), raw)
	if err == nil {
		t.Fatal("expected error for wrong type")
	}
	var invErr *ErrInvalidResponse
	if !errors.As(err, &invErr) {
		t.Fatalf("expected ErrInvalidResponse, got: %T", err)
	}
}

func TestValidateResponse_InvalidEnum(t *testing.T) {
	raw := json.RawMessage(`{"chief_complaint":"headache","respiratory_rate":14,"priority":"purple"}`)
	err := validateResponse(triageSchema(), raw)
	if err == nil {
		t.Fatal("expected error for invalid enum value")
	}
	var invErr *ErrInvalidResponse
	if !errors.As(err, &invErr) {
		t.Fatalf("expected ErrInvalidResponse, got: %T", err)
	}
}

func TestValidateResponse_MalformedJSON(t *testing.T) {
	raw := json.RawMessage(`{not json}`)
	err := validateResponse(triageSchema(), raw)
	if err == nil {
		t.Fatal("expected error for malformed JSON")
	}
	var invErr *ErrInvalidResponse
	if !errors.As(err, &invErr) {
		t.Fatalf("expected ErrInvalidResponse, got: %T", err)
	}
}

func TestValidateResponse_EmptyResponse(t *testing.T) {
	raw := json.RawMessage(``)
	err := validateResponse(triageSchema(), raw)
	if err == nil {
		t.Fatal("expected error for empty response")
	}
}

func TestValidateResponse_NilSchema(t *testing.T) {
	raw := json.RawMessage(`{"anything":"goes"}`)
	err := validateResponse(nil, raw)
	if err != nil {
		t.Fatalf("expected no error with nil schema, got: %v", err)
	}
}

func TestValidateResponse_NestedObjects(t *testing.T) {
	schema := &Schema{
		Name:        "patient-assessment",
		Description: "Nested assessment",
		Definition: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"patient": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"age": map[string]any{"type": "integer"},
					},
					"required": []any{"age"},
				},
				"vitals": map[string]any{
					"type":  "array",
					"items": map[string]any{"type": "integer"},
				},
			},
			"required": []any{"patient", "vitals"},
		},
	}

	valid := json.RawMessage(`{"patient":{"age":54},"vitals":[98,120,22]}`)
	if err := validateResponse(schema, valid); err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	invalid := json.RawMessage(`{"patient":{"age":54},"vitals":["not","ints"]}`)
	if err := validateResponse(schema, invalid); err == nil {
		t.Fatal("expected error for wrong array item type")
	}
}
