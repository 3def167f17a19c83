package llm

import (
	"encoding/json"
	"errors"
	"testing"
)

// lessonNodeSchema is the response shape for a single generated lesson
// node, shared by the provider tests.
func lessonNodeSchema() *Schema {
	return &Schema{
		Name:        "lesson-node",
		Description: "One lesson node in the plan",
		Definition: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"title":     map[string]any{"type": "string"},
				"parent_id": map[string]any{"type": "string"},
				"mastery":   map[string]any{"type": "number", "minimum": 0, "maximum": 1},
				"status":    map[string]any{"type": "string", "enum": []any{"pending", "in_progress", "completed"}},
			},
			"required": []any{"title", "parent_id"},
		},
	}
}

func wantInvalidResponse(t *testing.T, err error) {
	t.Helper()
	if err == nil {
		t.Fatal("expected error")
	}
	var invErr *ErrInvalidResponse
	if !errors.As(err, &invErr) {
		t.Fatalf("err = %T (%v), want ErrInvalidResponse", err, err)
	}
}

func TestValidateResponse(t *testing.T) {
	valid := []struct {
		name string
		raw  string
	}{
		{"all fields", `{"title":"Compound Interest","parent_id":"interest-basics","mastery":0.7,"status":"in_progress"}`},
		{"required only", `{"title":"Compound Interest","parent_id":""}`},
	}
	for _, tt := range valid {
		t.Run(tt.name, func(t *testing.T) {
			if err := validateResponse(lessonNodeSchema(), json.RawMessage(tt.raw)); err != nil {
				t.Fatalf("validateResponse: %v", err)
			}
		})
	}

	invalid := []struct {
		name string
		raw  string
	}{
		{"missing required field", `{"title":"Compound Interest"}`},
		{"wrong type", `{"title":"Compound Interest","parent_id":"","mastery":"seventy percent"}`},
		{"out of range", `{"title":"Compound Interest","parent_id":"","mastery":1.4}`},
		{"unknown status", `{"title":"Compound Interest","parent_id":"","status":"abandoned"}`},
		{"malformed json", `{not json}`},
	}
	for _, tt := range invalid {
		t.Run(tt.name, func(t *testing.T) {
			wantInvalidResponse(t, validateResponse(lessonNodeSchema(), json.RawMessage(tt.raw)))
		})
	}
}

func TestValidateResponseEmpty(t *testing.T) {
	if err := validateResponse(lessonNodeSchema(), json.RawMessage(``)); err == nil {
		t.Fatal("expected error for empty response")
	}
}

func TestValidateResponseNilSchema(t *testing.T) {
	// Plain-text requests carry no schema; anything goes.
	if err := validateResponse(nil, json.RawMessage(`{"anything":"goes"}`)); err != nil {
		t.Fatalf("validateResponse: %v", err)
	}
}

func TestValidateResponseNestedArrays(t *testing.T) {
	schema := &Schema{
		Name:        "question-results",
		Description: "Graded answers for one quiz",
		Definition: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"results": map[string]any{
					"type": "array",
					"items": map[string]any{
						"type": "object",
						"properties": map[string]any{
							"question": map[string]any{"type": "string"},
							"score":    map[string]any{"type": "number"},
						},
						"required": []any{"question", "score"},
					},
				},
			},
			"required": []any{"results"},
		},
	}

	valid := json.RawMessage(`{"results":[{"question":"Define APR.","score":1},{"question":"Define APY.","score":0.5}]}`)
	if err := validateResponse(schema, valid); err != nil {
		t.Fatalf("validateResponse: %v", err)
	}

	invalid := json.RawMessage(`{"results":[{"question":"Define APR.","score":"full marks"}]}`)
	wantInvalidResponse(t, validateResponse(schema, invalid))
}
