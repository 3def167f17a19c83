package llm

import (
	"testing"
)

func TestGeminiModelAliases(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"gemini-flash", "gemini-2.0-flash"},
		{"gemini-pro", "gemini-2.0-pro"},
		{"gemini-2.0-flash", "gemini-2.0-flash"},
		{"gemini-experimental-xyz", "gemini-experimental-xyz"}, // unknown IDs pass through
	}
	for _, tt := range tests {
		if got := resolveModel(tt.input, geminiModels); got != tt.want {
			t.Errorf("resolveModel(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestBuildGeminiSchema(t *testing.T) {
	// The quiz-question shape the tutor requests: Gemini takes its own
	// schema type, so the JSON Schema definition has to be converted.
	def := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"question": map[string]any{"type": "string"},
			"options": map[string]any{
				"type":  "array",
				"items": map[string]any{"type": "string"},
			},
			"points":     map[string]any{"type": "number"},
			"difficulty": map[string]any{"type": "string", "enum": []any{"easy", "medium", "hard"}},
		},
		"required": []any{"question", "options", "points"},
	}

	schema := buildGeminiSchema(def)

	if schema.Type != "OBJECT" {
		t.Fatalf("type = %s, want OBJECT", schema.Type)
	}
	if len(schema.Properties) != 4 {
		t.Fatalf("properties = %d, want 4", len(schema.Properties))
	}
	if schema.Properties["question"].Type != "STRING" {
		t.Errorf("question type = %s, want STRING", schema.Properties["question"].Type)
	}
	if schema.Properties["points"].Type != "NUMBER" {
		t.Errorf("points type = %s, want NUMBER", schema.Properties["points"].Type)
	}
	if schema.Properties["options"].Type != "ARRAY" {
		t.Errorf("options type = %s, want ARRAY", schema.Properties["options"].Type)
	}
	if schema.Properties["options"].Items.Type != "STRING" {
		t.Errorf("options items = %s, want STRING", schema.Properties["options"].Items.Type)
	}
	if len(schema.Properties["difficulty"].Enum) != 3 {
		t.Errorf("difficulty enum = %d values, want 3", len(schema.Properties["difficulty"].Enum))
	}
	if len(schema.Required) != 3 {
		t.Errorf("required = %d fields, want 3", len(schema.Required))
	}
}
