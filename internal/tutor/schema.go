package tutor

import "github.com/pathwise/pathwise/internal/llm"

// PlanSchema defines the JSON schema for learning plan generation.
var PlanSchema = &llm.Schema{
	Name:        "learning-plan",
	Description: "A mind map of lesson nodes plus a suggested traversal order",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"nodes": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"id": map[string]any{
							"type":        "string",
							"description": "Short kebab-case identifier, unique within the plan",
						},
						"title": map[string]any{
							"type":        "string",
							"description": "Topic title (3-8 words)",
						},
						"parent_id": map[string]any{
							"type":        "string",
							"description": "Id of the prerequisite node; empty for root topics",
						},
						"difficulty": map[string]any{
							"type":        "number",
							"minimum":     0,
							"maximum":     1,
							"description": "0 (introductory) to 1 (hardest)",
						},
					},
					"required":             []any{"id", "title", "parent_id", "difficulty"},
					"additionalProperties": false,
				},
				"description": "5-12 lesson nodes forming a tree via parent_id",
			},
			"suggested_path": map[string]any{
				"type":        "array",
				"items":       map[string]any{"type": "string"},
				"description": "Node ids in recommended study order, roots first",
			},
		},
		"required":             []any{"nodes", "suggested_path"},
		"additionalProperties": false,
	},
}

// QuestionsSchema defines the JSON schema for quiz and pre-assessment
// question batches.
var QuestionsSchema = &llm.Schema{
	Name:        "question-batch",
	Description: "A batch of multiple-choice questions",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"questions": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"prompt": map[string]any{
							"type":        "string",
							"description": "The question text",
						},
						"options": map[string]any{
							"type":        "array",
							"items":       map[string]any{"type": "string"},
							"description": "3-5 answer options",
						},
						"points": map[string]any{
							"type":        "number",
							"description": "Points this question is worth (usually 1)",
						},
					},
					"required":             []any{"prompt", "options", "points"},
					"additionalProperties": false,
				},
			},
		},
		"required":             []any{"questions"},
		"additionalProperties": false,
	},
}

// GradingSchema defines the JSON schema for quiz grading.
var GradingSchema = &llm.Schema{
	Name:        "quiz-grading",
	Description: "Per-question grading results for a submitted quiz",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"results": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"question": map[string]any{
							"type":        "string",
							"description": "The question text, verbatim",
						},
						"user_answer": map[string]any{
							"type":        "string",
							"description": "The learner's answer, verbatim",
						},
						"correct_answer": map[string]any{
							"type":        "string",
							"description": "The correct answer",
						},
						"correct": map[string]any{
							"type": "boolean",
						},
						"score": map[string]any{
							"type":        "number",
							"description": "Points earned, 0 to points",
						},
						"points": map[string]any{
							"type":        "number",
							"description": "Points available for this question",
						},
						"analysis": map[string]any{
							"type":        "string",
							"description": "1-2 sentence explanation of the grading",
						},
					},
					"required":             []any{"question", "user_answer", "correct_answer", "correct", "score", "points", "analysis"},
					"additionalProperties": false,
				},
			},
		},
		"required":             []any{"results"},
		"additionalProperties": false,
	},
}

// AnalysisSchema defines the JSON schema for pre-assessment analysis.
var AnalysisSchema = &llm.Schema{
	Name:        "pre-assessment-analysis",
	Description: "Analysis of a learner's prior knowledge from a pre-assessment",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"analysis": map[string]any{
				"type":        "string",
				"description": "3-5 sentence summary of what the learner already knows and where to focus",
			},
		},
		"required":             []any{"analysis"},
		"additionalProperties": false,
	},
}

// RemedialSchema defines the JSON schema for remedial node generation.
var RemedialSchema = &llm.Schema{
	Name:        "remedial-node",
	Description: "A remedial lesson node targeting specific weaknesses",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"id": map[string]any{
				"type":        "string",
				"description": "Short kebab-case identifier, distinct from existing node ids",
			},
			"title": map[string]any{
				"type":        "string",
				"description": "Title naming the gap being addressed (3-8 words)",
			},
			"difficulty": map[string]any{
				"type":        "number",
				"minimum":     0,
				"maximum":     1,
				"description": "0 (introductory) to 1 (hardest)",
			},
		},
		"required":             []any{"id", "title", "difficulty"},
		"additionalProperties": false,
	},
}

// SummarySchema defines the JSON schema for the final session summary.
var SummarySchema = &llm.Schema{
	Name:        "final-summary",
	Description: "Closing summary of the learner's performance",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"summary": map[string]any{
				"type":        "string",
				"description": "4-8 sentence summary: what was mastered, what to revisit, next steps",
			},
		},
		"required":             []any{"summary"},
		"additionalProperties": false,
	},
}
