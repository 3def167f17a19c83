package schema

import (
	"entgo.io/ent"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

// QuizEvent records every graded quiz attempt: pre-assessments, node
// mastery quizzes, and final exams.
type QuizEvent struct {
	ent.Schema
}

func (QuizEvent) Mixin() []ent.Mixin {
	return []ent.Mixin{EventMixin{}}
}

func (QuizEvent) Fields() []ent.Field {
	return []ent.Field{
		field.String("session_id").
			NotEmpty().
			Comment("UUID grouping events in a session"),
		field.String("node_id").
			Default("").
			Comment("Lesson node the quiz covered; empty for pre-assessments and final exams"),
		field.String("kind").
			NotEmpty().
			Comment("pre_assessment, node, or final_exam"),
		field.Int("questions").
			Default(0).
			Comment("Number of questions graded"),
		field.Float("score").
			Default(0).
			Comment("Points earned"),
		field.Float("max_score").
			Default(0).
			Comment("Points available"),
		field.Float("proficiency").
			Default(0).
			Comment("score / max_score, 0 when max_score is 0"),
		field.Bool("passed").
			Comment("Whether proficiency met the mastery threshold"),
		field.Text("results").
			Default("").
			Comment("Per-question grading results as JSON"),
	}
}

func (QuizEvent) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("session_id"),
		index.Fields("node_id"),
		index.Fields("kind"),
	}
}
