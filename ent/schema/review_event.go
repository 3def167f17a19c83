package schema

import (
	"entgo.io/ent"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

// ReviewEvent records one flashcard review and the SM-2 values the
// scheduler produced for it.
type ReviewEvent struct {
	ent.Schema
}

func (ReviewEvent) Mixin() []ent.Mixin {
	return []ent.Mixin{EventMixin{}}
}

func (ReviewEvent) Fields() []ent.Field {
	return []ent.Field{
		field.String("session_id").
			NotEmpty().
			Comment("UUID grouping events in a session"),
		field.String("card_id").
			NotEmpty().
			Comment("Flashcard reviewed"),
		field.String("node_id").
			Default("").
			Comment("Lesson node the card belongs to"),
		field.Int("grade").
			Comment("Recall grade 1-4"),
		field.Int("interval").
			Comment("New interval in days"),
		field.Int("repetition").
			Comment("New repetition count"),
		field.Float("ease_factor").
			Comment("New ease factor"),
	}
}

func (ReviewEvent) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("session_id"),
		index.Fields("card_id"),
	}
}
