package srs

import (
	"testing"
	"time"
)

func card(id, front string, due time.Time) Flashcard {
	return Flashcard{ID: id, NodeID: "n1", Front: front, Back: "b", EaseFactor: 2.5, NextReviewDate: due}
}

func TestDeckAddDeduplicatesByFront(t *testing.T) {
	now := time.Now()
	d := Deck{}.Add(card("1", "What is ATP?", now))
	d = d.Add(card("2", "What is ATP?", now), card("3", "What is ADP?", now))

	if len(d) != 2 {
		t.Fatalf("deck len = %d, want 2", len(d))
	}
	if d[0].ID != "1" {
		t.Error("duplicate replaced original card")
	}
}

func TestDeckAddIdempotent(t *testing.T) {
	now := time.Now()
	batch := []Flashcard{card("1", "f1", now), card("2", "f2", now)}
	d := Deck{}.Add(batch...)
	d2 := d.Add(batch...)
	if len(d2) != len(d) {
		t.Errorf("re-adding batch grew deck: %d -> %d", len(d), len(d2))
	}
}

func TestDeckApply(t *testing.T) {
	now := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)
	d := Deck{card("1", "f1", now)}

	d2 := d.Apply("1", GradeEasy, now)
	got := d2[0]
	if got.Repetition != 1 || got.Interval != 1 {
		t.Errorf("schedule after first Easy = %d/%d, want rep 1 interval 1", got.Repetition, got.Interval)
	}
	want := now.AddDate(0, 0, 1)
	if !got.NextReviewDate.Equal(want) {
		t.Errorf("next review = %v, want %v", got.NextReviewDate, want)
	}

	// Original deck untouched.
	if d[0].Repetition != 0 {
		t.Error("Apply mutated the original deck")
	}

	// Unknown id: no-op.
	d3 := d2.Apply("nope", GradeAgain, now)
	if d3[0] != d2[0] {
		t.Error("Apply with unknown id changed a card")
	}
}

func TestDeckDue(t *testing.T) {
	now := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)
	d := Deck{
		card("past", "f1", now.AddDate(0, 0, -1)),
		card("exact", "f2", now),
		card("future", "f3", now.AddDate(0, 0, 3)),
	}

	due := d.Due(now)
	if len(due) != 2 {
		t.Fatalf("due = %d cards, want 2", len(due))
	}
	for _, c := range due {
		if c.ID == "future" {
			t.Error("future card reported due")
		}
	}
}
