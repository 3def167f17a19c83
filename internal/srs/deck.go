package srs

import "time"

// Flashcard is one memory-review card. Cards are produced by an
// external generator; the deck only schedules them.
type Flashcard struct {
	ID             string    `json:"id"`
	NodeID         string    `json:"node_id"`
	Front          string    `json:"front"`
	Back           string    `json:"back"`
	Interval       int       `json:"interval"`
	Repetition     int       `json:"repetition"`
	EaseFactor     float64   `json:"ease_factor"`
	NextReviewDate time.Time `json:"next_review_date"`
}

// Review extracts the card's scheduling state.
func (c Flashcard) Review() Review {
	return Review{Interval: c.Interval, Repetition: c.Repetition, EaseFactor: c.EaseFactor}
}

// Deck is the session's flashcard collection.
type Deck []Flashcard

// Clone returns a copy sharing no backing storage with d.
func (d Deck) Clone() Deck {
	if d == nil {
		return nil
	}
	out := make(Deck, len(d))
	copy(out, d)
	return out
}

// Add merges new cards into the deck, dropping any whose front text
// already exists. Re-delivering the same batch is a no-op.
func (d Deck) Add(cards ...Flashcard) Deck {
	out := d.Clone()
	seen := make(map[string]bool, len(out))
	for _, c := range out {
		seen[c.Front] = true
	}
	for _, c := range cards {
		if seen[c.Front] {
			continue
		}
		seen[c.Front] = true
		out = append(out, c)
	}
	return out
}

// Apply records a review of the card with the given id, replacing its
// schedule per the grade. Unknown ids are a no-op.
func (d Deck) Apply(cardID string, grade Grade, now time.Time) Deck {
	out := d.Clone()
	for i := range out {
		if out[i].ID != cardID {
			continue
		}
		next := Schedule(grade, out[i].Review())
		out[i].Interval = next.Interval
		out[i].Repetition = next.Repetition
		out[i].EaseFactor = next.EaseFactor
		out[i].NextReviewDate = NextReviewDate(now, next)
		break
	}
	return out
}

// Due returns the cards whose review date is at or before now.
func (d Deck) Due(now time.Time) []Flashcard {
	var out []Flashcard
	for _, c := range d {
		if !c.NextReviewDate.After(now) {
			out = append(out, c)
		}
	}
	return out
}
