package srs

import (
	"math"
	"time"
)

// Grade is the learner's self-assessment on a 4-point scale.
type Grade int

const (
	GradeAgain Grade = 1
	GradeHard  Grade = 2
	GradeGood  Grade = 3
	GradeEasy  Grade = 4
)

// MinEaseFactor is the floor the ease factor never drops below.
const MinEaseFactor = 1.3

// Review holds the scheduling state of one flashcard.
type Review struct {
	Interval   int     `json:"interval"` // days
	Repetition int     `json:"repetition"`
	EaseFactor float64 `json:"ease_factor"`
}

// NewReview is the state of a never-reviewed card.
func NewReview() Review {
	return Review{Interval: 0, Repetition: 0, EaseFactor: 2.5}
}

// Schedule maps a review grade and the card's prior state to its next
// state. Pure and deterministic: identical inputs always produce
// identical outputs.
//
// Only GradeAgain is a lapse (interval and repetition reset); GradeHard
// enters the pass branch like Good/Easy, at repetition+1. The ease
// factor is adjusted on every grade and floored at MinEaseFactor.
func Schedule(grade Grade, prev Review) Review {
	next := Review{}

	if grade > GradeAgain {
		next.Repetition = prev.Repetition + 1
		switch prev.Repetition {
		case 0:
			next.Interval = 1
		case 1:
			next.Interval = 6
		default:
			next.Interval = int(math.Round(float64(prev.Interval) * prev.EaseFactor))
		}
	} else {
		next.Interval = 1
		next.Repetition = 0
	}

	q := float64(grade)
	ease := prev.EaseFactor + (0.1 - (5-q)*(0.08+(5-q)*0.02))
	if ease < MinEaseFactor {
		ease = MinEaseFactor
	}
	next.EaseFactor = ease

	return next
}

// NextReviewDate returns when a card with the given schedule comes due.
func NextReviewDate(now time.Time, r Review) time.Time {
	return now.AddDate(0, 0, r.Interval)
}
