package engage

import "time"

// Behavior is the per-learner engagement ledger. It survives resets and
// is persisted across sessions.
type Behavior struct {
	LastLoginDate time.Time `json:"last_login_date"`
	DailyStreak   int       `json:"daily_streak"`
	StudyHours    [24]int   `json:"study_hours"`
	GritScore     int       `json:"grit_score"`
	TotalPoints   float64   `json:"total_points"`
}

// Activation is the result of a session-start engagement check.
type Activation struct {
	Behavior     Behavior
	ShowBriefing bool
}

// Activate runs the once-per-session-start streak check.
//
// With a non-empty lesson tree: a gap strictly between 24h and 48h
// extends the streak, a gap of 48h or more resets it to 1, and a
// same-streak gap that still crosses a calendar day only raises the
// briefing. With an empty tree only the login timestamp moves.
func Activate(b Behavior, now time.Time, hasLessons bool) Activation {
	out := Activation{Behavior: b}
	last := b.LastLoginDate

	if hasLessons && !last.IsZero() {
		diff := now.Sub(last).Hours()
		switch {
		case diff > 24 && diff < 48:
			out.Behavior.DailyStreak++
			out.ShowBriefing = true
		case diff >= 48:
			out.Behavior.DailyStreak = 1
			out.ShowBriefing = true
		case !sameDay(last, now):
			out.ShowBriefing = true
		}
	}

	out.Behavior.LastLoginDate = now
	out.Behavior.StudyHours[now.Hour()]++
	return out
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// AddPoints returns the behavior with earned quiz points added.
func AddPoints(b Behavior, points float64) Behavior {
	b.TotalPoints += points
	return b
}

// PenalizeGrit decrements the grit score, taken when a learner
// force-unlocks a node without passing.
func PenalizeGrit(b Behavior) Behavior {
	b.GritScore--
	return b
}

// RewardGrit increments the grit score, granted on an immediate retry
// after failure.
func RewardGrit(b Behavior) Behavior {
	b.GritScore++
	return b
}
