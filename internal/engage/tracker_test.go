package engage

import (
	"testing"
	"time"
)

var activateNow = time.Date(2026, 4, 10, 14, 0, 0, 0, time.UTC)

func TestActivateStreak(t *testing.T) {
	tests := []struct {
		name         string
		lastLogin    time.Time
		hasLessons   bool
		startStreak  int
		wantStreak   int
		wantBriefing bool
	}{
		{"30h gap extends", activateNow.Add(-30 * time.Hour), true, 3, 4, true},
		{"50h gap resets", activateNow.Add(-50 * time.Hour), true, 3, 1, true},
		{"exactly 48h resets", activateNow.Add(-48 * time.Hour), true, 5, 1, true},
		{"exactly 24h, prior day", activateNow.Add(-24 * time.Hour), true, 3, 3, true},
		{"2h same day", activateNow.Add(-2 * time.Hour), true, 3, 3, false},
		{"20h crossing midnight", activateNow.Add(-20 * time.Hour), true, 3, 3, true},
		{"30h gap but no lessons", activateNow.Add(-30 * time.Hour), false, 3, 3, false},
		{"first ever login", time.Time{}, true, 0, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := Behavior{LastLoginDate: tt.lastLogin, DailyStreak: tt.startStreak}
			got := Activate(b, activateNow, tt.hasLessons)

			if got.Behavior.DailyStreak != tt.wantStreak {
				t.Errorf("streak = %d, want %d", got.Behavior.DailyStreak, tt.wantStreak)
			}
			if got.ShowBriefing != tt.wantBriefing {
				t.Errorf("showBriefing = %v, want %v", got.ShowBriefing, tt.wantBriefing)
			}
			if !got.Behavior.LastLoginDate.Equal(activateNow) {
				t.Error("lastLoginDate not refreshed")
			}
		})
	}
}

func TestActivateStudyHours(t *testing.T) {
	got := Activate(Behavior{}, activateNow, true)
	if got.Behavior.StudyHours[14] != 1 {
		t.Errorf("studyHours[14] = %d, want 1", got.Behavior.StudyHours[14])
	}
}

func TestGritAdjustments(t *testing.T) {
	b := Behavior{GritScore: 2}
	if got := PenalizeGrit(b).GritScore; got != 1 {
		t.Errorf("PenalizeGrit = %d, want 1", got)
	}
	if got := RewardGrit(b).GritScore; got != 3 {
		t.Errorf("RewardGrit = %d, want 3", got)
	}
}

func TestUnlockRewardIdempotent(t *testing.T) {
	r := UnlockReward(nil, "first-node")
	r = UnlockReward(r, "first-node")
	if len(r) != 1 {
		t.Fatalf("rewards = %v, want one entry", r)
	}
	r2 := UnlockReward(r, "streak-7")
	if len(r2) != 2 || len(r) != 1 {
		t.Error("UnlockReward mutated input or dropped entry")
	}
}
