package runtime

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/pathwise/pathwise/internal/engine"
	"github.com/pathwise/pathwise/internal/lessontree"
	"github.com/pathwise/pathwise/internal/llm"
	"github.com/pathwise/pathwise/internal/mastery"
	"github.com/pathwise/pathwise/internal/snapshot"
	"github.com/pathwise/pathwise/internal/srs"
	"github.com/pathwise/pathwise/internal/store"
	"github.com/pathwise/pathwise/internal/tutor"
)

// waitFor polls cond until it holds or the deadline passes.
func waitFor(t *testing.T, cond func() bool, what string) {
	t.Helper()
	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}

type fakeSnapshots struct {
	mu   sync.Mutex
	recs []*store.SnapshotRecord
	seed *store.SnapshotRecord
}

func (f *fakeSnapshots) Save(_ context.Context, rec *store.SnapshotRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.recs = append(f.recs, rec)
	return nil
}

func (f *fakeSnapshots) Latest(context.Context) (*store.SnapshotRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.seed != nil {
		return f.seed, nil
	}
	if len(f.recs) == 0 {
		return nil, nil
	}
	return f.recs[len(f.recs)-1], nil
}

func (f *fakeSnapshots) Prune(context.Context, int) error { return nil }

func (f *fakeSnapshots) saved() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.recs)
}

type fakeEvents struct {
	mu       sync.Mutex
	sessions []store.SessionEventData
	quizzes  []store.QuizEventData
	reviews  []store.ReviewEventData
}

func (f *fakeEvents) AppendSession(_ context.Context, d store.SessionEventData) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sessions = append(f.sessions, d)
	return nil
}

func (f *fakeEvents) AppendQuizGrade(_ context.Context, d store.QuizEventData) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.quizzes = append(f.quizzes, d)
	return nil
}

func (f *fakeEvents) AppendFlashcardReview(_ context.Context, d store.ReviewEventData) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reviews = append(f.reviews, d)
	return nil
}

func (f *fakeEvents) AppendLLMRequest(context.Context, store.LLMRequestEventData) error {
	return nil
}

func (f *fakeEvents) QueryLLMEvents(context.Context, store.QueryOpts) ([]store.LLMEvent, error) {
	return nil, nil
}

func (f *fakeEvents) GetLLMEvent(context.Context, int) (*store.LLMEvent, error) {
	return nil, fmt.Errorf("not found")
}

func (f *fakeEvents) LLMUsageByPurpose(context.Context) ([]store.LLMUsage, error) { return nil, nil }
func (f *fakeEvents) LLMUsageByModel(context.Context) ([]store.LLMUsage, error)   { return nil, nil }
func (f *fakeEvents) NodeAccuracy(context.Context, string) (float64, error)       { return 0, nil }

func planJSON() json.RawMessage {
	return json.RawMessage(`{
		"nodes": [
			{"id": "a", "title": "Basics", "parent_id": "", "difficulty": 0.2},
			{"id": "b", "title": "Depth", "parent_id": "a", "difficulty": 0.6}
		],
		"suggested_path": ["a", "b"]
	}`)
}

func questionsJSON() json.RawMessage {
	return json.RawMessage(`{
		"questions": [
			{"prompt": "What is a basic?", "options": ["x", "y"], "points": 1}
		]
	}`)
}

// learningState is a mid-session state: plan installed, root node
// passed, resume precedence lands on LEARNING.
func learningState() engine.State {
	s := engine.New()
	s.Status = engine.StatusLearning
	s.Tree = lessontree.Tree{
		{ID: "a", Title: "Basics", Type: lessontree.TypeCore},
		{ID: "b", Title: "Depth", ParentID: "a", Locked: true, Type: lessontree.TypeCore},
	}
	s.Path = lessontree.Path{"a", "b"}
	s.Progress["a"] = mastery.Progress{Status: mastery.StatusCompleted, Attempts: 1, Proficiency: 0.9}
	return s
}

func startRuntime(t *testing.T, opts Options) *Runtime {
	t.Helper()
	rt := New(opts)
	ctx, cancel := context.WithCancel(context.Background())
	if err := rt.Start(ctx); err != nil {
		cancel()
		t.Fatalf("Start: %v", err)
	}
	t.Cleanup(func() {
		_ = rt.Stop(context.Background())
		cancel()
	})
	return rt
}

func TestOnboardingReachesPlanReview(t *testing.T) {
	provider := llm.NewMockProvider(
		llm.MockResponse{Content: planJSON()},
		llm.MockResponse{Content: questionsJSON()},
	)
	rt := startRuntime(t, Options{Tutor: tutor.New(provider, tutor.DefaultConfig())})

	rt.Dispatch(engine.IntakeFinished{Resources: []engine.Resource{{Kind: "text", Name: "notes", Content: "algebra"}}})
	rt.Dispatch(engine.PreferencesSubmitted{Prefs: engine.Preferences{Pace: "thorough"}})

	waitFor(t, func() bool {
		s := rt.State()
		return s.Status == engine.StatusPlanReview &&
			s.PreAssessment != nil && len(s.PreAssessment.Questions) == 1
	}, "plan review with streamed pre-assessment")

	s := rt.State()
	if len(s.Tree) != 2 {
		t.Fatalf("Tree size = %d, want 2", len(s.Tree))
	}
	if got := s.Path; len(got) != 2 || got[0] != "a" {
		t.Fatalf("Path = %v", got)
	}
}

func TestSessionActivationRecorded(t *testing.T) {
	events := &fakeEvents{}
	rt := startRuntime(t, Options{Events: events})
	_ = rt

	waitFor(t, func() bool {
		events.mu.Lock()
		defer events.mu.Unlock()
		return len(events.sessions) == 1 && events.sessions[0].Action == "activated"
	}, "session activation event")
}

func TestSnapshotPersistedPerEvent(t *testing.T) {
	snaps := &fakeSnapshots{}
	rt := startRuntime(t, Options{Snapshots: snaps})

	rt.Dispatch(engine.IntakeFinished{Resources: []engine.Resource{{Kind: "text", Name: "n", Content: "c"}}})

	waitFor(t, func() bool { return snaps.saved() >= 2 }, "snapshots after activation and intake")

	waitFor(t, func() bool {
		rec, _ := snaps.Latest(context.Background())
		return rec != nil && len(rec.Data.Resources) == 1
	}, "intake resources in latest snapshot")
}

func TestRejectedSnapshotStartsFreshWithNotice(t *testing.T) {
	bad := snapshot.Capture(engine.New())
	bad.Version = "v9.0.0"
	snaps := &fakeSnapshots{seed: &store.SnapshotRecord{Data: bad}}

	rt := startRuntime(t, Options{Snapshots: snaps})

	waitFor(t, func() bool { return rt.State().Status == engine.StatusIdle }, "idle state")
	if rt.State().Notice == "" {
		t.Fatal("expected a notice after a rejected snapshot")
	}
}

func TestRestoreResumesSavedSession(t *testing.T) {
	snap := snapshot.Capture(learningState())
	snaps := &fakeSnapshots{seed: &store.SnapshotRecord{Data: snap}}

	rt := startRuntime(t, Options{Snapshots: snaps})

	waitFor(t, func() bool { return rt.State().Status == engine.StatusLearning }, "restored learning state")
	if len(rt.State().Tree) != 2 {
		t.Fatalf("Tree size = %d, want 2", len(rt.State().Tree))
	}
}

func TestPlanlessSnapshotCarriesBehaviorLedger(t *testing.T) {
	reset := snapshot.Snapshot{Version: snapshot.Version}
	reset.Behavior.DailyStreak = 4
	reset.Behavior.GritScore = 2
	reset.Rewards = []string{"first-steps"}
	snaps := &fakeSnapshots{seed: &store.SnapshotRecord{Data: reset}}

	rt := startRuntime(t, Options{Snapshots: snaps})

	waitFor(t, func() bool { return rt.State().Behavior.GritScore == 2 }, "carried behavior")
	s := rt.State()
	if s.Status != engine.StatusIdle {
		t.Fatalf("Status = %s, want idle", s.Status)
	}
	if len(s.Rewards) != 1 || s.Rewards[0] != "first-steps" {
		t.Fatalf("Rewards = %v", s.Rewards)
	}
	if s.Notice != "" {
		t.Fatalf("unexpected notice %q", s.Notice)
	}
}

func TestAdminOverridePatchesState(t *testing.T) {
	rt := startRuntime(t, Options{})

	rt.AdminOverride(func(s *engine.State) {
		s.Summary = "patched"
	})

	waitFor(t, func() bool { return rt.State().Summary == "patched" }, "override applied")
}

func TestFlashcardReviewRecorded(t *testing.T) {
	events := &fakeEvents{}
	rt := startRuntime(t, Options{Events: events})

	rt.AdminOverride(func(s *engine.State) {
		ls := learningState()
		ls.Deck = srs.Deck{{ID: "card1", NodeID: "a", Front: "f", Back: "b", EaseFactor: 2.5}}
		*s = ls
	})
	waitFor(t, func() bool { return len(rt.State().Deck) == 1 }, "deck seeded")

	rt.Dispatch(engine.FlashcardsOpened{})
	rt.Dispatch(engine.FlashcardReviewed{CardID: "card1", Grade: srs.GradeGood, Now: time.Now()})

	waitFor(t, func() bool {
		events.mu.Lock()
		defer events.mu.Unlock()
		return len(events.reviews) == 1
	}, "review event")

	events.mu.Lock()
	rev := events.reviews[0]
	events.mu.Unlock()
	if rev.CardID != "card1" || rev.NodeID != "a" || rev.Grade != int(srs.GradeGood) {
		t.Fatalf("review event = %+v", rev)
	}
	if rev.Repetition != 1 || rev.Interval != 1 {
		t.Fatalf("schedule after review = interval %d repetition %d", rev.Interval, rev.Repetition)
	}
}

func TestGenerationFailureLandsInErrorState(t *testing.T) {
	// Empty mock queue: every request fails with provider unavailable.
	provider := llm.NewMockProvider()
	rt := startRuntime(t, Options{Tutor: tutor.New(provider, tutor.DefaultConfig())})

	rt.Dispatch(engine.IntakeFinished{Resources: []engine.Resource{{Kind: "text", Name: "n", Content: "c"}}})
	rt.Dispatch(engine.PreferencesSubmitted{Prefs: engine.Preferences{}})

	waitFor(t, func() bool { return rt.State().Status == engine.StatusError }, "error state")
	if rt.State().ErrorMsg == "" {
		t.Fatal("expected ErrorMsg to be set")
	}
}
