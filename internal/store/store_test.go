package store

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/pathwise/pathwise/internal/snapshot"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open("file::memory:?cache=shared")
	if err != nil {
		t.Fatalf("open test store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestOpenClose(t *testing.T) {
	s := openTestStore(t)
	if s.Client() == nil {
		t.Fatal("expected non-nil ent client")
	}
}

func TestPragmasApplied(t *testing.T) {
	s := openTestStore(t)
	db := s.DB()

	tests := []struct {
		pragma string
		want   string
	}{
		// WAL mode falls back to "memory" for in-memory databases,
		// so we skip journal_mode here. It is tested with file-based DBs.
		{"foreign_keys", "1"},
		{"synchronous", "1"}, // NORMAL = 1
	}

	for _, tt := range tests {
		var got string
		err := db.QueryRow("PRAGMA " + tt.pragma).Scan(&got)
		if err != nil {
			t.Errorf("PRAGMA %s: %v", tt.pragma, err)
			continue
		}
		if got != tt.want {
			t.Errorf("PRAGMA %s = %q, want %q", tt.pragma, got, tt.want)
		}
	}
}

func TestSnapshotSaveAndLatest(t *testing.T) {
	s := openTestStore(t)
	repo := s.SnapshotRepo()
	ctx := context.Background()

	// No snapshot yet.
	rec, err := repo.Latest(ctx)
	if err != nil {
		t.Fatalf("latest (empty): %v", err)
	}
	if rec != nil {
		t.Fatal("expected nil snapshot when none exist")
	}

	// Save a snapshot.
	now := time.Now().UTC().Truncate(time.Second)
	err = repo.Save(ctx, &SnapshotRecord{
		Sequence:  42,
		Timestamp: now,
		Data:      snapshot.Snapshot{Version: snapshot.Version, Summary: "done well"},
	})
	if err != nil {
		t.Fatalf("save: %v", err)
	}

	// Retrieve it.
	rec, err = repo.Latest(ctx)
	if err != nil {
		t.Fatalf("latest: %v", err)
	}
	if rec == nil {
		t.Fatal("expected non-nil snapshot")
	}
	if rec.Sequence != 42 {
		t.Errorf("sequence = %d, want 42", rec.Sequence)
	}
	if rec.Data.Version != snapshot.Version {
		t.Errorf("data.version = %q, want %q", rec.Data.Version, snapshot.Version)
	}
	if rec.Data.Summary != "done well" {
		t.Errorf("data.summary = %q", rec.Data.Summary)
	}
}

func TestSnapshotSaveFillsDefaults(t *testing.T) {
	s := openTestStore(t)
	repo := s.SnapshotRepo()
	ctx := context.Background()

	rec := &SnapshotRecord{Data: snapshot.Snapshot{Version: snapshot.Version}}
	if err := repo.Save(ctx, rec); err != nil {
		t.Fatalf("save: %v", err)
	}

	if rec.Sequence == 0 {
		t.Error("expected Save to assign a sequence")
	}
	if rec.Timestamp.IsZero() {
		t.Error("expected Save to assign a timestamp")
	}

	// The assigned sequence comes from the shared global counter.
	next, err := s.seq.Next(ctx)
	if err != nil {
		t.Fatalf("next: %v", err)
	}
	if next != rec.Sequence+1 {
		t.Errorf("next sequence = %d, want %d", next, rec.Sequence+1)
	}
}

func TestSnapshotLatestReturnsNewest(t *testing.T) {
	s := openTestStore(t)
	repo := s.SnapshotRepo()
	ctx := context.Background()

	base := time.Now().UTC().Truncate(time.Second)
	for i := 0; i < 3; i++ {
		err := repo.Save(ctx, &SnapshotRecord{
			Sequence:  int64(i + 1),
			Timestamp: base.Add(time.Duration(i) * time.Minute),
			Data:      snapshot.Snapshot{Version: snapshot.Version, Summary: fmt.Sprintf("s%d", i+1)},
		})
		if err != nil {
			t.Fatalf("save %d: %v", i, err)
		}
	}

	rec, err := repo.Latest(ctx)
	if err != nil {
		t.Fatalf("latest: %v", err)
	}
	if rec.Sequence != 3 {
		t.Errorf("sequence = %d, want 3", rec.Sequence)
	}
	if rec.Data.Summary != "s3" {
		t.Errorf("data.summary = %q, want s3", rec.Data.Summary)
	}
}

func TestSnapshotPrune(t *testing.T) {
	s := openTestStore(t)
	repo := s.SnapshotRepo()
	ctx := context.Background()

	base := time.Now().UTC().Truncate(time.Second)
	for i := 0; i < 7; i++ {
		err := repo.Save(ctx, &SnapshotRecord{
			Sequence:  int64(i + 1),
			Timestamp: base.Add(time.Duration(i) * time.Minute),
			Data:      snapshot.Snapshot{Version: snapshot.Version},
		})
		if err != nil {
			t.Fatalf("save %d: %v", i, err)
		}
	}

	// Prune to keep 5.
	if err := repo.Prune(ctx, 5); err != nil {
		t.Fatalf("prune: %v", err)
	}

	// Count remaining snapshots.
	count, err := s.Client().Snapshot.Query().Count(ctx)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 5 {
		t.Errorf("remaining snapshots = %d, want 5", count)
	}

	// Latest should still be sequence 7.
	rec, err := repo.Latest(ctx)
	if err != nil {
		t.Fatalf("latest: %v", err)
	}
	if rec.Sequence != 7 {
		t.Errorf("latest sequence = %d, want 7", rec.Sequence)
	}
}

func TestSnapshotPruneWithFewerThanKeep(t *testing.T) {
	s := openTestStore(t)
	repo := s.SnapshotRepo()
	ctx := context.Background()

	// Save only 2 snapshots.
	base := time.Now().UTC().Truncate(time.Second)
	for i := 0; i < 2; i++ {
		err := repo.Save(ctx, &SnapshotRecord{
			Sequence:  int64(i + 1),
			Timestamp: base.Add(time.Duration(i) * time.Minute),
			Data:      snapshot.Snapshot{Version: snapshot.Version},
		})
		if err != nil {
			t.Fatalf("save %d: %v", i, err)
		}
	}

	// Prune with keep=5 should be a no-op.
	if err := repo.Prune(ctx, 5); err != nil {
		t.Fatalf("prune: %v", err)
	}

	count, err := s.Client().Snapshot.Query().Count(ctx)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 2 {
		t.Errorf("remaining snapshots = %d, want 2", count)
	}
}

func TestSequenceCounter(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	var seqs []int64
	for i := 0; i < 5; i++ {
		seq, err := s.seq.Next(ctx)
		if err != nil {
			t.Fatalf("next %d: %v", i, err)
		}
		seqs = append(seqs, seq)
	}

	// Should be monotonically increasing starting from 1.
	for i, seq := range seqs {
		expected := int64(i + 1)
		if seq != expected {
			t.Errorf("seq[%d] = %d, want %d", i, seq, expected)
		}
	}
}

func TestEventAppendsShareSequence(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	if err := repo.AppendSession(ctx, SessionEventData{
		SessionID: "sess-1", Action: "activated", DailyStreak: 3, ShowedBriefing: true, Status: "learning",
	}); err != nil {
		t.Fatalf("append session: %v", err)
	}
	if err := repo.AppendQuizGrade(ctx, QuizEventData{
		SessionID: "sess-1", NodeID: "n1", Kind: "node",
		Questions: 4, Score: 3, MaxScore: 4, Proficiency: 0.75, Passed: true,
	}); err != nil {
		t.Fatalf("append quiz: %v", err)
	}
	if err := repo.AppendFlashcardReview(ctx, ReviewEventData{
		SessionID: "sess-1", CardID: "c1", NodeID: "n1",
		Grade: 4, Interval: 1, Repetition: 1, EaseFactor: 2.6,
	}); err != nil {
		t.Fatalf("append review: %v", err)
	}

	se, err := s.Client().SessionEvent.Query().Only(ctx)
	if err != nil {
		t.Fatalf("query session event: %v", err)
	}
	qe, err := s.Client().QuizEvent.Query().Only(ctx)
	if err != nil {
		t.Fatalf("query quiz event: %v", err)
	}
	re, err := s.Client().ReviewEvent.Query().Only(ctx)
	if err != nil {
		t.Fatalf("query review event: %v", err)
	}

	// One global sequence across all tables.
	if se.Sequence != 1 || qe.Sequence != 2 || re.Sequence != 3 {
		t.Errorf("sequences = %d, %d, %d; want 1, 2, 3", se.Sequence, qe.Sequence, re.Sequence)
	}
}

func TestNodeAccuracy(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	acc, err := repo.NodeAccuracy(ctx, "n1")
	if err != nil {
		t.Fatalf("accuracy (empty): %v", err)
	}
	if acc != 0 {
		t.Errorf("accuracy = %v, want 0 with no attempts", acc)
	}

	attempts := []bool{true, false, true, true}
	for _, passed := range attempts {
		if err := repo.AppendQuizGrade(ctx, QuizEventData{
			SessionID: "sess-1", NodeID: "n1", Kind: "node", Passed: passed,
		}); err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	acc, err = repo.NodeAccuracy(ctx, "n1")
	if err != nil {
		t.Fatalf("accuracy: %v", err)
	}
	if acc != 0.75 {
		t.Errorf("accuracy = %v, want 0.75", acc)
	}
}

func TestLLMEventQueryAndUsage(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if err := repo.AppendLLMRequest(ctx, LLMRequestEventData{
			Provider: "anthropic", Model: "claude-haiku", Purpose: "quiz",
			InputTokens: 100, OutputTokens: 50, LatencyMs: 200, Success: true,
		}); err != nil {
			t.Fatalf("append llm %d: %v", i, err)
		}
	}
	if err := repo.AppendLLMRequest(ctx, LLMRequestEventData{
		Provider: "anthropic", Model: "claude-haiku", Purpose: "plan",
		InputTokens: 500, OutputTokens: 800, LatencyMs: 900, Success: false,
		ErrorMessage: "rate limited",
	}); err != nil {
		t.Fatalf("append llm plan: %v", err)
	}

	events, err := repo.QueryLLMEvents(ctx, QueryOpts{Limit: 2})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("events = %d, want 2", len(events))
	}
	// Newest first.
	if events[0].Purpose != "plan" {
		t.Errorf("first event purpose = %q, want plan", events[0].Purpose)
	}

	usage, err := repo.LLMUsageByPurpose(ctx)
	if err != nil {
		t.Fatalf("usage: %v", err)
	}
	byPurpose := map[string]LLMUsage{}
	for _, u := range usage {
		byPurpose[u.Purpose] = u
	}
	if u := byPurpose["quiz"]; u.Calls != 3 || u.InputTokens != 300 || u.OutputTokens != 150 {
		t.Errorf("quiz usage = %+v", u)
	}
	if u := byPurpose["plan"]; u.Calls != 1 || u.InputTokens != 500 {
		t.Errorf("plan usage = %+v", u)
	}
}

func TestAutoMigrationCreatesTable(t *testing.T) {
	s := openTestStore(t)
	db := s.DB()

	// Check that the snapshots table exists.
	var name string
	err := db.QueryRow(
		"SELECT name FROM sqlite_master WHERE type='table' AND name='snapshots'",
	).Scan(&name)
	if err != nil {
		t.Fatalf("query sqlite_master: %v", err)
	}
	if name != "snapshots" {
		t.Errorf("table name = %q, want 'snapshots'", name)
	}
}
