package snapshot

import (
	"errors"
	"testing"

	"github.com/pathwise/pathwise/internal/engine"
	"github.com/pathwise/pathwise/internal/lessontree"
	"github.com/pathwise/pathwise/internal/mastery"
)

func baseSnapshot() Snapshot {
	return Snapshot{
		Version: Version,
		MindMap: lessontree.Tree{
			{ID: "root", Title: "Basics"},
			{ID: "a", Title: "Topic A", ParentID: "root", Locked: true},
		},
		SuggestedPath: lessontree.Path{"root", "a"},
	}
}

func TestRestoreRejectsEmptyTree(t *testing.T) {
	snap := baseSnapshot()
	snap.MindMap = nil

	_, err := Restore(snap)
	if !errors.Is(err, ErrEmptyLessonTree) {
		t.Fatalf("err = %v, want ErrEmptyLessonTree", err)
	}
}

func TestRestoreRejectsIncompatibleVersion(t *testing.T) {
	for _, v := range []string{"", "1.0.0", "v2.0.0", "garbage"} {
		snap := baseSnapshot()
		snap.Version = v
		if _, err := Restore(snap); !errors.Is(err, ErrVersionMismatch) {
			t.Errorf("version %q: err = %v, want ErrVersionMismatch", v, err)
		}
	}
	// Same major, different patch is fine.
	snap := baseSnapshot()
	snap.Version = "v1.3.7"
	if _, err := Restore(snap); err != nil {
		t.Errorf("v1.3.7 rejected: %v", err)
	}
}

func TestResumePrecedence(t *testing.T) {
	tests := []struct {
		name string
		mod  func(*Snapshot)
		want engine.Status
	}{
		{
			"final exam wins over everything",
			func(s *Snapshot) {
				s.FinalExam = &engine.Quiz{Kind: engine.KindFinalExam}
				s.QuizResults = []mastery.QuizResult{{Question: "q"}}
				s.ActiveQuiz = &engine.Quiz{Kind: engine.KindNode}
			},
			engine.StatusFinalExam,
		},
		{
			"quiz results beat active quiz",
			func(s *Snapshot) {
				s.QuizResults = []mastery.QuizResult{{Question: "q"}}
				s.ActiveQuiz = &engine.Quiz{Kind: engine.KindNode, NodeID: "a"}
			},
			engine.StatusQuizReview,
		},
		{
			"active quiz resumes mid-quiz",
			func(s *Snapshot) {
				s.ActiveQuiz = &engine.Quiz{Kind: engine.KindNode, NodeID: "a"}
			},
			engine.StatusTakingQuiz,
		},
		{
			"active node with cached content",
			func(s *Snapshot) {
				s.ActiveNodeID = "a"
				s.NodeContents = map[string]string{"a": "lesson text"}
			},
			engine.StatusViewingNode,
		},
		{
			"active node without content",
			func(s *Snapshot) { s.ActiveNodeID = "a" },
			engine.StatusLearning,
		},
		{
			"progress alone",
			func(s *Snapshot) {
				s.UserProgress = map[string]mastery.Progress{"root": {Status: mastery.StatusCompleted}}
			},
			engine.StatusLearning,
		},
		{
			"pre-assessment analysis alone",
			func(s *Snapshot) { s.PreAssessmentAnalysis = "weak on fractions" },
			engine.StatusLearning,
		},
		{
			"ungraded pre-assessment",
			func(s *Snapshot) {
				s.PreAssessment = &engine.Quiz{Kind: engine.KindPreAssessment}
			},
			engine.StatusPreAssessment,
		},
		{
			"bare plan",
			func(s *Snapshot) {},
			engine.StatusPlanReview,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			snap := baseSnapshot()
			tt.mod(&snap)
			s, err := Restore(snap)
			if err != nil {
				t.Fatalf("Restore: %v", err)
			}
			if s.Status != tt.want {
				t.Errorf("status = %s, want %s", s.Status, tt.want)
			}
		})
	}
}

func TestRestoreUnlocksLockedRoot(t *testing.T) {
	snap := baseSnapshot()
	snap.MindMap[0].Locked = true

	s, err := Restore(snap)
	if err != nil {
		t.Fatalf("Restore: %v", err)
	}
	root, err := s.Tree.ByID("root")
	if err != nil {
		t.Fatalf("ByID: %v", err)
	}
	if root.Locked {
		t.Error("restored root still locked")
	}
}

func TestRestoreClearsDanglingActiveNode(t *testing.T) {
	snap := baseSnapshot()
	snap.ActiveNodeID = "deleted-node"

	s, err := Restore(snap)
	if err != nil {
		t.Fatalf("Restore: %v", err)
	}
	if s.ActiveNodeID != "" {
		t.Errorf("active node = %q, want cleared", s.ActiveNodeID)
	}
	if s.Status != engine.StatusPlanReview {
		t.Errorf("status = %s, want plan_review once active node is dropped", s.Status)
	}
}

func TestCaptureRoundTrip(t *testing.T) {
	s := engine.New()
	s.Status = engine.StatusLearning
	s.Tree = baseSnapshot().MindMap
	s.Path = baseSnapshot().SuggestedPath
	s.NodeContents["root"] = "intro text"
	s.Progress["root"] = mastery.Progress{Status: mastery.StatusCompleted, Attempts: 1}
	s.Behavior.DailyStreak = 4
	s.Rewards = []string{"first_steps"}
	s.ChatHistory = []engine.ChatMessage{{Role: "user", Content: "hello"}}

	restored, err := Restore(Capture(s))
	if err != nil {
		t.Fatalf("Restore: %v", err)
	}

	if restored.Status != engine.StatusLearning {
		t.Errorf("status = %s, want learning", restored.Status)
	}
	if restored.NodeContents["root"] != "intro text" {
		t.Error("node contents lost")
	}
	if restored.Progress["root"].Attempts != 1 {
		t.Error("progress lost")
	}
	if restored.Behavior.DailyStreak != 4 {
		t.Error("behavior lost")
	}
	if len(restored.Rewards) != 1 || len(restored.ChatHistory) != 1 {
		t.Error("ledgers lost")
	}
	// Epoch and pending set never persist.
	if restored.Epoch != 0 || len(restored.Pending) != 0 {
		t.Error("transient fields leaked into restore")
	}
}
