package engine

import (
	"testing"
	"time"

	"github.com/pathwise/pathwise/internal/lessontree"
	"github.com/pathwise/pathwise/internal/mastery"
	"github.com/pathwise/pathwise/internal/srs"
)

func sampleTree() lessontree.Tree {
	return lessontree.Tree{
		{ID: "root", Title: "Foundations"},
		{ID: "a", Title: "Topic A", ParentID: "root", Locked: true},
		{ID: "b", Title: "Topic B", ParentID: "root", Locked: true},
	}
}

func samplePath() lessontree.Path {
	return lessontree.Path{"root", "a", "b"}
}

// learningState builds a session sitting in LEARNING with an unlocked
// tree, the shape every mid-session test starts from.
func learningState() State {
	s := New()
	s.Status = StatusLearning
	s.Tree = lessontree.Tree{
		{ID: "root", Title: "Foundations"},
		{ID: "a", Title: "Topic A", ParentID: "root"},
		{ID: "b", Title: "Topic B", ParentID: "root", Locked: true},
	}
	s.Path = samplePath()
	return s
}

func gradedResults(scores ...float64) []mastery.QuizResult {
	out := make([]mastery.QuizResult, len(scores))
	for i, sc := range scores {
		out[i] = mastery.QuizResult{
			Question:      "q" + string(rune('a'+i)),
			UserAnswer:    "x",
			CorrectAnswer: "y",
			Correct:       sc == 1,
			Score:         sc,
			Points:        1,
		}
	}
	return out
}

func reduceAll(s State, evs ...Event) (State, []Command) {
	var all []Command
	for _, ev := range evs {
		var cmds []Command
		s, cmds = Reduce(s, ev)
		all = append(all, cmds...)
	}
	return s, all
}

func TestOnboardingFlow(t *testing.T) {
	s := New()

	s, cmds := Reduce(s, IntakeFinished{Resources: []Resource{{Name: "notes.pdf"}}})
	if s.Status != StatusWizard {
		t.Fatalf("status = %s, want wizard", s.Status)
	}
	if len(cmds) != 0 {
		t.Fatalf("intake emitted %d commands, want 0", len(cmds))
	}

	s, cmds = Reduce(s, PreferencesSubmitted{Prefs: Preferences{Pace: "thorough"}})
	if s.Status != StatusLoading {
		t.Fatalf("status = %s, want loading", s.Status)
	}
	if len(cmds) != 1 || cmds[0].Kind() != ReqPlan {
		t.Fatalf("cmds = %v, want one generate_plan", cmds)
	}

	s, cmds = Reduce(s, PlanGenerated{Epoch: s.Epoch, Nodes: sampleTree(), Path: samplePath()})
	if s.Status != StatusPlanReview {
		t.Fatalf("status = %s, want plan_review", s.Status)
	}
	if len(cmds) != 1 || cmds[0].Kind() != ReqPreAssessment {
		t.Fatalf("cmds = %v, want one generate_pre_assessment", cmds)
	}
	root, _ := s.Tree.ByID("root")
	if root.Locked {
		t.Error("root node locked after plan install")
	}

	s, _ = Reduce(s, PreAssessmentQuestionStreamed{Epoch: s.Epoch, Question: Question{ID: "q1", Prompt: "?"}})
	if len(s.PreAssessment.Questions) != 1 {
		t.Fatalf("pre-assessment questions = %d, want 1", len(s.PreAssessment.Questions))
	}

	s, _ = Reduce(s, PlanConfirmed{})
	s, cmds = Reduce(s, PreAssessmentSubmitted{Answers: map[string]string{"q1": "a"}})
	if s.Status != StatusGradingPreAssessment {
		t.Fatalf("status = %s, want grading_pre_assessment", s.Status)
	}
	if len(cmds) != 1 || cmds[0].Kind() != ReqPreGrade {
		t.Fatalf("cmds = %v, want one grade_pre_assessment", cmds)
	}

	s, cmds = Reduce(s, PreAssessmentGraded{Epoch: s.Epoch, Analysis: "strong on algebra"})
	if s.Status != StatusAdaptingPlan {
		t.Fatalf("status = %s, want adapting_plan", s.Status)
	}
	if len(cmds) != 1 || cmds[0].Kind() != ReqAdaptPlan {
		t.Fatalf("cmds = %v, want one adapt_plan", cmds)
	}
	if s.PreAssessmentAnalysis == "" {
		t.Error("analysis not stored")
	}

	s, _ = Reduce(s, PlanAdapted{Epoch: s.Epoch, Nodes: sampleTree(), Path: samplePath()})
	if s.Status != StatusPreAssessmentReview {
		t.Fatalf("status = %s, want pre_assessment_review", s.Status)
	}

	s, _ = Reduce(s, LearningStarted{})
	if s.Status != StatusLearning {
		t.Fatalf("status = %s, want learning", s.Status)
	}
}

func TestStaleEpochResultsDropped(t *testing.T) {
	s := New()
	s.Status = StatusLoading
	s.Epoch = 3

	out, cmds := Reduce(s, PlanGenerated{Epoch: 2, Nodes: sampleTree(), Path: samplePath()})
	if out.Status != StatusLoading {
		t.Errorf("stale plan changed status to %s", out.Status)
	}
	if len(out.Tree) != 0 || len(cmds) != 0 {
		t.Error("stale plan installed state or emitted commands")
	}
}

func TestPendingGuardSuppressesDuplicateRequests(t *testing.T) {
	s := New()
	s.Status = StatusWizard

	s, first := Reduce(s, PreferencesSubmitted{Prefs: Preferences{}})
	if len(first) != 1 {
		t.Fatalf("first submit emitted %d commands, want 1", len(first))
	}
	// Force the same edge again while the request is still in flight.
	s.Status = StatusWizard
	_, second := Reduce(s, PreferencesSubmitted{Prefs: Preferences{}})
	if len(second) != 0 {
		t.Errorf("duplicate submit emitted %v, want none", second)
	}
}

func TestNodeSelection(t *testing.T) {
	s := learningState()

	t.Run("locked node refused", func(t *testing.T) {
		out, cmds := Reduce(s, NodeSelected{NodeID: "b"})
		if out.Status != StatusLearning || len(cmds) != 0 {
			t.Error("locked node entered viewing state")
		}
	})

	t.Run("unknown node refused", func(t *testing.T) {
		out, _ := Reduce(s, NodeSelected{NodeID: "ghost"})
		if out.Status != StatusLearning {
			t.Error("unknown node entered viewing state")
		}
	})

	t.Run("unlocked node requests content", func(t *testing.T) {
		out, cmds := Reduce(s, NodeSelected{NodeID: "a"})
		if out.Status != StatusViewingNode || out.ActiveNodeID != "a" {
			t.Fatalf("status=%s active=%s", out.Status, out.ActiveNodeID)
		}
		if len(cmds) != 1 || cmds[0].Kind() != ReqNodeContent {
			t.Fatalf("cmds = %v, want one generate_node_content", cmds)
		}
	})

	t.Run("cached node skips generation", func(t *testing.T) {
		cached := s.clone()
		cached.NodeContents["a"] = "existing lesson"
		out, cmds := Reduce(cached, NodeSelected{NodeID: "a"})
		if out.Status != StatusViewingNode {
			t.Fatal("cached node did not enter viewing state")
		}
		if len(cmds) != 0 {
			t.Errorf("cached node re-requested content: %v", cmds)
		}
	})
}

func TestNodeContentStreaming(t *testing.T) {
	s := learningState()
	s, _ = Reduce(s, NodeSelected{NodeID: "a"})

	s, _ = Reduce(s, NodeContentStreamed{Epoch: s.Epoch, NodeID: "a", Chunk: "Part one. "})
	if _, done := s.NodeContents["a"]; done {
		t.Fatal("partial stream committed to contents")
	}

	s, _ = Reduce(s, NodeContentStreamed{Epoch: s.Epoch, NodeID: "a", Chunk: "Part two.", Final: true})
	if got := s.NodeContents["a"]; got != "Part one. Part two." {
		t.Fatalf("content = %q", got)
	}
	if s.Pending[ReqNodeContent] {
		t.Error("content request still pending after final chunk")
	}
}

func TestQuizPassUnlocksChildren(t *testing.T) {
	s := learningState()
	s, _ = Reduce(s, NodeSelected{NodeID: "a"})
	s, cmds := Reduce(s, QuizStarted{})
	if s.Status != StatusTakingQuiz || cmds[0].Kind() != ReqQuiz {
		t.Fatalf("status=%s cmds=%v", s.Status, cmds)
	}
	s, _ = Reduce(s, QuizQuestionStreamed{Epoch: s.Epoch, Question: Question{ID: "q1", Points: 1}})
	s, cmds = Reduce(s, QuizSubmitted{Answers: map[string]string{"q1": "x"}})
	if s.Status != StatusGradingQuiz || cmds[0].Kind() != ReqQuizGrade {
		t.Fatalf("status=%s cmds=%v", s.Status, cmds)
	}

	s, cmds = Reduce(s, QuizGraded{Epoch: s.Epoch, Results: gradedResults(1, 1, 1, 0)})
	if s.Status != StatusQuizReview {
		t.Fatalf("status = %s, want quiz_review", s.Status)
	}
	if len(cmds) != 0 {
		t.Errorf("node grading emitted commands: %v", cmds)
	}
	if s.Progress["a"].Status != mastery.StatusCompleted {
		t.Errorf("node status = %s, want completed", s.Progress["a"].Status)
	}
	if s.Behavior.TotalPoints != 3 {
		t.Errorf("points = %v, want 3", s.Behavior.TotalPoints)
	}

	s, _ = Reduce(s, ReviewContinued{})
	if s.Status != StatusLearning || s.ActiveQuiz != nil || s.QuizResults != nil {
		t.Error("review exit did not clear the quiz slot")
	}
}

func TestQuizFailThenRemediation(t *testing.T) {
	s := learningState()
	s, _ = reduceAll(s,
		NodeSelected{NodeID: "a"},
		QuizStarted{},
	)
	s, _ = Reduce(s, QuizQuestionStreamed{Epoch: s.Epoch, Question: Question{ID: "q1", Points: 1}})
	s, _ = Reduce(s, QuizSubmitted{Answers: map[string]string{"q1": "x"}})
	s, _ = Reduce(s, QuizGraded{Epoch: s.Epoch, Results: gradedResults(1, 0, 0)})

	if s.Progress["a"].Status != mastery.StatusFailed {
		t.Fatalf("node status = %s, want failed", s.Progress["a"].Status)
	}
	if len(s.Weaknesses) != 2 {
		t.Fatalf("weaknesses = %d, want 2", len(s.Weaknesses))
	}

	s, cmds := Reduce(s, RemedialRequested{})
	if s.Status != StatusGeneratingRemedial {
		t.Fatalf("status = %s, want generating_remedial", s.Status)
	}
	rem, ok := cmds[0].(GenerateRemedial)
	if !ok || rem.NodeID != "a" || len(rem.Weaknesses) != 2 {
		t.Fatalf("remedial command = %#v", cmds[0])
	}

	s, _ = Reduce(s, RemedialGenerated{Epoch: s.Epoch, Node: lessontree.Node{ID: "rem1", Title: "Review: Topic A"}})
	if s.Status != StatusLearning {
		t.Fatalf("status = %s, want learning", s.Status)
	}
	n, err := s.Tree.ByID("rem1")
	if err != nil {
		t.Fatal("remedial node missing from tree")
	}
	if n.Type != lessontree.TypeRemedial || n.Locked {
		t.Errorf("remedial node = %+v, want unlocked remedial", n)
	}
	if got := s.Path.IndexOf("rem1"); got != s.Path.IndexOf("a")+1 {
		t.Errorf("remedial at path index %d, want directly after trigger", got)
	}
	if s.ActiveNodeID != "rem1" {
		t.Errorf("active node = %s, want rem1", s.ActiveNodeID)
	}
}

func TestRemedialRefusedWithoutFailure(t *testing.T) {
	s := learningState()
	s.Status = StatusQuizReview
	s.ActiveNodeID = "a"
	s.Progress["a"] = mastery.Progress{Status: mastery.StatusCompleted}

	out, cmds := Reduce(s, RemedialRequested{})
	if out.Status != StatusQuizReview || len(cmds) != 0 {
		t.Error("remediation granted without a failed attempt")
	}
}

func TestRetryRewardsGrit(t *testing.T) {
	s := learningState()
	s.Status = StatusQuizReview
	s.ActiveNodeID = "a"
	s.Progress["a"] = mastery.Progress{Status: mastery.StatusFailed, Attempts: 1}

	out, cmds := Reduce(s, RetryRequested{})
	if out.Status != StatusTakingQuiz {
		t.Fatalf("status = %s, want taking_quiz", out.Status)
	}
	if out.Behavior.GritScore != 1 {
		t.Errorf("grit = %d, want 1", out.Behavior.GritScore)
	}
	if len(cmds) != 1 || cmds[0].Kind() != ReqQuiz {
		t.Errorf("cmds = %v, want fresh generate_quiz", cmds)
	}
	if len(out.ActiveQuiz.Questions) != 0 {
		t.Error("retry reused old questions")
	}
}

func TestForceUnlockPenalizesGrit(t *testing.T) {
	s := learningState()
	out, _ := Reduce(s, ForceUnlockRequested{NodeID: "a"})

	if out.Progress["a"].Status != mastery.StatusCompleted {
		t.Errorf("status = %s, want completed", out.Progress["a"].Status)
	}
	b, _ := out.Tree.ByID("b")
	if !b.Locked {
		t.Error("sibling unlocked by force-completing a leaf")
	}
	if out.Behavior.GritScore != -1 {
		t.Errorf("grit = %d, want -1", out.Behavior.GritScore)
	}
}

func TestFinalExamFlow(t *testing.T) {
	s := learningState()

	s, cmds := Reduce(s, FinalExamStarted{})
	if s.Status != StatusFinalExam {
		t.Fatalf("status = %s, want final_exam", s.Status)
	}
	gq, ok := cmds[0].(GenerateQuiz)
	if !ok || !gq.Final {
		t.Fatalf("cmds = %v, want final generate_quiz", cmds)
	}

	s, _ = Reduce(s, QuizQuestionStreamed{Epoch: s.Epoch, Question: Question{ID: "f1", Points: 2}})
	if len(s.FinalExam.Questions) != 1 {
		t.Fatal("streamed question not appended to final exam")
	}

	s, cmds = Reduce(s, FinalExamSubmitted{Answers: map[string]string{"f1": "x"}})
	if s.Status != StatusGradingQuiz {
		t.Fatalf("status = %s, want grading_quiz", s.Status)
	}
	grade, ok := cmds[0].(GradeQuiz)
	if !ok || !grade.Final {
		t.Fatalf("cmds = %v, want final grade_quiz", cmds)
	}

	points := s.Behavior.TotalPoints
	s, cmds = Reduce(s, QuizGraded{Epoch: s.Epoch, Results: gradedResults(1, 1)})
	if s.Status != StatusGradingQuiz {
		t.Fatalf("status = %s, want grading_quiz while summary runs", s.Status)
	}
	if len(cmds) != 1 || cmds[0].Kind() != ReqSummary {
		t.Fatalf("cmds = %v, want one generate_summary", cmds)
	}
	if s.Progress["a"].Attempts != 0 {
		t.Error("final exam grading touched per-node mastery")
	}
	if s.Behavior.TotalPoints != points+2 {
		t.Errorf("points = %v, want %v: exam score missing from ledger", s.Behavior.TotalPoints, points+2)
	}

	s, _ = Reduce(s, SummaryReady{Epoch: s.Epoch, Text: "Well done."})
	if s.Status != StatusSummary || s.Summary != "Well done." {
		t.Fatalf("status=%s summary=%q", s.Status, s.Summary)
	}
}

func TestFlashcardExcursion(t *testing.T) {
	now := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	s := learningState()
	s.Deck = s.Deck.Add(srs.Flashcard{
		ID: "c1", NodeID: "a", Front: "f", Back: "b",
		EaseFactor: 2.5, NextReviewDate: now.Add(-time.Hour),
	})

	s, _ = Reduce(s, FlashcardsOpened{})
	if s.Status != StatusReviewingFlashcards {
		t.Fatalf("status = %s, want reviewing_flashcards", s.Status)
	}

	s, _ = Reduce(s, FlashcardReviewed{CardID: "c1", Grade: srs.GradeEasy, Now: now})
	if got := s.Deck[0].Interval; got != 1 {
		t.Errorf("interval = %d, want 1 after first pass", got)
	}

	s, _ = Reduce(s, FlashcardsClosed{})
	if s.Status != StatusLearning {
		t.Fatalf("status = %s, want learning", s.Status)
	}
}

func TestFlashcardsAddedDeduplicates(t *testing.T) {
	s := learningState()
	card := srs.Flashcard{ID: "c1", Front: "same front", EaseFactor: 2.5}

	s, _ = Reduce(s, FlashcardsAdded{Cards: []srs.Flashcard{card}})
	s, _ = Reduce(s, FlashcardsAdded{Cards: []srs.Flashcard{{ID: "c2", Front: "same front"}}})

	if len(s.Deck) != 1 {
		t.Errorf("deck len = %d, want 1", len(s.Deck))
	}
}

func TestRewardUnlockIdempotent(t *testing.T) {
	s := New()
	s, _ = Reduce(s, RewardUnlocked{RewardID: "first_steps"})
	s, _ = Reduce(s, RewardUnlocked{RewardID: "first_steps"})

	if len(s.Rewards) != 1 {
		t.Errorf("rewards = %v, want single entry", s.Rewards)
	}
}

func TestResetPreservesBehaviorAndRewards(t *testing.T) {
	s := learningState()
	s.Epoch = 2
	s.Behavior.DailyStreak = 7
	s.Behavior.TotalPoints = 42
	s.Rewards = []string{"first_steps"}
	s.Pending[ReqQuiz] = true
	s.ChatHistory = []ChatMessage{{Role: "user", Content: "hi"}}

	out, _ := Reduce(s, ResetRequested{})

	if out.Status != StatusIdle {
		t.Fatalf("status = %s, want idle", out.Status)
	}
	if out.Epoch != 3 {
		t.Errorf("epoch = %d, want 3", out.Epoch)
	}
	if out.Behavior.DailyStreak != 7 || out.Behavior.TotalPoints != 42 {
		t.Error("behavior ledger lost on reset")
	}
	if len(out.Rewards) != 1 {
		t.Error("rewards lost on reset")
	}
	if len(out.Tree) != 0 || len(out.ChatHistory) != 0 || len(out.Pending) != 0 {
		t.Error("session data survived reset")
	}
}

func TestGenerationFailureEntersErrorState(t *testing.T) {
	s := learningState()
	s.Pending[ReqNodeContent] = true

	out, _ := Reduce(s, GenerationFailed{Epoch: s.Epoch, Message: "provider unavailable"})
	if out.Status != StatusError || out.ErrorMsg != "provider unavailable" {
		t.Fatalf("status=%s msg=%q", out.Status, out.ErrorMsg)
	}
	if len(out.Pending) != 0 {
		t.Error("pending requests survived failure")
	}
}

func TestReduceDoesNotMutateInput(t *testing.T) {
	s := learningState()
	s.Progress["a"] = mastery.Progress{Status: mastery.StatusInProgress}

	before := len(s.Tree)
	_, _ = Reduce(s, ForceUnlockRequested{NodeID: "a"})
	_, _ = Reduce(s, ChatMessageAppended{Message: ChatMessage{Role: "user", Content: "x"}})

	if s.Progress["a"].Status != mastery.StatusInProgress {
		t.Error("input progress mutated")
	}
	if len(s.Tree) != before {
		t.Error("input tree mutated")
	}
	if len(s.ChatHistory) != 0 {
		t.Error("input chat history mutated")
	}
}

func TestEventsIgnoredInWrongStatus(t *testing.T) {
	s := New()

	tests := []struct {
		name string
		ev   Event
	}{
		{"quiz submit while idle", QuizSubmitted{}},
		{"plan confirm while idle", PlanConfirmed{}},
		{"final exam while idle", FinalExamStarted{}},
		{"node select while idle", NodeSelected{NodeID: "a"}},
		{"retry while idle", RetryRequested{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, cmds := Reduce(s, tt.ev)
			if out.Status != StatusIdle || len(cmds) != 0 {
				t.Errorf("%T acted outside its status", tt.ev)
			}
		})
	}
}
