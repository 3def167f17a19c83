package mastery

import (
	"testing"

	"github.com/pathwise/pathwise/internal/lessontree"
)

func lockedTree() lessontree.Tree {
	return lessontree.Tree{
		{ID: "n1", Title: "Node 1"},
		{ID: "c1", ParentID: "n1", Locked: true},
		{ID: "c2", ParentID: "n1", Locked: true},
		{ID: "g1", ParentID: "c1", Locked: true},
	}
}

func results(scores ...float64) []QuizResult {
	out := make([]QuizResult, len(scores))
	for i, s := range scores {
		out[i] = QuizResult{
			Question:      "q" + string(rune('a'+i)),
			UserAnswer:    "x",
			CorrectAnswer: "y",
			Correct:       s == 1,
			Score:         s,
			Points:        1,
		}
	}
	return out
}

func TestProficiency(t *testing.T) {
	tests := []struct {
		name    string
		results []QuizResult
		want    float64
	}{
		{"all correct", results(1, 1, 1), 1.0},
		{"mixed", results(1, 1, 0, 0), 0.5},
		{"none", results(0, 0), 0},
		{"zero max points", nil, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Proficiency(tt.results); got != tt.want {
				t.Errorf("Proficiency = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestEvaluatePassUnlocksDirectChildren(t *testing.T) {
	out := Evaluate(lockedTree(), nil, nil, "n1", results(1, 1, 1, 0))

	if !out.Passed {
		t.Fatalf("0.75 proficiency should pass, got Passed=false")
	}
	if out.Progress["n1"].Status != StatusCompleted {
		t.Errorf("status = %s, want completed", out.Progress["n1"].Status)
	}
	if out.Progress["n1"].Attempts != 1 {
		t.Errorf("attempts = %d, want 1", out.Progress["n1"].Attempts)
	}

	for _, id := range []string{"c1", "c2"} {
		n, _ := out.Tree.ByID(id)
		if n.Locked {
			t.Errorf("direct child %s locked after pass", id)
		}
	}
	g, _ := out.Tree.ByID("g1")
	if !g.Locked {
		t.Error("grandchild unlocked; unlock must not cascade")
	}
}

func TestEvaluateFailKeepsChildrenLockedAndRecordsWeaknesses(t *testing.T) {
	out := Evaluate(lockedTree(), nil, nil, "n1", results(1, 0, 0))

	if out.Passed {
		t.Fatal("1/3 should not pass")
	}
	if out.Progress["n1"].Status != StatusFailed {
		t.Errorf("status = %s, want failed", out.Progress["n1"].Status)
	}
	c1, _ := out.Tree.ByID("c1")
	if !c1.Locked {
		t.Error("child unlocked on failure")
	}
	if len(out.Weaknesses) != 2 {
		t.Fatalf("weaknesses = %d, want 2", len(out.Weaknesses))
	}
}

func TestEvaluateExactThresholdPasses(t *testing.T) {
	// 7 of 10 points is exactly the threshold.
	out := Evaluate(lockedTree(), nil, nil, "n1", results(1, 1, 1, 1, 1, 1, 1, 0, 0, 0))
	if !out.Passed {
		t.Error("proficiency == 0.70 must pass")
	}
}

func TestEvaluateIncrementsAttemptsAcrossSubmissions(t *testing.T) {
	first := Evaluate(lockedTree(), nil, nil, "n1", results(0, 0))
	second := Evaluate(first.Tree, first.Progress, first.Weaknesses, "n1", results(1, 1))

	if got := second.Progress["n1"].Attempts; got != 2 {
		t.Errorf("attempts = %d, want 2", got)
	}
	// First outcome must be untouched by the second evaluation.
	if first.Progress["n1"].Attempts != 1 {
		t.Error("prior progress map mutated")
	}
}

func TestWeaknessLedgerDeduplicatesByQuestion(t *testing.T) {
	ledger := AppendWeakness(nil, Weakness{Question: "q", IncorrectAnswer: "a"})
	ledger = AppendWeakness(ledger, Weakness{Question: "q", IncorrectAnswer: "b"})

	if len(ledger) != 1 {
		t.Fatalf("ledger len = %d, want 1", len(ledger))
	}
	if ledger[0].IncorrectAnswer != "a" {
		t.Error("duplicate overwrote original entry")
	}
}

func TestForceComplete(t *testing.T) {
	prog, tree := ForceComplete(lockedTree(), nil, "n1")

	if prog["n1"].Status != StatusCompleted {
		t.Errorf("status = %s, want completed", prog["n1"].Status)
	}
	c1, _ := tree.ByID("c1")
	if c1.Locked {
		t.Error("child still locked after force complete")
	}
}

func TestCompleteIntroRejectsNonRoot(t *testing.T) {
	tree := lockedTree()

	_, _, ok := CompleteIntro(tree, nil, "c1")
	if ok {
		t.Error("CompleteIntro accepted a non-root node")
	}

	prog, outTree, ok := CompleteIntro(tree, nil, "n1")
	if !ok {
		t.Fatal("CompleteIntro rejected a root node")
	}
	if prog["n1"].Status != StatusCompleted {
		t.Error("root not completed")
	}
	c2, _ := outTree.ByID("c2")
	if c2.Locked {
		t.Error("children not unlocked by intro completion")
	}
}
