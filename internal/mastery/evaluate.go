package mastery

import "github.com/pathwise/pathwise/internal/lessontree"

// DefaultPassThreshold is the proficiency required to complete a node.
const DefaultPassThreshold = 0.70

// PassThreshold is the active threshold. Overridable at startup for
// debugging; never changed mid-session.
var PassThreshold = DefaultPassThreshold

// Outcome is the result of applying one graded quiz to the session.
// All fields are fresh values; the inputs are never mutated.
type Outcome struct {
	NodeID      string
	Proficiency float64
	Passed      bool
	Progress    map[string]Progress
	Tree        lessontree.Tree
	Weaknesses  []Weakness
}

// Proficiency computes the earned fraction of quiz points.
// Returns 0 when the quiz carries no points.
func Proficiency(results []QuizResult) float64 {
	var earned, max float64
	for _, r := range results {
		earned += r.Score
		max += r.Points
	}
	if max == 0 {
		return 0
	}
	return earned / max
}

// Evaluate grades a completed quiz for nodeID and produces the next
// progress map, tree, and weakness ledger:
//
//   - proficiency = earned/max points, pass at PassThreshold
//   - attempts increment from the prior record (lazily created)
//   - on pass, direct children of nodeID unlock (single level)
//   - every wrong answer lands in the ledger unless the question text
//     is already present
func Evaluate(
	tree lessontree.Tree,
	progress map[string]Progress,
	weaknesses []Weakness,
	nodeID string,
	results []QuizResult,
) Outcome {
	prof := Proficiency(results)
	passed := prof >= PassThreshold

	next := CloneProgress(progress)
	if next == nil {
		next = make(map[string]Progress)
	}
	p := next[nodeID] // zero value when this is the first submission
	p.Attempts++
	p.Proficiency = prof
	p.LastAttemptScore = prof
	if passed {
		p.Status = StatusCompleted
	} else {
		p.Status = StatusFailed
	}
	next[nodeID] = p

	outTree := tree
	if passed {
		outTree = tree.UnlockChildren(nodeID)
	}

	ledger := weaknesses
	for _, r := range results {
		if !r.Correct {
			ledger = AppendWeakness(ledger, Weakness{
				Question:        r.Question,
				IncorrectAnswer: r.UserAnswer,
				CorrectAnswer:   r.CorrectAnswer,
			})
		}
	}

	return Outcome{
		NodeID:      nodeID,
		Proficiency: prof,
		Passed:      passed,
		Progress:    next,
		Tree:        outTree,
		Weaknesses:  ledger,
	}
}

// AppendWeakness adds w to the ledger unless an entry with identical
// question text already exists. The ledger is append-only.
func AppendWeakness(ledger []Weakness, w Weakness) []Weakness {
	for _, existing := range ledger {
		if existing.Question == w.Question {
			return ledger
		}
	}
	out := make([]Weakness, len(ledger), len(ledger)+1)
	copy(out, ledger)
	return append(out, w)
}

// ForceComplete marks nodeID completed without meeting the threshold
// and unlocks its direct children. The caller is responsible for the
// grit penalty; this only touches progress and the tree.
func ForceComplete(tree lessontree.Tree, progress map[string]Progress, nodeID string) (map[string]Progress, lessontree.Tree) {
	next := CloneProgress(progress)
	if next == nil {
		next = make(map[string]Progress)
	}
	p := next[nodeID]
	p.Status = StatusCompleted
	next[nodeID] = p
	return next, tree.UnlockChildren(nodeID)
}

// CompleteIntro completes a root node directly, without a quiz, and
// unlocks its children. Non-root nodes are rejected by returning the
// inputs unchanged.
func CompleteIntro(tree lessontree.Tree, progress map[string]Progress, nodeID string) (map[string]Progress, lessontree.Tree, bool) {
	n, err := tree.ByID(nodeID)
	if err != nil || !n.IsRoot() {
		return progress, tree, false
	}
	next, outTree := ForceComplete(tree, progress, nodeID)
	return next, outTree, true
}
