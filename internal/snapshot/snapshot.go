// Package snapshot converts between the live session state and its
// persisted form, and infers the resume status when a saved session is
// loaded back.
package snapshot

import (
	"errors"
	"fmt"

	"golang.org/x/mod/semver"

	"github.com/pathwise/pathwise/internal/engage"
	"github.com/pathwise/pathwise/internal/engine"
	"github.com/pathwise/pathwise/internal/lessontree"
	"github.com/pathwise/pathwise/internal/mastery"
	"github.com/pathwise/pathwise/internal/srs"
)

// Version is written into every captured snapshot. Restores accept any
// snapshot sharing the same major version.
const Version = "v1.0.0"

var (
	// ErrEmptyLessonTree rejects a snapshot with no lesson nodes.
	// There is nothing meaningful to resume into.
	ErrEmptyLessonTree = errors.New("snapshot: empty lesson tree")

	// ErrVersionMismatch rejects a snapshot written by an
	// incompatible release.
	ErrVersionMismatch = errors.New("snapshot: incompatible version")
)

// Snapshot is the serializable subset of a session. Transient fields
// (streaming buffers, pending-request set, error text, UI toggles)
// are deliberately absent.
type Snapshot struct {
	Version string `json:"version"`

	Resources   []engine.Resource  `json:"resources,omitempty"`
	Preferences engine.Preferences `json:"preferences"`

	MindMap       lessontree.Tree   `json:"mindMap"`
	SuggestedPath lessontree.Path   `json:"suggestedPath,omitempty"`
	NodeContents  map[string]string `json:"nodeContents,omitempty"`
	ActiveNodeID  string            `json:"activeNodeId,omitempty"`

	PreAssessment         *engine.Quiz `json:"preAssessment,omitempty"`
	PreAssessmentAnalysis string       `json:"preAssessmentAnalysis,omitempty"`
	ActiveQuiz            *engine.Quiz `json:"activeQuiz,omitempty"`
	FinalExam             *engine.Quiz `json:"finalExam,omitempty"`

	QuizResults  []mastery.QuizResult        `json:"quizResults,omitempty"`
	UserProgress map[string]mastery.Progress `json:"userProgress,omitempty"`
	Weaknesses   []mastery.Weakness          `json:"weaknesses,omitempty"`

	Flashcards  srs.Deck             `json:"flashcards,omitempty"`
	Behavior    engage.Behavior      `json:"behavior"`
	Rewards     []string             `json:"rewards,omitempty"`
	ChatHistory []engine.ChatMessage `json:"chatHistory,omitempty"`
	Summary     string               `json:"summary,omitempty"`
}

// Capture extracts the persistable subset of a session.
func Capture(s engine.State) Snapshot {
	return Snapshot{
		Version:               Version,
		Resources:             s.Resources,
		Preferences:           s.Preferences,
		MindMap:               s.Tree.Clone(),
		SuggestedPath:         s.Path.Clone(),
		NodeContents:          s.NodeContents,
		ActiveNodeID:          s.ActiveNodeID,
		PreAssessment:         s.PreAssessment.Clone(),
		PreAssessmentAnalysis: s.PreAssessmentAnalysis,
		ActiveQuiz:            s.ActiveQuiz.Clone(),
		FinalExam:             s.FinalExam.Clone(),
		QuizResults:           s.QuizResults,
		UserProgress:          mastery.CloneProgress(s.Progress),
		Weaknesses:            s.Weaknesses,
		Flashcards:            s.Deck.Clone(),
		Behavior:              s.Behavior,
		Rewards:               s.Rewards,
		ChatHistory:           s.ChatHistory,
		Summary:               s.Summary,
	}
}

// Restore rebuilds a session from a snapshot and infers the status to
// resume into. A snapshot with no lesson nodes or from an incompatible
// major version is rejected whole; a dangling active-node reference is
// cleared and the restore proceeds.
func Restore(snap Snapshot) (engine.State, error) {
	if !semver.IsValid(snap.Version) || semver.Major(snap.Version) != semver.Major(Version) {
		return engine.State{}, fmt.Errorf("%w: have %q, want %s.x", ErrVersionMismatch, snap.Version, semver.Major(Version))
	}
	if len(snap.MindMap) == 0 {
		return engine.State{}, ErrEmptyLessonTree
	}

	s := engine.New()
	s.Resources = snap.Resources
	s.Preferences = snap.Preferences
	s.Tree = snap.MindMap.Normalize()
	s.Path = snap.SuggestedPath.Clone()
	for id, content := range snap.NodeContents {
		s.NodeContents[id] = content
	}
	s.PreAssessment = snap.PreAssessment.Clone()
	s.PreAssessmentAnalysis = snap.PreAssessmentAnalysis
	s.ActiveQuiz = snap.ActiveQuiz.Clone()
	s.FinalExam = snap.FinalExam.Clone()
	s.QuizResults = append([]mastery.QuizResult(nil), snap.QuizResults...)
	for id, p := range snap.UserProgress {
		s.Progress[id] = p
	}
	s.Weaknesses = append([]mastery.Weakness(nil), snap.Weaknesses...)
	s.Deck = snap.Flashcards.Clone()
	s.Behavior = snap.Behavior
	s.Rewards = append([]string(nil), snap.Rewards...)
	s.ChatHistory = append([]engine.ChatMessage(nil), snap.ChatHistory...)
	s.Summary = snap.Summary

	s.ActiveNodeID = snap.ActiveNodeID
	if s.ActiveNodeID != "" && !s.Tree.Contains(s.ActiveNodeID) {
		s.ActiveNodeID = ""
	}

	s.Status = resumeStatus(s)
	return s, nil
}

// resumeStatus applies the fixed first-match-wins precedence. A
// snapshot can satisfy several clauses at once; only the first
// counts. The order is kept for compatibility with existing saves,
// not because it is provably the latest point in time.
func resumeStatus(s engine.State) engine.Status {
	switch {
	case s.FinalExam != nil:
		return engine.StatusFinalExam
	case len(s.QuizResults) > 0:
		return engine.StatusQuizReview
	case s.ActiveQuiz != nil:
		return engine.StatusTakingQuiz
	case s.ActiveNodeID != "":
		if _, ok := s.NodeContents[s.ActiveNodeID]; ok {
			return engine.StatusViewingNode
		}
		return engine.StatusLearning
	case len(s.Progress) > 0:
		return engine.StatusLearning
	case s.PreAssessmentAnalysis != "":
		return engine.StatusLearning
	case s.PreAssessment != nil:
		return engine.StatusPreAssessment
	default:
		return engine.StatusPlanReview
	}
}
