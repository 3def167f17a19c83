package engine

import (
	"time"

	"github.com/pathwise/pathwise/internal/lessontree"
	"github.com/pathwise/pathwise/internal/mastery"
	"github.com/pathwise/pathwise/internal/srs"
)

// Event is the closed union of messages the reducer consumes. Learner
// actions and AI completions are both plain events; the reducer is the
// only code that interprets them.
type Event interface{ isEvent() }

// AIEvent is implemented by events produced by the AI collaborator.
// They carry the epoch of the request that spawned them so stale
// results from a superseded session are dropped.
type AIEvent interface {
	Event
	EventEpoch() int
}

// --- learner / lifecycle events ---

// SessionActivated fires once when a session starts or resumes; it
// drives the engagement tracker, never the status.
type SessionActivated struct{ Now time.Time }

// IntakeFinished ends resource intake and opens the preference wizard.
type IntakeFinished struct{ Resources []Resource }

// PreferencesSubmitted leaves the wizard. Skipped preferences are
// delivered as a zero value with Skipped set.
type PreferencesSubmitted struct{ Prefs Preferences }

// PlanConfirmed accepts the generated plan and enters the
// pre-assessment.
type PlanConfirmed struct{}

// PreAssessmentSubmitted hands the learner's answers to grading.
type PreAssessmentSubmitted struct{ Answers map[string]string }

// LearningStarted leaves the pre-assessment review for the map.
type LearningStarted struct{}

// NodeSelected opens a lesson node. Locked or unknown nodes are
// ignored.
type NodeSelected struct{ NodeID string }

// QuizStarted begins a quiz on the active node.
type QuizStarted struct{}

// QuizSubmitted hands the active quiz's answers to grading.
type QuizSubmitted struct{ Answers map[string]string }

// ReviewContinued closes the quiz review and returns to the map.
type ReviewContinued struct{}

// RemedialRequested asks for a remedial lesson after a failed review.
type RemedialRequested struct{}

// RetryRequested immediately retries the failed quiz. Rewards grit.
type RetryRequested struct{}

// ForceUnlockRequested completes the node without passing. Costs grit.
type ForceUnlockRequested struct{ NodeID string }

// IntroCompleted marks a root node done without a quiz.
type IntroCompleted struct{ NodeID string }

// ExplanationShown counts an extra explanation view for a node.
type ExplanationShown struct{ NodeID string }

// FinalExamStarted begins the exam over the whole tree.
type FinalExamStarted struct{}

// FinalExamSubmitted hands the exam answers to grading.
type FinalExamSubmitted struct{ Answers map[string]string }

// FlashcardsOpened / FlashcardsClosed bracket a review excursion.
type FlashcardsOpened struct{}
type FlashcardsClosed struct{}

// FlashcardReviewed grades one card and reschedules it.
type FlashcardReviewed struct {
	CardID string
	Grade  srs.Grade
	Now    time.Time
}

// FlashcardsAdded merges externally generated cards into the deck,
// dropping duplicates by front text.
type FlashcardsAdded struct{ Cards []srs.Flashcard }

// FeynmanOpened / FeynmanClosed bracket a Feynman-challenge excursion.
type FeynmanOpened struct{}
type FeynmanClosed struct{}

// RewardUnlocked grants a reward id. Idempotent.
type RewardUnlocked struct{ RewardID string }

// ChatMessageAppended records one tutor-chat message.
type ChatMessageAppended struct{ Message ChatMessage }

// ResetRequested abandons the session, keeping only the behavior
// ledger and rewards. The only way out of ERROR.
type ResetRequested struct{}

func (IntakeFinished) isEvent()         {}
func (PreferencesSubmitted) isEvent()   {}
func (PlanConfirmed) isEvent()          {}
func (PreAssessmentSubmitted) isEvent() {}
func (LearningStarted) isEvent()        {}
func (NodeSelected) isEvent()           {}
func (QuizStarted) isEvent()            {}
func (QuizSubmitted) isEvent()          {}
func (ReviewContinued) isEvent()        {}
func (RemedialRequested) isEvent()      {}
func (RetryRequested) isEvent()         {}
func (ForceUnlockRequested) isEvent()   {}
func (IntroCompleted) isEvent()         {}
func (ExplanationShown) isEvent()       {}
func (FinalExamStarted) isEvent()       {}
func (FinalExamSubmitted) isEvent()     {}
func (FlashcardsOpened) isEvent()       {}
func (FlashcardsClosed) isEvent()       {}
func (FlashcardReviewed) isEvent()      {}
func (FlashcardsAdded) isEvent()        {}
func (FeynmanOpened) isEvent()          {}
func (FeynmanClosed) isEvent()          {}
func (RewardUnlocked) isEvent()         {}
func (ChatMessageAppended) isEvent()    {}
func (SessionActivated) isEvent()       {}
func (ResetRequested) isEvent()         {}

// --- AI collaborator events ---

// PlanGenerated installs the mind map and suggested path.
type PlanGenerated struct {
	Epoch int
	Nodes lessontree.Tree
	Path  lessontree.Path
}

// PreAssessmentQuestionStreamed appends one question to the
// pre-assessment. A stream with no quiz object is a no-op.
type PreAssessmentQuestionStreamed struct {
	Epoch    int
	Question Question
}

// PreAssessmentGraded delivers the analysis; plan adaptation follows
// as a separate completion.
type PreAssessmentGraded struct {
	Epoch    int
	Analysis string
}

// PlanAdapted replaces the plan after pre-assessment analysis.
type PlanAdapted struct {
	Epoch int
	Nodes lessontree.Tree
	Path  lessontree.Path
}

// NodeContentStreamed appends a content chunk for a node; Final caches
// the assembled text.
type NodeContentStreamed struct {
	Epoch  int
	NodeID string
	Chunk  string
	Final  bool
}

// QuizQuestionStreamed appends one question to the active quiz, or to
// the final exam while it is underway.
type QuizQuestionStreamed struct {
	Epoch    int
	Question Question
}

// QuizGraded delivers the per-question grading results.
type QuizGraded struct {
	Epoch   int
	Results []mastery.QuizResult
}

// RemedialGenerated delivers the remedial lesson node.
type RemedialGenerated struct {
	Epoch int
	Node  lessontree.Node
}

// SummaryReady delivers the closing session summary.
type SummaryReady struct {
	Epoch int
	Text  string
}

// GenerationFailed reports any failed AI request. Moves the session to
// ERROR.
type GenerationFailed struct {
	Epoch   int
	Message string
}

func (PlanGenerated) isEvent()                 {}
func (PreAssessmentQuestionStreamed) isEvent() {}
func (PreAssessmentGraded) isEvent()           {}
func (PlanAdapted) isEvent()                   {}
func (NodeContentStreamed) isEvent()           {}
func (QuizQuestionStreamed) isEvent()          {}
func (QuizGraded) isEvent()                    {}
func (RemedialGenerated) isEvent()             {}
func (SummaryReady) isEvent()                  {}
func (GenerationFailed) isEvent()              {}

func (e PlanGenerated) EventEpoch() int                 { return e.Epoch }
func (e PreAssessmentQuestionStreamed) EventEpoch() int { return e.Epoch }
func (e PreAssessmentGraded) EventEpoch() int           { return e.Epoch }
func (e PlanAdapted) EventEpoch() int                   { return e.Epoch }
func (e NodeContentStreamed) EventEpoch() int           { return e.Epoch }
func (e QuizQuestionStreamed) EventEpoch() int          { return e.Epoch }
func (e QuizGraded) EventEpoch() int                    { return e.Epoch }
func (e RemedialGenerated) EventEpoch() int             { return e.Epoch }
func (e SummaryReady) EventEpoch() int                  { return e.Epoch }
func (e GenerationFailed) EventEpoch() int              { return e.Epoch }
