package engine

import (
	"time"

	"github.com/pathwise/pathwise/internal/engage"
	"github.com/pathwise/pathwise/internal/lessontree"
	"github.com/pathwise/pathwise/internal/mastery"
	"github.com/pathwise/pathwise/internal/srs"
)

// QuizKind distinguishes the three quiz slots a session can hold.
type QuizKind string

const (
	KindPreAssessment QuizKind = "pre_assessment"
	KindNode          QuizKind = "node"
	KindFinalExam     QuizKind = "final_exam"
)

// Question is one quiz question as streamed by the AI collaborator.
type Question struct {
	ID      string   `json:"id"`
	Prompt  string   `json:"prompt"`
	Options []string `json:"options,omitempty"`
	Points  float64  `json:"points"`
}

// Quiz is an in-progress assessment. Questions arrive append-only via
// streamed events.
type Quiz struct {
	Kind      QuizKind   `json:"kind"`
	NodeID    string     `json:"node_id,omitempty"`
	Questions []Question `json:"questions"`
}

// Clone returns a deep copy of the quiz.
func (q *Quiz) Clone() *Quiz {
	if q == nil {
		return nil
	}
	out := *q
	out.Questions = make([]Question, len(q.Questions))
	for i, qq := range q.Questions {
		out.Questions[i] = qq
		out.Questions[i].Options = append([]string(nil), qq.Options...)
	}
	return &out
}

// Resource is a unit of ingested source material. Extraction and
// validation happen upstream; the engine only carries the result.
type Resource struct {
	Kind    string `json:"kind"` // file | link | text
	Name    string `json:"name"`
	Content string `json:"content"`
}

// Preferences are the wizard's learning-style answers.
type Preferences struct {
	Tone    string `json:"tone,omitempty"`
	Pace    string `json:"pace,omitempty"`
	Focus   string `json:"focus,omitempty"`
	Skipped bool   `json:"skipped,omitempty"`
}

// ChatMessage is one entry of the tutor chat transcript. The chat UI
// is external; the engine only keeps the history for persistence.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// State is the complete session value. The reducer never mutates a
// State in place: it clones, edits the clone, and returns it.
type State struct {
	Status Status

	// Epoch increments on every reset. AI events carry the epoch they
	// were requested under; the reducer drops mismatches, which is the
	// stale-result rejection for superseded in-flight work.
	Epoch int

	// Pending is the set of outstanding AI requests. A request kind
	// already in the set is never issued a second time.
	Pending map[RequestKind]bool

	Resources   []Resource
	Preferences Preferences

	Tree lessontree.Tree
	Path lessontree.Path

	// NodeContents caches finalized lesson content per node id.
	// streamBuf accumulates in-flight chunks and is never persisted.
	NodeContents map[string]string
	streamBuf    map[string]string

	ActiveNodeID string

	PreAssessment         *Quiz
	PreAssessmentAnalysis string
	ActiveQuiz            *Quiz
	FinalExam             *Quiz

	// gradingKind records which quiz slot an outstanding GRADING_QUIZ
	// belongs to. Transient.
	gradingKind QuizKind

	QuizResults []mastery.QuizResult
	Progress    map[string]mastery.Progress
	Weaknesses  []mastery.Weakness

	Deck     srs.Deck
	Behavior engage.Behavior
	Rewards  []string

	ChatHistory []ChatMessage
	Summary     string

	// ErrorMsg is set when Status is ERROR. Notice carries non-fatal
	// user-visible messages (e.g. a rejected snapshot). ShowBriefing is
	// raised by session activation. All three are transient.
	ErrorMsg     string
	Notice       string
	ShowBriefing bool
}

// New returns the initial IDLE state.
func New() State {
	return State{
		Status:       StatusIdle,
		Pending:      make(map[RequestKind]bool),
		NodeContents: make(map[string]string),
		streamBuf:    make(map[string]string),
		Progress:     make(map[string]mastery.Progress),
	}
}

// clone deep-copies every mutable field so edits to the copy never
// leak into the original.
func (s State) clone() State {
	out := s

	out.Pending = make(map[RequestKind]bool, len(s.Pending))
	for k, v := range s.Pending {
		out.Pending[k] = v
	}
	out.Resources = append([]Resource(nil), s.Resources...)
	out.Tree = s.Tree.Clone()
	out.Path = s.Path.Clone()

	out.NodeContents = make(map[string]string, len(s.NodeContents))
	for k, v := range s.NodeContents {
		out.NodeContents[k] = v
	}
	out.streamBuf = make(map[string]string, len(s.streamBuf))
	for k, v := range s.streamBuf {
		out.streamBuf[k] = v
	}

	out.PreAssessment = s.PreAssessment.Clone()
	out.ActiveQuiz = s.ActiveQuiz.Clone()
	out.FinalExam = s.FinalExam.Clone()

	out.QuizResults = append([]mastery.QuizResult(nil), s.QuizResults...)
	out.Progress = mastery.CloneProgress(s.Progress)
	if out.Progress == nil {
		out.Progress = make(map[string]mastery.Progress)
	}
	out.Weaknesses = append([]mastery.Weakness(nil), s.Weaknesses...)
	out.Deck = s.Deck.Clone()
	out.Rewards = append([]string(nil), s.Rewards...)
	out.ChatHistory = append([]ChatMessage(nil), s.ChatHistory...)

	return out
}

// GradingKind reports which quiz slot an outstanding GRADING_QUIZ
// belongs to. Empty when no grading is in flight.
func (s State) GradingKind() QuizKind {
	return s.gradingKind
}

// NodeView is the per-node projection consumed by the map UI.
type NodeView struct {
	Status mastery.Status
	Locked bool
}

// NodeStatuses returns the read-only {status, locked} projection for
// every node in the tree.
func (s State) NodeStatuses() map[string]NodeView {
	out := make(map[string]NodeView, len(s.Tree))
	for _, n := range s.Tree {
		out[n.ID] = NodeView{
			Status: s.Progress[n.ID].Status,
			Locked: n.Locked,
		}
	}
	return out
}

// DueFlashcards returns the cards due for review at the given time.
func (s State) DueFlashcards(now time.Time) []srs.Flashcard {
	return s.Deck.Due(now)
}
