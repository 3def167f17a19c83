package store

import (
	"context"
	"time"

	"github.com/pathwise/pathwise/internal/snapshot"
)

// QueryOpts configures event queries with filtering and pagination.
type QueryOpts struct {
	Limit  int       // max results (0 = unlimited)
	After  int64     // sequence > After
	Before int64     // sequence < Before
	From   time.Time // timestamp >= From
	To     time.Time // timestamp <= To
}

// SnapshotRecord wraps a session snapshot with its storage metadata.
type SnapshotRecord struct {
	ID        int
	Sequence  int64
	Timestamp time.Time
	Data      snapshot.Snapshot
}

// SnapshotRepo manages persisted session snapshots.
type SnapshotRepo interface {
	// Save stores a new snapshot.
	Save(ctx context.Context, rec *SnapshotRecord) error

	// Latest returns the most recent snapshot, or nil if none exist.
	Latest(ctx context.Context) (*SnapshotRecord, error)

	// Prune deletes all but the N most recent snapshots.
	Prune(ctx context.Context, keep int) error
}

// SessionEventData records a session activation.
type SessionEventData struct {
	SessionID      string
	Action         string // activated | reset
	DailyStreak    int
	ShowedBriefing bool
	Status         string
}

// QuizEventData records a graded quiz attempt.
type QuizEventData struct {
	SessionID   string
	NodeID      string
	Kind        string // pre_assessment | node | final_exam
	Questions   int
	Score       float64
	MaxScore    float64
	Proficiency float64
	Passed      bool
	Results     string // per-question results as JSON
}

// ReviewEventData records one flashcard review.
type ReviewEventData struct {
	SessionID  string
	CardID     string
	NodeID     string
	Grade      int
	Interval   int
	Repetition int
	EaseFactor float64
}

// LLMRequestEventData captures the data for a single LLM request event.
type LLMRequestEventData struct {
	Provider     string
	Model        string
	Purpose      string
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
	RequestBody  string
	ResponseBody string
}

// LLMEvent is a stored LLM request event returned by queries.
type LLMEvent struct {
	ID           int
	Sequence     int64
	Timestamp    time.Time
	Provider     string
	Model        string
	Purpose      string
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
	RequestBody  string
	ResponseBody string
}

// LLMUsage aggregates token consumption over a grouping key.
type LLMUsage struct {
	Purpose      string
	Model        string
	Calls        int
	InputTokens  int
	OutputTokens int
	AvgLatencyMs int64
}

// EventRepo provides append and query access to domain events.
type EventRepo interface {
	// AppendSession records a session activation or reset.
	AppendSession(ctx context.Context, data SessionEventData) error

	// AppendQuizGrade records a graded quiz attempt.
	AppendQuizGrade(ctx context.Context, data QuizEventData) error

	// AppendFlashcardReview records one SM-2 review.
	AppendFlashcardReview(ctx context.Context, data ReviewEventData) error

	// AppendLLMRequest records an LLM API call event.
	AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error

	// QueryLLMEvents returns LLM events, newest first.
	QueryLLMEvents(ctx context.Context, opts QueryOpts) ([]LLMEvent, error)

	// GetLLMEvent returns a single LLM event by ID.
	GetLLMEvent(ctx context.Context, id int) (*LLMEvent, error)

	// LLMUsageByPurpose aggregates token usage grouped by purpose label.
	LLMUsageByPurpose(ctx context.Context) ([]LLMUsage, error)

	// LLMUsageByModel aggregates token usage grouped by model ID.
	LLMUsageByModel(ctx context.Context) ([]LLMUsage, error)

	// NodeAccuracy returns the pass rate for graded attempts on a node.
	NodeAccuracy(ctx context.Context, nodeID string) (float64, error)
}
