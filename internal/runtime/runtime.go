// Package runtime owns the live session. A single goroutine holds the
// State and applies the reducer per event; tutor executions run
// concurrently and feed their results back into the same queue. The
// runtime also persists snapshots and append-only domain events.
package runtime

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/pathwise/pathwise/internal/engine"
	"github.com/pathwise/pathwise/internal/logger"
	"github.com/pathwise/pathwise/internal/mastery"
	"github.com/pathwise/pathwise/internal/snapshot"
	"github.com/pathwise/pathwise/internal/srs"
	"github.com/pathwise/pathwise/internal/store"
	"github.com/pathwise/pathwise/internal/tutor"
)

// Options configures a Runtime. Snapshots and Events may be nil, in
// which case nothing is persisted (useful in tests).
type Options struct {
	Tutor        *tutor.Tutor
	Snapshots    store.SnapshotRepo
	Events       store.EventRepo
	Log          *logger.Logger
	SnapshotKeep int
}

// Runtime drives a learning session. Create with New, call Start once,
// feed learner actions through Dispatch, and Stop when done.
type Runtime struct {
	tutor     *tutor.Tutor
	snapshots store.SnapshotRepo
	events    store.EventRepo
	log       *logger.Logger
	keep      int
	sessionID string

	mu    sync.RWMutex
	state engine.State

	queue     chan engine.Event
	overrides chan func(*engine.State)
	done      chan struct{}
	stopped   chan struct{}
	workers   sync.WaitGroup
}

// New builds a Runtime. Start must be called before Dispatch.
func New(opts Options) *Runtime {
	if opts.Log == nil {
		opts.Log = logger.Nop()
	}
	if opts.SnapshotKeep <= 0 {
		opts.SnapshotKeep = 10
	}
	return &Runtime{
		tutor:     opts.Tutor,
		snapshots: opts.Snapshots,
		events:    opts.Events,
		log:       opts.Log,
		keep:      opts.SnapshotKeep,
		sessionID: uuid.NewString(),
		state:     engine.New(),
		queue:     make(chan engine.Event, 64),
		overrides: make(chan func(*engine.State), 4),
		done:      make(chan struct{}),
		stopped:   make(chan struct{}),
	}
}

// Start restores the latest snapshot, launches the dispatch loop, and
// activates the session.
func (rt *Runtime) Start(ctx context.Context) error {
	rt.restore(ctx)
	go rt.loop(ctx)
	rt.Dispatch(engine.SessionActivated{Now: time.Now()})
	return nil
}

// restore loads the newest persisted snapshot into the state. A missing
// or rejected snapshot starts fresh with a notice; it never fails the
// session.
func (rt *Runtime) restore(ctx context.Context) {
	if rt.snapshots == nil {
		return
	}
	rec, err := rt.snapshots.Latest(ctx)
	if err != nil {
		rt.log.Warn("loading latest snapshot failed", "error", err)
		return
	}
	if rec == nil {
		return
	}
	st, err := snapshot.Restore(rec.Data)
	switch {
	case errors.Is(err, snapshot.ErrEmptyLessonTree):
		// A reset leaves behind a planless snapshot carrying only the
		// behavior ledger and rewards. Start fresh around them.
		st = engine.New()
		st.Behavior = rec.Data.Behavior
		st.Rewards = append([]string(nil), rec.Data.Rewards...)
	case err != nil:
		rt.log.Warn("snapshot rejected, starting fresh", "error", err)
		st = engine.New()
		st.Notice = "saved session could not be restored"
	}
	rt.mu.Lock()
	rt.state = st
	rt.mu.Unlock()
}

// Dispatch enqueues an event for the dispatch loop. Events arriving
// after Stop are dropped.
func (rt *Runtime) Dispatch(ev engine.Event) {
	select {
	case rt.queue <- ev:
	case <-rt.done:
	}
}

// AdminOverride applies an arbitrary state patch outside the reducer.
// It bypasses transition validation; debugging use only.
func (rt *Runtime) AdminOverride(patch func(*engine.State)) {
	select {
	case rt.overrides <- patch:
	case <-rt.done:
	}
}

// State returns the current session state. The value shares its maps
// and slices with the live state; treat it as read-only. The reducer
// never mutates a published state, so the shared structures are stable.
func (rt *Runtime) State() engine.State {
	rt.mu.RLock()
	defer rt.mu.RUnlock()
	return rt.state
}

// Stop shuts down the loop, waits for in-flight tutor work, and writes
// a final snapshot.
func (rt *Runtime) Stop(ctx context.Context) error {
	close(rt.done)
	<-rt.stopped
	rt.workers.Wait()
	rt.persist(ctx, rt.State())
	return nil
}

func (rt *Runtime) loop(ctx context.Context) {
	defer close(rt.stopped)
	for {
		select {
		case <-rt.done:
			return
		case <-ctx.Done():
			return
		case patch := <-rt.overrides:
			rt.mu.Lock()
			patch(&rt.state)
			next := rt.state
			rt.mu.Unlock()
			rt.log.Warn("admin override applied", "status", next.Status)
			rt.persist(ctx, next)
		case ev := <-rt.queue:
			rt.apply(ctx, ev)
		}
	}
}

func (rt *Runtime) apply(ctx context.Context, ev engine.Event) {
	prev := rt.State()
	next, cmds := engine.Reduce(prev, ev)

	rt.mu.Lock()
	rt.state = next
	rt.mu.Unlock()

	rt.log.Debug("event applied",
		"event", eventName(ev),
		"status", next.Status,
		"commands", len(cmds),
	)

	rt.record(ctx, prev, next, ev)

	// Streaming chunks arrive too fast to snapshot each one; the final
	// chunk covers them.
	if chunk, ok := ev.(engine.NodeContentStreamed); !ok || chunk.Final {
		rt.persist(ctx, next)
	}

	if rt.tutor == nil {
		return
	}
	for _, cmd := range cmds {
		rt.workers.Add(1)
		go func(cmd engine.Command) {
			defer rt.workers.Done()
			rt.tutor.Execute(ctx, cmd, rt.Dispatch)
		}(cmd)
	}
}

// record appends domain events for the activity ledgers. Failures are
// logged, never fatal.
func (rt *Runtime) record(ctx context.Context, prev, next engine.State, ev engine.Event) {
	if rt.events == nil {
		return
	}
	switch e := ev.(type) {
	case engine.SessionActivated:
		err := rt.events.AppendSession(ctx, store.SessionEventData{
			SessionID:      rt.sessionID,
			Action:         "activated",
			DailyStreak:    next.Behavior.DailyStreak,
			ShowedBriefing: next.ShowBriefing,
			Status:         string(next.Status),
		})
		if err != nil {
			rt.log.Warn("recording session activation failed", "error", err)
		}

	case engine.ResetRequested:
		err := rt.events.AppendSession(ctx, store.SessionEventData{
			SessionID:   rt.sessionID,
			Action:      "reset",
			DailyStreak: next.Behavior.DailyStreak,
			Status:      string(next.Status),
		})
		if err != nil {
			rt.log.Warn("recording session reset failed", "error", err)
		}

	case engine.QuizGraded:
		// Only record gradings the reducer accepted.
		if prev.Status != engine.StatusGradingQuiz || e.Epoch != prev.Epoch {
			return
		}
		var score, max float64
		for _, r := range e.Results {
			score += r.Score
			max += r.Points
		}
		prof := mastery.Proficiency(e.Results)
		results, _ := json.Marshal(e.Results)
		err := rt.events.AppendQuizGrade(ctx, store.QuizEventData{
			SessionID:   rt.sessionID,
			NodeID:      prev.ActiveNodeID,
			Kind:        string(prev.GradingKind()),
			Questions:   len(e.Results),
			Score:       score,
			MaxScore:    max,
			Proficiency: prof,
			Passed:      prof >= mastery.PassThreshold,
			Results:     string(results),
		})
		if err != nil {
			rt.log.Warn("recording quiz grade failed", "error", err)
		}

	case engine.FlashcardReviewed:
		card, ok := cardByID(next, e.CardID)
		if !ok {
			return
		}
		err := rt.events.AppendFlashcardReview(ctx, store.ReviewEventData{
			SessionID:  rt.sessionID,
			CardID:     card.ID,
			NodeID:     card.NodeID,
			Grade:      int(e.Grade),
			Interval:   card.Interval,
			Repetition: card.Repetition,
			EaseFactor: card.EaseFactor,
		})
		if err != nil {
			rt.log.Warn("recording flashcard review failed", "error", err)
		}
	}
}

func (rt *Runtime) persist(ctx context.Context, st engine.State) {
	if rt.snapshots == nil {
		return
	}
	rec := &store.SnapshotRecord{Data: snapshot.Capture(st)}
	if err := rt.snapshots.Save(ctx, rec); err != nil {
		rt.log.Warn("saving snapshot failed", "error", err)
		return
	}
	if err := rt.snapshots.Prune(ctx, rt.keep); err != nil {
		rt.log.Warn("pruning snapshots failed", "error", err)
	}
}

func cardByID(st engine.State, id string) (srs.Flashcard, bool) {
	for _, c := range st.Deck {
		if c.ID == id {
			return c, true
		}
	}
	return srs.Flashcard{}, false
}

func eventName(ev engine.Event) string {
	switch ev.(type) {
	case engine.SessionActivated:
		return "session_activated"
	case engine.IntakeFinished:
		return "intake_finished"
	case engine.PreferencesSubmitted:
		return "preferences_submitted"
	case engine.PlanGenerated:
		return "plan_generated"
	case engine.PlanConfirmed:
		return "plan_confirmed"
	case engine.PreAssessmentQuestionStreamed:
		return "pre_assessment_question"
	case engine.PreAssessmentSubmitted:
		return "pre_assessment_submitted"
	case engine.PreAssessmentGraded:
		return "pre_assessment_graded"
	case engine.PlanAdapted:
		return "plan_adapted"
	case engine.LearningStarted:
		return "learning_started"
	case engine.NodeSelected:
		return "node_selected"
	case engine.NodeContentStreamed:
		return "node_content_chunk"
	case engine.ExplanationShown:
		return "explanation_shown"
	case engine.QuizStarted:
		return "quiz_started"
	case engine.QuizQuestionStreamed:
		return "quiz_question"
	case engine.QuizSubmitted:
		return "quiz_submitted"
	case engine.QuizGraded:
		return "quiz_graded"
	case engine.ReviewContinued:
		return "review_continued"
	case engine.RetryRequested:
		return "retry_requested"
	case engine.RemedialRequested:
		return "remedial_requested"
	case engine.RemedialGenerated:
		return "remedial_generated"
	case engine.ForceUnlockRequested:
		return "force_unlock"
	case engine.IntroCompleted:
		return "intro_completed"
	case engine.FinalExamStarted:
		return "final_exam_started"
	case engine.FinalExamSubmitted:
		return "final_exam_submitted"
	case engine.SummaryReady:
		return "summary_ready"
	case engine.FlashcardsOpened:
		return "flashcards_opened"
	case engine.FlashcardsClosed:
		return "flashcards_closed"
	case engine.FlashcardReviewed:
		return "flashcard_reviewed"
	case engine.FlashcardsAdded:
		return "flashcards_added"
	case engine.FeynmanOpened:
		return "feynman_opened"
	case engine.FeynmanClosed:
		return "feynman_closed"
	case engine.RewardUnlocked:
		return "reward_unlocked"
	case engine.ChatMessageAppended:
		return "chat_message"
	case engine.GenerationFailed:
		return "generation_failed"
	case engine.ResetRequested:
		return "reset_requested"
	default:
		return "unknown"
	}
}
