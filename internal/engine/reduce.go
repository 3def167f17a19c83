package engine

import (
	"github.com/pathwise/pathwise/internal/engage"
	"github.com/pathwise/pathwise/internal/mastery"
	"github.com/pathwise/pathwise/internal/remediate"
)

// Reduce applies one event to the session and returns the next state
// plus the side-effect commands to execute. It is pure: the input
// state is never mutated, and the same (state, event) pair always
// yields the same result.
//
// Events that do not apply in the current status, reference missing
// sub-objects, or carry a stale epoch are no-ops returning the input
// state unchanged.
func Reduce(s State, ev Event) (State, []Command) {
	if ae, ok := ev.(AIEvent); ok && ae.EventEpoch() != s.Epoch {
		return s, nil
	}

	switch ev := ev.(type) {

	// --- lifecycle ---

	case SessionActivated:
		next := s.clone()
		act := engage.Activate(next.Behavior, ev.Now, len(next.Tree) > 0)
		next.Behavior = act.Behavior
		next.ShowBriefing = act.ShowBriefing
		return next, nil

	case ResetRequested:
		next := New()
		next.Epoch = s.Epoch + 1
		next.Behavior = s.Behavior
		next.Rewards = append([]string(nil), s.Rewards...)
		return next, nil

	case GenerationFailed:
		next := s.clone()
		next.Status = StatusError
		next.ErrorMsg = ev.Message
		next.Pending = make(map[RequestKind]bool)
		return next, nil

	// --- intake and planning ---

	case IntakeFinished:
		if s.Status != StatusIdle {
			return s, nil
		}
		next := s.clone()
		next.Status = StatusWizard
		next.Resources = append([]Resource(nil), ev.Resources...)
		return next, nil

	case PreferencesSubmitted:
		if s.Status != StatusWizard {
			return s, nil
		}
		next := s.clone()
		next.Status = StatusLoading
		next.Preferences = ev.Prefs
		cmds := issue(&next, GeneratePlan{
			Epoch:       next.Epoch,
			Resources:   next.Resources,
			Preferences: next.Preferences,
		})
		return next, cmds

	case PlanGenerated:
		if s.Status != StatusLoading {
			return s, nil
		}
		next := s.clone()
		next.settle(ReqPlan)
		next.Status = StatusPlanReview
		next.Tree = ev.Nodes.Normalize()
		next.Path = ev.Path.Clone()
		next.PreAssessment = &Quiz{Kind: KindPreAssessment}
		cmds := issue(&next, GeneratePreAssessment{Epoch: next.Epoch, Tree: next.Tree})
		return next, cmds

	case PreAssessmentQuestionStreamed:
		if s.PreAssessment == nil {
			return s, nil
		}
		next := s.clone()
		next.settle(ReqPreAssessment)
		next.PreAssessment.Questions = append(next.PreAssessment.Questions, ev.Question)
		return next, nil

	case PlanConfirmed:
		if s.Status != StatusPlanReview {
			return s, nil
		}
		next := s.clone()
		next.Status = StatusPreAssessment
		return next, nil

	case PreAssessmentSubmitted:
		if s.Status != StatusPreAssessment || s.PreAssessment == nil {
			return s, nil
		}
		next := s.clone()
		next.Status = StatusGradingPreAssessment
		cmds := issue(&next, GradePreAssessment{
			Epoch:   next.Epoch,
			Quiz:    *next.PreAssessment.Clone(),
			Answers: ev.Answers,
		})
		return next, cmds

	case PreAssessmentGraded:
		if s.Status != StatusGradingPreAssessment {
			return s, nil
		}
		next := s.clone()
		next.settle(ReqPreGrade)
		next.Status = StatusAdaptingPlan
		next.PreAssessmentAnalysis = ev.Analysis
		cmds := issue(&next, AdaptPlan{
			Epoch:    next.Epoch,
			Analysis: ev.Analysis,
			Tree:     next.Tree,
			Path:     next.Path,
		})
		return next, cmds

	case PlanAdapted:
		if s.Status != StatusAdaptingPlan {
			return s, nil
		}
		next := s.clone()
		next.settle(ReqAdaptPlan)
		next.Status = StatusPreAssessmentReview
		next.Tree = ev.Nodes.Normalize()
		next.Path = ev.Path.Clone()
		return next, nil

	case LearningStarted:
		if s.Status != StatusPreAssessmentReview {
			return s, nil
		}
		next := s.clone()
		next.Status = StatusLearning
		return next, nil

	// --- lesson traversal ---

	case NodeSelected:
		if s.Status != StatusLearning {
			return s, nil
		}
		node, err := s.Tree.ByID(ev.NodeID)
		if err != nil || node.Locked {
			return s, nil
		}
		next := s.clone()
		next.Status = StatusViewingNode
		next.ActiveNodeID = node.ID
		if _, cached := next.NodeContents[node.ID]; cached {
			return next, nil
		}
		cmds := issue(&next, GenerateNodeContent{Epoch: next.Epoch, Node: node})
		return next, cmds

	case NodeContentStreamed:
		if !s.Tree.Contains(ev.NodeID) {
			return s, nil
		}
		next := s.clone()
		next.streamBuf[ev.NodeID] += ev.Chunk
		if ev.Final {
			next.NodeContents[ev.NodeID] = next.streamBuf[ev.NodeID]
			delete(next.streamBuf, ev.NodeID)
			next.settle(ReqNodeContent)
		}
		return next, nil

	case ExplanationShown:
		if !s.Tree.Contains(ev.NodeID) {
			return s, nil
		}
		next := s.clone()
		p := next.Progress[ev.NodeID]
		p.ExplanationCount++
		next.Progress[ev.NodeID] = p
		return next, nil

	// --- quizzes ---

	case QuizStarted:
		if s.Status != StatusViewingNode || s.ActiveNodeID == "" {
			return s, nil
		}
		node, err := s.Tree.ByID(s.ActiveNodeID)
		if err != nil {
			return s, nil
		}
		next := s.clone()
		next.Status = StatusTakingQuiz
		next.ActiveQuiz = &Quiz{Kind: KindNode, NodeID: node.ID}
		next.QuizResults = nil
		cmds := issue(&next, GenerateQuiz{Epoch: next.Epoch, Node: node})
		return next, cmds

	case QuizQuestionStreamed:
		next := s.clone()
		switch {
		case s.Status == StatusFinalExam && next.FinalExam != nil:
			next.FinalExam.Questions = append(next.FinalExam.Questions, ev.Question)
		case next.ActiveQuiz != nil:
			next.ActiveQuiz.Questions = append(next.ActiveQuiz.Questions, ev.Question)
		default:
			return s, nil
		}
		next.settle(ReqQuiz)
		return next, nil

	case QuizSubmitted:
		if s.Status != StatusTakingQuiz || s.ActiveQuiz == nil || len(s.ActiveQuiz.Questions) == 0 {
			return s, nil
		}
		next := s.clone()
		next.Status = StatusGradingQuiz
		next.gradingKind = KindNode
		cmds := issue(&next, GradeQuiz{
			Epoch:   next.Epoch,
			Quiz:    *next.ActiveQuiz.Clone(),
			Answers: ev.Answers,
		})
		return next, cmds

	case QuizGraded:
		if s.Status != StatusGradingQuiz {
			return s, nil
		}
		next := s.clone()
		next.settle(ReqQuizGrade)
		next.QuizResults = append([]mastery.QuizResult(nil), ev.Results...)
		var earned float64
		for _, r := range ev.Results {
			earned += r.Score
		}
		next.Behavior = engage.AddPoints(next.Behavior, earned)

		if next.gradingKind == KindFinalExam {
			cmds := issue(&next, GenerateSummary{
				Epoch:    next.Epoch,
				Results:  next.QuizResults,
				Progress: next.Progress,
			})
			return next, cmds
		}

		out := mastery.Evaluate(next.Tree, next.Progress, next.Weaknesses, next.ActiveNodeID, ev.Results)
		next.Tree = out.Tree
		next.Progress = out.Progress
		next.Weaknesses = out.Weaknesses
		next.Status = StatusQuizReview
		return next, nil

	case ReviewContinued:
		if s.Status != StatusQuizReview {
			return s, nil
		}
		next := s.clone()
		next.clearQuiz()
		next.Status = StatusLearning
		return next, nil

	case RetryRequested:
		if s.Status != StatusQuizReview || s.ActiveNodeID == "" {
			return s, nil
		}
		node, err := s.Tree.ByID(s.ActiveNodeID)
		if err != nil {
			return s, nil
		}
		next := s.clone()
		next.Behavior = engage.RewardGrit(next.Behavior)
		next.Status = StatusTakingQuiz
		next.ActiveQuiz = &Quiz{Kind: KindNode, NodeID: node.ID}
		next.QuizResults = nil
		cmds := issue(&next, GenerateQuiz{Epoch: next.Epoch, Node: node})
		return next, cmds

	// --- remediation ---

	case RemedialRequested:
		if s.Status != StatusQuizReview || s.ActiveNodeID == "" {
			return s, nil
		}
		if s.Progress[s.ActiveNodeID].Status != mastery.StatusFailed {
			return s, nil
		}
		next := s.clone()
		next.Status = StatusGeneratingRemedial
		cmds := issue(&next, GenerateRemedial{
			Epoch:      next.Epoch,
			NodeID:     next.ActiveNodeID,
			Weaknesses: next.Weaknesses,
		})
		return next, cmds

	case RemedialGenerated:
		if s.Status != StatusGeneratingRemedial {
			return s, nil
		}
		next := s.clone()
		next.settle(ReqRemedial)
		ins := remediate.Insert(next.Tree, next.Path, next.ActiveNodeID, ev.Node)
		next.Tree = ins.Tree
		next.Path = ins.Path
		next.ActiveNodeID = ev.Node.ID
		next.clearQuiz()
		next.Status = StatusLearning
		return next, nil

	// --- overrides ---

	case ForceUnlockRequested:
		if !learningPhase(s.Status) || !s.Tree.Contains(ev.NodeID) {
			return s, nil
		}
		next := s.clone()
		next.Progress, next.Tree = mastery.ForceComplete(next.Tree, next.Progress, ev.NodeID)
		next.Behavior = engage.PenalizeGrit(next.Behavior)
		if next.Status == StatusQuizReview {
			next.clearQuiz()
			next.Status = StatusLearning
		}
		return next, nil

	case IntroCompleted:
		if !learningPhase(s.Status) {
			return s, nil
		}
		prog, tree, ok := mastery.CompleteIntro(s.Tree, s.Progress, ev.NodeID)
		if !ok {
			return s, nil
		}
		next := s.clone()
		next.Progress = prog
		next.Tree = tree
		return next, nil

	// --- final exam and summary ---

	case FinalExamStarted:
		if s.Status != StatusLearning {
			return s, nil
		}
		next := s.clone()
		next.Status = StatusFinalExam
		next.FinalExam = &Quiz{Kind: KindFinalExam}
		cmds := issue(&next, GenerateQuiz{Epoch: next.Epoch, Final: true})
		return next, cmds

	case FinalExamSubmitted:
		if s.Status != StatusFinalExam || s.FinalExam == nil || len(s.FinalExam.Questions) == 0 {
			return s, nil
		}
		next := s.clone()
		next.Status = StatusGradingQuiz
		next.gradingKind = KindFinalExam
		cmds := issue(&next, GradeQuiz{
			Epoch:   next.Epoch,
			Quiz:    *next.FinalExam.Clone(),
			Answers: ev.Answers,
			Final:   true,
		})
		return next, cmds

	case SummaryReady:
		if s.Status != StatusGradingQuiz || s.gradingKind != KindFinalExam {
			return s, nil
		}
		next := s.clone()
		next.settle(ReqSummary)
		next.Summary = ev.Text
		next.Status = StatusSummary
		return next, nil

	// --- excursions ---

	case FlashcardsOpened:
		return excursion(s, StatusLearning, StatusReviewingFlashcards)
	case FlashcardsClosed:
		return excursion(s, StatusReviewingFlashcards, StatusLearning)
	case FeynmanOpened:
		return excursion(s, StatusLearning, StatusFeynmanChallenge)
	case FeynmanClosed:
		return excursion(s, StatusFeynmanChallenge, StatusLearning)

	case FlashcardReviewed:
		if s.Status != StatusReviewingFlashcards {
			return s, nil
		}
		next := s.clone()
		next.Deck = next.Deck.Apply(ev.CardID, ev.Grade, ev.Now)
		return next, nil

	case FlashcardsAdded:
		next := s.clone()
		next.Deck = next.Deck.Add(ev.Cards...)
		return next, nil

	// --- ledgers ---

	case RewardUnlocked:
		next := s.clone()
		next.Rewards = engage.UnlockReward(next.Rewards, ev.RewardID)
		return next, nil

	case ChatMessageAppended:
		next := s.clone()
		next.ChatHistory = append(next.ChatHistory, ev.Message)
		return next, nil
	}

	return s, nil
}

// issue adds a command to the pending set and returns it for
// execution. A kind already in flight is suppressed, which is the
// duplicate-request guard.
func issue(s *State, cmd Command) []Command {
	kind := cmd.Kind()
	if s.Pending[kind] {
		return nil
	}
	s.Pending[kind] = true
	return []Command{cmd}
}

// settle clears a pending request kind once its completion arrives.
func (s *State) settle(kind RequestKind) {
	delete(s.Pending, kind)
}

// clearQuiz drops the active quiz and its results.
func (s *State) clearQuiz() {
	s.ActiveQuiz = nil
	s.QuizResults = nil
	s.gradingKind = ""
}

// learningPhase reports whether manual overrides apply in the given
// status.
func learningPhase(st Status) bool {
	switch st {
	case StatusLearning, StatusViewingNode, StatusQuizReview:
		return true
	}
	return false
}

// excursion moves between LEARNING and a side activity, validating the
// requested edge against the transition table.
func excursion(s State, from, to Status) (State, []Command) {
	if s.Status != from || !CanTransition(from, to) {
		return s, nil
	}
	next := s.clone()
	next.Status = to
	return next, nil
}
