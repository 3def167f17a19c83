package engine

// Status is the single authoritative phase of a learning session.
// Every mutation of it flows through the reducer.
type Status string

const (
	StatusIdle                 Status = "idle"
	StatusWizard               Status = "wizard"
	StatusLoading              Status = "loading"
	StatusPlanReview           Status = "plan_review"
	StatusPreAssessment        Status = "pre_assessment"
	StatusGradingPreAssessment Status = "grading_pre_assessment"
	StatusAdaptingPlan         Status = "adapting_plan"
	StatusPreAssessmentReview  Status = "pre_assessment_review"
	StatusLearning             Status = "learning"
	StatusViewingNode          Status = "viewing_node"
	StatusTakingQuiz           Status = "taking_quiz"
	StatusGradingQuiz          Status = "grading_quiz"
	StatusQuizReview           Status = "quiz_review"
	StatusGeneratingRemedial   Status = "generating_remedial"
	StatusFinalExam            Status = "final_exam"
	StatusSummary              Status = "summary"
	StatusReviewingFlashcards  Status = "reviewing_flashcards"
	StatusFeynmanChallenge     Status = "feynman_challenge"
	StatusError                Status = "error"
)

// transitions is the closed legality table for status changes. The
// reducer refuses any move not listed here; ERROR is reachable from
// everywhere and leaves only through an explicit reset.
var transitions = map[Status][]Status{
	StatusIdle:                 {StatusWizard},
	StatusWizard:               {StatusLoading},
	StatusLoading:              {StatusPlanReview},
	StatusPlanReview:           {StatusPreAssessment},
	StatusPreAssessment:        {StatusGradingPreAssessment},
	StatusGradingPreAssessment: {StatusAdaptingPlan},
	StatusAdaptingPlan:         {StatusPreAssessmentReview},
	StatusPreAssessmentReview:  {StatusLearning},
	StatusLearning:             {StatusViewingNode, StatusFinalExam, StatusReviewingFlashcards, StatusFeynmanChallenge},
	StatusViewingNode:          {StatusTakingQuiz, StatusLearning},
	StatusTakingQuiz:           {StatusGradingQuiz},
	StatusGradingQuiz:          {StatusQuizReview, StatusSummary},
	StatusQuizReview:           {StatusLearning, StatusGeneratingRemedial, StatusTakingQuiz},
	StatusGeneratingRemedial:   {StatusLearning},
	StatusFinalExam:            {StatusGradingQuiz},
	StatusSummary:              {},
	StatusReviewingFlashcards:  {StatusLearning},
	StatusFeynmanChallenge:     {StatusLearning},
	StatusError:                {StatusIdle},
}

// CanTransition reports whether moving from one status to another is
// legal. ERROR is always reachable; IDLE is reachable from anywhere
// via reset.
func CanTransition(from, to Status) bool {
	if to == StatusError {
		return true
	}
	if to == StatusIdle {
		return from == StatusError || from != StatusIdle
	}
	for _, s := range transitions[from] {
		if s == to {
			return true
		}
	}
	return false
}
