package mastery

// Status represents a node's position in the mastery lifecycle.
// Progress records are created lazily on first quiz submission and are
// never deleted within a session.
type Status string

const (
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
	StatusFailed     Status = "failed"
)

// Progress tracks a learner's standing on a single lesson node.
type Progress struct {
	Status           Status  `json:"status"`
	Attempts         int     `json:"attempts"`
	Proficiency      float64 `json:"proficiency"` // 0..1
	ExplanationCount int     `json:"explanation_count"`
	LastAttemptScore float64 `json:"last_attempt_score"`
}

// QuizResult is the graded outcome for one question, as delivered by
// the grading collaborator.
type QuizResult struct {
	Question      string  `json:"question"`
	UserAnswer    string  `json:"user_answer"`
	CorrectAnswer string  `json:"correct_answer"`
	Correct       bool    `json:"is_correct"`
	Score         float64 `json:"score"`
	Points        float64 `json:"points"` // max score for this question
	Analysis      string  `json:"analysis"`
}

// Weakness is one entry in the append-only weakness ledger.
type Weakness struct {
	Question        string `json:"question"`
	IncorrectAnswer string `json:"incorrect_answer"`
	CorrectAnswer   string `json:"correct_answer"`
}

// CloneProgress returns a copy of a progress map that shares no storage
// with the original.
func CloneProgress(m map[string]Progress) map[string]Progress {
	if m == nil {
		return nil
	}
	out := make(map[string]Progress, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
