package tutor

// Config holds generation settings per request kind.
type Config struct {
	PlanMaxTokens    int
	QuizMaxTokens    int
	ContentMaxTokens int
	GradeMaxTokens   int
	SummaryMaxTokens int
	Temperature      float64

	// Question counts per assessment kind.
	PreAssessmentQuestions int
	QuizQuestions          int
	FinalExamQuestions     int
}

// DefaultConfig returns sensible defaults for tutoring generation.
func DefaultConfig() Config {
	return Config{
		PlanMaxTokens:    2048,
		QuizMaxTokens:    2048,
		ContentMaxTokens: 4096,
		GradeMaxTokens:   2048,
		SummaryMaxTokens: 1024,
		Temperature:      0.4,

		PreAssessmentQuestions: 5,
		QuizQuestions:          5,
		FinalExamQuestions:     10,
	}
}
