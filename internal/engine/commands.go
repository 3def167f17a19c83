package engine

import (
	"github.com/pathwise/pathwise/internal/lessontree"
	"github.com/pathwise/pathwise/internal/mastery"
)

// RequestKind names an outbound AI request. One request of each kind
// may be outstanding at a time; the kind is the key of the pending set.
type RequestKind string

const (
	ReqPlan          RequestKind = "generate_plan"
	ReqPreAssessment RequestKind = "generate_pre_assessment"
	ReqPreGrade      RequestKind = "grade_pre_assessment"
	ReqAdaptPlan     RequestKind = "adapt_plan"
	ReqNodeContent   RequestKind = "generate_node_content"
	ReqQuiz          RequestKind = "generate_quiz"
	ReqQuizGrade     RequestKind = "grade_quiz"
	ReqRemedial      RequestKind = "generate_remedial"
	ReqSummary       RequestKind = "generate_summary"
)

// Command is a side effect the reducer wants executed. The reducer
// returns commands instead of performing I/O; the runtime hands them
// to the tutor, whose results come back as events.
type Command interface {
	Kind() RequestKind
	CommandEpoch() int
}

// GeneratePlan asks the collaborator for a lesson tree and suggested
// path over the ingested material.
type GeneratePlan struct {
	Epoch       int
	Resources   []Resource
	Preferences Preferences
}

// GeneratePreAssessment asks for streamed pre-assessment questions
// covering the plan.
type GeneratePreAssessment struct {
	Epoch int
	Tree  lessontree.Tree
}

// GradePreAssessment asks for analysis of the pre-assessment answers.
type GradePreAssessment struct {
	Epoch   int
	Quiz    Quiz
	Answers map[string]string
}

// AdaptPlan asks for a re-planned tree given the analysis.
type AdaptPlan struct {
	Epoch    int
	Analysis string
	Tree     lessontree.Tree
	Path     lessontree.Path
}

// GenerateNodeContent asks for the streamed lesson content of a node.
type GenerateNodeContent struct {
	Epoch int
	Node  lessontree.Node
}

// GenerateQuiz asks for streamed quiz questions for a node, or for the
// final exam when Final is set.
type GenerateQuiz struct {
	Epoch int
	Node  lessontree.Node
	Final bool
}

// GradeQuiz asks for per-question grading of submitted answers.
type GradeQuiz struct {
	Epoch   int
	Quiz    Quiz
	Answers map[string]string
	Final   bool
}

// GenerateRemedial asks for a remedial lesson targeting the recorded
// weaknesses of a failed node.
type GenerateRemedial struct {
	Epoch      int
	NodeID     string
	Weaknesses []mastery.Weakness
}

// GenerateSummary asks for the closing summary of the session.
type GenerateSummary struct {
	Epoch    int
	Results  []mastery.QuizResult
	Progress map[string]mastery.Progress
}

func (GeneratePlan) Kind() RequestKind          { return ReqPlan }
func (GeneratePreAssessment) Kind() RequestKind { return ReqPreAssessment }
func (GradePreAssessment) Kind() RequestKind    { return ReqPreGrade }
func (AdaptPlan) Kind() RequestKind             { return ReqAdaptPlan }
func (GenerateNodeContent) Kind() RequestKind   { return ReqNodeContent }
func (GenerateQuiz) Kind() RequestKind          { return ReqQuiz }
func (GradeQuiz) Kind() RequestKind             { return ReqQuizGrade }
func (GenerateRemedial) Kind() RequestKind      { return ReqRemedial }
func (GenerateSummary) Kind() RequestKind       { return ReqSummary }

func (c GeneratePlan) CommandEpoch() int          { return c.Epoch }
func (c GeneratePreAssessment) CommandEpoch() int { return c.Epoch }
func (c GradePreAssessment) CommandEpoch() int    { return c.Epoch }
func (c AdaptPlan) CommandEpoch() int             { return c.Epoch }
func (c GenerateNodeContent) CommandEpoch() int   { return c.Epoch }
func (c GenerateQuiz) CommandEpoch() int          { return c.Epoch }
func (c GradeQuiz) CommandEpoch() int             { return c.Epoch }
func (c GenerateRemedial) CommandEpoch() int      { return c.Epoch }
func (c GenerateSummary) CommandEpoch() int       { return c.Epoch }
