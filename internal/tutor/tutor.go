// Package tutor executes the engine's outbound AI commands against an
// LLM provider and translates the results back into engine events.
package tutor

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/pathwise/pathwise/internal/engine"
	"github.com/pathwise/pathwise/internal/lessontree"
	"github.com/pathwise/pathwise/internal/llm"
	"github.com/pathwise/pathwise/internal/mastery"
)

// Tutor turns engine commands into LLM requests. It is stateless; the
// engine owns all session state and the runtime owns dispatch.
type Tutor struct {
	provider llm.Provider
	cfg      Config
}

// New creates a Tutor backed by the given provider.
func New(provider llm.Provider, cfg Config) *Tutor {
	return &Tutor{provider: provider, cfg: cfg}
}

// Execute runs one command to completion, emitting every resulting
// event through emit in order. Streaming commands emit many events;
// failures emit a single GenerationFailed carrying the command's epoch.
func (t *Tutor) Execute(ctx context.Context, cmd engine.Command, emit func(engine.Event)) {
	var err error

	switch c := cmd.(type) {
	case engine.GeneratePlan:
		err = t.generatePlan(ctx, c, emit)
	case engine.GeneratePreAssessment:
		err = t.generatePreAssessment(ctx, c, emit)
	case engine.GradePreAssessment:
		err = t.gradePreAssessment(ctx, c, emit)
	case engine.AdaptPlan:
		err = t.adaptPlan(ctx, c, emit)
	case engine.GenerateNodeContent:
		err = t.generateNodeContent(ctx, c, emit)
	case engine.GenerateQuiz:
		err = t.generateQuiz(ctx, c, emit)
	case engine.GradeQuiz:
		err = t.gradeQuiz(ctx, c, emit)
	case engine.GenerateRemedial:
		err = t.generateRemedial(ctx, c, emit)
	case engine.GenerateSummary:
		err = t.generateSummary(ctx, c, emit)
	default:
		err = fmt.Errorf("unknown command kind %q", cmd.Kind())
	}

	if err != nil {
		emit(engine.GenerationFailed{Epoch: cmd.CommandEpoch(), Message: err.Error()})
	}
}

type planOutput struct {
	Nodes []struct {
		ID         string  `json:"id"`
		Title      string  `json:"title"`
		ParentID   string  `json:"parent_id"`
		Difficulty float64 `json:"difficulty"`
	} `json:"nodes"`
	SuggestedPath []string `json:"suggested_path"`
}

func (t *Tutor) generatePlan(ctx context.Context, c engine.GeneratePlan, emit func(engine.Event)) error {
	ctx = llm.WithPurpose(ctx, "plan")

	out, err := t.plan(ctx, buildPlanUserMessage(c.Resources, c.Preferences))
	if err != nil {
		return err
	}

	tree, path := planToTree(out)
	emit(engine.PlanGenerated{Epoch: c.Epoch, Nodes: tree, Path: path})
	return nil
}

func (t *Tutor) adaptPlan(ctx context.Context, c engine.AdaptPlan, emit func(engine.Event)) error {
	ctx = llm.WithPurpose(ctx, "adapt-plan")

	out, err := t.plan(ctx, buildAdaptUserMessage(c.Analysis, c.Tree, c.Path))
	if err != nil {
		return err
	}

	tree, path := planToTree(out)
	emit(engine.PlanAdapted{Epoch: c.Epoch, Nodes: tree, Path: path})
	return nil
}

// plan runs one plan-shaped request; generation and adaptation share
// the schema and differ only in prompt.
func (t *Tutor) plan(ctx context.Context, userMsg string) (planOutput, error) {
	req := llm.Request{
		System: planSystemPrompt,
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: userMsg},
		},
		Schema:      PlanSchema,
		MaxTokens:   t.cfg.PlanMaxTokens,
		Temperature: t.cfg.Temperature,
	}

	resp, err := t.provider.Generate(ctx, req)
	if err != nil {
		return planOutput{}, fmt.Errorf("plan generation: %w", err)
	}

	var out planOutput
	if err := json.Unmarshal(resp.Content, &out); err != nil {
		return planOutput{}, fmt.Errorf("parse plan response: %w", err)
	}
	if len(out.Nodes) == 0 {
		return planOutput{}, fmt.Errorf("plan response contained no nodes")
	}
	return out, nil
}

func planToTree(out planOutput) (lessontree.Tree, lessontree.Path) {
	tree := make(lessontree.Tree, len(out.Nodes))
	for i, n := range out.Nodes {
		tree[i] = lessontree.Node{
			ID:         n.ID,
			Title:      n.Title,
			ParentID:   n.ParentID,
			Locked:     n.ParentID != "",
			Difficulty: n.Difficulty,
			Type:       lessontree.TypeCore,
		}
	}
	return tree, lessontree.Path(out.SuggestedPath)
}

type questionsOutput struct {
	Questions []struct {
		Prompt  string   `json:"prompt"`
		Options []string `json:"options"`
		Points  float64  `json:"points"`
	} `json:"questions"`
}

func (t *Tutor) generatePreAssessment(ctx context.Context, c engine.GeneratePreAssessment, emit func(engine.Event)) error {
	ctx = llm.WithPurpose(ctx, "pre-assessment")

	topics := make([]string, 0, len(c.Tree))
	for _, n := range c.Tree {
		topics = append(topics, n.Title)
	}
	if len(topics) > 12 {
		topics = topics[:12]
	}
	topic := fmt.Sprintf("prior knowledge across: %s", strings.Join(topics, ", "))

	qs, err := t.questions(ctx, topic, t.cfg.PreAssessmentQuestions, false)
	if err != nil {
		return err
	}
	for _, q := range qs {
		emit(engine.PreAssessmentQuestionStreamed{Epoch: c.Epoch, Question: q})
	}
	return nil
}

func (t *Tutor) generateQuiz(ctx context.Context, c engine.GenerateQuiz, emit func(engine.Event)) error {
	ctx = llm.WithPurpose(ctx, "quiz")

	count := t.cfg.QuizQuestions
	topic := c.Node.Title
	if c.Final {
		count = t.cfg.FinalExamQuestions
		topic = ""
	}

	qs, err := t.questions(ctx, topic, count, c.Final)
	if err != nil {
		return err
	}
	for _, q := range qs {
		emit(engine.QuizQuestionStreamed{Epoch: c.Epoch, Question: q})
	}
	return nil
}

// questions runs one batch request and assigns fresh question ids.
func (t *Tutor) questions(ctx context.Context, topic string, count int, finalExam bool) ([]engine.Question, error) {
	req := llm.Request{
		System: questionSystemPrompt,
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: buildQuestionsUserMessage(topic, count, finalExam)},
		},
		Schema:      QuestionsSchema,
		MaxTokens:   t.cfg.QuizMaxTokens,
		Temperature: t.cfg.Temperature,
	}

	resp, err := t.provider.Generate(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("question generation: %w", err)
	}

	var out questionsOutput
	if err := json.Unmarshal(resp.Content, &out); err != nil {
		return nil, fmt.Errorf("parse question response: %w", err)
	}
	if len(out.Questions) == 0 {
		return nil, fmt.Errorf("question response contained no questions")
	}

	qs := make([]engine.Question, len(out.Questions))
	for i, q := range out.Questions {
		points := q.Points
		if points <= 0 {
			points = 1
		}
		qs[i] = engine.Question{
			ID:      uuid.NewString(),
			Prompt:  q.Prompt,
			Options: q.Options,
			Points:  points,
		}
	}
	return qs, nil
}

type gradingOutput struct {
	Results []struct {
		Question      string  `json:"question"`
		UserAnswer    string  `json:"user_answer"`
		CorrectAnswer string  `json:"correct_answer"`
		Correct       bool    `json:"correct"`
		Score         float64 `json:"score"`
		Points        float64 `json:"points"`
		Analysis      string  `json:"analysis"`
	} `json:"results"`
}

func (t *Tutor) gradeQuiz(ctx context.Context, c engine.GradeQuiz, emit func(engine.Event)) error {
	ctx = llm.WithPurpose(ctx, "grading")

	req := llm.Request{
		System: gradingSystemPrompt,
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: buildGradingUserMessage(c.Quiz, c.Answers)},
		},
		Schema:    GradingSchema,
		MaxTokens: t.cfg.GradeMaxTokens,
	}

	resp, err := t.provider.Generate(ctx, req)
	if err != nil {
		return fmt.Errorf("quiz grading: %w", err)
	}

	var out gradingOutput
	if err := json.Unmarshal(resp.Content, &out); err != nil {
		return fmt.Errorf("parse grading response: %w", err)
	}

	results := make([]mastery.QuizResult, len(out.Results))
	for i, r := range out.Results {
		results[i] = mastery.QuizResult{
			Question:      r.Question,
			UserAnswer:    r.UserAnswer,
			CorrectAnswer: r.CorrectAnswer,
			Correct:       r.Correct,
			Score:         r.Score,
			Points:        r.Points,
			Analysis:      r.Analysis,
		}
	}

	emit(engine.QuizGraded{Epoch: c.Epoch, Results: results})
	return nil
}

func (t *Tutor) gradePreAssessment(ctx context.Context, c engine.GradePreAssessment, emit func(engine.Event)) error {
	ctx = llm.WithPurpose(ctx, "pre-assessment-grading")

	req := llm.Request{
		System: gradingSystemPrompt,
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: buildAnalysisUserMessage(c.Quiz, c.Answers)},
		},
		Schema:    AnalysisSchema,
		MaxTokens: t.cfg.GradeMaxTokens,
	}

	resp, err := t.provider.Generate(ctx, req)
	if err != nil {
		return fmt.Errorf("pre-assessment grading: %w", err)
	}

	var out struct {
		Analysis string `json:"analysis"`
	}
	if err := json.Unmarshal(resp.Content, &out); err != nil {
		return fmt.Errorf("parse analysis response: %w", err)
	}

	emit(engine.PreAssessmentGraded{Epoch: c.Epoch, Analysis: out.Analysis})
	return nil
}

func (t *Tutor) generateNodeContent(ctx context.Context, c engine.GenerateNodeContent, emit func(engine.Event)) error {
	ctx = llm.WithPurpose(ctx, "content")

	req := llm.Request{
		System: contentSystemPrompt,
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: buildContentUserMessage(c.Node)},
		},
		MaxTokens:   t.cfg.ContentMaxTokens,
		Temperature: t.cfg.Temperature,
	}

	_, err := llm.GenerateText(ctx, t.provider, req, func(chunk string) {
		emit(engine.NodeContentStreamed{Epoch: c.Epoch, NodeID: c.Node.ID, Chunk: chunk})
	})
	if err != nil {
		return fmt.Errorf("content generation: %w", err)
	}

	emit(engine.NodeContentStreamed{Epoch: c.Epoch, NodeID: c.Node.ID, Final: true})
	return nil
}

func (t *Tutor) generateRemedial(ctx context.Context, c engine.GenerateRemedial, emit func(engine.Event)) error {
	ctx = llm.WithPurpose(ctx, "remedial")

	req := llm.Request{
		System: remedialSystemPrompt,
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: buildRemedialUserMessage(c.Weaknesses)},
		},
		Schema:      RemedialSchema,
		MaxTokens:   t.cfg.PlanMaxTokens,
		Temperature: t.cfg.Temperature,
	}

	resp, err := t.provider.Generate(ctx, req)
	if err != nil {
		return fmt.Errorf("remedial generation: %w", err)
	}

	var out struct {
		ID         string  `json:"id"`
		Title      string  `json:"title"`
		Difficulty float64 `json:"difficulty"`
	}
	if err := json.Unmarshal(resp.Content, &out); err != nil {
		return fmt.Errorf("parse remedial response: %w", err)
	}

	emit(engine.RemedialGenerated{Epoch: c.Epoch, Node: lessontree.Node{
		ID:         out.ID,
		Title:      out.Title,
		ParentID:   c.NodeID,
		Difficulty: out.Difficulty,
		Type:       lessontree.TypeRemedial,
	}})
	return nil
}

func (t *Tutor) generateSummary(ctx context.Context, c engine.GenerateSummary, emit func(engine.Event)) error {
	ctx = llm.WithPurpose(ctx, "summary")

	req := llm.Request{
		System: summarySystemPrompt,
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: buildSummaryUserMessage(c.Results, c.Progress)},
		},
		Schema:    SummarySchema,
		MaxTokens: t.cfg.SummaryMaxTokens,
	}

	resp, err := t.provider.Generate(ctx, req)
	if err != nil {
		return fmt.Errorf("summary generation: %w", err)
	}

	var out struct {
		Summary string `json:"summary"`
	}
	if err := json.Unmarshal(resp.Content, &out); err != nil {
		return fmt.Errorf("parse summary response: %w", err)
	}

	emit(engine.SummaryReady{Epoch: c.Epoch, Text: out.Summary})
	return nil
}
