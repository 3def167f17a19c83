package tutor

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/pathwise/pathwise/internal/engine"
	"github.com/pathwise/pathwise/internal/lessontree"
	"github.com/pathwise/pathwise/internal/llm"
)

func collect() (func(engine.Event), *[]engine.Event) {
	var events []engine.Event
	return func(ev engine.Event) { events = append(events, ev) }, &events
}

func TestExecuteGeneratePlan(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Content: json.RawMessage(`{
		"nodes": [
			{"id": "intro", "title": "Introduction", "parent_id": "", "difficulty": 0.1},
			{"id": "basics", "title": "The Basics", "parent_id": "intro", "difficulty": 0.4}
		],
		"suggested_path": ["intro", "basics"]
	}`)})
	tut := New(mock, DefaultConfig())

	emit, events := collect()
	tut.Execute(context.Background(), engine.GeneratePlan{Epoch: 2}, emit)

	if len(*events) != 1 {
		t.Fatalf("events = %d, want 1", len(*events))
	}
	pg, ok := (*events)[0].(engine.PlanGenerated)
	if !ok {
		t.Fatalf("event = %T, want PlanGenerated", (*events)[0])
	}
	if pg.Epoch != 2 {
		t.Errorf("epoch = %d, want 2", pg.Epoch)
	}
	if len(pg.Nodes) != 2 || len(pg.Path) != 2 {
		t.Fatalf("nodes=%d path=%d", len(pg.Nodes), len(pg.Path))
	}
	if pg.Nodes[0].Locked {
		t.Error("root node locked")
	}
	if !pg.Nodes[1].Locked {
		t.Error("child node not locked")
	}
	if pg.Nodes[1].Type != lessontree.TypeCore {
		t.Errorf("node type = %s, want core", pg.Nodes[1].Type)
	}
}

func TestExecuteGeneratePlanRejectsEmptyPlan(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Content: json.RawMessage(`{"nodes": [], "suggested_path": []}`)})
	tut := New(mock, DefaultConfig())

	emit, events := collect()
	tut.Execute(context.Background(), engine.GeneratePlan{Epoch: 1}, emit)

	if len(*events) != 1 {
		t.Fatalf("events = %d, want 1", len(*events))
	}
	fail, ok := (*events)[0].(engine.GenerationFailed)
	if !ok {
		t.Fatalf("event = %T, want GenerationFailed", (*events)[0])
	}
	if fail.Epoch != 1 {
		t.Errorf("failure epoch = %d, want 1", fail.Epoch)
	}
}

func TestExecuteGenerateQuizEmitsPerQuestion(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Content: json.RawMessage(`{
		"questions": [
			{"prompt": "What is 2+2?", "options": ["3", "4", "5"], "points": 1},
			{"prompt": "What is 3*3?", "options": ["6", "9", "12"], "points": 0}
		]
	}`)})
	tut := New(mock, DefaultConfig())

	emit, events := collect()
	tut.Execute(context.Background(), engine.GenerateQuiz{Epoch: 1, Node: lessontree.Node{ID: "n1", Title: "Arithmetic"}}, emit)

	if len(*events) != 2 {
		t.Fatalf("events = %d, want one per question", len(*events))
	}
	first := (*events)[0].(engine.QuizQuestionStreamed)
	second := (*events)[1].(engine.QuizQuestionStreamed)
	if first.Question.ID == "" || first.Question.ID == second.Question.ID {
		t.Error("questions missing distinct ids")
	}
	// Zero points defaults to 1.
	if second.Question.Points != 1 {
		t.Errorf("points = %v, want 1", second.Question.Points)
	}
}

func TestExecuteGradeQuiz(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Content: json.RawMessage(`{
		"results": [
			{"question": "What is 2+2?", "user_answer": "4", "correct_answer": "4",
			 "correct": true, "score": 1, "points": 1, "analysis": "Right."},
			{"question": "What is 3*3?", "user_answer": "6", "correct_answer": "9",
			 "correct": false, "score": 0, "points": 1, "analysis": "Multiplication, not addition."}
		]
	}`)})
	tut := New(mock, DefaultConfig())

	emit, events := collect()
	tut.Execute(context.Background(), engine.GradeQuiz{Epoch: 3}, emit)

	graded := (*events)[0].(engine.QuizGraded)
	if graded.Epoch != 3 {
		t.Errorf("epoch = %d, want 3", graded.Epoch)
	}
	if len(graded.Results) != 2 {
		t.Fatalf("results = %d, want 2", len(graded.Results))
	}
	if graded.Results[1].CorrectAnswer != "9" || graded.Results[1].Correct {
		t.Errorf("second result = %+v", graded.Results[1])
	}
}

func TestExecuteGenerateNodeContentStreams(t *testing.T) {
	text := "Derivatives measure instantaneous rate of change. They are the slope of the tangent line."
	content, _ := json.Marshal(text)
	mock := llm.NewMockProvider(llm.MockResponse{Content: content})
	tut := New(mock, DefaultConfig())

	emit, events := collect()
	tut.Execute(context.Background(), engine.GenerateNodeContent{
		Epoch: 1, Node: lessontree.Node{ID: "n1", Title: "Derivatives"},
	}, emit)

	if len(*events) < 3 {
		t.Fatalf("events = %d, want several chunks plus a final marker", len(*events))
	}

	var got string
	for i, ev := range *events {
		cs, ok := ev.(engine.NodeContentStreamed)
		if !ok {
			t.Fatalf("event %d = %T, want NodeContentStreamed", i, ev)
		}
		if cs.NodeID != "n1" {
			t.Fatalf("node id = %q", cs.NodeID)
		}
		got += cs.Chunk
		if cs.Final && i != len(*events)-1 {
			t.Fatal("final marker emitted before the last event")
		}
	}
	last := (*events)[len(*events)-1].(engine.NodeContentStreamed)
	if !last.Final {
		t.Error("missing final marker")
	}
	if got != text {
		t.Errorf("accumulated %q, want %q", got, text)
	}
}

func TestExecuteGenerateRemedial(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Content: json.RawMessage(`{
		"id": "review-fractions", "title": "Review: Fractions", "difficulty": 0.3
	}`)})
	tut := New(mock, DefaultConfig())

	emit, events := collect()
	tut.Execute(context.Background(), engine.GenerateRemedial{Epoch: 1, NodeID: "fractions"}, emit)

	rg := (*events)[0].(engine.RemedialGenerated)
	if rg.Node.ParentID != "fractions" {
		t.Errorf("parent = %q, want trigger node", rg.Node.ParentID)
	}
	if rg.Node.Type != lessontree.TypeRemedial {
		t.Errorf("type = %s, want remedial", rg.Node.Type)
	}
}

func TestExecuteProviderFailureEmitsGenerationFailed(t *testing.T) {
	mock := llm.NewMockProvider() // empty queue → provider unavailable
	tut := New(mock, DefaultConfig())

	emit, events := collect()
	tut.Execute(context.Background(), engine.GenerateSummary{Epoch: 5}, emit)

	fail, ok := (*events)[0].(engine.GenerationFailed)
	if !ok {
		t.Fatalf("event = %T, want GenerationFailed", (*events)[0])
	}
	if fail.Epoch != 5 {
		t.Errorf("epoch = %d, want 5", fail.Epoch)
	}
	if fail.Message == "" {
		t.Error("empty failure message")
	}
}
