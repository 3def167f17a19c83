package tutor

import (
	"fmt"
	"strings"

	"github.com/pathwise/pathwise/internal/engine"
	"github.com/pathwise/pathwise/internal/lessontree"
	"github.com/pathwise/pathwise/internal/mastery"
)

const planSystemPrompt = `You are an expert curriculum designer. Given a learner's study material and preferences, you produce a structured learning plan: a tree of lesson topics connected by prerequisites, plus a recommended study order.`

const questionSystemPrompt = `You are a careful assessment writer. You write clear, unambiguous multiple-choice questions with exactly one correct answer among the options.`

const gradingSystemPrompt = `You are a fair, consistent grader. You grade each answer strictly against the question, award partial credit only when an answer is partially correct, and explain every grade briefly.`

const contentSystemPrompt = `You are a patient tutor writing a focused lesson. Explain the topic from first principles, use concrete examples, and keep paragraphs short. Write in Markdown.`

const remedialSystemPrompt = `You are a tutor designing a targeted review lesson. The learner failed a quiz; design one remedial topic that addresses their specific mistakes before they retry.`

const summarySystemPrompt = `You are a supportive tutor wrapping up a course. Summarize the learner's final exam performance honestly and point out concrete next steps.`

func buildPlanUserMessage(resources []engine.Resource, prefs engine.Preferences) string {
	var b strings.Builder

	b.WriteString("Study material:\n")
	if len(resources) == 0 {
		b.WriteString("None provided; design a general plan from the preferences alone.\n")
	}
	for _, r := range resources {
		b.WriteString(fmt.Sprintf("--- %s (%s) ---\n%s\n", r.Name, r.Kind, r.Content))
	}

	b.WriteString("\nLearner preferences:\n")
	if prefs.Skipped {
		b.WriteString("The learner skipped the preferences wizard; use sensible defaults.\n")
	} else {
		b.WriteString(fmt.Sprintf("Tone: %s\nPace: %s\nFocus: %s\n", prefs.Tone, prefs.Pace, prefs.Focus))
	}

	b.WriteString(`
Instructions:
Produce 5-12 lesson nodes covering the material. Root nodes (empty parent_id) are entry points; every other node names its prerequisite via parent_id. Order suggested_path so prerequisites always come before their dependents.`)

	return b.String()
}

func buildQuestionsUserMessage(topic string, count int, finalExam bool) string {
	var b strings.Builder

	if finalExam {
		b.WriteString("Write a final exam covering the whole course.\n")
	} else {
		b.WriteString(fmt.Sprintf("Topic: %s\n", topic))
	}
	b.WriteString(fmt.Sprintf("Write exactly %d multiple-choice questions.\n", count))
	b.WriteString("Each question: one clearly correct option, 3-5 options total, worth 1 point unless it is substantially harder.")

	return b.String()
}

func buildGradingUserMessage(quiz engine.Quiz, answers map[string]string) string {
	var b strings.Builder

	b.WriteString("Grade the following submission.\n\n")
	for _, q := range quiz.Questions {
		b.WriteString(fmt.Sprintf("Question (%g points): %s\n", q.Points, q.Prompt))
		if len(q.Options) > 0 {
			b.WriteString(fmt.Sprintf("Options: %s\n", strings.Join(q.Options, " | ")))
		}
		ans, ok := answers[q.ID]
		if !ok {
			ans = "(no answer)"
		}
		b.WriteString(fmt.Sprintf("Learner's answer: %s\n\n", ans))
	}
	b.WriteString("Return one result per question, in the same order.")

	return b.String()
}

func buildAnalysisUserMessage(quiz engine.Quiz, answers map[string]string) string {
	var b strings.Builder

	b.WriteString("The learner took this pre-assessment before starting the course:\n\n")
	for _, q := range quiz.Questions {
		ans, ok := answers[q.ID]
		if !ok {
			ans = "(no answer)"
		}
		b.WriteString(fmt.Sprintf("Q: %s\nA: %s\n\n", q.Prompt, ans))
	}
	b.WriteString("Summarize what they already know and which parts of the course need the most attention.")

	return b.String()
}

func buildAdaptUserMessage(analysis string, tree lessontree.Tree, path lessontree.Path) string {
	var b strings.Builder

	b.WriteString("Current plan:\n")
	for _, n := range tree {
		b.WriteString(fmt.Sprintf("- %s (id: %s, parent: %s, difficulty: %.1f)\n", n.Title, n.ID, n.ParentID, n.Difficulty))
	}
	b.WriteString(fmt.Sprintf("\nSuggested order: %s\n", strings.Join(path, ", ")))
	b.WriteString(fmt.Sprintf("\nPre-assessment analysis:\n%s\n", analysis))
	b.WriteString(`
Instructions:
Adapt the plan to this learner. Keep node ids stable where a topic survives. You may reorder the path, adjust difficulties, drop topics the learner has clearly mastered, and add topics for exposed gaps.`)

	return b.String()
}

func buildContentUserMessage(node lessontree.Node) string {
	return fmt.Sprintf("Write the lesson for: %s (difficulty: %.1f)", node.Title, node.Difficulty)
}

func buildRemedialUserMessage(weaknesses []mastery.Weakness) string {
	var b strings.Builder

	b.WriteString("The learner made these mistakes:\n")
	for _, w := range weaknesses {
		b.WriteString(fmt.Sprintf("- Q: %s\n  Their answer: %s\n  Correct: %s\n", w.Question, w.IncorrectAnswer, w.CorrectAnswer))
	}
	b.WriteString("\nDesign one remedial lesson node addressing these gaps.")

	return b.String()
}

func buildSummaryUserMessage(results []mastery.QuizResult, progress map[string]mastery.Progress) string {
	var b strings.Builder

	var score, max float64
	for _, r := range results {
		score += r.Score
		max += r.Points
	}
	b.WriteString(fmt.Sprintf("Final exam: %g of %g points.\n\n", score, max))

	b.WriteString("Per-question results:\n")
	for _, r := range results {
		mark := "correct"
		if !r.Correct {
			mark = fmt.Sprintf("incorrect (answered %q, correct %q)", r.UserAnswer, r.CorrectAnswer)
		}
		b.WriteString(fmt.Sprintf("- %s: %s\n", r.Question, mark))
	}

	completed, failed := 0, 0
	for _, p := range progress {
		switch p.Status {
		case mastery.StatusCompleted:
			completed++
		case mastery.StatusFailed:
			failed++
		}
	}
	b.WriteString(fmt.Sprintf("\nCourse progress: %d topics completed, %d currently failed.\n", completed, failed))
	b.WriteString("\nWrite the closing summary for this learner.")

	return b.String()
}
