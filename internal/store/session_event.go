package store

import (
	"context"
	"fmt"

	"github.com/pathwise/pathwise/ent/quizevent"
)

func (r *eventRepo) AppendSession(ctx context.Context, data SessionEventData) error {
	seqNum, err := r.seq.Next(ctx)
	if err != nil {
		return fmt.Errorf("next sequence: %w", err)
	}

	_, err = r.client.SessionEvent.Create().
		SetSequence(seqNum).
		SetSessionID(data.SessionID).
		SetAction(data.Action).
		SetDailyStreak(data.DailyStreak).
		SetShowedBriefing(data.ShowedBriefing).
		SetStatus(data.Status).
		Save(ctx)
	if err != nil {
		return fmt.Errorf("save session event: %w", err)
	}
	return nil
}

func (r *eventRepo) AppendQuizGrade(ctx context.Context, data QuizEventData) error {
	seqNum, err := r.seq.Next(ctx)
	if err != nil {
		return fmt.Errorf("next sequence: %w", err)
	}

	_, err = r.client.QuizEvent.Create().
		SetSequence(seqNum).
		SetSessionID(data.SessionID).
		SetNodeID(data.NodeID).
		SetKind(data.Kind).
		SetQuestions(data.Questions).
		SetScore(data.Score).
		SetMaxScore(data.MaxScore).
		SetProficiency(data.Proficiency).
		SetPassed(data.Passed).
		SetResults(data.Results).
		Save(ctx)
	if err != nil {
		return fmt.Errorf("save quiz event: %w", err)
	}
	return nil
}

func (r *eventRepo) AppendFlashcardReview(ctx context.Context, data ReviewEventData) error {
	seqNum, err := r.seq.Next(ctx)
	if err != nil {
		return fmt.Errorf("next sequence: %w", err)
	}

	_, err = r.client.ReviewEvent.Create().
		SetSequence(seqNum).
		SetSessionID(data.SessionID).
		SetCardID(data.CardID).
		SetNodeID(data.NodeID).
		SetGrade(data.Grade).
		SetInterval(data.Interval).
		SetRepetition(data.Repetition).
		SetEaseFactor(data.EaseFactor).
		Save(ctx)
	if err != nil {
		return fmt.Errorf("save review event: %w", err)
	}
	return nil
}

func (r *eventRepo) NodeAccuracy(ctx context.Context, nodeID string) (float64, error) {
	events, err := r.client.QuizEvent.Query().
		Where(quizevent.NodeID(nodeID)).
		All(ctx)
	if err != nil {
		return 0, fmt.Errorf("query node accuracy: %w", err)
	}
	if len(events) == 0 {
		return 0, nil
	}

	passed := 0
	for _, e := range events {
		if e.Passed {
			passed++
		}
	}
	return float64(passed) / float64(len(events)), nil
}
