package cmd

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/pathwise/pathwise/internal/config"
	"github.com/pathwise/pathwise/internal/mastery"
	"github.com/pathwise/pathwise/internal/snapshot"
	"github.com/pathwise/pathwise/internal/store"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show session progress, engagement, and flashcard stats",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		dbPath, err := resolveDBPath(cmd, cfg.DBPath)
		if err != nil {
			return fmt.Errorf("resolve DB path: %w", err)
		}
		s, err := store.Open(dbPath)
		if err != nil {
			return fmt.Errorf("open store: %w", err)
		}
		defer s.Close()

		ctx := context.Background()
		rec, err := s.SnapshotRepo().Latest(ctx)
		if err != nil {
			return fmt.Errorf("load snapshot: %w", err)
		}
		if rec == nil {
			fmt.Println("No session data yet. Run `pathwise run` to start.")
			return nil
		}
		snap := rec.Data

		printEngagement(snap)
		printProgress(ctx, s, snap)
		printFlashcards(snap)
		return nil
	},
}

func printEngagement(snap snapshot.Snapshot) {
	fmt.Println("Engagement")
	fmt.Println(strings.Repeat("─", 48))
	fmt.Printf("Daily streak:  %d\n", snap.Behavior.DailyStreak)
	fmt.Printf("Total points:  %.0f\n", snap.Behavior.TotalPoints)
	fmt.Printf("Grit score:    %d\n", snap.Behavior.GritScore)
	fmt.Printf("Rewards:       %d unlocked\n", len(snap.Rewards))
	fmt.Println()
}

func printProgress(ctx context.Context, s *store.Store, snap snapshot.Snapshot) {
	if len(snap.MindMap) == 0 {
		fmt.Println("No lesson plan yet.")
		fmt.Println()
		return
	}

	var completed, failed, inProgress int
	for _, p := range snap.UserProgress {
		switch p.Status {
		case mastery.StatusCompleted:
			completed++
		case mastery.StatusFailed:
			failed++
		case mastery.StatusInProgress:
			inProgress++
		}
	}

	fmt.Println("Lesson Plan")
	fmt.Println(strings.Repeat("─", 48))
	fmt.Printf("Nodes:         %d (%d completed, %d failed, %d in progress)\n",
		len(snap.MindMap), completed, failed, inProgress)

	fmt.Printf("%-28s  %-12s  %8s\n", "Node", "Status", "Accuracy")
	for _, n := range snap.MindMap {
		p, attempted := snap.UserProgress[n.ID]
		status := "locked"
		if !n.Locked {
			status = "unlocked"
		}
		if attempted && p.Status != "" {
			status = string(p.Status)
		}

		accuracy := "-"
		if attempted && p.Attempts > 0 {
			if acc, err := s.EventRepo().NodeAccuracy(ctx, n.ID); err == nil {
				accuracy = fmt.Sprintf("%.0f%%", acc*100)
			}
		}

		title := n.Title
		if len(title) > 28 {
			title = title[:28]
		}
		fmt.Printf("%-28s  %-12s  %8s\n", title, status, accuracy)
	}
	fmt.Println()
}

func printFlashcards(snap snapshot.Snapshot) {
	if len(snap.Flashcards) == 0 {
		return
	}
	due := 0
	now := time.Now()
	for _, c := range snap.Flashcards {
		if !c.NextReviewDate.After(now) {
			due++
		}
	}
	fmt.Println("Flashcards")
	fmt.Println(strings.Repeat("─", 48))
	fmt.Printf("Deck size:     %d\n", len(snap.Flashcards))
	fmt.Printf("Due now:       %d\n", due)
}
