package cmd

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pathwise/pathwise/internal/config"
	"github.com/pathwise/pathwise/internal/snapshot"
	"github.com/pathwise/pathwise/internal/store"
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Wipe learner data, preserving the behavior ledger",
	Long:  "Discards the lesson plan, progress, quizzes, and flashcards. The streak, grit, points, and unlocked rewards survive.",
	RunE: func(cmd *cobra.Command, args []string) error {
		yes, _ := cmd.Flags().GetBool("yes")
		if !yes && !confirm("Reset all learner data? [y/N] ") {
			fmt.Println("Aborted.")
			return nil
		}

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
		snaps := s.SnapshotRepo()

		// Carry the behavior ledger and rewards forward into an
		// otherwise empty snapshot.
		blank := snapshot.Snapshot{Version: snapshot.Version}
		if rec, err := snaps.Latest(ctx); err == nil && rec != nil {
			blank.Behavior = rec.Data.Behavior
			blank.Rewards = rec.Data.Rewards
		}

		if err := snaps.Save(ctx, &store.SnapshotRecord{Data: blank}); err != nil {
			return fmt.Errorf("save reset snapshot: %w", err)
		}
		if err := snaps.Prune(ctx, 1); err != nil {
			return fmt.Errorf("prune snapshots: %w", err)
		}

		fmt.Println("Learner data reset.")
		return nil
	},
}

func confirm(prompt string) bool {
	fmt.Print(prompt)
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes"
}

func init() {
	resetCmd.Flags().BoolP("yes", "y", false, "Skip the confirmation prompt")
}
