package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/pathologix/emtrainer/internal/performance"
	"github.com/pathologix/emtrainer/internal/store"
	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show per-topic accuracy and recent exams",
	RunE: func(cmd *cobra.Command, args []string) error {
		dbPath, err := resolveDBPath(cmd)
		if err != nil {
			return fmt.Errorf("resolve database path: %w", err)
		}

		s, err := store.Open(dbPath)
		if err != nil {
			return fmt.Errorf("open database: %w", err)
		}
		defer s.Close()

		ctx := context.Background()
		userID := resolveUserID(cmd)

		tracker := performance.NewTracker(s.PerformanceRepo())
		records, err := tracker.Summary(ctx, userID)
		if err != nil {
			return fmt.Errorf("load topic summary: %w", err)
		}

		if len(records) == 0 {
			fmt.Println("No attempts recorded yet.")
			return nil
		}

		fmt.Println("Accuracy by Topic (weakest first)")
		fmt.Println(strings.Repeat("─", 48))
		fmt.Printf("%-20s  %9s  %8s\n", "Topic", "Accuracy", "Attempts")
		fmt.Println(strings.Repeat("─", 48))
		for _, r := range records {
			fmt.Printf("%-20s  %8.1f%%  %8d\n", r.Topic, r.Accuracy*100, r.Attempts)
		}

		weakest, err := tracker.WeakestTopic(ctx, userID)
		if err != nil {
			return fmt.Errorf("resolve weakest topic: %w", err)
		}
		fmt.Printf("\nWeakest topic: %s\n", weakest)

		sessions, err := s.AttemptRepo().RecentSessions(ctx, userID, 10)
		if err != nil {
			return fmt.Errorf("load recent sessions: %w", err)
		}
		if len(sessions) > 0 {
			fmt.Println()
			fmt.Println("Recent Exams")
			fmt.Println(strings.Repeat("─", 48))
			for _, sess := range sessions {
				var pct float64
				if sess.ItemsSeen > 0 {
					pct = float64(sess.Correct) / float64(sess.ItemsSeen) * 100
				}
				line := fmt.Sprintf("%s  %d/%d correct  %.0f%%",
					sess.CompletedAt.Local().Format("2006-01-02 15:04"),
					sess.Correct, sess.ItemsSeen, pct)
				if sess.Exited {
					line += fmt.Sprintf("  (exited at %d of %d)", sess.ItemsSeen, sess.PlannedCount)
				}
				fmt.Println(line)
			}
		}

		return nil
	},
}
