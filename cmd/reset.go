package cmd

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/pathologix/emtrainer/internal/store"
	"github.com/spf13/cobra"
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Erase progress data for the current profile",
	Long: "Erase per-topic accuracy, cached scenarios, and exam history for the " +
		"current profile. Use the flags to limit what gets erased.",
	RunE: func(cmd *cobra.Command, args []string) error {
		perf, _ := cmd.Flags().GetBool("performance")
		scen, _ := cmd.Flags().GetBool("scenarios")
		exams, _ := cmd.Flags().GetBool("exams")
		yes, _ := cmd.Flags().GetBool("yes")

		// No flags means everything.
		if !perf && !scen && !exams {
			perf, scen, exams = true, true, true
		}

		userID := resolveUserID(cmd)

		if !yes {
			var targets []string
			if perf {
				targets = append(targets, "topic accuracy")
			}
			if scen {
				targets = append(targets, "cached scenarios")
			}
			if exams {
				targets = append(targets, "exam history")
			}
			fmt.Printf("This erases %s for profile %q. Continue? [y/N] ",
				strings.Join(targets, ", "), userID)
			reader := bufio.NewReader(os.Stdin)
			answer, _ := reader.ReadString('\n')
			answer = strings.ToLower(strings.TrimSpace(answer))
			if answer != "y" && answer != "yes" {
				fmt.Println("Aborted.")
				return nil
			}
		}

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

		if perf {
			if err := s.PerformanceRepo().Reset(ctx, userID); err != nil {
				return fmt.Errorf("reset topic accuracy: %w", err)
			}
			fmt.Println("Topic accuracy erased.")
		}
		if scen {
			if err := s.ScenarioRepo().Reset(ctx, userID); err != nil {
				return fmt.Errorf("reset cached scenarios: %w", err)
			}
			fmt.Println("Cached scenarios erased.")
		}
		if exams {
			if err := s.AttemptRepo().Reset(ctx, userID); err != nil {
				return fmt.Errorf("reset exam history: %w", err)
			}
			fmt.Println("Exam history erased.")
		}

		return nil
	},
}

func init() {
	resetCmd.Flags().Bool("performance", false, "Erase only per-topic accuracy")
	resetCmd.Flags().Bool("scenarios", false, "Erase only cached scenarios")
	resetCmd.Flags().Bool("exams", false, "Erase only exam history")
	resetCmd.Flags().BoolP("yes", "y", false, "Skip the confirmation prompt")
}
