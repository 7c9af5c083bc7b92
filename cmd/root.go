package cmd

import (
	"os"

	"github.com/pathologix/emtrainer/internal/store"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "emtrainer",
	Short: "NREMT exam practice in the terminal",
	Long:  "EMTrainer generates NREMT-style patient scenarios, tracks per-topic accuracy, and runs timed exam simulations.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd)
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides EMTRAINER_DB env var)")
	rootCmd.PersistentFlags().String("user", "", "Profile to track progress under (overrides EMTRAINER_USER env var)")

	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(updateCmd)
}

// resolveDBPath returns the database path using --db flag (highest priority),
// then EMTRAINER_DB env var, then the default XDG path.
func resolveDBPath(cmd *cobra.Command) (string, error) {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return p, store.EnsureDir(p)
	}
	return store.DefaultDBPath()
}

// resolveUserID returns the profile name: --user flag, then EMTRAINER_USER,
// then "local". Progress is tracked per profile within one database.
func resolveUserID(cmd *cobra.Command) string {
	if u, _ := cmd.Flags().GetString("user"); u != "" {
		return u
	}
	if u := os.Getenv("EMTRAINER_USER"); u != "" {
		return u
	}
	return "local"
}
