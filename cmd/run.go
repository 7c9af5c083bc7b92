package cmd

import (
	"fmt"
	"os"

	"github.com/pathologix/emtrainer/internal/app"
	"github.com/pathologix/emtrainer/internal/llm"
	"github.com/pathologix/emtrainer/internal/performance"
	"github.com/pathologix/emtrainer/internal/scenario"
	"github.com/pathologix/emtrainer/internal/store"
	"github.com/spf13/cobra"
)

// runApp opens the store, builds dependencies, and launches the TUI.
func runApp(cmd *cobra.Command) error {
	ctx := cmd.Context()
	dbPath, err := resolveDBPath(cmd)
	if err != nil {
		return fmt.Errorf("resolve DB path: %w", err)
	}
	st, err := store.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer st.Close()

	opts := app.Options{
		UserID:    resolveUserID(cmd),
		Tracker:   performance.NewTracker(st.PerformanceRepo()),
		Attempts:  st.AttemptRepo(),
		Scenarios: st.ScenarioRepo(),
	}

	provider, err := llm.NewProviderFromEnv(ctx, st.EventRepo())
	if err != nil {
		fmt.Fprintln(os.Stderr, "LLM provider not configured:", err)
		fmt.Fprintln(os.Stderr, "Practice and exam modes will be unavailable.")
	} else {
		gen := scenario.NewGenerator(provider, scenario.DefaultConfig())
		opts.Getter = scenario.NewCache(st.ScenarioRepo(), gen)
	}

	return app.Run(opts)
}
