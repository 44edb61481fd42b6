// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/startup-scout/internal/agent"
	"github.com/pdiddy/startup-scout/internal/analyze"
	"github.com/pdiddy/startup-scout/internal/store"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Score a run's startups for Indian market fit",
	Long: `Analyze scores each startup from a run on its 0-100 viability in the
Indian market and stores the score and a short written analysis.
Defaults to the most recent run.`,
	RunE: runAnalyze,
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	cfg := pipelineConfig()

	ctx := context.Background()
	backend, err := agent.NewBackend(ctx, cfg.Agent, nil)
	if err != nil {
		return err
	}

	st, err := store.NewStore(cfg.Store)
	if err != nil {
		return err
	}
	defer st.Close()

	runID, err := resolveRunID(ctx, cmd, st)
	if err != nil {
		return err
	}

	summary, err := analyze.Analyze(ctx, backend, st, cfg, runID, os.Stdout)
	if err != nil {
		return err
	}

	fmt.Printf("\nRun %s: analyzed %d startups, %d above minimum fit score\n",
		runID, summary.Analyzed, summary.AboveMin)
	return nil
}

// resolveRunID returns the --run flag value, or the latest run when the
// flag is unset.
func resolveRunID(ctx context.Context, cmd *cobra.Command, st *store.Store) (string, error) {
	runID, _ := cmd.Flags().GetString("run")
	if runID != "" {
		if _, err := st.GetRun(ctx, runID); err != nil {
			return "", err
		}
		return runID, nil
	}
	latest, err := st.LatestRun(ctx)
	if err != nil {
		return "", err
	}
	return latest.RunID, nil
}

func init() {
	analyzeCmd.Flags().String("run", "", "run ID to analyze (default: latest run)")

	rootCmd.AddCommand(analyzeCmd)
}
