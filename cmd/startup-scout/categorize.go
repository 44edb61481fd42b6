// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/startup-scout/internal/agent"
	"github.com/pdiddy/startup-scout/internal/store"
	"github.com/pdiddy/startup-scout/internal/tier"
)

var categorizeCmd = &cobra.Command{
	Use:   "categorize",
	Short: "Classify a run's startups into Indian market tiers",
	Long: `Categorize assigns each analyzed startup a primary market tier (Tier 1,
Tier 2, or Tier 3) plus optional secondary tiers, based on where its
product would find the best initial traction. Startups below the
minimum fit score are skipped. Defaults to the most recent run.`,
	RunE: runCategorize,
}

func runCategorize(cmd *cobra.Command, args []string) error {
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

	summary, err := tier.Categorize(ctx, backend, st, cfg, runID, os.Stdout)
	if err != nil {
		return err
	}

	fmt.Printf("\nRun %s: categorized %d startups (%d below minimum fit score)\n",
		runID, summary.Categorized, summary.Skipped)
	return nil
}

func init() {
	categorizeCmd.Flags().String("run", "", "run ID to categorize (default: latest run)")

	rootCmd.AddCommand(categorizeCmd)
}
