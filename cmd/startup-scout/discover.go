// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/startup-scout/internal/agent"
	"github.com/pdiddy/startup-scout/internal/discover"
	"github.com/pdiddy/startup-scout/internal/pipeline"
	"github.com/pdiddy/startup-scout/internal/search"
	"github.com/pdiddy/startup-scout/internal/store"
)

var discoverCmd = &cobra.Command{
	Use:   "discover",
	Short: "Run the discovery stage into a new run",
	Long: `Discover searches the web for startups founded within the configured
window, extracts structured records via the LLM, deduplicates them
against the store, and persists them under a new run ID. Use the
printed run ID with analyze, categorize, and report to continue the
pipeline stage by stage.`,
	RunE: runDiscover,
}

func runDiscover(cmd *cobra.Command, args []string) error {
	cfg := pipelineConfig()
	if maxStartups, _ := cmd.Flags().GetInt("max-startups"); maxStartups > 0 {
		cfg.Discovery.MaxStartups = maxStartups
	}
	if windowDays, _ := cmd.Flags().GetInt("window-days"); windowDays > 0 {
		cfg.Discovery.WindowDays = windowDays
	}

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

	runID := pipeline.NewRunID()
	if err := st.BeginRun(ctx, runID); err != nil {
		return err
	}

	backends := search.Backends(cfg.Search, os.Stderr)
	summary, err := discover.Discover(ctx, backend, st, backends, cfg, runID, os.Stdout)
	if err != nil {
		return err
	}

	fmt.Printf("\nRun %s: discovered %d startups\n", runID, summary.Found)
	return nil
}

func init() {
	discoverCmd.Flags().Int("max-startups", 0, "cap on startups discovered this run (0 = configured default)")
	discoverCmd.Flags().Int("window-days", 0, "founding-date window in days (0 = configured default)")

	rootCmd.AddCommand(discoverCmd)
}
