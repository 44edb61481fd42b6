// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/pdiddy/startup-scout/internal/discover"
	"github.com/pdiddy/startup-scout/internal/pipeline"
	"github.com/pdiddy/startup-scout/internal/search"
	"github.com/pdiddy/startup-scout/pkg/types"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Execute the full discovery-to-report pipeline",
	Long: `Run executes all four pipeline stages in sequence: startup discovery,
Indian market fit analysis, tier categorization, and report generation.
Results are persisted in the SQLite store and written to a timestamped
directory under the report output dir. With notification enabled the
run summary is emailed afterwards.

Use --dry-run to print the planned queries and enabled search backends
without making any network calls.`,
	RunE: runPipeline,
}

func runPipeline(cmd *cobra.Command, args []string) error {
	cfg := runConfig(cmd)

	if dryRun, _ := cmd.Flags().GetBool("dry-run"); dryRun {
		return printPlan(cfg)
	}

	logger := newLogger()
	defer logger.Sync()

	p, err := pipeline.New(context.Background(), cfg, logger, os.Stdout)
	if err != nil {
		return err
	}
	defer p.Close()

	run, err := p.Run(context.Background())
	if err != nil {
		return err
	}

	if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(run)
	}

	fmt.Printf("\nRun %s completed: %d startups (Tier 1: %d, Tier 2: %d, Tier 3: %d)\n",
		run.RunID, run.TotalStartupsFound, run.Tier1Count, run.Tier2Count, run.Tier3Count)
	fmt.Printf("Report: %s\n", run.ReportPath)
	return nil
}

// runConfig applies the run command's flag overrides on top of the
// file/env/secret configuration.
func runConfig(cmd *cobra.Command) types.PipelineConfig {
	cfg := pipelineConfig()

	if v, _ := cmd.Flags().GetInt("max-startups"); v > 0 {
		cfg.Discovery.MaxStartups = v
	}
	if v, _ := cmd.Flags().GetInt("window-days"); v > 0 {
		cfg.Discovery.WindowDays = v
	}
	if v, _ := cmd.Flags().GetInt("min-fit-score"); v > 0 {
		cfg.Analysis.MinFitScore = v
	}
	if v, _ := cmd.Flags().GetString("output-dir"); v != "" {
		cfg.Report.OutputDir = v
	}
	if notify, _ := cmd.Flags().GetBool("notify"); notify {
		cfg.Notify.Enabled = true
	}
	return cfg
}

// printPlan describes what a run would do without touching the network.
func printPlan(cfg types.PipelineConfig) error {
	if err := cfg.Agent.Validate(); err != nil {
		return err
	}

	fmt.Printf("Provider:     %s (%s)\n", cfg.Agent.Provider, cfg.Agent.Model)
	fmt.Printf("Max startups: %d, window: %d days, min fit score: %d\n",
		cfg.Discovery.MaxStartups, cfg.Discovery.WindowDays, cfg.Analysis.MinFitScore)

	backends := search.Backends(cfg.Search, os.Stderr)
	fmt.Printf("Search backends (%d):\n", len(backends))
	for _, b := range backends {
		fmt.Printf("  %s\n", b.Name())
	}

	fmt.Println("Queries:")
	for _, q := range discover.BuildQueries(time.Now(), cfg.Discovery.WindowDays) {
		fmt.Printf("  %s\n", q)
	}
	return nil
}

func init() {
	runCmd.Flags().Int("max-startups", 0, "cap on startups discovered this run (0 = configured default)")
	runCmd.Flags().Int("window-days", 0, "founding-date window in days (0 = configured default)")
	runCmd.Flags().Int("min-fit-score", 0, "minimum India fit score for downstream stages (0 = configured default)")
	runCmd.Flags().String("output-dir", "", "report output directory (default: configured report.output_dir)")
	runCmd.Flags().Bool("notify", false, "email the run summary when the run completes")
	runCmd.Flags().Bool("json", false, "print the final run record as JSON")
	runCmd.Flags().Bool("dry-run", false, "print planned queries and backends without network calls")

	rootCmd.AddCommand(runCmd)
}
