// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/pdiddy/startup-scout/internal/agent"
	"github.com/pdiddy/startup-scout/internal/report"
	"github.com/pdiddy/startup-scout/internal/store"
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Generate the JSON report for a run",
	Long: `Report assembles final_report.json (and startups.csv when configured)
for a run from its stored startups, including the tier breakdown and
top opportunities. With --insights the LLM also contributes trending
categories, market gaps, and recommendations. Reporting marks the run
completed in the ledger; a failed run keeps its status and only gains
the report path. Defaults to the most recent run.`,
	RunE: runReport,
}

func runReport(cmd *cobra.Command, args []string) error {
	cfg := pipelineConfig()
	if csv, _ := cmd.Flags().GetBool("csv"); csv {
		cfg.Report.CSVExport = true
	}

	ctx := context.Background()
	st, err := store.NewStore(cfg.Store)
	if err != nil {
		return err
	}
	defer st.Close()

	runID, err := resolveRunID(ctx, cmd, st)
	if err != nil {
		return err
	}

	// Insights need the LLM; the plain report does not.
	var backend agent.Backend
	if insights, _ := cmd.Flags().GetBool("insights"); insights {
		backend, err = agent.NewBackend(ctx, cfg.Agent, nil)
		if err != nil {
			return err
		}
	}

	dir := filepath.Join(cfg.Report.OutputDir, runID)
	path, err := report.Generate(ctx, backend, st, cfg, runID, dir, os.Stdout)
	if err != nil {
		return err
	}

	if err := st.FinalizeReport(ctx, runID, path); err != nil {
		return err
	}

	fmt.Printf("Report for %s: %s\n", runID, path)
	return nil
}

func init() {
	reportCmd.Flags().String("run", "", "run ID to report on (default: latest run)")
	reportCmd.Flags().Bool("insights", false, "include LLM-generated portfolio insights")
	reportCmd.Flags().Bool("csv", false, "also export startups.csv")

	rootCmd.AddCommand(reportCmd)
}
