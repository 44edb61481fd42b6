// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/startup-scout/internal/store"
	"github.com/pdiddy/startup-scout/pkg/types"
)

var storeCmd = &cobra.Command{
	Use:   "store",
	Short: "Query the startup store and run ledger",
	Long: `Store queries the accumulated SQLite database across runs: list
startups, break them down by tier, rank the top opportunities, show
aggregate statistics, and inspect the run ledger.`,
}

func openStore() (*store.Store, error) {
	return store.NewStore(pipelineConfig().Store)
}

// --- list subcommand ---

var storeListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored startups, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStore()
		if err != nil {
			return err
		}
		defer s.Close()

		limit, _ := cmd.Flags().GetInt("limit")
		runID, _ := cmd.Flags().GetString("run")

		var startups []types.Startup
		if runID != "" {
			startups, err = s.StartupsByRun(context.Background(), runID)
		} else {
			startups, err = s.ListStartups(context.Background(), limit)
		}
		if err != nil {
			return err
		}

		jsonOutput, _ := cmd.Flags().GetBool("json")
		return printStartups(startups, jsonOutput)
	},
}

// --- tiers subcommand ---

var storeTiersCmd = &cobra.Command{
	Use:   "tiers",
	Short: "List startups grouped by primary market tier",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStore()
		if err != nil {
			return err
		}
		defer s.Close()

		for _, tier := range types.AllTiers {
			startups, err := s.StartupsByTier(context.Background(), tier)
			if err != nil {
				return err
			}
			fmt.Printf("%s (%s): %d startups\n",
				tier, strings.Join(types.TierCities[tier], ", "), len(startups))
			for _, st := range startups {
				fmt.Printf("  %-30s  score %3d  %s\n", st.Name, st.IndiaFitScore, st.Category)
			}
		}
		return nil
	},
}

// --- top subcommand ---

var storeTopCmd = &cobra.Command{
	Use:   "top",
	Short: "Rank the highest-scoring startups",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStore()
		if err != nil {
			return err
		}
		defer s.Close()

		n, _ := cmd.Flags().GetInt("n")
		startups, err := s.TopStartups(context.Background(), n)
		if err != nil {
			return err
		}

		jsonOutput, _ := cmd.Flags().GetBool("json")
		return printStartups(startups, jsonOutput)
	},
}

// --- stats subcommand ---

var storeStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show aggregate statistics across all runs",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStore()
		if err != nil {
			return err
		}
		defer s.Close()

		stats, err := s.StartupStats(context.Background())
		if err != nil {
			return err
		}

		fmt.Printf("Total startups:   %d\n", stats.Total)
		fmt.Printf("Average score:    %.1f\n", stats.AverageScore)
		for _, tier := range types.AllTiers {
			fmt.Printf("%-17s %d\n", string(tier)+":", stats.ByTier[string(tier)])
		}
		if len(stats.ByCategory) > 0 {
			fmt.Println("By category:")
			for cat, n := range stats.ByCategory {
				fmt.Printf("  %-20s %d\n", cat, n)
			}
		}
		return nil
	},
}

// --- runs subcommand ---

var storeRunsCmd = &cobra.Command{
	Use:   "runs",
	Short: "Show the run ledger, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStore()
		if err != nil {
			return err
		}
		defer s.Close()

		limit, _ := cmd.Flags().GetInt("limit")
		runs, err := s.ListRuns(context.Background(), limit)
		if err != nil {
			return err
		}

		fmt.Printf("%-22s  %-10s  %5s  %4s  %4s  %4s  %8s\n",
			"Run", "Status", "Total", "T1", "T2", "T3", "Seconds")
		for _, r := range runs {
			fmt.Printf("%-22s  %-10s  %5d  %4d  %4d  %4d  %8.1f\n",
				r.RunID, r.Status, r.TotalStartupsFound,
				r.Tier1Count, r.Tier2Count, r.Tier3Count, r.ProcessingTimeSeconds)
		}
		return nil
	},
}

// --- knowledge subcommand ---

var storeKnowledgeCmd = &cobra.Command{
	Use:   "knowledge",
	Short: "List or export the knowledge base",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStore()
		if err != nil {
			return err
		}
		defer s.Close()

		if exportPath, _ := cmd.Flags().GetString("export"); exportPath != "" {
			if err := s.ExportKnowledgeYAML(context.Background(), exportPath); err != nil {
				return err
			}
			fmt.Println("Exported to", exportPath)
			return nil
		}

		entries, err := s.ListKnowledge(context.Background())
		if err != nil {
			return err
		}
		for _, e := range entries {
			fmt.Printf("%-30s  %s\n", e.Key, e.Value)
		}
		return nil
	},
}

func printStartups(startups []types.Startup, jsonOutput bool) error {
	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(startups)
	}

	if len(startups) == 0 {
		fmt.Println("No startups found.")
		return nil
	}

	fmt.Printf("%-30s  %-15s  %5s  %-8s  %s\n", "Name", "Category", "Score", "Tier", "Run")
	fmt.Println(strings.Repeat("-", 80))
	for _, st := range startups {
		name := st.Name
		if len(name) > 30 {
			name = name[:27] + "..."
		}
		category := st.Category
		if len(category) > 15 {
			category = category[:12] + "..."
		}
		fmt.Printf("%-30s  %-15s  %5d  %-8s  %s\n",
			name, category, st.IndiaFitScore, st.PrimaryTier, st.RunID)
	}
	fmt.Printf("\n%d startups\n", len(startups))
	return nil
}

func init() {
	storeListCmd.Flags().Int("limit", 50, "maximum startups to list (0 = all)")
	storeListCmd.Flags().String("run", "", "list startups from a specific run")
	storeListCmd.Flags().Bool("json", false, "output as JSON")

	storeTopCmd.Flags().Int("n", 10, "number of startups to rank")
	storeTopCmd.Flags().Bool("json", false, "output as JSON")

	storeRunsCmd.Flags().Int("limit", 20, "maximum runs to list (0 = all)")

	storeKnowledgeCmd.Flags().String("export", "", "export the knowledge base to a YAML file")

	storeCmd.AddCommand(storeListCmd)
	storeCmd.AddCommand(storeTiersCmd)
	storeCmd.AddCommand(storeTopCmd)
	storeCmd.AddCommand(storeStatsCmd)
	storeCmd.AddCommand(storeRunsCmd)
	storeCmd.AddCommand(storeKnowledgeCmd)

	rootCmd.AddCommand(storeCmd)
}
