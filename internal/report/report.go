// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package report assembles the final JSON and CSV reports for a run.
package report

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"text/template"
	"time"

	"github.com/pdiddy/startup-scout/internal/agent"
	"github.com/pdiddy/startup-scout/internal/store"
	"github.com/pdiddy/startup-scout/pkg/types"
)

// insightsPrompt asks the model for portfolio-level observations across
// the run's startups.
var insightsPrompt = template.Must(template.New("insights").Parse(
	`You are a venture analyst reviewing this batch of startups scored for
Indian market fit:
{{range .}}
- {{.Name}} ({{.Category}}, score {{.IndiaFitScore}}, {{.PrimaryTier}})
{{end}}

Respond with ONLY a JSON object:
{
  "trending_categories": ["category", ...],
  "market_gaps": ["observed gap", ...],
  "recommendations": ["actionable recommendation", ...]
}`))

// Insights holds portfolio-level observations generated by the model.
type Insights struct {
	TrendingCategories []string `json:"trending_categories"`
	MarketGaps         []string `json:"market_gaps"`
	Recommendations    []string `json:"recommendations"`
}

// Report is the shape of final_report.json.
type Report struct {
	RunID            string          `json:"run_id"`
	GeneratedAt      time.Time       `json:"generated_at"`
	TotalStartups    int             `json:"total_startups"`
	AverageFitScore  float64         `json:"average_fit_score"`
	TierBreakdown    map[string]int  `json:"tier_breakdown"`
	TopOpportunities []types.Startup `json:"top_opportunities"`
	Startups         []types.Startup `json:"startups"`
	Insights         *Insights       `json:"insights,omitempty"`
}

// Generate builds the run's report from its stored startups and writes
// final_report.json (and startups.csv when configured) under dir. When
// backend is non-nil it also asks the model for portfolio insights; an
// insights failure degrades the report rather than failing it. It
// returns the path of the JSON report.
func Generate(ctx context.Context, backend agent.Backend, st *store.Store, cfg types.PipelineConfig, runID, dir string, w io.Writer) (string, error) {
	startups, err := st.StartupsByRun(ctx, runID)
	if err != nil {
		return "", fmt.Errorf("loading startups for run %s: %w", runID, err)
	}

	topN := cfg.Report.TopOpportunities
	if topN <= 0 {
		topN = 10
	}

	rpt := Report{
		RunID:         runID,
		GeneratedAt:   time.Now().UTC(),
		TotalStartups: len(startups),
		TierBreakdown: make(map[string]int),
		Startups:      startups,
	}

	var scoreSum int
	for _, s := range startups {
		scoreSum += s.IndiaFitScore
		if s.PrimaryTier != "" {
			rpt.TierBreakdown[string(s.PrimaryTier)]++
		}
	}
	if len(startups) > 0 {
		rpt.AverageFitScore = float64(scoreSum) / float64(len(startups))
	}

	ranked := make([]types.Startup, len(startups))
	copy(ranked, startups)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].IndiaFitScore > ranked[j].IndiaFitScore
	})
	if len(ranked) > topN {
		ranked = ranked[:topN]
	}
	rpt.TopOpportunities = ranked

	if backend != nil && len(startups) > 0 {
		insights, err := generateInsights(ctx, backend, startups, cfg.Agent.MaxRetries)
		if err != nil {
			fmt.Fprintf(w, "warning: insights generation failed: %v\n", err)
		} else {
			rpt.Insights = insights
			storeInsights(ctx, st, runID, insights, w)
		}
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating report directory: %w", err)
	}

	path := filepath.Join(dir, "final_report.json")
	data, err := json.MarshalIndent(rpt, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshaling report: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("writing report: %w", err)
	}
	fmt.Fprintf(w, "report written to %s\n", path)

	if cfg.Report.CSVExport {
		csvPath := filepath.Join(dir, "startups.csv")
		if err := writeCSV(csvPath, startups); err != nil {
			return "", fmt.Errorf("writing CSV export: %w", err)
		}
		fmt.Fprintf(w, "CSV written to %s\n", csvPath)
	}

	return path, nil
}

func generateInsights(ctx context.Context, backend agent.Backend, startups []types.Startup, maxRetries int) (*Insights, error) {
	var prompt strings.Builder
	if err := insightsPrompt.Execute(&prompt, startups); err != nil {
		return nil, fmt.Errorf("building prompt: %w", err)
	}

	text, err := agent.CompleteWithRetry(ctx, backend, prompt.String(), maxRetries)
	if err != nil {
		return nil, err
	}

	raw, err := agent.ExtractJSON(text)
	if err != nil {
		return nil, err
	}

	var insights Insights
	if err := json.Unmarshal(raw, &insights); err != nil {
		return nil, fmt.Errorf("parsing insights: %w", err)
	}
	return &insights, nil
}

// storeInsights records the run's insights in the knowledge base so
// later runs and queries can see them. Failures only warn.
func storeInsights(ctx context.Context, st *store.Store, runID string, insights *Insights, w io.Writer) {
	entries := map[string][]string{
		"trending_categories": insights.TrendingCategories,
		"market_gaps":         insights.MarketGaps,
		"recommendations":     insights.Recommendations,
	}
	for category, values := range entries {
		if len(values) == 0 {
			continue
		}
		key := category + ":" + runID
		if err := st.PutKnowledge(ctx, key, strings.Join(values, "; "), category); err != nil {
			fmt.Fprintf(w, "warning: storing %s failed: %v\n", key, err)
		}
	}
}
