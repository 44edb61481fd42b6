// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package tier classifies analyzed startups into Indian urban market tiers.
package tier

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/template"

	"github.com/pdiddy/startup-scout/internal/agent"
	"github.com/pdiddy/startup-scout/internal/store"
	"github.com/pdiddy/startup-scout/pkg/types"
)

// tierPrompt asks the model to place a batch of startups into market
// tiers. The city lists define each tier for the model.
var tierPrompt = template.Must(template.New("tier").Parse(
	`You are an Indian go-to-market strategist. Classify each startup below
into the Indian urban market tier where its product would find the best
initial traction.

Tiers:
- "Tier 1": metropolitan markets ({{index .Cities "Tier 1"}})
- "Tier 2": major urban markets ({{index .Cities "Tier 2"}})
- "Tier 3": emerging urban markets ({{index .Cities "Tier 3"}})

Startups:
{{range .Startups}}
- Name: {{.Name}}
  Category: {{.Category}}
  Description: {{.Description}}
  India fit analysis: {{.IndiaFitAnalysis}}
{{end}}

Respond with ONLY a JSON array, one element per startup, matching by name.
Tier values must be exactly "Tier 1", "Tier 2", or "Tier 3":
[
  {
    "name": "exact name from the list above",
    "primary_tier": "Tier 1",
    "secondary_tiers": ["Tier 2"]
  }
]`))

// classified is one tier assignment as returned by the model.
type classified struct {
	Name           string   `json:"name"`
	PrimaryTier    string   `json:"primary_tier"`
	SecondaryTiers []string `json:"secondary_tiers"`
}

// Summary holds counts from one categorization run.
type Summary struct {
	Categorized int
	Skipped     int
	Invalid     int
	BatchCalls  int
}

// Categorize assigns market tiers to the run's startups that scored at
// or above the minimum fit score. Assignments with an unknown tier value
// are rejected and counted in Summary.Invalid.
func Categorize(ctx context.Context, backend agent.Backend, st *store.Store, cfg types.PipelineConfig, runID string, w io.Writer) (Summary, error) {
	batchSize := cfg.Analysis.BatchSize
	if batchSize <= 0 {
		batchSize = 8
	}
	minScore := cfg.Analysis.MinFitScore
	if minScore <= 0 {
		minScore = 40
	}

	all, err := st.StartupsByRun(ctx, runID)
	if err != nil {
		return Summary{}, fmt.Errorf("loading startups for run %s: %w", runID, err)
	}

	var summary Summary
	var eligible []types.Startup
	for _, s := range all {
		if s.IndiaFitScore >= minScore {
			eligible = append(eligible, s)
		} else {
			summary.Skipped++
		}
	}
	if len(eligible) == 0 {
		fmt.Fprintln(w, "no startups above minimum fit score to categorize")
		return summary, nil
	}

	cities := make(map[string]string, len(types.TierCities))
	for t, cs := range types.TierCities {
		cities[string(t)] = strings.Join(cs, ", ")
	}

	for start := 0; start < len(eligible); start += batchSize {
		select {
		case <-ctx.Done():
			return summary, ctx.Err()
		default:
		}

		end := min(start+batchSize, len(eligible))
		batch := eligible[start:end]
		summary.BatchCalls++

		results, err := classifyBatch(ctx, backend, batch, cities, cfg.Agent.MaxRetries)
		if err != nil {
			return summary, fmt.Errorf("classifying batch %d: %w", summary.BatchCalls, err)
		}

		byName := make(map[string]classified, len(results))
		for _, r := range results {
			byName[normalizeKey(r.Name)] = r
		}

		for _, s := range batch {
			r, ok := byName[normalizeKey(s.Name)]
			if !ok {
				summary.Invalid++
				fmt.Fprintf(w, "warning: no tier returned for %q\n", s.Name)
				continue
			}
			if !types.ValidTier(r.PrimaryTier) {
				summary.Invalid++
				fmt.Fprintf(w, "warning: rejected tier %q for %q\n", r.PrimaryTier, s.Name)
				continue
			}

			var secondary []types.Tier
			for _, st2 := range r.SecondaryTiers {
				if types.ValidTier(st2) && st2 != r.PrimaryTier {
					secondary = append(secondary, types.Tier(st2))
				}
			}

			if err := st.UpdateTier(ctx, s.DedupHash, types.Tier(r.PrimaryTier), secondary); err != nil {
				return summary, err
			}
			summary.Categorized++
			fmt.Fprintf(w, "categorized %s: %s\n", s.Name, r.PrimaryTier)
		}
	}

	fmt.Fprintf(w, "\ncategorized: %d, below minimum: %d, invalid: %d, batches: %d\n",
		summary.Categorized, summary.Skipped, summary.Invalid, summary.BatchCalls)
	return summary, nil
}

func classifyBatch(ctx context.Context, backend agent.Backend, batch []types.Startup, cities map[string]string, maxRetries int) ([]classified, error) {
	var prompt strings.Builder
	err := tierPrompt.Execute(&prompt, struct {
		Cities   map[string]string
		Startups []types.Startup
	}{Cities: cities, Startups: batch})
	if err != nil {
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

	var results []classified
	if err := json.Unmarshal(raw, &results); err != nil {
		return nil, fmt.Errorf("parsing tier assignments: %w", err)
	}
	return results, nil
}

func normalizeKey(name string) string {
	return strings.Join(strings.Fields(strings.ToLower(name)), " ")
}
