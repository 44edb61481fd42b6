// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package analyze scores discovered startups for Indian market fit.
package analyze

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

// scorePrompt asks the model to rate a batch of startups for Indian
// market viability. The model must answer with a JSON array only.
var scorePrompt = template.Must(template.New("score").Parse(
	`You are an Indian market analyst. Rate each startup below on how viable
its product or service would be in the Indian market, as an integer score
from 0 (no fit) to 100 (excellent fit). Consider pricing sensitivity,
infrastructure requirements, regulatory environment, localization needs,
and existing Indian competitors.

Startups:
{{range .}}
- Name: {{.Name}}
  Category: {{.Category}}
  Description: {{.Description}}
  Country: {{.Country}}
  Website: {{.Website}}
{{end}}

Respond with ONLY a JSON array, one element per startup, matching by name:
[
  {
    "name": "exact name from the list above",
    "india_fit_score": 0,
    "analysis": "2-3 sentences explaining the score"
  }
]`))

// scored is one analysis result as returned by the model.
type scored struct {
	Name          string `json:"name"`
	IndiaFitScore int    `json:"india_fit_score"`
	Analysis      string `json:"analysis"`
}

// Summary holds counts from one analysis run.
type Summary struct {
	Analyzed   int
	AboveMin   int
	Unmatched  int
	BatchCalls int
}

// Analyze scores all startups from the given run in batches and persists
// the score and analysis text for each. Startups the model fails to
// match by name are left unscored and counted in Summary.Unmatched.
func Analyze(ctx context.Context, backend agent.Backend, st *store.Store, cfg types.PipelineConfig, runID string, w io.Writer) (Summary, error) {
	batchSize := cfg.Analysis.BatchSize
	if batchSize <= 0 {
		batchSize = 8
	}
	minScore := cfg.Analysis.MinFitScore
	if minScore <= 0 {
		minScore = 40
	}

	startups, err := st.StartupsByRun(ctx, runID)
	if err != nil {
		return Summary{}, fmt.Errorf("loading startups for run %s: %w", runID, err)
	}
	if len(startups) == 0 {
		fmt.Fprintln(w, "no startups to analyze")
		return Summary{}, nil
	}

	var summary Summary
	for start := 0; start < len(startups); start += batchSize {
		select {
		case <-ctx.Done():
			return summary, ctx.Err()
		default:
		}

		end := min(start+batchSize, len(startups))
		batch := startups[start:end]
		summary.BatchCalls++

		results, err := scoreBatch(ctx, backend, batch, cfg.Agent.MaxRetries)
		if err != nil {
			return summary, fmt.Errorf("scoring batch %d: %w", summary.BatchCalls, err)
		}

		byName := make(map[string]scored, len(results))
		for _, r := range results {
			byName[normalizeKey(r.Name)] = r
		}

		for _, s := range batch {
			r, ok := byName[normalizeKey(s.Name)]
			if !ok {
				summary.Unmatched++
				fmt.Fprintf(w, "warning: no score returned for %q\n", s.Name)
				continue
			}

			score := clampScore(r.IndiaFitScore)
			if err := st.UpdateAnalysis(ctx, s.DedupHash, score, strings.TrimSpace(r.Analysis)); err != nil {
				return summary, err
			}
			summary.Analyzed++
			if score >= minScore {
				summary.AboveMin++
			}
			fmt.Fprintf(w, "scored %s: %d\n", s.Name, score)
		}
	}

	fmt.Fprintf(w, "\nanalyzed: %d, above minimum: %d, unmatched: %d, batches: %d\n",
		summary.Analyzed, summary.AboveMin, summary.Unmatched, summary.BatchCalls)
	return summary, nil
}

func scoreBatch(ctx context.Context, backend agent.Backend, batch []types.Startup, maxRetries int) ([]scored, error) {
	var prompt strings.Builder
	if err := scorePrompt.Execute(&prompt, batch); err != nil {
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

	var results []scored
	if err := json.Unmarshal(raw, &results); err != nil {
		return nil, fmt.Errorf("parsing scores: %w", err)
	}
	return results, nil
}

func clampScore(score int) int {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

func normalizeKey(name string) string {
	return strings.Join(strings.Fields(strings.ToLower(name)), " ")
}
