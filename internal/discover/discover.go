// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package discover finds recently founded startups by combining web
// search with LLM extraction, then deduplicates and persists them.
package discover

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"text/template"
	"time"

	"github.com/pdiddy/startup-scout/internal/agent"
	"github.com/pdiddy/startup-scout/internal/httputil"
	"github.com/pdiddy/startup-scout/internal/search"
	"github.com/pdiddy/startup-scout/internal/store"
	"github.com/pdiddy/startup-scout/pkg/types"
)

// extractPrompt asks the model to pull structured startup records out of
// raw search results. The model must answer with a JSON array only.
var extractPrompt = template.Must(template.New("extract").Parse(
	`You are a startup discovery analyst. Below are web search results for the query:
"{{.Query}}"

Search results:
{{range .Results}}
- Title: {{.Title}}
  URL: {{.URL}}
  Snippet: {{.Snippet}}
{{end}}
{{if .Pages}}
Page content from the top results:
{{range .Pages}}
--- {{.URL}} ---
{{.Text}}
{{end}}{{end}}

Extract every distinct startup company mentioned in these results that was
founded within the last {{.WindowDays}} days. Ignore established companies,
investors, and accelerators.

Respond with ONLY a JSON array. Each element must have these fields
(use "" when a value is unknown):
[
  {
    "name": "company name",
    "website": "https://...",
    "description": "one sentence on what they do",
    "category": "industry category, e.g. AI/ML, Fintech, Healthtech",
    "founded_date": "YYYY-MM-DD",
    "country": "country of origin",
    "founder_info": "founder names and backgrounds if mentioned"
  }
]

Return [] if no qualifying startups appear.`))

// maxExcerptChars bounds the page text handed to extraction per result.
const maxExcerptChars = 2000

// pageExcerpt is stripped page text for one fetched search result.
type pageExcerpt struct {
	URL  string
	Text string
}

// fetchExcerpts downloads up to n result pages and returns their stripped
// text. Unreachable pages are skipped with a warning.
func fetchExcerpts(ctx context.Context, client *http.Client, results []search.Result, n int, w io.Writer) []pageExcerpt {
	var pages []pageExcerpt
	for _, r := range results {
		if len(pages) >= n {
			break
		}
		if strings.TrimSpace(r.URL) == "" {
			continue
		}
		text, err := search.Fetch(ctx, client, r.URL)
		if err != nil {
			fmt.Fprintf(w, "warning: could not fetch %s: %v\n", r.URL, err)
			continue
		}
		if text == "" {
			continue
		}
		if len(text) > maxExcerptChars {
			text = text[:maxExcerptChars]
		}
		pages = append(pages, pageExcerpt{URL: r.URL, Text: text})
	}
	return pages
}

// candidate is one startup record as returned by the model.
type candidate struct {
	Name        string `json:"name"`
	Website     string `json:"website"`
	Description string `json:"description"`
	Category    string `json:"category"`
	FoundedDate string `json:"founded_date"`
	Country     string `json:"country"`
	FounderInfo string `json:"founder_info"`
}

// Summary holds counts from one discovery run.
type Summary struct {
	Found             int
	DuplicatesSkipped int
	Invalid           int
	QueriesUsed       int
}

// Discover runs the discovery stage for one run: it executes the
// date-windowed queries, extracts startup records from the results via
// the LLM backend, drops duplicates, and persists the rest under runID.
// It stops once cfg.Discovery.MaxStartups startups have been stored.
func Discover(ctx context.Context, backend agent.Backend, st *store.Store, backends []search.Backend, cfg types.PipelineConfig, runID string, w io.Writer) (Summary, error) {
	maxStartups := cfg.Discovery.MaxStartups
	if maxStartups <= 0 {
		maxStartups = 100
	}
	threshold := cfg.Discovery.FuzzyThreshold
	if threshold <= 0 {
		threshold = 0.85
	}

	knownNames, err := st.KnownNames(ctx)
	if err != nil {
		return Summary{}, fmt.Errorf("loading known names: %w", err)
	}

	client := httputil.NewClient(cfg.Search.HTTPConfig)

	var summary Summary
	queries := BuildQueries(time.Now(), cfg.Discovery.WindowDays)

	for _, query := range queries {
		if summary.Found >= maxStartups {
			break
		}

		select {
		case <-ctx.Done():
			return summary, ctx.Err()
		default:
		}

		summary.QueriesUsed++
		fmt.Fprintf(w, "searching: %s\n", query)

		out, err := search.Search(ctx, query, backends, cfg.Search, w)
		if err != nil {
			fmt.Fprintf(w, "warning: search failed for %q: %v\n", query, err)
			continue
		}
		if len(out.Results) == 0 {
			continue
		}

		var pages []pageExcerpt
		if cfg.Discovery.FetchPages > 0 {
			pages = fetchExcerpts(ctx, client, out.Results, cfg.Discovery.FetchPages, w)
		}

		candidates, err := extractCandidates(ctx, backend, query, out.Results, pages, cfg)
		if err != nil {
			return summary, fmt.Errorf("extracting startups for %q: %w", query, err)
		}

		for _, c := range candidates {
			if summary.Found >= maxStartups {
				break
			}
			if strings.TrimSpace(c.Name) == "" {
				summary.Invalid++
				continue
			}

			name := strings.TrimSpace(c.Name)
			if fuzzyMatch(name, knownNames, threshold) {
				summary.DuplicatesSkipped++
				continue
			}

			startup := &types.Startup{
				RunID:       runID,
				Name:        name,
				Website:     strings.TrimSpace(c.Website),
				Description: strings.TrimSpace(c.Description),
				Category:    strings.TrimSpace(c.Category),
				FoundedDate: strings.TrimSpace(c.FoundedDate),
				Country:     strings.TrimSpace(c.Country),
				FounderInfo: strings.TrimSpace(c.FounderInfo),
				Source:      "web_search",
				DedupHash:   Hash(c.Name, c.Website, c.FoundedDate),
			}

			inserted, err := st.InsertStartup(ctx, startup)
			if err != nil {
				return summary, fmt.Errorf("storing startup %q: %w", name, err)
			}
			if !inserted {
				summary.DuplicatesSkipped++
				continue
			}

			knownNames = append(knownNames, name)
			summary.Found++
			fmt.Fprintf(w, "found %s (%s)\n", name, startup.Category)
		}
	}

	fmt.Fprintf(w, "\ndiscovered: %d, duplicates skipped: %d, invalid: %d, queries: %d\n",
		summary.Found, summary.DuplicatesSkipped, summary.Invalid, summary.QueriesUsed)
	return summary, nil
}

func extractCandidates(ctx context.Context, backend agent.Backend, query string, results []search.Result, pages []pageExcerpt, cfg types.PipelineConfig) ([]candidate, error) {
	windowDays := cfg.Discovery.WindowDays
	if windowDays <= 0 {
		windowDays = 30
	}

	var prompt strings.Builder
	err := extractPrompt.Execute(&prompt, struct {
		Query      string
		Results    []search.Result
		Pages      []pageExcerpt
		WindowDays int
	}{Query: query, Results: results, Pages: pages, WindowDays: windowDays})
	if err != nil {
		return nil, fmt.Errorf("building prompt: %w", err)
	}

	text, err := agent.CompleteWithRetry(ctx, backend, prompt.String(), cfg.Agent.MaxRetries)
	if err != nil {
		return nil, err
	}

	raw, err := agent.ExtractJSON(text)
	if err != nil {
		return nil, err
	}

	var candidates []candidate
	if err := json.Unmarshal(raw, &candidates); err != nil {
		return nil, fmt.Errorf("parsing startup list: %w", err)
	}
	return candidates, nil
}
