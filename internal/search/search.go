// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package search queries web search APIs and returns unified, deduplicated results.
package search

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"
	"unicode"

	"github.com/pdiddy/startup-scout/internal/httputil"
	"github.com/pdiddy/startup-scout/pkg/types"
)

// Result is a single web search hit.
type Result struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Snippet string `json:"snippet"`
	Source  string `json:"source"`
}

// Backend searches a single web search API. Each backend (Google Custom
// Search, Brave, DuckDuckGo) implements this interface.
type Backend interface {
	Name() string
	Search(ctx context.Context, query string, cfg types.SearchConfig) ([]Result, error)
}

// Output holds the merged results and dedup statistics for one query batch.
type Output struct {
	Results       []Result
	DupsRemoved   int
	BackendErrors []string
}

// Backends assembles the enabled backends from config. Backends whose
// credentials are missing are skipped with a warning rather than failing
// the stage.
func Backends(cfg types.SearchConfig, w io.Writer) []Backend {
	client := httputil.NewClient(cfg.HTTPConfig)

	var backends []Backend
	if cfg.EnableGoogle {
		if cfg.GoogleAPIKey == "" || cfg.GoogleEngineID == "" {
			fmt.Fprintln(w, "warning: Google search enabled but google-search-api-key or google-search-engine-id missing, skipping backend")
		} else {
			backends = append(backends, &GoogleCSE{Client: client, APIKey: cfg.GoogleAPIKey, EngineID: cfg.GoogleEngineID})
		}
	}
	if cfg.EnableBrave {
		if cfg.BraveAPIKey == "" {
			fmt.Fprintln(w, "warning: Brave search enabled but brave-api-key missing, skipping backend")
		} else {
			backends = append(backends, &Brave{Client: client, APIKey: cfg.BraveAPIKey})
		}
	}
	if cfg.EnableDuckDuckGo {
		backends = append(backends, &DuckDuckGo{Client: client})
	}
	return backends
}

// Search fans out the query to all backends concurrently, merges and
// deduplicates the results, and caps them at cfg.MaxResultsPerQuery.
// A failing backend is reported in Output.BackendErrors; the search only
// errors when every backend fails.
func Search(ctx context.Context, query string, backends []Backend, cfg types.SearchConfig, w io.Writer) (Output, error) {
	if strings.TrimSpace(query) == "" {
		return Output{}, fmt.Errorf("query is empty")
	}
	if len(backends) == 0 {
		return Output{}, fmt.Errorf("no search backends configured")
	}

	type backendResult struct {
		results []Result
		err     error
		name    string
	}

	ch := make(chan backendResult, len(backends))
	var wg sync.WaitGroup

	for i, b := range backends {
		wg.Add(1)
		go func(b Backend, delay time.Duration) {
			defer wg.Done()
			// Stagger the backends so they do not all hit their APIs in
			// the same instant. The delay honors cancellation.
			if delay > 0 {
				select {
				case <-time.After(delay):
				case <-ctx.Done():
					ch <- backendResult{err: ctx.Err(), name: b.Name()}
					return
				}
			}
			results, err := b.Search(ctx, query, cfg)
			ch <- backendResult{results: results, err: err, name: b.Name()}
		}(b, time.Duration(i)*cfg.InterBackendDelay)
	}

	go func() {
		wg.Wait()
		close(ch)
	}()

	var all []Result
	var backendErrors []string
	for br := range ch {
		if br.err != nil {
			msg := fmt.Sprintf("%s: %v", br.name, br.err)
			backendErrors = append(backendErrors, msg)
			fmt.Fprintf(w, "warning: backend %s failed: %v\n", br.name, br.err)
			continue
		}
		all = append(all, br.results...)
	}

	if len(backendErrors) == len(backends) {
		return Output{BackendErrors: backendErrors},
			fmt.Errorf("all %d search backends failed", len(backends))
	}

	deduped, removed := deduplicate(all)

	if cfg.MaxResultsPerQuery > 0 && len(deduped) > cfg.MaxResultsPerQuery {
		deduped = deduped[:cfg.MaxResultsPerQuery]
	}

	return Output{
		Results:       deduped,
		DupsRemoved:   removed,
		BackendErrors: backendErrors,
	}, nil
}

// deduplicate merges results that share a URL or normalized title.
func deduplicate(results []Result) ([]Result, int) {
	seen := make(map[string]int) // dedup key → index in deduped
	var deduped []Result
	removed := 0

	for _, r := range results {
		urlKey := ""
		if r.URL != "" {
			urlKey = "url:" + strings.TrimRight(strings.ToLower(r.URL), "/")
		}
		titleKey := "title:" + normalizeTitle(r.Title)

		if idx, ok := seen[urlKey]; urlKey != "url:" && ok {
			mergeInto(&deduped[idx], r)
			removed++
			continue
		}
		if idx, ok := seen[titleKey]; titleKey != "title:" && ok {
			mergeInto(&deduped[idx], r)
			removed++
			continue
		}

		idx := len(deduped)
		deduped = append(deduped, r)
		if urlKey != "url:" {
			seen[urlKey] = idx
		}
		if titleKey != "title:" {
			seen[titleKey] = idx
		}
	}
	return deduped, removed
}

// mergeInto fills empty fields of dst from src and records both sources.
func mergeInto(dst *Result, src Result) {
	if dst.Snippet == "" && src.Snippet != "" {
		dst.Snippet = src.Snippet
	}
	if dst.URL == "" && src.URL != "" {
		dst.URL = src.URL
	}
	if dst.Source != src.Source && !strings.Contains(dst.Source, src.Source) {
		dst.Source = dst.Source + "," + src.Source
	}
}

// normalizeTitle returns a lowercased, punctuation-stripped version of the title.
func normalizeTitle(title string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(title) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r) {
			b.WriteRune(r)
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}
