// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/pdiddy/startup-scout/internal/httputil"
	"github.com/pdiddy/startup-scout/pkg/types"
)

// braveSearchBase is the Brave Web Search API endpoint. Declared as a var
// so tests can substitute an httptest server.
var braveSearchBase = "https://api.search.brave.com/res/v1/web/search"

// braveGate serializes Brave requests per API key. The free tier allows
// one request per second per key, shared across all Brave instances.
var braveGate struct {
	mu   sync.Mutex
	next map[string]time.Time
}

// braveWait blocks until a request for apiKey is allowed, then reserves
// the next one-second slot. Returns ctx.Err() if the context expires
// while waiting.
func braveWait(ctx context.Context, apiKey string) error {
	braveGate.mu.Lock()
	if braveGate.next == nil {
		braveGate.next = make(map[string]time.Time)
	}
	wait := time.Until(braveGate.next[apiKey])
	if wait < 0 {
		wait = 0
	}
	braveGate.next[apiKey] = time.Now().Add(wait + time.Second)
	braveGate.mu.Unlock()

	if wait == 0 {
		return nil
	}
	select {
	case <-time.After(wait):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Brave queries the Brave Web Search API.
type Brave struct {
	Client *http.Client
	APIKey string
}

// Name returns the backend identifier.
func (b *Brave) Name() string { return "brave" }

// Search queries the Brave API and returns results.
func (b *Brave) Search(ctx context.Context, query string, cfg types.SearchConfig) ([]Result, error) {
	if err := braveWait(ctx, b.APIKey); err != nil {
		return nil, err
	}

	count := cfg.MaxResultsPerQuery
	if count <= 0 {
		count = 10
	}
	if count > 20 {
		count = 20
	}

	params := url.Values{
		"q":     {query},
		"count": {fmt.Sprintf("%d", count)},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, braveSearchBase+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Subscription-Token", b.APIKey)
	req.Header.Set("User-Agent", cfg.UserAgent)

	resp, err := httputil.DoWithRetry(ctx, b.Client, req, 0)
	if err != nil {
		return nil, fmt.Errorf("Brave search request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("Brave search returned HTTP %d", resp.StatusCode)
	}

	var br braveResponse
	if err := json.NewDecoder(resp.Body).Decode(&br); err != nil {
		return nil, fmt.Errorf("parsing Brave search response: %w", err)
	}

	results := make([]Result, 0, len(br.Web.Results))
	for _, item := range br.Web.Results {
		results = append(results, Result{
			Title:   item.Title,
			URL:     item.URL,
			Snippet: item.Description,
			Source:  "brave",
		})
	}
	return results, nil
}

// Brave Web Search API JSON structures.
type braveResponse struct {
	Web braveWeb `json:"web"`
}

type braveWeb struct {
	Results []braveResult `json:"results"`
}

type braveResult struct {
	Title       string `json:"title"`
	URL         string `json:"url"`
	Description string `json:"description"`
}
