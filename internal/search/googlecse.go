// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/pdiddy/startup-scout/internal/httputil"
	"github.com/pdiddy/startup-scout/pkg/types"
)

// googleCSEBase is the Google Custom Search JSON API endpoint. Declared as
// a var so tests can substitute an httptest server.
var googleCSEBase = "https://www.googleapis.com/customsearch/v1"

// googleCSEMaxPerPage is the API's hard per-request cap.
const googleCSEMaxPerPage = 10

// GoogleCSE queries the Google Custom Search JSON API.
type GoogleCSE struct {
	Client   *http.Client
	APIKey   string
	EngineID string
}

// Name returns the backend identifier.
func (b *GoogleCSE) Name() string { return "google" }

// Search queries the Custom Search API and returns results.
func (b *GoogleCSE) Search(ctx context.Context, query string, cfg types.SearchConfig) ([]Result, error) {
	num := cfg.MaxResultsPerQuery
	if num <= 0 || num > googleCSEMaxPerPage {
		num = googleCSEMaxPerPage
	}

	params := url.Values{
		"q":   {query},
		"key": {b.APIKey},
		"cx":  {b.EngineID},
		"num": {fmt.Sprintf("%d", num)},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, googleCSEBase+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", cfg.UserAgent)

	resp, err := httputil.DoWithRetry(ctx, b.Client, req, 0)
	if err != nil {
		return nil, fmt.Errorf("Google search request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("Google search returned HTTP %d", resp.StatusCode)
	}

	var gr googleCSEResponse
	if err := json.NewDecoder(resp.Body).Decode(&gr); err != nil {
		return nil, fmt.Errorf("parsing Google search response: %w", err)
	}

	results := make([]Result, 0, len(gr.Items))
	for _, item := range gr.Items {
		results = append(results, Result{
			Title:   item.Title,
			URL:     item.Link,
			Snippet: item.Snippet,
			Source:  "google",
		})
	}
	return results, nil
}

// Google Custom Search API JSON structures.
type googleCSEResponse struct {
	Items []googleCSEItem `json:"items"`
}

type googleCSEItem struct {
	Title   string `json:"title"`
	Link    string `json:"link"`
	Snippet string `json:"snippet"`
}
