// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"context"
	"fmt"
	"html"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/pdiddy/startup-scout/pkg/types"
)

// ddgBase is the DuckDuckGo lite endpoint, stable for scraping and usable
// without an API key. Declared as a var so tests can substitute an
// httptest server.
var ddgBase = "https://lite.duckduckgo.com/lite/"

// ddgGate enforces a global rate limit of 1 query per second across all
// DuckDuckGo instances and goroutines.
var ddgGate struct {
	mu   sync.Mutex
	next time.Time
}

// ddgWait blocks until the next query is allowed, reserving the
// one-second slot under the lock so concurrent callers queue instead of
// passing together. Returns ctx.Err() if the context expires while
// waiting.
func ddgWait(ctx context.Context) error {
	ddgGate.mu.Lock()
	wait := time.Until(ddgGate.next)
	if wait < 0 {
		wait = 0
	}
	ddgGate.next = time.Now().Add(wait + time.Second)
	ddgGate.mu.Unlock()

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

// DuckDuckGo scrapes the DuckDuckGo lite HTML interface. It is the
// keyless fallback when no API-backed search is configured.
type DuckDuckGo struct {
	Client *http.Client
}

// Name returns the backend identifier.
func (b *DuckDuckGo) Name() string { return "duckduckgo" }

// Search posts the query to the lite endpoint and scrapes the result list.
func (b *DuckDuckGo) Search(ctx context.Context, query string, cfg types.SearchConfig) ([]Result, error) {
	if err := ddgWait(ctx); err != nil {
		return nil, err
	}

	form := url.Values{}
	form.Set("q", query)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, ddgBase, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("User-Agent", "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36")

	resp, err := b.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("DuckDuckGo request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("DuckDuckGo returned HTTP %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading DuckDuckGo response: %w", err)
	}

	results := parseDDGResults(string(body))
	if cfg.MaxResultsPerQuery > 0 && len(results) > cfg.MaxResultsPerQuery {
		results = results[:cfg.MaxResultsPerQuery]
	}
	return results, nil
}

// ddgLinkPattern matches result links in the lite HTML:
// <a rel="nofollow" href="URL" class='result-link'>TITLE</a>. The lite page
// sometimes orders the attributes the other way, hence the second pattern.
var (
	ddgLinkPattern    = regexp.MustCompile(`<a[^>]*class=['"]result-link['"][^>]*href=['"]([^'"]+)['"][^>]*>([^<]+)</a>`)
	ddgLinkPatternAlt = regexp.MustCompile(`<a[^>]*href=['"]([^'"]+)['"][^>]*class=['"]result-link['"][^>]*>([^<]+)</a>`)
	ddgSnippetPattern = regexp.MustCompile(`<td[^>]*class=['"]result-snippet['"][^>]*>(.*?)</td>`)
	htmlTagPattern    = regexp.MustCompile(`<[^>]+>`)
)

// parseDDGResults extracts results from the DuckDuckGo lite HTML. Links
// and snippets appear in matching order in the lite layout.
func parseDDGResults(page string) []Result {
	matches := ddgLinkPatternAlt.FindAllStringSubmatch(page, -1)
	if len(matches) == 0 {
		matches = ddgLinkPattern.FindAllStringSubmatch(page, -1)
	}
	snippets := ddgSnippetPattern.FindAllStringSubmatch(page, -1)

	var results []Result
	for i, m := range matches {
		link := strings.TrimSpace(html.UnescapeString(m[1]))
		title := strings.TrimSpace(html.UnescapeString(m[2]))
		if link == "" || title == "" {
			continue
		}

		snippet := ""
		if i < len(snippets) {
			snippet = strings.TrimSpace(html.UnescapeString(htmlTagPattern.ReplaceAllString(snippets[i][1], "")))
		}

		results = append(results, Result{
			Title:   title,
			URL:     link,
			Snippet: snippet,
			Source:  "duckduckgo",
		})
	}
	return results
}
