// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"context"
	"fmt"
	"html"
	"io"
	"net/http"
	"regexp"
	"strings"
)

// maxFetchBytes bounds fetched page text so one page cannot swamp the
// LLM context window.
const maxFetchBytes = 32 * 1024

var (
	scriptPattern = regexp.MustCompile(`(?is)<script.*?</script>`)
	stylePattern  = regexp.MustCompile(`(?is)<style.*?</style>`)
	tagPattern    = regexp.MustCompile(`<[^>]+>`)
	spacePattern  = regexp.MustCompile(`\s+`)
)

// Fetch downloads the URL, strips HTML to plain text, and truncates to
// maxFetchBytes. Used to enrich discovered startups with page content.
func Fetch(ctx context.Context, client *http.Client, rawURL string) (string, error) {
	trimmed := strings.TrimSpace(rawURL)
	if trimmed == "" {
		return "", fmt.Errorf("fetch url is empty")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, trimmed, nil)
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36")

	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetching %s: %w", trimmed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("fetching %s: HTTP %d", trimmed, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4*maxFetchBytes))
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", trimmed, err)
	}

	text := stripHTML(string(body))
	if len(text) > maxFetchBytes {
		text = text[:maxFetchBytes]
	}
	return text, nil
}

// stripHTML removes scripts, styles, and tags, then collapses whitespace.
func stripHTML(page string) string {
	page = scriptPattern.ReplaceAllString(page, " ")
	page = stylePattern.ReplaceAllString(page, " ")
	page = tagPattern.ReplaceAllString(page, " ")
	page = html.UnescapeString(page)
	return strings.TrimSpace(spacePattern.ReplaceAllString(page, " "))
}
