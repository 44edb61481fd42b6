package search

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/pdiddy/startup-scout/pkg/types"
)

// --- mock backend ---

type mockBackend struct {
	name    string
	results []Result
	err     error
}

func (m *mockBackend) Name() string { return m.name }

func (m *mockBackend) Search(_ context.Context, _ string, _ types.SearchConfig) ([]Result, error) {
	return m.results, m.err
}

func testCfg() types.SearchConfig {
	return types.SearchConfig{
		HTTPConfig: types.HTTPConfig{
			Timeout:   10 * time.Second,
			UserAgent: "test/0.1",
		},
		MaxResultsPerQuery: 10,
		InterBackendDelay:  0,
	}
}

// --- Deduplication ---

func TestDeduplicateByURL(t *testing.T) {
	results := []Result{
		{Title: "Acme launches", URL: "https://news.example/acme", Source: "google", Snippet: "Acme launched today"},
		{Title: "Acme launches (repost)", URL: "https://news.example/acme/", Source: "brave"},
		{Title: "Other story", URL: "https://news.example/other", Source: "google"},
	}

	deduped, removed := deduplicate(results)
	if removed != 1 {
		t.Errorf("removed = %d, want 1", removed)
	}
	if len(deduped) != 2 {
		t.Fatalf("len(deduped) = %d, want 2", len(deduped))
	}
	// Merged result should combine sources.
	if !strings.Contains(deduped[0].Source, "brave") {
		t.Errorf("merged source = %q, should contain both backends", deduped[0].Source)
	}
}

func TestDeduplicateByTitle(t *testing.T) {
	results := []Result{
		{Title: "New Startup Raises Seed Round", URL: "https://a.example/1", Source: "google"},
		{Title: "new startup raises seed round!", URL: "https://b.example/2", Source: "duckduckgo"},
	}

	deduped, removed := deduplicate(results)
	if removed != 1 {
		t.Errorf("removed = %d, want 1", removed)
	}
	if len(deduped) != 1 {
		t.Fatalf("len(deduped) = %d, want 1", len(deduped))
	}
}

func TestDeduplicateNoDuplicates(t *testing.T) {
	results := []Result{
		{Title: "Story A", URL: "https://a.example", Source: "google"},
		{Title: "Story B", URL: "https://b.example", Source: "google"},
	}

	deduped, removed := deduplicate(results)
	if removed != 0 {
		t.Errorf("removed = %d, want 0", removed)
	}
	if len(deduped) != 2 {
		t.Errorf("len(deduped) = %d, want 2", len(deduped))
	}
}

// --- Search fan-out ---

func TestSearchEmptyQuery(t *testing.T) {
	var buf bytes.Buffer
	_, err := Search(context.Background(), "  ", []Backend{&mockBackend{name: "a"}}, testCfg(), &buf)
	if err == nil {
		t.Fatal("expected error for empty query")
	}
}

func TestSearchNoBackends(t *testing.T) {
	var buf bytes.Buffer
	_, err := Search(context.Background(), "startups", nil, testCfg(), &buf)
	if err == nil {
		t.Fatal("expected error for no backends")
	}
}

func TestSearchMergesBackends(t *testing.T) {
	backends := []Backend{
		&mockBackend{name: "google", results: []Result{
			{Title: "Acme", URL: "https://acme.example", Source: "google"},
		}},
		&mockBackend{name: "brave", results: []Result{
			{Title: "Beta Corp", URL: "https://beta.example", Source: "brave"},
		}},
	}

	var buf bytes.Buffer
	out, err := Search(context.Background(), "startups founded 2026", backends, testCfg(), &buf)
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(out.Results) != 2 {
		t.Errorf("len(results) = %d, want 2", len(out.Results))
	}
}

func TestSearchToleratesOneFailingBackend(t *testing.T) {
	backends := []Backend{
		&mockBackend{name: "google", err: fmt.Errorf("quota exceeded")},
		&mockBackend{name: "duckduckgo", results: []Result{
			{Title: "Acme", URL: "https://acme.example", Source: "duckduckgo"},
		}},
	}

	var buf bytes.Buffer
	out, err := Search(context.Background(), "startups", backends, testCfg(), &buf)
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(out.Results) != 1 {
		t.Errorf("len(results) = %d, want 1", len(out.Results))
	}
	if len(out.BackendErrors) != 1 {
		t.Errorf("len(backendErrors) = %d, want 1", len(out.BackendErrors))
	}
	if !strings.Contains(buf.String(), "google") {
		t.Errorf("warning output should name the failed backend, got %q", buf.String())
	}
}

func TestSearchAllBackendsFail(t *testing.T) {
	backends := []Backend{
		&mockBackend{name: "google", err: fmt.Errorf("quota exceeded")},
		&mockBackend{name: "brave", err: fmt.Errorf("401")},
	}

	var buf bytes.Buffer
	_, err := Search(context.Background(), "startups", backends, testCfg(), &buf)
	if err == nil {
		t.Fatal("expected error when all backends fail")
	}
}

func TestSearchCapsResults(t *testing.T) {
	var results []Result
	for i := 0; i < 30; i++ {
		results = append(results, Result{
			Title: fmt.Sprintf("Story %d", i),
			URL:   fmt.Sprintf("https://example.com/%d", i),
		})
	}
	backends := []Backend{&mockBackend{name: "google", results: results}}

	cfg := testCfg()
	cfg.MaxResultsPerQuery = 5

	var buf bytes.Buffer
	out, err := Search(context.Background(), "startups", backends, cfg, &buf)
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(out.Results) != 5 {
		t.Errorf("len(results) = %d, want 5", len(out.Results))
	}
}

func TestSearchStaggerHonorsCancellation(t *testing.T) {
	backends := []Backend{
		&mockBackend{name: "google", results: []Result{
			{Title: "Acme", URL: "https://acme.example", Source: "google"},
		}},
		&mockBackend{name: "brave", results: []Result{
			{Title: "Beta Corp", URL: "https://beta.example", Source: "brave"},
		}},
	}

	cfg := testCfg()
	cfg.InterBackendDelay = time.Minute

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var buf bytes.Buffer
	start := time.Now()
	out, err := Search(ctx, "startups", backends, cfg, &buf)
	if elapsed := time.Since(start); elapsed > 2*time.Second {
		t.Fatalf("Search() took %v, should abort the stagger delay on cancellation", elapsed)
	}
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	// The first backend has no delay and still reports; the staggered
	// one surfaces the cancellation as a backend error.
	if len(out.Results) != 1 {
		t.Errorf("len(results) = %d, want 1", len(out.Results))
	}
	if len(out.BackendErrors) != 1 {
		t.Errorf("len(backendErrors) = %d, want 1", len(out.BackendErrors))
	}
}

// --- Backends assembly ---

func TestBackendsSkipsUnconfigured(t *testing.T) {
	cfg := testCfg()
	cfg.EnableGoogle = true // no key or engine id
	cfg.EnableDuckDuckGo = true

	var buf bytes.Buffer
	backends := Backends(cfg, &buf)
	if len(backends) != 1 {
		t.Fatalf("len(backends) = %d, want 1", len(backends))
	}
	if backends[0].Name() != "duckduckgo" {
		t.Errorf("backend = %q, want duckduckgo", backends[0].Name())
	}
	if !strings.Contains(buf.String(), "warning") {
		t.Errorf("expected a warning about missing keys, got %q", buf.String())
	}
}

func TestBackendsAllConfigured(t *testing.T) {
	cfg := testCfg()
	cfg.EnableGoogle = true
	cfg.GoogleAPIKey = "key"
	cfg.GoogleEngineID = "cx"
	cfg.EnableBrave = true
	cfg.BraveAPIKey = "bk"
	cfg.EnableDuckDuckGo = true

	var buf bytes.Buffer
	backends := Backends(cfg, &buf)
	if len(backends) != 3 {
		t.Fatalf("len(backends) = %d, want 3", len(backends))
	}
}

func TestNormalizeTitle(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Acme, Inc. Launches!", "acme inc launches"},
		{"  Spaced   Out  ", "spaced out"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := normalizeTitle(tt.in); got != tt.want {
			t.Errorf("normalizeTitle(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
