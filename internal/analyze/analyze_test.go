package analyze

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pdiddy/startup-scout/internal/store"
	"github.com/pdiddy/startup-scout/pkg/types"
)

// --- test helpers ---

// echoBackend scores every startup it sees in the prompt with a fixed score.
type echoBackend struct {
	score    int
	analysis string
	calls    int
	prompts  []string
}

func (b *echoBackend) Complete(ctx context.Context, prompt string) (string, error) {
	b.calls++
	b.prompts = append(b.prompts, prompt)

	var parts []string
	for _, line := range strings.Split(prompt, "\n") {
		if name, ok := strings.CutPrefix(strings.TrimSpace(line), "- Name: "); ok {
			parts = append(parts, fmt.Sprintf(
				`{"name": %q, "india_fit_score": %d, "analysis": %q}`,
				name, b.score, b.analysis))
		}
	}
	return "[" + strings.Join(parts, ",") + "]", nil
}

func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.NewStore(types.StoreConfig{DBPath: filepath.Join(t.TempDir(), "test.db")})
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func seedStartups(t *testing.T, s *store.Store, runID string, names ...string) {
	t.Helper()
	for _, name := range names {
		st := &types.Startup{
			RunID:       runID,
			Name:        name,
			Category:    "AI/ML",
			Description: "does things",
			DedupHash:   "hash-" + strings.ToLower(strings.ReplaceAll(name, " ", "-")),
		}
		if _, err := s.InsertStartup(context.Background(), st); err != nil {
			t.Fatal(err)
		}
	}
}

func testCfg() types.PipelineConfig {
	return types.PipelineConfig{
		Agent:    types.AgentConfig{Provider: types.ProviderClaude, APIKey: "k", MaxRetries: 1},
		Analysis: types.AnalysisConfig{MinFitScore: 40, BatchSize: 2},
	}
}

func TestAnalyzeScoresAndPersists(t *testing.T) {
	s := newTestStore(t)
	seedStartups(t, s, "run_1", "Acme AI", "Zebra Robotics", "Gamma Pay")

	backend := &echoBackend{score: 65, analysis: "good fit for urban markets"}
	summary, err := Analyze(context.Background(), backend, s, testCfg(), "run_1", io.Discard)
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}

	if summary.Analyzed != 3 {
		t.Errorf("analyzed = %d, want 3", summary.Analyzed)
	}
	if summary.AboveMin != 3 {
		t.Errorf("above min = %d, want 3", summary.AboveMin)
	}
	// 3 startups with batch size 2 means 2 LLM calls.
	if summary.BatchCalls != 2 || backend.calls != 2 {
		t.Errorf("batch calls = %d (backend %d), want 2", summary.BatchCalls, backend.calls)
	}

	rows, err := s.StartupsByRun(context.Background(), "run_1")
	if err != nil {
		t.Fatal(err)
	}
	for _, row := range rows {
		if row.IndiaFitScore != 65 {
			t.Errorf("%s score = %d, want 65", row.Name, row.IndiaFitScore)
		}
		if row.IndiaFitAnalysis == "" {
			t.Errorf("%s analysis not persisted", row.Name)
		}
	}
}

func TestAnalyzeBelowMinimumStillPersisted(t *testing.T) {
	s := newTestStore(t)
	seedStartups(t, s, "run_1", "Acme AI")

	backend := &echoBackend{score: 12, analysis: "weak fit"}
	summary, err := Analyze(context.Background(), backend, s, testCfg(), "run_1", io.Discard)
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}
	if summary.Analyzed != 1 || summary.AboveMin != 0 {
		t.Errorf("summary = %+v, want analyzed 1 above min 0", summary)
	}

	rows, err := s.StartupsByRun(context.Background(), "run_1")
	if err != nil {
		t.Fatal(err)
	}
	if rows[0].IndiaFitScore != 12 {
		t.Errorf("low score not persisted: %d", rows[0].IndiaFitScore)
	}
}

func TestAnalyzeClampsScores(t *testing.T) {
	s := newTestStore(t)
	seedStartups(t, s, "run_1", "Acme AI")

	backend := &echoBackend{score: 250, analysis: "overflow"}
	if _, err := Analyze(context.Background(), backend, s, testCfg(), "run_1", io.Discard); err != nil {
		t.Fatal(err)
	}

	rows, err := s.StartupsByRun(context.Background(), "run_1")
	if err != nil {
		t.Fatal(err)
	}
	if rows[0].IndiaFitScore != 100 {
		t.Errorf("score = %d, want clamped to 100", rows[0].IndiaFitScore)
	}
}

type emptyBackend struct{}

func (emptyBackend) Complete(ctx context.Context, prompt string) (string, error) {
	return "[]", nil
}

func TestAnalyzeCountsUnmatched(t *testing.T) {
	s := newTestStore(t)
	seedStartups(t, s, "run_1", "Acme AI", "Zebra Robotics")

	summary, err := Analyze(context.Background(), emptyBackend{}, s, testCfg(), "run_1", io.Discard)
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}
	if summary.Unmatched != 2 || summary.Analyzed != 0 {
		t.Errorf("summary = %+v, want 2 unmatched", summary)
	}
}

func TestAnalyzeEmptyRun(t *testing.T) {
	s := newTestStore(t)
	summary, err := Analyze(context.Background(), emptyBackend{}, s, testCfg(), "run_1", io.Discard)
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}
	if summary.BatchCalls != 0 {
		t.Errorf("batch calls = %d, want 0 for empty run", summary.BatchCalls)
	}
}
