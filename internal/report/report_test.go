package report

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pdiddy/startup-scout/internal/store"
	"github.com/pdiddy/startup-scout/pkg/types"
)

// --- test helpers ---

func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.NewStore(types.StoreConfig{DBPath: filepath.Join(t.TempDir(), "test.db")})
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func seed(t *testing.T, s *store.Store, runID, name string, score int, tier types.Tier) {
	t.Helper()
	st := &types.Startup{
		RunID:     runID,
		Name:      name,
		Category:  "AI/ML",
		DedupHash: "hash-" + strings.ToLower(strings.ReplaceAll(name, " ", "-")),
	}
	if _, err := s.InsertStartup(context.Background(), st); err != nil {
		t.Fatal(err)
	}
	if err := s.UpdateAnalysis(context.Background(), st.DedupHash, score, "analysis"); err != nil {
		t.Fatal(err)
	}
	if tier != "" {
		if err := s.UpdateTier(context.Background(), st.DedupHash, tier, nil); err != nil {
			t.Fatal(err)
		}
	}
}

func testCfg() types.PipelineConfig {
	return types.PipelineConfig{
		Agent:  types.AgentConfig{Provider: types.ProviderClaude, APIKey: "k", MaxRetries: 1},
		Report: types.ReportConfig{TopOpportunities: 2, CSVExport: true},
	}
}

type insightsBackend struct{}

func (insightsBackend) Complete(ctx context.Context, prompt string) (string, error) {
	return `{"trending_categories": ["AI/ML"], "market_gaps": ["rural fintech"], "recommendations": ["watch agents"]}`, nil
}

type failingBackend struct{}

func (failingBackend) Complete(ctx context.Context, prompt string) (string, error) {
	return "", errors.New("model unavailable")
}

func TestGenerateWritesReportAndCSV(t *testing.T) {
	s := newTestStore(t)
	seed(t, s, "run_1", "Alpha", 90, types.Tier1)
	seed(t, s, "run_1", "Beta", 60, types.Tier2)
	seed(t, s, "run_1", "Gamma", 30, "")

	dir := filepath.Join(t.TempDir(), "run_1")
	path, err := Generate(context.Background(), insightsBackend{}, s, testCfg(), "run_1", dir, io.Discard)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if path != filepath.Join(dir, "final_report.json") {
		t.Errorf("report path = %q", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var rpt Report
	if err := json.Unmarshal(data, &rpt); err != nil {
		t.Fatal(err)
	}

	if rpt.RunID != "run_1" || rpt.TotalStartups != 3 {
		t.Errorf("report header = %q/%d", rpt.RunID, rpt.TotalStartups)
	}
	if rpt.AverageFitScore != 60 {
		t.Errorf("average = %v, want 60", rpt.AverageFitScore)
	}
	if rpt.TierBreakdown["Tier 1"] != 1 || rpt.TierBreakdown["Tier 2"] != 1 {
		t.Errorf("tier breakdown = %v", rpt.TierBreakdown)
	}
	// Capped at 2 and ranked by score.
	if len(rpt.TopOpportunities) != 2 || rpt.TopOpportunities[0].Name != "Alpha" {
		t.Errorf("top opportunities = %+v", rpt.TopOpportunities)
	}
	if rpt.Insights == nil || rpt.Insights.TrendingCategories[0] != "AI/ML" {
		t.Errorf("insights = %+v", rpt.Insights)
	}

	// Insights also land in the knowledge base for later runs.
	trend, err := s.GetKnowledge(context.Background(), "trending_categories:run_1")
	if err != nil {
		t.Errorf("insights not stored in knowledge base: %v", err)
	} else if trend != "AI/ML" {
		t.Errorf("stored trend = %q", trend)
	}

	f, err := os.Open(filepath.Join(dir, "startups.csv"))
	if err != nil {
		t.Fatalf("CSV not written: %v", err)
	}
	defer f.Close()
	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 4 {
		t.Errorf("CSV rows = %d, want header + 3", len(records))
	}
	if records[0][0] != "name" {
		t.Errorf("CSV header = %v", records[0])
	}
}

func TestGenerateSurvivesInsightsFailure(t *testing.T) {
	s := newTestStore(t)
	seed(t, s, "run_1", "Alpha", 90, types.Tier1)

	dir := filepath.Join(t.TempDir(), "run_1")
	var out strings.Builder
	path, err := Generate(context.Background(), failingBackend{}, s, testCfg(), "run_1", dir, &out)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var rpt Report
	if err := json.Unmarshal(data, &rpt); err != nil {
		t.Fatal(err)
	}
	if rpt.Insights != nil {
		t.Error("insights present despite backend failure")
	}
	if !strings.Contains(out.String(), "insights generation failed") {
		t.Error("failure not surfaced as warning")
	}
}

func TestGenerateEmptyRun(t *testing.T) {
	s := newTestStore(t)
	dir := filepath.Join(t.TempDir(), "run_1")

	path, err := Generate(context.Background(), nil, s, testCfg(), "run_1", dir, io.Discard)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	var rpt Report
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := json.Unmarshal(data, &rpt); err != nil {
		t.Fatal(err)
	}
	if rpt.TotalStartups != 0 || rpt.AverageFitScore != 0 {
		t.Errorf("empty run report = %+v", rpt)
	}
}
