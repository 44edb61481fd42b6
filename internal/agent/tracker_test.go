package agent

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestTrackerSaveAll(t *testing.T) {
	dir := t.TempDir()
	tracker, err := NewTracker("run_20260115_093000", dir)
	if err != nil {
		t.Fatalf("NewTracker() error = %v", err)
	}

	tracker.Start("Discovery Agent", "find recent AI startups")
	tracker.End("Discovery Agent", "found 12 startups")
	tracker.Start("Market Analyst", "score india fit")
	tracker.Fail("Market Analyst", errors.New("model overloaded"))

	if err := tracker.SaveAll(); err != nil {
		t.Fatalf("SaveAll() error = %v", err)
	}

	// Per-agent trace files.
	var rec Record
	readJSONFile(t, filepath.Join(tracker.Dir(), "discovery_agent_report.json"), &rec)
	if rec.Status != "completed" {
		t.Errorf("discovery status = %q, want completed", rec.Status)
	}
	if rec.Output != "found 12 startups" {
		t.Errorf("discovery output = %q", rec.Output)
	}
	if rec.InvocationID == "" {
		t.Error("invocation_id not set")
	}

	readJSONFile(t, filepath.Join(tracker.Dir(), "market_analyst_report.json"), &rec)
	if rec.Status != "failed" {
		t.Errorf("analyst status = %q, want failed", rec.Status)
	}
	if rec.Error != "model overloaded" {
		t.Errorf("analyst error = %q", rec.Error)
	}

	// Summary preserves execution order in records and run id.
	var s summary
	readJSONFile(t, filepath.Join(tracker.Dir(), "agents_summary.json"), &s)
	if s.RunID != "run_20260115_093000" {
		t.Errorf("run_id = %q", s.RunID)
	}
	if s.TotalAgents != 2 {
		t.Errorf("total_agents = %d, want 2", s.TotalAgents)
	}
	if len(s.Records) != 2 || s.Records[0].Agent != "Discovery Agent" {
		t.Errorf("records out of order: %+v", s.Records)
	}
}

func TestTrackerTruncatesOutput(t *testing.T) {
	tracker, err := NewTracker("run_x", t.TempDir())
	if err != nil {
		t.Fatalf("NewTracker() error = %v", err)
	}
	tracker.Start("Reporter", "build report")
	tracker.End("Reporter", strings.Repeat("a", outputSnippetLimit*2))

	r := tracker.records["Reporter"]
	if len(r.Output) != outputSnippetLimit+3 {
		t.Errorf("output length = %d, want %d", len(r.Output), outputSnippetLimit+3)
	}
	if !strings.HasSuffix(r.Output, "...") {
		t.Error("truncated output should end with ellipsis")
	}
}

func TestTrackerDirCreated(t *testing.T) {
	base := t.TempDir()
	tracker, err := NewTracker("run_y", base)
	if err != nil {
		t.Fatalf("NewTracker() error = %v", err)
	}
	info, err := os.Stat(tracker.Dir())
	if err != nil || !info.IsDir() {
		t.Fatalf("report dir not created: %v", err)
	}
	if tracker.Dir() != filepath.Join(base, "run_y") {
		t.Errorf("Dir() = %q", tracker.Dir())
	}
}

func readJSONFile(t *testing.T, path string, v any) {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading %s: %v", path, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		t.Fatalf("unmarshaling %s: %v", path, err)
	}
}
