// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package agent

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
)

// outputSnippetLimit truncates recorded agent output so trace files stay
// readable.
const outputSnippetLimit = 500

// Record holds the execution trace of one agent within a run.
type Record struct {
	InvocationID string    `json:"invocation_id"`
	Agent        string    `json:"agent"`
	Task         string    `json:"task"`
	StartTime    time.Time `json:"start_time"`
	EndTime      time.Time `json:"end_time,omitzero"`
	Status       string    `json:"status"`
	Output       string    `json:"output,omitempty"`
	Error        string    `json:"error,omitempty"`
}

// Tracker records agent executions for one run and writes per-agent
// trace files plus a summary under the run's report directory.
type Tracker struct {
	runID   string
	dir     string
	order   []string
	records map[string]*Record
}

// NewTracker creates the run report directory and an empty tracker.
func NewTracker(runID, reportDir string) (*Tracker, error) {
	dir := filepath.Join(reportDir, runID)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating report directory %s: %w", dir, err)
	}
	return &Tracker{
		runID:   runID,
		dir:     dir,
		records: make(map[string]*Record),
	}, nil
}

// Dir returns the run's report directory.
func (t *Tracker) Dir() string { return t.dir }

// Start records the beginning of an agent execution.
func (t *Tracker) Start(agentName, task string) {
	if _, ok := t.records[agentName]; !ok {
		t.order = append(t.order, agentName)
	}
	t.records[agentName] = &Record{
		InvocationID: uuid.NewString(),
		Agent:        agentName,
		Task:         task,
		StartTime:    time.Now().UTC(),
		Status:       "running",
	}
}

// End records the completion of an agent execution. The output is
// truncated to a snippet.
func (t *Tracker) End(agentName, output string) {
	r, ok := t.records[agentName]
	if !ok {
		return
	}
	r.EndTime = time.Now().UTC()
	r.Status = "completed"
	r.Output = snippet(output)
}

// Fail records a failed agent execution.
func (t *Tracker) Fail(agentName string, err error) {
	r, ok := t.records[agentName]
	if !ok {
		return
	}
	r.EndTime = time.Now().UTC()
	r.Status = "failed"
	if err != nil {
		r.Error = err.Error()
	}
}

// summary is the shape of agents_summary.json.
type summary struct {
	RunID       string    `json:"run_id"`
	GeneratedAt time.Time `json:"generated_at"`
	Agents      []string  `json:"agents"`
	TotalAgents int       `json:"total_agents"`
	Records     []*Record `json:"records"`
}

// SaveAll writes one <agent>_report.json per recorded agent and an
// agents_summary.json for the run.
func (t *Tracker) SaveAll() error {
	for name, r := range t.records {
		path := filepath.Join(t.dir, fileName(name)+"_report.json")
		if err := writeJSON(path, r); err != nil {
			return fmt.Errorf("writing agent report %s: %w", path, err)
		}
	}

	agents := make([]string, len(t.order))
	copy(agents, t.order)
	sort.Strings(agents)

	records := make([]*Record, 0, len(t.order))
	for _, name := range t.order {
		records = append(records, t.records[name])
	}

	s := summary{
		RunID:       t.runID,
		GeneratedAt: time.Now().UTC(),
		Agents:      agents,
		TotalAgents: len(agents),
		Records:     records,
	}
	path := filepath.Join(t.dir, "agents_summary.json")
	if err := writeJSON(path, s); err != nil {
		return fmt.Errorf("writing summary %s: %w", path, err)
	}
	return nil
}

func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func fileName(agentName string) string {
	return strings.ReplaceAll(strings.ToLower(agentName), " ", "_")
}

func snippet(s string) string {
	if len(s) <= outputSnippetLimit {
		return s
	}
	return s[:outputSnippetLimit] + "..."
}
