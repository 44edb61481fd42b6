// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// RunStatus tracks the lifecycle of one pipeline execution.
type RunStatus string

const (
	RunRunning   RunStatus = "running"
	RunCompleted RunStatus = "completed"
	RunFailed    RunStatus = "failed"
)

// RunMetadata is the per-execution ledger row. The tier counts mirror the
// number of startups rows with the corresponding primary_tier for the
// same run_id.
type RunMetadata struct {
	RunID                 string    `json:"run_id" yaml:"run_id"`
	RunDate               time.Time `json:"run_date" yaml:"run_date"`
	TotalStartupsFound    int       `json:"total_startups_found" yaml:"total_startups_found"`
	Tier1Count            int       `json:"tier_1_count" yaml:"tier_1_count"`
	Tier2Count            int       `json:"tier_2_count" yaml:"tier_2_count"`
	Tier3Count            int       `json:"tier_3_count" yaml:"tier_3_count"`
	ProcessingTimeSeconds float64   `json:"processing_time_seconds" yaml:"processing_time_seconds"`
	Status                RunStatus `json:"status" yaml:"status"`
	ReportPath            string    `json:"report_path,omitempty" yaml:"report_path,omitempty"`
}

// TierCount returns the stored count for the given tier.
func (r RunMetadata) TierCount(t Tier) int {
	switch t {
	case Tier1:
		return r.Tier1Count
	case Tier2:
		return r.Tier2Count
	case Tier3:
		return r.Tier3Count
	}
	return 0
}
