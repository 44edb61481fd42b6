// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/pdiddy/startup-scout/pkg/types"
)

// ErrNoRuns is returned by LatestRun when the ledger is empty.
var ErrNoRuns = errors.New("no runs recorded")

// BeginRun records a new run in the ledger with status running.
func (s *Store) BeginRun(ctx context.Context, runID string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO run_metadata (run_id, run_date, status) VALUES (?, ?, ?)`,
		runID, time.Now().UTC().Format(time.RFC3339), string(types.RunRunning),
	)
	if err != nil {
		return fmt.Errorf("recording run %s: %w", runID, err)
	}
	return nil
}

// CompleteRun finalizes a run: it recomputes the tier counts and total
// from the run's startup rows, then marks the run completed.
func (s *Store) CompleteRun(ctx context.Context, runID string, elapsed time.Duration, reportPath string) error {
	counts, err := s.TierCounts(ctx, runID)
	if err != nil {
		return err
	}

	var total int
	if err := s.db.QueryRowContext(ctx,
		`SELECT count(*) FROM startups WHERE run_id = ?`, runID,
	).Scan(&total); err != nil {
		return fmt.Errorf("counting startups for run %s: %w", runID, err)
	}

	_, err = s.db.ExecContext(ctx,
		`UPDATE run_metadata SET
			total_startups_found = ?, tier_1_count = ?, tier_2_count = ?, tier_3_count = ?,
			processing_time_seconds = ?, status = ?, report_path = ?
		 WHERE run_id = ?`,
		total, counts[types.Tier1], counts[types.Tier2], counts[types.Tier3],
		elapsed.Seconds(), string(types.RunCompleted), reportPath, runID,
	)
	if err != nil {
		return fmt.Errorf("completing run %s: %w", runID, err)
	}
	return nil
}

// FinalizeReport records the report path for a run that already has a
// terminal ledger row. A failed run keeps its status and timing and only
// gains the path; otherwise the run is completed with its recorded
// processing time, falling back to wall-clock age for runs that never
// had one.
func (s *Store) FinalizeReport(ctx context.Context, runID, reportPath string) error {
	run, err := s.GetRun(ctx, runID)
	if err != nil {
		return err
	}

	if run.Status == types.RunFailed {
		_, err := s.db.ExecContext(ctx,
			`UPDATE run_metadata SET report_path = ? WHERE run_id = ?`,
			reportPath, runID,
		)
		if err != nil {
			return fmt.Errorf("recording report for run %s: %w", runID, err)
		}
		return nil
	}

	elapsed := time.Duration(run.ProcessingTimeSeconds * float64(time.Second))
	if elapsed <= 0 {
		elapsed = time.Since(run.RunDate)
	}
	return s.CompleteRun(ctx, runID, elapsed, reportPath)
}

// FailRun marks a run failed, keeping whatever counts were gathered
// before the failure.
func (s *Store) FailRun(ctx context.Context, runID string, elapsed time.Duration) error {
	var total int
	if err := s.db.QueryRowContext(ctx,
		`SELECT count(*) FROM startups WHERE run_id = ?`, runID,
	).Scan(&total); err != nil {
		return fmt.Errorf("counting startups for run %s: %w", runID, err)
	}

	_, err := s.db.ExecContext(ctx,
		`UPDATE run_metadata SET total_startups_found = ?, processing_time_seconds = ?, status = ?
		 WHERE run_id = ?`,
		total, elapsed.Seconds(), string(types.RunFailed), runID,
	)
	if err != nil {
		return fmt.Errorf("failing run %s: %w", runID, err)
	}
	return nil
}

// TierCounts counts the run's startups grouped by primary tier.
func (s *Store) TierCounts(ctx context.Context, runID string) (map[types.Tier]int, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT primary_tier, count(*) FROM startups
		 WHERE run_id = ? AND primary_tier != '' GROUP BY primary_tier`, runID)
	if err != nil {
		return nil, fmt.Errorf("querying tier counts for run %s: %w", runID, err)
	}
	defer rows.Close()

	counts := make(map[types.Tier]int)
	for rows.Next() {
		var tier string
		var n int
		if err := rows.Scan(&tier, &n); err != nil {
			return nil, fmt.Errorf("scanning tier count: %w", err)
		}
		counts[types.Tier(tier)] = n
	}
	return counts, rows.Err()
}

const runColumns = `run_id, run_date, total_startups_found,
	tier_1_count, tier_2_count, tier_3_count,
	processing_time_seconds, status, coalesce(report_path, '')`

func scanRun(scan func(dest ...any) error) (types.RunMetadata, error) {
	var r types.RunMetadata
	var runDate, status string

	err := scan(
		&r.RunID, &runDate, &r.TotalStartupsFound,
		&r.Tier1Count, &r.Tier2Count, &r.Tier3Count,
		&r.ProcessingTimeSeconds, &status, &r.ReportPath,
	)
	if err != nil {
		return r, err
	}
	r.Status = types.RunStatus(status)
	if t, err := time.Parse(time.RFC3339, runDate); err == nil {
		r.RunDate = t
	}
	return r, nil
}

// LatestRun returns the most recent run in the ledger.
func (s *Store) LatestRun(ctx context.Context) (types.RunMetadata, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+runColumns+` FROM run_metadata ORDER BY id DESC LIMIT 1`)
	r, err := scanRun(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return r, ErrNoRuns
	}
	if err != nil {
		return r, fmt.Errorf("querying latest run: %w", err)
	}
	return r, nil
}

// GetRun returns the ledger row for the given run.
func (s *Store) GetRun(ctx context.Context, runID string) (types.RunMetadata, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+runColumns+` FROM run_metadata WHERE run_id = ?`, runID)
	r, err := scanRun(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return r, fmt.Errorf("run %s not found", runID)
	}
	if err != nil {
		return r, fmt.Errorf("querying run %s: %w", runID, err)
	}
	return r, nil
}

// ListRuns returns up to limit runs, newest first. A limit <= 0 returns
// all runs.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]types.RunMetadata, error) {
	query := `SELECT ` + runColumns + ` FROM run_metadata ORDER BY id DESC`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	var out []types.RunMetadata
	for rows.Next() {
		r, err := scanRun(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scanning run row: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
