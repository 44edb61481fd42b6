// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"context"
	"fmt"

	"github.com/pdiddy/startup-scout/pkg/types"
)

// ListStartups returns up to limit startups, newest first. A limit <= 0
// returns all rows.
func (s *Store) ListStartups(ctx context.Context, limit int) ([]types.Startup, error) {
	if limit <= 0 {
		return s.queryStartups(ctx,
			`SELECT `+startupColumns+` FROM startups ORDER BY created_at DESC, id DESC`)
	}
	return s.queryStartups(ctx,
		`SELECT `+startupColumns+` FROM startups ORDER BY created_at DESC, id DESC LIMIT ?`, limit)
}

// StartupsByRun returns all startups discovered in the given run, in
// insertion order.
func (s *Store) StartupsByRun(ctx context.Context, runID string) ([]types.Startup, error) {
	return s.queryStartups(ctx,
		`SELECT `+startupColumns+` FROM startups WHERE run_id = ? ORDER BY id`, runID)
}

// StartupsByTier returns all startups whose primary tier matches, highest
// fit score first.
func (s *Store) StartupsByTier(ctx context.Context, tier types.Tier) ([]types.Startup, error) {
	return s.queryStartups(ctx,
		`SELECT `+startupColumns+` FROM startups WHERE primary_tier = ?
		 ORDER BY india_fit_score DESC, name`, string(tier))
}

// TopStartups returns the n highest-scoring startups across all runs.
func (s *Store) TopStartups(ctx context.Context, n int) ([]types.Startup, error) {
	if n <= 0 {
		n = 10
	}
	return s.queryStartups(ctx,
		`SELECT `+startupColumns+` FROM startups
		 ORDER BY india_fit_score DESC, name LIMIT ?`, n)
}

// Stats summarizes the startups table.
type Stats struct {
	Total        int            `json:"total"`
	AverageScore float64        `json:"average_score"`
	ByTier       map[string]int `json:"by_tier"`
	ByCategory   map[string]int `json:"by_category"`
}

// StartupStats aggregates counts and scores across all stored startups.
func (s *Store) StartupStats(ctx context.Context) (Stats, error) {
	stats := Stats{
		ByTier:     make(map[string]int),
		ByCategory: make(map[string]int),
	}

	err := s.db.QueryRowContext(ctx,
		`SELECT count(*), coalesce(avg(india_fit_score), 0) FROM startups`,
	).Scan(&stats.Total, &stats.AverageScore)
	if err != nil {
		return stats, fmt.Errorf("querying totals: %w", err)
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT primary_tier, count(*) FROM startups WHERE primary_tier != '' GROUP BY primary_tier`)
	if err != nil {
		return stats, fmt.Errorf("querying tier counts: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var tier string
		var n int
		if err := rows.Scan(&tier, &n); err != nil {
			return stats, fmt.Errorf("scanning tier count: %w", err)
		}
		stats.ByTier[tier] = n
	}
	if err := rows.Err(); err != nil {
		return stats, err
	}

	catRows, err := s.db.QueryContext(ctx,
		`SELECT category, count(*) FROM startups WHERE category != '' GROUP BY category`)
	if err != nil {
		return stats, fmt.Errorf("querying category counts: %w", err)
	}
	defer catRows.Close()
	for catRows.Next() {
		var cat string
		var n int
		if err := catRows.Scan(&cat, &n); err != nil {
			return stats, fmt.Errorf("scanning category count: %w", err)
		}
		stats.ByCategory[cat] = n
	}
	return stats, catRows.Err()
}

// KnownNames returns the names of all stored startups, for fuzzy
// duplicate matching during discovery.
func (s *Store) KnownNames(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT name FROM startups`)
	if err != nil {
		return nil, fmt.Errorf("querying names: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scanning name: %w", err)
		}
		names = append(names, name)
	}
	return names, rows.Err()
}
