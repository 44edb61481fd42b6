// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package store persists startups, the run ledger, and the knowledge base
// in a single SQLite database.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/startup-scout/pkg/types"
)

// Store manages the startup-scout SQLite database.
type Store struct {
	db *sql.DB
}

// NewStore opens or creates the SQLite database at cfg.DBPath, creating
// parent directories and the schema as needed.
func NewStore(cfg types.StoreConfig) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0o755); err != nil {
		return nil, fmt.Errorf("creating database directory: %w", err)
	}

	db, err := sql.Open("sqlite3", cfg.DBPath+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS startups (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id TEXT NOT NULL,
			name TEXT NOT NULL,
			website TEXT,
			description TEXT,
			category TEXT,
			founded_date TEXT,
			country TEXT,
			founder_info TEXT,
			source TEXT,
			source_url TEXT,
			india_fit_score INTEGER DEFAULT 0,
			india_fit_analysis TEXT,
			primary_tier TEXT,
			secondary_tiers TEXT,
			dedup_hash TEXT NOT NULL UNIQUE,
			created_at TEXT NOT NULL,
			updated_at TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_startups_run_id ON startups(run_id)`,
		`CREATE INDEX IF NOT EXISTS idx_startups_primary_tier ON startups(primary_tier)`,
		`CREATE TABLE IF NOT EXISTS run_metadata (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id TEXT NOT NULL UNIQUE,
			run_date TEXT NOT NULL,
			total_startups_found INTEGER DEFAULT 0,
			tier_1_count INTEGER DEFAULT 0,
			tier_2_count INTEGER DEFAULT 0,
			tier_3_count INTEGER DEFAULT 0,
			processing_time_seconds REAL DEFAULT 0,
			status TEXT NOT NULL,
			report_path TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS knowledge_base (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			key TEXT NOT NULL UNIQUE,
			value TEXT NOT NULL,
			category TEXT,
			created_at TEXT NOT NULL,
			updated_at TEXT NOT NULL
		)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// InsertStartup inserts a startup row unless its dedup hash is already
// present. It reports whether a row was inserted; a duplicate is not an
// error.
func (s *Store) InsertStartup(ctx context.Context, st *types.Startup) (bool, error) {
	if st.DedupHash == "" {
		return false, fmt.Errorf("startup %q has no dedup hash", st.Name)
	}

	now := time.Now().UTC()
	tiersJSON, _ := json.Marshal(st.SecondaryTiers)

	res, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO startups
			(run_id, name, website, description, category, founded_date,
			 country, founder_info, source, source_url,
			 india_fit_score, india_fit_analysis, primary_tier, secondary_tiers,
			 dedup_hash, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		st.RunID, st.Name, st.Website, st.Description, st.Category, st.FoundedDate,
		st.Country, st.FounderInfo, st.Source, st.SourceURL,
		st.IndiaFitScore, st.IndiaFitAnalysis, string(st.PrimaryTier), string(tiersJSON),
		st.DedupHash, now.Format(time.RFC3339), now.Format(time.RFC3339),
	)
	if err != nil {
		return false, fmt.Errorf("inserting startup %q: %w", st.Name, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("checking insert result: %w", err)
	}
	return n > 0, nil
}

// UpdateAnalysis records the India fit score and analysis text for the
// startup with the given dedup hash.
func (s *Store) UpdateAnalysis(ctx context.Context, dedupHash string, score int, analysis string) error {
	now := time.Now().UTC().Format(time.RFC3339)
	_, err := s.db.ExecContext(ctx,
		`UPDATE startups SET india_fit_score = ?, india_fit_analysis = ?, updated_at = ?
		 WHERE dedup_hash = ?`,
		score, analysis, now, dedupHash,
	)
	if err != nil {
		return fmt.Errorf("updating analysis for %s: %w", dedupHash, err)
	}
	return nil
}

// UpdateTier records the tier classification for the startup with the
// given dedup hash.
func (s *Store) UpdateTier(ctx context.Context, dedupHash string, primary types.Tier, secondary []types.Tier) error {
	now := time.Now().UTC().Format(time.RFC3339)
	tiersJSON, _ := json.Marshal(secondary)
	_, err := s.db.ExecContext(ctx,
		`UPDATE startups SET primary_tier = ?, secondary_tiers = ?, updated_at = ?
		 WHERE dedup_hash = ?`,
		string(primary), string(tiersJSON), now, dedupHash,
	)
	if err != nil {
		return fmt.Errorf("updating tier for %s: %w", dedupHash, err)
	}
	return nil
}

const startupColumns = `run_id, name, website, description, category, founded_date,
	country, founder_info, source, source_url,
	india_fit_score, india_fit_analysis, primary_tier, secondary_tiers,
	dedup_hash, created_at, updated_at`

func scanStartup(rows *sql.Rows) (types.Startup, error) {
	var st types.Startup
	var primaryTier, tiersJSON, createdAt, updatedAt string

	err := rows.Scan(
		&st.RunID, &st.Name, &st.Website, &st.Description, &st.Category, &st.FoundedDate,
		&st.Country, &st.FounderInfo, &st.Source, &st.SourceURL,
		&st.IndiaFitScore, &st.IndiaFitAnalysis, &primaryTier, &tiersJSON,
		&st.DedupHash, &createdAt, &updatedAt,
	)
	if err != nil {
		return st, err
	}

	st.PrimaryTier = types.Tier(primaryTier)
	if tiersJSON != "" && tiersJSON != "null" {
		if err := json.Unmarshal([]byte(tiersJSON), &st.SecondaryTiers); err != nil {
			return st, fmt.Errorf("parsing secondary tiers for %q: %w", st.Name, err)
		}
	}
	if t, err := time.Parse(time.RFC3339, createdAt); err == nil {
		st.CreatedAt = t
	}
	if t, err := time.Parse(time.RFC3339, updatedAt); err == nil {
		st.UpdatedAt = t
	}
	return st, nil
}

func (s *Store) queryStartups(ctx context.Context, query string, args ...any) ([]types.Startup, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying startups: %w", err)
	}
	defer rows.Close()

	var out []types.Startup
	for rows.Next() {
		st, err := scanStartup(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning startup row: %w", err)
		}
		out = append(out, st)
	}
	return out, rows.Err()
}
