// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"time"

	"go.yaml.in/yaml/v3"
)

// ErrKeyNotFound is returned by GetKnowledge for an unknown key.
var ErrKeyNotFound = errors.New("knowledge key not found")

// PutKnowledge stores a key/value pair under a category, replacing any
// existing value for the key.
func (s *Store) PutKnowledge(ctx context.Context, key, value, category string) error {
	now := time.Now().UTC().Format(time.RFC3339)
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO knowledge_base (key, value, category, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET
			value=excluded.value, category=excluded.category, updated_at=excluded.updated_at`,
		key, value, category, now, now,
	)
	if err != nil {
		return fmt.Errorf("storing knowledge key %q: %w", key, err)
	}
	return nil
}

// GetKnowledge returns the value stored under key.
func (s *Store) GetKnowledge(ctx context.Context, key string) (string, error) {
	var value string
	err := s.db.QueryRowContext(ctx,
		`SELECT value FROM knowledge_base WHERE key = ?`, key,
	).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("%w: %s", ErrKeyNotFound, key)
	}
	if err != nil {
		return "", fmt.Errorf("reading knowledge key %q: %w", key, err)
	}
	return value, nil
}

// KnowledgeEntry is one exported knowledge base row.
type KnowledgeEntry struct {
	Key       string `json:"key" yaml:"key"`
	Value     string `json:"value" yaml:"value"`
	Category  string `json:"category,omitempty" yaml:"category,omitempty"`
	UpdatedAt string `json:"updated_at" yaml:"updated_at"`
}

// ListKnowledge returns all knowledge base entries ordered by key.
func (s *Store) ListKnowledge(ctx context.Context) ([]KnowledgeEntry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT key, value, coalesce(category, ''), updated_at FROM knowledge_base ORDER BY key`)
	if err != nil {
		return nil, fmt.Errorf("querying knowledge base: %w", err)
	}
	defer rows.Close()

	var out []KnowledgeEntry
	for rows.Next() {
		var e KnowledgeEntry
		if err := rows.Scan(&e.Key, &e.Value, &e.Category, &e.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scanning knowledge row: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// ExportKnowledgeYAML writes the full knowledge base to path as YAML.
func (s *Store) ExportKnowledgeYAML(ctx context.Context, path string) error {
	entries, err := s.ListKnowledge(ctx)
	if err != nil {
		return err
	}
	data, err := yaml.Marshal(entries)
	if err != nil {
		return fmt.Errorf("marshaling knowledge base: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}
