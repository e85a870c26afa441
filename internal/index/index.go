// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package index

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/jeranaias/persona-tui/internal/model"
)

// =============================================================================
// SCHEMA
// =============================================================================

// DatabaseFileName is the index database inside the data directory.
const DatabaseFileName = "artifacts.db"

const schema = `
CREATE TABLE IF NOT EXISTS artifacts (
	id              TEXT PRIMARY KEY,
	title           TEXT NOT NULL,
	type            TEXT NOT NULL,
	language        TEXT NOT NULL DEFAULT '',
	content         TEXT NOT NULL,
	persona_id      TEXT NOT NULL DEFAULT '',
	conversation_id TEXT NOT NULL DEFAULT '',
	created_at      INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_artifacts_type ON artifacts(type);
CREATE INDEX IF NOT EXISTS idx_artifacts_conversation ON artifacts(conversation_id);
`

// =============================================================================
// ARTIFACT INDEX
// =============================================================================

// ArtifactIndex provides search over extracted artifacts.
type ArtifactIndex struct {
	db *sql.DB
	mu sync.RWMutex
}

// Match is one search hit.
type Match struct {
	Artifact model.Artifact
}

// Open opens (or creates) the index database under dir.
func Open(dir string) (*ArtifactIndex, error) {
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create index directory: %w", err)
	}

	db, err := sql.Open("sqlite", filepath.Join(dir, DatabaseFileName))
	if err != nil {
		return nil, fmt.Errorf("failed to open index database: %w", err)
	}

	// SQLite supports one writer at a time; keep the pool at one.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA temp_store=MEMORY",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to set pragma: %w", err)
		}
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return &ArtifactIndex{db: db}, nil
}

// Close releases the database.
func (idx *ArtifactIndex) Close() error {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	return idx.db.Close()
}

// Put inserts or replaces an artifact in the index.
func (idx *ArtifactIndex) Put(ctx context.Context, a *model.Artifact) error {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	_, err := idx.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO artifacts
			(id, title, type, language, content, persona_id, conversation_id, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		a.ID, a.Title, string(a.Type), a.Language, a.Content,
		a.PersonaID, a.ConversationID, a.CreatedAt.Unix())
	if err != nil {
		return fmt.Errorf("failed to index artifact: %w", err)
	}
	return nil
}

// Remove deletes an artifact from the index. Removing an absent artifact
// is not an error.
func (idx *ArtifactIndex) Remove(ctx context.Context, id string) error {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	if _, err := idx.db.ExecContext(ctx, "DELETE FROM artifacts WHERE id = ?", id); err != nil {
		return fmt.Errorf("failed to remove artifact: %w", err)
	}
	return nil
}

// Rebuild replaces the whole index with the given artifacts. Used on
// startup to reconcile the index with the state file, which is the source
// of truth.
func (idx *ArtifactIndex) Rebuild(ctx context.Context, artifacts []*model.Artifact) error {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	tx, err := idx.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin rebuild: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM artifacts"); err != nil {
		return fmt.Errorf("failed to clear index: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO artifacts
			(id, title, type, language, content, persona_id, conversation_id, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, a := range artifacts {
		if _, err := stmt.ExecContext(ctx, a.ID, a.Title, string(a.Type), a.Language,
			a.Content, a.PersonaID, a.ConversationID, a.CreatedAt.Unix()); err != nil {
			return fmt.Errorf("failed to index artifact %s: %w", a.ID, err)
		}
	}

	return tx.Commit()
}

// Search returns artifacts whose title, language, or content contains the
// query, newest first. limit <= 0 means no limit.
func (idx *ArtifactIndex) Search(ctx context.Context, query string, limit int) ([]Match, error) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	if limit <= 0 {
		limit = -1
	}
	pattern := "%" + query + "%"

	rows, err := idx.db.QueryContext(ctx, `
		SELECT id, title, type, language, content, persona_id, conversation_id, created_at
		FROM artifacts
		WHERE title LIKE ? OR language LIKE ? OR content LIKE ?
		ORDER BY created_at DESC
		LIMIT ?`,
		pattern, pattern, pattern, limit)
	if err != nil {
		return nil, fmt.Errorf("search failed: %w", err)
	}
	defer rows.Close()

	var matches []Match
	for rows.Next() {
		var a model.Artifact
		var typ string
		var createdAt int64
		if err := rows.Scan(&a.ID, &a.Title, &typ, &a.Language, &a.Content,
			&a.PersonaID, &a.ConversationID, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		a.Type = model.ArtifactType(typ)
		a.CreatedAt = time.Unix(createdAt, 0)
		matches = append(matches, Match{Artifact: a})
	}
	return matches, rows.Err()
}

// Count returns the number of indexed artifacts.
func (idx *ArtifactIndex) Count(ctx context.Context) (int, error) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	var n int
	if err := idx.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM artifacts").Scan(&n); err != nil {
		return 0, fmt.Errorf("count failed: %w", err)
	}
	return n, nil
}
