package vault

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite" // SQLite driver
)

// index is the SQLite-backed fragment index used for duplicate
// detection. Keeping IDs in a table avoids re-reading every vault
// file's frontmatter on each run.
type index struct {
	db *sql.DB
}

// openIndex opens or creates the index database at dbPath.
func openIndex(dbPath string) (*index, error) {
	// WAL mode for better concurrency
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening index: %w", err)
	}

	schema := `CREATE TABLE IF NOT EXISTS vault_index (
		fragment_id TEXT PRIMARY KEY,
		path        TEXT NOT NULL,
		created_at  TEXT NOT NULL
	)`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating index schema: %w", err)
	}

	return &index{db: db}, nil
}

// Lookup returns the stored path for a fragment ID, if present.
func (i *index) Lookup(ctx context.Context, fragmentID string) (string, bool, error) {
	var path string
	err := i.db.QueryRowContext(ctx,
		"SELECT path FROM vault_index WHERE fragment_id = ?", fragmentID).Scan(&path)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("lookup fragment: %w", err)
	}
	return path, true, nil
}

// Insert records a newly written fragment.
func (i *index) Insert(ctx context.Context, fragmentID, path string) error {
	_, err := i.db.ExecContext(ctx,
		"INSERT INTO vault_index (fragment_id, path, created_at) VALUES (?, ?, ?)",
		fragmentID, path, time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("insert fragment: %w", err)
	}
	return nil
}

// Close closes the database connection.
func (i *index) Close() error {
	return i.db.Close()
}
