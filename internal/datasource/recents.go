package datasource

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// Recents is the recently-opened-outlines index, a single-table SQLite
// database in the state directory. Losing it costs nothing but the
// recents list, so callers treat open failures as non-fatal.
type Recents struct {
	db *sql.DB
}

// OpenRecents opens (and if needed creates) the recents index at path.
func OpenRecents(path string) (*Recents, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating state directory: %w", err)
	}

	dsn := fmt.Sprintf("file:%s?_busy_timeout=5000&_journal_mode=WAL", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("cannot open recents database: %w", err)
	}

	schema := `
		CREATE TABLE IF NOT EXISTS recents (
			path        TEXT PRIMARY KEY,
			title       TEXT NOT NULL DEFAULT '',
			opened_at   INTEGER NOT NULL
		)
	`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating recents schema: %w", err)
	}

	return &Recents{db: db}, nil
}

// Close closes the index.
func (r *Recents) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Touch records that the outline at path was opened now.
func (r *Recents) Touch(path, title string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	_, err = r.db.Exec(`
		INSERT INTO recents (path, title, opened_at) VALUES (?, ?, ?)
		ON CONFLICT(path) DO UPDATE SET title = excluded.title, opened_at = excluded.opened_at
	`, abs, title, time.Now().UnixNano())
	if err != nil {
		return fmt.Errorf("recording recent outline: %w", err)
	}
	return nil
}

// RecentEntry is one row of the recents list.
type RecentEntry struct {
	Path     string
	Title    string
	OpenedAt time.Time
}

// List returns up to limit entries, most recently opened first.
func (r *Recents) List(limit int) ([]RecentEntry, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := r.db.Query(`
		SELECT path, title, opened_at FROM recents
		ORDER BY opened_at DESC LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("listing recents: %w", err)
	}
	defer rows.Close()

	var out []RecentEntry
	for rows.Next() {
		var e RecentEntry
		var opened int64
		if err := rows.Scan(&e.Path, &e.Title, &opened); err != nil {
			return nil, fmt.Errorf("scanning recents row: %w", err)
		}
		e.OpenedAt = time.Unix(0, opened)
		out = append(out, e)
	}
	return out, rows.Err()
}

// Forget removes a path from the index.
func (r *Recents) Forget(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	if _, err := r.db.Exec(`DELETE FROM recents WHERE path = ?`, abs); err != nil {
		return fmt.Errorf("removing recent outline: %w", err)
	}
	return nil
}
