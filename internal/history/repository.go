// Package history keeps a SQLite log of finished downloads.
package history

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/ytget/yt-queue/internal/model"
)

const schema = `
CREATE TABLE IF NOT EXISTS downloads (
    id          INTEGER PRIMARY KEY AUTOINCREMENT,
    task_id     TEXT NOT NULL,
    generation  INTEGER NOT NULL DEFAULT 0,
    url         TEXT NOT NULL,
    title       TEXT,
    output_dir  TEXT,
    outcome     TEXT NOT NULL,
    error       TEXT,
    finished_at DATETIME DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_downloads_finished ON downloads(finished_at);
CREATE UNIQUE INDEX IF NOT EXISTS idx_downloads_task_gen ON downloads(task_id, generation);
`

// Entry is one recorded terminal outcome
type Entry struct {
	ID         int64
	TaskID     string
	Generation int
	URL        string
	Title      string
	OutputDir  string
	Outcome    string
	Error      string
	FinishedAt time.Time
}

// Repository records terminal outcomes in SQLite
type Repository struct {
	db *sql.DB
}

// New opens (or creates) the history database at dbPath
func New(dbPath string) (*Repository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, err
	}
	// writes come from short-lived goroutines; one connection avoids SQLITE_BUSY
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, err
	}
	return &Repository{db: db}, nil
}

// Close closes the database connection.
func (r *Repository) Close() error {
	return r.db.Close()
}

// Record stores the terminal outcome of one task generation. A second
// record for the same generation replaces the first.
func (r *Repository) Record(ctx context.Context, task model.DownloadTask, outcome model.Outcome) error {
	finished := task.FinishedAt
	if finished.IsZero() {
		finished = time.Now()
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO downloads (task_id, generation, url, title, output_dir, outcome, error, finished_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		task.ID, task.Generation, task.URL, task.GetDisplayTitle(), task.OutputDir,
		outcome.String(), task.LastError, finished,
	)
	return err
}

// Recent returns up to limit entries, newest first.
func (r *Repository) Recent(ctx context.Context, limit int) ([]Entry, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, task_id, generation, url, COALESCE(title, ''), COALESCE(output_dir, ''),
		        outcome, COALESCE(error, ''), finished_at
		 FROM downloads ORDER BY finished_at DESC, id DESC LIMIT ?`, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.TaskID, &e.Generation, &e.URL, &e.Title, &e.OutputDir,
			&e.Outcome, &e.Error, &e.FinishedAt); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Count returns how many outcomes of the given kind were recorded
func (r *Repository) Count(ctx context.Context, outcome model.Outcome) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM downloads WHERE outcome = ?`, outcome.String(),
	).Scan(&n)
	return n, err
}
