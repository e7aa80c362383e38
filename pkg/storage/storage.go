package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// ErrNotFound is returned by lookups of a single row that does not exist.
var ErrNotFound = errors.New("not found")

// ErrInvalid marks input rejected before it reaches the database.
var ErrInvalid = errors.New("invalid input")

const timeLayout = time.RFC3339Nano

type DB struct {
	sql *sql.DB
	now func() time.Time
}

func Open(path string) (*DB, error) {
	dsn := "file:" + path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_pragma=foreign_keys(1)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, err
	}
	// Ensure schema exists for convenience.
	if _, err := db.Exec(`
CREATE TABLE IF NOT EXISTS projects (
  id          INTEGER PRIMARY KEY,
  name        TEXT NOT NULL,
  created_at  DATETIME NOT NULL
);
CREATE TABLE IF NOT EXISTS pages (
  id          INTEGER PRIMARY KEY,
  project_id  INTEGER NOT NULL REFERENCES projects(id),
  url         TEXT NOT NULL,
  title       TEXT,
  created_at  DATETIME NOT NULL,
  updated_at  DATETIME NOT NULL,
  UNIQUE(project_id, url)
);
CREATE INDEX IF NOT EXISTS idx_pages_project ON pages(project_id);
CREATE TABLE IF NOT EXISTS tests (
  id          INTEGER PRIMARY KEY,
  name        TEXT NOT NULL UNIQUE,
  description TEXT,
  created_at  DATETIME NOT NULL
);
CREATE TABLE IF NOT EXISTS results (
  id          INTEGER PRIMARY KEY,
  test_id     INTEGER NOT NULL REFERENCES tests(id),
  page_id     INTEGER NOT NULL REFERENCES pages(id),
  value       TEXT NOT NULL CHECK (value IN ('PASS','FAIL')),
  created_at  DATETIME NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_results_page_test ON results(page_id, test_id, id);
    `); err != nil {
		db.Close()
		return nil, err
	}
	return &DB{sql: db, now: func() time.Time { return time.Now().UTC() }}, nil
}

func (d *DB) Close() error {
	if d == nil || d.sql == nil {
		return nil
	}
	return d.sql.Close()
}

func (d *DB) timestamp() string {
	return d.now().Format(timeLayout)
}

// parseTimestamp accepts our own layout plus the formats SQLite produces
// for CURRENT_TIMESTAMP.
func parseTimestamp(s string) time.Time {
	for _, layout := range []string{timeLayout, "2006-01-02 15:04:05", time.RFC3339} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

func notFound(kind string, id int64) error {
	return fmt.Errorf("%s %d: %w", kind, id, ErrNotFound)
}

func nullIfEmpty(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

// Stats holds row counts for each entity.
type Stats struct {
	Projects int `json:"projects"`
	Pages    int `json:"pages"`
	Tests    int `json:"tests"`
	Results  int `json:"results"`
}

func (d *DB) GetStats(ctx context.Context) (Stats, error) {
	var s Stats
	err := d.sql.QueryRowContext(ctx, `
		SELECT
			(SELECT COUNT(*) FROM projects),
			(SELECT COUNT(*) FROM pages),
			(SELECT COUNT(*) FROM tests),
			(SELECT COUNT(*) FROM results)
	`).Scan(&s.Projects, &s.Pages, &s.Tests, &s.Results)
	return s, err
}
