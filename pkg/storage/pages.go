package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

const pageColumns = "id, project_id, url, title, created_at, updated_at"

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanPage(r rowScanner) (Page, error) {
	var (
		p                Page
		title            sql.NullString
		created, updated string
	)
	if err := r.Scan(&p.ID, &p.ProjectID, &p.URL, &title, &created, &updated); err != nil {
		return Page{}, err
	}
	p.Title = title.String
	p.CreatedAt = parseTimestamp(created)
	p.UpdatedAt = parseTimestamp(updated)
	return p, nil
}

// CreatePage adds a page to a project. The URL is normalized first; adding
// a URL the project already has returns the existing page with created
// set to false.
func (d *DB) CreatePage(ctx context.Context, projectID int64, rawURL, title string) (page Page, created bool, err error) {
	url := NormalizePageURL(rawURL)
	if url == "" {
		return Page{}, false, fmt.Errorf("%w: page URL %q", ErrInvalid, rawURL)
	}
	if _, err := d.GetProject(ctx, projectID); err != nil {
		return Page{}, false, err
	}

	now := d.timestamp()
	res, err := d.sql.ExecContext(ctx,
		`INSERT INTO pages(project_id, url, title, created_at, updated_at) VALUES(?,?,?,?,?) ON CONFLICT(project_id, url) DO NOTHING`,
		projectID, url, nullIfEmpty(title), now, now)
	if err != nil {
		return Page{}, false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return Page{}, false, err
	}

	page, err = scanPage(d.sql.QueryRowContext(ctx, "SELECT "+pageColumns+" FROM pages WHERE project_id = ? AND url = ?", projectID, url))
	if err != nil {
		return Page{}, false, err
	}
	return page, n == 1, nil
}

// GetPage returns the page with the given id or ErrNotFound.
func (d *DB) GetPage(ctx context.Context, id int64) (Page, error) {
	p, err := scanPage(d.sql.QueryRowContext(ctx, "SELECT "+pageColumns+" FROM pages WHERE id = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return Page{}, notFound("page", id)
	}
	return p, err
}

// ListPages returns the pages of a project in insertion order.
func (d *DB) ListPages(ctx context.Context, projectID int64) ([]Page, error) {
	rows, err := d.sql.QueryContext(ctx, "SELECT "+pageColumns+" FROM pages WHERE project_id = ? ORDER BY id", projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var pages []Page
	for rows.Next() {
		p, err := scanPage(rows)
		if err != nil {
			return nil, err
		}
		pages = append(pages, p)
	}
	return pages, rows.Err()
}
