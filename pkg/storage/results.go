package storage

import (
	"context"
	"database/sql"
	"fmt"
)

// CreateResult appends one result row and touches the page's updated_at in
// the same transaction. Earlier rows for the same page and test are never
// touched.
func (d *DB) CreateResult(ctx context.Context, pageID, testID int64, value ResultValue) (r Result, err error) {
	if value != Pass && value != Fail {
		return Result{}, fmt.Errorf("%w: result value %q", ErrInvalid, value)
	}

	tx, err := d.sql.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return Result{}, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	now := d.timestamp()
	res, err := tx.ExecContext(ctx, "INSERT INTO results(test_id, page_id, value, created_at) VALUES(?,?,?,?)", testID, pageID, string(value), now)
	if err != nil {
		return Result{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return Result{}, err
	}
	if _, err = tx.ExecContext(ctx, "UPDATE pages SET updated_at = ? WHERE id = ?", now, pageID); err != nil {
		return Result{}, err
	}

	if err = tx.Commit(); err != nil {
		return Result{}, err
	}
	return Result{ID: id, TestID: testID, PageID: pageID, Value: value, CreatedAt: parseTimestamp(now)}, nil
}

func (d *DB) queryResults(ctx context.Context, q string, args ...interface{}) ([]Result, error) {
	rows, err := d.sql.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []Result
	for rows.Next() {
		var (
			r       Result
			value   string
			created string
		)
		if err := rows.Scan(&r.ID, &r.TestID, &r.PageID, &value, &created); err != nil {
			return nil, err
		}
		r.Value = ResultValue(value)
		r.CreatedAt = parseTimestamp(created)
		results = append(results, r)
	}
	return results, rows.Err()
}

// ListResults returns the full result history of a page in creation order.
func (d *DB) ListResults(ctx context.Context, pageID int64) ([]Result, error) {
	return d.queryResults(ctx, "SELECT id, test_id, page_id, value, created_at FROM results WHERE page_id = ? ORDER BY id", pageID)
}

const latestResultsQuery = `
SELECT r.id, r.test_id, r.page_id, r.value, r.created_at
FROM results r
JOIN (
  SELECT page_id, test_id, MAX(id) AS max_id
  FROM results
  %s
  GROUP BY page_id, test_id
) latest ON latest.max_id = r.id
ORDER BY r.id DESC`

// LatestResults returns one row per test for the page: the most recent
// one, newest first.
func (d *DB) LatestResults(ctx context.Context, pageID int64) ([]Result, error) {
	return d.queryResults(ctx, fmt.Sprintf(latestResultsQuery, "WHERE page_id = ?"), pageID)
}

// LatestResultsByProject returns LatestResults for every page of a project,
// keyed by page id.
func (d *DB) LatestResultsByProject(ctx context.Context, projectID int64) (map[int64][]Result, error) {
	results, err := d.queryResults(ctx, fmt.Sprintf(latestResultsQuery, "WHERE page_id IN (SELECT id FROM pages WHERE project_id = ?)"), projectID)
	if err != nil {
		return nil, err
	}
	out := make(map[int64][]Result)
	for _, r := range results {
		out[r.PageID] = append(out[r.PageID], r)
	}
	return out, nil
}
