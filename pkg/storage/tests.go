package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
)

// TestItem is a light wrapper for inserting test definitions.
type TestItem struct {
	Name        string
	Description string
}

// CreateTest inserts a single test definition.
func (d *DB) CreateTest(ctx context.Context, name, description string) (Test, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Test{}, fmt.Errorf("%w: test name is required", ErrInvalid)
	}
	now := d.timestamp()
	res, err := d.sql.ExecContext(ctx, "INSERT INTO tests(name, description, created_at) VALUES(?,?,?)", name, nullIfEmpty(description), now)
	if err != nil {
		return Test{}, fmt.Errorf("create test %q: %w", name, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return Test{}, err
	}
	return Test{ID: id, Name: name, Description: description, CreatedAt: parseTimestamp(now)}, nil
}

// UpsertTests inserts the given definitions in one transaction, skipping
// names that already exist. It returns how many were added.
func (d *DB) UpsertTests(ctx context.Context, items []TestItem) (added int, err error) {
	tx, err := d.sql.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return 0, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	now := d.timestamp()
	for _, it := range items {
		name := strings.TrimSpace(it.Name)
		if name == "" {
			continue
		}
		var res sql.Result
		res, err = tx.ExecContext(ctx, `INSERT INTO tests(name, description, created_at) VALUES(?,?,?) ON CONFLICT(name) DO NOTHING`, name, nullIfEmpty(it.Description), now)
		if err != nil {
			return 0, err
		}
		var n int64
		if n, err = res.RowsAffected(); err != nil {
			return 0, err
		}
		added += int(n)
	}

	if err = tx.Commit(); err != nil {
		return 0, err
	}
	return added, nil
}

func scanTest(r rowScanner) (Test, error) {
	var (
		t       Test
		desc    sql.NullString
		created string
	)
	if err := r.Scan(&t.ID, &t.Name, &desc, &created); err != nil {
		return Test{}, err
	}
	t.Description = desc.String
	t.CreatedAt = parseTimestamp(created)
	return t, nil
}

// GetTest returns the test with the given id or ErrNotFound.
func (d *DB) GetTest(ctx context.Context, id int64) (Test, error) {
	t, err := scanTest(d.sql.QueryRowContext(ctx, "SELECT id, name, description, created_at FROM tests WHERE id = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return Test{}, notFound("test", id)
	}
	return t, err
}

// ListTests returns every test definition by id.
func (d *DB) ListTests(ctx context.Context) ([]Test, error) {
	rows, err := d.sql.QueryContext(ctx, "SELECT id, name, description, created_at FROM tests ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tests []Test
	for rows.Next() {
		t, err := scanTest(rows)
		if err != nil {
			return nil, err
		}
		tests = append(tests, t)
	}
	return tests, rows.Err()
}
