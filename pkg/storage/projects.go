package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
)

// CreateProject inserts a new project.
func (d *DB) CreateProject(ctx context.Context, name string) (Project, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Project{}, fmt.Errorf("%w: project name is required", ErrInvalid)
	}
	now := d.timestamp()
	res, err := d.sql.ExecContext(ctx, "INSERT INTO projects(name, created_at) VALUES(?, ?)", name, now)
	if err != nil {
		return Project{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return Project{}, err
	}
	return Project{ID: id, Name: name, CreatedAt: parseTimestamp(now)}, nil
}

// GetProject returns the project with the given id or ErrNotFound.
func (d *DB) GetProject(ctx context.Context, id int64) (Project, error) {
	var (
		p       Project
		created string
	)
	err := d.sql.QueryRowContext(ctx, "SELECT id, name, created_at FROM projects WHERE id = ?", id).Scan(&p.ID, &p.Name, &created)
	if errors.Is(err, sql.ErrNoRows) {
		return Project{}, notFound("project", id)
	}
	if err != nil {
		return Project{}, err
	}
	p.CreatedAt = parseTimestamp(created)
	return p, nil
}

// ListProjects returns all projects, oldest first.
func (d *DB) ListProjects(ctx context.Context) ([]Project, error) {
	rows, err := d.sql.QueryContext(ctx, "SELECT id, name, created_at FROM projects ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var projects []Project
	for rows.Next() {
		var (
			p       Project
			created string
		)
		if err := rows.Scan(&p.ID, &p.Name, &created); err != nil {
			return nil, err
		}
		p.CreatedAt = parseTimestamp(created)
		projects = append(projects, p)
	}
	return projects, rows.Err()
}
