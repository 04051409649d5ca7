package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/brightpixel/companion/internal/types"
)

const projectColumns = `id, client_id, name, description, status, value, start_date, end_date, created_at, updated_at`

// CreateProject inserts a project and refreshes the owning client's total
// value in the same transaction.
func (s *SQLiteStore) CreateProject(ctx context.Context, req types.CreateProjectRequest) (*types.Project, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	var exists int
	if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM clients WHERE id = ?`, req.ClientID).Scan(&exists); err != nil {
		return nil, err
	}
	if exists == 0 {
		return nil, ErrNotFound
	}

	now := time.Now().UTC()
	status := req.Status
	if status == "" {
		status = "active"
	}

	res, err := tx.ExecContext(ctx, `
		INSERT INTO projects (client_id, name, description, status, value, start_date, end_date, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, req.ClientID, req.Name, req.Description, status, req.Value, formatTimePtr(req.StartDate), formatTimePtr(req.EndDate), formatTime(now), formatTime(now))
	if err != nil {
		return nil, fmt.Errorf("insert project: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}

	if err := recomputeTotalValue(ctx, tx, req.ClientID); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return s.GetProject(ctx, id)
}

// GetProject returns a single project by id.
func (s *SQLiteStore) GetProject(ctx context.Context, id int64) (*types.Project, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+projectColumns+` FROM projects WHERE id = ?`, id)
	return scanProject(row)
}

// ListProjects returns projects for a client, or all projects when clientID is 0.
func (s *SQLiteStore) ListProjects(ctx context.Context, clientID int64) ([]types.Project, error) {
	query := `SELECT ` + projectColumns + ` FROM projects`
	var args []any
	if clientID != 0 {
		query += ` WHERE client_id = ?`
		args = append(args, clientID)
	}
	query += ` ORDER BY created_at DESC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	defer rows.Close()

	projects := []types.Project{}
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		projects = append(projects, *p)
	}
	return projects, rows.Err()
}

// UpdateProject applies a partial update and refreshes the client's total value.
func (s *SQLiteStore) UpdateProject(ctx context.Context, id int64, req types.UpdateProjectRequest) (*types.Project, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	var clientID int64
	if err := tx.QueryRowContext(ctx, `SELECT client_id FROM projects WHERE id = ?`, id).Scan(&clientID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	var sets []string
	var args []any
	set := func(column string, value any) {
		sets = append(sets, column+` = ?`)
		args = append(args, value)
	}

	if req.Name != nil {
		set("name", *req.Name)
	}
	if req.Description != nil {
		set("description", *req.Description)
	}
	if req.Status != nil {
		set("status", *req.Status)
	}
	if req.Value != nil {
		set("value", *req.Value)
	}
	if req.StartDate != nil {
		set("start_date", formatTime(*req.StartDate))
	}
	if req.EndDate != nil {
		set("end_date", formatTime(*req.EndDate))
	}

	if len(sets) > 0 {
		set("updated_at", formatTime(time.Now().UTC()))
		args = append(args, id)
		if _, err := tx.ExecContext(ctx, `UPDATE projects SET `+strings.Join(sets, ", ")+` WHERE id = ?`, args...); err != nil {
			return nil, fmt.Errorf("update project: %w", err)
		}
		if err := recomputeTotalValue(ctx, tx, clientID); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return s.GetProject(ctx, id)
}

// DeleteProject removes a project and refreshes the client's total value.
func (s *SQLiteStore) DeleteProject(ctx context.Context, id int64) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	var clientID int64
	if err := tx.QueryRowContext(ctx, `SELECT client_id FROM projects WHERE id = ?`, id).Scan(&clientID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		return err
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM projects WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete project: %w", err)
	}

	if err := recomputeTotalValue(ctx, tx, clientID); err != nil {
		return err
	}

	return tx.Commit()
}

func scanProject(scanner interface{ Scan(...any) error }) (*types.Project, error) {
	var p types.Project
	var startDate, endDate sql.NullString
	var createdAt, updatedAt string

	err := scanner.Scan(
		&p.ID,
		&p.ClientID,
		&p.Name,
		&p.Description,
		&p.Status,
		&p.Value,
		&startDate,
		&endDate,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	p.StartDate = parseNullTime(startDate)
	p.EndDate = parseNullTime(endDate)
	p.CreatedAt = parseTime(createdAt)
	p.UpdatedAt = parseTime(updatedAt)
	return &p, nil
}
