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

const clientColumns = `id, name, contact_name, contact_title, email, phone, website, industry, status, project_value, total_value, created_at, updated_at`

// CreateClient inserts a new client. Status defaults to Discovery.
func (s *SQLiteStore) CreateClient(ctx context.Context, req types.CreateClientRequest) (*types.Client, error) {
	now := time.Now().UTC()
	status := req.Status
	if status == "" {
		status = types.PhaseDiscovery
	}

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO clients (name, contact_name, contact_title, email, phone, website, industry, status, project_value, total_value, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, 0, ?, ?)
	`, req.Name, req.ContactName, req.ContactTitle, req.Email, req.Phone, req.Website, req.Industry, string(status), req.ProjectValue, formatTime(now), formatTime(now))
	if err != nil {
		return nil, fmt.Errorf("insert client: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("client id: %w", err)
	}

	return s.GetClient(ctx, id)
}

// GetClient returns a single client by id.
func (s *SQLiteStore) GetClient(ctx context.Context, id int64) (*types.Client, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+clientColumns+` FROM clients WHERE id = ?`, id)
	return scanClient(row)
}

// ListClients returns clients matching the filter with embedded project summaries.
func (s *SQLiteStore) ListClients(ctx context.Context, filter types.ClientFilter) ([]types.ClientWithProjects, error) {
	query := `SELECT ` + clientColumns + ` FROM clients`
	var conds []string
	var args []any

	if filter.Search != "" {
		conds = append(conds, `(name LIKE ? OR contact_name LIKE ? OR email LIKE ?)`)
		pattern := "%" + filter.Search + "%"
		args = append(args, pattern, pattern, pattern)
	}
	if filter.Status != "" {
		conds = append(conds, `status = ?`)
		args = append(args, string(filter.Status))
	}
	if filter.Industry != "" {
		conds = append(conds, `industry = ?`)
		args = append(args, filter.Industry)
	}
	if filter.ProjectStatus != "" {
		conds = append(conds, `EXISTS (SELECT 1 FROM projects WHERE projects.client_id = clients.id AND projects.status = ?)`)
		args = append(args, filter.ProjectStatus)
	}
	if len(conds) > 0 {
		query += ` WHERE ` + strings.Join(conds, ` AND `)
	}

	switch filter.Sort {
	case "name":
		query += ` ORDER BY name COLLATE NOCASE ASC`
	case "value":
		query += ` ORDER BY total_value DESC`
	case "oldest":
		query += ` ORDER BY created_at ASC`
	default:
		query += ` ORDER BY created_at DESC`
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list clients: %w", err)
	}
	defer rows.Close()

	var out []types.ClientWithProjects
	for rows.Next() {
		c, err := scanClient(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, types.ClientWithProjects{Client: *c, Projects: []types.Project{}})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range out {
		projects, err := s.ListProjects(ctx, out[i].ID)
		if err != nil {
			return nil, err
		}
		out[i].Projects = projects
	}

	return out, nil
}

// UpdateClient applies a partial update and returns the resulting client.
func (s *SQLiteStore) UpdateClient(ctx context.Context, id int64, req types.UpdateClientRequest) (*types.Client, error) {
	var sets []string
	var args []any

	set := func(column string, value any) {
		sets = append(sets, column+` = ?`)
		args = append(args, value)
	}

	if req.Name != nil {
		set("name", *req.Name)
	}
	if req.ContactName != nil {
		set("contact_name", *req.ContactName)
	}
	if req.ContactTitle != nil {
		set("contact_title", *req.ContactTitle)
	}
	if req.Email != nil {
		set("email", *req.Email)
	}
	if req.Phone != nil {
		set("phone", *req.Phone)
	}
	if req.Website != nil {
		set("website", *req.Website)
	}
	if req.Industry != nil {
		set("industry", *req.Industry)
	}
	if req.Status != nil {
		set("status", string(*req.Status))
	}
	if req.ProjectValue != nil {
		set("project_value", *req.ProjectValue)
	}

	if len(sets) == 0 {
		return s.GetClient(ctx, id)
	}

	set("updated_at", formatTime(time.Now().UTC()))
	args = append(args, id)

	res, err := s.db.ExecContext(ctx, `UPDATE clients SET `+strings.Join(sets, ", ")+` WHERE id = ?`, args...)
	if err != nil {
		return nil, fmt.Errorf("update client: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		return nil, ErrNotFound
	}

	return s.GetClient(ctx, id)
}

// DeleteClient removes a client. Projects, companion tasks, and share
// comments go with it in the same transaction via foreign key cascade.
func (s *SQLiteStore) DeleteClient(ctx context.Context, id int64) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `DELETE FROM clients WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete client: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}

	return tx.Commit()
}

// recomputeTotalValue refreshes a client's aggregate project value inside tx.
// Recomputed rather than incrementally patched so it cannot drift.
func recomputeTotalValue(ctx context.Context, tx *sql.Tx, clientID int64) error {
	_, err := tx.ExecContext(ctx, `
		UPDATE clients
		SET total_value = COALESCE((SELECT SUM(value) FROM projects WHERE client_id = ?), 0),
		    updated_at = ?
		WHERE id = ?
	`, clientID, formatTime(time.Now().UTC()), clientID)
	if err != nil {
		return fmt.Errorf("recompute total value: %w", err)
	}
	return nil
}

func scanClient(scanner interface{ Scan(...any) error }) (*types.Client, error) {
	var c types.Client
	var status, createdAt, updatedAt string

	err := scanner.Scan(
		&c.ID,
		&c.Name,
		&c.ContactName,
		&c.ContactTitle,
		&c.Email,
		&c.Phone,
		&c.Website,
		&c.Industry,
		&status,
		&c.ProjectValue,
		&c.TotalValue,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	c.Status = types.Phase(status)
	c.CreatedAt = parseTime(createdAt)
	c.UpdatedAt = parseTime(updatedAt)
	return &c, nil
}
