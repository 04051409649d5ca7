package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/brightpixel/companion/internal/types"
)

// CreateComment stores public feedback against a shared site-map task.
func (s *SQLiteStore) CreateComment(ctx context.Context, taskID int64, req types.CreateCommentRequest) (*types.SiteMapComment, error) {
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO site_map_comments (task_id, author, section, body, resolved, created_at)
		VALUES (?, ?, ?, ?, 0, ?)
	`, taskID, req.Author, req.Section, req.Body, formatTime(time.Now().UTC()))
	if err != nil {
		return nil, fmt.Errorf("insert comment: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}

	row := s.db.QueryRowContext(ctx, `SELECT id, task_id, author, section, body, resolved, created_at FROM site_map_comments WHERE id = ?`, id)
	return scanComment(row)
}

// ListComments returns feedback for a task, oldest first.
func (s *SQLiteStore) ListComments(ctx context.Context, taskID int64) ([]types.SiteMapComment, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, task_id, author, section, body, resolved, created_at
		FROM site_map_comments
		WHERE task_id = ?
		ORDER BY created_at ASC, id ASC
	`, taskID)
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	defer rows.Close()

	comments := []types.SiteMapComment{}
	for rows.Next() {
		c, err := scanComment(rows)
		if err != nil {
			return nil, err
		}
		comments = append(comments, *c)
	}
	return comments, rows.Err()
}

// SetCommentResolved toggles a comment's resolved flag. The taskID guard
// prevents resolving comments through a different task's share link.
func (s *SQLiteStore) SetCommentResolved(ctx context.Context, taskID, commentID int64, resolved bool) (*types.SiteMapComment, error) {
	res, err := s.db.ExecContext(ctx, `
		UPDATE site_map_comments SET resolved = ? WHERE id = ? AND task_id = ?
	`, boolToInt(resolved), commentID, taskID)
	if err != nil {
		return nil, fmt.Errorf("update comment: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		return nil, ErrNotFound
	}

	row := s.db.QueryRowContext(ctx, `SELECT id, task_id, author, section, body, resolved, created_at FROM site_map_comments WHERE id = ?`, commentID)
	return scanComment(row)
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func scanComment(scanner interface{ Scan(...any) error }) (*types.SiteMapComment, error) {
	var c types.SiteMapComment
	var resolved int
	var createdAt string
	err := scanner.Scan(&c.ID, &c.TaskID, &c.Author, &c.Section, &c.Body, &resolved, &createdAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	c.Resolved = resolved != 0
	c.CreatedAt = parseTime(createdAt)
	return &c, nil
}
