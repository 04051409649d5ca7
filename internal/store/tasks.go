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

const taskColumns = `id, client_id, type, status, content, metadata, share_token, created_at, completed_at`

// CreateTask inserts a new companion task. When status is in_progress, the
// partial unique index guarantees a single in-flight generation per
// (client, type); a violation maps to ErrGenerationInFlight.
func (s *SQLiteStore) CreateTask(ctx context.Context, clientID int64, taskType types.TaskType, status types.TaskStatus) (*types.CompanionTask, error) {
	var exists int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM clients WHERE id = ?`, clientID).Scan(&exists); err != nil {
		return nil, err
	}
	if exists == 0 {
		return nil, ErrNotFound
	}

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO companion_tasks (client_id, type, status, created_at)
		VALUES (?, ?, ?, ?)
	`, clientID, string(taskType), string(status), formatTime(time.Now().UTC()))
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrGenerationInFlight
		}
		return nil, fmt.Errorf("insert task: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}

	return s.GetTask(ctx, id)
}

// GetTask returns a single companion task by id.
func (s *SQLiteStore) GetTask(ctx context.Context, id int64) (*types.CompanionTask, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+taskColumns+` FROM companion_tasks WHERE id = ?`, id)
	return scanTask(row)
}

// ListTasks returns a client's companion tasks, newest first.
func (s *SQLiteStore) ListTasks(ctx context.Context, clientID int64) ([]types.CompanionTask, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+taskColumns+` FROM companion_tasks
		WHERE client_id = ?
		ORDER BY created_at DESC, id DESC
	`, clientID)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer rows.Close()

	tasks := []types.CompanionTask{}
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, *t)
	}
	return tasks, rows.Err()
}

// UpdateTask applies a partial update and returns the resulting task.
func (s *SQLiteStore) UpdateTask(ctx context.Context, id int64, req types.UpdateTaskRequest) (*types.CompanionTask, error) {
	var sets []string
	var args []any
	set := func(column string, value any) {
		sets = append(sets, column+` = ?`)
		args = append(args, value)
	}

	if req.Status != nil {
		set("status", string(*req.Status))
		if *req.Status == types.TaskCompleted {
			set("completed_at", formatTime(time.Now().UTC()))
		}
	}
	if req.Content != nil {
		set("content", *req.Content)
	}
	if req.Metadata != nil {
		set("metadata", *req.Metadata)
	}

	if len(sets) == 0 {
		return s.GetTask(ctx, id)
	}

	args = append(args, id)
	res, err := s.db.ExecContext(ctx, `UPDATE companion_tasks SET `+strings.Join(sets, ", ")+` WHERE id = ?`, args...)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrGenerationInFlight
		}
		return nil, fmt.Errorf("update task: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		return nil, ErrNotFound
	}

	return s.GetTask(ctx, id)
}

// DeleteTask removes a companion task.
func (s *SQLiteStore) DeleteTask(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM companion_tasks WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// CompleteTask marks a task completed with its generated content.
func (s *SQLiteStore) CompleteTask(ctx context.Context, id int64, content string, metadata *string) (*types.CompanionTask, error) {
	res, err := s.db.ExecContext(ctx, `
		UPDATE companion_tasks
		SET status = ?, content = ?, metadata = COALESCE(?, metadata), completed_at = ?
		WHERE id = ?
	`, string(types.TaskCompleted), content, metadata, formatTime(time.Now().UTC()), id)
	if err != nil {
		return nil, fmt.Errorf("complete task: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		return nil, ErrNotFound
	}
	return s.GetTask(ctx, id)
}

// FailTask reverts a task to pending with a human-readable failure message
// stored as its content, so the UI can offer a retry.
func (s *SQLiteStore) FailTask(ctx context.Context, id int64, message string) (*types.CompanionTask, error) {
	res, err := s.db.ExecContext(ctx, `
		UPDATE companion_tasks
		SET status = ?, content = ?
		WHERE id = ?
	`, string(types.TaskPending), message, id)
	if err != nil {
		return nil, fmt.Errorf("fail task: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		return nil, ErrNotFound
	}
	return s.GetTask(ctx, id)
}

// LatestCompletedTask returns the most recent completed task of the given
// type for a client, or ErrNotFound when none exists.
func (s *SQLiteStore) LatestCompletedTask(ctx context.Context, clientID int64, taskType types.TaskType) (*types.CompanionTask, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+taskColumns+` FROM companion_tasks
		WHERE client_id = ? AND type = ? AND status = ?
		ORDER BY created_at DESC, id DESC
		LIMIT 1
	`, clientID, string(taskType), string(types.TaskCompleted))
	return scanTask(row)
}

// SetShareToken attaches a public share token to a task.
func (s *SQLiteStore) SetShareToken(ctx context.Context, id int64, token string) error {
	res, err := s.db.ExecContext(ctx, `UPDATE companion_tasks SET share_token = ? WHERE id = ?`, token, id)
	if err != nil {
		return fmt.Errorf("set share token: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// GetTaskByShareToken resolves a public share token to its task.
func (s *SQLiteStore) GetTaskByShareToken(ctx context.Context, token string) (*types.CompanionTask, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+taskColumns+` FROM companion_tasks WHERE share_token = ?`, token)
	return scanTask(row)
}

// RevertStaleTasks flips in_progress tasks created before olderThan back to
// pending with the given message. Returns the number of tasks reverted.
func (s *SQLiteStore) RevertStaleTasks(ctx context.Context, olderThan time.Time, message string) (int64, error) {
	res, err := s.db.ExecContext(ctx, `
		UPDATE companion_tasks
		SET status = ?, content = ?
		WHERE status = ? AND created_at < ?
	`, string(types.TaskPending), message, string(types.TaskInProgress), formatTime(olderThan))
	if err != nil {
		return 0, fmt.Errorf("revert stale tasks: %w", err)
	}
	return res.RowsAffected()
}

func scanTask(scanner interface{ Scan(...any) error }) (*types.CompanionTask, error) {
	var t types.CompanionTask
	var taskType, status, createdAt string
	var content, metadata, shareToken, completedAt sql.NullString

	err := scanner.Scan(
		&t.ID,
		&t.ClientID,
		&taskType,
		&status,
		&content,
		&metadata,
		&shareToken,
		&createdAt,
		&completedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	t.Type = types.TaskType(taskType)
	t.Status = types.TaskStatus(status)
	t.Content = nullStringPtr(content)
	t.Metadata = nullStringPtr(metadata)
	t.ShareToken = nullStringPtr(shareToken)
	t.CreatedAt = parseTime(createdAt)
	t.CompletedAt = parseNullTime(completedAt)
	return &t, nil
}
