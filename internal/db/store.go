package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Joseda-hg/todo/internal/model"
	"github.com/Joseda-hg/todo/internal/tasks"
)

const selectTasks = "SELECT id, description, done, created_at, updated_at FROM tasks"

type Store struct {
	DB  *sql.DB
	now func() time.Time
}

var _ tasks.Store = (*Store)(nil)

func NewStore(db *sql.DB) *Store {
	return &Store{DB: db, now: time.Now}
}

// SetClock replaces the time source used for new and completed tasks.
func (s *Store) SetClock(now func() time.Time) {
	s.now = now
}

func (s *Store) Add(ctx context.Context, description string) (model.Task, error) {
	task := model.NewTask(description, s.now())

	result, err := s.DB.ExecContext(ctx,
		"INSERT INTO tasks (description, done, created_at, updated_at) VALUES (?, ?, ?, ?)",
		task.Description, task.Done, formatTimestamp(task.CreatedAt), formatTimestamp(task.UpdatedAt),
	)
	if err != nil {
		return model.Task{}, fmt.Errorf("insert task: %w", err)
	}

	task.ID, err = result.LastInsertId()
	if err != nil {
		return model.Task{}, fmt.Errorf("read task id: %w", err)
	}
	return task, nil
}

func (s *Store) List(ctx context.Context) ([]model.Task, error) {
	rows, err := s.DB.QueryContext(ctx, selectTasks+" ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer rows.Close()

	result := []model.Task{}
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, task)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}

	return result, nil
}

// Complete marks the task done. updated_at only moves forward; the stored
// value is compared as a time, whatever offset or precision it was written with.
func (s *Store) Complete(ctx context.Context, id int64) (bool, error) {
	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("complete task %d: %w", id, err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	var stored string
	err = tx.QueryRowContext(ctx, "SELECT updated_at FROM tasks WHERE id = ?", id).Scan(&stored)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("complete task %d: %w", id, err)
	}

	previous, err := parseTimestamp(stored)
	if err != nil {
		return false, fmt.Errorf("task %d updated_at: %w", id, err)
	}
	now := s.now().UTC()
	if now.Before(previous) {
		now = previous
	}

	if _, err := tx.ExecContext(ctx, "UPDATE tasks SET done = 1, updated_at = ? WHERE id = ?", formatTimestamp(now), id); err != nil {
		return false, fmt.Errorf("complete task %d: %w", id, err)
	}
	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("complete task %d: %w", id, err)
	}
	return true, nil
}

func (s *Store) Remove(ctx context.Context, id int64) (bool, error) {
	result, err := s.DB.ExecContext(ctx, "DELETE FROM tasks WHERE id = ?", id)
	if err != nil {
		return false, fmt.Errorf("remove task %d: %w", id, err)
	}
	return affected(result)
}

// Flush is a no-op: every call above commits before returning.
func (s *Store) Flush(ctx context.Context) error {
	return nil
}

func (s *Store) Close() error {
	return s.DB.Close()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanTask(row scanner) (model.Task, error) {
	var (
		task      model.Task
		createdAt string
		updatedAt string
	)
	if err := row.Scan(&task.ID, &task.Description, &task.Done, &createdAt, &updatedAt); err != nil {
		return model.Task{}, err
	}

	var err error
	if task.CreatedAt, err = parseTimestamp(createdAt); err != nil {
		return model.Task{}, fmt.Errorf("task %d created_at: %w", task.ID, err)
	}
	if task.UpdatedAt, err = parseTimestamp(updatedAt); err != nil {
		return model.Task{}, fmt.Errorf("task %d updated_at: %w", task.ID, err)
	}
	return task, nil
}

func affected(result sql.Result) (bool, error) {
	count, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return count > 0, nil
}

// Timestamps are written as fixed-width UTC text; reads accept any RFC 3339 value.
const timestampLayout = "2006-01-02T15:04:05.000000000Z07:00"

func formatTimestamp(value time.Time) string {
	if value.IsZero() {
		return ""
	}
	return value.UTC().Format(timestampLayout)
}

func parseTimestamp(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	parsed, err := time.Parse(time.RFC3339Nano, value)
	if err != nil {
		return time.Time{}, err
	}
	return parsed.UTC(), nil
}
