package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"leaflet/internal/model"
	"leaflet/internal/storage"
)

const taskColumns = `id, text, category, priority, completed, created_at, rotation`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTask(row rowScanner) (model.Task, error) {
	var (
		t         model.Task
		priority  string
		completed int
		createdAt string
	)
	if err := row.Scan(&t.ID, &t.Text, &t.Category, &priority, &completed, &createdAt, &t.Rotation); err != nil {
		return model.Task{}, err
	}
	t.Priority = model.Priority(priority)
	t.Completed = completed != 0

	ts, err := time.Parse(time.RFC3339Nano, createdAt)
	if err != nil {
		return model.Task{}, fmt.Errorf("parse created_at %q: %w", createdAt, err)
	}
	t.CreatedAt = ts
	return t, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func (s *implStore) ListTasks(ctx context.Context) ([]model.Task, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+taskColumns+` FROM tasks ORDER BY position`)
	if err != nil {
		s.l.Errorf(ctx, "%s: %v", s.dsn("ListTasks"), err)
		return nil, storage.ErrFailedToList
	}
	defer rows.Close()

	tasks := []model.Task{}
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			s.l.Errorf(ctx, "%s scan: %v", s.dsn("ListTasks"), err)
			return nil, storage.ErrFailedToList
		}
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		s.l.Errorf(ctx, "%s rows: %v", s.dsn("ListTasks"), err)
		return nil, storage.ErrFailedToList
	}
	return tasks, nil
}

// GetTask returns a zero-value Task when not found.
func (s *implStore) GetTask(ctx context.Context, id string) (model.Task, error) {
	t, err := scanTask(s.db.QueryRowContext(ctx, `SELECT `+taskColumns+` FROM tasks WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return model.Task{}, nil
	}
	if err != nil {
		s.l.Errorf(ctx, "%s: %v", s.dsn("GetTask"), err)
		return model.Task{}, storage.ErrFailedToGet
	}
	return t, nil
}

func (s *implStore) CreateTask(ctx context.Context, task model.Task) (model.Task, error) {
	const query = `
		INSERT INTO tasks (id, text, category, priority, completed, created_at, rotation)
		VALUES (?, ?, ?, ?, ?, ?, ?)`

	_, err := s.db.ExecContext(ctx, query,
		task.ID, task.Text, task.Category, string(task.Priority),
		boolToInt(task.Completed), task.CreatedAt.UTC().Format(time.RFC3339Nano), task.Rotation,
	)
	if err != nil {
		s.l.Errorf(ctx, "%s: %v", s.dsn("CreateTask"), err)
		return model.Task{}, storage.ErrFailedToInsert
	}
	return task, nil
}

func (s *implStore) UpdateTask(ctx context.Context, opt storage.UpdateTaskOptions) (model.Task, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.l.Errorf(ctx, "%s begin: %v", s.dsn("UpdateTask"), err)
		return model.Task{}, storage.ErrFailedToUpdate
	}
	defer tx.Rollback()

	current, err := scanTask(tx.QueryRowContext(ctx, `SELECT `+taskColumns+` FROM tasks WHERE id = ?`, opt.ID))
	if errors.Is(err, sql.ErrNoRows) {
		return model.Task{}, storage.ErrNotFound
	}
	if err != nil {
		s.l.Errorf(ctx, "%s select: %v", s.dsn("UpdateTask"), err)
		return model.Task{}, storage.ErrFailedToUpdate
	}

	next := opt.Patch.Apply(current)

	const query = `
		UPDATE tasks
		SET text = ?, category = ?, priority = ?, completed = ?, created_at = ?, rotation = ?
		WHERE id = ?`
	if _, err := tx.ExecContext(ctx, query,
		next.Text, next.Category, string(next.Priority), boolToInt(next.Completed),
		next.CreatedAt.UTC().Format(time.RFC3339Nano), next.Rotation, next.ID,
	); err != nil {
		s.l.Errorf(ctx, "%s update: %v", s.dsn("UpdateTask"), err)
		return model.Task{}, storage.ErrFailedToUpdate
	}

	if err := tx.Commit(); err != nil {
		s.l.Errorf(ctx, "%s commit: %v", s.dsn("UpdateTask"), err)
		return model.Task{}, storage.ErrFailedToUpdate
	}
	return next, nil
}

func (s *implStore) DeleteTask(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = ?`, id)
	if err != nil {
		s.l.Errorf(ctx, "%s: %v", s.dsn("DeleteTask"), err)
		return storage.ErrFailedToDelete
	}
	n, err := res.RowsAffected()
	if err != nil {
		s.l.Errorf(ctx, "%s rows affected: %v", s.dsn("DeleteTask"), err)
		return storage.ErrFailedToDelete
	}
	if n == 0 {
		return storage.ErrNotFound
	}
	return nil
}
