package jsonfile

import (
	"context"
	"errors"
	"fmt"
	"os"

	"leaflet/internal/model"
	"leaflet/internal/storage"
	"leaflet/pkg/jsonfile"
)

// readTasks never fails: a missing or unreadable file is an empty list.
// Caller must hold s.mu.
func (s *implStore) readTasks(ctx context.Context) []model.Task {
	var tasks []model.Task
	err := jsonfile.Read(s.tasksPath, &tasks)
	switch {
	case err == nil:
	case errors.Is(err, os.ErrNotExist):
		return []model.Task{}
	default:
		s.l.Warnf(ctx, "%s: %v; treating as empty", s.dsn("readTasks"), err)
		if errors.Is(err, jsonfile.ErrCorrupt) {
			s.tasksCorrupt = true
		}
		return []model.Task{}
	}
	if tasks == nil {
		tasks = []model.Task{}
	}
	return tasks
}

// Caller must hold s.mu.
func (s *implStore) writeTasks(ctx context.Context, tasks []model.Task) error {
	if s.tasksCorrupt {
		s.quarantine(ctx, s.tasksPath)
		s.tasksCorrupt = false
	}
	return jsonfile.Write(s.tasksPath, tasks)
}

func (s *implStore) ListTasks(ctx context.Context) ([]model.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.readTasks(ctx), nil
}

func (s *implStore) GetTask(ctx context.Context, id string) (model.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, t := range s.readTasks(ctx) {
		if t.ID == id {
			return t, nil
		}
	}
	return model.Task{}, nil
}

func (s *implStore) CreateTask(ctx context.Context, task model.Task) (model.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tasks := append(s.readTasks(ctx), task)
	if err := s.writeTasks(ctx, tasks); err != nil {
		s.l.Errorf(ctx, "%s: %v", s.dsn("CreateTask"), err)
		return model.Task{}, fmt.Errorf("%w: %v", storage.ErrFailedToInsert, err)
	}
	return task, nil
}

func (s *implStore) UpdateTask(ctx context.Context, opt storage.UpdateTaskOptions) (model.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tasks := s.readTasks(ctx)
	idx := indexOf(tasks, opt.ID)
	if idx == -1 {
		return model.Task{}, storage.ErrNotFound
	}

	tasks[idx] = opt.Patch.Apply(tasks[idx])
	if err := s.writeTasks(ctx, tasks); err != nil {
		s.l.Errorf(ctx, "%s: %v", s.dsn("UpdateTask"), err)
		return model.Task{}, fmt.Errorf("%w: %v", storage.ErrFailedToUpdate, err)
	}
	return tasks[idx], nil
}

func (s *implStore) DeleteTask(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tasks := s.readTasks(ctx)
	idx := indexOf(tasks, id)
	if idx == -1 {
		return storage.ErrNotFound
	}

	next := append(tasks[:idx:idx], tasks[idx+1:]...)
	if err := s.writeTasks(ctx, next); err != nil {
		s.l.Errorf(ctx, "%s: %v", s.dsn("DeleteTask"), err)
		return fmt.Errorf("%w: %v", storage.ErrFailedToDelete, err)
	}
	return nil
}

func indexOf(tasks []model.Task, id string) int {
	for i, t := range tasks {
		if t.ID == id {
			return i
		}
	}
	return -1
}
