package usecase

import (
	"context"
	"errors"
	"sync"

	"leaflet/internal/model"
	"leaflet/internal/storage"
)

// fakeStore is an in-memory storage.TaskStore with error injection.
type fakeStore struct {
	mu    sync.Mutex
	tasks []model.Task
	err   error
}

func (f *fakeStore) ListTasks(ctx context.Context) ([]model.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	return append([]model.Task{}, f.tasks...), nil
}

func (f *fakeStore) GetTask(ctx context.Context, id string) (model.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return model.Task{}, f.err
	}
	for _, t := range f.tasks {
		if t.ID == id {
			return t, nil
		}
	}
	return model.Task{}, nil
}

func (f *fakeStore) CreateTask(ctx context.Context, t model.Task) (model.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return model.Task{}, f.err
	}
	f.tasks = append(f.tasks, t)
	return t, nil
}

func (f *fakeStore) UpdateTask(ctx context.Context, opt storage.UpdateTaskOptions) (model.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return model.Task{}, f.err
	}
	for i, t := range f.tasks {
		if t.ID == opt.ID {
			f.tasks[i] = opt.Patch.Apply(t)
			return f.tasks[i], nil
		}
	}
	return model.Task{}, storage.ErrNotFound
}

func (f *fakeStore) DeleteTask(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	for i, t := range f.tasks {
		if t.ID == id {
			f.tasks = append(f.tasks[:i], f.tasks[i+1:]...)
			return nil
		}
	}
	return storage.ErrNotFound
}

var errBoom = errors.New("boom")
