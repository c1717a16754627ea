package storage

import (
	"context"

	"leaflet/internal/model"
)

// Store is the composed persistence interface the API layer depends on.
// Backends: jsonfile (default), sqlite, redis.
type Store interface {
	TaskStore
	PreferenceStore
	Close() error
}

// TaskStore defines all data access methods for tasks. Every backend keeps
// tasks in insertion order.
type TaskStore interface {
	ListTasks(ctx context.Context) ([]model.Task, error)
	// GetTask returns a zero-value Task (ID == "") when id is unknown.
	GetTask(ctx context.Context, id string) (model.Task, error)
	CreateTask(ctx context.Context, task model.Task) (model.Task, error)
	// UpdateTask merges the patch into the stored task in one atomic step.
	// Returns ErrNotFound when id is unknown.
	UpdateTask(ctx context.Context, opt UpdateTaskOptions) (model.Task, error)
	// DeleteTask returns ErrNotFound when id is unknown.
	DeleteTask(ctx context.Context, id string) error
}

// PreferenceStore holds the singleton preferences document.
type PreferenceStore interface {
	GetPreferences(ctx context.Context) (model.Preferences, error)
	// MergePreferences shallow-merges updates into the stored document.
	MergePreferences(ctx context.Context, updates model.Preferences) (model.Preferences, error)
}
