package storage

import "leaflet/internal/model"

// UpdateTaskOptions holds parameters for patching an existing Task.
type UpdateTaskOptions struct {
	ID    string
	Patch model.TaskPatch
}
