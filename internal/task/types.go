package task

import "leaflet/internal/model"

// --- UseCase Inputs ---

// CreateInput carries the fields a client may set on creation. Empty Category
// and Priority fall back to the defaults.
type CreateInput struct {
	Text     string
	Category string
	Priority model.Priority
}

type UpdateInput struct {
	ID    string
	Patch model.TaskPatch
}

// --- UseCase Outputs ---

type CreateOutput struct {
	Task model.Task
}

type ListOutput struct {
	Tasks []model.Task
}

type DetailOutput struct {
	Task model.Task
}

type UpdateOutput struct {
	Task model.Task
}
