package task

import "errors"

// Domain-specific errors for the task package.
var (
	ErrTaskNotFound    = errors.New("task not found")
	ErrTextRequired    = errors.New("text is required")
	ErrInvalidPriority = errors.New("priority must be one of low, medium, high")
)
