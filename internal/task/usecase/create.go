package usecase

import (
	"context"
	"time"

	"leaflet/internal/model"
	"leaflet/internal/task"
)

// Create validates the input and persists a new Task with a fresh id.
func (uc *implUseCase) Create(ctx context.Context, input task.CreateInput) (task.CreateOutput, error) {
	text, err := normalizeText(input.Text)
	if err != nil {
		return task.CreateOutput{}, err
	}

	priority := model.Priority(coalesce(string(input.Priority), string(model.DefaultPriority)))
	if !priority.IsValid() {
		return task.CreateOutput{}, task.ErrInvalidPriority
	}

	now := uc.now().UTC().Truncate(time.Millisecond)
	t := model.Task{
		ID:        newID(now),
		Text:      text,
		Category:  coalesce(input.Category, model.DefaultCategory),
		Priority:  priority,
		Completed: false,
		CreatedAt: now,
		Rotation:  uc.rotation(),
	}

	created, err := uc.repo.CreateTask(ctx, t)
	if err != nil {
		uc.l.Errorf(ctx, "uc.Create CreateTask: %v", err)
		return task.CreateOutput{}, err
	}

	uc.l.Debugf(ctx, "task %s created", created.ID)
	return task.CreateOutput{Task: created}, nil
}
