package usecase

import (
	"context"

	"leaflet/internal/task"
)

// List returns every Task in insertion order.
func (uc *implUseCase) List(ctx context.Context) (task.ListOutput, error) {
	tasks, err := uc.repo.ListTasks(ctx)
	if err != nil {
		uc.l.Errorf(ctx, "uc.List ListTasks: %v", err)
		return task.ListOutput{}, err
	}
	return task.ListOutput{Tasks: tasks}, nil
}
