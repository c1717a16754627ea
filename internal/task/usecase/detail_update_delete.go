package usecase

import (
	"context"
	"errors"

	"leaflet/internal/storage"
	"leaflet/internal/task"
)

// Detail retrieves a single Task by ID. Returns ErrTaskNotFound when not found.
func (uc *implUseCase) Detail(ctx context.Context, id string) (task.DetailOutput, error) {
	t, err := uc.repo.GetTask(ctx, id)
	if err != nil {
		uc.l.Errorf(ctx, "uc.Detail GetTask: %v", err)
		return task.DetailOutput{}, err
	}
	if t.ID == "" {
		return task.DetailOutput{}, task.ErrTaskNotFound
	}
	return task.DetailOutput{Task: t}, nil
}

// Update merges the patch into an existing Task. Returns ErrTaskNotFound when not found.
func (uc *implUseCase) Update(ctx context.Context, input task.UpdateInput) (task.UpdateOutput, error) {
	if err := validatePatch(&input.Patch); err != nil {
		return task.UpdateOutput{}, err
	}

	if input.Patch.IsEmpty() {
		out, err := uc.Detail(ctx, input.ID)
		if err != nil {
			return task.UpdateOutput{}, err
		}
		return task.UpdateOutput{Task: out.Task}, nil
	}

	t, err := uc.repo.UpdateTask(ctx, storage.UpdateTaskOptions{ID: input.ID, Patch: input.Patch})
	if errors.Is(err, storage.ErrNotFound) {
		return task.UpdateOutput{}, task.ErrTaskNotFound
	}
	if err != nil {
		uc.l.Errorf(ctx, "uc.Update UpdateTask: %v", err)
		return task.UpdateOutput{}, err
	}
	return task.UpdateOutput{Task: t}, nil
}

// Delete removes a Task by ID. Returns ErrTaskNotFound when not found.
func (uc *implUseCase) Delete(ctx context.Context, id string) error {
	err := uc.repo.DeleteTask(ctx, id)
	if errors.Is(err, storage.ErrNotFound) {
		return task.ErrTaskNotFound
	}
	if err != nil {
		uc.l.Errorf(ctx, "uc.Delete DeleteTask: %v", err)
		return err
	}
	return nil
}
