// Package storagetest holds the behavior every storage.Store backend must
// share. Backend packages call Run from their own tests.
package storagetest

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"leaflet/internal/model"
	"leaflet/internal/storage"
)

// Factory returns a fresh, empty store.
type Factory func(t *testing.T) storage.Store

func newTask(id, text string) model.Task {
	return model.Task{
		ID:        id,
		Text:      text,
		Category:  model.DefaultCategory,
		Priority:  model.DefaultPriority,
		CreatedAt: time.Date(2024, 5, 1, 15, 30, 0, 0, time.UTC),
		Rotation:  -4,
	}
}

// Run exercises the store contract.
func Run(t *testing.T, factory Factory) {
	t.Run("EmptyList", func(t *testing.T) {
		s := factory(t)
		tasks, err := s.ListTasks(context.Background())
		if err != nil {
			t.Fatalf("ListTasks: %v", err)
		}
		if tasks == nil || len(tasks) != 0 {
			t.Errorf("expected empty non-nil list, got %#v", tasks)
		}
	})

	t.Run("CreateKeepsInsertionOrder", func(t *testing.T) {
		s := factory(t)
		ctx := context.Background()
		for _, id := range []string{"c", "a", "b"} {
			if _, err := s.CreateTask(ctx, newTask(id, "task "+id)); err != nil {
				t.Fatalf("CreateTask %s: %v", id, err)
			}
		}

		tasks, err := s.ListTasks(ctx)
		if err != nil {
			t.Fatalf("ListTasks: %v", err)
		}
		if len(tasks) != 3 {
			t.Fatalf("expected 3 tasks, got %d", len(tasks))
		}
		for i, want := range []string{"c", "a", "b"} {
			if tasks[i].ID != want {
				t.Errorf("position %d: expected %s, got %s", i, want, tasks[i].ID)
			}
		}
		if !tasks[0].CreatedAt.Equal(newTask("c", "").CreatedAt) || tasks[0].Rotation != -4 {
			t.Errorf("fields not round-tripped: %+v", tasks[0])
		}
	})

	t.Run("GetUnknownReturnsZero", func(t *testing.T) {
		s := factory(t)
		got, err := s.GetTask(context.Background(), "nope")
		if err != nil {
			t.Fatalf("GetTask: %v", err)
		}
		if got.ID != "" {
			t.Errorf("expected zero task, got %+v", got)
		}
	})

	t.Run("UpdateMergesPatch", func(t *testing.T) {
		s := factory(t)
		ctx := context.Background()
		if _, err := s.CreateTask(ctx, newTask("1", "buy milk")); err != nil {
			t.Fatal(err)
		}

		done := true
		updated, err := s.UpdateTask(ctx, storage.UpdateTaskOptions{
			ID:    "1",
			Patch: model.TaskPatch{Completed: &done},
		})
		if err != nil {
			t.Fatalf("UpdateTask: %v", err)
		}
		if !updated.Completed || updated.Text != "buy milk" || updated.ID != "1" {
			t.Errorf("unexpected merge result: %+v", updated)
		}

		got, _ := s.GetTask(ctx, "1")
		if !got.Completed {
			t.Errorf("update not persisted: %+v", got)
		}
	})

	t.Run("UpdateUnknownLeavesStoreUnchanged", func(t *testing.T) {
		s := factory(t)
		ctx := context.Background()
		if _, err := s.CreateTask(ctx, newTask("1", "keep me")); err != nil {
			t.Fatal(err)
		}

		text := "changed"
		_, err := s.UpdateTask(ctx, storage.UpdateTaskOptions{ID: "2", Patch: model.TaskPatch{Text: &text}})
		if !errors.Is(err, storage.ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}

		tasks, _ := s.ListTasks(ctx)
		if len(tasks) != 1 || tasks[0].Text != "keep me" {
			t.Errorf("store changed: %+v", tasks)
		}
	})

	t.Run("DeleteTwice", func(t *testing.T) {
		s := factory(t)
		ctx := context.Background()
		for _, id := range []string{"1", "2", "3"} {
			if _, err := s.CreateTask(ctx, newTask(id, id)); err != nil {
				t.Fatal(err)
			}
		}

		if err := s.DeleteTask(ctx, "2"); err != nil {
			t.Fatalf("first delete: %v", err)
		}
		if err := s.DeleteTask(ctx, "2"); !errors.Is(err, storage.ErrNotFound) {
			t.Fatalf("second delete: expected ErrNotFound, got %v", err)
		}

		tasks, _ := s.ListTasks(ctx)
		if len(tasks) != 2 || tasks[0].ID != "1" || tasks[1].ID != "3" {
			t.Errorf("unexpected remaining tasks: %+v", tasks)
		}
	})

	t.Run("ConcurrentCreatesAreNotLost", func(t *testing.T) {
		s := factory(t)
		ctx := context.Background()

		const n = 20
		var wg sync.WaitGroup
		errs := make(chan error, n)
		for i := 0; i < n; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				id := fmt.Sprintf("t-%02d", i)
				if _, err := s.CreateTask(ctx, newTask(id, id)); err != nil {
					errs <- err
				}
			}(i)
		}
		wg.Wait()
		close(errs)
		for err := range errs {
			t.Errorf("CreateTask: %v", err)
		}

		tasks, _ := s.ListTasks(ctx)
		if len(tasks) != n {
			t.Errorf("expected %d tasks, got %d", n, len(tasks))
		}
	})

	t.Run("PreferencesDefaultAndShallowMerge", func(t *testing.T) {
		s := factory(t)
		ctx := context.Background()

		prefs, err := s.GetPreferences(ctx)
		if err != nil {
			t.Fatalf("GetPreferences: %v", err)
		}
		if prefs.Theme() != model.ThemeLight {
			t.Errorf("expected light default, got %v", prefs)
		}

		if _, err := s.MergePreferences(ctx, model.Preferences{"fontSize": float64(14)}); err != nil {
			t.Fatalf("MergePreferences: %v", err)
		}
		merged, err := s.MergePreferences(ctx, model.Preferences{"theme": "dark"})
		if err != nil {
			t.Fatalf("MergePreferences: %v", err)
		}
		if merged.Theme() != model.ThemeDark || merged["fontSize"] != float64(14) {
			t.Errorf("unexpected merge: %v", merged)
		}

		again, _ := s.GetPreferences(ctx)
		if again.Theme() != model.ThemeDark || again["fontSize"] != float64(14) {
			t.Errorf("merge not persisted: %v", again)
		}
	})
}
