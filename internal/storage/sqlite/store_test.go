package sqlite_test

import (
	"context"
	"path/filepath"
	"testing"

	"leaflet/internal/model"
	"leaflet/internal/storage"
	"leaflet/internal/storage/sqlite"
	"leaflet/internal/storage/storagetest"
	"leaflet/pkg/log"
)

func newStore(t *testing.T, path string) storage.Store {
	t.Helper()
	s, err := sqlite.New(context.Background(), path, log.NewNop())
	if err != nil {
		t.Fatalf("sqlite.New: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestStoreContract(t *testing.T) {
	storagetest.Run(t, func(t *testing.T) storage.Store {
		return newStore(t, filepath.Join(t.TempDir(), "leaflet.db"))
	})
}

func TestReopenKeepsData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "leaflet.db")
	ctx := context.Background()

	s, err := sqlite.New(ctx, path, log.NewNop())
	if err != nil {
		t.Fatal(err)
	}
	if _, err := s.CreateTask(ctx, model.Task{ID: "1", Text: "persist", Priority: model.PriorityHigh}); err != nil {
		t.Fatal(err)
	}
	if _, err := s.MergePreferences(ctx, model.Preferences{"theme": "dark"}); err != nil {
		t.Fatal(err)
	}
	if err := s.Close(); err != nil {
		t.Fatal(err)
	}

	reopened := newStore(t, path)
	got, err := reopened.GetTask(ctx, "1")
	if err != nil || got.Text != "persist" || got.Priority != model.PriorityHigh {
		t.Errorf("unexpected task after reopen: %+v, %v", got, err)
	}
	prefs, _ := reopened.GetPreferences(ctx)
	if prefs.Theme() != model.ThemeDark {
		t.Errorf("schema re-apply must not reset preferences, got %v", prefs)
	}
}
