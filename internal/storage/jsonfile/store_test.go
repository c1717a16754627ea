package jsonfile_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"leaflet/internal/model"
	"leaflet/internal/storage"
	"leaflet/internal/storage/jsonfile"
	"leaflet/internal/storage/storagetest"
	"leaflet/pkg/log"
)

func newStore(t *testing.T, dir string) storage.Store {
	t.Helper()
	s, err := jsonfile.New(context.Background(), dir, log.NewNop())
	if err != nil {
		t.Fatalf("jsonfile.New: %v", err)
	}
	return s
}

func TestStoreContract(t *testing.T) {
	storagetest.Run(t, func(t *testing.T) storage.Store {
		return newStore(t, t.TempDir())
	})
}

func TestNewCreatesDefaultDocuments(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "data")
	newStore(t, dir)

	raw, err := os.ReadFile(filepath.Join(dir, jsonfile.TasksFile))
	if err != nil {
		t.Fatalf("tasks file: %v", err)
	}
	if strings.TrimSpace(string(raw)) != "[]" {
		t.Errorf("expected [], got %q", raw)
	}

	raw, err = os.ReadFile(filepath.Join(dir, jsonfile.PreferencesFile))
	if err != nil {
		t.Fatalf("preferences file: %v", err)
	}
	if !strings.Contains(string(raw), `"theme": "light"`) {
		t.Errorf("expected light theme, got %q", raw)
	}
}

func TestCorruptTasksFileIsEmptyAndQuarantined(t *testing.T) {
	dir := t.TempDir()
	s := newStore(t, dir)
	ctx := context.Background()

	tasksPath := filepath.Join(dir, jsonfile.TasksFile)
	if err := os.WriteFile(tasksPath, []byte("[{broken"), 0o644); err != nil {
		t.Fatal(err)
	}

	tasks, err := s.ListTasks(ctx)
	if err != nil {
		t.Fatalf("ListTasks must swallow read errors, got %v", err)
	}
	if len(tasks) != 0 {
		t.Errorf("expected empty list, got %+v", tasks)
	}

	if _, err := s.CreateTask(ctx, model.Task{ID: "1", Text: "fresh"}); err != nil {
		t.Fatalf("CreateTask: %v", err)
	}

	matches, _ := filepath.Glob(tasksPath + ".corrupt-*")
	if len(matches) != 1 {
		t.Fatalf("expected one quarantined file, got %v", matches)
	}
	kept, _ := os.ReadFile(matches[0])
	if string(kept) != "[{broken" {
		t.Errorf("quarantined content changed: %q", kept)
	}

	tasks, _ = s.ListTasks(ctx)
	if len(tasks) != 1 || tasks[0].ID != "1" {
		t.Errorf("unexpected tasks after recovery: %+v", tasks)
	}
}

func TestDeletedFilesAreRecreated(t *testing.T) {
	dir := t.TempDir()
	s := newStore(t, dir)
	ctx := context.Background()

	if err := os.Remove(filepath.Join(dir, jsonfile.PreferencesFile)); err != nil {
		t.Fatal(err)
	}
	prefs, err := s.GetPreferences(ctx)
	if err != nil || prefs.Theme() != model.ThemeLight {
		t.Fatalf("expected default prefs, got %v, %v", prefs, err)
	}

	if err := os.Remove(filepath.Join(dir, jsonfile.TasksFile)); err != nil {
		t.Fatal(err)
	}
	if _, err := s.CreateTask(ctx, model.Task{ID: "1", Text: "x"}); err != nil {
		t.Fatalf("CreateTask: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, jsonfile.TasksFile)); err != nil {
		t.Errorf("tasks file not recreated: %v", err)
	}
}
