// Package jsonfile is the flat-file storage backend: one JSON array of tasks
// and one JSON preferences object under a data directory.
package jsonfile

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"leaflet/internal/model"
	"leaflet/internal/storage"
	"leaflet/pkg/jsonfile"
	"leaflet/pkg/log"
)

const (
	TasksFile       = "tasks.json"
	PreferencesFile = "preferences.json"
)

type implStore struct {
	// mu makes every read-modify-write cycle a single writer.
	mu sync.Mutex

	tasksPath string
	prefsPath string
	l         log.Logger
	now       func() time.Time

	tasksCorrupt bool
	prefsCorrupt bool
}

// New creates the data directory and both documents if they are missing.
func New(ctx context.Context, dataDir string, l log.Logger) (storage.Store, error) {
	s := &implStore{
		tasksPath: filepath.Join(dataDir, TasksFile),
		prefsPath: filepath.Join(dataDir, PreferencesFile),
		l:         l,
		now:       time.Now,
	}
	if err := jsonfile.EnsureDefault(s.tasksPath, []model.Task{}); err != nil {
		return nil, fmt.Errorf("%s: %w", s.dsn("New"), err)
	}
	if err := jsonfile.EnsureDefault(s.prefsPath, model.DefaultPreferences()); err != nil {
		return nil, fmt.Errorf("%s: %w", s.dsn("New"), err)
	}
	l.Infof(ctx, "jsonfile storage ready at %s", dataDir)
	return s, nil
}

func (s *implStore) Close() error { return nil }

func (s *implStore) dsn(method string) string {
	return fmt.Sprintf("storage/jsonfile.%s", method)
}

// quarantine moves a document that failed to parse out of the way before it
// is overwritten, so its contents can still be recovered by hand.
func (s *implStore) quarantine(ctx context.Context, path string) {
	moved, err := jsonfile.Quarantine(path, fmt.Sprintf("%d", s.now().Unix()))
	if err != nil {
		s.l.Errorf(ctx, "%s: %v", s.dsn("quarantine"), err)
		return
	}
	s.l.Warnf(ctx, "%s: moved unreadable %s to %s", s.dsn("quarantine"), path, moved)
}
