package jsonfile

import (
	"context"
	"errors"
	"fmt"
	"os"

	"leaflet/internal/model"
	"leaflet/internal/storage"
	"leaflet/pkg/jsonfile"
)

// Caller must hold s.mu.
func (s *implStore) readPreferences(ctx context.Context) model.Preferences {
	var prefs model.Preferences
	err := jsonfile.Read(s.prefsPath, &prefs)
	switch {
	case err == nil:
	case errors.Is(err, os.ErrNotExist):
		return model.DefaultPreferences()
	default:
		s.l.Warnf(ctx, "%s: %v; using defaults", s.dsn("readPreferences"), err)
		if errors.Is(err, jsonfile.ErrCorrupt) {
			s.prefsCorrupt = true
		}
		return model.DefaultPreferences()
	}
	if prefs == nil {
		return model.DefaultPreferences()
	}
	return prefs
}

func (s *implStore) GetPreferences(ctx context.Context) (model.Preferences, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.readPreferences(ctx), nil
}

func (s *implStore) MergePreferences(ctx context.Context, updates model.Preferences) (model.Preferences, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	merged := s.readPreferences(ctx).Merge(updates)
	if s.prefsCorrupt {
		s.quarantine(ctx, s.prefsPath)
		s.prefsCorrupt = false
	}
	if err := jsonfile.Write(s.prefsPath, merged); err != nil {
		s.l.Errorf(ctx, "%s: %v", s.dsn("MergePreferences"), err)
		return nil, fmt.Errorf("%w: %v", storage.ErrFailedToUpdate, err)
	}
	return merged, nil
}
