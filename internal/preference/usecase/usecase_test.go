package usecase_test

import (
	"context"
	"errors"
	"testing"

	"leaflet/internal/model"
	"leaflet/internal/preference/usecase"
	"leaflet/pkg/log"
)

type fakeStore struct {
	prefs model.Preferences
	err   error
}

func (f *fakeStore) GetPreferences(ctx context.Context) (model.Preferences, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.prefs, nil
}

func (f *fakeStore) MergePreferences(ctx context.Context, updates model.Preferences) (model.Preferences, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.prefs = f.prefs.Merge(updates)
	return f.prefs, nil
}

func TestUpdateIsShallowMerge(t *testing.T) {
	store := &fakeStore{prefs: model.Preferences{"theme": "light", "sound": true}}
	uc := usecase.New(store, log.NewNop())

	got, err := uc.Update(context.Background(), model.Preferences{"theme": "dark"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Theme() != model.ThemeDark || got["sound"] != true {
		t.Errorf("unexpected preferences %v", got)
	}
}

func TestErrorsPropagate(t *testing.T) {
	boom := errors.New("boom")
	uc := usecase.New(&fakeStore{err: boom}, log.NewNop())

	if _, err := uc.Get(context.Background()); !errors.Is(err, boom) {
		t.Errorf("Get: expected boom, got %v", err)
	}
	if _, err := uc.Update(context.Background(), model.Preferences{}); !errors.Is(err, boom) {
		t.Errorf("Update: expected boom, got %v", err)
	}
}
