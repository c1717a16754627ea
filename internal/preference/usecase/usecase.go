package usecase

import (
	"context"

	"leaflet/internal/model"
	"leaflet/internal/storage"
	"leaflet/pkg/log"
)

type implUseCase struct {
	repo storage.PreferenceStore
	l    log.Logger
}

// New creates a new preference UseCase implementation.
func New(repo storage.PreferenceStore, l log.Logger) *implUseCase {
	return &implUseCase{repo: repo, l: l}
}

func (uc *implUseCase) Get(ctx context.Context) (model.Preferences, error) {
	prefs, err := uc.repo.GetPreferences(ctx)
	if err != nil {
		uc.l.Errorf(ctx, "uc.Get GetPreferences: %v", err)
		return nil, err
	}
	return prefs, nil
}

// Update shallow-merges updates into the stored preferences. Values are not
// validated; unknown keys are kept as-is.
func (uc *implUseCase) Update(ctx context.Context, updates model.Preferences) (model.Preferences, error) {
	prefs, err := uc.repo.MergePreferences(ctx, updates)
	if err != nil {
		uc.l.Errorf(ctx, "uc.Update MergePreferences: %v", err)
		return nil, err
	}
	uc.l.Debugf(ctx, "preferences updated: theme=%s", prefs.Theme())
	return prefs, nil
}
