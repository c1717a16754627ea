package preference

import (
	"context"

	"leaflet/internal/model"
)

// UseCase reads and updates the singleton preferences document.
type UseCase interface {
	Get(ctx context.Context) (model.Preferences, error)
	Update(ctx context.Context, updates model.Preferences) (model.Preferences, error)
}
