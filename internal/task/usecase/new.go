package usecase

import (
	"math/rand/v2"
	"time"

	"leaflet/internal/storage"
	"leaflet/pkg/log"
)

// implUseCase is the private implementation of task.UseCase.
type implUseCase struct {
	repo storage.TaskStore
	l    log.Logger

	now      func() time.Time
	rotation func() int
}

// New creates a new task UseCase implementation.
func New(repo storage.TaskStore, l log.Logger) *implUseCase {
	return &implUseCase{
		repo: repo,
		l:    l,
		now:  time.Now,
		rotation: func() int {
			return rand.IntN(20) - 10
		},
	}
}
