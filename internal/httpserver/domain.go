package httpserver

import (
	"context"

	preferenceHTTP "leaflet/internal/preference/delivery/http"
	preferenceUC "leaflet/internal/preference/usecase"
	taskHTTP "leaflet/internal/task/delivery/http"
	taskUC "leaflet/internal/task/usecase"

	"github.com/gin-gonic/gin"
)

// setupTaskDomain wires store -> usecase -> handler and registers /api/tasks.
func (srv HTTPServer) setupTaskDomain(ctx context.Context, api *gin.RouterGroup) error {
	uc := taskUC.New(srv.store, srv.l)
	h := taskHTTP.New(srv.l, uc)
	taskHTTP.RegisterRoutes(api, h)

	srv.l.Infof(ctx, "Task domain registered")
	return nil
}

// setupPreferenceDomain registers /api/preferences.
func (srv HTTPServer) setupPreferenceDomain(ctx context.Context, api *gin.RouterGroup) error {
	uc := preferenceUC.New(srv.store, srv.l)
	h := preferenceHTTP.New(srv.l, uc)
	preferenceHTTP.RegisterRoutes(api, h)

	srv.l.Infof(ctx, "Preference domain registered")
	return nil
}
