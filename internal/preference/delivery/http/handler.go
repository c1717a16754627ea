package http

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"leaflet/internal/model"
	"leaflet/internal/preference"
	pkgErrors "leaflet/pkg/errors"
	"leaflet/pkg/log"
	"leaflet/pkg/response"
)

// Handler is the public interface for the preference HTTP delivery layer.
type Handler interface {
	Get(c *gin.Context)
	Update(c *gin.Context)
}

type handler struct {
	l  log.Logger
	uc preference.UseCase
}

// New creates a new HTTP handler for preferences.
func New(l log.Logger, uc preference.UseCase) Handler {
	return &handler{l: l, uc: uc}
}

// RegisterRoutes maps the preference endpoints.
func RegisterRoutes(rg *gin.RouterGroup, h Handler) {
	rg.GET("/preferences", h.Get)
	rg.PUT("/preferences", h.Update)
}

// Get godoc
// @Summary     Get preferences
// @Tags        Preferences
// @Produce     json
// @Success     200 {object} map[string]interface{}
// @Failure     500 {object} response.ErrorResp "Internal Server Error"
// @Router      /api/preferences [GET]
func (h *handler) Get(c *gin.Context) {
	ctx := c.Request.Context()

	prefs, err := h.uc.Get(ctx)
	if err != nil {
		h.l.Errorf(ctx, "uc.Get: %v", err)
		response.Error(c, pkgErrors.ErrInternalServerError)
		return
	}
	response.OK(c, prefs)
}

// Update godoc
// @Summary     Update preferences
// @Description Shallow-merges the body into the stored preferences.
// @Tags        Preferences
// @Accept      json
// @Produce     json
// @Param       body body     map[string]interface{} true "Keys to overwrite"
// @Success     200  {object} map[string]interface{}
// @Failure     400  {object} response.ErrorResp "body must be a JSON object"
// @Router      /api/preferences [PUT]
func (h *handler) Update(c *gin.Context) {
	ctx := c.Request.Context()

	var updates model.Preferences
	if err := c.ShouldBindJSON(&updates); err != nil && !errors.Is(err, io.EOF) {
		response.Error(c, pkgErrors.NewHTTPError(http.StatusBadRequest, "body must be a JSON object"))
		return
	}

	prefs, err := h.uc.Update(ctx, updates)
	if err != nil {
		h.l.Errorf(ctx, "uc.Update: %v", err)
		response.Error(c, pkgErrors.ErrInternalServerError)
		return
	}
	response.OK(c, prefs)
}
