package http

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	pkgErrors "leaflet/pkg/errors"
)

// bindJSON decodes the body into v. An empty body leaves v untouched.
func bindJSON(c *gin.Context, v any) error {
	if err := c.ShouldBindJSON(v); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return pkgErrors.NewHTTPError(http.StatusBadRequest, "invalid request body: "+err.Error())
	}
	return nil
}

// processCreateReq binds the create task request body.
func (h *handler) processCreateReq(c *gin.Context) (createReq, error) {
	var req createReq
	err := bindJSON(c, &req)
	return req, err
}

// processUpdateReq binds the partial task body plus the id URI param.
func (h *handler) processUpdateReq(c *gin.Context) (updateReq, error) {
	var req updateReq
	if err := bindJSON(c, &req); err != nil {
		return req, err
	}
	req.ID = c.Param("id")
	return req, nil
}
