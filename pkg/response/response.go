package response

import (
	stderrors "errors"
	"net/http"

	"github.com/gin-gonic/gin"

	pkgErrors "leaflet/pkg/errors"
)

// ErrorResp is the JSON body of every failed request.
type ErrorResp struct {
	Error string `json:"error"`
}

// OK sends 200 JSON with data as the whole body.
func OK(c *gin.Context, data any) {
	c.JSON(http.StatusOK, data)
}

// Created sends 201 JSON with data as the whole body.
func Created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, data)
}

// NoContent sends an empty 204.
func NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// Error renders err as {"error": message}. An *errors.HTTPError keeps its own
// status code; anything else is a 400.
func Error(c *gin.Context, err error) {
	var httpErr *pkgErrors.HTTPError
	if stderrors.As(err, &httpErr) {
		c.AbortWithStatusJSON(httpErr.Code, ErrorResp{Error: httpErr.Message})
		return
	}
	c.AbortWithStatusJSON(http.StatusBadRequest, ErrorResp{Error: err.Error()})
}

// InternalError sends 500 without leaking err to the client.
func InternalError(c *gin.Context, err error) {
	_ = c.Error(err)
	c.AbortWithStatusJSON(http.StatusInternalServerError, ErrorResp{Error: pkgErrors.ErrInternalServerError.Message})
}

// TooManyRequests sends 429.
func TooManyRequests(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusTooManyRequests, ErrorResp{Error: pkgErrors.ErrTooManyRequests.Message})
}
