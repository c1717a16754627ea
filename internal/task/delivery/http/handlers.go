package http

import (
	"github.com/gin-gonic/gin"

	"leaflet/pkg/response"
)

// List godoc
// @Summary     List tasks
// @Description Returns every task in display order.
// @Tags        Tasks
// @Produce     json
// @Success     200 {array}  taskResp
// @Failure     500 {object} response.ErrorResp "Internal Server Error"
// @Router      /api/tasks [GET]
func (h *handler) List(c *gin.Context) {
	ctx := c.Request.Context()

	output, err := h.uc.List(ctx)
	if err != nil {
		h.l.Errorf(ctx, "uc.List: %v", err)
		response.Error(c, h.mapError(err))
		return
	}

	response.OK(c, h.newListResp(output))
}

// Create godoc
// @Summary     Create a task
// @Description Creates a task. category defaults to "general", priority to "medium".
// @Tags        Tasks
// @Accept      json
// @Produce     json
// @Param       body body     createReq true "Task data"
// @Success     201  {object} taskResp
// @Failure     400  {object} response.ErrorResp "text is required"
// @Failure     500  {object} response.ErrorResp "Internal Server Error"
// @Router      /api/tasks [POST]
func (h *handler) Create(c *gin.Context) {
	ctx := c.Request.Context()

	req, err := h.processCreateReq(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	output, err := h.uc.Create(ctx, req.toInput())
	if err != nil {
		h.l.Warnf(ctx, "uc.Create: %v", err)
		response.Error(c, h.mapError(err))
		return
	}

	response.Created(c, newTaskResp(output.Task))
}

// Detail godoc
// @Summary     Get a task
// @Tags        Tasks
// @Produce     json
// @Param       id  path     string true "Task ID"
// @Success     200 {object} taskResp
// @Failure     404 {object} response.ErrorResp "task not found"
// @Router      /api/tasks/{id} [GET]
func (h *handler) Detail(c *gin.Context) {
	ctx := c.Request.Context()

	output, err := h.uc.Detail(ctx, c.Param("id"))
	if err != nil {
		h.l.Warnf(ctx, "uc.Detail: %v", err)
		response.Error(c, h.mapError(err))
		return
	}

	response.OK(c, newTaskResp(output.Task))
}

// Update godoc
// @Summary     Update a task
// @Description Merges the given fields into the task. The id is never changed.
// @Tags        Tasks
// @Accept      json
// @Produce     json
// @Param       id   path     string    true "Task ID"
// @Param       body body     updateReq true "Fields to update"
// @Success     200  {object} taskResp
// @Failure     400  {object} response.ErrorResp "Bad Request"
// @Failure     404  {object} response.ErrorResp "task not found"
// @Router      /api/tasks/{id} [PUT]
func (h *handler) Update(c *gin.Context) {
	ctx := c.Request.Context()

	req, err := h.processUpdateReq(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	output, err := h.uc.Update(ctx, req.toInput())
	if err != nil {
		h.l.Warnf(ctx, "uc.Update: %v", err)
		response.Error(c, h.mapError(err))
		return
	}

	response.OK(c, newTaskResp(output.Task))
}

// Delete godoc
// @Summary     Delete a task
// @Tags        Tasks
// @Param       id  path string true "Task ID"
// @Success     204 "No Content"
// @Failure     404 {object} response.ErrorResp "task not found"
// @Router      /api/tasks/{id} [DELETE]
func (h *handler) Delete(c *gin.Context) {
	ctx := c.Request.Context()

	if err := h.uc.Delete(ctx, c.Param("id")); err != nil {
		h.l.Warnf(ctx, "uc.Delete: %v", err)
		response.Error(c, h.mapError(err))
		return
	}

	response.NoContent(c)
}
