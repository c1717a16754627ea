package http

import (
	"time"

	"leaflet/internal/model"
	"leaflet/internal/task"
)

// --- Request DTOs ---

type createReq struct {
	Text     string `json:"text"`
	Category string `json:"category"`
	Priority string `json:"priority"`
}

func (r createReq) toInput() task.CreateInput {
	return task.CreateInput{
		Text:     r.Text,
		Category: r.Category,
		Priority: model.Priority(r.Priority),
	}
}

// updateReq holds a partial task. Absent fields stay nil; any "id" in the
// body is ignored.
type updateReq struct {
	ID        string     `json:"-"`
	Text      *string    `json:"text"`
	Category  *string    `json:"category"`
	Priority  *string    `json:"priority"`
	Completed *bool      `json:"completed"`
	CreatedAt *time.Time `json:"createdAt"`
	Rotation  *int       `json:"rotation"`
}

func (r updateReq) toInput() task.UpdateInput {
	patch := model.TaskPatch{
		Text:      r.Text,
		Category:  r.Category,
		Completed: r.Completed,
		CreatedAt: r.CreatedAt,
		Rotation:  r.Rotation,
	}
	if r.Priority != nil {
		p := model.Priority(*r.Priority)
		patch.Priority = &p
	}
	return task.UpdateInput{ID: r.ID, Patch: patch}
}

// --- Response DTOs ---

type taskResp struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	Category  string    `json:"category"`
	Priority  string    `json:"priority"`
	Completed bool      `json:"completed"`
	CreatedAt time.Time `json:"createdAt"`
	Rotation  int       `json:"rotation"`
}

func newTaskResp(t model.Task) taskResp {
	return taskResp{
		ID:        t.ID,
		Text:      t.Text,
		Category:  t.Category,
		Priority:  string(t.Priority),
		Completed: t.Completed,
		CreatedAt: t.CreatedAt,
		Rotation:  t.Rotation,
	}
}

func (h *handler) newListResp(out task.ListOutput) []taskResp {
	resp := make([]taskResp, len(out.Tasks))
	for i, t := range out.Tasks {
		resp[i] = newTaskResp(t)
	}
	return resp
}
