package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"leaflet/internal/model"
	"leaflet/internal/storage"
	"leaflet/internal/storage/jsonfile"
	taskHTTP "leaflet/internal/task/delivery/http"
	taskUC "leaflet/internal/task/usecase"
	"leaflet/pkg/log"
)

func setup(t *testing.T) (*gin.Engine, storage.Store) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store, err := jsonfile.New(context.Background(), t.TempDir(), log.NewNop())
	if err != nil {
		t.Fatal(err)
	}
	l := log.NewNop()
	h := taskHTTP.New(l, taskUC.New(store, l))

	r := gin.New()
	taskHTTP.RegisterRoutes(r.Group("/api"), h)
	return r, store
}

func do(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	var rd *bytes.Reader
	if body != "" {
		rd = bytes.NewReader([]byte(body))
	} else {
		rd = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, rd)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeTask(t *testing.T, w *httptest.ResponseRecorder) model.Task {
	t.Helper()
	var got model.Task
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode task: %v (body %s)", err, w.Body.String())
	}
	return got
}

func TestCreate(t *testing.T) {
	r, store := setup(t)

	w := do(r, http.MethodPost, "/api/tasks", `{"text":"buy milk"}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}
	got := decodeTask(t, w)
	if got.ID == "" || got.Text != "buy milk" || got.Completed {
		t.Errorf("unexpected task %+v", got)
	}
	if got.Category != "general" || got.Priority != model.PriorityMedium {
		t.Errorf("expected defaults, got %+v", got)
	}

	tasks, _ := store.ListTasks(context.Background())
	if len(tasks) != 1 {
		t.Errorf("expected 1 stored task, got %d", len(tasks))
	}
}

func TestCreateRejectsBlankText(t *testing.T) {
	for _, body := range []string{``, `{}`, `{"text":""}`, `{"text":"   "}`, `{"text":42}`, `{"text":`} {
		t.Run(body, func(t *testing.T) {
			r, store := setup(t)

			w := do(r, http.MethodPost, "/api/tasks", body)
			if w.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d", w.Code)
			}
			var resp map[string]string
			if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil || resp["error"] == "" {
				t.Errorf("expected {error}, got %s", w.Body.String())
			}

			tasks, _ := store.ListTasks(context.Background())
			if len(tasks) != 0 {
				t.Errorf("nothing should be persisted, got %+v", tasks)
			}
		})
	}
}

func TestCreateRejectsUnknownPriority(t *testing.T) {
	r, _ := setup(t)
	w := do(r, http.MethodPost, "/api/tasks", `{"text":"x","priority":"urgent"}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestUpdateProtectsID(t *testing.T) {
	r, _ := setup(t)
	created := decodeTask(t, do(r, http.MethodPost, "/api/tasks", `{"text":"a","category":"work"}`))

	w := do(r, http.MethodPut, "/api/tasks/"+created.ID, `{"id":"hijack","completed":true,"priority":"high"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	got := decodeTask(t, w)
	if got.ID != created.ID {
		t.Errorf("id changed to %q", got.ID)
	}
	if !got.Completed || got.Priority != model.PriorityHigh || got.Category != "work" {
		t.Errorf("unexpected merge %+v", got)
	}

	if w := do(r, http.MethodGet, "/api/tasks/hijack", ""); w.Code != http.StatusNotFound {
		t.Errorf("expected hijack id to 404, got %d", w.Code)
	}
}

func TestUpdateUnknown(t *testing.T) {
	r, store := setup(t)
	do(r, http.MethodPost, "/api/tasks", `{"text":"a"}`)
	before, _ := store.ListTasks(context.Background())

	w := do(r, http.MethodPut, "/api/tasks/missing", `{"completed":true}`)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}

	after, _ := store.ListTasks(context.Background())
	if len(after) != len(before) || after[0] != before[0] {
		t.Errorf("store changed: %+v -> %+v", before, after)
	}
}

func TestDeleteTwice(t *testing.T) {
	r, _ := setup(t)
	created := decodeTask(t, do(r, http.MethodPost, "/api/tasks", `{"text":"a"}`))

	if w := do(r, http.MethodDelete, "/api/tasks/"+created.ID, ""); w.Code != http.StatusNoContent {
		t.Fatalf("first delete: expected 204, got %d", w.Code)
	}
	if w := do(r, http.MethodDelete, "/api/tasks/"+created.ID, ""); w.Code != http.StatusNotFound {
		t.Fatalf("second delete: expected 404, got %d", w.Code)
	}
}

func TestListEmptyIsArray(t *testing.T) {
	r, _ := setup(t)
	w := do(r, http.MethodGet, "/api/tasks", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if body := bytes.TrimSpace(w.Body.Bytes()); string(body) != "[]" {
		t.Errorf("expected [], got %s", body)
	}
}
