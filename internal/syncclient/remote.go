package syncclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"leaflet/internal/model"
)

// Remote is the server API the syncer talks to.
type Remote interface {
	Health(ctx context.Context) error
	ListTasks(ctx context.Context) ([]model.Task, error)
	CreateTask(ctx context.Context, req CreateRequest) (model.Task, error)
	UpdateTask(ctx context.Context, id string, patch model.TaskPatch) (model.Task, error)
	DeleteTask(ctx context.Context, id string) error
	GetPreferences(ctx context.Context) (model.Preferences, error)
	UpdatePreferences(ctx context.Context, updates model.Preferences) (model.Preferences, error)
}

// RemoteClient is the HTTP wrapper for the Leaflet REST API.
type RemoteClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewRemoteClient creates a client for the API at baseURL. Every call is
// bounded by timeout on top of the caller's context.
func NewRemoteClient(baseURL string, timeout time.Duration) *RemoteClient {
	return &RemoteClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Health calls GET /health.
func (c *RemoteClient) Health(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/health", nil, nil)
}

// ListTasks calls GET /api/tasks.
func (c *RemoteClient) ListTasks(ctx context.Context) ([]model.Task, error) {
	var tasks []model.Task
	if err := c.do(ctx, http.MethodGet, "/api/tasks", nil, &tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

// CreateTask calls POST /api/tasks.
func (c *RemoteClient) CreateTask(ctx context.Context, req CreateRequest) (model.Task, error) {
	var t model.Task
	err := c.do(ctx, http.MethodPost, "/api/tasks", req, &t)
	return t, err
}

// UpdateTask calls PUT /api/tasks/:id.
func (c *RemoteClient) UpdateTask(ctx context.Context, id string, patch model.TaskPatch) (model.Task, error) {
	var t model.Task
	err := c.do(ctx, http.MethodPut, "/api/tasks/"+url.PathEscape(id), patch, &t)
	return t, err
}

// DeleteTask calls DELETE /api/tasks/:id.
func (c *RemoteClient) DeleteTask(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/tasks/"+url.PathEscape(id), nil, nil)
}

// GetPreferences calls GET /api/preferences.
func (c *RemoteClient) GetPreferences(ctx context.Context) (model.Preferences, error) {
	var p model.Preferences
	err := c.do(ctx, http.MethodGet, "/api/preferences", nil, &p)
	return p, err
}

// UpdatePreferences calls PUT /api/preferences.
func (c *RemoteClient) UpdatePreferences(ctx context.Context, updates model.Preferences) (model.Preferences, error) {
	var p model.Preferences
	err := c.do(ctx, http.MethodPut, "/api/preferences", updates, &p)
	return p, err
}

func (c *RemoteClient) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to marshal %s %s request: %w", method, path, err)
		}
		body = bytes.NewReader(raw)
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("failed to build %s %s request: %w", method, path, err)
	}
	if in != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	httpReq.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("%w: %s %s: %v", ErrUnreachable, method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return classify(method, path, resp)
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode %s %s response: %w", method, path, err)
	}
	return nil
}

func classify(method, path string, resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))

	msg := strings.TrimSpace(string(raw))
	var apiErr struct {
		Error string `json:"error"`
	}
	if json.Unmarshal(raw, &apiErr) == nil && apiErr.Error != "" {
		msg = apiErr.Error
	}

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("%w: %s %s: %s", ErrNotFound, method, path, msg)
	case resp.StatusCode >= 500, resp.StatusCode == http.StatusTooManyRequests:
		return fmt.Errorf("%w: %s %s: status %d: %s", ErrUnreachable, method, path, resp.StatusCode, msg)
	default:
		return fmt.Errorf("%w: %s %s: status %d: %s", ErrRejected, method, path, resp.StatusCode, msg)
	}
}
