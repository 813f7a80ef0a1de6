// Package api is the HTTP client for the remote task service. Every call is
// a single request/response; retries, backoff, and caching are left to the
// caller.
package api

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

	"github.com/google/uuid"

	"dayflow/internal/domain"
)

// TokenSource supplies the bearer token attached to authenticated calls.
// An empty token means the request goes out without an Authorization header
// and the server decides rejection.
type TokenSource interface {
	Token() string
}

// StaticToken is a TokenSource holding a fixed token string.
type StaticToken string

func (s StaticToken) Token() string { return string(s) }

type Client struct {
	BaseURL    string
	Tokens     TokenSource
	HTTPClient *http.Client
	Timeout    time.Duration
}

// New creates a client with sane defaults.
func New(baseURL string, tokens TokenSource) *Client {
	return &Client{
		BaseURL: baseURL,
		Tokens:  tokens,
		Timeout: 10 * time.Second,
	}
}

// APIError wraps a non-2xx response. Message carries the server-provided
// message field when the body had one.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("HTTP error: status %d", e.StatusCode)
}

// TransportError marks a failure before any response arrived. It carries no
// status code.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string { return fmt.Sprintf("network error: %v", e.Err) }
func (e *TransportError) Unwrap() error { return e.Err }

// CreateTaskInput is the POST /api/tasks payload. Optional fields are
// omitted entirely when unset.
type CreateTaskInput struct {
	Title              string  `json:"title"`
	Description        *string `json:"description,omitempty"`
	Date               *string `json:"date,omitempty"`
	Time               *string `json:"time,omitempty"`
	TotalEstimatedTime *int    `json:"totalEstimatedTime,omitempty"`
}

// UpdateTaskInput is the PUT /api/tasks/{id} payload: a full replace of the
// editable fields. Cleared date/time are sent as explicit nulls alongside
// the hasDate/hasTime markers.
type UpdateTaskInput struct {
	Title              string  `json:"title"`
	Description        string  `json:"description"`
	Date               *string `json:"date"`
	Time               *string `json:"time"`
	HasDate            bool    `json:"hasDate"`
	HasTime            bool    `json:"hasTime"`
	TotalEstimatedTime int     `json:"totalEstimatedTime"`
}

// UpdateInputFromTask prefills the full-replace payload from the task's
// current state. The estimate comes from the stored totalEstimatedTime
// field, not the derived subtask sum, so an update that does not touch the
// estimate round-trips the server's value unchanged.
func UpdateInputFromTask(t domain.Task) UpdateTaskInput {
	in := UpdateTaskInput{
		Title:       t.Title,
		Description: t.Description,
		Date:        t.Date,
		Time:        t.Time,
		HasDate:     t.Date != nil,
		HasTime:     t.Time != nil,
	}
	if t.TotalEstimatedTime != nil {
		in.TotalEstimatedTime = *t.TotalEstimatedTime
	}
	return in
}

// BreakdownResult is the AI breakdown response. The service has shipped the
// subtask list under both "subTasks" and "subtasks"; SubTasks() merges them.
type BreakdownResult struct {
	SubTasksUpper      []domain.SubTask `json:"subTasks"`
	SubTasksLower      []domain.SubTask `json:"subtasks"`
	TotalEstimatedTime *int             `json:"totalEstimatedTime,omitempty"`
}

func (b BreakdownResult) SubTasks() []domain.SubTask {
	if len(b.SubTasksUpper) > 0 {
		return b.SubTasksUpper
	}
	return b.SubTasksLower
}

// AuthResponse is returned by login and signup.
type AuthResponse struct {
	Token string      `json:"token"`
	User  domain.User `json:"user"`
}

// ListTasks fetches every task visible to the authenticated user. The
// service has returned both a bare array and a {"tasks": [...]} wrapper;
// both are accepted. Each record is validated before it is returned.
func (c *Client) ListTasks(ctx context.Context) ([]domain.Task, error) {
	var raw json.RawMessage
	if err := c.do(ctx, http.MethodGet, "/api/tasks", nil, &raw); err != nil {
		return nil, err
	}
	var tasks []domain.Task
	if err := json.Unmarshal(raw, &tasks); err != nil {
		var wrapped struct {
			Tasks []domain.Task `json:"tasks"`
		}
		if err := json.Unmarshal(raw, &wrapped); err != nil {
			return nil, fmt.Errorf("decode task list: %w", err)
		}
		tasks = wrapped.Tasks
	}
	if err := domain.ValidateAll(tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

func (c *Client) GetTask(ctx context.Context, id string) (domain.Task, error) {
	var t domain.Task
	if err := c.do(ctx, http.MethodGet, taskPath(id), nil, &t); err != nil {
		return domain.Task{}, err
	}
	if err := t.Validate(); err != nil {
		return domain.Task{}, err
	}
	return t, nil
}

func (c *Client) CreateTask(ctx context.Context, in CreateTaskInput) (domain.Task, error) {
	var t domain.Task
	if err := c.do(ctx, http.MethodPost, "/api/tasks", in, &t); err != nil {
		return domain.Task{}, err
	}
	if err := t.Validate(); err != nil {
		return domain.Task{}, err
	}
	return t, nil
}

func (c *Client) UpdateTask(ctx context.Context, id string, in UpdateTaskInput) (domain.Task, error) {
	var t domain.Task
	if err := c.do(ctx, http.MethodPut, taskPath(id), in, &t); err != nil {
		return domain.Task{}, err
	}
	if err := t.Validate(); err != nil {
		return domain.Task{}, err
	}
	return t, nil
}

func (c *Client) DeleteTask(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, taskPath(id), nil, nil)
}

// ToggleTask flips the completion flag server-side and returns the updated
// task.
func (c *Client) ToggleTask(ctx context.Context, id string) (domain.Task, error) {
	var t domain.Task
	if err := c.do(ctx, http.MethodPatch, taskPath(id)+"/toggle", nil, &t); err != nil {
		return domain.Task{}, err
	}
	if err := t.Validate(); err != nil {
		return domain.Task{}, err
	}
	return t, nil
}

// ReorderTasks sends the ordered id list as the new canonical order for the
// unscheduled subset.
func (c *Client) ReorderTasks(ctx context.Context, taskIDs []string) error {
	body := map[string]any{"taskIds": taskIDs}
	return c.do(ctx, http.MethodPost, "/api/tasks/reorder", body, nil)
}

func (c *Client) BreakdownTask(ctx context.Context, id string) (BreakdownResult, error) {
	var res BreakdownResult
	err := c.do(ctx, http.MethodPost, taskPath(id)+"/breakdown", nil, &res)
	return res, err
}

func (c *Client) Login(ctx context.Context, email, password string) (AuthResponse, error) {
	body := map[string]any{"email": email, "password": password}
	var resp AuthResponse
	if err := c.do(ctx, http.MethodPost, "/api/auth/login", body, &resp); err != nil {
		return AuthResponse{}, err
	}
	return resp, resp.User.Validate()
}

func (c *Client) Signup(ctx context.Context, email, password, name string) (AuthResponse, error) {
	body := map[string]any{"email": email, "password": password}
	if name != "" {
		body["name"] = name
	}
	var resp AuthResponse
	if err := c.do(ctx, http.MethodPost, "/api/auth/signup", body, &resp); err != nil {
		return AuthResponse{}, err
	}
	return resp, resp.User.Validate()
}

func (c *Client) Me(ctx context.Context) (domain.User, error) {
	var u domain.User
	if err := c.do(ctx, http.MethodGet, "/api/me", nil, &u); err != nil {
		return domain.User{}, err
	}
	return u, u.Validate()
}

func (c *Client) UpdateMe(ctx context.Context, name, email string) (domain.User, error) {
	body := map[string]any{}
	if name != "" {
		body["name"] = name
	}
	if email != "" {
		body["email"] = email
	}
	var u domain.User
	if err := c.do(ctx, http.MethodPut, "/api/me", body, &u); err != nil {
		return domain.User{}, err
	}
	return u, u.Validate()
}

func (c *Client) do(ctx context.Context, method, endpoint string, body any, out any) error {
	if c.HTTPClient == nil {
		c.HTTPClient = &http.Client{Timeout: c.Timeout}
	}
	reqURL := c.base() + "/" + strings.TrimLeft(endpoint, "/")
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return err
		}
	}
	req, err := http.NewRequestWithContext(ctx, method, reqURL, &buf)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-Id", uuid.NewString())
	if c.Tokens != nil {
		if token := c.Tokens.Token(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return &TransportError{Err: err}
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeAPIError(resp)
	}
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}

func decodeAPIError(resp *http.Response) error {
	apiErr := &APIError{StatusCode: resp.StatusCode}
	b, _ := io.ReadAll(resp.Body)
	var payload struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(b, &payload); err == nil {
		apiErr.Message = payload.Message
	}
	return apiErr
}

func taskPath(id string) string {
	return "/api/tasks/" + url.PathEscape(id)
}

func (c *Client) base() string {
	return strings.TrimRight(c.BaseURL, "/")
}
