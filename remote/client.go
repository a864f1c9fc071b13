// Package remote is the HTTP transport for the /todos resource.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"todo-remote/model"
)

// DefaultTimeout bounds every request when no http.Client is supplied.
const DefaultTimeout = 10 * time.Second

const todosPath = "/todos"

// Store is the request/response contract for the todo resource.
// Implementations do no interpretation of the payloads beyond JSON encoding.
type Store interface {
	// List returns the raw body of GET /todos.
	List(ctx context.Context) (json.RawMessage, error)
	Create(ctx context.Context, task model.Task) (model.Task, error)
	Update(ctx context.Context, task model.Task) (model.Task, error)
	Delete(ctx context.Context, id int64) error
}

// StatusError is returned for non-2xx responses.
type StatusError struct {
	Method string
	Path   string
	Code   int
	Body   string
}

func (e *StatusError) Error() string {
	body := strings.TrimSpace(e.Body)
	if body == "" {
		return fmt.Sprintf("%s %s: %d %s", e.Method, e.Path, e.Code, http.StatusText(e.Code))
	}
	return fmt.Sprintf("%s %s: %d %s", e.Method, e.Path, e.Code, body)
}

// IsNotFound reports whether err is a 404 from the server.
func IsNotFound(err error) bool {
	var se *StatusError
	return errors.As(err, &se) && se.Code == http.StatusNotFound
}

// Client talks to a todo server rooted at baseURL.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *log.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithLogger sets the logger used for request tracing.
func WithLogger(logger *log.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithTimeout sets the request timeout. A client passed to WithHTTPClient is
// copied first so the caller's instance is left alone.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d <= 0 {
			return
		}
		hc := *c.httpClient
		hc.Timeout = d
		c.httpClient = &hc
	}
}

// NewClient creates a client for the server at baseURL.
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: DefaultTimeout},
		logger:     log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the server root the client was built with.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// List implements Store.
func (c *Client) List(ctx context.Context) (json.RawMessage, error) {
	body, err := c.do(ctx, http.MethodGet, todosPath, nil)
	if err != nil {
		return nil, err
	}
	return json.RawMessage(body), nil
}

// Create implements Store.
func (c *Client) Create(ctx context.Context, task model.Task) (model.Task, error) {
	body, err := c.do(ctx, http.MethodPost, todosPath, task)
	if err != nil {
		return model.Task{}, err
	}
	return c.decodeTask(body, task), nil
}

// Update implements Store.
func (c *Client) Update(ctx context.Context, task model.Task) (model.Task, error) {
	body, err := c.do(ctx, http.MethodPut, taskPath(task.ID), task)
	if err != nil {
		return model.Task{}, err
	}
	return c.decodeTask(body, task), nil
}

// Delete implements Store.
func (c *Client) Delete(ctx context.Context, id int64) error {
	_, err := c.do(ctx, http.MethodDelete, taskPath(id), nil)
	return err
}

func (c *Client) do(ctx context.Context, method, path string, payload any) ([]byte, error) {
	var reqBody io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("encode body: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	requestID := uuid.NewString()
	req.Header.Set("X-Request-ID", requestID)
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Debug("request failed", "method", method, "path", path, "request_id", requestID, "err", err)
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%s %s: read body: %w", method, path, err)
	}
	c.logger.Debug("request", "method", method, "path", path, "status", resp.StatusCode,
		"request_id", requestID, "elapsed", time.Since(start))

	if resp.StatusCode >= 400 {
		return nil, &StatusError{Method: method, Path: path, Code: resp.StatusCode, Body: string(body)}
	}
	return body, nil
}

// decodeTask reads the server's echo of a write. The write already succeeded,
// so a body that is empty or not a task leaves the sent task as the result.
func (c *Client) decodeTask(body []byte, sent model.Task) model.Task {
	if len(bytes.TrimSpace(body)) == 0 {
		return sent
	}
	var out model.Task
	if err := json.Unmarshal(body, &out); err != nil {
		c.logger.Debug("write response is not a task", "id", sent.ID, "err", err)
		return sent
	}
	if out.ID == 0 {
		c.logger.Debug("write response has no task id", "id", sent.ID)
		return sent
	}
	return out
}

func taskPath(id int64) string {
	return todosPath + "/" + strconv.FormatInt(id, 10)
}
