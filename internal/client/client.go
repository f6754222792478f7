package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/sandeepkv93/punchlist/internal/model"
)

// APIError is a non-2xx answer from the task API.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api: status %d", e.StatusCode)
	}
	return fmt.Sprintf("api: status %d: %s", e.StatusCode, e.Message)
}

func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}

// Snapshot is the client's view of the store: both lists, fetched together.
type Snapshot struct {
	Pending   []model.Task
	Completed []model.Task
}

type Client struct {
	base *url.URL
	http *http.Client
}

func New(baseURL string, timeout time.Duration) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("base url %q must be absolute", baseURL)
	}
	return &Client{base: u, http: &http.Client{Timeout: timeout}}, nil
}

func (c *Client) Greeting(ctx context.Context) (string, error) {
	var out struct {
		Text string `json:"text"`
	}
	if err := c.do(ctx, http.MethodGet, "/", nil, &out); err != nil {
		return "", err
	}
	return out.Text, nil
}

func (c *Client) Pending(ctx context.Context) ([]model.Task, error) {
	var out []model.Task
	if err := c.do(ctx, http.MethodGet, "/tasks", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Completed returns completed tasks ordered most recently updated first.
func (c *Client) Completed(ctx context.Context) ([]model.Task, error) {
	var out []model.Task
	if err := c.do(ctx, http.MethodGet, "/tasks/complete", nil, &out); err != nil {
		return nil, err
	}
	model.SortCompleted(out)
	return out, nil
}

// Snapshot fetches the pending view, then the completed view.
func (c *Client) Snapshot(ctx context.Context) (Snapshot, error) {
	pending, err := c.Pending(ctx)
	if err != nil {
		return Snapshot{}, fmt.Errorf("fetch pending: %w", err)
	}
	completed, err := c.Completed(ctx)
	if err != nil {
		return Snapshot{}, fmt.Errorf("fetch completed: %w", err)
	}
	return Snapshot{Pending: pending, Completed: completed}, nil
}

func (c *Client) Add(ctx context.Context, text string) error {
	return c.do(ctx, http.MethodPost, "/tasks", map[string]any{"task": text}, nil)
}

func (c *Client) Edit(ctx context.Context, id int64, text string) error {
	return c.do(ctx, http.MethodPut, "/tasks", map[string]any{"id": id, "task": text}, nil)
}

func (c *Client) SetComplete(ctx context.Context, id int64, complete bool) error {
	return c.do(ctx, http.MethodPut, "/tasks/complete", map[string]any{"id": id, "complete": complete}, nil)
}

func (c *Client) Delete(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, "/tasks/delete/"+strconv.FormatInt(id, 10), nil, nil)
}

func (c *Client) ClearCompleted(ctx context.Context) error {
	return c.do(ctx, http.MethodDelete, "/tasks/clear", nil, nil)
}

func (c *Client) do(ctx context.Context, method, path string, body any, out any) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.base.JoinPath(path).String(), reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeAPIError(resp)
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	return nil
}

func decodeAPIError(resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	var envelope struct {
		Error string `json:"error"`
	}
	msg := strings.TrimSpace(string(raw))
	if json.Unmarshal(raw, &envelope) == nil && envelope.Error != "" {
		msg = envelope.Error
	}
	return &APIError{StatusCode: resp.StatusCode, Message: msg}
}
