package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/sandeepkv93/punchlist/internal/logger"
	"github.com/sandeepkv93/punchlist/internal/model"
	"github.com/sandeepkv93/punchlist/internal/storage"
)

var errDiskFull = errors.New("disk full")

// failingRepo fails every call, standing in for a broken storage layer.
type failingRepo struct{}

func (failingRepo) ListByCompletion(context.Context, bool) ([]model.Task, error) {
	return nil, errDiskFull
}
func (failingRepo) Create(context.Context, string) (model.Task, error) {
	return model.Task{}, errDiskFull
}
func (failingRepo) Get(context.Context, int64) (model.Task, error) {
	return model.Task{}, errDiskFull
}
func (failingRepo) UpdateText(context.Context, int64, string) error    { return errDiskFull }
func (failingRepo) UpdateCompletion(context.Context, int64, bool) error { return errDiskFull }
func (failingRepo) DeleteByID(context.Context, int64) error             { return errDiskFull }
func (failingRepo) DeleteWhereCompleted(context.Context) (int64, error) { return 0, errDiskFull }

func newTestServer(t *testing.T) *Server {
	t.Helper()
	gin.SetMode(gin.TestMode)
	repo, err := storage.OpenSQLite(filepath.Join(t.TempDir(), "api-test.db"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = repo.Close() })
	if err := repo.Migrate(); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return NewServer(repo, logger.Discard())
}

func do(t *testing.T, s *Server, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		raw, err := json.Marshal(b)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	return w
}

func decodeTasks(t *testing.T, w *httptest.ResponseRecorder) []model.Task {
	t.Helper()
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 listing tasks, got %d: %s", w.Code, w.Body.String())
	}
	var tasks []model.Task
	if err := json.Unmarshal(w.Body.Bytes(), &tasks); err != nil {
		t.Fatalf("decode tasks %q: %v", w.Body.String(), err)
	}
	return tasks
}

func TestGreeting(t *testing.T) {
	s := newTestServer(t)
	w := do(t, s, http.MethodGet, "/", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var resp map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp["text"] != "Hello, Tasks." {
		t.Fatalf("unexpected greeting: %v", resp)
	}
	if w.Header().Get(requestIDHeader) == "" {
		t.Fatal("expected a generated request id header")
	}
}

func TestRequestIDIsPropagated(t *testing.T) {
	s := newTestServer(t)
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set(requestIDHeader, "abc-123")
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	if got := w.Header().Get(requestIDHeader); got != "abc-123" {
		t.Fatalf("expected request id echoed, got %q", got)
	}
}

func TestTaskLifecycleEndToEnd(t *testing.T) {
	s := newTestServer(t)

	w := do(t, s, http.MethodPost, "/tasks", map[string]string{"task": "Buy milk"})
	if w.Code != http.StatusOK || w.Body.String() != msgTaskAdded {
		t.Fatalf("create: %d %q", w.Code, w.Body.String())
	}
	if ct := w.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/plain") {
		t.Fatalf("expected plain text mutation response, got %q", ct)
	}

	pending := decodeTasks(t, do(t, s, http.MethodGet, "/tasks", nil))
	if len(pending) != 1 || pending[0].Text != "Buy milk" || pending[0].Complete {
		t.Fatalf("unexpected pending view: %+v", pending)
	}
	id := pending[0].ID

	w = do(t, s, http.MethodPut, "/tasks/complete", map[string]any{"id": id, "complete": true})
	if w.Code != http.StatusOK || w.Body.String() != msgTaskComplete {
		t.Fatalf("complete: %d %q", w.Code, w.Body.String())
	}
	if pending = decodeTasks(t, do(t, s, http.MethodGet, "/tasks", nil)); len(pending) != 0 {
		t.Fatalf("expected completed task gone from pending view: %+v", pending)
	}
	completed := decodeTasks(t, do(t, s, http.MethodGet, "/tasks/complete", nil))
	if len(completed) != 1 || completed[0].ID != id || !completed[0].Complete {
		t.Fatalf("unexpected completed view: %+v", completed)
	}

	w = do(t, s, http.MethodDelete, "/tasks/clear", nil)
	if w.Code != http.StatusOK || w.Body.String() != msgTasksCleared {
		t.Fatalf("clear: %d %q", w.Code, w.Body.String())
	}
	completed = decodeTasks(t, do(t, s, http.MethodGet, "/tasks/complete", nil))
	if completed == nil || len(completed) != 0 {
		t.Fatalf("expected empty array after clear, got %+v", completed)
	}
}

func TestEditAndDelete(t *testing.T) {
	s := newTestServer(t)
	do(t, s, http.MethodPost, "/tasks", map[string]string{"task": "draft"})
	id := decodeTasks(t, do(t, s, http.MethodGet, "/tasks", nil))[0].ID

	w := do(t, s, http.MethodPut, "/tasks", map[string]any{"id": id, "task": "**final**"})
	if w.Code != http.StatusOK || w.Body.String() != msgTaskEdited {
		t.Fatalf("edit: %d %q", w.Code, w.Body.String())
	}
	pending := decodeTasks(t, do(t, s, http.MethodGet, "/tasks", nil))
	if pending[0].Text != "**final**" {
		t.Fatalf("expected edited text, got %q", pending[0].Text)
	}
	if !pending[0].UpdatedAt.After(pending[0].CreatedAt) {
		t.Fatalf("expected updatedAt refreshed: %+v", pending[0])
	}

	w = do(t, s, http.MethodDelete, "/tasks/delete/"+strconv.FormatInt(id, 10), nil)
	if w.Code != http.StatusOK || w.Body.String() != msgTaskDeleted {
		t.Fatalf("delete: %d %q", w.Code, w.Body.String())
	}
	if pending = decodeTasks(t, do(t, s, http.MethodGet, "/tasks", nil)); len(pending) != 0 {
		t.Fatalf("expected no tasks after delete: %+v", pending)
	}
}

func TestWhitespaceTaskAcceptedServerSide(t *testing.T) {
	s := newTestServer(t)
	w := do(t, s, http.MethodPost, "/tasks", map[string]string{"task": "   "})
	if w.Code != http.StatusOK {
		t.Fatalf("expected whitespace task accepted, got %d", w.Code)
	}
	if pending := decodeTasks(t, do(t, s, http.MethodGet, "/tasks", nil)); len(pending) != 1 {
		t.Fatalf("expected stored whitespace task, got %+v", pending)
	}
}

func TestMissingIDReturnsNotFound(t *testing.T) {
	s := newTestServer(t)
	cases := []struct {
		method string
		path   string
		body   any
	}{
		{http.MethodPut, "/tasks", map[string]any{"id": 42, "task": "x"}},
		{http.MethodPut, "/tasks/complete", map[string]any{"id": 42, "complete": true}},
		{http.MethodDelete, "/tasks/delete/42", nil},
		{http.MethodPut, "/tasks", map[string]any{"id": 0, "task": "x"}},
		{http.MethodPut, "/tasks/complete", map[string]any{"id": -1, "complete": true}},
		{http.MethodDelete, "/tasks/delete/0", nil},
		{http.MethodDelete, "/tasks/delete/-1", nil},
	}
	for _, tc := range cases {
		w := do(t, s, tc.method, tc.path, tc.body)
		if w.Code != http.StatusNotFound {
			t.Fatalf("%s %s: expected 404, got %d %s", tc.method, tc.path, w.Code, w.Body.String())
		}
		if !strings.Contains(w.Body.String(), errTaskNotFound) {
			t.Fatalf("%s %s: expected error envelope, got %s", tc.method, tc.path, w.Body.String())
		}
	}
}

func TestClearWithNothingCompletedSucceeds(t *testing.T) {
	s := newTestServer(t)
	do(t, s, http.MethodPost, "/tasks", map[string]string{"task": "stay"})
	w := do(t, s, http.MethodDelete, "/tasks/clear", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if pending := decodeTasks(t, do(t, s, http.MethodGet, "/tasks", nil)); len(pending) != 1 {
		t.Fatalf("pending task disturbed: %+v", pending)
	}
}

func TestMalformedRequestsReturnBadRequest(t *testing.T) {
	s := newTestServer(t)
	cases := []struct {
		name   string
		method string
		path   string
		body   any
	}{
		{"invalid json", http.MethodPost, "/tasks", "{not json"},
		{"missing task", http.MethodPost, "/tasks", map[string]any{}},
		{"edit without id", http.MethodPut, "/tasks", map[string]any{"task": "x"}},
		{"complete without flag", http.MethodPut, "/tasks/complete", map[string]any{"id": 1}},
		{"wrong type", http.MethodPut, "/tasks/complete", map[string]any{"id": "one", "complete": true}},
		{"non numeric id", http.MethodDelete, "/tasks/delete/abc", nil},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := do(t, s, tc.method, tc.path, tc.body)
			if w.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d %s", w.Code, w.Body.String())
			}
			var resp map[string]string
			if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil || resp["error"] == "" {
				t.Fatalf("expected error envelope, got %s", w.Body.String())
			}
		})
	}
}

func TestStorageFaultReturnsInternalError(t *testing.T) {
	gin.SetMode(gin.TestMode)
	s := NewServer(failingRepo{}, logger.Discard())
	cases := []struct {
		method string
		path   string
		body   any
	}{
		{http.MethodGet, "/tasks", nil},
		{http.MethodGet, "/tasks/complete", nil},
		{http.MethodPost, "/tasks", map[string]string{"task": "x"}},
		{http.MethodPut, "/tasks", map[string]any{"id": 1, "task": "x"}},
		{http.MethodPut, "/tasks/complete", map[string]any{"id": 1, "complete": true}},
		{http.MethodDelete, "/tasks/delete/1", nil},
		{http.MethodDelete, "/tasks/clear", nil},
	}
	for _, tc := range cases {
		w := do(t, s, tc.method, tc.path, tc.body)
		if w.Code != http.StatusInternalServerError {
			t.Fatalf("%s %s: expected 500, got %d", tc.method, tc.path, w.Code)
		}
		if strings.Contains(w.Body.String(), errDiskFull.Error()) {
			t.Fatalf("%s %s: storage cause leaked to client: %s", tc.method, tc.path, w.Body.String())
		}
	}
}

func TestMetricsEndpoint(t *testing.T) {
	s := newTestServer(t)
	do(t, s, http.MethodGet, "/tasks", nil)
	w := do(t, s, http.MethodGet, "/metrics", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 from /metrics, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), `punchlist_http_requests_total{method="GET",route="/tasks",status="200"}`) {
		t.Fatalf("expected request counter for /tasks in metrics output")
	}
}
