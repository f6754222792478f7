package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/sandeepkv93/punchlist/internal/api"
	"github.com/sandeepkv93/punchlist/internal/logger"
	"github.com/sandeepkv93/punchlist/internal/storage"
)

func setupClient(t *testing.T) *Client {
	t.Helper()
	gin.SetMode(gin.TestMode)
	repo, err := storage.OpenSQLite(filepath.Join(t.TempDir(), "client-test.db"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = repo.Close() })
	if err := repo.Migrate(); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	srv := httptest.NewServer(api.NewServer(repo, logger.Discard()).Handler())
	t.Cleanup(srv.Close)

	c, err := New(srv.URL+"/", 5*time.Second)
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	return c
}

func TestNewRejectsRelativeURL(t *testing.T) {
	if _, err := New("localhost:3000", time.Second); err == nil {
		t.Fatal("expected error for relative base url")
	}
}

func TestGreeting(t *testing.T) {
	c := setupClient(t)
	got, err := c.Greeting(context.Background())
	if err != nil {
		t.Fatalf("greeting: %v", err)
	}
	if got != "Hello, Tasks." {
		t.Fatalf("unexpected greeting %q", got)
	}
}

func TestMutationsThenSnapshot(t *testing.T) {
	c := setupClient(t)
	ctx := context.Background()

	for _, text := range []string{"first", "second", "third"} {
		if err := c.Add(ctx, text); err != nil {
			t.Fatalf("add %s: %v", text, err)
		}
	}
	snap, err := c.Snapshot(ctx)
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	if len(snap.Pending) != 3 || len(snap.Completed) != 0 {
		t.Fatalf("unexpected snapshot: %+v", snap)
	}
	first, second, third := snap.Pending[0], snap.Pending[1], snap.Pending[2]
	if first.Text != "first" || third.Text != "third" {
		t.Fatalf("pending view not in insertion order: %+v", snap.Pending)
	}

	if err := c.SetComplete(ctx, third.ID, true); err != nil {
		t.Fatalf("complete third: %v", err)
	}
	if err := c.SetComplete(ctx, first.ID, true); err != nil {
		t.Fatalf("complete first: %v", err)
	}
	if err := c.Edit(ctx, second.ID, "second, edited"); err != nil {
		t.Fatalf("edit: %v", err)
	}

	snap, err = c.Snapshot(ctx)
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	if len(snap.Pending) != 1 || snap.Pending[0].Text != "second, edited" {
		t.Fatalf("unexpected pending view: %+v", snap.Pending)
	}
	// Most recently completed first, regardless of id order.
	if len(snap.Completed) != 2 || snap.Completed[0].ID != first.ID || snap.Completed[1].ID != third.ID {
		t.Fatalf("completed view not sorted by updatedAt desc: %+v", snap.Completed)
	}

	if err := c.Delete(ctx, third.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := c.ClearCompleted(ctx); err != nil {
		t.Fatalf("clear: %v", err)
	}
	snap, err = c.Snapshot(ctx)
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	if len(snap.Completed) != 0 || len(snap.Pending) != 1 {
		t.Fatalf("unexpected snapshot after clear: %+v", snap)
	}
}

func TestNotFoundIsTyped(t *testing.T) {
	c := setupClient(t)
	err := c.Delete(context.Background(), 777)
	if err == nil {
		t.Fatal("expected error deleting missing task")
	}
	if !IsNotFound(err) {
		t.Fatalf("expected not-found api error, got %v", err)
	}
	if err.Error() != "api: status 404: task not found" {
		t.Fatalf("unexpected message: %v", err)
	}
}

func TestNonJSONErrorBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream exploded", http.StatusBadGateway)
	}))
	defer srv.Close()

	c, err := New(srv.URL, time.Second)
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	_, err = c.Pending(context.Background())
	apiErr, ok := err.(*APIError)
	if !ok {
		t.Fatalf("expected *APIError, got %T %v", err, err)
	}
	if apiErr.StatusCode != http.StatusBadGateway || apiErr.Message != "upstream exploded" {
		t.Fatalf("unexpected api error: %+v", apiErr)
	}
}

func TestTransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c, err := New(url, time.Second)
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	if _, err := c.Snapshot(context.Background()); err == nil {
		t.Fatal("expected transport error against closed server")
	}
}
