package store_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"dayflow/internal/api"
	"dayflow/internal/store"
)

// stubService is a minimal in-memory task service. Handlers can be swapped
// per test to force failures.
type stubService struct {
	mu       sync.Mutex
	requests []string
	fail     map[string]int // "METHOD /path" -> status to return
	tasks    string         // JSON body served for GET /api/tasks
	toggled  string         // JSON body served for PATCH toggle
}

func newStub() *stubService {
	return &stubService{
		fail:    map[string]int{},
		tasks:   `[{"id":"a","title":"alpha"},{"id":"b","title":"beta"}]`,
		toggled: `{"id":"a","title":"alpha","isDone":true}`,
	}
}

func (s *stubService) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	key := r.Method + " " + r.URL.Path
	s.mu.Lock()
	s.requests = append(s.requests, key)
	status := s.fail[key]
	s.mu.Unlock()
	w.Header().Set("Content-Type", "application/json")
	if status != 0 {
		w.WriteHeader(status)
		_, _ = w.Write([]byte(`{"message":"rejected"}`))
		return
	}
	switch {
	case key == "GET /api/tasks":
		_, _ = w.Write([]byte(s.tasks))
	case key == "POST /api/tasks":
		var in map[string]any
		_ = json.NewDecoder(r.Body).Decode(&in)
		_ = json.NewEncoder(w).Encode(map[string]any{"id": "new", "title": in["title"]})
	case key == "PATCH /api/tasks/a/toggle":
		_, _ = w.Write([]byte(s.toggled))
	case key == "POST /api/tasks/reorder":
		w.WriteHeader(http.StatusNoContent)
	case r.Method == http.MethodDelete:
		w.WriteHeader(http.StatusNoContent)
	default:
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"message":"not found"}`))
	}
}

func (s *stubService) count(key string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, req := range s.requests {
		if req == key {
			n++
		}
	}
	return n
}

func newStore(t *testing.T, stub *stubService) *store.Store {
	t.Helper()
	srv := httptest.NewServer(stub)
	t.Cleanup(srv.Close)
	return store.New(api.New(srv.URL, api.StaticToken("tok")), nil)
}

func TestLoadSortsAndCaches(t *testing.T) {
	stub := newStub()
	stub.tasks = `[
		{"id":"unsched","title":"later","createdAt":"2024-01-01T00:00:00Z"},
		{"id":"sched","title":"meeting","date":"2024-05-01"}
	]`
	s := newStore(t, stub)
	tasks, err := s.Load(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if tasks[0].ID != "sched" {
		t.Fatalf("scheduled task should sort first: %v", tasks)
	}
	cached := s.Tasks()
	if len(cached) != 2 || cached[0].ID != "sched" {
		t.Fatalf("cache=%v", cached)
	}
}

func TestCreateEmptyTitleSendsNoRequest(t *testing.T) {
	stub := newStub()
	s := newStore(t, stub)
	_, err := s.Create(context.Background(), api.CreateTaskInput{Title: "   "})
	if !errors.Is(err, store.ErrEmptyTitle) {
		t.Fatalf("err=%v", err)
	}
	if stub.count("POST /api/tasks") != 0 {
		t.Fatalf("request went out for an empty title")
	}
}

func TestCreateTrimsTitle(t *testing.T) {
	stub := newStub()
	s := newStore(t, stub)
	task, err := s.Create(context.Background(), api.CreateTaskInput{Title: "  buy milk  "})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if task.Title != "buy milk" {
		t.Fatalf("title=%q", task.Title)
	}
}

func TestToggleRevertsOnFailure(t *testing.T) {
	stub := newStub()
	s := newStore(t, stub)
	if _, err := s.Load(context.Background()); err != nil {
		t.Fatalf("load: %v", err)
	}
	stub.fail["PATCH /api/tasks/a/toggle"] = http.StatusUnauthorized

	_, err := s.Toggle(context.Background(), "a")
	var apiErr *api.APIError
	if !errors.As(err, &apiErr) || apiErr.StatusCode != 401 {
		t.Fatalf("err=%v", err)
	}
	for _, task := range s.Tasks() {
		if task.ID == "a" && task.IsDone {
			t.Fatalf("optimistic flip not reverted")
		}
	}
}

func TestToggleAppliesServerState(t *testing.T) {
	stub := newStub()
	s := newStore(t, stub)
	if _, err := s.Load(context.Background()); err != nil {
		t.Fatalf("load: %v", err)
	}
	task, err := s.Toggle(context.Background(), "a")
	if err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if !task.IsDone {
		t.Fatalf("toggle result not done")
	}
	for _, cached := range s.Tasks() {
		if cached.ID == "a" && !cached.IsDone {
			t.Fatalf("cache not updated from server state")
		}
	}
}

func TestToggleUncachedTaskStillCalls(t *testing.T) {
	stub := newStub()
	s := newStore(t, stub)
	// no Load: cache is empty
	if _, err := s.Toggle(context.Background(), "a"); err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if stub.count("PATCH /api/tasks/a/toggle") != 1 {
		t.Fatalf("toggle request missing")
	}
}

func TestDeleteRemovesFromCache(t *testing.T) {
	stub := newStub()
	s := newStore(t, stub)
	if _, err := s.Load(context.Background()); err != nil {
		t.Fatalf("load: %v", err)
	}
	if err := s.Delete(context.Background(), "a"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	for _, task := range s.Tasks() {
		if task.ID == "a" {
			t.Fatalf("deleted task still cached")
		}
	}
}

func TestMoveAllDayRefetches(t *testing.T) {
	stub := newStub()
	s := newStore(t, stub)
	view, err := s.Load(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if _, err := s.MoveAllDay(context.Background(), view, 0, 1); err != nil {
		t.Fatalf("move: %v", err)
	}
	if stub.count("POST /api/tasks/reorder") != 1 {
		t.Fatalf("reorder not sent")
	}
	// the list is re-fetched after a reorder, never patched locally
	if stub.count("GET /api/tasks") != 2 {
		t.Fatalf("expected a re-fetch, got %d list calls", stub.count("GET /api/tasks"))
	}
}

func TestMoveAllDayOutOfRange(t *testing.T) {
	stub := newStub()
	s := newStore(t, stub)
	view, err := s.Load(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if _, err := s.MoveAllDay(context.Background(), view, 0, 99); err == nil {
		t.Fatalf("expected out-of-range error")
	}
	if stub.count("POST /api/tasks/reorder") != 0 {
		t.Fatalf("reorder sent for an invalid move")
	}
}

func TestBreakdownMergesSubtasks(t *testing.T) {
	stub := newStub()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/tasks" {
			_, _ = w.Write([]byte(stub.tasks))
			return
		}
		_, _ = w.Write([]byte(`{"subTasks":[{"title":"step one","estimatedTime":15}],"totalEstimatedTime":15}`))
	}))
	t.Cleanup(srv.Close)
	s := store.New(api.New(srv.URL, api.StaticToken("tok")), nil)
	if _, err := s.Load(context.Background()); err != nil {
		t.Fatalf("load: %v", err)
	}
	task, err := s.Breakdown(context.Background(), "a")
	if err != nil {
		t.Fatalf("breakdown: %v", err)
	}
	if len(task.SubTasks) != 1 || task.SubTasks[0].Title != "step one" {
		t.Fatalf("subtasks=%v", task.SubTasks)
	}
	if task.TotalEstimatedTime == nil || *task.TotalEstimatedTime != 15 {
		t.Fatalf("estimate not merged")
	}
}

func TestBusyGuard(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		close(started)
		<-release
		_, _ = w.Write([]byte(`[]`))
	}))
	t.Cleanup(srv.Close)
	s := store.New(api.New(srv.URL, api.StaticToken("tok")), nil)

	done := make(chan error, 1)
	go func() {
		_, err := s.Load(context.Background())
		done <- err
	}()
	<-started
	if _, err := s.Toggle(context.Background(), "a"); !errors.Is(err, store.ErrBusy) {
		t.Fatalf("err=%v", err)
	}
	close(release)
	if err := <-done; err != nil {
		t.Fatalf("load: %v", err)
	}
}
