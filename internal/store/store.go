// Package store holds the client-side cached task list and runs every data
// operation against the remote service through the API client. Mutations
// follow a transaction pattern: apply locally, send the request, restore
// the pre-mutation snapshot on failure.
package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"dayflow/internal/api"
	"dayflow/internal/domain"
	"dayflow/internal/logging"
	"dayflow/internal/order"
	"dayflow/internal/repo"
)

// ErrBusy rejects re-entrant submits while a request is in flight.
var ErrBusy = errors.New("another request is in flight")

// ErrEmptyTitle is a client-local validation failure; no request is sent.
var ErrEmptyTitle = errors.New("task title is required")

type Store struct {
	Client *api.Client
	Local  *repo.Repo // optional; enables offline snapshot

	mu    sync.Mutex
	busy  bool
	tasks []domain.Task
}

func New(client *api.Client, local *repo.Repo) *Store {
	return &Store{Client: client, Local: local}
}

func (s *Store) begin() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.busy {
		return ErrBusy
	}
	s.busy = true
	return nil
}

func (s *Store) end() {
	s.mu.Lock()
	s.busy = false
	s.mu.Unlock()
}

// Load fetches the full task list, sorts it into unified order, and caches
// it. When a local repo is attached the fetched list is snapshotted for
// offline use; a snapshot failure is logged, not fatal.
func (s *Store) Load(ctx context.Context) ([]domain.Task, error) {
	if err := s.begin(); err != nil {
		return nil, err
	}
	defer s.end()
	return s.load(ctx)
}

func (s *Store) load(ctx context.Context) ([]domain.Task, error) {
	fetched, err := s.Client.ListTasks(ctx)
	if err != nil {
		return nil, err
	}
	sorted := order.Sort(fetched)
	s.setTasks(sorted)
	if s.Local != nil {
		if err := s.Local.SaveSnapshot(ctx, sorted, time.Now()); err != nil {
			logging.Logger.WithError(err).Warn("saving task snapshot failed")
		}
	}
	return s.Tasks(), nil
}

// LoadOffline serves the last snapshot without touching the network.
func (s *Store) LoadOffline(ctx context.Context) ([]domain.Task, time.Time, error) {
	if s.Local == nil {
		return nil, time.Time{}, fmt.Errorf("offline mode requires local state")
	}
	tasks, fetchedAt, err := s.Local.LoadSnapshot(ctx)
	if err != nil {
		return nil, time.Time{}, err
	}
	sorted := order.Sort(tasks)
	s.setTasks(sorted)
	return s.Tasks(), fetchedAt, nil
}

func (s *Store) setTasks(tasks []domain.Task) {
	s.mu.Lock()
	s.tasks = tasks
	s.mu.Unlock()
}

// Tasks returns a copy of the cached list.
func (s *Store) Tasks() []domain.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.Task, len(s.tasks))
	copy(out, s.tasks)
	return out
}

// Create validates the title locally before any request goes out.
func (s *Store) Create(ctx context.Context, in api.CreateTaskInput) (domain.Task, error) {
	if strings.TrimSpace(in.Title) == "" {
		return domain.Task{}, ErrEmptyTitle
	}
	if err := s.begin(); err != nil {
		return domain.Task{}, err
	}
	defer s.end()
	in.Title = strings.TrimSpace(in.Title)
	t, err := s.Client.CreateTask(ctx, in)
	if err != nil {
		return domain.Task{}, err
	}
	s.mu.Lock()
	s.tasks = order.Sort(append(s.tasks, t))
	s.mu.Unlock()
	return t, nil
}

// Toggle flips completion optimistically: the cached task mutates first,
// and on failure the pre-mutation state is restored before the error is
// returned.
func (s *Store) Toggle(ctx context.Context, id string) (domain.Task, error) {
	if err := s.begin(); err != nil {
		return domain.Task{}, err
	}
	defer s.end()

	idx := s.indexOf(id)
	var prev domain.Task
	if idx >= 0 {
		s.mu.Lock()
		prev = s.tasks[idx]
		s.tasks[idx].IsDone = !s.tasks[idx].IsDone
		s.mu.Unlock()
	}

	updated, err := s.Client.ToggleTask(ctx, id)
	if err != nil {
		if idx >= 0 {
			s.mu.Lock()
			s.tasks[idx] = prev
			s.mu.Unlock()
		}
		return domain.Task{}, err
	}
	if idx >= 0 {
		s.mu.Lock()
		s.tasks[idx] = updated
		s.mu.Unlock()
	}
	return updated, nil
}

// Update sends the full-replace payload and refreshes the cached entry.
func (s *Store) Update(ctx context.Context, id string, in api.UpdateTaskInput) (domain.Task, error) {
	if strings.TrimSpace(in.Title) == "" {
		return domain.Task{}, ErrEmptyTitle
	}
	if err := s.begin(); err != nil {
		return domain.Task{}, err
	}
	defer s.end()
	updated, err := s.Client.UpdateTask(ctx, id, in)
	if err != nil {
		return domain.Task{}, err
	}
	s.replace(updated)
	return updated, nil
}

func (s *Store) Delete(ctx context.Context, id string) error {
	if err := s.begin(); err != nil {
		return err
	}
	defer s.end()
	if err := s.Client.DeleteTask(ctx, id); err != nil {
		return err
	}
	s.mu.Lock()
	for i, t := range s.tasks {
		if t.ID == id {
			s.tasks = append(s.tasks[:i], s.tasks[i+1:]...)
			break
		}
	}
	s.mu.Unlock()
	return nil
}

// Breakdown asks the service to split the task and merges the returned
// subtasks (and any revised estimate) into the cached entry.
func (s *Store) Breakdown(ctx context.Context, id string) (domain.Task, error) {
	if err := s.begin(); err != nil {
		return domain.Task{}, err
	}
	defer s.end()
	res, err := s.Client.BreakdownTask(ctx, id)
	if err != nil {
		return domain.Task{}, err
	}
	s.mu.Lock()
	idx := -1
	for i, t := range s.tasks {
		if t.ID == id {
			idx = i
			break
		}
	}
	var merged domain.Task
	if idx >= 0 {
		s.tasks[idx].SubTasks = res.SubTasks()
		if res.TotalEstimatedTime != nil {
			s.tasks[idx].TotalEstimatedTime = res.TotalEstimatedTime
		}
		merged = s.tasks[idx]
	} else {
		merged = domain.Task{ID: id, SubTasks: res.SubTasks(), TotalEstimatedTime: res.TotalEstimatedTime}
	}
	s.mu.Unlock()
	return merged, nil
}

// MoveAllDay reorders the all-day subset of the given view: the element at
// src is reinserted at dst, the resulting id sequence becomes the canonical
// order server-side, and the list is re-fetched unconditionally so the
// local order is never left provisional.
func (s *Store) MoveAllDay(ctx context.Context, view []domain.Task, src, dst int) ([]domain.Task, error) {
	v := order.Partition(view)
	reordered, ok := order.Reorder(v.AllDay, src, dst)
	if !ok {
		return nil, fmt.Errorf("move %d -> %d out of range (subset has %d tasks)", src, dst, len(v.AllDay))
	}
	if err := s.begin(); err != nil {
		return nil, err
	}
	defer s.end()
	if err := s.Client.ReorderTasks(ctx, order.IDs(reordered)); err != nil {
		return nil, err
	}
	return s.load(ctx)
}

func (s *Store) indexOf(id string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, t := range s.tasks {
		if t.ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) replace(t domain.Task) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, cached := range s.tasks {
		if cached.ID == t.ID {
			s.tasks[i] = t
			return
		}
	}
	s.tasks = append(s.tasks, t)
}
