// Package testutil provides testing utilities.
package testutil

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"goal-path/internal/models"
)

// ErrBackendDown is a generic injected backend failure.
var ErrBackendDown = errors.New("backend unavailable")

// FakeBackend is an in-memory implementation of tasks.Backend for testing.
type FakeBackend struct {
	mu     sync.Mutex
	tasks  []models.Task
	nextID int
	clock  time.Time

	// Error injection for testing
	ListErr   error
	GetErr    error
	InsertErr error
	UpdateErr error
	DeleteErr error
	StatsErr  error

	// ListCalls counts ListTasks calls per filter.
	ListCalls map[models.TaskFilter]int

	listHook func() error
}

// NewFakeBackend creates an empty FakeBackend.
func NewFakeBackend() *FakeBackend {
	return &FakeBackend{
		clock:     time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC),
		ListCalls: make(map[models.TaskFilter]int),
	}
}

// Seed inserts a task directly, bypassing error injection.
func (f *FakeBackend) Seed(n models.NewTask) models.Task {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.insertLocked(n)
}

// SetListHook installs a function that ListTasks runs after reading its
// result and before returning it. A non-nil error from the hook fails the
// call. Pass nil to remove it.
func (f *FakeBackend) SetListHook(hook func() error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listHook = hook
}

// Calls returns the number of ListTasks calls for a filter.
func (f *FakeBackend) Calls(filter models.TaskFilter) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.ListCalls[filter]
}

func (f *FakeBackend) insertLocked(n models.NewTask) models.Task {
	f.nextID++
	f.clock = f.clock.Add(time.Second)
	if n.Status == "" {
		n.Status = models.NotStarted
	}
	if n.ParentID != "" && n.Date == "" {
		for _, t := range f.tasks {
			if t.ID == n.ParentID {
				n.Date = t.Date
			}
		}
	}
	task := models.Task{
		ID:        fmt.Sprintf("task-%d", f.nextID),
		Title:     n.Title,
		Status:    n.Status,
		Date:      n.Date,
		ParentID:  n.ParentID,
		IsSubtask: n.ParentID != "",
		CreatedAt: f.clock,
	}
	f.tasks = append(f.tasks, task)
	return task
}

// ListTasks implements tasks.Backend.
func (f *FakeBackend) ListTasks(ctx context.Context, filter models.TaskFilter) ([]models.Task, error) {
	f.mu.Lock()
	f.ListCalls[filter]++
	if f.ListErr != nil {
		f.mu.Unlock()
		return nil, f.ListErr
	}

	var result []models.Task
	for _, t := range f.tasks {
		if filter.Match(t) {
			result = append(result, t)
		}
	}
	hook := f.listHook
	f.mu.Unlock()

	sort.SliceStable(result, func(i, j int) bool {
		return result[i].CreatedAt.Before(result[j].CreatedAt)
	})
	if hook != nil {
		if err := hook(); err != nil {
			return nil, err
		}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// GetTask implements tasks.Backend.
func (f *FakeBackend) GetTask(ctx context.Context, id string) (models.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.GetErr != nil {
		return models.Task{}, f.GetErr
	}
	for _, t := range f.tasks {
		if t.ID == id {
			return t, nil
		}
	}
	return models.Task{}, models.ErrTaskNotFound
}

// InsertTask implements tasks.Backend.
func (f *FakeBackend) InsertTask(ctx context.Context, n models.NewTask) (models.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.InsertErr != nil {
		return models.Task{}, f.InsertErr
	}
	if n.ParentID != "" {
		found := false
		for _, t := range f.tasks {
			if t.ID == n.ParentID {
				if t.ParentID != "" {
					return models.Task{}, models.ErrNestedSubtask
				}
				found = true
			}
		}
		if !found {
			return models.Task{}, models.ErrParentNotFound
		}
	}
	return f.insertLocked(n), nil
}

// UpdateTask implements tasks.Backend.
func (f *FakeBackend) UpdateTask(ctx context.Context, p models.TaskPatch) (models.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.UpdateErr != nil {
		return models.Task{}, f.UpdateErr
	}
	for i, t := range f.tasks {
		if t.ID == p.ID {
			f.tasks[i] = p.Apply(t)
			return f.tasks[i], nil
		}
	}
	return models.Task{}, models.ErrTaskNotFound
}

// DeleteTask implements tasks.Backend.
func (f *FakeBackend) DeleteTask(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.DeleteErr != nil {
		return f.DeleteErr
	}
	kept := f.tasks[:0]
	found := false
	for _, t := range f.tasks {
		if t.ID == id {
			found = true
			continue
		}
		if t.ParentID == id {
			continue
		}
		kept = append(kept, t)
	}
	f.tasks = kept
	if !found {
		return models.ErrTaskNotFound
	}
	return nil
}

// DailyCompletionRate implements tasks.Backend.
func (f *FakeBackend) DailyCompletionRate(ctx context.Context, date string) (models.CompletionRate, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.StatsErr != nil {
		return models.CompletionRate{}, f.StatsErr
	}
	total, completed := 0, 0
	for _, t := range f.tasks {
		if t.Date == date {
			total++
			if t.Status == models.Completed {
				completed++
			}
		}
	}
	return models.NewCompletionRate(total, completed), nil
}
