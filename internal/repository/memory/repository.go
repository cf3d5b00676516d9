// Package memory provides an in-process task store used by tests and the
// memory driver.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"

	"todo/internal/errors"
	"todo/internal/repository"
)

// Repository keeps tasks in a map. IDs come from a monotonic counter and are
// never reused, even after a delete.
type Repository struct {
	mu     sync.RWMutex
	tasks  map[int64]repository.Task
	nextID atomic.Int64
	closed atomic.Bool
}

var _ repository.Repository = (*Repository)(nil)

// New creates an empty store.
func New() *Repository {
	return &Repository{tasks: make(map[int64]repository.Task)}
}

func (r *Repository) check(ctx context.Context, operation string) error {
	if err := ctx.Err(); err != nil {
		return errors.WrapStorageError(operation, err)
	}
	if r.closed.Load() {
		return errors.NewUnavailableError("memory store", fmt.Errorf("%s on closed store", operation))
	}
	return nil
}

// CreateTask stores the task and assigns the next ID.
func (r *Repository) CreateTask(ctx context.Context, task *repository.Task) error {
	if err := r.check(ctx, "create task"); err != nil {
		return err
	}
	if task.ID != 0 {
		return errors.NewConflictError("task", fmt.Sprintf("id %d is already assigned", task.ID))
	}

	id := r.nextID.Add(1)

	r.mu.Lock()
	r.tasks[id] = repository.Task{ID: id, Text: task.Text}
	r.mu.Unlock()

	task.ID = id
	return nil
}

// GetTask returns a copy of the stored task.
func (r *Repository) GetTask(ctx context.Context, id int64) (*repository.Task, error) {
	if err := r.check(ctx, "get task"); err != nil {
		return nil, err
	}

	r.mu.RLock()
	task, ok := r.tasks[id]
	r.mu.RUnlock()

	if !ok {
		return nil, errors.NewNotFoundError("task", fmt.Sprintf("%d", id))
	}
	return &task, nil
}

// ListTasks returns copies of all tasks ordered by ID.
func (r *Repository) ListTasks(ctx context.Context) ([]*repository.Task, error) {
	if err := r.check(ctx, "list tasks"); err != nil {
		return nil, err
	}

	r.mu.RLock()
	tasks := make([]*repository.Task, 0, len(r.tasks))
	for _, task := range r.tasks {
		task := task
		tasks = append(tasks, &task)
	}
	r.mu.RUnlock()

	sort.Slice(tasks, func(i, j int) bool { return tasks[i].ID < tasks[j].ID })
	return tasks, nil
}

// UpdateTask replaces the text of an existing task.
func (r *Repository) UpdateTask(ctx context.Context, task *repository.Task) error {
	if err := r.check(ctx, "update task"); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.tasks[task.ID]; !ok {
		return errors.NewNotFoundError("task", fmt.Sprintf("%d", task.ID))
	}
	r.tasks[task.ID] = repository.Task{ID: task.ID, Text: task.Text}
	return nil
}

// DeleteTask removes a task.
func (r *Repository) DeleteTask(ctx context.Context, id int64) error {
	if err := r.check(ctx, "delete task"); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.tasks[id]; !ok {
		return errors.NewNotFoundError("task", fmt.Sprintf("%d", id))
	}
	delete(r.tasks, id)
	return nil
}

// Ping fails once the store is closed.
func (r *Repository) Ping(ctx context.Context) error {
	return r.check(ctx, "ping")
}

// Close marks the store closed. Later calls fail with an unavailable error.
func (r *Repository) Close() error {
	r.closed.Store(true)
	return nil
}
