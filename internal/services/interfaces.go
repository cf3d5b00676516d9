package services

import (
	"context"

	"todo/internal/domain"
)

// TaskService is the use-case layer shared by the CLI and the HTTP API. Every
// task passes through the validation gate before it reaches storage.
type TaskService interface {
	// CreateTask validates text, persists a new task and returns it with its
	// assigned ID.
	CreateTask(ctx context.Context, text string) (*domain.Task, error)

	// GetTask returns the task with the given ID.
	GetTask(ctx context.Context, id int64) (*domain.Task, error)

	// ListTasks returns all tasks ordered by ID.
	ListTasks(ctx context.Context) ([]*domain.Task, error)

	// UpdateTask replaces the text of an existing task.
	UpdateTask(ctx context.Context, id int64, text string) (*domain.Task, error)

	// DeleteTask removes the task with the given ID.
	DeleteTask(ctx context.Context, id int64) error

	// Ping reports whether the underlying store is reachable.
	Ping(ctx context.Context) error
}
