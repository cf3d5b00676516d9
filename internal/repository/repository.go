// Package repository defines the storage row for tasks and the contract every
// storage backend implements.
package repository

import "context"

// Task is the stored shape of a task. An ID of 0 means the row has not been
// persisted yet.
type Task struct {
	ID   int64  `json:"id"`
	Text string `json:"text"`
}

// Repository defines the interface for task storage.
//
// CreateTask assigns a fresh, unique ID to task.ID. Backends never reuse or
// reassign IDs. Methods that address a row by ID return a not-found AppError
// when the row does not exist.
type Repository interface {
	CreateTask(ctx context.Context, task *Task) error
	GetTask(ctx context.Context, id int64) (*Task, error)
	ListTasks(ctx context.Context) ([]*Task, error)
	UpdateTask(ctx context.Context, task *Task) error
	DeleteTask(ctx context.Context, id int64) error

	Ping(ctx context.Context) error
	Close() error
}
