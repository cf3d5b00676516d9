// Package postgres stores tasks in PostgreSQL through a pgx connection pool.
package postgres

import (
	"context"
	_ "embed"
	stderrors "errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"todo/internal/errors"
	"todo/internal/repository"
)

//go:embed schema.sql
var schema string

// Config holds the connection settings.
type Config struct {
	URL      string
	MaxConns int
}

// Repository implements repository.Repository on a pgxpool.Pool.
type Repository struct {
	pool *pgxpool.Pool
}

var _ repository.Repository = (*Repository)(nil)

// Open connects to the database and applies the schema.
func Open(ctx context.Context, cfg Config) (*Repository, error) {
	if cfg.URL == "" {
		return nil, errors.NewInvalidInputError("db_url", cfg.URL, "database URL is required for PostgreSQL")
	}

	poolConfig, err := pgxpool.ParseConfig(cfg.URL)
	if err != nil {
		return nil, errors.NewInvalidInputError("db_url", "<redacted>", fmt.Sprintf("failed to parse database URL: %v", err))
	}

	if cfg.MaxConns > 0 {
		poolConfig.MaxConns = int32(cfg.MaxConns)
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, errors.NewUnavailableError("postgres", err)
	}

	repo := New(pool)
	if err := repo.Migrate(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return repo, nil
}

// New wraps an existing pool. The schema is not applied.
func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Migrate creates the tasks table if it does not exist.
func (r *Repository) Migrate(ctx context.Context) error {
	if _, err := r.pool.Exec(ctx, schema); err != nil {
		return errors.WrapStorageError("apply schema", err)
	}
	return nil
}

// CreateTask inserts the task and sets its ID from the BIGSERIAL sequence.
func (r *Repository) CreateTask(ctx context.Context, task *repository.Task) error {
	if task.ID != 0 {
		return errors.NewConflictError("task", fmt.Sprintf("id %d is already assigned", task.ID))
	}

	query := `
		INSERT INTO tasks (text)
		VALUES ($1)
		RETURNING id
	`

	var id int64
	if err := r.pool.QueryRow(ctx, query, task.Text).Scan(&id); err != nil {
		return errors.WrapStorageError("create task", err)
	}
	task.ID = id
	return nil
}

// GetTask retrieves a task by ID.
func (r *Repository) GetTask(ctx context.Context, id int64) (*repository.Task, error) {
	query := `
		SELECT id, text
		FROM tasks
		WHERE id = $1
	`

	task := &repository.Task{}
	err := r.pool.QueryRow(ctx, query, id).Scan(&task.ID, &task.Text)
	if err != nil {
		if stderrors.Is(err, pgx.ErrNoRows) {
			return nil, errors.NewNotFoundError("task", fmt.Sprintf("%d", id))
		}
		return nil, errors.WrapStorageError("get task", err)
	}
	return task, nil
}

// ListTasks retrieves all tasks ordered by ID.
func (r *Repository) ListTasks(ctx context.Context) ([]*repository.Task, error) {
	query := `
		SELECT id, text
		FROM tasks
		ORDER BY id ASC
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, errors.WrapStorageError("list tasks", err)
	}
	defer rows.Close()

	tasks := []*repository.Task{}
	for rows.Next() {
		task := &repository.Task{}
		if err := rows.Scan(&task.ID, &task.Text); err != nil {
			return nil, errors.WrapStorageError("scan task", err)
		}
		tasks = append(tasks, task)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.WrapStorageError("list tasks", err)
	}
	return tasks, nil
}

// UpdateTask replaces the text of an existing task.
func (r *Repository) UpdateTask(ctx context.Context, task *repository.Task) error {
	tag, err := r.pool.Exec(ctx, `UPDATE tasks SET text = $1 WHERE id = $2`, task.Text, task.ID)
	if err != nil {
		return errors.WrapStorageError("update task", err)
	}
	if tag.RowsAffected() == 0 {
		return errors.NewNotFoundError("task", fmt.Sprintf("%d", task.ID))
	}
	return nil
}

// DeleteTask removes a task by ID.
func (r *Repository) DeleteTask(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM tasks WHERE id = $1`, id)
	if err != nil {
		return errors.WrapStorageError("delete task", err)
	}
	if tag.RowsAffected() == 0 {
		return errors.NewNotFoundError("task", fmt.Sprintf("%d", id))
	}
	return nil
}

// Ping verifies the pool can reach the server.
func (r *Repository) Ping(ctx context.Context) error {
	if err := r.pool.Ping(ctx); err != nil {
		return errors.NewUnavailableError("postgres", err)
	}
	return nil
}

// Close closes the connection pool.
func (r *Repository) Close() error {
	r.pool.Close()
	return nil
}
