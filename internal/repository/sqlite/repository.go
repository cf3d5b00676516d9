package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"todo/internal/errors"
	"todo/internal/repository"
	"todo/internal/repository/sqlite/migrations"

	_ "modernc.org/sqlite"
)

// Options tunes the per-operation deadlines of the repository. Zero values
// disable the corresponding deadline.
type Options struct {
	QueryTimeout time.Duration
	WriteTimeout time.Duration
}

// DefaultOptions returns the timeouts used by New.
func DefaultOptions() Options {
	return Options{
		QueryTimeout: 10 * time.Second,
		WriteTimeout: 5 * time.Second,
	}
}

// SQLiteRepository implements repository.Repository on top of an SQLite file.
type SQLiteRepository struct {
	db   *sql.DB
	opts Options
}

var _ repository.Repository = (*SQLiteRepository)(nil)

// New creates a new SQLite repository instance
func New(dbPath string) (*SQLiteRepository, error) {
	return NewWithOptions(dbPath, DefaultOptions())
}

// NewWithOptions opens the database at dbPath, applies pending migrations and
// returns a repository using the given timeouts.
func NewWithOptions(dbPath string, opts Options) (*SQLiteRepository, error) {
	db, err := sql.Open("sqlite", dataSourceName(dbPath))
	if err != nil {
		return nil, errors.NewDatabaseError("open database", err)
	}

	// SQLite allows one writer at a time. A single connection serialises
	// writers inside this process and keeps an in-memory database alive.
	db.SetMaxOpenConns(1)

	ctx, cancel := withTimeout(context.Background(), opts.WriteTimeout)
	defer cancel()

	if err := migrations.RunMigrations(ctx, db); err != nil {
		db.Close()
		return nil, errors.NewDatabaseError("run migrations", err)
	}

	return &SQLiteRepository{db: db, opts: opts}, nil
}

// busyTimeout is how long a connection waits on a lock held by another
// process, such as a CLI command running next to serve.
const busyTimeout = 5 * time.Second

// dataSourceName adds the busy timeout and WAL journal pragmas to file
// databases.
func dataSourceName(dbPath string) string {
	if dbPath == ":memory:" {
		return dbPath
	}
	sep := "?"
	if strings.Contains(dbPath, "?") {
		sep = "&"
	}
	return fmt.Sprintf("%s%s_pragma=busy_timeout(%d)&_pragma=journal_mode(WAL)", dbPath, sep, busyTimeout.Milliseconds())
}

func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}

// Close closes the database connection
func (r *SQLiteRepository) Close() error {
	return r.db.Close()
}

// Ping checks that the database is reachable
func (r *SQLiteRepository) Ping(ctx context.Context) error {
	ctx, cancel := withTimeout(ctx, r.opts.QueryTimeout)
	defer cancel()

	if err := r.db.PingContext(ctx); err != nil {
		return HandleDatabaseError("ping", err)
	}
	return nil
}

// CreateTask inserts the task and sets its ID from the AUTOINCREMENT sequence
func (r *SQLiteRepository) CreateTask(ctx context.Context, task *repository.Task) error {
	if task.ID != 0 {
		return errors.NewConflictError("task", fmt.Sprintf("id %d is already assigned", task.ID))
	}

	ctx, cancel := withTimeout(ctx, r.opts.WriteTimeout)
	defer cancel()

	query := `INSERT INTO tasks (text) VALUES (?)`
	id, err := ExecuteWithLastInsertID(ctx, r.db, query, task.Text)
	if err != nil {
		return err
	}
	task.ID = id
	return nil
}

// GetTask retrieves a task by ID
func (r *SQLiteRepository) GetTask(ctx context.Context, id int64) (*repository.Task, error) {
	ctx, cancel := withTimeout(ctx, r.opts.QueryTimeout)
	defer cancel()

	query := `SELECT id, text FROM tasks WHERE id = ?`
	return QuerySingle(ctx, r.db, query, ScanTask, "task", fmt.Sprintf("%d", id), id)
}

// ListTasks retrieves all tasks ordered by ID
func (r *SQLiteRepository) ListTasks(ctx context.Context) ([]*repository.Task, error) {
	ctx, cancel := withTimeout(ctx, r.opts.QueryTimeout)
	defer cancel()

	query := `SELECT id, text FROM tasks ORDER BY id ASC`
	return QueryMultiple(ctx, r.db, query, ScanTasks, "tasks")
}

// UpdateTask updates the text of an existing task
func (r *SQLiteRepository) UpdateTask(ctx context.Context, task *repository.Task) error {
	ctx, cancel := withTimeout(ctx, r.opts.WriteTimeout)
	defer cancel()

	query := `UPDATE tasks SET text = ? WHERE id = ?`
	return ExecuteWithRowsAffected(ctx, r.db, query, "task", fmt.Sprintf("%d", task.ID), task.Text, task.ID)
}

// DeleteTask deletes a task by ID
func (r *SQLiteRepository) DeleteTask(ctx context.Context, id int64) error {
	ctx, cancel := withTimeout(ctx, r.opts.WriteTimeout)
	defer cancel()

	query := `DELETE FROM tasks WHERE id = ?`
	return ExecuteWithRowsAffected(ctx, r.db, query, "task", fmt.Sprintf("%d", id), id)
}
