package services

import (
	"context"
	"log/slog"

	"todo/internal/domain"
	"todo/internal/errors"
	"todo/internal/repository"
	"todo/internal/validation"
)

// taskServiceImpl implements the TaskService interface
type taskServiceImpl struct {
	repo          repository.Repository
	mapper        *domain.TaskMapper
	taskValidator *validation.TaskValidator
	logger        *slog.Logger
}

// NewTaskService creates a new TaskService instance
func NewTaskService(repo repository.Repository, logger *slog.Logger) TaskService {
	if logger == nil {
		logger = slog.Default()
	}
	return &taskServiceImpl{
		repo:          repo,
		mapper:        domain.NewTaskMapper(),
		taskValidator: validation.NewTaskValidator(),
		logger:        logger.With("component", "task_service"),
	}
}

func (t *taskServiceImpl) validateID(id int64) error {
	if err := t.taskValidator.ValidateTaskID(id); err != nil {
		return errors.NewValidationError("invalid task ID", err)
	}
	return nil
}

func (t *taskServiceImpl) fail(op string, err error, attrs ...any) error {
	attrs = append(attrs, "op", op, "error", err)
	if errors.ShouldLogError(err) {
		t.logger.Error("task operation failed", attrs...)
	} else {
		t.logger.Warn("task operation rejected", attrs...)
	}
	return err
}

// CreateTask creates a new task with the given text
func (t *taskServiceImpl) CreateTask(ctx context.Context, text string) (*domain.Task, error) {
	task := domain.NewTask(text)
	if err := t.taskValidator.ValidateTaskForCreation(task); err != nil {
		return nil, t.fail("create", errors.NewValidationError("invalid task", err))
	}

	row := t.mapper.ToRow(task)
	if err := t.repo.CreateTask(ctx, &row); err != nil {
		return nil, t.fail("create", err)
	}

	if err := task.AssignID(row.ID); err != nil {
		return nil, t.fail("create", errors.NewDatabaseError("assign task id", err), "task_id", row.ID)
	}

	t.logger.Debug("task created", "task_id", row.ID)
	return &task, nil
}

// GetTask retrieves a task by its ID
func (t *taskServiceImpl) GetTask(ctx context.Context, id int64) (*domain.Task, error) {
	if err := t.validateID(id); err != nil {
		return nil, t.fail("get", err, "task_id", id)
	}

	row, err := t.repo.GetTask(ctx, id)
	if err != nil {
		return nil, t.fail("get", err, "task_id", id)
	}

	task := t.mapper.FromRow(*row)
	return &task, nil
}

// ListTasks returns every task ordered by ID
func (t *taskServiceImpl) ListTasks(ctx context.Context) ([]*domain.Task, error) {
	rows, err := t.repo.ListTasks(ctx)
	if err != nil {
		return nil, t.fail("list", err)
	}

	t.logger.Debug("tasks listed", "count", len(rows))
	return t.mapper.FromRowSlice(rows), nil
}

// UpdateTask replaces a task's text. The updated task goes through the same
// validation gate as a new one.
func (t *taskServiceImpl) UpdateTask(ctx context.Context, id int64, text string) (*domain.Task, error) {
	if err := t.taskValidator.ValidateTaskForUpdate(id, text); err != nil {
		return nil, t.fail("update", errors.NewValidationError("invalid task", err), "task_id", id)
	}

	task := domain.NewTask(text)
	if err := task.AssignID(id); err != nil {
		return nil, t.fail("update", errors.NewInvalidInputError("id", id, err.Error()), "task_id", id)
	}
	if err := t.taskValidator.Validate(task); err != nil {
		return nil, t.fail("update", errors.NewValidationError("invalid task", err), "task_id", id)
	}

	row := t.mapper.ToRow(task)
	if err := t.repo.UpdateTask(ctx, &row); err != nil {
		return nil, t.fail("update", err, "task_id", id)
	}

	t.logger.Debug("task updated", "task_id", id)
	return &task, nil
}

// DeleteTask deletes a task by its ID
func (t *taskServiceImpl) DeleteTask(ctx context.Context, id int64) error {
	if err := t.validateID(id); err != nil {
		return t.fail("delete", err, "task_id", id)
	}

	if err := t.repo.DeleteTask(ctx, id); err != nil {
		return t.fail("delete", err, "task_id", id)
	}

	t.logger.Debug("task deleted", "task_id", id)
	return nil
}

// Ping checks the underlying store
func (t *taskServiceImpl) Ping(ctx context.Context) error {
	return t.repo.Ping(ctx)
}
