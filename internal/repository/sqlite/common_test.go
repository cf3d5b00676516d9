package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"testing"

	apperrors "todo/internal/errors"

	"github.com/stretchr/testify/assert"
)

// MockResult implements sql.Result for testing
type MockResult struct {
	lastInsertID int64
	rowsAffected int64
	insertErr    error
	rowsErr      error
}

func (mr *MockResult) LastInsertId() (int64, error) {
	return mr.lastInsertID, mr.insertErr
}

func (mr *MockResult) RowsAffected() (int64, error) {
	return mr.rowsAffected, mr.rowsErr
}

func TestHandleDatabaseError(t *testing.T) {
	originalErr := errors.New("database connection failed")
	result := HandleDatabaseError("test operation", originalErr)

	assert.NotNil(t, result)
	assert.Contains(t, result.Error(), "test operation")
	assert.Contains(t, result.Error(), "database connection failed")
	assert.True(t, apperrors.IsErrorType(result, apperrors.ErrorTypeDatabase))
}

func TestHandleDatabaseError_Deadline(t *testing.T) {
	result := HandleDatabaseError("query tasks", fmt.Errorf("driver: %w", context.DeadlineExceeded))
	assert.True(t, apperrors.IsErrorType(result, apperrors.ErrorTypeTimeout))
}

func TestHandleNoRowsError(t *testing.T) {
	tests := []struct {
		name           string
		inputErr       error
		expectNotFound bool
	}{
		{"ErrNoRows should return NotFoundError", sql.ErrNoRows, true},
		{"Wrapped ErrNoRows should return NotFoundError", fmt.Errorf("scan: %w", sql.ErrNoRows), true},
		{"Other error should return as-is", errors.New("some other error"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := HandleNoRowsError(tt.inputErr, "task", "123")

			if tt.expectNotFound {
				assert.True(t, apperrors.IsErrorType(result, apperrors.ErrorTypeNotFound))
				assert.Contains(t, result.Error(), "task")
				assert.Contains(t, result.Error(), "123")
			} else {
				assert.Equal(t, tt.inputErr, result)
			}
		})
	}
}

func TestValidateRowsAffected(t *testing.T) {
	tests := []struct {
		name           string
		result         sql.Result
		expectError    bool
		expectNotFound bool
	}{
		{"Successful update", &MockResult{rowsAffected: 1}, false, false},
		{"No rows affected", &MockResult{rowsAffected: 0}, true, true},
		{"Error getting rows affected", &MockResult{rowsErr: errors.New("database error")}, true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ValidateRowsAffected(tt.result, "task", "123")

			if !tt.expectError {
				assert.NoError(t, result)
				return
			}
			assert.Error(t, result)
			if tt.expectNotFound {
				assert.Contains(t, result.Error(), "not found")
			} else {
				assert.Contains(t, result.Error(), "database error")
			}
		})
	}
}

func TestQueryHelpers(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	id, err := ExecuteWithLastInsertID(ctx, repo.db, "INSERT INTO tasks (text) VALUES (?)", "Buy milk")
	assert.NoError(t, err)
	assert.Equal(t, int64(1), id)

	task, err := QuerySingle(ctx, repo.db, "SELECT id, text FROM tasks WHERE id = ?", ScanTask, "task", "1", id)
	assert.NoError(t, err)
	assert.Equal(t, "Buy milk", task.Text)

	_, err = QuerySingle(ctx, repo.db, "SELECT id, text FROM tasks WHERE id = ?", ScanTask, "task", "2", 2)
	assert.True(t, apperrors.IsErrorType(err, apperrors.ErrorTypeNotFound))

	tasks, err := QueryMultiple(ctx, repo.db, "SELECT id, text FROM tasks", ScanTasks, "tasks")
	assert.NoError(t, err)
	assert.Len(t, tasks, 1)

	_, err = QueryMultiple(ctx, repo.db, "SELECT nope FROM missing", ScanTasks, "tasks")
	assert.True(t, apperrors.IsErrorType(err, apperrors.ErrorTypeDatabase))

	err = ExecuteWithRowsAffected(ctx, repo.db, "DELETE FROM tasks WHERE id = ?", "task", "2", 2)
	assert.True(t, apperrors.IsErrorType(err, apperrors.ErrorTypeNotFound))
}
