package memory

import (
	"context"
	"sync"
	"testing"

	"todo/internal/errors"
	"todo/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateTask_AssignsSequentialIDs(t *testing.T) {
	repo := New()
	ctx := context.Background()

	first := &repository.Task{Text: "Write report"}
	require.NoError(t, repo.CreateTask(ctx, first))
	assert.Equal(t, int64(1), first.ID)

	second := &repository.Task{Text: "Buy milk"}
	require.NoError(t, repo.CreateTask(ctx, second))
	assert.Equal(t, int64(2), second.ID)
}

func TestCreateTask_RejectsAssignedID(t *testing.T) {
	repo := New()

	err := repo.CreateTask(context.Background(), &repository.Task{ID: 3, Text: "x"})
	assert.True(t, errors.IsErrorType(err, errors.ErrorTypeConflict))
}

func TestCreateTask_ConcurrentIDsAreDistinct(t *testing.T) {
	repo := New()
	ctx := context.Background()

	const n = 100
	ids := make([]int64, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			task := &repository.Task{Text: "concurrent"}
			if err := repo.CreateTask(ctx, task); err != nil {
				t.Errorf("CreateTask() error = %v", err)
				return
			}
			ids[i] = task.ID
		}(i)
	}
	wg.Wait()

	seen := make(map[int64]bool, n)
	for _, id := range ids {
		assert.Greater(t, id, int64(0))
		assert.False(t, seen[id], "id %d assigned twice", id)
		seen[id] = true
	}

	tasks, err := repo.ListTasks(ctx)
	require.NoError(t, err)
	assert.Len(t, tasks, n)
}

func TestIDsNotReusedAfterDelete(t *testing.T) {
	repo := New()
	ctx := context.Background()

	task := &repository.Task{Text: "gone"}
	require.NoError(t, repo.CreateTask(ctx, task))
	require.NoError(t, repo.DeleteTask(ctx, task.ID))

	next := &repository.Task{Text: "new"}
	require.NoError(t, repo.CreateTask(ctx, next))
	assert.Equal(t, int64(2), next.ID)
}

func TestGetTask_ReturnsCopy(t *testing.T) {
	repo := New()
	ctx := context.Background()

	task := &repository.Task{Text: "Buy milk"}
	require.NoError(t, repo.CreateTask(ctx, task))

	got, err := repo.GetTask(ctx, task.ID)
	require.NoError(t, err)
	got.Text = "mutated"

	again, err := repo.GetTask(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, "Buy milk", again.Text)

	_, err = repo.GetTask(ctx, 42)
	assert.True(t, errors.IsErrorType(err, errors.ErrorTypeNotFound))
}

func TestListTasks_OrderedByID(t *testing.T) {
	repo := New()
	ctx := context.Background()

	tasks, err := repo.ListTasks(ctx)
	require.NoError(t, err)
	assert.NotNil(t, tasks)
	assert.Empty(t, tasks)

	for _, text := range []string{"c", "a", "b"} {
		require.NoError(t, repo.CreateTask(ctx, &repository.Task{Text: text}))
	}

	tasks, err = repo.ListTasks(ctx)
	require.NoError(t, err)
	require.Len(t, tasks, 3)
	for i, want := range []string{"c", "a", "b"} {
		assert.Equal(t, int64(i+1), tasks[i].ID)
		assert.Equal(t, want, tasks[i].Text)
	}
}

func TestUpdateAndDelete(t *testing.T) {
	repo := New()
	ctx := context.Background()

	task := &repository.Task{Text: "draft"}
	require.NoError(t, repo.CreateTask(ctx, task))

	require.NoError(t, repo.UpdateTask(ctx, &repository.Task{ID: task.ID, Text: "final"}))
	got, err := repo.GetTask(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, "final", got.Text)

	err = repo.UpdateTask(ctx, &repository.Task{ID: 99, Text: "missing"})
	assert.True(t, errors.IsErrorType(err, errors.ErrorTypeNotFound))

	require.NoError(t, repo.DeleteTask(ctx, task.ID))
	err = repo.DeleteTask(ctx, task.ID)
	assert.True(t, errors.IsErrorType(err, errors.ErrorTypeNotFound))
}

func TestCancelledContext(t *testing.T) {
	repo := New()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := repo.CreateTask(ctx, &repository.Task{Text: "x"})
	assert.True(t, errors.IsErrorType(err, errors.ErrorTypeDatabase))
}

func TestClose(t *testing.T) {
	repo := New()
	ctx := context.Background()

	require.NoError(t, repo.Ping(ctx))
	require.NoError(t, repo.Close())

	err := repo.Ping(ctx)
	assert.True(t, errors.IsErrorType(err, errors.ErrorTypeUnavailable))
}
