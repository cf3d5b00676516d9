package domain

import (
	"todo/internal/repository"
)

// TaskMapper handles conversion between domain tasks and storage rows.
type TaskMapper struct{}

// NewTaskMapper creates a new TaskMapper instance.
func NewTaskMapper() *TaskMapper {
	return &TaskMapper{}
}

// ToRow converts a domain Task to a storage row. An unassigned ID maps to 0.
func (m *TaskMapper) ToRow(domainTask Task) repository.Task {
	id, _ := domainTask.IDValue()
	return repository.Task{
		ID:   id,
		Text: domainTask.Text,
	}
}

// FromRow converts a storage row to a domain Task. A non-positive row ID maps
// to an unassigned ID.
func (m *TaskMapper) FromRow(row repository.Task) Task {
	task := NewTask(row.Text)
	if row.ID > 0 {
		task.id, task.hasID = row.ID, true
	}
	return task
}

// FromRowSlice converts a slice of storage rows to domain Tasks.
func (m *TaskMapper) FromRowSlice(rows []*repository.Task) []*Task {
	domainTasks := make([]*Task, len(rows))
	for i, row := range rows {
		task := m.FromRow(*row)
		domainTasks[i] = &task
	}
	return domainTasks
}
