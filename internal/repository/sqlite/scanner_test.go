package sqlite

import (
	"errors"
	"testing"

	"todo/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockScanner struct {
	values []interface{}
	err    error
}

func (m *mockScanner) Scan(dest ...interface{}) error {
	if m.err != nil {
		return m.err
	}
	for i, d := range dest {
		switch v := d.(type) {
		case *int64:
			*v = m.values[i].(int64)
		case *string:
			*v = m.values[i].(string)
		}
	}
	return nil
}

type mockRows struct {
	rows    [][]interface{}
	current int
	scanErr error
	err     error
}

func (m *mockRows) Next() bool {
	if m.current >= len(m.rows) {
		return false
	}
	m.current++
	return true
}

func (m *mockRows) Scan(dest ...interface{}) error {
	if m.scanErr != nil {
		return m.scanErr
	}
	return (&mockScanner{values: m.rows[m.current-1]}).Scan(dest...)
}

func (m *mockRows) Err() error {
	return m.err
}

func TestScanTask(t *testing.T) {
	tests := []struct {
		name     string
		scanner  *mockScanner
		expected *repository.Task
		wantErr  bool
	}{
		{
			name:     "valid task",
			scanner:  &mockScanner{values: []interface{}{int64(1), "Buy milk"}},
			expected: &repository.Task{ID: 1, Text: "Buy milk"},
		},
		{
			name:    "scan error",
			scanner: &mockScanner{err: errors.New("scan failed")},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			task, err := ScanTask(tt.scanner)
			if tt.wantErr {
				assert.Error(t, err)
				assert.Nil(t, task)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, task)
		})
	}
}

func TestScanTasks(t *testing.T) {
	tests := []struct {
		name     string
		rows     *mockRows
		expected []*repository.Task
		wantErr  bool
	}{
		{
			name: "multiple tasks",
			rows: &mockRows{rows: [][]interface{}{
				{int64(1), "Buy milk"},
				{int64(2), "Write report"},
			}},
			expected: []*repository.Task{
				{ID: 1, Text: "Buy milk"},
				{ID: 2, Text: "Write report"},
			},
		},
		{
			name:     "no rows",
			rows:     &mockRows{},
			expected: []*repository.Task{},
		},
		{
			name:    "scan error",
			rows:    &mockRows{rows: [][]interface{}{{int64(1), "x"}}, scanErr: errors.New("scan failed")},
			wantErr: true,
		},
		{
			name:    "rows error",
			rows:    &mockRows{err: errors.New("iteration failed")},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tasks, err := ScanTasks(tt.rows)
			if tt.wantErr {
				assert.Error(t, err)
				assert.Nil(t, tasks)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, tasks)
		})
	}
}
