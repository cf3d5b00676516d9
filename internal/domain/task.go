package domain

import "errors"

var (
	// ErrIDAlreadyAssigned is returned when AssignID is called on a task that
	// already has an identifier.
	ErrIDAlreadyAssigned = errors.New("task id already assigned")

	// ErrInvalidID is returned when AssignID receives a non-positive identifier.
	ErrInvalidID = errors.New("task id must be positive")
)

// Task represents a todo item in the domain model.
// The identifier is unset until the task has been persisted and is only
// reachable through AssignID and IDValue.
type Task struct {
	id    int64
	hasID bool
	Text  string
}

// NewTask creates a new, unpersisted Task with the given text.
func NewTask(text string) Task {
	return Task{
		Text: text,
	}
}

// HasID reports whether the task has been assigned an identifier.
func (t Task) HasID() bool {
	return t.hasID
}

// IDValue returns the identifier and whether it is set.
func (t Task) IDValue() (int64, bool) {
	return t.id, t.hasID
}

// AssignID sets the identifier. It succeeds exactly once per task.
func (t *Task) AssignID(id int64) error {
	if t.hasID {
		return ErrIDAlreadyAssigned
	}
	if id <= 0 {
		return ErrInvalidID
	}
	t.id, t.hasID = id, true
	return nil
}

// SetText replaces the task text. The validation gate, not the setter, enforces
// the non-empty rule.
func (t *Task) SetText(text string) {
	t.Text = text
}

// String returns the task text for display purposes.
func (t Task) String() string {
	return t.Text
}
