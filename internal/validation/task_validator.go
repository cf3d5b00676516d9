package validation

import (
	"todo/internal/domain"
)

const (
	fieldText = "text"
	fieldID   = "id"
)

// TaskValidator is the validation gate every task passes before it reaches
// storage, on create and on update alike. All methods are pure.
type TaskValidator struct {
	validator *Validator
}

// NewTaskValidator creates a new task validator
func NewTaskValidator() *TaskValidator {
	return &TaskValidator{
		validator: NewValidator(),
	}
}

// ValidateText fails with an empty-text error when text is empty.
func (tv *TaskValidator) ValidateText(text string) error {
	if !tv.validator.IsNonEmptyString(text) {
		validationError := NewValidationError()
		validationError.AddEmptyTextError(fieldText)
		return validationError
	}
	return nil
}

// Validate validates a domain.Task.
func (tv *TaskValidator) Validate(task domain.Task) error {
	validationError := NewValidationError()

	if !tv.validator.IsNonEmptyString(task.Text) {
		validationError.AddEmptyTextError(fieldText)
	}

	if id, ok := task.IDValue(); ok && !tv.validator.IsValidTaskID(id) {
		validationError.AddInvalidValueError(fieldID, id, "must be a positive integer")
	}

	if validationError.HasErrors() {
		return validationError
	}
	return nil
}

// ValidateTaskForCreation validates a task that is about to be persisted for
// the first time. Such a task must not carry an ID yet.
func (tv *TaskValidator) ValidateTaskForCreation(task domain.Task) error {
	validationError := NewValidationError()

	if err := tv.Validate(task); err != nil {
		if ve, ok := err.(*ValidationError); ok {
			validationError.Errors = append(validationError.Errors, ve.Errors...)
		}
	}

	if id, ok := task.IDValue(); ok {
		validationError.AddAlreadyExistsError(fieldID, id)
	}

	if validationError.HasErrors() {
		return validationError
	}
	return nil
}

// ValidateTaskForUpdate validates an update of the task with the given ID.
func (tv *TaskValidator) ValidateTaskForUpdate(id int64, text string) error {
	validationError := NewValidationError()

	if !tv.validator.IsValidTaskID(id) {
		validationError.AddInvalidValueError(fieldID, id, "must be a positive integer")
	}

	if !tv.validator.IsNonEmptyString(text) {
		validationError.AddEmptyTextError(fieldText)
	}

	if validationError.HasErrors() {
		return validationError
	}
	return nil
}

// ValidateTaskID validates a task ID
func (tv *TaskValidator) ValidateTaskID(id int64) error {
	if !tv.validator.IsValidTaskID(id) {
		validationError := NewValidationError()
		validationError.AddInvalidValueError(fieldID, id, "must be a positive integer")
		return validationError
	}
	return nil
}
