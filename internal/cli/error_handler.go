package cli

import (
	stderrors "errors"
	"fmt"

	"todo/internal/errors"
	"todo/internal/validation"
)

// ErrorHandler turns service errors into messages fit for the terminal.
type ErrorHandler struct{}

// NewErrorHandler creates a new error handler
func NewErrorHandler() *ErrorHandler {
	return &ErrorHandler{}
}

// Handle prefixes the user-facing message with the failed operation.
func (eh *ErrorHandler) Handle(operation string, err error) error {
	if err == nil {
		return fmt.Errorf("failed to %s: unknown error", operation)
	}
	if msg, ok := eh.userMessage(err); ok {
		return fmt.Errorf("failed to %s: %s", operation, msg)
	}
	return fmt.Errorf("failed to %s: %w", operation, err)
}

// HandleSimple provides user-friendly error messages without operation context
func (eh *ErrorHandler) HandleSimple(err error) error {
	if msg, ok := eh.userMessage(err); ok {
		return stderrors.New(msg)
	}
	return err
}

// userMessage prefers the field messages of a validation error, even when it
// is wrapped in an AppError.
func (eh *ErrorHandler) userMessage(err error) (string, bool) {
	var validationErr *validation.ValidationError
	if stderrors.As(err, &validationErr) {
		return validationErr.GetUserFriendlyMessage(), true
	}
	if errors.IsAppError(err) {
		return errors.GetUserMessage(err), true
	}
	return "", false
}
