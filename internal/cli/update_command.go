package cli

import (
	"context"
	"fmt"
	"strings"

	"todo/internal/errors"
	"todo/internal/services"
)

// UpdateCommand replaces the text of an existing task
type UpdateCommand struct {
	app          *App
	service      services.TaskService
	errorHandler *ErrorHandler
}

// NewUpdateCommand creates a new update command handler
func NewUpdateCommand(app *App) *UpdateCommand {
	return &UpdateCommand{
		app:          app,
		service:      app.service,
		errorHandler: NewErrorHandler(),
	}
}

// Execute runs the update command
func (c *UpdateCommand) Execute(ctx context.Context, args []string) error {
	if len(args) < 2 {
		return errors.NewInvalidInputError("command", "update", "usage: todo update <id> \"new text\"")
	}
	id, err := parseTaskID(args[0])
	if err != nil {
		return c.errorHandler.HandleSimple(err)
	}

	task, err := c.service.UpdateTask(ctx, id, strings.Join(args[1:], " "))
	if err != nil {
		return c.errorHandler.Handle("update task", err)
	}

	fmt.Fprintf(c.app.out, "Updated task %d: %s\n", id, task.Text)
	return nil
}
