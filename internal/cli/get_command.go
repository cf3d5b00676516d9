package cli

import (
	"context"
	"fmt"

	"todo/internal/errors"
	"todo/internal/services"
)

// GetCommand prints a single task
type GetCommand struct {
	app          *App
	service      services.TaskService
	errorHandler *ErrorHandler
}

// NewGetCommand creates a new get command handler
func NewGetCommand(app *App) *GetCommand {
	return &GetCommand{
		app:          app,
		service:      app.service,
		errorHandler: NewErrorHandler(),
	}
}

// Execute runs the get command
func (c *GetCommand) Execute(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errors.NewInvalidInputError("command", "get", "usage: todo get <id>")
	}
	id, err := parseTaskID(args[0])
	if err != nil {
		return c.errorHandler.HandleSimple(err)
	}

	task, err := c.service.GetTask(ctx, id)
	if err != nil {
		return c.errorHandler.Handle("get task", err)
	}

	fmt.Fprintf(c.app.out, "%d: %s\n", id, task.Text)
	return nil
}
