package cli

import (
	"context"
	"fmt"
	"strings"

	"todo/internal/errors"
	"todo/internal/services"
)

// AddCommand handles the add command
type AddCommand struct {
	app          *App
	service      services.TaskService
	errorHandler *ErrorHandler
}

// NewAddCommand creates a new add command handler
func NewAddCommand(app *App) *AddCommand {
	return &AddCommand{
		app:          app,
		service:      app.service,
		errorHandler: NewErrorHandler(),
	}
}

// Execute joins args into the task text. Text is stored exactly as given.
func (c *AddCommand) Execute(ctx context.Context, args []string) error {
	if len(args) < 1 {
		return errors.NewInvalidInputError("command", "add", "usage: todo add \"your text here\"")
	}
	return c.addTask(ctx, strings.Join(args, " "))
}

func (c *AddCommand) addTask(ctx context.Context, text string) error {
	task, err := c.service.CreateTask(ctx, text)
	if err != nil {
		return c.errorHandler.Handle("add task", err)
	}

	id, _ := task.IDValue()
	fmt.Fprintf(c.app.out, "Created task %d: %s\n", id, task.Text)
	return nil
}
