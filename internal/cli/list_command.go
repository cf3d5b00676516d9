package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"text/tabwriter"

	"todo/internal/domain"
	"todo/internal/errors"
	"todo/internal/services"
)

const (
	FormatTable = "table"
	FormatJSON  = "json"
)

// ListCommand handles the list command
type ListCommand struct {
	app          *App
	service      services.TaskService
	errorHandler *ErrorHandler
}

// NewListCommand creates a new list command handler
func NewListCommand(app *App) *ListCommand {
	return &ListCommand{
		app:          app,
		service:      app.service,
		errorHandler: NewErrorHandler(),
	}
}

// Execute accepts an optional "format=table" or "format=json" argument.
func (c *ListCommand) Execute(ctx context.Context, args []string) error {
	format := FormatTable
	if len(args) > 1 {
		return errors.NewInvalidInputError("command", "list", "usage: todo list [format=table|json]")
	}
	if len(args) == 1 {
		value, ok := strings.CutPrefix(args[0], "format=")
		if !ok {
			return errors.NewInvalidInputError("command", "list", "usage: todo list [format=table|json]")
		}
		format = value
	}
	if format != FormatTable && format != FormatJSON {
		return errors.NewInvalidInputError("format", format, "unsupported format, use table or json")
	}

	tasks, err := c.service.ListTasks(ctx)
	if err != nil {
		return c.errorHandler.Handle("list tasks", err)
	}

	if format == FormatJSON {
		return c.printJSON(tasks)
	}
	return c.printTable(tasks)
}

// listItem is the JSON shape of a task in list output.
type listItem struct {
	ID   int64  `json:"id"`
	Text string `json:"text"`
}

func (c *ListCommand) printJSON(tasks []*domain.Task) error {
	items := make([]listItem, 0, len(tasks))
	for _, task := range tasks {
		id, _ := task.IDValue()
		items = append(items, listItem{ID: id, Text: task.Text})
	}

	enc := json.NewEncoder(c.app.out)
	enc.SetIndent("", "  ")
	return enc.Encode(items)
}

func (c *ListCommand) printTable(tasks []*domain.Task) error {
	if len(tasks) == 0 {
		fmt.Fprintln(c.app.out, "No tasks found")
		return nil
	}

	w := tabwriter.NewWriter(c.app.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTEXT")
	for _, task := range tasks {
		id, _ := task.IDValue()
		fmt.Fprintf(w, "%d\t%s\n", id, task.Text)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if c.app.config.Application.Verbose {
		fmt.Fprintf(c.app.out, "%d task(s)\n", len(tasks))
	}
	return nil
}
