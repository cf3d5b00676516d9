package cli

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strconv"
	"sync"

	"todo/internal/config"
	"todo/internal/errors"
	"todo/internal/services"
)

// App wires the task service to the CLI commands.
type App struct {
	service  services.TaskService
	config   *config.Config
	logger   *slog.Logger
	out      io.Writer
	registry *CommandRegistry

	closeOnce sync.Once
	closer    func() error
	closeErr  error
}

// NewApp creates a new CLI application instance with dependency injection.
// A nil config falls back to the defaults and a nil writer to stdout.
func NewApp(service services.TaskService, cfg *config.Config, logger *slog.Logger, out io.Writer) *App {
	if cfg == nil {
		cfg = config.NewConfig()
	}
	if logger == nil {
		logger = slog.Default()
	}
	if out == nil {
		out = os.Stdout
	}

	app := &App{
		service: service,
		config:  cfg,
		logger:  logger,
		out:     out,
	}
	app.registry = NewCommandRegistry(app)
	return app
}

// WithCloser registers the function that releases the store behind the
// service. Close calls it at most once.
func (a *App) WithCloser(closer func() error) *App {
	a.closer = closer
	return a
}

// Close releases the store.
func (a *App) Close() error {
	a.closeOnce.Do(func() {
		if a.closer != nil {
			a.closeErr = a.closer()
		}
	})
	return a.closeErr
}

// Run executes the named command with the given arguments
func (a *App) Run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errors.NewInvalidInputError("command", "", a.registry.GetUsage())
	}
	return a.registry.Execute(ctx, args[0], args[1:])
}

// parseTaskID parses a positive task ID from a command argument.
func parseTaskID(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || id <= 0 {
		return 0, errors.NewInvalidInputError("id", arg, "must be a positive integer")
	}
	return id, nil
}
