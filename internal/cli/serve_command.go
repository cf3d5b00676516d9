package cli

import (
	"context"
	"fmt"

	gfshutdown "github.com/gelmium/graceful-shutdown"

	"todo/internal/api"
	"todo/internal/errors"
)

// ServeCommand runs the HTTP API until SIGINT or SIGTERM.
type ServeCommand struct {
	app *App
}

// NewServeCommand creates a new serve command handler
func NewServeCommand(app *App) *ServeCommand {
	return &ServeCommand{app: app}
}

// Execute starts the server and blocks until it has shut down. The store is
// closed as part of the shutdown.
func (c *ServeCommand) Execute(ctx context.Context, args []string) error {
	if len(args) > 0 {
		return errors.NewInvalidInputError("command", "serve", "usage: todo serve")
	}

	cfg := c.app.config
	server := api.New(c.app.service, c.app.logger, api.Options{
		QueryTimeout: cfg.Database.QueryTimeout,
		CORSOrigins:  cfg.CORSOriginList(),
	})

	listenErr := make(chan error, 1)
	go func() {
		listenErr <- server.Listen(cfg.Server.Addr)
	}()

	wait := gfshutdown.GracefulShutdown(ctx, cfg.Server.ShutdownTimeout, map[string]gfshutdown.Operation{
		"todo-api": func(ctx context.Context) error {
			// Operations run concurrently, so the store is closed only after
			// in-flight requests have drained.
			if err := server.Shutdown(ctx); err != nil {
				c.app.Close()
				return err
			}
			return c.app.Close()
		},
	})

	select {
	case err := <-listenErr:
		if err != nil {
			c.app.Close()
			return fmt.Errorf("failed to serve on %s: %w", cfg.Server.Addr, err)
		}
		// Listen returns nil once shutdown has begun.
		return exitStatus(<-wait)
	case code := <-wait:
		return exitStatus(code)
	}
}

func exitStatus(code int) error {
	if code != 0 {
		return fmt.Errorf("shutdown finished with exit code %d", code)
	}
	return nil
}
