package cli

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"todo/internal/config"
	"todo/internal/logging"
	"todo/internal/services"
)

// RootCommand represents the base command when called without any subcommands
type RootCommand struct {
	cmd    *cobra.Command
	loader *config.Loader
	app    *App
	out    io.Writer
	errOut io.Writer
}

// NewRootCommand creates the root cobra command with global flags. The
// configuration, logger and store are built on first use so that flag
// overrides apply to them.
func NewRootCommand(loader *config.Loader, out, errOut io.Writer) *RootCommand {
	if loader == nil {
		loader = config.NewLoader()
	}
	if out == nil {
		out = os.Stdout
	}
	if errOut == nil {
		errOut = os.Stderr
	}

	root := &RootCommand{
		loader: loader,
		out:    out,
		errOut: errOut,
	}
	root.build()
	return root
}

// NewRootCommandWithApp creates a root command around an already wired App.
// Configuration flags are accepted but have no effect.
func NewRootCommandWithApp(app *App) *RootCommand {
	root := &RootCommand{
		app:    app,
		out:    app.out,
		errOut: os.Stderr,
	}
	root.build()
	return root
}

func (r *RootCommand) build() {
	r.cmd = &cobra.Command{
		Use:   "todo",
		Short: "A small task list with a CLI and an HTTP API",
		Long: `todo keeps a list of tasks. Each task has a non-empty text and an ID
assigned by the store when it is first saved.

EXAMPLES:
  todo add "Buy milk"                      # Create a task
  todo list                                # List tasks as a table
  todo list --format json                  # List tasks as JSON
  todo get 1                               # Show a task
  todo update 1 "Buy oat milk"             # Replace a task's text
  todo delete 1                            # Delete a task
  todo serve --addr :8080                  # Serve the /tasks HTTP API

CONFIGURATION:
  Configuration follows this priority order: command-line flags > environment variables > .env file > defaults

  Database Configuration:
    TODO_DB_DRIVER                         sqlite, postgres or memory (default: sqlite)
    TODO_DB_DIR                            SQLite directory (default: ~/.todo)
    TODO_DB_FILENAME                       SQLite filename (default: todo.db)
    TODO_DB_URL                            PostgreSQL connection URL
    TODO_DB_QUERY_TIMEOUT                  Query timeout (default: 10s)
    TODO_DB_WRITE_TIMEOUT                  Write timeout (default: 5s)

  Cache Configuration:
    TODO_CACHE_ENABLED                     Cache tasks in Redis (default: false)
    TODO_REDIS_URL                         Redis URL (default: redis://localhost:6379/0)
    TODO_CACHE_TTL                         Cache entry TTL (default: 5m)

  Server Configuration:
    TODO_SERVER_ADDR                       Listen address (default: :8080)
    TODO_SERVER_SHUTDOWN_TIMEOUT           Graceful shutdown timeout (default: 30s)
    TODO_SERVER_CORS_ORIGINS               Allowed CORS origins (default: *)

  Logging Configuration:
    TODO_LOG_LEVEL                         debug, info, warn or error (default: info)
    TODO_LOG_FORMAT                        text or json (default: text)

  Application Configuration:
    TODO_APP_TIMEOUT                       Command timeout (default: 60s)
    TODO_APP_VERBOSE                       Enable verbose output (default: false)

GETTING HELP:
  todo [command] --help                    # Get help for any specific command
  todo completion bash                     # Generate bash completion script`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	r.cmd.SetOut(r.out)
	r.cmd.SetErr(r.errOut)

	r.addGlobalFlags()
	r.addSubcommands()
}

// Execute runs the root command and releases the store afterwards.
func (r *RootCommand) Execute() error {
	return r.ExecuteContext(context.Background())
}

// ExecuteContext is Execute with a parent context for every command.
func (r *RootCommand) ExecuteContext(ctx context.Context) error {
	defer r.close()
	return r.cmd.ExecuteContext(ctx)
}

// SetArgs overrides the arguments cobra would read from os.Args.
func (r *RootCommand) SetArgs(args []string) {
	r.cmd.SetArgs(args)
}

func (r *RootCommand) close() {
	if r.app != nil {
		r.app.Close()
	}
}

// addGlobalFlags adds global configuration flags
func (r *RootCommand) addGlobalFlags() {
	flags := r.cmd.PersistentFlags()

	// Database configuration
	flags.String("db-driver", "", "Storage driver: sqlite, postgres or memory (overrides TODO_DB_DRIVER)")
	flags.String("db-dir", "", "Database directory (overrides TODO_DB_DIR)")
	flags.String("db-filename", "", "Database filename (overrides TODO_DB_FILENAME)")
	flags.String("db-url", "", "PostgreSQL connection URL (overrides TODO_DB_URL)")
	flags.Duration("db-query-timeout", 0, "Database query timeout (overrides TODO_DB_QUERY_TIMEOUT)")
	flags.Duration("db-write-timeout", 0, "Database write timeout (overrides TODO_DB_WRITE_TIMEOUT)")

	// Cache configuration
	flags.Bool("cache", false, "Cache tasks in Redis (overrides TODO_CACHE_ENABLED)")
	flags.String("redis-url", "", "Redis URL (overrides TODO_REDIS_URL)")

	// Server configuration
	flags.String("addr", "", "HTTP listen address (overrides TODO_SERVER_ADDR)")

	// Logging configuration
	flags.String("log-level", "", "Log level (overrides TODO_LOG_LEVEL)")
	flags.String("log-format", "", "Log format: text or json (overrides TODO_LOG_FORMAT)")

	// Application configuration
	flags.Duration("app-timeout", 0, "Application timeout (overrides TODO_APP_TIMEOUT)")
	flags.Bool("verbose", false, "Enable verbose output (overrides TODO_APP_VERBOSE)")
}

// addSubcommands adds all CLI subcommands to the root command
func (r *RootCommand) addSubcommands() {
	addCmd := &cobra.Command{
		Use:   "add [task text]",
		Short: "Create a new task",
		Long:  "Create a new task. All arguments are joined with spaces to form the task text.",
		Args:  cobra.MinimumNArgs(1),
		RunE:  r.run("add", true),
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List all tasks",
		Long: `List all tasks ordered by ID.

Examples:
  todo list                  # Table output
  todo list --format json    # JSON array of {"id","text"}`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			format, _ := cmd.Flags().GetString("format")
			return r.run("list", true)(cmd, []string{"format=" + format})
		},
	}
	listCmd.Flags().String("format", FormatTable, "Output format: table or json")

	getCmd := &cobra.Command{
		Use:   "get [id]",
		Short: "Show a task",
		Args:  cobra.ExactArgs(1),
		RunE:  r.run("get", true),
	}

	updateCmd := &cobra.Command{
		Use:   "update [id] [task text]",
		Short: "Replace the text of a task",
		Args:  cobra.MinimumNArgs(2),
		RunE:  r.run("update", true),
	}

	deleteCmd := &cobra.Command{
		Use:   "delete [id]",
		Short: "Delete a task",
		Long:  "Delete a task by ID. This operation cannot be undone.",
		Args:  cobra.ExactArgs(1),
		RunE:  r.run("delete", true),
	}

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the /tasks HTTP API",
		Long: `Serve the tasks over HTTP until SIGINT or SIGTERM is received.

Routes:
  GET    /health
  GET    /tasks
  POST   /tasks
  GET    /tasks/:id
  PUT    /tasks/:id
  DELETE /tasks/:id`,
		Args: cobra.NoArgs,
		// The server runs until a signal arrives, so no command timeout.
		RunE: r.run("serve", false),
	}

	r.cmd.AddCommand(
		addCmd,
		listCmd,
		getCmd,
		updateCmd,
		deleteCmd,
		serveCmd,
	)
}

// run returns a RunE that wires the app on first use and dispatches to the
// named command through the registry.
func (r *RootCommand) run(name string, timeout bool) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		if err := r.ensureApp(cmd.Context()); err != nil {
			return err
		}

		ctx := cmd.Context()
		if timeout {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, r.getAppTimeout())
			defer cancel()
		}
		return r.app.registry.Execute(ctx, name, args)
	}
}

// ensureApp loads configuration, then builds the logger, store and service.
func (r *RootCommand) ensureApp(ctx context.Context) error {
	if r.app != nil {
		return nil
	}

	cfg, err := r.loader.LoadWithOverrides(r.getConfigOverrides())
	if err != nil {
		return err
	}

	level := cfg.Logging.Level
	if cfg.Application.Verbose {
		level = "debug"
	}
	logger, err := logging.New(r.errOut, level, cfg.Logging.Format)
	if err != nil {
		return err
	}

	repo, err := config.CreateRepository(ctx, cfg, logger)
	if err != nil {
		return err
	}
	logger.Debug("configuration loaded",
		"environment", cfg.Environment,
		"driver", cfg.Database.Driver,
		"cache", cfg.Cache.Enabled,
	)

	service := services.NewTaskService(repo, logger)
	r.app = NewApp(service, cfg, logger, r.out).WithCloser(repo.Close)
	return nil
}

// getAppTimeout returns the configured application timeout
func (r *RootCommand) getAppTimeout() time.Duration {
	if r.app != nil && r.app.config.Application.Timeout > 0 {
		return r.app.config.Application.Timeout
	}
	return 60 * time.Second
}

// getConfigOverrides collects the flags the user actually set.
func (r *RootCommand) getConfigOverrides() *config.ConfigOverrides {
	flags := r.cmd.PersistentFlags()
	overrides := &config.ConfigOverrides{}

	if flags.Changed("db-driver") {
		v, _ := flags.GetString("db-driver")
		overrides.DBDriver = &v
	}
	if flags.Changed("db-dir") {
		v, _ := flags.GetString("db-dir")
		overrides.DBDir = &v
	}
	if flags.Changed("db-filename") {
		v, _ := flags.GetString("db-filename")
		overrides.DBFilename = &v
	}
	if flags.Changed("db-url") {
		v, _ := flags.GetString("db-url")
		overrides.DBURL = &v
	}
	if flags.Changed("db-query-timeout") {
		v, _ := flags.GetDuration("db-query-timeout")
		overrides.DBQueryTimeout = &v
	}
	if flags.Changed("db-write-timeout") {
		v, _ := flags.GetDuration("db-write-timeout")
		overrides.DBWriteTimeout = &v
	}
	if flags.Changed("cache") {
		v, _ := flags.GetBool("cache")
		overrides.CacheEnabled = &v
	}
	if flags.Changed("redis-url") {
		v, _ := flags.GetString("redis-url")
		overrides.RedisURL = &v
	}
	if flags.Changed("addr") {
		v, _ := flags.GetString("addr")
		overrides.ServerAddr = &v
	}
	if flags.Changed("log-level") {
		v, _ := flags.GetString("log-level")
		overrides.LogLevel = &v
	}
	if flags.Changed("log-format") {
		v, _ := flags.GetString("log-format")
		overrides.LogFormat = &v
	}
	if flags.Changed("app-timeout") {
		v, _ := flags.GetDuration("app-timeout")
		overrides.Timeout = &v
	}
	if flags.Changed("verbose") {
		v, _ := flags.GetBool("verbose")
		overrides.Verbose = &v
	}

	return overrides
}
