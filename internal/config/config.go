package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"todo/internal/logging"
)

// Environment names recognised by TODO_ENV.
const (
	EnvProduction  = "production"
	EnvDevelopment = "development"
	EnvTesting     = "testing"
)

// Storage drivers recognised by TODO_DB_DRIVER.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

// Config holds all configuration options for the todo application
type Config struct {
	Environment string `env:"TODO_ENV"`
	Database    DatabaseConfig
	Cache       CacheConfig
	Server      ServerConfig
	Logging     LoggingConfig
	Application ApplicationConfig
}

// DatabaseConfig holds database-related configuration
type DatabaseConfig struct {
	Driver         string        `env:"TODO_DB_DRIVER"`
	Dir            string        `env:"TODO_DB_DIR"`
	Filename       string        `env:"TODO_DB_FILENAME"`
	URL            string        `env:"TODO_DB_URL"`
	QueryTimeout   time.Duration `env:"TODO_DB_QUERY_TIMEOUT"`
	WriteTimeout   time.Duration `env:"TODO_DB_WRITE_TIMEOUT"`
	DirPermissions uint32        `env:"TODO_DB_DIR_PERMISSIONS"`
	MaxConns       int           `env:"TODO_DB_MAX_CONNS"`
}

// CacheConfig holds the optional Redis cache configuration
type CacheConfig struct {
	Enabled         bool          `env:"TODO_CACHE_ENABLED"`
	RedisURL        string        `env:"TODO_REDIS_URL"`
	Prefix          string        `env:"TODO_CACHE_PREFIX"`
	TTL             time.Duration `env:"TODO_CACHE_TTL"`
	BreakerFailures uint32        `env:"TODO_CACHE_BREAKER_FAILURES"`
	BreakerTimeout  time.Duration `env:"TODO_CACHE_BREAKER_TIMEOUT"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Addr            string        `env:"TODO_SERVER_ADDR"`
	ShutdownTimeout time.Duration `env:"TODO_SERVER_SHUTDOWN_TIMEOUT"`
	CORSOrigins     string        `env:"TODO_SERVER_CORS_ORIGINS"`
}

// LoggingConfig holds structured logging configuration
type LoggingConfig struct {
	Level  string `env:"TODO_LOG_LEVEL"`
	Format string `env:"TODO_LOG_FORMAT"`
}

// ApplicationConfig holds application-level configuration
type ApplicationConfig struct {
	Timeout time.Duration `env:"TODO_APP_TIMEOUT"`
	Verbose bool          `env:"TODO_APP_VERBOSE"`
}

// NewConfig creates a new configuration with sensible defaults
func NewConfig() *Config {
	homeDir, _ := os.UserHomeDir()
	defaultDBDir := filepath.Join(homeDir, ".todo")

	return &Config{
		Environment: EnvProduction,
		Database: DatabaseConfig{
			Driver:         DriverSQLite,
			Dir:            defaultDBDir,
			Filename:       "todo.db",
			QueryTimeout:   10 * time.Second,
			WriteTimeout:   5 * time.Second,
			DirPermissions: 0755,
			MaxConns:       10,
		},
		Cache: CacheConfig{
			Enabled:         false,
			RedisURL:        "redis://localhost:6379/0",
			Prefix:          "todo:",
			TTL:             5 * time.Minute,
			BreakerFailures: 5,
			BreakerTimeout:  30 * time.Second,
		},
		Server: ServerConfig{
			Addr:            ":8080",
			ShutdownTimeout: 30 * time.Second,
			CORSOrigins:     "*",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
		Application: ApplicationConfig{
			Timeout: 60 * time.Second,
			Verbose: false,
		},
	}
}

// GetDatabasePath returns the full path to the database file
func (c *Config) GetDatabasePath() string {
	if c.Database.Filename == ":memory:" {
		return c.Database.Filename
	}
	return filepath.Join(c.Database.Dir, c.Database.Filename)
}

// GetQueryTimeout returns the database query timeout
func (c *Config) GetQueryTimeout() time.Duration {
	return c.Database.QueryTimeout
}

// GetWriteTimeout returns the database write timeout
func (c *Config) GetWriteTimeout() time.Duration {
	return c.Database.WriteTimeout
}

// LoadFromEnvironment loads configuration from environment variables.
// Values that fail to parse keep their current setting.
func (c *Config) LoadFromEnvironment() error {
	if env := os.Getenv("TODO_ENV"); env != "" {
		c.Environment = strings.ToLower(env)
	}

	// Database configuration
	if driver := os.Getenv("TODO_DB_DRIVER"); driver != "" {
		c.Database.Driver = strings.ToLower(driver)
	}
	if dir := os.Getenv("TODO_DB_DIR"); dir != "" {
		c.Database.Dir = dir
	}
	if filename := os.Getenv("TODO_DB_FILENAME"); filename != "" {
		c.Database.Filename = filename
	}
	if url := os.Getenv("TODO_DB_URL"); url != "" {
		c.Database.URL = url
	}
	if timeout := os.Getenv("TODO_DB_QUERY_TIMEOUT"); timeout != "" {
		c.Database.QueryTimeout = ParseDurationWithFallback(timeout, c.Database.QueryTimeout)
	}
	if timeout := os.Getenv("TODO_DB_WRITE_TIMEOUT"); timeout != "" {
		c.Database.WriteTimeout = ParseDurationWithFallback(timeout, c.Database.WriteTimeout)
	}
	if perms := os.Getenv("TODO_DB_DIR_PERMISSIONS"); perms != "" {
		c.Database.DirPermissions = ParseUint32WithFallback(perms, 8, c.Database.DirPermissions)
	}
	if maxConns := os.Getenv("TODO_DB_MAX_CONNS"); maxConns != "" {
		c.Database.MaxConns = ParseIntWithFallback(maxConns, c.Database.MaxConns)
	}

	// Cache configuration
	if enabled := os.Getenv("TODO_CACHE_ENABLED"); enabled != "" {
		c.Cache.Enabled = ParseBoolWithFallback(enabled, c.Cache.Enabled)
	}
	if url := os.Getenv("TODO_REDIS_URL"); url != "" {
		c.Cache.RedisURL = url
	}
	if prefix := os.Getenv("TODO_CACHE_PREFIX"); prefix != "" {
		c.Cache.Prefix = prefix
	}
	if ttl := os.Getenv("TODO_CACHE_TTL"); ttl != "" {
		c.Cache.TTL = ParseDurationWithFallback(ttl, c.Cache.TTL)
	}
	if failures := os.Getenv("TODO_CACHE_BREAKER_FAILURES"); failures != "" {
		c.Cache.BreakerFailures = ParseUint32WithFallback(failures, 10, c.Cache.BreakerFailures)
	}
	if timeout := os.Getenv("TODO_CACHE_BREAKER_TIMEOUT"); timeout != "" {
		c.Cache.BreakerTimeout = ParseDurationWithFallback(timeout, c.Cache.BreakerTimeout)
	}

	// Server configuration
	if addr := os.Getenv("TODO_SERVER_ADDR"); addr != "" {
		c.Server.Addr = addr
	}
	if timeout := os.Getenv("TODO_SERVER_SHUTDOWN_TIMEOUT"); timeout != "" {
		c.Server.ShutdownTimeout = ParseDurationWithFallback(timeout, c.Server.ShutdownTimeout)
	}
	if origins := os.Getenv("TODO_SERVER_CORS_ORIGINS"); origins != "" {
		c.Server.CORSOrigins = origins
	}

	// Logging configuration
	if level := os.Getenv("TODO_LOG_LEVEL"); level != "" {
		c.Logging.Level = level
	}
	if format := os.Getenv("TODO_LOG_FORMAT"); format != "" {
		c.Logging.Format = strings.ToLower(format)
	}

	// Application configuration
	if timeout := os.Getenv("TODO_APP_TIMEOUT"); timeout != "" {
		c.Application.Timeout = ParseDurationWithFallback(timeout, c.Application.Timeout)
	}
	if verbose := os.Getenv("TODO_APP_VERBOSE"); verbose != "" {
		c.Application.Verbose = ParseBoolWithFallback(verbose, c.Application.Verbose)
	}

	return nil
}

// ApplyEnvironment adjusts storage defaults for the selected environment.
// Testing runs against the in-memory store and development keeps the
// database next to the working directory.
func (c *Config) ApplyEnvironment() {
	switch c.Environment {
	case EnvTesting:
		c.Database.Driver = DriverMemory
	case EnvDevelopment:
		if os.Getenv("TODO_DB_DIR") == "" {
			c.Database.Dir = "."
		}
	}
}

// Validate validates the configuration and returns any errors
func (c *Config) Validate() error {
	switch c.Environment {
	case EnvProduction, EnvDevelopment, EnvTesting:
	default:
		return &ConfigError{Field: "environment", Message: "environment must be one of production, development, testing"}
	}

	// Validate database configuration
	switch c.Database.Driver {
	case DriverSQLite:
		if c.Database.Dir == "" {
			return &ConfigError{Field: "database.dir", Message: "database directory cannot be empty"}
		}
		if c.Database.Filename == "" {
			return &ConfigError{Field: "database.filename", Message: "database filename cannot be empty"}
		}
	case DriverPostgres:
		if c.Database.URL == "" {
			return &ConfigError{Field: "database.url", Message: "database URL is required for the postgres driver"}
		}
		if c.Database.MaxConns < 1 {
			return &ConfigError{Field: "database.max_conns", Message: "max connections must be at least 1"}
		}
	case DriverMemory:
	default:
		return &ConfigError{Field: "database.driver", Message: "driver must be one of sqlite, postgres, memory"}
	}
	if c.Database.QueryTimeout <= 0 {
		return &ConfigError{Field: "database.query_timeout", Message: "query timeout must be positive"}
	}
	if c.Database.WriteTimeout <= 0 {
		return &ConfigError{Field: "database.write_timeout", Message: "write timeout must be positive"}
	}

	// Validate cache configuration
	if c.Cache.Enabled {
		if c.Cache.RedisURL == "" {
			return &ConfigError{Field: "cache.redis_url", Message: "redis URL is required when the cache is enabled"}
		}
		if c.Cache.TTL <= 0 {
			return &ConfigError{Field: "cache.ttl", Message: "cache TTL must be positive"}
		}
		if c.Cache.BreakerFailures == 0 {
			return &ConfigError{Field: "cache.breaker_failures", Message: "breaker failure threshold must be at least 1"}
		}
	}

	// Validate server configuration
	if c.Server.Addr == "" {
		return &ConfigError{Field: "server.addr", Message: "server address cannot be empty"}
	}
	if c.Server.ShutdownTimeout <= 0 {
		return &ConfigError{Field: "server.shutdown_timeout", Message: "shutdown timeout must be positive"}
	}

	// Validate logging configuration
	if _, err := logging.ParseLevel(c.Logging.Level); err != nil {
		return &ConfigError{Field: "logging.level", Message: err.Error()}
	}
	if c.Logging.Format != "text" && c.Logging.Format != "json" {
		return &ConfigError{Field: "logging.format", Message: "log format must be text or json"}
	}

	// Validate application configuration
	if c.Application.Timeout <= 0 {
		return &ConfigError{Field: "application.timeout", Message: "application timeout must be positive"}
	}

	return nil
}

// CORSOriginList splits the configured origins on commas.
func (c *Config) CORSOriginList() []string {
	var origins []string
	for _, origin := range strings.Split(c.Server.CORSOrigins, ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			origins = append(origins, origin)
		}
	}
	return origins
}

// ConfigError represents a configuration validation error
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return e.Field + ": " + e.Message
}
