package config

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"todo/internal/repository"
	"todo/internal/repository/memory"
	"todo/internal/repository/postgres"
	"todo/internal/repository/rediscache"
	"todo/internal/repository/sqlite"
)

// CreateRepository builds the configured storage backend and wraps it in the
// Redis cache when caching is enabled.
func CreateRepository(ctx context.Context, config *Config, logger *slog.Logger) (repository.Repository, error) {
	if logger == nil {
		logger = slog.Default()
	}

	var (
		repo repository.Repository
		err  error
	)

	switch config.Database.Driver {
	case DriverSQLite:
		repo, err = createSQLiteRepository(config)
	case DriverPostgres:
		repo, err = postgres.Open(ctx, postgres.Config{
			URL:      config.Database.URL,
			MaxConns: config.Database.MaxConns,
		})
	case DriverMemory:
		repo = memory.New()
	default:
		err = fmt.Errorf("unsupported database driver %q", config.Database.Driver)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	logger.Debug("repository opened", "driver", config.Database.Driver)

	if !config.Cache.Enabled {
		return repo, nil
	}

	client, err := rediscache.NewClient(config.Cache.RedisURL)
	if err != nil {
		repo.Close()
		return nil, fmt.Errorf("failed to initialize cache: %w", err)
	}
	logger.Debug("redis cache enabled", "prefix", config.Cache.Prefix, "ttl", config.Cache.TTL)

	return rediscache.New(repo, client, rediscache.Options{
		Prefix:          config.Cache.Prefix,
		TTL:             config.Cache.TTL,
		BreakerFailures: config.Cache.BreakerFailures,
		BreakerTimeout:  config.Cache.BreakerTimeout,
	}, logger), nil
}

func createSQLiteRepository(config *Config) (*sqlite.SQLiteRepository, error) {
	dbPath := config.GetDatabasePath()
	if dbPath != ":memory:" {
		if err := os.MkdirAll(config.Database.Dir, os.FileMode(config.Database.DirPermissions)); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	return sqlite.NewWithOptions(dbPath, sqlite.Options{
		QueryTimeout: config.GetQueryTimeout(),
		WriteTimeout: config.GetWriteTimeout(),
	})
}

// CreateTestRepository creates an in-memory SQLite repository for testing
func CreateTestRepository() (repository.Repository, error) {
	repo, err := sqlite.New(":memory:")
	if err != nil {
		return nil, fmt.Errorf("failed to initialize test database: %w", err)
	}

	return repo, nil
}
