package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoader_Load(t *testing.T) {
	clearEnv(t)
	t.Setenv("TODO_DB_DIR", t.TempDir())

	cfg, err := NewLoader().WithEnvFiles().Load()
	require.NoError(t, err)
	assert.Equal(t, DriverSQLite, cfg.Database.Driver)
}

func TestLoader_Load_InvalidEnvironment(t *testing.T) {
	clearEnv(t)
	t.Setenv("TODO_LOG_FORMAT", "xml")

	_, err := NewLoader().WithEnvFiles().Load()
	require.Error(t, err)
	assert.IsType(t, &ConfigError{}, err)
}

func TestLoader_Load_TestingEnvironmentUsesMemory(t *testing.T) {
	clearEnv(t)
	t.Setenv("TODO_ENV", "testing")

	cfg, err := NewLoader().WithEnvFiles().Load()
	require.NoError(t, err)
	assert.Equal(t, DriverMemory, cfg.Database.Driver)
}

func TestLoader_Load_EnvFile(t *testing.T) {
	clearEnv(t)
	for _, name := range []string{"TODO_SERVER_ADDR", "TODO_CACHE_PREFIX"} {
		original, had := os.LookupEnv(name)
		require.NoError(t, os.Unsetenv(name))
		t.Cleanup(func() {
			if had {
				os.Setenv(name, original)
			} else {
				os.Unsetenv(name)
			}
		})
	}
	t.Setenv("TODO_LOG_LEVEL", "warn")

	envFile := filepath.Join(t.TempDir(), ".env")
	content := "TODO_SERVER_ADDR=:9090\nTODO_CACHE_PREFIX=dotenv:\nTODO_LOG_LEVEL=debug\n"
	require.NoError(t, os.WriteFile(envFile, []byte(content), 0600))

	cfg, err := NewLoader().WithEnvFiles(envFile, filepath.Join(t.TempDir(), "missing.env")).Load()
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Server.Addr)
	assert.Equal(t, "dotenv:", cfg.Cache.Prefix)
	// Variables already set in the environment win over the file.
	assert.Equal(t, "warn", cfg.Logging.Level)
}

func TestLoader_LoadWithOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("TODO_DB_DRIVER", "postgres")

	driver := "postgres"
	url := "postgres://localhost/todo"
	addr := ":7000"
	timeout := 5 * time.Second
	verbose := true
	cache := true

	cfg, err := NewLoader().WithEnvFiles().LoadWithOverrides(&ConfigOverrides{
		DBDriver:     &driver,
		DBURL:        &url,
		ServerAddr:   &addr,
		Timeout:      &timeout,
		Verbose:      &verbose,
		CacheEnabled: &cache,
	})
	require.NoError(t, err)

	assert.Equal(t, DriverPostgres, cfg.Database.Driver)
	assert.Equal(t, url, cfg.Database.URL)
	assert.Equal(t, addr, cfg.Server.Addr)
	assert.Equal(t, timeout, cfg.Application.Timeout)
	assert.True(t, cfg.Application.Verbose)
	assert.True(t, cfg.Cache.Enabled)
}

func TestLoader_LoadWithOverrides_InvalidOverride(t *testing.T) {
	clearEnv(t)

	level := "loud"
	_, err := NewLoader().WithEnvFiles().LoadWithOverrides(&ConfigOverrides{LogLevel: &level})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "logging.level")
}

func TestLoader_FlagBeatsTestingEnvironment(t *testing.T) {
	clearEnv(t)
	t.Setenv("TODO_ENV", "testing")

	driver := DriverSQLite
	dir := t.TempDir()
	cfg, err := NewLoader().WithEnvFiles().LoadWithOverrides(&ConfigOverrides{DBDriver: &driver, DBDir: &dir})
	require.NoError(t, err)
	assert.Equal(t, DriverSQLite, cfg.Database.Driver)
}

func TestParseWithFallback(t *testing.T) {
	assert.Equal(t, 2*time.Second, ParseDurationWithFallback("2s", time.Second))
	assert.Equal(t, time.Second, ParseDurationWithFallback("bad", time.Second))
	assert.Equal(t, 7, ParseIntWithFallback("7", 1))
	assert.Equal(t, 1, ParseIntWithFallback("x", 1))
	assert.True(t, ParseBoolWithFallback("true", false))
	assert.False(t, ParseBoolWithFallback("x", false))
	assert.Equal(t, uint32(0700), ParseUint32WithFallback("700", 8, 0755))
	assert.Equal(t, uint32(0755), ParseUint32WithFallback("9", 8, 0755))
}
