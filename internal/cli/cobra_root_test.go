package cli

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"todo/internal/config"
)

func newTestRoot(t *testing.T, args ...string) (*RootCommand, *bytes.Buffer) {
	t.Helper()
	t.Setenv("TODO_ENV", "production")
	t.Setenv("TODO_DB_DRIVER", "")

	out := &bytes.Buffer{}
	root := NewRootCommand(config.NewLoader().WithEnvFiles(), out, &bytes.Buffer{})
	root.SetArgs(args)
	return root, out
}

func TestRootCommand_AddWithMemoryDriver(t *testing.T) {
	root, out := newTestRoot(t, "--db-driver", "memory", "add", "Buy", "milk")

	require.NoError(t, root.Execute())
	assert.Equal(t, "Created task 1: Buy milk\n", out.String())
}

func TestRootCommand_SQLiteRoundTrip(t *testing.T) {
	dir := t.TempDir()
	run := func(args ...string) string {
		base := []string{"--db-driver", "sqlite", "--db-dir", dir, "--db-filename", "cli.db"}
		root, out := newTestRoot(t, append(base, args...)...)
		require.NoError(t, root.Execute())
		return out.String()
	}

	assert.Equal(t, "Created task 1: Write report\n", run("add", "Write report"))
	assert.Equal(t, "Created task 2: Buy milk\n", run("add", "Buy milk"))
	assert.Equal(t, "Updated task 2: Buy oat milk\n", run("update", "2", "Buy oat milk"))
	assert.Equal(t, "2: Buy oat milk\n", run("get", "2"))
	assert.Equal(t, "Deleted task 1\n", run("delete", "1"))
	assert.JSONEq(t, `[{"id":2,"text":"Buy oat milk"}]`, run("list", "--format", "json"))

	assert.FileExists(t, filepath.Join(dir, "cli.db"))
}

func TestRootCommand_EnvironmentSelectsDriver(t *testing.T) {
	root, out := newTestRoot(t, "list")
	t.Setenv("TODO_ENV", "testing")

	require.NoError(t, root.Execute())
	assert.Equal(t, "No tasks found\n", out.String())
}

func TestRootCommand_InvalidConfig(t *testing.T) {
	root, _ := newTestRoot(t, "--db-driver", "oracle", "list")

	err := root.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "database.driver")
}

func TestRootCommand_PostgresRequiresURL(t *testing.T) {
	root, _ := newTestRoot(t, "--db-driver", "postgres", "list")

	assert.Error(t, root.Execute())
}

func TestRootCommand_ArgumentValidation(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{name: "add without text", args: []string{"add"}},
		{name: "get without id", args: []string{"get"}},
		{name: "update without text", args: []string{"update", "1"}},
		{name: "delete with extra args", args: []string{"delete", "1", "2"}},
		{name: "list with positional args", args: []string{"list", "everything"}},
		{name: "unknown command", args: []string{"start"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root, _ := newTestRoot(t, append([]string{"--db-driver", "memory"}, tt.args...)...)
			assert.Error(t, root.Execute())
		})
	}
}

func TestRootCommand_WithApp(t *testing.T) {
	app, out := setupTestApp(t)
	root := NewRootCommandWithApp(app)

	root.SetArgs([]string{"add", "Buy milk"})
	require.NoError(t, root.ExecuteContext(context.Background()))
	assert.Equal(t, "Created task 1: Buy milk\n", out.String())
}

func TestRootCommand_ConfigOverrides(t *testing.T) {
	root, _ := newTestRoot(t)
	flags := root.cmd.PersistentFlags()

	overrides := root.getConfigOverrides()
	assert.Nil(t, overrides.DBDriver)
	assert.Nil(t, overrides.Verbose)

	require.NoError(t, flags.Set("db-driver", "memory"))
	require.NoError(t, flags.Set("app-timeout", "5s"))
	require.NoError(t, flags.Set("cache", "true"))
	require.NoError(t, flags.Set("addr", ":9090"))

	overrides = root.getConfigOverrides()
	require.NotNil(t, overrides.DBDriver)
	assert.Equal(t, "memory", *overrides.DBDriver)
	require.NotNil(t, overrides.Timeout)
	assert.Equal(t, 5*time.Second, *overrides.Timeout)
	require.NotNil(t, overrides.CacheEnabled)
	assert.True(t, *overrides.CacheEnabled)
	require.NotNil(t, overrides.ServerAddr)
	assert.Equal(t, ":9090", *overrides.ServerAddr)
}

func TestRootCommand_AppTimeout(t *testing.T) {
	root, _ := newTestRoot(t)
	assert.Equal(t, 60*time.Second, root.getAppTimeout())

	app, _ := setupTestApp(t)
	app.config.Application.Timeout = 3 * time.Second
	assert.Equal(t, 3*time.Second, NewRootCommandWithApp(app).getAppTimeout())
}
