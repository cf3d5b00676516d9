package migrations

import (
	"context"
	"database/sql"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestLoadMigrations(t *testing.T) {
	migrations, err := LoadMigrations()
	require.NoError(t, err)
	require.NotEmpty(t, migrations)

	assert.Equal(t, 1, migrations[0].Version)
	assert.Equal(t, "000001_create_tasks", migrations[0].Name)
	assert.Contains(t, migrations[0].Up, "CREATE TABLE IF NOT EXISTS tasks")
	assert.Contains(t, migrations[0].Down, "DROP TABLE IF EXISTS tasks")

	for i := 1; i < len(migrations); i++ {
		assert.Less(t, migrations[i-1].Version, migrations[i].Version)
	}
}

func TestRunMigrations_CreatesTasksTable(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)

	require.NoError(t, RunMigrations(ctx, db))

	_, err := db.Exec("INSERT INTO tasks (text) VALUES ('Write report')")
	require.NoError(t, err)

	var id int64
	require.NoError(t, db.QueryRow("SELECT id FROM tasks WHERE text = 'Write report'").Scan(&id))
	assert.Equal(t, int64(1), id)
}

func TestRunMigrations_RejectsEmptyText(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	require.NoError(t, RunMigrations(ctx, db))

	_, err := db.Exec("INSERT INTO tasks (text) VALUES ('')")
	assert.Error(t, err)

	_, err = db.Exec("INSERT INTO tasks (text) VALUES (NULL)")
	assert.Error(t, err)
}

func TestRunMigrations_Idempotent(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)

	require.NoError(t, RunMigrations(ctx, db))
	require.NoError(t, RunMigrations(ctx, db))

	var count int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM migrations").Scan(&count))
	migrations, err := LoadMigrations()
	require.NoError(t, err)
	assert.Equal(t, len(migrations), count)
}

func TestRunMigrations_DirtyDatabase(t *testing.T) {
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()
	db.SetMaxOpenConns(1)

	_, err = db.Exec(`
		CREATE TABLE migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			dirty BOOLEAN DEFAULT FALSE
		)
	`)
	if err != nil {
		t.Fatalf("failed to create migrations table: %v", err)
	}

	_, err = db.Exec("INSERT INTO migrations (version, dirty) VALUES (1, TRUE)")
	if err != nil {
		t.Fatalf("failed to insert dirty migration: %v", err)
	}

	err = RunMigrations(context.Background(), db)
	if err == nil {
		t.Fatal("expected RunMigrations to fail on dirty database, but it succeeded")
	}

	if !strings.Contains(err.Error(), "database is in a dirty state") {
		t.Errorf("expected error to mention dirty state, got: %v", err)
	}

	if !strings.Contains(err.Error(), "failed migration(s): [1]") {
		t.Errorf("expected error to mention failed migration version 1, got: %v", err)
	}
}

func TestRollback(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)

	require.NoError(t, RunMigrations(ctx, db))
	require.NoError(t, Rollback(ctx, db))

	var name string
	err := db.QueryRow("SELECT name FROM sqlite_master WHERE type = 'table' AND name = 'tasks'").Scan(&name)
	assert.ErrorIs(t, err, sql.ErrNoRows)

	// Rolling back an empty history is a no-op.
	require.NoError(t, Rollback(ctx, db))

	require.NoError(t, RunMigrations(ctx, db))
	require.NoError(t, db.QueryRow("SELECT name FROM sqlite_master WHERE type = 'table' AND name = 'tasks'").Scan(&name))
	assert.Equal(t, "tasks", name)
}

func TestRunMigrations_FailedMigrationLeavesDirtyMarker(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	require.NoError(t, createMigrationsTable(ctx, db))

	broken := Migration{Version: 99, Name: "000099_broken", Up: "CREATE TABLE ("}
	require.Error(t, applyMigration(ctx, db, broken))

	dirty, err := getDirtyMigrations(ctx, db)
	require.NoError(t, err)
	assert.Equal(t, []int{99}, dirty)

	err = RunMigrations(ctx, db)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed migration(s): [99]")
}
