package database_test

import (
	"bufio"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tomoncle/membersearch/database"
	"github.com/tomoncle/membersearch/model"
)

func memoryConfig() *database.Config {
	cfg := database.DefaultConfig()
	cfg.ConnectionConfig.DBName = database.MemoryDBName
	cfg.ConnectionConfig.SlowQueryTime = 0
	return cfg
}

func connect(t *testing.T, cfg *database.Config) database.AbstractDatabaseManager {
	t.Helper()
	model.Register()
	manager := database.NewDatabaseManager(cfg)
	require.NoError(t, manager.Connect(context.Background()))
	t.Cleanup(func() { _ = manager.Disconnect() })
	return manager
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestRunMigrationsIsIdempotent(t *testing.T) {
	ctx := context.Background()
	manager := connect(t, memoryConfig())

	require.NoError(t, manager.RunMigrations(ctx))
	require.NoError(t, manager.RunMigrations(ctx))

	mm := database.NewMigrationManager(manager.GetDB(), nil, memoryConfig())
	applied, err := mm.GetAppliedMigrations(ctx)
	require.NoError(t, err)
	require.Len(t, applied, 2)
	assert.Equal(t, "001", applied[0].Version)
	assert.Equal(t, "create_base_tables", applied[0].Name)
	assert.Equal(t, "002", applied[1].Version)

	count, err := manager.GetDB().NewSelect().Model((*model.Member)(nil)).Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestMigrationSeedsFromSQLFiles(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "common", "002_members.sql"), `
-- members reference the teams created by 001
INSERT INTO members (username, age, team_id) VALUES ('member1', 10, 1);
INSERT INTO members (username, age, team_id)
VALUES ('member2', 20, 1);
`)
	writeFile(t, filepath.Join(root, "common", "001_teams.sql"), "INSERT INTO teams (name) VALUES ('teamA');\n")
	writeFile(t, filepath.Join(root, "environments", "test", "001_extra.sql"),
		"INSERT INTO members (username, age) VALUES ('{{.ENVIRONMENT}}-user', 99);\n")
	writeFile(t, filepath.Join(root, "environments", "prod", "001_ignored.sql"),
		"INSERT INTO members (username, age) VALUES ('prod-user', 1);\n")

	cfg := memoryConfig()
	cfg.DataInitConfig = database.DataInitConfig{
		AutoInitOnMigration: true,
		Filepath:            root,
		Environment:         "test",
	}
	manager := connect(t, cfg)
	require.NoError(t, manager.RunMigrations(ctx))

	var names []string
	err := manager.GetDB().NewSelect().
		Model((*model.Member)(nil)).
		Column("username").
		Order("id ASC").
		Scan(ctx, &names)
	require.NoError(t, err)
	assert.Equal(t, []string{"member1", "member2", "test-user"}, names)

	// the seed migration is recorded and not replayed
	require.NoError(t, manager.RunMigrations(ctx))
	count, err := manager.GetDB().NewSelect().Model((*model.Member)(nil)).Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, count)
}

func TestSQLInitRollsBackFailedFile(t *testing.T) {
	ctx := context.Background()
	manager := connect(t, memoryConfig())
	require.NoError(t, manager.RunMigrations(ctx))

	root := t.TempDir()
	writeFile(t, filepath.Join(root, "common", "001_broken.sql"), `
INSERT INTO teams (name) VALUES ('teamA');
INSERT INTO no_such_table (name) VALUES ('x');
`)
	initializer := database.NewSQLInitManager(manager.GetDB(), "")
	initializer.SetSQLRootPath(root)
	err := initializer.ExecuteInitialization(ctx)
	require.Error(t, err)

	is, kind := database.IsSqlError(err)
	assert.True(t, is)
	assert.Equal(t, database.NoTableErr, kind)

	count, err := manager.GetDB().NewSelect().Model((*model.Team)(nil)).Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestSQLInitHandlesLongLines(t *testing.T) {
	ctx := context.Background()
	manager := connect(t, memoryConfig())
	require.NoError(t, manager.RunMigrations(ctx))

	longName := strings.Repeat("x", 100*1024)
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "common", "001_long.sql"),
		"INSERT INTO teams (name) VALUES ('"+longName+"');\nINSERT INTO teams (name) VALUES ('teamB');\n")
	initializer := database.NewSQLInitManager(manager.GetDB(), "")
	initializer.SetSQLRootPath(root)
	require.NoError(t, initializer.ExecuteInitialization(ctx))

	var lengths []int
	err := manager.GetDB().NewSelect().
		Model((*model.Team)(nil)).
		ColumnExpr("length(name)").
		OrderExpr("id ASC").
		Scan(ctx, &lengths)
	require.NoError(t, err)
	assert.Equal(t, []int{len(longName), len("teamB")}, lengths)
}

func TestSQLInitRejectsOversizedLine(t *testing.T) {
	ctx := context.Background()
	manager := connect(t, memoryConfig())
	require.NoError(t, manager.RunMigrations(ctx))

	root := t.TempDir()
	writeFile(t, filepath.Join(root, "common", "001_huge.sql"),
		"INSERT INTO teams (name) VALUES ('teamA');\nINSERT INTO teams (name) VALUES ('"+strings.Repeat("x", 17<<20)+"');\n")
	initializer := database.NewSQLInitManager(manager.GetDB(), "")
	initializer.SetSQLRootPath(root)
	err := initializer.ExecuteInitialization(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, bufio.ErrTooLong)

	count, err := manager.GetDB().NewSelect().Model((*model.Team)(nil)).Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, count, "nothing from a truncated file may run")
}

func TestGetSQLFilesOrdering(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "common", "010_b.sql"), "SELECT 1;")
	writeFile(t, filepath.Join(root, "common", "002_a.sql"), "SELECT 1;")
	writeFile(t, filepath.Join(root, "common", "readme.txt"), "ignored")
	writeFile(t, filepath.Join(root, "common", "zz.sql"), "SELECT 1;")
	writeFile(t, filepath.Join(root, "environments", "dev", "001_dev.sql"), "SELECT 1;")

	initializer := database.NewSQLInitManager(nil, "dev")
	initializer.SetSQLRootPath(root)
	files, err := initializer.GetSQLFiles()
	require.NoError(t, err)

	var names []string
	for _, f := range files {
		names = append(names, f.Name)
	}
	assert.Equal(t, []string{"002_a.sql", "010_b.sql", "zz.sql", "001_dev.sql"}, names)
	assert.Equal(t, "dev", files[3].Environment)

	initializer.SetSQLRootPath(filepath.Join(root, "missing"))
	files, err = initializer.GetSQLFiles()
	require.NoError(t, err)
	assert.Empty(t, files)
}

func TestHealthCheck(t *testing.T) {
	ctx := context.Background()
	manager := connect(t, memoryConfig())

	status := manager.HealthCheck(ctx)
	assert.True(t, status.Healthy)
	assert.True(t, status.Connected)
	assert.Equal(t, 1, status.MaxOpenConns)
	assert.Equal(t, 1, manager.GetStats().MaxOpenConns)

	require.NoError(t, manager.Disconnect())
	status = manager.HealthCheck(ctx)
	assert.False(t, status.Healthy)
	assert.NotEmpty(t, status.LastError)
	assert.Error(t, manager.Ping(ctx))
}

func TestCreateFromConfigRejectsUnsupportedType(t *testing.T) {
	cfg := memoryConfig()
	cfg.ConnectionConfig.Type = "oracle"
	_, err := database.NewDatabaseFactory().CreateFromConfig(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported database type")
}

func TestOverrideFromEnv(t *testing.T) {
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("DB_PORT", "5433")
	t.Setenv("DB_NAME", "members")
	t.Setenv("DB_ENABLE_QUERY_LOG", "true")

	cfg := database.DefaultConnectionConfig()
	database.OverrideFromEnv(cfg)
	assert.Equal(t, "db.internal", cfg.Host)
	assert.Equal(t, 5433, cfg.Port)
	assert.Equal(t, "members", cfg.DBName)
	assert.True(t, cfg.EnableQueryLog)
	assert.Equal(t, "sqlite", cfg.Type)
}

func TestInitDBGlobal(t *testing.T) {
	ctx := context.Background()
	model.Register()
	db, err := database.InitDB(ctx, memoryConfig())
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.CloseDB() })

	assert.Same(t, db, database.GetDB())
	assert.True(t, database.GetHealthStatus(ctx).Healthy)
	require.NoError(t, database.RunMigrations(ctx))

	require.NoError(t, database.CloseDB())
	assert.Nil(t, database.GetDB())
	assert.Error(t, database.RunMigrations(ctx))
}

func TestIsSqlError(t *testing.T) {
	is, kind := database.IsSqlError(assert.AnError)
	assert.False(t, is)
	assert.Equal(t, database.UnknownErr, kind)

	is, kind = database.IsSqlError(errString("SQL logic error: no such table: members (1)"))
	assert.True(t, is)
	assert.Equal(t, database.NoTableErr, kind)

	is, kind = database.IsSqlError(errString("SQL logic error: index idx_members_username already exists (1)"))
	assert.True(t, is)
	assert.Equal(t, database.ExistIndexErr, kind)

	is, kind = database.IsSqlError(&mysql.MySQLError{Number: 1061, Message: "Duplicate key name 'idx_members_username'"})
	assert.True(t, is)
	assert.Equal(t, database.ExistIndexErr, kind)

	is, kind = database.IsSqlError(&mysql.MySQLError{Number: 1062, Message: "Duplicate entry"})
	assert.True(t, is)
	assert.Equal(t, database.UnknownErr, kind)

	is, _ = database.IsSqlError(nil)
	assert.False(t, is)
}

type errString string

func (e errString) Error() string { return string(e) }
