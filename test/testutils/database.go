// Package testutils provides common testing utilities and infrastructure setup
package testutils

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/nutriplan/backend/internal/infrastructure/persistence/sqlite"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// PostgresTestsEnv enables tests that start a PostgreSQL container
const PostgresTestsEnv = "NUTRIPLAN_POSTGRES_TESTS"

// NewTestDB returns a migrated, private in-memory SQLite database
func NewTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := sqlite.SetupDatabase(":memory:", logger.Default.LogMode(logger.Silent))
	require.NoError(t, err, "Failed to set up test database")

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

// PostgresContainer describes a disposable PostgreSQL instance
type PostgresContainer struct {
	Host     string
	Port     int
	Database string
	Username string
	Password string
}

// SetupPostgres starts a PostgreSQL container for the test. The test is
// skipped unless NUTRIPLAN_POSTGRES_TESTS is set, since it needs Docker.
func SetupPostgres(t *testing.T) *PostgresContainer {
	t.Helper()
	if os.Getenv(PostgresTestsEnv) == "" {
		t.Skipf("set %s to run PostgreSQL tests", PostgresTestsEnv)
	}

	ctx := context.Background()
	pc := &PostgresContainer{
		Database: "nutriplan_test",
		Username: "test_user",
		Password: "test_password",
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "postgres:15-alpine",
			ExposedPorts: []string{"5432/tcp"},
			Env: map[string]string{
				"POSTGRES_DB":       pc.Database,
				"POSTGRES_USER":     pc.Username,
				"POSTGRES_PASSWORD": pc.Password,
			},
			WaitingFor: wait.ForAll(
				wait.ForLog("database system is ready to accept connections").
					WithOccurrence(2).
					WithStartupTimeout(60*time.Second),
				wait.ForListeningPort("5432/tcp"),
			),
			Tmpfs: map[string]string{
				"/var/lib/postgresql/data": "rw,noexec,nosuid,size=256m",
			},
		},
		Started: true,
	})
	require.NoError(t, err, "Failed to start postgres container")

	t.Cleanup(func() {
		if err := container.Terminate(context.Background()); err != nil {
			t.Logf("Failed to terminate postgres container: %v", err)
		}
	})

	pc.Host, err = container.Host(ctx)
	require.NoError(t, err)

	port, err := container.MappedPort(ctx, "5432/tcp")
	require.NoError(t, err)
	pc.Port = port.Int()

	return pc
}
