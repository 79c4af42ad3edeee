package testutil

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/dimitrije/lockbox-api/internal/database"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

const (
	postgresImage = "postgres:16-alpine"
	postgresUser  = "lockbox"
	postgresPass  = "lockbox"
	postgresDB    = "lockbox_test"
)

// lockboxTables lists children before parents.
var lockboxTables = []string{"revoked_sessions", "vault_items", "users"}

// TestDB is a migrated Postgres running in a throwaway container.
type TestDB struct {
	DB        *database.DB
	Container testcontainers.Container
	DSN       string
}

// SetupTestDB starts Postgres, applies the goose migrations and registers
// cleanup on t.
func SetupTestDB(t *testing.T) *TestDB {
	t.Helper()
	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        postgresImage,
			ExposedPorts: []string{"5432/tcp"},
			Env: map[string]string{
				"POSTGRES_USER":     postgresUser,
				"POSTGRES_PASSWORD": postgresPass,
				"POSTGRES_DB":       postgresDB,
			},
			WaitingFor: wait.ForAll(
				wait.ForLog("database system is ready to accept connections").WithOccurrence(2),
				wait.ForListeningPort("5432/tcp"),
			).WithDeadline(90 * time.Second),
		},
		Started: true,
	})
	testcontainers.CleanupContainer(t, container)
	require.NoError(t, err, "start postgres container")

	endpoint, err := container.PortEndpoint(ctx, "5432/tcp", "")
	require.NoError(t, err, "resolve postgres endpoint")

	dsn := fmt.Sprintf("postgres://%s:%s@%s/%s?sslmode=disable", postgresUser, postgresPass, endpoint, postgresDB)

	db, err := database.New(ctx, dsn)
	require.NoError(t, err, "connect to test database")
	t.Cleanup(db.Close)

	require.NoError(t, db.Migrate(ctx), "apply migrations")

	return &TestDB{DB: db, Container: container, DSN: dsn}
}

// CleanTables empties every lockbox table in one statement.
func (tdb *TestDB) CleanTables(t *testing.T) {
	t.Helper()

	_, err := tdb.DB.Pool.Exec(context.Background(),
		"TRUNCATE TABLE "+strings.Join(lockboxTables, ", ")+" RESTART IDENTITY CASCADE")
	require.NoError(t, err, "truncate tables")
}

// CountVaultItems returns how many items ownerID has, bypassing the services.
func (tdb *TestDB) CountVaultItems(t *testing.T, ownerID uuid.UUID) int {
	t.Helper()

	var n int
	err := tdb.DB.Pool.QueryRow(context.Background(),
		"SELECT COUNT(*) FROM vault_items WHERE owner_id = $1", ownerID).Scan(&n)
	require.NoError(t, err, "count vault items")
	return n
}
