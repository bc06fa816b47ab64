//go:build integration

package containers

import (
	"context"
	"database/sql"
	"strings"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/Chandhu-cpp/Emergency-Blood-Finder/internal/bloodbank/store"
	"github.com/Chandhu-cpp/Emergency-Blood-Finder/internal/platform/config"
	"github.com/Chandhu-cpp/Emergency-Blood-Finder/internal/platform/postgres"
)

// PostgresContainer wraps a migrated testcontainers PostgreSQL instance.
type PostgresContainer struct {
	Container testcontainers.Container
	DSN       string
	DB        *sql.DB
}

// NewPostgresContainer starts PostgreSQL and applies the blood bank schema.
func NewPostgresContainer(t *testing.T) *PostgresContainer {
	t.Helper()

	ctx := context.Background()

	container, err := tcpostgres.Run(ctx, "postgres:16-alpine",
		tcpostgres.WithDatabase("bloodlink"),
		tcpostgres.WithUsername("bloodlink"),
		tcpostgres.WithPassword("bloodlink"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	if err != nil {
		t.Fatalf("failed to start postgres container: %v", err)
	}

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		_ = container.Terminate(ctx)
		t.Fatalf("failed to get postgres connection string: %v", err)
	}

	db, err := postgres.Open(ctx, config.DatabaseConfig{URL: dsn, MaxOpenConns: 50})
	if err != nil {
		_ = container.Terminate(ctx)
		t.Fatalf("failed to connect to postgres: %v", err)
	}

	if err := migrateSchema(dsn); err != nil {
		_ = db.Close()
		_ = container.Terminate(ctx)
		t.Fatalf("failed to migrate postgres: %v", err)
	}

	return &PostgresContainer{
		Container: container,
		DSN:       dsn,
		DB:        db,
	}
}

// TruncateTables empties the given tables. Use between tests to ensure isolation.
func (p *PostgresContainer) TruncateTables(ctx context.Context, tables ...string) error {
	_, err := p.DB.ExecContext(ctx, "TRUNCATE "+strings.Join(tables, ", ")+" CASCADE")
	return err
}

func migrateSchema(dsn string) error {
	m, err := postgres.NewMigrator(dsn, store.Migrations, "migrations")
	if err != nil {
		return err
	}
	defer m.Close()
	_, _, err = m.Up()
	return err
}
