package clickhouse

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// Table DDL mirrored from internal/storage/migrations/clickhouse.
// Applied inline so the test package does not depend on the migration
// runner, which imports this package.
var testTables = []string{
	`CREATE TABLE IF NOT EXISTS trade_ticks (
		instrument  String,
		trade_date  Date,
		time        UInt64,
		price       Float64,
		quantity    Float64,
		buyer_code  String,
		seller_code String
	) ENGINE = MergeTree()
	ORDER BY (instrument, trade_date, time)`,
	`CREATE TABLE IF NOT EXISTS processed_days (
		instrument String,
		trade_date Date,
		marked_at  DateTime
	) ENGINE = ReplacingMergeTree(marked_at)
	ORDER BY (instrument, trade_date)`,
}

// setupTestDB creates a ClickHouse container and returns a connection.
// Returns a cleanup function that must be called when done.
func setupTestDB(t *testing.T) (*Conn, func()) {
	t.Helper()

	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "clickhouse/clickhouse-server:24.1-alpine",
		ExposedPorts: []string{"9000/tcp", "8123/tcp"},
		WaitingFor: wait.ForAll(
			wait.ForLog("Application: Ready for connections").
				WithStartupTimeout(60 * time.Second),
			wait.ForListeningPort("9000/tcp"),
		),
		Env: map[string]string{
			"CLICKHOUSE_DB":       "test",
			"CLICKHOUSE_USER":     "default",
			"CLICKHOUSE_PASSWORD": "",
		},
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)

	host, err := container.Host(ctx)
	require.NoError(t, err)

	port, err := container.MappedPort(ctx, "9000")
	require.NoError(t, err)

	dsn := fmt.Sprintf("clickhouse://%s:%s/test", host, port.Port())

	conn, err := NewConn(ctx, dsn)
	require.NoError(t, err)

	for _, ddl := range testTables {
		require.NoError(t, conn.Exec(ctx, ddl))
	}

	cleanup := func() {
		conn.Close()
		_ = container.Terminate(ctx)
	}

	return conn, cleanup
}
