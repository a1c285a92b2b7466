//go:build database

package store

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/hi-wesley/my-healthness-pal-sub000/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// TestHistoryStoreWithPostgres exercises the full store lifecycle against a
// real PostgreSQL server.
func TestHistoryStoreWithPostgres(t *testing.T) {
	ctx := context.Background()

	// Start Postgres container
	req := testcontainers.ContainerRequest{
		Image:        "postgres:18-alpine",
		ExposedPorts: []string{"5432:5432/tcp"},
		Env: map[string]string{
			"POSTGRES_HOST_AUTH_METHOD": "trust",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").WithStartupTimeout(30 * time.Second),
	}
	pgC, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)
	defer func() { _ = pgC.Terminate(ctx) }()
	time.Sleep(5 * time.Second)

	// Get connection details
	host, err := pgC.Host(ctx)
	require.NoError(t, err)
	port, err := pgC.MappedPort(ctx, "5432")
	require.NoError(t, err)

	connStr := fmt.Sprintf("host=%s port=%s user=postgres dbname=postgres", host, port.Port())

	historyStore, err := NewHistoryStore(schema.PostgreSQLBackend, connStr)
	require.NoError(t, err)
	defer func() { _ = historyStore.Close() }()

	analysisID, err := historyStore.BeginAnalysis(time.Now(), map[string]any{"tz": "UTC"})
	require.NoError(t, err)
	assert.Greater(t, analysisID, int64(0))

	require.NoError(t, historyStore.RecordDayMetrics(analysisID, sampleDay("2024-01-01")))
	require.NoError(t, historyStore.EndAnalysis(analysisID, time.Now(), 1))

	runs, err := historyStore.GetAllAnalysisRuns()
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, int32(1), runs[0].TotalDays)

	metrics, err := historyStore.GetAllDayMetrics()
	require.NoError(t, err)
	assert.Len(t, metrics, 3)

	status, err := historyStore.GetStatus()
	require.NoError(t, err)
	assert.Equal(t, 1, status.TotalRuns)

	require.NoError(t, historyStore.Clear())
	require.NoError(t, ClearHistory(schema.PostgreSQLBackend, "", connStr))
}
