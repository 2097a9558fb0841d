package postgres_test

import (
	"context"
	"os"
	"testing"

	"health-monitor/internal/adapters/storage/postgres"
	"health-monitor/internal/adapters/storage/storagetest"
	"health-monitor/internal/domain/records"

	"github.com/stretchr/testify/require"
)

// Requiere una base descartable: TEST_DB_DSN=postgres://... go test ./...
func TestRecordsRepo_Contract(t *testing.T) {
	dsn := os.Getenv("TEST_DB_DSN")
	if dsn == "" {
		t.Skip("TEST_DB_DSN not set")
	}

	storagetest.RunRepositoryContract(t, func(t *testing.T) records.Repository {
		ctx := context.Background()
		db, err := postgres.Open(ctx, dsn)
		require.NoError(t, err)
		t.Cleanup(func() { _ = db.Close() })

		_, err = db.ExecContext(ctx, `TRUNCATE health_records`)
		require.NoError(t, err)
		return postgres.NewRecordsRepo(db)
	})
}
