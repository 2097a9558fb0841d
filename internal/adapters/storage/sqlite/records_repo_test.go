package sqlite_test

import (
	"context"
	"path/filepath"
	"testing"

	"health-monitor/internal/adapters/storage/sqlite"
	"health-monitor/internal/adapters/storage/storagetest"
	"health-monitor/internal/domain/records"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordsRepo_Contract(t *testing.T) {
	storagetest.RunRepositoryContract(t, func(t *testing.T) records.Repository {
		db, err := sqlite.Open(context.Background(), filepath.Join(t.TempDir(), "health.db"))
		require.NoError(t, err)
		t.Cleanup(func() { _ = db.Close() })
		return sqlite.NewRecordsRepo(db)
	})
}

func TestMigrate_Idempotent(t *testing.T) {
	ctx := context.Background()
	db, err := sqlite.Open(ctx, filepath.Join(t.TempDir(), "nested", "health.db"))
	require.NoError(t, err)
	defer db.Close()

	require.NoError(t, sqlite.Migrate(ctx, db))
	require.NoError(t, sqlite.Migrate(ctx, db))

	var n int
	require.NoError(t, db.QueryRowContext(ctx, `SELECT COUNT(1) FROM schema_migrations`).Scan(&n))
	assert.Equal(t, 1, n)
}
