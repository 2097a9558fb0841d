// Package storagetest tiene la batería común que todo records.Repository debe pasar.
package storagetest

import (
	"context"
	"testing"
	"time"

	"health-monitor/internal/domain/records"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunRepositoryContract ejecuta los casos contra un repo nuevo por subtest.
func RunRepositoryContract(t *testing.T, newRepo func(t *testing.T) records.Repository) {
	t.Helper()

	base := time.Date(2025, 3, 10, 8, 30, 0, 0, time.UTC)

	rec := func(id, owner string, offset time.Duration) records.HealthRecord {
		return records.HealthRecord{
			ID:          id,
			OwnerUserID: owner,
			TakenAt:     base.Add(offset),
			CreatedAt:   base.Add(offset),
		}
	}

	t.Run("round trips optional measurements", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		full := rec("r-full", "u1", 0)
		full.Systolic = records.Float(120)
		full.Diastolic = records.Float(80)
		full.Glycemia = records.Float(95.5)
		full.HeartRate = records.Float(72)
		full.Note = "after breakfast"

		partial := rec("r-partial", "u1", time.Minute)
		partial.Glycemia = records.Float(181)

		require.NoError(t, repo.Create(ctx, full))
		require.NoError(t, repo.Create(ctx, partial))

		got, err := repo.ListByOwner(ctx, "u1")
		require.NoError(t, err)
		require.Len(t, got, 2)

		byID := map[string]records.HealthRecord{}
		for _, r := range got {
			byID[r.ID] = r
		}

		f := byID["r-full"]
		require.NotNil(t, f.Systolic)
		assert.Equal(t, 120.0, *f.Systolic)
		assert.Equal(t, 80.0, *f.Diastolic)
		assert.Equal(t, 95.5, *f.Glycemia)
		assert.Equal(t, 72.0, *f.HeartRate)
		assert.Equal(t, "after breakfast", f.Note)
		assert.True(t, f.TakenAt.Equal(full.TakenAt))

		p := byID["r-partial"]
		assert.Nil(t, p.Systolic)
		assert.Nil(t, p.Diastolic)
		assert.Nil(t, p.HeartRate)
		require.NotNil(t, p.Glycemia)
		assert.Equal(t, 181.0, *p.Glycemia)
	})

	t.Run("scopes by owner", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		require.NoError(t, repo.Create(ctx, rec("a", "u1", 0)))
		require.NoError(t, repo.Create(ctx, rec("b", "u2", 0)))

		got, err := repo.ListByOwner(ctx, "u2")
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "b", got[0].ID)

		err = repo.Delete(ctx, "u1", "b")
		assert.ErrorIs(t, err, records.ErrNotFound)
	})

	t.Run("delete and delete all", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		for i, id := range []string{"x1", "x2", "x3"} {
			require.NoError(t, repo.Create(ctx, rec(id, "u1", time.Duration(i)*time.Hour)))
		}
		require.NoError(t, repo.Create(ctx, rec("other", "u2", 0)))

		require.NoError(t, repo.Delete(ctx, "u1", "x2"))
		assert.ErrorIs(t, repo.Delete(ctx, "u1", "x2"), records.ErrNotFound)

		n, err := repo.DeleteAll(ctx, "u1")
		require.NoError(t, err)
		assert.Equal(t, 2, n)

		got, err := repo.ListByOwner(ctx, "u1")
		require.NoError(t, err)
		assert.Empty(t, got)

		got, err = repo.ListByOwner(ctx, "u2")
		require.NoError(t, err)
		assert.Len(t, got, 1)
	})

	t.Run("rejects duplicate id", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		require.NoError(t, repo.Create(ctx, rec("dup", "u1", 0)))
		assert.Error(t, repo.Create(ctx, rec("dup", "u1", 0)))
	})
}
