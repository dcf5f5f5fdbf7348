package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pelicanstate/constructhub/internal/assembly"
	"github.com/pelicanstate/constructhub/internal/testutil"
)

// Compile-time check that the repo can back task assembly.
var _ assembly.RateTable = (*SQLiteLaborRateRepo)(nil)

func TestLaborRateRepo_SeededDefaults(t *testing.T) {
	repo := NewSQLiteLaborRateRepo(testutil.NewTestDB(t))

	rates, err := repo.LaborRates(context.Background())
	require.NoError(t, err)
	assert.Equal(t, assembly.DefaultRates(), rates)
}

func TestLaborRateRepo_Upsert(t *testing.T) {
	repo := NewSQLiteLaborRateRepo(testutil.NewTestDB(t))
	ctx := context.Background()

	require.NoError(t, repo.Upsert(ctx, "Manual Labor", 52.5))
	require.NoError(t, repo.Upsert(ctx, "Electrician", 110))

	list, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 4)
	assert.Equal(t, "Construction Supervision", list[0].RateClass, "sorted by class")

	rates, err := repo.LaborRates(ctx)
	require.NoError(t, err)
	assert.Equal(t, 52.5, rates["Manual Labor"])
	assert.Equal(t, 110.0, rates["Electrician"])
	assert.False(t, list[0].UpdatedAt.IsZero())
}

func TestLaborRateRepo_UpsertRejectsInvalid(t *testing.T) {
	repo := NewSQLiteLaborRateRepo(testutil.NewTestDB(t))
	ctx := context.Background()

	assert.ErrorIs(t, repo.Upsert(ctx, " ", 10), ErrInvalidRate)
	assert.ErrorIs(t, repo.Upsert(ctx, "Manual Labor", 0), ErrInvalidRate)
	assert.ErrorIs(t, repo.Upsert(ctx, "Manual Labor", -5), ErrInvalidRate)
}
