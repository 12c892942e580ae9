package repos_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zhouzirui/z-style/backend/internal/model/catalog"
	"github.com/zhouzirui/z-style/backend/internal/repos"
)

func memRepo(t *testing.T, seed []catalog.Product) *repos.CatalogRepo {
	t.Helper()
	db, err := repos.OpenDB(context.Background(), ":memory:", seed)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return repos.NewCatalogRepo(db)
}

func TestCatalogRepo_SeedAndList(t *testing.T) {
	repo := memRepo(t, catalog.Seed())

	items, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, items, len(catalog.Seed()))

	for i, want := range catalog.Seed() {
		assert.Equal(t, want.SKU, items[i].SKU)
		assert.Equal(t, len(want.SustainTags), len(items[i].SustainTags))
	}
}

func TestCatalogRepo_GetMissing(t *testing.T) {
	repo := memRepo(t, catalog.Seed())

	_, ok, err := repo.Get(context.Background(), "nope")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCatalogRepo_GetRoundTripsTags(t *testing.T) {
	repo := memRepo(t, []catalog.Product{
		{SKU: "A", Name: "Jacket", Color: "Black", Material: "Leather", Price: 100, Stock: 3, SustainTags: []string{"x", "y"}},
	})

	p, ok, err := repo.Get(context.Background(), "A")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []string{"x", "y"}, p.SustainTags)
	assert.Equal(t, 100.0, p.Price)
}

func TestCatalogRepo_TryReserve(t *testing.T) {
	ctx := context.Background()
	repo := memRepo(t, []catalog.Product{{SKU: "A", Name: "Jacket", Price: 10, Stock: 3}})

	ok, err := repo.TryReserve(ctx, "A", 5)
	require.NoError(t, err)
	assert.False(t, ok, "insufficient stock must not reserve")

	ok, err = repo.TryReserve(ctx, "A", 2)
	require.NoError(t, err)
	assert.True(t, ok)

	p, _, err := repo.Get(ctx, "A")
	require.NoError(t, err)
	assert.Equal(t, 1, p.Stock)

	ok, err = repo.TryReserve(ctx, "missing", 1)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCatalogRepo_SetStock(t *testing.T) {
	ctx := context.Background()
	repo := memRepo(t, []catalog.Product{{SKU: "A", Name: "Jacket", Price: 10, Stock: 3}})

	require.NoError(t, repo.SetStock(ctx, "A", 0))
	p, _, err := repo.Get(ctx, "A")
	require.NoError(t, err)
	assert.Equal(t, 0, p.Stock)

	assert.ErrorIs(t, repo.SetStock(ctx, "missing", 4), catalog.ErrProductNotFound)
}
