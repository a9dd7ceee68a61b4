package catalog_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/modybick/pos/internal/cache"
	"github.com/modybick/pos/internal/catalog"
	"github.com/modybick/pos/internal/domain"
	"github.com/modybick/pos/internal/repository"
)

func setupRepo(t *testing.T) *repository.Repository {
	repo, err := repository.NewRepository(":memory:")
	if err != nil {
		t.Fatalf("Failed to create test repository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })

	if err := repo.RunMigrations("../repository/migrations"); err != nil {
		t.Fatalf("Failed to run migrations: %v", err)
	}

	return repo
}

func setupRedisCache(t *testing.T) *cache.RedisCache {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return cache.NewRedisCache(client)
}

func seed(t *testing.T, repo *repository.Repository) {
	t.Helper()
	_, err := repo.BulkUpsertProducts(context.Background(), []domain.Product{
		{Barcode: "111", Name: "Tea", Price: 150, Category: "drink"},
	})
	require.NoError(t, err)
}

func TestLookup_NotFoundPassesThrough(t *testing.T) {
	svc := catalog.NewService(setupRepo(t), cache.Noop{})

	_, err := svc.Lookup(context.Background(), "missing")
	assert.ErrorIs(t, err, repository.ErrProductNotFound)
}

func TestLookup_ServesFromCacheOnSecondCall(t *testing.T) {
	repo := setupRepo(t)
	seed(t, repo)
	productCache := setupRedisCache(t)
	svc := catalog.NewService(repo, productCache)
	ctx := context.Background()

	first, err := svc.Lookup(ctx, "111")
	require.NoError(t, err)
	assert.Equal(t, "Tea", first.Name)

	// The cache fill runs asynchronously after the repo read.
	require.Eventually(t, func() bool {
		_, errGet := productCache.Get(ctx, "111")
		return errGet == nil
	}, time.Second, 10*time.Millisecond, "lookup should populate the cache")

	// With the repository emptied, the hit can only come from the cache.
	require.NoError(t, repo.ResetProducts(ctx))
	p, err := svc.Lookup(ctx, "111")
	require.NoError(t, err)
	assert.Equal(t, "Tea", p.Name)
}

func TestBulkReplace_InvalidatesCachedProducts(t *testing.T) {
	repo := setupRepo(t)
	seed(t, repo)
	svc := catalog.NewService(repo, setupRedisCache(t))
	ctx := context.Background()

	_, err := svc.Lookup(ctx, "111")
	require.NoError(t, err)

	count, err := svc.BulkReplace(ctx, []domain.Product{
		{Barcode: "111", Name: "Green Tea", Price: 180, Category: "drink"},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	p, err := svc.Lookup(ctx, "111")
	require.NoError(t, err)
	assert.Equal(t, "Green Tea", p.Name)
	assert.Equal(t, int64(180), p.Price)
}

func TestLookup_FallsBackWhenCacheIsDown(t *testing.T) {
	repo := setupRepo(t)
	seed(t, repo)

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	svc := catalog.NewService(repo, cache.NewRedisCache(client))
	mr.Close() // cache is unreachable from the start

	p, err := svc.Lookup(context.Background(), "111")
	require.NoError(t, err)
	assert.Equal(t, "Tea", p.Name)
}

func TestFindMany_DelegatesToRepository(t *testing.T) {
	repo := setupRepo(t)
	seed(t, repo)
	svc := catalog.NewService(repo, cache.Noop{})

	products, err := svc.FindMany(context.Background(), []string{"111", "999"})
	require.NoError(t, err)
	assert.Len(t, products, 1)
	assert.Equal(t, "Tea", products["111"].Name)
}
