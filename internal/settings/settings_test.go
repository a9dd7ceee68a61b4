package settings_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/modybick/pos/internal/repository"
	"github.com/modybick/pos/internal/settings"
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

func TestScanCooldown_DefaultsWithoutPersistedValue(t *testing.T) {
	store, err := settings.NewStore(context.Background(), setupRepo(t))
	require.NoError(t, err)

	assert.Equal(t, settings.DefaultScanCooldown, store.ScanCooldown())
}

func TestSetScanCooldown_PersistsAcrossReload(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	store, err := settings.NewStore(ctx, repo)
	require.NoError(t, err)
	require.NoError(t, store.SetScanCooldown(ctx, 2*time.Second))
	assert.Equal(t, 2*time.Second, store.ScanCooldown())

	// A fresh store over the same repository simulates a restart.
	reloaded, err := settings.NewStore(ctx, repo)
	require.NoError(t, err)
	assert.Equal(t, 2*time.Second, reloaded.ScanCooldown())
}

func TestSetScanCooldown_RejectsNonPositive(t *testing.T) {
	store, err := settings.NewStore(context.Background(), setupRepo(t))
	require.NoError(t, err)

	assert.Error(t, store.SetScanCooldown(context.Background(), 0))
	assert.Error(t, store.SetScanCooldown(context.Background(), -time.Second))
	assert.Equal(t, settings.DefaultScanCooldown, store.ScanCooldown())
}

func TestNewStore_IgnoresCorruptPersistedValue(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.PutState(ctx, "scan_cooldown_ms", "not-a-number"))

	store, err := settings.NewStore(ctx, repo)
	require.NoError(t, err)
	assert.Equal(t, settings.DefaultScanCooldown, store.ScanCooldown())
}
