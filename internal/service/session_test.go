package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/modybick/pos/internal/cache"
	"github.com/modybick/pos/internal/catalog"
	"github.com/modybick/pos/internal/domain"
	"github.com/modybick/pos/internal/handoff"
	"github.com/modybick/pos/internal/identity"
	"github.com/modybick/pos/internal/repository"
	"github.com/modybick/pos/internal/service"
)

func setupSession(t *testing.T) (*service.Session, *repository.Repository, *handoff.Store) {
	repo := setupTestRepo(t)

	_, err := repo.BulkUpsertProducts(context.Background(), []domain.Product{
		{Barcode: "A", Name: "Water", Price: 300, Category: "drink"},
		{Barcode: "B", Name: "Coffee", Price: 100, Category: "drink"},
	})
	require.NoError(t, err)

	cat := catalog.NewService(repo, cache.Noop{})
	ledger := service.NewLedger(repo)
	hs := handoff.NewStore(repo)
	idm := identity.NewManager(repo)

	return service.NewSession(cat, ledger, hs, idm), repo, hs
}

func TestOnScan_UnknownBarcodeLeavesCartUnchanged(t *testing.T) {
	session, _, _ := setupSession(t)
	ctx := context.Background()

	_, err := session.OnScan(ctx, "unregistered")
	assert.ErrorIs(t, err, repository.ErrProductNotFound)
	assert.Empty(t, session.Entries())
	assert.Equal(t, int64(0), session.Total())
}

func TestOnScan_IncrementsExistingEntry(t *testing.T) {
	session, _, _ := setupSession(t)
	ctx := context.Background()

	first, err := session.OnScan(ctx, "B")
	require.NoError(t, err)
	assert.Equal(t, 1, first.Quantity)

	second, err := session.OnScan(ctx, "B")
	require.NoError(t, err)
	assert.Equal(t, 2, second.Quantity)

	assert.Len(t, session.Entries(), 1)
	assert.Equal(t, int64(200), session.Total())
}

func TestTotal_MatchesEntriesAfterEveryMutation(t *testing.T) {
	session, _, _ := setupSession(t)
	ctx := context.Background()

	check := func() {
		t.Helper()
		var want int64
		for _, e := range session.Entries() {
			want += e.UnitPrice * int64(e.Quantity)
		}
		assert.Equal(t, want, session.Total())
	}

	_, err := session.OnScan(ctx, "A")
	require.NoError(t, err)
	check()

	_, err = session.OnScan(ctx, "B")
	require.NoError(t, err)
	check()

	session.AdjustQuantity("A", 3)
	check()

	session.AdjustQuantity("B", -1)
	check()
}

func TestCheckout_CommitsAndClearsCart(t *testing.T) {
	session, repo, _ := setupSession(t)
	ctx := context.Background()

	_, err := session.OnScan(ctx, "B")
	require.NoError(t, err)
	_, err = session.OnScan(ctx, "B")
	require.NoError(t, err)
	_, err = session.OnScan(ctx, "A")
	require.NoError(t, err)

	sale, err := session.Checkout(ctx, 600, "cash")
	require.NoError(t, err)

	assert.Equal(t, int64(500), sale.TotalAmount)
	assert.Equal(t, int64(100), sale.ChangeAmount)
	assert.NotEmpty(t, sale.TerminalID)
	assert.Empty(t, session.Entries(), "cart must be cleared after a durable commit")

	lines, err := repo.GetSaleLines(ctx, sale.ID)
	require.NoError(t, err)
	require.Len(t, lines, 2)
	assert.Equal(t, "A", lines[0].ProductBarcode)
	assert.Equal(t, "B", lines[1].ProductBarcode)
}

func TestCheckout_FailureKeepsCart(t *testing.T) {
	session, _, _ := setupSession(t)
	ctx := context.Background()

	_, err := session.OnScan(ctx, "A")
	require.NoError(t, err)

	_, err = session.Checkout(ctx, 100, "cash")
	assert.ErrorIs(t, err, service.ErrInsufficientTender)
	assert.Len(t, session.Entries(), 1, "failed checkout must not clear the cart")
}

func TestRestorePending_UsesSnapshotValuesNotCatalog(t *testing.T) {
	session, _, hs := setupSession(t)
	ctx := context.Background()

	// The snapshot carries a price that differs from the current catalog;
	// the snapshot wins.
	require.NoError(t, hs.Request(ctx, []domain.SaleLine{
		{ProductBarcode: "B", ProductName: "Coffee (old label)", UnitPrice: 80, Quantity: 2},
	}))

	restored, err := session.RestorePending(ctx)
	require.NoError(t, err)
	assert.True(t, restored)

	entries := session.Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, "Coffee (old label)", entries[0].Name)
	assert.Equal(t, int64(80), entries[0].UnitPrice)
	assert.Equal(t, int64(160), session.Total())

	// The snapshot was consumed; a second restore finds nothing.
	restored, err = session.RestorePending(ctx)
	require.NoError(t, err)
	assert.False(t, restored)
}
