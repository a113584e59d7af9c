package inventory_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tentenpanashe01/retail-backend/internal/core/apperror"
	"github.com/tentenpanashe01/retail-backend/internal/core/id"
	"github.com/tentenpanashe01/retail-backend/internal/core/types"
	"github.com/tentenpanashe01/retail-backend/internal/domain/inventory"
	"github.com/tentenpanashe01/retail-backend/internal/domain/inventory/inventorytest"
)

func newTestService() (*inventory.Service, *inventorytest.MemRepo) {
	repo := inventorytest.NewMemRepo()
	txm := inventorytest.NewMemTxManager(repo)
	return inventory.NewService(repo, txm), repo
}

func TestAdjust_IncreaseCreatesPositionLazily(t *testing.T) {
	svc, repo := newTestService()
	ctx := context.Background()
	shopID, productID := id.New(), id.New()

	cost := types.MustMoney("4.00", "40.00")
	pos, err := svc.Adjust(ctx, shopID, productID, 10, &cost, "opening stock", id.New())
	require.NoError(t, err)

	assert.Equal(t, int64(10), pos.QuantityOnHand)
	assert.True(t, pos.AvgLandingCost().Equal(cost))

	movements, err := repo.MovementsByShop(ctx, shopID, inventory.MovementFilter{})
	require.NoError(t, err)
	require.Len(t, movements, 1)
	assert.Equal(t, inventory.KindAdjustment, movements[0].Kind)
	assert.Equal(t, int64(10), movements[0].QuantityDelta)
}

func TestAdjust_NegativeResultRejectedAndStateUnchanged(t *testing.T) {
	svc, repo := newTestService()
	ctx := context.Background()
	shopID, productID := id.New(), id.New()

	cost := types.MustMoney("4.00", "40.00")
	_, err := svc.Adjust(ctx, shopID, productID, 5, &cost, "opening stock", id.New())
	require.NoError(t, err)

	_, err = svc.Adjust(ctx, shopID, productID, -8, nil, "shrinkage", id.New())
	require.Error(t, err)
	assert.True(t, apperror.IsInsufficientStock(err))

	pos, err := svc.Position(ctx, shopID, productID)
	require.NoError(t, err)
	assert.Equal(t, int64(5), pos.QuantityOnHand)

	movements, err := repo.MovementsByShop(ctx, shopID, inventory.MovementFilter{})
	require.NoError(t, err)
	assert.Len(t, movements, 1, "failed adjustment must not append a ledger entry")
}

func TestLedgerCompleteness(t *testing.T) {
	svc, repo := newTestService()
	ctx := context.Background()
	shopID, productID := id.New(), id.New()
	actor := id.New()

	cost := types.MustMoney("2.50", "25.00")
	_, err := svc.Adjust(ctx, shopID, productID, 20, &cost, "opening stock", actor)
	require.NoError(t, err)
	_, err = svc.Adjust(ctx, shopID, productID, -4, nil, "damage", actor)
	require.NoError(t, err)
	_, err = svc.Adjust(ctx, shopID, productID, 6, nil, "recount", actor)
	require.NoError(t, err)

	pos, err := svc.Position(ctx, shopID, productID)
	require.NoError(t, err)

	movements, err := repo.MovementsByShop(ctx, shopID, inventory.MovementFilter{})
	require.NoError(t, err)

	var sum int64
	for _, m := range movements {
		sum += m.QuantityDelta
	}
	assert.Equal(t, pos.QuantityOnHand, sum,
		"signed delta sum must equal quantity on hand")

	ok, err := svc.VerifyLedger(ctx, shopID, productID)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestDeleteMovement_DoesNotReversePosition(t *testing.T) {
	svc, repo := newTestService()
	ctx := context.Background()
	shopID, productID := id.New(), id.New()

	cost := types.MustMoney("3.00", "30.00")
	_, err := svc.Adjust(ctx, shopID, productID, 12, &cost, "opening stock", id.New())
	require.NoError(t, err)

	movements, err := repo.MovementsByShop(ctx, shopID, inventory.MovementFilter{})
	require.NoError(t, err)
	require.Len(t, movements, 1)

	require.NoError(t, svc.DeleteMovement(ctx, movements[0].ID, id.New()))

	// The position is deliberately left alone; the ledger now diverges.
	pos, err := svc.Position(ctx, shopID, productID)
	require.NoError(t, err)
	assert.Equal(t, int64(12), pos.QuantityOnHand)

	ok, err := svc.VerifyLedger(ctx, shopID, productID)
	require.NoError(t, err)
	assert.False(t, ok, "ledger divergence after administrative deletion is expected")
}

func TestMovements_FilterAndPagination(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()
	shopID, productID := id.New(), id.New()
	actor := id.New()

	cost := types.MustMoney("1.00", "10.00")
	_, err := svc.Adjust(ctx, shopID, productID, 50, &cost, "opening stock", actor)
	require.NoError(t, err)
	for i, reason := range []string{"count 1", "count 2", "count 3"} {
		_, err = svc.Adjust(ctx, shopID, productID, int64(i+1), nil, reason, actor)
		require.NoError(t, err)
	}

	kind := inventory.KindAdjustment
	page, err := svc.MovementsByShop(ctx, shopID, inventory.MovementFilter{
		Kind:   &kind,
		Limit:  2,
		Offset: 1,
	})
	require.NoError(t, err)
	require.Len(t, page, 2)

	// Newest first: page skips "count 3" and holds "count 2", "count 1".
	assert.Equal(t, "count 2", page[0].Reason)
	assert.Equal(t, "count 1", page[1].Reason)

	rest, err := svc.MovementsByShop(ctx, shopID, inventory.MovementFilter{Offset: 3})
	require.NoError(t, err)
	require.Len(t, rest, 1)
	assert.Equal(t, "opening stock", rest[0].Reason)

	past, err := svc.MovementsByShop(ctx, shopID, inventory.MovementFilter{Offset: 10})
	require.NoError(t, err)
	assert.Empty(t, past)
}

func TestVerifyLedger_ScopedToPair(t *testing.T) {
	svc, repo := newTestService()
	ctx := context.Background()
	shopID, productID := id.New(), id.New()
	otherProduct := id.New()
	actor := id.New()

	cost := types.MustMoney("2.00", "20.00")
	_, err := svc.Adjust(ctx, shopID, productID, 7, &cost, "opening stock", actor)
	require.NoError(t, err)
	_, err = svc.Adjust(ctx, shopID, otherProduct, 11, &cost, "opening stock", actor)
	require.NoError(t, err)

	// Diverge only the sibling product's ledger; the pair under
	// verification must stay consistent.
	siblings, err := repo.MovementsByProduct(ctx, otherProduct, inventory.MovementFilter{})
	require.NoError(t, err)
	require.Len(t, siblings, 1)
	require.NoError(t, svc.DeleteMovement(ctx, siblings[0].ID, actor))

	ok, err := svc.VerifyLedger(ctx, shopID, productID)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = svc.VerifyLedger(ctx, shopID, otherProduct)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestConcurrentDecrease_OnlyOneSucceeds(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()
	shopID, productID := id.New(), id.New()

	cost := types.MustMoney("1.00", "10.00")
	_, err := svc.Adjust(ctx, shopID, productID, 5, &cost, "opening stock", id.New())
	require.NoError(t, err)

	// Two concurrent decreases of 3 against a quantity of 5: exactly one
	// must succeed, the other must fail the re-validated sufficiency check.
	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.Adjust(ctx, shopID, productID, -3, nil, "race", id.New())
		}(i)
	}
	wg.Wait()

	var succeeded, insufficient int
	for _, err := range errs {
		switch {
		case err == nil:
			succeeded++
		case apperror.IsInsufficientStock(err):
			insufficient++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, succeeded)
	assert.Equal(t, 1, insufficient)

	pos, err := svc.Position(ctx, shopID, productID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), pos.QuantityOnHand)
}
