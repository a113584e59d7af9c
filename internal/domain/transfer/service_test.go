package transfer_test

import (
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tentenpanashe01/retail-backend/internal/core/apperror"
	"github.com/tentenpanashe01/retail-backend/internal/core/id"
	"github.com/tentenpanashe01/retail-backend/internal/core/types"
	"github.com/tentenpanashe01/retail-backend/internal/domain/inventory"
	"github.com/tentenpanashe01/retail-backend/internal/domain/inventory/inventorytest"
	"github.com/tentenpanashe01/retail-backend/internal/domain/transfer"
)

// memTransferRepo is an in-memory transfer.Repository for tests.
type memTransferRepo struct {
	mu        sync.Mutex
	transfers map[id.ID]transfer.Transfer
}

func newMemTransferRepo() *memTransferRepo {
	return &memTransferRepo{transfers: make(map[id.ID]transfer.Transfer)}
}

func (r *memTransferRepo) Create(ctx context.Context, t *transfer.Transfer) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.transfers[t.ID] = *t
	return nil
}

func (r *memTransferRepo) Update(ctx context.Context, t *transfer.Transfer) error {
	return r.Create(ctx, t)
}

func (r *memTransferRepo) GetByID(ctx context.Context, transferID id.ID) (*transfer.Transfer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.transfers[transferID]
	if !ok {
		return nil, apperror.NewNotFound("transfer", transferID)
	}
	return &t, nil
}

func (r *memTransferRepo) GetByIDForUpdate(ctx context.Context, transferID id.ID) (*transfer.Transfer, error) {
	return r.GetByID(ctx, transferID)
}

func (r *memTransferRepo) List(ctx context.Context) ([]transfer.Transfer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]transfer.Transfer, 0, len(r.transfers))
	for _, t := range r.transfers {
		out = append(out, t)
	}
	return out, nil
}

func (r *memTransferRepo) ListByShop(ctx context.Context, shopID id.ID) ([]transfer.Transfer, error) {
	all, _ := r.List(ctx)
	out := all[:0]
	for _, t := range all {
		if t.FromShopID == shopID || t.ToShopID == shopID {
			out = append(out, t)
		}
	}
	return out, nil
}

func (r *memTransferRepo) ListByStatus(ctx context.Context, status transfer.Status) ([]transfer.Transfer, error) {
	all, _ := r.List(ctx)
	out := all[:0]
	for _, t := range all {
		if t.Status == status {
			out = append(out, t)
		}
	}
	return out, nil
}

func (r *memTransferRepo) Delete(ctx context.Context, transferID id.ID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.transfers, transferID)
	return nil
}

func (r *memTransferRepo) Snapshot() any {
	r.mu.Lock()
	defer r.mu.Unlock()
	snap := make(map[id.ID]transfer.Transfer, len(r.transfers))
	for k, v := range r.transfers {
		snap[k] = v
	}
	return snap
}

func (r *memTransferRepo) Restore(state any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.transfers = state.(map[id.ID]transfer.Transfer)
}

type fixture struct {
	stock     *inventorytest.MemRepo
	inventory *inventory.Service
	svc       *transfer.Service
}

func newFixture() *fixture {
	stock := inventorytest.NewMemRepo()
	transfers := newMemTransferRepo()
	txm := inventorytest.NewMemTxManager(stock, transfers)
	inv := inventory.NewService(stock, txm)
	return &fixture{
		stock:     stock,
		inventory: inv,
		svc:       transfer.NewService(transfers, inv, txm),
	}
}

// assertDec compares a decimal by value, ignoring exponent representation.
func assertDec(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	assert.True(t, got.Equal(decimal.RequireFromString(want)), "want %s, got %s", want, got)
}

// seed gives a shop an opening position via a manual adjustment.
func seed(t *testing.T, f *fixture, shopID, productID id.ID, qty int64, cost types.Money) {
	t.Helper()
	_, err := f.inventory.Adjust(context.Background(), shopID, productID, qty, &cost, "opening stock", id.New())
	require.NoError(t, err)
}

func TestCreate_FreezesSourceCost(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	from, to, productID := id.New(), id.New(), id.New()
	seed(t, f, from, productID, 50, types.MustMoney("4.00", "40"))

	tr := &transfer.Transfer{
		FromShopID:  from,
		ToShopID:    to,
		ProductID:   productID,
		Quantity:    20,
		RequestedBy: id.New(),
	}
	require.NoError(t, f.svc.Create(ctx, tr))

	assert.Equal(t, transfer.StatusPending, tr.Status)
	assert.True(t, strings.HasPrefix(tr.ReferenceCode, "TXF-"))
	assert.Len(t, tr.ReferenceCode, 12)
	assert.Equal(t, strings.ToUpper(tr.ReferenceCode), tr.ReferenceCode)
	assertDec(t, "4", tr.UnitCostUSD)
	assertDec(t, "80", tr.TotalCostUSD)
	assertDec(t, "800", tr.TotalCostZWL)

	// Requesting does not move stock.
	pos, err := f.inventory.Position(ctx, from, productID)
	require.NoError(t, err)
	assert.EqualValues(t, 50, pos.QuantityOnHand)
}

func TestComplete_LandsAtFrozenCost(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	from, to, productID := id.New(), id.New(), id.New()
	seed(t, f, from, productID, 50, types.MustMoney("4.00", "40"))

	tr := &transfer.Transfer{
		FromShopID: from, ToShopID: to, ProductID: productID,
		Quantity: 20, RequestedBy: id.New(),
	}
	require.NoError(t, f.svc.Create(ctx, tr))

	// Source average drifts to 6.00 after the request.
	cost := types.MustMoney("6.00", "60")
	_, err := f.inventory.Adjust(ctx, from, productID, 30, &cost, "revaluation", id.New())
	require.NoError(t, err)

	done, err := f.svc.Complete(ctx, tr.ID, id.New())
	require.NoError(t, err)
	assert.Equal(t, transfer.StatusCompleted, done.Status)
	require.NotNil(t, done.CompletedAt)
	require.NotNil(t, done.ApprovedBy)

	// Destination lands at the frozen 4.00, not the drifted 6.00.
	dst, err := f.inventory.Position(ctx, to, productID)
	require.NoError(t, err)
	assert.EqualValues(t, 20, dst.QuantityOnHand)
	assertDec(t, "4", dst.AvgLandingCostUSD)
	assertDec(t, "40", dst.AvgLandingCostZWL)

	src, err := f.inventory.Position(ctx, from, productID)
	require.NoError(t, err)
	assert.EqualValues(t, 60, src.QuantityOnHand)

	moves, err := f.stock.MovementsByReference(ctx, tr.ReferenceCode)
	require.NoError(t, err)
	require.Len(t, moves, 2)
}

func TestComplete_RejectsDoubleCompletion(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	from, to, productID := id.New(), id.New(), id.New()
	seed(t, f, from, productID, 10, types.MustMoney("2", "20"))

	tr := &transfer.Transfer{
		FromShopID: from, ToShopID: to, ProductID: productID,
		Quantity: 5, RequestedBy: id.New(),
	}
	require.NoError(t, f.svc.Create(ctx, tr))

	_, err := f.svc.Complete(ctx, tr.ID, id.New())
	require.NoError(t, err)

	_, err = f.svc.Complete(ctx, tr.ID, id.New())
	require.Error(t, err)
	assert.True(t, apperror.IsBusinessRule(err))

	// Stock moved exactly once.
	dst, err := f.inventory.Position(ctx, to, productID)
	require.NoError(t, err)
	assert.EqualValues(t, 5, dst.QuantityOnHand)
}

func TestComplete_InsufficientStockStaysPending(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	from, to, productID := id.New(), id.New(), id.New()
	seed(t, f, from, productID, 10, types.MustMoney("2", "20"))

	tr := &transfer.Transfer{
		FromShopID: from, ToShopID: to, ProductID: productID,
		Quantity: 8, RequestedBy: id.New(),
	}
	require.NoError(t, f.svc.Create(ctx, tr))

	// Stock is sold down between request and completion.
	_, err := f.inventory.Adjust(ctx, from, productID, -7, nil, "shrinkage", id.New())
	require.NoError(t, err)

	_, err = f.svc.Complete(ctx, tr.ID, id.New())
	require.Error(t, err)
	assert.True(t, apperror.IsInsufficientStock(err))

	got, err := f.svc.GetByID(ctx, tr.ID)
	require.NoError(t, err)
	assert.Equal(t, transfer.StatusPending, got.Status)

	// Destination never saw stock.
	_, err = f.inventory.Position(ctx, to, productID)
	assert.True(t, apperror.IsNotFound(err))
}

func TestCreate_RejectsSameShopAndShortStock(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	shopID, productID := id.New(), id.New()
	seed(t, f, shopID, productID, 3, types.MustMoney("1", "10"))

	err := f.svc.Create(ctx, &transfer.Transfer{
		FromShopID: shopID, ToShopID: shopID, ProductID: productID,
		Quantity: 1, RequestedBy: id.New(),
	})
	require.Error(t, err)

	err = f.svc.Create(ctx, &transfer.Transfer{
		FromShopID: shopID, ToShopID: id.New(), ProductID: productID,
		Quantity: 5, RequestedBy: id.New(),
	})
	assert.True(t, apperror.IsInsufficientStock(err))
}

func TestDelete_RejectsCompleted(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	from, to, productID := id.New(), id.New(), id.New()
	seed(t, f, from, productID, 10, types.MustMoney("2", "20"))

	tr := &transfer.Transfer{
		FromShopID: from, ToShopID: to, ProductID: productID,
		Quantity: 5, RequestedBy: id.New(),
	}
	require.NoError(t, f.svc.Create(ctx, tr))
	_, err := f.svc.Complete(ctx, tr.ID, id.New())
	require.NoError(t, err)

	err = f.svc.Delete(ctx, tr.ID)
	assert.True(t, apperror.IsBusinessRule(err))
}
