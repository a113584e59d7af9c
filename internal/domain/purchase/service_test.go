package purchase_test

import (
	"context"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tentenpanashe01/retail-backend/internal/core/apperror"
	"github.com/tentenpanashe01/retail-backend/internal/core/id"
	"github.com/tentenpanashe01/retail-backend/internal/core/types"
	"github.com/tentenpanashe01/retail-backend/internal/domain/expense"
	"github.com/tentenpanashe01/retail-backend/internal/domain/inventory"
	"github.com/tentenpanashe01/retail-backend/internal/domain/inventory/inventorytest"
	"github.com/tentenpanashe01/retail-backend/internal/domain/purchase"
)

// memOrderRepo is an in-memory purchase.Repository for tests.
type memOrderRepo struct {
	mu     sync.Mutex
	orders map[id.ID]purchase.Order
}

func newMemOrderRepo() *memOrderRepo {
	return &memOrderRepo{orders: make(map[id.ID]purchase.Order)}
}

func copyOrder(o purchase.Order) purchase.Order {
	lines := make([]purchase.OrderLine, len(o.Lines))
	copy(lines, o.Lines)
	o.Lines = lines
	return o
}

func (r *memOrderRepo) Create(ctx context.Context, order *purchase.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.orders[order.ID] = copyOrder(*order)
	return nil
}

func (r *memOrderRepo) Update(ctx context.Context, order *purchase.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.orders[order.ID] = copyOrder(*order)
	return nil
}

func (r *memOrderRepo) GetByID(ctx context.Context, orderID id.ID) (*purchase.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.orders[orderID]
	if !ok {
		return nil, apperror.NewNotFound("purchase order", orderID)
	}
	copied := copyOrder(o)
	return &copied, nil
}

func (r *memOrderRepo) GetByIDForUpdate(ctx context.Context, orderID id.ID) (*purchase.Order, error) {
	return r.GetByID(ctx, orderID)
}

func (r *memOrderRepo) List(ctx context.Context) ([]purchase.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]purchase.Order, 0, len(r.orders))
	for _, o := range r.orders {
		out = append(out, copyOrder(o))
	}
	return out, nil
}

func (r *memOrderRepo) ListByShop(ctx context.Context, shopID id.ID) ([]purchase.Order, error) {
	all, _ := r.List(ctx)
	out := all[:0]
	for _, o := range all {
		if o.ShopID == shopID {
			out = append(out, o)
		}
	}
	return out, nil
}

func (r *memOrderRepo) ListByStatus(ctx context.Context, status purchase.Status) ([]purchase.Order, error) {
	all, _ := r.List(ctx)
	out := all[:0]
	for _, o := range all {
		if o.Status == status {
			out = append(out, o)
		}
	}
	return out, nil
}

func (r *memOrderRepo) Delete(ctx context.Context, orderID id.ID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.orders, orderID)
	return nil
}

func (r *memOrderRepo) Snapshot() any {
	r.mu.Lock()
	defer r.mu.Unlock()
	snap := make(map[id.ID]purchase.Order, len(r.orders))
	for k, v := range r.orders {
		snap[k] = copyOrder(v)
	}
	return snap
}

func (r *memOrderRepo) Restore(state any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.orders = state.(map[id.ID]purchase.Order)
}

// memExpenseRepo is an in-memory expense.Repository for tests.
type memExpenseRepo struct {
	mu       sync.Mutex
	expenses map[id.ID]expense.Expense
}

func newMemExpenseRepo() *memExpenseRepo {
	return &memExpenseRepo{expenses: make(map[id.ID]expense.Expense)}
}

func (r *memExpenseRepo) Create(ctx context.Context, e *expense.Expense) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.expenses[e.ID] = *e
	return nil
}

func (r *memExpenseRepo) Update(ctx context.Context, e *expense.Expense) error {
	return r.Create(ctx, e)
}

func (r *memExpenseRepo) GetByID(ctx context.Context, expenseID id.ID) (*expense.Expense, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.expenses[expenseID]
	if !ok {
		return nil, apperror.NewNotFound("expense", expenseID)
	}
	return &e, nil
}

func (r *memExpenseRepo) ListByPurchaseOrder(ctx context.Context, orderID id.ID) ([]expense.Expense, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []expense.Expense
	for _, e := range r.expenses {
		if e.PurchaseOrderID != nil && *e.PurchaseOrderID == orderID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (r *memExpenseRepo) ListByShop(ctx context.Context, shopID id.ID) ([]expense.Expense, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []expense.Expense
	for _, e := range r.expenses {
		if e.ShopID != nil && *e.ShopID == shopID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (r *memExpenseRepo) List(ctx context.Context) ([]expense.Expense, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]expense.Expense, 0, len(r.expenses))
	for _, e := range r.expenses {
		out = append(out, e)
	}
	return out, nil
}

func (r *memExpenseRepo) Delete(ctx context.Context, expenseID id.ID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.expenses, expenseID)
	return nil
}

type fixture struct {
	orders    *memOrderRepo
	stock     *inventorytest.MemRepo
	inventory *inventory.Service
	expenses  *expense.Service
	expRepo   *memExpenseRepo
	svc       *purchase.Service
}

func newFixture() *fixture {
	orders := newMemOrderRepo()
	stock := inventorytest.NewMemRepo()
	expRepo := newMemExpenseRepo()
	txm := inventorytest.NewMemTxManager(stock, orders)

	inv := inventory.NewService(stock, txm)
	exp := expense.NewService(expRepo)
	return &fixture{
		orders:    orders,
		stock:     stock,
		inventory: inv,
		expenses:  exp,
		expRepo:   expRepo,
		svc:       purchase.NewService(orders, inv, exp, txm),
	}
}

// assertDec compares a decimal by value, ignoring exponent representation.
func assertDec(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	assert.True(t, got.Equal(decimal.RequireFromString(want)), "want %s, got %s", want, got)
}

func linkExpense(t *testing.T, f *fixture, orderID id.ID, usd, zwl string) {
	t.Helper()
	e := expense.NewExpense(expense.TypePurchase, types.MustMoney(usd, zwl), id.New())
	e.PurchaseOrderID = &orderID
	e.Category = "Freight"
	require.NoError(t, f.expenses.Create(context.Background(), e))
}

func TestReceive_LandsProratedCosts(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	shopID := id.New()
	productA := id.New()
	productB := id.New()

	order := purchase.NewOrder(shopID, "Mutare Wholesalers", id.New())
	// 100 units at 3.00 => 300 USD, 200 units at 3.50 => 700 USD
	order.AddLine(productA, 100, types.MustMoney("3.00", "30"))
	order.AddLine(productB, 200, types.MustMoney("3.50", "35"))
	require.NoError(t, f.svc.Create(ctx, order))

	linkExpense(t, f, order.ID, "100", "1000")

	received, err := f.svc.Receive(ctx, order.ID, id.New())
	require.NoError(t, err)

	assert.Equal(t, purchase.StatusCompleted, received.Status)
	require.NotNil(t, received.ReceivedDate)
	assertDec(t, "1000", received.TotalCostUSD)
	assertDec(t, "100", received.ExpensesUSD)
	assertDec(t, "10000", received.TotalCostZWL)
	assertDec(t, "1000", received.ExpensesZWL)

	// Line A: (300 + 100*300/1000) / 100 = 3.30
	posA, err := f.inventory.Position(ctx, shopID, productA)
	require.NoError(t, err)
	assert.EqualValues(t, 100, posA.QuantityOnHand)
	assertDec(t, "3.3", posA.AvgLandingCostUSD)
	assertDec(t, "33", posA.AvgLandingCostZWL)

	// Line B: (700 + 100*700/1000) / 200 = 3.85
	posB, err := f.inventory.Position(ctx, shopID, productB)
	require.NoError(t, err)
	assert.EqualValues(t, 200, posB.QuantityOnHand)
	assertDec(t, "3.85", posB.AvgLandingCostUSD)
}

func TestReceive_AppendsReceiptPerLine(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	shopID := id.New()
	order := purchase.NewOrder(shopID, "Harare Traders", id.New())
	order.AddLine(id.New(), 10, types.MustMoney("2", "20"))
	order.AddLine(id.New(), 5, types.MustMoney("4", "40"))
	require.NoError(t, f.svc.Create(ctx, order))
	linkExpense(t, f, order.ID, "15", "150")

	_, err := f.svc.Receive(ctx, order.ID, id.New())
	require.NoError(t, err)

	movements, err := f.stock.MovementsByReference(ctx, "PO-"+order.ID.String())
	require.NoError(t, err)
	require.Len(t, movements, 2)
	for _, m := range movements {
		assert.Equal(t, inventory.KindReceipt, m.Kind)
		assert.Positive(t, m.QuantityDelta)
	}
}

func TestReceive_RequiresExpenses(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	order := purchase.NewOrder(id.New(), "No Freight Ltd", id.New())
	order.AddLine(id.New(), 10, types.MustMoney("2", "20"))
	require.NoError(t, f.svc.Create(ctx, order))

	_, err := f.svc.Receive(ctx, order.ID, id.New())
	require.Error(t, err)
	assert.True(t, apperror.IsBusinessRule(err))

	// Order stays pending and no stock landed.
	got, err := f.svc.GetByID(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, purchase.StatusPending, got.Status)
	_, err = f.inventory.Position(ctx, order.ShopID, order.Lines[0].ProductID)
	assert.True(t, apperror.IsNotFound(err))
}

func TestReceive_RequiresLines(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	order := purchase.NewOrder(id.New(), "Empty Orders Inc", id.New())
	require.NoError(t, f.svc.Create(ctx, order))
	linkExpense(t, f, order.ID, "10", "100")

	_, err := f.svc.Receive(ctx, order.ID, id.New())
	require.Error(t, err)
	assert.True(t, apperror.IsBusinessRule(err))
}

func TestReceive_RejectsNonPending(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	order := purchase.NewOrder(id.New(), "Twice Received", id.New())
	order.AddLine(id.New(), 10, types.MustMoney("2", "20"))
	require.NoError(t, f.svc.Create(ctx, order))
	linkExpense(t, f, order.ID, "10", "100")

	_, err := f.svc.Receive(ctx, order.ID, id.New())
	require.NoError(t, err)

	// Receiving again must not double the stock.
	_, err = f.svc.Receive(ctx, order.ID, id.New())
	require.Error(t, err)
	assert.True(t, apperror.IsBusinessRule(err))

	pos, err := f.inventory.Position(ctx, order.ShopID, order.Lines[0].ProductID)
	require.NoError(t, err)
	assert.EqualValues(t, 10, pos.QuantityOnHand)
}

func TestCancel_PendingOnly(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	order := purchase.NewOrder(id.New(), "Cancelled Co", id.New())
	order.AddLine(id.New(), 1, types.MustMoney("1", "10"))
	require.NoError(t, f.svc.Create(ctx, order))

	require.NoError(t, f.svc.Cancel(ctx, order.ID, id.New()))

	got, err := f.svc.GetByID(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, purchase.StatusCancelled, got.Status)

	err = f.svc.Cancel(ctx, order.ID, id.New())
	assert.True(t, apperror.IsBusinessRule(err))
}

func TestDelete_RejectsCompleted(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	order := purchase.NewOrder(id.New(), "Keep The Record", id.New())
	order.AddLine(id.New(), 2, types.MustMoney("5", "50"))
	require.NoError(t, f.svc.Create(ctx, order))
	linkExpense(t, f, order.ID, "1", "10")

	_, err := f.svc.Receive(ctx, order.ID, id.New())
	require.NoError(t, err)

	err = f.svc.Delete(ctx, order.ID)
	assert.True(t, apperror.IsBusinessRule(err))
}
