package sales_test

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
	"github.com/tentenpanashe01/retail-backend/internal/domain/catalogs/product"
	"github.com/tentenpanashe01/retail-backend/internal/domain/catalogs/shop"
	"github.com/tentenpanashe01/retail-backend/internal/domain/inventory"
	"github.com/tentenpanashe01/retail-backend/internal/domain/inventory/inventorytest"
	"github.com/tentenpanashe01/retail-backend/internal/domain/sales"
)

// memSaleRepo is an in-memory sales.Repository for tests.
type memSaleRepo struct {
	mu    sync.Mutex
	sales map[id.ID]sales.Sale
}

func newMemSaleRepo() *memSaleRepo {
	return &memSaleRepo{sales: make(map[id.ID]sales.Sale)}
}

func copySale(s sales.Sale) sales.Sale {
	lines := make([]sales.SaleLine, len(s.Lines))
	copy(lines, s.Lines)
	s.Lines = lines
	return s
}

func (r *memSaleRepo) Create(ctx context.Context, sale *sales.Sale) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sales[sale.ID] = copySale(*sale)
	return nil
}

func (r *memSaleRepo) UpdateTotals(ctx context.Context, sale *sales.Sale) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.sales[sale.ID]
	if !ok {
		return apperror.NewNotFound("sale", sale.ID)
	}
	stored.TotalAmountUSD = sale.TotalAmountUSD
	stored.TotalAmountZWL = sale.TotalAmountZWL
	stored.TotalProfitUSD = sale.TotalProfitUSD
	stored.TotalProfitZWL = sale.TotalProfitZWL
	r.sales[sale.ID] = stored
	return nil
}

func (r *memSaleRepo) GetByID(ctx context.Context, saleID id.ID) (*sales.Sale, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sales[saleID]
	if !ok {
		return nil, apperror.NewNotFound("sale", saleID)
	}
	copied := copySale(s)
	return &copied, nil
}

func (r *memSaleRepo) GetByIDForUpdate(ctx context.Context, saleID id.ID) (*sales.Sale, error) {
	return r.GetByID(ctx, saleID)
}

func (r *memSaleRepo) ListByShop(ctx context.Context, shopID id.ID, filter sales.Filter) ([]sales.Sale, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []sales.Sale
	for _, s := range r.sales {
		if s.ShopID != shopID {
			continue
		}
		if filter.CashierID != nil && s.CashierID != *filter.CashierID {
			continue
		}
		out = append(out, copySale(s))
	}
	return out, nil
}

func (r *memSaleRepo) SaveLine(ctx context.Context, line *sales.SaleLine) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sales[line.SaleID]
	if !ok {
		return apperror.NewNotFound("sale", line.SaleID)
	}
	for i := range s.Lines {
		if s.Lines[i].ID == line.ID {
			s.Lines[i] = *line
			r.sales[line.SaleID] = s
			return nil
		}
	}
	s.Lines = append(s.Lines, *line)
	r.sales[line.SaleID] = s
	return nil
}

func (r *memSaleRepo) DeleteLine(ctx context.Context, lineID id.ID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for saleID, s := range r.sales {
		for i := range s.Lines {
			if s.Lines[i].ID == lineID {
				s.Lines = append(s.Lines[:i], s.Lines[i+1:]...)
				r.sales[saleID] = s
				return nil
			}
		}
	}
	return apperror.NewNotFound("sale line", lineID)
}

func (r *memSaleRepo) Snapshot() any {
	r.mu.Lock()
	defer r.mu.Unlock()
	snap := make(map[id.ID]sales.Sale, len(r.sales))
	for k, v := range r.sales {
		snap[k] = copySale(v)
	}
	return snap
}

func (r *memSaleRepo) Restore(state any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sales = state.(map[id.ID]sales.Sale)
}

// memShopRepo is an in-memory shop.Repository for tests.
type memShopRepo struct {
	mu    sync.Mutex
	shops map[id.ID]shop.Shop
}

func newMemShopRepo() *memShopRepo {
	return &memShopRepo{shops: make(map[id.ID]shop.Shop)}
}

func (r *memShopRepo) Create(ctx context.Context, s *shop.Shop) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.shops[s.ID] = *s
	return nil
}

func (r *memShopRepo) Update(ctx context.Context, s *shop.Shop) error {
	return r.Create(ctx, s)
}

func (r *memShopRepo) GetByID(ctx context.Context, shopID id.ID) (*shop.Shop, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.shops[shopID]
	if !ok {
		return nil, apperror.NewNotFound("shop", shopID)
	}
	return &s, nil
}

func (r *memShopRepo) List(ctx context.Context) ([]shop.Shop, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]shop.Shop, 0, len(r.shops))
	for _, s := range r.shops {
		out = append(out, s)
	}
	return out, nil
}

func (r *memShopRepo) Delete(ctx context.Context, shopID id.ID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.shops, shopID)
	return nil
}

// memProductRepo is an in-memory product.Repository for tests.
type memProductRepo struct {
	mu       sync.Mutex
	products map[id.ID]product.Product
}

func newMemProductRepo() *memProductRepo {
	return &memProductRepo{products: make(map[id.ID]product.Product)}
}

func (r *memProductRepo) Create(ctx context.Context, p *product.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.products[p.ID] = *p
	return nil
}

func (r *memProductRepo) Update(ctx context.Context, p *product.Product) error {
	return r.Create(ctx, p)
}

func (r *memProductRepo) GetByID(ctx context.Context, productID id.ID) (*product.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.products[productID]
	if !ok {
		return nil, apperror.NewNotFound("product", productID)
	}
	return &p, nil
}

func (r *memProductRepo) List(ctx context.Context) ([]product.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]product.Product, 0, len(r.products))
	for _, p := range r.products {
		out = append(out, p)
	}
	return out, nil
}

func (r *memProductRepo) Delete(ctx context.Context, productID id.ID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.products, productID)
	return nil
}

type fixture struct {
	stock     *inventorytest.MemRepo
	saleRepo  *memSaleRepo
	shops     *memShopRepo
	products  *memProductRepo
	inventory *inventory.Service
	svc       *sales.Service
	shopID    id.ID
	cashierID id.ID
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	stock := inventorytest.NewMemRepo()
	saleRepo := newMemSaleRepo()
	shops := newMemShopRepo()
	products := newMemProductRepo()
	txm := inventorytest.NewMemTxManager(stock, saleRepo)
	inv := inventory.NewService(stock, txm)

	sh := shop.NewShop("Main Street")
	sh.Location = "Harare CBD"
	require.NoError(t, shops.Create(context.Background(), sh))

	return &fixture{
		stock:     stock,
		saleRepo:  saleRepo,
		shops:     shops,
		products:  products,
		inventory: inv,
		svc:       sales.NewService(saleRepo, shops, products, inv, txm),
		shopID:    sh.ID,
		cashierID: id.New(),
	}
}

// addProduct registers a catalog product and stocks the shop.
func (f *fixture) addProduct(t *testing.T, price types.Money, qty int64, cost types.Money) id.ID {
	t.Helper()
	p := product.NewProduct("Cooking Oil 2L", price)
	require.NoError(t, f.products.Create(context.Background(), p))
	if qty > 0 {
		_, err := f.inventory.Adjust(context.Background(), f.shopID, p.ID, qty, &cost, "opening stock", id.New())
		require.NoError(t, err)
	}
	return p.ID
}

func assertDec(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	assert.True(t, got.Equal(decimal.RequireFromString(want)), "want %s, got %s", want, got)
}

func TestCreateSale_FreezesPricesAndProfit(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	productID := f.addProduct(t, types.MustMoney("5.00", "50"), 20, types.MustMoney("3.00", "30"))

	sale, err := f.svc.CreateSale(ctx, f.shopID, f.cashierID,
		[]sales.LineInput{{ProductID: productID, Quantity: 4}}, sales.PaymentCash)
	require.NoError(t, err)

	require.Len(t, sale.Lines, 1)
	line := sale.Lines[0]
	assertDec(t, "5", line.SellingPriceUSD)
	assertDec(t, "3", line.CostPriceUSD)
	assertDec(t, "20", line.TotalUSD)
	assertDec(t, "8", line.ProfitUSD)
	assertDec(t, "200", line.TotalZWL)
	assertDec(t, "80", line.ProfitZWL)
	assertDec(t, "20", sale.TotalAmountUSD)
	assertDec(t, "8", sale.TotalProfitUSD)

	pos, err := f.inventory.Position(ctx, f.shopID, productID)
	require.NoError(t, err)
	assert.EqualValues(t, 16, pos.QuantityOnHand)

	moves, err := f.stock.MovementsByReference(ctx, "SALE-"+sale.ID.String())
	require.NoError(t, err)
	require.Len(t, moves, 1)
	assert.Equal(t, inventory.KindSale, moves[0].Kind)
	assert.EqualValues(t, -4, moves[0].QuantityDelta)
}

func TestCreateSale_UsesShopOverridePrice(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	productID := f.addProduct(t, types.MustMoney("5.00", "50"), 10, types.MustMoney("3.00", "30"))
	_, err := f.inventory.SetSellingPrice(ctx, f.shopID, productID, types.MustMoney("6.50", "65"), id.New())
	require.NoError(t, err)

	sale, err := f.svc.CreateSale(ctx, f.shopID, f.cashierID,
		[]sales.LineInput{{ProductID: productID, Quantity: 2}}, sales.PaymentEcocash)
	require.NoError(t, err)

	assertDec(t, "6.5", sale.Lines[0].SellingPriceUSD)
	assertDec(t, "13", sale.TotalAmountUSD)
	assertDec(t, "7", sale.TotalProfitUSD)
}

func TestCreateSale_AtomicAcrossLines(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	plenty := f.addProduct(t, types.MustMoney("5", "50"), 100, types.MustMoney("2", "20"))
	scarce := f.addProduct(t, types.MustMoney("5", "50"), 1, types.MustMoney("2", "20"))

	_, err := f.svc.CreateSale(ctx, f.shopID, f.cashierID, []sales.LineInput{
		{ProductID: plenty, Quantity: 10},
		{ProductID: scarce, Quantity: 5},
	}, sales.PaymentCard)
	require.Error(t, err)
	assert.True(t, apperror.IsInsufficientStock(err))

	// The first line's deduction rolled back with the sale.
	pos, err := f.inventory.Position(ctx, f.shopID, plenty)
	require.NoError(t, err)
	assert.EqualValues(t, 100, pos.QuantityOnHand)

	listed, err := f.svc.ListByShop(ctx, f.shopID, sales.Filter{})
	require.NoError(t, err)
	assert.Empty(t, listed)
}

func TestCreateSale_RejectsUnknownShopAndProduct(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	productID := f.addProduct(t, types.MustMoney("5", "50"), 10, types.MustMoney("2", "20"))

	_, err := f.svc.CreateSale(ctx, id.New(), f.cashierID,
		[]sales.LineInput{{ProductID: productID, Quantity: 1}}, sales.PaymentCash)
	assert.True(t, apperror.IsNotFound(err))

	_, err = f.svc.CreateSale(ctx, f.shopID, f.cashierID,
		[]sales.LineInput{{ProductID: id.New(), Quantity: 1}}, sales.PaymentCash)
	assert.True(t, apperror.IsNotFound(err))
}

func TestCreateSale_RejectsBadPaymentMethod(t *testing.T) {
	f := newFixture(t)

	productID := f.addProduct(t, types.MustMoney("5", "50"), 10, types.MustMoney("2", "20"))

	_, err := f.svc.CreateSale(context.Background(), f.shopID, f.cashierID,
		[]sales.LineInput{{ProductID: productID, Quantity: 1}}, sales.PaymentMethod("BARTER"))
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeValidation, appErr.Code)
}

func TestUpdateLine_RaisedQuantityDeductsDiff(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	productID := f.addProduct(t, types.MustMoney("5", "50"), 20, types.MustMoney("3", "30"))

	sale, err := f.svc.CreateSale(ctx, f.shopID, f.cashierID,
		[]sales.LineInput{{ProductID: productID, Quantity: 4}}, sales.PaymentCash)
	require.NoError(t, err)
	lineID := sale.Lines[0].ID

	updated, err := f.svc.UpdateLine(ctx, sale.ID, lineID, 6, id.New())
	require.NoError(t, err)

	assertDec(t, "30", updated.TotalAmountUSD)
	assertDec(t, "12", updated.TotalProfitUSD)

	pos, err := f.inventory.Position(ctx, f.shopID, productID)
	require.NoError(t, err)
	assert.EqualValues(t, 14, pos.QuantityOnHand)

	moves, err := f.stock.MovementsByReference(ctx, "SALEITEM-UPD-"+lineID.String())
	require.NoError(t, err)
	require.Len(t, moves, 1)
	assert.Equal(t, inventory.KindAdjustment, moves[0].Kind)
	assert.EqualValues(t, -2, moves[0].QuantityDelta)
}

func TestUpdateLine_LoweredQuantityRestoresAtFrozenCost(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	productID := f.addProduct(t, types.MustMoney("5", "50"), 20, types.MustMoney("3", "30"))

	sale, err := f.svc.CreateSale(ctx, f.shopID, f.cashierID,
		[]sales.LineInput{{ProductID: productID, Quantity: 10}}, sales.PaymentCash)
	require.NoError(t, err)
	lineID := sale.Lines[0].ID

	updated, err := f.svc.UpdateLine(ctx, sale.ID, lineID, 7, id.New())
	require.NoError(t, err)
	assertDec(t, "35", updated.TotalAmountUSD)

	pos, err := f.inventory.Position(ctx, f.shopID, productID)
	require.NoError(t, err)
	assert.EqualValues(t, 13, pos.QuantityOnHand)
	assertDec(t, "3", pos.AvgLandingCostUSD)
}

func TestDeleteLine_RestoresStockAndTotals(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	keep := f.addProduct(t, types.MustMoney("5", "50"), 20, types.MustMoney("3", "30"))
	drop := f.addProduct(t, types.MustMoney("10", "100"), 20, types.MustMoney("4", "40"))

	sale, err := f.svc.CreateSale(ctx, f.shopID, f.cashierID, []sales.LineInput{
		{ProductID: keep, Quantity: 2},
		{ProductID: drop, Quantity: 3},
	}, sales.PaymentSwipe)
	require.NoError(t, err)

	var dropLineID id.ID
	for _, l := range sale.Lines {
		if l.ProductID == drop {
			dropLineID = l.ID
		}
	}

	updated, err := f.svc.DeleteLine(ctx, sale.ID, dropLineID, id.New())
	require.NoError(t, err)

	require.Len(t, updated.Lines, 1)
	assertDec(t, "10", updated.TotalAmountUSD)
	assertDec(t, "4", updated.TotalProfitUSD)

	pos, err := f.inventory.Position(ctx, f.shopID, drop)
	require.NoError(t, err)
	assert.EqualValues(t, 20, pos.QuantityOnHand)

	moves, err := f.stock.MovementsByReference(ctx, "SALEITEM-DEL-"+dropLineID.String())
	require.NoError(t, err)
	require.Len(t, moves, 1)
	assert.EqualValues(t, 3, moves[0].QuantityDelta)
}
