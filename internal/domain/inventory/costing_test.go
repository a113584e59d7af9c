package inventory

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tentenpanashe01/retail-backend/internal/core/apperror"
	"github.com/tentenpanashe01/retail-backend/internal/core/id"
	"github.com/tentenpanashe01/retail-backend/internal/core/types"
)

func newTestPosition() *StockPosition {
	return NewStockPosition(id.New(), id.New())
}

func TestApplyIncrease_WeightedAverage(t *testing.T) {
	pos := newTestPosition()

	// 10 units at 2.00, then 5 units at 5.00 -> average (10*2 + 5*5)/15 = 3.00
	require.NoError(t, ApplyIncrease(pos, 10, types.MustMoney("2.00", "20.00")))
	require.NoError(t, ApplyIncrease(pos, 5, types.MustMoney("5.00", "50.00")))

	assert.Equal(t, int64(15), pos.QuantityOnHand)
	assert.True(t, pos.AvgLandingCostUSD.Equal(decimal.RequireFromString("3")),
		"USD average = %s", pos.AvgLandingCostUSD)
	assert.True(t, pos.AvgLandingCostZWL.Equal(decimal.RequireFromString("30")),
		"ZWL average = %s", pos.AvgLandingCostZWL)
}

func TestApplyIncrease_FirstReceiptSetsAverage(t *testing.T) {
	pos := newTestPosition()

	require.NoError(t, ApplyIncrease(pos, 7, types.MustMoney("1.25", "12.50")))

	assert.Equal(t, int64(7), pos.QuantityOnHand)
	assert.True(t, pos.AvgLandingCost().Equal(types.MustMoney("1.25", "12.50")))
}

func TestApplyIncrease_RejectsNonPositiveQuantity(t *testing.T) {
	pos := newTestPosition()

	for _, qty := range []int64{0, -3} {
		err := ApplyIncrease(pos, qty, types.MustMoney("1.00", "10.00"))
		require.Error(t, err)
		appErr, ok := apperror.AsAppError(err)
		require.True(t, ok)
		assert.Equal(t, apperror.CodeValidation, appErr.Code)
	}
	assert.Equal(t, int64(0), pos.QuantityOnHand)
}

func TestApplyDecrease_LeavesAverageUnchanged(t *testing.T) {
	pos := newTestPosition()
	require.NoError(t, ApplyIncrease(pos, 10, types.MustMoney("2.00", "20.00")))
	require.NoError(t, ApplyIncrease(pos, 5, types.MustMoney("5.00", "50.00")))

	cost, err := ApplyDecrease(pos, 6)
	require.NoError(t, err)

	assert.Equal(t, int64(9), pos.QuantityOnHand)
	assert.True(t, cost.USD.Equal(decimal.RequireFromString("3")), "frozen cost = %s", cost.USD)
	assert.True(t, pos.AvgLandingCostUSD.Equal(decimal.RequireFromString("3")),
		"decrease must not revalue remaining stock")
}

func TestApplyDecrease_InsufficientStock(t *testing.T) {
	pos := newTestPosition()
	require.NoError(t, ApplyIncrease(pos, 5, types.MustMoney("2.00", "20.00")))

	_, err := ApplyDecrease(pos, 6)
	require.Error(t, err)
	assert.True(t, apperror.IsInsufficientStock(err))

	// Rejected operation leaves the position unchanged.
	assert.Equal(t, int64(5), pos.QuantityOnHand)
	assert.True(t, pos.AvgLandingCost().Equal(types.MustMoney("2.00", "20.00")))
}

func TestApplyDecrease_NeverGoesNegative(t *testing.T) {
	pos := newTestPosition()
	require.NoError(t, ApplyIncrease(pos, 3, types.MustMoney("1.00", "10.00")))

	for _, qty := range []int64{1, 1, 1, 1} {
		_, err := ApplyDecrease(pos, qty)
		if err != nil {
			assert.True(t, apperror.IsInsufficientStock(err))
		}
		assert.GreaterOrEqual(t, pos.QuantityOnHand, int64(0))
	}
	assert.Equal(t, int64(0), pos.QuantityOnHand)
}

func TestProrateExpenses_ProportionalAllocation(t *testing.T) {
	// Lines with total costs 300 and 700 plus a 100 expense allocate
	// 30 and 70 respectively.
	lines := []ProrationLine{
		{Quantity: 100, TotalCost: types.MustMoney("300", "3000")},
		{Quantity: 70, TotalCost: types.MustMoney("700", "7000")},
	}
	expense := types.MustMoney("100", "1000")

	landed, err := ProrateExpenses(lines, expense)
	require.NoError(t, err)
	require.Len(t, landed, 2)

	// (300 + 30) / 100 = 3.30
	assert.True(t, landed[0].USD.Equal(decimal.RequireFromString("3.3")),
		"line 1 landed USD = %s", landed[0].USD)
	// (700 + 70) / 70 = 11.00
	assert.True(t, landed[1].USD.Equal(decimal.RequireFromString("11")),
		"line 2 landed USD = %s", landed[1].USD)
	// Same proportions on the ZWL track.
	assert.True(t, landed[0].ZWL.Equal(decimal.RequireFromString("33")))
	assert.True(t, landed[1].ZWL.Equal(decimal.RequireFromString("110")))
}

func TestProrateExpenses_ZeroDenominatorAllocatesNothing(t *testing.T) {
	// ZWL line costs are all zero: that track gets no allocated expense
	// instead of dividing by zero.
	lines := []ProrationLine{
		{Quantity: 10, TotalCost: types.MustMoney("200", "0")},
		{Quantity: 5, TotalCost: types.MustMoney("300", "0")},
	}
	expense := types.MustMoney("50", "500")

	landed, err := ProrateExpenses(lines, expense)
	require.NoError(t, err)

	// USD: (200 + 50*200/500)/10 = 22.00
	assert.True(t, landed[0].USD.Equal(decimal.RequireFromString("22")))
	// ZWL: (0 + 0)/10 = 0
	assert.True(t, landed[0].ZWL.IsZero())
	assert.True(t, landed[1].ZWL.IsZero())
}

func TestProrateExpenses_Validation(t *testing.T) {
	_, err := ProrateExpenses(nil, types.ZeroMoney())
	require.Error(t, err)

	_, err = ProrateExpenses([]ProrationLine{{Quantity: 0, TotalCost: types.MustMoney("10", "100")}}, types.ZeroMoney())
	require.Error(t, err)
}
