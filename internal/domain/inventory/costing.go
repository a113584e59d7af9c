package inventory

import (
	"github.com/shopspring/decimal"

	"github.com/tentenpanashe01/retail-backend/internal/core/apperror"
	"github.com/tentenpanashe01/retail-backend/internal/core/types"
)

// Costing engine. ApplyIncrease and ApplyDecrease are the only code that
// changes a position's quantity or average cost; every successful call must
// be paired with exactly one ledger append in the same transaction -- the
// Service methods Increase and Decrease enforce that pairing.

// ApplyIncrease blends qty units at unitCost into the position's
// weighted-average cost and raises the on-hand quantity.
//
// The old average is weighted by the pre-update quantity:
//
//	newAvg = (oldAvg*oldQty + unitCost*qty) / (oldQty + qty)
func ApplyIncrease(pos *StockPosition, qty int64, unitCost types.Money) error {
	if qty <= 0 {
		return apperror.NewValidation("increase quantity must be positive").
			WithDetail("quantity", qty)
	}
	if unitCost.IsNegative() {
		return apperror.NewValidation("unit cost must not be negative")
	}

	oldQty := pos.QuantityOnHand
	newQty := oldQty + qty

	oldValue := pos.AvgLandingCost().MulInt(oldQty)
	addedValue := unitCost.MulInt(qty)

	// newQty > 0 always holds here; the fallback covers the oldQty == 0 case
	// exactly (average becomes the incoming unit cost).
	newAvg := oldValue.Add(addedValue).DivInt(newQty)

	pos.QuantityOnHand = newQty
	pos.SetAvgLandingCost(newAvg)
	return nil
}

// ApplyDecrease deducts qty units at the current average cost. The average
// is left unchanged: weighted-average costing does not revalue remaining
// stock on issue. Returns the average cost at the moment of deduction so
// the caller can freeze it onto a ledger or sale record.
func ApplyDecrease(pos *StockPosition, qty int64) (types.Money, error) {
	if qty <= 0 {
		return types.ZeroMoney(), apperror.NewValidation("decrease quantity must be positive").
			WithDetail("quantity", qty)
	}
	if pos.QuantityOnHand < qty {
		return types.ZeroMoney(), apperror.NewInsufficientStock(
			pos.ShopID.String(), pos.ProductID.String(), qty, pos.QuantityOnHand)
	}

	pos.QuantityOnHand -= qty
	return pos.AvgLandingCost(), nil
}

// ProrationLine is one purchase-order line as seen by expense proration.
type ProrationLine struct {
	Quantity  int64
	TotalCost types.Money
}

// ProrateExpenses distributes an order's indirect expenses across its lines
// proportionally to each line's share of the total line cost, independently
// per currency, and returns the landed unit cost for every line:
//
//	landed = (lineTotal + expense*lineTotal/sumOfLineTotals) / quantity
//
// A currency track whose line-cost denominator is zero allocates zero
// expense in that track.
func ProrateExpenses(lines []ProrationLine, totalExpense types.Money) ([]types.Money, error) {
	if len(lines) == 0 {
		return nil, apperror.NewValidation("at least one order line is required")
	}

	sum := types.ZeroMoney()
	for i, l := range lines {
		if l.Quantity <= 0 {
			return nil, apperror.NewValidation("line quantity must be positive").
				WithDetail("line", i+1)
		}
		sum = sum.Add(l.TotalCost)
	}

	landed := make([]types.Money, len(lines))
	for i, l := range lines {
		allocated := types.NewMoney(
			allocate(totalExpense.USD, l.TotalCost.USD, sum.USD),
			allocate(totalExpense.ZWL, l.TotalCost.ZWL, sum.ZWL),
		)
		landed[i] = l.TotalCost.Add(allocated).DivInt(l.Quantity)
	}
	return landed, nil
}

// allocate returns expense * lineTotal / sum, or zero when sum is zero.
func allocate(expense, lineTotal, sum decimal.Decimal) decimal.Decimal {
	if sum.IsZero() {
		return decimal.Zero
	}
	return expense.Mul(lineTotal).Div(sum)
}
