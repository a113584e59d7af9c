package sales

import (
	"context"
	"fmt"
	"time"

	"github.com/tentenpanashe01/retail-backend/internal/core/apperror"
	"github.com/tentenpanashe01/retail-backend/internal/core/id"
	"github.com/tentenpanashe01/retail-backend/internal/core/tx"
	"github.com/tentenpanashe01/retail-backend/internal/core/types"
	"github.com/tentenpanashe01/retail-backend/internal/domain/catalogs/product"
	"github.com/tentenpanashe01/retail-backend/internal/domain/catalogs/shop"
	"github.com/tentenpanashe01/retail-backend/internal/domain/inventory"
	"github.com/tentenpanashe01/retail-backend/pkg/logger"
)

// Service runs the sale consumption workflow.
type Service struct {
	repo      Repository
	shops     shop.Repository
	products  product.Repository
	inventory *inventory.Service
	txManager tx.Manager
}

// NewService creates a new sales service.
func NewService(repo Repository, shops shop.Repository, products product.Repository, inv *inventory.Service, txManager tx.Manager) *Service {
	return &Service{
		repo:      repo,
		shops:     shops,
		products:  products,
		inventory: inv,
		txManager: txManager,
	}
}

// CreateSale rings up a sale. Every line deducts shop stock at the current
// average cost and freezes both the cost and the selling price (shop
// override when set, else catalog price) onto the line. The whole sale is
// one transaction: a later line failing on stock rolls back every earlier
// deduction and the sale itself.
func (s *Service) CreateSale(ctx context.Context, shopID, cashierID id.ID, lines []LineInput, method PaymentMethod) (*Sale, error) {
	if err := validateInput(ctx, shopID, cashierID, lines, method); err != nil {
		return nil, err
	}

	var sale *Sale
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if _, err := s.shops.GetByID(ctx, shopID); err != nil {
			return err
		}

		sale = &Sale{
			ID:            id.New(),
			ShopID:        shopID,
			CashierID:     cashierID,
			SaleDate:      time.Now().UTC(),
			PaymentMethod: method,
			Lines:         make([]SaleLine, 0, len(lines)),
		}
		reference := "SALE-" + sale.ID.String()

		totalAmount := types.ZeroMoney()
		totalProfit := types.ZeroMoney()

		for _, input := range lines {
			prod, err := s.products.GetByID(ctx, input.ProductID)
			if err != nil {
				return err
			}

			price := prod.SellingPrice()
			if pos, err := s.inventory.Position(ctx, shopID, input.ProductID); err == nil {
				if override, ok := pos.SellingPriceOverride(); ok {
					price = override
				}
			} else if !apperror.IsNotFound(err) {
				return err
			}

			cost, err := s.inventory.Decrease(ctx, shopID, input.ProductID,
				input.Quantity, inventory.KindSale, "Sale of "+prod.Name, reference)
			if err != nil {
				return err
			}

			line := SaleLine{
				ID:              id.New(),
				SaleID:          sale.ID,
				ProductID:       input.ProductID,
				Quantity:        input.Quantity,
				SellingPriceUSD: price.USD,
				SellingPriceZWL: price.ZWL,
				CostPriceUSD:    cost.USD,
				CostPriceZWL:    cost.ZWL,
			}
			line.recompute()
			sale.Lines = append(sale.Lines, line)

			totalAmount = totalAmount.Add(line.Total())
			totalProfit = totalProfit.Add(line.Profit())
		}

		sale.TotalAmountUSD = totalAmount.USD
		sale.TotalAmountZWL = totalAmount.ZWL
		sale.TotalProfitUSD = totalProfit.USD
		sale.TotalProfitZWL = totalProfit.ZWL

		if err := s.repo.Create(ctx, sale); err != nil {
			return fmt.Errorf("create sale: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "sale recorded",
		"sale_id", sale.ID,
		"shop_id", shopID,
		"cashier_id", cashierID,
		"lines", len(sale.Lines),
		"total_usd", sale.TotalAmountUSD,
		"payment_method", method,
	)
	return sale, nil
}

// UpdateLine changes the quantity of one sale line after the fact. The
// stock delta between the new and old quantity is applied as an ADJUSTMENT
// at the line's frozen cost; an increased quantity is re-validated against
// current stock. Totals and profit are recomputed with the frozen prices.
func (s *Service) UpdateLine(ctx context.Context, saleID, lineID id.ID, newQuantity int64, actorID id.ID) (*Sale, error) {
	if newQuantity <= 0 {
		return nil, apperror.NewValidation("quantity must be positive").
			WithDetail("quantity", newQuantity)
	}

	var updated *Sale
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		sale, err := s.repo.GetByIDForUpdate(ctx, saleID)
		if err != nil {
			return err
		}

		line := findLine(sale, lineID)
		if line == nil {
			return apperror.NewNotFound("sale line", lineID)
		}

		diff := newQuantity - line.Quantity
		reference := "SALEITEM-UPD-" + lineID.String()
		switch {
		case diff > 0:
			if _, err := s.inventory.Decrease(ctx, sale.ShopID, line.ProductID,
				diff, inventory.KindAdjustment, "Sale line quantity raised", reference); err != nil {
				return err
			}
		case diff < 0:
			if _, err := s.inventory.Increase(ctx, sale.ShopID, line.ProductID,
				-diff, line.CostPrice(), inventory.KindAdjustment,
				"Sale line quantity lowered", reference); err != nil {
				return err
			}
		default:
			updated = sale
			return nil
		}

		line.Quantity = newQuantity
		line.recompute()
		if err := s.repo.SaveLine(ctx, line); err != nil {
			return fmt.Errorf("save sale line: %w", err)
		}

		recomputeTotals(sale)
		if err := s.repo.UpdateTotals(ctx, sale); err != nil {
			return fmt.Errorf("update sale totals: %w", err)
		}

		updated = sale
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "sale line updated",
		"sale_id", saleID,
		"line_id", lineID,
		"quantity", newQuantity,
		"actor_id", actorID,
	)
	return updated, nil
}

// DeleteLine removes one sale line and restores its quantity to stock at
// the line's frozen cost via an ADJUSTMENT entry.
func (s *Service) DeleteLine(ctx context.Context, saleID, lineID id.ID, actorID id.ID) (*Sale, error) {
	var updated *Sale
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		sale, err := s.repo.GetByIDForUpdate(ctx, saleID)
		if err != nil {
			return err
		}

		line := findLine(sale, lineID)
		if line == nil {
			return apperror.NewNotFound("sale line", lineID)
		}

		reference := "SALEITEM-DEL-" + lineID.String()
		if _, err := s.inventory.Increase(ctx, sale.ShopID, line.ProductID,
			line.Quantity, line.CostPrice(), inventory.KindAdjustment,
			"Sale line removed", reference); err != nil {
			return err
		}

		if err := s.repo.DeleteLine(ctx, lineID); err != nil {
			return fmt.Errorf("delete sale line: %w", err)
		}

		lines := sale.Lines[:0]
		for _, l := range sale.Lines {
			if l.ID != lineID {
				lines = append(lines, l)
			}
		}
		sale.Lines = lines

		recomputeTotals(sale)
		if err := s.repo.UpdateTotals(ctx, sale); err != nil {
			return fmt.Errorf("update sale totals: %w", err)
		}

		updated = sale
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "sale line deleted",
		"sale_id", saleID,
		"line_id", lineID,
		"actor_id", actorID,
	)
	return updated, nil
}

// GetByID returns one sale with lines.
func (s *Service) GetByID(ctx context.Context, saleID id.ID) (*Sale, error) {
	return s.repo.GetByID(ctx, saleID)
}

// ListByShop returns a shop's sales, optionally filtered by cashier and
// date range.
func (s *Service) ListByShop(ctx context.Context, shopID id.ID, filter Filter) ([]Sale, error) {
	return s.repo.ListByShop(ctx, shopID, filter)
}

func findLine(sale *Sale, lineID id.ID) *SaleLine {
	for i := range sale.Lines {
		if sale.Lines[i].ID == lineID {
			return &sale.Lines[i]
		}
	}
	return nil
}

func recomputeTotals(sale *Sale) {
	amount := types.ZeroMoney()
	profit := types.ZeroMoney()
	for _, l := range sale.Lines {
		amount = amount.Add(l.Total())
		profit = profit.Add(l.Profit())
	}
	sale.TotalAmountUSD = amount.USD
	sale.TotalAmountZWL = amount.ZWL
	sale.TotalProfitUSD = profit.USD
	sale.TotalProfitZWL = profit.ZWL
}
