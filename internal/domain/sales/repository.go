package sales

import (
	"context"
	"time"

	"github.com/tentenpanashe01/retail-backend/internal/core/id"
)

// Filter narrows sale queries.
type Filter struct {
	CashierID *id.ID
	FromDate  *time.Time
	ToDate    *time.Time
	Limit     int
	Offset    int
}

// Repository persists sales together with their lines.
type Repository interface {
	// Create stores the sale header and all its lines.
	Create(ctx context.Context, sale *Sale) error

	// UpdateTotals rewrites the header aggregates.
	UpdateTotals(ctx context.Context, sale *Sale) error

	// GetByID returns the sale with lines loaded.
	// Returns NOT_FOUND when the sale does not exist.
	GetByID(ctx context.Context, saleID id.ID) (*Sale, error)

	// GetByIDForUpdate is GetByID under a row lock for line edits.
	GetByIDForUpdate(ctx context.Context, saleID id.ID) (*Sale, error)

	// ListByShop returns a shop's sales, newest first, lines loaded.
	ListByShop(ctx context.Context, shopID id.ID, filter Filter) ([]Sale, error)

	// SaveLine inserts or rewrites one sale line.
	SaveLine(ctx context.Context, line *SaleLine) error

	// DeleteLine removes one sale line.
	DeleteLine(ctx context.Context, lineID id.ID) error
}
