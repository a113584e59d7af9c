package inventory

import (
	"context"
	"time"

	"github.com/tentenpanashe01/retail-backend/internal/core/id"
)

// Repository defines storage operations for stock positions and the
// movement ledger. Implementations enforce the (shop, product) uniqueness
// at the storage layer; duplicate pairs must fail, never silently merge.
type Repository interface {
	// Position operations

	// GetPosition returns the position for a (shop, product) pair.
	// Returns apperror NOT_FOUND when no movement has touched the pair yet.
	GetPosition(ctx context.Context, shopID, productID id.ID) (*StockPosition, error)

	// GetPositionForUpdate returns the position with a row lock for the
	// duration of the enclosing transaction. Returns a zero-valued
	// position when none exists yet (lazy creation).
	GetPositionForUpdate(ctx context.Context, shopID, productID id.ID) (*StockPosition, error)

	// SavePosition upserts the position keyed on (shop_id, product_id).
	SavePosition(ctx context.Context, pos *StockPosition) error

	// ListPositionsByShop returns all positions for a shop.
	ListPositionsByShop(ctx context.Context, shopID id.ID) ([]StockPosition, error)

	// ListPositionsByProduct returns positions across all shops for a product.
	ListPositionsByProduct(ctx context.Context, productID id.ID) ([]StockPosition, error)

	// Ledger operations

	// AppendMovements batch inserts ledger entries. Entries are immutable
	// once written.
	AppendMovements(ctx context.Context, movements []StockMovement) error

	// GetMovement returns a single ledger entry.
	GetMovement(ctx context.Context, movementID id.ID) (*StockMovement, error)

	// MovementsByShop returns ledger history for a shop.
	MovementsByShop(ctx context.Context, shopID id.ID, filter MovementFilter) ([]StockMovement, error)

	// MovementsByProduct returns ledger history for a product.
	MovementsByProduct(ctx context.Context, productID id.ID, filter MovementFilter) ([]StockMovement, error)

	// MovementsByReference returns the ledger entries correlated to one
	// originating workflow invocation.
	MovementsByReference(ctx context.Context, referenceID string) ([]StockMovement, error)

	// DeleteMovement removes a ledger entry. Administrative correction
	// only; the corresponding position is left untouched.
	DeleteMovement(ctx context.Context, movementID id.ID) error
}

// MovementFilter narrows ledger history queries.
type MovementFilter struct {
	// ShopID narrows a product history to a single shop.
	ShopID   *id.ID
	Kind     *MovementKind
	FromDate *time.Time
	ToDate   *time.Time
	Limit    int
	Offset   int
}
