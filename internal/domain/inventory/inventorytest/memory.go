// Package inventorytest provides in-memory test doubles for the inventory
// repository and the transaction manager. Use in unit tests to avoid
// database dependencies.
package inventorytest

import (
	"context"
	"sync"
	"time"

	"github.com/tentenpanashe01/retail-backend/internal/core/apperror"
	"github.com/tentenpanashe01/retail-backend/internal/core/id"
	"github.com/tentenpanashe01/retail-backend/internal/core/tx"
	"github.com/tentenpanashe01/retail-backend/internal/domain/inventory"
)

type positionKey struct {
	shopID    id.ID
	productID id.ID
}

// MemRepo is an in-memory implementation of inventory.Repository.
// All access is serialized by a mutex, so two goroutines can never both
// pass a sufficiency check against the same stale quantity.
type MemRepo struct {
	mu        sync.Mutex
	positions map[positionKey]inventory.StockPosition
	movements []inventory.StockMovement
}

// NewMemRepo creates an empty in-memory repository.
func NewMemRepo() *MemRepo {
	return &MemRepo{
		positions: make(map[positionKey]inventory.StockPosition),
	}
}

// GetPosition implements inventory.Repository.
func (r *MemRepo) GetPosition(ctx context.Context, shopID, productID id.ID) (*inventory.StockPosition, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	pos, ok := r.positions[positionKey{shopID, productID}]
	if !ok {
		return nil, apperror.NewNotFound("stock position", shopID.String()+"/"+productID.String())
	}
	copied := pos
	return &copied, nil
}

// GetPositionForUpdate implements inventory.Repository. The in-memory
// double has no row locks; callers relying on lock semantics should wrap
// operations in the MemTxManager, which serializes whole transactions.
func (r *MemRepo) GetPositionForUpdate(ctx context.Context, shopID, productID id.ID) (*inventory.StockPosition, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	pos, ok := r.positions[positionKey{shopID, productID}]
	if !ok {
		return inventory.NewStockPosition(shopID, productID), nil
	}
	copied := pos
	return &copied, nil
}

// SavePosition implements inventory.Repository.
func (r *MemRepo) SavePosition(ctx context.Context, pos *inventory.StockPosition) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	pos.UpdatedAt = time.Now().UTC()
	r.positions[positionKey{pos.ShopID, pos.ProductID}] = *pos
	return nil
}

// ListPositionsByShop implements inventory.Repository.
func (r *MemRepo) ListPositionsByShop(ctx context.Context, shopID id.ID) ([]inventory.StockPosition, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []inventory.StockPosition
	for k, p := range r.positions {
		if k.shopID == shopID {
			out = append(out, p)
		}
	}
	return out, nil
}

// ListPositionsByProduct implements inventory.Repository.
func (r *MemRepo) ListPositionsByProduct(ctx context.Context, productID id.ID) ([]inventory.StockPosition, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []inventory.StockPosition
	for k, p := range r.positions {
		if k.productID == productID {
			out = append(out, p)
		}
	}
	return out, nil
}

// AppendMovements implements inventory.Repository.
func (r *MemRepo) AppendMovements(ctx context.Context, movements []inventory.StockMovement) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.movements = append(r.movements, movements...)
	return nil
}

// GetMovement implements inventory.Repository.
func (r *MemRepo) GetMovement(ctx context.Context, movementID id.ID) (*inventory.StockMovement, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, m := range r.movements {
		if m.ID == movementID {
			copied := m
			return &copied, nil
		}
	}
	return nil, apperror.NewNotFound("stock movement", movementID)
}

// MovementsByShop implements inventory.Repository. The full filter
// contract is honored, newest entries first like the storage layer.
func (r *MemRepo) MovementsByShop(ctx context.Context, shopID id.ID, filter inventory.MovementFilter) ([]inventory.StockMovement, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []inventory.StockMovement
	for _, m := range r.movements {
		if m.ShopID == shopID && matches(m, filter) {
			out = append(out, m)
		}
	}
	return window(out, filter), nil
}

// MovementsByProduct implements inventory.Repository.
func (r *MemRepo) MovementsByProduct(ctx context.Context, productID id.ID, filter inventory.MovementFilter) ([]inventory.StockMovement, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []inventory.StockMovement
	for _, m := range r.movements {
		if m.ProductID == productID && matches(m, filter) {
			out = append(out, m)
		}
	}
	return window(out, filter), nil
}

// MovementsByReference implements inventory.Repository.
func (r *MemRepo) MovementsByReference(ctx context.Context, referenceID string) ([]inventory.StockMovement, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []inventory.StockMovement
	for _, m := range r.movements {
		if m.ReferenceID == referenceID {
			out = append(out, m)
		}
	}
	return out, nil
}

// DeleteMovement implements inventory.Repository.
func (r *MemRepo) DeleteMovement(ctx context.Context, movementID id.ID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, m := range r.movements {
		if m.ID == movementID {
			r.movements = append(r.movements[:i], r.movements[i+1:]...)
			return nil
		}
	}
	return apperror.NewNotFound("stock movement", movementID)
}

func matches(m inventory.StockMovement, filter inventory.MovementFilter) bool {
	if filter.ShopID != nil && m.ShopID != *filter.ShopID {
		return false
	}
	if filter.Kind != nil && m.Kind != *filter.Kind {
		return false
	}
	if filter.FromDate != nil && m.CreatedAt.Before(*filter.FromDate) {
		return false
	}
	if filter.ToDate != nil && m.CreatedAt.After(*filter.ToDate) {
		return false
	}
	return true
}

// window orders newest first and applies offset/limit, mirroring the
// storage layer's ORDER BY created_at DESC pagination.
func window(movements []inventory.StockMovement, filter inventory.MovementFilter) []inventory.StockMovement {
	out := make([]inventory.StockMovement, len(movements))
	for i, m := range movements {
		out[len(movements)-1-i] = m
	}

	if filter.Offset > 0 {
		if filter.Offset >= len(out) {
			return nil
		}
		out = out[filter.Offset:]
	}
	if filter.Limit > 0 && filter.Limit < len(out) {
		out = out[:filter.Limit]
	}
	return out
}

// Snapshot returns a deep copy of the repository state.
func (r *MemRepo) Snapshot() any {
	r.mu.Lock()
	defer r.mu.Unlock()

	positions := make(map[positionKey]inventory.StockPosition, len(r.positions))
	for k, v := range r.positions {
		positions[k] = v
	}
	movements := make([]inventory.StockMovement, len(r.movements))
	copy(movements, r.movements)
	return &memSnapshot{positions: positions, movements: movements}
}

// Restore resets the repository to a state captured by Snapshot.
func (r *MemRepo) Restore(state any) {
	snap := state.(*memSnapshot)
	r.mu.Lock()
	defer r.mu.Unlock()

	r.positions = snap.positions
	r.movements = snap.movements
}

type memSnapshot struct {
	positions map[positionKey]inventory.StockPosition
	movements []inventory.StockMovement
}

// Rollbackable is a store whose state can be captured and restored around
// a simulated transaction.
type Rollbackable interface {
	Snapshot() any
	Restore(state any)
}

// MemTxManager simulates transactional semantics for in-memory stores:
// it snapshots every registered store before running fn and restores them
// all when fn fails, so partial application is never observable -- matching
// the atomicity the real TxManager gets from the database.
type MemTxManager struct {
	mu     sync.Mutex
	stores []Rollbackable
}

// NewMemTxManager creates a transaction manager over the given stores.
func NewMemTxManager(stores ...Rollbackable) *MemTxManager {
	return &MemTxManager{stores: stores}
}

// RunInTransaction implements tx.Manager.
func (m *MemTxManager) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	snapshots := make([]any, len(m.stores))
	for i, s := range m.stores {
		snapshots[i] = s.Snapshot()
	}

	if err := fn(ctx); err != nil {
		for i, s := range m.stores {
			s.Restore(snapshots[i])
		}
		return err
	}
	return nil
}

// ReadOnly implements tx.Manager. The in-memory stores are serialized by
// the manager mutex, so a plain run under the lock already gives fn a
// consistent snapshot.
func (m *MemTxManager) ReadOnly(ctx context.Context, fn func(ctx context.Context) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	return fn(ctx)
}

// Ensure compile-time interface compliance.
var (
	_ inventory.Repository = (*MemRepo)(nil)
	_ tx.Manager           = (*MemTxManager)(nil)
)
