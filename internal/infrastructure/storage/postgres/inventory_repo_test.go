package postgres

import (
	"strings"
	"testing"

	"github.com/Masterminds/squirrel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tentenpanashe01/retail-backend/internal/core/id"
	"github.com/tentenpanashe01/retail-backend/internal/domain/inventory"
)

func TestZeroPositionInsert_ConflictDoesNothing(t *testing.T) {
	repo := NewInventoryRepo(nil)
	shopID, productID := id.New(), id.New()

	sql, args, err := repo.zeroPositionInsert(shopID, productID).ToSql()
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(sql, "INSERT INTO stock_positions"), sql)
	assert.Contains(t, sql, "ON CONFLICT (shop_id, product_id) DO NOTHING")
	require.Len(t, args, len(positionColumns))
	assert.Equal(t, shopID, args[0])
	assert.Equal(t, productID, args[1])
	assert.Equal(t, int64(0), args[2], "a lazily created position starts at zero quantity")
}

func TestSelectPositionForUpdate_TakesRowLock(t *testing.T) {
	// The first movement on a fresh pair must hold the row lock before any
	// quantity is computed; a missing row is inserted and then re-selected
	// through the same locking statement.
	assert.Contains(t, selectPositionForUpdateSQL, "FOR UPDATE")
	assert.Contains(t, selectPositionForUpdateSQL, "WHERE shop_id = $1 AND product_id = $2")
}

func TestApplyMovementFilter_SQL(t *testing.T) {
	shopID := id.New()
	kind := inventory.KindAdjustment

	base := squirrel.StatementBuilder.
		PlaceholderFormat(squirrel.Dollar).
		Select(movementColumns...).
		From(stockMovementsTable).
		Where(squirrel.Eq{"product_id": id.New()})

	q := applyMovementFilter(base, inventory.MovementFilter{
		ShopID: &shopID,
		Kind:   &kind,
		Limit:  2,
		Offset: 1,
	})

	sql, args, err := q.ToSql()
	require.NoError(t, err)

	assert.Contains(t, sql, "shop_id = $2")
	assert.Contains(t, sql, "kind = $3")
	assert.Contains(t, sql, "ORDER BY created_at DESC")
	assert.Contains(t, sql, "LIMIT 2")
	assert.Contains(t, sql, "OFFSET 1")
	require.Len(t, args, 3)
	assert.Equal(t, shopID, args[1])
	assert.Equal(t, kind, args[2])
}
