package inventory_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	appinventory "github.com/warehouse/backend/internal/application/inventory"
	"github.com/warehouse/backend/internal/domain/inventory"
	"github.com/warehouse/backend/internal/infrastructure/persistence"
)

func newStockEnv(t *testing.T) (*appinventory.StockQueryService, inventory.StockLevelRepository, inventory.StockMovementRepository) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger:                 gormlogger.Default.LogMode(gormlogger.Silent),
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(&inventory.StockLevel{}, &inventory.StockMovement{}))

	levelRepo := persistence.NewGormStockLevelRepository(db)
	movementRepo := persistence.NewGormStockMovementRepository(db)
	return appinventory.NewStockQueryService(levelRepo, movementRepo, zap.NewNop()), levelRepo, movementRepo
}

func recordMovement(t *testing.T, repo inventory.StockMovementRepository, productID, locationID uuid.UUID, delta int64, kind inventory.MovementKind, sourceType inventory.SourceType, sourceID uuid.UUID) {
	t.Helper()
	movement, err := inventory.NewStockMovement(productID, locationID, decimal.NewFromInt(delta), "pcs", kind, sourceType, sourceID)
	require.NoError(t, err)
	require.NoError(t, repo.Create(context.Background(), movement))
}

func TestGetQuantityReadsZeroForUnknownKey(t *testing.T) {
	service, _, _ := newStockEnv(t)

	resp, err := service.GetQuantity(context.Background(), uuid.New(), uuid.New())
	require.NoError(t, err)
	assert.True(t, resp.Quantity.IsZero())
}

func TestGetQuantityRejectsNilIDs(t *testing.T) {
	service, _, _ := newStockEnv(t)

	_, err := service.GetQuantity(context.Background(), uuid.Nil, uuid.New())
	assert.Error(t, err)
	_, err = service.GetQuantity(context.Background(), uuid.New(), uuid.Nil)
	assert.Error(t, err)
}

func TestGetProductTotalSumsAcrossLocations(t *testing.T) {
	service, levelRepo, _ := newStockEnv(t)
	ctx := context.Background()
	productID := uuid.New()

	_, err := levelRepo.ApplyDelta(ctx, productID, uuid.New(), decimal.NewFromInt(7))
	require.NoError(t, err)
	_, err = levelRepo.ApplyDelta(ctx, productID, uuid.New(), decimal.NewFromInt(5))
	require.NoError(t, err)
	_, err = levelRepo.ApplyDelta(ctx, uuid.New(), uuid.New(), decimal.NewFromInt(100))
	require.NoError(t, err)

	resp, err := service.GetProductTotal(ctx, productID)
	require.NoError(t, err)
	assert.True(t, resp.Total.Equal(decimal.NewFromInt(12)), "other products must not leak into the total")
}

func TestListStockLevelsFilters(t *testing.T) {
	service, levelRepo, _ := newStockEnv(t)
	ctx := context.Background()
	productID := uuid.New()
	locationID := uuid.New()

	_, err := levelRepo.ApplyDelta(ctx, productID, locationID, decimal.NewFromInt(10))
	require.NoError(t, err)
	_, err = levelRepo.ApplyDelta(ctx, uuid.New(), locationID, decimal.NewFromInt(3))
	require.NoError(t, err)

	all, total, err := service.ListStockLevels(ctx, appinventory.StockListFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 2)
	assert.EqualValues(t, 2, total)

	byProduct, total, err := service.ListStockLevels(ctx, appinventory.StockListFilter{ProductID: &productID})
	require.NoError(t, err)
	require.Len(t, byProduct, 1)
	assert.EqualValues(t, 1, total)
	assert.Equal(t, productID, byProduct[0].ProductID)
	assert.True(t, byProduct[0].Quantity.Equal(decimal.NewFromInt(10)))
}

func TestListMovementsValidatesFilter(t *testing.T) {
	service, _, _ := newStockEnv(t)
	ctx := context.Background()

	bogusKind := "TELEPORT"
	_, _, err := service.ListMovements(ctx, appinventory.MovementListFilter{Kind: &bogusKind})
	assert.Error(t, err)

	from := time.Now()
	to := from.Add(-time.Hour)
	_, _, err = service.ListMovements(ctx, appinventory.MovementListFilter{From: &from, To: &to})
	assert.Error(t, err)
}

func TestListMovementsByKindAndSource(t *testing.T) {
	service, _, movementRepo := newStockEnv(t)
	ctx := context.Background()
	productID := uuid.New()
	locationID := uuid.New()
	receiptID := uuid.New()
	deliveryID := uuid.New()

	recordMovement(t, movementRepo, productID, locationID, 10, inventory.MovementKindReceiptIn, inventory.SourceTypeReceipt, receiptID)
	recordMovement(t, movementRepo, productID, locationID, -4, inventory.MovementKindDeliveryOut, inventory.SourceTypeDelivery, deliveryID)

	kind := string(inventory.MovementKindReceiptIn)
	entries, total, err := service.ListMovements(ctx, appinventory.MovementListFilter{Kind: &kind})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.EqualValues(t, 1, total)
	assert.True(t, entries[0].Delta.Equal(decimal.NewFromInt(10)))

	bySource, err := service.GetMovementsBySource(ctx, string(inventory.SourceTypeDelivery), deliveryID)
	require.NoError(t, err)
	require.Len(t, bySource, 1)
	assert.True(t, bySource[0].Delta.Equal(decimal.NewFromInt(-4)))

	_, err = service.GetMovementsBySource(ctx, "RUMOR", deliveryID)
	assert.Error(t, err)
}

func TestReconcileReportsDrift(t *testing.T) {
	service, levelRepo, movementRepo := newStockEnv(t)
	ctx := context.Background()
	productID := uuid.New()
	locationID := uuid.New()

	// balanced key: stock row 10, ledger sums to 10
	_, err := levelRepo.ApplyDelta(ctx, productID, locationID, decimal.NewFromInt(10))
	require.NoError(t, err)
	recordMovement(t, movementRepo, productID, locationID, 10, inventory.MovementKindReceiptIn, inventory.SourceTypeReceipt, uuid.New())

	resp, err := service.Reconcile(ctx)
	require.NoError(t, err)
	assert.True(t, resp.InBalance)
	assert.Equal(t, 1, resp.CheckedKeys)
	assert.Empty(t, resp.Drifted)

	// drifted key: ledger entry with no matching stock row
	orphanProduct := uuid.New()
	recordMovement(t, movementRepo, orphanProduct, locationID, 5, inventory.MovementKindReceiptIn, inventory.SourceTypeReceipt, uuid.New())

	resp, err = service.Reconcile(ctx)
	require.NoError(t, err)
	assert.False(t, resp.InBalance)
	assert.Equal(t, 2, resp.CheckedKeys)
	require.Len(t, resp.Drifted, 1)
	assert.Equal(t, orphanProduct, resp.Drifted[0].ProductID)
	assert.True(t, resp.Drifted[0].StockLevel.IsZero())
	assert.True(t, resp.Drifted[0].LedgerTotal.Equal(decimal.NewFromInt(5)))
}

func TestGetQuantityUsesCache(t *testing.T) {
	service, levelRepo, _ := newStockEnv(t)
	ctx := context.Background()
	productID := uuid.New()
	locationID := uuid.New()

	_, err := levelRepo.ApplyDelta(ctx, productID, locationID, decimal.NewFromInt(8))
	require.NoError(t, err)

	cache := &countingCache{values: map[appinventory.StockKey]decimal.Decimal{}}
	service.SetCache(cache)

	first, err := service.GetQuantity(ctx, productID, locationID)
	require.NoError(t, err)
	assert.True(t, first.Quantity.Equal(decimal.NewFromInt(8)))
	assert.Equal(t, 1, cache.misses)

	second, err := service.GetQuantity(ctx, productID, locationID)
	require.NoError(t, err)
	assert.True(t, second.Quantity.Equal(decimal.NewFromInt(8)))
	assert.Equal(t, 1, cache.hits, "the second read must come from the cache")
}

type countingCache struct {
	values map[appinventory.StockKey]decimal.Decimal
	hits   int
	misses int
}

func (c *countingCache) GetQuantity(_ context.Context, key appinventory.StockKey) (decimal.Decimal, bool, error) {
	if qty, ok := c.values[key]; ok {
		c.hits++
		return qty, true, nil
	}
	c.misses++
	return decimal.Zero, false, nil
}

func (c *countingCache) SetQuantity(_ context.Context, key appinventory.StockKey, qty decimal.Decimal) error {
	c.values[key] = qty
	return nil
}

func (c *countingCache) Invalidate(_ context.Context, keys ...appinventory.StockKey) error {
	for _, key := range keys {
		delete(c.values, key)
	}
	return nil
}
