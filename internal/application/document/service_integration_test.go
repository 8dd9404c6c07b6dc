package document

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	appinv "github.com/warehouse/backend/internal/application/inventory"
	"github.com/warehouse/backend/internal/domain/catalog"
	"github.com/warehouse/backend/internal/domain/document"
	"github.com/warehouse/backend/internal/domain/inventory"
	"github.com/warehouse/backend/internal/domain/shared"
	"github.com/warehouse/backend/internal/infrastructure/event"
	"github.com/warehouse/backend/internal/infrastructure/persistence"
)

type testEnv struct {
	db          *gorm.DB
	receipts    *ReceiptService
	deliveries  *DeliveryService
	transfers   *TransferService
	adjustments *AdjustmentService
	products    catalog.ProductRepository
	warehouses  catalog.WarehouseRepository
	stockLevels inventory.StockLevelRepository
	movements   inventory.StockMovementRepository

	productID uuid.UUID
	locA      uuid.UUID
	locB      uuid.UUID
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger:                 gormlogger.Default.LogMode(gormlogger.Silent),
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	// a single connection so every session sees the same in-memory database
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&catalog.Product{},
		&catalog.Warehouse{},
		&catalog.Location{},
		&inventory.StockLevel{},
		&inventory.StockMovement{},
		&document.Receipt{},
		&document.ReceiptLine{},
		&document.Delivery{},
		&document.DeliveryLine{},
		&document.InternalTransfer{},
		&document.TransferLine{},
		&document.Adjustment{},
		&document.AdjustmentLine{},
		&persistence.DocumentSequence{},
	))

	log := zap.NewNop()
	productRepo := persistence.NewGormProductRepository(db)
	warehouseRepo := persistence.NewGormWarehouseRepository(db)
	stockLevelRepo := persistence.NewGormStockLevelRepository(db)
	movementRepo := persistence.NewGormStockMovementRepository(db)
	receiptRepo := persistence.NewGormReceiptRepository(db)
	deliveryRepo := persistence.NewGormDeliveryRepository(db)
	transferRepo := persistence.NewGormTransferRepository(db)
	adjustmentRepo := persistence.NewGormAdjustmentRepository(db)

	bus := event.NewInMemoryEventBus(log)
	scope := persistence.NewGormTransactionScope(db)
	engine := appinv.NewStockApplicationEngine(scope, bus, log)

	env := &testEnv{
		db:          db,
		receipts:    NewReceiptService(receiptRepo, productRepo, warehouseRepo, scope, engine),
		deliveries:  NewDeliveryService(deliveryRepo, productRepo, warehouseRepo, stockLevelRepo, scope, engine),
		transfers:   NewTransferService(transferRepo, productRepo, warehouseRepo, scope, engine),
		adjustments: NewAdjustmentService(adjustmentRepo, productRepo, warehouseRepo, stockLevelRepo, scope, engine),
		products:    productRepo,
		warehouses:  warehouseRepo,
		stockLevels: stockLevelRepo,
		movements:   movementRepo,
	}
	env.seedCatalog(t)
	return env
}

func (env *testEnv) seedCatalog(t *testing.T) {
	t.Helper()
	ctx := context.Background()

	product, err := catalog.NewProduct("WIDGET-1", "Widget", "pcs")
	require.NoError(t, err)
	require.NoError(t, env.products.Save(ctx, product))
	env.productID = product.ID

	warehouse, err := catalog.NewWarehouse("MAIN", "Main Warehouse")
	require.NoError(t, err)
	require.NoError(t, env.warehouses.Save(ctx, warehouse))

	locA, err := catalog.NewLocation(warehouse.ID, "A1", "Aisle A shelf 1")
	require.NoError(t, err)
	require.NoError(t, env.warehouses.SaveLocation(ctx, locA))
	env.locA = locA.ID

	locB, err := catalog.NewLocation(warehouse.ID, "B1", "Aisle B shelf 1")
	require.NoError(t, err)
	require.NoError(t, env.warehouses.SaveLocation(ctx, locB))
	env.locB = locB.ID
}

// receiveStock creates, validates and processes a receipt to put stock at
// the given location.
func (env *testEnv) receiveStock(t *testing.T, locationID uuid.UUID, qty string) {
	t.Helper()
	ctx := context.Background()

	created, err := env.receipts.Create(ctx, CreateReceiptRequest{
		SupplierName: "Acme Supply",
		LocationID:   locationID,
		Lines: []ReceiptLineRequest{
			{ProductID: env.productID, Quantity: decimal.RequireFromString(qty)},
		},
	})
	require.NoError(t, err)
	_, err = env.receipts.Validate(ctx, created.ID)
	require.NoError(t, err)
	_, err = env.receipts.Process(ctx, created.ID)
	require.NoError(t, err)
}

func (env *testEnv) quantityAt(t *testing.T, locationID uuid.UUID) decimal.Decimal {
	t.Helper()
	qty, err := env.stockLevels.QuantityByKey(context.Background(), env.productID, locationID)
	require.NoError(t, err)
	return qty
}

func domainErrCode(err error) string {
	var derr *shared.DomainError
	if errors.As(err, &derr) {
		return derr.Code
	}
	return ""
}

func TestReceiptLifecycle(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	created, err := env.receipts.Create(ctx, CreateReceiptRequest{
		SupplierName: "Acme Supply",
		SupplierRef:  "PO-1001",
		LocationID:   env.locA,
		Lines: []ReceiptLineRequest{
			{ProductID: env.productID, Quantity: decimal.NewFromInt(20), UnitCost: decimal.NewFromInt(3)},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "WH/IN/0001", created.Number)
	assert.Equal(t, "DRAFT", created.Status)
	assert.True(t, env.quantityAt(t, env.locA).IsZero(), "draft must not touch stock")

	validated, err := env.receipts.Validate(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "READY", validated.Status)
	assert.True(t, env.quantityAt(t, env.locA).IsZero(), "validation must not touch stock")

	processed, err := env.receipts.Process(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "DONE", processed.Status)
	assert.NotNil(t, processed.DoneAt)
	assert.True(t, env.quantityAt(t, env.locA).Equal(decimal.NewFromInt(20)))

	movements, err := env.movements.FindBySource(ctx, inventory.SourceTypeReceipt, created.ID)
	require.NoError(t, err)
	require.Len(t, movements, 1)
	assert.True(t, movements[0].Delta.Equal(decimal.NewFromInt(20)))
	assert.Equal(t, inventory.MovementKindReceiptIn, movements[0].Kind)
	assert.Equal(t, "pcs", movements[0].Unit)

	// a second receipt accumulates on the same stock row
	env.receiveStock(t, env.locA, "5")
	assert.True(t, env.quantityAt(t, env.locA).Equal(decimal.NewFromInt(25)))
}

func TestReceiptProcessIsIdempotent(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	created, err := env.receipts.Create(ctx, CreateReceiptRequest{
		SupplierName: "Acme Supply",
		LocationID:   env.locA,
		Lines: []ReceiptLineRequest{
			{ProductID: env.productID, Quantity: decimal.NewFromInt(10)},
		},
	})
	require.NoError(t, err)
	_, err = env.receipts.Validate(ctx, created.ID)
	require.NoError(t, err)
	_, err = env.receipts.Process(ctx, created.ID)
	require.NoError(t, err)

	_, err = env.receipts.Process(ctx, created.ID)
	require.Error(t, err)
	assert.Equal(t, "DOCUMENT_ALREADY_DONE", domainErrCode(err))

	assert.True(t, env.quantityAt(t, env.locA).Equal(decimal.NewFromInt(10)), "repeat processing must not move stock again")
	movements, err := env.movements.FindBySource(ctx, inventory.SourceTypeReceipt, created.ID)
	require.NoError(t, err)
	assert.Len(t, movements, 1)
}

func TestReceiptValidateRejectsEmptyDocument(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	created, err := env.receipts.Create(ctx, CreateReceiptRequest{
		SupplierName: "Acme Supply",
		LocationID:   env.locA,
	})
	require.NoError(t, err)

	_, err = env.receipts.Validate(ctx, created.ID)
	require.Error(t, err)
	assert.Equal(t, "EMPTY_DOCUMENT", domainErrCode(err))
}

func TestDeliveryValidationRoutesOnAvailability(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.receiveStock(t, env.locA, "20")

	created, err := env.deliveries.Create(ctx, CreateDeliveryRequest{
		CustomerName: "Globex",
		LocationID:   env.locA,
		Lines: []DeliveryLineRequest{
			{ProductID: env.productID, Quantity: decimal.NewFromInt(30)},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "WH/OUT/0001", created.Number)

	// short 10, so the delivery parks in Waiting
	result, err := env.deliveries.Validate(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "WAITING", result.Status)
	require.Len(t, result.DeficientLines, 1)
	assert.True(t, result.DeficientLines[0].Requested.Equal(decimal.NewFromInt(30)))
	assert.True(t, result.DeficientLines[0].Available.Equal(decimal.NewFromInt(20)))

	waiting, err := env.deliveries.ListWaiting(ctx, ListFilter{})
	require.NoError(t, err)
	require.Len(t, waiting, 1)
	assert.Equal(t, created.ID, waiting[0].ID)

	// replenish and revalidate from Waiting
	env.receiveStock(t, env.locA, "20")
	result, err = env.deliveries.Validate(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "READY", result.Status)
	assert.Empty(t, result.DeficientLines)

	processed, err := env.deliveries.Process(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "DONE", processed.Status)
	assert.True(t, env.quantityAt(t, env.locA).Equal(decimal.NewFromInt(10)))

	movements, err := env.movements.FindBySource(ctx, inventory.SourceTypeDelivery, created.ID)
	require.NoError(t, err)
	require.Len(t, movements, 1)
	assert.True(t, movements[0].Delta.Equal(decimal.NewFromInt(-30)))
	assert.Equal(t, inventory.MovementKindDeliveryOut, movements[0].Kind)
}

func TestDeliveryProcessRollsBackOnInsufficientStock(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.receiveStock(t, env.locA, "20")

	// two deliveries of 15 each pass validation individually
	first, err := env.deliveries.Create(ctx, CreateDeliveryRequest{
		CustomerName: "Globex",
		LocationID:   env.locA,
		Lines:        []DeliveryLineRequest{{ProductID: env.productID, Quantity: decimal.NewFromInt(15)}},
	})
	require.NoError(t, err)
	second, err := env.deliveries.Create(ctx, CreateDeliveryRequest{
		CustomerName: "Initech",
		LocationID:   env.locA,
		Lines:        []DeliveryLineRequest{{ProductID: env.productID, Quantity: decimal.NewFromInt(15)}},
	})
	require.NoError(t, err)

	result, err := env.deliveries.Validate(ctx, first.ID)
	require.NoError(t, err)
	require.Equal(t, "READY", result.Status)
	result, err = env.deliveries.Validate(ctx, second.ID)
	require.NoError(t, err)
	require.Equal(t, "READY", result.Status)

	_, err = env.deliveries.Process(ctx, first.ID)
	require.NoError(t, err)
	assert.True(t, env.quantityAt(t, env.locA).Equal(decimal.NewFromInt(5)))

	// the second would drive stock to -10 and must fail atomically
	_, err = env.deliveries.Process(ctx, second.ID)
	require.Error(t, err)
	assert.Equal(t, "NEGATIVE_STOCK", domainErrCode(err))

	assert.True(t, env.quantityAt(t, env.locA).Equal(decimal.NewFromInt(5)), "failed processing must leave stock untouched")

	unchanged, err := env.deliveries.GetByID(ctx, second.ID)
	require.NoError(t, err)
	assert.Equal(t, "READY", unchanged.Status, "failed processing must roll the status flip back")

	movements, err := env.movements.FindBySource(ctx, inventory.SourceTypeDelivery, second.ID)
	require.NoError(t, err)
	assert.Empty(t, movements)
}

func TestTransferMovesStockBetweenLocations(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.receiveStock(t, env.locA, "10")

	created, err := env.transfers.Create(ctx, CreateTransferRequest{
		FromLocationID: env.locA,
		Lines: []TransferLineRequest{
			{ProductID: env.productID, ToLocationID: env.locB, Quantity: decimal.NewFromInt(4)},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "WH/INT/0001", created.Number)

	processed, err := env.transfers.Process(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "DONE", processed.Status)

	assert.True(t, env.quantityAt(t, env.locA).Equal(decimal.NewFromInt(6)))
	assert.True(t, env.quantityAt(t, env.locB).Equal(decimal.NewFromInt(4)))

	total, err := env.stockLevels.SumByProduct(ctx, env.productID)
	require.NoError(t, err)
	assert.True(t, total.Equal(decimal.NewFromInt(10)), "a transfer must not change the product total")

	movements, err := env.movements.FindBySource(ctx, inventory.SourceTypeTransfer, created.ID)
	require.NoError(t, err)
	require.Len(t, movements, 2)
}

func TestTransferCannotOverdrawSource(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.receiveStock(t, env.locA, "3")

	created, err := env.transfers.Create(ctx, CreateTransferRequest{
		FromLocationID: env.locA,
		Lines: []TransferLineRequest{
			{ProductID: env.productID, ToLocationID: env.locB, Quantity: decimal.NewFromInt(5)},
		},
	})
	require.NoError(t, err)

	_, err = env.transfers.Process(ctx, created.ID)
	require.Error(t, err)
	assert.Equal(t, "NEGATIVE_STOCK", domainErrCode(err))

	assert.True(t, env.quantityAt(t, env.locA).Equal(decimal.NewFromInt(3)))
	assert.True(t, env.quantityAt(t, env.locB).IsZero())
}

func TestAdjustmentAppliesCountedDelta(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.receiveStock(t, env.locA, "25")

	created, err := env.adjustments.Create(ctx, CreateAdjustmentRequest{
		LocationID: env.locA,
		Reason:     "cycle count",
		Lines: []AdjustmentLineRequest{
			{ProductID: env.productID, CountedQty: decimal.NewFromInt(22)},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "WH/ADJ/0001", created.Number)
	require.Len(t, created.Lines, 1)
	assert.True(t, created.Lines[0].CurrentQty.Equal(decimal.NewFromInt(25)), "creation must capture the current quantity")
	assert.True(t, created.Lines[0].Delta.Equal(decimal.NewFromInt(-3)))

	processed, err := env.adjustments.Process(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "DONE", processed.Status)
	assert.True(t, env.quantityAt(t, env.locA).Equal(decimal.NewFromInt(22)))

	movements, err := env.movements.FindBySource(ctx, inventory.SourceTypeAdjustment, created.ID)
	require.NoError(t, err)
	require.Len(t, movements, 1)
	assert.True(t, movements[0].Delta.Equal(decimal.NewFromInt(-3)))
}

func TestDocumentNumbersArePerTypeAndGapless(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	first, err := env.receipts.Create(ctx, CreateReceiptRequest{
		SupplierName: "Acme Supply",
		LocationID:   env.locA,
	})
	require.NoError(t, err)
	assert.Equal(t, "WH/IN/0001", first.Number)

	// a failed create rolls its drawn number back with the transaction
	_, err = env.receipts.Create(ctx, CreateReceiptRequest{
		SupplierName: "Acme Supply",
		LocationID:   env.locA,
		Lines: []ReceiptLineRequest{
			{ProductID: env.productID, Quantity: decimal.Zero},
		},
	})
	require.Error(t, err)
	assert.Equal(t, "INVALID_QUANTITY", domainErrCode(err))

	second, err := env.receipts.Create(ctx, CreateReceiptRequest{
		SupplierName: "Acme Supply",
		LocationID:   env.locA,
	})
	require.NoError(t, err)
	assert.Equal(t, "WH/IN/0002", second.Number)

	// each document type counts independently
	delivery, err := env.deliveries.Create(ctx, CreateDeliveryRequest{
		CustomerName: "Globex",
		LocationID:   env.locA,
	})
	require.NoError(t, err)
	assert.Equal(t, "WH/OUT/0001", delivery.Number)
}

func TestCancelBlocksProcessing(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.receiveStock(t, env.locA, "10")

	created, err := env.deliveries.Create(ctx, CreateDeliveryRequest{
		CustomerName: "Globex",
		LocationID:   env.locA,
		Lines:        []DeliveryLineRequest{{ProductID: env.productID, Quantity: decimal.NewFromInt(5)}},
	})
	require.NoError(t, err)

	cancelled, err := env.deliveries.Cancel(ctx, created.ID, CancelRequest{Reason: "customer withdrew the order"})
	require.NoError(t, err)
	assert.Equal(t, "CANCELLED", cancelled.Status)

	_, err = env.deliveries.Process(ctx, created.ID)
	require.Error(t, err)
	assert.Equal(t, "INVALID_STATE", domainErrCode(err))
	assert.True(t, env.quantityAt(t, env.locA).Equal(decimal.NewFromInt(10)))
}

func TestDraftOnlyDeletion(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.receiveStock(t, env.locA, "10")

	receipt, err := env.receipts.GetByNumber(ctx, "WH/IN/0001")
	require.NoError(t, err)
	err = env.receipts.Delete(ctx, receipt.ID)
	require.Error(t, err)
	assert.Equal(t, "DOCUMENT_NOT_DRAFT", domainErrCode(err))

	draft, err := env.receipts.Create(ctx, CreateReceiptRequest{
		SupplierName: "Acme Supply",
		LocationID:   env.locA,
	})
	require.NoError(t, err)
	require.NoError(t, env.receipts.Delete(ctx, draft.ID))

	_, err = env.receipts.GetByID(ctx, draft.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestLedgerMatchesStockAfterMixedDocuments(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	env.receiveStock(t, env.locA, "30")
	env.receiveStock(t, env.locB, "5")

	transfer, err := env.transfers.Create(ctx, CreateTransferRequest{
		FromLocationID: env.locA,
		Lines: []TransferLineRequest{
			{ProductID: env.productID, ToLocationID: env.locB, Quantity: decimal.NewFromInt(10)},
		},
	})
	require.NoError(t, err)
	_, err = env.transfers.Process(ctx, transfer.ID)
	require.NoError(t, err)

	delivery, err := env.deliveries.Create(ctx, CreateDeliveryRequest{
		CustomerName: "Globex",
		LocationID:   env.locB,
		Lines:        []DeliveryLineRequest{{ProductID: env.productID, Quantity: decimal.NewFromInt(12)}},
	})
	require.NoError(t, err)
	result, err := env.deliveries.Validate(ctx, delivery.ID)
	require.NoError(t, err)
	require.Equal(t, "READY", result.Status)
	_, err = env.deliveries.Process(ctx, delivery.ID)
	require.NoError(t, err)

	assert.True(t, env.quantityAt(t, env.locA).Equal(decimal.NewFromInt(20)))
	assert.True(t, env.quantityAt(t, env.locB).Equal(decimal.NewFromInt(3)))

	// replaying the ledger reproduces every stock row
	rows, err := env.movements.Reconcile(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, rows)
	for _, row := range rows {
		assert.True(t, row.InBalance(), "stock level and ledger diverge for %s/%s", row.ProductID, row.LocationID)
	}
}

// addProduct seeds an extra catalog product for multi-line documents.
func (env *testEnv) addProduct(t *testing.T, sku string) uuid.UUID {
	t.Helper()
	product, err := catalog.NewProduct(sku, "Widget "+sku, "pcs")
	require.NoError(t, err)
	require.NoError(t, env.products.Save(context.Background(), product))
	return product.ID
}

func TestReceiptLineEditsSurviveReload(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	created, err := env.receipts.Create(ctx, CreateReceiptRequest{
		SupplierName: "Acme Supply",
		LocationID:   env.locA,
		Lines: []ReceiptLineRequest{
			{ProductID: env.productID, Quantity: decimal.NewFromInt(5), UnitCost: decimal.NewFromInt(2)},
		},
	})
	require.NoError(t, err)
	require.Len(t, created.Lines, 1)
	lineID := created.Lines[0].ID

	_, err = env.receipts.UpdateLine(ctx, created.ID, lineID, decimal.NewFromInt(9), decimal.NewFromInt(2))
	require.NoError(t, err)

	reloaded, err := env.receipts.GetByID(ctx, created.ID)
	require.NoError(t, err)
	require.Len(t, reloaded.Lines, 1)
	assert.True(t, reloaded.Lines[0].Quantity.Equal(decimal.NewFromInt(9)),
		"updated quantity must survive a reload, got %s", reloaded.Lines[0].Quantity)

	// adding the same product merges into the existing line
	_, err = env.receipts.AddLine(ctx, created.ID, ReceiptLineRequest{
		ProductID: env.productID, Quantity: decimal.NewFromInt(3), UnitCost: decimal.NewFromInt(2),
	})
	require.NoError(t, err)

	reloaded, err = env.receipts.GetByID(ctx, created.ID)
	require.NoError(t, err)
	require.Len(t, reloaded.Lines, 1)
	assert.True(t, reloaded.Lines[0].Quantity.Equal(decimal.NewFromInt(12)),
		"merged quantity must survive a reload, got %s", reloaded.Lines[0].Quantity)

	otherProduct := env.addProduct(t, "WIDGET-2")
	_, err = env.receipts.AddLine(ctx, created.ID, ReceiptLineRequest{
		ProductID: otherProduct, Quantity: decimal.NewFromInt(4),
	})
	require.NoError(t, err)

	reloaded, err = env.receipts.GetByID(ctx, created.ID)
	require.NoError(t, err)
	require.Len(t, reloaded.Lines, 2)

	var otherLineID uuid.UUID
	for _, line := range reloaded.Lines {
		if line.ProductID == otherProduct {
			otherLineID = line.ID
		}
	}
	_, err = env.receipts.RemoveLine(ctx, created.ID, otherLineID)
	require.NoError(t, err)

	reloaded, err = env.receipts.GetByID(ctx, created.ID)
	require.NoError(t, err)
	require.Len(t, reloaded.Lines, 1)

	// processing applies the edited quantity, not the original one
	_, err = env.receipts.Validate(ctx, created.ID)
	require.NoError(t, err)
	_, err = env.receipts.Process(ctx, created.ID)
	require.NoError(t, err)
	assert.True(t, env.quantityAt(t, env.locA).Equal(decimal.NewFromInt(12)))
}

func TestDeliveryLineEditsSurviveReload(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.receiveStock(t, env.locA, "20")

	created, err := env.deliveries.Create(ctx, CreateDeliveryRequest{
		CustomerName: "Globex",
		LocationID:   env.locA,
		Lines: []DeliveryLineRequest{
			{ProductID: env.productID, Quantity: decimal.NewFromInt(5), UnitPrice: decimal.NewFromInt(7)},
		},
	})
	require.NoError(t, err)
	require.Len(t, created.Lines, 1)

	_, err = env.deliveries.UpdateLine(ctx, created.ID, created.Lines[0].ID, decimal.NewFromInt(7), decimal.NewFromInt(7))
	require.NoError(t, err)

	reloaded, err := env.deliveries.GetByID(ctx, created.ID)
	require.NoError(t, err)
	require.Len(t, reloaded.Lines, 1)
	assert.True(t, reloaded.Lines[0].Quantity.Equal(decimal.NewFromInt(7)),
		"updated quantity must survive a reload, got %s", reloaded.Lines[0].Quantity)

	_, err = env.deliveries.Validate(ctx, created.ID)
	require.NoError(t, err)
	_, err = env.deliveries.Process(ctx, created.ID)
	require.NoError(t, err)
	assert.True(t, env.quantityAt(t, env.locA).Equal(decimal.NewFromInt(13)))
}

func TestTransferLineEditsSurviveReload(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.receiveStock(t, env.locA, "10")

	created, err := env.transfers.Create(ctx, CreateTransferRequest{
		FromLocationID: env.locA,
		Lines: []TransferLineRequest{
			{ProductID: env.productID, ToLocationID: env.locB, Quantity: decimal.NewFromInt(2)},
		},
	})
	require.NoError(t, err)
	require.Len(t, created.Lines, 1)

	_, err = env.transfers.UpdateLine(ctx, created.ID, created.Lines[0].ID, decimal.NewFromInt(6))
	require.NoError(t, err)

	reloaded, err := env.transfers.GetByID(ctx, created.ID)
	require.NoError(t, err)
	require.Len(t, reloaded.Lines, 1)
	assert.True(t, reloaded.Lines[0].Quantity.Equal(decimal.NewFromInt(6)),
		"updated quantity must survive a reload, got %s", reloaded.Lines[0].Quantity)

	_, err = env.transfers.Process(ctx, created.ID)
	require.NoError(t, err)
	assert.True(t, env.quantityAt(t, env.locA).Equal(decimal.NewFromInt(4)))
	assert.True(t, env.quantityAt(t, env.locB).Equal(decimal.NewFromInt(6)))
}

func TestAdjustmentLineEditsSurviveReload(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.receiveStock(t, env.locA, "10")

	created, err := env.adjustments.Create(ctx, CreateAdjustmentRequest{
		LocationID: env.locA,
		Reason:     "cycle count",
		Lines: []AdjustmentLineRequest{
			{ProductID: env.productID, CountedQty: decimal.NewFromInt(8)},
		},
	})
	require.NoError(t, err)
	require.Len(t, created.Lines, 1)

	_, err = env.adjustments.UpdateLine(ctx, created.ID, created.Lines[0].ID, decimal.NewFromInt(4))
	require.NoError(t, err)

	reloaded, err := env.adjustments.GetByID(ctx, created.ID)
	require.NoError(t, err)
	require.Len(t, reloaded.Lines, 1)
	assert.True(t, reloaded.Lines[0].CountedQty.Equal(decimal.NewFromInt(4)),
		"updated counted quantity must survive a reload, got %s", reloaded.Lines[0].CountedQty)
	assert.True(t, reloaded.Lines[0].Delta.Equal(decimal.NewFromInt(-6)))

	_, err = env.adjustments.Process(ctx, created.ID)
	require.NoError(t, err)
	assert.True(t, env.quantityAt(t, env.locA).Equal(decimal.NewFromInt(4)))
}
