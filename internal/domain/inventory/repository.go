package inventory

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/warehouse/backend/internal/domain/shared"
)

// StockLevelRepository defines persistence operations for stock levels
type StockLevelRepository interface {
	FindByKey(ctx context.Context, productID, locationID uuid.UUID) (*StockLevel, error)
	FindByProduct(ctx context.Context, productID uuid.UUID) ([]StockLevel, error)
	FindByLocation(ctx context.Context, locationID uuid.UUID) ([]StockLevel, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]StockLevel, error)
	Count(ctx context.Context, filter shared.Filter) (int64, error)
	// QuantityByKey returns the on-hand quantity for a key, zero when no
	// row exists yet
	QuantityByKey(ctx context.Context, productID, locationID uuid.UUID) (decimal.Decimal, error)
	// SumByProduct returns the total on-hand quantity for a product across
	// all locations
	SumByProduct(ctx context.Context, productID uuid.UUID) (decimal.Decimal, error)
	// ExistsByProduct reports whether any stock row references the product
	ExistsByProduct(ctx context.Context, productID uuid.UUID) (bool, error)
	// ExistsByLocation reports whether any stock row references the location
	ExistsByLocation(ctx context.Context, locationID uuid.UUID) (bool, error)
	// ApplyDelta atomically adds delta to the key's quantity, inserting the
	// row if absent, and returns the resulting quantity. The upsert is a
	// single statement so concurrent calls against the same key serialize
	// on the row instead of racing a read-modify-write cycle.
	ApplyDelta(ctx context.Context, productID, locationID uuid.UUID, delta decimal.Decimal) (decimal.Decimal, error)
}

// MovementFilter narrows ledger queries
type MovementFilter struct {
	ProductID  *uuid.UUID
	LocationID *uuid.UUID
	Kind       *MovementKind
	SourceType *SourceType
	SourceID   *uuid.UUID
	From       *time.Time
	To         *time.Time
	Page       int
	PageSize   int
}

// ReconciliationRow is one (product, location) key whose ledger sum is
// compared against the stored stock level
type ReconciliationRow struct {
	ProductID   uuid.UUID       `json:"product_id"`
	LocationID  uuid.UUID       `json:"location_id"`
	StockLevel  decimal.Decimal `json:"stock_level"`
	LedgerTotal decimal.Decimal `json:"ledger_total"`
}

// InBalance reports whether the stored quantity matches the ledger sum
func (r ReconciliationRow) InBalance() bool {
	return r.StockLevel.Equal(r.LedgerTotal)
}

// StockMovementRepository defines persistence operations for the movement
// ledger. The ledger is append-only: there is no update or delete.
type StockMovementRepository interface {
	Create(ctx context.Context, movement *StockMovement) error
	CreateBatch(ctx context.Context, movements []*StockMovement) error
	FindByID(ctx context.Context, id uuid.UUID) (*StockMovement, error)
	Find(ctx context.Context, filter MovementFilter) ([]StockMovement, error)
	CountMovements(ctx context.Context, filter MovementFilter) (int64, error)
	FindBySource(ctx context.Context, sourceType SourceType, sourceID uuid.UUID) ([]StockMovement, error)
	// SumDeltaByKey returns the ledger total for one (product, location) key
	SumDeltaByKey(ctx context.Context, productID, locationID uuid.UUID) (decimal.Decimal, error)
	// Reconcile returns one row per known key with the stored quantity and
	// the ledger total side by side
	Reconcile(ctx context.Context) ([]ReconciliationRow, error)
}
