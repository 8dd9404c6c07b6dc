package inventory

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/warehouse/backend/internal/domain/shared"
)

// StockLevel is the on-hand quantity for a (product, location) pair.
// Rows are created lazily on the first movement into a pair, updated in
// place by every subsequent movement, and never deleted (a drained row
// stays at zero).
//
// Writes go through StockLevelRepository.ApplyDelta, a single-statement
// atomic upsert, so concurrent applications against the same key cannot
// lose an update. The struct itself is used for reads and validation.
type StockLevel struct {
	shared.BaseAggregateRoot
	ProductID  uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_stock_level_product_location,priority:1"`
	LocationID uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_stock_level_product_location,priority:2"`
	Quantity   decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
}

// TableName returns the table name for GORM
func (StockLevel) TableName() string {
	return "stock_levels"
}

// NewStockLevel creates a zero-quantity stock level for a product-location pair
func NewStockLevel(productID, locationID uuid.UUID) (*StockLevel, error) {
	if productID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
	}
	if locationID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_LOCATION", "Location ID cannot be empty")
	}

	return &StockLevel{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		ProductID:         productID,
		LocationID:        locationID,
		Quantity:          decimal.Zero,
	}, nil
}

// CanFulfill returns true if the on-hand quantity covers the requested quantity
func (s *StockLevel) CanFulfill(quantity decimal.Decimal) bool {
	return s.Quantity.GreaterThanOrEqual(quantity)
}

// IsEmpty returns true if the on-hand quantity is zero
func (s *StockLevel) IsEmpty() bool {
	return s.Quantity.IsZero()
}
