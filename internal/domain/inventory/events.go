package inventory

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/warehouse/backend/internal/domain/shared"
)

// Event types emitted by the inventory domain
const (
	EventTypeStockApplied           = "inventory.stock_applied"
	EventTypeStockBelowReorderLevel = "inventory.stock_below_reorder_level"
)

// StockAppliedEvent is emitted after a document's full inventory effect has
// been committed.
type StockAppliedEvent struct {
	shared.BaseDomainEvent
	SourceType     SourceType `json:"source_type"`
	DocumentNumber string     `json:"document_number"`
	LineCount      int        `json:"line_count"`
}

// NewStockAppliedEvent creates a new StockAppliedEvent
func NewStockAppliedEvent(sourceType SourceType, documentID uuid.UUID, documentNumber string, lineCount int) *StockAppliedEvent {
	return &StockAppliedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStockApplied, "StockLevel", documentID),
		SourceType:      sourceType,
		DocumentNumber:  documentNumber,
		LineCount:       lineCount,
	}
}

// StockBelowReorderLevelEvent is emitted when an applied movement leaves a
// product's on-hand quantity at a location below its reorder level.
type StockBelowReorderLevelEvent struct {
	shared.BaseDomainEvent
	ProductID    uuid.UUID       `json:"product_id"`
	LocationID   uuid.UUID       `json:"location_id"`
	OnHand       decimal.Decimal `json:"on_hand"`
	ReorderLevel decimal.Decimal `json:"reorder_level"`
}

// NewStockBelowReorderLevelEvent creates a new StockBelowReorderLevelEvent
func NewStockBelowReorderLevelEvent(productID, locationID uuid.UUID, onHand, reorderLevel decimal.Decimal) *StockBelowReorderLevelEvent {
	return &StockBelowReorderLevelEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStockBelowReorderLevel, "StockLevel", productID),
		ProductID:       productID,
		LocationID:      locationID,
		OnHand:          onHand,
		ReorderLevel:    reorderLevel,
	}
}
