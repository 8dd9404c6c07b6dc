package inventory

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/warehouse/backend/internal/domain/shared"
)

// MovementKind classifies a stock movement by its cause
type MovementKind string

const (
	// MovementKindReceiptIn is stock received from a supplier
	MovementKindReceiptIn MovementKind = "RECEIPT_IN"
	// MovementKindDeliveryOut is stock shipped to a customer
	MovementKindDeliveryOut MovementKind = "DELIVERY_OUT"
	// MovementKindTransferOut is stock leaving the source location of an internal transfer
	MovementKindTransferOut MovementKind = "TRANSFER_OUT"
	// MovementKindTransferIn is stock arriving at the destination location of an internal transfer
	MovementKindTransferIn MovementKind = "TRANSFER_IN"
	// MovementKindAdjustment is a counted-quantity correction
	MovementKindAdjustment MovementKind = "ADJUSTMENT"
)

// String returns the string representation of MovementKind
func (k MovementKind) String() string {
	return string(k)
}

// IsValid returns true if the movement kind is valid
func (k MovementKind) IsValid() bool {
	switch k {
	case MovementKindReceiptIn,
		MovementKindDeliveryOut,
		MovementKindTransferOut,
		MovementKindTransferIn,
		MovementKindAdjustment:
		return true
	}
	return false
}

// SourceType identifies the document type that caused a movement
type SourceType string

const (
	// SourceTypeReceipt is an inbound goods receipt
	SourceTypeReceipt SourceType = "RECEIPT"
	// SourceTypeDelivery is an outbound customer delivery
	SourceTypeDelivery SourceType = "DELIVERY"
	// SourceTypeTransfer is an internal location-to-location transfer
	SourceTypeTransfer SourceType = "TRANSFER"
	// SourceTypeAdjustment is a manual stock adjustment
	SourceTypeAdjustment SourceType = "ADJUSTMENT"
)

// String returns the string representation of SourceType
func (s SourceType) String() string {
	return string(s)
}

// IsValid returns true if the source type is valid
func (s SourceType) IsValid() bool {
	switch s {
	case SourceTypeReceipt, SourceTypeDelivery, SourceTypeTransfer, SourceTypeAdjustment:
		return true
	}
	return false
}

// StockMovement is an immutable ledger record of one quantity change.
// Once created, movements are never updated or deleted; corrections are
// made by applying a compensating adjustment document. The sum of all
// deltas for a (product, location) pair must always equal the current
// StockLevel quantity for that pair.
type StockMovement struct {
	shared.BaseEntity
	ProductID    uuid.UUID       `gorm:"type:uuid;not null;index:idx_stock_movement_key,priority:1"`
	LocationID   uuid.UUID       `gorm:"type:uuid;not null;index:idx_stock_movement_key,priority:2"`
	Delta        decimal.Decimal `gorm:"type:decimal(18,4);not null"` // Signed quantity change
	Unit         string          `gorm:"type:varchar(20);not null"`
	Kind         MovementKind    `gorm:"type:varchar(20);not null;index"`
	SourceType   SourceType      `gorm:"type:varchar(20);not null;index:idx_stock_movement_source,priority:1"`
	SourceID     uuid.UUID       `gorm:"type:uuid;not null;index:idx_stock_movement_source,priority:2"`
	SourceLineID *uuid.UUID      `gorm:"type:uuid"`
	ActorID      *uuid.UUID      `gorm:"type:uuid"`
	Note         string          `gorm:"type:varchar(255)"`
	OccurredAt   time.Time       `gorm:"not null;index"`
}

// TableName returns the table name for GORM
func (StockMovement) TableName() string {
	return "stock_movements"
}

// NewStockMovement creates a new ledger entry
func NewStockMovement(
	productID, locationID uuid.UUID,
	delta decimal.Decimal,
	unit string,
	kind MovementKind,
	sourceType SourceType,
	sourceID uuid.UUID,
) (*StockMovement, error) {
	if productID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
	}
	if locationID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_LOCATION", "Location ID cannot be empty")
	}
	if delta.IsZero() {
		return nil, shared.NewDomainError("INVALID_DELTA", "Movement delta cannot be zero")
	}
	if !kind.IsValid() {
		return nil, shared.NewDomainError("INVALID_KIND", "Invalid movement kind")
	}
	if !sourceType.IsValid() {
		return nil, shared.NewDomainError("INVALID_SOURCE_TYPE", "Invalid source type")
	}
	if sourceID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_SOURCE_ID", "Source document ID cannot be empty")
	}
	if unit == "" {
		unit = "unit"
	}

	return &StockMovement{
		BaseEntity: shared.NewBaseEntity(),
		ProductID:  productID,
		LocationID: locationID,
		Delta:      delta,
		Unit:       unit,
		Kind:       kind,
		SourceType: sourceType,
		SourceID:   sourceID,
		OccurredAt: time.Now(),
	}, nil
}

// WithSourceLineID links the movement to the document line that caused it
func (m *StockMovement) WithSourceLineID(lineID uuid.UUID) *StockMovement {
	m.SourceLineID = &lineID
	return m
}

// WithActorID records the user who triggered the movement
func (m *StockMovement) WithActorID(actorID uuid.UUID) *StockMovement {
	m.ActorID = &actorID
	return m
}

// WithNote attaches a free-text note to the movement
func (m *StockMovement) WithNote(note string) *StockMovement {
	m.Note = note
	return m
}

// WithOccurredAt overrides the movement timestamp
func (m *StockMovement) WithOccurredAt(at time.Time) *StockMovement {
	m.OccurredAt = at
	return m
}

// IsInbound returns true if the movement increases on-hand quantity
func (m *StockMovement) IsInbound() bool {
	return m.Delta.IsPositive()
}

// IsOutbound returns true if the movement decreases on-hand quantity
func (m *StockMovement) IsOutbound() bool {
	return m.Delta.IsNegative()
}
