package document

import (
	"context"

	"github.com/google/uuid"
	"github.com/warehouse/backend/internal/domain/shared"
)

// SequenceRepository hands out document numbers. Next must be atomic under
// concurrent callers: two documents of the same type never receive the same
// sequence value, and values within a type are gapless under commit.
type SequenceRepository interface {
	// Next increments and returns the counter for the given document type
	Next(ctx context.Context, t Type) (int64, error)
	// Current returns the last issued value without incrementing, zero if
	// no number was ever issued for the type
	Current(ctx context.Context, t Type) (int64, error)
}

// ReceiptRepository persists receipts
type ReceiptRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Receipt, error)
	FindByNumber(ctx context.Context, number string) (*Receipt, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]*Receipt, error)
	Count(ctx context.Context, filter shared.Filter) (int64, error)
	Save(ctx context.Context, receipt *Receipt) error
	// SaveWithStatusGate persists the aggregate only if its stored status
	// and version still match the expected values. Returns
	// shared.ErrConcurrencyConflict when another writer got there first.
	SaveWithStatusGate(ctx context.Context, receipt *Receipt, expectedStatus Status, expectedVersion int) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// DeliveryRepository persists deliveries
type DeliveryRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Delivery, error)
	FindByNumber(ctx context.Context, number string) (*Delivery, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]*Delivery, error)
	FindByStatus(ctx context.Context, status Status, filter shared.Filter) ([]*Delivery, error)
	Count(ctx context.Context, filter shared.Filter) (int64, error)
	Save(ctx context.Context, delivery *Delivery) error
	SaveWithStatusGate(ctx context.Context, delivery *Delivery, expectedStatus Status, expectedVersion int) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// TransferRepository persists internal transfers
type TransferRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*InternalTransfer, error)
	FindByNumber(ctx context.Context, number string) (*InternalTransfer, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]*InternalTransfer, error)
	Count(ctx context.Context, filter shared.Filter) (int64, error)
	Save(ctx context.Context, transfer *InternalTransfer) error
	SaveWithStatusGate(ctx context.Context, transfer *InternalTransfer, expectedStatus Status, expectedVersion int) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// AdjustmentRepository persists adjustments
type AdjustmentRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Adjustment, error)
	FindByNumber(ctx context.Context, number string) (*Adjustment, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]*Adjustment, error)
	Count(ctx context.Context, filter shared.Filter) (int64, error)
	Save(ctx context.Context, adjustment *Adjustment) error
	SaveWithStatusGate(ctx context.Context, adjustment *Adjustment, expectedStatus Status, expectedVersion int) error
	Delete(ctx context.Context, id uuid.UUID) error
}
