package document

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/warehouse/backend/internal/domain/inventory"
	"github.com/warehouse/backend/internal/domain/shared"
)

// InternalTransfer moves stock between locations without changing the total
// on hand. The source location sits on the header; each line names its own
// destination, so one transfer can fan goods out to several locations.
type InternalTransfer struct {
	shared.BaseAggregateRoot
	Number         string         `gorm:"uniqueIndex;not null;type:varchar(30)" json:"number"`
	Status         Status         `gorm:"not null;type:varchar(20);default:'DRAFT'" json:"status"`
	FromLocationID uuid.UUID      `gorm:"not null;type:varchar(36);index" json:"from_location_id"`
	Note           string         `gorm:"type:text" json:"note"`
	DoneAt         *time.Time     `json:"done_at"`
	Lines          []TransferLine `gorm:"foreignKey:TransferID" json:"lines"`
}

// TransferLine is one product moving to one destination location
type TransferLine struct {
	shared.BaseEntity
	TransferID   uuid.UUID       `gorm:"not null;type:varchar(36);index" json:"transfer_id"`
	ProductID    uuid.UUID       `gorm:"not null;type:varchar(36);index" json:"product_id"`
	ToLocationID uuid.UUID       `gorm:"not null;type:varchar(36);index" json:"to_location_id"`
	Quantity     decimal.Decimal `gorm:"not null;type:decimal(18,4)" json:"quantity"`
}

// TableName returns the table name for GORM
func (InternalTransfer) TableName() string {
	return "internal_transfers"
}

// TableName returns the table name for GORM
func (TransferLine) TableName() string {
	return "transfer_lines"
}

// NewInternalTransfer creates a transfer in Draft with an assigned document number
func NewInternalTransfer(number string, fromLocationID uuid.UUID) (*InternalTransfer, error) {
	if number == "" {
		return nil, shared.NewDomainError("INVALID_NUMBER", "Document number is required")
	}
	if fromLocationID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_LOCATION", "Source location is required")
	}
	return &InternalTransfer{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Number:            number,
		Status:            StatusDraft,
		FromLocationID:    fromLocationID,
		Lines:             []TransferLine{},
	}, nil
}

// AddLine appends a product line bound for a destination location. The
// destination must differ from the transfer's source location.
func (t *InternalTransfer) AddLine(productID, toLocationID uuid.UUID, quantity decimal.Decimal) error {
	if t.Status != StatusDraft {
		return shared.NewDomainError("DOCUMENT_NOT_DRAFT", "Lines can only be changed while the document is in draft")
	}
	if productID == uuid.Nil {
		return shared.NewDomainError("INVALID_PRODUCT", "Product is required")
	}
	if toLocationID == uuid.Nil {
		return shared.NewDomainError("INVALID_LOCATION", "Destination location is required")
	}
	if toLocationID == t.FromLocationID {
		return shared.NewDomainError("SAME_LOCATION", "Destination must differ from the source location")
	}
	if quantity.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be greater than zero")
	}
	for i := range t.Lines {
		if t.Lines[i].ProductID == productID && t.Lines[i].ToLocationID == toLocationID {
			t.Lines[i].Quantity = t.Lines[i].Quantity.Add(quantity)
			t.Lines[i].Touch()
			return nil
		}
	}
	t.Lines = append(t.Lines, TransferLine{
		BaseEntity:   shared.NewBaseEntity(),
		TransferID:   t.ID,
		ProductID:    productID,
		ToLocationID: toLocationID,
		Quantity:     quantity,
	})
	return nil
}

// UpdateLine changes the quantity of an existing line
func (t *InternalTransfer) UpdateLine(lineID uuid.UUID, quantity decimal.Decimal) error {
	if t.Status != StatusDraft {
		return shared.NewDomainError("DOCUMENT_NOT_DRAFT", "Lines can only be changed while the document is in draft")
	}
	if quantity.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be greater than zero")
	}
	for i := range t.Lines {
		if t.Lines[i].ID == lineID {
			t.Lines[i].Quantity = quantity
			t.Lines[i].Touch()
			return nil
		}
	}
	return shared.NewDomainError("LINE_NOT_FOUND", "Document line not found")
}

// RemoveLine deletes a line from a draft transfer
func (t *InternalTransfer) RemoveLine(lineID uuid.UUID) error {
	if t.Status != StatusDraft {
		return shared.NewDomainError("DOCUMENT_NOT_DRAFT", "Lines can only be changed while the document is in draft")
	}
	for i := range t.Lines {
		if t.Lines[i].ID == lineID {
			t.Lines = append(t.Lines[:i], t.Lines[i+1:]...)
			return nil
		}
	}
	return shared.NewDomainError("LINE_NOT_FOUND", "Document line not found")
}

// MarkDone records the stock effect having been applied. Transfers go
// straight from Draft to Done in one processing step.
func (t *InternalTransfer) MarkDone() error {
	if !CanTransition(TypeTransfer, t.Status, StatusDone) {
		return shared.NewDomainError("INVALID_STATUS_TRANSITION", "Transfer can only be processed from draft")
	}
	if len(t.Lines) == 0 {
		return shared.NewDomainError("EMPTY_DOCUMENT", "Document must have at least one line")
	}
	now := time.Now()
	t.Status = StatusDone
	t.DoneAt = &now
	t.UpdatedAt = now
	t.AddDomainEvent(NewDocumentDoneEvent(TypeTransfer, t.ID, t.Number))
	return nil
}

// Cancel aborts a transfer before its stock effect was applied
func (t *InternalTransfer) Cancel(reason string) error {
	if !CanTransition(TypeTransfer, t.Status, StatusCancelled) {
		return shared.NewDomainError("INVALID_STATUS_TRANSITION", "Only draft transfers can be cancelled")
	}
	t.Status = StatusCancelled
	if reason != "" {
		t.Note = reason
	}
	t.Touch()
	t.AddDomainEvent(NewDocumentCancelledEvent(TypeTransfer, t.ID, t.Number, reason))
	return nil
}

// CurrentStatus returns the document's lifecycle state
func (t *InternalTransfer) CurrentStatus() Status { return t.Status }

// CanProcess reports whether the document is in the state that admits
// applying its stock effect
func (t *InternalTransfer) CanProcess() bool {
	return t.Status == StatusDraft
}

// GetID implements inventory.StockEffect
func (t *InternalTransfer) GetID() uuid.UUID { return t.ID }

// GetNumber implements inventory.StockEffect
func (t *InternalTransfer) GetNumber() string { return t.Number }

// EffectSourceType implements inventory.StockEffect
func (t *InternalTransfer) EffectSourceType() inventory.SourceType {
	return inventory.SourceTypeTransfer
}

// EffectActorID implements inventory.StockEffect
func (t *InternalTransfer) EffectActorID() *uuid.UUID { return nil }

// EffectLines expands every transfer line into a matched pair of movements,
// negative at the source and positive at the destination, so the net effect
// on total stock is zero
func (t *InternalTransfer) EffectLines() ([]inventory.EffectLine, error) {
	if len(t.Lines) == 0 {
		return nil, shared.NewDomainError("EMPTY_DOCUMENT", "Document must have at least one line")
	}
	effects := make([]inventory.EffectLine, 0, len(t.Lines)*2)
	for i := range t.Lines {
		effects = append(effects, inventory.EffectLine{
			LineID:     t.Lines[i].ID,
			ProductID:  t.Lines[i].ProductID,
			LocationID: t.FromLocationID,
			Delta:      t.Lines[i].Quantity.Neg(),
			Kind:       inventory.MovementKindTransferOut,
		})
		effects = append(effects, inventory.EffectLine{
			LineID:     t.Lines[i].ID,
			ProductID:  t.Lines[i].ProductID,
			LocationID: t.Lines[i].ToLocationID,
			Delta:      t.Lines[i].Quantity,
			Kind:       inventory.MovementKindTransferIn,
		})
	}
	return effects, nil
}
