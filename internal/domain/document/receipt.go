package document

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/warehouse/backend/internal/domain/inventory"
	"github.com/warehouse/backend/internal/domain/shared"
)

// Receipt is an inbound document: goods arriving from a supplier and put
// away at a single destination location.
type Receipt struct {
	shared.BaseAggregateRoot
	Number       string        `gorm:"uniqueIndex;not null;type:varchar(30)" json:"number"`
	Status       Status        `gorm:"not null;type:varchar(20);default:'DRAFT'" json:"status"`
	SupplierName string        `gorm:"not null;type:varchar(200)" json:"supplier_name"`
	SupplierRef  string        `gorm:"type:varchar(100)" json:"supplier_ref"`
	LocationID   uuid.UUID     `gorm:"not null;type:varchar(36);index" json:"location_id"`
	Note         string        `gorm:"type:text" json:"note"`
	DoneAt       *time.Time    `json:"done_at"`
	Lines        []ReceiptLine `gorm:"foreignKey:ReceiptID" json:"lines"`
}

// ReceiptLine is one product expected on a receipt
type ReceiptLine struct {
	shared.BaseEntity
	ReceiptID uuid.UUID       `gorm:"not null;type:varchar(36);index" json:"receipt_id"`
	ProductID uuid.UUID       `gorm:"not null;type:varchar(36);index" json:"product_id"`
	Quantity  decimal.Decimal `gorm:"not null;type:decimal(18,4)" json:"quantity"`
	UnitCost  decimal.Decimal `gorm:"not null;type:decimal(18,4);default:0" json:"unit_cost"`
}

// LineTotal returns quantity times unit cost for the line
func (l *ReceiptLine) LineTotal() decimal.Decimal {
	return l.Quantity.Mul(l.UnitCost)
}

// TableName returns the table name for GORM
func (Receipt) TableName() string {
	return "receipts"
}

// TableName returns the table name for GORM
func (ReceiptLine) TableName() string {
	return "receipt_lines"
}

// NewReceipt creates a receipt in Draft with an assigned document number
func NewReceipt(number, supplierName string, locationID uuid.UUID) (*Receipt, error) {
	if number == "" {
		return nil, shared.NewDomainError("INVALID_NUMBER", "Document number is required")
	}
	if supplierName == "" {
		return nil, shared.NewDomainError("INVALID_SUPPLIER", "Supplier name is required")
	}
	if locationID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_LOCATION", "Destination location is required")
	}
	return &Receipt{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Number:            number,
		Status:            StatusDraft,
		SupplierName:      supplierName,
		LocationID:        locationID,
		Lines:             []ReceiptLine{},
	}, nil
}

// AddLine appends a product line. Only Draft documents accept line changes.
func (r *Receipt) AddLine(productID uuid.UUID, quantity, unitCost decimal.Decimal) error {
	if r.Status != StatusDraft {
		return shared.NewDomainError("DOCUMENT_NOT_DRAFT", "Lines can only be changed while the document is in draft")
	}
	if productID == uuid.Nil {
		return shared.NewDomainError("INVALID_PRODUCT", "Product is required")
	}
	if quantity.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be greater than zero")
	}
	if unitCost.IsNegative() {
		return shared.NewDomainError("INVALID_UNIT_COST", "Unit cost cannot be negative")
	}
	for i := range r.Lines {
		if r.Lines[i].ProductID == productID {
			r.Lines[i].Quantity = r.Lines[i].Quantity.Add(quantity)
			r.Lines[i].UnitCost = unitCost
			r.Lines[i].Touch()
			return nil
		}
	}
	r.Lines = append(r.Lines, ReceiptLine{
		BaseEntity: shared.NewBaseEntity(),
		ReceiptID:  r.ID,
		ProductID:  productID,
		Quantity:   quantity,
		UnitCost:   unitCost,
	})
	return nil
}

// UpdateLine changes quantity and unit cost of an existing line
func (r *Receipt) UpdateLine(lineID uuid.UUID, quantity, unitCost decimal.Decimal) error {
	if r.Status != StatusDraft {
		return shared.NewDomainError("DOCUMENT_NOT_DRAFT", "Lines can only be changed while the document is in draft")
	}
	if quantity.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be greater than zero")
	}
	if unitCost.IsNegative() {
		return shared.NewDomainError("INVALID_UNIT_COST", "Unit cost cannot be negative")
	}
	for i := range r.Lines {
		if r.Lines[i].ID == lineID {
			r.Lines[i].Quantity = quantity
			r.Lines[i].UnitCost = unitCost
			r.Lines[i].Touch()
			return nil
		}
	}
	return shared.NewDomainError("LINE_NOT_FOUND", "Document line not found")
}

// RemoveLine deletes a line from a draft receipt
func (r *Receipt) RemoveLine(lineID uuid.UUID) error {
	if r.Status != StatusDraft {
		return shared.NewDomainError("DOCUMENT_NOT_DRAFT", "Lines can only be changed while the document is in draft")
	}
	for i := range r.Lines {
		if r.Lines[i].ID == lineID {
			r.Lines = append(r.Lines[:i], r.Lines[i+1:]...)
			return nil
		}
	}
	return shared.NewDomainError("LINE_NOT_FOUND", "Document line not found")
}

// Validate moves a draft receipt to Ready after checking its completeness
func (r *Receipt) Validate() error {
	if !CanTransition(TypeReceipt, r.Status, StatusReady) {
		return shared.NewDomainError("INVALID_STATUS_TRANSITION", "Receipt can only be validated from draft")
	}
	if len(r.Lines) == 0 {
		return shared.NewDomainError("EMPTY_DOCUMENT", "Document must have at least one line")
	}
	r.Status = StatusReady
	r.Touch()
	r.AddDomainEvent(NewDocumentValidatedEvent(TypeReceipt, r.ID, r.Number))
	return nil
}

// MarkDone records the stock effect having been applied. Done is terminal.
func (r *Receipt) MarkDone() error {
	if !CanTransition(TypeReceipt, r.Status, StatusDone) {
		return shared.NewDomainError("INVALID_STATUS_TRANSITION", "Receipt must be ready before processing")
	}
	now := time.Now()
	r.Status = StatusDone
	r.DoneAt = &now
	r.UpdatedAt = now
	r.AddDomainEvent(NewDocumentDoneEvent(TypeReceipt, r.ID, r.Number))
	return nil
}

// Cancel aborts a receipt before its stock effect was applied
func (r *Receipt) Cancel(reason string) error {
	if !CanTransition(TypeReceipt, r.Status, StatusCancelled) {
		return shared.NewDomainError("INVALID_STATUS_TRANSITION", "Only draft receipts can be cancelled")
	}
	r.Status = StatusCancelled
	if reason != "" {
		r.Note = reason
	}
	r.Touch()
	r.AddDomainEvent(NewDocumentCancelledEvent(TypeReceipt, r.ID, r.Number, reason))
	return nil
}

// CurrentStatus returns the document's lifecycle state
func (r *Receipt) CurrentStatus() Status { return r.Status }

// CanProcess reports whether the document is in the state that admits
// applying its stock effect
func (r *Receipt) CanProcess() bool {
	return r.Status == StatusReady
}

// TotalCost sums all line totals
func (r *Receipt) TotalCost() decimal.Decimal {
	total := decimal.Zero
	for i := range r.Lines {
		total = total.Add(r.Lines[i].LineTotal())
	}
	return total
}

// GetID implements inventory.StockEffect
func (r *Receipt) GetID() uuid.UUID { return r.ID }

// GetNumber implements inventory.StockEffect
func (r *Receipt) GetNumber() string { return r.Number }

// EffectSourceType implements inventory.StockEffect
func (r *Receipt) EffectSourceType() inventory.SourceType { return inventory.SourceTypeReceipt }

// EffectActorID implements inventory.StockEffect
func (r *Receipt) EffectActorID() *uuid.UUID { return nil }

// EffectLines yields one positive movement per line into the receipt's
// destination location
func (r *Receipt) EffectLines() ([]inventory.EffectLine, error) {
	if len(r.Lines) == 0 {
		return nil, shared.NewDomainError("EMPTY_DOCUMENT", "Document must have at least one line")
	}
	effects := make([]inventory.EffectLine, 0, len(r.Lines))
	for i := range r.Lines {
		effects = append(effects, inventory.EffectLine{
			LineID:     r.Lines[i].ID,
			ProductID:  r.Lines[i].ProductID,
			LocationID: r.LocationID,
			Delta:      r.Lines[i].Quantity,
			Kind:       inventory.MovementKindReceiptIn,
		})
	}
	return effects, nil
}
