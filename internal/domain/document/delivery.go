package document

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/warehouse/backend/internal/domain/inventory"
	"github.com/warehouse/backend/internal/domain/shared"
)

// Delivery is an outbound document: goods leaving a single source location
// for a customer. A delivery whose stock check fails parks in Waiting and
// can be re-checked once stock arrives.
type Delivery struct {
	shared.BaseAggregateRoot
	Number          string         `gorm:"uniqueIndex;not null;type:varchar(30)" json:"number"`
	Status          Status         `gorm:"not null;type:varchar(20);default:'DRAFT'" json:"status"`
	CustomerName    string         `gorm:"not null;type:varchar(200)" json:"customer_name"`
	ShippingAddress string         `gorm:"type:text" json:"shipping_address"`
	LocationID      uuid.UUID      `gorm:"not null;type:varchar(36);index" json:"location_id"`
	Note            string         `gorm:"type:text" json:"note"`
	DoneAt          *time.Time     `json:"done_at"`
	Lines           []DeliveryLine `gorm:"foreignKey:DeliveryID" json:"lines"`
}

// DeliveryLine is one product to pick on a delivery
type DeliveryLine struct {
	shared.BaseEntity
	DeliveryID uuid.UUID       `gorm:"not null;type:varchar(36);index" json:"delivery_id"`
	ProductID  uuid.UUID       `gorm:"not null;type:varchar(36);index" json:"product_id"`
	Quantity   decimal.Decimal `gorm:"not null;type:decimal(18,4)" json:"quantity"`
	UnitPrice  decimal.Decimal `gorm:"not null;type:decimal(18,4);default:0" json:"unit_price"`
}

// LineTotal returns quantity times unit price for the line
func (l *DeliveryLine) LineTotal() decimal.Decimal {
	return l.Quantity.Mul(l.UnitPrice)
}

// TableName returns the table name for GORM
func (Delivery) TableName() string {
	return "deliveries"
}

// TableName returns the table name for GORM
func (DeliveryLine) TableName() string {
	return "delivery_lines"
}

// NewDelivery creates a delivery in Draft with an assigned document number
func NewDelivery(number, customerName string, locationID uuid.UUID) (*Delivery, error) {
	if number == "" {
		return nil, shared.NewDomainError("INVALID_NUMBER", "Document number is required")
	}
	if customerName == "" {
		return nil, shared.NewDomainError("INVALID_CUSTOMER", "Customer name is required")
	}
	if locationID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_LOCATION", "Source location is required")
	}
	return &Delivery{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Number:            number,
		Status:            StatusDraft,
		CustomerName:      customerName,
		LocationID:        locationID,
		Lines:             []DeliveryLine{},
	}, nil
}

// AddLine appends a product line. Only Draft documents accept line changes.
func (d *Delivery) AddLine(productID uuid.UUID, quantity, unitPrice decimal.Decimal) error {
	if d.Status != StatusDraft {
		return shared.NewDomainError("DOCUMENT_NOT_DRAFT", "Lines can only be changed while the document is in draft")
	}
	if productID == uuid.Nil {
		return shared.NewDomainError("INVALID_PRODUCT", "Product is required")
	}
	if quantity.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be greater than zero")
	}
	if unitPrice.IsNegative() {
		return shared.NewDomainError("INVALID_UNIT_PRICE", "Unit price cannot be negative")
	}
	for i := range d.Lines {
		if d.Lines[i].ProductID == productID {
			d.Lines[i].Quantity = d.Lines[i].Quantity.Add(quantity)
			d.Lines[i].UnitPrice = unitPrice
			d.Lines[i].Touch()
			return nil
		}
	}
	d.Lines = append(d.Lines, DeliveryLine{
		BaseEntity: shared.NewBaseEntity(),
		DeliveryID: d.ID,
		ProductID:  productID,
		Quantity:   quantity,
		UnitPrice:  unitPrice,
	})
	return nil
}

// UpdateLine changes quantity and unit price of an existing line
func (d *Delivery) UpdateLine(lineID uuid.UUID, quantity, unitPrice decimal.Decimal) error {
	if d.Status != StatusDraft {
		return shared.NewDomainError("DOCUMENT_NOT_DRAFT", "Lines can only be changed while the document is in draft")
	}
	if quantity.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be greater than zero")
	}
	if unitPrice.IsNegative() {
		return shared.NewDomainError("INVALID_UNIT_PRICE", "Unit price cannot be negative")
	}
	for i := range d.Lines {
		if d.Lines[i].ID == lineID {
			d.Lines[i].Quantity = quantity
			d.Lines[i].UnitPrice = unitPrice
			d.Lines[i].Touch()
			return nil
		}
	}
	return shared.NewDomainError("LINE_NOT_FOUND", "Document line not found")
}

// RemoveLine deletes a line from a draft delivery
func (d *Delivery) RemoveLine(lineID uuid.UUID) error {
	if d.Status != StatusDraft {
		return shared.NewDomainError("DOCUMENT_NOT_DRAFT", "Lines can only be changed while the document is in draft")
	}
	for i := range d.Lines {
		if d.Lines[i].ID == lineID {
			d.Lines = append(d.Lines[:i], d.Lines[i+1:]...)
			return nil
		}
	}
	return shared.NewDomainError("LINE_NOT_FOUND", "Document line not found")
}

// MarkReady moves the delivery to Ready after a successful stock check.
// Valid from Draft and from Waiting, so parked documents can be released.
func (d *Delivery) MarkReady() error {
	if !CanTransition(TypeDelivery, d.Status, StatusReady) {
		return shared.NewDomainError("INVALID_STATUS_TRANSITION", "Delivery can only become ready from draft or waiting")
	}
	if len(d.Lines) == 0 {
		return shared.NewDomainError("EMPTY_DOCUMENT", "Document must have at least one line")
	}
	d.Status = StatusReady
	d.Touch()
	d.AddDomainEvent(NewDocumentValidatedEvent(TypeDelivery, d.ID, d.Number))
	return nil
}

// MarkWaiting parks the delivery when stock is insufficient. Re-checking a
// delivery that is already Waiting leaves it Waiting.
func (d *Delivery) MarkWaiting() error {
	if !CanTransition(TypeDelivery, d.Status, StatusWaiting) {
		return shared.NewDomainError("INVALID_STATUS_TRANSITION", "Delivery can only wait from draft or waiting")
	}
	if len(d.Lines) == 0 {
		return shared.NewDomainError("EMPTY_DOCUMENT", "Document must have at least one line")
	}
	d.Status = StatusWaiting
	d.Touch()
	return nil
}

// MarkDone records the stock effect having been applied. Done is terminal.
func (d *Delivery) MarkDone() error {
	if !CanTransition(TypeDelivery, d.Status, StatusDone) {
		return shared.NewDomainError("INVALID_STATUS_TRANSITION", "Delivery must be ready before processing")
	}
	now := time.Now()
	d.Status = StatusDone
	d.DoneAt = &now
	d.UpdatedAt = now
	d.AddDomainEvent(NewDocumentDoneEvent(TypeDelivery, d.ID, d.Number))
	return nil
}

// Cancel aborts a delivery before its stock effect was applied
func (d *Delivery) Cancel(reason string) error {
	if !CanTransition(TypeDelivery, d.Status, StatusCancelled) {
		return shared.NewDomainError("INVALID_STATUS_TRANSITION", "Only draft or waiting deliveries can be cancelled")
	}
	d.Status = StatusCancelled
	if reason != "" {
		d.Note = reason
	}
	d.Touch()
	d.AddDomainEvent(NewDocumentCancelledEvent(TypeDelivery, d.ID, d.Number, reason))
	return nil
}

// CurrentStatus returns the document's lifecycle state
func (d *Delivery) CurrentStatus() Status { return d.Status }

// CanProcess reports whether the document is in the state that admits
// applying its stock effect
func (d *Delivery) CanProcess() bool {
	return d.Status == StatusReady
}

// TotalPrice sums all line totals
func (d *Delivery) TotalPrice() decimal.Decimal {
	total := decimal.Zero
	for i := range d.Lines {
		total = total.Add(d.Lines[i].LineTotal())
	}
	return total
}

// GetID implements inventory.StockEffect
func (d *Delivery) GetID() uuid.UUID { return d.ID }

// GetNumber implements inventory.StockEffect
func (d *Delivery) GetNumber() string { return d.Number }

// EffectSourceType implements inventory.StockEffect
func (d *Delivery) EffectSourceType() inventory.SourceType { return inventory.SourceTypeDelivery }

// EffectActorID implements inventory.StockEffect
func (d *Delivery) EffectActorID() *uuid.UUID { return nil }

// EffectLines yields one negative movement per line out of the delivery's
// source location
func (d *Delivery) EffectLines() ([]inventory.EffectLine, error) {
	if len(d.Lines) == 0 {
		return nil, shared.NewDomainError("EMPTY_DOCUMENT", "Document must have at least one line")
	}
	effects := make([]inventory.EffectLine, 0, len(d.Lines))
	for i := range d.Lines {
		effects = append(effects, inventory.EffectLine{
			LineID:     d.Lines[i].ID,
			ProductID:  d.Lines[i].ProductID,
			LocationID: d.LocationID,
			Delta:      d.Lines[i].Quantity.Neg(),
			Kind:       inventory.MovementKindDeliveryOut,
		})
	}
	return effects, nil
}
