package document

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/warehouse/backend/internal/domain/inventory"
	"github.com/warehouse/backend/internal/domain/shared"
)

// Adjustment corrects on-hand quantities at one location to match a
// physical count. Each line snapshots the current quantity next to the
// counted quantity; the applied delta is counted minus current.
type Adjustment struct {
	shared.BaseAggregateRoot
	Number     string           `gorm:"uniqueIndex;not null;type:varchar(30)" json:"number"`
	Status     Status           `gorm:"not null;type:varchar(20);default:'DRAFT'" json:"status"`
	LocationID uuid.UUID        `gorm:"not null;type:varchar(36);index" json:"location_id"`
	Reason     string           `gorm:"type:varchar(200)" json:"reason"`
	Note       string           `gorm:"type:text" json:"note"`
	DoneAt     *time.Time       `json:"done_at"`
	Lines      []AdjustmentLine `gorm:"foreignKey:AdjustmentID" json:"lines"`
}

// AdjustmentLine is one counted product. CurrentQty is the system quantity
// captured when the line was recorded, kept for audit.
type AdjustmentLine struct {
	shared.BaseEntity
	AdjustmentID uuid.UUID       `gorm:"not null;type:varchar(36);index" json:"adjustment_id"`
	ProductID    uuid.UUID       `gorm:"not null;type:varchar(36);index" json:"product_id"`
	CountedQty   decimal.Decimal `gorm:"not null;type:decimal(18,4)" json:"counted_qty"`
	CurrentQty   decimal.Decimal `gorm:"not null;type:decimal(18,4);default:0" json:"current_qty"`
}

// Delta returns the signed correction the line applies
func (l *AdjustmentLine) Delta() decimal.Decimal {
	return l.CountedQty.Sub(l.CurrentQty)
}

// TableName returns the table name for GORM
func (Adjustment) TableName() string {
	return "adjustments"
}

// TableName returns the table name for GORM
func (AdjustmentLine) TableName() string {
	return "adjustment_lines"
}

// NewAdjustment creates an adjustment in Draft with an assigned document number
func NewAdjustment(number string, locationID uuid.UUID, reason string) (*Adjustment, error) {
	if number == "" {
		return nil, shared.NewDomainError("INVALID_NUMBER", "Document number is required")
	}
	if locationID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_LOCATION", "Location is required")
	}
	return &Adjustment{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Number:            number,
		Status:            StatusDraft,
		LocationID:        locationID,
		Reason:            reason,
		Lines:             []AdjustmentLine{},
	}, nil
}

// AddLine records a counted quantity for a product alongside the system
// quantity at the time of counting. Counted quantities may be zero but
// never negative. One line per product.
func (a *Adjustment) AddLine(productID uuid.UUID, countedQty, currentQty decimal.Decimal) error {
	if a.Status != StatusDraft {
		return shared.NewDomainError("DOCUMENT_NOT_DRAFT", "Lines can only be changed while the document is in draft")
	}
	if productID == uuid.Nil {
		return shared.NewDomainError("INVALID_PRODUCT", "Product is required")
	}
	if countedQty.IsNegative() {
		return shared.NewDomainError("INVALID_QUANTITY", "Counted quantity cannot be negative")
	}
	for i := range a.Lines {
		if a.Lines[i].ProductID == productID {
			return shared.NewDomainError("DUPLICATE_LINE", "Product already counted on this adjustment")
		}
	}
	a.Lines = append(a.Lines, AdjustmentLine{
		BaseEntity:   shared.NewBaseEntity(),
		AdjustmentID: a.ID,
		ProductID:    productID,
		CountedQty:   countedQty,
		CurrentQty:   currentQty,
	})
	return nil
}

// UpdateLine changes the counted quantity of an existing line
func (a *Adjustment) UpdateLine(lineID uuid.UUID, countedQty decimal.Decimal) error {
	if a.Status != StatusDraft {
		return shared.NewDomainError("DOCUMENT_NOT_DRAFT", "Lines can only be changed while the document is in draft")
	}
	if countedQty.IsNegative() {
		return shared.NewDomainError("INVALID_QUANTITY", "Counted quantity cannot be negative")
	}
	for i := range a.Lines {
		if a.Lines[i].ID == lineID {
			a.Lines[i].CountedQty = countedQty
			a.Lines[i].Touch()
			return nil
		}
	}
	return shared.NewDomainError("LINE_NOT_FOUND", "Document line not found")
}

// RemoveLine deletes a line from a draft adjustment
func (a *Adjustment) RemoveLine(lineID uuid.UUID) error {
	if a.Status != StatusDraft {
		return shared.NewDomainError("DOCUMENT_NOT_DRAFT", "Lines can only be changed while the document is in draft")
	}
	for i := range a.Lines {
		if a.Lines[i].ID == lineID {
			a.Lines = append(a.Lines[:i], a.Lines[i+1:]...)
			return nil
		}
	}
	return shared.NewDomainError("LINE_NOT_FOUND", "Document line not found")
}

// MarkDone records the stock effect having been applied. Adjustments go
// straight from Draft to Done in one processing step.
func (a *Adjustment) MarkDone() error {
	if !CanTransition(TypeAdjustment, a.Status, StatusDone) {
		return shared.NewDomainError("INVALID_STATUS_TRANSITION", "Adjustment can only be processed from draft")
	}
	if len(a.Lines) == 0 {
		return shared.NewDomainError("EMPTY_DOCUMENT", "Document must have at least one line")
	}
	now := time.Now()
	a.Status = StatusDone
	a.DoneAt = &now
	a.UpdatedAt = now
	a.AddDomainEvent(NewDocumentDoneEvent(TypeAdjustment, a.ID, a.Number))
	return nil
}

// Cancel aborts an adjustment before its stock effect was applied
func (a *Adjustment) Cancel(reason string) error {
	if !CanTransition(TypeAdjustment, a.Status, StatusCancelled) {
		return shared.NewDomainError("INVALID_STATUS_TRANSITION", "Only draft adjustments can be cancelled")
	}
	a.Status = StatusCancelled
	if reason != "" {
		a.Note = reason
	}
	a.Touch()
	a.AddDomainEvent(NewDocumentCancelledEvent(TypeAdjustment, a.ID, a.Number, reason))
	return nil
}

// CurrentStatus returns the document's lifecycle state
func (a *Adjustment) CurrentStatus() Status { return a.Status }

// CanProcess reports whether the document is in the state that admits
// applying its stock effect
func (a *Adjustment) CanProcess() bool {
	return a.Status == StatusDraft
}

// GetID implements inventory.StockEffect
func (a *Adjustment) GetID() uuid.UUID { return a.ID }

// GetNumber implements inventory.StockEffect
func (a *Adjustment) GetNumber() string { return a.Number }

// EffectSourceType implements inventory.StockEffect
func (a *Adjustment) EffectSourceType() inventory.SourceType {
	return inventory.SourceTypeAdjustment
}

// EffectActorID implements inventory.StockEffect
func (a *Adjustment) EffectActorID() *uuid.UUID { return nil }

// EffectLines yields one correction movement per counted line. Lines whose
// counted quantity already matches the snapshot produce no movement.
func (a *Adjustment) EffectLines() ([]inventory.EffectLine, error) {
	if len(a.Lines) == 0 {
		return nil, shared.NewDomainError("EMPTY_DOCUMENT", "Document must have at least one line")
	}
	effects := make([]inventory.EffectLine, 0, len(a.Lines))
	for i := range a.Lines {
		delta := a.Lines[i].Delta()
		if delta.IsZero() {
			continue
		}
		effects = append(effects, inventory.EffectLine{
			LineID:     a.Lines[i].ID,
			ProductID:  a.Lines[i].ProductID,
			LocationID: a.LocationID,
			Delta:      delta,
			Kind:       inventory.MovementKindAdjustment,
		})
	}
	return effects, nil
}
