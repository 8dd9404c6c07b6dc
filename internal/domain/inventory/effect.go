package inventory

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// EffectLine is one signed quantity change a document wants to apply to a
// (product, location) key. A transfer document line expands into two effect
// lines, one negative at the source and one positive at the destination.
type EffectLine struct {
	LineID     uuid.UUID
	ProductID  uuid.UUID
	LocationID uuid.UUID
	Delta      decimal.Decimal
	Kind       MovementKind
}

// StockEffect is implemented by every document type that carries an
// inventory effect. The stock application engine consumes this interface,
// so the four document types share one apply path instead of four.
type StockEffect interface {
	// GetID returns the source document ID
	GetID() uuid.UUID
	// GetNumber returns the human-readable document number
	GetNumber() string
	// EffectSourceType returns the ledger source type for this document
	EffectSourceType() SourceType
	// EffectLines computes the signed quantity changes for all lines.
	// Called at apply time, after validation has passed.
	EffectLines() ([]EffectLine, error)
	// EffectActorID returns the responsible user, if known
	EffectActorID() *uuid.UUID
}
