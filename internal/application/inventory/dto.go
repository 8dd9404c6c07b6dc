package inventory

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/warehouse/backend/internal/domain/inventory"
)

// StockLevelResponse represents one stock level row in API responses
type StockLevelResponse struct {
	ID         uuid.UUID       `json:"id"`
	ProductID  uuid.UUID       `json:"product_id"`
	LocationID uuid.UUID       `json:"location_id"`
	Quantity   decimal.Decimal `json:"quantity"`
	UpdatedAt  time.Time       `json:"updated_at"`
	Version    int             `json:"version"`
}

// ToStockLevelResponse converts a stock level to its response form
func ToStockLevelResponse(level *inventory.StockLevel) StockLevelResponse {
	return StockLevelResponse{
		ID:         level.ID,
		ProductID:  level.ProductID,
		LocationID: level.LocationID,
		Quantity:   level.Quantity,
		UpdatedAt:  level.UpdatedAt,
		Version:    level.Version,
	}
}

// StockQuantityResponse is the answer to a point quantity query
type StockQuantityResponse struct {
	ProductID  uuid.UUID       `json:"product_id"`
	LocationID uuid.UUID       `json:"location_id"`
	Quantity   decimal.Decimal `json:"quantity"`
}

// ProductTotalResponse is the product-wide on-hand total across locations
type ProductTotalResponse struct {
	ProductID uuid.UUID       `json:"product_id"`
	Total     decimal.Decimal `json:"total"`
}

// StockListFilter represents filter options for stock level listing
type StockListFilter struct {
	ProductID  *uuid.UUID `form:"product_id"`
	LocationID *uuid.UUID `form:"location_id"`
	NonEmpty   *bool      `form:"non_empty"`
	Page       int        `form:"page" binding:"min=0"`
	PageSize   int        `form:"page_size" binding:"min=0,max=100"`
	OrderBy    string     `form:"order_by"`
	OrderDir   string     `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// MovementResponse represents one ledger entry in API responses
type MovementResponse struct {
	ID           uuid.UUID       `json:"id"`
	ProductID    uuid.UUID       `json:"product_id"`
	LocationID   uuid.UUID       `json:"location_id"`
	Delta        decimal.Decimal `json:"delta"`
	Unit         string          `json:"unit"`
	Kind         string          `json:"kind"`
	SourceType   string          `json:"source_type"`
	SourceID     uuid.UUID       `json:"source_id"`
	SourceLineID *uuid.UUID      `json:"source_line_id,omitempty"`
	ActorID      *uuid.UUID      `json:"actor_id,omitempty"`
	Note         string          `json:"note,omitempty"`
	OccurredAt   time.Time       `json:"occurred_at"`
}

// ToMovementResponse converts a ledger entry to its response form
func ToMovementResponse(m *inventory.StockMovement) MovementResponse {
	return MovementResponse{
		ID:           m.ID,
		ProductID:    m.ProductID,
		LocationID:   m.LocationID,
		Delta:        m.Delta,
		Unit:         m.Unit,
		Kind:         m.Kind.String(),
		SourceType:   m.SourceType.String(),
		SourceID:     m.SourceID,
		SourceLineID: m.SourceLineID,
		ActorID:      m.ActorID,
		Note:         m.Note,
		OccurredAt:   m.OccurredAt,
	}
}

// MovementListFilter represents filter options for ledger queries
type MovementListFilter struct {
	ProductID  *uuid.UUID `form:"product_id"`
	LocationID *uuid.UUID `form:"location_id"`
	Kind       *string    `form:"kind"`
	SourceType *string    `form:"source_type"`
	SourceID   *uuid.UUID `form:"source_id"`
	From       *time.Time `form:"from" time_format:"2006-01-02T15:04:05Z07:00"`
	To         *time.Time `form:"to" time_format:"2006-01-02T15:04:05Z07:00"`
	Page       int        `form:"page" binding:"min=0"`
	PageSize   int        `form:"page_size" binding:"min=0,max=100"`
}

// ReconciliationResponse summarizes one ledger-versus-level comparison run
type ReconciliationResponse struct {
	CheckedKeys int                           `json:"checked_keys"`
	Drifted     []inventory.ReconciliationRow `json:"drifted"`
	InBalance   bool                          `json:"in_balance"`
	CheckedAt   time.Time                     `json:"checked_at"`
}
