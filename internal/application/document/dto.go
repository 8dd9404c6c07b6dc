package document

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/warehouse/backend/internal/domain/document"
)

// CreateReceiptRequest represents a request to create a goods receipt
type CreateReceiptRequest struct {
	SupplierName string               `json:"supplier_name" binding:"required,max=200"`
	SupplierRef  string               `json:"supplier_ref" binding:"max=100"`
	LocationID   uuid.UUID            `json:"location_id" binding:"required"`
	Note         string               `json:"note"`
	Lines        []ReceiptLineRequest `json:"lines" binding:"dive"`
}

// ReceiptLineRequest represents one line on a receipt create or add request
type ReceiptLineRequest struct {
	ProductID uuid.UUID       `json:"product_id" binding:"required"`
	Quantity  decimal.Decimal `json:"quantity" binding:"required"`
	UnitCost  decimal.Decimal `json:"unit_cost"`
}

// ReceiptLineResponse represents a receipt line in API responses
type ReceiptLineResponse struct {
	ID        uuid.UUID       `json:"id"`
	ProductID uuid.UUID       `json:"product_id"`
	Quantity  decimal.Decimal `json:"quantity"`
	UnitCost  decimal.Decimal `json:"unit_cost"`
	LineTotal decimal.Decimal `json:"line_total"`
}

// ReceiptResponse represents a receipt in API responses
type ReceiptResponse struct {
	ID           uuid.UUID             `json:"id"`
	Number       string                `json:"number"`
	Status       string                `json:"status"`
	SupplierName string                `json:"supplier_name"`
	SupplierRef  string                `json:"supplier_ref,omitempty"`
	LocationID   uuid.UUID             `json:"location_id"`
	Note         string                `json:"note,omitempty"`
	TotalCost    decimal.Decimal       `json:"total_cost"`
	Lines        []ReceiptLineResponse `json:"lines"`
	DoneAt       *time.Time            `json:"done_at,omitempty"`
	CreatedAt    time.Time             `json:"created_at"`
	UpdatedAt    time.Time             `json:"updated_at"`
	Version      int                   `json:"version"`
}

// ToReceiptResponse converts a receipt to its response form
func ToReceiptResponse(r *document.Receipt) ReceiptResponse {
	lines := make([]ReceiptLineResponse, len(r.Lines))
	for i := range r.Lines {
		lines[i] = ReceiptLineResponse{
			ID:        r.Lines[i].ID,
			ProductID: r.Lines[i].ProductID,
			Quantity:  r.Lines[i].Quantity,
			UnitCost:  r.Lines[i].UnitCost,
			LineTotal: r.Lines[i].LineTotal(),
		}
	}
	return ReceiptResponse{
		ID:           r.ID,
		Number:       r.Number,
		Status:       r.Status.String(),
		SupplierName: r.SupplierName,
		SupplierRef:  r.SupplierRef,
		LocationID:   r.LocationID,
		Note:         r.Note,
		TotalCost:    r.TotalCost(),
		Lines:        lines,
		DoneAt:       r.DoneAt,
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
		Version:      r.Version,
	}
}

// CreateDeliveryRequest represents a request to create a delivery order
type CreateDeliveryRequest struct {
	CustomerName    string                `json:"customer_name" binding:"required,max=200"`
	ShippingAddress string                `json:"shipping_address"`
	LocationID      uuid.UUID             `json:"location_id" binding:"required"`
	Note            string                `json:"note"`
	Lines           []DeliveryLineRequest `json:"lines" binding:"dive"`
}

// DeliveryLineRequest represents one line on a delivery create or add request
type DeliveryLineRequest struct {
	ProductID uuid.UUID       `json:"product_id" binding:"required"`
	Quantity  decimal.Decimal `json:"quantity" binding:"required"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

// DeliveryLineResponse represents a delivery line in API responses
type DeliveryLineResponse struct {
	ID        uuid.UUID       `json:"id"`
	ProductID uuid.UUID       `json:"product_id"`
	Quantity  decimal.Decimal `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	LineTotal decimal.Decimal `json:"line_total"`
}

// DeliveryResponse represents a delivery in API responses
type DeliveryResponse struct {
	ID              uuid.UUID              `json:"id"`
	Number          string                 `json:"number"`
	Status          string                 `json:"status"`
	CustomerName    string                 `json:"customer_name"`
	ShippingAddress string                 `json:"shipping_address,omitempty"`
	LocationID      uuid.UUID              `json:"location_id"`
	Note            string                 `json:"note,omitempty"`
	TotalPrice      decimal.Decimal        `json:"total_price"`
	Lines           []DeliveryLineResponse `json:"lines"`
	DoneAt          *time.Time             `json:"done_at,omitempty"`
	CreatedAt       time.Time              `json:"created_at"`
	UpdatedAt       time.Time              `json:"updated_at"`
	Version         int                    `json:"version"`
}

// ToDeliveryResponse converts a delivery to its response form
func ToDeliveryResponse(d *document.Delivery) DeliveryResponse {
	lines := make([]DeliveryLineResponse, len(d.Lines))
	for i := range d.Lines {
		lines[i] = DeliveryLineResponse{
			ID:        d.Lines[i].ID,
			ProductID: d.Lines[i].ProductID,
			Quantity:  d.Lines[i].Quantity,
			UnitPrice: d.Lines[i].UnitPrice,
			LineTotal: d.Lines[i].LineTotal(),
		}
	}
	return DeliveryResponse{
		ID:              d.ID,
		Number:          d.Number,
		Status:          d.Status.String(),
		CustomerName:    d.CustomerName,
		ShippingAddress: d.ShippingAddress,
		LocationID:      d.LocationID,
		Note:            d.Note,
		TotalPrice:      d.TotalPrice(),
		Lines:           lines,
		DoneAt:          d.DoneAt,
		CreatedAt:       d.CreatedAt,
		UpdatedAt:       d.UpdatedAt,
		Version:         d.Version,
	}
}

// ValidationResult reports the status a delivery landed in after an
// availability check, with the lines that could not be covered
type ValidationResult struct {
	Status         string                   `json:"status"`
	DeficientLines []document.DeficientLine `json:"deficient_lines,omitempty"`
}

// CreateTransferRequest represents a request to create an internal transfer
type CreateTransferRequest struct {
	FromLocationID uuid.UUID             `json:"from_location_id" binding:"required"`
	Note           string                `json:"note"`
	Lines          []TransferLineRequest `json:"lines" binding:"dive"`
}

// TransferLineRequest represents one line on a transfer create or add request
type TransferLineRequest struct {
	ProductID    uuid.UUID       `json:"product_id" binding:"required"`
	ToLocationID uuid.UUID       `json:"to_location_id" binding:"required"`
	Quantity     decimal.Decimal `json:"quantity" binding:"required"`
}

// TransferLineResponse represents a transfer line in API responses
type TransferLineResponse struct {
	ID           uuid.UUID       `json:"id"`
	ProductID    uuid.UUID       `json:"product_id"`
	ToLocationID uuid.UUID       `json:"to_location_id"`
	Quantity     decimal.Decimal `json:"quantity"`
}

// TransferResponse represents a transfer in API responses
type TransferResponse struct {
	ID             uuid.UUID              `json:"id"`
	Number         string                 `json:"number"`
	Status         string                 `json:"status"`
	FromLocationID uuid.UUID              `json:"from_location_id"`
	Note           string                 `json:"note,omitempty"`
	Lines          []TransferLineResponse `json:"lines"`
	DoneAt         *time.Time             `json:"done_at,omitempty"`
	CreatedAt      time.Time              `json:"created_at"`
	UpdatedAt      time.Time              `json:"updated_at"`
	Version        int                    `json:"version"`
}

// ToTransferResponse converts a transfer to its response form
func ToTransferResponse(t *document.InternalTransfer) TransferResponse {
	lines := make([]TransferLineResponse, len(t.Lines))
	for i := range t.Lines {
		lines[i] = TransferLineResponse{
			ID:           t.Lines[i].ID,
			ProductID:    t.Lines[i].ProductID,
			ToLocationID: t.Lines[i].ToLocationID,
			Quantity:     t.Lines[i].Quantity,
		}
	}
	return TransferResponse{
		ID:             t.ID,
		Number:         t.Number,
		Status:         t.Status.String(),
		FromLocationID: t.FromLocationID,
		Note:           t.Note,
		Lines:          lines,
		DoneAt:         t.DoneAt,
		CreatedAt:      t.CreatedAt,
		UpdatedAt:      t.UpdatedAt,
		Version:        t.Version,
	}
}

// CreateAdjustmentRequest represents a request to create a stock adjustment
type CreateAdjustmentRequest struct {
	LocationID uuid.UUID               `json:"location_id" binding:"required"`
	Reason     string                  `json:"reason" binding:"required,max=200"`
	Note       string                  `json:"note"`
	Lines      []AdjustmentLineRequest `json:"lines" binding:"dive"`
}

// AdjustmentLineRequest represents one counted product on an adjustment
type AdjustmentLineRequest struct {
	ProductID  uuid.UUID       `json:"product_id" binding:"required"`
	CountedQty decimal.Decimal `json:"counted_qty"`
}

// AdjustmentLineResponse represents an adjustment line in API responses
type AdjustmentLineResponse struct {
	ID         uuid.UUID       `json:"id"`
	ProductID  uuid.UUID       `json:"product_id"`
	CountedQty decimal.Decimal `json:"counted_qty"`
	CurrentQty decimal.Decimal `json:"current_qty"`
	Delta      decimal.Decimal `json:"delta"`
}

// AdjustmentResponse represents an adjustment in API responses
type AdjustmentResponse struct {
	ID         uuid.UUID                `json:"id"`
	Number     string                   `json:"number"`
	Status     string                   `json:"status"`
	LocationID uuid.UUID                `json:"location_id"`
	Reason     string                   `json:"reason"`
	Note       string                   `json:"note,omitempty"`
	Lines      []AdjustmentLineResponse `json:"lines"`
	DoneAt     *time.Time               `json:"done_at,omitempty"`
	CreatedAt  time.Time                `json:"created_at"`
	UpdatedAt  time.Time                `json:"updated_at"`
	Version    int                      `json:"version"`
}

// ToAdjustmentResponse converts an adjustment to its response form
func ToAdjustmentResponse(a *document.Adjustment) AdjustmentResponse {
	lines := make([]AdjustmentLineResponse, len(a.Lines))
	for i := range a.Lines {
		lines[i] = AdjustmentLineResponse{
			ID:         a.Lines[i].ID,
			ProductID:  a.Lines[i].ProductID,
			CountedQty: a.Lines[i].CountedQty,
			CurrentQty: a.Lines[i].CurrentQty,
			Delta:      a.Lines[i].Delta(),
		}
	}
	return AdjustmentResponse{
		ID:         a.ID,
		Number:     a.Number,
		Status:     a.Status.String(),
		LocationID: a.LocationID,
		Reason:     a.Reason,
		Note:       a.Note,
		Lines:      lines,
		DoneAt:     a.DoneAt,
		CreatedAt:  a.CreatedAt,
		UpdatedAt:  a.UpdatedAt,
		Version:    a.Version,
	}
}

// ListFilter represents filter options shared by document listings
type ListFilter struct {
	Search     string     `form:"search"`
	Status     *string    `form:"status"`
	LocationID *uuid.UUID `form:"location_id"`
	Page       int        `form:"page" binding:"min=0"`
	PageSize   int        `form:"page_size" binding:"min=0,max=100"`
	OrderBy    string     `form:"order_by"`
	OrderDir   string     `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// CancelRequest carries the reason a document was cancelled
type CancelRequest struct {
	Reason string `json:"reason" binding:"required,max=200"`
}
