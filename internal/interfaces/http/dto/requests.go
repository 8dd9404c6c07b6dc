package dto

import "github.com/shopspring/decimal"

// UpdateReceiptLineRequest changes quantity and unit cost of a receipt line
type UpdateReceiptLineRequest struct {
	Quantity decimal.Decimal `json:"quantity" binding:"required"`
	UnitCost decimal.Decimal `json:"unit_cost"`
}

// UpdateDeliveryLineRequest changes quantity and unit price of a delivery line
type UpdateDeliveryLineRequest struct {
	Quantity  decimal.Decimal `json:"quantity" binding:"required"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

// UpdateTransferLineRequest changes the quantity of a transfer line
type UpdateTransferLineRequest struct {
	Quantity decimal.Decimal `json:"quantity" binding:"required"`
}

// UpdateAdjustmentLineRequest changes the counted quantity of an adjustment line
type UpdateAdjustmentLineRequest struct {
	CountedQty decimal.Decimal `json:"counted_qty" binding:"required"`
}

// RenameLocationRequest changes the display name of a location
type RenameLocationRequest struct {
	Name string `json:"name" binding:"required,max=200"`
}
