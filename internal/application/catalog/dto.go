package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/warehouse/backend/internal/domain/catalog"
)

// CreateProductRequest represents a request to create a product
type CreateProductRequest struct {
	SKU          string           `json:"sku" binding:"required,max=50"`
	Name         string           `json:"name" binding:"required,max=200"`
	Unit         string           `json:"unit" binding:"max=20"`
	Cost         *decimal.Decimal `json:"cost"`
	Price        *decimal.Decimal `json:"price"`
	ReorderLevel *decimal.Decimal `json:"reorder_level"`
}

// UpdateProductRequest represents a request to update a product
type UpdateProductRequest struct {
	Name         *string          `json:"name" binding:"omitempty,max=200"`
	Cost         *decimal.Decimal `json:"cost"`
	Price        *decimal.Decimal `json:"price"`
	ReorderLevel *decimal.Decimal `json:"reorder_level"`
}

// ProductResponse represents a product in API responses
type ProductResponse struct {
	ID           uuid.UUID       `json:"id"`
	SKU          string          `json:"sku"`
	Name         string          `json:"name"`
	Unit         string          `json:"unit"`
	Cost         decimal.Decimal `json:"cost"`
	Price        decimal.Decimal `json:"price"`
	ReorderLevel decimal.Decimal `json:"reorder_level"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
	Version      int             `json:"version"`
}

// ToProductResponse converts a product to its response form
func ToProductResponse(p *catalog.Product) ProductResponse {
	return ProductResponse{
		ID:           p.ID,
		SKU:          p.SKU,
		Name:         p.Name,
		Unit:         p.Unit,
		Cost:         p.Cost,
		Price:        p.Price,
		ReorderLevel: p.ReorderLevel,
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
		Version:      p.Version,
	}
}

// ProductListFilter represents filter options for product listing
type ProductListFilter struct {
	Search   string `form:"search"`
	Page     int    `form:"page" binding:"min=0"`
	PageSize int    `form:"page_size" binding:"min=0,max=100"`
	OrderBy  string `form:"order_by"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// CreateWarehouseRequest represents a request to create a warehouse
type CreateWarehouseRequest struct {
	Code string `json:"code" binding:"required,max=20"`
	Name string `json:"name" binding:"required,max=200"`
}

// UpdateWarehouseRequest represents a request to rename a warehouse
type UpdateWarehouseRequest struct {
	Name string `json:"name" binding:"required,max=200"`
}

// CreateLocationRequest represents a request to add a location to a warehouse
type CreateLocationRequest struct {
	Code string `json:"code" binding:"required,max=30"`
	Name string `json:"name" binding:"required,max=200"`
}

// LocationResponse represents a location in API responses
type LocationResponse struct {
	ID          uuid.UUID `json:"id"`
	WarehouseID uuid.UUID `json:"warehouse_id"`
	Code        string    `json:"code"`
	Name        string    `json:"name"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ToLocationResponse converts a location to its response form
func ToLocationResponse(l *catalog.Location) LocationResponse {
	return LocationResponse{
		ID:          l.ID,
		WarehouseID: l.WarehouseID,
		Code:        l.Code,
		Name:        l.Name,
		CreatedAt:   l.CreatedAt,
		UpdatedAt:   l.UpdatedAt,
	}
}

// WarehouseResponse represents a warehouse in API responses
type WarehouseResponse struct {
	ID        uuid.UUID          `json:"id"`
	Code      string             `json:"code"`
	Name      string             `json:"name"`
	Locations []LocationResponse `json:"locations"`
	CreatedAt time.Time          `json:"created_at"`
	UpdatedAt time.Time          `json:"updated_at"`
	Version   int                `json:"version"`
}

// ToWarehouseResponse converts a warehouse to its response form
func ToWarehouseResponse(w *catalog.Warehouse) WarehouseResponse {
	locations := make([]LocationResponse, len(w.Locations))
	for i := range w.Locations {
		locations[i] = ToLocationResponse(&w.Locations[i])
	}
	return WarehouseResponse{
		ID:        w.ID,
		Code:      w.Code,
		Name:      w.Name,
		Locations: locations,
		CreatedAt: w.CreatedAt,
		UpdatedAt: w.UpdatedAt,
		Version:   w.Version,
	}
}

// WarehouseListFilter represents filter options for warehouse listing
type WarehouseListFilter struct {
	Search   string `form:"search"`
	Page     int    `form:"page" binding:"min=0"`
	PageSize int    `form:"page_size" binding:"min=0,max=100"`
	OrderBy  string `form:"order_by"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}
