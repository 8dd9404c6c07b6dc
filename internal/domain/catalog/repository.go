package catalog

import (
	"context"

	"github.com/google/uuid"

	"github.com/warehouse/backend/internal/domain/shared"
)

// ProductRepository defines persistence operations for products
type ProductRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Product, error)
	FindBySKU(ctx context.Context, sku string) (*Product, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Product, error)
	Count(ctx context.Context, filter shared.Filter) (int64, error)
	Save(ctx context.Context, product *Product) error
	Delete(ctx context.Context, id uuid.UUID) error
	ExistsBySKU(ctx context.Context, sku string) (bool, error)
}

// WarehouseRepository defines persistence operations for warehouses and
// their locations. Locations are child entities of the Warehouse aggregate
// but are also resolvable directly by ID for stock lookups.
type WarehouseRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Warehouse, error)
	FindByCode(ctx context.Context, code string) (*Warehouse, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Warehouse, error)
	Count(ctx context.Context, filter shared.Filter) (int64, error)
	Save(ctx context.Context, warehouse *Warehouse) error
	Delete(ctx context.Context, id uuid.UUID) error

	FindLocationByID(ctx context.Context, id uuid.UUID) (*Location, error)
	SaveLocation(ctx context.Context, location *Location) error
	DeleteLocation(ctx context.Context, id uuid.UUID) error
}
