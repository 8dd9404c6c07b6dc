package catalog

import (
	"github.com/shopspring/decimal"

	"github.com/warehouse/backend/internal/domain/shared"
)

// Product represents a stockable item in the catalog.
// Identity and SKU are immutable after creation; commercial attributes
// (name, cost, price, reorder level) may change over time.
type Product struct {
	shared.BaseAggregateRoot
	SKU          string          `gorm:"type:varchar(50);not null;uniqueIndex"`
	Name         string          `gorm:"type:varchar(200);not null"`
	Unit         string          `gorm:"type:varchar(20);not null;default:'unit'"`
	Cost         decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	Price        decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	ReorderLevel decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
}

// TableName returns the table name for GORM
func (Product) TableName() string {
	return "products"
}

// NewProduct creates a new product
func NewProduct(sku, name, unit string) (*Product, error) {
	if sku == "" {
		return nil, shared.NewDomainError("INVALID_SKU", "SKU cannot be empty")
	}
	if len(sku) > 50 {
		return nil, shared.NewDomainError("INVALID_SKU", "SKU cannot exceed 50 characters")
	}
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Product name cannot be empty")
	}
	if unit == "" {
		unit = "unit"
	}

	return &Product{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		SKU:               sku,
		Name:              name,
		Unit:              unit,
		Cost:              decimal.Zero,
		Price:             decimal.Zero,
		ReorderLevel:      decimal.Zero,
	}, nil
}

// Rename updates the product display name
func (p *Product) Rename(name string) error {
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Product name cannot be empty")
	}
	p.Name = name
	p.Touch()
	p.IncrementVersion()
	return nil
}

// SetPricing updates the default cost and price
func (p *Product) SetPricing(cost, price decimal.Decimal) error {
	if cost.IsNegative() {
		return shared.NewDomainError("INVALID_COST", "Cost cannot be negative")
	}
	if price.IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "Price cannot be negative")
	}
	p.Cost = cost
	p.Price = price
	p.Touch()
	p.IncrementVersion()
	return nil
}

// SetReorderLevel updates the reorder threshold used for low-stock alerts
func (p *Product) SetReorderLevel(level decimal.Decimal) error {
	if level.IsNegative() {
		return shared.NewDomainError("INVALID_REORDER_LEVEL", "Reorder level cannot be negative")
	}
	p.ReorderLevel = level
	p.Touch()
	p.IncrementVersion()
	return nil
}

// IsBelowReorderLevel returns true if the given on-hand quantity is below the
// configured reorder level (a zero level disables the check)
func (p *Product) IsBelowReorderLevel(onHand decimal.Decimal) bool {
	return p.ReorderLevel.GreaterThan(decimal.Zero) && onHand.LessThan(p.ReorderLevel)
}
