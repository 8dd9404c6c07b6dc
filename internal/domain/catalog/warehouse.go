package catalog

import (
	"github.com/google/uuid"

	"github.com/warehouse/backend/internal/domain/shared"
)

// Warehouse represents a physical site that contains stock locations
type Warehouse struct {
	shared.BaseAggregateRoot
	Code string `gorm:"type:varchar(20);not null;uniqueIndex"`
	Name string `gorm:"type:varchar(200);not null"`

	Locations []Location `gorm:"foreignKey:WarehouseID;references:ID"`
}

// TableName returns the table name for GORM
func (Warehouse) TableName() string {
	return "warehouses"
}

// NewWarehouse creates a new warehouse
func NewWarehouse(code, name string) (*Warehouse, error) {
	if code == "" {
		return nil, shared.NewDomainError("INVALID_CODE", "Warehouse code cannot be empty")
	}
	if len(code) > 20 {
		return nil, shared.NewDomainError("INVALID_CODE", "Warehouse code cannot exceed 20 characters")
	}
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Warehouse name cannot be empty")
	}

	return &Warehouse{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Code:              code,
		Name:              name,
		Locations:         make([]Location, 0),
	}, nil
}

// Rename updates the warehouse display name
func (w *Warehouse) Rename(name string) error {
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Warehouse name cannot be empty")
	}
	w.Name = name
	w.Touch()
	w.IncrementVersion()
	return nil
}

// AddLocation adds a new location to the warehouse.
// Location codes must be unique within a warehouse.
func (w *Warehouse) AddLocation(code, name string) (*Location, error) {
	for _, loc := range w.Locations {
		if loc.Code == code {
			return nil, shared.NewDomainError("DUPLICATE_LOCATION", "Location code already exists in this warehouse")
		}
	}

	loc, err := NewLocation(w.ID, code, name)
	if err != nil {
		return nil, err
	}

	w.Locations = append(w.Locations, *loc)
	w.Touch()
	w.IncrementVersion()

	return loc, nil
}

// GetLocation returns a location by its ID, or nil if not found
func (w *Warehouse) GetLocation(locationID uuid.UUID) *Location {
	for idx := range w.Locations {
		if w.Locations[idx].ID == locationID {
			return &w.Locations[idx]
		}
	}
	return nil
}

// Location is a leaf container for stock within a warehouse
type Location struct {
	shared.BaseEntity
	WarehouseID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_location_warehouse_code,priority:1"`
	Code        string    `gorm:"type:varchar(30);not null;uniqueIndex:idx_location_warehouse_code,priority:2"`
	Name        string    `gorm:"type:varchar(200);not null"`
}

// TableName returns the table name for GORM
func (Location) TableName() string {
	return "locations"
}

// NewLocation creates a new stock location
func NewLocation(warehouseID uuid.UUID, code, name string) (*Location, error) {
	if warehouseID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_WAREHOUSE", "Warehouse ID cannot be empty")
	}
	if code == "" {
		return nil, shared.NewDomainError("INVALID_CODE", "Location code cannot be empty")
	}
	if len(code) > 30 {
		return nil, shared.NewDomainError("INVALID_CODE", "Location code cannot exceed 30 characters")
	}
	if name == "" {
		name = code
	}

	return &Location{
		BaseEntity:  shared.NewBaseEntity(),
		WarehouseID: warehouseID,
		Code:        code,
		Name:        name,
	}, nil
}

// Rename updates the location display name
func (l *Location) Rename(name string) error {
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Location name cannot be empty")
	}
	l.Name = name
	l.Touch()
	return nil
}
