package catalog

import (
	"context"

	"github.com/google/uuid"

	"github.com/warehouse/backend/internal/domain/catalog"
	"github.com/warehouse/backend/internal/domain/inventory"
	"github.com/warehouse/backend/internal/domain/shared"
)

// WarehouseService handles warehouse and location business operations
type WarehouseService struct {
	warehouseRepo catalog.WarehouseRepository
	stockRepo     inventory.StockLevelRepository
}

// NewWarehouseService creates a new WarehouseService
func NewWarehouseService(warehouseRepo catalog.WarehouseRepository, stockRepo inventory.StockLevelRepository) *WarehouseService {
	return &WarehouseService{
		warehouseRepo: warehouseRepo,
		stockRepo:     stockRepo,
	}
}

// Create creates a new warehouse
func (s *WarehouseService) Create(ctx context.Context, req CreateWarehouseRequest) (*WarehouseResponse, error) {
	if _, err := s.warehouseRepo.FindByCode(ctx, req.Code); err == nil {
		return nil, shared.NewDomainError("DUPLICATE_CODE", "A warehouse with this code already exists")
	}

	warehouse, err := catalog.NewWarehouse(req.Code, req.Name)
	if err != nil {
		return nil, err
	}
	if err := s.warehouseRepo.Save(ctx, warehouse); err != nil {
		return nil, err
	}
	response := ToWarehouseResponse(warehouse)
	return &response, nil
}

// GetByID retrieves a warehouse with its locations
func (s *WarehouseService) GetByID(ctx context.Context, warehouseID uuid.UUID) (*WarehouseResponse, error) {
	warehouse, err := s.warehouseRepo.FindByID(ctx, warehouseID)
	if err != nil {
		return nil, err
	}
	response := ToWarehouseResponse(warehouse)
	return &response, nil
}

// GetByCode retrieves a warehouse by its short code
func (s *WarehouseService) GetByCode(ctx context.Context, code string) (*WarehouseResponse, error) {
	warehouse, err := s.warehouseRepo.FindByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	response := ToWarehouseResponse(warehouse)
	return &response, nil
}

// List retrieves warehouses with filtering and pagination
func (s *WarehouseService) List(ctx context.Context, filter WarehouseListFilter) ([]WarehouseResponse, int64, error) {
	domainFilter := shared.DefaultFilter()
	if filter.Page > 0 {
		domainFilter.Page = filter.Page
	}
	if filter.PageSize > 0 {
		domainFilter.PageSize = filter.PageSize
	}
	if filter.OrderBy != "" {
		domainFilter.OrderBy = filter.OrderBy
		domainFilter.OrderDir = filter.OrderDir
	}
	domainFilter.Search = filter.Search

	warehouses, err := s.warehouseRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.warehouseRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	responses := make([]WarehouseResponse, len(warehouses))
	for i := range warehouses {
		responses[i] = ToWarehouseResponse(&warehouses[i])
	}
	return responses, total, nil
}

// Update renames a warehouse
func (s *WarehouseService) Update(ctx context.Context, warehouseID uuid.UUID, req UpdateWarehouseRequest) (*WarehouseResponse, error) {
	warehouse, err := s.warehouseRepo.FindByID(ctx, warehouseID)
	if err != nil {
		return nil, err
	}
	if err := warehouse.Rename(req.Name); err != nil {
		return nil, err
	}
	if err := s.warehouseRepo.Save(ctx, warehouse); err != nil {
		return nil, err
	}
	response := ToWarehouseResponse(warehouse)
	return &response, nil
}

// Delete removes a warehouse and its locations. Warehouses whose locations
// carry stock records cannot be deleted.
func (s *WarehouseService) Delete(ctx context.Context, warehouseID uuid.UUID) error {
	warehouse, err := s.warehouseRepo.FindByID(ctx, warehouseID)
	if err != nil {
		return err
	}
	for i := range warehouse.Locations {
		referenced, err := s.stockRepo.ExistsByLocation(ctx, warehouse.Locations[i].ID)
		if err != nil {
			return err
		}
		if referenced {
			return shared.NewDomainError("LOCATION_IN_USE", "Warehouse has locations with stock records and cannot be deleted")
		}
	}
	return s.warehouseRepo.Delete(ctx, warehouseID)
}

// AddLocation adds a location to a warehouse
func (s *WarehouseService) AddLocation(ctx context.Context, warehouseID uuid.UUID, req CreateLocationRequest) (*LocationResponse, error) {
	warehouse, err := s.warehouseRepo.FindByID(ctx, warehouseID)
	if err != nil {
		return nil, err
	}
	location, err := warehouse.AddLocation(req.Code, req.Name)
	if err != nil {
		return nil, err
	}
	if err := s.warehouseRepo.SaveLocation(ctx, location); err != nil {
		return nil, err
	}
	response := ToLocationResponse(location)
	return &response, nil
}

// GetLocation retrieves a single location by ID
func (s *WarehouseService) GetLocation(ctx context.Context, locationID uuid.UUID) (*LocationResponse, error) {
	location, err := s.warehouseRepo.FindLocationByID(ctx, locationID)
	if err != nil {
		return nil, err
	}
	response := ToLocationResponse(location)
	return &response, nil
}

// RenameLocation renames a location
func (s *WarehouseService) RenameLocation(ctx context.Context, locationID uuid.UUID, name string) (*LocationResponse, error) {
	location, err := s.warehouseRepo.FindLocationByID(ctx, locationID)
	if err != nil {
		return nil, err
	}
	if err := location.Rename(name); err != nil {
		return nil, err
	}
	if err := s.warehouseRepo.SaveLocation(ctx, location); err != nil {
		return nil, err
	}
	response := ToLocationResponse(location)
	return &response, nil
}

// DeleteLocation removes a location that no stock record references
func (s *WarehouseService) DeleteLocation(ctx context.Context, locationID uuid.UUID) error {
	if _, err := s.warehouseRepo.FindLocationByID(ctx, locationID); err != nil {
		return err
	}
	referenced, err := s.stockRepo.ExistsByLocation(ctx, locationID)
	if err != nil {
		return err
	}
	if referenced {
		return shared.NewDomainError("LOCATION_IN_USE", "Location has stock records and cannot be deleted")
	}
	return s.warehouseRepo.DeleteLocation(ctx, locationID)
}
