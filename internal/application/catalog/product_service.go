package catalog

import (
	"context"

	"github.com/google/uuid"

	"github.com/warehouse/backend/internal/domain/catalog"
	"github.com/warehouse/backend/internal/domain/inventory"
	"github.com/warehouse/backend/internal/domain/shared"
)

// ProductService handles product catalog business operations
type ProductService struct {
	productRepo catalog.ProductRepository
	stockRepo   inventory.StockLevelRepository
}

// NewProductService creates a new ProductService
func NewProductService(productRepo catalog.ProductRepository, stockRepo inventory.StockLevelRepository) *ProductService {
	return &ProductService{
		productRepo: productRepo,
		stockRepo:   stockRepo,
	}
}

// Create creates a new product
func (s *ProductService) Create(ctx context.Context, req CreateProductRequest) (*ProductResponse, error) {
	exists, err := s.productRepo.ExistsBySKU(ctx, req.SKU)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("DUPLICATE_SKU", "A product with this SKU already exists")
	}

	product, err := catalog.NewProduct(req.SKU, req.Name, req.Unit)
	if err != nil {
		return nil, err
	}
	if req.Cost != nil || req.Price != nil {
		cost := product.Cost
		price := product.Price
		if req.Cost != nil {
			cost = *req.Cost
		}
		if req.Price != nil {
			price = *req.Price
		}
		if err := product.SetPricing(cost, price); err != nil {
			return nil, err
		}
	}
	if req.ReorderLevel != nil {
		if err := product.SetReorderLevel(*req.ReorderLevel); err != nil {
			return nil, err
		}
	}

	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}
	response := ToProductResponse(product)
	return &response, nil
}

// GetByID retrieves a product by ID
func (s *ProductService) GetByID(ctx context.Context, productID uuid.UUID) (*ProductResponse, error) {
	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	response := ToProductResponse(product)
	return &response, nil
}

// GetBySKU retrieves a product by SKU
func (s *ProductService) GetBySKU(ctx context.Context, sku string) (*ProductResponse, error) {
	product, err := s.productRepo.FindBySKU(ctx, sku)
	if err != nil {
		return nil, err
	}
	response := ToProductResponse(product)
	return &response, nil
}

// List retrieves products with filtering and pagination
func (s *ProductService) List(ctx context.Context, filter ProductListFilter) ([]ProductResponse, int64, error) {
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

	products, err := s.productRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.productRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	responses := make([]ProductResponse, len(products))
	for i := range products {
		responses[i] = ToProductResponse(&products[i])
	}
	return responses, total, nil
}

// Update applies the given changes to a product
func (s *ProductService) Update(ctx context.Context, productID uuid.UUID, req UpdateProductRequest) (*ProductResponse, error) {
	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		if err := product.Rename(*req.Name); err != nil {
			return nil, err
		}
	}
	if req.Cost != nil || req.Price != nil {
		cost := product.Cost
		price := product.Price
		if req.Cost != nil {
			cost = *req.Cost
		}
		if req.Price != nil {
			price = *req.Price
		}
		if err := product.SetPricing(cost, price); err != nil {
			return nil, err
		}
	}
	if req.ReorderLevel != nil {
		if err := product.SetReorderLevel(*req.ReorderLevel); err != nil {
			return nil, err
		}
	}

	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}
	response := ToProductResponse(product)
	return &response, nil
}

// Delete removes a product. Products referenced by stock rows cannot be
// deleted, the movement history must stay resolvable.
func (s *ProductService) Delete(ctx context.Context, productID uuid.UUID) error {
	if _, err := s.productRepo.FindByID(ctx, productID); err != nil {
		return err
	}
	referenced, err := s.stockRepo.ExistsByProduct(ctx, productID)
	if err != nil {
		return err
	}
	if referenced {
		return shared.NewDomainError("PRODUCT_IN_USE", "Product has stock records and cannot be deleted")
	}
	return s.productRepo.Delete(ctx, productID)
}
