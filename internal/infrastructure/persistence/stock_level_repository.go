package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/warehouse/backend/internal/domain/inventory"
	"github.com/warehouse/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormStockLevelRepository implements inventory.StockLevelRepository using GORM
type GormStockLevelRepository struct {
	db *gorm.DB
}

// NewGormStockLevelRepository creates a new GormStockLevelRepository
func NewGormStockLevelRepository(db *gorm.DB) *GormStockLevelRepository {
	return &GormStockLevelRepository{db: db}
}

// FindByKey finds the stock level for a (product, location) key
func (r *GormStockLevelRepository) FindByKey(ctx context.Context, productID, locationID uuid.UUID) (*inventory.StockLevel, error) {
	var level inventory.StockLevel
	if err := r.db.WithContext(ctx).
		Where("product_id = ? AND location_id = ?", productID, locationID).
		First(&level).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &level, nil
}

// FindByProduct returns all stock rows for a product
func (r *GormStockLevelRepository) FindByProduct(ctx context.Context, productID uuid.UUID) ([]inventory.StockLevel, error) {
	var levels []inventory.StockLevel
	if err := r.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Order("location_id").
		Find(&levels).Error; err != nil {
		return nil, err
	}
	return levels, nil
}

// FindByLocation returns all stock rows at a location
func (r *GormStockLevelRepository) FindByLocation(ctx context.Context, locationID uuid.UUID) ([]inventory.StockLevel, error) {
	var levels []inventory.StockLevel
	if err := r.db.WithContext(ctx).
		Where("location_id = ?", locationID).
		Order("product_id").
		Find(&levels).Error; err != nil {
		return nil, err
	}
	return levels, nil
}

// FindAll returns stock rows matching the filter
func (r *GormStockLevelRepository) FindAll(ctx context.Context, filter shared.Filter) ([]inventory.StockLevel, error) {
	var levels []inventory.StockLevel
	query := r.db.WithContext(ctx).Model(&inventory.StockLevel{})
	query = r.applyFilters(query, filter)
	query = applyPagination(query, filter)

	if err := query.Find(&levels).Error; err != nil {
		return nil, err
	}
	return levels, nil
}

// Count counts stock rows matching the filter
func (r *GormStockLevelRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&inventory.StockLevel{})
	query = r.applyFilters(query, filter)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// QuantityByKey returns the on-hand quantity for a key, zero when the row
// does not exist yet
func (r *GormStockLevelRepository) QuantityByKey(ctx context.Context, productID, locationID uuid.UUID) (decimal.Decimal, error) {
	var result struct {
		Total decimal.Decimal
	}
	if err := r.db.WithContext(ctx).
		Model(&inventory.StockLevel{}).
		Select("COALESCE(SUM(quantity), 0) as total").
		Where("product_id = ? AND location_id = ?", productID, locationID).
		Scan(&result).Error; err != nil {
		return decimal.Zero, err
	}
	return result.Total, nil
}

// SumByProduct returns the total on-hand quantity for a product across all locations
func (r *GormStockLevelRepository) SumByProduct(ctx context.Context, productID uuid.UUID) (decimal.Decimal, error) {
	var result struct {
		Total decimal.Decimal
	}
	if err := r.db.WithContext(ctx).
		Model(&inventory.StockLevel{}).
		Select("COALESCE(SUM(quantity), 0) as total").
		Where("product_id = ?", productID).
		Scan(&result).Error; err != nil {
		return decimal.Zero, err
	}
	return result.Total, nil
}

// ExistsByProduct reports whether any stock row references the product
func (r *GormStockLevelRepository) ExistsByProduct(ctx context.Context, productID uuid.UUID) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&inventory.StockLevel{}).
		Where("product_id = ?", productID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// ExistsByLocation reports whether any stock row references the location
func (r *GormStockLevelRepository) ExistsByLocation(ctx context.Context, locationID uuid.UUID) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&inventory.StockLevel{}).
		Where("location_id = ?", locationID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// ApplyDelta atomically adds delta to the key's quantity and returns the
// resulting value. The single-statement upsert makes concurrent writers
// serialize on the row, so there is no read-modify-write window. The SQL
// runs on both PostgreSQL and SQLite.
func (r *GormStockLevelRepository) ApplyDelta(ctx context.Context, productID, locationID uuid.UUID, delta decimal.Decimal) (decimal.Decimal, error) {
	now := time.Now()
	var result struct {
		Quantity decimal.Decimal
	}

	err := r.db.WithContext(ctx).Raw(`
		INSERT INTO stock_levels (id, product_id, location_id, quantity, version, created_at, updated_at)
		VALUES (?, ?, ?, ?, 1, ?, ?)
		ON CONFLICT (product_id, location_id)
		DO UPDATE SET
			quantity = stock_levels.quantity + excluded.quantity,
			version = stock_levels.version + 1,
			updated_at = excluded.updated_at
		RETURNING quantity`,
		uuid.New(), productID, locationID, delta, now, now,
	).Scan(&result).Error
	if err != nil {
		return decimal.Zero, err
	}

	return result.Quantity, nil
}

func (r *GormStockLevelRepository) applyFilters(query *gorm.DB, filter shared.Filter) *gorm.DB {
	for key, value := range filter.Filters {
		switch key {
		case "product_id":
			query = query.Where("product_id = ?", value)
		case "location_id":
			query = query.Where("location_id = ?", value)
		case "non_empty":
			if value == true {
				query = query.Where("quantity <> 0")
			}
		}
	}
	return query
}

// Ensure GormStockLevelRepository implements StockLevelRepository
var _ inventory.StockLevelRepository = (*GormStockLevelRepository)(nil)
