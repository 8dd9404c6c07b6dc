package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/warehouse/backend/internal/domain/inventory"
	"github.com/warehouse/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormStockMovementRepository implements inventory.StockMovementRepository
// using GORM. The ledger is append-only, so the repository exposes no
// update or delete.
type GormStockMovementRepository struct {
	db *gorm.DB
}

// NewGormStockMovementRepository creates a new GormStockMovementRepository
func NewGormStockMovementRepository(db *gorm.DB) *GormStockMovementRepository {
	return &GormStockMovementRepository{db: db}
}

// Create appends one movement to the ledger
func (r *GormStockMovementRepository) Create(ctx context.Context, movement *inventory.StockMovement) error {
	return r.db.WithContext(ctx).Create(movement).Error
}

// CreateBatch appends several movements in one statement
func (r *GormStockMovementRepository) CreateBatch(ctx context.Context, movements []*inventory.StockMovement) error {
	if len(movements) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(movements).Error
}

// FindByID finds a movement by its ID
func (r *GormStockMovementRepository) FindByID(ctx context.Context, id uuid.UUID) (*inventory.StockMovement, error) {
	var movement inventory.StockMovement
	if err := r.db.WithContext(ctx).First(&movement, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &movement, nil
}

// Find returns ledger entries matching the filter, newest first
func (r *GormStockMovementRepository) Find(ctx context.Context, filter inventory.MovementFilter) ([]inventory.StockMovement, error) {
	var movements []inventory.StockMovement
	query := r.applyMovementFilter(r.db.WithContext(ctx).Model(&inventory.StockMovement{}), filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}
	query = query.Order("occurred_at DESC, id")

	if err := query.Find(&movements).Error; err != nil {
		return nil, err
	}
	return movements, nil
}

// CountMovements counts ledger entries matching the filter
func (r *GormStockMovementRepository) CountMovements(ctx context.Context, filter inventory.MovementFilter) (int64, error) {
	var count int64
	query := r.applyMovementFilter(r.db.WithContext(ctx).Model(&inventory.StockMovement{}), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// FindBySource returns all movements written by one document
func (r *GormStockMovementRepository) FindBySource(ctx context.Context, sourceType inventory.SourceType, sourceID uuid.UUID) ([]inventory.StockMovement, error) {
	var movements []inventory.StockMovement
	if err := r.db.WithContext(ctx).
		Where("source_type = ? AND source_id = ?", sourceType, sourceID).
		Order("occurred_at, id").
		Find(&movements).Error; err != nil {
		return nil, err
	}
	return movements, nil
}

// SumDeltaByKey returns the ledger total for one (product, location) key
func (r *GormStockMovementRepository) SumDeltaByKey(ctx context.Context, productID, locationID uuid.UUID) (decimal.Decimal, error) {
	var result struct {
		Total decimal.Decimal
	}
	if err := r.db.WithContext(ctx).
		Model(&inventory.StockMovement{}).
		Select("COALESCE(SUM(delta), 0) as total").
		Where("product_id = ? AND location_id = ?", productID, locationID).
		Scan(&result).Error; err != nil {
		return decimal.Zero, err
	}
	return result.Total, nil
}

// Reconcile joins stored stock levels against ledger sums, one row per key
// known to either side. A key missing from one side reads as zero there.
func (r *GormStockMovementRepository) Reconcile(ctx context.Context) ([]inventory.ReconciliationRow, error) {
	var rows []inventory.ReconciliationRow
	err := r.db.WithContext(ctx).Raw(`
		SELECT
			keys.product_id,
			keys.location_id,
			COALESCE(sl.quantity, 0) AS stock_level,
			COALESCE(led.total, 0) AS ledger_total
		FROM (
			SELECT product_id, location_id FROM stock_levels
			UNION
			SELECT product_id, location_id FROM stock_movements
		) keys
		LEFT JOIN stock_levels sl
			ON sl.product_id = keys.product_id AND sl.location_id = keys.location_id
		LEFT JOIN (
			SELECT product_id, location_id, SUM(delta) AS total
			FROM stock_movements
			GROUP BY product_id, location_id
		) led
			ON led.product_id = keys.product_id AND led.location_id = keys.location_id
		ORDER BY keys.product_id, keys.location_id`).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *GormStockMovementRepository) applyMovementFilter(query *gorm.DB, filter inventory.MovementFilter) *gorm.DB {
	if filter.ProductID != nil {
		query = query.Where("product_id = ?", *filter.ProductID)
	}
	if filter.LocationID != nil {
		query = query.Where("location_id = ?", *filter.LocationID)
	}
	if filter.Kind != nil {
		query = query.Where("kind = ?", *filter.Kind)
	}
	if filter.SourceType != nil {
		query = query.Where("source_type = ?", *filter.SourceType)
	}
	if filter.SourceID != nil {
		query = query.Where("source_id = ?", *filter.SourceID)
	}
	if filter.From != nil {
		query = query.Where("occurred_at >= ?", *filter.From)
	}
	if filter.To != nil {
		query = query.Where("occurred_at < ?", *filter.To)
	}
	return query
}

// Ensure GormStockMovementRepository implements StockMovementRepository
var _ inventory.StockMovementRepository = (*GormStockMovementRepository)(nil)
