package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/warehouse/backend/internal/domain/document"
	"github.com/warehouse/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormDeliveryRepository implements document.DeliveryRepository using GORM
type GormDeliveryRepository struct {
	db *gorm.DB
}

// NewGormDeliveryRepository creates a new GormDeliveryRepository
func NewGormDeliveryRepository(db *gorm.DB) *GormDeliveryRepository {
	return &GormDeliveryRepository{db: db}
}

// FindByID finds a delivery with its lines by ID
func (r *GormDeliveryRepository) FindByID(ctx context.Context, id uuid.UUID) (*document.Delivery, error) {
	var delivery document.Delivery
	if err := r.db.WithContext(ctx).
		Preload("Lines").
		First(&delivery, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &delivery, nil
}

// FindByNumber finds a delivery with its lines by document number
func (r *GormDeliveryRepository) FindByNumber(ctx context.Context, number string) (*document.Delivery, error) {
	var delivery document.Delivery
	if err := r.db.WithContext(ctx).
		Preload("Lines").
		First(&delivery, "number = ?", number).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &delivery, nil
}

// FindAll returns deliveries matching the filter
func (r *GormDeliveryRepository) FindAll(ctx context.Context, filter shared.Filter) ([]*document.Delivery, error) {
	var deliveries []*document.Delivery
	query := r.db.WithContext(ctx).Model(&document.Delivery{}).Preload("Lines")
	query = applyDocumentFilter(query, filter)
	query = applyPagination(query, filter)

	if err := query.Find(&deliveries).Error; err != nil {
		return nil, err
	}
	return deliveries, nil
}

// FindByStatus returns deliveries in the given status
func (r *GormDeliveryRepository) FindByStatus(ctx context.Context, status document.Status, filter shared.Filter) ([]*document.Delivery, error) {
	var deliveries []*document.Delivery
	query := r.db.WithContext(ctx).
		Model(&document.Delivery{}).
		Preload("Lines").
		Where("status = ?", status)
	query = applyPagination(query, filter)

	if err := query.Find(&deliveries).Error; err != nil {
		return nil, err
	}
	return deliveries, nil
}

// Count counts deliveries matching the filter
func (r *GormDeliveryRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := applyDocumentFilter(r.db.WithContext(ctx).Model(&document.Delivery{}), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Save persists the delivery and its lines, removing lines dropped from the
// aggregate
func (r *GormDeliveryRepository) Save(ctx context.Context, delivery *document.Delivery) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(delivery).Error; err != nil {
			return err
		}
		if err := deleteOrphanedLines(tx, &document.DeliveryLine{}, "delivery_id", delivery.ID, lineIDs(delivery.Lines, func(l document.DeliveryLine) uuid.UUID { return l.ID })); err != nil {
			return err
		}
		return saveLines(tx, delivery.Lines)
	})
}

// SaveWithStatusGate persists header changes only if the stored status and
// version still match
func (r *GormDeliveryRepository) SaveWithStatusGate(ctx context.Context, delivery *document.Delivery, expectedStatus document.Status, expectedVersion int) error {
	result := r.db.WithContext(ctx).
		Model(&document.Delivery{}).
		Where("id = ? AND status = ? AND version = ?", delivery.ID, expectedStatus, expectedVersion).
		Updates(map[string]interface{}{
			"status":     delivery.Status,
			"note":       delivery.Note,
			"done_at":    delivery.DoneAt,
			"version":    expectedVersion + 1,
			"updated_at": delivery.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	delivery.Version = expectedVersion + 1
	return nil
}

// Delete deletes a delivery and its lines
func (r *GormDeliveryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&document.DeliveryLine{}, "delivery_id = ?", id).Error; err != nil {
			return err
		}
		result := tx.Delete(&document.Delivery{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
}

// Ensure GormDeliveryRepository implements DeliveryRepository
var _ document.DeliveryRepository = (*GormDeliveryRepository)(nil)
