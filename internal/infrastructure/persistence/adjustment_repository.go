package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/warehouse/backend/internal/domain/document"
	"github.com/warehouse/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormAdjustmentRepository implements document.AdjustmentRepository using GORM
type GormAdjustmentRepository struct {
	db *gorm.DB
}

// NewGormAdjustmentRepository creates a new GormAdjustmentRepository
func NewGormAdjustmentRepository(db *gorm.DB) *GormAdjustmentRepository {
	return &GormAdjustmentRepository{db: db}
}

// FindByID finds an adjustment with its lines by ID
func (r *GormAdjustmentRepository) FindByID(ctx context.Context, id uuid.UUID) (*document.Adjustment, error) {
	var adjustment document.Adjustment
	if err := r.db.WithContext(ctx).
		Preload("Lines").
		First(&adjustment, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &adjustment, nil
}

// FindByNumber finds an adjustment with its lines by document number
func (r *GormAdjustmentRepository) FindByNumber(ctx context.Context, number string) (*document.Adjustment, error) {
	var adjustment document.Adjustment
	if err := r.db.WithContext(ctx).
		Preload("Lines").
		First(&adjustment, "number = ?", number).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &adjustment, nil
}

// FindAll returns adjustments matching the filter
func (r *GormAdjustmentRepository) FindAll(ctx context.Context, filter shared.Filter) ([]*document.Adjustment, error) {
	var adjustments []*document.Adjustment
	query := r.db.WithContext(ctx).Model(&document.Adjustment{}).Preload("Lines")
	query = applyDocumentFilter(query, filter)
	query = applyPagination(query, filter)

	if err := query.Find(&adjustments).Error; err != nil {
		return nil, err
	}
	return adjustments, nil
}

// Count counts adjustments matching the filter
func (r *GormAdjustmentRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := applyDocumentFilter(r.db.WithContext(ctx).Model(&document.Adjustment{}), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Save persists the adjustment and its lines, removing lines dropped from
// the aggregate
func (r *GormAdjustmentRepository) Save(ctx context.Context, adjustment *document.Adjustment) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(adjustment).Error; err != nil {
			return err
		}
		if err := deleteOrphanedLines(tx, &document.AdjustmentLine{}, "adjustment_id", adjustment.ID, lineIDs(adjustment.Lines, func(l document.AdjustmentLine) uuid.UUID { return l.ID })); err != nil {
			return err
		}
		return saveLines(tx, adjustment.Lines)
	})
}

// SaveWithStatusGate persists header changes only if the stored status and
// version still match
func (r *GormAdjustmentRepository) SaveWithStatusGate(ctx context.Context, adjustment *document.Adjustment, expectedStatus document.Status, expectedVersion int) error {
	result := r.db.WithContext(ctx).
		Model(&document.Adjustment{}).
		Where("id = ? AND status = ? AND version = ?", adjustment.ID, expectedStatus, expectedVersion).
		Updates(map[string]interface{}{
			"status":     adjustment.Status,
			"note":       adjustment.Note,
			"done_at":    adjustment.DoneAt,
			"version":    expectedVersion + 1,
			"updated_at": adjustment.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	adjustment.Version = expectedVersion + 1
	return nil
}

// Delete deletes an adjustment and its lines
func (r *GormAdjustmentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&document.AdjustmentLine{}, "adjustment_id = ?", id).Error; err != nil {
			return err
		}
		result := tx.Delete(&document.Adjustment{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
}

// Ensure GormAdjustmentRepository implements AdjustmentRepository
var _ document.AdjustmentRepository = (*GormAdjustmentRepository)(nil)
