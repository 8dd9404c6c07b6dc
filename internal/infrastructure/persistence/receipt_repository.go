package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/warehouse/backend/internal/domain/document"
	"github.com/warehouse/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormReceiptRepository implements document.ReceiptRepository using GORM
type GormReceiptRepository struct {
	db *gorm.DB
}

// NewGormReceiptRepository creates a new GormReceiptRepository
func NewGormReceiptRepository(db *gorm.DB) *GormReceiptRepository {
	return &GormReceiptRepository{db: db}
}

// FindByID finds a receipt with its lines by ID
func (r *GormReceiptRepository) FindByID(ctx context.Context, id uuid.UUID) (*document.Receipt, error) {
	var receipt document.Receipt
	if err := r.db.WithContext(ctx).
		Preload("Lines").
		First(&receipt, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &receipt, nil
}

// FindByNumber finds a receipt with its lines by document number
func (r *GormReceiptRepository) FindByNumber(ctx context.Context, number string) (*document.Receipt, error) {
	var receipt document.Receipt
	if err := r.db.WithContext(ctx).
		Preload("Lines").
		First(&receipt, "number = ?", number).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &receipt, nil
}

// FindAll returns receipts matching the filter
func (r *GormReceiptRepository) FindAll(ctx context.Context, filter shared.Filter) ([]*document.Receipt, error) {
	var receipts []*document.Receipt
	query := r.db.WithContext(ctx).Model(&document.Receipt{}).Preload("Lines")
	query = applyDocumentFilter(query, filter)
	query = applyPagination(query, filter)

	if err := query.Find(&receipts).Error; err != nil {
		return nil, err
	}
	return receipts, nil
}

// Count counts receipts matching the filter
func (r *GormReceiptRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := applyDocumentFilter(r.db.WithContext(ctx).Model(&document.Receipt{}), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Save persists the receipt and its lines, removing lines dropped from the
// aggregate
func (r *GormReceiptRepository) Save(ctx context.Context, receipt *document.Receipt) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(receipt).Error; err != nil {
			return err
		}
		if err := deleteOrphanedLines(tx, &document.ReceiptLine{}, "receipt_id", receipt.ID, lineIDs(receipt.Lines, func(l document.ReceiptLine) uuid.UUID { return l.ID })); err != nil {
			return err
		}
		return saveLines(tx, receipt.Lines)
	})
}

// SaveWithStatusGate persists header changes only if the stored status and
// version still match. A zero row count means another writer moved the
// document first.
func (r *GormReceiptRepository) SaveWithStatusGate(ctx context.Context, receipt *document.Receipt, expectedStatus document.Status, expectedVersion int) error {
	result := r.db.WithContext(ctx).
		Model(&document.Receipt{}).
		Where("id = ? AND status = ? AND version = ?", receipt.ID, expectedStatus, expectedVersion).
		Updates(map[string]interface{}{
			"status":     receipt.Status,
			"note":       receipt.Note,
			"done_at":    receipt.DoneAt,
			"version":    expectedVersion + 1,
			"updated_at": receipt.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	receipt.Version = expectedVersion + 1
	return nil
}

// Delete deletes a receipt and its lines
func (r *GormReceiptRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&document.ReceiptLine{}, "receipt_id = ?", id).Error; err != nil {
			return err
		}
		result := tx.Delete(&document.Receipt{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
}

// Ensure GormReceiptRepository implements ReceiptRepository
var _ document.ReceiptRepository = (*GormReceiptRepository)(nil)
