package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/warehouse/backend/internal/domain/document"
	"github.com/warehouse/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormTransferRepository implements document.TransferRepository using GORM
type GormTransferRepository struct {
	db *gorm.DB
}

// NewGormTransferRepository creates a new GormTransferRepository
func NewGormTransferRepository(db *gorm.DB) *GormTransferRepository {
	return &GormTransferRepository{db: db}
}

// FindByID finds a transfer with its lines by ID
func (r *GormTransferRepository) FindByID(ctx context.Context, id uuid.UUID) (*document.InternalTransfer, error) {
	var transfer document.InternalTransfer
	if err := r.db.WithContext(ctx).
		Preload("Lines").
		First(&transfer, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &transfer, nil
}

// FindByNumber finds a transfer with its lines by document number
func (r *GormTransferRepository) FindByNumber(ctx context.Context, number string) (*document.InternalTransfer, error) {
	var transfer document.InternalTransfer
	if err := r.db.WithContext(ctx).
		Preload("Lines").
		First(&transfer, "number = ?", number).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &transfer, nil
}

// FindAll returns transfers matching the filter
func (r *GormTransferRepository) FindAll(ctx context.Context, filter shared.Filter) ([]*document.InternalTransfer, error) {
	var transfers []*document.InternalTransfer
	query := r.db.WithContext(ctx).Model(&document.InternalTransfer{}).Preload("Lines")
	if filter.Search != "" {
		query = query.Where("number LIKE ?", "%"+filter.Search+"%")
	}
	if status, ok := filter.Filters["status"]; ok {
		query = query.Where("status = ?", status)
	}
	if fromID, ok := filter.Filters["from_location_id"]; ok {
		query = query.Where("from_location_id = ?", fromID)
	}
	query = applyPagination(query, filter)

	if err := query.Find(&transfers).Error; err != nil {
		return nil, err
	}
	return transfers, nil
}

// Count counts transfers matching the filter
func (r *GormTransferRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&document.InternalTransfer{})
	if filter.Search != "" {
		query = query.Where("number LIKE ?", "%"+filter.Search+"%")
	}
	if status, ok := filter.Filters["status"]; ok {
		query = query.Where("status = ?", status)
	}
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Save persists the transfer and its lines, removing lines dropped from the
// aggregate
func (r *GormTransferRepository) Save(ctx context.Context, transfer *document.InternalTransfer) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(transfer).Error; err != nil {
			return err
		}
		if err := deleteOrphanedLines(tx, &document.TransferLine{}, "transfer_id", transfer.ID, lineIDs(transfer.Lines, func(l document.TransferLine) uuid.UUID { return l.ID })); err != nil {
			return err
		}
		return saveLines(tx, transfer.Lines)
	})
}

// SaveWithStatusGate persists header changes only if the stored status and
// version still match
func (r *GormTransferRepository) SaveWithStatusGate(ctx context.Context, transfer *document.InternalTransfer, expectedStatus document.Status, expectedVersion int) error {
	result := r.db.WithContext(ctx).
		Model(&document.InternalTransfer{}).
		Where("id = ? AND status = ? AND version = ?", transfer.ID, expectedStatus, expectedVersion).
		Updates(map[string]interface{}{
			"status":     transfer.Status,
			"note":       transfer.Note,
			"done_at":    transfer.DoneAt,
			"version":    expectedVersion + 1,
			"updated_at": transfer.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	transfer.Version = expectedVersion + 1
	return nil
}

// Delete deletes a transfer and its lines
func (r *GormTransferRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&document.TransferLine{}, "transfer_id = ?", id).Error; err != nil {
			return err
		}
		result := tx.Delete(&document.InternalTransfer{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
}

// Ensure GormTransferRepository implements TransferRepository
var _ document.TransferRepository = (*GormTransferRepository)(nil)
