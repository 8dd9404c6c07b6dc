package persistence

import (
	"context"

	"github.com/warehouse/backend/internal/domain/document"
	"github.com/warehouse/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// DocumentSequence is the counter row backing document numbering, one row
// per document type.
type DocumentSequence struct {
	DocType    string `gorm:"primaryKey;type:varchar(20)"`
	LastNumber int64  `gorm:"not null;default:0"`
}

// TableName returns the table name for GORM
func (DocumentSequence) TableName() string {
	return "document_sequences"
}

// GormSequenceRepository implements document.SequenceRepository on a
// counter table. Next is one atomic upsert, so concurrent callers are
// serialized by the database row and never observe the same value. Run it
// inside the transaction that inserts the document and the numbering stays
// gapless under rollback.
type GormSequenceRepository struct {
	db *gorm.DB
}

// NewGormSequenceRepository creates a new GormSequenceRepository
func NewGormSequenceRepository(db *gorm.DB) *GormSequenceRepository {
	return &GormSequenceRepository{db: db}
}

// Next increments and returns the counter for the given document type
func (r *GormSequenceRepository) Next(ctx context.Context, t document.Type) (int64, error) {
	if !t.IsValid() {
		return 0, shared.NewDomainError("INVALID_DOCUMENT_TYPE", "Invalid document type")
	}

	var result struct {
		LastNumber int64
	}
	err := r.db.WithContext(ctx).Raw(`
		INSERT INTO document_sequences (doc_type, last_number)
		VALUES (?, 1)
		ON CONFLICT (doc_type)
		DO UPDATE SET last_number = document_sequences.last_number + 1
		RETURNING last_number`,
		t.Code(),
	).Scan(&result).Error
	if err != nil {
		return 0, err
	}
	return result.LastNumber, nil
}

// Current returns the last issued value without incrementing, zero if no
// number was ever issued for the type
func (r *GormSequenceRepository) Current(ctx context.Context, t document.Type) (int64, error) {
	if !t.IsValid() {
		return 0, shared.NewDomainError("INVALID_DOCUMENT_TYPE", "Invalid document type")
	}

	var seq DocumentSequence
	err := r.db.WithContext(ctx).First(&seq, "doc_type = ?", t.Code()).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return 0, nil
		}
		return 0, err
	}
	return seq.LastNumber, nil
}

// Ensure GormSequenceRepository implements SequenceRepository
var _ document.SequenceRepository = (*GormSequenceRepository)(nil)
