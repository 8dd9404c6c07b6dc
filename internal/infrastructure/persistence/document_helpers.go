package persistence

import (
	"github.com/google/uuid"
	"github.com/warehouse/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// applyDocumentFilter applies the filter keys shared by all document tables
func applyDocumentFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		query = query.Where("number LIKE ?", "%"+filter.Search+"%")
	}
	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		case "location_id":
			query = query.Where("location_id = ?", value)
		}
	}
	return query
}

// lineIDs collects entity IDs from a line slice
func lineIDs[T any](lines []T, id func(T) uuid.UUID) []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(lines))
	for _, l := range lines {
		ids = append(ids, id(l))
	}
	return ids
}

// deleteOrphanedLines removes child rows the aggregate no longer carries.
// Needed because gorm's Save upserts associations but never deletes them.
func deleteOrphanedLines(tx *gorm.DB, model interface{}, fkColumn string, parentID uuid.UUID, keep []uuid.UUID) error {
	query := tx.Where(fkColumn+" = ?", parentID)
	if len(keep) > 0 {
		query = query.Where("id NOT IN ?", keep)
	}
	return query.Delete(model).Error
}

// saveLines writes every line the aggregate still carries. Saving the parent
// inserts new association rows but leaves existing ones untouched, so edited
// lines must be written row by row.
func saveLines[T any](tx *gorm.DB, lines []T) error {
	for i := range lines {
		if err := tx.Save(&lines[i]).Error; err != nil {
			return err
		}
	}
	return nil
}
