package migration

import (
	"github.com/latoulicious/anglerslog/pkg/database/schema"
	"github.com/latoulicious/anglerslog/pkg/logging"
	"gorm.io/gorm"
)

// RollbackPhotoPositionColumns removes the position column added by
// AddPhotoPositionColumns. Photo order falls back to name order.
func RollbackPhotoPositionColumns(db *gorm.DB, logger logging.Logger) error {
	logger.Info("Rolling back photo position columns", nil)

	for _, table := range schema.PhotoTables {
		if !db.Migrator().HasColumn(table, schema.PhotoColPosition) {
			continue
		}
		if err := db.Exec("ALTER TABLE " + table + " DROP COLUMN " + schema.PhotoColPosition).Error; err != nil {
			return err
		}
	}

	logger.Info("Photo position rollback completed", nil)
	return nil
}
