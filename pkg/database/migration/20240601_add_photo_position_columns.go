package migration

import (
	"github.com/latoulicious/anglerslog/pkg/database/schema"
	"github.com/latoulicious/anglerslog/pkg/logging"
	"gorm.io/gorm"
)

// AddPhotoPositionColumns adds the display-order column to both photo tables.
// Logbooks created before photos could be reordered have no position column;
// existing rows keep position 0 and sort by name among themselves.
func AddPhotoPositionColumns(db *gorm.DB, logger logging.Logger) error {
	for _, table := range schema.PhotoTables {
		if db.Migrator().HasColumn(table, schema.PhotoColPosition) {
			continue
		}

		logger.Info("Adding position column", map[string]interface{}{"table": table})
		if err := db.Exec("ALTER TABLE " + table + " ADD COLUMN " + schema.PhotoColPosition + " INTEGER NOT NULL DEFAULT 0").Error; err != nil {
			return err
		}
	}
	return nil
}
