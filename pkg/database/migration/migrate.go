package migration

import (
	"fmt"

	"github.com/latoulicious/anglerslog/pkg/database/models"
	"github.com/latoulicious/anglerslog/pkg/database/schema"
	"github.com/latoulicious/anglerslog/pkg/logging"
	"gorm.io/gorm"
)

// The DDL sticks to types both SQLite and PostgreSQL understand: ids are
// UUID strings, dates are unix milliseconds, flags are 0/1 integers.
var createStatements = []string{
	userDefineTable(schema.SpeciesTable),
	userDefineTable(schema.BaitCategoryTable),
	userDefineTable(schema.WaterClarityTable),
	userDefineTable(schema.FishingMethodTable),
	userDefineTable(schema.AnglerTable),
	userDefineTable(schema.LocationTable),

	`CREATE TABLE IF NOT EXISTS ` + schema.FishingSpotTable + ` (
		id          TEXT PRIMARY KEY NOT NULL,
		name        TEXT NOT NULL,
		location_id TEXT NOT NULL REFERENCES ` + schema.LocationTable + `(id),
		latitude    DOUBLE PRECISION,
		longitude   DOUBLE PRECISION,
		UNIQUE (name, location_id)
	)`,

	`CREATE TABLE IF NOT EXISTS ` + schema.BaitTable + ` (
		id          TEXT PRIMARY KEY NOT NULL,
		name        TEXT NOT NULL,
		category_id TEXT NOT NULL REFERENCES ` + schema.BaitCategoryTable + `(id),
		color       TEXT,
		size        TEXT,
		description TEXT,
		type        INTEGER,
		UNIQUE (name, category_id)
	)`,

	`CREATE TABLE IF NOT EXISTS ` + schema.CatchTable + ` (
		id                TEXT PRIMARY KEY NOT NULL,
		name              TEXT NOT NULL,
		date              BIGINT UNIQUE NOT NULL,
		species_id        TEXT REFERENCES ` + schema.SpeciesTable + `(id),
		bait_id           TEXT REFERENCES ` + schema.BaitTable + `(id),
		fishing_spot_id   TEXT REFERENCES ` + schema.FishingSpotTable + `(id),
		clarity_id        TEXT REFERENCES ` + schema.WaterClarityTable + `(id),
		is_favorite       INTEGER NOT NULL DEFAULT 0,
		catch_result      INTEGER NOT NULL DEFAULT 0,
		quantity          INTEGER,
		length            DOUBLE PRECISION,
		weight            DOUBLE PRECISION,
		water_depth       DOUBLE PRECISION,
		water_temperature INTEGER,
		notes             TEXT
	)`,

	`CREATE TABLE IF NOT EXISTS ` + schema.TripTable + ` (
		id         TEXT PRIMARY KEY NOT NULL,
		name       TEXT NOT NULL,
		start_date BIGINT NOT NULL,
		end_date   BIGINT NOT NULL,
		notes      TEXT
	)`,

	`CREATE TABLE IF NOT EXISTS ` + schema.WeatherTable + ` (
		catch_id       TEXT PRIMARY KEY NOT NULL REFERENCES ` + schema.CatchTable + `(id),
		temperature    INTEGER,
		wind_speed     INTEGER,
		sky_conditions TEXT
	)`,

	photoTable(schema.CatchPhotoTable),
	photoTable(schema.BaitPhotoTable),

	usedTable(schema.UsedFishingMethodTable,
		schema.UsedFishingMethodColCatchID, schema.CatchTable,
		schema.UsedFishingMethodColMethodID, schema.FishingMethodTable),
	usedTable(schema.UsedAnglerTable,
		schema.UsedAnglerColTripID, schema.TripTable,
		schema.UsedAnglerColAnglerID, schema.AnglerTable),
	usedTable(schema.UsedLocationTable,
		schema.UsedLocationColTripID, schema.TripTable,
		schema.UsedLocationColLocationID, schema.LocationTable),
	usedTable(schema.UsedCatchTable,
		schema.UsedCatchColTripID, schema.TripTable,
		schema.UsedCatchColCatchID, schema.CatchTable),

	`CREATE INDEX IF NOT EXISTS idx_catches_species ON ` + schema.CatchTable + `(species_id)`,
	`CREATE INDEX IF NOT EXISTS idx_catches_fishing_spot ON ` + schema.CatchTable + `(fishing_spot_id)`,
	`CREATE INDEX IF NOT EXISTS idx_fishing_spots_location ON ` + schema.FishingSpotTable + `(location_id)`,
	`CREATE INDEX IF NOT EXISTS idx_catch_photos_owner ON ` + schema.CatchPhotoTable + `(user_define_id)`,
	`CREATE INDEX IF NOT EXISTS idx_bait_photos_owner ON ` + schema.BaitPhotoTable + `(user_define_id)`,
}

func userDefineTable(name string) string {
	return `CREATE TABLE IF NOT EXISTS ` + name + ` (
		id   TEXT PRIMARY KEY NOT NULL,
		name TEXT UNIQUE NOT NULL
	)`
}

// Photo rows are not foreign keys: the owner may be a catch or a bait, and
// orphans are swept by the logbook instead.
func photoTable(name string) string {
	return `CREATE TABLE IF NOT EXISTS ` + name + ` (
		user_define_id TEXT NOT NULL,
		name           TEXT NOT NULL
	)`
}

func usedTable(name, leftCol, leftTable, rightCol, rightTable string) string {
	return fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
		%s TEXT NOT NULL REFERENCES %s(id),
		%s TEXT NOT NULL REFERENCES %s(id),
		PRIMARY KEY (%s, %s)
	)`, name, leftCol, leftTable, rightCol, rightTable, leftCol, rightCol)
}

// RunMigration creates the logbook schema and applies every column
// migration. It is idempotent.
func RunMigration(db *gorm.DB, logger logging.Logger) error {
	logger.Info("Starting migrations...", nil)

	for _, stmt := range createStatements {
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("failed to create schema: %w", err)
		}
	}

	if err := AddPhotoPositionColumns(db, logger); err != nil {
		return fmt.Errorf("failed to add photo position columns: %w", err)
	}

	if err := db.AutoMigrate(&models.LogEntry{}); err != nil {
		return fmt.Errorf("failed to migrate log table: %w", err)
	}

	logger.Info("Migrations completed successfully", map[string]interface{}{
		"tables": len(schema.AllTables),
	})
	return nil
}

// Reset drops every logbook table, children first
func Reset(db *gorm.DB, logger logging.Logger) error {
	logger.Warn("Dropping all logbook tables", nil)

	for i := len(schema.AllTables) - 1; i >= 0; i-- {
		if err := db.Exec("DROP TABLE IF EXISTS " + schema.AllTables[i]).Error; err != nil {
			return fmt.Errorf("failed to drop %s: %w", schema.AllTables[i], err)
		}
	}

	if err := db.Migrator().DropTable(&models.LogEntry{}); err != nil {
		return fmt.Errorf("failed to drop log table: %w", err)
	}
	return nil
}
