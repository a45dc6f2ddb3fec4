package health

import (
	"context"
	"time"

	"github.com/latoulicious/anglerslog/pkg/database/models"
	"github.com/latoulicious/anglerslog/pkg/database/schema"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// slowQuery marks a round trip worth warning about
const slowQuery = 5 * time.Second

// DatabaseReport is the outcome of CheckDatabase
type DatabaseReport struct {
	Driver          string
	Version         string
	Latency         time.Duration
	Tables          int
	MissingTables   []string
	OpenConnections int
	InUse           int
	Idle            int
}

// Slow reports whether the probe query took long enough to suspect the link
func (r DatabaseReport) Slow() bool {
	return r.Latency > slowQuery
}

// Ping is a Check for the database behind db
func Ping(db *gorm.DB) Check {
	return func(ctx context.Context) error {
		sqlDB, err := db.DB()
		if err != nil {
			return err
		}
		return sqlDB.PingContext(ctx)
	}
}

// CheckDatabase verifies db is reachable, reports the server version, which
// logbook tables are missing, and whether transactions roll back cleanly.
// Missing tables are not an error; they are created by the next migration.
func CheckDatabase(ctx context.Context, db *gorm.DB) (DatabaseReport, error) {
	report := DatabaseReport{Driver: db.Dialector.Name()}
	db = db.WithContext(ctx)

	sqlDB, err := db.DB()
	if err != nil {
		return report, errors.Wrap(err, "failed to get underlying database connection")
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return report, errors.Wrap(err, "database ping failed")
	}

	versionQuery := "SELECT version()"
	if report.Driver == "sqlite" {
		versionQuery = "SELECT sqlite_version()"
	}
	if err := db.Raw(versionQuery).Scan(&report.Version).Error; err != nil {
		return report, errors.Wrap(err, "failed to get database version")
	}

	expected := append(append([]string{}, schema.AllTables...), models.LogEntry{}.TableName())
	for _, table := range expected {
		if db.Migrator().HasTable(table) {
			report.Tables++
		} else {
			report.MissingTables = append(report.MissingTables, table)
		}
	}

	if err := testTransactionCapability(db); err != nil {
		return report, errors.Wrap(err, "transaction test failed")
	}

	start := time.Now()
	var one int
	if err := db.Raw("SELECT 1").Scan(&one).Error; err != nil {
		return report, errors.Wrap(err, "probe query failed")
	}
	report.Latency = time.Since(start)

	stats := sqlDB.Stats()
	report.OpenConnections = stats.OpenConnections
	report.InUse = stats.InUse
	report.Idle = stats.Idle
	return report, nil
}

var errRollback = errors.New("rollback")

// testTransactionCapability writes to a temporary table inside a transaction
// that is always rolled back
func testTransactionCapability(db *gorm.DB) error {
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("CREATE TEMPORARY TABLE anglerslog_check (id INTEGER PRIMARY KEY, note TEXT)").Error; err != nil {
			return errors.Wrap(err, "failed to create temporary table")
		}
		if err := tx.Exec("INSERT INTO anglerslog_check (id, note) VALUES (1, 'check')").Error; err != nil {
			return errors.Wrap(err, "failed to insert test data")
		}

		var count int64
		if err := tx.Raw("SELECT COUNT(*) FROM anglerslog_check").Scan(&count).Error; err != nil {
			return errors.Wrap(err, "failed to read test data")
		}
		if count != 1 {
			return errors.Errorf("expected 1 test row, found %d", count)
		}
		return errRollback
	})
	if errors.Is(err, errRollback) {
		return nil
	}
	return err
}
