package database

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pkg/errors"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Supported database drivers
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Options selects and locates the backing store
type Options struct {
	Driver string // sqlite (default) or postgres
	Path   string // sqlite database file
	URL    string // postgres DSN
	Debug  bool   // log every statement through gorm's logger
}

// NewGormDB opens a gorm connection for the configured driver
func NewGormDB(opts Options) (*gorm.DB, error) {
	switch opts.Driver {
	case "", DriverSQLite:
		return NewSQLiteDB(opts.Path, opts.Debug)
	case DriverPostgres:
		return NewPostgresDB(opts.URL, opts.Debug)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", opts.Driver)
	}
}

// NewSQLiteDB opens (creating if needed) the logbook database file.
// Foreign keys are enforced and the pool is limited to one connection, the
// logbook has exactly one writer.
func NewSQLiteDB(path string, debug bool) (*gorm.DB, error) {
	if path == "" {
		return nil, errors.New("sqlite database path is not set")
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, errors.Wrap(err, "failed to create database directory")
	}

	dsn := fmt.Sprintf("file:%s?_foreign_keys=on&_busy_timeout=5000&_journal_mode=WAL", filepath.Clean(path))

	db, err := gorm.Open(sqlite.Open(dsn), gormConfig(debug))
	if err != nil {
		return nil, errors.Wrap(err, "failed to open SQLite database")
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, errors.Wrap(err, "failed to get underlying database")
	}
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)
	sqlDB.SetConnMaxIdleTime(5 * time.Minute)

	return db, nil
}

// NewPostgresDB creates a new GORM database connection using the provided DSN
func NewPostgresDB(dsn string, debug bool) (*gorm.DB, error) {
	if dsn == "" {
		return nil, errors.New("database DSN is not set")
	}

	db, err := gorm.Open(postgres.Open(dsn), gormConfig(debug))
	if err != nil {
		return nil, errors.Wrap(err, "failed to open PostgreSQL database")
	}

	return db, nil
}

func gormConfig(debug bool) *gorm.Config {
	level := logger.Silent
	if debug {
		level = logger.Info
	}
	return &gorm.Config{
		// constraint violations come back as gorm.ErrDuplicatedKey / ErrForeignKeyViolated
		TranslateError: true,
		Logger:         logger.Default.LogMode(level),
	}
}
