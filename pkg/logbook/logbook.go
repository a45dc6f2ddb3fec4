// Package logbook is the single entry point to a fishing log: it enforces the
// uniqueness and ownership rules that the tables alone cannot express and hands
// back model values.
package logbook

import (
	"context"

	"github.com/latoulicious/anglerslog/pkg/database"
	"github.com/latoulicious/anglerslog/pkg/database/migration"
	"github.com/latoulicious/anglerslog/pkg/logging"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// Config locates the backing store and names the journal
type Config struct {
	Database database.Options
	Name     string
}

// Logbook is an open fishing log. It is not safe for concurrent writers; a
// Logbook obtained from Transaction is only valid inside the callback.
type Logbook struct {
	db     *database.QueryHelper
	logger logging.Logger
	name   string
}

// New wraps an already migrated database
func New(h *database.QueryHelper, name string, logger logging.Logger) *Logbook {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &Logbook{db: h, logger: logger, name: name}
}

// Open connects to the configured store, brings the schema up to date and
// sweeps photo rows left behind by removed catches and baits.
func Open(cfg Config, logger logging.Logger) (*Logbook, error) {
	if logger == nil {
		logger = logging.NewNopLogger()
	}

	db, err := database.NewGormDB(cfg.Database)
	if err != nil {
		return nil, errors.Wrap(err, "open logbook")
	}

	if err := migration.RunMigration(db, logger); err != nil {
		closeGorm(db)
		return nil, errors.Wrap(err, "migrate logbook")
	}

	l := New(database.NewQueryHelper(db), cfg.Name, logger)
	if _, err := l.CleanOrphanPhotos(); err != nil {
		_ = l.Close()
		return nil, err
	}

	logger.Info("Logbook opened", map[string]interface{}{
		"journal": cfg.Name,
		"driver":  cfg.Database.Driver,
	})
	return l, nil
}

func closeGorm(db *gorm.DB) {
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}

// Close releases the database handle
func (l *Logbook) Close() error {
	return l.db.Close()
}

// Name is the journal name written into exports
func (l *Logbook) Name() string {
	return l.name
}

// DB exposes the gorm handle for infrastructure that shares the store, such
// as the log repository
func (l *Logbook) DB() *gorm.DB {
	return l.db.DB()
}

// WithContext returns a Logbook whose statements are cancelled with ctx
func (l *Logbook) WithContext(ctx context.Context) *Logbook {
	return &Logbook{db: l.db.WithContext(ctx), logger: l.logger, name: l.name}
}

// WithLogger returns a Logbook on the same store that logs to logger
func (l *Logbook) WithLogger(logger logging.Logger) *Logbook {
	return &Logbook{db: l.db, logger: logger, name: l.name}
}

// Transaction runs fn against a Logbook bound to one transaction. Every
// operation made through tx commits together or not at all. Inside fn, use
// only tx: the SQLite store has a single connection.
func (l *Logbook) Transaction(fn func(tx *Logbook) error) error {
	return l.db.Transaction(func(h *database.QueryHelper) error {
		return fn(&Logbook{db: h, logger: l.logger, name: l.name})
	})
}

// entityLogger scopes the logger to entity, and to operation when one is
// given. Loggers not built by CreateLogbookLogger are returned as they are.
func (l *Logbook) entityLogger(entity, operation string) logging.Logger {
	ll, ok := l.logger.(*logging.LogbookLogger)
	switch {
	case !ok:
		return l.logger
	case operation == "":
		return ll.WithEntity(entity)
	default:
		return ll.WithOperation(entity, operation)
	}
}

func (l *Logbook) logRemoved(entity string, id interface{}) {
	l.entityLogger(entity, "remove").Info("Removed "+entity, map[string]interface{}{
		"id": id,
	})
}
