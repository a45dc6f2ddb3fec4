package repository

import (
	"time"

	"github.com/google/uuid"
	"github.com/latoulicious/anglerslog/pkg/database/models"
	"github.com/latoulicious/anglerslog/pkg/logging"
	"gorm.io/gorm"
)

// LogRepository stores application logs next to the logbook data
type LogRepository struct {
	db  *gorm.DB
	now func() time.Time
}

func NewLogRepository(db *gorm.DB) *LogRepository {
	return &LogRepository{db: db, now: time.Now}
}

// SaveLog implements logging.LogRepository
func (r *LogRepository) SaveLog(entry logging.LogEntry) error {
	return r.db.Create(&models.LogEntry{
		ID:        uuid.New(),
		Component: entry.Component,
		Level:     entry.Level,
		Message:   entry.Message,
		Error:     entry.Error,
		Fields:    entry.Fields,
		Journal:   entry.Journal,
		Entity:    entry.Entity,
		Operation: entry.Operation,
		Timestamp: r.now().UTC(),
	}).Error
}

// GetRecentLogs returns up to limit entries, newest first. An empty component
// or level matches everything.
func (r *LogRepository) GetRecentLogs(component, level string, limit int) ([]models.LogEntry, error) {
	var logs []models.LogEntry
	q := r.db.Order("timestamp DESC").Limit(limit)
	if component != "" {
		q = q.Where("component = ?", component)
	}
	if level != "" {
		q = q.Where("level = ?", level)
	}
	if err := q.Find(&logs).Error; err != nil {
		return nil, err
	}
	return logs, nil
}

// DeleteOlderThan removes entries logged before cutoff
func (r *LogRepository) DeleteOlderThan(cutoff time.Time) (int64, error) {
	res := r.db.Where("timestamp < ?", cutoff.UTC()).Delete(&models.LogEntry{})
	return res.RowsAffected, res.Error
}
