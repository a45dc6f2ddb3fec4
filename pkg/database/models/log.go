package models

import (
	"time"

	"github.com/google/uuid"
)

// LogEntry is a persisted application log line
type LogEntry struct {
	ID        uuid.UUID              `gorm:"primaryKey;type:text" json:"id"`
	Component string                 `gorm:"index;not null;default:'logbook'" json:"component"` // "logbook", "backup", "commands", etc.
	Level     string                 `gorm:"index;not null" json:"level"`                       // INFO, ERROR, WARN
	Message   string                 `gorm:"type:text;not null" json:"message"`
	Error     string                 `gorm:"type:text" json:"error"`
	Fields    map[string]interface{} `gorm:"type:text;serializer:json" json:"fields"`
	Journal   string                 `gorm:"index" json:"journal"`
	Entity    string                 `gorm:"index" json:"entity"` // species, catch, trip...
	Operation string                 `json:"operation"`
	Timestamp time.Time              `gorm:"index;not null" json:"timestamp"`
}

// TableName returns the table name for LogEntry
func (LogEntry) TableName() string {
	return "app_logs"
}
