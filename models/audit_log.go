package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	LogLevelDebug = "debug"
	LogLevelInfo  = "info"
	LogLevelWarn  = "warn"
	LogLevelError = "error"
)

// AuditLog records profile changes and cascade writes. Rows are pruned by
// the retention job.
type AuditLog struct {
	ID        string            `json:"id" gorm:"primaryKey"`
	UserID    *string           `json:"user_id" gorm:"index"`
	Level     string            `json:"level" gorm:"type:varchar(8);not null"`
	Message   string            `json:"message" gorm:"not null"`
	Context   datatypes.JSONMap `json:"context"`
	CreatedAt time.Time         `json:"created_at" gorm:"autoCreateTime;index"`
}

func (l *AuditLog) BeforeCreate(tx *gorm.DB) error {
	if l.ID == "" {
		l.ID = uuid.NewString()
	}
	return nil
}

// NormalizeLogLevel maps anything outside the known levels to info.
func NormalizeLogLevel(level string) string {
	switch level {
	case LogLevelDebug, LogLevelInfo, LogLevelWarn, LogLevelError:
		return level
	}
	return LogLevelInfo
}
