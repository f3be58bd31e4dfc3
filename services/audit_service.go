// services/audit_service.go
package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"camo-tracker/logger"
	"camo-tracker/models"
	"camo-tracker/utils"

	"gorm.io/gorm"
)

// AuditEntry is one event for the audit log.
type AuditEntry struct {
	UserID  string         `json:"user_id"`
	Level   string         `json:"level"`
	Message string         `json:"message"`
	Context map[string]any `json:"context"`
}

type AuditService struct {
	DB *gorm.DB
}

func NewAuditService(db *gorm.DB) *AuditService {
	return &AuditService{DB: db}
}

// Record echoes the event to the service log and stores it.
func (s *AuditService) Record(ctx context.Context, e AuditEntry) error {
	if strings.TrimSpace(e.Message) == "" {
		return utils.BadRequest("Missing message")
	}
	level := models.NormalizeLogLevel(e.Level)
	if e.Context == nil {
		e.Context = map[string]any{}
	}

	event := logger.Info()
	switch level {
	case models.LogLevelDebug:
		event = logger.Debug()
	case models.LogLevelWarn:
		event = logger.Warn()
	case models.LogLevelError:
		event = logger.Error()
	}
	event.Str("user_id", e.UserID).Interface("context", e.Context).Msg("[AUDIT] " + e.Message)

	entry := models.AuditLog{
		Level:   level,
		Message: e.Message,
		Context: e.Context,
	}
	if e.UserID != "" {
		entry.UserID = &e.UserID
	}
	if err := s.DB.WithContext(ctx).Create(&entry).Error; err != nil {
		return fmt.Errorf("failed to record log: %w", err)
	}
	return nil
}

// PurgeBefore deletes audit rows older than cutoff.
func (s *AuditService) PurgeBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res := s.DB.WithContext(ctx).Where("created_at < ?", cutoff).Delete(&models.AuditLog{})
	return res.RowsAffected, res.Error
}
