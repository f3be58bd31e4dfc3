// workers/email_sync_worker.go
package workers

import (
	"context"
	"time"

	"camo-tracker/logger"
	"camo-tracker/models"
	"camo-tracker/services"

	"gorm.io/gorm"
)

// AccountSource lists auth accounts changed since a point in time.
type AccountSource interface {
	Changes(ctx context.Context, since time.Time) ([]services.AuthAccount, error)
}

// EmailSyncWorker copies login emails from the auth provider onto profiles so
// username resolution can answer without a round trip.
type EmailSyncWorker struct {
	db       *gorm.DB
	source   AccountSource
	interval time.Duration
	since    time.Time
}

func NewEmailSyncWorker(db *gorm.DB, source AccountSource, interval time.Duration) *EmailSyncWorker {
	if interval <= 0 {
		interval = time.Minute
	}
	return &EmailSyncWorker{db: db, source: source, interval: interval}
}

func (w *EmailSyncWorker) Start(ctx context.Context) {
	logger.Info().Dur("interval", w.interval).Msg("🔁 Starting email sync worker (auth → profiles)")
	go w.run(ctx)
}

func (w *EmailSyncWorker) run(ctx context.Context) {
	if err := w.SyncOnce(ctx); err != nil {
		logger.Warn().Err(err).Msg("[SYNC] initial email sync failed")
	}

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := w.SyncOnce(ctx); err != nil {
				logger.Error().Err(err).Msg("[SYNC] email sync batch failed")
			}
		case <-ctx.Done():
			logger.Info().Msg("⏹️ Email sync worker stopped")
			return
		}
	}
}

// SyncOnce applies one batch of account changes. Accounts without a profile
// are skipped; profiles are created at signup only.
func (w *EmailSyncWorker) SyncOnce(ctx context.Context) error {
	accounts, err := w.source.Changes(ctx, w.since)
	if err != nil {
		return err
	}
	if len(accounts) == 0 {
		logger.Debug().Time("since", w.since).Msg("[SYNC] no account changes")
		return nil
	}

	var updated, failed int
	latest := w.since
	for _, a := range accounts {
		if a.UpdatedAt.After(latest) {
			latest = a.UpdatedAt
		}
		if a.ID == "" || a.Email == "" {
			continue
		}
		res := w.db.WithContext(ctx).
			Model(&models.Profile{}).
			Where("id = ? AND email <> ?", a.ID, a.Email).
			Update("email", a.Email)
		if res.Error != nil {
			failed++
			logger.Warn().Err(res.Error).Str("user_id", a.ID).Msg("[SYNC] failed to update profile email")
			continue
		}
		updated += int(res.RowsAffected)
	}
	w.since = latest

	logger.Info().Int("accounts", len(accounts)).Int("updated", updated).Int("errors", failed).
		Time("latest", latest).Msg("[SYNC] ✅ email sync batch applied")
	return nil
}
