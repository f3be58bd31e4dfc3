// services/scheduler.go
package services

import (
	"context"
	"time"

	"camo-tracker/logger"

	"github.com/go-co-op/gocron/v2"
)

// StartScheduler runs the maintenance jobs: a daily purge of audit rows older
// than retentionDays and a sweep of tracker boards idle for boardIdle. The
// returned scheduler must be shut down by the caller.
func StartScheduler(ctx context.Context, audit *AuditService, retentionDays int, tracker *TrackerService, boardIdle time.Duration) (gocron.Scheduler, error) {
	sched, err := gocron.NewScheduler()
	if err != nil {
		return nil, err
	}

	_, err = sched.NewJob(
		gocron.DurationJob(24*time.Hour),
		gocron.NewTask(func() {
			audit.purgeExpired(ctx, retentionDays)
		}),
		gocron.WithStartAt(gocron.WithStartImmediately()),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		return nil, err
	}

	if boardIdle > 0 {
		_, err = sched.NewJob(
			gocron.DurationJob(boardIdle/2),
			gocron.NewTask(func() {
				tracker.sweepIdle(boardIdle)
			}),
			gocron.WithSingletonMode(gocron.LimitModeReschedule),
		)
		if err != nil {
			return nil, err
		}
	}

	sched.Start()
	logger.Info().Int("retention_days", retentionDays).Dur("board_idle", boardIdle).Msg("🗓️ Maintenance jobs scheduled")
	return sched, nil
}

func (s *TrackerService) sweepIdle(idle time.Duration) {
	if n := s.EvictIdle(idle); n > 0 {
		logger.Debug().Int("evicted", n).Int("cached", s.CachedBoards()).Msg("[TRACKER] idle boards evicted")
	}
}

func (s *AuditService) purgeExpired(ctx context.Context, retentionDays int) {
	if retentionDays <= 0 {
		return
	}
	cutoff := time.Now().AddDate(0, 0, -retentionDays)
	n, err := s.PurgeBefore(ctx, cutoff)
	if err != nil {
		logger.Error().Err(err).Msg("[Scheduler] audit purge failed")
		return
	}
	if n > 0 {
		logger.Info().Int64("deleted", n).Time("cutoff", cutoff).Msg("✅ Purged expired audit logs")
	}
}
