// workers/audit_sink.go
package workers

import (
	"context"
	"sync/atomic"
	"time"

	"camo-tracker/logger"
	"camo-tracker/services"
)

// AuditRecorder persists one audit entry.
type AuditRecorder interface {
	Record(ctx context.Context, e services.AuditEntry) error
}

// AuditSink is the fire-and-forget audit channel used by cascade writes.
// Emit never blocks: when the queue is full the event is dropped.
type AuditSink struct {
	recorder AuditRecorder
	queue    chan services.AuditEntry
	timeout  time.Duration
	dropped  atomic.Int64
	done     chan struct{}
}

func NewAuditSink(recorder AuditRecorder, size int) *AuditSink {
	if size <= 0 {
		size = 1
	}
	return &AuditSink{
		recorder: recorder,
		queue:    make(chan services.AuditEntry, size),
		timeout:  5 * time.Second,
		done:     make(chan struct{}),
	}
}

func (s *AuditSink) Emit(userID, level, message string, context map[string]any) {
	e := services.AuditEntry{UserID: userID, Level: level, Message: message, Context: context}
	select {
	case s.queue <- e:
	default:
		n := s.dropped.Add(1)
		logger.Warn().Int64("dropped_total", n).Str("message", message).Msg("[AUDIT] queue full, event dropped")
	}
}

// Dropped reports how many events were discarded because the queue was full.
func (s *AuditSink) Dropped() int64 {
	return s.dropped.Load()
}

func (s *AuditSink) Start(ctx context.Context) {
	logger.Info().Int("queue_size", cap(s.queue)).Msg("🔁 Starting audit sink")
	go s.run(ctx)
}

func (s *AuditSink) run(ctx context.Context) {
	defer close(s.done)
	for {
		select {
		case e := <-s.queue:
			s.record(ctx, e)
		case <-ctx.Done():
			s.drain()
			logger.Info().Msg("⏹️ Audit sink stopped")
			return
		}
	}
}

// drain flushes what is already queued on shutdown.
func (s *AuditSink) drain() {
	for {
		select {
		case e := <-s.queue:
			s.record(context.Background(), e)
		default:
			return
		}
	}
}

// Wait blocks until the sink has stopped and drained, or ctx expires.
func (s *AuditSink) Wait(ctx context.Context) {
	select {
	case <-s.done:
	case <-ctx.Done():
	}
}

func (s *AuditSink) record(ctx context.Context, e services.AuditEntry) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.timeout)
	defer cancel()
	if err := s.recorder.Record(ctx, e); err != nil {
		logger.Warn().Err(err).Str("message", e.Message).Msg("[AUDIT] failed to record event")
	}
}
