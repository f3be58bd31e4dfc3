package cascade

import (
	"context"
	"sync"
	"time"
)

// ProgressRow is one upserted (user, item) completion record.
type ProgressRow struct {
	UserID     string
	ItemID     string
	Status     bool
	UnlockedAt *time.Time
	UpdatedAt  time.Time
}

// Store persists batches of progress rows. Upserts are keyed by
// (user, item), so replaying a batch is harmless.
type Store interface {
	UpsertProgress(ctx context.Context, family Family, rows []ProgressRow) error
}

// Auditor receives best-effort audit events. Emit must not block.
type Auditor interface {
	Emit(userID, level, message string, context map[string]any)
}

// Board is one user's view of a family for one game mode: the catalog
// indices plus in-memory progress and per-item saving flags.
type Board struct {
	UserID  string
	Mode    string
	Catalog *Catalog

	rules   Rules
	store   Store
	auditor Auditor
	now     func() time.Time

	mu       sync.Mutex
	progress map[string]bool
	saving   map[string]int
}

type BoardOption func(*Board)

func WithRules(r Rules) BoardOption              { return func(b *Board) { b.rules = r } }
func WithStore(s Store) BoardOption              { return func(b *Board) { b.store = s } }
func WithAuditor(a Auditor) BoardOption          { return func(b *Board) { b.auditor = a } }
func WithClock(now func() time.Time) BoardOption { return func(b *Board) { b.now = now } }

// NewBoard builds a board. An empty userID yields a read-only board.
// Progress for ids outside the catalog is dropped.
func NewBoard(userID, mode string, catalog *Catalog, progress map[string]bool, opts ...BoardOption) *Board {
	b := &Board{
		UserID:   userID,
		Mode:     mode,
		Catalog:  catalog,
		rules:    DefaultRules,
		now:      time.Now,
		progress: make(map[string]bool),
		saving:   make(map[string]int),
	}
	for _, opt := range opts {
		opt(b)
	}
	if userID != "" {
		for id, status := range progress {
			if _, ok := catalog.Item(id); ok {
				b.progress[id] = status
			}
		}
	}
	return b
}

func (b *Board) Family() Family {
	return b.Catalog.Family
}

// SignInRequired is true when the board was loaded without a session.
func (b *Board) SignInRequired() bool {
	return b.UserID == ""
}

func (b *Board) Checked(id string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.progress[id]
}

func (b *Board) Saving(id string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.saving[id] > 0
}

// Busy reports whether any batch is still being persisted.
func (b *Board) Busy() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, n := range b.saving {
		if n > 0 {
			return true
		}
	}
	return false
}

// Progress returns a copy of the in-memory completion map.
func (b *Board) Progress() map[string]bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make(map[string]bool, len(b.progress))
	for id, v := range b.progress {
		out[id] = v
	}
	return out
}
