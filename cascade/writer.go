package cascade

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"
)

// ToggleResult describes one cascade write.
type ToggleResult struct {
	Status bool
	// Affected is the resolved cascade, target included.
	Affected []string
	// Written is the subset whose state changed and went into the batch.
	Written []string
}

// Toggle sets itemID (and its cascade) to checked. The in-memory state is
// updated before the batch is persisted and restored if the store rejects it.
func (b *Board) Toggle(ctx context.Context, itemID string, checked bool) (*ToggleResult, error) {
	if b.SignInRequired() {
		return nil, ErrNotAuthenticated
	}
	affected, err := Resolve(b.Catalog, itemID, checked, b.rules)
	if err != nil {
		return nil, err
	}

	res := &ToggleResult{Status: checked, Affected: affected}
	prev := make(map[string]prior, len(affected))

	b.mu.Lock()
	for _, id := range affected {
		value, present := b.progress[id]
		prev[id] = prior{value: value, present: present}
		if value != checked {
			res.Written = append(res.Written, id)
		}
		b.saving[id]++
		b.progress[id] = checked
	}
	b.mu.Unlock()

	if len(res.Written) > 0 {
		err = b.persist(ctx, res.Written, checked)
	}

	b.mu.Lock()
	for _, id := range affected {
		if err != nil {
			prev[id].restore(b.progress, id)
		}
		if b.saving[id]--; b.saving[id] <= 0 {
			delete(b.saving, id)
		}
	}
	b.mu.Unlock()

	if err != nil {
		return res, fmt.Errorf("%w: %w", ErrPersistence, err)
	}
	if len(res.Written) > 0 && b.auditor != nil {
		b.auditor.Emit(b.UserID, "info", b.Family().auditMessage(), map[string]any{
			b.Family().auditIDsKey(): res.Written,
			"status":                 checked,
			"gamemode":               b.Mode,
		})
	}
	return res, nil
}

// prior is an item's state before an optimistic update. An item without a
// progress row is restored to having none.
type prior struct {
	value, present bool
}

func (p prior) restore(progress map[string]bool, id string) {
	if p.present {
		progress[id] = p.value
	} else {
		delete(progress, id)
	}
}

func (b *Board) persist(ctx context.Context, ids []string, checked bool) error {
	if b.store == nil {
		return errors.New("no progress store configured")
	}
	now := b.now()
	rows := make([]ProgressRow, 0, len(ids))
	for _, id := range ids {
		row := ProgressRow{UserID: b.UserID, ItemID: id, Status: checked, UpdatedAt: now}
		if checked {
			unlocked := now
			row.UnlockedAt = &unlocked
		}
		rows = append(rows, row)
	}
	return b.store.UpsertProgress(ctx, b.Family(), rows)
}

// CheckAllResult reports a bulk check. Each item ran as its own cascade.
type CheckAllResult struct {
	Toggled []string
	Skipped []string
	Failed  map[string]error
}

// CheckAll checks every listed item that is not already checked. Items run
// concurrently as independent cascades; failures roll back only their own
// batch. The returned error joins the individual failures.
func (b *Board) CheckAll(ctx context.Context, ids []string) (*CheckAllResult, error) {
	if b.SignInRequired() {
		return nil, ErrNotAuthenticated
	}
	res := &CheckAllResult{Failed: make(map[string]error)}

	// Skips are decided against the state before any toggle runs.
	var pending []string
	for _, id := range ids {
		if b.Checked(id) {
			res.Skipped = append(res.Skipped, id)
		} else {
			pending = append(pending, id)
		}
	}

	var (
		g  errgroup.Group
		mu sync.Mutex
		ok = make(map[string]bool, len(pending))
	)
	for _, id := range pending {
		g.Go(func() error {
			_, err := b.Toggle(ctx, id, true)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				res.Failed[id] = err
			} else {
				ok[id] = true
			}
			return nil
		})
	}
	_ = g.Wait()

	var errs []error
	for _, id := range pending {
		if ok[id] {
			res.Toggled = append(res.Toggled, id)
		} else if err := res.Failed[id]; err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", id, err))
		}
	}
	return res, errors.Join(errs...)
}
