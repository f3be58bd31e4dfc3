// services/tracker_service.go
package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"camo-tracker/cascade"
	"camo-tracker/logger"
	"camo-tracker/models"
)

type boardKey struct {
	userID string
	family cascade.Family
}

type loadedBoard struct {
	board        *cascade.Board
	catalog      *FamilyCatalog
	totalWeapons int
	lastUsed     time.Time // guarded by TrackerService.mu
}

// TrackerService keeps one board per (user, family). The cached board is the
// source of truth for its user while it lives: snapshots render it as is,
// including items whose batch is still saving. Loading a different game mode
// replaces it; idle boards are dropped by EvictIdle.
type TrackerService struct {
	Catalog *CatalogService
	Store   cascade.Store
	Auditor cascade.Auditor

	mu     sync.Mutex
	boards map[boardKey]*loadedBoard
}

func NewTrackerService(catalog *CatalogService, store cascade.Store, auditor cascade.Auditor) *TrackerService {
	return &TrackerService{
		Catalog: catalog,
		Store:   store,
		Auditor: auditor,
		boards:  make(map[boardKey]*loadedBoard),
	}
}

// load builds a board from the database. Values in carry win over stored
// progress for items the new catalog also holds.
func (s *TrackerService) load(ctx context.Context, userID string, family cascade.Family, mode models.Gamemode, carry map[string]bool) (*loadedBoard, error) {
	fc, err := s.Catalog.LoadFamily(ctx, family, mode)
	if err != nil {
		return nil, err
	}
	progress, err := s.Catalog.LoadProgress(ctx, family, userID)
	if err != nil {
		return nil, err
	}
	for id, v := range carry {
		progress[id] = v
	}
	totalWeapons := 0
	if family == cascade.FamilyCamo {
		if totalWeapons, err = s.Catalog.CountWeapons(ctx); err != nil {
			return nil, err
		}
	}

	catalog := cascade.NewCatalog(family, fc.Items, s.Catalog.Rules)
	board := cascade.NewBoard(userID, string(mode), catalog, progress,
		cascade.WithRules(s.Catalog.Rules),
		cascade.WithStore(s.Store),
		cascade.WithAuditor(s.Auditor),
	)
	logger.Debug().Str("user_id", userID).Str("family", string(family)).Str("gamemode", string(mode)).
		Int("items", catalog.Len()).Msg("[TRACKER] board loaded")
	return &loadedBoard{board: board, catalog: fc, totalWeapons: totalWeapons}, nil
}

// cached returns the user's board for mode, loading it when absent or when
// the cached board belongs to another mode. A board is never replaced by one
// of the same mode, so writes in flight on it stay visible.
func (s *TrackerService) cached(ctx context.Context, userID string, family cascade.Family, mode models.Gamemode) (*loadedBoard, error) {
	key := boardKey{userID, family}

	s.mu.Lock()
	prev, ok := s.boards[key]
	if ok && prev.board.Mode == string(mode) {
		prev.lastUsed = time.Now()
		s.mu.Unlock()
		return prev, nil
	}
	s.mu.Unlock()

	var carry map[string]bool
	if prev != nil {
		carry = prev.board.Progress()
	}
	lb, err := s.load(ctx, userID, family, mode, carry)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if cur, ok := s.boards[key]; ok && cur.board.Mode == string(mode) {
		cur.lastUsed = time.Now()
		return cur, nil
	}
	lb.lastUsed = time.Now()
	s.boards[key] = lb
	return lb, nil
}

// Snapshot renders the signed-in user's cached board, or a throwaway board
// without progress for anonymous callers.
func (s *TrackerService) Snapshot(ctx context.Context, userID string, family cascade.Family, mode models.Gamemode) (*BoardView, error) {
	var (
		lb  *loadedBoard
		err error
	)
	if userID == "" {
		lb, err = s.load(ctx, "", family, mode, nil)
	} else {
		lb, err = s.cached(ctx, userID, family, mode)
	}
	if err != nil {
		return nil, err
	}
	return renderBoard(lb), nil
}

// ToggleView is the response to a single toggle.
type ToggleView struct {
	ItemID   string          `json:"item_id"`
	Status   bool            `json:"status"`
	Affected []string        `json:"affected"`
	Written  []string        `json:"written"`
	Progress map[string]bool `json:"progress"`
}

func (s *TrackerService) Toggle(ctx context.Context, userID string, family cascade.Family, mode models.Gamemode, itemID string, checked bool) (*ToggleView, error) {
	if userID == "" {
		return nil, cascade.ErrNotAuthenticated
	}
	lb, err := s.cached(ctx, userID, family, mode)
	if err != nil {
		return nil, err
	}
	res, err := lb.board.Toggle(ctx, itemID, checked)
	if err != nil {
		if errors.Is(err, cascade.ErrPersistence) {
			logger.Error().Err(err).Str("user_id", userID).Str("item_id", itemID).Msg("[TRACKER] batch rolled back")
		}
		return nil, err
	}
	view := &ToggleView{
		ItemID:   itemID,
		Status:   res.Status,
		Affected: res.Affected,
		Written:  res.Written,
		Progress: make(map[string]bool, len(res.Affected)),
	}
	if view.Written == nil {
		view.Written = []string{}
	}
	for _, id := range res.Affected {
		view.Progress[id] = lb.board.Checked(id)
	}
	return view, nil
}

// CheckAllView reports a bulk check; failed items carry their error text.
type CheckAllView struct {
	Toggled []string          `json:"toggled"`
	Skipped []string          `json:"skipped"`
	Failed  map[string]string `json:"failed"`
}

func (s *TrackerService) CheckAll(ctx context.Context, userID string, family cascade.Family, mode models.Gamemode, itemIDs []string) (*CheckAllView, error) {
	if userID == "" {
		return nil, cascade.ErrNotAuthenticated
	}
	lb, err := s.cached(ctx, userID, family, mode)
	if err != nil {
		return nil, err
	}
	res, err := lb.board.CheckAll(ctx, itemIDs)
	if res == nil {
		return nil, err
	}
	view := &CheckAllView{Toggled: []string{}, Skipped: []string{}, Failed: make(map[string]string, len(res.Failed))}
	view.Toggled = append(view.Toggled, res.Toggled...)
	view.Skipped = append(view.Skipped, res.Skipped...)
	for id, ferr := range res.Failed {
		view.Failed[id] = ferr.Error()
	}
	if err != nil {
		logger.Warn().Err(err).Str("user_id", userID).Int("failed", len(res.Failed)).Msg("[TRACKER] check all finished with failures")
	}
	return view, nil
}

// EvictIdle drops boards unused for at least idle. Boards with a batch still
// saving are kept. It returns how many boards were dropped.
func (s *TrackerService) EvictIdle(idle time.Duration) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for key, lb := range s.boards {
		if time.Since(lb.lastUsed) < idle || lb.board.Busy() {
			continue
		}
		delete(s.boards, key)
		n++
	}
	return n
}

// CachedBoards reports how many boards are held in memory.
func (s *TrackerService) CachedBoards() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.boards)
}
