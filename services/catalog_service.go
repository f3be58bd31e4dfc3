// services/catalog_service.go
package services

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"camo-tracker/cascade"
	"camo-tracker/models"

	"gorm.io/gorm"
)

// Parent is a weapon or optic that owns a list of unlock items.
type Parent struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Slug  string `json:"slug"`
	Group string `json:"group"` // weapon class id, or optic range category
	// Season is only set for weapons.
	Season *string `json:"release_season,omitempty"`
}

// FamilyCatalog is the flattened catalog of one family for one mode.
type FamilyCatalog struct {
	Family  cascade.Family
	Mode    models.Gamemode
	Items   []cascade.Item
	Parents []Parent
}

type CatalogService struct {
	DB    *gorm.DB
	Rules cascade.Rules
}

func NewCatalogService(db *gorm.DB) *CatalogService {
	return &CatalogService{DB: db, Rules: cascade.DefaultRules}
}

// LoadFamily fetches the family's items joined with their templates.
func (s *CatalogService) LoadFamily(ctx context.Context, family cascade.Family, mode models.Gamemode) (*FamilyCatalog, error) {
	fc := &FamilyCatalog{Family: family, Mode: mode}
	var err error
	switch family {
	case cascade.FamilyCamo:
		err = s.loadCamos(ctx, fc)
	case cascade.FamilyPrestige:
		err = s.loadPrestige(ctx, fc)
	case cascade.FamilyReticle:
		err = s.loadReticles(ctx, fc)
	default:
		return nil, fmt.Errorf("%w: %q", cascade.ErrUnknownFamily, family)
	}
	if err != nil {
		return nil, err
	}
	return fc, nil
}

func (s *CatalogService) loadCamos(ctx context.Context, fc *FamilyCatalog) error {
	var rows []models.WeaponCamo
	if err := s.DB.WithContext(ctx).
		Joins("JOIN camo_templates ON camo_templates.id = weapon_camos.camo_template_id").
		Where("camo_templates.gamemode = ?", fc.Mode).
		Preload("CamoTemplate").
		Order("weapon_camos.created_at ASC").
		Find(&rows).Error; err != nil {
		return fmt.Errorf("failed to load camos: %w", err)
	}

	weaponIDs := make([]string, 0, len(rows))
	for _, wc := range rows {
		t := wc.CamoTemplate
		if t == nil {
			continue
		}
		fc.Items = append(fc.Items, cascade.Item{
			ID:          wc.ID,
			ParentID:    wc.WeaponID,
			Name:        t.Name,
			Slug:        t.Slug,
			Detail:      firstNonEmpty(wc.Challenge, t.Challenge),
			Kind:        cascade.ParseKind(t.CamoKind),
			SortOrder:   t.SortOrder,
			UnlockCount: firstInt(t.UnlockCount, wc.UnlockCount),
		})
		weaponIDs = append(weaponIDs, wc.WeaponID)
	}
	parents, err := s.weaponParents(ctx, weaponIDs)
	fc.Parents = parents
	return err
}

// Prestige templates carry no game mode, so every mode sees the same chain.
func (s *CatalogService) loadPrestige(ctx context.Context, fc *FamilyCatalog) error {
	var rows []models.WeaponPrestigeCamo
	if err := s.DB.WithContext(ctx).
		Preload("PrestigeCamoTemplate").
		Order("weapon_prestige_camos.sort_order ASC").
		Find(&rows).Error; err != nil {
		return fmt.Errorf("failed to load prestige camos: %w", err)
	}

	weaponIDs := make([]string, 0, len(rows))
	for _, wpc := range rows {
		t := wpc.PrestigeCamoTemplate
		if t == nil {
			continue
		}
		name := t.Name
		if wpc.NameOverride != nil && *wpc.NameOverride != "" {
			name = *wpc.NameOverride
		}
		sortOrder := wpc.SortOrder
		if sortOrder == nil {
			sortOrder = t.SortOrder
		}
		fc.Items = append(fc.Items, cascade.Item{
			ID:           wpc.ID,
			ParentID:     wpc.WeaponID,
			Name:         name,
			Slug:         t.Slug,
			Detail:       firstNonEmpty(wpc.UnlockRequirementOverride, t.UnlockRequirement),
			PrestigeTier: strings.ToLower(t.Tier),
			SortOrder:    sortOrder,
		})
		weaponIDs = append(weaponIDs, wpc.WeaponID)
	}
	parents, err := s.weaponParents(ctx, weaponIDs)
	fc.Parents = parents
	return err
}

func (s *CatalogService) loadReticles(ctx context.Context, fc *FamilyCatalog) error {
	var rows []models.OpticReticle
	if err := s.DB.WithContext(ctx).
		Where("optic_reticles.gamemode = ?", fc.Mode).
		Preload("ReticleTemplate").
		Order("optic_reticles.unlock_order ASC").
		Order("optic_reticles.created_at ASC").
		Find(&rows).Error; err != nil {
		return fmt.Errorf("failed to load reticles: %w", err)
	}

	opticIDs := make([]string, 0, len(rows))
	for _, r := range rows {
		it := cascade.Item{
			ID:          r.ID,
			ParentID:    r.OpticID,
			UnlockOrder: r.UnlockOrder,
			UnlockCount: r.UnlockCountOverride,
			Detail:      firstNonEmpty(r.ChallengeOverride),
		}
		if t := r.ReticleTemplate; t != nil {
			if t.Name != nil {
				it.Name = *t.Name
			}
			it.Slug = t.Slug
			it.TemplateSortOrder = t.SortOrder
			it.UnlockCount = firstInt(r.UnlockCountOverride, t.UnlockCount)
			it.Detail = firstNonEmpty(r.ChallengeOverride, t.BaseChallenge)
		}
		fc.Items = append(fc.Items, it)
		opticIDs = append(opticIDs, r.OpticID)
	}

	var optics []models.Optic
	if len(opticIDs) > 0 {
		if err := s.DB.WithContext(ctx).
			Where("id IN ?", unique(opticIDs)).
			Order("slug DESC").
			Find(&optics).Error; err != nil {
			return fmt.Errorf("failed to load optics: %w", err)
		}
	}
	for _, o := range optics {
		fc.Parents = append(fc.Parents, Parent{ID: o.ID, Name: o.Name, Slug: o.Slug, Group: o.Range()})
	}
	return nil
}

// weaponParents loads weapons in release-season order, then by name.
func (s *CatalogService) weaponParents(ctx context.Context, ids []string) ([]Parent, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var weapons []models.Weapon
	if err := s.DB.WithContext(ctx).
		Where("id IN ?", unique(ids)).
		Order("display_name ASC").
		Find(&weapons).Error; err != nil {
		return nil, fmt.Errorf("failed to load weapons: %w", err)
	}
	sortWeapons(weapons)

	parents := make([]Parent, 0, len(weapons))
	for _, w := range weapons {
		parents = append(parents, Parent{ID: w.ID, Name: w.DisplayName, Slug: w.Slug, Group: w.ClassID, Season: w.ReleaseSeason})
	}
	return parents, nil
}

func sortWeapons(weapons []models.Weapon) {
	slices.SortStableFunc(weapons, func(a, b models.Weapon) int {
		if c := models.SeasonRank(a.ReleaseSeason) - models.SeasonRank(b.ReleaseSeason); c != 0 {
			return c
		}
		if c := strings.Compare(deref(a.ReleaseSeason), deref(b.ReleaseSeason)); c != 0 {
			return c
		}
		return strings.Compare(a.DisplayName, b.DisplayName)
	})
}

// LoadProgress returns the user's completion map for a family. An empty
// userID means no session: progress is empty.
func (s *CatalogService) LoadProgress(ctx context.Context, family cascade.Family, userID string) (map[string]bool, error) {
	progress := make(map[string]bool)
	if userID == "" {
		return progress, nil
	}
	type row struct {
		ItemID string
		Status bool
	}
	var rows []row
	q := s.DB.WithContext(ctx).Where("user_id = ?", userID)
	var err error
	switch family {
	case cascade.FamilyCamo:
		err = q.Model(&models.WeaponCamoProgress{}).Select("weapon_camo_id AS item_id, status").Scan(&rows).Error
	case cascade.FamilyPrestige:
		err = q.Model(&models.WeaponPrestigeProgress{}).Select("weapon_prestige_camo_id AS item_id, status").Scan(&rows).Error
	case cascade.FamilyReticle:
		err = q.Model(&models.OpticReticleProgress{}).Select("optic_reticle_id AS item_id, status").Scan(&rows).Error
	default:
		return nil, fmt.Errorf("%w: %q", cascade.ErrUnknownFamily, family)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load progress: %w", err)
	}
	for _, r := range rows {
		progress[r.ItemID] = r.Status
	}
	return progress, nil
}

// ClassView is a weapon class with its weapons grouped by release season.
type ClassView struct {
	models.WeaponClass
	Seasons []SeasonGroup `json:"seasons"`
}

type SeasonGroup struct {
	Season  string          `json:"season"`
	Weapons []models.Weapon `json:"weapons"`
}

// ListClasses returns every class in display order.
func (s *CatalogService) ListClasses(ctx context.Context) ([]ClassView, error) {
	var classes []models.WeaponClass
	if err := s.DB.WithContext(ctx).
		Order("sort_order ASC").
		Order("label ASC").
		Find(&classes).Error; err != nil {
		return nil, fmt.Errorf("failed to load weapon classes: %w", err)
	}
	var weapons []models.Weapon
	if err := s.DB.WithContext(ctx).Order("display_name ASC").Find(&weapons).Error; err != nil {
		return nil, fmt.Errorf("failed to load weapons: %w", err)
	}
	sortWeapons(weapons)

	byClass := make(map[string][]models.Weapon)
	for _, w := range weapons {
		byClass[w.ClassID] = append(byClass[w.ClassID], w)
	}

	out := make([]ClassView, 0, len(classes))
	for _, c := range classes {
		view := ClassView{WeaponClass: c, Seasons: []SeasonGroup{}}
		for _, w := range byClass[c.ID] {
			season := "Unreleased"
			if w.ReleaseSeason != nil {
				season = *w.ReleaseSeason
			}
			n := len(view.Seasons)
			if n > 0 && view.Seasons[n-1].Season == season {
				view.Seasons[n-1].Weapons = append(view.Seasons[n-1].Weapons, w)
				continue
			}
			view.Seasons = append(view.Seasons, SeasonGroup{Season: season, Weapons: []models.Weapon{w}})
		}
		out = append(out, view)
	}
	return out, nil
}

// CountWeapons is the denominator of the mastery totals.
func (s *CatalogService) CountWeapons(ctx context.Context) (int, error) {
	var n int64
	if err := s.DB.WithContext(ctx).Model(&models.Weapon{}).Count(&n).Error; err != nil {
		return 0, err
	}
	return int(n), nil
}

func firstNonEmpty(vals ...*string) string {
	for _, v := range vals {
		if v != nil && *v != "" {
			return *v
		}
	}
	return ""
}

func firstInt(vals ...*int) *int {
	for _, v := range vals {
		if v != nil {
			return v
		}
	}
	return nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func unique(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}
