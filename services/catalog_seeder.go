// services/catalog_seeder.go
package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"camo-tracker/logger"
	"camo-tracker/models"

	"github.com/gosimple/slug"
	"gorm.io/gorm"
)

// AllWeapons in a template's weapon list attaches it to every weapon.
const AllWeapons = "*"

// CatalogDocument is the seed format. Entities are matched by slug (and game
// mode for templates); missing slugs are derived from names.
type CatalogDocument struct {
	Classes           []ClassSeed           `json:"classes"`
	Weapons           []WeaponSeed          `json:"weapons"`
	CamoTemplates     []CamoTemplateSeed    `json:"camo_templates"`
	PrestigeTemplates []PrestigeSeed        `json:"prestige_templates"`
	Optics            []OpticSeed           `json:"optics"`
	ReticleTemplates  []ReticleTemplateSeed `json:"reticle_templates"`
}

type ClassSeed struct {
	Slug      string `json:"slug"`
	Label     string `json:"label"`
	SortOrder *int   `json:"sort_order"`
}

type WeaponSeed struct {
	Slug          string  `json:"slug"`
	DisplayName   string  `json:"display_name"`
	Class         string  `json:"class"`
	ReleaseSeason *string `json:"release_season"`
}

type CamoOverride struct {
	Challenge   *string `json:"challenge"`
	UnlockCount *int    `json:"unlock_count"`
	UnlockType  *string `json:"unlock_type"`
}

type CamoTemplateSeed struct {
	Slug        string                  `json:"slug"`
	Name        string                  `json:"name"`
	Gamemode    string                  `json:"gamemode"`
	Kind        string                  `json:"camo_kind"`
	UnlockCount *int                    `json:"unlock_count"`
	UnlockType  *string                 `json:"unlock_type"`
	Challenge   *string                 `json:"challenge"`
	SortOrder   *int                    `json:"sort_order"`
	Weapons     []string                `json:"weapons"`
	Overrides   map[string]CamoOverride `json:"overrides"`
}

type PrestigeSeed struct {
	Slug              string   `json:"slug"`
	Name              string   `json:"name"`
	Tier              string   `json:"tier"`
	UnlockRequirement *string  `json:"unlock_requirement"`
	IsGlobal          bool     `json:"is_global"`
	SortOrder         *int     `json:"sort_order"`
	Weapons           []string `json:"weapons"`
}

type OpticSeed struct {
	Slug          string  `json:"slug"`
	Name          string  `json:"name"`
	Description   *string `json:"description"`
	RangeCategory *string `json:"range_category"`
}

type OpticReticleSeed struct {
	Optic       string  `json:"optic"`
	UnlockOrder *int    `json:"unlock_order"`
	Challenge   *string `json:"challenge"`
	UnlockType  *string `json:"unlock_type"`
	UnlockCount *int    `json:"unlock_count"`
}

type ReticleTemplateSeed struct {
	Slug          string             `json:"slug"`
	Name          *string            `json:"name"`
	Gamemode      string             `json:"gamemode"`
	Flag          *string            `json:"flag"`
	BaseChallenge *string            `json:"base_challenge"`
	UnlockType    *string            `json:"unlock_type"`
	UnlockCount   *int               `json:"unlock_count"`
	SortOrder     *int               `json:"sort_order"`
	Optics        []OpticReticleSeed `json:"optics"`
}

// SeedStats counts rows created or updated per table.
type SeedStats struct {
	Classes             int `json:"classes"`
	Weapons             int `json:"weapons"`
	CamoTemplates       int `json:"camo_templates"`
	WeaponCamos         int `json:"weapon_camos"`
	PrestigeTemplates   int `json:"prestige_templates"`
	WeaponPrestigeCamos int `json:"weapon_prestige_camos"`
	Optics              int `json:"optics"`
	ReticleTemplates    int `json:"reticle_templates"`
	OpticReticles       int `json:"optic_reticles"`
}

func ParseCatalogDocument(data []byte) (*CatalogDocument, error) {
	var doc CatalogDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("invalid catalog document: %w", err)
	}
	return &doc, nil
}

type CatalogSeeder struct {
	DB *gorm.DB
}

func NewCatalogSeeder(db *gorm.DB) *CatalogSeeder {
	return &CatalogSeeder{DB: db}
}

// Seed upserts the document in one transaction; any error rolls back the whole seed.
func (s *CatalogSeeder) Seed(ctx context.Context, doc *CatalogDocument) (*SeedStats, error) {
	stats := &SeedStats{}
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		run := &seedRun{
			tx:      tx,
			stats:   stats,
			classes: map[string]string{},
			weapons: map[string]string{},
			optics:  map[string]string{},
		}
		steps := []func(*CatalogDocument) error{
			run.seedClasses,
			run.seedWeapons,
			run.seedCamoTemplates,
			run.seedPrestigeTemplates,
			run.seedOptics,
			run.seedReticleTemplates,
		}
		for _, step := range steps {
			if err := step(doc); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	logger.Info().Interface("stats", stats).Msg("🌱 Catalog seeded")
	return stats, nil
}

// seedRun carries slug → id lookups between steps.
type seedRun struct {
	tx      *gorm.DB
	stats   *SeedStats
	classes map[string]string
	weapons map[string]string
	optics  map[string]string
}

func slugOr(s, name string) string {
	if s = strings.TrimSpace(s); s != "" {
		return s
	}
	return slug.Make(name)
}

func (r *seedRun) seedClasses(doc *CatalogDocument) error {
	for _, c := range doc.Classes {
		key := slugOr(c.Slug, c.Label)
		var row models.WeaponClass
		if err := r.tx.Where(models.WeaponClass{Slug: key}).
			Assign(models.WeaponClass{Label: c.Label, SortOrder: c.SortOrder}).
			FirstOrCreate(&row).Error; err != nil {
			return fmt.Errorf("class %q: %w", key, err)
		}
		r.classes[key] = row.ID
		r.stats.Classes++
	}
	return nil
}

func (r *seedRun) seedWeapons(doc *CatalogDocument) error {
	if err := r.loadExisting(&[]models.WeaponClass{}, r.classes); err != nil {
		return err
	}
	for _, w := range doc.Weapons {
		key := slugOr(w.Slug, w.DisplayName)
		classID, ok := r.classes[w.Class]
		if !ok {
			return fmt.Errorf("weapon %q: unknown class %q", key, w.Class)
		}
		var row models.Weapon
		if err := r.tx.Where(models.Weapon{Slug: key}).
			Assign(models.Weapon{DisplayName: w.DisplayName, ClassID: classID, ReleaseSeason: w.ReleaseSeason}).
			FirstOrCreate(&row).Error; err != nil {
			return fmt.Errorf("weapon %q: %w", key, err)
		}
		r.weapons[key] = row.ID
		r.stats.Weapons++
	}
	return r.loadExisting(&[]models.Weapon{}, r.weapons)
}

func (r *seedRun) seedOptics(doc *CatalogDocument) error {
	for _, o := range doc.Optics {
		key := slugOr(o.Slug, o.Name)
		var row models.Optic
		if err := r.tx.Where(models.Optic{Slug: key}).
			Assign(models.Optic{Name: o.Name, Description: o.Description, RangeCategory: o.RangeCategory}).
			FirstOrCreate(&row).Error; err != nil {
			return fmt.Errorf("optic %q: %w", key, err)
		}
		r.optics[key] = row.ID
		r.stats.Optics++
	}
	return r.loadExisting(&[]models.Optic{}, r.optics)
}

// loadExisting fills ids for rows seeded by earlier documents.
func (r *seedRun) loadExisting(dest any, into map[string]string) error {
	type slugRow struct {
		ID   string
		Slug string
	}
	var rows []slugRow
	if err := r.tx.Model(dest).Select("id, slug").Scan(&rows).Error; err != nil {
		return err
	}
	for _, row := range rows {
		if _, ok := into[row.Slug]; !ok {
			into[row.Slug] = row.ID
		}
	}
	return nil
}

// weaponIDs expands a weapon list; the wildcard selects every known weapon.
func (r *seedRun) weaponIDs(owner string, slugs []string) ([]string, error) {
	var ids []string
	for _, s := range slugs {
		if s == AllWeapons {
			all := make([]string, 0, len(r.weapons))
			for _, id := range r.weapons {
				all = append(all, id)
			}
			return all, nil
		}
		id, ok := r.weapons[s]
		if !ok {
			return nil, fmt.Errorf("%s: unknown weapon %q", owner, s)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func (r *seedRun) seedCamoTemplates(doc *CatalogDocument) error {
	slugByID := make(map[string]string, len(r.weapons))
	for s, id := range r.weapons {
		slugByID[id] = s
	}
	for _, t := range doc.CamoTemplates {
		key := slugOr(t.Slug, t.Name)
		mode, err := models.ParseGamemode(t.Gamemode)
		if err != nil {
			return fmt.Errorf("camo %q: %w", key, err)
		}
		var tmpl models.CamoTemplate
		if err := r.tx.Where(models.CamoTemplate{Slug: key, Gamemode: mode}).
			Assign(models.CamoTemplate{
				Name:        t.Name,
				CamoKind:    strings.ToLower(t.Kind),
				UnlockCount: t.UnlockCount,
				UnlockType:  t.UnlockType,
				Challenge:   t.Challenge,
				SortOrder:   t.SortOrder,
			}).
			FirstOrCreate(&tmpl).Error; err != nil {
			return fmt.Errorf("camo %q: %w", key, err)
		}
		r.stats.CamoTemplates++

		weaponIDs, err := r.weaponIDs("camo "+key, t.Weapons)
		if err != nil {
			return err
		}
		for _, weaponID := range weaponIDs {
			o := t.Overrides[slugByID[weaponID]]
			var wc models.WeaponCamo
			if err := r.tx.Where(models.WeaponCamo{WeaponID: weaponID, CamoTemplateID: tmpl.ID}).
				Assign(models.WeaponCamo{Challenge: o.Challenge, UnlockCount: o.UnlockCount, UnlockType: o.UnlockType}).
				FirstOrCreate(&wc).Error; err != nil {
				return fmt.Errorf("camo %q on weapon %s: %w", key, weaponID, err)
			}
			r.stats.WeaponCamos++
		}
	}
	return nil
}

func (r *seedRun) seedPrestigeTemplates(doc *CatalogDocument) error {
	for _, t := range doc.PrestigeTemplates {
		key := slugOr(t.Slug, t.Name)
		var tmpl models.PrestigeCamoTemplate
		if err := r.tx.Where(models.PrestigeCamoTemplate{Slug: key}).
			Assign(map[string]any{
				"name":               t.Name,
				"tier":               strings.ToLower(t.Tier),
				"unlock_requirement": t.UnlockRequirement,
				"is_global":          t.IsGlobal,
				"sort_order":         t.SortOrder,
			}).
			FirstOrCreate(&tmpl).Error; err != nil {
			return fmt.Errorf("prestige %q: %w", key, err)
		}
		r.stats.PrestigeTemplates++

		weapons := t.Weapons
		if t.IsGlobal {
			weapons = []string{AllWeapons}
		}
		weaponIDs, err := r.weaponIDs("prestige "+key, weapons)
		if err != nil {
			return err
		}
		for _, weaponID := range weaponIDs {
			var wpc models.WeaponPrestigeCamo
			if err := r.tx.Where(models.WeaponPrestigeCamo{WeaponID: weaponID, PrestigeCamoTemplateID: tmpl.ID}).
				FirstOrCreate(&wpc).Error; err != nil {
				return fmt.Errorf("prestige %q on weapon %s: %w", key, weaponID, err)
			}
			r.stats.WeaponPrestigeCamos++
		}
	}
	return nil
}

func (r *seedRun) seedReticleTemplates(doc *CatalogDocument) error {
	for _, t := range doc.ReticleTemplates {
		name := ""
		if t.Name != nil {
			name = *t.Name
		}
		key := slugOr(t.Slug, name)
		if key == "" {
			return errors.New("reticle template without slug or name")
		}
		mode, err := models.ParseGamemode(t.Gamemode)
		if err != nil {
			return fmt.Errorf("reticle %q: %w", key, err)
		}
		var tmpl models.ReticleTemplate
		if err := r.tx.Where(models.ReticleTemplate{Slug: key, Gamemode: mode}).
			Assign(models.ReticleTemplate{
				Name:          t.Name,
				Flag:          t.Flag,
				BaseChallenge: t.BaseChallenge,
				UnlockType:    t.UnlockType,
				UnlockCount:   t.UnlockCount,
				SortOrder:     t.SortOrder,
			}).
			FirstOrCreate(&tmpl).Error; err != nil {
			return fmt.Errorf("reticle %q: %w", key, err)
		}
		r.stats.ReticleTemplates++

		for _, o := range t.Optics {
			opticID, ok := r.optics[o.Optic]
			if !ok {
				return fmt.Errorf("reticle %q: unknown optic %q", key, o.Optic)
			}
			var link models.OpticReticle
			if err := r.tx.Where(models.OpticReticle{OpticID: opticID, ReticleTemplateID: tmpl.ID, Gamemode: mode}).
				Assign(models.OpticReticle{
					UnlockOrder:         o.UnlockOrder,
					ChallengeOverride:   o.Challenge,
					UnlockTypeOverride:  o.UnlockType,
					UnlockCountOverride: o.UnlockCount,
				}).
				FirstOrCreate(&link).Error; err != nil {
				return fmt.Errorf("reticle %q on optic %q: %w", key, o.Optic, err)
			}
			r.stats.OpticReticles++
		}
	}
	return nil
}
