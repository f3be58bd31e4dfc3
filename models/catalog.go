// models/catalog.go
package models

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Catalog rows are seeded by administrators and read-only to the tracker.

const (
	CamoKindBase    = "base"
	CamoKindSpecial = "special"
	CamoKindMastery = "mastery"
)

const (
	RangeShort  = "short"
	RangeMedium = "medium"
	RangeLong   = "long"
)

type Timestamps struct {
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

type WeaponClass struct {
	ID        string `json:"id" gorm:"primaryKey"`
	Slug      string `json:"slug" gorm:"uniqueIndex;not null"`
	Label     string `json:"label" gorm:"not null"`
	SortOrder *int   `json:"sort_order"`
	Timestamps
}

func (c *WeaponClass) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}

type Weapon struct {
	ID            string  `json:"id" gorm:"primaryKey"`
	ClassID       string  `json:"class_id" gorm:"index;not null"`
	DisplayName   string  `json:"display_name" gorm:"not null"`
	Slug          string  `json:"slug" gorm:"uniqueIndex;not null"`
	ReleaseSeason *string `json:"release_season"`
	Timestamps
}

func (w *Weapon) BeforeCreate(tx *gorm.DB) error {
	if w.ID == "" {
		w.ID = uuid.NewString()
	}
	return nil
}

type CamoTemplate struct {
	ID          string   `json:"id" gorm:"primaryKey"`
	Name        string   `json:"name" gorm:"not null"`
	Slug        string   `json:"slug" gorm:"uniqueIndex:idx_camo_template_slug_mode;not null"`
	CamoKind    string   `json:"camo_kind"` // base | special | mastery
	UnlockCount *int     `json:"unlock_count"`
	UnlockType  *string  `json:"unlock_type"`
	Challenge   *string  `json:"challenge"`
	SortOrder   *int     `json:"sort_order"`
	Gamemode    Gamemode `json:"gamemode" gorm:"uniqueIndex:idx_camo_template_slug_mode;type:varchar(4);not null"`
	Timestamps
}

func (t *CamoTemplate) BeforeCreate(tx *gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	return nil
}

type WeaponCamo struct {
	ID             string        `json:"id" gorm:"primaryKey"`
	WeaponID       string        `json:"weapon_id" gorm:"uniqueIndex:idx_weapon_camo;not null"`
	CamoTemplateID string        `json:"camo_template_id" gorm:"uniqueIndex:idx_weapon_camo;not null"`
	CamoTemplate   *CamoTemplate `json:"camo_template,omitempty" gorm:"foreignKey:CamoTemplateID"`
	Challenge      *string       `json:"challenge"`
	UnlockCount    *int          `json:"unlock_count"`
	UnlockType     *string       `json:"unlock_type"`
	Timestamps
}

func (c *WeaponCamo) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}

type PrestigeCamoTemplate struct {
	ID                string  `json:"id" gorm:"primaryKey"`
	Slug              string  `json:"slug" gorm:"uniqueIndex;not null"`
	Name              string  `json:"name" gorm:"not null"`
	Tier              string  `json:"tier" gorm:"not null"` // prestige1 | prestige2 | master100 | master150 | master200 | legend250
	UnlockRequirement *string `json:"unlock_requirement"`
	IsGlobal          bool    `json:"is_global"`
	SortOrder         *int    `json:"sort_order"`
	Timestamps
}

func (t *PrestigeCamoTemplate) BeforeCreate(tx *gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	return nil
}

type WeaponPrestigeCamo struct {
	ID                        string                `json:"id" gorm:"primaryKey"`
	WeaponID                  string                `json:"weapon_id" gorm:"uniqueIndex:idx_weapon_prestige_camo;not null"`
	PrestigeCamoTemplateID    string                `json:"prestige_camo_template_id" gorm:"uniqueIndex:idx_weapon_prestige_camo;not null"`
	PrestigeCamoTemplate      *PrestigeCamoTemplate `json:"prestige_camo_template,omitempty" gorm:"foreignKey:PrestigeCamoTemplateID"`
	NameOverride              *string               `json:"name_override"`
	UnlockRequirementOverride *string               `json:"unlock_requirement_override"`
	SortOrder                 *int                  `json:"sort_order"`
	Timestamps
}

func (c *WeaponPrestigeCamo) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}

type Optic struct {
	ID            string  `json:"id" gorm:"primaryKey"`
	Name          string  `json:"name" gorm:"not null"`
	Slug          string  `json:"slug" gorm:"uniqueIndex;not null"`
	Description   *string `json:"description"`
	RangeCategory *string `json:"range_category"` // short | medium | long
	Timestamps
}

func (o *Optic) BeforeCreate(tx *gorm.DB) error {
	if o.ID == "" {
		o.ID = uuid.NewString()
	}
	return nil
}

// Range falls back to medium, which is where uncategorised optics are listed.
func (o *Optic) Range() string {
	if o.RangeCategory == nil {
		return RangeMedium
	}
	switch r := strings.ToLower(*o.RangeCategory); r {
	case RangeShort, RangeMedium, RangeLong:
		return r
	}
	return RangeMedium
}

type ReticleTemplate struct {
	ID            string   `json:"id" gorm:"primaryKey"`
	Name          *string  `json:"name"`
	Slug          string   `json:"slug" gorm:"uniqueIndex:idx_reticle_template_slug_mode;not null"`
	Gamemode      Gamemode `json:"gamemode" gorm:"uniqueIndex:idx_reticle_template_slug_mode;type:varchar(4);not null"`
	Flag          *string  `json:"flag"`
	BaseChallenge *string  `json:"base_challenge"`
	UnlockType    *string  `json:"unlock_type"`
	UnlockCount   *int     `json:"unlock_count"`
	SortOrder     *int     `json:"sort_order"`
	Timestamps
}

func (t *ReticleTemplate) BeforeCreate(tx *gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	return nil
}

type OpticReticle struct {
	ID                  string           `json:"id" gorm:"primaryKey"`
	OpticID             string           `json:"optic_id" gorm:"uniqueIndex:idx_optic_reticle;not null"`
	ReticleTemplateID   string           `json:"reticle_template_id" gorm:"uniqueIndex:idx_optic_reticle;not null"`
	ReticleTemplate     *ReticleTemplate `json:"reticle_template,omitempty" gorm:"foreignKey:ReticleTemplateID"`
	Gamemode            Gamemode         `json:"gamemode" gorm:"uniqueIndex:idx_optic_reticle;type:varchar(4);not null"`
	UnlockOrder         *int             `json:"unlock_order"`
	ChallengeOverride   *string          `json:"challenge_override"`
	UnlockTypeOverride  *string          `json:"unlock_type_override"`
	UnlockCountOverride *int             `json:"unlock_count_override"`
	Timestamps
}

func (r *OpticReticle) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return nil
}

var seasonPattern = regexp.MustCompile(`season\s*(\d+)`)

// SeasonRank orders weapons chronologically: launch first, then "Season N",
// and anything unrecognised last.
func SeasonRank(season *string) int {
	if season == nil {
		return 9999
	}
	lower := strings.ToLower(strings.TrimSpace(*season))
	if lower == "launch" {
		return 0
	}
	if m := seasonPattern.FindStringSubmatch(lower); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil && n > 0 {
			return n
		}
	}
	return 9999
}
