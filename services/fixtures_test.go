package services

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"camo-tracker/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent), TranslateError: true})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, models.AutoMigrate(db))
	return db
}

func ptr[T any](v T) *T { return &v }

// testCatalog has two weapons, a full mp camo chain, one zm camo, the four
// global prestige tiers and one optic with three reticles.
func testCatalog() *CatalogDocument {
	return &CatalogDocument{
		Classes: []ClassSeed{{Slug: "assault", Label: "Assault Rifles", SortOrder: ptr(1)}},
		Weapons: []WeaponSeed{
			{Slug: "ak", DisplayName: "AK-74", Class: "assault", ReleaseSeason: ptr("Season 1")},
			{Slug: "m4", DisplayName: "M4", Class: "assault", ReleaseSeason: ptr("Launch")},
		},
		CamoTemplates: []CamoTemplateSeed{
			{Slug: "granite", Name: "Granite", Kind: "base", SortOrder: ptr(1), UnlockCount: ptr(10), Weapons: []string{AllWeapons}},
			{Slug: "woodland", Name: "Woodland", Kind: "base", SortOrder: ptr(2), UnlockCount: ptr(20), Weapons: []string{AllWeapons},
				Overrides: map[string]CamoOverride{"ak": {Challenge: ptr("Get 20 headshots with the AK")}}},
			{Slug: "savanna", Name: "Savanna", Kind: "base", SortOrder: ptr(3), UnlockCount: ptr(30), Weapons: []string{AllWeapons}},
			{Slug: "rainbow", Name: "Rainbow", Kind: "special", SortOrder: ptr(10), Weapons: []string{AllWeapons}},
			{Slug: "shattered-gold", Name: "Shattered Gold", Kind: "mastery", SortOrder: ptr(20), Weapons: []string{AllWeapons}},
			{Slug: "arclight", Name: "Arclight", Kind: "mastery", SortOrder: ptr(21), Weapons: []string{AllWeapons}},
			{Slug: "tempest", Name: "Tempest", Kind: "mastery", SortOrder: ptr(22), Weapons: []string{AllWeapons}},
			{Slug: "granite", Name: "Granite", Gamemode: "zm", Kind: "base", SortOrder: ptr(1), Weapons: []string{"ak"}},
		},
		PrestigeTemplates: []PrestigeSeed{
			{Slug: "p1", Name: "Prestige 1", Tier: "prestige1", IsGlobal: true, SortOrder: ptr(1)},
			{Slug: "p2", Name: "Prestige 2", Tier: "prestige2", IsGlobal: true, SortOrder: ptr(2)},
			{Slug: "m100", Name: "Master 100", Tier: "master100", IsGlobal: true, SortOrder: ptr(3)},
			{Slug: "l250", Name: "Legend", Tier: "legend250", IsGlobal: true, SortOrder: ptr(4)},
		},
		Optics: []OpticSeed{{Slug: "red-dot", Name: "Red Dot", RangeCategory: ptr("short")}},
		ReticleTemplates: []ReticleTemplateSeed{
			{Slug: "dot", Name: ptr("Dot"), SortOrder: ptr(1), Optics: []OpticReticleSeed{{Optic: "red-dot", UnlockOrder: ptr(1)}}},
			{Slug: "cross", Name: ptr("Cross"), SortOrder: ptr(2), Optics: []OpticReticleSeed{{Optic: "red-dot", UnlockOrder: ptr(2)}}},
			{Slug: "ring", Name: ptr("Ring"), SortOrder: ptr(3), Optics: []OpticReticleSeed{{Optic: "red-dot", UnlockOrder: ptr(3)}}},
		},
	}
}

func seedTestCatalog(t *testing.T, db *gorm.DB) {
	t.Helper()
	_, err := NewCatalogSeeder(db).Seed(context.Background(), testCatalog())
	require.NoError(t, err)
}

func camoID(t *testing.T, db *gorm.DB, weapon, template string, mode models.Gamemode) string {
	t.Helper()
	var id string
	err := db.Raw(`SELECT weapon_camos.id FROM weapon_camos
		JOIN weapons ON weapons.id = weapon_camos.weapon_id
		JOIN camo_templates ON camo_templates.id = weapon_camos.camo_template_id
		WHERE weapons.slug = ? AND camo_templates.slug = ? AND camo_templates.gamemode = ?`,
		weapon, template, mode).Scan(&id).Error
	require.NoError(t, err)
	require.NotEmpty(t, id)
	return id
}

func prestigeID(t *testing.T, db *gorm.DB, weapon, template string) string {
	t.Helper()
	var id string
	err := db.Raw(`SELECT weapon_prestige_camos.id FROM weapon_prestige_camos
		JOIN weapons ON weapons.id = weapon_prestige_camos.weapon_id
		JOIN prestige_camo_templates ON prestige_camo_templates.id = weapon_prestige_camos.prestige_camo_template_id
		WHERE weapons.slug = ? AND prestige_camo_templates.slug = ?`, weapon, template).Scan(&id).Error
	require.NoError(t, err)
	require.NotEmpty(t, id)
	return id
}

func reticleID(t *testing.T, db *gorm.DB, template string) string {
	t.Helper()
	var id string
	err := db.Raw(`SELECT optic_reticles.id FROM optic_reticles
		JOIN reticle_templates ON reticle_templates.id = optic_reticles.reticle_template_id
		WHERE reticle_templates.slug = ?`, template).Scan(&id).Error
	require.NoError(t, err)
	require.NotEmpty(t, id)
	return id
}

type auditEvent struct {
	userID, level, message string
	context                map[string]any
}

type recordingAuditor struct {
	mu     sync.Mutex
	events []auditEvent
}

func (a *recordingAuditor) Emit(userID, level, message string, context map[string]any) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.events = append(a.events, auditEvent{userID, level, message, context})
}

func (a *recordingAuditor) messages() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]string, len(a.events))
	for i, e := range a.events {
		out[i] = e.message
	}
	return out
}
