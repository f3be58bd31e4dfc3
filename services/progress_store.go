// services/progress_store.go
package services

import (
	"context"
	"fmt"

	"camo-tracker/cascade"
	"camo-tracker/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ProgressStore writes cascade batches to the three progress tables.
type ProgressStore struct {
	DB *gorm.DB
}

func NewProgressStore(db *gorm.DB) *ProgressStore {
	return &ProgressStore{DB: db}
}

var progressUpdateColumns = []string{"status", "unlocked_at", "updated_at"}

// UpsertProgress writes the whole batch in one statement keyed on
// (user_id, item id).
func (s *ProgressStore) UpsertProgress(ctx context.Context, family cascade.Family, rows []cascade.ProgressRow) error {
	if len(rows) == 0 {
		return nil
	}
	db := s.DB.WithContext(ctx)
	switch family {
	case cascade.FamilyCamo:
		records := make([]models.WeaponCamoProgress, len(rows))
		for i, r := range rows {
			records[i] = models.WeaponCamoProgress{UserID: r.UserID, WeaponCamoID: r.ItemID, Status: r.Status, UnlockedAt: r.UnlockedAt, UpdatedAt: r.UpdatedAt}
		}
		return db.Clauses(onConflict("weapon_camo_id")).Create(&records).Error
	case cascade.FamilyPrestige:
		records := make([]models.WeaponPrestigeProgress, len(rows))
		for i, r := range rows {
			records[i] = models.WeaponPrestigeProgress{UserID: r.UserID, WeaponPrestigeCamoID: r.ItemID, Status: r.Status, UnlockedAt: r.UnlockedAt, UpdatedAt: r.UpdatedAt}
		}
		return db.Clauses(onConflict("weapon_prestige_camo_id")).Create(&records).Error
	case cascade.FamilyReticle:
		records := make([]models.OpticReticleProgress, len(rows))
		for i, r := range rows {
			records[i] = models.OpticReticleProgress{UserID: r.UserID, OpticReticleID: r.ItemID, Status: r.Status, UnlockedAt: r.UnlockedAt, UpdatedAt: r.UpdatedAt}
		}
		return db.Clauses(onConflict("optic_reticle_id")).Create(&records).Error
	}
	return fmt.Errorf("%w: %q", cascade.ErrUnknownFamily, family)
}

func onConflict(itemColumn string) clause.OnConflict {
	return clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: itemColumn}},
		DoUpdates: clause.AssignmentColumns(progressUpdateColumns),
	}
}
