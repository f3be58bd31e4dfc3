// models/migrate.go
package models

import "gorm.io/gorm"

// AutoMigrate creates or updates every table the tracker owns.
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&WeaponClass{},
		&Weapon{},
		&CamoTemplate{},
		&WeaponCamo{},
		&PrestigeCamoTemplate{},
		&WeaponPrestigeCamo{},
		&Optic{},
		&ReticleTemplate{},
		&OpticReticle{},
		&WeaponCamoProgress{},
		&WeaponPrestigeProgress{},
		&OpticReticleProgress{},
		&Profile{},
		&AuditLog{},
	); err != nil {
		return err
	}
	// Usernames are unique regardless of case; gorm tags cannot express an
	// expression index.
	return db.Exec("CREATE UNIQUE INDEX IF NOT EXISTS idx_profiles_username_lower ON profiles (LOWER(username))").Error
}
