// models/progress.go
package models

import "time"

// One row per (user, unlock item). Absence of a row means "not unlocked";
// un-checking writes Status=false and clears UnlockedAt instead of deleting.

type WeaponCamoProgress struct {
	UserID       string     `json:"user_id" gorm:"primaryKey"`
	WeaponCamoID string     `json:"weapon_camo_id" gorm:"primaryKey"`
	Status       bool       `json:"status" gorm:"not null"`
	UnlockedAt   *time.Time `json:"unlocked_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

func (WeaponCamoProgress) TableName() string { return "user_weapon_camo_progress" }

type WeaponPrestigeProgress struct {
	UserID               string     `json:"user_id" gorm:"primaryKey"`
	WeaponPrestigeCamoID string     `json:"weapon_prestige_camo_id" gorm:"primaryKey"`
	Status               bool       `json:"status" gorm:"not null"`
	UnlockedAt           *time.Time `json:"unlocked_at"`
	UpdatedAt            time.Time  `json:"updated_at"`
}

func (WeaponPrestigeProgress) TableName() string { return "user_weapon_prestige_progress" }

type OpticReticleProgress struct {
	UserID         string     `json:"user_id" gorm:"primaryKey"`
	OpticReticleID string     `json:"optic_reticle_id" gorm:"primaryKey"`
	Status         bool       `json:"status" gorm:"not null"`
	UnlockedAt     *time.Time `json:"unlocked_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

func (OpticReticleProgress) TableName() string { return "user_optic_reticle_progress" }
