// models/profile.go
package models

import (
	"fmt"
	"strings"
	"time"
)

// MasterPrestige is stored in Profile.Prestige for the terminal prestige state.
const MasterPrestige = 11

const MaxPrestige = 10

// Profile is keyed by the auth provider's user id. Created at signup and
// edited through the account settings form.
type Profile struct {
	ID           string    `json:"id" gorm:"primaryKey"`
	Username     *string   `json:"username" gorm:"uniqueIndex"`
	DisplayName  *string   `json:"display_name"`
	Email        string    `json:"email,omitempty" gorm:"index"`
	AccountLevel *int      `json:"account_level"`
	Prestige     *int      `json:"prestige"`
	ActivisionID *string   `json:"activision_id"` // name#1234567
	CreatedAt    time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt    time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// SplitActivisionID returns the name and tag parts of a stored identifier.
func SplitActivisionID(id *string) (name, tag string) {
	if id == nil {
		return "", ""
	}
	name, tag, _ = strings.Cut(*id, "#")
	return name, tag
}

func JoinActivisionID(name, tag string) *string {
	if name == "" || tag == "" {
		return nil
	}
	id := fmt.Sprintf("%s#%s", name, tag)
	return &id
}
