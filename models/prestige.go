// models/prestige.go
package models

import (
	"fmt"
	"strings"
)

const (
	TierPrestige1 = "prestige1"
	TierPrestige2 = "prestige2"
	TierMaster100 = "master100"
	TierMaster150 = "master150"
	TierMaster200 = "master200"
	TierLegend250 = "legend250"
)

var prestigeTierLabels = map[string]string{
	TierPrestige1: "Prestige 1",
	TierPrestige2: "Prestige 2",
	TierMaster100: "Prestige Master Levels",
	TierMaster150: "Prestige Master Levels",
	TierMaster200: "Prestige Master Levels",
	TierLegend250: "Prestige Legend",
}

// PrestigeTierLabel groups prestige camo tiers for display. Unknown tiers are
// shown with dashes turned into spaces.
func PrestigeTierLabel(tier string) string {
	tier = strings.ToLower(tier)
	if label, ok := prestigeTierLabels[tier]; ok {
		return label
	}
	if tier == "" {
		return "other"
	}
	return strings.ReplaceAll(tier, "-", " ")
}

// PrestigeBadge is the visual for a profile's prestige.
type PrestigeBadge struct {
	Label  string `json:"label"`
	Asset  string `json:"asset,omitempty"` // object key under prestige/
	Master bool   `json:"master"`
}

func BadgeForPrestige(prestige *int) PrestigeBadge {
	if prestige != nil && *prestige >= MasterPrestige {
		return PrestigeBadge{Label: "Prestige Master", Asset: "prestige/prestigemaster.png", Master: true}
	}
	if prestige == nil {
		return PrestigeBadge{Label: "Prestige not set"}
	}
	p := min(MaxPrestige, max(0, *prestige))
	badge := PrestigeBadge{Label: fmt.Sprintf("Prestige %d", p)}
	if p > 0 {
		badge.Asset = fmt.Sprintf("prestige/prestige%d.png", p)
	}
	return badge
}
