package cascade

import (
	"fmt"
	"strings"
)

// Family is one of the three unlock systems the tracker follows.
type Family string

const (
	FamilyCamo     Family = "camos"
	FamilyPrestige Family = "prestige"
	FamilyReticle  Family = "reticles"
)

func ParseFamily(s string) (Family, error) {
	switch f := Family(strings.ToLower(strings.TrimSpace(s))); f {
	case FamilyCamo, FamilyPrestige, FamilyReticle:
		return f, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFamily, s)
}

func (f Family) auditMessage() string {
	switch f {
	case FamilyPrestige:
		return "Prestige camo status updated"
	case FamilyReticle:
		return "Reticle status updated"
	}
	return "Camo status updated"
}

func (f Family) auditIDsKey() string {
	switch f {
	case FamilyPrestige:
		return "weapon_prestige_camo_ids"
	case FamilyReticle:
		return "optic_reticle_ids"
	}
	return "weapon_camo_ids"
}

// Kind classifies camos. Prestige and reticle items are KindOther.
type Kind string

const (
	KindBase    Kind = "base"
	KindSpecial Kind = "special"
	KindMastery Kind = "mastery"
	KindOther   Kind = "other"
)

func ParseKind(s string) Kind {
	switch k := Kind(strings.ToLower(strings.TrimSpace(s))); k {
	case KindBase, KindSpecial, KindMastery:
		return k
	}
	return KindOther
}

// MasteryTier ranks mastery camos. TierNone marks a mastery camo whose name
// matched no keyword; it never takes part in mastery-to-mastery cascades.
type MasteryTier int

const (
	TierNone MasteryTier = iota
	TierGold
	TierBloodstone
	TierDoomsteel
)

var tierNames = map[MasteryTier]string{
	TierGold:       "gold",
	TierBloodstone: "bloodstone",
	TierDoomsteel:  "doomsteel",
}

func (t MasteryTier) String() string {
	if name, ok := tierNames[t]; ok {
		return name
	}
	return ""
}

// Item is one checkable unlock with its template data already flattened.
type Item struct {
	ID       string
	ParentID string // weapon or optic
	Name     string
	Slug     string
	Detail   string // challenge or unlock requirement text

	Kind         Kind
	PrestigeTier string

	// SortOrder is the effective sort order (item override, then template).
	SortOrder         *int
	TemplateSortOrder *int
	UnlockCount       *int
	UnlockOrder       *int

	// Mastery is filled in by NewCatalog from the rule table.
	Mastery MasteryTier
}

func (it Item) label() string {
	if it.Name != "" {
		return it.Name
	}
	if it.Slug != "" {
		return it.Slug
	}
	return it.ID
}
