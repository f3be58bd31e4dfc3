package cascade

import "strings"

// TierKeywords maps a mastery tier to the words that identify it in a
// template's slug or name.
type TierKeywords struct {
	Tier     MasteryTier
	Keywords []string
}

// Rules is the declarative table the resolver runs against.
type Rules struct {
	// Mastery is matched in order; list higher tiers first so that a name
	// carrying several keywords resolves to the highest one.
	Mastery []TierKeywords
	// LegendPrefix marks prestige tiers that require the whole chain.
	LegendPrefix string
}

// DefaultRules reproduces the keyword table used by the game's naming.
// Matching free text is fragile: a renamed mastery camo silently becomes tier-less.
var DefaultRules = Rules{
	Mastery: []TierKeywords{
		{Tier: TierDoomsteel, Keywords: []string{"doomsteel", "tempest"}},
		{Tier: TierBloodstone, Keywords: []string{"bloodstone", "arclight"}},
		{Tier: TierGold, Keywords: []string{"gold", "golden", "dragon", "shattered"}},
	},
	LegendPrefix: "legend",
}

// MasteryTierOf classifies a camo. Only mastery-kind camos get a tier.
func (r Rules) MasteryTierOf(kind Kind, slug, name string) MasteryTier {
	if kind != KindMastery {
		return TierNone
	}
	text := strings.ToLower(slug + " " + name)
	for _, tk := range r.Mastery {
		for _, k := range tk.Keywords {
			if strings.Contains(text, k) {
				return tk.Tier
			}
		}
	}
	return TierNone
}

func (r Rules) isLegend(tier string) bool {
	return r.LegendPrefix != "" && strings.Contains(strings.ToLower(tier), r.LegendPrefix)
}
