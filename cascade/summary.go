package cascade

// Completion counts checked items under one parent.
type Completion struct {
	Total    int  `json:"total"`
	Checked  int  `json:"checked"`
	Complete bool `json:"complete"`
}

func (b *Board) Completion() map[string]Completion {
	progress := b.Progress()
	out := make(map[string]Completion, len(b.Catalog.parents))
	for _, parent := range b.Catalog.Parents() {
		var c Completion
		for _, it := range b.Catalog.Siblings(parent) {
			c.Total++
			if progress[it.ID] {
				c.Checked++
			}
		}
		c.Complete = c.Total > 0 && c.Checked == c.Total
		out[parent] = c
	}
	return out
}

// HighestMastery returns, per weapon, the best mastery tier the user has
// checked. Weapons with none are omitted.
func (b *Board) HighestMastery() map[string]MasteryTier {
	out := make(map[string]MasteryTier)
	if b.Family() != FamilyCamo {
		return out
	}
	progress := b.Progress()
	for _, parent := range b.Catalog.Parents() {
		for _, it := range b.Catalog.Siblings(parent) {
			if it.Kind != KindMastery || !progress[it.ID] {
				continue
			}
			if it.Mastery > out[parent] {
				out[parent] = it.Mastery
			}
		}
	}
	return out
}

// MasteryCounts tallies weapons per mastery tier. A weapon at a tier also
// counts toward every lower tier.
type MasteryCounts struct {
	Gold         int `json:"gold"`
	Bloodstone   int `json:"bloodstone"`
	Doomsteel    int `json:"doomsteel"`
	TotalWeapons int `json:"total_weapons"`
}

func (b *Board) MasteryCounts(totalWeapons int) MasteryCounts {
	counts := MasteryCounts{TotalWeapons: max(totalWeapons, 1)}
	for _, tier := range b.HighestMastery() {
		if tier >= TierGold {
			counts.Gold++
		}
		if tier >= TierBloodstone {
			counts.Bloodstone++
		}
		if tier >= TierDoomsteel {
			counts.Doomsteel++
		}
	}
	return counts
}
