// services/tracker_view.go
package services

import (
	"camo-tracker/cascade"
	"camo-tracker/models"
)

type BoardView struct {
	Family         cascade.Family  `json:"family"`
	Mode           models.Gamemode `json:"gamemode"`
	ModeLabel      string          `json:"gamemode_label"`
	SignInRequired bool            `json:"sign_in_required"`
	Parents        []ParentView    `json:"parents"`
	RangeGroups    []RangeGroup    `json:"range_groups,omitempty"`
	Mastery        *MasteryView    `json:"mastery,omitempty"`
}

type ParentView struct {
	Parent
	Completion  cascade.Completion `json:"completion"`
	MasteryTier string             `json:"mastery_tier,omitempty"`
	Sections    []SectionView      `json:"sections"`
}

type SectionView struct {
	Key   string     `json:"key"`
	Label string     `json:"label"`
	Items []ItemView `json:"items"`
}

type ItemView struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Detail  string `json:"detail,omitempty"`
	Kind    string `json:"kind,omitempty"`
	Tier    string `json:"tier,omitempty"`
	Checked bool   `json:"checked"`
	Saving  bool   `json:"saving"`
}

// RangeGroup lists optic ids of one range category, in board order.
type RangeGroup struct {
	Range    string   `json:"range"`
	Label    string   `json:"label"`
	OpticIDs []string `json:"optic_ids"`
}

var rangeLabels = []struct{ key, label string }{
	{models.RangeShort, "Short Range"},
	{models.RangeMedium, "Medium Range"},
	{models.RangeLong, "Long Range"},
}

type MasteryBadge struct {
	Label string `json:"label"`
	Color string `json:"color"`
}

type MasteryView struct {
	Counts cascade.MasteryCounts   `json:"counts"`
	Badges map[string]MasteryBadge `json:"badges"`
}

var defaultMasteryBadges = map[cascade.MasteryTier]MasteryBadge{
	cascade.TierGold:       {Label: "Shattered Gold", Color: "#D3AF42"},
	cascade.TierBloodstone: {Label: "Arclight", Color: "#C2C2C2"},
	cascade.TierDoomsteel:  {Label: "Tempest", Color: "#3271B5"},
}

var masteryBadgesByMode = map[models.Gamemode]map[cascade.MasteryTier]MasteryBadge{
	models.GamemodeZombies: {
		cascade.TierGold:       {Label: "Golden Dragon", Color: "#C7922F"},
		cascade.TierBloodstone: {Label: "Bloodstone", Color: "#C20047"},
		cascade.TierDoomsteel:  {Label: "Doomsteel", Color: "#32CB9D"},
	},
}

// MasteryBadges returns the tier badge set used in a game mode.
func MasteryBadges(mode models.Gamemode) map[string]MasteryBadge {
	set, ok := masteryBadgesByMode[mode]
	if !ok {
		set = defaultMasteryBadges
	}
	out := make(map[string]MasteryBadge, len(set))
	for tier, badge := range set {
		out[tier.String()] = badge
	}
	return out
}

var camoSections = []struct {
	kind  cascade.Kind
	label string
}{
	{cascade.KindMastery, "Mastery Camos"},
	{cascade.KindSpecial, "Special Camos"},
	{cascade.KindBase, "Base Camos"},
	{cascade.KindOther, "Other Camos"},
}

func renderBoard(lb *loadedBoard) *BoardView {
	b := lb.board
	progress := b.Progress()
	completion := b.Completion()
	highest := b.HighestMastery()

	view := &BoardView{
		Family:         b.Family(),
		Mode:           lb.catalog.Mode,
		ModeLabel:      lb.catalog.Mode.Label(),
		SignInRequired: b.SignInRequired(),
		Parents:        make([]ParentView, 0, len(lb.catalog.Parents)),
	}
	for _, p := range lb.catalog.Parents {
		items := b.Catalog.Siblings(p.ID)
		if len(items) == 0 {
			continue
		}
		pv := ParentView{Parent: p, Completion: completion[p.ID], MasteryTier: highest[p.ID].String()}
		switch b.Family() {
		case cascade.FamilyCamo:
			pv.Sections = camoSectionViews(b, items, progress)
		case cascade.FamilyPrestige:
			pv.Sections = prestigeSectionViews(b, items, progress)
		default:
			pv.Sections = []SectionView{{Key: "reticles", Label: "Reticles", Items: itemViews(b, items, progress)}}
		}
		view.Parents = append(view.Parents, pv)
	}
	if b.Family() == cascade.FamilyReticle {
		view.RangeGroups = rangeGroups(view.Parents)
	}
	if b.Family() == cascade.FamilyCamo {
		view.Mastery = &MasteryView{
			Counts: b.MasteryCounts(lb.totalWeapons),
			Badges: MasteryBadges(lb.catalog.Mode),
		}
	}
	return view
}

func rangeGroups(parents []ParentView) []RangeGroup {
	var out []RangeGroup
	for _, r := range rangeLabels {
		g := RangeGroup{Range: r.key, Label: r.label}
		for _, p := range parents {
			if p.Group == r.key {
				g.OpticIDs = append(g.OpticIDs, p.ID)
			}
		}
		if len(g.OpticIDs) > 0 {
			out = append(out, g)
		}
	}
	return out
}

func camoSectionViews(b *cascade.Board, items []cascade.Item, progress map[string]bool) []SectionView {
	var out []SectionView
	for _, sec := range camoSections {
		var group []cascade.Item
		for _, it := range items {
			if it.Kind == sec.kind {
				group = append(group, it)
			}
		}
		if len(group) > 0 {
			out = append(out, SectionView{Key: string(sec.kind), Label: sec.label, Items: itemViews(b, group, progress)})
		}
	}
	return out
}

// Prestige items are grouped by tier label, groups in first-appearance order.
func prestigeSectionViews(b *cascade.Board, items []cascade.Item, progress map[string]bool) []SectionView {
	var out []SectionView
	index := make(map[string]int)
	for _, it := range items {
		label := models.PrestigeTierLabel(it.PrestigeTier)
		i, ok := index[label]
		if !ok {
			i = len(out)
			index[label] = i
			out = append(out, SectionView{Key: it.PrestigeTier, Label: label})
		}
		out[i].Items = append(out[i].Items, itemViews(b, []cascade.Item{it}, progress)...)
	}
	return out
}

func itemViews(b *cascade.Board, items []cascade.Item, progress map[string]bool) []ItemView {
	out := make([]ItemView, 0, len(items))
	for _, it := range items {
		v := ItemView{
			ID:      it.ID,
			Name:    it.Name,
			Detail:  it.Detail,
			Checked: progress[it.ID],
			Saving:  b.Saving(it.ID),
		}
		if b.Family() == cascade.FamilyCamo {
			v.Kind = string(it.Kind)
			v.Tier = it.Mastery.String()
		} else if b.Family() == cascade.FamilyPrestige {
			v.Tier = it.PrestigeTier
		}
		out = append(out, v)
	}
	return out
}
