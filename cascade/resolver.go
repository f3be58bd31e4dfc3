package cascade

import "fmt"

// Resolve returns the ids that change together when targetID is set to
// checked. Un-checking only ever touches the target. The result is ordered
// (prerequisites first) and free of duplicates.
func Resolve(c *Catalog, targetID string, checked bool, rules Rules) ([]string, error) {
	target, ok := c.Item(targetID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrStaleReference, targetID)
	}
	if !checked {
		return []string{targetID}, nil
	}

	siblings := c.Siblings(target.ParentID)
	var affected []Item
	switch c.Family {
	case FamilyCamo:
		affected = resolveCamo(target, siblings)
	case FamilyPrestige:
		if rules.isLegend(target.PrestigeTier) {
			affected = siblings
		} else {
			affected = prefixThrough(siblings, targetID)
		}
	case FamilyReticle:
		affected = prefixThrough(siblings, targetID)
	}
	return uniqueIDs(affected, targetID), nil
}

func resolveCamo(target Item, siblings []Item) []Item {
	switch target.Kind {
	case KindBase:
		return prefixThrough(sorted(ofKind(siblings, KindBase), baseOrder()), target.ID)
	case KindSpecial:
		return sorted(ofKind(siblings, KindBase), baseOrder())
	case KindMastery:
		out := sorted(ofKind(siblings, KindBase), baseOrder())
		out = append(out, ofKind(siblings, KindSpecial)...)
		if target.Mastery == TierNone {
			return out
		}
		for _, it := range ofKind(siblings, KindMastery) {
			if it.Mastery != TierNone && it.Mastery <= target.Mastery {
				out = append(out, it)
			}
		}
		return out
	}
	return nil
}

func ofKind(items []Item, kind Kind) []Item {
	var out []Item
	for _, it := range items {
		if it.Kind == kind {
			out = append(out, it)
		}
	}
	return out
}

// prefixThrough returns items up to and including id. When id is missing
// from the list nothing besides the target is affected.
func prefixThrough(items []Item, id string) []Item {
	for i, it := range items {
		if it.ID == id {
			return items[:i+1]
		}
	}
	return nil
}

// uniqueIDs keeps first occurrences and always includes the target.
func uniqueIDs(items []Item, targetID string) []string {
	seen := make(map[string]bool, len(items)+1)
	out := make([]string, 0, len(items)+1)
	for _, it := range items {
		if !seen[it.ID] {
			seen[it.ID] = true
			out = append(out, it.ID)
		}
	}
	if !seen[targetID] {
		out = append(out, targetID)
	}
	return out
}
