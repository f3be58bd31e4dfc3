package cascade

import (
	"cmp"
	"slices"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Missing sort keys sort last.
const unsorted = 9999

func orderOf(v *int, fallback int) int {
	if v == nil {
		return fallback
	}
	return *v
}

type comparer func(a, b Item) int

// byName builds a name comparison with its own collator; collators are not
// safe for concurrent use.
func byName() comparer {
	col := collate.New(language.English)
	return func(a, b Item) int {
		if c := col.CompareString(a.label(), b.label()); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	}
}

// displayOrder is the sibling order per family. Prefix cascades for prestige
// and reticles run over exactly this order.
func displayOrder(f Family) comparer {
	name := byName()
	switch f {
	case FamilyReticle:
		return func(a, b Item) int {
			if c := cmp.Compare(reticleRank(a), reticleRank(b)); c != 0 {
				return c
			}
			if c := cmp.Compare(orderOf(a.TemplateSortOrder, unsorted), orderOf(b.TemplateSortOrder, unsorted)); c != 0 {
				return c
			}
			return name(a, b)
		}
	default:
		return func(a, b Item) int {
			if c := cmp.Compare(orderOf(a.SortOrder, unsorted), orderOf(b.SortOrder, unsorted)); c != 0 {
				return c
			}
			return name(a, b)
		}
	}
}

func reticleRank(it Item) int {
	if it.UnlockOrder != nil {
		return *it.UnlockOrder
	}
	return orderOf(it.TemplateSortOrder, unsorted)
}

// baseOrder ranks base camos: sort order, then unlock count, then name.
func baseOrder() comparer {
	name := byName()
	return func(a, b Item) int {
		if c := cmp.Compare(orderOf(a.SortOrder, unsorted), orderOf(b.SortOrder, unsorted)); c != 0 {
			return c
		}
		if c := cmp.Compare(orderOf(a.UnlockCount, 0), orderOf(b.UnlockCount, 0)); c != 0 {
			return c
		}
		return name(a, b)
	}
}

func sorted(items []Item, cmpFn comparer) []Item {
	out := slices.Clone(items)
	slices.SortStableFunc(out, cmpFn)
	return out
}
