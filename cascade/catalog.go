package cascade

// Catalog indexes one family's items for a single game mode.
type Catalog struct {
	Family Family

	byID     map[string]Item
	byParent map[string][]string
	parents  []string
}

// NewCatalog classifies mastery tiers and groups items under their parent in
// display order. Parents keep the order in which they first appear.
func NewCatalog(family Family, items []Item, rules Rules) *Catalog {
	c := &Catalog{
		Family:   family,
		byID:     make(map[string]Item, len(items)),
		byParent: make(map[string][]string),
	}
	grouped := make(map[string][]Item)
	for _, it := range items {
		if family == FamilyCamo {
			it.Mastery = rules.MasteryTierOf(it.Kind, it.Slug, it.Name)
		} else {
			it.Kind = KindOther
		}
		c.byID[it.ID] = it
		if _, seen := grouped[it.ParentID]; !seen {
			c.parents = append(c.parents, it.ParentID)
		}
		grouped[it.ParentID] = append(grouped[it.ParentID], it)
	}
	for parent, list := range grouped {
		ids := make([]string, 0, len(list))
		for _, it := range sorted(list, displayOrder(family)) {
			ids = append(ids, it.ID)
		}
		c.byParent[parent] = ids
	}
	return c
}

func (c *Catalog) Item(id string) (Item, bool) {
	it, ok := c.byID[id]
	return it, ok
}

// Siblings returns the parent's items in display order. Ids that have no
// catalog entry are skipped.
func (c *Catalog) Siblings(parentID string) []Item {
	ids := c.byParent[parentID]
	out := make([]Item, 0, len(ids))
	for _, id := range ids {
		if it, ok := c.byID[id]; ok {
			out = append(out, it)
		}
	}
	return out
}

func (c *Catalog) Parents() []string {
	return c.parents
}

func (c *Catalog) Len() int {
	return len(c.byID)
}
