package cascade

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intp(v int) *int { return &v }

func camo(id, name string, kind Kind, order int) Item {
	return Item{ID: id, ParentID: "w1", Name: name, Slug: id, Kind: kind, SortOrder: intp(order)}
}

// weaponCamos is base A,B,C, special S and the three mastery tiers.
func weaponCamos() []Item {
	return []Item{
		camo("A", "Alpha", KindBase, 1),
		camo("B", "Bravo", KindBase, 2),
		camo("C", "Charlie", KindBase, 3),
		camo("S", "Spectre", KindSpecial, 10),
		camo("G", "Shattered Gold", KindMastery, 20),
		camo("BL", "Arclight", KindMastery, 21),
		camo("D", "Tempest", KindMastery, 22),
	}
}

func TestResolve_BasePrefix(t *testing.T) {
	for n := 1; n <= 6; n++ {
		var items []Item
		var ids []string
		for i := 1; i <= n; i++ {
			id := fmt.Sprintf("base-%d", i)
			ids = append(ids, id)
			items = append(items, camo(id, fmt.Sprintf("Camo %02d", i), KindBase, i))
		}
		c := NewCatalog(FamilyCamo, items, DefaultRules)

		for k := 1; k <= n; k++ {
			got, err := Resolve(c, ids[k-1], true, DefaultRules)
			require.NoError(t, err)
			assert.ElementsMatch(t, ids[:k], got, "n=%d k=%d", n, k)

			got, err = Resolve(c, ids[k-1], false, DefaultRules)
			require.NoError(t, err)
			assert.Equal(t, []string{ids[k-1]}, got)
		}
	}
}

func TestResolve_BaseTieBreaks(t *testing.T) {
	items := []Item{
		{ID: "x", ParentID: "w1", Name: "Zulu", Kind: KindBase, SortOrder: intp(1), UnlockCount: intp(5)},
		{ID: "y", ParentID: "w1", Name: "Yankee", Kind: KindBase, SortOrder: intp(1), UnlockCount: intp(10)},
		{ID: "z", ParentID: "w1", Name: "Alpha", Kind: KindBase, SortOrder: intp(1), UnlockCount: intp(10)},
		{ID: "n", ParentID: "w1", Name: "Nil order", Kind: KindBase},
	}
	c := NewCatalog(FamilyCamo, items, DefaultRules)

	// sort order ties -> unlock count -> name; missing sort order goes last.
	got, err := Resolve(c, "y", true, DefaultRules)
	require.NoError(t, err)
	assert.Equal(t, []string{"x", "z", "y"}, got)

	got, err = Resolve(c, "n", true, DefaultRules)
	require.NoError(t, err)
	assert.Equal(t, []string{"x", "z", "y", "n"}, got)
}

func TestResolve_SpecialRequiresAllBase(t *testing.T) {
	c := NewCatalog(FamilyCamo, weaponCamos(), DefaultRules)

	got, err := Resolve(c, "S", true, DefaultRules)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"A", "B", "C", "S"}, got)
}

func TestResolve_MasteryTiers(t *testing.T) {
	c := NewCatalog(FamilyCamo, weaponCamos(), DefaultRules)

	cases := map[string][]string{
		"G":  {"A", "B", "C", "S", "G"},
		"BL": {"A", "B", "C", "S", "G", "BL"},
		"D":  {"A", "B", "C", "S", "G", "BL", "D"},
	}
	for target, want := range cases {
		t.Run(target, func(t *testing.T) {
			got, err := Resolve(c, target, true, DefaultRules)
			require.NoError(t, err)
			assert.ElementsMatch(t, want, got)
		})
	}
}

func TestResolve_TierlessMastery(t *testing.T) {
	items := append(weaponCamos(), camo("M", "Mystery Finish", KindMastery, 30))
	c := NewCatalog(FamilyCamo, items, DefaultRules)

	it, ok := c.Item("M")
	require.True(t, ok)
	assert.Equal(t, TierNone, it.Mastery)

	got, err := Resolve(c, "M", true, DefaultRules)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"A", "B", "C", "S", "M"}, got)

	// A tier-less mastery camo is never pulled in by a tiered one.
	got, err = Resolve(c, "D", true, DefaultRules)
	require.NoError(t, err)
	assert.NotContains(t, got, "M")
}

func TestResolve_OtherKindOnlyTarget(t *testing.T) {
	items := append(weaponCamos(), camo("O", "Event Camo", Kind("other"), 40))
	c := NewCatalog(FamilyCamo, items, DefaultRules)

	got, err := Resolve(c, "O", true, DefaultRules)
	require.NoError(t, err)
	assert.Equal(t, []string{"O"}, got)
}

func prestigeChain() []Item {
	return []Item{
		{ID: "P1", ParentID: "w1", Name: "Prestige 1", PrestigeTier: "prestige1", SortOrder: intp(1)},
		{ID: "P2", ParentID: "w1", Name: "Prestige 2", PrestigeTier: "prestige2", SortOrder: intp(2)},
		{ID: "M100", ParentID: "w1", Name: "Master 100", PrestigeTier: "master100", SortOrder: intp(3)},
		{ID: "L250", ParentID: "w1", Name: "Legend", PrestigeTier: "legend250", SortOrder: intp(4)},
	}
}

func TestResolve_PrestigeLegendTakesWholeChain(t *testing.T) {
	c := NewCatalog(FamilyPrestige, prestigeChain(), DefaultRules)

	got, err := Resolve(c, "L250", true, DefaultRules)
	require.NoError(t, err)
	assert.Equal(t, []string{"P1", "P2", "M100", "L250"}, got)
}

func TestResolve_PrestigePrefix(t *testing.T) {
	c := NewCatalog(FamilyPrestige, prestigeChain(), DefaultRules)

	got, err := Resolve(c, "P2", true, DefaultRules)
	require.NoError(t, err)
	assert.Equal(t, []string{"P1", "P2"}, got)

	got, err = Resolve(c, "M100", true, DefaultRules)
	require.NoError(t, err)
	assert.Equal(t, []string{"P1", "P2", "M100"}, got)

	got, err = Resolve(c, "L250", false, DefaultRules)
	require.NoError(t, err)
	assert.Equal(t, []string{"L250"}, got)
}

func TestResolve_PrestigeNameFallback(t *testing.T) {
	items := []Item{
		{ID: "b", ParentID: "w1", Name: "Bravo", PrestigeTier: "master150"},
		{ID: "a", ParentID: "w1", Name: "Alpha", PrestigeTier: "master100"},
	}
	c := NewCatalog(FamilyPrestige, items, DefaultRules)

	got, err := Resolve(c, "b", true, DefaultRules)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, got)
}

func TestResolve_ReticleSequence(t *testing.T) {
	items := []Item{
		{ID: "r3", ParentID: "o1", Name: "Ring", UnlockOrder: intp(3)},
		{ID: "r1", ParentID: "o1", Name: "Dot", UnlockOrder: intp(1)},
		{ID: "r2", ParentID: "o1", Name: "Cross", TemplateSortOrder: intp(2)},
		{ID: "x1", ParentID: "o2", Name: "Other optic", UnlockOrder: intp(1)},
	}
	c := NewCatalog(FamilyReticle, items, DefaultRules)

	got, err := Resolve(c, "r3", true, DefaultRules)
	require.NoError(t, err)
	assert.Equal(t, []string{"r1", "r2", "r3"}, got)

	got, err = Resolve(c, "r1", true, DefaultRules)
	require.NoError(t, err)
	assert.Equal(t, []string{"r1"}, got)
}

func TestResolve_StaleReference(t *testing.T) {
	c := NewCatalog(FamilyCamo, weaponCamos(), DefaultRules)

	_, err := Resolve(c, "missing", true, DefaultRules)
	assert.ErrorIs(t, err, ErrStaleReference)
}

func TestResolve_SkipsSiblingsWithoutCatalogEntry(t *testing.T) {
	c := NewCatalog(FamilyCamo, weaponCamos(), DefaultRules)
	c.byParent["w1"] = append([]string{"ghost"}, c.byParent["w1"]...)

	got, err := Resolve(c, "S", true, DefaultRules)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"A", "B", "C", "S"}, got)
}

func TestRules_MasteryTierOf(t *testing.T) {
	r := DefaultRules
	assert.Equal(t, TierGold, r.MasteryTierOf(KindMastery, "golden-dragon", "Golden Dragon"))
	assert.Equal(t, TierBloodstone, r.MasteryTierOf(KindMastery, "bloodstone", "Bloodstone"))
	assert.Equal(t, TierDoomsteel, r.MasteryTierOf(KindMastery, "tempest", "Tempest"))
	assert.Equal(t, TierNone, r.MasteryTierOf(KindBase, "gold", "Gold"))
	assert.Equal(t, TierNone, r.MasteryTierOf(KindMastery, "", "Unknown"))

	custom := Rules{Mastery: []TierKeywords{{Tier: TierGold, Keywords: []string{"aurum"}}}}
	assert.Equal(t, TierGold, custom.MasteryTierOf(KindMastery, "aurum", ""))
}

func TestParseFamily(t *testing.T) {
	f, err := ParseFamily("Reticles")
	require.NoError(t, err)
	assert.Equal(t, FamilyReticle, f)

	_, err = ParseFamily("stickers")
	assert.ErrorIs(t, err, ErrUnknownFamily)
}
