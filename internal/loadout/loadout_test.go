package loadout_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FraserHum/dota-chop-shop-sub001/internal/catalog"
	"github.com/FraserHum/dota-chop-shop-sub001/internal/loadout"
	"github.com/FraserHum/dota-chop-shop-sub001/internal/testutil"
)

func lookup(t *testing.T, c *catalog.Catalog, names ...string) []*catalog.Item {
	t.Helper()
	out := make([]*catalog.Item, 0, len(names))
	for _, n := range names {
		it, ok := c.Lookup(n)
		require.True(t, ok, n)
		out = append(out, it)
	}
	return out
}

func TestBuild_Totals(t *testing.T) {
	c := testutil.Catalog()
	b := loadout.NewBuilder(testutil.Valuation())

	l := b.Build(lookup(t, c, "power_treads", "headdress"), lookup(t, c, "blades_of_attack"))

	assert.Equal(t, 1825, l.Cost)
	assert.Equal(t, 450, l.LeftoverValue)
	assert.Equal(t, 2275, l.InvestedCost)
	assert.Equal(t, 2, l.ItemCount(), "leftovers do not take item slots")

	wantStats := map[string]float64{
		"movement_speed": 45,
		"attack_speed":   25,
		"stat":           10,
		"health_regen":   2,
		"damage":         9,
	}
	assert.Equal(t, wantStats, l.Stats)

	wantValue := 45*11 + 25*22.5 + 10*100 + 2*140 + 9*50.0
	assert.InDelta(t, wantValue, l.StatValue, 1e-9)
	assert.InDelta(t, wantValue/2275, l.Efficiency, 1e-9)
}

func TestBuild_Empty(t *testing.T) {
	l := loadout.NewBuilder(testutil.Valuation()).Build(nil, nil)
	assert.Zero(t, l.InvestedCost)
	assert.Zero(t, l.Efficiency, "no division by zero")
	assert.Empty(t, l.Breakdown())
}

func TestBuild_CopiesInputs(t *testing.T) {
	c := testutil.Catalog()
	items := lookup(t, c, "boots", "gloves")
	l := loadout.NewBuilder(nil).Build(items, nil)

	items[0] = items[1]
	assert.Equal(t, []string{"boots", "gloves"}, l.Names())
}

func TestBreakdownAndKey(t *testing.T) {
	c := testutil.Catalog()
	b := loadout.NewBuilder(nil)

	l := b.Build(lookup(t, c, "mekansm", "boots"), lookup(t, c, "gloves"))
	assert.Equal(t, []string{"headdress", "chainmail", "boots", "gloves"}, l.Breakdown())
	assert.True(t, l.Has("mekansm"))
	assert.False(t, l.Has("headdress"))

	swapped := b.Build(lookup(t, c, "boots", "mekansm"), lookup(t, c, "gloves"))
	assert.Equal(t, l.Key(), swapped.Key())
}
