package build_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FraserHum/dota-chop-shop-sub001/internal/assembly"
	"github.com/FraserHum/dota-chop-shop-sub001/internal/build"
	"github.com/FraserHum/dota-chop-shop-sub001/internal/catalog"
	"github.com/FraserHum/dota-chop-shop-sub001/internal/loadout"
	"github.com/FraserHum/dota-chop-shop-sub001/internal/pool"
	"github.com/FraserHum/dota-chop-shop-sub001/internal/testutil"
)

func items(t *testing.T, c *catalog.Catalog, names ...string) []*catalog.Item {
	t.Helper()
	var out []*catalog.Item
	for _, n := range names {
		it, ok := c.Lookup(n)
		require.True(t, ok, n)
		out = append(out, it)
	}
	return out
}

func TestNewFlow_RebuildSameItem(t *testing.T) {
	c := testutil.Catalog()
	prev := loadout.NewBuilder(nil).Build(items(t, c, "mekansm"), nil)
	p := pool.Disassemble(prev, c)

	plan := assembly.Build(items(t, c, "mekansm"), p, c, 2000)
	f := build.NewFlow(c, prev.Breakdown(), plan, p.RecipeRecovery())

	assert.Equal(t, []string{"headdress", "chainmail"}, f.Reused)
	assert.Empty(t, f.Wasted)
	assert.Equal(t, 975, f.ReusedGold)
	assert.Equal(t, 800, f.RecoveredRecipeCost)
	assert.Equal(t, 800, f.TargetRecipeCost)
	assert.Zero(t, f.NetRecipeCost)
	assert.Zero(t, f.TotalGoldNeeded)
}

func TestNewFlow_PartialReuse(t *testing.T) {
	c := testutil.Catalog()
	prev := loadout.NewBuilder(nil).Build(items(t, c, "power_treads"), nil)
	p := pool.Disassemble(prev, c)

	plan := assembly.Build(items(t, c, "phase_boots"), p, c, 5000)
	f := build.NewFlow(c, prev.Breakdown(), plan, p.RecipeRecovery())

	assert.Equal(t, []string{"boots"}, f.Reused)
	assert.Equal(t, []string{"gloves", "belt_of_strength"}, f.Wasted)
	assert.Equal(t, []string{"blades_of_attack", "blades_of_attack"}, f.Acquired)
	assert.Equal(t, 500, f.ReusedGold)
	assert.Equal(t, 900, f.WastedGold)
	assert.Equal(t, 900, f.AcquiredGold)
	assert.Equal(t, f.AcquiredGold+f.NetRecipeCost, f.TotalGoldNeeded)

	// every prior unit is classified once
	assert.ElementsMatch(t, prev.Breakdown(), append(append([]string{}, f.Reused...), f.Wasted...))
}

func TestNewFlow_BaselineNotReused(t *testing.T) {
	c := testutil.Catalog()
	prev := loadout.NewBuilder(nil).Build(items(t, c, "gloves"), nil)
	p := pool.Disassemble(prev, c)
	prior := p.Components()
	boots, _ := c.Lookup(catalog.BootsName)
	p.Add(boots)

	plan := assembly.Build(items(t, c, "phase_boots"), p, c, 5000)
	f := build.NewFlow(c, prior, plan, p.RecipeRecovery())

	assert.Empty(t, f.Reused)
	assert.Equal(t, []string{"gloves"}, f.Wasted)
	assert.Equal(t, []string{"boots"}, f.Baseline)
}

func TestNewFlow_RecipeShortfall(t *testing.T) {
	c := testutil.Catalog()
	prev := loadout.NewBuilder(nil).Build(items(t, c, "headdress"), nil)
	p := pool.Disassemble(prev, c)

	plan := assembly.Build(items(t, c, "black_king_bar"), p, c, 10000)
	f := build.NewFlow(c, prev.Breakdown(), plan, p.RecipeRecovery())

	assert.Equal(t, 250, f.RecoveredRecipeCost)
	assert.Equal(t, 1450, f.TargetRecipeCost)
	assert.Equal(t, 1200, f.NetRecipeCost)
	assert.Equal(t, 2600+1200, f.TotalGoldNeeded)
	assert.Equal(t, []string{"ring_of_regen"}, f.Wasted)
}

func TestSequence_ExtendIsImmutable(t *testing.T) {
	s0 := &build.Stage{Checkpoint: 0}
	s1 := &build.Stage{Checkpoint: 1}
	s2 := &build.Stage{Checkpoint: 2}

	seq := build.NewSequence(s0, 0.4)
	assert.Equal(t, 0.4, seq.Score)

	a := seq.Extend(s1, 0.8)
	b := seq.Extend(s2, 0.1)

	assert.Equal(t, 1, seq.Len())
	assert.Same(t, s1, a.Last())
	assert.Same(t, s2, b.Last())
	assert.Equal(t, (0.4+0.8)/2, a.Score)
	assert.Equal(t, (0.4+0.1)/2, b.Score)
}

func TestSequence_ScoreIsMean(t *testing.T) {
	scores := []float64{0.31, 0.77, 0.12, 0.9, 0.45}
	seq := build.NewSequence(&build.Stage{}, scores[0])
	for _, s := range scores[1:] {
		seq = seq.Extend(&build.Stage{}, s)
	}
	assert.Equal(t, build.Mean(scores), seq.Score)
	assert.Equal(t, scores, seq.Scores)
}

func TestNewTransition_CostDelta(t *testing.T) {
	c := testutil.Catalog()
	b := loadout.NewBuilder(nil)
	from := b.Build(items(t, c, "boots"), nil)
	to := b.Build(items(t, c, "power_treads"), nil)

	tr := build.NewTransition(from, to, &build.ComponentFlow{}, 1)
	assert.Equal(t, 900, tr.CostDelta)
	assert.Nil(t, (*build.Sequence)(nil).Last())
}
