package progression

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FraserHum/dota-chop-shop-sub001/internal/catalog"
	"github.com/FraserHum/dota-chop-shop-sub001/internal/loadout"
	"github.com/FraserHum/dota-chop-shop-sub001/internal/pool"
	"github.com/FraserHum/dota-chop-shop-sub001/internal/scoring"
	"github.com/FraserHum/dota-chop-shop-sub001/internal/testutil"
)

func TestRun_InvalidConfig(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		defs   []StageDefinition
		want   error
	}{
		{"zero beam", func(c *Config) { c.BeamWidth = 0 }, nil, ErrInvalidBeamWidth},
		{"reuse above one", func(c *Config) { c.MinReuse = 1.5 }, nil, ErrInvalidMinReuse},
		{"negative reuse", func(c *Config) { c.MinReuse = -0.1 }, nil, ErrInvalidMinReuse},
		{"negative ceiling", nil, []StageDefinition{{Ceiling: -1}}, ErrInvalidCheckpoint},
		{"floor over ceiling", nil, []StageDefinition{{Ceiling: 100, Floor: 200}}, ErrInvalidCheckpoint},
		{"negative item cap", nil, []StageDefinition{{Ceiling: 100, MaxItems: -1}}, ErrInvalidCheckpoint},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			if tt.mutate != nil {
				tt.mutate(&cfg)
			}
			res, err := Run(context.Background(), testutil.Catalog(), cfg, Options{Checkpoints: tt.defs})
			assert.Nil(t, res)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestTargetProgression(t *testing.T) {
	base := StageDefinition{Required: []string{"boots"}, MaxItems: 4, Boots: true}
	defs, err := TargetProgression([]string{"power_treads", "mekansm"}, []int{1500, 3500}, base)
	require.NoError(t, err)
	require.Len(t, defs, 2)

	assert.Equal(t, 1500, defs[0].Ceiling)
	assert.Equal(t, []string{"boots", "power_treads"}, defs[0].Required)
	assert.Equal(t, []string{"boots", "mekansm"}, defs[1].Required)
	assert.Equal(t, 4, defs[1].MaxItems)
	assert.True(t, defs[1].Boots)

	defs[0].Required[0] = "changed"
	assert.Equal(t, []string{"boots"}, base.Required)
	assert.Equal(t, "boots", defs[1].Required[0])
}

func TestTargetProgression_Errors(t *testing.T) {
	_, err := TargetProgression([]string{"a", "b"}, []int{100}, StageDefinition{})
	assert.ErrorIs(t, err, ErrMismatchedTargets)

	_, err = TargetProgression([]string{"a"}, []int{0}, StageDefinition{})
	assert.ErrorIs(t, err, ErrInvalidCheckpoint)

	_, err = TargetProgression([]string{"a", "b"}, []int{2000, 2000}, StageDefinition{})
	assert.ErrorIs(t, err, ErrInvalidCheckpoint)

	defs, err := TargetProgression(nil, nil, StageDefinition{})
	require.NoError(t, err)
	assert.Empty(t, defs)
}

func TestNewPurchaseBudget(t *testing.T) {
	c := testutil.Catalog()
	axe, _ := c.Lookup("ogre_axe")

	p := pool.New()
	p.Add(axe)
	p.Add(axe)
	p.Refund(1000)

	// the pool alone exceeds the ceiling, but recovered recipes still leave gold to spend
	assert.Equal(t, 800, NewPurchaseBudget(1800, p))
	assert.Equal(t, 1800, NewPurchaseBudget(1800, pool.New()))
}

func TestRun_RecipeRefundFundsNextCheckpoint(t *testing.T) {
	c := testutil.Catalog()
	defs := []StageDefinition{
		{Ceiling: 1775, Required: []string{"mekansm"}, MaxItems: 1},
		{Ceiling: 4100, Required: []string{"black_king_bar"}, MaxItems: 1},
	}
	cfg := DefaultConfig()

	res, err := Run(context.Background(), c, cfg, Options{Checkpoints: defs, Valuation: testutil.Valuation()})
	require.NoError(t, err)
	require.Len(t, res.Sequences, 1)
	verifyResult(t, c, cfg, defs, res)

	last := res.Sequences[0].Last()
	assert.Equal(t, []string{"black_king_bar"}, last.Loadout.Names())
	assert.ElementsMatch(t, []string{"headdress", "chainmail"}, last.Loadout.LeftoverNames())
	assert.Equal(t, 3250, last.Transition.Flow.TotalGoldNeeded)
	assert.Equal(t, 1, res.Stats.Checkpoints[1].Survivors)
}

func TestRun_ProgressProtocol(t *testing.T) {
	cfg := DefaultConfig()
	cfg.BeamWidth = 3
	cfg.ProgressEvery = 1

	var events []Progress
	opts := Options{
		Checkpoints: threeTargets(t),
		Valuation:   testutil.Valuation(),
		RunID:       "run-1",
		Progress:    func(p Progress) { events = append(events, p) },
	}
	res, err := Run(context.Background(), testutil.Catalog(), cfg, opts)
	require.NoError(t, err)
	require.NotEmpty(t, events)

	assert.Equal(t, PhaseInitializing, events[0].Phase)
	assert.Equal(t, PhaseResolving, events[1].Phase)
	assert.Equal(t, PhaseFinalizing, events[len(events)-1].Phase)
	for i, ev := range events {
		assert.Equal(t, "run-1", ev.RunID)
		assert.NotEmpty(t, ev.Message)
		if i > 0 {
			assert.GreaterOrEqual(t, ev.Phase, events[i-1].Phase, "event %d went backwards", i)
		}
	}

	generating := 0
	for _, ev := range events {
		if ev.Phase == PhaseGenerating {
			generating++
		}
	}
	// opening summary, one per tested subset, closing summary
	assert.Equal(t, res.Stats.Checkpoints[0].Evaluated+2, generating)

	last := events[len(events)-1]
	assert.Equal(t, res.Stats.CandidatesEvaluated, last.Evaluated)
	assert.Equal(t, res.Stats.CandidatesValid, last.Valid)
}

func TestRun_NoProgressWhenDisabled(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ProgressEvery = 0
	cfg.BeamWidth = 2

	phases := map[Phase]int{}
	opts := Options{
		Checkpoints: threeTargets(t),
		Progress:    func(p Progress) { phases[p.Phase]++ },
	}
	_, err := Run(context.Background(), testutil.Catalog(), cfg, opts)
	require.NoError(t, err)
	// only the summaries remain
	assert.Equal(t, 2, phases[PhaseGenerating])
	assert.Equal(t, 1, phases[PhaseFinalizing])
}

func TestRun_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res, err := Run(ctx, testutil.Catalog(), DefaultConfig(), Options{Checkpoints: threeTargets(t)})
	assert.Nil(t, res)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestRun_Floor(t *testing.T) {
	c := testutil.Catalog()
	cfg := DefaultConfig()
	defs := []StageDefinition{{Ceiling: 1500, Floor: 1400, AllowComponents: true, MaxItems: 3}}

	res, err := Run(context.Background(), c, cfg, Options{Checkpoints: defs, Valuation: testutil.Valuation()})
	require.NoError(t, err)
	require.NotEmpty(t, res.Sequences)
	verifyResult(t, c, cfg, defs, res)
	for _, seq := range res.Sequences {
		assert.GreaterOrEqual(t, seq.Stages[0].Loadout.Cost, 1400)
	}
}

func TestRun_Constraint(t *testing.T) {
	c := testutil.Catalog()
	cfg := DefaultConfig()
	cfg.Limit = 0
	defs := []StageDefinition{{Ceiling: 1500, AllowComponents: true, MaxItems: 2}}

	opts := Options{
		Checkpoints: defs,
		Valuation:   testutil.Valuation(),
		Constraint:  scoring.ExcludeItems("phase_boots"),
	}
	res, err := Run(context.Background(), c, cfg, opts)
	require.NoError(t, err)
	require.NotEmpty(t, res.Sequences)
	for _, seq := range res.Sequences {
		assert.False(t, seq.Stages[0].Loadout.Has("phase_boots"))
	}
}

func TestRun_Excluded(t *testing.T) {
	c := testutil.Catalog()
	cfg := DefaultConfig()
	cfg.Limit = 0
	defs := []StageDefinition{{Ceiling: 1500, Excluded: []string{"Power Treads"}, MaxItems: 1}}

	res, err := Run(context.Background(), c, cfg, Options{Checkpoints: defs})
	require.NoError(t, err)
	for _, seq := range res.Sequences {
		assert.False(t, seq.Stages[0].Loadout.Has("power_treads"))
		assert.True(t, seq.Stages[0].Loadout.Items[0].IsUpgraded())
	}
}

func TestRunItems(t *testing.T) {
	items := testutil.Pair().Items()
	defs := []StageDefinition{{Ceiling: 1000, Required: []string{"whole"}}}
	res, err := RunItems(context.Background(), items, DefaultConfig(), Options{Checkpoints: defs})
	require.NoError(t, err)
	require.Len(t, res.Sequences, 1)
	assert.Equal(t, []string{"whole"}, res.Sequences[0].Stages[0].Loadout.Names())
}

func TestPlanTransition(t *testing.T) {
	c := testutil.Catalog()
	b := loadout.NewBuilder(testutil.Valuation())
	treads, _ := c.Lookup("power_treads")
	mek, _ := c.Lookup("mekansm")
	bkb, _ := c.Lookup("black_king_bar")

	first, err := PlanTransition(c, b, nil, Step{Checkpoint: 0, Ceiling: 1500, Items: []*catalog.Item{treads}})
	require.NoError(t, err)
	assert.Nil(t, first.Transition)
	assert.Equal(t, 1400, first.Loadout.InvestedCost)

	t.Run("keep and add", func(t *testing.T) {
		st, err := PlanTransition(c, b, first, Step{Checkpoint: 1, Ceiling: 3500, Items: []*catalog.Item{treads, mek}})
		require.NoError(t, err)
		require.NotNil(t, st.Transition)
		assert.Equal(t, 1.0, st.Transition.ReuseRatio)
		assert.Empty(t, st.Loadout.Leftovers)
		assert.Equal(t, 1775, st.Transition.Flow.TotalGoldNeeded)
		assert.Same(t, first.Loadout, st.Transition.From)
	})

	t.Run("replace", func(t *testing.T) {
		st, err := PlanTransition(c, b, first, Step{Checkpoint: 1, Ceiling: 3500, Items: []*catalog.Item{mek}})
		require.NoError(t, err)
		assert.Zero(t, st.Transition.ReuseRatio)
		assert.Equal(t, []string{"boots", "gloves", "belt_of_strength"}, st.Loadout.LeftoverNames())
		assert.Equal(t, 1400, st.Transition.Flow.WastedGold)
		assert.Equal(t, 1775+1400, st.Loadout.InvestedCost)
	})

	t.Run("over ceiling", func(t *testing.T) {
		_, err := PlanTransition(c, b, first, Step{Checkpoint: 1, Ceiling: 2000, Items: []*catalog.Item{bkb}})
		assert.ErrorIs(t, err, ErrOverCeiling)
	})

	t.Run("over budget", func(t *testing.T) {
		// 1775 fits the ceiling, but the kept treads leave only 400 to spend
		_, err := PlanTransition(c, b, first, Step{Checkpoint: 1, Ceiling: 1800, Items: []*catalog.Item{mek}})
		assert.ErrorIs(t, err, ErrOverBudget)
	})

	t.Run("recipe refund offsets recipes", func(t *testing.T) {
		mekStage, err := PlanTransition(c, b, nil, Step{Checkpoint: 0, Ceiling: 1775, Items: []*catalog.Item{mek}})
		require.NoError(t, err)

		// budget 4100-975+800 = 3925; gross 4050 but net 2600 + (1450-800) = 3250
		st, err := PlanTransition(c, b, mekStage, Step{Checkpoint: 1, Ceiling: 4100, Items: []*catalog.Item{bkb}})
		require.NoError(t, err)
		f := st.Transition.Flow
		assert.Equal(t, 800, f.RecoveredRecipeCost)
		assert.Equal(t, 650, f.NetRecipeCost)
		assert.Equal(t, 3250, f.TotalGoldNeeded)
	})
}

func TestCandidates(t *testing.T) {
	c := testutil.Catalog()
	defs := []StageDefinition{{Ceiling: 5000, AllowComponents: true}}

	e := newEngine(c, DefaultConfig(), Options{Checkpoints: defs})
	e.resolveAll()
	cp := e.checkpoints[0]
	sp := preparePool(c, nil, cp.def.Ceiling, false)
	ctr := &counter{e: e}

	all := e.candidates(cp, sp, nil, ctr)
	for _, it := range all {
		assert.False(t, it.IsConsumable, it.Name)
	}
	assert.Zero(t, ctr.evaluated, "everything fits 5000")

	ranked := e.candidates(cp, sp, countNames([]string{"ogre_axe", "mithril_hammer"}), ctr)
	require.Len(t, ranked, len(all))
	assert.Equal(t, "black_king_bar", ranked[0].Name)

	e.cfg.CandidateLimit = 2
	limited := e.candidates(cp, sp, countNames([]string{"ogre_axe", "mithril_hammer"}), ctr)
	require.Len(t, limited, 2)
	assert.Equal(t, "black_king_bar", limited[0].Name)

	cp.def.AllowComponents = false
	e.cfg.CandidateLimit = 0
	for _, it := range e.candidates(cp, sp, nil, ctr) {
		assert.True(t, it.IsUpgraded(), it.Name)
	}
}

func TestCandidates_DropsUnaffordableBeforeLimit(t *testing.T) {
	c := testutil.Catalog()
	cfg := DefaultConfig()
	cfg.CandidateLimit = 2
	defs := []StageDefinition{{Ceiling: 1500, AllowComponents: true}}

	e := newEngine(c, cfg, Options{Checkpoints: defs})
	e.resolveAll()
	cp := e.checkpoints[0]
	sp := preparePool(c, nil, cp.def.Ceiling, false)
	ctr := &counter{e: e}

	got := e.candidates(cp, sp, countNames([]string{"ogre_axe", "mithril_hammer"}), ctr)
	require.Len(t, got, 2)
	assert.Equal(t, "ogre_axe", got[0].Name, "black_king_bar ranks higher but cannot fit")
	for _, it := range got {
		assert.LessOrEqual(t, it.Cost, 1500, it.Name)
	}
	// mithril_hammer, mekansm and black_king_bar each count as one pruned subset
	assert.Equal(t, 3, ctr.evaluated)
}
