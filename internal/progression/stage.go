package progression

import (
	"errors"
	"fmt"

	"github.com/FraserHum/dota-chop-shop-sub001/internal/assembly"
	"github.com/FraserHum/dota-chop-shop-sub001/internal/build"
	"github.com/FraserHum/dota-chop-shop-sub001/internal/catalog"
	"github.com/FraserHum/dota-chop-shop-sub001/internal/loadout"
	"github.com/FraserHum/dota-chop-shop-sub001/internal/pool"
)

var (
	ErrOverCeiling = errors.New("assembly exceeds the checkpoint ceiling")
	ErrOverBudget  = errors.New("assembly exceeds the new-purchase budget")
)

// NewPurchaseBudget is the gold a checkpoint may spend on top of its pool:
// ceiling - pool value + recipe recovery. A large recovery can leave a
// positive budget even when the pool alone already exceeds the ceiling.
func NewPurchaseBudget(ceiling int, p *pool.Pool) int {
	return ceiling - p.TotalValue() + p.RecipeRecovery()
}

// stagePool is the pool a checkpoint assembles from, prepared once per
// predecessor and shared by every subset tried against it.
type stagePool struct {
	pool    *pool.Pool
	prior   []string // breakdown before baseline injection
	ceiling int
	budget  int

	credit map[*catalog.Item]int
}

func preparePool(a catalog.Accessor, prev *loadout.Loadout, ceiling int, boots bool) *stagePool {
	p := pool.Disassemble(prev, a)
	prior := p.Components()
	if boots && !p.Has(catalog.BootsName) {
		if b, ok := a.Lookup(catalog.BootsName); ok {
			p.Add(b)
		}
	}
	return &stagePool{
		pool:    p,
		prior:   prior,
		ceiling: ceiling,
		budget:  NewPurchaseBudget(ceiling, p),
		credit:  make(map[*catalog.Item]int),
	}
}

// limit bounds the gross new gold (components plus full recipes) of any
// subset that can pass both the ceiling and the budget gate. The budget gate
// nets recovered recipe gold off, so the gross spend may exceed it by that much.
func (sp *stagePool) limit() int {
	return min(sp.ceiling, sp.budget+sp.pool.RecipeRecovery())
}

// need is a lower bound on the gross new gold it costs on this pool: its
// price minus the pool value it could possibly draw on.
func (sp *stagePool) need(a catalog.Accessor, it *catalog.Item) int {
	c, ok := sp.credit[it]
	if !ok {
		c = assembly.Credit(a, it, sp.pool)
		sp.credit[it] = c
	}
	return it.Cost - c
}

// reuseRatio is the consumed share of the pool; an empty pool counts as fully reused.
func (sp *stagePool) reuseRatio(plan *assembly.Plan) float64 {
	n := sp.pool.Len()
	if n == 0 {
		return 1
	}
	return float64(len(plan.UsedFromPool)) / float64(n)
}

func planStage(a catalog.Accessor, b *loadout.Builder, sp *stagePool, prev *build.Stage, checkpoint int, items []*catalog.Item) (*build.Stage, error) {
	plan := assembly.Build(items, sp.pool, a, sp.ceiling)
	if !plan.Valid {
		return nil, ErrOverCeiling
	}
	if plan.NetNewGold(sp.pool.RecipeRecovery()) > sp.budget {
		return nil, ErrOverBudget
	}

	l := b.Build(items, plan.LeftoverFromPool)
	st := &build.Stage{Loadout: l, Checkpoint: checkpoint, Ceiling: sp.ceiling}
	if prev != nil {
		flow := build.NewFlow(a, sp.prior, plan, sp.pool.RecipeRecovery())
		st.Transition = build.NewTransition(prev.Loadout, l, flow, sp.reuseRatio(plan))
	}
	return st, nil
}

// Step names the items assembled at one checkpoint.
type Step struct {
	Checkpoint int
	Ceiling    int
	Boots      bool
	Items      []*catalog.Item
}

// PlanTransition assembles one step after prev (nil for a first checkpoint)
// exactly as the search does, so stored results can be rebuilt from item names.
func PlanTransition(a catalog.Accessor, b *loadout.Builder, prev *build.Stage, step Step) (*build.Stage, error) {
	var from *loadout.Loadout
	if prev != nil {
		from = prev.Loadout
	}
	sp := preparePool(a, from, step.Ceiling, step.Boots)
	st, err := planStage(a, b, sp, prev, step.Checkpoint, step.Items)
	if err != nil {
		return nil, fmt.Errorf("checkpoint %d %v: %w", step.Checkpoint, catalog.Names(step.Items), err)
	}
	return st, nil
}
