// Package assembly decides which required components of a candidate item
// subset come from an existing pool and which must be bought.
package assembly

import (
	"github.com/FraserHum/dota-chop-shop-sub001/internal/catalog"
	"github.com/FraserHum/dota-chop-shop-sub001/internal/pool"
)

// Plan is the outcome of assembling a subset against a pool.
// len(UsedFromPool)+len(LeftoverFromPool) always equals the pool's unit count.
type Plan struct {
	Items []*catalog.Item

	UsedFromPool     []*catalog.Item // in consumption order
	LeftoverFromPool []*catalog.Item // in pool order
	Purchased        []*catalog.Item // components bought new

	UsedValue        int
	NewComponentCost int
	RecipeCost       int

	Valid bool
}

// TotalNewGold is the gold the plan spends: new components plus recipes.
func (p *Plan) TotalNewGold() int {
	return p.NewComponentCost + p.RecipeCost
}

// NetNewGold is the gold the plan spends once recovered recipe gold has been
// set against its recipes: new components plus max(0, recipes - recovered).
func (p *Plan) NetNewGold(recovered int) int {
	return p.NewComponentCost + max(0, p.RecipeCost-recovered)
}

// Requirements lists the component units an item needs: its declared
// components, or the item itself when it is not assembled.
func Requirements(a catalog.Accessor, it *catalog.Item) []*catalog.Item {
	if !it.IsUpgraded() {
		return []*catalog.Item{it}
	}
	out := make([]*catalog.Item, 0, len(it.Components))
	for _, name := range it.Components {
		if c, ok := a.Lookup(name); ok {
			out = append(out, c)
		}
	}
	return out
}

// Build plans a subset against p. Each pool unit is consumed at most once,
// requirements are matched in subset order against the first free unit with
// the same name. The plan is invalid when the gold still to spend after pool
// credit exceeds ceiling. The pool is not modified.
func Build(items []*catalog.Item, p *pool.Pool, a catalog.Accessor, ceiling int) *Plan {
	units := p.Units()
	consumed := make([]bool, len(units))

	// free unit positions per component name, in pool order
	free := make(map[string][]int, len(units))
	for i, u := range units {
		free[u.Name] = append(free[u.Name], i)
	}

	plan := &Plan{Items: items}
	for _, it := range items {
		for _, req := range Requirements(a, it) {
			if idxs := free[req.Name]; len(idxs) > 0 {
				idx := idxs[0]
				free[req.Name] = idxs[1:]
				consumed[idx] = true
				plan.UsedFromPool = append(plan.UsedFromPool, units[idx])
				plan.UsedValue += units[idx].Cost
				continue
			}
			plan.Purchased = append(plan.Purchased, req)
			plan.NewComponentCost += req.Cost
		}
		plan.RecipeCost += a.RecipeCost(it)
	}
	for i, u := range units {
		if !consumed[i] {
			plan.LeftoverFromPool = append(plan.LeftoverFromPool, u)
		}
	}
	plan.Valid = plan.TotalNewGold() <= ceiling
	return plan
}

// Credit is an upper bound on the pool value item could draw on, ignoring
// competition from other items in the same subset.
func Credit(a catalog.Accessor, it *catalog.Item, p *pool.Pool) int {
	if p.Len() == 0 {
		return 0
	}
	need := make(map[string]int)
	credit := 0
	for _, req := range Requirements(a, it) {
		need[req.Name]++
		if need[req.Name] <= p.Count(req.Name) {
			credit += req.Cost
		}
	}
	return credit
}
