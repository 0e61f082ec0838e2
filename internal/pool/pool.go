// Package pool models the gold value recoverable from a previous checkpoint's items.
package pool

import (
	"github.com/FraserHum/dota-chop-shop-sub001/internal/catalog"
	"github.com/FraserHum/dota-chop-shop-sub001/internal/loadout"
)

// Pool is an ordered multiset of components plus separately tracked recipe
// refunds. TotalValue always equals the catalog price sum of the components;
// recipes are refunded as gold and never become components.
type Pool struct {
	units          []*catalog.Item
	counts         map[string]int
	totalValue     int
	recipeRecovery int
}

// New returns an empty pool.
func New() *Pool {
	return &Pool{counts: make(map[string]int)}
}

// Add appends one component unit at its catalog value.
func (p *Pool) Add(it *catalog.Item) {
	if it == nil {
		return
	}
	p.units = append(p.units, it)
	p.counts[it.Name]++
	p.totalValue += it.Cost
}

// Refund records recipe gold recovered by disassembly.
func (p *Pool) Refund(gold int) {
	if gold > 0 {
		p.recipeRecovery += gold
	}
}

// Units returns the component units in insertion order. Callers must not modify it.
func (p *Pool) Units() []*catalog.Item { return p.units }

// Components returns the component names in insertion order.
func (p *Pool) Components() []string { return catalog.Names(p.units) }

// Len is the number of component units.
func (p *Pool) Len() int { return len(p.units) }

// Count returns how many units of a component the pool holds.
func (p *Pool) Count(name string) int { return p.counts[name] }

// Has reports whether at least one unit of name is present.
func (p *Pool) Has(name string) bool { return p.counts[name] > 0 }

// TotalValue is the catalog-priced sum of all component units.
func (p *Pool) TotalValue() int { return p.totalValue }

// RecipeRecovery is the recipe gold refunded into this pool.
func (p *Pool) RecipeRecovery() int { return p.recipeRecovery }

// Disassemble derives a fresh pool from a loadout without touching it. Each
// assembled item returns its declared components at catalog value and its
// recipe gold as a refund; component-less items and leftovers return as-is.
func Disassemble(l *loadout.Loadout, a catalog.Accessor) *Pool {
	p := New()
	if l == nil {
		return p
	}
	for _, it := range l.Items {
		if !it.IsUpgraded() {
			p.Add(it)
			continue
		}
		for _, name := range it.Components {
			if c, ok := a.Lookup(name); ok {
				p.Add(c)
			}
		}
		p.Refund(a.RecipeCost(it))
	}
	for _, it := range l.Leftovers {
		p.Add(it)
	}
	return p
}
