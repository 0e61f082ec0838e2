// Package build holds the per-checkpoint records a progression search produces.
package build

import (
	"github.com/FraserHum/dota-chop-shop-sub001/internal/assembly"
	"github.com/FraserHum/dota-chop-shop-sub001/internal/catalog"
)

// ComponentFlow is the economic ledger of one transition. Every unit of the
// previous loadout's breakdown lands in exactly one of Reused or Wasted.
// Baseline units injected into the pool are never counted as reused.
type ComponentFlow struct {
	Reused   []string
	Wasted   []string
	Acquired []string
	Baseline []string // injected units the new assembly consumed

	ReusedGold   int
	WastedGold   int
	AcquiredGold int

	RecoveredRecipeCost int
	TargetRecipeCost    int
	NetRecipeCost       int // max(0, TargetRecipeCost-RecoveredRecipeCost)

	TotalGoldNeeded int // AcquiredGold + NetRecipeCost
}

// NewFlow classifies a plan against the previous breakdown. prior is the
// breakdown before any baseline injection; recovered is the recipe gold the
// disassembly refunded.
func NewFlow(a catalog.Accessor, prior []string, plan *assembly.Plan, recovered int) *ComponentFlow {
	f := &ComponentFlow{
		RecoveredRecipeCost: recovered,
		TargetRecipeCost:    plan.RecipeCost,
		AcquiredGold:        plan.NewComponentCost,
		Acquired:            catalog.Names(plan.Purchased),
	}

	avail := make(map[string]int, len(prior))
	for _, name := range prior {
		avail[name]++
	}
	consumed := make(map[string]int, len(plan.UsedFromPool))
	for _, u := range plan.UsedFromPool {
		if avail[u.Name] > 0 {
			avail[u.Name]--
			consumed[u.Name]++
			continue
		}
		f.Baseline = append(f.Baseline, u.Name)
	}

	for _, name := range prior {
		if consumed[name] > 0 {
			consumed[name]--
			f.Reused = append(f.Reused, name)
			continue
		}
		f.Wasted = append(f.Wasted, name)
	}

	f.ReusedGold = a.ComponentValue(f.Reused)
	f.WastedGold = a.ComponentValue(f.Wasted)
	f.NetRecipeCost = max(0, f.TargetRecipeCost-f.RecoveredRecipeCost)
	f.TotalGoldNeeded = f.AcquiredGold + f.NetRecipeCost
	return f
}
