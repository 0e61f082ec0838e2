package scoring

import (
	"github.com/FraserHum/dota-chop-shop-sub001/internal/build"
)

// ReuseEfficiency is (reused component gold + recovered recipe gold) divided
// by the previous loadout's invested cost. 0 when there was nothing invested.
func ReuseEfficiency() TransitionScorer {
	return Func[*build.Transition](func(tr *build.Transition) float64 {
		if tr == nil || tr.Flow == nil || tr.From == nil {
			return 0
		}
		recovered := float64(tr.Flow.ReusedGold + tr.Flow.RecoveredRecipeCost)
		return clamp(ratio(recovered, float64(tr.From.InvestedCost)), 0, 1)
	})
}

// WasteAvoidance is 1 - wasted gold / previous invested cost. With nothing
// invested nothing can be wasted, so the score is 1.
func WasteAvoidance() TransitionScorer {
	return Func[*build.Transition](func(tr *build.Transition) float64 {
		if tr == nil || tr.Flow == nil || tr.From == nil || tr.From.InvestedCost <= 0 {
			return 1
		}
		return clamp(1-float64(tr.Flow.WastedGold)/float64(tr.From.InvestedCost), 0, 1)
	})
}

// Affordability is 1 - total new gold needed / maxGold, clamped to [0,1].
func Affordability(maxGold float64) TransitionScorer {
	return Func[*build.Transition](func(tr *build.Transition) float64 {
		if tr == nil || tr.Flow == nil {
			return 1
		}
		return affordable(float64(tr.Flow.TotalGoldNeeded), maxGold)
	})
}

// InitialAffordability prices a stage by its full invested cost. It stands in
// for Affordability on first stages, which have no transition.
func InitialAffordability(maxGold float64) StageScorer {
	return Func[StagePair](func(p StagePair) float64 {
		if p.Current == nil || p.Current.Loadout == nil {
			return 1
		}
		return affordable(float64(p.Current.Loadout.InvestedCost), maxGold)
	})
}

func affordable(gold, maxGold float64) float64 {
	if maxGold <= 0 {
		if gold <= 0 {
			return 1
		}
		return 0
	}
	return clamp(1-gold/maxGold, 0, 1)
}

// Efficiency normalizes stat value per invested gold by maxEfficiency.
func Efficiency(maxEfficiency float64) StageScorer {
	return Func[StagePair](func(p StagePair) float64 {
		if p.Current == nil || p.Current.Loadout == nil {
			return 0
		}
		return clamp(ratio(p.Current.Loadout.Efficiency, maxEfficiency), 0, 1)
	})
}

// Utility sums the table's category values for assembled items, normalized by maxValue.
func Utility(table *UtilityTable, maxValue float64) StageScorer {
	return Func[StagePair](func(p StagePair) float64 {
		if table == nil || p.Current == nil || p.Current.Loadout == nil {
			return 0
		}
		return clamp(ratio(table.Value(p.Current.Loadout), maxValue), 0, 1)
	})
}
