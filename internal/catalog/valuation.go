package catalog

// Valuation maps a stat key to its gold value per point.
type Valuation map[string]float64

// Value prices a stat map. Stats without a valuation are worth nothing.
func (v Valuation) Value(stats map[string]float64) float64 {
	total := 0.0
	for k, amount := range stats {
		total += amount * v[k]
	}
	return total
}

// ItemValue prices an item's own and aura stats.
func (v Valuation) ItemValue(it *Item) float64 {
	if it == nil {
		return 0
	}
	return v.Value(it.Stats) + v.Value(it.AuraStats)
}

// DeriveValuation computes baseline gold-per-point values from base
// components that grant exactly one stat. The cheapest source of a stat sets
// its price.
func DeriveValuation(a Accessor) Valuation {
	v := make(Valuation)
	for _, it := range a.Items() {
		if it.IsUpgraded() || it.IsConsumable || len(it.Stats) != 1 || len(it.AuraStats) > 0 {
			continue
		}
		for stat, amount := range it.Stats {
			if amount <= 0 {
				continue
			}
			per := float64(it.Cost) / amount
			if cur, ok := v[stat]; !ok || per < cur {
				v[stat] = per
			}
		}
	}
	return v
}

// Merge returns a copy of v with overrides applied.
func (v Valuation) Merge(overrides map[string]float64) Valuation {
	out := make(Valuation, len(v)+len(overrides))
	for k, x := range v {
		out[k] = x
	}
	for k, x := range overrides {
		out[k] = x
	}
	return out
}
