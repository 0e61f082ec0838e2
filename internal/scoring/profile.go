package scoring

import (
	"fmt"
	"sort"
)

// Profile names.
const (
	ProfileBalanced   = "balanced"
	ProfileReuse      = "reuse"
	ProfileEfficiency = "efficiency"
	ProfileUtility    = "utility"
)

// ProfileOptions carries the normalization limits the built-ins need.
type ProfileOptions struct {
	AffordabilityMax float64 // gold
	EfficiencyMax    float64 // stat value per gold
	UtilityMax       float64 // gold
	Utility          *UtilityTable
}

// DefaultProfileOptions suits a full late-game build.
func DefaultProfileOptions() ProfileOptions {
	return ProfileOptions{
		AffordabilityMax: 6000,
		EfficiencyMax:    1.5,
		UtilityMax:       3000,
	}
}

// Weights for each built-in inside a profile. A profile's weights sum to 1.
type Weights struct {
	Reuse         float64 `mapstructure:"reuse" yaml:"reuse"`
	Waste         float64 `mapstructure:"waste" yaml:"waste"`
	Affordability float64 `mapstructure:"affordability" yaml:"affordability"`
	Efficiency    float64 `mapstructure:"efficiency" yaml:"efficiency"`
	Utility       float64 `mapstructure:"utility" yaml:"utility"`
}

var profiles = map[string]Weights{
	ProfileBalanced:   {Reuse: 0.25, Waste: 0.25, Affordability: 0.2, Efficiency: 0.15, Utility: 0.15},
	ProfileReuse:      {Reuse: 0.5, Waste: 0.3, Efficiency: 0.2},
	ProfileEfficiency: {Affordability: 0.3, Efficiency: 0.7},
	ProfileUtility:    {Waste: 0.2, Efficiency: 0.2, Utility: 0.6},
}

// Profiles lists the known profile names in sorted order.
func Profiles() []string {
	names := make([]string, 0, len(profiles))
	for n := range profiles {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// ProfileWeights returns the weights behind a named profile.
func ProfileWeights(name string) (Weights, error) {
	w, ok := profiles[name]
	if !ok {
		return Weights{}, fmt.Errorf("unknown scoring profile %q (known: %v)", name, Profiles())
	}
	return w, nil
}

// Profile builds the stage scorer for a named profile.
func Profile(name string, opts ProfileOptions) (StageScorer, error) {
	w, err := ProfileWeights(name)
	if err != nil {
		return nil, err
	}
	return FromWeights(w, opts), nil
}

// FromWeights combines the built-ins into one stage scorer clamped to [0,1].
// First stages score full marks on reuse and waste, and are judged on their
// invested cost for affordability.
func FromWeights(w Weights, opts ProfileOptions) StageScorer {
	utility := opts.Utility
	if utility == nil {
		utility = DefaultUtilityTable()
	}
	var terms []Term[StagePair]
	add := func(s StageScorer, weight float64) {
		if weight != 0 {
			terms = append(terms, W(s, weight))
		}
	}
	add(Lift(ReuseEfficiency(), 1), w.Reuse)
	add(Lift(WasteAvoidance(), 1), w.Waste)
	add(LiftOr(Affordability(opts.AffordabilityMax), InitialAffordability(opts.AffordabilityMax)), w.Affordability)
	add(Efficiency(opts.EfficiencyMax), w.Efficiency)
	add(Utility(utility, opts.UtilityMax), w.Utility)
	return Clamp(Weighted(terms...), 0, 1)
}
