package scoring

// Constraint is a hard gate over a candidate stage.
type Constraint interface {
	Allow(p StagePair) bool
}

// ConstraintFunc adapts a predicate to a Constraint.
type ConstraintFunc func(StagePair) bool

func (f ConstraintFunc) Allow(p StagePair) bool { return f(p) }

// All joins constraints with logical AND. The empty conjunction allows
// everything; nil entries are skipped.
func All(cs ...Constraint) Constraint {
	return ConstraintFunc(func(p StagePair) bool {
		for _, c := range cs {
			if c != nil && !c.Allow(p) {
				return false
			}
		}
		return true
	})
}

// RequireItems allows stages whose loadout assembles every named item.
func RequireItems(names ...string) Constraint {
	return ConstraintFunc(func(p StagePair) bool {
		for _, n := range names {
			if !p.Current.Loadout.Has(n) {
				return false
			}
		}
		return true
	})
}

// ExcludeItems rejects stages assembling any named item.
func ExcludeItems(names ...string) Constraint {
	return ConstraintFunc(func(p StagePair) bool {
		for _, n := range names {
			if p.Current.Loadout.Has(n) {
				return false
			}
		}
		return true
	})
}

// MinReuse rejects transitions reusing less than floor of their pool.
// First stages always pass.
func MinReuse(floor float64) Constraint {
	return ConstraintFunc(func(p StagePair) bool {
		tr := p.Current.Transition
		return tr == nil || tr.ReuseRatio >= floor
	})
}

// MaxWaste rejects transitions wasting more than gold.
func MaxWaste(gold int) Constraint {
	return ConstraintFunc(func(p StagePair) bool {
		tr := p.Current.Transition
		return tr == nil || tr.Flow == nil || tr.Flow.WastedGold <= gold
	})
}

// MaxItems caps assembled items; leftovers do not count.
func MaxItems(n int) Constraint {
	return ConstraintFunc(func(p StagePair) bool {
		return p.Current.Loadout.ItemCount() <= n
	})
}
