// Package scoring provides pure, composable scorers and constraints over
// build stages and transitions.
package scoring

import (
	"github.com/FraserHum/dota-chop-shop-sub001/internal/build"
)

// Scorer maps an input to a value, by convention in [0,1]. Implementations
// must be pure: the same input always yields the same value.
type Scorer[In any] interface {
	Score(in In) float64
}

// Func adapts a plain function to a Scorer.
type Func[In any] func(In) float64

func (f Func[In]) Score(in In) float64 { return f(in) }

// StagePair is a candidate stage together with the stage it follows.
// Previous is nil for the first checkpoint.
type StagePair struct {
	Current  *build.Stage
	Previous *build.Stage
}

type (
	TransitionScorer = Scorer[*build.Transition]
	StageScorer      = Scorer[StagePair]
)

// Const always returns v.
func Const[In any](v float64) Scorer[In] {
	return Func[In](func(In) float64 { return v })
}

// ── Combinators ─────────────────────────────────────────────────────

// Term is one weighted operand of Weighted.
type Term[In any] struct {
	Scorer Scorer[In]
	Weight float64
}

// W builds a Term.
func W[In any](s Scorer[In], weight float64) Term[In] {
	return Term[In]{Scorer: s, Weight: weight}
}

// Weighted is the linear combination Σ weight·score.
func Weighted[In any](terms ...Term[In]) Scorer[In] {
	return Func[In](func(in In) float64 {
		total := 0.0
		for _, t := range terms {
			total += t.Weight * t.Scorer.Score(in)
		}
		return total
	})
}

// Max returns the highest operand score, 0 with no operands.
func Max[In any](scorers ...Scorer[In]) Scorer[In] {
	return Func[In](func(in In) float64 {
		if len(scorers) == 0 {
			return 0
		}
		best := scorers[0].Score(in)
		for _, s := range scorers[1:] {
			best = max(best, s.Score(in))
		}
		return best
	})
}

// Min returns the lowest operand score, 0 with no operands.
func Min[In any](scorers ...Scorer[In]) Scorer[In] {
	return Func[In](func(in In) float64 {
		if len(scorers) == 0 {
			return 0
		}
		worst := scorers[0].Score(in)
		for _, s := range scorers[1:] {
			worst = min(worst, s.Score(in))
		}
		return worst
	})
}

// Mean averages operand scores, 0 with no operands.
func Mean[In any](scorers ...Scorer[In]) Scorer[In] {
	return Func[In](func(in In) float64 {
		if len(scorers) == 0 {
			return 0
		}
		total := 0.0
		for _, s := range scorers {
			total += s.Score(in)
		}
		return total / float64(len(scorers))
	})
}

// Product multiplies operand scores; the empty product is 1.
func Product[In any](scorers ...Scorer[In]) Scorer[In] {
	return Func[In](func(in In) float64 {
		p := 1.0
		for _, s := range scorers {
			p *= s.Score(in)
		}
		return p
	})
}

// Map post-transforms a score.
func Map[In any](s Scorer[In], fn func(float64) float64) Scorer[In] {
	return Func[In](func(in In) float64 { return fn(s.Score(in)) })
}

// Clamp bounds a score to [lo, hi].
func Clamp[In any](s Scorer[In], lo, hi float64) Scorer[In] {
	return Map(s, func(v float64) float64 { return clamp(v, lo, hi) })
}

// Invert returns 1 - score.
func Invert[In any](s Scorer[In]) Scorer[In] {
	return Map(s, func(v float64) float64 { return 1 - v })
}

// Lift scores a stage by its incoming transition; first stages score initial.
func Lift(ts TransitionScorer, initial float64) StageScorer {
	return LiftOr(ts, Const[StagePair](initial))
}

// LiftOr scores a stage by its incoming transition, deferring to fallback
// for first stages.
func LiftOr(ts TransitionScorer, fallback StageScorer) StageScorer {
	return Func[StagePair](func(p StagePair) float64 {
		if p.Current == nil || p.Current.Transition == nil {
			return fallback.Score(p)
		}
		return ts.Score(p.Current.Transition)
	})
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// ratio divides, returning 0 for a non-positive denominator.
func ratio(num, den float64) float64 {
	if den <= 0 {
		return 0
	}
	return num / den
}
