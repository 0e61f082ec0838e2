package build

import (
	"github.com/FraserHum/dota-chop-shop-sub001/internal/loadout"
)

// Transition is the delta between consecutive loadouts.
type Transition struct {
	From       *loadout.Loadout
	To         *loadout.Loadout
	CostDelta  int // To.InvestedCost - From.InvestedCost
	Flow       *ComponentFlow
	ReuseRatio float64 // consumed pool units / pool units
}

// NewTransition links two loadouts through a flow.
func NewTransition(from, to *loadout.Loadout, flow *ComponentFlow, reuseRatio float64) *Transition {
	return &Transition{
		From:       from,
		To:         to,
		CostDelta:  to.InvestedCost - from.InvestedCost,
		Flow:       flow,
		ReuseRatio: reuseRatio,
	}
}

// Stage is one checkpoint's candidate. Transition is nil for the first checkpoint.
type Stage struct {
	Loadout    *loadout.Loadout
	Checkpoint int
	Ceiling    int
	Transition *Transition
}

// Sequence is an immutable chain of stages with their scores. Score is the
// arithmetic mean of Scores.
type Sequence struct {
	Stages []*Stage
	Scores []float64
	Score  float64
}

// NewSequence starts a sequence from its first stage.
func NewSequence(first *Stage, score float64) *Sequence {
	return &Sequence{
		Stages: []*Stage{first},
		Scores: []float64{score},
		Score:  score,
	}
}

// Extend returns a new sequence with one more stage; s is left unchanged.
func (s *Sequence) Extend(next *Stage, score float64) *Sequence {
	n := len(s.Stages)
	stages := make([]*Stage, n+1)
	copy(stages, s.Stages)
	stages[n] = next

	scores := make([]float64, n+1)
	copy(scores, s.Scores)
	scores[n] = score

	return &Sequence{Stages: stages, Scores: scores, Score: Mean(scores)}
}

// Last returns the terminal stage, nil for an empty sequence.
func (s *Sequence) Last() *Stage {
	if s == nil || len(s.Stages) == 0 {
		return nil
	}
	return s.Stages[len(s.Stages)-1]
}

// Len is the number of stages.
func (s *Sequence) Len() int { return len(s.Stages) }

// Mean is the arithmetic mean used for sequence scores; 0 for no values.
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}
