package worker

import (
	"errors"
	"fmt"
	"slices"

	"github.com/FraserHum/dota-chop-shop-sub001/internal/build"
	"github.com/FraserHum/dota-chop-shop-sub001/internal/catalog"
	"github.com/FraserHum/dota-chop-shop-sub001/internal/config"
	"github.com/FraserHum/dota-chop-shop-sub001/internal/loadout"
	"github.com/FraserHum/dota-chop-shop-sub001/internal/progression"
)

var (
	ErrUnknownItem = errors.New("item not in catalog")
	ErrDiverged    = errors.New("rebuilt stage differs from summary")
)

// StageSummary is one checkpoint of a sequence by item name.
type StageSummary struct {
	Checkpoint   int      `json:"checkpoint"`
	Ceiling      int      `json:"ceiling"`
	Boots        bool     `json:"boots,omitempty"`
	Items        []string `json:"items"`
	Leftovers    []string `json:"leftovers,omitempty"`
	Cost         int      `json:"cost"`
	InvestedCost int      `json:"invested_cost"`
	Score        float64  `json:"score"`
	ReuseRatio   float64  `json:"reuse_ratio"`
	WastedGold   int      `json:"wasted_gold"`
	GoldNeeded   int      `json:"gold_needed"`
}

// SequenceSummary is a ranked sequence by item name.
type SequenceSummary struct {
	Score  float64        `json:"score"`
	Stages []StageSummary `json:"stages"`
}

// UnresolvedSummary is a required name that matched nothing.
type UnresolvedSummary struct {
	Checkpoint  int      `json:"checkpoint"`
	Query       string   `json:"query"`
	Suggestions []string `json:"suggestions,omitempty"`
}

// Summary is the transport form of a progression.Result.
type Summary struct {
	RunID      string              `json:"run_id"`
	Sequences  []SequenceSummary   `json:"sequences"`
	Unresolved []UnresolvedSummary `json:"unresolved,omitempty"`

	Evaluated    int     `json:"evaluated"`
	Valid        int     `json:"valid"`
	BestScore    float64 `json:"best_score"`
	AverageScore float64 `json:"average_score"`
	Coverage     float64 `json:"coverage"`
	ElapsedMS    int64   `json:"elapsed_ms"`
}

// Summarize flattens res. cps are the checkpoints the search ran with.
func Summarize(res *progression.Result, cps []config.Checkpoint) *Summary {
	s := &Summary{
		RunID:        res.RunID,
		Sequences:    make([]SequenceSummary, 0, len(res.Sequences)),
		Evaluated:    res.Stats.CandidatesEvaluated,
		Valid:        res.Stats.CandidatesValid,
		BestScore:    res.Stats.BestScore,
		AverageScore: res.Stats.AverageScore,
		Coverage:     res.Stats.TargetCoverage,
		ElapsedMS:    res.Stats.Elapsed.Milliseconds(),
	}
	for _, seq := range res.Sequences {
		ss := SequenceSummary{Score: seq.Score, Stages: make([]StageSummary, len(seq.Stages))}
		for i, st := range seq.Stages {
			ss.Stages[i] = summarizeStage(st, seq.Scores[i], cps)
		}
		s.Sequences = append(s.Sequences, ss)
	}
	for i := range cps {
		for _, u := range res.Unresolved[i] {
			s.Unresolved = append(s.Unresolved, UnresolvedSummary{
				Checkpoint:  i,
				Query:       u.Query,
				Suggestions: u.Suggestions,
			})
		}
	}
	return s
}

func summarizeStage(st *build.Stage, score float64, cps []config.Checkpoint) StageSummary {
	ss := StageSummary{
		Checkpoint:   st.Checkpoint,
		Ceiling:      st.Ceiling,
		Items:        st.Loadout.Names(),
		Leftovers:    st.Loadout.LeftoverNames(),
		Cost:         st.Loadout.Cost,
		InvestedCost: st.Loadout.InvestedCost,
		Score:        score,
		ReuseRatio:   1,
	}
	if st.Checkpoint < len(cps) {
		ss.Boots = cps[st.Checkpoint].Boots
	}
	if tr := st.Transition; tr != nil {
		ss.ReuseRatio = tr.ReuseRatio
		ss.WastedGold = tr.Flow.WastedGold
		ss.GoldNeeded = tr.Flow.TotalGoldNeeded
	} else {
		ss.GoldNeeded = st.Loadout.Cost
	}
	return ss
}

// Reconstruct rebuilds every sequence against a catalog, replaying each
// stage's assembly. Stored scores are reused; the stage layout must match.
func (s *Summary) Reconstruct(a catalog.Accessor, valuation catalog.Valuation) ([]*build.Sequence, error) {
	b := loadout.NewBuilder(valuation)
	out := make([]*build.Sequence, 0, len(s.Sequences))
	for si, ss := range s.Sequences {
		var seq *build.Sequence
		var prev *build.Stage
		for _, st := range ss.Stages {
			items, err := lookupAll(a, st.Items)
			if err != nil {
				return nil, fmt.Errorf("sequence %d checkpoint %d: %w", si, st.Checkpoint, err)
			}
			step := progression.Step{Checkpoint: st.Checkpoint, Ceiling: st.Ceiling, Boots: st.Boots, Items: items}
			stage, err := progression.PlanTransition(a, b, prev, step)
			if err != nil {
				return nil, fmt.Errorf("sequence %d: %w", si, err)
			}
			if got := stage.Loadout.LeftoverNames(); !slices.Equal(got, st.Leftovers) {
				return nil, fmt.Errorf("sequence %d checkpoint %d: leftovers %v, want %v: %w",
					si, st.Checkpoint, got, st.Leftovers, ErrDiverged)
			}
			if seq == nil {
				seq = build.NewSequence(stage, st.Score)
			} else {
				seq = seq.Extend(stage, st.Score)
			}
			prev = stage
		}
		if seq != nil {
			out = append(out, seq)
		}
	}
	return out, nil
}

func lookupAll(a catalog.Accessor, names []string) ([]*catalog.Item, error) {
	items := make([]*catalog.Item, len(names))
	for i, n := range names {
		it, ok := a.Lookup(n)
		if !ok {
			return nil, fmt.Errorf("%q: %w", n, ErrUnknownItem)
		}
		items[i] = it
	}
	return items, nil
}
