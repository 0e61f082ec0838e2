package progression

import (
	"sort"

	"github.com/FraserHum/dota-chop-shop-sub001/internal/assembly"
	"github.com/FraserHum/dota-chop-shop-sub001/internal/catalog"
	"github.com/FraserHum/dota-chop-shop-sub001/internal/combo"
	"github.com/FraserHum/dota-chop-shop-sub001/internal/scoring"
)

// defaultMaxItems applies when neither the checkpoint nor Config sets a cap.
const defaultMaxItems = 6

// checkpoint is a StageDefinition with its names resolved.
type checkpoint struct {
	index    int
	def      StageDefinition
	maxItems int

	required   []*catalog.Item
	isRequired map[string]bool
	excluded   map[string]bool

	scorer     scoring.StageScorer
	constraint scoring.Constraint
}

// candidates lists the items a checkpoint may add on top of its required
// items. Items sharing components with reference come first; otherwise
// catalog order is kept. Items that cannot fit sp on their own are dropped
// before CandidateLimit applies; each counts as one evaluated subset, the
// singleton the walk would have tested and pruned.
func (e *engine) candidates(cp *checkpoint, sp *stagePool, reference map[string]int, ctr *counter) []*catalog.Item {
	limit := sp.limit()
	var out []*catalog.Item
	for _, it := range e.a.Items() {
		if it.IsConsumable || cp.excluded[it.Name] || cp.isRequired[it.Name] {
			continue
		}
		if !it.IsUpgraded() && !cp.def.AllowComponents {
			continue
		}
		if sp.need(e.a, it) > limit {
			ctr.tested()
			continue
		}
		out = append(out, it)
	}

	if len(reference) > 0 {
		shared := make(map[*catalog.Item]int, len(out))
		for _, it := range out {
			shared[it] = sharedComponents(e.a, it, reference)
		}
		sort.SliceStable(out, func(i, j int) bool {
			return shared[out[i]] > shared[out[j]]
		})
	}

	if n := e.cfg.CandidateLimit; n > 0 && len(out) > n {
		out = out[:n]
	}
	return out
}

func sharedComponents(a catalog.Accessor, it *catalog.Item, reference map[string]int) int {
	n := 0
	for _, req := range assembly.Requirements(a, it) {
		if reference[req.Name] > 0 {
			n++
		}
	}
	return n
}

// targetReference collects the components of every item required at or after
// checkpoint from, so early picks lean toward parts later targets can reuse.
func (e *engine) targetReference(from int) map[string]int {
	ref := make(map[string]int)
	for _, cp := range e.checkpoints[from:] {
		for _, it := range cp.required {
			for _, req := range assembly.Requirements(e.a, it) {
				ref[req.Name]++
			}
			for _, base := range e.a.BaseComponents(it) {
				ref[base.Name]++
			}
		}
	}
	return ref
}

func countNames(names []string) map[string]int {
	m := make(map[string]int, len(names))
	for _, n := range names {
		m[n]++
	}
	return m
}

// walkOptions builds the inline predicates for one pool. The budget prune
// sums each item's lower bound on gross new gold against sp.limit.
func (e *engine) walkOptions(cp *checkpoint, sp *stagePool, ctr *counter) combo.Options[*catalog.Item] {
	need := func(it *catalog.Item) int { return sp.need(e.a, it) }

	opts := combo.Options[*catalog.Item]{
		MaxSize: cp.maxItems,
		Prune: combo.All(
			combo.AtMostOne(e.a.IsFootwear),
			combo.Within(need, sp.limit()),
		),
		OnTest: ctr.tested,
	}
	if floor := cp.def.Floor; floor > 0 {
		opts.Accept = func(subset []*catalog.Item) bool {
			total := 0
			for _, it := range subset {
				total += it.Cost
			}
			return total >= floor
		}
	}
	return opts
}
