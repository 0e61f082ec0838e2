// Package format renders search results as terminal text.
package format

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/FraserHum/dota-chop-shop-sub001/internal/build"
	"github.com/FraserHum/dota-chop-shop-sub001/internal/catalog"
	"github.com/FraserHum/dota-chop-shop-sub001/internal/worker"
)

// StageDetail holds the per-checkpoint breakdown for formatted output.
type StageDetail struct {
	Checkpoint int
	Ceiling    int
	Items      []string // display labels
	Leftovers  []string
	Invested   int
	Score      float64

	First      bool
	Reuse      float64
	Reused     []string
	Wasted     []string
	Acquired   []string
	WastedGold int
	GoldNeeded int
	NetRecipe  int
}

// SequenceDetail holds one ranked sequence for formatted output.
type SequenceDetail struct {
	Rank   int // 1-based
	Score  float64
	Stages []StageDetail
}

// CalcSequenceDetail resolves item names to display labels and pulls the
// transition ledger of every stage.
func CalcSequenceDetail(a catalog.Accessor, seq *build.Sequence, rank int) SequenceDetail {
	d := SequenceDetail{Rank: rank, Score: seq.Score, Stages: make([]StageDetail, len(seq.Stages))}
	for i, st := range seq.Stages {
		sd := &d.Stages[i]
		sd.Checkpoint = st.Checkpoint
		sd.Ceiling = st.Ceiling
		sd.Items = itemLabels(st.Loadout.Items)
		sd.Leftovers = itemLabels(st.Loadout.Leftovers)
		sd.Invested = st.Loadout.InvestedCost
		if i < len(seq.Scores) {
			sd.Score = seq.Scores[i]
		}

		tr := st.Transition
		if tr == nil {
			sd.First = true
			continue
		}
		sd.Reuse = tr.ReuseRatio
		sd.Reused = labels(a, tr.Flow.Reused)
		sd.Wasted = labels(a, tr.Flow.Wasted)
		sd.Acquired = labels(a, tr.Flow.Acquired)
		sd.WastedGold = tr.Flow.WastedGold
		sd.GoldNeeded = tr.Flow.TotalGoldNeeded
		sd.NetRecipe = tr.Flow.NetRecipeCost
	}
	return d
}

func itemLabels(items []*catalog.Item) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.Label()
	}
	return out
}

func labels(a catalog.Accessor, names []string) []string {
	out := make([]string, len(names))
	for i, n := range names {
		out[i] = n
		if it, ok := a.Lookup(n); ok {
			out[i] = it.Label()
		}
	}
	return out
}

// FormatSequence renders one sequence, one block per checkpoint.
func FormatSequence(d SequenceDetail) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s\n",
		styles.Title.Render(fmt.Sprintf("#%d", d.Rank)),
		styles.Score.Render(fmt.Sprintf("score %.4f", d.Score)))

	for _, sd := range d.Stages {
		fmt.Fprintf(&b, "  checkpoint %d (%d gold) -> %s  [%s]\n",
			sd.Checkpoint+1, sd.Ceiling,
			styles.Item.Render(strings.Join(sd.Items, ", ")),
			styles.Score.Render(fmt.Sprintf("%.3f", sd.Score)))
		if len(sd.Leftovers) > 0 {
			fmt.Fprintf(&b, "    holding: %s\n", styles.Muted.Render(strings.Join(sd.Leftovers, ", ")))
		}
		if sd.First {
			fmt.Fprintf(&b, "    invested %d\n", sd.Invested)
			continue
		}
		fmt.Fprintf(&b, "    reuse %s, spend %d (recipes %d), invested %d\n",
			styles.Good.Render(fmt.Sprintf("%.0f%%", sd.Reuse*100)), sd.GoldNeeded, sd.NetRecipe, sd.Invested)
		if len(sd.Reused) > 0 {
			fmt.Fprintf(&b, "    reused: %s\n", strings.Join(sd.Reused, ", "))
		}
		if len(sd.Acquired) > 0 {
			fmt.Fprintf(&b, "    bought: %s\n", strings.Join(sd.Acquired, ", "))
		}
		if len(sd.Wasted) > 0 {
			fmt.Fprintf(&b, "    unused: %s\n",
				styles.Warning.Render(fmt.Sprintf("%s (%d gold)", strings.Join(sd.Wasted, ", "), sd.WastedGold)))
		}
	}
	return b.String()
}

// FormatResult renders every sequence followed by the run statistics and any
// unresolved names.
func FormatResult(a catalog.Accessor, seqs []*build.Sequence, sum *worker.Summary) string {
	var b strings.Builder

	if len(seqs) == 0 {
		b.WriteString(styles.Warning.Render("no build progression fits these checkpoints"))
		b.WriteString("\n")
	}
	for i, seq := range seqs {
		if i > 0 {
			b.WriteString("===================\n")
		}
		b.WriteString(FormatSequence(CalcSequenceDetail(a, seq, i+1)))
	}

	if sum != nil {
		b.WriteString("\n")
		fmt.Fprintf(&b, "%s %d evaluated, %d valid, best %.4f, average %.4f, coverage %.0f%%, %s\n",
			styles.Header.Render("stats:"),
			sum.Evaluated, sum.Valid, sum.BestScore, sum.AverageScore, sum.Coverage*100,
			time.Duration(sum.ElapsedMS)*time.Millisecond)
		for _, u := range sum.Unresolved {
			line := fmt.Sprintf("checkpoint %d: no item matches %q", u.Checkpoint+1, u.Query)
			if len(u.Suggestions) > 0 {
				line += fmt.Sprintf(" (did you mean %s?)", strings.Join(u.Suggestions, ", "))
			}
			b.WriteString(styles.Warning.Render(line))
			b.WriteString("\n")
		}
	}
	return b.String()
}

// ProfileRow is one line of a profile comparison.
type ProfileRow struct {
	Profile   string  `json:"profile"`
	Best      float64 `json:"best"`
	Average   float64 `json:"average"`
	Sequences int     `json:"sequences"`
	Top       string  `json:"top"` // first sequence's final items
	TimeMs    int64   `json:"time_ms"`
}

// PrintTable writes a fixed-width comparison table.
func PrintTable(w io.Writer, rows []ProfileRow) {
	fmt.Fprintf(w, "%-12s %8s %8s %5s %8s  %s\n", "Profile", "Best", "Average", "Seqs", "Time", "Final items")
	fmt.Fprintf(w, "%-12s %8s %8s %5s %8s  %s\n", "------------", "--------", "--------", "-----", "--------", "-----------")
	var totalMs int64
	for _, r := range rows {
		totalMs += r.TimeMs
		fmt.Fprintf(w, "%-12s %8.4f %8.4f %5d %7.1fs  %s\n",
			r.Profile, r.Best, r.Average, r.Sequences, float64(r.TimeMs)/1000, r.Top)
	}
	fmt.Fprintf(w, "%-12s %8s %8s %5s %8s\n", "------------", "--------", "--------", "-----", "--------")
	fmt.Fprintf(w, "%-12s %8s %8s %5s %7.1fs\n", "TOTAL", "", "", "", float64(totalMs)/1000)
}

// FormatItems lists items as "name  Display Name  cost  components".
func FormatItems(items []*catalog.Item) string {
	var b strings.Builder
	for _, it := range items {
		fmt.Fprintf(&b, "%-24s %-24s %6d", it.Name, it.Label(), it.Cost)
		if it.IsUpgraded() {
			fmt.Fprintf(&b, "  %s", styles.Muted.Render(strings.Join(it.Components, " + ")))
		}
		b.WriteString("\n")
	}
	return b.String()
}
