// Package loadout turns a chosen item subset into a priced, stat-valued equipment state.
package loadout

import (
	"sort"
	"strings"

	"github.com/FraserHum/dota-chop-shop-sub001/internal/catalog"
)

// Loadout is the equipment held at one checkpoint: assembled items plus any
// pool components no assembly consumed. Leftovers add to InvestedCost but
// never count toward item limits.
type Loadout struct {
	Items     []*catalog.Item
	Leftovers []*catalog.Item

	Stats map[string]float64

	Cost          int // assembled items only
	LeftoverValue int
	InvestedCost  int // Cost + LeftoverValue
	StatValue     float64
	Efficiency    float64 // StatValue per invested gold
}

// ItemCount is the slot usage of the loadout; leftovers are excluded.
func (l *Loadout) ItemCount() int {
	if l == nil {
		return 0
	}
	return len(l.Items)
}

// Names returns the assembled item names in order.
func (l *Loadout) Names() []string {
	if l == nil {
		return nil
	}
	return catalog.Names(l.Items)
}

// LeftoverNames returns the leftover component names in order.
func (l *Loadout) LeftoverNames() []string {
	if l == nil {
		return nil
	}
	return catalog.Names(l.Leftovers)
}

// Has reports whether an item with the given internal name is assembled.
func (l *Loadout) Has(name string) bool {
	if l == nil {
		return false
	}
	for _, it := range l.Items {
		if it.Name == name {
			return true
		}
	}
	return false
}

// Breakdown lists the components the loadout decomposes into: each item's
// declared components (or the item itself when it has none), then leftovers.
func (l *Loadout) Breakdown() []string {
	if l == nil {
		return nil
	}
	var out []string
	for _, it := range l.Items {
		if it.IsUpgraded() {
			out = append(out, it.Components...)
		} else {
			out = append(out, it.Name)
		}
	}
	return append(out, l.LeftoverNames()...)
}

// Key is an order-insensitive identity for deduplication.
func (l *Loadout) Key() string {
	items := l.Names()
	left := l.LeftoverNames()
	sort.Strings(items)
	sort.Strings(left)
	return strings.Join(items, ",") + "|" + strings.Join(left, ",")
}

// Builder assembles loadouts priced with a fixed stat valuation.
type Builder struct {
	valuation catalog.Valuation
}

// NewBuilder returns a Builder using v for stat values.
func NewBuilder(v catalog.Valuation) *Builder {
	return &Builder{valuation: v}
}

// Build combines items with leftover pool components. Leftovers are priced at
// catalog value; their stats still count since they are held.
func (b *Builder) Build(items, leftovers []*catalog.Item) *Loadout {
	l := &Loadout{
		Items:     append([]*catalog.Item(nil), items...),
		Leftovers: append([]*catalog.Item(nil), leftovers...),
		Stats:     make(map[string]float64),
	}
	for _, it := range l.Items {
		l.Cost += it.Cost
		addStats(l.Stats, it)
	}
	for _, it := range l.Leftovers {
		l.LeftoverValue += it.Cost
		addStats(l.Stats, it)
	}
	l.InvestedCost = l.Cost + l.LeftoverValue
	l.StatValue = b.valuation.Value(l.Stats)
	if l.InvestedCost > 0 {
		l.Efficiency = l.StatValue / float64(l.InvestedCost)
	}
	return l
}

func addStats(dst map[string]float64, it *catalog.Item) {
	for k, v := range it.Stats {
		dst[k] += v
	}
	for k, v := range it.AuraStats {
		dst[k] += v
	}
}
