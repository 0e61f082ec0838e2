// Package catalog holds the item catalog the search engine prices and assembles against.
package catalog

// BootsName is the internal name of the baseline footwear component.
const BootsName = "boots"

// Item is a purchasable catalog entry. Items are immutable once loaded.
type Item struct {
	ID          int
	Name        string // internal name, e.g. "phase_boots"
	DisplayName string // e.g. "Phase Boots"
	Cost        int

	Stats     map[string]float64
	AuraStats map[string]float64

	// Components lists declared sub-item names. Recipe gold is the gap between
	// Cost and the components' combined cost and never appears here.
	Components []string

	IsComponent  bool // nothing assembles into it from parts
	IsConsumable bool
}

// IsUpgraded reports whether the item is assembled from components.
func (it *Item) IsUpgraded() bool {
	return len(it.Components) > 0
}

// Label returns the display name, falling back to the internal name.
func (it *Item) Label() string {
	if it.DisplayName != "" {
		return it.DisplayName
	}
	return it.Name
}

// Names maps items to their internal names.
func Names(items []*Item) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.Name
	}
	return out
}
