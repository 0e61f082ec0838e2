package scoring

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/FraserHum/dota-chop-shop-sub001/internal/loadout"
)

//go:embed utility.yaml
var defaultUtilityYAML []byte

// UtilityTable assigns each item a list of utility categories, each worth a
// fixed amount of gold.
type UtilityTable struct {
	Categories map[string]float64  `yaml:"categories"`
	Items      map[string][]string `yaml:"items"`
}

// ParseUtilityTable decodes a YAML table. Items may only name known categories.
func ParseUtilityTable(data []byte) (*UtilityTable, error) {
	var t UtilityTable
	if err := yaml.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("unmarshal utility table: %w", err)
	}
	for item, cats := range t.Items {
		for _, c := range cats {
			if _, ok := t.Categories[c]; !ok {
				return nil, fmt.Errorf("utility table: item %q names unknown category %q", item, c)
			}
		}
	}
	return &t, nil
}

// LoadUtilityTable reads a YAML table from disk.
func LoadUtilityTable(path string) (*UtilityTable, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return ParseUtilityTable(data)
}

// DefaultUtilityTable returns the built-in table.
func DefaultUtilityTable() *UtilityTable {
	t, err := ParseUtilityTable(defaultUtilityYAML)
	if err != nil {
		panic(err)
	}
	return t
}

// ItemValue sums the category values of one item.
func (t *UtilityTable) ItemValue(name string) float64 {
	total := 0.0
	for _, c := range t.Items[name] {
		total += t.Categories[c]
	}
	return total
}

// Value sums ItemValue over a loadout's assembled items.
func (t *UtilityTable) Value(l *loadout.Loadout) float64 {
	if l == nil {
		return 0
	}
	total := 0.0
	for _, it := range l.Items {
		total += t.ItemValue(it.Name)
	}
	return total
}
