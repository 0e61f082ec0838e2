package catalog

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
)

// ErrMalformed is returned when catalog data is not a JSON object.
var ErrMalformed = errors.New("catalog: malformed item data")

const recipePrefix = "recipe_"

// Parse decodes an OpenDota-style items document: a JSON object keyed by
// internal item name. Recipe entries are skipped because recipe gold is
// derived from the cost gap. Entries without a positive cost are skipped.
func Parse(data string) (*Catalog, error) {
	if !gjson.Valid(data) {
		return nil, ErrMalformed
	}
	root := gjson.Parse(data)
	if !root.IsObject() {
		return nil, ErrMalformed
	}

	var items []*Item
	root.ForEach(func(k, v gjson.Result) bool {
		if it := parseItem(k.String(), v); it != nil {
			items = append(items, it)
		}
		return true
	})
	return New(items), nil
}

// LoadFile reads and parses a catalog file.
func LoadFile(path string) (*Catalog, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	c, err := Parse(string(raw))
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return c, nil
}

func parseItem(name string, v gjson.Result) *Item {
	name = strings.TrimPrefix(name, "item_")
	if name == "" || strings.HasPrefix(name, recipePrefix) || !v.IsObject() {
		return nil
	}
	cost := int(v.Get("cost").Int())
	if cost <= 0 {
		return nil
	}

	it := &Item{
		ID:           int(v.Get("id").Int()),
		Name:         name,
		DisplayName:  v.Get("dname").String(),
		Cost:         cost,
		IsConsumable: v.Get("qual").String() == "consumable",
	}

	v.Get("components").ForEach(func(_, c gjson.Result) bool {
		cn := strings.TrimPrefix(c.String(), "item_")
		if cn != "" && !strings.HasPrefix(cn, recipePrefix) {
			it.Components = append(it.Components, cn)
		}
		return true
	})
	it.IsComponent = len(it.Components) == 0

	v.Get("attrib").ForEach(func(_, a gjson.Result) bool {
		key := a.Get("key").String()
		val, ok := attribValue(a.Get("value"))
		if key == "" || !ok {
			return true
		}
		switch {
		case strings.Contains(key, "aura"):
			if it.AuraStats == nil {
				it.AuraStats = make(map[string]float64)
			}
			stat := strings.TrimPrefix(strings.TrimPrefix(key, "aura_"), "bonus_")
			it.AuraStats[stat] += val
		case strings.HasPrefix(key, "bonus_"):
			if it.Stats == nil {
				it.Stats = make(map[string]float64)
			}
			it.Stats[strings.TrimPrefix(key, "bonus_")] += val
		}
		return true
	})
	return it
}

// attribValue reads a numeric attribute. Leveled values ("10 15 20") and
// arrays take the first level.
func attribValue(v gjson.Result) (float64, bool) {
	switch v.Type {
	case gjson.Number:
		return v.Float(), true
	case gjson.String:
		fields := strings.Fields(v.String())
		if len(fields) == 0 {
			return 0, false
		}
		f, err := strconv.ParseFloat(strings.TrimSuffix(fields[0], "%"), 64)
		if err != nil {
			return 0, false
		}
		return f, true
	case gjson.JSON:
		if v.IsArray() {
			arr := v.Array()
			if len(arr) > 0 {
				return attribValue(arr[0])
			}
		}
	}
	return 0, false
}
