package catalog

import (
	"strings"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
)

const valueCacheSize = 4096

// Accessor is the read surface the engine consumes.
type Accessor interface {
	Items() []*Item
	Lookup(name string) (*Item, bool)
	Upgraded() []*Item
	ComponentValue(names []string) int
	BaseComponents(item *Item) []*Item
	RecipeCost(item *Item) int
	IsFootwear(item *Item) bool
}

// Catalog is an in-memory Accessor. Lookups are read-only; the memo caches are
// safe for concurrent runs sharing one catalog.
type Catalog struct {
	items     []*Item
	byName    map[string]*Item
	byDisplay map[string]*Item
	upgraded  []*Item

	mu        sync.Mutex
	baseCache map[*Item][]*Item // keyed by identity, lives as long as the catalog

	valueCache *lru.Cache[string, int]
}

// New indexes items in the given order. Later duplicates of an internal name are dropped.
func New(items []*Item) *Catalog {
	c := &Catalog{
		byName:    make(map[string]*Item, len(items)),
		byDisplay: make(map[string]*Item, len(items)),
		baseCache: make(map[*Item][]*Item),
	}
	// lru.New only fails for a non-positive size
	c.valueCache, _ = lru.New[string, int](valueCacheSize)

	for _, it := range items {
		if it == nil || it.Name == "" {
			continue
		}
		if _, dup := c.byName[it.Name]; dup {
			continue
		}
		c.items = append(c.items, it)
		c.byName[it.Name] = it
		if it.DisplayName != "" {
			if _, dup := c.byDisplay[it.DisplayName]; !dup {
				c.byDisplay[it.DisplayName] = it
			}
		}
		if it.IsUpgraded() {
			c.upgraded = append(c.upgraded, it)
		}
	}
	return c
}

// Items returns every item in load order.
func (c *Catalog) Items() []*Item { return c.items }

// Upgraded returns the multi-component items in load order.
func (c *Catalog) Upgraded() []*Item { return c.upgraded }

// Len returns the number of indexed items.
func (c *Catalog) Len() int { return len(c.items) }

// Lookup finds an item by internal name, then by exact display name.
func (c *Catalog) Lookup(name string) (*Item, bool) {
	if it, ok := c.byName[name]; ok {
		return it, true
	}
	it, ok := c.byDisplay[name]
	return it, ok
}

// Cost returns the catalog price of a named item, 0 when unknown.
func (c *Catalog) Cost(name string) int {
	if it, ok := c.byName[name]; ok {
		return it.Cost
	}
	return 0
}

// ComponentValue returns the total catalog price of the named components.
// Unknown names contribute nothing.
func (c *Catalog) ComponentValue(names []string) int {
	if len(names) == 0 {
		return 0
	}
	key := strings.Join(names, "\x00")
	if v, ok := c.valueCache.Get(key); ok {
		return v
	}
	total := 0
	for _, n := range names {
		total += c.Cost(n)
	}
	c.valueCache.Add(key, total)
	return total
}

// RecipeCost returns the gold an assembled item costs beyond its components.
func (c *Catalog) RecipeCost(item *Item) int {
	if item == nil || !item.IsUpgraded() {
		return 0
	}
	r := item.Cost - c.ComponentValue(item.Components)
	if r < 0 {
		return 0
	}
	return r
}

// BaseComponents fully expands an item into its leaf components. A leaf item
// expands to itself. The returned slice is memoized per item and the same
// slice is returned on every call; callers must not modify it.
func (c *Catalog) BaseComponents(item *Item) []*Item {
	if item == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.expandLocked(item, 0)
}

// maxExpandDepth guards against cyclic component data.
const maxExpandDepth = 16

func (c *Catalog) expandLocked(item *Item, depth int) []*Item {
	if cached, ok := c.baseCache[item]; ok {
		return cached
	}
	var out []*Item
	if !item.IsUpgraded() || depth >= maxExpandDepth {
		out = []*Item{item}
	} else {
		for _, name := range item.Components {
			sub, ok := c.byName[name]
			if !ok {
				continue
			}
			out = append(out, c.expandLocked(sub, depth+1)...)
		}
	}
	c.baseCache[item] = out
	return out
}

// IsFootwear reports whether the item is boots or is built from boots.
func (c *Catalog) IsFootwear(item *Item) bool {
	if item == nil {
		return false
	}
	if item.Name == BootsName {
		return true
	}
	for _, base := range c.BaseComponents(item) {
		if base.Name == BootsName {
			return true
		}
	}
	return false
}
