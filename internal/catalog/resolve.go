package catalog

import (
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"
)

// MatchKind records which rule resolved a name.
type MatchKind int

const (
	MatchNone MatchKind = iota
	MatchName
	MatchDisplayName
	MatchCaseInsensitive
	MatchSubstring
)

func (k MatchKind) String() string {
	switch k {
	case MatchName:
		return "name"
	case MatchDisplayName:
		return "display_name"
	case MatchCaseInsensitive:
		return "case_insensitive"
	case MatchSubstring:
		return "substring"
	default:
		return "none"
	}
}

// Resolve finds the item a user-supplied name refers to. Rules apply in
// priority order: exact internal name, exact display name, case-insensitive
// match of either, then case-insensitive substring of either. Among several
// substring hits the first in catalog order wins.
func Resolve(a Accessor, query string) (*Item, MatchKind) {
	q := strings.TrimSpace(query)
	if q == "" {
		return nil, MatchNone
	}
	items := a.Items()
	for _, it := range items {
		if it.Name == q {
			return it, MatchName
		}
	}
	for _, it := range items {
		if it.DisplayName == q {
			return it, MatchDisplayName
		}
	}
	lq := strings.ToLower(q)
	for _, it := range items {
		if strings.ToLower(it.Name) == lq || strings.ToLower(it.DisplayName) == lq {
			return it, MatchCaseInsensitive
		}
	}
	for _, it := range items {
		if strings.Contains(strings.ToLower(it.Name), lq) ||
			strings.Contains(strings.ToLower(it.DisplayName), lq) {
			return it, MatchSubstring
		}
	}
	return nil, MatchNone
}

// Suggest returns up to n catalog names closest to query by edit distance,
// compared against both internal and display names.
func Suggest(a Accessor, query string, n int) []string {
	lq := strings.ToLower(strings.TrimSpace(query))
	if lq == "" || n <= 0 {
		return nil
	}
	limit := distanceLimit(len(lq))

	type hit struct {
		name string
		dist int
	}
	var hits []hit
	for _, it := range a.Items() {
		best := levenshtein.ComputeDistance(lq, strings.ToLower(it.Name))
		if it.DisplayName != "" {
			if d := levenshtein.ComputeDistance(lq, strings.ToLower(it.DisplayName)); d < best {
				best = d
			}
		}
		if best <= limit {
			hits = append(hits, hit{it.Name, best})
		}
	}
	sort.SliceStable(hits, func(i, j int) bool {
		if hits[i].dist == hits[j].dist {
			return hits[i].name < hits[j].name
		}
		return hits[i].dist < hits[j].dist
	})
	if len(hits) > n {
		hits = hits[:n]
	}
	out := make([]string, len(hits))
	for i, h := range hits {
		out[i] = h.name
	}
	return out
}

func distanceLimit(length int) int {
	switch {
	case length <= 4:
		return 1
	case length <= 8:
		return 2
	default:
		return 3
	}
}
