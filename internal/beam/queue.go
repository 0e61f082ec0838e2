// Package beam keeps the top-K scored candidates of a search step.
package beam

import (
	"container/heap"
	"math"
	"slices"
)

// Ranked pairs a value with its score.
type Ranked[T any] struct {
	Value T
	Score float64
	order uint64
}

// minHeap holds the current worst entry at the root. On equal scores the
// later insertion ranks lower, so earlier candidates survive ties.
type minHeap[T any] []Ranked[T]

func (h minHeap[T]) Len() int { return len(h) }
func (h minHeap[T]) Less(i, j int) bool {
	if h[i].Score != h[j].Score {
		return h[i].Score < h[j].Score
	}
	return h[i].order > h[j].order
}
func (h minHeap[T]) Swap(i, j int) { h[i], h[j] = h[j], h[i] }
func (h *minHeap[T]) Push(x any)   { *h = append(*h, x.(Ranked[T])) }
func (h *minHeap[T]) Pop() any {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[:n-1]
	return x
}

// Queue retains at most k entries. It is not safe for concurrent use.
type Queue[T any] struct {
	cap  int
	h    minHeap[T]
	next uint64
}

// New returns a queue keeping the best k entries. k < 1 keeps nothing.
func New[T any](k int) *Queue[T] {
	q := &Queue[T]{cap: max(k, 0)}
	q.h = make(minHeap[T], 0, min(q.cap, 1024))
	return q
}

// Push offers v. When full, v replaces the lowest entry only if it scores
// strictly higher. A NaN score ranks below every number. It reports whether
// v was kept.
func (q *Queue[T]) Push(v T, score float64) bool {
	if q.cap == 0 {
		return false
	}
	score = rank(score)
	r := Ranked[T]{Value: v, Score: score, order: q.next}
	q.next++
	if len(q.h) < q.cap {
		heap.Push(&q.h, r)
		return true
	}
	if score <= q.h[0].Score {
		return false
	}
	q.h[0] = r
	heap.Fix(&q.h, 0)
	return true
}

// Accepts reports whether Push would keep an entry with this score.
func (q *Queue[T]) Accepts(score float64) bool {
	if q.cap == 0 {
		return false
	}
	return len(q.h) < q.cap || rank(score) > q.h[0].Score
}

// rank maps NaN to -Inf so the heap keeps a total order.
func rank(score float64) float64 {
	if math.IsNaN(score) {
		return math.Inf(-1)
	}
	return score
}

// Len is the number of retained entries.
func (q *Queue[T]) Len() int { return len(q.h) }

// Ranked returns the entries best first; ties keep insertion order. The queue is unchanged.
func (q *Queue[T]) Ranked() []Ranked[T] {
	out := slices.Clone(q.h)
	slices.SortFunc(out, func(a, b Ranked[T]) int {
		switch {
		case a.Score > b.Score:
			return -1
		case a.Score < b.Score:
			return 1
		case a.order < b.order:
			return -1
		case a.order > b.order:
			return 1
		}
		return 0
	})
	return out
}

// Values returns the retained values best first.
func (q *Queue[T]) Values() []T {
	ranked := q.Ranked()
	out := make([]T, len(ranked))
	for i, r := range ranked {
		out[i] = r.Value
	}
	return out
}
