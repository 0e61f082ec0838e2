// Package combo lazily enumerates subsets of a candidate pool.
//
// Subsets are produced in prefix order by an explicit index stack: a subset is
// tested as soon as its last element is pushed, and a failing Prune stops the
// walk from extending it. Nothing is materialized beyond the current subset.
package combo

import (
	"iter"
	"slices"
)

// Options control one walk.
type Options[T any] struct {
	// MaxSize bounds subset length. Values < 1 yield nothing.
	MaxSize int

	// Prune is checked on every subset before it is yielded or extended.
	// It must be monotone: once false for a subset, false for every superset
	// built by appending. nil accepts all.
	Prune func(subset []T) bool

	// Accept filters yielded subsets without stopping extension. nil accepts all.
	Accept func(subset []T) bool

	// OnTest is called once per tested subset, pruned or not.
	OnTest func()
}

// Subsets yields every non-empty subset of pool with at most MaxSize elements,
// preserving pool order inside each subset. Yielded slices are copies.
func Subsets[T any](pool []T, opts Options[T]) iter.Seq[[]T] {
	return func(yield func([]T) bool) {
		walk(nil, pool, opts.MaxSize, opts, yield)
	}
}

// WithRequired yields required on its own and then required extended by up to
// MaxSize-len(required) elements of pool. pool should not repeat required
// elements. If required is empty this behaves like Subsets.
func WithRequired[T any](required, pool []T, opts Options[T]) iter.Seq[[]T] {
	return func(yield func([]T) bool) {
		if len(required) == 0 {
			walk(nil, pool, opts.MaxSize, opts, yield)
			return
		}
		if len(required) > opts.MaxSize {
			return
		}
		base := slices.Clone(required)
		if opts.OnTest != nil {
			opts.OnTest()
		}
		if opts.Prune != nil && !opts.Prune(base) {
			return
		}
		if opts.Accept == nil || opts.Accept(base) {
			if !yield(slices.Clone(base)) {
				return
			}
		}
		walk(base, pool, opts.MaxSize, opts, yield)
	}
}

// walk extends base with combinations of pool. It reports false when the
// consumer stopped early.
func walk[T any](base, pool []T, maxSize int, opts Options[T], yield func([]T) bool) bool {
	if maxSize <= len(base) {
		return true
	}
	cur := make([]T, len(base), maxSize)
	copy(cur, base)
	idx := make([]int, 0, maxSize-len(base))

	next := 0
	for {
		if next < len(pool) && len(cur) < maxSize {
			idx = append(idx, next)
			cur = append(cur, pool[next])
			if opts.OnTest != nil {
				opts.OnTest()
			}
			if opts.Prune != nil && !opts.Prune(cur) {
				// drop this element and try its sibling
				idx = idx[:len(idx)-1]
				cur = cur[:len(cur)-1]
				next++
				continue
			}
			if opts.Accept == nil || opts.Accept(cur) {
				if !yield(slices.Clone(cur)) {
					return false
				}
			}
			next++
			continue
		}
		if len(idx) == 0 {
			return true
		}
		last := idx[len(idx)-1]
		idx = idx[:len(idx)-1]
		cur = cur[:len(cur)-1]
		next = last + 1
	}
}

// AtMostOne is a monotone prune allowing at most one element matching pred.
func AtMostOne[T any](pred func(T) bool) func([]T) bool {
	return func(subset []T) bool {
		seen := 0
		for _, v := range subset {
			if pred(v) {
				seen++
				if seen > 1 {
					return false
				}
			}
		}
		return true
	}
}

// Within is a monotone prune keeping the sum of non-negative weights at or below limit.
func Within[T any](weight func(T) int, limit int) func([]T) bool {
	return func(subset []T) bool {
		total := 0
		for _, v := range subset {
			if w := weight(v); w > 0 {
				total += w
			}
		}
		return total <= limit
	}
}

// All joins predicates with logical AND. nil entries are skipped.
func All[T any](preds ...func([]T) bool) func([]T) bool {
	return func(subset []T) bool {
		for _, p := range preds {
			if p != nil && !p(subset) {
				return false
			}
		}
		return true
	}
}
