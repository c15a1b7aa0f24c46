// Package chunk splits slices into contiguous, order-preserving groups.
package chunk

import (
	"fmt"
	"iter"
)

// Of returns a sequence of consecutive sub-slices of s, each of length n
// except possibly the last. The sequence may be ranged over more than once.
// Yielded slices share s's backing array and are capped to their length.
//
// Of panics if n is less than 1.
func Of[T any](s []T, n int) iter.Seq[[]T] {
	if n < 1 {
		panic(fmt.Sprintf("chunk: size must be positive, got %d", n))
	}

	return func(yield func([]T) bool) {
		for start := 0; start < len(s); start += n {
			end := min(start+n, len(s))
			if !yield(s[start:end:end]) {
				return
			}
		}
	}
}

// Count returns the number of groups Of yields for a slice of length l.
func Count(l, n int) int {
	if n < 1 {
		panic(fmt.Sprintf("chunk: size must be positive, got %d", n))
	}
	return (l + n - 1) / n
}
