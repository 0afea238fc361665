// Package inversion counts inverted pairs of a sequence with a divide and
// conquer merge sort.
//
// A pair (i, j) is inverted when i < j and v[i] > v[j]. Equal values are
// never inverted. Counting sorts the sequence ascending in place.
package inversion

import (
	"fmt"

	"github.com/okian/simrank/internal/domain/model"
)

// MaxLen is the longest sequence the counter accepts. Up to this length
// n(n-1)/2 fits in the uint64 accumulator with room to spare.
const MaxLen uint64 = 1 << 32

// Counter owns a scratch buffer reused across calls. A Counter is not safe for
// concurrent use; give each worker its own.
type Counter struct {
	scratch []uint32
}

// NewCounter returns a Counter with an empty scratch buffer.
func NewCounter() *Counter {
	return &Counter{}
}

// Count returns the number of inverted pairs in values and leaves values
// sorted ascending.
func (c *Counter) Count(values []uint32) (uint64, error) {
	if uint64(len(values)) > MaxLen {
		return 0, fmt.Errorf("%w: sequence of %d values exceeds %d", model.ErrOverflow, len(values), MaxLen)
	}
	if cap(c.scratch) < len(values) {
		c.scratch = make([]uint32, len(values))
	}
	return sortAndCount(values, c.scratch[:len(values)]), nil
}

// Count is a convenience wrapper around a throwaway Counter.
func Count(values []uint32) (uint64, error) {
	return NewCounter().Count(values)
}

// sortAndCount sorts a and returns its inversions. buf has the length of a.
func sortAndCount(a, buf []uint32) uint64 {
	n := len(a)
	if n <= 1 {
		return 0
	}
	mid := n / 2
	left := sortAndCount(a[:mid], buf[:mid])
	right := sortAndCount(a[mid:], buf[mid:])
	return left + right + mergeAndCount(a, mid, buf)
}

// mergeAndCount merges the sorted halves a[:mid] and a[mid:] and returns the
// split inversions: whenever a right element is emitted first, every left
// element still pending is greater than it.
func mergeAndCount(a []uint32, mid int, buf []uint32) uint64 {
	var split uint64
	i, j, k := 0, mid, 0
	for i < mid && j < len(a) {
		if a[i] <= a[j] {
			buf[k] = a[i]
			i++
		} else {
			buf[k] = a[j]
			j++
			split += uint64(mid - i)
		}
		k++
	}
	k += copy(buf[k:], a[i:mid])
	copy(buf[k:], a[j:])
	copy(a, buf)
	return split
}
