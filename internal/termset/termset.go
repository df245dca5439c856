// Package termset implements fixed-capacity bit sets of terminal indexes.
package termset

import (
	"math/bits"
)

const wordBits = 64

// Set is a set of non-negative ints below the capacity given to New.
// The zero value is an empty set of zero capacity.
type Set struct {
	words []uint64
}

// New creates an empty set able to hold items in range [0, capacity).
func New(capacity int) Set {
	return Set{make([]uint64, (capacity+wordBits-1)/wordBits)}
}

// Add adds item and reports whether the set has changed.
// Panics if item is out of capacity.
func (s Set) Add(item int) bool {
	w, b := item/wordBits, uint64(1)<<(item%wordBits)
	if s.words[w]&b != 0 {
		return false
	}
	s.words[w] |= b
	return true
}

// Has reports whether item belongs to the set. Out of range items never do.
func (s Set) Has(item int) bool {
	if item < 0 || item/wordBits >= len(s.words) {
		return false
	}
	return s.words[item/wordBits]&(1<<(item%wordBits)) != 0
}

// Union adds all items of o and reports whether the set has changed.
// o must not be larger than s.
func (s Set) Union(o Set) bool {
	changed := false
	for i, w := range o.words {
		if n := s.words[i] | w; n != s.words[i] {
			s.words[i] = n
			changed = true
		}
	}
	return changed
}

func (s Set) Len() int {
	n := 0
	for _, w := range s.words {
		n += bits.OnesCount64(w)
	}
	return n
}

// Items returns set items in increasing order.
func (s Set) Items() []int {
	res := make([]int, 0, s.Len())
	for i, w := range s.words {
		for w != 0 {
			b := bits.TrailingZeros64(w)
			res = append(res, i*wordBits+b)
			w &= w - 1
		}
	}
	return res
}

// Copy returns an independent copy of the set.
func (s Set) Copy() Set {
	words := make([]uint64, len(s.words))
	copy(words, s.words)
	return Set{words}
}
