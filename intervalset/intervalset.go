// Package intervalset implements a normalised union of closed intervals
// over an alphabet.Code domain, the representation character-class nodes
// use internally.
package intervalset

import (
	"strings"

	"github.com/coregx/opgraph/alphabet"
)

// Interval is a closed range [Lo, Hi] over an alphabet's code space.
type Interval struct {
	Lo, Hi alphabet.Code
}

// Set is an ordered sequence of disjoint, non-merge-adjacent intervals,
// sorted by Lo. Two intervals are merge-adjacent when there is no code
// between them according to the alphabet's ordering.
type Set struct {
	alphabet   alphabet.Alphabet
	intervals  []Interval
}

// New creates an empty interval set over the given alphabet.
func New(a alphabet.Alphabet) *Set {
	return &Set{alphabet: a}
}

// Intervals returns the set's intervals in sorted, normalised order. The
// returned slice must not be mutated by the caller.
func (s *Set) Intervals() []Interval {
	return s.intervals
}

// Len reports the number of disjoint intervals currently stored.
func (s *Set) Len() int {
	return len(s.intervals)
}

// mergeAdjacent reports whether b immediately follows a with no alphabet
// code between them (so [a.Lo,a.Hi] and [b.Lo,b.Hi] should be merged into
// one interval rather than kept separate).
func (s *Set) mergeAdjacent(aHi, bLo alphabet.Code) bool {
	if bLo <= aHi {
		return true // overlap
	}
	after, ok := s.alphabet.After(aHi)
	return ok && after == bLo
}

// Insert adds [lo, hi] to the set, merging it with any overlapping or
// adjacent intervals already present. Insertion is order-independent: the
// resulting set is identical regardless of the order intervals are
// inserted in (property required by spec.md §8's round-trip test).
//
// This is an O(n) scan per insert, acceptable because character classes
// are bounded in pattern size (spec.md §4.2).
func (s *Set) Insert(lo, hi alphabet.Code) {
	if hi < lo {
		lo, hi = hi, lo
	}
	merged := Interval{Lo: lo, Hi: hi}
	out := make([]Interval, 0, len(s.intervals)+1)
	placed := false

	for _, cur := range s.intervals {
		if placed {
			// merged has already been placed; every remaining interval is
			// already known disjoint from it and from each other.
			out = append(out, cur)
			continue
		}
		switch {
		case cur.Hi < merged.Lo && !s.mergeAdjacent(cur.Hi, merged.Lo):
			// cur ends strictly before merged begins, with a real gap: keep cur.
			out = append(out, cur)
		case merged.Hi < cur.Lo && !s.mergeAdjacent(merged.Hi, cur.Lo):
			// merged ends strictly before cur begins, with a real gap: place
			// merged now, then keep cur and everything after untouched.
			out = append(out, merged, cur)
			placed = true
		default:
			// Overlap or adjacency: absorb cur into merged and keep scanning,
			// since a later interval may also need absorbing.
			if cur.Lo < merged.Lo {
				merged.Lo = cur.Lo
			}
			if cur.Hi > merged.Hi {
				merged.Hi = cur.Hi
			}
		}
	}
	if !placed {
		out = append(out, merged)
	}
	s.intervals = out
}

// Contains reports whether code is a member of any stored interval,
// using binary search on the sorted upper bounds.
func (s *Set) Contains(code alphabet.Code) bool {
	lo, hi := 0, len(s.intervals)-1
	for lo <= hi {
		mid := (lo + hi) / 2
		iv := s.intervals[mid]
		switch {
		case code < iv.Lo:
			hi = mid - 1
		case code > iv.Hi:
			lo = mid + 1
		default:
			return true
		}
	}
	return false
}

// String renders each interval as "c", "cd", or "c-d" using the alphabet's
// display form, concatenating the results. This doubles as the hash key
// used for character-class deduplication elsewhere in the graph.
func (s *Set) String() string {
	var b strings.Builder
	for _, iv := range s.intervals {
		lo := s.alphabet.CodeToChar(iv.Lo)
		hi := s.alphabet.CodeToChar(iv.Hi)
		if iv.Lo == iv.Hi {
			b.WriteString(s.alphabet.Display(lo))
		} else if next, ok := s.alphabet.After(iv.Lo); ok && next == iv.Hi {
			b.WriteString(s.alphabet.Display(lo))
			b.WriteString(s.alphabet.Display(hi))
		} else {
			b.WriteString(s.alphabet.Display(lo))
			b.WriteByte('-')
			b.WriteString(s.alphabet.Display(hi))
		}
	}
	return b.String()
}

// Equal reports whether two sets render to the same display string, which
// spec.md §8 uses as the definition of interval-set equality.
func Equal(a, b *Set) bool {
	return a.String() == b.String()
}
