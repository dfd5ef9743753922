// Package groups tracks capturing-group identity (assigned once, while a
// pattern is parsed) and capturing-group state (start/end offsets, bound
// fresh for every match attempt).
//
// The split mirrors the teacher's separation between compile-time state
// living on its builder and run-time state living on a per-search value:
// GroupState is built once by the parser, while Captures is allocated (or
// reset) once per Match/Search call and mutated by whichever engine runs.
package groups

import (
	"fmt"
	"strconv"
)

// GroupState assigns dense, 1-based indices to capturing groups as a
// pattern is parsed. Group 0 always denotes the whole match and is never
// allocated through NewIndex.
//
// Two naming modes are supported, named after the original parser's
// distinction: Strict mode (Python/PCRE-style `(?P<name>...)`) forbids
// numeric names and repeated names. Extended mode (used by patterns that
// allow `(?<1>...)` aliasing) allows a name to alias an already-taken
// index instead of erroring.
type GroupState struct {
	nameToIndex map[string]int
	indexToName map[int]string
}

// NewGroupState returns an empty group table; group 0 is implicit and not
// present in either map.
func NewGroupState() *GroupState {
	return &GroupState{
		nameToIndex: make(map[string]int),
		indexToName: make(map[int]string),
	}
}

// Count reports the number of named-or-numbered capturing groups allocated
// so far, not including the implicit group 0.
func (g *GroupState) Count() int {
	return len(g.indexToName)
}

// IndexForNameOrCount resolves a group reference token that may be either a
// decimal index or a name, as used by \g<name>, \1-style backreferences and
// (?P=name) syntax.
func (g *GroupState) IndexForNameOrCount(ref string) (int, error) {
	if n, err := strconv.Atoi(ref); err == nil {
		if _, ok := g.indexToName[n]; !ok {
			return 0, fmt.Errorf("groups: unknown group index %d", n)
		}
		return n, nil
	}
	idx, ok := g.nameToIndex[ref]
	if !ok {
		return 0, fmt.Errorf("groups: unknown group name %q", ref)
	}
	return idx, nil
}

func (g *GroupState) nextIndex() int {
	idx := 1
	for {
		if _, taken := g.indexToName[idx]; !taken {
			return idx
		}
		idx++
	}
}

// NewIndex allocates a fresh capturing-group index, optionally bound to
// name. In strict mode a numeric or repeated name is an error; in extended
// mode a name that already resolves to an index is returned as an alias of
// that index instead of erroring, and an unresolvable numeric name is
// adopted directly as the index.
func (g *GroupState) NewIndex(name string, extended bool) (int, error) {
	if extended {
		if name == "" {
			name = strconv.Itoa(g.nextIndex())
		}
		if idx, err := g.IndexForNameOrCount(name); err == nil {
			return idx, nil
		}
		idx, err := strconv.Atoi(name)
		if err != nil {
			idx = g.nextIndex()
		}
		g.bind(idx, name)
		return idx, nil
	}

	idx := g.nextIndex()
	if name != "" {
		if _, err := strconv.Atoi(name); err == nil {
			return 0, fmt.Errorf("groups: invalid group name %q", name)
		}
		if _, taken := g.nameToIndex[name]; taken {
			return 0, fmt.Errorf("groups: repeated group name %q", name)
		}
	} else {
		name = strconv.Itoa(idx)
	}
	g.bind(idx, name)
	return idx, nil
}

func (g *GroupState) bind(idx int, name string) {
	g.indexToName[idx] = name
	g.nameToIndex[name] = idx
}

// Name returns the name bound to idx, which is its decimal form when no
// explicit name was given.
func (g *GroupState) Name(idx int) (string, bool) {
	name, ok := g.indexToName[idx]
	return name, ok
}

// Names returns a copy of the name-to-index table, safe for the caller to
// retain (unlike the original's raw-map exposure, captures here are copied
// to avoid aliasing bugs from shared mutable state).
func (g *GroupState) Names() map[string]int {
	out := make(map[string]int, len(g.nameToIndex))
	for k, v := range g.nameToIndex {
		out[k] = v
	}
	return out
}

// Span is a half-open [Start, End) rune offset pair. An unset span has
// Start == -1.
type Span struct {
	Start, End int
}

// Unset reports whether the span was never bound during the match.
func (s Span) Unset() bool { return s.Start < 0 }

// Captures holds per-attempt capturing-group state: the most recent
// start/end span for every group, plus the index of the most recently
// closed numbered group (reported by matchresult.Match.LastIndex).
type Captures struct {
	spans []Span
	last  int
}

// NewCaptures allocates capture storage for a pattern with numGroups
// capturing groups (including implicit group 0).
func NewCaptures(numGroups int) *Captures {
	c := &Captures{spans: make([]Span, numGroups), last: -1}
	c.Reset()
	return c
}

// Reset clears every span back to unset, for reuse across FindAll/FindIter
// iterations without reallocating.
func (c *Captures) Reset() {
	for i := range c.spans {
		c.spans[i] = Span{Start: -1, End: -1}
	}
	c.last = -1
}

// StartGroup records the start offset of group idx.
func (c *Captures) StartGroup(idx, pos int) {
	c.spans[idx].Start = pos
}

// EndGroup records the end offset of group idx and, unless idx is 0 (the
// whole match), marks it the most recently closed group.
func (c *Captures) EndGroup(idx, pos int) {
	c.spans[idx].End = pos
	if idx != 0 {
		c.last = idx
	}
}

// Span returns the current span for group idx.
func (c *Captures) Span(idx int) Span {
	return c.spans[idx]
}

// Last returns the index of the most recently closed group other than
// group 0, or -1 if none has closed yet.
func (c *Captures) Last() int {
	return c.last
}

// Len reports the number of group slots (including group 0).
func (c *Captures) Len() int {
	return len(c.spans)
}

// Clone deep-copies the capture state, used by engines that need
// copy-on-write semantics across competing threads (parallel NFA) or
// checkpoint/restore semantics (backtracking).
func (c *Captures) Clone() *Captures {
	out := &Captures{spans: make([]Span, len(c.spans)), last: c.last}
	copy(out.spans, c.spans)
	return out
}
