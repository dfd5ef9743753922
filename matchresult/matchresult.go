// Package matchresult defines the value returned by a successful match: a
// snapshot of the whole-match span plus every capturing group's span, with
// accessors keyed by index or by name.
package matchresult

import (
	"fmt"
	"strconv"

	"github.com/coregx/opgraph/groups"
)

// Match is an immutable snapshot of one successful match against one input.
// Engines produce a Match by copying out of their live groups.Captures once
// a Match node is reached; the Match itself never refers back to engine
// state.
//
// Spans are offsets into the rune sequence of the input, not byte offsets:
// every engine in this module walks input as []rune so that a capture
// boundary never lands inside a multi-byte UTF-8 sequence.
type Match struct {
	runes []rune
	spans []groups.Span
	last  int
	names map[string]int // group name -> index, shared read-only with the compiled pattern
}

// New builds a Match from a finished capture set. input is the full subject
// string the spans index into; names is the compiled pattern's group-name
// table (not copied — callers must not mutate it after Compile).
func New(input string, captures *groups.Captures, names map[string]int) *Match {
	spans := make([]groups.Span, captures.Len())
	for i := range spans {
		spans[i] = captures.Span(i)
	}
	return &Match{runes: []rune(input), spans: spans, last: captures.Last(), names: names}
}

// resolve maps a group reference (int, or name as any other type) to an
// index, mirroring the teacher's group(id) overload that accepts either.
func (m *Match) resolve(ref any) (int, error) {
	switch v := ref.(type) {
	case int:
		if v < 0 || v >= len(m.spans) {
			return 0, fmt.Errorf("matchresult: no such group %d", v)
		}
		return v, nil
	case string:
		idx, ok := m.names[v]
		if !ok {
			return 0, fmt.Errorf("matchresult: no such group %q", v)
		}
		return idx, nil
	default:
		return 0, fmt.Errorf("matchresult: invalid group reference %v", ref)
	}
}

// Group returns the substring captured by group ref (an int index or a
// string name), or ok=false if that group did not participate in the
// match.
func (m *Match) Group(ref any) (string, bool) {
	idx, err := m.resolve(ref)
	if err != nil {
		return "", false
	}
	sp := m.spans[idx]
	if sp.Unset() {
		return "", false
	}
	return string(m.runes[sp.Start:sp.End]), true
}

// Span returns the [start,end) rune offsets of group ref, or (-1,-1) if it
// did not participate.
func (m *Match) Span(ref any) (int, int) {
	idx, err := m.resolve(ref)
	if err != nil {
		return -1, -1
	}
	sp := m.spans[idx]
	if sp.Unset() {
		return -1, -1
	}
	return sp.Start, sp.End
}

// Start returns the start offset of group ref, or -1.
func (m *Match) Start(ref any) int { s, _ := m.Span(ref); return s }

// End returns the end offset of group ref, or -1.
func (m *Match) End(ref any) int { _, e := m.Span(ref); return e }

// LastIndex returns the index of the most recently closed group, or -1 if
// no group beyond the whole match participated.
func (m *Match) LastIndex() int { return m.last }

// Groups returns every capturing group (excluding group 0) in index order,
// substituting def for any group that did not participate.
func (m *Match) Groups(def string) []string {
	out := make([]string, 0, len(m.spans)-1)
	for i := 1; i < len(m.spans); i++ {
		sp := m.spans[i]
		if sp.Unset() {
			out = append(out, def)
			continue
		}
		out = append(out, string(m.runes[sp.Start:sp.End]))
	}
	return out
}

// GroupDict returns a name->substring map over every named group,
// substituting def for groups that did not participate. Groups that were
// never given an explicit name are omitted.
func (m *Match) GroupDict(def string) map[string]string {
	out := make(map[string]string, len(m.names))
	for name, idx := range m.names {
		if _, err := strconv.Atoi(name); err == nil {
			continue // unnamed group, bound under its decimal index
		}
		sp := m.spans[idx]
		if sp.Unset() {
			out[name] = def
			continue
		}
		out[name] = string(m.runes[sp.Start:sp.End])
	}
	return out
}

// String returns the whole match (group 0), the string a bare fmt.Println
// of a Match should show.
func (m *Match) String() string {
	s, _ := m.Group(0)
	return s
}
