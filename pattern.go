package opgraph

import (
	"errors"
	"fmt"
	"iter"
	"strings"

	"github.com/coregx/opgraph/alphabet"
	"github.com/coregx/opgraph/backtrack"
	"github.com/coregx/opgraph/dfalazy"
	"github.com/coregx/opgraph/groups"
	"github.com/coregx/opgraph/matchresult"
	"github.com/coregx/opgraph/parallel"
	"github.com/coregx/opgraph/prefilter"
)

// Pattern is a compiled pattern ready to match against input text, the
// root analogue of the teacher's Regex (_examples/coregx-coregex/regex.go)
// generalized to spec.md's four interchangeable engines.
type Pattern struct {
	source   string
	flags    Flag
	graph    *Graph
	groups   *groups.GroupState
	names    map[string]int
	alphabet alphabet.Alphabet
	cfg      Config
	pf       prefilter.Prefilter

	backtrack *backtrack.Engine
	parallel  *parallel.Engine
	dfa       *dfalazy.Engine
}

// unsupported reports whether err is an engine's synchronous signal that a
// pattern feature isn't implemented on it — the condition EngineAuto
// catches to retry on the backtracking engine.
func unsupported(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, dfalazy.ErrUnsupportedBackreference) || errors.Is(err, parallel.ErrUnsupportedBackreference) {
		return true
	}
	var uce *alphabet.UnsupportedClassError
	return errors.As(err, &uce)
}

// matchAt attempts an anchored match of input starting exactly at pos,
// returning the captures of the highest-priority match found there.
func (p *Pattern) matchAt(input []rune, pos int) (*groups.Captures, bool, error) {
	switch p.cfg.Engine {
	case EngineBacktrack:
		caps, _, ok := p.backtrack.Run(input, pos)
		return caps, ok, nil
	case EngineParallel:
		return p.matchAtParallel(input, pos)
	case EngineDFA:
		caps, _, ok, err := p.dfa.Run(input, pos)
		if err != nil {
			if unsupported(err) {
				return nil, false, &UnsupportedError{Feature: err.Error(), Engine: "DFA"}
			}
			return nil, false, err
		}
		return caps, ok, nil
	default: // EngineAuto
		caps, _, ok, err := p.dfa.Run(input, pos)
		if err != nil {
			if unsupported(err) {
				caps, _, ok = p.backtrack.Run(input, pos)
				return caps, ok, nil
			}
			return nil, false, err
		}
		return caps, ok, nil
	}
}

// matchAtParallel adapts the parallel engine's always-unanchored Run to an
// anchored attempt at pos: it runs the engine over input[pos:] (a pattern
// anchor like ^ or \b is therefore evaluated as if pos were the true start
// of text — a documented simplification, since the parallel engine family
// exposes no start-position parameter) and accepts the result only when
// the reported match begins at offset 0 of that slice.
func (p *Pattern) matchAtParallel(input []rune, pos int) (*groups.Captures, bool, error) {
	caps, _, ok, err := p.parallel.Run(input[pos:])
	if err != nil {
		return nil, false, &UnsupportedError{Feature: err.Error(), Engine: "Parallel"}
	}
	if !ok {
		return nil, false, nil
	}
	sp := caps.Span(0)
	if sp.Start != 0 {
		return nil, false, nil
	}
	return offsetCaptures(caps, pos), true, nil
}

// offsetCaptures rewrites every set span in caps by adding offset,
// preserving which group index was most recently closed.
func offsetCaptures(caps *groups.Captures, offset int) *groups.Captures {
	if offset == 0 {
		return caps
	}
	out := groups.NewCaptures(caps.Len())
	for i := 0; i < caps.Len(); i++ {
		sp := caps.Span(i)
		if sp.Unset() {
			continue
		}
		out.StartGroup(i, sp.Start+offset)
		out.EndGroup(i, sp.End+offset)
	}
	if last := caps.Last(); last >= 0 {
		sp := caps.Span(last)
		out.EndGroup(last, sp.End+offset)
	}
	return out
}

// toRunes converts text to the rune slice every engine operates on, taking
// an ASCII fast path when IsASCIIByteSlice confirms no byte has its high
// bit set: a byte-for-byte copy is materially cheaper than the general
// UTF-8 decode loop []rune(text) otherwise requires, and most patterns
// compiled against the ASCII alphabet spend their whole lifetime matching
// ASCII-only text.
func toRunes(text string) []rune {
	b := []byte(text)
	if !alphabet.IsASCIIByteSlice(b) {
		return []rune(text)
	}
	out := make([]rune, len(b))
	for i, c := range b {
		out[i] = rune(c)
	}
	return out
}

// clampRange normalizes pos/endpos against len(input), the way every
// method below bounds its (pos, endpos) window.
func clampRange(n, pos, endpos int) (int, int) {
	if pos < 0 {
		pos = 0
	}
	if pos > n {
		pos = n
	}
	if endpos < 0 || endpos > n {
		endpos = n
	}
	if endpos < pos {
		endpos = pos
	}
	return pos, endpos
}

func (p *Pattern) toMatch(input []rune, caps *groups.Captures) *matchresult.Match {
	return matchresult.New(string(input), caps, p.names)
}

// Match attempts an anchored match starting exactly at pos, not searching
// forward; endpos bounds how much of text is visible to the match (as if
// text were truncated there).
func (p *Pattern) Match(text string, pos, endpos int) (*matchresult.Match, bool, error) {
	full := toRunes(text)
	pos, endpos = clampRange(len(full), pos, endpos)
	caps, ok, err := p.matchAt(full[:endpos], pos)
	if err != nil || !ok {
		return nil, false, err
	}
	return p.toMatch(full, caps), true, nil
}

// Search finds the leftmost match starting anywhere in [pos, endpos).
func (p *Pattern) Search(text string, pos, endpos int) (*matchresult.Match, bool, error) {
	full := toRunes(text)
	pos, endpos = clampRange(len(full), pos, endpos)
	window := full[:endpos]

	if p.cfg.Engine == EngineParallel {
		for i := pos; i <= endpos; i++ {
			if p.pf != nil {
				hit := p.pf.Find(window, i)
				if hit < 0 {
					return nil, false, nil
				}
				i = hit
			}
			caps, ok, err := p.matchAtParallel(window, i)
			if err != nil {
				return nil, false, err
			}
			if ok {
				return p.toMatch(full, caps), true, nil
			}
		}
		return nil, false, nil
	}

	for i := pos; i <= endpos; i++ {
		if p.pf != nil {
			hit := p.pf.Find(window, i)
			if hit < 0 {
				return nil, false, nil
			}
			i = hit
			if p.pf.IsComplete() {
				caps := groups.NewCaptures(p.graph.NumGroups)
				caps.StartGroup(0, i)
				caps.EndGroup(0, i+p.pf.LiteralLen())
				return p.toMatch(full, caps), true, nil
			}
		}
		caps, ok, err := p.matchAt(window, i)
		if err != nil {
			return nil, false, err
		}
		if ok {
			return p.toMatch(full, caps), true, nil
		}
	}
	return nil, false, nil
}

// FindIter lazily yields every non-overlapping match in [pos, endpos), left
// to right: a match that consumed input resumes the scan at its end, and a
// zero-length match resumes one position later so the scan always makes
// progress. This is the "not-touching" scan spec.md's finditer describes —
// it never reports the same boundary twice, but does not suppress a
// zero-length match that happens to immediately follow a non-zero-length
// one (findall("x*", "abxd") is required to report the empty match right
// after the "x", per spec.md's own worked example).
func (p *Pattern) FindIter(text string, pos, endpos int) iter.Seq[*matchresult.Match] {
	return func(yield func(*matchresult.Match) bool) {
		full := toRunes(text)
		pos, endpos = clampRange(len(full), pos, endpos)

		at := pos
		for at <= endpos {
			m, ok, err := p.Search(text, at, endpos)
			if err != nil || !ok {
				return
			}
			start, end := m.Span(0)
			if !yield(m) {
				return
			}
			if end == start {
				at = end + 1
			} else {
				at = end
			}
		}
	}
}

// FindAll collects every match FindIter would yield into a slice.
func (p *Pattern) FindAll(text string, pos, endpos int) []*matchresult.Match {
	var out []*matchresult.Match
	for m := range p.FindIter(text, pos, endpos) {
		out = append(out, m)
	}
	return out
}

// Split breaks text on every non-overlapping match, the way spec.md
// describes: `text[prev.end:match.start]`, then every captured group's
// text (empty string for a group that did not participate), repeated for
// every match, with the final trailing segment appended last. maxsplit <=
// 0 means unlimited.
func (p *Pattern) Split(text string, maxsplit int) []string {
	full := toRunes(text)
	var out []string
	prev := 0
	n := 0
	for m := range p.FindIter(text, 0, len(full)) {
		if maxsplit > 0 && n >= maxsplit {
			break
		}
		start, end := m.Span(0)
		out = append(out, string(full[prev:start]))
		out = append(out, m.Groups("")...)
		prev = end
		n++
	}
	out = append(out, string(full[prev:]))
	return out
}

// Subn replaces up to count non-overlapping matches in text (count <= 0
// means unlimited) and returns the result plus the number of replacements
// made. repl is either a string parsed once under the replacement
// mini-language, or a func(*matchresult.Match) string invoked per match.
// The "not-adjacent" rule applies: a zero-length replacement cannot occur
// immediately after a previous replacement's position.
func (p *Pattern) Subn(repl any, text string, count int) (string, int, error) {
	var expand func(*matchresult.Match) (string, error)
	switch r := repl.(type) {
	case string:
		toks, err := p.compileReplacement(r)
		if err != nil {
			return "", 0, err
		}
		expand = func(m *matchresult.Match) (string, error) { return expandReplacement(toks, m) }
	case func(*matchresult.Match) string:
		expand = func(m *matchresult.Match) (string, error) { return r(m), nil }
	default:
		return "", 0, fmt.Errorf("opgraph: Subn: repl must be a string or func(*matchresult.Match) string, got %T", repl)
	}

	full := toRunes(text)
	var out strings.Builder
	prev := 0
	n := 0
	prevReplaceEnd := -1
	for m := range p.FindIter(text, 0, len(full)) {
		if count > 0 && n >= count {
			break
		}
		start, end := m.Span(0)
		if start == end && start == prevReplaceEnd {
			continue
		}
		out.WriteString(string(full[prev:start]))
		rep, err := expand(m)
		if err != nil {
			return "", 0, err
		}
		out.WriteString(rep)
		prev = end
		prevReplaceEnd = end
		n++
	}
	out.WriteString(string(full[prev:]))
	return out.String(), n, nil
}

// Sub is Subn without the replacement count.
func (p *Pattern) Sub(repl any, text string, count int) (string, error) {
	s, _, err := p.Subn(repl, text, count)
	return s, err
}
