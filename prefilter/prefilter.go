// Package prefilter provides fast candidate-position filtering ahead of a
// full engine run, built on literal sequences extracted from a compiled
// graph's required prefixes. Narrowing the search window this way never
// changes match semantics — it only skips positions no matching attempt
// could possibly start at — mirroring the role the teacher's own
// prefilter package plays ahead of its NFA/DFA engines
// (_examples/coregx-coregex/prefilter/prefilter.go), generalized here from
// a byte haystack to this module's rune haystack.
package prefilter

import "github.com/coregx/ahocorasick"

// Prefilter narrows the search window for Scanner and the search/finditer
// fast path: Find reports the next position a match could possibly start,
// IsComplete reports whether that position is itself already a verified
// match (no engine run required), and LiteralLen gives the match length
// when IsComplete is true.
type Prefilter interface {
	// Find returns the index of the first candidate position at or after
	// start, or -1 if no candidate exists in haystack[start:].
	Find(haystack []rune, start int) int

	// IsComplete reports whether a Find hit is itself a full match, with
	// no verification needed from the compiled graph's engine.
	IsComplete() bool

	// LiteralLen reports the matched literal's length when IsComplete is
	// true; 0 otherwise.
	LiteralLen() int
}

// Builder selects and constructs the most effective Prefilter for a set of
// required literal prefixes, following the teacher's selection ladder:
// a single one-rune literal gets the cheapest scan, a single longer literal
// a substring scan, and two or more literals get an Aho-Corasick-backed
// fast reject ahead of a per-literal positional scan.
type Builder struct {
	prefixes []Literal
}

// Literal is one required prefix literal and whether matching it alone is
// sufficient to declare a full match (true only when the literal is the
// entire pattern, with nothing optional or variable following it).
type Literal struct {
	Text     []rune
	Complete bool
}

// NewBuilder constructs a Builder from literals extracted by
// ExtractPrefixes. An empty or nil slice is valid and causes Build to
// return nil (no effective prefilter).
func NewBuilder(prefixes []Literal) *Builder {
	return &Builder{prefixes: prefixes}
}

// Build returns the best Prefilter for the builder's literals, or nil if
// none of the strategies below apply — callers fall back to running the
// full engine at every position.
func (b *Builder) Build() Prefilter {
	return selectPrefilter(b.prefixes)
}

func selectPrefilter(lits []Literal) Prefilter {
	if len(lits) == 0 {
		return nil
	}
	if len(lits) == 1 {
		lit := lits[0]
		if len(lit.Text) == 0 {
			return nil
		}
		if len(lit.Text) == 1 {
			return &singleRunePrefilter{needle: lit.Text[0], complete: lit.Complete, litLen: 1}
		}
		return &singleLiteralPrefilter{needle: lit.Text, complete: lit.Complete}
	}

	minLen := len(lits[0].Text)
	allComplete := true
	words := make([]string, 0, len(lits))
	for _, lit := range lits {
		if len(lit.Text) == 0 {
			return nil
		}
		if len(lit.Text) < minLen {
			minLen = len(lit.Text)
		}
		allComplete = allComplete && lit.Complete
		words = append(words, string(lit.Text))
	}
	return &multiLiteralPrefilter{
		literals: lits,
		complete: allComplete && minLen == lengthIfUniform(lits),
		matcher:  ahocorasick.NewStringMatcher(words),
	}
}

// lengthIfUniform returns the shared literal length if every literal in
// lits has the same length, or -1 otherwise. A multi-literal prefilter can
// only be IsComplete when every alternative is both complete and the same
// length, since LiteralLen must report a single value.
func lengthIfUniform(lits []Literal) int {
	l := len(lits[0].Text)
	for _, lit := range lits[1:] {
		if len(lit.Text) != l {
			return -1
		}
	}
	return l
}

// singleRunePrefilter scans for one required leading rune — the rune
// analogue of the teacher's memchrPrefilter.
type singleRunePrefilter struct {
	needle   rune
	complete bool
	litLen   int
}

func (p *singleRunePrefilter) Find(haystack []rune, start int) int {
	for i := start; i < len(haystack); i++ {
		if haystack[i] == p.needle {
			return i
		}
	}
	return -1
}

func (p *singleRunePrefilter) IsComplete() bool { return p.complete }
func (p *singleRunePrefilter) LiteralLen() int {
	if p.complete {
		return p.litLen
	}
	return 0
}

// singleLiteralPrefilter scans for one required leading substring — the
// rune analogue of the teacher's memmemPrefilter.
type singleLiteralPrefilter struct {
	needle   []rune
	complete bool
}

func (p *singleLiteralPrefilter) Find(haystack []rune, start int) int {
	n := len(p.needle)
	if n == 0 || start+n > len(haystack) {
		return -1
	}
	first := p.needle[0]
	for i := start; i+n <= len(haystack); i++ {
		if haystack[i] != first {
			continue
		}
		if runesEqual(haystack[i:i+n], p.needle) {
			return i
		}
	}
	return -1
}

func (p *singleLiteralPrefilter) IsComplete() bool { return p.complete }
func (p *singleLiteralPrefilter) LiteralLen() int {
	if p.complete {
		return len(p.needle)
	}
	return 0
}

// multiLiteralPrefilter handles two or more required leading literals. The
// imported Aho-Corasick matcher only reports which pattern occurred
// somewhere in a string, not where — so it is used as a cheap whole-window
// "does any literal occur at all in the remainder" reject (via Contains)
// ahead of the per-literal positional scan that finds the exact leftmost
// candidate. This still gives the fast path its value: a haystack
// remainder containing none of the literals is rejected in one O(n)
// Contains call instead of len(literals) separate scans.
type multiLiteralPrefilter struct {
	literals []Literal
	complete bool
	matcher  *ahocorasick.Matcher
}

func (p *multiLiteralPrefilter) Find(haystack []rune, start int) int {
	if start >= len(haystack) {
		return -1
	}
	if !p.matcher.ContainsString(string(haystack[start:])) {
		return -1
	}
	best := -1
	for _, lit := range p.literals {
		n := len(lit.Text)
		if n == 0 || start+n > len(haystack) {
			continue
		}
		first := lit.Text[0]
		for i := start; i+n <= len(haystack); i++ {
			if haystack[i] != first || !runesEqual(haystack[i:i+n], lit.Text) {
				continue
			}
			if best == -1 || i < best {
				best = i
			}
			break
		}
	}
	return best
}

func (p *multiLiteralPrefilter) IsComplete() bool { return p.complete }
func (p *multiLiteralPrefilter) LiteralLen() int {
	if p.complete {
		return len(p.literals[0].Text)
	}
	return 0
}

func runesEqual(a, b []rune) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
