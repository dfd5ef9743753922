package opgraph

import (
	"github.com/coregx/opgraph/alphabet"
	"github.com/coregx/opgraph/matchresult"
)

// ScannerPair is one alternative a Scanner tries at each position: Pattern
// is compiled as one branch of a combined alternation, and Action is
// invoked with the matched text whenever that branch wins.
type ScannerPair struct {
	Pattern string
	Action  func(text string) any
}

// Scanner repeatedly matches the leftmost of a set of pattern fragments
// against consecutive positions of a text, invoking each fragment's Action
// on every match — the tokenizer-building tool spec.md's Scanner names,
// generalizing the combined-alternation trick a hand-written lexer
// commonly uses with a single regex engine.
type Scanner struct {
	combined *Pattern
	actions  []func(text string) any
}

// NewScanner compiles pairs into one combined pattern (each fragment
// wrapped in its own capturing group, tried in order at every position)
// under flags and the default engine-selection policy.
func NewScanner(pairs []ScannerPair, flags Flag) (*Scanner, error) {
	return NewScannerWithConfig(pairs, flags, nil, DefaultConfig())
}

// NewScannerWithConfig is NewScanner with an explicit alphabet and engine
// Config.
func NewScannerWithConfig(pairs []ScannerPair, flags Flag, alpha alphabet.Alphabet, cfg Config) (*Scanner, error) {
	if len(pairs) == 0 {
		return nil, &ConfigError{Field: "pairs", Message: "must be non-empty"}
	}
	combinedSrc := ""
	actions := make([]func(text string) any, len(pairs))
	for i, pr := range pairs {
		if i > 0 {
			combinedSrc += "|"
		}
		combinedSrc += "(" + pr.Pattern + ")"
		actions[i] = pr.Action
	}
	p, err := CompileWithConfig(combinedSrc, flags, alpha, cfg)
	if err != nil {
		return nil, err
	}
	return &Scanner{combined: p, actions: actions}, nil
}

// Scan matches the combined pattern repeatedly from the start of text,
// invoking the winning fragment's Action on each match's text and
// returning those results in order, plus whatever unmatched tail remains
// once no fragment matches at the current position.
func (s *Scanner) Scan(text string) ([]any, string) {
	full := []rune(text)
	var results []any
	pos := 0
	for pos < len(full) {
		m, ok, err := s.combined.Search(text, pos, len(full))
		if err != nil || !ok {
			break
		}
		start, end := m.Span(0)
		if start != pos {
			// no fragment matches exactly at pos: stop, the remainder
			// becomes the tail.
			break
		}
		idx := s.winningGroup(m)
		if idx < 0 {
			break
		}
		matched, _ := m.Group(0)
		if s.actions[idx] != nil {
			results = append(results, s.actions[idx](matched))
		}
		if end == pos {
			// a zero-width fragment matched: advance one rune to make
			// progress, the same guard FindIter uses.
			pos++
			continue
		}
		pos = end
	}
	return results, string(full[pos:])
}

// winningGroup returns the index of the first capturing group (1-based in
// the combined pattern, 0-based in pairs) that participated in m.
func (s *Scanner) winningGroup(m *matchresult.Match) int {
	for i := range s.actions {
		if _, ok := m.Group(i + 1); ok {
			return i
		}
	}
	return -1
}
