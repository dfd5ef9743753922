// Package parser is a minimal recursive-descent pattern parser producing
// an opgraph.Graph directly, with no separate AST stage.
//
// The specification this module implements deliberately scopes the
// tokenizer/parser out (treating Compile as taking an already-built graph
// in its formal model), but a usable library needs one to turn pattern
// strings into graphs. Its supported syntax and precedence follow
// the original engine this library's semantics were distilled from, at
// _examples/original_source/pycore/rxpy/parser/pattern.py: alternation
// binds loosest, then concatenation, then postfix repetition, then atoms.
package parser

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/coregx/opgraph"
	"github.com/coregx/opgraph/alphabet"
	"github.com/coregx/opgraph/groups"
	"github.com/coregx/opgraph/intervalset"
)

// wireContinuation sets n's continuation edge (Next[0]) to next without
// disturbing any second edge n may already carry — a Lookahead node keeps
// its sub-expression pinned at Next[1], and the generic chaining logic in
// parseConcat/parseAlternation/parseRepeat must not clobber it when it
// links such a node to whatever follows it.
func wireContinuation(n *opgraph.Node, next *opgraph.Node) {
	if len(n.Next) == 0 {
		n.Next = []*opgraph.Node{next}
		return
	}
	n.Next[0] = next
}

// Options controls parse-time behavior derived from the compiled pattern's
// flags. The root package translates its public Flags bitset into Options
// before calling Parse.
type Options struct {
	IgnoreCase bool
	Multiline  bool
	DotAll     bool
	Verbose    bool
	Extended   bool // extended (aliasing) group-naming mode, see groups.GroupState
	Alphabet   alphabet.Alphabet

	// DisableStringMerge turns off the parser's run-of-literals-to-String-
	// node merge (the CHARS flag at the public API layer), falling back to
	// one Character node per literal rune the way every non-literal atom
	// is already produced.
	DisableStringMerge bool
}

// SyntaxError reports a malformed pattern, with the rune offset into the
// pattern where the problem was detected.
type SyntaxError struct {
	Pos int
	Msg string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("parser: %s at position %d", e.Msg, e.Pos)
}

type parser struct {
	src    []rune
	pos    int
	opt    Options
	graph  *opgraph.Graph
	groups *groups.GroupState
}

// Parse compiles pattern into an operation graph under the given options.
// The returned GroupState records every capturing group's name/index
// binding for later use by matchresult.
func Parse(pattern string, opt Options) (*opgraph.Graph, *groups.GroupState, error) {
	p := &parser{
		src:    []rune(pattern),
		opt:    opt,
		graph:  opgraph.NewGraph(),
		groups: groups.NewGroupState(),
	}
	start, end, err := p.parseAlternation()
	if err != nil {
		return nil, nil, err
	}
	if p.pos != len(p.src) {
		return nil, nil, &SyntaxError{Pos: p.pos, Msg: fmt.Sprintf("unexpected %q", p.peek())}
	}
	match := opgraph.NewMatch(p.graph.Alloc())
	wireContinuation(end, match)
	p.graph.Entry = start
	p.graph.NumGroups = p.groups.Count() + 1
	return p.graph, p.groups, nil
}

func (p *parser) peek() rune {
	if p.pos >= len(p.src) {
		return 0
	}
	return p.src[p.pos]
}

func (p *parser) peekAt(off int) rune {
	if p.pos+off >= len(p.src) {
		return 0
	}
	return p.src[p.pos+off]
}

func (p *parser) eof() bool { return p.pos >= len(p.src) }

func (p *parser) advance() rune {
	r := p.src[p.pos]
	p.pos++
	return r
}

func (p *parser) skipVerboseTrivia() {
	if !p.opt.Verbose {
		return
	}
	for !p.eof() {
		switch {
		case p.peek() == '#':
			for !p.eof() && p.peek() != '\n' {
				p.pos++
			}
		case p.peek() == ' ' || p.peek() == '\t' || p.peek() == '\n' || p.peek() == '\r':
			p.pos++
		default:
			return
		}
	}
}

// parseAlternation parses `a|b|c`, the lowest-precedence construct.
func (p *parser) parseAlternation() (*opgraph.Node, *opgraph.Node, error) {
	first, firstExit, err := p.parseConcat()
	if err != nil {
		return nil, nil, err
	}
	p.skipVerboseTrivia()
	if p.peek() != '|' {
		return first, firstExit, nil
	}

	alts := []*opgraph.Node{first}
	exits := []*opgraph.Node{firstExit}
	for p.peek() == '|' {
		p.advance()
		alt, altExit, err := p.parseConcat()
		if err != nil {
			return nil, nil, err
		}
		alts = append(alts, alt)
		exits = append(exits, altExit)
		p.skipVerboseTrivia()
	}
	split := opgraph.NewSplit(p.graph.Alloc(), "alt")
	split.Next = alts
	join := opgraph.NewCheckpoint(p.graph.Alloc())
	join.Consumes = opgraph.No
	join.Size = 0
	for _, exit := range exits {
		wireContinuation(exit, join)
	}
	return split, join, nil
}

// parseConcat parses a sequence of repeat-atoms until `|`, `)`, or EOF.
func (p *parser) parseConcat() (*opgraph.Node, *opgraph.Node, error) {
	p.skipVerboseTrivia()
	if p.eof() || p.peek() == '|' || p.peek() == ')' {
		noop := opgraph.NewCheckpoint(p.graph.Alloc())
		noop.Consumes = opgraph.No
		noop.Size = 0
		return noop, noop, nil
	}

	start, exit, err := p.parseUnit()
	if err != nil {
		return nil, nil, err
	}
	for {
		p.skipVerboseTrivia()
		if p.eof() || p.peek() == '|' || p.peek() == ')' {
			return start, exit, nil
		}
		nextStart, nextExit, err := p.parseUnit()
		if err != nil {
			return nil, nil, err
		}
		wireContinuation(exit, nextStart)
		exit = nextExit
	}
}

// isPlainLiteral reports whether r opens a bare literal atom rather than a
// construct with its own parse rule (group, class, dot, anchor, escape, or
// an alternation/group boundary).
func isPlainLiteral(r rune) bool {
	switch r {
	case '(', ')', '[', '.', '^', '$', '\\', '|':
		return false
	default:
		return true
	}
}

// isQuantifierStart reports whether r can begin a postfix quantifier.
func isQuantifierStart(r rune) bool {
	switch r {
	case '*', '+', '?', '{':
		return true
	default:
		return false
	}
}

// parseUnit parses one postfix-quantified atom, first trying to collect a
// run of two or more plain literal runes — none individually followed by a
// postfix quantifier — into a single String node instead of a chain of
// per-rune Character nodes: the parser's realization of spec.md's
// string-merging optimisation. Skipped under Verbose (trivia may fall
// inside what looks like a run), IgnoreCase (a case-folded pair can't be
// represented as exact rune text), or when DisableStringMerge (the CHARS
// flag) is set, in which case every atom — literal or not — goes through
// parseRepeat exactly as before.
func (p *parser) parseUnit() (*opgraph.Node, *opgraph.Node, error) {
	if p.opt.DisableStringMerge || p.opt.Verbose || p.opt.IgnoreCase || p.eof() || !isPlainLiteral(p.peek()) {
		return p.parseRepeat()
	}

	var runes []rune
	for !p.eof() && isPlainLiteral(p.peek()) && !isQuantifierStart(p.peekAt(1)) {
		runes = append(runes, p.advance())
	}
	if len(runes) == 0 {
		// the sole upcoming literal rune takes a postfix quantifier; let
		// parseRepeat attach it the normal way.
		return p.parseRepeat()
	}
	if len(runes) == 1 {
		return p.literalNode(runes[0])
	}
	n := opgraph.NewString(p.graph.Alloc(), runes)
	return n, n, nil
}

// parseRepeat parses one atom followed by an optional postfix quantifier.
func (p *parser) parseRepeat() (*opgraph.Node, *opgraph.Node, error) {
	start, exit, err := p.parseAtom()
	if err != nil {
		return nil, nil, err
	}

	begin, end, lazy, has, err := p.tryQuantifier()
	if err != nil {
		return nil, nil, err
	}
	if !has {
		return start, exit, nil
	}

	rep := opgraph.NewRepeat(p.graph.Alloc(), begin, end, lazy)
	join := opgraph.NewCheckpoint(p.graph.Alloc())
	join.Consumes = opgraph.No
	join.Size = 0
	wireContinuation(exit, rep)
	// Next[0] exits the loop, Next[1] re-enters the body.
	rep.Next = []*opgraph.Node{join, start}
	return rep, join, nil
}

func (p *parser) tryQuantifier() (begin, end int, lazy bool, has bool, err error) {
	p.skipVerboseTrivia()
	switch p.peek() {
	case '*':
		p.advance()
		begin, end, has = 0, opgraph.NoUpperBound, true
	case '+':
		p.advance()
		begin, end, has = 1, opgraph.NoUpperBound, true
	case '?':
		p.advance()
		begin, end, has = 0, 1, true
	case '{':
		save := p.pos
		b, e, ok := p.tryCountedRepeat()
		if !ok {
			p.pos = save
			return 0, 0, false, false, nil
		}
		begin, end, has = b, e, true
	default:
		return 0, 0, false, false, nil
	}
	if p.peek() == '?' {
		p.advance()
		lazy = true
	}
	return begin, end, lazy, has, nil
}

// tryCountedRepeat parses `{m}`, `{m,}`, `{m,n}`; returns ok=false (with pos
// unmoved by the caller's save/restore) if the braces don't form a valid
// repeat count, so the `{` is treated as a literal instead.
func (p *parser) tryCountedRepeat() (begin, end int, ok bool) {
	p.advance() // '{'
	digitsStart := p.pos
	for !p.eof() && p.peek() >= '0' && p.peek() <= '9' {
		p.advance()
	}
	minStr := string(p.src[digitsStart:p.pos])

	switch p.peek() {
	case '}':
		p.advance()
		if minStr == "" {
			return 0, 0, false
		}
		n, _ := strconv.Atoi(minStr)
		return n, n, true
	case ',':
		p.advance()
		maxStart := p.pos
		for !p.eof() && p.peek() >= '0' && p.peek() <= '9' {
			p.advance()
		}
		maxStr := string(p.src[maxStart:p.pos])
		if p.peek() != '}' {
			return 0, 0, false
		}
		p.advance()
		if minStr == "" && maxStr == "" {
			return 0, 0, false
		}
		begin = 0
		if minStr != "" {
			begin, _ = strconv.Atoi(minStr)
		}
		if maxStr == "" {
			return begin, opgraph.NoUpperBound, true
		}
		end, _ = strconv.Atoi(maxStr)
		return begin, end, true
	default:
		return 0, 0, false
	}
}

// parseAtom parses the smallest repeatable unit: a literal, a class, an
// anchor, an escape, or a parenthesized group.
func (p *parser) parseAtom() (*opgraph.Node, *opgraph.Node, error) {
	p.skipVerboseTrivia()
	if p.eof() {
		return nil, nil, &SyntaxError{Pos: p.pos, Msg: "unexpected end of pattern"}
	}

	switch r := p.peek(); r {
	case '(':
		return p.parseGroup()
	case '[':
		return p.parseClass()
	case '.':
		p.advance()
		n := opgraph.NewDot(p.graph.Alloc(), p.opt.DotAll)
		return n, n, nil
	case '^':
		p.advance()
		n := opgraph.NewStartOfLine(p.graph.Alloc(), p.opt.Multiline)
		return n, n, nil
	case '$':
		p.advance()
		n := opgraph.NewEndOfLine(p.graph.Alloc(), p.opt.Multiline)
		return n, n, nil
	case '\\':
		return p.parseEscape()
	case ')', '|':
		return nil, nil, &SyntaxError{Pos: p.pos, Msg: fmt.Sprintf("unexpected %q", r)}
	default:
		p.advance()
		return p.literalNode(r)
	}
}

// literalNode builds a Character node for one literal rune, whose set also
// holds the rune's case-fold pair when IgnoreCase is set and the alphabet
// reports a fold.
func (p *parser) literalNode(r rune) (*opgraph.Node, *opgraph.Node, error) {
	a := p.opt.Alphabet
	set := intervalset.New(a)
	code := a.CharToCode(r)
	set.Insert(code, code)
	if p.opt.IgnoreCase {
		if pair, lo, hi := a.Unpack(r, true); pair {
			set.Insert(a.CharToCode(lo), a.CharToCode(lo))
			set.Insert(a.CharToCode(hi), a.CharToCode(hi))
		}
	}
	n := opgraph.NewCharacter(p.graph.Alloc(), set)
	return n, n, nil
}

func (p *parser) parseEscape() (*opgraph.Node, *opgraph.Node, error) {
	start := p.pos
	p.advance() // consume '\'
	if p.eof() {
		return nil, nil, &SyntaxError{Pos: start, Msg: "trailing backslash"}
	}
	r := p.advance()
	switch r {
	case 'd':
		n := opgraph.NewDigit(p.graph.Alloc(), false)
		return n, n, nil
	case 'D':
		n := opgraph.NewDigit(p.graph.Alloc(), true)
		return n, n, nil
	case 's':
		n := opgraph.NewSpace(p.graph.Alloc(), false)
		return n, n, nil
	case 'S':
		n := opgraph.NewSpace(p.graph.Alloc(), true)
		return n, n, nil
	case 'w':
		n := opgraph.NewWord(p.graph.Alloc(), false)
		return n, n, nil
	case 'W':
		n := opgraph.NewWord(p.graph.Alloc(), true)
		return n, n, nil
	case 'b':
		n := opgraph.NewWordBoundary(p.graph.Alloc(), false)
		return n, n, nil
	case 'B':
		n := opgraph.NewWordBoundary(p.graph.Alloc(), true)
		return n, n, nil
	case 'n':
		return p.literalNode('\n')
	case 't':
		return p.literalNode('\t')
	case 'r':
		return p.literalNode('\r')
	case 'A':
		n := opgraph.NewStartOfLine(p.graph.Alloc(), false)
		return n, n, nil
	case 'Z':
		n := opgraph.NewEndOfLine(p.graph.Alloc(), false)
		return n, n, nil
	case 'g':
		return p.parseNamedBackreference()
	default:
		if r >= '1' && r <= '9' {
			digitsStart := p.pos - 1
			for !p.eof() && p.peek() >= '0' && p.peek() <= '9' {
				p.advance()
			}
			idx, err := p.groups.IndexForNameOrCount(string(p.src[digitsStart:p.pos]))
			if err != nil {
				return nil, nil, &SyntaxError{Pos: digitsStart, Msg: err.Error()}
			}
			n := opgraph.NewGroupReference(p.graph.Alloc(), idx)
			return n, n, nil
		}
		return p.literalNode(r)
	}
}

func (p *parser) parseNamedBackreference() (*opgraph.Node, *opgraph.Node, error) {
	if p.peek() != '<' {
		return nil, nil, &SyntaxError{Pos: p.pos, Msg: "expected '<' after \\g"}
	}
	p.advance()
	nameStart := p.pos
	for !p.eof() && p.peek() != '>' {
		p.advance()
	}
	if p.eof() {
		return nil, nil, &SyntaxError{Pos: p.pos, Msg: "unterminated \\g<...>"}
	}
	name := string(p.src[nameStart:p.pos])
	p.advance() // '>'
	idx, err := p.groups.IndexForNameOrCount(name)
	if err != nil {
		return nil, nil, &SyntaxError{Pos: nameStart, Msg: err.Error()}
	}
	n := opgraph.NewGroupReference(p.graph.Alloc(), idx)
	return n, n, nil
}

// parseGroup parses `(...)` and its `(?...)` variants.
func (p *parser) parseGroup() (*opgraph.Node, *opgraph.Node, error) {
	groupStart := p.pos
	p.advance() // '('

	if p.peek() != '?' {
		return p.parseCapturingGroup(groupStart)
	}
	p.advance() // '?'

	switch p.peek() {
	case ':':
		p.advance()
		return p.parseGroupBody(groupStart, func(start, exit *opgraph.Node) (*opgraph.Node, *opgraph.Node) {
			return start, exit
		})
	case '=':
		p.advance()
		return p.parseLookaround(groupStart, true, true)
	case '!':
		p.advance()
		return p.parseLookaround(groupStart, false, true)
	case '<':
		if p.peekAt(1) == '=' {
			p.advance()
			p.advance()
			return p.parseLookaround(groupStart, true, false)
		}
		if p.peekAt(1) == '!' {
			p.advance()
			p.advance()
			return p.parseLookaround(groupStart, false, false)
		}
		p.advance()
		return p.parseNamedCapturingGroup(groupStart)
	case 'P':
		p.advance()
		if p.peek() == '<' {
			p.advance()
			return p.parseNamedCapturingGroup(groupStart)
		}
		if p.peek() == '=' {
			p.advance()
			return p.parseNamedBackreferenceGroup(groupStart)
		}
		return nil, nil, &SyntaxError{Pos: p.pos, Msg: "unsupported (?P... syntax"}
	case '(':
		return p.parseConditional(groupStart)
	default:
		return nil, nil, &SyntaxError{Pos: p.pos, Msg: fmt.Sprintf("unsupported group syntax (?%c", p.peek())}
	}
}

func (p *parser) parseCapturingGroup(groupStart int) (*opgraph.Node, *opgraph.Node, error) {
	idx, err := p.groups.NewIndex("", p.opt.Extended)
	if err != nil {
		return nil, nil, &SyntaxError{Pos: groupStart, Msg: err.Error()}
	}
	return p.parseGroupBody(groupStart, func(start, exit *opgraph.Node) (*opgraph.Node, *opgraph.Node) {
		open := opgraph.NewStartGroup(p.graph.Alloc(), idx)
		shut := opgraph.NewEndGroup(p.graph.Alloc(), idx)
		open.Next = []*opgraph.Node{start}
		wireContinuation(exit, shut)
		return open, shut
	})
}

func (p *parser) parseNamedCapturingGroup(groupStart int) (*opgraph.Node, *opgraph.Node, error) {
	nameStart := p.pos
	for !p.eof() && p.peek() != '>' {
		p.advance()
	}
	if p.eof() {
		return nil, nil, &SyntaxError{Pos: p.pos, Msg: "unterminated named group"}
	}
	name := string(p.src[nameStart:p.pos])
	p.advance() // '>'
	idx, err := p.groups.NewIndex(name, p.opt.Extended)
	if err != nil {
		return nil, nil, &SyntaxError{Pos: groupStart, Msg: err.Error()}
	}
	return p.parseGroupBody(groupStart, func(start, exit *opgraph.Node) (*opgraph.Node, *opgraph.Node) {
		open := opgraph.NewStartGroup(p.graph.Alloc(), idx)
		shut := opgraph.NewEndGroup(p.graph.Alloc(), idx)
		open.Next = []*opgraph.Node{start}
		wireContinuation(exit, shut)
		return open, shut
	})
}

func (p *parser) parseNamedBackreferenceGroup(groupStart int) (*opgraph.Node, *opgraph.Node, error) {
	nameStart := p.pos
	for !p.eof() && p.peek() != ')' {
		p.advance()
	}
	if p.eof() {
		return nil, nil, &SyntaxError{Pos: p.pos, Msg: "unterminated (?P=name)"}
	}
	name := string(p.src[nameStart:p.pos])
	p.advance() // ')'
	idx, err := p.groups.IndexForNameOrCount(name)
	if err != nil {
		return nil, nil, &SyntaxError{Pos: groupStart, Msg: err.Error()}
	}
	n := opgraph.NewGroupReference(p.graph.Alloc(), idx)
	return n, n, nil
}

func (p *parser) parseLookaround(groupStart int, equal, forwards bool) (*opgraph.Node, *opgraph.Node, error) {
	sub, subExit, err := p.parseAlternation()
	if err != nil {
		return nil, nil, err
	}
	if p.peek() != ')' {
		return nil, nil, &SyntaxError{Pos: p.pos, Msg: "unterminated lookaround group"}
	}
	p.advance()
	subMatch := opgraph.NewMatch(p.graph.Alloc())
	wireContinuation(subExit, subMatch)

	look := opgraph.NewLookahead(p.graph.Alloc(), equal, forwards)
	look.Next = []*opgraph.Node{nil, sub} // Next[0] filled by caller's continuation wiring
	return look, look, nil
}

func (p *parser) parseConditional(groupStart int) (*opgraph.Node, *opgraph.Node, error) {
	p.advance() // second '('
	refStart := p.pos
	for !p.eof() && p.peek() != ')' {
		p.advance()
	}
	if p.eof() {
		return nil, nil, &SyntaxError{Pos: p.pos, Msg: "unterminated conditional reference"}
	}
	ref := string(p.src[refStart:p.pos])
	p.advance() // ')'
	idx, err := p.groups.IndexForNameOrCount(ref)
	if err != nil {
		return nil, nil, &SyntaxError{Pos: refStart, Msg: err.Error()}
	}

	yesStart, yesExit, err := p.parseConcat()
	if err != nil {
		return nil, nil, err
	}
	var noStart, noExit *opgraph.Node
	if p.peek() == '|' {
		p.advance()
		noStart, noExit, err = p.parseConcat()
		if err != nil {
			return nil, nil, err
		}
	} else {
		noop := opgraph.NewCheckpoint(p.graph.Alloc())
		noop.Consumes, noop.Size = opgraph.No, 0
		noStart, noExit = noop, noop
	}
	if p.peek() != ')' {
		return nil, nil, &SyntaxError{Pos: p.pos, Msg: "unterminated conditional group"}
	}
	p.advance()

	cond := opgraph.NewConditional(p.graph.Alloc(), idx, "cond")
	join := opgraph.NewCheckpoint(p.graph.Alloc())
	join.Consumes, join.Size = opgraph.No, 0
	cond.Next = []*opgraph.Node{noStart, yesStart}
	wireContinuation(noExit, join)
	wireContinuation(yesExit, join)
	return cond, join, nil
}

func (p *parser) parseGroupBody(groupStart int, wrap func(start, exit *opgraph.Node) (*opgraph.Node, *opgraph.Node)) (*opgraph.Node, *opgraph.Node, error) {
	start, exit, err := p.parseAlternation()
	if err != nil {
		return nil, nil, err
	}
	if p.peek() != ')' {
		return nil, nil, &SyntaxError{Pos: p.pos, Msg: "unterminated group, expected ')'"}
	}
	p.advance()
	wrappedStart, wrappedExit := wrap(start, exit)
	return wrappedStart, wrappedExit, nil
}

// parseClass parses `[...]` character classes, including negation, ranges,
// and the \d\s\w escapes nested inside.
func (p *parser) parseClass() (*opgraph.Node, *opgraph.Node, error) {
	start := p.pos
	p.advance() // '['
	negate := false
	if p.peek() == '^' {
		negate = true
		p.advance()
	}

	set := intervalset.New(p.opt.Alphabet)
	var classTests []opgraph.ClassPredicate
	first := true
	for {
		if p.eof() {
			return nil, nil, &SyntaxError{Pos: start, Msg: "unterminated character class"}
		}
		if p.peek() == ']' && !first {
			p.advance()
			break
		}
		first = false

		if p.peek() == '\\' {
			p.advance()
			if p.eof() {
				return nil, nil, &SyntaxError{Pos: p.pos, Msg: "trailing backslash in class"}
			}
			esc := p.advance()
			switch esc {
			case 'd':
				classTests = append(classTests, opgraph.ClassPredicate{Class: opgraph.PredicateDigit})
				continue
			case 'D':
				classTests = append(classTests, opgraph.ClassPredicate{Class: opgraph.PredicateDigit, Invert: true})
				continue
			case 's':
				classTests = append(classTests, opgraph.ClassPredicate{Class: opgraph.PredicateSpace})
				continue
			case 'S':
				classTests = append(classTests, opgraph.ClassPredicate{Class: opgraph.PredicateSpace, Invert: true})
				continue
			case 'w':
				classTests = append(classTests, opgraph.ClassPredicate{Class: opgraph.PredicateWord})
				continue
			case 'W':
				classTests = append(classTests, opgraph.ClassPredicate{Class: opgraph.PredicateWord, Invert: true})
				continue
			case 'n':
				p.addClassChar(set, '\n')
				continue
			case 't':
				p.addClassChar(set, '\t')
				continue
			case 'r':
				p.addClassChar(set, '\r')
				continue
			default:
				p.classRangeOrChar(set, esc)
				continue
			}
		}
		lo := p.advance()
		p.classRangeOrChar(set, lo)
	}

	n := opgraph.NewCharacter(p.graph.Alloc(), set)
	n.Inverted = negate
	for _, ct := range classTests {
		n.AddClass(ct.Class, ct.Invert)
	}
	return n, n, nil
}

func (p *parser) addClassChar(set *intervalset.Set, r rune) {
	code := p.opt.Alphabet.CharToCode(r)
	set.Insert(code, code)
	if p.opt.IgnoreCase {
		if pair, lo, hi := p.opt.Alphabet.Unpack(r, true); pair {
			set.Insert(p.opt.Alphabet.CharToCode(lo), p.opt.Alphabet.CharToCode(lo))
			set.Insert(p.opt.Alphabet.CharToCode(hi), p.opt.Alphabet.CharToCode(hi))
		}
	}
}

// classRangeOrChar handles `lo`, `lo-hi` range forms inside a class body.
func (p *parser) classRangeOrChar(set *intervalset.Set, lo rune) {
	if p.peek() == '-' && p.peekAt(1) != ']' && p.peekAt(1) != 0 {
		p.advance() // '-'
		hi := p.advance()
		if hi == '\\' && !p.eof() {
			hi = p.advance()
		}
		set.Insert(p.opt.Alphabet.CharToCode(lo), p.opt.Alphabet.CharToCode(hi))
		if p.opt.IgnoreCase {
			for r := lo; r <= hi; r++ {
				p.addClassChar(set, r)
			}
		}
		return
	}
	p.addClassChar(set, lo)
}

var _ = strings.TrimSpace // retained for future verbose-mode trivia handling
