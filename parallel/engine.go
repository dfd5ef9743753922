// Package parallel implements the parallel NFA engine family: a two-bucket
// (current/next) thread-set simulator that advances every live thread one
// input element at a time, in the spirit of Thompson's construction and
// Pike's VM. Three scheduling variants (Wide, Serial, Beam) share one
// inner step; an optional Hashing flavour deduplicates threads by
// (node identity, loop-counters) to bound the working set at the cost of
// backreference support.
//
// The two-bucket simulation and its recursive epsilon-closure (addThread)
// follow the shape of the teacher's Pike VM in
// _examples/coregx-coregex/nfa/pikevm.go, generalized from that package's
// compiled byte-range NFA states to this module's opgraph.Node, and from
// byte-at-a-time stepping to rune-at-a-time stepping over the alphabet
// abstraction.
package parallel

import (
	"fmt"

	"github.com/coregx/opgraph"
	"github.com/coregx/opgraph/alphabet"
	"github.com/coregx/opgraph/groups"
)

// Engine runs the parallel NFA simulation against a compiled graph.
type Engine struct {
	graph    *opgraph.Graph
	alphabet alphabet.Alphabet
	cfg      Config
}

// New builds a parallel engine for graph.
func New(graph *opgraph.Graph, alpha alphabet.Alphabet, cfg Config) *Engine {
	return &Engine{graph: graph, alphabet: alpha, cfg: cfg}
}

// Stats reports instrumentation collected during a run.
type Stats struct {
	Ticks          int // one per input position processed
	MaxThreads     int // largest live thread-set size observed
	Overflowed     bool
	BeamDoublings  int
	FinalBeamWidth int
}

// thread is one live simulation: either parked at a graph node (node != nil)
// or mid-match on a multi-rune literal (pendingText != nil, for String and
// GroupReference nodes, whose match spans more than one input element and
// so cannot be resolved in a single step like every other node kind).
type thread struct {
	node *opgraph.Node

	pendingText []rune
	pendingNext *opgraph.Node

	caps     *groups.Captures
	counters map[int]int
	startPos int
}

func cloneCounters(m map[int]int) map[int]int {
	out := make(map[int]int, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// Run searches input for a match, dispatching to the configured scheduling
// mode. It returns the matched capture set, instrumentation, whether a
// match was found, and a non-nil error for ErrUnsupportedBackreference
// (surfaced synchronously, per spec: hashing + backreference is a
// compile-shape conflict, not a match failure) or, in ModeBeam, for
// ErrBeamExhausted.
func (e *Engine) Run(input []rune) (*groups.Captures, *Stats, bool, error) {
	if e.cfg.Mode == ModeSerial {
		return e.runSerial(input)
	}
	return e.runWideOrBeam(input)
}

// runSerial drains each seed offset to completion (an anchored attempt)
// before advancing to the next, per spec.md's "serial" variant.
func (e *Engine) runSerial(input []rune) (*groups.Captures, *Stats, bool, error) {
	var stats Stats
	for start := 0; start <= len(input); start++ {
		caps, ok, err := e.runAnchored(input, start, &stats)
		if err != nil {
			return nil, &stats, false, err
		}
		if ok {
			return caps, &stats, true, nil
		}
	}
	return nil, &stats, false, nil
}

// runAnchored simulates the NFA from a single seed at startPos, returning
// the highest-priority Match reached (leftmost-longest among threads tied
// at this start, since the greedy-first priority order prefers longer
// matches when both are reachable from the same seed).
func (e *Engine) runAnchored(input []rune, startPos int, stats *Stats) (*groups.Captures, bool, error) {
	current := []thread{}
	seed := thread{node: e.graph.Entry, caps: groups.NewCaptures(e.graph.NumGroups), counters: map[int]int{}, startPos: startPos}
	seed.caps.StartGroup(0, startPos)
	if err := e.expand(seed, startPos, input, map[int]bool{}, newDedup(e.cfg.Hashing), &current); err != nil {
		return nil, false, err
	}

	var best *groups.Captures
	for pos := startPos; ; pos++ {
		stats.Ticks++
		if len(current) > stats.MaxThreads {
			stats.MaxThreads = len(current)
		}
		for _, t := range current {
			if t.node != nil && t.node.Kind == opgraph.KindMatch {
				caps := t.caps.Clone()
				caps.EndGroup(0, pos)
				best = caps
			}
		}
		if pos >= len(input) || len(current) == 0 {
			break
		}
		next := []thread{}
		d := newDedup(e.cfg.Hashing)
		r := input[pos]
		for _, t := range current {
			if err := e.stepThread(t, r, pos, input, d, &next); err != nil {
				return nil, false, err
			}
		}
		current = next
	}
	if best != nil {
		return best, true, nil
	}
	return nil, false, nil
}

// runWideOrBeam implements Wide and Beam scheduling: at every input offset
// not yet past a recorded match, seed a fresh start thread (simulating an
// implicit unanchored `.*?` prefix), then step every live thread forward
// one rune. ModeBeam additionally caps the live thread count, discarding
// lower-priority entries on overflow and doubling the bound for a full
// restart if the run ends without a match.
func (e *Engine) runWideOrBeam(input []rune) (*groups.Captures, *Stats, bool, error) {
	width := e.cfg.BeamWidth
	doublings := 0
	var stats Stats
	for {
		caps, overflowed, err := e.wideAttempt(input, width, &stats)
		if err != nil {
			return nil, &stats, false, err
		}
		if caps != nil {
			stats.FinalBeamWidth = width
			return caps, &stats, true, nil
		}
		if e.cfg.Mode != ModeBeam || !overflowed {
			stats.FinalBeamWidth = width
			return nil, &stats, false, nil
		}
		if doublings >= e.cfg.MaxBeamDoublings {
			return nil, &stats, false, fmt.Errorf("%w", ErrBeamExhausted)
		}
		doublings++
		width *= 2
		stats.BeamDoublings = doublings
		stats.Overflowed = false
	}
}

// wideAttempt runs one full left-to-right pass. width <= 0 means unbounded
// (ModeWide); width > 0 caps live thread count (ModeBeam).
func (e *Engine) wideAttempt(input []rune, width int, stats *Stats) (*groups.Captures, bool, error) {
	current := []thread{}
	d := newDedup(e.cfg.Hashing)

	bestStart := -1
	var bestCaps *groups.Captures
	overflowed := false

	for pos := 0; pos <= len(input); pos++ {
		if bestStart == -1 {
			seed := thread{node: e.graph.Entry, caps: groups.NewCaptures(e.graph.NumGroups), counters: map[int]int{}, startPos: pos}
			seed.caps.StartGroup(0, pos)
			if err := e.expand(seed, pos, input, map[int]bool{}, d, &current); err != nil {
				return nil, false, err
			}
		}

		for _, t := range current {
			if t.node != nil && t.node.Kind == opgraph.KindMatch {
				if bestStart == -1 || t.startPos < bestStart || (t.startPos == bestStart && pos > bestCaps.Span(0).End) {
					caps := t.caps.Clone()
					caps.EndGroup(0, pos)
					bestStart = t.startPos
					bestCaps = caps
				}
			}
		}

		if width > 0 && len(current) > width {
			// Discard lowest-priority pending entries first (end of the
			// priority-ordered slice), keeping the budget for the threads
			// most likely to produce the leftmost match.
			current = current[:width]
			overflowed = true
		}

		stats.Ticks++
		if len(current) > stats.MaxThreads {
			stats.MaxThreads = len(current)
		}

		if pos >= len(input) {
			break
		}
		if bestStart != -1 {
			hasLeftmostCandidate := false
			for _, t := range current {
				if t.startPos <= bestStart {
					hasLeftmostCandidate = true
					break
				}
			}
			if !hasLeftmostCandidate {
				break
			}
		}
		if len(current) == 0 {
			continue
		}

		next := []thread{}
		nd := newDedup(e.cfg.Hashing)
		r := input[pos]
		for _, t := range current {
			if err := e.stepThread(t, r, pos, input, nd, &next); err != nil {
				return nil, false, err
			}
		}
		current = next
		d = nd
	}

	stats.Overflowed = stats.Overflowed || overflowed
	if bestCaps != nil {
		return bestCaps, overflowed, nil
	}
	return nil, overflowed, nil
}

// dedup implements the Hashing flavour's thread-merging: threads sharing a
// key are collapsed to the first (highest-priority) one seen this
// generation. Keys intentionally exclude capture state per
// ErrUnsupportedBackreference's rationale; non-hashing runs never merge,
// preserving exact capture/backreference distinctions at the cost of a
// potentially larger thread set.
type dedup struct {
	hashing bool
	seen    map[string]bool
}

func newDedup(hashing bool) *dedup {
	return &dedup{hashing: hashing, seen: make(map[string]bool)}
}

func (d *dedup) admit(key string) bool {
	if !d.hashing {
		return true
	}
	if d.seen[key] {
		return false
	}
	d.seen[key] = true
	return true
}

func counterKey(counters map[int]int) string {
	// Graphs in this module are built once per pattern and never mutated,
	// so iterating counters (bounded by the pattern's Repeat-node count,
	// not input length) is cheap relative to a full match attempt.
	s := ""
	for id, n := range counters {
		s += fmt.Sprintf("%d:%d;", id, n)
	}
	return s
}

// expand performs the epsilon-closure of a single seed thread: it follows
// every zero-width node (Split, group markers, anchors, Repeat expansion,
// Conditional, Lookahead, zero-width GroupReference) until reaching a
// consuming node, a pending multi-rune literal, Match, or a dead end, and
// appends each resulting leaf to out in priority order.
//
// inProgress guards against infinite recursion through a zero-width cycle
// (e.g. a Repeat whose body never consumes); it is local to one top-level
// expand call so it never suppresses legitimate re-entry of the same node
// from a different seed or a different generation.
func (e *Engine) expand(t thread, pos int, input []rune, inProgress map[int]bool, d *dedup, out *[]thread) error {
	if t.pendingText != nil {
		if d.admit(fmt.Sprintf("P%d:%d:%s", t.pendingNext.ID, len(t.pendingText), counterKey(t.counters))) {
			*out = append(*out, t)
		}
		return nil
	}

	n := t.node
	if inProgress[n.ID] {
		return nil
	}

	switch n.Kind {
	case opgraph.KindMatch:
		if d.admit(fmt.Sprintf("M:%s", counterKey(t.counters))) {
			*out = append(*out, t)
		}
		return nil

	case opgraph.KindNoMatch:
		return nil

	case opgraph.KindCharacter, opgraph.KindDot, opgraph.KindDigit, opgraph.KindSpace, opgraph.KindWord:
		if d.admit(fmt.Sprintf("N%d:%s", n.ID, counterKey(t.counters))) {
			*out = append(*out, t)
		}
		return nil

	case opgraph.KindString:
		return e.expand(thread{pendingText: n.Text, pendingNext: n.Next[0], caps: t.caps, counters: t.counters, startPos: t.startPos}, pos, input, inProgress, d, out)

	case opgraph.KindGroupReference:
		sp := t.caps.Span(n.Group)
		if sp.Unset() || sp.Start == sp.End {
			return e.expand(thread{node: n.Next[0], caps: t.caps, counters: t.counters, startPos: t.startPos}, pos, input, inProgress, d, out)
		}
		if e.cfg.Hashing {
			return ErrUnsupportedBackreference
		}
		text := make([]rune, sp.End-sp.Start)
		copy(text, input[sp.Start:sp.End])
		return e.expand(thread{pendingText: text, pendingNext: n.Next[0], caps: t.caps, counters: t.counters, startPos: t.startPos}, pos, input, inProgress, d, out)

	case opgraph.KindStartOfLine:
		if pos == 0 || (n.Multiline && pos > 0 && input[pos-1] == '\n') {
			return e.expand(thread{node: n.Next[0], caps: t.caps, counters: t.counters, startPos: t.startPos}, pos, input, inProgress, d, out)
		}
		return nil

	case opgraph.KindEndOfLine:
		if endOfLineMatches(input, pos, n.Multiline) {
			return e.expand(thread{node: n.Next[0], caps: t.caps, counters: t.counters, startPos: t.startPos}, pos, input, inProgress, d, out)
		}
		return nil

	case opgraph.KindWordBoundary:
		before := pos > 0 && e.alphabet.Word(input[pos-1])
		after := pos < len(input) && e.alphabet.Word(input[pos])
		if (before != after) != n.Inverted {
			return e.expand(thread{node: n.Next[0], caps: t.caps, counters: t.counters, startPos: t.startPos}, pos, input, inProgress, d, out)
		}
		return nil

	case opgraph.KindStartGroup:
		caps := t.caps.Clone()
		caps.StartGroup(n.Group, pos)
		return e.expand(thread{node: n.Next[0], caps: caps, counters: t.counters, startPos: t.startPos}, pos, input, inProgress, d, out)

	case opgraph.KindEndGroup:
		caps := t.caps.Clone()
		caps.EndGroup(n.Group, pos)
		return e.expand(thread{node: n.Next[0], caps: caps, counters: t.counters, startPos: t.startPos}, pos, input, inProgress, d, out)

	case opgraph.KindCheckpoint:
		// Guard against a zero-width loop body closing back on this exact
		// checkpoint within the same epsilon-closure: without this, a
		// pattern like `(?:a?)*b` recurses through Repeat -> body -> here
		// -> Repeat forever when the body matches empty. inProgress is
		// already how Split/Repeat guard their own cycles; a Checkpoint
		// joins the same mechanism instead of passing through unguarded.
		if inProgress[n.ID] {
			return nil
		}
		inProgress[n.ID] = true
		defer delete(inProgress, n.ID)
		return e.expand(thread{node: n.Next[0], caps: t.caps, counters: t.counters, startPos: t.startPos}, pos, input, inProgress, d, out)

	case opgraph.KindSplit:
		inProgress[n.ID] = true
		defer delete(inProgress, n.ID)
		for _, alt := range n.Next {
			if err := e.expand(thread{node: alt, caps: t.caps.Clone(), counters: cloneCounters(t.counters), startPos: t.startPos}, pos, input, inProgress, d, out); err != nil {
				return err
			}
		}
		return nil

	case opgraph.KindConditional:
		branch := n.Next[1]
		if t.caps.Span(n.Group).Unset() {
			branch = n.Next[0]
		}
		return e.expand(thread{node: branch, caps: t.caps, counters: t.counters, startPos: t.startPos}, pos, input, inProgress, d, out)

	case opgraph.KindRepeat:
		return e.expandRepeat(n, t, pos, input, inProgress, d, out)

	case opgraph.KindLookahead:
		ok, err := e.evalLookahead(n, pos, input, t.caps)
		if err != nil {
			return err
		}
		if ok {
			return e.expand(thread{node: n.Next[0], caps: t.caps, counters: t.counters, startPos: t.startPos}, pos, input, inProgress, d, out)
		}
		return nil

	default:
		return nil
	}
}

// expandRepeat expands a Repeat node's two epsilon edges (body, exit),
// gating each on the iteration count already taken. For a node with no
// real bound (`*`/`+`-shaped: Begin == 0 and End unbounded) both edges are
// always available regardless of how many times the body has already run,
// so the counter is deliberately left untouched rather than threaded and
// incremented forever — an ever-growing counter value would make every
// iteration's configuration compare unequal to the last, which defeats
// the hashing dedup's NFA-node-count bound on exactly the patterns
// (unbounded greedy/lazy loops) it exists to bound.
func (e *Engine) expandRepeat(n *opgraph.Node, t thread, pos int, input []rune, inProgress map[int]bool, d *dedup, out *[]thread) error {
	exit, body := n.Next[0], n.Next[1]
	bounded := n.Begin > 0 || n.End != opgraph.NoUpperBound
	count := t.counters[n.ID]

	inProgress[n.ID] = true
	defer delete(inProgress, n.ID)

	tryBody := func() error {
		if bounded && n.End != opgraph.NoUpperBound && count >= n.End {
			return nil
		}
		counters := t.counters
		if bounded {
			counters = cloneCounters(t.counters)
			counters[n.ID] = count + 1
		}
		return e.expand(thread{node: body, caps: t.caps.Clone(), counters: counters, startPos: t.startPos}, pos, input, inProgress, d, out)
	}
	tryExit := func() error {
		if bounded && count < n.Begin {
			return nil
		}
		counters := t.counters
		if bounded {
			counters = cloneCounters(t.counters)
			counters[n.ID] = 0
		}
		return e.expand(thread{node: exit, caps: t.caps.Clone(), counters: counters, startPos: t.startPos}, pos, input, inProgress, d, out)
	}

	if n.Lazy {
		if err := tryExit(); err != nil {
			return err
		}
		return tryBody()
	}
	if err := tryBody(); err != nil {
		return err
	}
	return tryExit()
}

// evalLookahead runs a nested, anchored attempt over the lookaround
// sub-graph and reports whether it matched n.Equal, mirroring the
// backtracking engine's treatment of lookaround as a zero-width oracle
// whose own captures are discarded.
func (e *Engine) evalLookahead(n *opgraph.Node, pos int, input []rune, caps *groups.Captures) (bool, error) {
	testInput := input
	testPos := pos
	if !n.Forwards {
		testInput = reverseRunes(input[:pos])
		testPos = 0
	}
	sub := &Engine{
		graph:    &opgraph.Graph{Entry: n.Next[1], NumGroups: caps.Len()},
		alphabet: e.alphabet,
		cfg:      Config{Mode: ModeWide, Hashing: e.cfg.Hashing, BeamWidth: e.cfg.BeamWidth, MaxBeamDoublings: e.cfg.MaxBeamDoublings},
	}
	var stats Stats
	_, matched, err := sub.runAnchored(testInput, testPos, &stats)
	if err != nil {
		return false, err
	}
	return matched == n.Equal, nil
}

func reverseRunes(in []rune) []rune {
	out := make([]rune, len(in))
	for i, r := range in {
		out[len(in)-1-i] = r
	}
	return out
}

// endOfLineMatches reports whether pos sits at a $ boundary: end of text,
// or (in multiline mode) just before any '\n', or just before a trailing
// '\n' that ends the text even outside multiline mode.
func endOfLineMatches(input []rune, pos int, multiline bool) bool {
	if pos == len(input) {
		return true
	}
	if input[pos] != '\n' {
		return false
	}
	return multiline || pos == len(input)-1
}

// stepThread consumes one rune for a leaf thread produced by expand,
// closing the result's epsilon-closure into next.
func (e *Engine) stepThread(t thread, r rune, pos int, input []rune, d *dedup, next *[]thread) error {
	if t.pendingText != nil {
		if t.pendingText[0] != r {
			return nil
		}
		if len(t.pendingText) == 1 {
			return e.expand(thread{node: t.pendingNext, caps: t.caps, counters: t.counters, startPos: t.startPos}, pos+1, input, map[int]bool{}, d, next)
		}
		rest := thread{pendingText: t.pendingText[1:], pendingNext: t.pendingNext, caps: t.caps, counters: t.counters, startPos: t.startPos}
		if d.admit(fmt.Sprintf("P%d:%d:%s", rest.pendingNext.ID, len(rest.pendingText), counterKey(rest.counters))) {
			*next = append(*next, rest)
		}
		return nil
	}

	n := t.node
	var matched bool
	switch n.Kind {
	case opgraph.KindCharacter:
		matched = e.characterMatches(n, r)
	case opgraph.KindDot:
		matched = n.Multiline || r != '\n'
	case opgraph.KindDigit:
		matched = e.alphabet.Digit(r) != n.Inverted
	case opgraph.KindSpace:
		matched = e.alphabet.Space(r) != n.Inverted
	case opgraph.KindWord:
		matched = e.alphabet.Word(r) != n.Inverted
	default:
		return nil
	}
	if !matched {
		return nil
	}
	return e.expand(thread{node: n.Next[0], caps: t.caps, counters: t.counters, startPos: t.startPos}, pos+1, input, map[int]bool{}, d, next)
}

func (e *Engine) characterMatches(n *opgraph.Node, r rune) bool {
	code := e.alphabet.CharToCode(r)
	match := n.Intervals != nil && n.Intervals.Contains(code)
	for _, ct := range n.ClassTest {
		var classMatch bool
		switch ct.Class {
		case opgraph.PredicateDigit:
			classMatch = e.alphabet.Digit(r)
		case opgraph.PredicateSpace:
			classMatch = e.alphabet.Space(r)
		case opgraph.PredicateWord:
			classMatch = e.alphabet.Word(r)
		}
		if ct.Invert {
			classMatch = !classMatch
		}
		match = match || classMatch
	}
	if n.Inverted {
		match = !match
	}
	return match
}
