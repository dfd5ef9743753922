// Package backtrack implements the backtracking matching engine: an
// explicit-stack trampoline interpreter over an opgraph.Graph, in the
// spirit of a classic recursive-backtracking regex matcher but rewritten
// iteratively so a deeply nested alternative stack cannot overflow the Go
// call stack.
//
// The interpreter style (dispatch on node Kind inside one flat loop, with a
// side stack of choice points to resume on failure) follows the shape of
// the teacher's trampoline in
// _examples/coregx-coregex/nfa/backtrack.go, generalized from that
// package's fixed NFA state representation to this module's opgraph.Node.
package backtrack

import (
	"github.com/coregx/opgraph"
	"github.com/coregx/opgraph/alphabet"
	"github.com/coregx/opgraph/groups"
)

// Engine runs the backtracking algorithm against a compiled graph.
type Engine struct {
	graph    *opgraph.Graph
	alphabet alphabet.Alphabet
	cfg      Config
}

// New builds a backtracking engine for graph. The alphabet is used to
// evaluate WordBoundary/Digit/Space/Word class tests that don't already
// carry their own interval set.
func New(graph *opgraph.Graph, alpha alphabet.Alphabet, cfg Config) *Engine {
	return &Engine{graph: graph, alphabet: alpha, cfg: cfg}
}

// Stats reports instrumentation collected during a run when
// Config.CollectStats is enabled.
type Stats struct {
	Ticks    int
	MaxDepth int
}

// frameKind distinguishes the two shapes of choice point this engine
// pushes.
type frameKind uint8

const (
	frameAlt        frameKind = iota // generic Split: try the next entry in alts
	frameCompressed                  // a run of greedy single-node repeats, compressed to O(1)
)

type frame struct {
	kind frameKind

	// frameAlt
	alts     []*opgraph.Node
	altIndex int

	// frameCompressed: body was applied `count` times starting at entryPos,
	// each application consuming exactly `step` input positions (1 for a
	// single-rune body, len(Text) for a merged literal run); backtracking
	// retries with one fewer application instead of popping a frame per
	// application, keeping a `.*x`- or `(?:abc)*x`-shaped pattern at O(1)
	// stack depth regardless of input length.
	body     *opgraph.Node
	minCount int
	count    int
	step     int
	entryPos int

	// Common: state to restore when this frame is tried.
	next        *opgraph.Node
	captures    *groups.Captures
	counters    map[int]int // Repeat-node-ID -> iterations already taken, snapshotted
	checkpoints map[int]int // Checkpoint-node-ID -> offset last seen there, snapshotted
}

func cloneIntMap(m map[int]int) map[int]int {
	out := make(map[int]int, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// Run attempts to match graph starting exactly at startPos (an anchored
// attempt, as used by Match and by Search's per-position retry loop). It
// returns the finished capture set on success.
func (e *Engine) Run(input []rune, startPos int) (*groups.Captures, *Stats, bool) {
	caps := groups.NewCaptures(e.graph.NumGroups)
	caps.StartGroup(0, startPos)

	var stats Stats
	stack := make([]frame, 0, 32)
	node := e.graph.Entry
	pos := startPos
	counters := make(map[int]int)
	checkpoints := make(map[int]int)

	backtrack := func() (*opgraph.Node, int, *groups.Captures, map[int]int, map[int]int, bool) {
		for len(stack) > 0 {
			top := &stack[len(stack)-1]
			switch top.kind {
			case frameAlt:
				if top.altIndex < len(top.alts) {
					alt := top.alts[top.altIndex]
					top.altIndex++
					return alt, top.pos(), top.captures.Clone(), cloneIntMap(top.counters), cloneIntMap(top.checkpoints), true
				}
				stack = stack[:len(stack)-1]
			case frameCompressed:
				// The frame stays on the stack across repeated decrements —
				// this is what keeps a run of N greedy single-char
				// iterations at O(1) stack depth instead of one popped
				// frame per character.
				if top.count > top.minCount {
					top.count--
					retryPos := top.entryPos + top.count*top.step
					return top.next, retryPos, top.captures.Clone(), cloneIntMap(top.counters), cloneIntMap(top.checkpoints), true
				}
				stack = stack[:len(stack)-1]
			}
		}
		return nil, 0, nil, nil, nil, false
	}

	for {
		if e.cfg.CollectStats {
			stats.Ticks++
			if len(stack) > stats.MaxDepth {
				stats.MaxDepth = len(stack)
			}
		}
		if len(stack) > e.cfg.MaxStackDepth {
			return nil, &stats, false
		}

		var ok bool
		node, pos, ok = e.step(node, pos, input, caps, counters, checkpoints, &stack)
		if ok {
			continue
		}
		if node == matchSignal {
			caps.EndGroup(0, pos)
			return caps, &stats, true
		}
		// fail: pop a choice point
		var restored *groups.Captures
		node, pos, restored, counters, checkpoints, ok = backtrack()
		if !ok {
			return nil, &stats, false
		}
		caps = restored
	}
}

// matchSignal is a sentinel returned by step to tell Run the Match node was
// reached without needing a type assertion on every iteration.
var matchSignal = &opgraph.Node{ID: -1, Kind: opgraph.KindMatch}

// step executes exactly one node and returns the next (node, pos) to
// continue with, or ok=false if the current node failed outright (no
// further choice points of its own to offer — the caller must backtrack).
func (e *Engine) step(n *opgraph.Node, pos int, input []rune, caps *groups.Captures, counters, checkpoints map[int]int, stack *[]frame) (*opgraph.Node, int, bool) {
	switch n.Kind {
	case opgraph.KindMatch:
		return matchSignal, pos, true
	case opgraph.KindNoMatch:
		return nil, pos, false

	case opgraph.KindString:
		if matchLiteral(input, pos, n.Text) {
			clear(checkpoints)
			return n.Next[0], pos + len(n.Text), true
		}
		return nil, pos, false

	case opgraph.KindCharacter:
		if pos < len(input) && e.characterMatches(n, input[pos]) {
			clear(checkpoints)
			return n.Next[0], pos + 1, true
		}
		return nil, pos, false

	case opgraph.KindDot:
		if pos < len(input) && (n.Multiline || input[pos] != '\n') {
			clear(checkpoints)
			return n.Next[0], pos + 1, true
		}
		return nil, pos, false

	case opgraph.KindDigit:
		if pos < len(input) && e.alphabet.Digit(input[pos]) != n.Inverted {
			clear(checkpoints)
			return n.Next[0], pos + 1, true
		}
		return nil, pos, false
	case opgraph.KindSpace:
		if pos < len(input) && e.alphabet.Space(input[pos]) != n.Inverted {
			clear(checkpoints)
			return n.Next[0], pos + 1, true
		}
		return nil, pos, false
	case opgraph.KindWord:
		if pos < len(input) && e.alphabet.Word(input[pos]) != n.Inverted {
			clear(checkpoints)
			return n.Next[0], pos + 1, true
		}
		return nil, pos, false

	case opgraph.KindStartOfLine:
		if pos == 0 || (n.Multiline && pos > 0 && input[pos-1] == '\n') {
			return n.Next[0], pos, true
		}
		return nil, pos, false
	case opgraph.KindEndOfLine:
		if endOfLineMatches(input, pos, n.Multiline) {
			return n.Next[0], pos, true
		}
		return nil, pos, false

	case opgraph.KindWordBoundary:
		if e.atWordBoundary(input, pos) != n.Inverted {
			return n.Next[0], pos, true
		}
		return nil, pos, false

	case opgraph.KindStartGroup:
		caps.StartGroup(n.Group, pos)
		return n.Next[0], pos, true
	case opgraph.KindEndGroup:
		caps.EndGroup(n.Group, pos)
		return n.Next[0], pos, true

	case opgraph.KindGroupReference:
		sp := caps.Span(n.Group)
		if sp.Unset() {
			return n.Next[0], pos, true // unmatched group reference matches empty, per common engines
		}
		text := sliceFor(input, sp)
		if matchLiteral(input, pos, text) {
			if len(text) > 0 {
				clear(checkpoints)
			}
			return n.Next[0], pos + len(text), true
		}
		return nil, pos, false

	case opgraph.KindCheckpoint:
		// A checkpoint revisited at the same offset with nothing consumed
		// in between means some loop body matched empty and looped back to
		// here without making progress: fail this path rather than spin,
		// so the caller backtracks to the loop's exit alternative.
		if last, seen := checkpoints[n.ID]; seen && last == pos {
			return nil, pos, false
		}
		checkpoints[n.ID] = pos
		return n.Next[0], pos, true

	case opgraph.KindSplit:
		if len(n.Next) == 0 {
			return nil, pos, false
		}
		if len(n.Next) > 1 {
			*stack = append(*stack, frame{
				kind:        frameAlt,
				alts:        n.Next[1:],
				captures:    caps.Clone(),
				counters:    cloneIntMap(counters),
				checkpoints: cloneIntMap(checkpoints),
				next:        nil,
				entryPos:    pos,
			})
		}
		return n.Next[0], pos, true

	case opgraph.KindRepeat:
		return e.stepRepeat(n, pos, input, caps, counters, checkpoints, stack)

	case opgraph.KindConditional:
		if caps.Span(n.Group).Unset() {
			return n.Next[0], pos, true
		}
		return n.Next[1], pos, true

	case opgraph.KindLookahead:
		return e.stepLookahead(n, pos, input, caps)

	default:
		return nil, pos, false
	}
}

func (f *frame) pos() int { return f.entryPos }

// endOfLineMatches implements `$`: end of text, immediately before a
// multiline-mode newline, or immediately before the newline that ends the
// text even without multiline — matching the original engine's end_of_line,
// which treats a trailing "\n" as always anchorable regardless of mode.
func endOfLineMatches(input []rune, pos int, multiline bool) bool {
	if pos == len(input) {
		return true
	}
	if input[pos] != '\n' {
		return false
	}
	return multiline || pos == len(input)-1
}

func sliceFor(input []rune, sp groups.Span) []rune {
	return input[sp.Start:sp.End]
}

func matchLiteral(input []rune, pos int, text []rune) bool {
	if pos+len(text) > len(input) {
		return false
	}
	for i, r := range text {
		if input[pos+i] != r {
			return false
		}
	}
	return true
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

func (e *Engine) atWordBoundary(input []rune, pos int) bool {
	before := pos > 0 && e.alphabet.Word(input[pos-1])
	after := pos < len(input) && e.alphabet.Word(input[pos])
	return before != after
}

// stepLookahead runs a fresh, nested match attempt for the lookaround
// sub-graph rooted at n.Next[1] and only consults its success/failure —
// captures made inside the lookaround are discarded per spec.md's
// zero-width semantics, matching the original engine's lookahead handling.
func (e *Engine) stepLookahead(n *opgraph.Node, pos int, input []rune, caps *groups.Captures) (*opgraph.Node, int, bool) {
	testPos := pos
	testInput := input
	if !n.Forwards {
		// Lookbehind: run the sub-graph against the reversed prefix so a
		// left-to-right matcher can test "ends here" by testing "starts
		// here" on reversed input, then undo the reversal for the
		// continuation position (which is unaffected; lookbehind is
		// zero-width either way).
		testInput = reverseRunes(input[:pos])
		testPos = 0
	}
	sub := &Engine{graph: &opgraph.Graph{Entry: n.Next[1], NumGroups: caps.Len()}, alphabet: e.alphabet, cfg: e.cfg}
	_, _, matched := sub.Run(testInput, testPos)
	if matched == n.Equal {
		return n.Next[0], pos, true
	}
	return nil, pos, false
}

func reverseRunes(in []rune) []rune {
	out := make([]rune, len(in))
	for i, r := range in {
		out[len(in)-1-i] = r
	}
	return out
}

// isSimpleLoopBody reports whether n is a single node with a statically
// known, fixed consumption width whose only outgoing edge loops directly
// back to the Repeat node that owns it — the shape this engine compresses
// into an O(1)-depth frame instead of pushing one choice point per
// iteration. A single-rune class (Size 1) and a merged literal run
// (Size len(Text)) both qualify; the frame's step field carries whichever
// width applies.
func isSimpleLoopBody(body, repeat *opgraph.Node) bool {
	if body.Kind == opgraph.KindSplit || body.Kind == opgraph.KindRepeat {
		return false
	}
	if body.Consumes != opgraph.Yes || body.Size <= 0 {
		return false
	}
	return len(body.Next) == 1 && body.Next[0] == repeat
}

// stepRepeat implements both the compressed fast path for simple greedy
// loop bodies (e.g. `.*`, `[a-z]+`) and the general case for structured
// bodies (e.g. `(ab)*`), which tracks a per-node iteration count in
// counters and pushes one choice point per iteration up to MaxStackDepth.
// The iteration count travels with each choice point's snapshot so that
// backing out of a later iteration restores the correct count rather than
// the count at the moment of the (single, shared) Repeat node's last visit.
func (e *Engine) stepRepeat(n *opgraph.Node, pos int, input []rune, caps *groups.Captures, counters, checkpoints map[int]int, stack *[]frame) (*opgraph.Node, int, bool) {
	exit, body := n.Next[0], n.Next[1]

	if !n.Lazy && isSimpleLoopBody(body, n) {
		return e.stepCompressedRepeat(n, body, exit, pos, input, caps, counters, checkpoints, stack)
	}

	count := counters[n.ID]

	if count < n.Begin {
		counters[n.ID] = count + 1
		return body, pos, true
	}
	if n.End != opgraph.NoUpperBound && count >= n.End {
		counters[n.ID] = 0
		return exit, pos, true
	}

	if n.Lazy {
		// Prefer stopping here; fall back to one more iteration on backtrack.
		*stack = append(*stack, frame{
			kind: frameAlt, alts: []*opgraph.Node{body}, captures: caps.Clone(),
			counters: cloneCountersWith(counters, n.ID, count+1), checkpoints: cloneIntMap(checkpoints), entryPos: pos,
		})
		counters[n.ID] = 0
		return exit, pos, true
	}

	// Greedy: prefer one more iteration; fall back to stopping on backtrack.
	*stack = append(*stack, frame{
		kind: frameAlt, alts: []*opgraph.Node{exit}, captures: caps.Clone(),
		counters: cloneCountersWith(counters, n.ID, 0), checkpoints: cloneIntMap(checkpoints), entryPos: pos,
	})
	counters[n.ID] = count + 1
	return body, pos, true
}

func cloneCountersWith(counters map[int]int, id, val int) map[int]int {
	c := cloneIntMap(counters)
	c[id] = val
	return c
}

func (e *Engine) stepCompressedRepeat(n, body, exit *opgraph.Node, pos int, input []rune, caps *groups.Captures, counters, checkpoints map[int]int, stack *[]frame) (*opgraph.Node, int, bool) {
	step := body.Size
	count := 0
	cur := pos
	maxCount := n.End
	for (maxCount == opgraph.NoUpperBound || count < maxCount) && cur+step <= len(input) {
		if !e.bodyConsumesAt(body, input, cur) {
			break
		}
		cur += step
		count++
	}
	if count < n.Begin {
		return nil, pos, false
	}
	if count > 0 {
		clear(checkpoints)
		*stack = append(*stack, frame{
			kind:        frameCompressed,
			body:        body,
			minCount:    n.Begin,
			count:       count,
			step:        step,
			entryPos:    pos,
			next:        exit,
			captures:    caps.Clone(),
			counters:    cloneIntMap(counters),
			checkpoints: cloneIntMap(checkpoints),
		})
	}
	return exit, cur, true
}

// bodyConsumesAt evaluates a loop-body leaf node's match predicate at a
// fixed input offset without advancing any engine state, used by the
// compressed-repeat fast path to scan ahead greedily before committing to a
// choice-point record. A String body matches its whole merged literal run
// in one step; every other kind is the existing single-rune predicate.
func (e *Engine) bodyConsumesAt(body *opgraph.Node, input []rune, pos int) bool {
	if body.Kind == opgraph.KindString {
		return matchLiteral(input, pos, body.Text)
	}
	return e.characterConsumes(body, input[pos])
}

// characterConsumes evaluates a single-rune loop-body leaf's match
// predicate.
func (e *Engine) characterConsumes(body *opgraph.Node, r rune) bool {
	switch body.Kind {
	case opgraph.KindCharacter:
		return e.characterMatches(body, r)
	case opgraph.KindDot:
		return body.Multiline || r != '\n'
	case opgraph.KindDigit:
		return e.alphabet.Digit(r) != body.Inverted
	case opgraph.KindSpace:
		return e.alphabet.Space(r) != body.Inverted
	case opgraph.KindWord:
		return e.alphabet.Word(r) != body.Inverted
	default:
		return false
	}
}
