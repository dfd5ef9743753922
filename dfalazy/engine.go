// Package dfalazy implements the on-the-fly ("lazy") DFA engine: rather
// than pre-computing a full determinized automaton, it constructs each
// reachable state the first time a search needs it and caches it for
// reuse, the way the teacher's dfa/lazy package builds byte-indexed DFA
// states from NFA state sets on demand
// (_examples/coregx-coregex/dfa/lazy/state.go, cache.go), generalized
// here from a byte-range NFA to this module's opgraph.Node and from a
// byte alphabet to a rune alphabet.
//
// Every graph node is compiled once, at construction time, into a small
// callable keyed by its Kind (spec.md §4.5); the engine's advance loop
// never re-switches on Kind once built. A dfaState groups every live
// configuration reachable by epsilon transitions from the previous
// state, canonicalized by (node, loop-counters) so that two independently
// reached configuration sets collapse onto one cached state — the
// dedup key deliberately excludes captured text, so GroupReference nodes
// are refused the same way the parallel engine's Hashing flavour refuses
// them (see ErrUnsupportedBackreference).
package dfalazy

import (
	"fmt"
	"sort"

	"github.com/coregx/opgraph"
	"github.com/coregx/opgraph/alphabet"
	"github.com/coregx/opgraph/groups"
)

// configuration is one live position within a dfaState: either parked at a
// graph node, or mid-match on a multi-rune literal (String or a resolved
// GroupReference), exactly as in the parallel engine's thread type — the
// two engines model the same underlying NFA simulation, differing in
// whether they deduplicate by captures (parallel, optionally) or always
// (dfalazy).
type configuration struct {
	node *opgraph.Node

	pendingText []rune
	pendingNext *opgraph.Node

	caps     *groups.Captures
	counters map[int]int
}

// nodeCallable is the pre-compiled form of one graph node: given the
// configuration sitting on that node and the position it sits at, it
// appends the configuration itself to out when the node is a consuming
// leaf or Match, or otherwise expands it into zero or more follow-on
// configurations. The returned error is non-nil only when the expansion
// cannot be carried out (an unsupported backreference, or a failure inside
// a nested lookaround).
type nodeCallable func(e *Engine, cfg configuration, pos int, input []rune, inProgress map[int]bool, out *[]configuration) error

// Engine runs the on-the-fly DFA algorithm against a compiled graph.
type Engine struct {
	graph    *opgraph.Graph
	alphabet alphabet.Alphabet
	cfg      Config
	dispatch map[opgraph.Kind]nodeCallable

	// lookStack records which Lookahead nodes are currently being
	// evaluated, so one Engine instance can service arbitrarily nested
	// lookarounds (each with its own freshly allocated cache in runFrom)
	// without recursively allocating a new Engine per spec.md §4.5's
	// "push and pop the engine's run state onto a private stack"
	// requirement.
	lookStack []int
}

// New builds an on-the-fly DFA engine for graph, compiling its per-Kind
// callable table once up front.
func New(graph *opgraph.Graph, alpha alphabet.Alphabet, cfg Config) *Engine {
	e := &Engine{graph: graph, alphabet: alpha, cfg: cfg}
	e.dispatch = buildDispatchTable()
	return e
}

// Stats reports instrumentation collected during a run.
type Stats struct {
	Ticks       int
	StatesBuilt int
	CacheClears int
}

func cloneCounters(m map[int]int) map[int]int {
	out := make(map[int]int, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// Run attempts an anchored match of graph against input starting exactly
// at startPos, building DFA states on demand and caching them for reuse
// within this call. Like backtrack.Engine.Run and parallel's anchored
// primitive, unanchored search is the caller's responsibility (retry at
// successive start positions, as Pattern.Search does).
func (e *Engine) Run(input []rune, startPos int) (*groups.Captures, *Stats, bool, error) {
	var stats Stats
	caps, ok, err := e.runFrom(e.graph.Entry, e.graph.NumGroups, input, startPos, &stats)
	return caps, &stats, ok, err
}

// runFrom drives the anchored step loop from an arbitrary entry node,
// shared by Run (entry = e.graph.Entry) and evalLookahead (entry = the
// lookaround sub-expression's root).
func (e *Engine) runFrom(entry *opgraph.Node, numGroups int, input []rune, startPos int, stats *Stats) (*groups.Captures, bool, error) {
	c := newCache(e.cfg.MaxStates)

	lastMatch := -1
	var lastCaps *groups.Captures

	cur, err := e.startState(c, entry, numGroups, startPos, input, stats)
	if err != nil {
		return nil, false, err
	}

	for pos := startPos; ; pos++ {
		stats.Ticks++
		st := c.state(cur)
		if st.isMatch {
			caps := st.configs[st.matchConfig].caps.Clone()
			caps.EndGroup(0, pos)
			lastMatch = pos
			lastCaps = caps
		}

		if pos >= len(input) || cur == deadState {
			break
		}

		next, err := e.step(c, cur, input[pos], pos, input, stats)
		if err != nil {
			return nil, false, err
		}
		cur = next
	}

	if lastMatch != -1 {
		return lastCaps, true, nil
	}
	return nil, false, nil
}

// startState builds (or fetches) the cache's initial state: the
// epsilon-closure of entry with a freshly seeded capture set whose group 0
// starts at startPos.
func (e *Engine) startState(c *cache, entry *opgraph.Node, numGroups, startPos int, input []rune, stats *Stats) (stateID, error) {
	seed := configuration{node: entry, caps: groups.NewCaptures(numGroups), counters: map[int]int{}}
	seed.caps.StartGroup(0, startPos)
	var configs []configuration
	if err := e.expand(seed, startPos, input, map[int]bool{}, &configs); err != nil {
		return deadState, err
	}
	return e.internState(c, configs, stats)
}

// evalLookahead runs a nested anchored attempt over the lookaround
// sub-graph rooted at n.Next[1], pushing this Lookahead node's identity
// onto a private stack first so nested invocations do not disturb the
// outer run's sense of "which lookaround is this" — spec.md §4.5's
// "lookaheads push and pop the engine's run state onto a private stack."
// The nested attempt gets its own freshly allocated cache via runFrom, so
// the stack here tracks nesting identity rather than cache ownership.
func (e *Engine) evalLookahead(n *opgraph.Node, pos int, input []rune, caps *groups.Captures) (bool, error) {
	e.lookStack = append(e.lookStack, n.ID)
	defer func() { e.lookStack = e.lookStack[:len(e.lookStack)-1] }()

	testInput, testPos := input, pos
	if !n.Forwards {
		testInput = reverseRunes(input[:pos])
		testPos = 0
	}
	var stats Stats
	_, matched, err := e.runFrom(n.Next[1], caps.Len(), testInput, testPos, &stats)
	if err != nil {
		return false, err
	}
	return matched == n.Equal, nil
}

// step advances from state `from` on rune r, using the cached transition
// if one was already computed for (from, r), and otherwise building the
// next state's configuration set and memoizing it.
func (e *Engine) step(c *cache, from stateID, r rune, pos int, input []rune, stats *Stats) (stateID, error) {
	st := c.state(from)
	if next, ok := st.transitions[r]; ok {
		return next, nil
	}

	// Configurations below the state's first Match have lower priority than
	// that match, so only the ones above it are carried forward.
	live := st.configs
	if st.isMatch {
		live = live[:st.matchConfig]
	}
	var nextConfigs []configuration
	for _, cfg := range live {
		if err := e.consume(cfg, r, pos, input, &nextConfigs); err != nil {
			return deadState, err
		}
	}
	next, err := e.internState(c, nextConfigs, stats)
	if err != nil {
		return deadState, err
	}
	st.transitions[r] = next
	return next, nil
}

// consume tests one configuration against rune r, appending its
// epsilon-closed successor(s) to out if it matches.
func (e *Engine) consume(cfg configuration, r rune, pos int, input []rune, out *[]configuration) error {
	if cfg.pendingText != nil {
		if cfg.pendingText[0] != r {
			return nil
		}
		if len(cfg.pendingText) == 1 {
			return e.expand(configuration{node: cfg.pendingNext, caps: cfg.caps, counters: cfg.counters}, pos+1, input, map[int]bool{}, out)
		}
		*out = append(*out, configuration{pendingText: cfg.pendingText[1:], pendingNext: cfg.pendingNext, caps: cfg.caps, counters: cfg.counters})
		return nil
	}

	n := cfg.node
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
	return e.expand(configuration{node: n.Next[0], caps: cfg.caps, counters: cfg.counters}, pos+1, input, map[int]bool{}, out)
}

// internState canonicalizes configs into a stateKey, returning the cached
// state if one already exists for that key, or building and inserting a
// new one. If the cache is full it is cleared (bounded by
// Config.MaxCacheClears) and construction retried.
func (e *Engine) internState(c *cache, configs []configuration, stats *Stats) (stateID, error) {
	if len(configs) == 0 {
		return deadState, nil
	}
	key := canonicalKey(configs)
	if id, ok := c.get(key); ok {
		return id, nil
	}

	st := &dfaState{configs: configs, matchConfig: -1}
	for i, cfg := range configs {
		if cfg.node != nil && cfg.node.Kind == opgraph.KindMatch {
			st.isMatch = true
			st.matchConfig = i
			break
		}
	}

	id, ok := c.insert(key, st)
	if !ok {
		c.clear()
		stats.CacheClears++
		if c.clears > e.cfg.MaxCacheClears {
			return deadState, ErrCacheThrashing
		}
		id, ok = c.insert(key, st)
		if !ok {
			return deadState, ErrCacheThrashing
		}
	}
	stats.StatesBuilt++
	return id, nil
}

// canonicalKey builds a stateKey from configs' (node, loop-counters)
// signature, sorted so that the same configuration set always produces
// the same key regardless of discovery order — mirroring the teacher's
// ComputeStateKey sort-before-hash approach.
func canonicalKey(configs []configuration) stateKey {
	parts := make([]string, len(configs))
	for i, cfg := range configs {
		if cfg.pendingText != nil {
			parts[i] = fmt.Sprintf("P%d:%d:%s", cfg.pendingNext.ID, len(cfg.pendingText), counterSig(cfg.counters))
		} else {
			parts[i] = fmt.Sprintf("N%d:%s", cfg.node.ID, counterSig(cfg.counters))
		}
	}
	sort.Strings(parts)
	key := ""
	for _, p := range parts {
		key += p + "|"
	}
	return stateKey(key)
}

func counterSig(counters map[int]int) string {
	if len(counters) == 0 {
		return ""
	}
	ids := make([]int, 0, len(counters))
	for id := range counters {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	s := ""
	for _, id := range ids {
		s += fmt.Sprintf("%d:%d;", id, counters[id])
	}
	return s
}

// expand performs the epsilon-closure of one seed configuration, exactly
// as the parallel engine's expand does, but dispatching through the
// pre-compiled per-Kind callable table instead of a direct switch.
func (e *Engine) expand(cfg configuration, pos int, input []rune, inProgress map[int]bool, out *[]configuration) error {
	if cfg.pendingText != nil {
		*out = append(*out, cfg)
		return nil
	}
	fn, ok := e.dispatch[cfg.node.Kind]
	if !ok {
		return nil
	}
	return fn(e, cfg, pos, input, inProgress, out)
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

func reverseRunes(in []rune) []rune {
	out := make([]rune, len(in))
	for i, r := range in {
		out[len(in)-1-i] = r
	}
	return out
}
