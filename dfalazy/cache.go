package dfalazy

// stateID identifies a determinized state in the cache. 0 is reserved for
// the dead state (no live configurations, search fails from here).
type stateID int

const deadState stateID = 0

// dfaState is one node of the lazily-constructed determinized automaton: a
// deduplicated, priority-ordered set of configurations plus a memoized
// table of per-rune transitions. Configurations are shared by reference
// (copy-on-write) across every dfaState that was reached by a path not
// yet diverging from another — cloning only happens in expand when a
// zero-width node actually branches.
type dfaState struct {
	id          stateID
	configs     []configuration
	isMatch     bool
	matchConfig int // index into configs of the first (highest-priority) Match, or -1

	// transitions memoizes the next stateID for a rune already seen from
	// this state. It starts empty and fills in as Step encounters new
	// runes — the "lazy" half of "on-the-fly DFA": a transition is
	// computed once per (state, rune) pair no matter how many times that
	// pair recurs across the whole search.
	transitions map[rune]stateID
}

// stateKey canonically identifies a dfaState's configuration set so that
// two independently constructed sets of configurations reaching the same
// (node, loop-counters) pairs collapse onto the same cached state. It
// deliberately excludes capture data — merging on captures would mean
// never merging at all, defeating the point of a bounded DFA state count.
type stateKey string

// cache stores every dfaState discovered so far, keyed by stateKey, with a
// bound on total size and a clear-and-continue policy once that bound is
// hit — grounded on the teacher's dfa/lazy.Cache, generalized from a
// byte-indexed transition table to a rune-indexed one and from an
// NFA-StateID configuration to this module's (node, counters) pairs.
type cache struct {
	byKey   map[stateKey]stateID
	states  []*dfaState
	maxSize int
	clears  int
}

func newCache(maxSize int) *cache {
	c := &cache{maxSize: maxSize}
	c.reset()
	return c
}

func (c *cache) reset() {
	c.byKey = make(map[stateKey]stateID, c.maxSize)
	// states[0] is reserved for deadState and is never looked up by key.
	c.states = make([]*dfaState, 1, c.maxSize+1)
	c.states[0] = &dfaState{id: deadState, transitions: map[rune]stateID{}}
}

func (c *cache) get(key stateKey) (stateID, bool) {
	id, ok := c.byKey[key]
	return id, ok
}

// insert assigns a fresh stateID to st and records it under key. Returns
// false if the cache is at capacity; the caller is expected to clear() and
// retry, counting clears against Config.MaxCacheClears.
func (c *cache) insert(key stateKey, st *dfaState) (stateID, bool) {
	if len(c.states) > c.maxSize {
		return deadState, false
	}
	id := stateID(len(c.states))
	st.id = id
	st.transitions = make(map[rune]stateID)
	c.states = append(c.states, st)
	c.byKey[key] = id
	return id, true
}

func (c *cache) clear() {
	c.clears++
	c.reset()
}

func (c *cache) state(id stateID) *dfaState {
	return c.states[id]
}
