package dfalazy

import "github.com/coregx/opgraph"

// buildDispatchTable compiles one nodeCallable per Kind. The table is
// built once per Engine and never touches Kind again during a search —
// every expand call is a single map lookup plus the callable's own logic.
func buildDispatchTable() map[opgraph.Kind]nodeCallable {
	return map[opgraph.Kind]nodeCallable{
		opgraph.KindMatch:    leafCallable,
		opgraph.KindNoMatch:  failCallable,
		opgraph.KindCharacter: leafCallable,
		opgraph.KindDot:       leafCallable,
		opgraph.KindDigit:     leafCallable,
		opgraph.KindSpace:     leafCallable,
		opgraph.KindWord:      leafCallable,

		opgraph.KindString:         stringCallable,
		opgraph.KindGroupReference: groupReferenceCallable,

		opgraph.KindStartOfLine:   startOfLineCallable,
		opgraph.KindEndOfLine:     endOfLineCallable,
		opgraph.KindWordBoundary:  wordBoundaryCallable,
		opgraph.KindStartGroup:    startGroupCallable,
		opgraph.KindEndGroup:      endGroupCallable,
		opgraph.KindCheckpoint:    checkpointCallable,
		opgraph.KindSplit:         splitCallable,
		opgraph.KindConditional:   conditionalCallable,
		opgraph.KindRepeat:        repeatCallable,
		opgraph.KindLookahead:     lookaheadCallable,
	}
}

// leafCallable handles every node kind that is either terminal (Match) or
// a single-rune consuming test (Character/Dot/Digit/Space/Word): the
// closure has nothing more to do than hand the configuration back
// unchanged, since the actual rune test happens later in consume.
func leafCallable(_ *Engine, cfg configuration, _ int, _ []rune, _ map[int]bool, out *[]configuration) error {
	*out = append(*out, cfg)
	return nil
}

func failCallable(_ *Engine, _ configuration, _ int, _ []rune, _ map[int]bool, _ *[]configuration) error {
	return nil
}

func stringCallable(e *Engine, cfg configuration, pos int, input []rune, inProgress map[int]bool, out *[]configuration) error {
	n := cfg.node
	return e.expand(configuration{pendingText: n.Text, pendingNext: n.Next[0], caps: cfg.caps, counters: cfg.counters}, pos, input, inProgress, out)
}

func groupReferenceCallable(e *Engine, cfg configuration, pos int, input []rune, inProgress map[int]bool, out *[]configuration) error {
	n := cfg.node
	sp := cfg.caps.Span(n.Group)
	if sp.Unset() || sp.Start == sp.End {
		return e.expand(configuration{node: n.Next[0], caps: cfg.caps, counters: cfg.counters}, pos, input, inProgress, out)
	}
	return ErrUnsupportedBackreference
}

func startOfLineCallable(e *Engine, cfg configuration, pos int, input []rune, inProgress map[int]bool, out *[]configuration) error {
	n := cfg.node
	if pos == 0 || (n.Multiline && pos > 0 && input[pos-1] == '\n') {
		return e.expand(configuration{node: n.Next[0], caps: cfg.caps, counters: cfg.counters}, pos, input, inProgress, out)
	}
	return nil
}

func endOfLineCallable(e *Engine, cfg configuration, pos int, input []rune, inProgress map[int]bool, out *[]configuration) error {
	n := cfg.node
	if endOfLineMatches(input, pos, n.Multiline) {
		return e.expand(configuration{node: n.Next[0], caps: cfg.caps, counters: cfg.counters}, pos, input, inProgress, out)
	}
	return nil
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

func wordBoundaryCallable(e *Engine, cfg configuration, pos int, input []rune, inProgress map[int]bool, out *[]configuration) error {
	n := cfg.node
	before := pos > 0 && e.alphabet.Word(input[pos-1])
	after := pos < len(input) && e.alphabet.Word(input[pos])
	if (before != after) != n.Inverted {
		return e.expand(configuration{node: n.Next[0], caps: cfg.caps, counters: cfg.counters}, pos, input, inProgress, out)
	}
	return nil
}

func startGroupCallable(e *Engine, cfg configuration, pos int, input []rune, inProgress map[int]bool, out *[]configuration) error {
	n := cfg.node
	caps := cfg.caps.Clone()
	caps.StartGroup(n.Group, pos)
	return e.expand(configuration{node: n.Next[0], caps: caps, counters: cfg.counters}, pos, input, inProgress, out)
}

func endGroupCallable(e *Engine, cfg configuration, pos int, input []rune, inProgress map[int]bool, out *[]configuration) error {
	n := cfg.node
	caps := cfg.caps.Clone()
	caps.EndGroup(n.Group, pos)
	return e.expand(configuration{node: n.Next[0], caps: caps, counters: cfg.counters}, pos, input, inProgress, out)
}

// checkpointCallable joins the same inProgress cycle guard Split/Repeat use:
// a zero-width loop body that closes back on its own checkpoint within one
// epsilon-closure must stop here rather than recurse into the Repeat again.
func checkpointCallable(e *Engine, cfg configuration, pos int, input []rune, inProgress map[int]bool, out *[]configuration) error {
	n := cfg.node
	if inProgress[n.ID] {
		return nil
	}
	inProgress[n.ID] = true
	defer delete(inProgress, n.ID)
	return e.expand(configuration{node: n.Next[0], caps: cfg.caps, counters: cfg.counters}, pos, input, inProgress, out)
}

func splitCallable(e *Engine, cfg configuration, pos int, input []rune, inProgress map[int]bool, out *[]configuration) error {
	n := cfg.node
	if inProgress[n.ID] {
		return nil
	}
	inProgress[n.ID] = true
	defer delete(inProgress, n.ID)
	for _, alt := range n.Next {
		if err := e.expand(configuration{node: alt, caps: cfg.caps.Clone(), counters: cloneCounters(cfg.counters)}, pos, input, inProgress, out); err != nil {
			return err
		}
	}
	return nil
}

func conditionalCallable(e *Engine, cfg configuration, pos int, input []rune, inProgress map[int]bool, out *[]configuration) error {
	n := cfg.node
	branch := n.Next[1]
	if cfg.caps.Span(n.Group).Unset() {
		branch = n.Next[0]
	}
	return e.expand(configuration{node: branch, caps: cfg.caps, counters: cfg.counters}, pos, input, inProgress, out)
}

// repeatCallable expands a Repeat node's body/exit edges. A node with no
// real bound (Begin == 0, End unbounded) leaves cfg.counters untouched for
// this node's ID rather than incrementing it forever: both edges are
// always available regardless of iteration count, and an ever-growing
// counter value would make canonicalKey produce a distinct state on every
// single iteration, defeating the bounded-state-count property that is
// the entire point of this engine.
func repeatCallable(e *Engine, cfg configuration, pos int, input []rune, inProgress map[int]bool, out *[]configuration) error {
	n := cfg.node
	if inProgress[n.ID] {
		return nil
	}
	inProgress[n.ID] = true
	defer delete(inProgress, n.ID)

	exit, body := n.Next[0], n.Next[1]
	bounded := n.Begin > 0 || n.End != opgraph.NoUpperBound
	count := cfg.counters[n.ID]

	tryBody := func() error {
		if bounded && n.End != opgraph.NoUpperBound && count >= n.End {
			return nil
		}
		counters := cfg.counters
		if bounded {
			counters = cloneCounters(cfg.counters)
			counters[n.ID] = count + 1
		}
		return e.expand(configuration{node: body, caps: cfg.caps.Clone(), counters: counters}, pos, input, inProgress, out)
	}
	tryExit := func() error {
		if bounded && count < n.Begin {
			return nil
		}
		counters := cfg.counters
		if bounded {
			counters = cloneCounters(cfg.counters)
			counters[n.ID] = 0
		}
		return e.expand(configuration{node: exit, caps: cfg.caps.Clone(), counters: counters}, pos, input, inProgress, out)
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

func lookaheadCallable(e *Engine, cfg configuration, pos int, input []rune, inProgress map[int]bool, out *[]configuration) error {
	n := cfg.node
	ok, err := e.evalLookahead(n, pos, input, cfg.caps)
	if err != nil {
		return err
	}
	if ok {
		return e.expand(configuration{node: n.Next[0], caps: cfg.caps, counters: cfg.counters}, pos, input, inProgress, out)
	}
	return nil
}
