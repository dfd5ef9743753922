package opgraph

import "fmt"

// Graph is the compiled operation graph for one pattern: an entry node plus
// every node reachable from it. Graphs are built once by the parser and
// then shared, read-only, across every engine invocation and every call to
// Match/Search on the resulting pattern.
type Graph struct {
	Entry     *Node
	NumGroups int // number of capturing groups, including group 0 (the whole match)
	nextID    int
}

// NewGraph creates an empty graph ready for node allocation.
func NewGraph() *Graph {
	return &Graph{NumGroups: 1}
}

// Alloc returns a fresh, graph-unique node identity. Every New* constructor
// in this package takes an explicit id so callers control allocation order
// deterministically (needed for loop-unroll cloning, which must mint new
// IDs for cloned sub-graphs without touching the original's).
func (g *Graph) Alloc() int {
	id := g.nextID
	g.nextID++
	return id
}

// ValidationError reports a structural defect found by Validate.
type ValidationError struct {
	Reason string
	NodeID int
}

func (e *ValidationError) Error() string {
	if e.NodeID >= 0 {
		return fmt.Sprintf("opgraph: invalid graph at node %d: %s", e.NodeID, e.Reason)
	}
	return fmt.Sprintf("opgraph: invalid graph: %s", e.Reason)
}

// Validate checks the structural invariants every engine relies on:
//
//   - the graph has a single entry point;
//   - every path from the entry eventually reaches a Match or NoMatch node
//     (no dead ends, no edge pointing at a nil Node);
//   - a Repeat node's body edge either statically consumes input or passes
//     through a Checkpoint, unless permissive is set — an unguarded
//     zero-width loop body would let the backtracking and parallel engines
//     spin forever re-visiting the same input position.
//
// permissive exists for patterns like `(a?)*` where the Checkpoint
// node itself (inserted by the parser) is what breaks the loop at runtime
// rather than at graph-validation time; callers that have already inserted
// such a guard pass permissive=true to skip the static body-consumes check.
func (g *Graph) Validate(permissive bool) error {
	if g.Entry == nil {
		return &ValidationError{Reason: "graph has no entry node", NodeID: -1}
	}
	visited := make(map[int]bool)
	var walk func(n *Node) error
	walk = func(n *Node) error {
		if n == nil {
			return &ValidationError{Reason: "nil node reached via an edge", NodeID: -1}
		}
		if visited[n.ID] {
			return nil
		}
		visited[n.ID] = true

		if n.Kind == KindRepeat && !permissive {
			if len(n.Next) < 2 {
				return &ValidationError{Reason: "Repeat node missing body edge", NodeID: n.ID}
			}
			if err := checkLoopProgress(n.Next[1]); err != nil {
				return &ValidationError{Reason: err.Error(), NodeID: n.ID}
			}
		}
		for _, next := range n.Next {
			if err := walk(next); err != nil {
				return err
			}
		}
		if (n.Kind == KindMatch || n.Kind == KindNoMatch) && len(n.Next) != 0 {
			return &ValidationError{Reason: "terminal node has outgoing edges", NodeID: n.ID}
		}
		return nil
	}
	if err := walk(g.Entry); err != nil {
		return err
	}
	if !reachesTerminal(g.Entry, make(map[int]bool)) {
		return &ValidationError{Reason: "no path from entry reaches Match or NoMatch", NodeID: g.Entry.ID}
	}
	return nil
}

// checkLoopProgress walks forward from a Repeat body entry, failing only if
// every path back to a loop point is zero-width with no Checkpoint. It
// stops descending at the first node that consumes input, is a Checkpoint,
// or is Match/NoMatch; any other node, a nested Split or Repeat included,
// is walked through along every outgoing edge.
func checkLoopProgress(body *Node) error {
	seen := make(map[int]bool)
	var walk func(n *Node) bool
	walk = func(n *Node) bool {
		if n == nil || seen[n.ID] {
			return false
		}
		seen[n.ID] = true
		switch {
		case n.Kind == KindCheckpoint:
			return true
		case n.Consumes == Yes:
			return true
		case n.Kind == KindMatch, n.Kind == KindNoMatch:
			return true
		}
		if len(n.Next) == 0 {
			return false
		}
		for _, next := range n.Next {
			if !walk(next) {
				return false
			}
		}
		return true
	}
	if !walk(body) {
		return fmt.Errorf("repeat body can match zero-width with no checkpoint, risking an infinite loop")
	}
	return nil
}

func reachesTerminal(n *Node, seen map[int]bool) bool {
	if n == nil || seen[n.ID] {
		return false
	}
	seen[n.ID] = true
	if n.Kind == KindMatch || n.Kind == KindNoMatch {
		return true
	}
	for _, next := range n.Next {
		if reachesTerminal(next, seen) {
			return true
		}
	}
	return false
}
