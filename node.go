// Package opgraph implements the operation graph: the tagged-node
// intermediate representation produced once from a parsed pattern and
// shared, read-only, by every matching engine.
//
// A Node is the graph's single concrete type; its Kind selects which of the
// variant-specific fields and Next edges are meaningful, mirroring the way
// the teacher package represents NFA states as one struct keyed by a Kind
// enum rather than as a Go interface per variant — dispatch in the engines
// switches on Kind exactly as nfa.State.Kind() is switched on there.
package opgraph

import (
	"fmt"

	"github.com/coregx/opgraph/intervalset"
)

// Tri is a tri-state hint: yes, no, or unknown.
type Tri uint8

const (
	Unknown Tri = iota
	Yes
	No
)

// Kind identifies a Node variant. The complete set matches spec.md §3's
// table of graph node variants.
type Kind uint8

const (
	KindString Kind = iota
	KindCharacter
	KindDot
	KindStartOfLine
	KindEndOfLine
	KindWordBoundary
	KindDigit
	KindSpace
	KindWord
	KindStartGroup
	KindEndGroup
	KindGroupReference
	KindMatch
	KindNoMatch
	KindSplit
	KindRepeat
	KindLookahead
	KindConditional
	KindCheckpoint
)

func (k Kind) String() string {
	names := [...]string{
		"String", "Character", "Dot", "StartOfLine", "EndOfLine",
		"WordBoundary", "Digit", "Space", "Word", "StartGroup", "EndGroup",
		"GroupReference", "Match", "NoMatch", "Split", "Repeat", "Lookahead",
		"Conditional", "Checkpoint",
	}
	if int(k) < len(names) {
		return names[k]
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

// Node is one vertex of the operation graph. Common fields (Next, Consumes,
// Size) apply to every variant; the rest are meaningful only for the Kind
// that documents them. Nodes are immutable once the graph is built and are
// shared by reference across every engine invocation.
type Node struct {
	ID   int // identity distinct from structural equality, per spec.md §9
	Kind Kind

	// Next holds outgoing edges. By convention Next[0] is the
	// success/continue edge; Next[1], when present, is the branch/body
	// edge. Split may hold more than two alternatives in priority order.
	Next []*Node

	Consumes Tri // does this node advance the input on success?
	Size     int // characters consumed on success, -1 if not statically known

	// KindString
	Text []rune

	// KindCharacter
	Intervals *intervalset.Set
	ClassTest []ClassPredicate
	Inverted  bool
	Complete  bool

	// KindDot, KindStartOfLine, KindEndOfLine
	Multiline bool

	// KindWordBoundary, KindDigit, KindSpace, KindWord share Inverted above.

	// KindStartGroup, KindEndGroup, KindGroupReference, KindConditional
	Group int

	// KindSplit, KindConditional
	Label string

	// KindRepeat
	Begin, End int // End == -1 means unbounded
	Lazy       bool

	// KindLookahead
	Equal    bool
	Forwards bool
}

// ClassPredicate names one of the class tests a Character node may combine,
// together with whether the test result should be inverted before being
// OR-ed into the node's overall match decision (spec.md §3's Character
// variant: "classes is a list of (class, label, invert) triplets").
type ClassPredicate struct {
	Class  PredicateClass
	Invert bool
}

// PredicateClass identifies which alphabet predicate a ClassPredicate
// tests.
type PredicateClass uint8

const (
	PredicateDigit PredicateClass = iota
	PredicateSpace
	PredicateWord
)

// NoUpperBound marks a Repeat node's End field as unbounded ({n,}).
const NoUpperBound = -1

// NewNode allocates a Node of the given kind with the given identity. The
// identity (ID) is distinct from structural equality: two String nodes with
// the same text are not the same Node unless they share an ID, which
// matters when cloning sub-graphs for loop unrolling (spec.md §9).
func NewNode(id int, kind Kind) *Node {
	return &Node{ID: id, Kind: kind, Consumes: Unknown, Size: -1}
}

// String node constructor.
func NewString(id int, text []rune) *Node {
	n := NewNode(id, KindString)
	n.Text = text
	n.Consumes = Yes
	n.Size = len(text)
	return n
}

// NewCharacter builds a Character node over the given interval set. Callers
// append class predicates with AddClass afterward.
func NewCharacter(id int, intervals *intervalset.Set) *Node {
	n := NewNode(id, KindCharacter)
	n.Intervals = intervals
	n.Consumes = Yes
	n.Size = 1
	return n
}

// AddClass appends a class predicate to a Character node, marking it
// Complete when a class and its inverse are both present; both predicates
// are kept, so the node's class tests then accept every character (mirrors
// the teacher-grounded original's append_class de-duplication logic).
func (n *Node) AddClass(class PredicateClass, invert bool) {
	for _, existing := range n.ClassTest {
		if existing.Class == class {
			if existing.Invert == invert {
				return
			}
			n.Complete = true
		}
	}
	n.ClassTest = append(n.ClassTest, ClassPredicate{Class: class, Invert: invert})
}

// NewMatch, NewNoMatch, NewCheckpoint are terminal/near-terminal nodes with
// no variant-specific state beyond their Kind.
func NewMatch(id int) *Node      { n := NewNode(id, KindMatch); n.Consumes = No; n.Size = 0; return n }
func NewNoMatch(id int) *Node    { n := NewNode(id, KindNoMatch); n.Consumes = No; n.Size = 0; return n }
func NewCheckpoint(id int) *Node { n := NewNode(id, KindCheckpoint); n.Consumes = No; n.Size = 0; return n }

// NewSplit builds an alternation node; alternatives are appended to Next in
// priority order by the caller (Next[0] highest priority).
func NewSplit(id int, label string) *Node {
	n := NewNode(id, KindSplit)
	n.Label = label
	return n
}

// NewRepeat builds a counted-repetition node. Next[0] must be set to the
// exit edge and Next[1] to the body edge by the caller once both are known.
func NewRepeat(id int, begin, end int, lazy bool) *Node {
	n := NewNode(id, KindRepeat)
	n.Begin, n.End, n.Lazy = begin, end, lazy
	return n
}

// NewLookahead builds a zero-width lookaround node. Next[0] is the
// continuation, Next[1] the sub-expression.
func NewLookahead(id int, equal, forwards bool) *Node {
	n := NewNode(id, KindLookahead)
	n.Equal, n.Forwards = equal, forwards
	n.Consumes = No
	n.Size = 0
	return n
}

// NewConditional builds a group-existence branch. Next[0] is the "absent"
// edge, Next[1] the "present" edge.
func NewConditional(id, group int, label string) *Node {
	n := NewNode(id, KindConditional)
	n.Group, n.Label = group, label
	return n
}

// NewStartGroup, NewEndGroup, NewGroupReference construct group-indexed
// nodes.
func NewStartGroup(id, group int) *Node {
	n := NewNode(id, KindStartGroup)
	n.Group = group
	n.Consumes = No
	n.Size = 0
	return n
}

func NewEndGroup(id, group int) *Node {
	n := NewNode(id, KindEndGroup)
	n.Group = group
	n.Consumes = No
	n.Size = 0
	return n
}

func NewGroupReference(id, group int) *Node {
	n := NewNode(id, KindGroupReference)
	n.Group = group
	return n
}

// NewDot, NewStartOfLine, NewEndOfLine construct line/character anchors.
func NewDot(id int, multiline bool) *Node {
	n := NewNode(id, KindDot)
	n.Multiline = multiline
	n.Consumes = Yes
	n.Size = 1
	return n
}

func NewStartOfLine(id int, multiline bool) *Node {
	n := NewNode(id, KindStartOfLine)
	n.Multiline = multiline
	n.Consumes = No
	n.Size = 0
	return n
}

func NewEndOfLine(id int, multiline bool) *Node {
	n := NewNode(id, KindEndOfLine)
	n.Multiline = multiline
	n.Consumes = No
	n.Size = 0
	return n
}

// NewWordBoundary, NewDigit, NewSpace, NewWord construct escape-class nodes.
func NewWordBoundary(id int, inverted bool) *Node {
	n := NewNode(id, KindWordBoundary)
	n.Inverted = inverted
	n.Consumes = No
	n.Size = 0
	return n
}

func NewDigit(id int, inverted bool) *Node {
	n := NewNode(id, KindDigit)
	n.Inverted = inverted
	n.Consumes = Yes
	n.Size = 1
	return n
}

func NewSpace(id int, inverted bool) *Node {
	n := NewNode(id, KindSpace)
	n.Inverted = inverted
	n.Consumes = Yes
	n.Size = 1
	return n
}

func NewWord(id int, inverted bool) *Node {
	n := NewNode(id, KindWord)
	n.Inverted = inverted
	n.Consumes = Yes
	n.Size = 1
	return n
}

// String renders a short human-readable form of the node, for debugging and
// graph dumps — mirrors nfa.State.String() in the teacher.
func (n *Node) String() string {
	switch n.Kind {
	case KindString:
		return fmt.Sprintf("Node(%d, String %q)", n.ID, string(n.Text))
	case KindCharacter:
		return fmt.Sprintf("Node(%d, Character %s)", n.ID, n.Intervals)
	case KindSplit:
		return fmt.Sprintf("Node(%d, Split %q, %d alts)", n.ID, n.Label, len(n.Next))
	case KindRepeat:
		return fmt.Sprintf("Node(%d, Repeat{%d,%d} lazy=%v)", n.ID, n.Begin, n.End, n.Lazy)
	case KindMatch:
		return fmt.Sprintf("Node(%d, Match)", n.ID)
	case KindNoMatch:
		return fmt.Sprintf("Node(%d, NoMatch)", n.ID)
	default:
		return fmt.Sprintf("Node(%d, %s)", n.ID, n.Kind)
	}
}
