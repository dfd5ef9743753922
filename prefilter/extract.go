package prefilter

import "github.com/coregx/opgraph"

// ExtractPrefixes walks a compiled graph's entry node looking for literal
// text every match attempt is required to begin with. It follows the
// teacher's own literal-extraction shape (meta/strategy.go's required-
// prefix analysis): a leading String node contributes its text directly; a
// leading Split contributes the union of each alternative's own required
// prefix, but only if every alternative has one — one literal-free
// alternative means the pattern as a whole has no required prefix. Any
// other leading node kind (Character, Dot, a class, an anchor, a Repeat
// that can match zero times, …) means no literal is required, and
// ExtractPrefixes returns nil.
func ExtractPrefixes(g *opgraph.Graph) []Literal {
	if g == nil || g.Entry == nil {
		return nil
	}
	lits, ok := requiredPrefix(g.Entry, make(map[int]bool))
	if !ok {
		return nil
	}
	return lits
}

// requiredPrefix returns the set of literals every path from n is required
// to start with, and whether such a set exists at all.
func requiredPrefix(n *opgraph.Node, seen map[int]bool) ([]Literal, bool) {
	if n == nil || seen[n.ID] {
		return nil, false
	}
	seen[n.ID] = true
	defer delete(seen, n.ID)

	switch n.Kind {
	case opgraph.KindString:
		return []Literal{{Text: n.Text, Complete: followedByMatch(n.Next[0])}}, true

	case opgraph.KindCheckpoint, opgraph.KindStartGroup:
		return requiredPrefix(n.Next[0], seen)

	case opgraph.KindSplit:
		var out []Literal
		for _, alt := range n.Next {
			lits, ok := requiredPrefix(alt, seen)
			if !ok {
				return nil, false
			}
			out = append(out, lits...)
		}
		return out, len(out) > 0

	default:
		return nil, false
	}
}

// followedByMatch reports whether n is (modulo pass-through Checkpoint
// nodes) the graph's Match node, meaning a literal ending here needs no
// further verification from an engine. An EndGroup on the way stops the
// walk: a capture group's span is only recorded by an engine run.
func followedByMatch(n *opgraph.Node) bool {
	for n != nil {
		switch n.Kind {
		case opgraph.KindMatch:
			return true
		case opgraph.KindCheckpoint:
			n = n.Next[0]
		default:
			return false
		}
	}
	return false
}
